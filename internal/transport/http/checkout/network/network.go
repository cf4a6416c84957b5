package network

import (
	"encoding/json"
	"net/http"

	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

type signal interface {
	Online() bool
	Forced() (bool, bool)
	Force(online bool)
	Unforce()
}

type statusResponse struct {
	Online bool `json:"online"`
	Forced bool `json:"forced"`
}

type forceRequest struct {
	Online *bool `json:"online"`
}

func status(s signal) statusResponse {
	_, forced := s.Forced()

	return statusResponse{Online: s.Online(), Forced: forced}
}

// GetStatus reports the connectivity signal.
func GetStatus(w http.ResponseWriter, r *http.Request, s signal) {
	respond.JSON(w, r, http.StatusOK, status(s))
}

// Force overrides the connectivity signal.
func Force(w http.ResponseWriter, r *http.Request, s signal) {
	var req forceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, err)

		return
	}
	if req.Online == nil {
		respond.JSON(w, r, http.StatusBadRequest, respond.ErrorBody{Error: "online is required", Fields: []string{"online"}})

		return
	}

	s.Force(*req.Online)
	respond.JSON(w, r, http.StatusOK, status(s))
}

// Reset returns the signal to probing.
func Reset(w http.ResponseWriter, r *http.Request, s signal) {
	s.Unforce()
	respond.JSON(w, r, http.StatusOK, status(s))
}
