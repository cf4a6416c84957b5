package authsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time { return c.t }

func TestLoginValidateLogout(t *testing.T) {
	clock := &manualClock{t: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)}
	svc := MustNewAuthService(WithPassword("s3cret"), WithSessionTTL(time.Hour), WithClock(clock.now))

	session, err := svc.Login("s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, clock.t.Add(time.Hour), session.ExpiresAt)

	require.NoError(t, svc.Validate(session.Token))

	svc.Logout(session.Token)
	assert.ErrorIs(t, svc.Validate(session.Token), ErrUnauthorized)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := MustNewAuthService(WithPassword("s3cret"))

	_, err := svc.Login("guess")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NotConfigured(t *testing.T) {
	svc := MustNewAuthService(WithPassword(""))

	_, err := svc.Login("")

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestValidate_Expired(t *testing.T) {
	clock := &manualClock{t: time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)}
	svc := MustNewAuthService(WithPassword("s3cret"), WithSessionTTL(time.Minute), WithClock(clock.now))
	session, err := svc.Login("s3cret")
	require.NoError(t, err)

	clock.t = clock.t.Add(time.Minute)

	assert.ErrorIs(t, svc.Validate(session.Token), ErrUnauthorized)
	assert.ErrorIs(t, svc.Validate("unknown"), ErrUnauthorized)
}
