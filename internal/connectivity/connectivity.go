// Package connectivity tracks whether the backend is reachable.
package connectivity

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Monitor probes the backend health endpoint and reports the result as the online signal.
// Subscribers are called on every offline to online transition.
type Monitor struct {
	probeURL string
	client   *http.Client
	interval time.Duration

	mu          sync.Mutex
	probed      bool
	forced      *bool
	subscribers []func()

	stopCh chan struct{}
}

// NewMonitor creates a monitor that starts offline until the first successful probe.
func NewMonitor(probeURL string, interval, timeout time.Duration) *Monitor {
	return &Monitor{
		probeURL: probeURL,
		client:   &http.Client{Timeout: timeout},
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// MustNewMonitor creates a monitor from the connectivity.* config keys.
func MustNewMonitor() *Monitor {
	probeURL := viper.GetString("connectivity.probe_url")
	if probeURL == "" {
		base := viper.GetString("sink.base_url")
		if base == "" {
			panic("connectivity.probe_url is not set in config")
		}
		probeURL = base + "/healthz"
	}

	intervalSeconds := viper.GetInt("connectivity.interval_seconds")
	if intervalSeconds == 0 {
		intervalSeconds = 5
	}

	timeoutSeconds := viper.GetInt("connectivity.timeout_seconds")
	if timeoutSeconds == 0 {
		timeoutSeconds = 2
	}

	m := NewMonitor(probeURL, time.Duration(intervalSeconds)*time.Second, time.Duration(timeoutSeconds)*time.Second)
	if viper.IsSet("connectivity.force_online") {
		m.Force(viper.GetBool("connectivity.force_online"))
	}

	return m
}

// Online reports the current signal. A forced value wins over the probe result.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.online()
}

func (m *Monitor) online() bool {
	if m.forced != nil {
		return *m.forced
	}

	return m.probed
}

// Forced returns the override, if any.
func (m *Monitor) Forced() (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.forced == nil {
		return false, false
	}

	return *m.forced, true
}

// Subscribe registers fn for offline to online transitions. fn must not block.
func (m *Monitor) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscribers = append(m.subscribers, fn)
}

// Force overrides the probe result until Unforce is called.
func (m *Monitor) Force(online bool) {
	m.update(func() { m.forced = &online })
}

// Unforce returns to the probe result.
func (m *Monitor) Unforce() {
	m.update(func() { m.forced = nil })
}

func (m *Monitor) setProbed(online bool) {
	m.update(func() { m.probed = online })
}

func (m *Monitor) update(change func()) {
	m.mu.Lock()
	before := m.online()
	change()
	after := m.online()
	subs := make([]func(), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()

	if before == after {
		return
	}

	slog.Info("Connectivity changed", "online", after)
	if after {
		for _, fn := range subs {
			fn()
		}
	}
}

// Probe checks the backend once and records the result.
func (m *Monitor) Probe(ctx context.Context) bool {
	online := m.check(ctx)
	m.setProbed(online)

	return online
}

func (m *Monitor) check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.probeURL, nil)
	if err != nil {
		slog.Error("Failed to build connectivity probe", "error", err)

		return false
	}

	resp, err := m.client.Do(req)
	if err != nil {
		slog.Debug("Connectivity probe failed", "url", m.probeURL, "error", err)

		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Start probes immediately and then on every interval until ctx is done or Stop is called.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	slog.Info("Connectivity monitor started", "probe_url", m.probeURL, "interval", m.interval)
	m.Probe(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Connectivity monitor shutting down")

			return
		case <-m.stopCh:
			slog.Info("Connectivity monitor stopped")

			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}

// Stop stops the probing loop.
func (m *Monitor) Stop() {
	close(m.stopCh)
}
