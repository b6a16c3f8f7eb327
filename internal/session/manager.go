package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kanban-board/backend/internal/model"
)

const (
	DefaultCheckInterval = 60 * time.Second
	DefaultExpiryBuffer  = 60 * time.Second
)

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithExpiryBuffer treats a token as expired once less than d remains.
func WithExpiryBuffer(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.buffer = d
		}
	}
}

// WithLogoutHook registers fn to run after every transition from logged in
// to logged out, including the poller's automatic logout.
func WithLogoutHook(fn func()) Option {
	return func(m *Manager) { m.onLogout = fn }
}

// Manager owns the client session. The poller only runs between Start and
// Stop while someone is logged in; each poller carries a generation so a
// stale one never logs out a newer session.
type Manager struct {
	mu       sync.Mutex
	store    Store
	now      func() time.Time
	interval time.Duration
	buffer   time.Duration
	onLogout func()

	state   State
	expires time.Time

	running bool
	gen     uint64
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewManager hydrates the session from store. A persisted token that is
// malformed or within the expiry buffer is cleared from the store.
func NewManager(ctx context.Context, store Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:    store,
		now:      time.Now,
		interval: DefaultCheckInterval,
		buffer:   DefaultExpiryBuffer,
	}
	for _, opt := range opts {
		opt(m)
	}

	st, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if st.Empty() {
		return m, nil
	}

	exp, err := ExpiresAt(st.Token)
	if err != nil || !m.fresh(exp) {
		if err := store.Clear(ctx); err != nil {
			log.Printf("Failed to clear stale session: %v", err)
		}
		return m, nil
	}

	m.state = st
	m.expires = exp
	return m, nil
}

func (m *Manager) fresh(exp time.Time) bool {
	return exp.After(m.now().Add(m.buffer))
}

func (m *Manager) loggedInLocked() bool {
	return !m.state.Empty() && m.fresh(m.expires)
}

func (m *Manager) IsLoggedIn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loggedInLocked()
}

// Token returns the bearer token while the session is valid.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loggedInLocked() {
		return "", false
	}
	return m.state.Token, true
}

func (m *Manager) User() (model.UserSummary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loggedInLocked() {
		return model.UserSummary{}, false
	}
	return m.state.User, true
}

func (m *Manager) ExpiresAt() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loggedInLocked() {
		return time.Time{}, false
	}
	return m.expires, true
}

// Login stores token for user and restarts the poller if it is running.
// Tokens that are malformed or already inside the expiry buffer are refused.
func (m *Manager) Login(ctx context.Context, token string, user model.UserSummary) error {
	exp, err := ExpiresAt(token)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.fresh(exp) {
		return ErrTokenExpired
	}

	st := State{Token: token, User: user}
	if err := m.store.Save(ctx, st); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	m.state = st
	m.expires = exp
	if m.running {
		m.startPollerLocked()
	}
	return nil
}

// Logout is idempotent and never fails; a store error is only logged.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	hook := m.logoutLocked(ctx)
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
}

func (m *Manager) logoutLocked(ctx context.Context) func() {
	wasLoggedIn := !m.state.Empty()
	m.state = State{}
	m.expires = time.Time{}
	m.stopPollerLocked()

	if err := m.store.Clear(ctx); err != nil {
		log.Printf("Failed to clear session: %v", err)
	}
	if !wasLoggedIn {
		return nil
	}
	return m.onLogout
}

// Start launches the expiry poller. Calling it twice is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	if !m.state.Empty() {
		m.startPollerLocked()
	}
}

// Stop halts the poller and waits for it to exit.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.running = false
	m.stopPollerLocked()
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *Manager) startPollerLocked() {
	m.stopPollerLocked()

	stop := make(chan struct{})
	m.stop = stop
	gen := m.gen

	m.wg.Add(1)
	go m.poll(gen, stop)
}

// stopPollerLocked bumps the generation so an in-flight check from the old
// poller sees it is stale.
func (m *Manager) stopPollerLocked() {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	m.gen++
}

func (m *Manager) poll(gen uint64, stop <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if m.check(gen) {
				return
			}
		}
	}
}

// check logs out when the token has expired. It reports whether the poller
// should exit.
func (m *Manager) check(gen uint64) bool {
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return true
	}
	if m.fresh(m.expires) {
		m.mu.Unlock()
		return false
	}

	log.Printf("Session for %s expired, logging out", m.state.User.Username)
	hook := m.logoutLocked(context.Background())
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return true
}
