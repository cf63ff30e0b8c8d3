package session

import (
	"sync"
	"time"
)

// AuthState is the client-side view of the session. User is non-nil exactly
// when Token is present and decodes to well-formed, unexpired claims.
type AuthState struct {
	Token string
	User  *JWTClaims
}

// Authenticated reports whether the state carries resolved claims.
func (s AuthState) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// Holder is the process-wide session state container. It owns token
// persistence, expiry checking on load, and the login/logout mutators, and
// pushes every state change to its subscribers.
type Holder struct {
	mu      sync.Mutex
	storage TokenStorage
	tokens  TokenService
	key     string
	logger  Logger
	now     func() time.Time

	state   AuthState
	subs    map[int]func(AuthState)
	nextSub int
}

// HolderOption customizes Holder construction.
type HolderOption func(*Holder)

// WithHolderClock injects a custom clock (useful for tests).
func WithHolderClock(clock func() time.Time) HolderOption {
	return func(h *Holder) {
		if clock != nil {
			h.now = clock
		}
	}
}

// WithHolderLogger overrides the default logger.
func WithHolderLogger(l Logger) HolderOption {
	return func(h *Holder) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithStorageKey overrides the persistence key.
func WithStorageKey(key string) HolderOption {
	return func(h *Holder) {
		if key != "" {
			h.key = key
		}
	}
}

// NewHolder returns an empty state holder; call Init to hydrate it from
// durable storage.
func NewHolder(storage TokenStorage, tokens TokenService, opts ...HolderOption) *Holder {
	h := &Holder{
		storage: storage,
		tokens:  tokens,
		key:     TokenStorageKey,
		logger:  defLogger{},
		now:     time.Now,
		subs:    map[int]func(AuthState){},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}

	return h
}

// Init reads any previously persisted token and evaluates it. A corrupt or
// expired token clears durable storage and leaves the state fully absent, so
// a broken session self-heals into a logged-out one.
func (h *Holder) Init() AuthState {
	h.mu.Lock()

	raw, err := h.storage.Get(h.key)
	if err != nil {
		h.logger.Error("failed to read persisted token", "error", err)
		raw = ""
	}

	state := h.evaluate(raw)
	h.setStateLocked(state)

	subs, snapshot := h.snapshotLocked()
	h.mu.Unlock()

	notify(subs, snapshot)
	return snapshot
}

// Login persists a freshly minted token and decodes it without an expiry
// check; the token came straight from the issuer so re-validating it would be
// redundant. Callers must only pass tokens received from a successful
// register or login response.
func (h *Holder) Login(token string) error {
	h.mu.Lock()

	if err := h.storage.Set(h.key, token); err != nil {
		h.mu.Unlock()
		return err
	}

	claims, err := h.tokens.Decode(token)
	if err != nil {
		h.mu.Unlock()
		return err
	}

	h.setStateLocked(AuthState{Token: token, User: claims})

	subs, snapshot := h.snapshotLocked()
	h.mu.Unlock()

	notify(subs, snapshot)
	return nil
}

// Logout clears durable storage and resets the state. It is purely local:
// there is no revocation list, so a copy of the token stays valid elsewhere
// until it expires. Calling it repeatedly is harmless.
func (h *Holder) Logout() {
	h.mu.Lock()

	if err := h.storage.Remove(h.key); err != nil {
		h.logger.Error("failed to clear persisted token", "error", err)
	}

	h.setStateLocked(AuthState{})

	subs, snapshot := h.snapshotLocked()
	h.mu.Unlock()

	notify(subs, snapshot)
}

// Refresh re-runs the decode/expiry evaluation against the currently held
// token, mirroring Init. It keeps the user consistent with the token after
// the token may have lapsed mid-session.
func (h *Holder) Refresh() AuthState {
	h.mu.Lock()

	state := h.evaluate(h.state.Token)
	h.setStateLocked(state)

	subs, snapshot := h.snapshotLocked()
	h.mu.Unlock()

	notify(subs, snapshot)
	return snapshot
}

// Current returns the present state.
func (h *Holder) Current() AuthState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Subscribe registers a callback invoked on every state change. The returned
// function removes the subscription.
func (h *Holder) Subscribe(fn func(AuthState)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSub
	h.nextSub++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// evaluate applies the load-time rules to a raw token: absent stays absent,
// undecodable or expired collapses to absent and wipes storage.
func (h *Holder) evaluate(raw string) AuthState {
	if raw == "" {
		return AuthState{}
	}

	claims, err := h.tokens.Decode(raw)
	if err != nil {
		h.logger.Info("clearing invalid persisted token")
		h.clearStorage()
		return AuthState{}
	}

	if claims.ExpiredAt(h.now()) {
		h.logger.Info("clearing expired persisted token")
		h.clearStorage()
		return AuthState{}
	}

	return AuthState{Token: raw, User: claims}
}

func (h *Holder) clearStorage() {
	if err := h.storage.Remove(h.key); err != nil {
		h.logger.Error("failed to clear persisted token", "error", err)
	}
}

func (h *Holder) setStateLocked(state AuthState) {
	h.state = state
}

func (h *Holder) snapshotLocked() ([]func(AuthState), AuthState) {
	subs := make([]func(AuthState), 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	return subs, h.state
}

func notify(subs []func(AuthState), state AuthState) {
	for _, fn := range subs {
		fn(state)
	}
}
