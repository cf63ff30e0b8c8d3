package session_test

import (
	"context"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	session "github.com/goliatone/go-session"
)

// stubStore is an in-memory CredentialStore used across issuer and
// controller tests. It hashes with the real bcrypt helpers so password
// matching behaves like the Bun-backed store.
type stubStore struct {
	mu      sync.Mutex
	byEmail map[string]*session.User
	byID    map[uuid.UUID]*session.User

	createErr error
}

func newStubStore() *stubStore {
	return &stubStore{
		byEmail: map[string]*session.User{},
		byID:    map[uuid.UUID]*session.User{},
	}
}

func notFoundErr(identifier string) error {
	return goerrors.New("record not found", goerrors.CategoryNotFound).
		WithMetadata(map[string]any{"identifier": identifier})
}

func (s *stubStore) FindByEmail(ctx context.Context, email string) (*session.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, notFoundErr(email)
	}
	return user, nil
}

func (s *stubStore) FindByID(ctx context.Context, id uuid.UUID) (*session.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, notFoundErr(id.String())
	}

	// The real store excludes the password hash on selection.
	clone := *user
	clone.PasswordHash = ""
	return &clone, nil
}

func (s *stubStore) Create(ctx context.Context, input session.NewUserInput) (*session.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}

	if _, exists := s.byEmail[input.Email]; exists {
		return nil, session.ErrEmailTaken
	}

	hash, err := session.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &session.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         session.RoleStandard,
		Status:       session.UserStatusActive,
	}

	s.byEmail[user.Email] = user
	s.byID[user.ID] = user

	return user, nil
}

func (s *stubStore) MatchPassword(record *session.User, candidate string) error {
	if record == nil {
		return session.ErrInvalidCredentials
	}
	return session.ComparePasswordAndHash(candidate, record.PasswordHash)
}

func (s *stubStore) remove(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.byID[id]; ok {
		delete(s.byEmail, user.Email)
		delete(s.byID, id)
	}
}

func (s *stubStore) setStatus(id uuid.UUID, status session.UserStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user, ok := s.byID[id]; ok {
		user.Status = status
	}
}

// recordingLogger captures log lines without printing them.
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (r *recordingLogger) record(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *recordingLogger) Debug(format string, args ...any) { r.record(format) }
func (r *recordingLogger) Info(format string, args ...any)  { r.record(format) }
func (r *recordingLogger) Warn(format string, args ...any)  { r.record(format) }
func (r *recordingLogger) Error(format string, args ...any) { r.record(format) }

// failingStorage forces storage errors for holder edge cases.
type failingStorage struct {
	getErr    error
	setErr    error
	removeErr error
	value     string
}

func (f *failingStorage) Get(key string) (string, error) {
	return f.value, f.getErr
}

func (f *failingStorage) Set(key, value string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.value = value
	return nil
}

func (f *failingStorage) Remove(key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.value = ""
	return nil
}
