package session

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// userStore adapts the Bun-backed repositories to the CredentialStore
// boundary the issuer consumes.
type userStore struct {
	repo   RepositoryManager
	logger Logger
}

var _ CredentialStore = (*userStore)(nil)

// NewCredentialStore returns a CredentialStore backed by the repository manager.
func NewCredentialStore(repo RepositoryManager) CredentialStore {
	return &userStore{
		repo:   repo,
		logger: defLogger{},
	}
}

func (s *userStore) WithLogger(l Logger) *userStore {
	if l != nil {
		s.logger = l
	}
	return s
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, recordNotFound(err, map[string]any{"email": email})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user by email")
	}
	return user, nil
}

func (s *userStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.Users().GetByUserID(ctx, id)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, recordNotFound(err, map[string]any{"id": id.String()})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up user by id")
	}
	return user, nil
}

// recordNotFound translates a repository miss into the error taxonomy the
// issuer classifies with goerrors.IsNotFound.
func recordNotFound(err error, metadata map[string]any) error {
	return goerrors.Wrap(err, goerrors.CategoryNotFound, "record not found").
		WithCode(goerrors.CodeNotFound).
		WithMetadata(metadata)
}

// Create persists a new credential record inside a transaction. The email
// uniqueness pre-check gives a friendly conflict error; the unique column
// constraint stays authoritative for concurrent registrations.
func (s *userStore) Create(ctx context.Context, input NewUserInput) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.repo.Users().GetByEmailTx(ctx, tx, input.Email); err == nil {
			return ErrEmailTaken
		} else if !repository.IsRecordNotFound(err) {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check for existing email")
		}

		hash, err := HashPassword(input.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) && richErr.Category == goerrors.CategoryValidation {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		user.Name = input.Name
		user.Email = input.Email
		user.PasswordHash = hash

		if input.DeterministicID {
			if id, ok := DeterministicUserID(input.Email); ok {
				user.ID = id
			}
		}

		if user, err = s.repo.Users().RegisterTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user").
				WithTextCode(TextCodeEmailTaken).
				WithCode(goerrors.CodeConflict)
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}

func (s *userStore) MatchPassword(record *User, candidate string) error {
	if record == nil {
		return ErrInvalidCredentials
	}
	return ComparePasswordAndHash(candidate, record.PasswordHash)
}
