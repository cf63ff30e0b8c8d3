package session

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// RegisterUserMessage carries a registration request.
type RegisterUserMessage struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// UseHashid derives the new record's ID from the email.
	UseHashid bool `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required),
	)
}

// LoginUserMessage carries a login request.
type LoginUserMessage struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (e LoginUserMessage) Type() string { return "user.login" }

// Validate will run validation rules
func (e LoginUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Password, validation.Required),
	)
}

// AuthResult couples a public projection with the session token minted for it.
type AuthResult struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

// Issuer validates register/login requests against the credential store and
// mints session tokens.
type Issuer struct {
	store  CredentialStore
	tokens TokenService
	logger Logger
}

// IssuerOption customizes Issuer construction.
type IssuerOption func(*Issuer)

// WithIssuerLogger overrides the default logger.
func WithIssuerLogger(l Logger) IssuerOption {
	return func(s *Issuer) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewIssuer returns a session issuer over the given store and token service.
func NewIssuer(store CredentialStore, tokens TokenService, opts ...IssuerOption) *Issuer {
	s := &Issuer{
		store:  store,
		tokens: tokens,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Register creates a credential record (role defaults to standard) and mints
// a token scoped to the new identity. Missing fields fail validation;
// duplicate emails fail with a conflict.
func (s *Issuer) Register(ctx context.Context, msg RegisterUserMessage) (*AuthResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "please provide all required fields").
			WithCode(goerrors.CodeBadRequest)
	}

	user, err := s.store.Create(ctx, NewUserInput{
		Name:            msg.Name,
		Email:           msg.Email,
		Password:        msg.Password,
		DeterministicID: msg.UseHashid,
	})
	if err != nil {
		s.logger.Error("Register create user error", "error", err)
		return nil, err
	}

	token, err := s.tokens.Mint(NewIdentityFromUser(user))
	if err != nil {
		s.logger.Error("Register mint token error", "error", err)
		return nil, err
	}

	return &AuthResult{
		User:  user.Projection(false),
		Token: token,
	}, nil
}

// Login verifies the email/password pair and mints a token. A missing record
// and a wrong password are indistinguishable to the caller.
func (s *Issuer) Login(ctx context.Context, msg LoginUserMessage) (*AuthResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.FindByEmail(ctx, msg.Email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login store lookup error", "error", err)
		return nil, err
	}

	if err := s.store.MatchPassword(user, msg.Password); err != nil {
		if IsInvalidCredentialsError(err) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login password comparison error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to verify credentials")
	}

	// the status gate runs only after the password proved out, so a failed
	// login against a suspended account stays indistinguishable from any
	// other bad credential
	user.EnsureStatus()
	if err := statusAuthError(user.Status); err != nil {
		s.logger.Warn("Login blocked due to user status", "status", user.Status)
		return nil, err
	}

	token, err := s.tokens.Mint(NewIdentityFromUser(user))
	if err != nil {
		s.logger.Error("Login mint token error", "error", err)
		return nil, err
	}

	return &AuthResult{
		User:  user.Projection(false),
		Token: token,
	}, nil
}

// Profile fetches the projection for an already-authenticated identity. The
// password hash is excluded at the store level; status is included.
func (s *Issuer) Profile(ctx context.Context, id uuid.UUID) (*PublicUser, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Profile store lookup error", "error", err)
		return nil, err
	}

	projection := user.Projection(true)
	return &projection, nil
}
