package session

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// AuthControllerRoutes holds the paths the controller mounts.
type AuthControllerRoutes struct {
	Register string
	Login    string
	Profile  string
}

// AuthController exposes the session issuer over HTTP.
type AuthController struct {
	Debug  bool
	Logger Logger
	Issuer *Issuer
	Config Config
	Tokens TokenService
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

// WithControllerIssuer sets the issuer the controller delegates to.
func WithControllerIssuer(issuer *Issuer) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Issuer = issuer
		return c
	}
}

// WithControllerConfig sets the Config used by the profile middleware.
func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

// WithControllerTokens sets the token service used to verify bearer tokens.
func WithControllerTokens(tokens TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = tokens
		return c
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register: "/auth/register",
			Login:    "/auth/login",
			Profile:  "/auth/profile",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Issuer == nil {
		panic("Missing Issuer in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the register, login, and profile routes.
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Get(controller.Routes.Profile,
		Protected(controller.Config, controller.Tokens),
		controller.ProfileGet,
	)

	return controller
}

type authBody struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  UserRole  `json:"role"`
	Token string    `json:"token"`
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := new(RegisterUserMessage)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "failed to parse request body",
		})
	}

	result, err := a.Issuer.Register(c.Context(), *payload)
	if err != nil {
		return a.renderError(c, err)
	}

	if a.Debug {
		a.Logger.Debug("register response: %s", print.MaybePrettyJSON(result.User))
	}

	return c.Status(fiber.StatusCreated).JSON(authBody{
		ID:    result.User.ID,
		Name:  result.User.Name,
		Email: result.User.Email,
		Role:  result.User.Role,
		Token: result.Token,
	})
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginUserMessage)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "failed to parse request body",
		})
	}

	result, err := a.Issuer.Login(c.Context(), *payload)
	if err != nil {
		return a.renderError(c, err)
	}

	if a.Debug {
		a.Logger.Debug("login response: %s", print.MaybePrettyJSON(result.User))
	}

	return c.Status(fiber.StatusOK).JSON(authBody{
		ID:    result.User.ID,
		Name:  result.User.Name,
		Email: result.User.Email,
		Role:  result.User.Role,
		Token: result.Token,
	})
}

func (a *AuthController) ProfileGet(c *fiber.Ctx) error {
	claims, ok := GetFiberClaims(c, a.Config.GetContextKey())
	if !ok {
		return unauthorized(c)
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		return a.renderError(c, ErrUserNotFound)
	}

	profile, err := a.Issuer.Profile(c.Context(), id)
	if err != nil {
		return a.renderError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

// renderError maps the error taxonomy onto the HTTP surface. Validation and
// conflict failures both surface as 400 so the register endpoint has a single
// failure mode; credential failures stay a generic 401.
func (a *AuthController) renderError(c *fiber.Ctx, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		a.Logger.Error("unexpected controller error", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "internal server error",
		})
	}

	status := fiber.StatusInternalServerError
	switch richErr.Category {
	case goerrors.CategoryValidation, goerrors.CategoryConflict, goerrors.CategoryBadInput:
		status = fiber.StatusBadRequest
	case goerrors.CategoryAuth:
		status = fiber.StatusUnauthorized
	case goerrors.CategoryNotFound:
		status = fiber.StatusNotFound
	}

	body := fiber.Map{"message": richErr.Message}
	if richErr.TextCode != "" {
		body["code"] = richErr.TextCode
	}

	return c.Status(status).JSON(body)
}
