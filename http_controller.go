package board

import (
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Username, validation.Required),
			validation.Field(&r.Password, validation.Required),
		)
	}, "invalid login request payload")
}

// TokenResponse is returned by login and registration
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}

type AuthController struct {
	Debug  bool
	Logger Logger
	Auther *Auther
	HTTP   *RouteAuthenticator
}

type AuthControllerOption func(*AuthController) *AuthController

func WithAuthControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = normalizeLogger(logger)
		return c
	}
}

func WithAuthControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(auther *Auther, httpAuth *RouteAuthenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
		HTTP:   httpAuth,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Auther in auth controller...")
	}

	if c.HTTP == nil {
		panic("Missing RouteAuthenticator in auth controller...")
	}

	return c
}

func (a *AuthController) Register(ctx router.Context) error {
	payload := RegisterUserMessage{}
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}

	token, user, err := a.Auther.Register(ctx.Context(), payload)
	if err != nil {
		return err
	}

	a.HTTP.SetTokenCookie(ctx, token)

	return ctx.JSON(http.StatusCreated, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (a *AuthController) Login(ctx router.Context) error {
	payload := LoginRequest{}
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}

	if verr := payload.Validate(); verr != nil {
		return verr
	}

	token, user, err := a.Auther.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		if a.Debug {
			a.Logger.Debug("login rejected", "username", payload.Username, "text_code", textCode(err))
		}
		return err
	}

	a.HTTP.SetTokenCookie(ctx, token)

	return ctx.JSON(router.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	})
}

func (a *AuthController) Logout(ctx router.Context) error {
	a.HTTP.ClearTokenCookie(ctx)
	return ctx.JSON(router.StatusOK, map[string]any{"message": "Successfully logged out"})
}

func (a *AuthController) Me(ctx router.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(router.StatusOK, user)
}

// Health reports liveness
func Health(appName string) router.HandlerFunc {
	return func(ctx router.Context) error {
		return ctx.JSON(router.StatusOK, map[string]any{"status": "healthy", "app": appName})
	}
}

func parseBody(ctx router.Context, out any) error {
	if err := ctx.Bind(out); err != nil {
		return ErrInvalidPayload.Clone().WithMetadata(map[string]any{
			"body": err.Error(),
		})
	}
	return nil
}

func parseIDParam(ctx router.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidPayload.Clone().WithMetadata(map[string]any{
			name: "must be a positive integer",
		})
	}
	return id, nil
}

func queryInt(ctx router.Context, name string, def int) int {
	raw := strings.TrimSpace(ctx.Query(name, ""))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func pageFromQuery(ctx router.Context) (offset, limit int) {
	offset = queryInt(ctx, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	limit = queryInt(ctx, "limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return offset, limit
}

// currentUser returns the user set by RequireUser
func currentUser(ctx router.Context) (*User, error) {
	user, _ := GetRouterUser(ctx)
	return RequirePresent(user)
}

func textCode(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode
	}
	return ""
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
