package board

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-board/middleware/tokenware"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

const cookieSameSite = "Lax"

// RouteAuthenticator binds the auth core to the router: it extracts raw
// credentials, resolves them and manages the token cookie.
type RouteAuthenticator struct {
	auth           *Auther
	cfg            Config
	extractors     []tokenware.Extractor
	cookieName     string
	cookieDuration time.Duration
	secureCookie   bool
	Logger         Logger
}

func NewHTTPAuthenticator(auther *Auther, cfg Config) (*RouteAuthenticator, error) {
	if auther == nil {
		return nil, errors.New("http authenticator requires an Auther", errors.CategoryInternal)
	}

	cookieName := cfg.GetContextKey()
	if cookieName == "" {
		cookieName = tokenware.DefaultCookieName
	}

	return &RouteAuthenticator{
		auth:           auther,
		cfg:            cfg,
		extractors:     tokenware.GetExtractors(cfg.GetTokenLookup(), cfg.GetAuthScheme()),
		cookieName:     cookieName,
		cookieDuration: auther.TokenService().TTL(),
		secureCookie:   cfg.GetSecureCookie(),
		Logger:         defLogger{},
	}, nil
}

// RawToken returns the credential sent with the request, or ""
func (a *RouteAuthenticator) RawToken(ctx router.Context) string {
	return tokenware.ExtractRawToken(ctx, a.extractors)
}

// RequireUser rejects the request unless it carries a credential for an
// active account.
func (a *RouteAuthenticator) RequireUser() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			user, err := a.auth.ResolveRequired(ctx.Context(), a.RawToken(ctx))
			if err != nil {
				return err
			}
			SetRouterUser(ctx, user)
			return next(ctx)
		}
	}
}

// OptionalUser attaches the user when one resolves and never rejects
func (a *RouteAuthenticator) OptionalUser() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if user := a.auth.ResolveOptional(ctx.Context(), a.RawToken(ctx)); user != nil {
				SetRouterUser(ctx, user)
			}
			return next(ctx)
		}
	}
}

// RequireAdmin is RequireUser followed by the admin check
func (a *RouteAuthenticator) RequireAdmin() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			user, err := a.auth.ResolveRequired(ctx.Context(), a.RawToken(ctx))
			if err != nil {
				return err
			}
			if _, err := RequireAdmin(user); err != nil {
				a.Logger.Info("admin route rejected", "user_id", user.ID, "path", ctx.Path())
				return err
			}
			SetRouterUser(ctx, user)
			return next(ctx)
		}
	}
}

// SetTokenCookie stores token in an http only, lax cookie that lives as
// long as the token.
func (a *RouteAuthenticator) SetTokenCookie(ctx router.Context, token string) {
	ctx.Cookie(&router.Cookie{
		Name:     a.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(a.cookieDuration),
		HTTPOnly: true,
		Secure:   a.secureCookie,
		SameSite: cookieSameSite,
	})
}

// ClearTokenCookie expires the token cookie. The token itself stays valid
// until it expires.
func (a *RouteAuthenticator) ClearTokenCookie(ctx router.Context) {
	ctx.Cookie(&router.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   a.secureCookie,
		SameSite: cookieSameSite,
	})
}

// HTTPStatus maps an error to the response status code
func HTTPStatus(err error) int {
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		if richErr.Code > 0 {
			return richErr.Code
		}
		return statusForCategory(richErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	return fiber.StatusInternalServerError
}

func statusForCategory(richErr *errors.Error) int {
	switch richErr.Category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders errors as JSON {error, text_code, validation, details}.
// It is installed on the fiber app backing the router.
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	logger = normalizeLogger(logger)

	return func(c *fiber.Ctx, err error) error {
		status := HTTPStatus(err)
		body := fiber.Map{}

		var richErr *errors.Error
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &richErr):
			body["error"] = richErr.Message
			if richErr.TextCode != "" {
				body["text_code"] = richErr.TextCode
			}
			if status < fiber.StatusInternalServerError {
				if len(richErr.ValidationErrors) > 0 {
					body["validation"] = richErr.ValidationMap()
				}
				if len(richErr.Metadata) > 0 {
					body["details"] = richErr.Metadata
				}
			}
		case errors.As(err, &fiberErr):
			body["error"] = fiberErr.Message
		default:
			body["error"] = "An unexpected server error occurred"
		}

		if status >= fiber.StatusInternalServerError {
			body["error"] = "An unexpected server error occurred"
			logger.Error("request failed",
				"path", c.Path(),
				"method", c.Method(),
				"error", err,
			)
			if richErr != nil {
				logger.Debug("request failure details", "details", print.MaybePrettyJSON(richErr.Metadata))
			}
		}

		if status == fiber.StatusUnauthorized {
			c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		}

		return c.Status(status).JSON(body)
	}
}
