package board

import (
	"context"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type RegisterUserMessage struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Nickname string `json:"nickname" form:"nickname"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will run validation rules
func (e RegisterUserMessage) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&e,
			validation.Field(&e.Username,
				validation.Required,
				validation.Length(3, 50),
				validation.Match(usernamePattern).Error("must contain only letters, digits or underscores"),
			),
			validation.Field(&e.Email, validation.Required, is.Email),
			validation.Field(&e.Password, validation.Required, validation.Length(6, 0)),
			validation.Field(&e.Nickname, validation.Length(0, 50)),
		)
	}, "invalid registration payload")
}

type RegisterUserHandler struct {
	repo RepositoryManager
}

func NewRegisterUserHandler(repo RepositoryManager) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	_, err := h.Register(ctx, event)
	return err
}

// Register creates the account and returns it
func (h *RegisterUserHandler) Register(ctx context.Context, event RegisterUserMessage) (*User, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*User, error) {
	event.Username = strings.TrimSpace(event.Username)
	event.Email = strings.TrimSpace(event.Email)
	event.Nickname = strings.TrimSpace(event.Nickname)

	if verr := event.Validate(); verr != nil {
		return nil, verr
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user := &User{
		Username:     event.Username,
		Email:        event.Email,
		PasswordHash: hash,
		Nickname:     event.Nickname,
		IsActive:     true,
	}
	if user.Nickname == "" {
		user.Nickname = user.Username
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := ensureAvailable(ctx, h.repo.Users().GetByUsernameTx, tx, user.Username, ErrUsernameTaken); err != nil {
			return err
		}

		if err := ensureAvailable(ctx, h.repo.Users().GetByEmailTx, tx, user.Email, ErrEmailTaken); err != nil {
			return err
		}

		if _, err := h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
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

type lookupTx func(ctx context.Context, tx bun.IDB, value string) (*User, error)

func ensureAvailable(ctx context.Context, lookup lookupTx, tx bun.IDB, value string, taken error) error {
	_, err := lookup(ctx, tx, value)
	switch {
	case err == nil:
		return taken
	case goerrors.Is(err, ErrIdentityNotFound):
		return nil
	default:
		return err
	}
}
