package board

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

type UpdateProfileRequest struct {
	Nickname     *string `json:"nickname" form:"nickname"`
	Bio          *string `json:"bio" form:"bio"`
	ProfileImage *string `json:"profile_image" form:"profile_image"`
}

// Validate will run validation rules
func (r UpdateProfileRequest) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Nickname, validation.NilOrNotEmpty, validation.Length(1, 50)),
			validation.Field(&r.Bio, validation.Length(0, 500)),
			validation.Field(&r.ProfileImage, validation.Length(0, 255)),
		)
	}, "invalid profile payload")
}

type UsersController struct {
	Logger Logger
	Repo   RepositoryManager
	Auther *Auther
	HTTP   *RouteAuthenticator
}

func NewUsersController(repo RepositoryManager, auther *Auther, httpAuth *RouteAuthenticator) *UsersController {
	return &UsersController{
		Logger: defLogger{},
		Repo:   repo,
		Auther: auther,
		HTTP:   httpAuth,
	}
}

// List is admin only
func (u *UsersController) List(ctx router.Context) error {
	offset, limit := pageFromQuery(ctx)
	records, err := u.Repo.Users().List(ctx.Context(), offset, limit)
	if err != nil {
		return err
	}
	return ctx.JSON(router.StatusOK, records)
}

func (u *UsersController) Get(ctx router.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}

	user, err := u.Repo.Users().GetByID(ctx.Context(), id)
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) {
			return ErrIdentityNotFound.Clone().WithMetadata(map[string]any{"id": id})
		}
		return err
	}
	return ctx.JSON(router.StatusOK, user)
}

func (u *UsersController) UpdateMe(ctx router.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	payload := UpdateProfileRequest{}
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}
	payload.Nickname = trimmed(payload.Nickname)

	if verr := payload.Validate(); verr != nil {
		return verr
	}

	updated, err := u.Repo.Users().UpdateProfile(ctx.Context(), user.ID, UserProfileUpdate{
		Nickname:     payload.Nickname,
		Bio:          payload.Bio,
		ProfileImage: payload.ProfileImage,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(router.StatusOK, updated)
}

// DeleteMe deactivates the caller's account and drops the cookie
func (u *UsersController) DeleteMe(ctx router.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	if err := u.Auther.Deactivate(ctx.Context(), user, user); err != nil {
		return err
	}

	u.HTTP.ClearTokenCookie(ctx)
	return ctx.JSON(router.StatusOK, map[string]any{"message": "Account deactivated"})
}
