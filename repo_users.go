package board

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// UserProfileUpdate holds the self editable profile fields. Nil fields
// are left untouched.
type UserProfileUpdate struct {
	Nickname     *string
	Bio          *string
	ProfileImage *string
}

func (u UserProfileUpdate) empty() bool {
	return u.Nickname == nil && u.Bio == nil && u.ProfileImage == nil
}

type Users interface {
	UserFinder

	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	Create(ctx context.Context, user *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	List(ctx context.Context, offset, limit int) ([]*User, error)
	UpdateProfile(ctx context.Context, id int64, update UserProfileUpdate) (*User, error)
	Deactivate(ctx context.Context, id int64) error
	SetAdmin(ctx context.Context, id int64, admin bool) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

// FindUserByHandle resolves token subjects, which carry the username
func (a *users) FindUserByHandle(ctx context.Context, handle string) (*User, error) {
	return a.GetByUsername(ctx, handle)
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	return a.getBy(ctx, a.db, "id", id)
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	return a.getBy(ctx, tx, "username", strings.TrimSpace(username))
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	return a.getBy(ctx, tx, "email", strings.TrimSpace(email))
}

func (a *users) getBy(ctx context.Context, tx bun.IDB, column string, value any) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.? = ?", bun.Ident(column), value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query user")
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, user *User) (*User, error) {
	return a.CreateTx(ctx, a.db, user)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	if _, err := tx.NewInsert().Model(user).Returning("*").Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert user")
	}
	return user, nil
}

func (a *users) List(ctx context.Context, offset, limit int) ([]*User, error) {
	records := make([]*User, 0)
	err := a.db.NewSelect().
		Model(&records).
		OrderExpr("?TableAlias.id ASC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list users")
	}
	return records, nil
}

func (a *users) UpdateProfile(ctx context.Context, id int64, update UserProfileUpdate) (*User, error) {
	user, err := a.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.empty() {
		return user, nil
	}

	columns := []string{"updated_at"}
	if update.Nickname != nil {
		user.Nickname = *update.Nickname
		columns = append(columns, "nickname")
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
		columns = append(columns, "bio")
	}
	if update.ProfileImage != nil {
		user.ProfileImage = *update.ProfileImage
		columns = append(columns, "profile_image")
	}

	if _, err := a.db.NewUpdate().Model(user).Column(columns...).WherePK().Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user profile")
	}

	return user, nil
}

// Deactivate is the account soft delete, the row is kept
func (a *users) Deactivate(ctx context.Context, id int64) error {
	return a.setFlag(ctx, id, "is_active", false)
}

func (a *users) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return a.setFlag(ctx, id, "is_admin", admin)
}

func (a *users) setFlag(ctx context.Context, id int64, column string, value bool) error {
	user, err := a.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch column {
	case "is_active":
		user.IsActive = value
	case "is_admin":
		user.IsAdmin = value
	}

	_, err = a.db.NewUpdate().
		Model(user).
		Column(column, "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user").
			WithMetadata(map[string]any{"column": column})
	}
	return nil
}
