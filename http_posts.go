package board

import (
	"context"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
)

type CreatePostRequest struct {
	Title       string `json:"title" form:"title"`
	Content     string `json:"content" form:"content"`
	Category    string `json:"category" form:"category"`
	IsPublished *bool  `json:"is_published" form:"is_published"`
}

// Validate will run validation rules
func (r CreatePostRequest) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
			validation.Field(&r.Content, validation.Required),
			validation.Field(&r.Category, validation.Length(0, 50)),
		)
	}, "invalid post payload")
}

type UpdatePostRequest struct {
	Title       *string `json:"title" form:"title"`
	Content     *string `json:"content" form:"content"`
	Category    *string `json:"category" form:"category"`
	IsPublished *bool   `json:"is_published" form:"is_published"`
	// IsPinned is honoured for admins only
	IsPinned *bool `json:"is_pinned" form:"is_pinned"`
}

// Validate will run validation rules
func (r UpdatePostRequest) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
			validation.Field(&r.Content, validation.NilOrNotEmpty),
			validation.Field(&r.Category, validation.NilOrNotEmpty, validation.Length(1, 50)),
		)
	}, "invalid post payload")
}

type PostsController struct {
	Logger Logger
	Repo   RepositoryManager
}

func NewPostsController(repo RepositoryManager) *PostsController {
	return &PostsController{
		Logger: defLogger{},
		Repo:   repo,
	}
}

func (p *PostsController) List(ctx router.Context) error {
	offset, limit := pageFromQuery(ctx)
	records, err := p.Repo.Posts().ListPublished(ctx.Context(), PostListCriteria{
		Offset:   offset,
		Limit:    limit,
		Category: strings.TrimSpace(ctx.Query("category", "")),
	})
	if err != nil {
		return err
	}
	return ctx.JSON(router.StatusOK, records)
}

func (p *PostsController) Create(ctx router.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	payload := CreatePostRequest{}
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Category = strings.TrimSpace(payload.Category)

	if verr := payload.Validate(); verr != nil {
		return verr
	}

	post := &Post{
		Title:       payload.Title,
		Content:     payload.Content,
		Category:    payload.Category,
		IsPublished: true,
		AuthorID:    user.ID,
	}
	if payload.IsPublished != nil {
		post.IsPublished = *payload.IsPublished
	}

	created, err := p.Repo.Posts().Create(ctx.Context(), post)
	if err != nil {
		return err
	}

	p.Logger.Info("post created", "post_id", created.ID, "author_id", user.ID)
	return ctx.JSON(http.StatusCreated, created)
}

// Get counts a view on every read. Unpublished posts only exist for
// their author.
func (p *PostsController) Get(ctx router.Context) error {
	post, err := p.load(ctx)
	if err != nil {
		return err
	}

	viewer, _ := GetRouterUser(ctx)
	if !post.IsPublished && (viewer == nil || viewer.ID != post.AuthorID) {
		return ErrPostNotFound
	}

	if err := p.Repo.Posts().IncrementViews(ctx.Context(), post.ID); err != nil {
		return err
	}
	post.ViewCount++

	return ctx.JSON(router.StatusOK, post)
}

func (p *PostsController) Update(ctx router.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	post, err := p.load(ctx)
	if err != nil {
		return err
	}

	if err := RequireOwnerOrAdmin(user, post.AuthorID); err != nil {
		return err
	}

	payload := UpdatePostRequest{}
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}

	// pinning reorders the public listing for everyone
	if payload.IsPinned != nil {
		if _, err := RequireAdmin(user); err != nil {
			return err
		}
	}

	payload.Title = trimmed(payload.Title)
	payload.Category = trimmed(payload.Category)

	if verr := payload.Validate(); verr != nil {
		return verr
	}

	columns := make([]string, 0, 5)
	if payload.Title != nil {
		post.Title = *payload.Title
		columns = append(columns, "title")
	}
	if payload.Content != nil {
		post.Content = *payload.Content
		columns = append(columns, "content")
	}
	if payload.Category != nil {
		post.Category = *payload.Category
		columns = append(columns, "category")
	}
	if payload.IsPublished != nil {
		post.IsPublished = *payload.IsPublished
		columns = append(columns, "is_published")
	}
	if payload.IsPinned != nil {
		post.IsPinned = *payload.IsPinned
		columns = append(columns, "is_pinned")
	}

	if len(columns) == 0 {
		return ctx.JSON(router.StatusOK, post)
	}

	updated, err := p.Repo.Posts().Update(ctx.Context(), post, columns...)
	if err != nil {
		return err
	}
	return ctx.JSON(router.StatusOK, updated)
}

func (p *PostsController) Delete(ctx router.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	post, err := p.load(ctx)
	if err != nil {
		return err
	}

	if err := RequireOwnerOrAdmin(user, post.AuthorID); err != nil {
		return err
	}

	err = p.Repo.RunInTx(ctx.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
		return p.Repo.Posts().DeleteTx(ctx, tx, post.ID)
	})
	if err != nil {
		return err
	}

	p.Logger.Info("post deleted", "post_id", post.ID, "by", user.ID)
	return ctx.JSON(router.StatusOK, map[string]any{"message": "Post deleted successfully"})
}

func (p *PostsController) Like(ctx router.Context) error {
	if _, err := currentUser(ctx); err != nil {
		return err
	}

	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}

	likes, err := p.Repo.Posts().IncrementLikes(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(router.StatusOK, map[string]any{"like_count": likes})
}

func (p *PostsController) load(ctx router.Context) (*Post, error) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return nil, err
	}
	return p.Repo.Posts().GetByID(ctx.Context(), id)
}
