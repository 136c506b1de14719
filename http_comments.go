package board

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

type CommentRequest struct {
	Content  string `json:"content" form:"content"`
	ParentID *int64 `json:"parent_id" form:"parent_id"`
}

// Validate will run validation rules
func (r CommentRequest) Validate() *goerrors.Error {
	return goerrors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&r,
			validation.Field(&r.Content, validation.Required, validation.Length(1, 2000)),
			validation.Field(&r.ParentID, validation.Min(int64(1))),
		)
	}, "invalid comment payload")
}

type CommentsController struct {
	Logger Logger
	Repo   RepositoryManager
}

func NewCommentsController(repo RepositoryManager) *CommentsController {
	return &CommentsController{
		Logger: defLogger{},
		Repo:   repo,
	}
}

// List returns the comments of a post flat; clients nest them by ParentID
func (m *CommentsController) List(ctx router.Context) error {
	post, err := m.loadPost(ctx)
	if err != nil {
		return err
	}

	records, err := m.Repo.Comments().ListByPost(ctx.Context(), post.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(router.StatusOK, records)
}

func (m *CommentsController) Create(ctx router.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	post, err := m.loadPost(ctx)
	if err != nil {
		return err
	}

	payload := CommentRequest{}
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}
	payload.Content = strings.TrimSpace(payload.Content)

	if verr := payload.Validate(); verr != nil {
		return verr
	}

	if payload.ParentID != nil {
		if _, err := m.Repo.Comments().GetForPost(ctx.Context(), post.ID, *payload.ParentID); err != nil {
			if goerrors.Is(err, ErrCommentNotFound) {
				return ErrParentCommentNotFound
			}
			return err
		}
	}

	created, err := m.Repo.Comments().Create(ctx.Context(), &Comment{
		Content:  payload.Content,
		AuthorID: user.ID,
		PostID:   post.ID,
		ParentID: payload.ParentID,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, created)
}

// Update is reserved to the author
func (m *CommentsController) Update(ctx router.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	comment, err := m.loadComment(ctx)
	if err != nil {
		return err
	}

	if err := RequireOwner(user, comment.AuthorID); err != nil {
		return err
	}

	payload := CommentRequest{}
	if err := parseBody(ctx, &payload); err != nil {
		return err
	}
	payload.Content = strings.TrimSpace(payload.Content)
	payload.ParentID = nil

	if verr := payload.Validate(); verr != nil {
		return verr
	}

	comment.Content = payload.Content
	updated, err := m.Repo.Comments().UpdateContent(ctx.Context(), comment)
	if err != nil {
		return err
	}
	return ctx.JSON(router.StatusOK, updated)
}

func (m *CommentsController) Delete(ctx router.Context) error {
	user, err := currentUser(ctx)
	if err != nil {
		return err
	}

	comment, err := m.loadComment(ctx)
	if err != nil {
		return err
	}

	if err := RequireOwnerOrAdmin(user, comment.AuthorID); err != nil {
		return err
	}

	if err := m.Repo.Comments().SoftDelete(ctx.Context(), comment); err != nil {
		return err
	}

	return ctx.JSON(router.StatusOK, map[string]any{"message": "Comment deleted successfully"})
}

func (m *CommentsController) Like(ctx router.Context) error {
	if _, err := currentUser(ctx); err != nil {
		return err
	}

	postID, err := parseIDParam(ctx, "id")
	if err != nil {
		return err
	}

	commentID, err := parseIDParam(ctx, "cid")
	if err != nil {
		return err
	}

	likes, err := m.Repo.Comments().IncrementLikes(ctx.Context(), postID, commentID)
	if err != nil {
		return err
	}
	return ctx.JSON(router.StatusOK, map[string]any{"like_count": likes})
}

func (m *CommentsController) loadPost(ctx router.Context) (*Post, error) {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return nil, err
	}
	return m.Repo.Posts().GetByID(ctx.Context(), id)
}

func (m *CommentsController) loadComment(ctx router.Context) (*Comment, error) {
	postID, err := parseIDParam(ctx, "id")
	if err != nil {
		return nil, err
	}

	commentID, err := parseIDParam(ctx, "cid")
	if err != nil {
		return nil, err
	}

	comment, err := m.Repo.Comments().GetForPost(ctx.Context(), postID, commentID)
	if err != nil {
		return nil, err
	}

	if comment.IsDeleted {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
