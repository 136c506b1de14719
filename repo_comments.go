package board

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type Comments interface {
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	GetForPost(ctx context.Context, postID, id int64) (*Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*Comment, error)
	UpdateContent(ctx context.Context, comment *Comment) (*Comment, error)
	SoftDelete(ctx context.Context, comment *Comment) error
	IncrementLikes(ctx context.Context, postID, id int64) (int64, error)
	CountByPost(ctx context.Context, postID int64) (int, error)
}

type comments struct {
	db *bun.DB
}

var _ Comments = (*comments)(nil)

func NewCommentsRepository(db *bun.DB) Comments {
	return &comments{db: db}
}

func (r *comments) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	if _, err := r.db.NewInsert().Model(comment).Returning("*").Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert comment")
	}
	return r.GetForPost(ctx, comment.PostID, comment.ID)
}

// GetForPost only finds the comment when it belongs to postID
func (r *comments) GetForPost(ctx context.Context, postID, id int64) (*Comment, error) {
	record := &Comment{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Author").
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.post_id = ?", postID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query comment")
	}
	return record, nil
}

// ListByPost returns every comment of the post in creation order. Replies
// reference their parent through ParentID.
func (r *comments) ListByPost(ctx context.Context, postID int64) ([]*Comment, error) {
	records := make([]*Comment, 0)
	err := r.db.NewSelect().
		Model(&records).
		Relation("Author").
		Where("?TableAlias.post_id = ?", postID).
		OrderExpr("?TableAlias.created_at ASC").
		OrderExpr("?TableAlias.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list comments")
	}
	return records, nil
}

func (r *comments) UpdateContent(ctx context.Context, comment *Comment) (*Comment, error) {
	_, err := r.db.NewUpdate().
		Model(comment).
		Column("content", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update comment")
	}
	return comment, nil
}

// SoftDelete keeps the row so replies stay attached
func (r *comments) SoftDelete(ctx context.Context, comment *Comment) error {
	comment.IsDeleted = true
	comment.Content = DeletedCommentContent

	_, err := r.db.NewUpdate().
		Model(comment).
		Column("is_deleted", "content", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete comment")
	}
	return nil
}

func (r *comments) IncrementLikes(ctx context.Context, postID, id int64) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*Comment)(nil)).
		Set("like_count = like_count + 1").
		Where("id = ?", id).
		Where("post_id = ?", postID).
		Exec(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to like comment")
	}
	if err := ensureAffected(res, ErrCommentNotFound); err != nil {
		return 0, err
	}

	var likes int64
	err = r.db.NewSelect().
		Model((*Comment)(nil)).
		Column("like_count").
		Where("id = ?", id).
		Scan(ctx, &likes)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read comment likes")
	}
	return likes, nil
}

// CountByPost counts the comments that are not soft deleted
func (r *comments) CountByPost(ctx context.Context, postID int64) (int, error) {
	n, err := r.db.NewSelect().
		Model((*Comment)(nil)).
		Where("post_id = ?", postID).
		Where("is_deleted = ?", false).
		Count(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count comments")
	}
	return n, nil
}
