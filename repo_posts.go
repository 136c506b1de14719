package board

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// PostListCriteria filters the public post listing
type PostListCriteria struct {
	Offset   int
	Limit    int
	Category string
}

type Posts interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	GetByID(ctx context.Context, id int64) (*Post, error)
	ListPublished(ctx context.Context, criteria PostListCriteria) ([]*Post, error)
	Update(ctx context.Context, post *Post, columns ...string) (*Post, error)
	DeleteTx(ctx context.Context, tx bun.IDB, id int64) error
	IncrementViews(ctx context.Context, id int64) error
	IncrementLikes(ctx context.Context, id int64) (int64, error)
}

type posts struct {
	db *bun.DB
}

var _ Posts = (*posts)(nil)

func NewPostsRepository(db *bun.DB) Posts {
	return &posts{db: db}
}

func (r *posts) Create(ctx context.Context, post *Post) (*Post, error) {
	if post.Category == "" {
		post.Category = DefaultPostCategory
	}
	if _, err := r.db.NewInsert().Model(post).Returning("*").Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert post")
	}
	return r.GetByID(ctx, post.ID)
}

func (r *posts) GetByID(ctx context.Context, id int64) (*Post, error) {
	record := &Post{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Author").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query post")
	}

	if err := r.attachCommentCounts(ctx, []*Post{record}); err != nil {
		return nil, err
	}

	return record, nil
}

// ListPublished returns published posts, pinned ones first, then newest
func (r *posts) ListPublished(ctx context.Context, criteria PostListCriteria) ([]*Post, error) {
	records := make([]*Post, 0)
	q := r.db.NewSelect().
		Model(&records).
		Relation("Author").
		Where("?TableAlias.is_published = ?", true)

	if criteria.Category != "" {
		q = q.Where("?TableAlias.category = ?", criteria.Category)
	}

	err := q.
		OrderExpr("?TableAlias.is_pinned DESC").
		OrderExpr("?TableAlias.created_at DESC").
		OrderExpr("?TableAlias.id DESC").
		Offset(criteria.Offset).
		Limit(criteria.Limit).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list posts")
	}

	if err := r.attachCommentCounts(ctx, records); err != nil {
		return nil, err
	}

	return records, nil
}

type postCommentCount struct {
	PostID int64 `bun:"post_id"`
	Count  int64 `bun:"count"`
}

func (r *posts) attachCommentCounts(ctx context.Context, records []*Post) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(records))
	for _, p := range records {
		ids = append(ids, p.ID)
	}

	counts := make([]postCommentCount, 0)
	err := r.db.NewSelect().
		Model((*Comment)(nil)).
		Column("post_id").
		ColumnExpr("COUNT(*) AS count").
		Where("post_id IN (?)", bun.In(ids)).
		Where("is_deleted = ?", false).
		Group("post_id").
		Scan(ctx, &counts)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to count comments")
	}

	byPost := make(map[int64]int64, len(counts))
	for _, c := range counts {
		byPost[c.PostID] = c.Count
	}
	for _, p := range records {
		p.CommentCount = byPost[p.ID]
	}
	return nil
}

func (r *posts) Update(ctx context.Context, post *Post, columns ...string) (*Post, error) {
	q := r.db.NewUpdate().Model(post).WherePK()
	if len(columns) > 0 {
		q = q.Column(append(columns, "updated_at")...)
	} else {
		q = q.ExcludeColumn("id", "author_id", "view_count", "like_count", "created_at")
	}

	if _, err := q.Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update post")
	}

	return r.GetByID(ctx, post.ID)
}

// DeleteTx removes the post together with its comments
func (r *posts) DeleteTx(ctx context.Context, tx bun.IDB, id int64) error {
	if _, err := tx.NewDelete().Model((*Comment)(nil)).Where("post_id = ?", id).Exec(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete post comments")
	}

	res, err := tx.NewDelete().Model((*Post)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete post")
	}

	return ensureAffected(res, ErrPostNotFound)
}

func (r *posts) IncrementViews(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().
		Model((*Post)(nil)).
		Set("view_count = view_count + 1").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to increment post views")
	}
	return ensureAffected(res, ErrPostNotFound)
}

func (r *posts) IncrementLikes(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.NewUpdate().
		Model((*Post)(nil)).
		Set("like_count = like_count + 1").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to like post")
	}
	if err := ensureAffected(res, ErrPostNotFound); err != nil {
		return 0, err
	}

	var likes int64
	err = r.db.NewSelect().
		Model((*Post)(nil)).
		Column("like_count").
		Where("id = ?", id).
		Scan(ctx, &likes)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read post likes")
	}
	return likes, nil
}

func ensureAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read affected rows")
	}
	if n == 0 {
		return notFound
	}
	return nil
}
