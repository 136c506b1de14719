package board

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// DeletedCommentContent replaces the body of soft deleted comments
const DeletedCommentContent = "This comment has been deleted."

// DefaultPostCategory is used when a post is created without one
const DefaultPostCategory = "general"

// User is the user model
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Username      string    `bun:"username,notnull,unique" json:"username"`
	Email         string    `bun:"email,notnull,unique" json:"email"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	Nickname      string    `bun:"nickname" json:"nickname,omitempty"`
	ProfileImage  string    `bun:"profile_image" json:"profile_image,omitempty"`
	Bio           string    `bun:"bio" json:"bio,omitempty"`
	IsActive      bool      `bun:"is_active,notnull" json:"is_active"`
	IsAdmin       bool      `bun:"is_admin,notnull" json:"is_admin"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*User)(nil)

// BeforeAppendModel keeps timestamps current
func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	stampTimes(query, &u.CreatedAt, &u.UpdatedAt)
	return nil
}

// DisplayName is the nickname or, when unset, the username
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Username
}

// Post is a board post
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Title         string    `bun:"title,notnull" json:"title"`
	Content       string    `bun:"content,notnull" json:"content"`
	Category      string    `bun:"category,notnull" json:"category"`
	ViewCount     int64     `bun:"view_count,notnull" json:"view_count"`
	LikeCount     int64     `bun:"like_count,notnull" json:"like_count"`
	IsPublished   bool      `bun:"is_published,notnull" json:"is_published"`
	IsPinned      bool      `bun:"is_pinned,notnull" json:"is_pinned"`
	AuthorID      int64     `bun:"author_id,notnull" json:"author_id"`
	Author        *User     `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	CommentCount  int64     `bun:"comment_count,scanonly" json:"comment_count"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*Post)(nil)

// BeforeAppendModel keeps timestamps current
func (p *Post) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	stampTimes(query, &p.CreatedAt, &p.UpdatedAt)
	return nil
}

// Comment is a comment on a post, optionally replying to another comment
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Content       string    `bun:"content,notnull" json:"content"`
	LikeCount     int64     `bun:"like_count,notnull" json:"like_count"`
	IsDeleted     bool      `bun:"is_deleted,notnull" json:"is_deleted"`
	AuthorID      int64     `bun:"author_id,notnull" json:"author_id"`
	PostID        int64     `bun:"post_id,notnull" json:"post_id"`
	ParentID      *int64    `bun:"parent_id" json:"parent_id"`
	Author        *User     `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*Comment)(nil)

// BeforeAppendModel keeps timestamps current
func (c *Comment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	stampTimes(query, &c.CreatedAt, &c.UpdatedAt)
	return nil
}

func stampTimes(query bun.Query, createdAt, updatedAt *time.Time) {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if createdAt.IsZero() {
			*createdAt = now
		}
		*updatedAt = now
	case *bun.UpdateQuery:
		*updatedAt = now
	}
}
