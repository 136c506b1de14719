package migrations

import (
	"context"

	"github.com/goliatone/go-board"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().
				Model((*board.User)(nil)).
				IfNotExists().
				Exec(ctx); err != nil {
				return err
			}

			if _, err := tx.NewCreateTable().
				Model((*board.Post)(nil)).
				IfNotExists().
				ForeignKey(`("author_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
				Exec(ctx); err != nil {
				return err
			}

			if _, err := tx.NewCreateTable().
				Model((*board.Comment)(nil)).
				IfNotExists().
				ForeignKey(`("author_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
				ForeignKey(`("post_id") REFERENCES "posts" ("id") ON DELETE CASCADE`).
				ForeignKey(`("parent_id") REFERENCES "comments" ("id") ON DELETE SET NULL`).
				Exec(ctx); err != nil {
				return err
			}

			indexes := []struct {
				model   any
				name    string
				columns []string
			}{
				{(*board.Post)(nil), "posts_listing_idx", []string{"is_published", "is_pinned", "created_at"}},
				{(*board.Post)(nil), "posts_author_idx", []string{"author_id"}},
				{(*board.Comment)(nil), "comments_post_idx", []string{"post_id", "created_at"}},
			}
			for _, idx := range indexes {
				if _, err := tx.NewCreateIndex().
					Model(idx.model).
					Index(idx.name).
					IfNotExists().
					Column(idx.columns...).
					Exec(ctx); err != nil {
					return err
				}
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, model := range []any{(*board.Comment)(nil), (*board.Post)(nil), (*board.User)(nil)} {
				if _, err := tx.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
					return err
				}
			}
			return nil
		})
	})
}
