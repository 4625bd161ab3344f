package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/articlehub/internal/domain/article"
	"github.com/geocoder89/articlehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ArticlesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewArticlesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ArticlesRepo {
	return &ArticlesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ArticlesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ArticlesRepo) Create(ctx context.Context, a article.Article) (article.Article, error) {
	err := r.observe("articles.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO articles (title, description, source_url, user_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, NOW(), NOW())
			 RETURNING id, created_at, updated_at`,
			a.Title, a.Description, a.SourceURL, a.UserID,
		).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	})

	if err != nil {
		return article.Article{}, err
	}

	return a, nil
}

func (r *ArticlesRepo) List(ctx context.Context) ([]article.Article, error) {
	output := make([]article.Article, 0)

	err := r.observe("articles.list", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, title, description, source_url, user_id, created_at, updated_at
			 FROM articles
			 ORDER BY id ASC`,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var a article.Article

			err = rows.Scan(&a.ID, &a.Title, &a.Description, &a.SourceURL, &a.UserID, &a.CreatedAt, &a.UpdatedAt)

			if err != nil {
				return err
			}

			output = append(output, a)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *ArticlesRepo) GetByID(ctx context.Context, id int64) (article.Article, error) {
	var a article.Article

	err := r.observe("articles.get_by_id", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, title, description, source_url, user_id, created_at, updated_at
			 FROM articles WHERE id = $1`,
			id,
		).Scan(&a.ID, &a.Title, &a.Description, &a.SourceURL, &a.UserID, &a.CreatedAt, &a.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return article.Article{}, article.ErrNotFound
		}

		return article.Article{}, err
	}

	return a, nil
}

func (r *ArticlesRepo) Update(ctx context.Context, a article.Article) (article.Article, error) {
	err := r.observe("articles.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE articles
				SET title = $2,
						description = $3,
						source_url = $4,
						user_id = $5,
						updated_at = NOW()
			WHERE id = $1
			RETURNING created_at, updated_at`,
			a.ID,
			a.Title,
			a.Description,
			a.SourceURL,
			a.UserID,
		).Scan(&a.CreatedAt, &a.UpdatedAt)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return article.Article{}, article.ErrNotFound
		}
		// if it is any other type of error
		return article.Article{}, err
	}

	return a, nil
}

// DeleteOwned deletes only when the article belongs to ownerID. A missing
// article and someone else's article are the same outcome for the caller.
func (r *ArticlesRepo) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	var affected int64

	err := r.observe("articles.delete_owned", func() error {
		tag, err := r.pool.Exec(ctx, `
			DELETE FROM articles WHERE id = $1 AND user_id = $2
		`, id, ownerID)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()

		return nil
	})

	if err != nil {
		return err
	}

	if affected == 0 {
		return article.ErrNotFound
	}

	return nil
}
