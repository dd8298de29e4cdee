package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pulsefeed/pulsefeed/internal/domain/post"
	"github.com/pulsefeed/pulsefeed/internal/observability"
)

type PostsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewPostsRepo(pool *pgxpool.Pool, prom *observability.Prom) *PostsRepo {
	return &PostsRepo{pool: pool, prom: prom}
}

func (r *PostsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// every read joins the author projection ("populate")
const postSelect = `
	SELECT p.id, p.text, p.image, p.author_id, p.created_at, p.updated_at,
	       u.name, u.profile_pic
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func scanPost(row pgx.Row) (post.Post, error) {
	var p post.Post

	err := row.Scan(
		&p.ID,
		&p.Text,
		&p.Image,
		&p.AuthorID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Author.Name,
		&p.Author.ProfilePic,
	)

	p.Author.ID = p.AuthorID

	return p, err
}

// Create persists the post and returns it joined with the author projection.
// The insert and the author lookup are two statements, not a transaction;
// the author row cannot vanish out from under an authenticated request in
// this system.
func (r *PostsRepo) Create(ctx context.Context, req post.CreatePostRequest, authorID string) (post.Post, error) {
	p := post.NewFromCreateRequest(req, authorID)

	err := r.observe("posts.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO posts(id, text, image, author_id, created_at, updated_at)
			 VALUES($1,$2,$3,$4,$5,$6)`,
			p.ID, p.Text, p.Image, p.AuthorID, p.CreatedAt, p.UpdatedAt)

		return err
	})

	if err != nil {
		return post.Post{}, err
	}

	err = r.observe("posts.author_lookup", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT name, profile_pic FROM users WHERE id = $1`, authorID,
		).Scan(&p.Author.Name, &p.Author.ProfilePic)
	})

	if err != nil {
		return post.Post{}, err
	}

	p.Author.ID = authorID

	return p, nil
}

// ListFeed returns every post, newest first. Unbounded on purpose:
// pagination is out of scope. The id tiebreak keeps the order stable when
// timestamps collide.
func (r *PostsRepo) ListFeed(ctx context.Context) ([]post.Post, error) {
	return r.list(ctx, "posts.list_feed",
		postSelect+` ORDER BY p.created_at DESC, p.id DESC`)
}

func (r *PostsRepo) ListByAuthor(ctx context.Context, authorID string) ([]post.Post, error) {
	return r.list(ctx, "posts.list_by_author",
		postSelect+` WHERE p.author_id = $1 ORDER BY p.created_at DESC, p.id DESC`, authorID)
}

func (r *PostsRepo) list(ctx context.Context, op, query string, args ...interface{}) ([]post.Post, error) {
	output := make([]post.Post, 0)

	err := r.observe(op, func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			p, err := scanPost(rows)

			if err != nil {
				return err
			}

			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (post.Post, error) {
	var p post.Post

	err := r.observe("posts.get_by_id", func() error {
		var err error
		p, err = scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}

		return post.Post{}, err
	}

	return p, nil
}

// Delete removes the post permanently. Ownership is the caller's problem;
// a concurrent double delete just means the loser sees not found.
func (r *PostsRepo) Delete(ctx context.Context, id string) error {
	var tag int64

	err := r.observe("posts.delete", func() error {
		res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)

		if err != nil {
			return err
		}

		tag = res.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	if tag == 0 {
		return post.ErrNotFound
	}

	return nil
}
