package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// Postgres implements UserStore and PostStore over a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres repository.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (r *Postgres) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	const q = `
		INSERT INTO users (user_name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING user_id`

	u := User{
		Name:         arg.Name,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
	}

	err := r.pool.QueryRow(ctx, q, arg.Name, arg.Email, arg.PasswordHash).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}

	return u, nil
}

func (r *Postgres) GetUserByEmail(ctx context.Context, email string) (User, error) {
	const q = `
		SELECT user_id, user_name, email, password_hash
		FROM users
		WHERE email = $1`

	var u User
	err := r.pool.QueryRow(ctx, q, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	return u, nil
}

func (r *Postgres) CreatePost(ctx context.Context, arg CreatePostParams) (Post, error) {
	const q = `
		INSERT INTO posts (user_id, name, post_title, content)
		VALUES ($1, $2, $3, $4)
		RETURNING post_id, created_at`

	p := Post{
		UserID:  arg.UserID,
		Name:    arg.Name,
		Title:   arg.Title,
		Content: arg.Content,
	}

	err := r.pool.QueryRow(ctx, q, arg.UserID, arg.Name, arg.Title, arg.Content).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return Post{}, err
	}

	return p, nil
}

func (r *Postgres) GetPost(ctx context.Context, id int64) (Post, error) {
	const q = `
		SELECT post_id, user_id, name, post_title, content, created_at
		FROM posts
		WHERE post_id = $1`

	var p Post
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&p.ID, &p.UserID, &p.Name, &p.Title, &p.Content, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}

	return p, nil
}

func (r *Postgres) ListPosts(ctx context.Context) ([]Post, error) {
	// post_id breaks created_at ties so repeated listings are
	// byte-identical with no intervening writes.
	const q = `
		SELECT post_id, user_id, name, post_title, content, created_at
		FROM posts
		ORDER BY created_at DESC, post_id DESC`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *Postgres) ListPostsByUser(ctx context.Context, userID int64) ([]Post, error) {
	const q = `
		SELECT post_id, user_id, name, post_title, content, created_at
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, post_id DESC`

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *Postgres) DeletePost(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE post_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPosts(rows pgx.Rows) ([]Post, error) {
	posts := []Post{}
	for rows.Next() {
		var p Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Title, &p.Content, &p.CreatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
