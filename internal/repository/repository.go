// Package repository is the data-access boundary for users and posts.
// Value types are plain immutable structs constructed once per load;
// handlers depend on the store interfaces, never on pgx directly.
package repository

import (
	"context"
	"time"
)

// User is an account row. Constructed at the data-access boundary and
// never mutated afterwards.
type User struct {
	Name         string
	Email        string
	PasswordHash string
	ID           int64
}

// Post is a bulletin-board entry.
type Post struct {
	CreatedAt time.Time
	Name      string
	Title     string
	Content   string
	ID        int64
	UserID    int64
}

// CreateUserParams are the inputs for a registration insert.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
}

// CreatePostParams are the inputs for a post insert.
// CreatedAt is assigned by the store.
type CreatePostParams struct {
	Name    string
	Title   string
	Content string
	UserID  int64
}

// UserStore persists accounts.
type UserStore interface {
	// CreateUser inserts a new user and returns it with the generated id.
	// Returns ErrEmailTaken when the email is already registered.
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)

	// GetUserByEmail returns the user registered under email.
	// Returns ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (User, error)
}

// PostStore persists posts.
type PostStore interface {
	// CreatePost inserts a new post and returns it with the generated
	// id and store-assigned creation time.
	CreatePost(ctx context.Context, arg CreatePostParams) (Post, error)

	// GetPost returns the post with the given id.
	// Returns ErrNotFound if no such post exists.
	GetPost(ctx context.Context, id int64) (Post, error)

	// ListPosts returns all posts, newest first.
	ListPosts(ctx context.Context) ([]Post, error)

	// ListPostsByUser returns the user's posts, newest first.
	ListPostsByUser(ctx context.Context, userID int64) ([]Post, error)

	// DeletePost removes the post with the given id.
	// Returns ErrNotFound if no such post exists.
	DeletePost(ctx context.Context, id int64) error
}
