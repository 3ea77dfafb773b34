package handler_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/boardkit/board/internal/repository"
)

// fakeStore is an in-memory repository used by handler tests.
// It mirrors the Postgres implementation's contract: generated ids,
// unique emails, store-assigned timestamps, newest-first listings.
type fakeStore struct {
	mu         sync.Mutex
	users      map[int64]repository.User
	posts      map[int64]repository.Post
	nextUserID int64
	nextPostID int64
	now        time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]repository.User),
		posts: make(map[int64]repository.Post),
		now:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) CreateUser(_ context.Context, arg repository.CreateUserParams) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == arg.Email {
			return repository.User{}, repository.ErrEmailTaken
		}
	}

	s.nextUserID++
	u := repository.User{
		ID:           s.nextUserID,
		Name:         arg.Name,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *fakeStore) GetUserByEmail(_ context.Context, email string) (repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (s *fakeStore) CreatePost(_ context.Context, arg repository.CreatePostParams) (repository.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPostID++
	s.now = s.now.Add(time.Minute)
	p := repository.Post{
		ID:        s.nextPostID,
		UserID:    arg.UserID,
		Name:      arg.Name,
		Title:     arg.Title,
		Content:   arg.Content,
		CreatedAt: s.now,
	}
	s.posts[p.ID] = p
	return p, nil
}

func (s *fakeStore) GetPost(_ context.Context, id int64) (repository.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return repository.Post{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *fakeStore) ListPosts(_ context.Context) ([]repository.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(repository.Post) bool { return true }), nil
}

func (s *fakeStore) ListPostsByUser(_ context.Context, userID int64) ([]repository.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(p repository.Post) bool { return p.UserID == userID }), nil
}

func (s *fakeStore) DeletePost(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *fakeStore) sorted(keep func(repository.Post) bool) []repository.Post {
	out := []repository.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}
