package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/articlehub/internal/domain/article"
)

type ArticlesRepo struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]article.Article
}

func NewArticlesRepo() *ArticlesRepo {
	return &ArticlesRepo{
		nextID: 1,
		byID:   make(map[int64]article.Article),
	}
}

func (r *ArticlesRepo) Create(ctx context.Context, a article.Article) (article.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	a.ID = r.nextID
	a.CreatedAt = now
	a.UpdatedAt = now
	r.nextID++
	r.byID[a.ID] = a

	return a, nil
}

func (r *ArticlesRepo) List(ctx context.Context) ([]article.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]article.Article, 0, len(r.byID))

	for id := int64(1); id < r.nextID; id++ {
		if a, ok := r.byID[id]; ok {
			out = append(out, a)
		}
	}

	return out, nil
}

func (r *ArticlesRepo) GetByID(ctx context.Context, id int64) (article.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]

	if !ok {
		return article.Article{}, article.ErrNotFound
	}

	return a, nil
}

func (r *ArticlesRepo) Update(ctx context.Context, a article.Article) (article.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[a.ID]

	if !ok {
		return article.Article{}, article.ErrNotFound
	}

	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now().UTC()
	r.byID[a.ID] = a

	return a, nil
}

func (r *ArticlesRepo) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]

	if !ok || a.UserID != ownerID {
		return article.ErrNotFound
	}

	delete(r.byID, id)

	return nil
}

// DeleteByOwner mirrors the schema's ON DELETE CASCADE for tests that
// exercise user deletion.
func (r *ArticlesRepo) DeleteByOwner(ctx context.Context, ownerID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.byID {
		if a.UserID == ownerID {
			delete(r.byID, id)
		}
	}
}
