package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/articlehub/internal/cache"
	"github.com/geocoder89/articlehub/internal/domain/article"
	"github.com/geocoder89/articlehub/internal/domain/user"
	"github.com/geocoder89/articlehub/internal/http/handlers"
	"github.com/geocoder89/articlehub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type fakeArticlesStore struct {
	create      func(ctx context.Context, a article.Article) (article.Article, error)
	list        func(ctx context.Context) ([]article.Article, error)
	getByID     func(ctx context.Context, id int64) (article.Article, error)
	update      func(ctx context.Context, a article.Article) (article.Article, error)
	deleteOwned func(ctx context.Context, id, ownerID int64) error
}

func (f *fakeArticlesStore) Create(ctx context.Context, a article.Article) (article.Article, error) {
	return f.create(ctx, a)
}

func (f *fakeArticlesStore) List(ctx context.Context) ([]article.Article, error) {
	return f.list(ctx)
}

func (f *fakeArticlesStore) GetByID(ctx context.Context, id int64) (article.Article, error) {
	return f.getByID(ctx, id)
}

func (f *fakeArticlesStore) Update(ctx context.Context, a article.Article) (article.Article, error) {
	return f.update(ctx, a)
}

func (f *fakeArticlesStore) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	return f.deleteOwned(ctx, id, ownerID)
}

func TestCreateArticle_OwnerIsRequester(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var stored article.Article

	store := &fakeArticlesStore{
		create: func(_ context.Context, a article.Article) (article.Article, error) {
			stored = a
			a.ID = 1
			return a, nil
		},
	}

	h := handlers.NewArticlesHandler(store, nil, nil)
	guard := middlewares.NewAuthMiddleware(&staticResolver{u: user.User{ID: 7}})

	r := gin.New()
	r.POST("/articles", guard.RequireAuth(), h.Create)

	body := `{"title":"Go 1.24 released","description":"Release notes roundup","sourceUrl":"https://go.dev/blog"}`
	req := httptest.NewRequest(http.MethodPost, "/articles", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusCreated, w.Body.String())
	}

	if stored.UserID != 7 {
		t.Fatalf("article owner = %d, want the requester (7)", stored.UserID)
	}
}

func TestCreateArticle_BadSourceURL(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeArticlesStore{
		create: func(_ context.Context, _ article.Article) (article.Article, error) {
			t.Fatalf("store must not be hit for an invalid request")
			return article.Article{}, nil
		},
	}

	h := handlers.NewArticlesHandler(store, nil, nil)
	guard := middlewares.NewAuthMiddleware(&staticResolver{u: user.User{ID: 7}})

	r := gin.New()
	r.POST("/articles", guard.RequireAuth(), h.Create)

	body := `{"title":"t","description":"d","sourceUrl":"not a url"}`
	req := httptest.NewRequest(http.MethodPost, "/articles", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUpdateArticle_TransfersOwnership(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var saved article.Article

	store := &fakeArticlesStore{
		getByID: func(_ context.Context, id int64) (article.Article, error) {
			return article.Article{ID: id, Title: "Old title", Description: "d", SourceURL: "https://example.com", UserID: 3}, nil
		},
		update: func(_ context.Context, a article.Article) (article.Article, error) {
			saved = a
			return a, nil
		},
	}

	h := handlers.NewArticlesHandler(store, nil, nil)
	guard := middlewares.NewAuthMiddleware(&staticResolver{u: user.User{ID: 7}})

	r := gin.New()
	r.PUT("/articles/:id", guard.RequireAuth(), h.Update)

	req := httptest.NewRequest(http.MethodPut, "/articles/1", bytes.NewBufferString(`{"title":"New title"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer token")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusAccepted, w.Body.String())
	}

	if saved.Title != "New title" {
		t.Fatalf("title not updated: %+v", saved)
	}

	// an update by a non-owner moves the article to the requester
	if saved.UserID != 7 {
		t.Fatalf("owner after update = %d, want 7", saved.UserID)
	}

	// untouched fields survive the merge
	if saved.Description != "d" || saved.SourceURL != "https://example.com" {
		t.Fatalf("absent fields must keep their values: %+v", saved)
	}
}

func TestDeleteArticle_OwnerOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeArticlesStore{
		deleteOwned: func(_ context.Context, id, ownerID int64) error {
			if id == 1 && ownerID == 7 {
				return nil
			}
			// someone else's article looks exactly like a missing one
			return article.ErrNotFound
		},
	}

	h := handlers.NewArticlesHandler(store, nil, nil)

	cases := []struct {
		name       string
		actor      user.User
		wantStatus int
	}{
		{name: "owner", actor: user.User{ID: 7}, wantStatus: http.StatusNoContent},
		{name: "non-owner", actor: user.User{ID: 8}, wantStatus: http.StatusNotFound},
	}

	for _, tc := range cases {
		guard := middlewares.NewAuthMiddleware(&staticResolver{u: tc.actor})

		r := gin.New()
		r.DELETE("/articles/:id", guard.RequireAuth(), h.Delete)

		req := httptest.NewRequest(http.MethodDelete, "/articles/1", nil)
		req.Header.Set("Authorization", "Bearer token")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tc.wantStatus {
			t.Fatalf("%s: got status %d, want %d, body=%s", tc.name, w.Code, tc.wantStatus, w.Body.String())
		}
	}
}

func TestListArticles_ServedFromCacheOnSecondHit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repoHits := 0

	store := &fakeArticlesStore{
		list: func(_ context.Context) ([]article.Article, error) {
			repoHits++
			return []article.Article{{ID: 1, Title: "t", UserID: 7}}, nil
		},
	}

	h := handlers.NewArticlesHandler(store, cache.NewMemory(time.Minute), nil)

	r := gin.New()
	r.GET("/articles", h.List)

	var bodies []string

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/articles", nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("request %d: got status %d, want %d", i, w.Code, http.StatusOK)
		}

		if w.Header().Get("ETag") == "" {
			t.Fatalf("request %d: expected an ETag header", i)
		}

		bodies = append(bodies, w.Body.String())
	}

	if repoHits != 1 {
		t.Fatalf("repo hit %d times, want 1 (second read from cache)", repoHits)
	}

	if bodies[0] != bodies[1] {
		t.Fatalf("cached body differs from the original:\n%s\nvs\n%s", bodies[0], bodies[1])
	}
}

func TestGetArticle(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := &fakeArticlesStore{
		getByID: func(_ context.Context, id int64) (article.Article, error) {
			if id != 1 {
				return article.Article{}, article.ErrNotFound
			}
			return article.Article{ID: 1, Title: "t", UserID: 7}, nil
		},
	}

	h := handlers.NewArticlesHandler(store, nil, nil)

	r := gin.New()
	r.GET("/articles/:id", h.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/articles/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}

	var got article.Article
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if got.ID != 1 || got.Title != "t" {
		t.Fatalf("unexpected article: %+v", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/articles/99", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("missing article: got status %d, want %d", w.Code, http.StatusNotFound)
	}
}
