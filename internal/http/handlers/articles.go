package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/articlehub/internal/cache"
	"github.com/geocoder89/articlehub/internal/config"
	"github.com/geocoder89/articlehub/internal/domain/article"
	"github.com/geocoder89/articlehub/internal/http/middlewares"
	"github.com/geocoder89/articlehub/internal/observability"
	"github.com/gin-gonic/gin"
)

type ArticlesStore interface {
	Create(ctx context.Context, a article.Article) (article.Article, error)
	List(ctx context.Context) ([]article.Article, error)
	GetByID(ctx context.Context, id int64) (article.Article, error)
	Update(ctx context.Context, a article.Article) (article.Article, error)
	DeleteOwned(ctx context.Context, id, ownerID int64) error
}

type ArticlesHandler struct {
	repo  ArticlesStore
	cache cache.Store
	prom  *observability.Prom
}

func NewArticlesHandler(repo ArticlesStore, store cache.Store, prom *observability.Prom) *ArticlesHandler {
	return &ArticlesHandler{repo: repo, cache: store, prom: prom}
}

func (h *ArticlesHandler) Create(ctx *gin.Context) {
	var req article.CreateArticleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	a, err := h.repo.Create(cctx, article.Article{
		Title:       req.Title,
		Description: req.Description,
		SourceURL:   req.SourceURL,
		UserID:      u.ID, // owner = requester
	})

	if err != nil {
		RespondInternal(ctx, "Could not create article")
		return
	}

	h.invalidate(cctx, cache.ArticlesListKey())

	ctx.JSON(http.StatusCreated, a)
}

func (h *ArticlesHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	key := cache.ArticlesListKey()

	if b, ok := h.cacheGet(cctx, key); ok {
		RespondRawJSONWithETag(ctx, http.StatusOK, b)
		return
	}

	articles, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list articles")
		return
	}

	payload := gin.H{
		"items": articles,
		"count": len(articles),
	}

	b, err := json.Marshal(payload)

	if err != nil {
		RespondInternal(ctx, "Could not list articles")
		return
	}

	h.cacheSet(cctx, key, b)

	RespondRawJSONWithETag(ctx, http.StatusOK, b)
}

func (h *ArticlesHandler) GetByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	key := cache.ArticleKey(id)

	if b, ok := h.cacheGet(cctx, key); ok {
		RespondRawJSONWithETag(ctx, http.StatusOK, b)
		return
	}

	a, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			RespondNotFound(ctx, "Article not found")
			return
		}
		RespondInternal(ctx, "Could not fetch article")
		return
	}

	b, err := json.Marshal(a)

	if err != nil {
		RespondInternal(ctx, "Could not fetch article")
		return
	}

	h.cacheSet(cctx, key, b)

	RespondRawJSONWithETag(ctx, http.StatusOK, b)
}

// Update applies a partial update. When someone other than the owner
// updates an article, ownership moves to the requester.
func (h *ArticlesHandler) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)

	if !ok {
		return
	}

	var req article.UpdateArticleRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	a, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			RespondNotFound(ctx, "Article not found")
			return
		}
		RespondInternal(ctx, "Could not update article")
		return
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.SourceURL != nil {
		a.SourceURL = *req.SourceURL
	}
	if a.UserID != u.ID {
		a.UserID = u.ID
	}

	updated, err := h.repo.Update(cctx, a)

	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			RespondNotFound(ctx, "Article not found")
			return
		}
		RespondInternal(ctx, "Could not update article")
		return
	}

	h.invalidate(cctx, cache.ArticlesListKey(), cache.ArticleKey(id))

	ctx.JSON(http.StatusAccepted, updated)
}

// Delete is owner-only. Someone else's article looks exactly like a
// missing one.
func (h *ArticlesHandler) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)

	if !ok {
		return
	}

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	err := h.repo.DeleteOwned(cctx, id, u.ID)

	if err != nil {
		if errors.Is(err, article.ErrNotFound) {
			RespondNotFound(ctx, "Article not found")
			return
		}
		RespondInternal(ctx, "Could not delete article")
		return
	}

	h.invalidate(cctx, cache.ArticlesListKey(), cache.ArticleKey(id))

	ctx.Status(http.StatusNoContent)
}

// cache helpers; a nil store disables caching (some tests)

func (h *ArticlesHandler) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}

	b, ok := h.cache.Get(ctx, key)

	if h.prom != nil {
		h.prom.ObserveCache(key, ok)
	}

	return b, ok
}

func (h *ArticlesHandler) cacheSet(ctx context.Context, key string, val []byte) {
	if h.cache != nil {
		h.cache.Set(ctx, key, val)
	}
}

func (h *ArticlesHandler) invalidate(ctx context.Context, keys ...string) {
	if h.cache != nil {
		h.cache.Delete(ctx, keys...)
	}
}
