package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/aa-remote/site/internal/catalog"
	"github.com/aa-remote/site/internal/domain"
	"github.com/aa-remote/site/internal/platform/httpx"
	"github.com/aa-remote/site/internal/platform/observability"
	"github.com/aa-remote/site/internal/sources"
)

type catalogHandler struct {
	svc CatalogService
}

type productsResponse struct {
	Collection string   `json:"collection"`
	Items      any      `json:"items"`
	TotalPages int      `json:"total_pages"`
	TotalCount int      `json:"total_count"`
	Page       int      `json:"page"`
	Categories []string `json:"categories"`
	Query      string   `json:"query,omitempty"`
}

// list answers GET /api/products. The query parameters are the view state;
// the response carries the canonical (clamped) query string so the client
// can rewrite its URL to match.
func (h *catalogHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := catalog.ParseViewState(r.URL.Query())

	// A non-empty search means the user is typing; nudge a background
	// source refresh so the next snapshot is warm.
	if state.Search != "" {
		h.svc.RefreshDebounced()
	}

	view, err := h.svc.View(ctx, state)
	if err != nil {
		observability.FromContext(ctx).Error("catalog view failed", zap.Error(err))
		if errors.Is(err, sources.ErrAllSourcesFailed) {
			httpx.WriteError(ctx, w, httpx.NewError("catalog_unavailable", "game catalog is temporarily unavailable", http.StatusServiceUnavailable))
			return
		}
		httpx.WriteError(ctx, w, httpx.NewError("internal", "failed to load catalog", http.StatusInternalServerError))
		return
	}

	resp := productsResponse{
		Collection: string(view.State.Collection),
		Page:       view.State.Page,
		Categories: h.svc.Categories(view.State.Collection),
		Query:      view.State.Encode().Encode(),
	}
	if view.State.Collection == domain.CollectionGame {
		resp.Items = view.Games.Items
		resp.TotalPages = view.Games.TotalPages
		resp.TotalCount = view.Games.TotalCount
	} else {
		resp.Items = view.Software.Items
		resp.TotalPages = view.Software.TotalPages
		resp.TotalCount = view.Software.TotalCount
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}

type proxyHandler struct {
	proxy GamesProxy
}

// games answers GET /api/games by relaying the upstream feed byte for byte.
// The browser talks to this origin only, so the upstream's CORS policy never
// comes into play.
func (h *proxyHandler) games(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, status, err := h.proxy.FetchRaw(ctx)
	if err != nil || status < http.StatusOK || status >= http.StatusMultipleChoices {
		observability.FromContext(ctx).Warn("games proxy fetch failed",
			zap.Int("upstream_status", status), zap.Error(err))
		// Relay the upstream's own failure status when it has one; anything
		// else becomes a bad gateway. Error responses are never cacheable.
		if status < 400 {
			status = http.StatusBadGateway
		}
		httpx.WriteError(ctx, w, httpx.NewError("upstream_unavailable", "failed to fetch games from upstream", status))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, s-maxage=3600, stale-while-revalidate=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type localDataHandler struct {
	path string
}

// serve answers GET /data/games.json with the curated local catalog file.
func (h *localDataHandler) serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := os.ReadFile(h.path)
	if err != nil {
		observability.FromContext(ctx).Error("local catalog read failed",
			zap.String("path", h.path), zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "local catalog unavailable", http.StatusNotFound))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.FromContext(ctx).Warn("response encode failed", zap.Error(err))
	}
}
