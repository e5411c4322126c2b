package submission

import (
	"context"
	"log/slog"
	"net/http"

	"formgate/middleware/requestlog"
	"formgate/submission/domain"
)

// Submitter é o caso de uso chamado depois das validações HTTP.
type Submitter interface {
	Submit(ctx context.Context, rec domain.Record) (domain.Record, error)
}

// Handler atende POST /submit.
type Handler struct {
	svc          Submitter
	origins      domain.AllowList
	maxBodyBytes int64
	log          *slog.Logger
}

type HandlerOption func(*Handler)

func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *Handler) { h.maxBodyBytes = n }
}

func WithHandlerLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) { h.log = l }
}

func NewHandler(svc Submitter, origins domain.AllowList, opts ...HandlerOption) *Handler {
	h := &Handler{
		svc:          svc,
		origins:      origins,
		maxBodyBytes: DefaultMaxBodyBytes,
		log:          slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	log := h.log.With("request_id", requestlog.ID(r.Context()))

	rec, err := ParseBody(r)
	if err != nil {
		log.Info("rejected submission body", "error", err, "content_type", r.Header.Get("Content-Type"))
		writeError(w, err)
		return
	}

	referer, origin := r.Header.Get("Referer"), r.Header.Get("Origin")
	if !h.origins.Allows(referer, origin) {
		log.Warn("invalid request source", "referer", referer, "origin", origin)
		writeError(w, domain.ErrOriginRejected)
		return
	}

	stored, err := h.svc.Submit(r.Context(), rec)
	if err != nil {
		writeError(w, err)
		return
	}

	if redirect := r.URL.Query().Get("redirect"); redirect != "" {
		http.Redirect(w, r, redirect, http.StatusFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data":   stored,
	})
}
