package handlers

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ilya-burinskiy/clipgate/internal/app/logger"
	"github.com/ilya-burinskiy/clipgate/internal/app/models"
	"github.com/ilya-burinskiy/clipgate/internal/app/services"
)

//go:embed templates/list.html
var templatesFS embed.FS

var listTemplate = template.Must(template.ParseFS(templatesFS, "templates/list.html"))

var errInvalidLimit = errors.New("limit must be a positive integer")

// Handlers of the delivering service
type DeliveringHandlers struct {
	resolver services.Resolver
	lister   services.Lister
}

func NewDeliveringHandlers(resolver services.Resolver, lister services.Lister) DeliveringHandlers {
	return DeliveringHandlers{
		resolver: resolver,
		lister:   lister,
	}
}

// Register routes of the delivering service
func (h DeliveringHandlers) Register(router chi.Router) {
	router.Get("/ping", h.Ping)
	router.Get("/user/{id}", h.GetDestination)
	router.Group(func(router chi.Router) {
		router.Use(middleware.Compress(5, "text/html", "application/json"))
		router.Get("/user", h.ListRecords)
		router.Get("/api/user", h.ListRecordsJSON)
	})
}

// Redirect to the destination of a record
func (h DeliveringHandlers) GetDestination(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	target, err := h.resolver.Resolve(r.Context(), id)
	if err != nil {
		status := statusOf(err)
		if status != http.StatusNotFound {
			logger.Log.Info("failed to resolve record", zap.String("id", id), zap.Error(err))
		}
		w.WriteHeader(status)
		return
	}

	http.RedirectHandler(target, http.StatusMovedPermanently).
		ServeHTTP(w, r)
}

type listItem struct {
	ID     string `json:"id"`
	Dst    string `json:"dst"`
	UserID string `json:"user_id"`
}

// Render records as an HTML table
func (h DeliveringHandlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	items, ok := h.listItems(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listTemplate.Execute(w, items); err != nil {
		logger.Log.Info("failed to render records", zap.Error(err))
	}
}

// Render records as JSON
func (h DeliveringHandlers) ListRecordsJSON(w http.ResponseWriter, r *http.Request) {
	items, ok := h.listItems(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Ping the store
func (h DeliveringHandlers) Ping(w http.ResponseWriter, r *http.Request) {
	if _, err := h.lister.List(r.Context(), 1); err != nil {
		logger.Log.Info("ping failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h DeliveringHandlers) listItems(w http.ResponseWriter, r *http.Request) ([]listItem, bool) {
	limit, err := parseLimit(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	records, err := h.lister.List(r.Context(), limit)
	if err != nil {
		logger.Log.Info("failed to list records", zap.Error(err))
		w.WriteHeader(statusOf(err))
		return nil, false
	}

	return toListItems(records), true
}

func parseLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errInvalidLimit
	}

	return limit, nil
}

func toListItems(records []models.Record) []listItem {
	items := make([]listItem, 0, len(records))
	for _, record := range records {
		dst, _ := record.Dst()
		items = append(items, listItem{
			ID:     record.ID,
			Dst:    dst,
			UserID: record.UserID,
		})
	}

	return items
}
