package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ilya-burinskiy/clipgate/internal/app/bus"
	"github.com/ilya-burinskiy/clipgate/internal/app/handlers"
	"github.com/ilya-burinskiy/clipgate/internal/app/models"
	"github.com/ilya-burinskiy/clipgate/internal/app/services"
	"github.com/ilya-burinskiy/clipgate/internal/app/storage"
)

func BenchmarkGetDestinationHandler(b *testing.B) {
	store := storage.NewMapStorage()
	store.Put(models.Record{ID: "abc", Destination: models.StrPtr("product/42")})
	handler := handlers.NewDeliveringHandlers(
		services.NewResolver(store, "example.com", testTimeout),
		services.NewLister(store, testTimeout),
	)
	router := chi.NewRouter()
	handler.Register(router)

	request, err := http.NewRequest(http.MethodGet, "/user/abc", nil)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		router.ServeHTTP(httptest.NewRecorder(), request)
	}
}

func BenchmarkListRecordsJSON(b *testing.B) {
	store := storage.NewMapStorage()
	for i := 0; i < storage.DefaultListLimit; i++ {
		store.Put(models.Record{ID: strings.Repeat("x", i+1), Destination: models.StrPtr("movie")})
	}
	handler := handlers.NewDeliveringHandlers(
		services.NewResolver(store, "example.com", testTimeout),
		services.NewLister(store, testTimeout),
	)

	request, err := http.NewRequest(http.MethodGet, "/api/user", nil)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ListRecordsJSON(httptest.NewRecorder(), request)
	}
}

func BenchmarkCreateRequestHandler(b *testing.B) {
	publisher := bus.NewMemoryPublisher(0)
	handler := handlers.NewRequestingHandlers(
		services.NewDispatcher(publisher, testTopic, testTimeout),
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		request, err := http.NewRequest(http.MethodPost, "/request", strings.NewReader(validRequest))
		require.NoError(b, err)
		handler.CreateRequest(httptest.NewRecorder(), request)
	}
}
