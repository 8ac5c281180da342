package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ilya-burinskiy/clipgate/internal/app/logger"
	"github.com/ilya-burinskiy/clipgate/internal/app/middlewares"
)

func TestLoggers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	old := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = old }()

	router := chi.NewRouter()
	router.Use(middlewares.Common()...)
	router.Get("/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	testServer := httptest.NewServer(router)
	defer testServer.Close()

	response, err := testServer.Client().Get(testServer.URL + "/user/missing")
	require.NoError(t, err)
	require.NoError(t, response.Body.Close())
	assert.Equal(t, http.StatusNotFound, response.StatusCode)

	responses := logs.FilterMessage("response").All()
	require.Len(t, responses, 1)
	assert.Equal(t, int64(http.StatusNotFound), responses[0].ContextMap()["status"])
	assert.NotEmpty(t, responses[0].ContextMap()["request_id"])

	requests := logs.FilterMessage("got incoming HTTP request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, "/user/missing", requests[0].ContextMap()["URI"])

	response, err = testServer.Client().Get(testServer.URL + "/panic")
	require.NoError(t, err)
	require.NoError(t, response.Body.Close())
	assert.Equal(t, http.StatusInternalServerError, response.StatusCode)
}
