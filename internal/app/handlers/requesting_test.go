package handlers_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilya-burinskiy/clipgate/internal/app/bus"
	busmocks "github.com/ilya-burinskiy/clipgate/internal/app/bus/mocks"
	"github.com/ilya-burinskiy/clipgate/internal/app/handlers"
	"github.com/ilya-burinskiy/clipgate/internal/app/middlewares"
	"github.com/ilya-burinskiy/clipgate/internal/app/services"
)

var testTopic = bus.Topic{Project: "proj", Name: "clips"}

const validRequest = `{"user_id":"u1","src":"s1","start":0,"end":10}`

func newRequestingServer(publisher bus.Publisher) *httptest.Server {
	handler := handlers.NewRequestingHandlers(
		services.NewDispatcher(publisher, testTopic, testTimeout),
	)
	router := chi.NewRouter()
	router.Use(middlewares.Common()...)
	handler.Register(router)

	return httptest.NewServer(router)
}

func post(t *testing.T, url, body string) (*http.Response, string) {
	response, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, response.Body.Close())
	}()
	resBody, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	return response, string(resBody)
}

func TestCreateRequestHandler(t *testing.T) {
	type want struct {
		code     int
		response string
	}
	testCases := []struct {
		name    string
		reqBody string
		setup   func(publisher *busmocks.MockPublisher)
		want    want
	}{
		{
			name:    "echoes request when bus acknowledges it",
			reqBody: validRequest,
			setup: func(publisher *busmocks.MockPublisher) {
				publisher.EXPECT().
					Publish(gomock.Any(), testTopic, []byte(validRequest)).
					Times(1).
					Return(nil)
			},
			want: want{code: http.StatusOK, response: validRequest},
		},
		{
			name:    "accepts fields in any order",
			reqBody: `{"end":7.5,"start":2.5,"src":"movie.mp4","user_id":"u2"}`,
			setup: func(publisher *busmocks.MockPublisher) {
				publisher.EXPECT().
					Publish(gomock.Any(), testTopic, []byte(`{"user_id":"u2","src":"movie.mp4","start":2.5,"end":7.5}`)).
					Times(1).
					Return(nil)
			},
			want: want{code: http.StatusOK, response: `{"user_id":"u2","src":"movie.mp4","start":2.5,"end":7.5}`},
		},
		{
			name:    "responses with internal server error when publish fails",
			reqBody: validRequest,
			setup: func(publisher *busmocks.MockPublisher) {
				publisher.EXPECT().
					Publish(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(errors.Join(bus.ErrPublishFailed, errors.New("broker down")))
			},
			want: want{code: http.StatusInternalServerError, response: "{}"},
		},
		{
			name:    "responses with gateway timeout when bus does not acknowledge in time",
			reqBody: validRequest,
			setup: func(publisher *busmocks.MockPublisher) {
				publisher.EXPECT().
					Publish(gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(context.DeadlineExceeded)
			},
			want: want{code: http.StatusGatewayTimeout, response: "{}"},
		},
		{
			name:    "responses with unprocessable entity on missing field",
			reqBody: `{"user_id":"u1","src":"s1","start":0}`,
			setup:   func(publisher *busmocks.MockPublisher) {},
			want:    want{code: http.StatusUnprocessableEntity, response: "invalid request\n"},
		},
		{
			name:    "responses with unprocessable entity on wrong type",
			reqBody: `{"user_id":"u1","src":"s1","start":"zero","end":10}`,
			setup:   func(publisher *busmocks.MockPublisher) {},
			want:    want{code: http.StatusUnprocessableEntity, response: "invalid request\n"},
		},
		{
			name:    "responses with unprocessable entity on trailing garbage",
			reqBody: validRequest + ` not json`,
			setup:   func(publisher *busmocks.MockPublisher) {},
			want:    want{code: http.StatusUnprocessableEntity, response: "invalid request\n"},
		},
		{
			name:    "responses with unprocessable entity on second JSON value",
			reqBody: validRequest + `{"x":1}`,
			setup:   func(publisher *busmocks.MockPublisher) {},
			want:    want{code: http.StatusUnprocessableEntity, response: "invalid request\n"},
		},
		{
			name:    "accepts trailing whitespace",
			reqBody: validRequest + "\n\t ",
			setup: func(publisher *busmocks.MockPublisher) {
				publisher.EXPECT().
					Publish(gomock.Any(), testTopic, []byte(validRequest)).
					Times(1).
					Return(nil)
			},
			want: want{code: http.StatusOK, response: validRequest},
		},
		{
			name:    "responses with request entity too large on oversized body",
			reqBody: `{"user_id":"u1","src":"` + strings.Repeat("s", 70<<10) + `","start":0,"end":10}`,
			setup:   func(publisher *busmocks.MockPublisher) {},
			want:    want{code: http.StatusRequestEntityTooLarge, response: "request too large\n"},
		},
		{
			name:    "responses with unprocessable entity on malformed JSON",
			reqBody: `{"user_id":`,
			setup:   func(publisher *busmocks.MockPublisher) {},
			want:    want{code: http.StatusUnprocessableEntity, response: "invalid request\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			publisherMock := busmocks.NewMockPublisher(ctrl)
			tc.setup(publisherMock)
			testServer := newRequestingServer(publisherMock)
			defer testServer.Close()

			response, body := post(t, testServer.URL+"/request", tc.reqBody)

			assert.Equal(t, tc.want.code, response.StatusCode)
			if tc.want.code == http.StatusUnprocessableEntity || tc.want.code == http.StatusRequestEntityTooLarge {
				assert.Equal(t, tc.want.response, body)
			} else {
				assert.Equal(t, "application/json", response.Header.Get("Content-Type"))
				assert.JSONEq(t, tc.want.response, body)
			}
		})
	}
}

func TestCreateRequestPublishesEverySubmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisherMock := busmocks.NewMockPublisher(ctrl)
	publisherMock.EXPECT().
		Publish(gomock.Any(), testTopic, []byte(validRequest)).
		Times(2).
		Return(nil)
	testServer := newRequestingServer(publisherMock)
	defer testServer.Close()

	for i := 0; i < 2; i++ {
		response, body := post(t, testServer.URL+"/request", validRequest)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.JSONEq(t, validRequest, body)
	}
}

func TestTestHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	testServer := newRequestingServer(busmocks.NewMockPublisher(ctrl))
	defer testServer.Close()

	response, body := roundTrip(t, http.MethodGet, testServer.URL+"/test")
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, "{}", body)

	response, _ = roundTrip(t, http.MethodPost, testServer.URL+"/test")
	assert.Equal(t, http.StatusMethodNotAllowed, response.StatusCode)
}
