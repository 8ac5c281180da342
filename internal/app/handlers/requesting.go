package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ilya-burinskiy/clipgate/internal/app/logger"
	"github.com/ilya-burinskiy/clipgate/internal/app/models"
	"github.com/ilya-burinskiy/clipgate/internal/app/services"
)

// maxRequestBodySize bounds the body of POST /request
const maxRequestBodySize = 64 << 10

var errTrailingData = errors.New("unexpected data after request body")

// Handlers of the requesting service
type RequestingHandlers struct {
	dispatcher services.Dispatcher
	validate   *validator.Validate
}

func NewRequestingHandlers(dispatcher services.Dispatcher) RequestingHandlers {
	return RequestingHandlers{
		dispatcher: dispatcher,
		validate:   validator.New(),
	}
}

// Register routes of the requesting service
func (h RequestingHandlers) Register(router chi.Router) {
	router.Get("/test", h.Test)
	router.Post("/request", h.CreateRequest)
}

// Liveness check
func (h RequestingHandlers) Test(w http.ResponseWriter, r *http.Request) {
	writeEmptyObject(w, http.StatusOK)
}

// requestBody uses pointers so that a missing field differs from a zero one
type requestBody struct {
	UserID *string  `json:"user_id" validate:"required"`
	Src    *string  `json:"src" validate:"required"`
	Start  *float64 `json:"start" validate:"required"`
	End    *float64 `json:"end" validate:"required"`
}

func (b requestBody) toModel() models.ProcessingRequest {
	return models.ProcessingRequest{
		UserID: *b.UserID,
		Src:    *b.Src,
		Start:  *b.Start,
		End:    *b.End,
	}
}

// Publish a processing request
func (h RequestingHandlers) CreateRequest(w http.ResponseWriter, r *http.Request) {
	body, err := decodeRequestBody(w, r)
	if err != nil {
		logger.Log.Info("invalid request body", zap.Error(err))
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid request", http.StatusUnprocessableEntity)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		logger.Log.Info("invalid request body", zap.Error(err))
		http.Error(w, "invalid request", http.StatusUnprocessableEntity)
		return
	}

	req := body.toModel()
	logger.Log.Info(
		"processing request",
		zap.String("user_id", req.UserID),
		zap.String("src", req.Src),
		zap.Float64("start", req.Start),
		zap.Float64("end", req.End),
	)
	if err := h.dispatcher.Submit(r.Context(), req); err != nil {
		logger.Log.Error("failed to submit request", zap.String("user_id", req.UserID), zap.Error(err))
		status := http.StatusInternalServerError
		if statusOf(err) == http.StatusGatewayTimeout {
			status = http.StatusGatewayTimeout
		}
		writeEmptyObject(w, status)
		return
	}

	writeJSON(w, http.StatusOK, req)
}

// decodeRequestBody reads exactly one JSON object from the size-limited body
func decodeRequestBody(w http.ResponseWriter, r *http.Request) (requestBody, error) {
	var body requestBody
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	if err := decoder.Decode(&body); err != nil {
		return requestBody{}, err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errTrailingData
		}
		return requestBody{}, err
	}

	return body, nil
}
