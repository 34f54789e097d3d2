package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/schooldesk/schooldesk-api/internal/dto"
	"github.com/schooldesk/schooldesk-api/internal/service"
	"github.com/schooldesk/schooldesk-api/internal/utils"
)

type stubBatchService struct {
	listFn   func(ctx context.Context) ([]dto.BatchResponse, error)
	createFn func(ctx context.Context, req dto.BatchCreateRequest, actor service.Actor) (dto.BatchResponse, error)
	updateFn func(ctx context.Context, id uint, req dto.BatchUpdateRequest) (dto.BatchResponse, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (s *stubBatchService) List(ctx context.Context) ([]dto.BatchResponse, error) {
	return s.listFn(ctx)
}

func (s *stubBatchService) Create(ctx context.Context, req dto.BatchCreateRequest, actor service.Actor) (dto.BatchResponse, error) {
	return s.createFn(ctx, req, actor)
}

func (s *stubBatchService) Update(ctx context.Context, id uint, req dto.BatchUpdateRequest) (dto.BatchResponse, error) {
	return s.updateFn(ctx, id, req)
}

func (s *stubBatchService) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func newBatchApp(svc service.BatchService) *fiber.App {
	app := fiber.New()
	NewBatchHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/batches"))
	return app
}

func decodeResponse(t *testing.T, res *http.Response) utils.APIResponse {
	t.Helper()
	var body utils.APIResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	require.NoError(t, res.Body.Close())
	return body
}

func TestBatchListReturnsEnvelope(t *testing.T) {
	svc := &stubBatchService{
		listFn: func(ctx context.Context) ([]dto.BatchResponse, error) {
			return []dto.BatchResponse{{ID: 1, Name: "2025-2026", StartYear: 2025, EndYear: 2026}}, nil
		},
	}
	app := newBatchApp(svc)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/batches", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeResponse(t, res)
	require.True(t, body.Success)
	require.Equal(t, "batches retrieved", body.Message)
	require.NotNil(t, body.Data)
}

func TestBatchCreateReturns201(t *testing.T) {
	var received dto.BatchCreateRequest
	svc := &stubBatchService{
		createFn: func(ctx context.Context, req dto.BatchCreateRequest, actor service.Actor) (dto.BatchResponse, error) {
			received = req
			return dto.BatchResponse{ID: 1, Name: req.Name, StartYear: req.StartYear, EndYear: req.EndYear}, nil
		},
	}
	app := newBatchApp(svc)

	payload := bytes.NewBufferString(`{"name":"2025-2026","start_year":2025,"end_year":2026}`)
	req := httptest.NewRequest(http.MethodPost, "/batches", payload)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	require.Equal(t, "2025-2026", received.Name)
	require.Equal(t, 2025, received.StartYear)

	body := decodeResponse(t, res)
	require.True(t, body.Success)
	require.Equal(t, "batch created", body.Message)
}

func TestBatchCreateConflictAndYearOrder(t *testing.T) {
	svc := &stubBatchService{
		createFn: func(ctx context.Context, req dto.BatchCreateRequest, actor service.Actor) (dto.BatchResponse, error) {
			return dto.BatchResponse{}, service.ErrBatchNameTaken
		},
	}
	app := newBatchApp(svc)

	payload := bytes.NewBufferString(`{"name":"2025-2026","start_year":2025,"end_year":2026}`)
	req := httptest.NewRequest(http.MethodPost, "/batches", payload)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, res.StatusCode)

	svc.createFn = func(ctx context.Context, req dto.BatchCreateRequest, actor service.Actor) (dto.BatchResponse, error) {
		return dto.BatchResponse{}, service.ErrBatchYearOrder
	}
	payload = bytes.NewBufferString(`{"name":"2026-2025","start_year":2026,"end_year":2025}`)
	req = httptest.NewRequest(http.MethodPost, "/batches", payload)
	req.Header.Set("Content-Type", "application/json")

	res, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	body := decodeResponse(t, res)
	require.False(t, body.Success)
}

func TestBatchDeleteMapsNotFound(t *testing.T) {
	svc := &stubBatchService{
		deleteFn: func(ctx context.Context, id uint) error {
			return service.ErrBatchNotFound
		},
	}
	app := newBatchApp(svc)

	res, err := app.Test(httptest.NewRequest(http.MethodDelete, "/batches/42", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestBatchUpdateRejectsBadID(t *testing.T) {
	svc := &stubBatchService{}
	app := newBatchApp(svc)

	payload := bytes.NewBufferString(`{"name":"renamed"}`)
	req := httptest.NewRequest(http.MethodPut, "/batches/abc", payload)
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}
