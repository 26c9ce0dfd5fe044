package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/zonecatalog"
	"dispatch/internal/core/application/candidates"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDriverWorkloadReader struct{ mock.Mock }

func (m *MockDriverWorkloadReader) Handle(
	ctx context.Context,
	query queries.GetDriverWorkloadQuery,
) ([]queries.GetDriverWorkloadQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.GetDriverWorkloadQueryResponse), args.Error(1)
}

type MockAssignmentHistoryReader struct{ mock.Mock }

func (m *MockAssignmentHistoryReader) Handle(
	ctx context.Context,
	query queries.GetAssignmentHistoryQuery,
) ([]queries.GetAssignmentHistoryQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.GetAssignmentHistoryQueryResponse), args.Error(1)
}

type failingOrderCreator struct{ err error }

func (f failingOrderCreator) Handle(context.Context, commands.CreateOrderCommand) error { return f.err }

type recordingObserver struct {
	paths    []string
	statuses []int
}

func (r *recordingObserver) ObserveHTTP(_ string, path string, status int, _ time.Duration) {
	r.paths = append(r.paths, path)
	r.statuses = append(r.statuses, status)
}

// newMemoryHandlers wires the real use cases over the in-memory adapters.
func newMemoryHandlers(t *testing.T) httpadapter.Handlers {
	t.Helper()
	store := memory.NewStore()
	zones, err := zonecatalog.New([]zonecatalog.Box{
		{Code: "HYD-CENTRAL", MinLat: 17.35, MaxLat: 17.45, MinLng: 78.42, MaxLng: 78.52},
	})
	require.NoError(t, err)

	registry := assignment.NewWeightRegistry(assignment.DefaultWeights())
	assigner := commands.NewAssignOrderCommandHandler(commands.AssignOrderDependencies{
		Candidates: candidates.NewProvider(store, store, 4),
		Zones:      zones,
		Weights:    registry,
		Scorer:     services.NewScorer(1.0),
		UoWFactory: store,
		Reserver:   memory.NewReserver(),
	}, commands.AssignmentPolicy{SearchRadiusKm: 10})

	return httpadapter.Handlers{
		CreateOrder:    commands.NewCreateOrderCommandHandler(store, nil),
		RegisterDriver: commands.NewRegisterDriverCommandHandler(store, zones, nil),
		AssignOrder:    assigner,
		AssignBatch:    commands.NewAssignBatchCommandHandler(assigner, 0, nil),
		SetWeights:     commands.NewSetWeightsCommandHandler(registry, nil),
		GetWeights:     queries.NewGetWeightsQueryHandler(registry),
		QuoteFare:      queries.NewQuoteFareQueryHandler(services.DefaultFareCalculator(), 1.0),
	}
}

func newEcho(handlers httpadapter.Handlers) *echo.Echo {
	e := echo.New()
	httpadapter.NewServer(handlers, nil).Register(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestServer_Health(t *testing.T) {
	rec := do(t, newEcho(httpadapter.Handlers{}), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_OrderToAssignmentFlow(t *testing.T) {
	e := newEcho(newMemoryHandlers(t))

	rec := do(t, e, http.MethodPost, "/api/v1/drivers", `{
		"name": "X", "vehicle": "motorcycle",
		"rating": 4.8, "completion_rate": 98, "on_time_rate": 95,
		"online": true, "available": true, "active": true, "verified": true,
		"home_zone": "HYD-CENTRAL",
		"location": {"lat": 17.41, "lng": 78.48}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	driver := decode[httpadapter.Driver](t, rec)
	assert.Equal(t, "HYD-CENTRAL", driver.CurrentZone)

	orderID := kernel.NewUUID().String()
	orderJSON := `{"id": "` + orderID + `", "pickup": {"lat": 17.40, "lng": 78.47},
		"dropoff": {"lat": 17.44, "lng": 78.50}, "prep_minutes": 10, "value": 320, "priority": "urgent"}`

	rec = do(t, e, http.MethodPost, "/api/v1/orders", orderJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, orderID, decode[httpadapter.CreatedOrder](t, rec).ID)

	rec = do(t, e, http.MethodPost, "/api/v1/assignments", `{"order": `+orderJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[httpadapter.AssignmentResult](t, rec)

	assert.True(t, result.Success)
	assert.Equal(t, "smart_routing", result.Algorithm)
	require.NotNil(t, result.DriverID)
	assert.Equal(t, driver.ID, *result.DriverID)
	require.NotNil(t, result.Score)
	assert.InDelta(t, 1.0, result.Score.ZoneScore, 1e-9)
	assert.NotNil(t, result.RecordID)
	assert.Equal(t, 1, result.CandidateCount)

	rec = do(t, e, http.MethodPost, "/api/v1/assignments", `{"order": `+orderJSON+`}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[httpadapter.AssignmentResult](t, rec).Success, "an assigned order is not pending anymore")
}

func TestServer_AssignOrder_NoDrivers(t *testing.T) {
	e := newEcho(newMemoryHandlers(t))

	rec := do(t, e, http.MethodPost, "/api/v1/assignments", `{
		"order": {"id": "`+kernel.NewUUID().String()+`",
			"pickup": {"lat": 17.40, "lng": 78.47}, "dropoff": {"lat": 17.44, "lng": 78.50}},
		"algorithm": "nearest"
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[httpadapter.AssignmentResult](t, rec)
	assert.False(t, result.Success)
	assert.Equal(t, "nearest", result.Algorithm)
	assert.Equal(t, assignment.ReasonNoDriversInRange, result.Reason)
	assert.Empty(t, result.Alternates)
}

func TestServer_AssignOrder_BadRequests(t *testing.T) {
	e := newEcho(newMemoryHandlers(t))
	id := kernel.NewUUID().String()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"order":`},
		{name: "missing id", body: `{"order": {"pickup": {"lat": 17.40, "lng": 78.47}, "dropoff": {"lat": 17.44, "lng": 78.50}}}`},
		{name: "latitude out of range", body: `{"order": {"id": "` + id + `", "pickup": {"lat": 95, "lng": 0}, "dropoff": {"lat": 0, "lng": 0}}}`},
		{name: "bad id", body: `{"order": {"id": "nope", "pickup": {"lat": 1, "lng": 1}, "dropoff": {"lat": 1, "lng": 1}}}`},
		{name: "bad priority", body: `{"order": {"id": "` + id + `", "pickup": {"lat": 1, "lng": 1}, "dropoff": {"lat": 1, "lng": 1}, "priority": "asap"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, "/api/v1/assignments", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, http.StatusBadRequest, decode[httpadapter.Error](t, rec).Code)
		})
	}
}

func TestServer_AssignBatch(t *testing.T) {
	e := newEcho(newMemoryHandlers(t))
	first, second := kernel.NewUUID().String(), kernel.NewUUID().String()

	rec := do(t, e, http.MethodPost, "/api/v1/assignments/batch", `{"orders": [
		{"id": "`+first+`", "pickup": {"lat": 17.40, "lng": 78.47}, "dropoff": {"lat": 17.44, "lng": 78.50}},
		{"id": "`+second+`", "pickup": {"lat": 17.40, "lng": 78.47}, "dropoff": {"lat": 17.44, "lng": 78.50}, "priority": "high"}
	]}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	results := decode[map[string]httpadapter.AssignmentResult](t, rec)
	require.Len(t, results, 2)
	assert.Equal(t, assignment.ReasonNoDriversInRange, results[first].Reason)
	assert.Equal(t, "smart_routing", results[second].Algorithm)
}

func TestServer_AssignBatch_RejectsOrdersItCannotAssign(t *testing.T) {
	e := newEcho(newMemoryHandlers(t))
	id := kernel.NewUUID().String()
	stored := `{"id": "` + id + `", "pickup": {"lat": 17.40, "lng": 78.47}, "dropoff": {"lat": 17.44, "lng": 78.50}}`

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "order without id",
			body: `{"orders": [` + stored + `, {"pickup": {"lat": 17.40, "lng": 78.47}, "dropoff": {"lat": 17.44, "lng": 78.50}}]}`,
			want: "value is required: id",
		},
		{
			name: "same order twice",
			body: `{"orders": [` + stored + `, ` + stored + `]}`,
			want: id,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, "/api/v1/assignments/batch", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Contains(t, decode[httpadapter.Error](t, rec).Message, tt.want)
		})
	}
}

func TestServer_Weights(t *testing.T) {
	e := newEcho(newMemoryHandlers(t))

	rec := do(t, e, http.MethodGet, "/api/v1/weights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, httpadapter.Weights{Distance: 0.40, Performance: 0.25, Load: 0.20, Zone: 0.15},
		decode[httpadapter.Weights](t, rec))

	rec = do(t, e, http.MethodPatch, "/api/v1/weights", `{"distance": 0.7, "zone": 0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[httpadapter.Weights](t, rec)
	assert.Zero(t, updated.Zone)
	assert.InDelta(t, 1.0, updated.Distance+updated.Performance+updated.Load+updated.Zone, 1e-9)
	assert.Greater(t, updated.Distance, 0.4)

	rec = do(t, e, http.MethodPatch, "/api/v1/weights", `{"load": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodPatch, "/api/v1/weights", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, e, http.MethodGet, "/api/v1/weights", "")
	assert.Equal(t, updated, decode[httpadapter.Weights](t, rec), "a rejected update leaves the weights untouched")
}

func TestServer_QuoteFare(t *testing.T) {
	e := newEcho(newMemoryHandlers(t))

	rec := do(t, e, http.MethodPost, "/api/v1/fares/quote",
		`{"pickup": {"lat": 17.40, "lng": 78.47}, "dropoff": {"lat": 17.40, "lng": 78.47}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, httpadapter.FareQuote{Base: 20, Total: 20}, decode[httpadapter.FareQuote](t, rec))

	rec = do(t, e, http.MethodPost, "/api/v1/fares/quote",
		`{"pickup": {"lat": 17.40, "lng": 78.47}, "dropoff": {"lat": 17.44, "lng": 78.50}, "surge": 0.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_CreateOrder_StoreFailure(t *testing.T) {
	handlers := newMemoryHandlers(t)
	handlers.CreateOrder = failingOrderCreator{err: errors.New("connection refused")}
	e := newEcho(handlers)

	rec := do(t, e, http.MethodPost, "/api/v1/orders",
		`{"pickup": {"lat": 17.40, "lng": 78.47}, "dropoff": {"lat": 17.44, "lng": 78.50}}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to create order", decode[httpadapter.Error](t, rec).Message)
}

func TestServer_ReadModelRoutes(t *testing.T) {
	t.Run("not registered without readers", func(t *testing.T) {
		e := newEcho(newMemoryHandlers(t))

		assert.Equal(t, http.StatusMethodNotAllowed, do(t, e, http.MethodGet, "/api/v1/drivers", "").Code)
		assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodGet, "/api/v1/orders/pending", "").Code)
	})

	t.Run("drivers", func(t *testing.T) {
		reader := new(MockDriverWorkloadReader)
		position := kernel.MustGeoPoint(17.41, 78.48)
		reader.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetDriverWorkloadQuery) bool {
			return q.OnlineOnly()
		})).Return([]queries.GetDriverWorkloadQueryResponse{
			{ID: kernel.NewUUID(), Name: "X", Vehicle: "car", Online: true, Position: &position, ActiveDeliveries: 2},
		}, nil)

		handlers := newMemoryHandlers(t)
		handlers.DriverWorkload = reader
		e := newEcho(handlers)

		rec := do(t, e, http.MethodGet, "/api/v1/drivers?online=true", "")
		require.Equal(t, http.StatusOK, rec.Code)
		drivers := decode[[]httpadapter.DriverWorkload](t, rec)
		require.Len(t, drivers, 1)
		assert.Equal(t, 2, drivers[0].ActiveDeliveries)
		require.NotNil(t, drivers[0].Location)
		assert.InDelta(t, 17.41, drivers[0].Location.Lat, 1e-9)

		assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, "/api/v1/drivers?online=maybe", "").Code)
		reader.AssertExpectations(t)
	})

	t.Run("history", func(t *testing.T) {
		reader := new(MockAssignmentHistoryReader)
		orderID := kernel.NewUUID()
		reader.On("Handle", mock.Anything, mock.Anything).Return(nil, errs.NewObjectNotFoundError("orderId", orderID))

		handlers := newMemoryHandlers(t)
		handlers.AssignmentHistory = reader
		e := newEcho(handlers)

		rec := do(t, e, http.MethodGet, "/api/v1/assignments/"+orderID.String()+"/history", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do(t, e, http.MethodGet, "/api/v1/assignments/not-a-uuid/history", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRequestMetrics_UsesRoutePattern(t *testing.T) {
	observer := &recordingObserver{}
	e := echo.New()
	e.Use(httpadapter.RequestMetrics(observer))
	httpadapter.NewServer(newMemoryHandlers(t), nil).Register(e)

	do(t, e, http.MethodGet, "/health", "")
	do(t, e, http.MethodGet, "/nowhere", "")

	require.Len(t, observer.paths, 2)
	assert.Equal(t, "/health", observer.paths[0])
	assert.NotEqual(t, "/nowhere", observer.paths[1])
	assert.Equal(t, []int{http.StatusOK, http.StatusNotFound}, observer.statuses)
}
