// Package http exposes the dispatcher over a JSON API served by echo.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}
	DriverRegistrar interface {
		Handle(ctx context.Context, cmd commands.RegisterDriverCommand) (*courier.Driver, error)
	}
	BatchAssigner interface {
		Handle(ctx context.Context, cmd commands.AssignBatchCommand) (commands.BatchResults, error)
	}
	WeightsSetter interface {
		Handle(ctx context.Context, cmd commands.SetWeightsCommand) (assignment.Weights, error)
	}
	WeightsReader interface {
		Handle(ctx context.Context, query queries.GetWeightsQuery) (assignment.Weights, error)
	}
	FareQuoter interface {
		Handle(ctx context.Context, query queries.QuoteFareQuery) (queries.QuoteFareQueryResponse, error)
	}
	DriverWorkloadReader interface {
		Handle(ctx context.Context, query queries.GetDriverWorkloadQuery) ([]queries.GetDriverWorkloadQueryResponse, error)
	}
	PendingOrdersReader interface {
		Handle(ctx context.Context, query queries.GetPendingOrdersQuery) ([]queries.GetPendingOrdersQueryResponse, error)
	}
	AssignmentHistoryReader interface {
		Handle(ctx context.Context, query queries.GetAssignmentHistoryQuery) ([]queries.GetAssignmentHistoryQueryResponse, error)
	}
)

// Handlers are the use cases served by Server. The read-model readers
// (DriverWorkload, PendingOrders, AssignmentHistory) are optional; their
// routes are registered only when set.
type Handlers struct {
	CreateOrder    OrderCreator
	RegisterDriver DriverRegistrar
	AssignOrder    commands.OrderAssigner
	AssignBatch    BatchAssigner
	SetWeights     WeightsSetter
	GetWeights     WeightsReader
	QuoteFare      FareQuoter

	DriverWorkload    DriverWorkloadReader
	PendingOrders     PendingOrdersReader
	AssignmentHistory AssignmentHistoryReader
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{handlers: handlers, logger: logger.With("component", "HTTPServer")}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.POST("/drivers", s.RegisterDriver)
	api.POST("/assignments", s.AssignOrder)
	api.POST("/assignments/batch", s.AssignBatch)
	api.GET("/weights", s.GetWeights)
	api.PATCH("/weights", s.PatchWeights)
	api.POST("/fares/quote", s.QuoteFare)

	if s.handlers.DriverWorkload != nil {
		api.GET("/drivers", s.GetDrivers)
	}
	if s.handlers.PendingOrders != nil {
		api.GET("/orders/pending", s.GetPendingOrders)
	}
	if s.handlers.AssignmentHistory != nil {
		api.GET("/assignments/:orderId/history", s.GetAssignmentHistory)
	}
}

func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders - stores a pending order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrder
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := newCreateOrderCommand(req)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err, "Failed to create order")
	}

	return ctx.JSON(http.StatusCreated, CreatedOrder{ID: cmd.Order().ID().String()})
}

// RegisterDriver handles POST /api/v1/drivers - creates or replaces a driver.
func (s *Server) RegisterDriver(ctx echo.Context) error {
	var req NewDriver
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	id, err := idOrNew(req.ID)
	if err != nil {
		return badRequest(ctx, "Invalid driver id: "+err.Error())
	}

	var position *kernel.GeoPoint
	if req.Location != nil {
		p, posErr := req.Location.toGeoPoint()
		if posErr != nil {
			return badRequest(ctx, "Invalid driver location: "+posErr.Error())
		}
		position = &p
	}

	cmd, err := commands.NewRegisterDriverCommand(commands.DriverProfile{
		ID:      id,
		Name:    req.Name,
		Vehicle: req.Vehicle,
		Stats: courier.Stats{
			Rating:             req.Rating,
			CompletionRate:     req.CompletionRate,
			OnTimeRate:         req.OnTimeRate,
			AcceptanceRate:     req.AcceptanceRate,
			LifetimeDeliveries: req.LifetimeDeliveries,
		},
		Flags:    courier.Flags{Online: req.Online, Available: req.Available, Active: req.Active, Verified: req.Verified},
		HomeZone: req.HomeZone,
	}, position)
	if err != nil {
		return badRequest(ctx, "Invalid driver data: "+err.Error())
	}

	d, err := s.handlers.RegisterDriver.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "Failed to register driver")
	}

	return ctx.JSON(http.StatusOK, driverOf(d))
}

// AssignOrder handles POST /api/v1/assignments. The order must carry the id it
// was created with. An unsuccessful assignment is still a 200; the body
// carries the reason.
func (s *Server) AssignOrder(ctx echo.Context) error {
	var req AssignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	o, err := toStoredOrder(req.Order)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = assignment.SmartRouting.String()
	}

	cmd, err := commands.NewAssignOrderCommand(o, algorithm)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	result := s.handlers.AssignOrder.Handle(ctx.Request().Context(), cmd)
	return ctx.JSON(http.StatusOK, resultOf(result))
}

// AssignBatch handles POST /api/v1/assignments/batch.
func (s *Server) AssignBatch(ctx echo.Context) error {
	var req BatchAssignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orders := make([]*order.Order, 0, len(req.Orders))
	for i, item := range req.Orders {
		o, err := toStoredOrder(item)
		if err != nil {
			return badRequest(ctx, "Invalid order #"+strconv.Itoa(i)+": "+err.Error())
		}
		orders = append(orders, o)
	}

	cmd, err := commands.NewAssignBatchCommand(orders)
	if err != nil {
		return badRequest(ctx, "Invalid batch: "+err.Error())
	}

	results, err := s.handlers.AssignBatch.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "Failed to assign batch")
	}

	response := make(map[string]AssignmentResult, len(results))
	for id, r := range results {
		response[id] = resultOf(r)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetWeights handles GET /api/v1/weights.
func (s *Server) GetWeights(ctx echo.Context) error {
	weights, err := s.handlers.GetWeights.Handle(ctx.Request().Context(), queries.NewGetWeightsQuery())
	if err != nil {
		return s.fail(ctx, err, "Failed to read weights")
	}
	return ctx.JSON(http.StatusOK, weightsOf(weights))
}

// PatchWeights handles PATCH /api/v1/weights and returns the normalized result.
func (s *Server) PatchWeights(ctx echo.Context) error {
	var req WeightsPatch
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetWeightsCommand(assignment.WeightsUpdate{
		Distance:    req.Distance,
		Performance: req.Performance,
		Load:        req.Load,
		Zone:        req.Zone,
	})
	if err != nil {
		return badRequest(ctx, "Invalid weights: "+err.Error())
	}

	weights, err := s.handlers.SetWeights.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err, "Failed to update weights")
	}
	return ctx.JSON(http.StatusOK, weightsOf(weights))
}

// QuoteFare handles POST /api/v1/fares/quote.
func (s *Server) QuoteFare(ctx echo.Context) error {
	var req FareQuoteRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	pickup, err := req.Pickup.toGeoPoint()
	if err != nil {
		return badRequest(ctx, "Invalid pickup: "+err.Error())
	}
	dropoff, err := req.Dropoff.toGeoPoint()
	if err != nil {
		return badRequest(ctx, "Invalid dropoff: "+err.Error())
	}

	query, err := queries.NewQuoteFareQuery(pickup, dropoff, req.Surge)
	if err != nil {
		return badRequest(ctx, "Invalid quote request: "+err.Error())
	}

	quote, err := s.handlers.QuoteFare.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to quote fare")
	}

	return ctx.JSON(http.StatusOK, FareQuote{
		DistanceKm:       quote.DistanceKm,
		EstimatedMinutes: quote.EstimatedMinutes,
		Base:             quote.Base,
		Distance:         quote.Distance,
		Time:             quote.Time,
		Surge:            quote.Surge,
		Total:            quote.Total,
	})
}

// GetDrivers handles GET /api/v1/drivers[?online=true].
func (s *Server) GetDrivers(ctx echo.Context) error {
	onlineOnly := false
	if raw := ctx.QueryParam("online"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(ctx, "Invalid online flag")
		}
		onlineOnly = parsed
	}

	drivers, err := s.handlers.DriverWorkload.Handle(ctx.Request().Context(), queries.NewGetDriverWorkloadQuery(onlineOnly))
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve drivers")
	}

	response := make([]DriverWorkload, len(drivers))
	for i, d := range drivers {
		response[i] = driverWorkloadOf(d)
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetPendingOrders handles GET /api/v1/orders/pending[?limit=n].
func (s *Server) GetPendingOrders(ctx echo.Context) error {
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(ctx, "Invalid limit")
		}
		limit = parsed
	}

	query, err := queries.NewGetPendingOrdersQuery(limit)
	if err != nil {
		return badRequest(ctx, "Invalid limit: "+err.Error())
	}

	orders, err := s.handlers.PendingOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve orders")
	}

	response := make([]PendingOrder, len(orders))
	for i, o := range orders {
		response[i] = PendingOrder{
			ID:        o.ID.String(),
			Pickup:    locationOf(o.Pickup),
			Dropoff:   locationOf(o.Dropoff),
			Priority:  o.Priority.String(),
			CreatedAt: o.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetAssignmentHistory handles GET /api/v1/assignments/:orderId/history.
func (s *Server) GetAssignmentHistory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetAssignmentHistoryQuery(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id: "+err.Error())
	}

	history, err := s.handlers.AssignmentHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err, "Failed to retrieve assignment history")
	}

	response := make([]AssignmentHistoryEntry, len(history))
	for i, h := range history {
		response[i] = AssignmentHistoryEntry{
			RecordID:            h.RecordID.String(),
			DriverID:            h.DriverID.String(),
			Algorithm:           h.Algorithm.String(),
			CandidateCount:      h.CandidateCount,
			FinalScore:          h.FinalScore,
			EstimatedMinutes:    h.EstimatedMinutes,
			EstimatedDistanceKm: h.EstimatedDistanceKm,
			CreatedAt:           h.CreatedAt,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// fail maps domain errors to 400/404 and everything else to 500.
func (s *Server) fail(ctx echo.Context, err error, message string) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error(message, "path", ctx.Path(), "error", err)
	} else {
		message = message + ": " + err.Error()
	}
	return ctx.JSON(status, Error{Code: status, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

func idOrNew(raw string) (kernel.UUID, error) {
	if raw == "" {
		return kernel.NewUUID(), nil
	}
	return kernel.UUIDFromString(raw)
}

// toStoredOrder maps an order that is already in the store. Without an id
// there is nothing to assign.
func toStoredOrder(req NewOrder) (*order.Order, error) {
	if req.ID == "" {
		return nil, errs.NewValueIsRequiredError("id")
	}
	cmd, err := newCreateOrderCommand(req)
	if err != nil {
		return nil, err
	}
	return cmd.Order(), nil
}

func newCreateOrderCommand(req NewOrder) (commands.CreateOrderCommand, error) {
	id, err := idOrNew(req.ID)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	pickup, err := req.Pickup.toGeoPoint()
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	dropoff, err := req.Dropoff.toGeoPoint()
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	return commands.NewCreateOrderCommand(id, pickup, dropoff, req.PrepMinutes, req.Value, req.Priority)
}
