package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	_ "marketplace/internal/adapters/in/http/docs"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// CommandHandler is a use case that returns a result.
type CommandHandler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// VoidCommandHandler is a use case that only reports failure.
type VoidCommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// Handlers groups every use case exposed over HTTP.
type Handlers struct {
	PlaceOrder        CommandHandler[commands.PlaceOrderCommand, kernel.UUID]
	ChangeOrderStatus CommandHandler[commands.ChangeOrderStatusCommand, order.Status]
	GetOrder          CommandHandler[queries.GetOrderQuery, *queries.GetOrderQueryResponse]

	PreparePayment  CommandHandler[commands.PreparePaymentCommand, commands.PreparePaymentResult]
	CompletePayment CommandHandler[commands.CompletePaymentCommand, commands.CompletePaymentResult]
	CancelPayment   VoidCommandHandler[commands.CancelPaymentCommand]

	AssignDelivery   VoidCommandHandler[commands.AssignDeliveryCommand]
	AcceptDelivery   VoidCommandHandler[commands.AcceptDeliveryCommand]
	ProgressDelivery CommandHandler[commands.ProgressDeliveryCommand, delivery.Status]
	ReopenDelivery   VoidCommandHandler[commands.ReopenDeliveryCommand]
	CancelDelivery   VoidCommandHandler[commands.CancelDeliveryCommand]
	GetDelivery      CommandHandler[queries.GetDeliveryQuery, *queries.GetDeliveryQueryResponse]

	CreateSettlement        CommandHandler[commands.CreateSettlementCommand, kernel.UUID]
	PayoutSettlement        CommandHandler[commands.PayoutSettlementCommand, bool]
	CancelSettlement        VoidCommandHandler[commands.CancelSettlementCommand]
	SettlePeriod            CommandHandler[commands.SettlePeriodCommand, commands.SettlePeriodResult]
	RecordPaidOrder         VoidCommandHandler[commands.RecordPaidOrderCommand]
	RecordCompletedDelivery VoidCommandHandler[commands.RecordCompletedDeliveryCommand]
	ListOwnerSettlements    CommandHandler[queries.ListOwnerSettlementsQuery, []queries.OwnerSettlementView]
	ListCourierSettlements  CommandHandler[queries.ListCourierSettlementsQuery, []queries.CourierSettlementView]

	AddFeeRule        CommandHandler[commands.AddFeeRuleCommand, kernel.UUID]
	UpdateFeeRule     VoidCommandHandler[commands.UpdateFeeRuleCommand]
	DeactivateFeeRule VoidCommandHandler[commands.DeactivateFeeRuleCommand]
}

//go:generate swag init -g server.go -o docs

// @title                       Marketplace API
// @version                     1.0
// @description                 Orders, payments, deliveries and settlements of the food-delivery marketplace.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// Server adapts HTTP requests to application use cases.
type Server struct {
	handlers  Handlers
	jwtSecret []byte
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewServer(handlers Handlers, jwtSecret []byte, m *metrics.Metrics, logger *slog.Logger) *Server {
	return &Server{
		handlers:  handlers,
		jwtSecret: jwtSecret,
		metrics:   m,
		logger:    logger.With("component", "http"),
		now:       time.Now,
	}
}

// NewEcho builds the echo instance with middleware and every route registered.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				s.logger.ErrorContext(c.Request().Context(), "Request error", append(attrs, "error", v.Error)...)
				return nil
			}
			s.logger.InfoContext(c.Request().Context(), "Request", attrs...)
			return nil
		},
	}))
	e.Use(s.observeRequests)

	s.RegisterRoutes(e)
	return e
}

// RegisterRoutes mounts the API on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")

	// The provider redirect is not signed by the marketplace.
	v1.POST("/payments/complete", s.CompletePayment)

	api := v1.Group("", Authenticate(s.jwtSecret))

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/start-cooking", s.orderAction(commands.StartCooking))
	api.POST("/orders/:id/mark-cooked", s.orderAction(commands.MarkCooked))
	api.POST("/orders/:id/mark-delivered", s.orderAction(commands.MarkDelivered))
	api.POST("/orders/:id/reject", s.orderAction(commands.RejectOrder))

	api.POST("/orders/:id/payments/prepare", s.PreparePayment)
	api.POST("/orders/:id/payments/cancel", s.CancelPayment)

	api.GET("/deliveries/:id", s.GetDelivery)
	api.POST("/deliveries/:id/assign", s.AssignDelivery)
	api.POST("/deliveries/:id/accept", s.AcceptDelivery)
	api.POST("/deliveries/:id/pick-up", s.deliveryStep(commands.PickUpDelivery))
	api.POST("/deliveries/:id/start", s.deliveryStep(commands.StartDelivery))
	api.POST("/deliveries/:id/complete", s.deliveryStep(commands.CompleteDelivery))
	api.POST("/deliveries/:id/reopen", s.ReopenDelivery)
	api.POST("/deliveries/:id/cancel", s.CancelDelivery)

	api.GET("/settlements/:party/:partyId", s.ListSettlements)
	api.POST("/settlements/:party/:partyId", s.CreateSettlement)
	api.POST("/settlements/:party/:partyId/:id/payout", s.PayoutSettlement)
	api.POST("/settlements/:party/:partyId/:id/cancel", s.CancelSettlement)

	admin := api.Group("/admin", RequireAdmin())
	admin.POST("/settlements/run", s.SettlePeriod)
	admin.POST("/settlement-items/orders/:id", s.RecordPaidOrder)
	admin.POST("/settlement-items/deliveries/:id", s.RecordCompletedDelivery)
	admin.POST("/couriers/:courierId/fee-rules", s.AddFeeRule)
	admin.PUT("/fee-rules/:id", s.UpdateFeeRule)
	admin.DELETE("/fee-rules/:id", s.DeactivateFeeRule)
}

func (s *Server) observeRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.metrics == nil {
			return next(c)
		}
		start := s.now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Response().Status)
		s.metrics.HTTPRequestsTotal.WithLabelValues(c.Request().Method, route, status).Inc()
		s.metrics.HTTPRequestDuration.WithLabelValues(c.Request().Method, route).
			Observe(s.now().Sub(start).Seconds())
		return nil
	}
}

// respond finishes a use case call: errors go through the mapping table and are
// counted under command.
func (s *Server) respond(ctx echo.Context, command string, err error, status int, body any) error {
	if s.metrics != nil {
		s.metrics.ObserveCommand(command, err, Outcome)
	}
	if err != nil {
		return s.writeError(ctx, err)
	}
	if body == nil {
		return ctx.NoContent(status)
	}
	return ctx.JSON(status, body)
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return parseUUID(name, ctx.Param(name))
}

func parseUUID(name, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

// requestActor is only called behind Authenticate.
func requestActor(ctx echo.Context) kernel.Actor {
	actor, _ := actorFrom(ctx)
	return actor
}
