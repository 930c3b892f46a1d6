package http

import (
	"net/http"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

type AssignDeliveryRequest struct {
	CourierID string `json:"courier_id"`
}

type DeliveryResponse struct {
	ID                       string     `json:"id"`
	OrderID                  string     `json:"order_id"`
	CourierID                *string    `json:"courier_id,omitempty"`
	Status                   string     `json:"status"`
	DistanceMeters           int        `json:"distance_meters"`
	EstimatedDurationSeconds int64      `json:"estimated_duration_seconds"`
	ActualDurationSeconds    *int64     `json:"actual_duration_seconds,omitempty"`
	AssignedAt               *time.Time `json:"assigned_at,omitempty"`
	AcceptedAt               *time.Time `json:"accepted_at,omitempty"`
	PickedUpAt               *time.Time `json:"picked_up_at,omitempty"`
	StartedAt                *time.Time `json:"started_at,omitempty"`
	CompletedAt              *time.Time `json:"completed_at,omitempty"`
}

// GetDelivery godoc
// @Summary      Get a delivery
// @Tags         deliveries
// @Produce      json
// @Param        id path string true "Delivery ID"
// @Success      200 {object} DeliveryResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/deliveries/{id} [get]
func (s *Server) GetDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	query, err := queries.NewGetDeliveryQuery(requestActor(ctx), deliveryID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	view, err := s.handlers.GetDelivery.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	resp := DeliveryResponse{
		ID:                       view.ID.String(),
		OrderID:                  view.OrderID.String(),
		CourierID:                optionalString(view.CourierID),
		Status:                   view.Status,
		DistanceMeters:           view.DistanceMeters,
		EstimatedDurationSeconds: int64(view.EstimatedDuration / time.Second),
		AssignedAt:               view.AssignedAt,
		AcceptedAt:               view.AcceptedAt,
		PickedUpAt:               view.PickedUpAt,
		StartedAt:                view.StartedAt,
		CompletedAt:              view.CompletedAt,
	}
	if view.ActualDuration != nil {
		seconds := int64(*view.ActualDuration / time.Second)
		resp.ActualDurationSeconds = &seconds
	}
	return ctx.JSON(http.StatusOK, resp)
}

// AssignDelivery godoc
// @Summary      Assign a courier to a waiting delivery
// @Tags         deliveries
// @Accept       json
// @Param        id path string true "Delivery ID"
// @Param        request body AssignDeliveryRequest true "Courier"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/deliveries/{id}/assign [post]
func (s *Server) AssignDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	var req AssignDeliveryRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	courierID, err := parseUUID("courier_id", req.CourierID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewAssignDeliveryCommand(requestActor(ctx), deliveryID, courierID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.AssignDelivery.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "assign_delivery", err, http.StatusNoContent, nil)
}

// AcceptDelivery godoc
// @Summary      Accept an assigned delivery
// @Description  Exactly one of several concurrent accepts succeeds; the rest get 409.
// @Tags         deliveries
// @Param        id path string true "Delivery ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/deliveries/{id}/accept [post]
func (s *Server) AcceptDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewAcceptDeliveryCommand(requestActor(ctx), deliveryID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.AcceptDelivery.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "accept_delivery", err, http.StatusNoContent, nil)
}

// deliveryStep serves the courier-driven steps after acceptance.
//
// @Summary      Progress an accepted delivery
// @Tags         deliveries
// @Produce      json
// @Param        id path string true "Delivery ID"
// @Success      200 {object} StatusResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/deliveries/{id}/pick-up [post]
// @Router       /api/v1/deliveries/{id}/start [post]
// @Router       /api/v1/deliveries/{id}/complete [post]
func (s *Server) deliveryStep(step commands.DeliveryStep) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		deliveryID, err := pathUUID(ctx, "id")
		if err != nil {
			return s.writeError(ctx, err)
		}
		cmd, err := commands.NewProgressDeliveryCommand(requestActor(ctx), deliveryID, step)
		if err != nil {
			return s.writeError(ctx, err)
		}

		status, err := s.handlers.ProgressDelivery.Handle(ctx.Request().Context(), cmd)
		return s.respond(ctx, "progress_delivery", err, http.StatusOK, StatusResponse{Status: status.String()})
	}
}

// ReopenDelivery godoc
// @Summary      Return a delivery to the waiting pool
// @Tags         deliveries
// @Param        id path string true "Delivery ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/deliveries/{id}/reopen [post]
func (s *Server) ReopenDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewReopenDeliveryCommand(requestActor(ctx), deliveryID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.ReopenDelivery.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "reopen_delivery", err, http.StatusNoContent, nil)
}

// CancelDelivery godoc
// @Summary      Cancel a delivery that has not finished
// @Tags         deliveries
// @Param        id path string true "Delivery ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/deliveries/{id}/cancel [post]
func (s *Server) CancelDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewCancelDeliveryCommand(requestActor(ctx), deliveryID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.CancelDelivery.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "cancel_delivery", err, http.StatusNoContent, nil)
}
