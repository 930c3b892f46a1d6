package http

import (
	"net/http"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

type PlaceOrderRequest struct {
	StoreID                  string `json:"store_id"`
	Address                  string `json:"address"`
	TotalPrice               int64  `json:"total_price"`
	DeliveryFee              int64  `json:"delivery_fee"`
	DistanceMeters           int    `json:"distance_meters"`
	EstimatedDurationSeconds int    `json:"estimated_duration_seconds"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type RejectOrderRequest struct {
	Reason string `json:"reason"`
}

type OrderDeliveryResponse struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	CourierID *string `json:"courier_id,omitempty"`
}

type OrderResponse struct {
	ID            string                 `json:"id"`
	BuyerID       string                 `json:"buyer_id"`
	StoreID       string                 `json:"store_id"`
	Address       string                 `json:"address"`
	TotalPrice    int64                  `json:"total_price"`
	DeliveryFee   int64                  `json:"delivery_fee"`
	Status        string                 `json:"status"`
	RejectReason  string                 `json:"reject_reason,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	PaymentStatus string                 `json:"payment_status,omitempty"`
	MerchantRef   string                 `json:"merchant_ref,omitempty"`
	PaidAt        *time.Time             `json:"paid_at,omitempty"`
	Delivery      *OrderDeliveryResponse `json:"delivery,omitempty"`
}

// PlaceOrder godoc
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body PlaceOrderRequest true "Order"
// @Success      201 {object} IDResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/orders [post]
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	storeID, err := parseUUID("store_id", req.StoreID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewPlaceOrderCommand(
		requestActor(ctx),
		storeID,
		req.Address,
		req.TotalPrice,
		req.DeliveryFee,
		req.DistanceMeters,
		time.Duration(req.EstimatedDurationSeconds)*time.Second,
	)
	if err != nil {
		return s.writeError(ctx, err)
	}

	orderID, err := s.handlers.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "place_order", err, http.StatusCreated, IDResponse{ID: orderID.String()})
}

// GetOrder godoc
// @Summary      Get an order with its payment and delivery
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} OrderResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/orders/{id} [get]
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(requestActor(ctx), orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	resp := OrderResponse{
		ID:            view.ID.String(),
		BuyerID:       view.BuyerID.String(),
		StoreID:       view.StoreID.String(),
		Address:       view.Address,
		TotalPrice:    view.TotalPrice,
		DeliveryFee:   view.DeliveryFee,
		Status:        view.Status,
		RejectReason:  view.RejectReason,
		CreatedAt:     view.CreatedAt,
		PaymentStatus: view.PaymentStatus,
		MerchantRef:   view.MerchantRef,
		PaidAt:        view.PaidAt,
	}
	if view.Delivery != nil {
		resp.Delivery = &OrderDeliveryResponse{
			ID:        view.Delivery.ID.String(),
			Status:    view.Delivery.Status,
			CourierID: optionalString(view.Delivery.CourierID),
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

// orderAction serves the store-driven transitions.
//
// @Summary      Move an order along its lifecycle
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body RejectOrderRequest false "Only read by reject"
// @Success      200 {object} StatusResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/orders/{id}/start-cooking [post]
// @Router       /api/v1/orders/{id}/mark-cooked [post]
// @Router       /api/v1/orders/{id}/mark-delivered [post]
// @Router       /api/v1/orders/{id}/reject [post]
func (s *Server) orderAction(action commands.OrderAction) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderID, err := pathUUID(ctx, "id")
		if err != nil {
			return s.writeError(ctx, err)
		}

		var req RejectOrderRequest
		if action == commands.RejectOrder && ctx.Request().ContentLength != 0 {
			if err := ctx.Bind(&req); err != nil {
				return badRequest(ctx, "Invalid request body")
			}
		}

		cmd, err := commands.NewChangeOrderStatusCommand(requestActor(ctx), orderID, action, req.Reason)
		if err != nil {
			return s.writeError(ctx, err)
		}

		status, err := s.handlers.ChangeOrderStatus.Handle(ctx.Request().Context(), cmd)
		return s.respond(ctx, "change_order_status", err, http.StatusOK, StatusResponse{Status: status.String()})
	}
}

func optionalString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
