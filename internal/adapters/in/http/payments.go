package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

type PreparePaymentRequest struct {
	Amount     int64  `json:"amount"`
	Method     string `json:"method"`
	BuyerName  string `json:"buyer_name"`
	BuyerEmail string `json:"buyer_email"`
	BuyerTel   string `json:"buyer_tel"`
}

type PreparePaymentResponse struct {
	MerchantReference string `json:"merchant_uid"`
	Amount            int64  `json:"amount"`
	BuyerName         string `json:"buyer_name"`
	BuyerEmail        string `json:"buyer_email"`
	BuyerTel          string `json:"buyer_tel"`
	ProviderEndpoint  string `json:"provider_endpoint"`
}

// CompletePaymentRequest is what the provider checkout posts back.
type CompletePaymentRequest struct {
	ExternalPaymentID string `json:"imp_uid"`
	MerchantReference string `json:"merchant_uid"`
}

type CompletePaymentResponse struct {
	OrderID     string `json:"order_id"`
	PaymentID   string `json:"payment_id"`
	OrderStatus string `json:"order_status"`
}

type CancelPaymentRequest struct {
	ExternalPaymentID string `json:"imp_uid"`
	Reason            string `json:"reason"`
}

// PreparePayment godoc
// @Summary      Register the intent to pay for an order
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body PreparePaymentRequest true "Payment"
// @Success      200 {object} PreparePaymentResponse
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/orders/{id}/payments/prepare [post]
func (s *Server) PreparePayment(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	var req PreparePaymentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewPreparePaymentCommand(requestActor(ctx), orderID, req.Amount, req.Method, commands.BuyerInfo{
		Name:  req.BuyerName,
		Email: req.BuyerEmail,
		Tel:   req.BuyerTel,
	})
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.handlers.PreparePayment.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "prepare_payment", err, http.StatusOK, PreparePaymentResponse{
		MerchantReference: result.MerchantReference,
		Amount:            result.Amount,
		BuyerName:         result.BuyerName,
		BuyerEmail:        result.BuyerEmail,
		BuyerTel:          result.BuyerTel,
		ProviderEndpoint:  result.ProviderEndpoint,
	})
}

// CompletePayment godoc
// @Summary      Verify a payment with the provider and confirm the order
// @Description  Called after the provider checkout. The payment is re-fetched from the provider; the request body is not trusted.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body CompletePaymentRequest true "Provider identifiers"
// @Success      200 {object} CompletePaymentResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /api/v1/payments/complete [post]
func (s *Server) CompletePayment(ctx echo.Context) error {
	var req CompletePaymentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCompletePaymentCommand(req.ExternalPaymentID, req.MerchantReference)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.handlers.CompletePayment.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "complete_payment", err, http.StatusOK, CompletePaymentResponse{
		OrderID:     result.OrderID.String(),
		PaymentID:   result.PaymentID.String(),
		OrderStatus: result.OrderStatus.String(),
	})
}

// CancelPayment godoc
// @Summary      Abandon a pending payment
// @Tags         payments
// @Accept       json
// @Param        id path string true "Order ID"
// @Param        request body CancelPaymentRequest true "Cancellation"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/orders/{id}/payments/cancel [post]
func (s *Server) CancelPayment(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	var req CancelPaymentRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewCancelPaymentCommand(requestActor(ctx), orderID, req.ExternalPaymentID, req.Reason)
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.CancelPayment.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "cancel_payment", err, http.StatusNoContent, nil)
}
