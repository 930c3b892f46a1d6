package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// PeriodRequest bounds are inclusive calendar days, formatted 2006-01-02.
type PeriodRequest struct {
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
}

type PayoutSettlementRequest struct {
	ExternalTransferID string `json:"external_transfer_id"`
}

type PayoutSettlementResponse struct {
	Paid bool `json:"paid"`
}

type SettlePeriodResponse struct {
	Backfilled         int `json:"backfilled"`
	OwnerSettlements   int `json:"owner_settlements"`
	CourierSettlements int `json:"courier_settlements"`
	Failures           int `json:"failures"`
}

type OwnerSettlementResponse struct {
	ID                 string     `json:"id"`
	PeriodStart        string     `json:"period_start"`
	PeriodEnd          string     `json:"period_end"`
	Gross              int64      `json:"gross"`
	PlatformFee        int64      `json:"platform_fee"`
	PgFee              int64      `json:"pg_fee"`
	Net                int64      `json:"net"`
	ItemCount          int        `json:"item_count"`
	Status             string     `json:"status"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	ExternalTransferID string     `json:"external_transfer_id,omitempty"`
}

type CourierSettlementResponse struct {
	ID                 string     `json:"id"`
	PeriodStart        string     `json:"period_start"`
	PeriodEnd          string     `json:"period_end"`
	TotalEarning       int64      `json:"total_earning"`
	ItemCount          int        `json:"item_count"`
	Status             string     `json:"status"`
	PaidAt             *time.Time `json:"paid_at,omitempty"`
	ExternalTransferID string     `json:"external_transfer_id,omitempty"`
}

func parseParty(raw string) (settlement.Party, error) {
	switch raw {
	case "owners":
		return settlement.PartyOwner, nil
	case "couriers":
		return settlement.PartyCourier, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("party", fmt.Errorf("%q is neither owners nor couriers", raw))
	}
}

// partyPath reads the :party and :partyId segments.
func partyPath(ctx echo.Context) (settlement.Party, kernel.UUID, error) {
	party, err := parseParty(ctx.Param("party"))
	if err != nil {
		return "", kernel.UUID{}, err
	}
	partyID, err := pathUUID(ctx, "partyId")
	if err != nil {
		return "", kernel.UUID{}, err
	}
	return party, partyID, nil
}

func (r PeriodRequest) period() (settlement.Period, error) {
	start, err := time.Parse(time.DateOnly, r.PeriodStart)
	if err != nil {
		return settlement.Period{}, errs.NewValueIsInvalidErrorWithCause("period start", err)
	}
	end, err := time.Parse(time.DateOnly, r.PeriodEnd)
	if err != nil {
		return settlement.Period{}, errs.NewValueIsInvalidErrorWithCause("period end", err)
	}
	return settlement.NewPeriod(start, end)
}

// CreateSettlement godoc
// @Summary      Batch a party's pending items of a period into a settlement
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        party path string true "owners or couriers"
// @Param        partyId path string true "Store owner or courier ID"
// @Param        request body PeriodRequest true "Period"
// @Success      201 {object} IDResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/settlements/{party}/{partyId} [post]
func (s *Server) CreateSettlement(ctx echo.Context) error {
	party, partyID, err := partyPath(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	var req PeriodRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	period, err := req.period()
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewCreateSettlementCommand(requestActor(ctx), party, partyID, period)
	if err != nil {
		return s.writeError(ctx, err)
	}

	settlementID, err := s.handlers.CreateSettlement.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "create_settlement", err, http.StatusCreated, IDResponse{ID: settlementID.String()})
}

// PayoutSettlement godoc
// @Summary      Record the bank transfer of a calculated settlement
// @Description  Paying an already paid settlement with the same transfer id is a no-op reported as paid=false.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        party path string true "owners or couriers"
// @Param        partyId path string true "Store owner or courier ID"
// @Param        id path string true "Settlement ID"
// @Param        request body PayoutSettlementRequest true "Transfer"
// @Success      200 {object} PayoutSettlementResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/settlements/{party}/{partyId}/{id}/payout [post]
func (s *Server) PayoutSettlement(ctx echo.Context) error {
	party, partyID, err := partyPath(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	settlementID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	var req PayoutSettlementRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewPayoutSettlementCommand(requestActor(ctx), party, partyID, settlementID, req.ExternalTransferID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	paid, err := s.handlers.PayoutSettlement.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "payout_settlement", err, http.StatusOK, PayoutSettlementResponse{Paid: paid})
}

// CancelSettlement godoc
// @Summary      Void a calculated settlement and cancel its items
// @Tags         settlements
// @Param        party path string true "owners or couriers"
// @Param        partyId path string true "Store owner or courier ID"
// @Param        id path string true "Settlement ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/settlements/{party}/{partyId}/{id}/cancel [post]
func (s *Server) CancelSettlement(ctx echo.Context) error {
	party, partyID, err := partyPath(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	settlementID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewCancelSettlementCommand(requestActor(ctx), party, partyID, settlementID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.CancelSettlement.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "cancel_settlement", err, http.StatusNoContent, nil)
}

// ListSettlements godoc
// @Summary      List a party's settlements, newest period first
// @Tags         settlements
// @Produce      json
// @Param        party path string true "owners or couriers"
// @Param        partyId path string true "Store owner or courier ID"
// @Param        status query string false "CALCULATED, PAID or CANCELED"
// @Success      200 {array} OwnerSettlementResponse
// @Success      200 {array} CourierSettlementResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/settlements/{party}/{partyId} [get]
func (s *Server) ListSettlements(ctx echo.Context) error {
	party, partyID, err := partyPath(ctx)
	if err != nil {
		return s.writeError(ctx, err)
	}
	status := settlement.Status(strings.ToUpper(strings.TrimSpace(ctx.QueryParam("status"))))

	if party == settlement.PartyCourier {
		return s.listCourierSettlements(ctx, partyID, status)
	}

	query, err := queries.NewListOwnerSettlementsQuery(requestActor(ctx), partyID, status)
	if err != nil {
		return s.writeError(ctx, err)
	}
	views, err := s.handlers.ListOwnerSettlements.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	resp := make([]OwnerSettlementResponse, len(views))
	for i, v := range views {
		resp[i] = OwnerSettlementResponse{
			ID:                 v.ID.String(),
			PeriodStart:        v.PeriodStart.Format(time.DateOnly),
			PeriodEnd:          v.PeriodEnd.Format(time.DateOnly),
			Gross:              v.Gross,
			PlatformFee:        v.PlatformFee,
			PgFee:              v.PgFee,
			Net:                v.Net,
			ItemCount:          v.ItemCount,
			Status:             v.Status,
			PaidAt:             v.PaidAt,
			ExternalTransferID: v.ExternalTransferID,
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (s *Server) listCourierSettlements(ctx echo.Context, courierID kernel.UUID, status settlement.Status) error {
	query, err := queries.NewListCourierSettlementsQuery(requestActor(ctx), courierID, status)
	if err != nil {
		return s.writeError(ctx, err)
	}
	views, err := s.handlers.ListCourierSettlements.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}

	resp := make([]CourierSettlementResponse, len(views))
	for i, v := range views {
		resp[i] = CourierSettlementResponse{
			ID:                 v.ID.String(),
			PeriodStart:        v.PeriodStart.Format(time.DateOnly),
			PeriodEnd:          v.PeriodEnd.Format(time.DateOnly),
			TotalEarning:       v.TotalEarning,
			ItemCount:          v.ItemCount,
			Status:             v.Status,
			PaidAt:             v.PaidAt,
			ExternalTransferID: v.ExternalTransferID,
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

// SettlePeriod godoc
// @Summary      Settle every party with pending items in a period
// @Description  Without a body the previous UTC day is settled, as the nightly job does.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body PeriodRequest false "Period"
// @Success      200 {object} SettlePeriodResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/admin/settlements/run [post]
func (s *Server) SettlePeriod(ctx echo.Context) error {
	var req PeriodRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&req); err != nil {
			return badRequest(ctx, "Invalid request body")
		}
	}

	var (
		cmd commands.SettlePeriodCommand
		err error
	)
	if req.PeriodStart == "" && req.PeriodEnd == "" {
		cmd, err = commands.NewSettlePeriodCommandForPreviousDay(s.now())
	} else {
		var period settlement.Period
		if period, err = req.period(); err == nil {
			cmd, err = commands.NewSettlePeriodCommand(period)
		}
	}
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.handlers.SettlePeriod.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "settle_period", err, http.StatusOK, SettlePeriodResponse{
		Backfilled:         result.Backfilled,
		OwnerSettlements:   result.OwnerSettlements,
		CourierSettlements: result.CourierSettlements,
		Failures:           result.Failures,
	})
}

// RecordPaidOrder godoc
// @Summary      Record the owner settlement item of a paid order
// @Description  Idempotent.
// @Tags         admin
// @Param        id path string true "Order ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/admin/settlement-items/orders/{id} [post]
func (s *Server) RecordPaidOrder(ctx echo.Context) error {
	orderID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewRecordPaidOrderCommand(orderID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.RecordPaidOrder.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "record_paid_order", err, http.StatusNoContent, nil)
}

// RecordCompletedDelivery godoc
// @Summary      Record the courier settlement item of a completed delivery
// @Description  Idempotent.
// @Tags         admin
// @Param        id path string true "Delivery ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/admin/settlement-items/deliveries/{id} [post]
func (s *Server) RecordCompletedDelivery(ctx echo.Context) error {
	deliveryID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewRecordCompletedDeliveryCommand(deliveryID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.RecordCompletedDelivery.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "record_completed_delivery", err, http.StatusNoContent, nil)
}
