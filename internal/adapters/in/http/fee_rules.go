package http

import (
	"net/http"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

// FeeRuleRequest describes the bucket [min_meters, max_meters). Omit max_meters for an open bucket.
type FeeRuleRequest struct {
	MinMeters int   `json:"min_meters"`
	MaxMeters *int  `json:"max_meters,omitempty"`
	BaseFee   int64 `json:"base_fee"`
	PerKmFee  int64 `json:"per_km_fee"`
}

func (r FeeRuleRequest) terms() commands.FeeRuleTerms {
	return commands.FeeRuleTerms{
		MinMeters: r.MinMeters,
		MaxMeters: r.MaxMeters,
		BaseFee:   r.BaseFee,
		PerKmFee:  r.PerKmFee,
	}
}

// AddFeeRule godoc
// @Summary      Add a distance bucket to a courier's fee schedule
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        courierId path string true "Courier ID"
// @Param        request body FeeRuleRequest true "Bucket"
// @Success      201 {object} IDResponse
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/admin/couriers/{courierId}/fee-rules [post]
func (s *Server) AddFeeRule(ctx echo.Context) error {
	courierID, err := pathUUID(ctx, "courierId")
	if err != nil {
		return s.writeError(ctx, err)
	}
	var req FeeRuleRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewAddFeeRuleCommand(requestActor(ctx), courierID, req.terms())
	if err != nil {
		return s.writeError(ctx, err)
	}

	ruleID, err := s.handlers.AddFeeRule.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "add_fee_rule", err, http.StatusCreated, IDResponse{ID: ruleID.String()})
}

// UpdateFeeRule godoc
// @Summary      Replace the terms of a fee rule
// @Tags         admin
// @Accept       json
// @Param        id path string true "Fee rule ID"
// @Param        request body FeeRuleRequest true "Bucket"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/admin/fee-rules/{id} [put]
func (s *Server) UpdateFeeRule(ctx echo.Context) error {
	ruleID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	var req FeeRuleRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewUpdateFeeRuleCommand(requestActor(ctx), ruleID, req.terms())
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.UpdateFeeRule.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "update_fee_rule", err, http.StatusNoContent, nil)
}

// DeactivateFeeRule godoc
// @Summary      Deactivate a fee rule
// @Tags         admin
// @Param        id path string true "Fee rule ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /api/v1/admin/fee-rules/{id} [delete]
func (s *Server) DeactivateFeeRule(ctx echo.Context) error {
	ruleID, err := pathUUID(ctx, "id")
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewDeactivateFeeRuleCommand(requestActor(ctx), ruleID)
	if err != nil {
		return s.writeError(ctx, err)
	}

	err = s.handlers.DeactivateFeeRule.Handle(ctx.Request().Context(), cmd)
	return s.respond(ctx, "deactivate_fee_rule", err, http.StatusNoContent, nil)
}
