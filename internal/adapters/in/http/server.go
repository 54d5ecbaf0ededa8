// Package http exposes the order lifecycle and settlement operations over a
// JSON API. Handlers translate between wire contracts and use-case commands;
// no business rules live here.
package http

import (
	"errors"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Mutating payment endpoints require these headers: the actor identity and
// the caller-generated deduplication token.
const (
	headerActor          = "X-Actor-Id"
	headerIdempotencyKey = "Idempotency-Key"
)

// Server wires the HTTP routes to command and query handlers.
type Server struct {
	createOrderHandler        commands.CreateOrderCommandHandler
	changeStatusHandler       commands.ChangeOrderStatusCommandHandler
	recoverStatusHandler      commands.RecoverOrderStatusCommandHandler
	submitApplicationHandler  commands.SubmitApplicationCommandHandler
	selectHelperHandler       commands.SelectHelperCommandHandler
	submitClosingHandler      commands.SubmitClosingReportCommandHandler
	confirmFinalAmountHandler commands.ConfirmFinalAmountCommandHandler
	payBalanceHandler         commands.PayBalanceCommandHandler
	paySettlementHandler      commands.PaySettlementCommandHandler
	resolveDisputeHandler     commands.ResolveDisputeCommandHandler
	applyDeductionHandler     commands.ApplyDeductionCommandHandler
	reverseDeductionHandler   commands.ReverseDeductionCommandHandler

	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler
	getSettlementHandler   queries.GetSettlementQueryHandler
	getNextStatusesHandler queries.GetNextStatusesQueryHandler
}

// NewServer creates the HTTP server over the given handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	recoverStatusHandler commands.RecoverOrderStatusCommandHandler,
	submitApplicationHandler commands.SubmitApplicationCommandHandler,
	selectHelperHandler commands.SelectHelperCommandHandler,
	submitClosingHandler commands.SubmitClosingReportCommandHandler,
	confirmFinalAmountHandler commands.ConfirmFinalAmountCommandHandler,
	payBalanceHandler commands.PayBalanceCommandHandler,
	paySettlementHandler commands.PaySettlementCommandHandler,
	resolveDisputeHandler commands.ResolveDisputeCommandHandler,
	applyDeductionHandler commands.ApplyDeductionCommandHandler,
	reverseDeductionHandler commands.ReverseDeductionCommandHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getSettlementHandler queries.GetSettlementQueryHandler,
	getNextStatusesHandler queries.GetNextStatusesQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		changeStatusHandler:       changeStatusHandler,
		recoverStatusHandler:      recoverStatusHandler,
		submitApplicationHandler:  submitApplicationHandler,
		selectHelperHandler:       selectHelperHandler,
		submitClosingHandler:      submitClosingHandler,
		confirmFinalAmountHandler: confirmFinalAmountHandler,
		payBalanceHandler:         payBalanceHandler,
		paySettlementHandler:      paySettlementHandler,
		resolveDisputeHandler:     resolveDisputeHandler,
		applyDeductionHandler:     applyDeductionHandler,
		reverseDeductionHandler:   reverseDeductionHandler,
		getActiveOrdersHandler:    getActiveOrdersHandler,
		getSettlementHandler:      getSettlementHandler,
		getNextStatusesHandler:    getNextStatusesHandler,
	}
}

// RegisterRoutes binds all API routes on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.POST("/orders/:order_id/status", s.ChangeOrderStatus)
	api.POST("/orders/:order_id/recover", s.RecoverOrderStatus)
	api.POST("/orders/:order_id/applications", s.SubmitApplication)
	api.POST("/orders/:order_id/helper", s.SelectHelper)
	api.POST("/orders/:order_id/closing", s.SubmitClosingReport)
	api.POST("/orders/:order_id/confirm", s.ConfirmFinalAmount)
	api.POST("/orders/:order_id/pay-balance", s.PayBalance)
	api.POST("/orders/:order_id/pay-settlement", s.PaySettlement)
	api.POST("/orders/:order_id/dispute/resolve", s.ResolveDispute)
	api.GET("/orders/:order_id/settlement", s.GetSettlement)
	api.POST("/settlements/:settlement_id/deductions", s.ApplyDeduction)
	api.POST("/settlements/:settlement_id/deductions/reverse", s.ReverseDeduction)
	api.GET("/statuses/:status/transitions", s.GetNextStatuses)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	requesterID, err := kernel.UUIDFromString(req.RequesterID)
	if err != nil {
		return badRequest(ctx, "invalid requester_id")
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, requesterID)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID.String()})
}

// ChangeOrderStatus handles POST /api/v1/orders/:order_id/status.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	var req ChangeStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, order.Normalize(req.Status))
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RecoverOrderStatus handles POST /api/v1/orders/:order_id/recover.
func (s *Server) RecoverOrderStatus(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	var req ChangeStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewRecoverOrderStatusCommand(orderID, order.Normalize(req.Status))
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.recoverStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SubmitApplication handles POST /api/v1/orders/:order_id/applications.
func (s *Server) SubmitApplication(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	var req SubmitApplicationRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	helperID, err := kernel.UUIDFromString(req.HelperID)
	if err != nil {
		return badRequest(ctx, "invalid helper_id")
	}
	var teamLeaderID *kernel.UUID
	if req.TeamLeaderID != nil {
		leaderID, leaderErr := kernel.UUIDFromString(*req.TeamLeaderID)
		if leaderErr != nil {
			return badRequest(ctx, "invalid team_leader_id")
		}
		teamLeaderID = &leaderID
	}

	applicationID := kernel.NewUUID()
	cmd, err := commands.NewSubmitApplicationCommand(applicationID, orderID, helperID, teamLeaderID)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.submitApplicationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, SubmitApplicationResponse{ID: applicationID.String()})
}

// SelectHelper handles POST /api/v1/orders/:order_id/helper.
func (s *Server) SelectHelper(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	var req SelectHelperRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	helperID, err := kernel.UUIDFromString(req.HelperID)
	if err != nil {
		return badRequest(ctx, "invalid helper_id")
	}

	cmd, err := commands.NewSelectHelperCommand(orderID, helperID)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.selectHelperHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SubmitClosingReport handles POST /api/v1/orders/:order_id/closing.
func (s *Server) SubmitClosingReport(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	var req SubmitClosingRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	costs := make([]order.ExtraCost, 0, len(req.ExtraCosts))
	for _, body := range req.ExtraCosts {
		cost, costErr := order.NewExtraCost(body.Label, body.Amount)
		if costErr != nil {
			return writeError(ctx, costErr)
		}
		costs = append(costs, cost)
	}

	closing, err := order.NewClosingData(
		req.DeliveredCount, req.ReturnedCount, req.EtcCount,
		req.UnitPrice, req.EtcPricePerUnit, costs,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSubmitClosingReportCommand(orderID, closing)
	if err != nil {
		return writeError(ctx, err)
	}
	settlementAggregate, err := s.submitClosingHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, settlementResponse(settlementAggregate))
}

// ConfirmFinalAmount handles POST /api/v1/orders/:order_id/confirm.
func (s *Server) ConfirmFinalAmount(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	actor, key, err := idempotencyHeaders(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewConfirmFinalAmountCommand(orderID, actor, key)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.confirmFinalAmountHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PayBalance handles POST /api/v1/orders/:order_id/pay-balance.
func (s *Server) PayBalance(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	actor, key, err := idempotencyHeaders(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewPayBalanceCommand(orderID, actor, key)
	if err != nil {
		return writeError(ctx, err)
	}
	balance, err := s.payBalanceHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, PayBalanceResponse{BalanceAmount: balance})
}

// PaySettlement handles POST /api/v1/orders/:order_id/pay-settlement.
func (s *Server) PaySettlement(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	actor, key, err := idempotencyHeaders(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewPaySettlementCommand(orderID, actor, key)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.paySettlementHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ResolveDispute handles POST /api/v1/orders/:order_id/dispute/resolve.
func (s *Server) ResolveDispute(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}
	actor, key, err := idempotencyHeaders(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	var req ResolveDisputeRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewResolveDisputeCommand(
		orderID, req.DisputeID, req.Resolved,
		req.DeductionAmount, req.DeductionReason,
		actor, key,
	)
	if err != nil {
		return writeError(ctx, err)
	}
	if err = s.resolveDisputeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ApplyDeduction handles POST /api/v1/settlements/:settlement_id/deductions.
func (s *Server) ApplyDeduction(ctx echo.Context) error {
	settlementID, err := kernel.UUIDFromString(ctx.Param("settlement_id"))
	if err != nil {
		return badRequest(ctx, "invalid settlement_id")
	}
	var req ApplyDeductionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	sourceType, err := settlement.SourceTypeFromString(req.SourceType)
	if err != nil {
		return badRequest(ctx, "invalid source_type")
	}

	cmd, err := commands.NewApplyDeductionCommand(settlementID, sourceType, req.SourceID, req.Amount, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	entry, applied, err := s.applyDeductionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	status := http.StatusCreated
	if !applied {
		status = http.StatusOK
	}
	return ctx.JSON(status, deductionResponse(entry, applied))
}

// ReverseDeduction handles POST /api/v1/settlements/:settlement_id/deductions/reverse.
func (s *Server) ReverseDeduction(ctx echo.Context) error {
	settlementID, err := kernel.UUIDFromString(ctx.Param("settlement_id"))
	if err != nil {
		return badRequest(ctx, "invalid settlement_id")
	}
	var req ReverseDeductionRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	sourceType, err := settlement.SourceTypeFromString(req.SourceType)
	if err != nil {
		return badRequest(ctx, "invalid source_type")
	}

	cmd, err := commands.NewReverseDeductionCommand(settlementID, sourceType, req.SourceID)
	if err != nil {
		return writeError(ctx, err)
	}
	entry, err := s.reverseDeductionHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, deductionResponse(entry, false))
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]ActiveOrderResponse, 0, len(orders))
	for _, o := range orders {
		row := ActiveOrderResponse{
			ID:          o.ID.String(),
			RequesterID: o.RequesterID.String(),
			Status:      o.Status.String(),
		}
		if o.HelperID != nil {
			helper := o.HelperID.String()
			row.HelperID = &helper
		}
		response = append(response, row)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetSettlement handles GET /api/v1/orders/:order_id/settlement.
func (s *Server) GetSettlement(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order_id")
	}

	query, err := queries.NewGetSettlementQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	resp, err := s.getSettlementHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, SettlementResponse{
		SettlementID:   resp.SettlementID.String(),
		OrderID:        resp.OrderID.String(),
		HelperID:       resp.HelperID.String(),
		SupplyAmount:   resp.SupplyAmount,
		VATAmount:      resp.VATAmount,
		TotalAmount:    resp.TotalAmount,
		DepositAmount:  resp.DepositAmount,
		BalanceAmount:  resp.BalanceAmount,
		PlatformFee:    resp.PlatformFee,
		DeductionTotal: resp.DeductionTotal,
		NetAmount:      resp.NetAmount,
		Status:         resp.Status,
	})
}

// GetNextStatuses handles GET /api/v1/statuses/:status/transitions.
func (s *Server) GetNextStatuses(ctx echo.Context) error {
	query := queries.NewGetNextStatusesQuery(ctx.Param("status"))
	resp, err := s.getNextStatusesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, NextStatusesResponse{
		Status:          resp.Status.String(),
		NextStatuses:    statusStrings(resp.NextStatuses),
		RecoveryOptions: statusStrings(resp.RecoveryOptions),
		Terminal:        resp.Terminal,
		Unknown:         resp.Unknown,
	})
}

func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("order_id"))
}

func idempotencyHeaders(ctx echo.Context) (actor, key string, err error) {
	actor = ctx.Request().Header.Get(headerActor)
	key = ctx.Request().Header.Get(headerIdempotencyKey)
	if actor == "" {
		return "", "", errors.New(headerActor + " header is required")
	}
	if key == "" {
		return "", "", errors.New(headerIdempotencyKey + " header is required")
	}
	return actor, key, nil
}

func settlementResponse(aggregate *settlement.Settlement) SettlementResponse {
	result := aggregate.Result()
	return SettlementResponse{
		SettlementID:   aggregate.ID().String(),
		OrderID:        aggregate.OrderID().String(),
		HelperID:       aggregate.HelperID().String(),
		SupplyAmount:   result.SupplyAmount,
		VATAmount:      result.VATAmount,
		TotalAmount:    result.TotalAmount,
		DepositAmount:  result.DepositAmount,
		BalanceAmount:  result.BalanceAmount,
		PlatformFee:    aggregate.PlatformFee(),
		DeductionTotal: aggregate.DeductionTotal(),
		NetAmount:      aggregate.NetAmount(),
		Status:         aggregate.Status().String(),
	}
}

func deductionResponse(entry *settlement.LedgerEntry, applied bool) DeductionResponse {
	return DeductionResponse{
		EntryID:    entry.ID().String(),
		SourceType: entry.SourceType().String(),
		SourceID:   entry.SourceID(),
		Amount:     entry.Amount(),
		Reason:     entry.Reason(),
		Applied:    applied,
		Reversed:   !entry.Active(),
	}
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps domain errors onto HTTP statuses: invalid input is 400,
// missing objects 404, transition and selection conflicts 409, violated
// preconditions 422, anything else 500.
func writeError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrTargetStatusIsUnknown):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrHelperAlreadySelected),
		errors.Is(err, order.ErrOrderNotAcceptingApplications):
		code = http.StatusConflict
	case errors.Is(err, order.ErrHelperNotSelected),
		errors.Is(err, order.ErrClosingNotSubmitted),
		errors.Is(err, order.ErrClosingAlreadySubmitted),
		errors.Is(err, order.ErrClosingNotCorrectable),
		errors.Is(err, order.ErrRecoveryNotAllowed),
		errors.Is(err, settlement.ErrSettlementAlreadyPaid),
		errors.Is(err, settlement.ErrLedgerEntryAlreadyReversed):
		code = http.StatusUnprocessableEntity
	}

	return ctx.JSON(code, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}
