package cmd

import (
	"log/slog"

	"marketplace/internal/adapters/out/eventlog"
	"marketplace/internal/adapters/out/policycfg"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	policy     ports.PolicyProvider
	publisher  ports.EventPublisher
	resolver   services.RateResolver
	calculator services.SettlementCalculator
}

func NewCompositionRoot(
	_ Config,
	gormDB *gorm.DB,
	policy *policycfg.Policy,
	logger *slog.Logger,
	registry *prometheus.Registry,
) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		policy:     policy,
		publisher:  eventlog.NewPublisher(logger, registry),
		resolver:   services.NewRateResolver(),
		calculator: services.NewSettlementCalculator(),
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.policy)
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.orderSettlementUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateRecoverOrderStatusCommandHandler() commands.RecoverOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecoverOrderStatusCommandHandler(f, c.publisher)
}

func (c *CompositionRoot) CreateSubmitApplicationCommandHandler() commands.SubmitApplicationCommandHandler {
	var f commands.MatchUoWFactory = FuncMatchUoWFactory(func() commands.MatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitApplicationCommandHandler(f)
}

func (c *CompositionRoot) CreateSelectHelperCommandHandler() commands.SelectHelperCommandHandler {
	var f commands.MatchUoWFactory = FuncMatchUoWFactory(func() commands.MatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSelectHelperCommandHandler(f, c.policy, c.resolver, c.publisher)
}

func (c *CompositionRoot) CreateSubmitClosingReportCommandHandler() commands.SubmitClosingReportCommandHandler {
	var f commands.ClosingUoWFactory = FuncClosingUoWFactory(func() commands.ClosingUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitClosingReportCommandHandler(f, c.policy, c.resolver, c.calculator, c.publisher)
}

func (c *CompositionRoot) CreateConfirmFinalAmountCommandHandler() commands.ConfirmFinalAmountCommandHandler {
	return commands.NewConfirmFinalAmountCommandHandler(c.paymentUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreatePayBalanceCommandHandler() commands.PayBalanceCommandHandler {
	return commands.NewPayBalanceCommandHandler(c.paymentUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreatePaySettlementCommandHandler() commands.PaySettlementCommandHandler {
	return commands.NewPaySettlementCommandHandler(c.paymentUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateResolveDisputeCommandHandler() commands.ResolveDisputeCommandHandler {
	return commands.NewResolveDisputeCommandHandler(c.paymentUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateApplyDeductionCommandHandler() commands.ApplyDeductionCommandHandler {
	return commands.NewApplyDeductionCommandHandler(c.ledgerUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateReverseDeductionCommandHandler() commands.ReverseDeductionCommandHandler {
	return commands.NewReverseDeductionCommandHandler(c.ledgerUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateMarkSettlementsPayableCommandHandler() commands.MarkSettlementsPayableCommandHandler {
	return commands.NewMarkSettlementsPayableCommandHandler(c.orderSettlementUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetSettlementQueryHandler() queries.GetSettlementQueryHandler {
	return queries.NewGetSettlementQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetNextStatusesQueryHandler() queries.GetNextStatusesQueryHandler {
	return queries.NewGetNextStatusesQueryHandler()
}

func (c *CompositionRoot) paymentUoWFactory() commands.PaymentUoWFactory {
	return FuncPaymentUoWFactory(func() commands.PaymentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ledgerUoWFactory() commands.LedgerUoWFactory {
	return FuncLedgerUoWFactory(func() commands.LedgerUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) orderSettlementUoWFactory() commands.OrderSettlementUoWFactory {
	return FuncOrderSettlementUoWFactory(func() commands.OrderSettlementUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncMatchUoWFactory func() commands.MatchUoW

func (f FuncMatchUoWFactory) Create() commands.MatchUoW {
	return f()
}

type FuncClosingUoWFactory func() commands.ClosingUoW

func (f FuncClosingUoWFactory) Create() commands.ClosingUoW {
	return f()
}

type FuncPaymentUoWFactory func() commands.PaymentUoW

func (f FuncPaymentUoWFactory) Create() commands.PaymentUoW {
	return f()
}

type FuncLedgerUoWFactory func() commands.LedgerUoW

func (f FuncLedgerUoWFactory) Create() commands.LedgerUoW {
	return f()
}

type FuncOrderSettlementUoWFactory func() commands.OrderSettlementUoW

func (f FuncOrderSettlementUoWFactory) Create() commands.OrderSettlementUoW {
	return f()
}
