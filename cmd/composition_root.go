package cmd

import (
	"fmt"
	"log/slog"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/paymentgateway"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/redislock"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/metrics"

	"gorm.io/gorm"
)

const producerName = "marketplace"

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	gateway    ports.PaymentGateway
	locker     ports.Locker
	policy     services.FeePolicy
	metrics    *metrics.Metrics
	logger     *slog.Logger
	closers    []func() error
}

// NewCompositionRoot wires the infrastructure adapters. Call Close on shutdown.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	policy, err := cfg.FeePolicy()
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		config:  cfg,
		gormDB:  gormDB,
		policy:  policy,
		metrics: metrics.New(),
		logger:  logger,
	}

	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, producerName)
		root.closers = append(root.closers, kafkaPublisher.Close)
		publisher = root.metrics.InstrumentPublisher(kafkaPublisher)
	} else {
		logger.Warn("KAFKA_BROKERS is empty, domain events will not be published")
	}
	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger)

	redisClient := redislock.NewClient(cfg.RedisAddr)
	root.closers = append(root.closers, redisClient.Close)
	root.locker = redislock.NewLocker(redisClient)

	if root.gateway, err = newPaymentGateway(cfg); err != nil {
		_ = root.Close()
		return nil, err
	}
	return root, nil
}

func newPaymentGateway(cfg Config) (ports.PaymentGateway, error) {
	switch cfg.PaymentProvider {
	case PaymentProviderBraintree:
		return paymentgateway.NewBraintreeGateway(paymentgateway.BraintreeConfig{
			Environment:       cfg.BraintreeEnvironment,
			MerchantID:        cfg.BraintreeMerchantID,
			PublicKey:         cfg.BraintreePublicKey,
			PrivateKey:        cfg.BraintreePrivateKey,
			CheckoutEndpoint:  cfg.PaymentGatewayCheckout,
			MinorUnitExponent: cfg.BraintreeMinorUnitExponent,
		}), nil
	case PaymentProviderHTTP:
		return paymentgateway.NewHTTPGateway(paymentgateway.HTTPGatewayConfig{
			BaseURL:          cfg.PaymentGatewayBaseURL,
			APIKey:           cfg.PaymentGatewayAPIKey,
			APISecret:        cfg.PaymentGatewayAPISecret,
			CheckoutEndpoint: cfg.PaymentGatewayCheckout,
			Timeout:          cfg.PaymentGatewayTimeout,
		})
	default:
		return nil, fmt.Errorf("unsupported payment provider %q", cfg.PaymentProvider)
	}
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

func (c *CompositionRoot) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *CompositionRoot) uow() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(c.uow())
}

func (c *CompositionRoot) CreatePreparePaymentCommandHandler() commands.PreparePaymentCommandHandler {
	return commands.NewPreparePaymentCommandHandler(c.uow(), c.gateway)
}

func (c *CompositionRoot) CreateCompletePaymentCommandHandler() commands.CompletePaymentCommandHandler {
	return commands.NewCompletePaymentCommandHandler(c.uow(), c.gateway, c.policy, c.config.Currency, c.logger)
}

func (c *CompositionRoot) CreateCancelPaymentCommandHandler() commands.CancelPaymentCommandHandler {
	return commands.NewCancelPaymentCommandHandler(c.uow(), c.gateway)
}

func (c *CompositionRoot) CreateAssignDeliveryCommandHandler() commands.AssignDeliveryCommandHandler {
	return commands.NewAssignDeliveryCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	return commands.NewAcceptDeliveryCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateProgressDeliveryCommandHandler() commands.ProgressDeliveryCommandHandler {
	return commands.NewProgressDeliveryCommandHandler(
		c.uow(),
		c.CreateRecordCompletedDeliveryCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateReopenDeliveryCommandHandler() commands.ReopenDeliveryCommandHandler {
	return commands.NewReopenDeliveryCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateCancelDeliveryCommandHandler() commands.CancelDeliveryCommandHandler {
	return commands.NewCancelDeliveryCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateReopenStaleAssignmentsCommandHandler() commands.ReopenStaleAssignmentsCommandHandler {
	return commands.NewReopenStaleAssignmentsCommandHandler(c.uow(), c.logger)
}

func (c *CompositionRoot) CreateRecordPaidOrderCommandHandler() commands.RecordPaidOrderCommandHandler {
	return commands.NewRecordPaidOrderCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateRecordCompletedDeliveryCommandHandler() commands.RecordCompletedDeliveryCommandHandler {
	return commands.NewRecordCompletedDeliveryCommandHandler(c.uow(), c.policy)
}

func (c *CompositionRoot) CreateCreateSettlementCommandHandler() commands.CreateSettlementCommandHandler {
	return commands.NewCreateSettlementCommandHandler(c.uow(), c.locker, c.config.SettlementLockTTL, c.logger)
}

func (c *CompositionRoot) CreatePayoutSettlementCommandHandler() commands.PayoutSettlementCommandHandler {
	return commands.NewPayoutSettlementCommandHandler(c.uow(), c.config.Currency)
}

func (c *CompositionRoot) CreateCancelSettlementCommandHandler() commands.CancelSettlementCommandHandler {
	return commands.NewCancelSettlementCommandHandler(c.uow())
}

func (c *CompositionRoot) CreateSettlePeriodCommandHandler() commands.SettlePeriodCommandHandler {
	return commands.NewSettlePeriodCommandHandler(
		c.uow(),
		c.CreateRecordCompletedDeliveryCommandHandler(),
		c.CreateCreateSettlementCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateAddFeeRuleCommandHandler() commands.AddFeeRuleCommandHandler {
	return commands.NewAddFeeRuleCommandHandler(c.uow(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateUpdateFeeRuleCommandHandler() commands.UpdateFeeRuleCommandHandler {
	return commands.NewUpdateFeeRuleCommandHandler(c.uow(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateDeactivateFeeRuleCommandHandler() commands.DeactivateFeeRuleCommandHandler {
	return commands.NewDeactivateFeeRuleCommandHandler(c.uow(), c.locker, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() queries.GetDeliveryQueryHandler {
	return queries.NewGetDeliveryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOwnerSettlementsQueryHandler() queries.ListOwnerSettlementsQueryHandler {
	return queries.NewListOwnerSettlementsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListCourierSettlementsQueryHandler() queries.ListCourierSettlementsQueryHandler {
	return queries.NewListCourierSettlementsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		PlaceOrder:        c.CreatePlaceOrderCommandHandler(),
		ChangeOrderStatus: c.CreateChangeOrderStatusCommandHandler(),
		GetOrder:          c.CreateGetOrderQueryHandler(),

		PreparePayment:  c.CreatePreparePaymentCommandHandler(),
		CompletePayment: c.CreateCompletePaymentCommandHandler(),
		CancelPayment:   c.CreateCancelPaymentCommandHandler(),

		AssignDelivery:   c.CreateAssignDeliveryCommandHandler(),
		AcceptDelivery:   c.CreateAcceptDeliveryCommandHandler(),
		ProgressDelivery: c.CreateProgressDeliveryCommandHandler(),
		ReopenDelivery:   c.CreateReopenDeliveryCommandHandler(),
		CancelDelivery:   c.CreateCancelDeliveryCommandHandler(),
		GetDelivery:      c.CreateGetDeliveryQueryHandler(),

		CreateSettlement:        c.CreateCreateSettlementCommandHandler(),
		PayoutSettlement:        c.CreatePayoutSettlementCommandHandler(),
		CancelSettlement:        c.CreateCancelSettlementCommandHandler(),
		SettlePeriod:            c.CreateSettlePeriodCommandHandler(),
		RecordPaidOrder:         c.CreateRecordPaidOrderCommandHandler(),
		RecordCompletedDelivery: c.CreateRecordCompletedDeliveryCommandHandler(),
		ListOwnerSettlements:    c.CreateListOwnerSettlementsQueryHandler(),
		ListCourierSettlements:  c.CreateListCourierSettlementsQueryHandler(),

		AddFeeRule:        c.CreateAddFeeRuleCommandHandler(),
		UpdateFeeRule:     c.CreateUpdateFeeRuleCommandHandler(),
		DeactivateFeeRule: c.CreateDeactivateFeeRuleCommandHandler(),
	}, []byte(c.config.JWTSecret), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewAssignmentTimeoutJob(
			c.CreateReopenStaleAssignmentsCommandHandler(),
			c.config.AssignmentTimeoutCron,
			c.config.AssignmentTimeout,
			c.config.AssignmentBatchSize,
			c.metrics,
			c.logger,
		),
		jobs.NewSettlementJob(c.CreateSettlePeriodCommandHandler(), c.config.SettlementCron, c.metrics, c.logger),
	)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
