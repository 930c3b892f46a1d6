package commands_test

import (
	"context"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/courier"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/feerule"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/ledger"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/payment"
	"marketplace/internal/core/domain/model/settlement"
	"marketplace/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockPaymentRepository struct{ mock.Mock }

func (m *MockPaymentRepository) Add(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) Get(ctx context.Context, id kernel.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByMerchantReference(
	ctx context.Context,
	ref payment.MerchantReference,
) (*payment.Payment, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) ListStaleAssigned(
	ctx context.Context,
	assignedBefore time.Time,
	limit int,
) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, assignedBefore, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryRepository) ListDeliveredWithoutSettlementItem(
	ctx context.Context,
	from, to time.Time,
) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

type MockLedgerRepository struct{ mock.Mock }

func (m *MockLedgerRepository) Add(ctx context.Context, tx *ledger.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByRelated(
	ctx context.Context,
	relatedType ledger.RelatedType,
	relatedID kernel.UUID,
) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, relatedType, relatedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

type MockOwnerSettlementRepository struct{ mock.Mock }

func (m *MockOwnerSettlementRepository) AddItem(ctx context.Context, item *settlement.OwnerItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOwnerSettlementRepository) GetItemByOrderID(
	ctx context.Context,
	orderID kernel.UUID,
) (*settlement.OwnerItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.OwnerItem), args.Error(1)
}

func (m *MockOwnerSettlementRepository) ListPendingItems(
	ctx context.Context,
	ownerID kernel.UUID,
	period settlement.Period,
) ([]*settlement.OwnerItem, error) {
	args := m.Called(ctx, ownerID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settlement.OwnerItem), args.Error(1)
}

func (m *MockOwnerSettlementRepository) ListItems(
	ctx context.Context,
	settlementID kernel.UUID,
) ([]*settlement.OwnerItem, error) {
	args := m.Called(ctx, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settlement.OwnerItem), args.Error(1)
}

func (m *MockOwnerSettlementRepository) ListOwnersWithPendingItems(
	ctx context.Context,
	period settlement.Period,
) ([]kernel.UUID, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockOwnerSettlementRepository) ClaimItems(
	ctx context.Context,
	settlementID kernel.UUID,
	itemIDs []kernel.UUID,
) (int64, error) {
	args := m.Called(ctx, settlementID, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOwnerSettlementRepository) MarkItemsPaid(ctx context.Context, settlementID kernel.UUID) (int64, error) {
	args := m.Called(ctx, settlementID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOwnerSettlementRepository) CancelItems(ctx context.Context, settlementID kernel.UUID) (int64, error) {
	args := m.Called(ctx, settlementID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOwnerSettlementRepository) Add(ctx context.Context, s *settlement.OwnerSettlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockOwnerSettlementRepository) Update(ctx context.Context, s *settlement.OwnerSettlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockOwnerSettlementRepository) Get(ctx context.Context, id kernel.UUID) (*settlement.OwnerSettlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.OwnerSettlement), args.Error(1)
}

type MockCourierSettlementRepository struct{ mock.Mock }

func (m *MockCourierSettlementRepository) AddItem(ctx context.Context, item *settlement.CourierItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCourierSettlementRepository) GetItemByDeliveryID(
	ctx context.Context,
	deliveryID kernel.UUID,
) (*settlement.CourierItem, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.CourierItem), args.Error(1)
}

func (m *MockCourierSettlementRepository) ListPendingItems(
	ctx context.Context,
	courierID kernel.UUID,
	period settlement.Period,
) ([]*settlement.CourierItem, error) {
	args := m.Called(ctx, courierID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settlement.CourierItem), args.Error(1)
}

func (m *MockCourierSettlementRepository) ListItems(
	ctx context.Context,
	settlementID kernel.UUID,
) ([]*settlement.CourierItem, error) {
	args := m.Called(ctx, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*settlement.CourierItem), args.Error(1)
}

func (m *MockCourierSettlementRepository) ListCouriersWithPendingItems(
	ctx context.Context,
	period settlement.Period,
) ([]kernel.UUID, error) {
	args := m.Called(ctx, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockCourierSettlementRepository) ClaimItems(
	ctx context.Context,
	settlementID kernel.UUID,
	itemIDs []kernel.UUID,
) (int64, error) {
	args := m.Called(ctx, settlementID, itemIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourierSettlementRepository) MarkItemsPaid(ctx context.Context, settlementID kernel.UUID) (int64, error) {
	args := m.Called(ctx, settlementID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourierSettlementRepository) CancelItems(ctx context.Context, settlementID kernel.UUID) (int64, error) {
	args := m.Called(ctx, settlementID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourierSettlementRepository) Add(ctx context.Context, s *settlement.CourierSettlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockCourierSettlementRepository) Update(ctx context.Context, s *settlement.CourierSettlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockCourierSettlementRepository) Get(ctx context.Context, id kernel.UUID) (*settlement.CourierSettlement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.CourierSettlement), args.Error(1)
}

type MockFeeRuleRepository struct{ mock.Mock }

func (m *MockFeeRuleRepository) Add(ctx context.Context, rule *feerule.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockFeeRuleRepository) Update(ctx context.Context, rule *feerule.Rule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockFeeRuleRepository) Deactivate(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeeRuleRepository) Get(ctx context.Context, id kernel.UUID) (*feerule.Rule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feerule.Rule), args.Error(1)
}

func (m *MockFeeRuleRepository) ListActiveByCourier(ctx context.Context, courierID kernel.UUID) ([]*feerule.Rule, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*feerule.Rule), args.Error(1)
}

type MockStoreDirectory struct{ mock.Mock }

func (m *MockStoreDirectory) OwnerOf(ctx context.Context, storeID kernel.UUID) (kernel.UUID, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(kernel.UUID), args.Error(1)
}

type MockCourierDirectory struct{ mock.Mock }

func (m *MockCourierDirectory) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) FetchPayment(ctx context.Context, externalID string) (payment.ProviderPayment, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(payment.ProviderPayment), args.Error(1)
}

func (m *MockPaymentGateway) CancelPayment(ctx context.Context, externalID, reason string) error {
	args := m.Called(ctx, externalID, reason)
	return args.Error(0)
}

func (m *MockPaymentGateway) Endpoint() string {
	args := m.Called()
	return args.String(0)
}

type MockLocker struct {
	mock.Mock
	released int
}

func (m *MockLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error) {
	args := m.Called(ctx, key, ttl)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

type MockDeliveryRecorder struct{ mock.Mock }

func (m *MockDeliveryRecorder) Handle(ctx context.Context, cmd commands.RecordCompletedDeliveryCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

// MockUoW hands out the repositories a test wires into it. Transaction
// boundaries are recorded as mock calls so tests can assert their order.
type MockUoW struct {
	mock.Mock

	orders             *MockOrderRepository
	payments           *MockPaymentRepository
	deliveries         *MockDeliveryRepository
	ledger             *MockLedgerRepository
	ownerSettlements   *MockOwnerSettlementRepository
	courierSettlements *MockCourierSettlementRepository
	feeRules           *MockFeeRuleRepository
	stores             *MockStoreDirectory
	couriers           *MockCourierDirectory
}

func newMockUoW() *MockUoW {
	return &MockUoW{
		orders:             new(MockOrderRepository),
		payments:           new(MockPaymentRepository),
		deliveries:         new(MockDeliveryRepository),
		ledger:             new(MockLedgerRepository),
		ownerSettlements:   new(MockOwnerSettlementRepository),
		courierSettlements: new(MockCourierSettlementRepository),
		feeRules:           new(MockFeeRuleRepository),
		stores:             new(MockStoreDirectory),
		couriers:           new(MockCourierDirectory),
	}
}

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository       { return m.orders }
func (m *MockUoW) PaymentRepository() ports.PaymentRepository   { return m.payments }
func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository { return m.deliveries }
func (m *MockUoW) LedgerRepository() ports.LedgerRepository     { return m.ledger }
func (m *MockUoW) StoreDirectory() ports.StoreDirectory         { return m.stores }
func (m *MockUoW) CourierDirectory() ports.CourierDirectory     { return m.couriers }
func (m *MockUoW) FeeRuleRepository() ports.FeeRuleRepository   { return m.feeRules }

func (m *MockUoW) OwnerSettlementRepository() ports.OwnerSettlementRepository {
	return m.ownerSettlements
}

func (m *MockUoW) CourierSettlementRepository() ports.CourierSettlementRepository {
	return m.courierSettlements
}

// assertExpectations checks the unit of work and every repository it hands out.
func (m *MockUoW) assertExpectations(t mock.TestingT) {
	mock.AssertExpectationsForObjects(t,
		m, m.orders, m.payments, m.deliveries, m.ledger,
		m.ownerSettlements, m.courierSettlements, m.feeRules, m.stores, m.couriers)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

// expectTx registers the begin, commit and deferred rollback of a successful transaction.
func (m *MockUoW) expectTx(ctx context.Context) {
	m.On("Begin", ctx).Return(nil).Once()
	m.On("Commit", ctx).Return(nil).Once()
	m.On("Rollback", ctx).Return(nil).Once()
}

// expectAbortedTx registers a transaction that ends in the deferred rollback.
func (m *MockUoW) expectAbortedTx(ctx context.Context) {
	m.On("Begin", ctx).Return(nil).Once()
	m.On("Rollback", ctx).Return(nil).Once()
}

func newFactory(uows ...commands.UoW) *MockUoWFactory {
	factory := new(MockUoWFactory)
	for _, uow := range uows {
		factory.On("Create").Return(uow).Once()
	}
	return factory
}

func mustActor(role kernel.Role, id kernel.UUID) kernel.Actor {
	actor, err := kernel.NewActor(role, id)
	if err != nil {
		panic(err)
	}
	return actor
}
