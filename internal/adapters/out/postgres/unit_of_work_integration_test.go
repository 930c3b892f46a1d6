package postgres_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	postgres_adapter "marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/dbtest"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type commandsUoWFactory struct {
	factory ports.UnitOfWorkFactory
}

func (f commandsUoWFactory) Create() commands.UoW {
	return f.factory.Create()
}

// UnitOfWorkIntegrationTestSuite runs the unit of work against PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	pg        *dbtest.Postgres
	publisher *MockEventPublisher
	factory   ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	pg, err := dbtest.StartPostgres(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
	suite.publisher = new(MockEventPublisher)
	suite.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(suite.pg.DB, suite.publisher, logger)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestMultiRepositoryRollback() {
	ctx := context.Background()
	o := newOrder(suite.T())
	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), 1000, 10*time.Minute)
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, o))
	suite.Require().NoError(uow.DeliveryRepository().Add(ctx, d))
	suite.Require().NoError(uow.Rollback(ctx))

	reader := suite.factory.Create()
	_, err = reader.OrderRepository().Get(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = reader.DeliveryRepository().GetByOrderID(ctx, o.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestAcceptDelivery_ConcurrentCouriers_ExactlyOneAccepts() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), 1200, 12*time.Minute)
	suite.Require().NoError(err)
	suite.Require().NoError(d.Assign(courierID, time.Now()))
	suite.Require().NoError(suite.factory.Create().DeliveryRepository().Add(ctx, d))

	actor, err := kernel.NewActor(kernel.RoleCourier, courierID)
	suite.Require().NoError(err)
	cmd, err := commands.NewAcceptDeliveryCommand(actor, d.ID())
	suite.Require().NoError(err)
	handler := commands.NewAcceptDeliveryCommandHandler(commandsUoWFactory{factory: suite.factory})

	const attempts = 10
	var accepted, rejected atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			handleErr := handler.Handle(ctx, cmd)
			switch {
			case handleErr == nil:
				accepted.Add(1)
			case errors.Is(handleErr, errs.ErrInvalidStateTransition):
				rejected.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	suite.Equal(int32(1), accepted.Load())
	suite.Equal(int32(attempts-1), rejected.Load())

	got, err := suite.factory.Create().DeliveryRepository().Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Accepted, got.Status())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
