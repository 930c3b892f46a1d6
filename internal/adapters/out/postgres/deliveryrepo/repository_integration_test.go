package deliveryrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres/dbtest"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// DeliveryRepositoryIntegrationTestSuite checks row locking against PostgreSQL.
type DeliveryRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg *dbtest.Postgres
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := dbtest.StartPostgres(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *DeliveryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate())
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

func (suite *DeliveryRepositoryIntegrationTestSuite) newRepository(db *gorm.DB) *deliveryrepo.GormDeliveryRepository {
	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	return deliveryrepo.NewGormDeliveryRepository(db, tracker)
}

func (suite *DeliveryRepositoryIntegrationTestSuite) TestGetForUpdate_ConcurrentAccept_ExactlyOneWins() {
	ctx := context.Background()
	courierID := kernel.NewUUID()

	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), 1800, 15*time.Minute)
	suite.Require().NoError(err)
	suite.Require().NoError(d.Assign(courierID, time.Now()))
	suite.Require().NoError(suite.newRepository(suite.pg.DB).Add(ctx, d))

	const attempts = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		won     int
		refused int
	)
	start := make(chan struct{})
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			txErr := suite.pg.DB.Transaction(func(tx *gorm.DB) error {
				repo := suite.newRepository(tx)
				locked, getErr := repo.GetForUpdate(ctx, d.ID())
				if getErr != nil {
					return getErr
				}
				if acceptErr := locked.Accept(courierID, time.Now()); acceptErr != nil {
					return acceptErr
				}
				return repo.Update(ctx, locked)
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case txErr == nil:
				won++
			case errs.IsRetryable(txErr), isInvalidTransition(txErr):
				refused++
			}
		}()
	}
	close(start)
	wg.Wait()

	suite.Equal(1, won)
	suite.Equal(attempts-1, refused)

	got, err := suite.newRepository(suite.pg.DB).Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Accepted, got.Status())
}

func isInvalidTransition(err error) bool {
	var target *errs.InvalidStateTransitionError
	return errors.As(err, &target)
}

func TestDeliveryRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DeliveryRepositoryIntegrationTestSuite))
}
