package redislock_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"marketplace/internal/adapters/out/redislock"
	"marketplace/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type LockerIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
	locker    *redislock.Locker
}

func (suite *LockerIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	suite.client = redislock.NewClient(endpoint)
	suite.locker = redislock.NewLocker(suite.client)
}

func (suite *LockerIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *LockerIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
}

func (suite *LockerIntegrationTestSuite) TestLock_IsExclusiveUntilReleased() {
	ctx := context.Background()

	unlock, err := suite.locker.Lock(ctx, "settlement:owner:1", time.Minute)
	suite.Require().NoError(err)

	_, err = suite.locker.Lock(ctx, "settlement:owner:1", time.Minute)
	suite.Require().ErrorIs(err, ports.ErrLockNotAcquired)

	_, err = suite.locker.Lock(ctx, "settlement:owner:2", time.Minute)
	suite.Require().NoError(err, "other keys are independent")

	suite.Require().NoError(unlock(ctx))

	_, err = suite.locker.Lock(ctx, "settlement:owner:1", time.Minute)
	suite.Require().NoError(err)
}

func (suite *LockerIntegrationTestSuite) TestUnlock_AfterExpiryDoesNotReleaseNewOwner() {
	ctx := context.Background()

	unlock, err := suite.locker.Lock(ctx, "feerule:courier:1", 100*time.Millisecond)
	suite.Require().NoError(err)
	time.Sleep(200 * time.Millisecond)

	_, err = suite.locker.Lock(ctx, "feerule:courier:1", time.Minute)
	suite.Require().NoError(err)

	suite.Require().ErrorIs(unlock(ctx), redislock.ErrLockLost)

	_, err = suite.locker.Lock(ctx, "feerule:courier:1", time.Minute)
	suite.Require().ErrorIs(err, ports.ErrLockNotAcquired, "new owner keeps the lock")
}

func (suite *LockerIntegrationTestSuite) TestLock_ConcurrentCallersOneWins() {
	ctx := context.Background()
	const callers = 16

	var acquired atomic.Int32
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := suite.locker.Lock(ctx, "race", time.Minute); err == nil {
				acquired.Add(1)
			} else {
				suite.ErrorIs(err, ports.ErrLockNotAcquired, fmt.Sprint("caller ", i))
			}
		}()
	}
	wg.Wait()

	suite.Equal(int32(1), acquired.Load())
}

func TestLockerIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(LockerIntegrationTestSuite))
}
