package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	postgresadapter "dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/ledgerrepo"
	"dispatch/internal/adapters/out/postgres/pgtest"
	"dispatch/internal/core/application/candidates"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/assignment"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the unit of work and the assignment
// engine against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	factory    ports.UnitOfWorkFactory
	drivers    *driverrepo.GormDriverRepository
	deliveries *deliveryrepo.GormDeliveryRepository
	ledger     *ledgerrepo.GormLedgerRepository
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db

	suite.Require().NoError(postgresadapter.Migrate(db))

	suite.factory = postgresadapter.NewGormUnitOfWorkFactory(db)
	suite.drivers = driverrepo.NewGormDriverRepository(db)
	suite.deliveries = deliveryrepo.NewGormDeliveryRepository(db)
	suite.ledger = ledgerrepo.NewGormLedgerRepository(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE assignment_records, orders, drivers").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().Error(uow.Commit(ctx), "commit without begin")
	suite.Require().Error(uow.Rollback(ctx), "rollback without begin")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "second begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))
	suite.Require().Error(uow.Rollback(ctx), "rollback after commit has nothing to undo")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitWritesStatusAndLedgerTogether() {
	ctx := context.Background()
	o := suite.addOrder(order.StatusPending, nil)
	driverID := kernel.NewUUID()
	record := suite.record(o.ID(), driverID)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DeliveryStore().AssignDriver(ctx, o.ID(), driverID))
	suite.Require().NoError(uow.AssignmentLedger().Record(ctx, record))

	// Nothing is visible outside the transaction yet.
	status, _, err := suite.deliveries.Status(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusPending, status)

	suite.Require().NoError(uow.Commit(ctx))

	status, assigned, err := suite.deliveries.Status(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusAssigned, status)
	suite.Require().NotNil(assigned)
	suite.True(assigned.IsEqual(driverID))

	records, err := suite.ledger.ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(records, 1)
	suite.Equal(record.ID, records[0].ID)
	suite.Equal(assignment.Nearest, records[0].Algorithm)
	suite.InDelta(record.FinalScore, records[0].FinalScore, 1e-9)
	suite.InDelta(record.Weights.Zone, records[0].Weights.Zone, 1e-9)
	suite.WithinDuration(record.CreatedAt, records[0].CreatedAt, time.Millisecond)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsBoth() {
	ctx := context.Background()
	o := suite.addOrder(order.StatusPending, nil)
	driverID := kernel.NewUUID()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.DeliveryStore().AssignDriver(ctx, o.ID(), driverID))
	suite.Require().NoError(uow.AssignmentLedger().Record(ctx, suite.record(o.ID(), driverID)))
	suite.Require().NoError(uow.Rollback(ctx))

	status, assigned, err := suite.deliveries.Status(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusPending, status)
	suite.Nil(assigned)

	records, err := suite.ledger.ListByOrder(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Empty(records)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestEngineRespectsCapacityOnPostgres() {
	ctx := context.Background()
	const capacity = 2

	for i, at := range []kernel.GeoPoint{kernel.MustGeoPoint(17.401, 78.47), kernel.MustGeoPoint(17.402, 78.471)} {
		d, err := courier.NewDriver(kernel.NewUUID(), []string{"Asha", "Imran"}[i], courier.VehicleMotorcycle,
			courier.Stats{Rating: 4.5, CompletionRate: 96, OnTimeRate: 93},
			courier.Flags{Online: true, Available: true, Active: true, Verified: true}, "HYD-CENTRAL")
		suite.Require().NoError(err)
		suite.Require().NoError(d.Locate(at, "HYD-CENTRAL"))
		suite.Require().NoError(suite.drivers.SaveDriver(ctx, d))
	}

	orders := make([]*order.Order, 0, 8)
	for range 8 {
		orders = append(orders, suite.addOrder(order.StatusPending, nil))
	}

	handler := commands.NewAssignOrderCommandHandler(commands.AssignOrderDependencies{
		Candidates: candidates.NewProvider(suite.drivers, suite.deliveries, 4),
		Scorer:     services.NewScorer(1),
		UoWFactory: suite.factory,
		Reserver:   memory.NewReserver(),
	}, commands.AssignmentPolicy{SearchRadiusKm: 5, MaxActiveDeliveries: capacity})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, o := range orders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, err := commands.NewAssignOrderCommand(o, "smart_routing")
			if err != nil {
				return
			}
			if handler.Handle(ctx, cmd).Success {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	suite.Equal(2*capacity, succeeded)

	eligible, err := suite.drivers.ListEligibleDrivers(ctx)
	suite.Require().NoError(err)
	for _, d := range eligible {
		count, countErr := suite.deliveries.CountActiveDeliveries(ctx, d.ID())
		suite.Require().NoError(countErr)
		suite.Equal(capacity, count)
	}

	pending, err := suite.deliveries.ListPending(ctx, 0)
	suite.Require().NoError(err)
	suite.Len(pending, len(orders)-2*capacity)
}

func (suite *UnitOfWorkIntegrationTestSuite) addOrder(status order.Status, driverID *kernel.UUID) *order.Order {
	o, err := order.NewOrder(kernel.NewUUID(),
		kernel.MustGeoPoint(17.40, 78.47), kernel.MustGeoPoint(17.43, 78.49), 8, 199.5, order.PriorityNormal)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.deliveries.Add(context.Background(), o, status, driverID))
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) record(orderID, driverID kernel.UUID) assignment.Record {
	return assignment.NewRecord(orderID, assignment.Nearest,
		assignment.Score{
			DriverID:            driverID,
			DistanceScore:       0.9,
			PerformanceScore:    0.8,
			LoadScore:           1,
			ZoneScore:           0.5,
			FinalScore:          0.83,
			EstimatedMinutes:    2,
			EstimatedDistanceKm: 0.6,
		},
		10, 3, assignment.DefaultWeights(), time.Now().Truncate(time.Microsecond))
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
