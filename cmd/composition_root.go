package cmd

import (
	"fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/notify"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/logger"
	"fulfillment/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// Adapters are the outbound connections built by main. Nonces and Notifier may
// be nil: pickup tokens are then checked by signature only and notifications
// are dropped.
type Adapters struct {
	Codec    ports.PickupTokenCodec
	Nonces   ports.NonceRegistry
	Notifier ports.Notifier
}

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	log        *logger.Logger

	registry      *prometheus.Registry
	engineMetrics *metrics.EngineMetrics
	cronMetrics   *metrics.CronJobMetrics

	codec    ports.PickupTokenCodec
	nonces   ports.NonceRegistry
	notifier *notify.AsyncNotifier
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, log *logger.Logger, adapters Adapters) *CompositionRoot {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &CompositionRoot{
		cfg:           cfg,
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB),
		log:           log,
		registry:      registry,
		engineMetrics: metrics.NewEngineMetrics(registry),
		cronMetrics:   metrics.NewCronJobMetrics(registry),
		codec:         adapters.Codec,
		nonces:        adapters.Nonces,
		notifier:      notify.NewAsyncNotifier(adapters.Notifier, log, cfg.RabbitMQ.NotifyTimeout),
	}
}

// Notifier is exposed so that shutdown can wait for in-flight notifications.
func (c *CompositionRoot) Notifier() *notify.AsyncNotifier {
	return c.notifier
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) availabilityUoWFactory() commands.AvailabilityUoWFactory {
	return FuncAvailabilityUoWFactory(func() commands.AvailabilityUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) assignmentUoWFactory() commands.AssignmentUoWFactory {
	return FuncAssignmentUoWFactory(func() commands.AssignmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.engineMetrics)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.assignmentUoWFactory(), c.engineMetrics)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.notifier, c.engineMetrics, c.log)
}

func (c *CompositionRoot) CreateIssuePickupTokenCommandHandler() commands.IssuePickupTokenCommandHandler {
	return commands.NewIssuePickupTokenCommandHandler(c.orderUoWFactory(), c.codec, c.nonces, c.cfg.Pickup.TokenTTL)
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.orderUoWFactory(), c.codec, c.nonces, c.engineMetrics, c.log)
}

func (c *CompositionRoot) CreateAddAvailabilityBlockCommandHandler() commands.AddAvailabilityBlockCommandHandler {
	return commands.NewAddAvailabilityBlockCommandHandler(c.availabilityUoWFactory())
}

func (c *CompositionRoot) CreateDeleteAvailabilityBlockCommandHandler() commands.DeleteAvailabilityBlockCommandHandler {
	return commands.NewDeleteAvailabilityBlockCommandHandler(c.availabilityUoWFactory())
}

func (c *CompositionRoot) CreateExpireUnassignedOrdersCommandHandler() commands.ExpireUnassignedOrdersCommandHandler {
	return commands.NewExpireUnassignedOrdersCommandHandler(c.orderUoWFactory(), c.notifier, c.engineMetrics, c.log)
}

func (c *CompositionRoot) CreateGetOrderTrackingQueryHandler() queries.GetOrderTrackingQueryHandler {
	return queries.NewGetOrderTrackingQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDriverAvailabilityQueryHandler() queries.GetDriverAvailabilityQueryHandler {
	return queries.NewGetDriverAvailabilityQueryHandler(c.gormDB)
}

// CreateGetFreeSlotsQueryHandler reads through repositories of a unit of work
// that is never begun, so every read runs outside a transaction.
func (c *CompositionRoot) CreateGetFreeSlotsQueryHandler() queries.GetFreeSlotsQueryHandler {
	uow := c.uowFactory.Create()
	return queries.NewGetFreeSlotsQueryHandler(uow.AvailabilityRepository(), uow.OrderRepository())
}

func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(http.Handlers{
		CreateOrder:             c.CreateCreateOrderCommandHandler(),
		AssignDriver:            c.CreateAssignDriverCommandHandler(),
		TransitionOrder:         c.CreateTransitionOrderCommandHandler(),
		IssuePickupToken:        c.CreateIssuePickupTokenCommandHandler(),
		ConfirmPickup:           c.CreateConfirmPickupCommandHandler(),
		AddAvailabilityBlock:    c.CreateAddAvailabilityBlockCommandHandler(),
		DeleteAvailabilityBlock: c.CreateDeleteAvailabilityBlockCommandHandler(),
		GetOrderTracking:        c.CreateGetOrderTrackingQueryHandler(),
		GetDriverAvailability:   c.CreateGetDriverAvailabilityQueryHandler(),
		GetFreeSlots:            c.CreateGetFreeSlotsQueryHandler(),
	}, c.cfg.Scheduling.MinSlotDuration())
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	return http.NewRouter(c.CreateHTTPServer(), http.RouterOptions{
		Logger:   c.log,
		Gatherer: c.registry,
		Debug:    c.cfg.App.LogLevel == "debug",
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if !c.cfg.Scheduling.ExpiryJobEnabled {
		return jobs.NewJobManager()
	}

	expiry := jobs.NewOrderExpiryJob(c.CreateExpireUnassignedOrdersCommandHandler(), jobs.OrderExpiryConfig{
		Schedule:  c.cfg.Scheduling.ExpirySchedule,
		Grace:     c.cfg.Scheduling.ExpiryGrace,
		BatchSize: c.cfg.Scheduling.ExpiryBatchSize,
	}, c.cronMetrics, c.log)

	return jobs.NewJobManager(expiry)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncAvailabilityUoWFactory func() commands.AvailabilityUoW

func (f FuncAvailabilityUoWFactory) Create() commands.AvailabilityUoW {
	return f()
}

type FuncAssignmentUoWFactory func() commands.AssignmentUoW

func (f FuncAssignmentUoWFactory) Create() commands.AssignmentUoW {
	return f()
}
