package cmd

import (
	"log/slog"
	"time"

	httpin "pickupoint/internal/adapters/in/http"
	"pickupoint/internal/adapters/out/notify"
	"pickupoint/internal/adapters/out/offerqueue"
	"pickupoint/internal/adapters/out/postgres"
	"pickupoint/internal/adapters/out/postgres/pricingrepo"
	"pickupoint/internal/adapters/out/pricingcache"
	"pickupoint/internal/adapters/out/routing"
	"pickupoint/internal/core/application/usecases/commands"
	"pickupoint/internal/core/application/usecases/queries"
	"pickupoint/internal/core/domain/model/kernel"
	"pickupoint/internal/core/domain/services"
	"pickupoint/internal/core/ports"
	"pickupoint/internal/jobs"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	clock    kernel.Clock
	location *time.Location
	offers   ports.OfferQueue
	pricing  *pricingcache.Cache
	routes   ports.RouteTimeProvider
	notifier ports.Notifier
}

// NewCompositionRoot wires the adapters. The ORS client is only built when
// an API key is configured; without it missions carry no ETA.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	redisClient redis.UniversalClient,
	tasks *asynq.Client,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	location, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		clock:      kernel.SystemClock{},
		location:   location,
		pricing: pricingcache.New(
			pricingrepo.NewGormPricingRepository(gormDB),
			redisClient,
			cfg.PricingCacheTTL,
			cfg.PricingCacheLocalSize,
		),
		notifier: notify.NewNotifier(tasks, cfg.NotifyQueue),
	}

	switch cfg.OfferQueue {
	case OfferQueueMemory:
		c.offers = offerqueue.NewMemoryQueue()
	default:
		c.offers = offerqueue.NewRedisQueue(redisClient, cfg.OfferQueueKey)
	}

	if cfg.ORSAPIKey != "" {
		var opts []routing.Option
		if cfg.ORSBaseURL != "" {
			opts = append(opts, routing.WithBaseURL(cfg.ORSBaseURL))
		}
		ors, err := routing.NewORSClient(cfg.ORSAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		c.routes = ors
	} else {
		logger.Warn("ORS_API_KEY is not set, mission ETAs are disabled")
	}

	return c, nil
}

func (c *CompositionRoot) Runtime() commands.Runtime {
	return commands.Runtime{
		Clock:    c.clock,
		Policy:   c.cfg.Dispatch(),
		Splitter: services.NewRevenueSplitter(c.cfg.RevenueSplit()),
		Notifier: c.notifier,
		Offers:   c.offers,
		Logger:   c.logger,
	}
}

func (c *CompositionRoot) uows() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

// Command handlers

func (c *CompositionRoot) CreateCreateParcelCommandHandler() commands.CreateParcelCommandHandler {
	quotes := c.CreateQuoteParcelQueryHandler()
	return commands.NewCreateParcelCommandHandler(c.uows(), commands.QuoterFunc(quotes.QuoteParcel), c.Runtime())
}

func (c *CompositionRoot) CreateTransitionParcelCommandHandler() commands.TransitionParcelCommandHandler {
	return commands.NewTransitionParcelCommandHandler(c.uows(), c.Runtime())
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.uows(), c.Runtime())
}

func (c *CompositionRoot) CreateAcceptMissionCommandHandler() commands.AcceptMissionCommandHandler {
	return commands.NewAcceptMissionCommandHandler(c.uows(), c.Runtime())
}

func (c *CompositionRoot) CreateReleaseMissionCommandHandler() commands.ReleaseMissionCommandHandler {
	return commands.NewReleaseMissionCommandHandler(c.uows(), c.Runtime())
}

func (c *CompositionRoot) CreateConfirmPickupCommandHandler() commands.ConfirmPickupCommandHandler {
	return commands.NewConfirmPickupCommandHandler(c.uows(), c.Runtime())
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.uows(), c.Runtime())
}

func (c *CompositionRoot) CreateUpdateMissionLocationCommandHandler() commands.UpdateMissionLocationCommandHandler {
	return commands.NewUpdateMissionLocationCommandHandler(c.uows(), c.routes, c.Runtime())
}

func (c *CompositionRoot) CreateReassignMissionCommandHandler() commands.ReassignMissionCommandHandler {
	return commands.NewReassignMissionCommandHandler(c.uows(), c.Runtime())
}

func (c *CompositionRoot) CreateAdvanceOfferCommandHandler() commands.AdvanceOfferCommandHandler {
	return commands.NewAdvanceOfferCommandHandler(c.uows(), c.Runtime())
}

func (c *CompositionRoot) CreateReleaseStuckMissionsCommandHandler() *commands.ReleaseStuckMissionsCommandHandler {
	h := commands.NewReleaseStuckMissionsCommandHandler(c.uows(), c.Runtime())
	return &h
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateCourierCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateUpdateCourierPositionCommandHandler() commands.UpdateCourierPositionCommandHandler {
	var f commands.CourierUoWFactory = FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateCourierPositionCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateRegisterRelayCommandHandler() commands.RegisterRelayCommandHandler {
	var f commands.RelayUoWFactory = FuncRelayUoWFactory(func() commands.RelayUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRegisterRelayCommandHandler(f)
}

func (c *CompositionRoot) CreateSetRelayActiveCommandHandler() commands.SetRelayActiveCommandHandler {
	var f commands.RelayUoWFactory = FuncRelayUoWFactory(func() commands.RelayUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSetRelayActiveCommandHandler(f)
}

func (c *CompositionRoot) CreateRequestPayoutCommandHandler() commands.RequestPayoutCommandHandler {
	var f commands.WalletUoWFactory = FuncWalletUoWFactory(func() commands.WalletUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRequestPayoutCommandHandler(f, c.clock)
}

func (c *CompositionRoot) CreateUpsertPricingCommandHandler() commands.UpsertPricingCommandHandler {
	var f commands.PricingUoWFactory = FuncPricingUoWFactory(func() commands.PricingUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpsertPricingCommandHandler(f, c.pricing, c.logger)
}

// Query handlers

func (c *CompositionRoot) CreateQuoteParcelQueryHandler() queries.QuoteParcelQueryHandler {
	return queries.NewQuoteParcelQueryHandler(
		c.gormDB,
		c.pricing,
		pricingrepo.NewGormSupplyDemandReader(c.gormDB),
		services.NewPricingEngine(c.cfg.Pricing()),
		services.NewDynamicCoefficient(c.location),
		c.clock,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetParcelQueryHandler() queries.GetParcelQueryHandler {
	return queries.NewGetParcelQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetParcelTimelineQueryHandler() queries.GetParcelTimelineQueryHandler {
	return queries.NewGetParcelTimelineQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateListAvailableMissionsQueryHandler() queries.ListAvailableMissionsQueryHandler {
	return queries.NewListAvailableMissionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListCourierMissionsQueryHandler() queries.ListCourierMissionsQueryHandler {
	return queries.NewListCourierMissionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetMissionTrailQueryHandler() queries.GetMissionTrailQueryHandler {
	return queries.NewGetMissionTrailQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateWalletQueryHandler() queries.WalletQueryHandler {
	return queries.NewWalletQueryHandler(c.gormDB)
}

// Outer layers

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateParcel:          c.CreateCreateParcelCommandHandler(),
		TransitionParcel:      c.CreateTransitionParcelCommandHandler(),
		RecordPayment:         c.CreateRecordPaymentCommandHandler(),
		AcceptMission:         c.CreateAcceptMissionCommandHandler(),
		ReleaseMission:        c.CreateReleaseMissionCommandHandler(),
		ConfirmPickup:         c.CreateConfirmPickupCommandHandler(),
		ConfirmDelivery:       c.CreateConfirmDeliveryCommandHandler(),
		UpdateMissionLocation: c.CreateUpdateMissionLocationCommandHandler(),
		ReassignMission:       c.CreateReassignMissionCommandHandler(),
		CreateCourier:         c.CreateCreateCourierCommandHandler(),
		UpdateCourierPosition: c.CreateUpdateCourierPositionCommandHandler(),
		RegisterRelay:         c.CreateRegisterRelayCommandHandler(),
		SetRelayActive:        c.CreateSetRelayActiveCommandHandler(),
		RequestPayout:         c.CreateRequestPayoutCommandHandler(),
		UpsertPricing:         c.CreateUpsertPricingCommandHandler(),

		QuoteParcel:           c.CreateQuoteParcelQueryHandler(),
		GetParcel:             c.CreateGetParcelQueryHandler(),
		GetParcelTimeline:     c.CreateGetParcelTimelineQueryHandler(),
		ListAvailableMissions: c.CreateListAvailableMissionsQueryHandler(),
		ListCourierMissions:   c.CreateListCourierMissionsQueryHandler(),
		GetMissionTrail:       c.CreateGetMissionTrailQueryHandler(),
		Wallets:               c.CreateWalletQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateAdvanceOfferCommandHandler(),
		c.CreateReleaseStuckMissionsCommandHandler(),
		c.offers,
		c.clock,
		jobs.Schedules{
			OfferCascade:   c.cfg.OfferCascadeSchedule,
			Reconciliation: c.cfg.ReconciliationSchedule,
		},
		c.logger,
	)
}

// CreateNotificationWorker returns the asynq server and the mux it runs.
// Messages go to the structured log until a real gateway is plugged in.
func (c *CompositionRoot) CreateNotificationWorker(redisOpt asynq.RedisConnOpt) (*asynq.Server, *asynq.ServeMux) {
	mux := asynq.NewServeMux()
	notify.NewWorker(notify.NewLogTransport(c.logger), c.logger).Register(mux)
	return notify.NewServer(redisOpt, c.cfg.NotifyQueue, c.cfg.NotifyConcurrency, c.logger), mux
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncRelayUoWFactory func() commands.RelayUoW

func (f FuncRelayUoWFactory) Create() commands.RelayUoW {
	return f()
}

type FuncPricingUoWFactory func() commands.PricingUoW

func (f FuncPricingUoWFactory) Create() commands.PricingUoW {
	return f()
}

type FuncWalletUoWFactory func() commands.WalletUoW

func (f FuncWalletUoWFactory) Create() commands.WalletUoW {
	return f()
}
