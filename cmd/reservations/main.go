package main

import (
	"fleetbook/internal/availability"
	customersrepo "fleetbook/internal/customers/repository"
	customersservice "fleetbook/internal/customers/service"
	reservationshandler "fleetbook/internal/reservations/handler"
	reservationsrepo "fleetbook/internal/reservations/repository"
	reservationsservice "fleetbook/internal/reservations/service"
	"fleetbook/internal/reservations/validator"
	vehicleshandler "fleetbook/internal/vehicles/handler"
	vehiclesrepo "fleetbook/internal/vehicles/repository"
	vehiclesservice "fleetbook/internal/vehicles/service"
	"fleetbook/pkg/app"
	"fleetbook/pkg/cache"
	"fleetbook/pkg/config"
	"fleetbook/pkg/contracts"
	"fleetbook/pkg/kafka"
	kafkaconfig "fleetbook/pkg/kafka/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}

	cfg.LogConfiguration()
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")
	reservationHandler, vehicleHandler := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		contracts.Handlers{reservationHandler, vehicleHandler},
		reservationshandler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) (*reservationshandler.ReservationHandler, *vehicleshandler.VehicleHandler) {
	vehicleRepo := vehiclesrepo.NewMongoVehicleRepository(cfg)
	vehicleService := vehiclesservice.NewVehicleService(vehicleRepo, cfg)
	statusSync := vehiclesservice.NewStatusSynchronizer(vehicleRepo, cfg)

	customerRepo := customersrepo.NewMongoCustomerRepository(cfg)
	identityCache := cache.NewTTLStore(cfg.IdentityCacheTTL)
	identities := customersservice.NewIdentityResolver(customerRepo, identityCache, cfg)

	reservationRepo := reservationsrepo.NewMongoReservationRepository(cfg)
	lockRepo := reservationsrepo.NewVehicleLockRepository(cfg)
	oracle := availability.NewOracle(vehicleRepo, reservationRepo, cfg)
	reservationValidator := validator.NewReservationValidator(cfg.Log)

	var approvals reservationsservice.ApprovalPublisher
	if cfg.ApprovalEventsEnabled {
		producer, err := kafka.NewProducer(kafkaconfig.Load(), cfg.ApprovalTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize approval event producer", "error", err)
		}
		approvals = producer
	}

	reservationService := reservationsservice.NewReservationService(
		reservationRepo,
		lockRepo,
		oracle,
		identities,
		statusSync,
		reservationValidator,
		approvals,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationshandler.NewReservationHandler(reservationService, oracle, cfg.Log),
		vehicleshandler.NewVehicleHandler(vehicleService, cfg.Log)
}
