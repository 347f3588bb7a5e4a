package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/stockpro/internal/application/analytics"
	"github.com/jhoicas/stockpro/internal/application/auth"
	"github.com/jhoicas/stockpro/internal/application/inventory"
	"github.com/jhoicas/stockpro/internal/application/ports"
	"github.com/jhoicas/stockpro/internal/application/retry"
	"github.com/jhoicas/stockpro/internal/application/sales"
	"github.com/jhoicas/stockpro/internal/application/usecase"
	"github.com/jhoicas/stockpro/internal/domain/repository"
	"github.com/jhoicas/stockpro/internal/infrastructure/cache"
	"github.com/jhoicas/stockpro/internal/infrastructure/events"
	"github.com/jhoicas/stockpro/internal/infrastructure/memory"
	"github.com/jhoicas/stockpro/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stockpro/internal/infrastructure/pdf"
	"github.com/jhoicas/stockpro/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stockpro/internal/interfaces/http"
	"github.com/jhoicas/stockpro/pkg/config"
	"github.com/jhoicas/stockpro/pkg/logger"
)

// repos repositorios del driver de almacenamiento elegido.
type repos struct {
	tx           repository.TxRunner
	companies    repository.CompanyRepository
	users        repository.UserRepository
	categories   repository.CategoryRepository
	suppliers    repository.SupplierRepository
	clients      repository.ClientRepository
	pointsOfSale repository.PointOfSaleRepository
	products     repository.ProductRepository
	movements    repository.StockMovementRepository
	sales        repository.SaleRepository
	dashboard    repository.DashboardRepository
	close        func()
}

func openRepos(ctx context.Context, cfg *config.Config, log *logger.Logger) (*repos, error) {
	if cfg.App.Storage == config.StorageMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &repos{
			tx:           s,
			companies:    s.Companies(),
			users:        s.Users(),
			categories:   s.Categories(),
			suppliers:    s.Suppliers(),
			clients:      s.Clients(),
			pointsOfSale: s.PointsOfSale(),
			products:     s.Products(),
			movements:    s.Movements(),
			sales:        s.Sales(),
			dashboard:    s.Dashboard(),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
	}
	return &repos{
		tx:           postgres.NewTxRunner(pool, cfg.DB.LockTimeout),
		companies:    postgres.NewCompanyRepository(pool),
		users:        postgres.NewUserRepository(pool),
		categories:   postgres.NewCategoryRepository(pool),
		suppliers:    postgres.NewSupplierRepository(pool),
		clients:      postgres.NewClientRepository(pool),
		pointsOfSale: postgres.NewPointOfSaleRepository(pool),
		products:     postgres.NewProductRepository(pool),
		movements:    postgres.NewStockMovementRepository(pool),
		sales:        postgres.NewSaleRepository(pool),
		dashboard:    postgres.NewDashboardRepository(pool),
		close:        pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()
	r, err := openRepos(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer r.close()

	// Caché del dashboard: opcional, sin Redis se calcula en cada consulta.
	var dashCache ports.Cache = ports.NopCache{}
	if cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.App.Name + ":",
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, dashboard sin caché")
		} else {
			defer rc.Close()
			dashCache = rc
		}
	}

	var publisher ports.EventPublisher = ports.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(events.Options{
			Brokers:     cfg.Kafka.Brokers,
			TopicPrefix: cfg.Kafka.TopicPrefix,
			ClientID:    cfg.Kafka.ClientID,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Kafka")
		}
		defer kp.Close()
		publisher = kp
	}

	var (
		appMetrics ports.Metrics = ports.NopMetrics{}
		prom       *metrics.Prometheus
	)
	if cfg.Metrics.Enabled {
		prom = metrics.New()
		appMetrics = prom
	}

	retryPolicy := retry.Policy{MaxRetries: cfg.Sales.MaxRetries, Backoff: cfg.Sales.RetryBackoff}
	salesCfg := sales.Config{
		NumberPrefix: cfg.Sales.NumberPrefix,
		NumberWidth:  cfg.Sales.NumberWidth,
		TxTimeout:    cfg.Sales.TxTimeout,
		Retry:        retryPolicy,
	}

	authUC := auth.NewAuthUseCase(r.users, r.companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(r.tx, r.products, dashCache, log)
	inventoryUC := inventory.NewUseCase(r.tx, r.products, r.movements, publisher, dashCache, appMetrics, log, inventory.Config{
		TxTimeout: cfg.Sales.TxTimeout,
		Retry:     retryPolicy,
	})
	createSaleUC := sales.NewCreateSaleUseCase(r.tx, publisher, dashCache, appMetrics, log, salesCfg)
	cancelSaleUC := sales.NewCancelSaleUseCase(r.tx, publisher, dashCache, appMetrics, log, salesCfg)
	// Recibo PDF de la venta
	saleQueryUC := sales.NewQueryUseCase(r.sales, r.clients, r.companies, infrapdf.NewReceiptRenderer())
	dashboardUC := appanalytics.NewDashboardUseCase(r.dashboard, r.products, r.sales, r.movements, dashCache, cfg.Redis.TTL, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	if prom != nil {
		app.Use(prom.Middleware())
	}
	app.Use(httpRouter.AccessLog(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "StockPro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})
	if prom != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(prom.Registry(), promhttp.HandlerOpts{})))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CompanyUC:     usecase.NewCompanyUseCase(r.companies),
		UserUC:        usecase.NewUserUseCase(r.users, r.sales),
		CategoryUC:    usecase.NewCategoryUseCase(r.tx, r.categories),
		SupplierUC:    usecase.NewSupplierUseCase(r.tx, r.suppliers),
		ClientUC:      usecase.NewClientUseCase(r.tx, r.clients),
		PointOfSaleUC: usecase.NewPointOfSaleUseCase(r.tx, r.pointsOfSale),
		ProductUC:     productUC,
		InventoryUC:   inventoryUC,
		Replenishment: inventory.NewReplenishmentUseCase(r.products),
		CreateSale:    createSaleUC,
		CancelSale:    cancelSaleUC,
		SaleQuery:     saleQueryUC,
		DashboardUC:   dashboardUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
