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
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/ankitkhetariya/crm-real-estate/docs"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/analytics"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/auth"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/hierarchy"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/usecase"
	"github.com/ankitkhetariya/crm-real-estate/internal/application/visibility"
	"github.com/ankitkhetariya/crm-real-estate/internal/domain/repository"
	"github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/memory"
	infrapdf "github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/pdf"
	"github.com/ankitkhetariya/crm-real-estate/internal/infrastructure/postgres"
	httpRouter "github.com/ankitkhetariya/crm-real-estate/internal/interfaces/http"
	"github.com/ankitkhetariya/crm-real-estate/pkg/config"
	"github.com/ankitkhetariya/crm-real-estate/pkg/logger"
)

// stores repositorios del backend elegido más su unidad de trabajo.
type stores struct {
	users      repository.UserRepository
	records    repository.RecordRepository
	leads      repository.LeadRepository
	properties repository.PropertyRepository
	tasks      repository.TaskRepository
	tx         hierarchy.TxRunner
	close      func()
}

// @title						Real-Estate CRM API
// @version					1.0
// @description				Jerarquía manager/agente, alcance de visibilidad y rollups financieros.
// @BasePath					/
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	resolver := visibility.NewResolver(st.users)
	hierarchyMgr := hierarchy.NewManager(st.tx, log)
	reconciler := hierarchy.NewReconciler(st.tx, log)
	dashboardUC := analytics.NewDashboardUseCase(st.users, st.records, resolver, cfg.Dashboard.TopAgents)
	reportUC := analytics.NewReportUseCase(dashboardUC, infrapdf.NewMarotoReportGenerator())
	leadUC := usecase.NewLeadUseCase(st.leads, resolver)
	propertyUC := usecase.NewPropertyUseCase(st.properties, resolver)
	taskUC := usecase.NewTaskUseCase(st.tasks, st.leads, st.properties, resolver)
	authUC := auth.NewAuthUseCase(st.users, hierarchyMgr, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	if cfg.Bootstrap.AdminEmail != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword, cfg.Bootstrap.AdminName)
		if err != nil {
			log.Fatal().Err(err).Msg("crear admin inicial")
		}
		if created {
			log.Info().Str("email", cfg.Bootstrap.AdminEmail).Msg("admin inicial creado")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: true,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Real-Estate CRM API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Hierarchy:  hierarchyMgr,
		Reconciler: reconciler,
		Dashboard:  dashboardUC,
		Report:     reportUC,
		LeadUC:     leadUC,
		PropertyUC: propertyUC,
		TaskUC:     taskUC,
		Users:      st.users,
		JWTSecret:  cfg.JWT.Secret,
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

// openStores conecta el backend de STORE_DRIVER. Con postgres aplica migraciones si DB_AUTO_MIGRATE.
func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("store en memoria: sin transacciones ni persistencia")
		s := memory.NewStore()
		return &stores{
			users:      s.Users(),
			records:    s.Records(),
			leads:      s.Leads(),
			properties: s.Properties(),
			tasks:      s.Tasks(),
			tx:         memory.NewTxRunner(s),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, "up"); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return &stores{
		users:      postgres.NewUserRepository(pool),
		records:    postgres.NewRecordRepository(pool),
		leads:      postgres.NewLeadRepository(pool),
		properties: postgres.NewPropertyRepository(pool),
		tasks:      postgres.NewTaskRepository(pool),
		tx:         postgres.NewTxRunner(pool),
		close:      pool.Close,
	}, nil
}
