package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/taxiservice/internal/app/controllers"
	appMigrations "github.com/yigit/taxiservice/internal/app/migrations"
	appRepos "github.com/yigit/taxiservice/internal/app/repositories"
	"github.com/yigit/taxiservice/internal/app/repositories/memory"
	appRoutes "github.com/yigit/taxiservice/internal/app/routes"
	appServices "github.com/yigit/taxiservice/internal/app/services"
	"github.com/yigit/taxiservice/internal/app/views"
	"github.com/yigit/taxiservice/internal/config"
	"github.com/yigit/taxiservice/internal/db"
	appMiddleware "github.com/yigit/taxiservice/internal/middleware"
	pkgAuth "github.com/yigit/taxiservice/internal/pkg/auth"
	"github.com/yigit/taxiservice/internal/pkg/helpers"
	"github.com/yigit/taxiservice/internal/pkg/logger"
	"github.com/yigit/taxiservice/internal/pkg/websocket"
	"github.com/yigit/taxiservice/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is not set
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services               *appServices.Services
	HomeController         *appControllers.HomeController
	AuthController         *appControllers.AuthController
	ManufacturerController *appControllers.ManufacturerController
	CarController          *appControllers.CarController
	DriverController       *appControllers.DriverController
	HealthController       *appControllers.HealthController
	Hub                    *websocket.Hub
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	Logger                 zerolog.Logger
}

// ConfigPath returns the configuration file to load
func ConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return DefaultConfigPath
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// RunMigrations applies every pending schema migration
func RunMigrations(cfg *config.Config, lgr zerolog.Logger) error {
	migrator, err := appMigrations.NewMigrator(cfg.GetMigrationURL(), lgr)
	if err != nil {
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			lgr.Warn().Err(err).Msg("Failed to close migrator")
		}
	}()

	return migrator.Up()
}

// SetupDatabase establishes the database connection and, when enabled, runs migrations.
// It returns nil for the in-memory driver.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		lgr.Warn().Msg("Using in-memory storage, data is lost on shutdown")
		return nil, nil
	}

	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	if cfg.Database.AutoMigrate {
		lgr.Info().Msg("Running database migrations...")
		if err := RunMigrations(cfg, lgr); err != nil {
			lgr.Error().Err(err).Msg("Database migration error")
			database.Close()
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")
	}

	return database, nil
}

// NewRepositories picks the storage backend. A nil database selects in-memory repositories.
func NewRepositories(database *db.PostgresDB) *appRepos.Repositories {
	if database == nil {
		return memory.NewRepositories()
	}
	return appRepos.NewRepositories(database)
}

// NewJWTService builds the session token service from the session settings
func NewJWTService(cfg *config.Config) *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		SessionExp:  helpers.ParseDuration(cfg.Session.Lifetime, 14*24*time.Hour),
		TokenIssuer: cfg.Session.Issuer,
	})
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, ping appControllers.PingFunc, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: repos}

	deps.Services = appServices.NewServices(repos, cfg.Pagination.PageSize)
	deps.JWTService = NewJWTService(cfg)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Services.Auth, appMiddleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	})

	deps.HomeController = appControllers.NewHomeController(deps.Services.Home, deps.AuthMiddleware)
	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth, deps.AuthMiddleware, lgr)
	deps.ManufacturerController = appControllers.NewManufacturerController(deps.Services.Manufacturers)
	// the hub delivers nothing until its owner calls Run
	deps.Hub = websocket.NewHub(lgr)
	deps.Services.Cars.SetPublisher(deps.Hub)
	deps.CarController = appControllers.NewCarController(deps.Services.Cars, websocket.NewHandler(deps.Hub, lgr))
	deps.DriverController = appControllers.NewDriverController(deps.Services.Drivers)
	deps.HealthController = appControllers.NewHealthController(ping)

	if err := seed.CreateDefaultData(context.Background(), cfg, deps.Services.Drivers, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data")
		return nil, err
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), appMiddleware.Metrics())

	tmpl, err := views.Load()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupRouter(router,
		deps.HomeController,
		deps.AuthController,
		deps.ManufacturerController,
		deps.CarController,
		deps.DriverController,
		deps.HealthController,
		deps.AuthMiddleware,
	)

	return router, nil
}
