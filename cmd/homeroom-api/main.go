package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/dayoon-dev/homeroom-api/internal/handler"
	"github.com/dayoon-dev/homeroom-api/internal/middleware"
	"github.com/dayoon-dev/homeroom-api/internal/repository"
	"github.com/dayoon-dev/homeroom-api/internal/service"
	"github.com/dayoon-dev/homeroom-api/internal/storage"
	"github.com/dayoon-dev/homeroom-api/internal/templates"
	"github.com/dayoon-dev/homeroom-api/pkg/config"
	"github.com/dayoon-dev/homeroom-api/pkg/database"
	"github.com/dayoon-dev/homeroom-api/pkg/logger"
	corsmiddleware "github.com/dayoon-dev/homeroom-api/pkg/middleware/cors"
	reqidmiddleware "github.com/dayoon-dev/homeroom-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewSQLite(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to open database", "path", cfg.Database.Path, "error", err)
	}
	defer db.Close() //nolint:errcheck

	// The store handle is opened once here and shared for the process
	// lifetime; repositories receive it by injection.
	store, err := storage.Open(db, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialize storage", "error", err)
	}

	classRepo := repository.NewClassRepository(store)
	studentRepo := repository.NewStudentRepository(store)
	profileRepo := repository.NewPrintProfileRepository(store)
	settingsRepo := repository.NewSettingsRepository(store)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	autosave := service.NewAutosaveBuffer(studentRepo, cfg.Autosave.Debounce, logr)
	defer func() {
		if err := autosave.Flush(context.Background()); err != nil {
			logr.Sugar().Warnw("final autosave flush failed", "error", err)
		}
		autosave.Stop()
	}()

	registry := templates.NewRegistry(cfg.Print.FontPath)

	classSvc := service.NewClassService(classRepo, studentRepo, settingsRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, classRepo, autosave, validate, logr)
	printSvc := service.NewPrintService(registry, profileRepo, studentRepo, classRepo, settingsRepo, validate, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	handler.Register(r, cfg.APIPrefix, handler.Handlers{
		Classes:  handler.NewClassHandler(classSvc),
		Students: handler.NewStudentHandler(studentSvc),
		Print:    handler.NewPrintHandler(printSvc, metricsSvc),
		Settings: handler.NewSettingsHandler(settingsRepo),
		Metrics:  metricsSvc,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "db", cfg.Database.Path)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
