package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/mo-amir99/course-server-go/pkg/config"
	"github.com/mo-amir99/course-server-go/pkg/database"
	"github.com/mo-amir99/course-server-go/pkg/database/migrations"
	"github.com/mo-amir99/course-server-go/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, logger.Options{Dir: cfg.Log.Dir})
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect skips AutoMigrate here; the script runs it explicitly below.
	dbCfg := cfg.Database
	dbCfg.RunMigrations = false

	db, err := database.Connect(context.Background(), dbCfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close(db, appLogger)

	if err := database.AutoMigrate(db, appLogger); err != nil {
		appLogger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := migrations.Run(db, appLogger); err != nil {
		appLogger.Error("Failed to apply constraints", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println("\nAll database tables created/updated successfully!")
}
