package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mo-amir99/course-server-go/pkg/config"
	"github.com/mo-amir99/course-server-go/pkg/database"
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

	dbCfg := cfg.Database
	dbCfg.RunMigrations = false

	db, err := database.Connect(context.Background(), dbCfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close(db, appLogger)

	fmt.Println("\nWARNING: This will DROP ALL TABLES in the database!")
	fmt.Println("   This action CANNOT be undone.")
	fmt.Print("\nType 'DROP ALL TABLES' to confirm: ")

	reader := bufio.NewReader(os.Stdin)
	confirmation, _ := reader.ReadString('\n')
	if strings.TrimSpace(confirmation) != "DROP ALL TABLES" {
		fmt.Println("\nOperation cancelled. Database unchanged.")
		os.Exit(0)
	}

	if err := database.DropAll(db); err != nil {
		appLogger.Error("Failed to drop tables", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("\nDropped %d tables.\n", len(database.Models()))
	fmt.Println("   You can now run the migrate script to recreate them.")
}
