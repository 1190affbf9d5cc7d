package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mo-amir99/course-server-go/internal/features/user"
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

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close(db, appLogger)

	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Full Name: ")
	fullName, _ := reader.ReadString('\n')
	fullName = strings.TrimSpace(fullName)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password (min 8 chars): ")
	password, _ := reader.ReadString('\n')
	password = strings.TrimSpace(password)

	if fullName == "" || email == "" || len(password) < 8 {
		fmt.Println("Error: full name, email and password (min 8 chars) are required")
		os.Exit(1)
	}

	users := user.NewService(user.NewGormStore(db), appLogger)
	created, err := users.EnsureAdmin(ctx, email, password, fullName)
	if err != nil {
		appLogger.Error("Failed to create admin", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !created {
		fmt.Println("Error: a user with this email already exists")
		os.Exit(1)
	}

	fmt.Println("\nAdmin created successfully!")
	fmt.Printf("   Email: %s\n", user.NormalizeEmail(email))
}
