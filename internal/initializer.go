// Package internal boots the server.
package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"bookstore-server/internal/config"
	"bookstore-server/internal/managers"
	"bookstore-server/internal/routing"
)

const envFile = ".env"

func Init() {
	if err := godotenv.Load(envFile); err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}
	setLogLevel(cfg.LogLevel)

	// Connect to database
	pool := initializeDatabase(cfg.Database)
	defer pool.Close()

	databaseMgr := managers.NewDatabaseManager(pool)

	// Connect to redis for sessions and baskets
	redisClient, err := managers.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		log.Fatal("Error connecting to redis: ", err)
	}
	defer redisClient.Close()

	sessionMgr := managers.NewSessionManager(redisClient, time.Duration(cfg.Auth.SessionTTLHours)*time.Hour)
	basketMgr := managers.NewBasketManager(redisClient)
	mailMgr := managers.NewMailManager(cfg.Mail, cfg.Environment)

	jwtMgr, err := managers.NewJWTManagerFromFile(cfg.Auth.KeyPairPath)
	if err != nil {
		log.Fatal("Error loading signing keys: ", err)
	}

	r := routing.InitRouter(cfg, routing.Managers{
		DatabaseMgr: databaseMgr,
		JWTMgr:      jwtMgr,
		MailMgr:     mailMgr,
		SessionMgr:  sessionMgr,
		BasketMgr:   basketMgr,
	})
	log.Info("Initialized router")

	// Handle interrupt signal gracefully
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)

		<-c
		log.Println("Server shutting down...")
		os.Exit(0)
	}()

	log.Printf("Starting server on port %s...\n", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Error starting server: ", err)
	}
}

func initializeDatabase(cfg config.DatabaseConfig) *pgxpool.Pool {
	log.Info("Initializing database")

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		log.Fatal("error configuring database: ", err)
	}

	poolConfig.MinConns = 5
	poolConfig.MaxConns = 30
	poolConfig.MaxConnIdleTime = time.Minute * 2
	poolConfig.HealthCheckPeriod = time.Minute * 1

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Fatal("error connecting to database: ", err)
	}
	log.Info("Connected to database")
	return pool
}

func setLogLevel(logLevel string) {
	switch logLevel {
	case "DEBUG":
		log.SetLevel(log.DebugLevel)
	case "INFO":
		log.SetLevel(log.InfoLevel)
	case "WARN":
		log.SetLevel(log.WarnLevel)
	case "ERROR":
		log.SetLevel(log.ErrorLevel)
	case "FATAL":
		log.SetLevel(log.FatalLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}

	log.SetReportCaller(true)
	log.SetOutput(os.Stdout)
}
