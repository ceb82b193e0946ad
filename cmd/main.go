package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"gitlab.com/gav-2025.net/internal/adapter/docker"
	"gitlab.com/gav-2025.net/internal/adapter/logging"
	"gitlab.com/gav-2025.net/internal/adapter/postgres/resultcache"
	"gitlab.com/gav-2025.net/internal/adapter/postgres/submissionrepo"
	"gitlab.com/gav-2025.net/internal/adapter/postgres/testcaserepo"
	"gitlab.com/gav-2025.net/internal/adapter/redis/gradelock"
	"gitlab.com/gav-2025.net/internal/adapter/toolchain"
	"gitlab.com/gav-2025.net/internal/config"
	"gitlab.com/gav-2025.net/internal/core/services/grader"
	"gitlab.com/gav-2025.net/internal/core/services/submission"
	"gitlab.com/gav-2025.net/internal/core/services/testcase"
	http2 "gitlab.com/gav-2025.net/internal/http"
)

func main() {
	// .env is optional outside development.
	_ = godotenv.Load()

	sysCfg := config.NewSystemConfig()

	logger := logging.NewZapLogger()
	if sysCfg.DebugMode {
		logger = logging.NewDevelopmentLogger()
	}
	defer logger.Sync()

	logger.Info("Starting autograder service")

	db, err := setupDatabase(sysCfg.PostgresConfig)
	if err != nil {
		logger.Error("Failed to set up database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     sysCfg.RedisConfig.Url,
		Password: sysCfg.RedisConfig.Password,
		DB:       sysCfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	// The engine client is owned here and injected into the pipeline;
	// no stage reaches for ambient engine state.
	engine, err := docker.NewEngine(sysCfg.DockerConfig, logger)
	if err != nil {
		logger.Error("Failed to create sandbox engine client", "error", err)
		os.Exit(1)
	}
	if err := engine.Ping(context.Background()); err != nil {
		logger.Warn("Sandbox engine not reachable at startup", "error", err)
	}

	// SECONDARY PORTS
	subRepo := submissionrepo.NewSubmissionRepository(db, logger)
	testRepo := testcaserepo.NewTestCaseRepository(db, logger)
	cache := resultcache.NewResultCacheRepository(db, logger)
	lock := gradelock.NewRedisGradeLock(redisClient, sysCfg.RedisConfig, logger)
	compiler := toolchain.NewGCCCompiler(sysCfg.GraderConfig, logger)

	// services
	graderSvc := grader.NewGraderService(sysCfg.GraderConfig, subRepo, testRepo, cache, compiler, engine, lock, logger)
	submissionSvc := submission.NewSubmissionService(subRepo, cache, graderSvc, logger)
	testCaseSvc := testcase.NewTestCaseService(testRepo, cache, logger)

	// server
	serviceProvider := http2.NewServiceProvider(submissionSvc, testCaseSvc, engine)
	httpServer := http2.NewServer(sysCfg.HTTPPort, "autograder", *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		logger.Error("Failed to initialize http server", "error", err)
		os.Exit(1)
	}
	httpServer.Start(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	httpServer.Stop(ctx)

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(cfg *config.PostgresConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.Url)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}
