package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"os"
	"time"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pathmint/waypoint/adapters/generation"
	"github.com/pathmint/waypoint/adapters/ledger"
	"github.com/pathmint/waypoint/adapters/queue"
	"github.com/pathmint/waypoint/adapters/registry"
	"github.com/pathmint/waypoint/adapters/store"
	"github.com/pathmint/waypoint/adapters/tokenizer"
	"github.com/pathmint/waypoint/service"
	transporthttp "github.com/pathmint/waypoint/transport/http"
	"github.com/pathmint/waypoint/transport/ws"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	listenAddr := envOr("LISTEN_ADDR", ":3000")
	redisURL := envOr("REDIS_URL", "redis://localhost:6379/0")
	ethRPCURL := envOr("ETH_RPC_URL", "http://localhost:8545")
	agentURL := envOr("AGENT_URL", "http://localhost:4000")
	ipfsAPIURL := envOr("IPFS_API_URL", "http://localhost:5001")

	var taskRetention time.Duration
	if raw := os.Getenv("TASK_RETENTION"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid TASK_RETENTION")
		}
		taskRetention = parsed
	}

	// Generate a token signing key pair (you would normally load this
	// from somewhere secure)
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to generate signing key")
	}

	ctx := context.Background()

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse Redis URL")
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	wmLogger := queue.NewLoggerAdapter(logger)

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		wmLogger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create Redis publisher")
	}

	subscriber, err := redisstream.NewSubscriber(
		redisstream.SubscriberConfig{
			Client:        redisClient,
			ConsumerGroup: "waypoint_tasks",
		},
		wmLogger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create Redis subscriber")
	}

	ethClient, err := ethclient.Dial(ethRPCURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Ethereum RPC")
	}

	sessionStore := store.NewRedisStore(redisClient)
	jwtTokenizer := tokenizer.NewJWTTokenizer(signKey)
	authService := service.NewAuthService(sessionStore, jwtTokenizer, logger)

	taskRegistry := registry.NewMemoryRegistry()
	taskRegistry.StartRetentionSweep(ctx, taskRetention)

	hub := ws.NewHub(logger)

	planner := generation.NewHTTPPlanner(agentURL)
	artifacts := generation.NewIPFSStore(ipfsAPIURL)
	generator := generation.NewService(planner, artifacts, logger)

	verifier, err := ledger.NewVerifier(ethClient, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create ledger verifier")
	}

	worker := queue.NewWorker(generator, logger)
	dispatcher := queue.NewDispatcher(taskRegistry, hub, logger)

	wmRouter, err := queue.NewRouter(
		queue.DefaultWorkerConfig(),
		subscriber,
		publisher,
		worker,
		dispatcher,
		wmLogger,
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create task router")
	}

	go func() {
		if err := wmRouter.Run(ctx); err != nil {
			logger.Fatal().Err(err).Msg("task router stopped")
		}
	}()
	<-wmRouter.Running()

	targetService := service.NewTargetService(
		taskRegistry,
		queue.NewPublisher(publisher),
		generator,
		hub,
		verifier,
		logger,
	)

	router := transporthttp.SetupRouter(authService, targetService, jwtTokenizer, hub, logger)

	logger.Info().Str("addr", listenAddr).Msg("starting server")
	if err := router.Run(listenAddr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
