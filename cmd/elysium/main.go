// Package main runs the Elysium server: the chronicle gRPC service and the
// Telnet console that drives it.
package main

import (
	"context"
	"flag"
	"log"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/config"
	"github.com/cory-johannsen/elysium/internal/frontend/handlers"
	"github.com/cory-johannsen/elysium/internal/frontend/telnet"
	"github.com/cory-johannsen/elysium/internal/game/dice"
	"github.com/cory-johannsen/elysium/internal/gmserver"
	"github.com/cory-johannsen/elysium/internal/narrative"
	"github.com/cory-johannsen/elysium/internal/observability"
	"github.com/cory-johannsen/elysium/internal/server"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
	"github.com/cory-johannsen/elysium/internal/storage/redis"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	migrateOnStart := flag.Bool("migrate", true, "apply database migrations before serving")
	healthInterval := flag.Duration("health-interval", 30*time.Second, "interval between dependency health checks")
	noConsole := flag.Bool("no-console", false, "serve gRPC only, without the Telnet console")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger("elysium", cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting elysium",
		zap.String("grpc_addr", cfg.GRPC.Addr()),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Int("port", cfg.Database.Port),
		zap.String("database", cfg.Database.Name),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	if *migrateOnStart {
		if err := pool.Migrate(0); err != nil {
			logger.Fatal("migrating database", zap.Error(err))
		}
	}

	redisClient, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("connecting to redis", zap.Error(err))
	}
	logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))

	var source chronicle.CatalogSource = chronicle.FileSource{Path: cfg.Content.CatalogPath}
	if cfg.Content.Source == config.CatalogFromPostgres {
		source = postgres.NewCatalogRepository(pool.DB())
	}
	catalogs := chronicle.NewCatalogCache(source, logger)
	cat, err := catalogs.Get(ctx)
	if err != nil {
		logger.Fatal("loading catalog", zap.String("source", cfg.Content.Source), zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.String("source", cfg.Content.Source),
		zap.Int("clans", len(cat.Clans)),
		zap.Int("merits", len(cat.Merits)),
		zap.Int("flaws", len(cat.Flaws)),
	)

	providers, err := narrativeProviders(cfg.Narrative)
	if err != nil {
		logger.Fatal("configuring narrative providers", zap.Error(err))
	}
	if len(providers) == 0 {
		logger.Warn("no narrative provider configured; story generation will report failures")
	}
	generator := narrative.NewGenerator(providers, narrative.Config{
		MaxTokens:   cfg.Narrative.MaxTokens,
		Temperature: cfg.Narrative.Temperature,
		Timeout:     cfg.Narrative.Timeout,
	}, logger)

	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
	characters := postgres.NewCharacterRepository(pool.DB())
	svc := gmserver.NewChronicleService(
		catalogs,
		chronicle.NewDraftService(catalogs, redis.NewDraftStore(redisClient, cfg.Redis.DraftTTL), characters, logger),
		chronicle.NewRoster(catalogs, characters, logger),
		chronicle.NewStoryService(catalogs, characters, postgres.NewStoryRepository(pool.DB()), generator, roller, logger),
		logger,
	)
	grpcServer := gmserver.NewServer(cfg.GRPC.Addr(), svc, postgres.NewRequestLogRepository(pool.DB()), logger)

	lifecycle := server.NewLifecycle(logger)

	lifecycle.Add("stores", &server.FuncService{
		StartFn: func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
		StopFn: func(context.Context) error {
			pool.Close()
			return redisClient.Close()
		},
	})

	// The chronicle service serves only while both stores answer.
	var dbUp, cacheUp atomic.Bool
	report := func(up *atomic.Bool) func(bool) {
		return func(healthy bool) {
			up.Store(healthy)
			grpcServer.SetServing(dbUp.Load() && cacheUp.Load())
		}
	}
	lifecycle.Add("postgres-health", server.NewHealthLoop("postgres", *healthInterval,
		func(ctx context.Context) error { return pool.Health(ctx, 5*time.Second) },
		report(&dbUp), logger))
	lifecycle.Add("redis-health", server.NewHealthLoop("redis", *healthInterval,
		func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		report(&cacheUp), logger))

	lifecycle.Add("grpc", grpcServer)

	if !*noConsole {
		conn, err := grpc.NewClient(cfg.GRPC.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			logger.Fatal("dialing chronicle service", zap.Error(err))
		}
		defer conn.Close()

		console := handlers.NewConsole(
			postgres.NewAccountRepository(pool.DB()),
			gmserver.NewClient(conn),
			roller,
			logger.Named("console"),
		)
		lifecycle.Add("telnet", telnet.NewAcceptor(cfg.Telnet, console, logger))
	}

	logger.Info("elysium initialized", zap.Duration("startup", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

// narrativeProviders builds the configured providers in fallback order.
func narrativeProviders(cfg config.NarrativeConfig) ([]narrative.Provider, error) {
	providers := make([]narrative.Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		pc, _ := cfg.Provider(name)
		p, err := narrative.NewProvider(narrative.ProviderConfig{
			Name:    name,
			APIKey:  pc.APIKey,
			BaseURL: pc.BaseURL,
			Model:   pc.Model,
		})
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return providers, nil
}
