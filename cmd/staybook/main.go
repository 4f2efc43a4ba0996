package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"staybook/internal/app/commands"
	availabilityapp "staybook/internal/app/handlers/availability"
	listingapp "staybook/internal/app/handlers/listings"
	reservationapp "staybook/internal/app/handlers/reservations"
	"staybook/internal/app/policies"
	"staybook/internal/app/queries"
	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
	"staybook/internal/infra/broker/kafka"
	"staybook/internal/infra/cache/redis"
	"staybook/internal/infra/config"
	mongodb "staybook/internal/infra/db/mongo"
	ginserver "staybook/internal/infra/http/gin"
	"staybook/internal/infra/obs"
	"staybook/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, os.Getenv("LOG_LEVEL"))

	deps, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("wiring failed", "error", err)
		os.Exit(1)
	}
	defer deps.close(logger)

	handlers := buildHandlers(cfg, deps, logger)
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: deps.ready}, handlers)

	if cfg.Store == "memory" {
		path := os.Getenv("LISTINGS_FIXTURES")
		if path != "" {
			if err := loadListingFixtures(ctx, path, deps.listings); err != nil {
				logger.Warn("listing fixtures load failed", "error", err, "path", path)
			}
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "store", cfg.Store)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type dependencies struct {
	listings     listing.Repository
	reservations reservation.Repository
	cache        policies.ListingCachePort
	events       *kafka.Producer
	ready        func() error
}

func (d *dependencies) close(logger *slog.Logger) {
	if d.events != nil {
		if err := d.events.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
}

func buildDependencies(ctx context.Context, cfg config.Config, logger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	switch cfg.Store {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		deps.listings = mongodb.NewListingRepository(client.DB)
		deps.reservations = mongodb.NewReservationRepository(client.DB)
		deps.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
	default:
		listings := memory.NewListingRepository()
		reservations := memory.NewReservationRepository()
		listings.CascadeTo(reservations)
		deps.listings = listings
		deps.reservations = reservations
	}

	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, using in-process cache", "error", err)
			deps.cache = memory.NewListingCache()
		} else {
			deps.cache = redis.NewListingCache(client)
		}
	} else {
		deps.cache = memory.NewListingCache()
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopicPrefix, nil)
		if err != nil {
			logger.Warn("kafka unreachable, events disabled", "error", err)
		} else {
			deps.events = producer
		}
	}
	return deps, nil
}

func buildHandlers(cfg config.Config, deps *dependencies, logger *slog.Logger) ginserver.Handlers {
	clock := reservation.Clock(time.Now)

	commandBus := commands.NewInMemoryBus()
	commitHandler := &reservationapp.CommitReservationHandler{
		Listings:     deps.listings,
		Reservations: deps.reservations,
		Cache:        deps.cache,
		Clock:        clock,
		Logger:       logger,
	}
	if deps.events != nil {
		commitHandler.Events = deps.events
	}
	commands.Register(commandBus, reservationapp.CommitReservationCommand{}.Key(), commitHandler)

	queryBus := queries.NewInMemoryBus()
	queries.Register(queryBus, availabilityapp.SearchAvailableQuery{}.Key(), &availabilityapp.SearchAvailableHandler{
		Listings:     deps.listings,
		Reservations: deps.reservations,
		Clock:        clock,
	})
	queries.Register(queryBus, listingapp.ListListingsQuery{}.Key(), &listingapp.ListListingsHandler{
		Listings: deps.listings,
		PageSize: cfg.PageSize,
	})
	queries.Register(queryBus, listingapp.ListingDetailQuery{}.Key(), &listingapp.ListingDetailHandler{
		Listings:     deps.listings,
		Reservations: deps.reservations,
		Cache:        deps.cache,
		Logger:       logger,
		PageSize:     cfg.PageSize,
	})

	return ginserver.Handlers{
		Listing:      ginserver.ListingHandler{Queries: queryBus},
		Availability: ginserver.AvailabilityHandler{Queries: queryBus},
		Reservation:  ginserver.ReservationHandler{Commands: commandBus},
	}
}

type listingFixture struct {
	OwnerID     int64  `json:"owner"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

func loadListingFixtures(ctx context.Context, path string, repo listing.Repository) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return err
	}
	for _, f := range fixtures {
		l, err := listing.New(f.OwnerID, f.Name, f.Address, f.Description)
		if err != nil {
			return err
		}
		if err := repo.Save(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
