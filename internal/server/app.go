// Package server initializes and runs the application server: it opens the
// relational, document and cache backends, runs migrations, wires the
// services and starts the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrijs2005/tickethub/internal/logging"
	"github.com/dmitrijs2005/tickethub/internal/server/cache"
	"github.com/dmitrijs2005/tickethub/internal/server/config"
	"github.com/dmitrijs2005/tickethub/internal/server/httpapi"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/documents"
	"github.com/dmitrijs2005/tickethub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tickethub/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	accountService *services.AccountService
	eventService   *services.EventService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("document store init error: %w", err)
	}
	collection := mongoClient.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
	docs := documents.NewMongoRepository(collection)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	c := cache.NewRedisCache(redisClient, cfg.CacheKeyPrefix)

	as := services.NewAccountService(db, rm, logger, cfg)
	es := services.NewEventService(db, rm, docs, c, logger, cfg)

	return &App{
		config:         cfg,
		logger:         logger,
		db:             db,
		mongoClient:    mongoClient,
		redisClient:    redisClient,
		accountService: as,
		eventService:   es,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger,
		app.accountService, app.eventService, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(ctx)
}

func (app *App) close(ctx context.Context) {
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	if err := app.mongoClient.Disconnect(ctx); err != nil {
		app.logger.Error(ctx, "document store close error", "error", err)
	}
	if err := app.redisClient.Close(); err != nil {
		app.logger.Error(ctx, "cache close error", "error", err)
	}
}
