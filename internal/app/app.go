package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/futburguer-cart/internal/cfg"
	v1Grpc "github.com/DRSN-tech/futburguer-cart/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/futburguer-cart/internal/delivery/v1/http"
	"github.com/DRSN-tech/futburguer-cart/internal/delivery/v1/ws"
	"github.com/DRSN-tech/futburguer-cart/internal/domain"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/auth"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/events"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/kafka"
	"github.com/DRSN-tech/futburguer-cart/internal/infrastructure/notify"
	"github.com/DRSN-tech/futburguer-cart/internal/repository/memory"
	minioRepo "github.com/DRSN-tech/futburguer-cart/internal/repository/minio"
	"github.com/DRSN-tech/futburguer-cart/internal/repository/pgdb"
	"github.com/DRSN-tech/futburguer-cart/internal/repository/redis"
	"github.com/DRSN-tech/futburguer-cart/internal/usecase"
	"github.com/DRSN-tech/futburguer-cart/pkg/clients"
	"github.com/DRSN-tech/futburguer-cart/pkg/closer"
	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/DRSN-tech/futburguer-cart/pkg/metrics"
	"github.com/DRSN-tech/futburguer-cart/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout    = 10 * time.Second
	ensureTopicTimeout = 10 * time.Second
)

// App связывает хранилище, шины событий и транспорты корзины.
type App struct {
	cfg      *config.Config
	logger   logger.Logger
	closer   *closer.Closer
	httpSrv  *v1Http.Server
	grpcSrv  *v1Grpc.GRPCServer
	producer *kafka.Producer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}

	storage, err := a.initStorage()
	if err != nil {
		a.closeOnError()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	assets, err := a.initAssets()
	if err != nil {
		a.closeOnError()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	m := metrics.New()
	cartBus := events.NewBus[domain.CartChanged]()
	orderBus := events.NewBus[domain.OrderSent]()
	noticeBus := events.NewBus[domain.Notification]()

	center := notify.NewCenter(cfg.Notification.TTL, noticeBus)
	a.closer.Add("notifications", center.Close)

	jwtAuth := auth.NewJWTAuth(cfg.Auth)
	if !jwtAuth.Enabled() {
		log.Infof("AUTH_JWT_SECRET is not set, all customers are anonymous")
	}

	cartUC := usecase.NewCartUC(storage, events.NewCartPublisher(cartBus), center, assets, cfg.Cart, log)
	orderUC := usecase.NewOrderUC(cartUC, jwtAuth, center, events.NewOrderPublisher(orderBus), cfg.Order, log, nil)

	hub := ws.NewHub(cartUC, center, log)
	a.closer.Add("websocket hub", hub.Close)

	cartBus.Subscribe(hub.HandleCartChanged)
	cartBus.Subscribe(events.LogCartChanges(log))
	cartBus.Subscribe(events.CountCartChanges(m))
	noticeBus.Subscribe(hub.HandleNotification)
	orderBus.Subscribe(events.CountOrders(m))

	if cfg.Kafka.Enabled {
		a.producer = kafka.NewProducer(log, cfg.Kafka)
		if err := a.producer.EnsureTopics(ensureTopicTimeout); err != nil {
			log.Warnf("failed to ensure kafka topics: %v", err)
		}

		cartBus.Subscribe(a.producer.PublishCartChanged)
		orderBus.Subscribe(a.producer.PublishOrderSent)
		a.closer.Add("kafka producer", a.producer.Close)
	}

	r := chi.NewRouter()
	sessions := v1Http.NewSessions(cfg.Session, log)
	router := v1Http.NewRouter(r, log, m, sessions, jwtAuth)
	router.Init(cartUC, orderUC, center, hub)

	a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, jwtAuth, log)
	a.grpcSrv.RegisterServices(cartUC, orderUC)
	a.closer.Add("grpc server", a.grpcSrv.Stop)

	a.httpSrv = v1Http.NewServer(r, cfg.Http, log)
	a.closer.Add("http server", a.httpSrv.Stop)

	return a, nil
}

// Run запускает серверы и блокируется до сигнала остановки или фатальной ошибки
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.producer != nil {
		a.producer.Start(ctx)
	}

	grpcErrCh := make(chan error, 1)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			grpcErrCh <- err
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		if err := a.httpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case appErr = <-grpcErrCh:
		a.logger.Errorf(appErr, "gRPC server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

// initStorage выбирает драйвер хранилища по STORAGE_DRIVER
func (a *App) initStorage() (usecase.CartStorage, error) {
	switch a.cfg.Storage.Driver {
	case config.StorageMemory:
		a.logger.Warnf("memory cart storage selected, carts are lost on restart")
		return memory.NewCartStorage(), nil
	case config.StoragePostgres:
		db, err := initPGDB(a.logger, a.cfg)
		if err != nil {
			return nil, err
		}
		a.closer.Add("postgres", db.Close)

		return pgdb.NewCartStorage(db.Pool, a.logger), nil
	case config.StorageRedis:
		redisClient := clients.NewRedisClient(a.cfg.Redis)
		a.closer.Add("redis", redisClient.Close)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx); err != nil {
			a.logger.Errorf(err, "failed to connect to redis")
			return nil, err
		}

		return redis.NewCartStorage(redisClient, a.logger), nil
	default:
		return nil, e.Wrap(a.cfg.Storage.Driver, e.ErrUnknownStorageDriver)
	}
}

// initAssets подключает MinIO для подписанных ссылок на изображения, если он настроен
func (a *App) initAssets() (usecase.AssetResolver, error) {
	if !a.cfg.Minio.Enabled {
		return minioRepo.StaticResolver{}, nil
	}

	client, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := clients.EnsureBucket(ctx, client, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return nil, err
	}

	return minioRepo.NewAssetResolver(client, a.cfg.Minio, a.logger), nil
}

func (a *App) closeOnError() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(ctx); err != nil {
		a.logger.Warnf("cleanup after failed start: %v", err)
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close(context.Background())
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close(context.Background())
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
