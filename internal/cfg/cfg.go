package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/futburguer-cart/pkg/e"
	"github.com/DRSN-tech/futburguer-cart/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Драйверы хранилища корзины
const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Http         *HTTPConfig
	Grpc         *GRPCConfig
	Storage      *StorageCfg
	Redis        *RedisCfg
	Db           *PGDBCfg
	Kafka        *KafkaCfg
	Minio        *MinIOCfg
	Cart         *CartCfg
	Order        *OrderCfg
	Notification *NotificationCfg
	Auth         *AuthCfg
	Session      *SessionCfg
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type GRPCConfig struct {
	Port        string
	NetworkMode string
}

type StorageCfg struct {
	Driver string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
}

type PGDBCfg struct {
	Host          string
	Port          string
	User          string
	Password      string
	DBName        string
	SSLMode       string
	MigrationsURL string
}

type KafkaCfg struct {
	Enabled           bool
	Brokers           []string
	NetworkMode       string
	CartTopic         string
	OrderTopic        string
	Partitions        int
	ReplicationFactor int
	QueueSize         int // Ёмкость очереди неотправленных событий
	MaxRetries        int
}

type MinIOCfg struct {
	Enabled           bool
	MinioEndpoint     string // Адрес конечной точки Minio
	BucketName        string // Бакет с изображениями меню
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	PresignTTL        time.Duration // Время жизни подписанной ссылки на изображение
}

type CartCfg struct {
	StorageKey      string // Базовый ключ корзины в хранилище
	DefaultImage    string
	DefaultCategory string
}

type OrderCfg struct {
	DeliveryFee   decimal.Decimal
	MessagingHost string
	Destination   string // Номер WhatsApp ресторана
	ClearOnSend   bool
	Location      *time.Location
}

type NotificationCfg struct {
	TTL time.Duration
}

type AuthCfg struct {
	JWTSecret string
	Issuer    string
}

type SessionCfg struct {
	Secret     string
	CookieName string
	MaxAge     int
	Secure     bool
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
// Перед чтением переменных окружения подхватывается .env, если он есть.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to read .env: %v", err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	storage, err := loadStorageCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var db *PGDBCfg
	if storage.Driver == StoragePostgres {
		db, err = loadPGDBCfg(log)
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	order, err := loadOrderCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	notification, err := loadNotificationCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	session, err := loadSessionCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		Http:         http,
		Grpc:         loadGRPCConfig(),
		Storage:      storage,
		Redis:        redis,
		Db:           db,
		Kafka:        kafka,
		Minio:        minio,
		Cart:         loadCartCfg(),
		Order:        order,
		Notification: notification,
		Auth:         loadAuthCfg(),
		Session:      session,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
	)

	port := getEnvOrDefault("HTTP_PORT", defaultPort)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:         port,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const (
		defaultPort        = "8091"
		defaultNetworkMode = "tcp"
	)

	return &GRPCConfig{
		Port:        getEnvOrDefault("GRPC_PORT", defaultPort),
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadStorageCfg() (*StorageCfg, error) {
	driver := strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", StorageRedis))
	switch driver {
	case StorageRedis, StoragePostgres, StorageMemory:
		return &StorageCfg{Driver: driver}, nil
	default:
		return nil, e.Wrap(driver, e.ErrUnknownStorageDriver)
	}
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost          = "localhost"
		defaultPort          = "5432"
		defaultSSLMode       = "disable"
		defaultMigrationsURL = "file://db/migrations"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:          getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:          getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:          user,
		Password:      password,
		DBName:        dbName,
		SSLMode:       getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsURL: getEnvOrDefault("MIGRATIONS_URL", defaultMigrationsURL),
	}, nil
}

// loadKafkaCfg: Kafka опциональна, без KAFKA_BROKERS события остаются внутри процесса.
func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultCartTopic  = "cart.updated"
		defaultOrderTopic = "order.sent"
		defaultQueueSize  = 256
		defaultMaxRetries = 5
		defaultPartitions = 3
		defaultReplicas   = 1
	)

	var brokers []string
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	queueSize, err := parseIntEnv("KAFKA_QUEUE_SIZE", defaultQueueSize)
	if err != nil {
		return nil, e.Wrap("KAFKA_QUEUE_SIZE", err)
	}

	maxRetries, err := parseIntEnv("KAFKA_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		return nil, e.Wrap("KAFKA_MAX_RETRIES", err)
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicas, err := parseIntEnv("KAFKA_REPLICATION_FACTOR", defaultReplicas)
	if err != nil {
		return nil, e.Wrap("KAFKA_REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Enabled:           len(brokers) > 0,
		Brokers:           brokers,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", "tcp"),
		CartTopic:         getEnvOrDefault("KAFKA_CART_TOPIC", defaultCartTopic),
		OrderTopic:        getEnvOrDefault("KAFKA_ORDER_TOPIC", defaultOrderTopic),
		Partitions:        partitions,
		ReplicationFactor: replicas,
		QueueSize:         queueSize,
		MaxRetries:        maxRetries,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL     = false
		defaultBucket     = "menu-images"
		defaultPresignTTL = 15 * time.Minute
	)

	useSSL, err := parseBoolEnv("MINIO_USE_SSL", defaultUseSSL)
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	presignTTL, err := parseDurationEnv("MINIO_PRESIGN_TTL", defaultPresignTTL)
	if err != nil {
		log.Errorf(err, "invalid MINIO_PRESIGN_TTL")
		return nil, err
	}

	endpoint := getEnv("MINIO_ENDPOINT")

	return &MinIOCfg{
		Enabled:           endpoint != "",
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		PresignTTL:        presignTTL,
	}, nil
}

func loadCartCfg() *CartCfg {
	const (
		defaultStorageKey = "futburguer_cart"
		defaultImage      = "assets/images/default.png"
		defaultCategory   = "outros"
	)

	return &CartCfg{
		StorageKey:      getEnvOrDefault("CART_STORAGE_KEY", defaultStorageKey),
		DefaultImage:    getEnvOrDefault("CART_DEFAULT_IMAGE", defaultImage),
		DefaultCategory: getEnvOrDefault("CART_DEFAULT_CATEGORY", defaultCategory),
	}
}

func loadOrderCfg(log logger.Logger) (*OrderCfg, error) {
	const (
		defaultDeliveryFee   = "5.00"
		defaultMessagingHost = "wa.me"
		defaultDestination   = "5581995343404"
		defaultClearOnSend   = false
		defaultTimezone      = "America/Recife"
	)

	fee, err := decimal.NewFromString(getEnvOrDefault("ORDER_DELIVERY_FEE", defaultDeliveryFee))
	if err != nil || fee.IsNegative() {
		log.Errorf(e.ErrInvalidAmount, "invalid ORDER_DELIVERY_FEE")
		return nil, e.Wrap("ORDER_DELIVERY_FEE", e.ErrInvalidAmount)
	}

	clearOnSend, err := parseBoolEnv("ORDER_CLEAR_ON_SEND", defaultClearOnSend)
	if err != nil {
		log.Errorf(err, "invalid ORDER_CLEAR_ON_SEND")
		return nil, err
	}

	tz := getEnvOrDefault("ORDER_TIMEZONE", defaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Warnf("unknown ORDER_TIMEZONE %q, falling back to local time: %v", tz, err)
		loc = time.Local
	}

	return &OrderCfg{
		DeliveryFee:   fee,
		MessagingHost: getEnvOrDefault("ORDER_MESSAGING_HOST", defaultMessagingHost),
		Destination:   getEnvOrDefault("ORDER_DESTINATION", defaultDestination),
		ClearOnSend:   clearOnSend,
		Location:      loc,
	}, nil
}

func loadNotificationCfg() (*NotificationCfg, error) {
	const defaultTTL = 3 * time.Second

	ttl, err := parseDurationEnv("NOTIFICATION_TTL", defaultTTL)
	if err != nil {
		return nil, e.Wrap("NOTIFICATION_TTL", err)
	}

	return &NotificationCfg{TTL: ttl}, nil
}

func loadAuthCfg() *AuthCfg {
	return &AuthCfg{
		JWTSecret: getEnv("AUTH_JWT_SECRET"),
		Issuer:    getEnv("AUTH_ISSUER"),
	}
}

func loadSessionCfg(log logger.Logger) (*SessionCfg, error) {
	const (
		defaultCookieName = "futburguer_session"
		defaultMaxAge     = 90 * 24 * 60 * 60
		defaultSecure     = false
	)

	secret := getEnv("SESSION_SECRET")
	if secret == "" {
		log.Warnf("SESSION_SECRET is not set, using an insecure development secret")
		secret = "futburguer-dev-session-secret"
	}

	maxAge, err := parseIntEnv("SESSION_MAX_AGE", defaultMaxAge)
	if err != nil {
		log.Errorf(err, "invalid SESSION_MAX_AGE")
		return nil, err
	}

	secure, err := parseBoolEnv("SESSION_SECURE", defaultSecure)
	if err != nil {
		log.Errorf(err, "invalid SESSION_SECURE")
		return nil, err
	}

	return &SessionCfg{
		Secret:     secret,
		CookieName: getEnvOrDefault("SESSION_COOKIE_NAME", defaultCookieName),
		MaxAge:     maxAge,
		Secure:     secure,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	boolValue, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue, e.Wrap(key, e.ErrIncorrectEnvVariable)
	}

	return boolValue, nil
}
