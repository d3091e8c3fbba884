package config

import (
	"errors"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/Taqey/Foodo-sub000/internal/cache"
	"github.com/Taqey/Foodo-sub000/internal/domain"
	"github.com/Taqey/Foodo-sub000/internal/pkg/circuit"
	"github.com/Taqey/Foodo-sub000/internal/pkg/retry"
)

type Tables struct {
	Schema       string
	Products     string
	Addresses    string
	Orders       string
	Items        string
	CacheEntries string
}

type Kafka struct {
	Brokers           []string
	Topic             string
	Group             string
	Partitions        int
	ReplicationFactor int
}

type Postgres struct {
	Host     string
	Port     string
	DB       string
	User     string
	Password string
	SSLMode  string
}

type Breaker struct {
	Threshold   uint32
	OpenTimeout time.Duration
	MaxHalfOpen uint32
}

type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

type Cache struct {
	LocalCapacity  int
	LocalSliding   time.Duration
	LocalAbsolute  time.Duration
	Duration       time.Duration
	FailSafeMax    time.Duration
	LockTimeout    time.Duration
	RemoteTimeout  time.Duration
	RebuildTimeout time.Duration
	PurgeInterval  time.Duration
}

type Config struct {
	HTTPAddr   string
	InstanceID string
	TaxRate    string
	LogLevel   string

	Pg      Postgres
	Tables  Tables
	Kafka   Kafka
	Cache   Cache
	Breaker Breaker
	Retry   Retry
}

// Load fatals on error; main has no logger yet at this point.
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	def := cache.DefaultOptions()
	cfg := Config{
		HTTPAddr:   envDefault("HTTP_ADDR", ":8081"),
		InstanceID: envDefault("INSTANCE_ID", uuid.NewString()),
		TaxRate:    envDefault("TAX_RATE", "0.10"),
		LogLevel:   envDefault("LOG_LEVEL", "info"),

		Pg: Postgres{
			Host:     strings.TrimSpace(os.Getenv("PG_HOST")),
			Port:     envDefault("PG_PORT", "5432"),
			DB:       strings.TrimSpace(os.Getenv("PG_DB")),
			User:     strings.TrimSpace(os.Getenv("PG_USER")),
			Password: strings.TrimSpace(os.Getenv("PG_PASSWORD")),
			SSLMode:  envDefault("PG_SSLMODE", "disable"),
		},

		Tables: Tables{
			Schema:       envDefault("DB_SCHEMA", "public"),
			Products:     envDefault("TBL_PRODUCTS", "products"),
			Addresses:    envDefault("TBL_ADDRESSES", "customer_addresses"),
			Orders:       envDefault("TBL_ORDERS", "orders"),
			Items:        envDefault("TBL_ORDER_ITEMS", "order_items"),
			CacheEntries: envDefault("TBL_CACHE_ENTRIES", "cache_entries"),
		},

		Kafka: Kafka{
			Brokers:           splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:             strings.TrimSpace(os.Getenv("KAFKA_TOPIC")),
			Group:             strings.TrimSpace(os.Getenv("KAFKA_GROUP")),
			Partitions:        envInt("KAFKA_PARTITIONS", 1),
			ReplicationFactor: envInt("KAFKA_REPLICATION", 1),
		},

		Cache: Cache{
			LocalCapacity:  envInt("CACHE_LOCAL_CAP", def.LocalCapacity),
			LocalSliding:   envDurationMS("CACHE_LOCAL_SLIDING", def.LocalSliding),
			LocalAbsolute:  envDurationMS("CACHE_LOCAL_ABSOLUTE", def.LocalAbsolute),
			Duration:       envDurationMS("CACHE_DURATION", def.Duration),
			FailSafeMax:    envDurationMS("CACHE_FAILSAFE_MAX", def.FailSafeMax),
			LockTimeout:    envDurationMS("CACHE_LOCK_TIMEOUT", def.LockTimeout),
			RemoteTimeout:  envDurationMS("CACHE_REMOTE_TIMEOUT", def.RemoteTimeout),
			RebuildTimeout: envDurationMS("CACHE_REBUILD_TIMEOUT", def.RebuildTimeout),
			PurgeInterval:  envDurationMS("CACHE_PURGE_INTERVAL", 10*time.Minute),
		},

		Breaker: Breaker{
			Threshold:   envUint32("BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envUint32("BREAKER_MAXHALFOPEN", 3),
		},

		Retry: Retry{
			Attempts:     envInt("RETRY_ATTEMPTS", 5),
			Base:         envDurationMS("RETRY_BASE", 100*time.Millisecond),
			Max:          envDurationMS("RETRY_MAX", 5*time.Second),
			JitterFactor: envFloat64("RETRY_JITTERFACTOR", 0.3),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	req := []struct{ key, val string }{
		{"PG_HOST", c.Pg.Host},
		{"PG_DB", c.Pg.DB},
		{"PG_USER", c.Pg.User},
		{"PG_PASSWORD", c.Pg.Password},
		{"KAFKA_BROKERS", strings.Join(c.Kafka.Brokers, ",")},
		{"KAFKA_TOPIC", c.Kafka.Topic},
		{"KAFKA_GROUP", c.Kafka.Group},
	}
	for _, r := range req {
		if strings.TrimSpace(r.val) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return &missingEnvError{Keys: missing}
	}

	if _, err := decimal.NewFromString(c.TaxRate); err != nil {
		return errors.New("TAX_RATE must be a decimal number")
	}
	if err := c.CacheOptions().Validate(); err != nil {
		return err
	}
	if c.Retry.Max < c.Retry.Base {
		log.Printf("RETRY_MAX (%v) < RETRY_BASE (%v), max is raised to base", c.Retry.Max, c.Retry.Base)
	}
	return nil
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

// DSN builds a Postgres URL, escaping user, password and query.
func (c Config) DSN() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Pg.User, c.Pg.Password),
		Host:   net.JoinHostPort(c.Pg.Host, c.Pg.Port),
		Path:   "/" + c.Pg.DB,
	}
	q := url.Values{}
	if c.Pg.SSLMode != "" {
		q.Set("sslmode", c.Pg.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		LocalCapacity:  c.Cache.LocalCapacity,
		LocalSliding:   c.Cache.LocalSliding,
		LocalAbsolute:  c.Cache.LocalAbsolute,
		Duration:       c.Cache.Duration,
		FailSafeMax:    c.Cache.FailSafeMax,
		LockTimeout:    c.Cache.LockTimeout,
		RemoteTimeout:  c.Cache.RemoteTimeout,
		RebuildTimeout: c.Cache.RebuildTimeout,
	}
}

func (c Config) TaxPolicy() (domain.TaxPolicy, error) {
	return domain.NewTaxPolicy(c.TaxRate)
}

func (c Config) RetryPolicy() retry.Policy {
	p := retry.Policy{
		Attempts:     c.Retry.Attempts,
		Base:         c.Retry.Base,
		Max:          c.Retry.Max,
		JitterFactor: c.Retry.JitterFactor,
	}
	if p.Base <= 0 {
		p.Base = 100 * time.Millisecond
	}
	if p.Max < p.Base {
		p.Max = p.Base
	}
	return p
}

func (c Config) BreakerSettings() circuit.Settings {
	return circuit.Settings{
		Threshold:   int(c.Breaker.Threshold),
		OpenTimeout: c.Breaker.OpenTimeout,
		MaxHalfOpen: int(c.Breaker.MaxHalfOpen),
	}
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envUint32(k string, def uint32) uint32 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return uint32(u)
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

// envDurationMS accepts plain milliseconds ("1500") or Go durations ("1.5s").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
