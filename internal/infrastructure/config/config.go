package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env        string
	HTTPServer HTTPServer
	GRPCServer GRPCServer
	Database   Database
	Prometheus Prometheus
	Redis      Redis
	Auth       Auth
}

type HTTPServer struct {
	Address         string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	SecureCookies   bool
	TrustProxy      bool
}

type GRPCServer struct {
	Address string
	Port    int
}

type Database struct {
	URL             string
	Username        string
	Password        string
	Host            string
	Port            string
	DbName          string
	SSLMode         string
	MigrationsPath  string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	AcquireTimeout  time.Duration
}

type Prometheus struct {
	Address string
	Port    int
}

type Redis struct {
	Enabled    bool
	Address    string
	Port       int
	Password   string
	DB         int
	PoolSize   int
	SessionTTL time.Duration
}

type Auth struct {
	SessionTTL             time.Duration
	BcryptCost             int
	LoginRateLimit         float64
	LoginRateBurst         int
	SessionCleanupInterval time.Duration
}

// DSN prefers an explicit URL (DATABASE_URL) over the individual fields.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(d.Username),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.DbName,
		sslMode)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("http_server.address", "0.0.0.0")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.read_timeout", 10*time.Second)
	v.SetDefault("http_server.write_timeout", 15*time.Second)
	v.SetDefault("http_server.shutdown_timeout", 30*time.Second)
	v.SetDefault("http_server.allowed_origins", []string{"*"})
	v.SetDefault("http_server.secure_cookies", false)
	v.SetDefault("http_server.trust_proxy", false)

	v.SetDefault("grpc_server.address", "0.0.0.0")
	v.SetDefault("grpc_server.port", 50051)

	v.SetDefault("database.url", "")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "admin")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.db_name", "landing")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.migrations_path", "")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_idle_time", 30*time.Second)
	v.SetDefault("database.acquire_timeout", 3*time.Second)

	v.SetDefault("prometheus.address", "0.0.0.0")
	v.SetDefault("prometheus.port", 9103)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.address", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.session_ttl", 5*time.Minute)

	v.SetDefault("auth.session_ttl", 720*time.Hour)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_rate_limit", 1.0)
	v.SetDefault("auth.login_rate_burst", 5)
	v.SetDefault("auth.session_cleanup_interval", time.Hour)
}

// Load reads ./config/config.yaml (optional) and the environment.
// Nested keys map to env vars with dots replaced by underscores,
// e.g. DATABASE_HOST; DATABASE_URL maps to database.url.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		HTTPServer: HTTPServer{
			Address:         v.GetString("http_server.address"),
			Port:            v.GetInt("http_server.port"),
			ReadTimeout:     v.GetDuration("http_server.read_timeout"),
			WriteTimeout:    v.GetDuration("http_server.write_timeout"),
			ShutdownTimeout: v.GetDuration("http_server.shutdown_timeout"),
			AllowedOrigins:  v.GetStringSlice("http_server.allowed_origins"),
			SecureCookies:   v.GetBool("http_server.secure_cookies"),
			TrustProxy:      v.GetBool("http_server.trust_proxy"),
		},
		GRPCServer: GRPCServer{
			Address: v.GetString("grpc_server.address"),
			Port:    v.GetInt("grpc_server.port"),
		},
		Database: Database{
			URL:             v.GetString("database.url"),
			Username:        v.GetString("database.username"),
			Password:        v.GetString("database.password"),
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			DbName:          v.GetString("database.db_name"),
			SSLMode:         v.GetString("database.ssl_mode"),
			MigrationsPath:  v.GetString("database.migrations_path"),
			MaxConns:        v.GetInt32("database.max_conns"),
			MinConns:        v.GetInt32("database.min_conns"),
			MaxConnIdleTime: v.GetDuration("database.max_conn_idle_time"),
			AcquireTimeout:  v.GetDuration("database.acquire_timeout"),
		},
		Prometheus: Prometheus{
			Address: v.GetString("prometheus.address"),
			Port:    v.GetInt("prometheus.port"),
		},
		Redis: Redis{
			Enabled:    v.GetBool("redis.enabled"),
			Address:    v.GetString("redis.address"),
			Port:       v.GetInt("redis.port"),
			Password:   v.GetString("redis.password"),
			DB:         v.GetInt("redis.db"),
			PoolSize:   v.GetInt("redis.pool_size"),
			SessionTTL: v.GetDuration("redis.session_ttl"),
		},
		Auth: Auth{
			SessionTTL:             v.GetDuration("auth.session_ttl"),
			BcryptCost:             v.GetInt("auth.bcrypt_cost"),
			LoginRateLimit:         v.GetFloat64("auth.login_rate_limit"),
			LoginRateBurst:         v.GetInt("auth.login_rate_burst"),
			SessionCleanupInterval: v.GetDuration("auth.session_cleanup_interval"),
		},
	}

	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Printf("Error reading config file: %s", err)
		os.Exit(1)
	}
	return cfg
}
