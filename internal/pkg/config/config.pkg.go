package config

import (
	"errors"
	"fmt"
	"idea-inbox/internal/common/enum"
	"idea-inbox/internal/pkg/validation"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Log         LogConfig         `mapstructure:"log"`
	Notify      NotifyConfig      `mapstructure:"notify"`
	RabbitMQ    RabbitMQConfig    `mapstructure:"rabbitmq"`
	MQTT        MQTTConfig        `mapstructure:"mqtt"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
	Redis       RedisConfig       `mapstructure:"redis"`
}

type AppConfig struct {
	Env             enum.EnvEnum  `mapstructure:"env" validate:"enum"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	DebugErrors     bool          `mapstructure:"debug_errors"`
}

// Addr is the listen address in host:port form.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// RequestBudget is the longest a request can stay in flight before the
// server cuts it off.
func (a AppConfig) RequestBudget() time.Duration {
	return a.ReadTimeout + a.WriteTimeout
}

type StorageConfig struct {
	BaseDir      string `mapstructure:"base_dir" validate:"required"`
	MaxBodyBytes int64  `mapstructure:"max_body_bytes" validate:"gt=0"`
	SubmitPath   string `mapstructure:"submit_path" validate:"required,startswith=/"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

type NotifyConfig struct {
	Driver  enum.NotifyDriverEnum `mapstructure:"driver" validate:"enum"`
	Workers int                   `mapstructure:"workers" validate:"gte=1"`
	Timeout time.Duration         `mapstructure:"timeout" validate:"gt=0"`
}

type RabbitMQConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Queue    string `mapstructure:"queue"`
}

// URL is the AMQP connection string.
func (r RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.Username, r.Password, r.Host, r.Port)
}

type MQTTConfig struct {
	URL      string `mapstructure:"url"`
	ClientID string `mapstructure:"client_id"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Topic    string `mapstructure:"topic"`
	QoS      int    `mapstructure:"qos" validate:"gte=0,lte=2"`
}

type IdempotencyConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	PoolSize int    `mapstructure:"pool_size" validate:"gte=1"`
}

// Addr is the redis address in host:port form.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// DefaultBaseDir is where submissions land when STORAGE_BASE_DIR is unset.
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, "Documents", "Ideas - Kidpreneur")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", string(enum.DEVELOPMENT))
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.shutdown_timeout", "3s")
	v.SetDefault("app.read_timeout", "2m")
	v.SetDefault("app.write_timeout", "2m")
	v.SetDefault("app.debug_errors", false)

	v.SetDefault("storage.base_dir", DefaultBaseDir())
	v.SetDefault("storage.max_body_bytes", int64(32<<20))
	v.SetDefault("storage.submit_path", "/submit")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("notify.driver", string(enum.NotifyNone))
	v.SetDefault("notify.workers", 4)
	v.SetDefault("notify.timeout", "10s")

	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.username", "guest")
	v.SetDefault("rabbitmq.password", "guest")
	v.SetDefault("rabbitmq.queue", "submission.stored")

	v.SetDefault("mqtt.url", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "idea-inbox")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic", "ideas/submissions")
	v.SetDefault("mqtt.qos", 1)

	v.SetDefault("idempotency.enabled", false)
	v.SetDefault("idempotency.ttl", "24h")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.pool_size", 10)
}

// Load reads configuration from a .env file in the working directory (if
// any), the environment and an optional YAML file, in rising order of
// precedence: defaults, file, .env/environment.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Storage.BaseDir = strings.TrimSpace(cfg.Storage.BaseDir)
	if err := validation.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
