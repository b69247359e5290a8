package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/ClinicBookingService/internal/scheduling"
	"github.com/m04kA/ClinicBookingService/pkg/clinictime"
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Redis        RedisConfig        `toml:"redis"`
	Kafka        KafkaConfig        `toml:"kafka"`
	Tracing      TracingConfig      `toml:"tracing"`
	StaffService StaffServiceConfig `toml:"staff_service"`
	Scheduling   SchedulingConfig   `toml:"scheduling"`
	Clinic       ClinicConfig       `toml:"clinic"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// RedisConfig rate limit на публичных ручках. Пустой Addr - лимитер выключен.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	RateLimit  int    `toml:"rate_limit"`  // запросов на окно
	RateWindow int    `toml:"rate_window"` // секунды
	FailOpen   bool   `toml:"fail_open"`   // пропускать запросы при недоступном Redis
	KeyPrefix  string `toml:"key_prefix"`
}

// KafkaConfig события жизненного цикла записей. Пустой Brokers - публикация выключена.
type KafkaConfig struct {
	Brokers    string `toml:"brokers"` // через запятую
	Topic      string `toml:"topic"`
	BufferSize int    `toml:"buffer_size"`
}

type TracingConfig struct {
	Enabled      bool    `toml:"enabled"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRatio  float64 `toml:"sample_ratio"`
}

type StaffServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// SchedulingConfig значения по умолчанию для категорий без собственных настроек
type SchedulingConfig struct {
	TimeType               string   `toml:"time_type"`
	FixedTimeSlots         []string `toml:"fixed_time_slots"`
	ForbiddenStartTimes    []string `toml:"forbidden_start_times"`
	MaxEndTime             string   `toml:"max_end_time"`
	BookingLimit           int      `toml:"booking_limit"`
	DefaultDurationMinutes int      `toml:"default_duration_minutes"`
	FlexibleGridStartHour  int      `toml:"flexible_grid_start_hour"`
	FlexibleGridEndHour    int      `toml:"flexible_grid_end_hour"`
	FlexibleGridStep       int      `toml:"flexible_grid_step"` // минуты
}

// Defaults собирает scheduling.Defaults, валидируя времена
func (s SchedulingConfig) Defaults() (scheduling.Defaults, error) {
	return scheduling.NewDefaults(
		s.TimeType,
		s.FixedTimeSlots,
		s.ForbiddenStartTimes,
		s.MaxEndTime,
		s.BookingLimit,
		s.DefaultDurationMinutes,
	)
}

type ClinicConfig struct {
	Timezone string `toml:"timezone"`
}

// Location часовой пояс клиники
func (c ClinicConfig) Location() *time.Location {
	return clinictime.Location(c.Timezone)
}

// Load читает TOML, подгружает .env (если есть) и применяет переопределения из окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			ServiceName: "clinic-booking-service",
			Path:        "/metrics",
		},
		Redis: RedisConfig{
			RateLimit:  60,
			RateWindow: 60,
			FailOpen:   true,
			KeyPrefix:  "clinic-booking:rl",
		},
		Kafka: KafkaConfig{
			Topic:      "clinic.appointments",
			BufferSize: 256,
		},
		Tracing: TracingConfig{
			OTLPEndpoint: "localhost:4317",
			SampleRatio:  1,
		},
		StaffService: StaffServiceConfig{Timeout: 5},
		Scheduling: SchedulingConfig{
			FlexibleGridStartHour: 8,
			FlexibleGridEndHour:   16,
			FlexibleGridStep:      15,
		},
		Clinic: ClinicConfig{Timezone: "Asia/Gaza"},
	}
}

// applyEnv секреты не храним в config.toml
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("DATABASE_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		cfg.Redis.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("KAFKA_BROKERS")); v != "" {
		cfg.Kafka.Brokers = v
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")); v != "" {
		cfg.Tracing.OTLPEndpoint = v
	}
}

// Validate проверяет обязательные поля и значения расписания
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	if c.Redis.Addr != "" && (c.Redis.RateLimit <= 0 || c.Redis.RateWindow <= 0) {
		return fmt.Errorf("%w: redis.rate_limit and redis.rate_window must be positive", ErrInvalidConfig)
	}
	if c.Scheduling.FlexibleGridStep <= 0 || c.Scheduling.FlexibleGridStartHour > c.Scheduling.FlexibleGridEndHour {
		return fmt.Errorf("%w: invalid flexible grid", ErrInvalidConfig)
	}
	if _, err := c.Scheduling.Defaults(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := time.LoadLocation(c.Clinic.Timezone); err != nil {
		return fmt.Errorf("%w: clinic.timezone: %v", ErrInvalidConfig, err)
	}
	return nil
}
