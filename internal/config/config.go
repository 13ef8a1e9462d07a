package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server              ServerConfig              `toml:"server"`
	Database            DatabaseConfig            `toml:"database"`
	Logs                LogsConfig                `toml:"logs"`
	Metrics             MetricsConfig             `toml:"metrics"`
	NotificationService NotificationServiceConfig `toml:"notification_service"`
	Booking             BookingConfig             `toml:"booking"`
	Memory              MemoryConfig              `toml:"memory"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	TxTimeoutMs     int    `toml:"tx_timeout_ms"`
	MigrateOnStart  bool   `toml:"migrate_on_start"`
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// NotificationServiceConfig сервис уведомлений. Пустой URL отключает отправку событий.
type NotificationServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// BookingConfig правила бронирования
type BookingConfig struct {
	DefaultGranularityMinutes int `toml:"default_granularity_minutes"`
	MinNoticeMinutes          int `toml:"min_notice_minutes"`
	MaxRangeDays              int `toml:"max_range_days"`
	MaxAdvanceDays            int `toml:"max_advance_days"` // 0 - без ограничения
}

// MemoryConfig пользователи, которыми наполняется хранилище в памяти
type MemoryConfig struct {
	Users []SeedUser `toml:"users"`
}

type SeedUser struct {
	ID    int64  `toml:"id"`
	Name  string `toml:"name"`
	Email string `toml:"email"`
	Role  string `toml:"role"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "appointments",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			TxTimeoutMs:     800,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "psy-appointment-service",
		},
		NotificationService: NotificationServiceConfig{
			Timeout: 5,
		},
		Booking: BookingConfig{
			DefaultGranularityMinutes: 60,
			MaxRangeDays:              31,
		},
	}
}

// Load читает конфигурацию из TOML файла и применяет переменные окружения (.env поддерживается).
// Отсутствующий файл не ошибка: используются значения по умолчанию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
		}
	}

	// .env необязателен
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	setString("DB_DRIVER", &c.Database.Driver)
	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("LOG_LEVEL", &c.Logs.Level)
	setString("NOTIFICATION_SERVICE_URL", &c.NotificationService.URL)

	if err := setInt("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	return setInt("HTTP_PORT", &c.Server.HTTPPort)
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535", ErrInvalidConfig)
	case c.Database.Driver != DriverPostgres && c.Database.Driver != DriverMemory:
		return fmt.Errorf("%w: database.driver must be %q or %q", ErrInvalidConfig, DriverPostgres, DriverMemory)
	case c.Database.TxTimeoutMs < 0:
		return fmt.Errorf("%w: database.tx_timeout_ms must not be negative", ErrInvalidConfig)
	case c.Booking.DefaultGranularityMinutes < 5 || c.Booking.DefaultGranularityMinutes > 480:
		return fmt.Errorf("%w: booking.default_granularity_minutes must be in 5..480", ErrInvalidConfig)
	case c.Booking.MinNoticeMinutes < 0:
		return fmt.Errorf("%w: booking.min_notice_minutes must not be negative", ErrInvalidConfig)
	case c.Booking.MaxRangeDays < 1:
		return fmt.Errorf("%w: booking.max_range_days must be positive", ErrInvalidConfig)
	case c.Booking.MaxAdvanceDays < 0:
		return fmt.Errorf("%w: booking.max_advance_days must not be negative", ErrInvalidConfig)
	}
	return nil
}
