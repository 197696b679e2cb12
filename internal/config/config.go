// internal/config/config.go
package config

import (
	"sync"

	"github.com/andresuchdata/safetystock-sim/internal/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Session    SessionConfig
	Cache      CacheConfig
	LogLevel   string
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type SimulationConfig struct {
	Weeks               int
	MaxQuantity         int
	MaxSafetyStockWeeks int
	YAxisMin            int
	YAxisMax            int

	DefaultWeeklyDemand     int
	DefaultSafetyStockWeeks int
	DefaultInitialStock     int
	DefaultReceiving        int
	DefaultYAxisMax         int
}

type SessionConfig struct {
	Store         string // "memory" or "redis"
	TTLSeconds    int
	SweepSchedule string
}

type CacheConfig struct {
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		v := viper.New()
		SetDefaults(v)

		// Read from environment variables
		v.AutomaticEnv()

		instance = FromViper(v)
	})

	return instance
}

// SetDefaults registers every known key with its default value.
func SetDefaults(v *viper.Viper) {
	limits := domain.DefaultLimits()
	defaults := domain.DefaultDefaults()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("SIM_WEEKS", limits.Weeks)
	v.SetDefault("SIM_MAX_QUANTITY", limits.MaxQuantity)
	v.SetDefault("SIM_MAX_SAFETY_STOCK_WEEKS", limits.MaxSafetyStockWeeks)
	v.SetDefault("SIM_Y_AXIS_MIN", limits.YAxisMin)
	v.SetDefault("SIM_Y_AXIS_MAX", limits.YAxisMax)
	v.SetDefault("SIM_DEFAULT_WEEKLY_DEMAND", defaults.WeeklyDemand)
	v.SetDefault("SIM_DEFAULT_SAFETY_STOCK_WEEKS", defaults.SafetyStockWeeks)
	v.SetDefault("SIM_DEFAULT_INITIAL_STOCK", defaults.InitialStock)
	v.SetDefault("SIM_DEFAULT_RECEIVING", defaults.WeeklyReceiving)
	v.SetDefault("SIM_DEFAULT_Y_AXIS_MAX", defaults.YAxisMax)

	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_TTL_SECONDS", 3600)
	v.SetDefault("SESSION_SWEEP_SCHEDULE", "@every 1m")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Simulation: SimulationConfig{
			Weeks:                   v.GetInt("SIM_WEEKS"),
			MaxQuantity:             v.GetInt("SIM_MAX_QUANTITY"),
			MaxSafetyStockWeeks:     v.GetInt("SIM_MAX_SAFETY_STOCK_WEEKS"),
			YAxisMin:                v.GetInt("SIM_Y_AXIS_MIN"),
			YAxisMax:                v.GetInt("SIM_Y_AXIS_MAX"),
			DefaultWeeklyDemand:     v.GetInt("SIM_DEFAULT_WEEKLY_DEMAND"),
			DefaultSafetyStockWeeks: v.GetInt("SIM_DEFAULT_SAFETY_STOCK_WEEKS"),
			DefaultInitialStock:     v.GetInt("SIM_DEFAULT_INITIAL_STOCK"),
			DefaultReceiving:        v.GetInt("SIM_DEFAULT_RECEIVING"),
			DefaultYAxisMax:         v.GetInt("SIM_DEFAULT_Y_AXIS_MAX"),
		},
		Session: SessionConfig{
			Store:         v.GetString("SESSION_STORE"),
			TTLSeconds:    v.GetInt("SESSION_TTL_SECONDS"),
			SweepSchedule: v.GetString("SESSION_SWEEP_SCHEDULE"),
		},
		Cache: CacheConfig{
			RedisURL:      v.GetString("REDIS_URL"),
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}
}

// Limits converts the simulation bounds into domain limits.
func (c SimulationConfig) Limits() domain.Limits {
	return domain.Limits{
		Weeks:               c.Weeks,
		MaxQuantity:         c.MaxQuantity,
		MaxSafetyStockWeeks: c.MaxSafetyStockWeeks,
		YAxisMin:            c.YAxisMin,
		YAxisMax:            c.YAxisMax,
	}
}

// Defaults converts the configured starting values into domain defaults.
func (c SimulationConfig) Defaults() domain.Defaults {
	return domain.Defaults{
		WeeklyDemand:     c.DefaultWeeklyDemand,
		SafetyStockWeeks: c.DefaultSafetyStockWeeks,
		InitialStock:     c.DefaultInitialStock,
		WeeklyReceiving:  c.DefaultReceiving,
		YAxisMax:         c.DefaultYAxisMax,
	}
}
