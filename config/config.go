package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/on-the-ground/event_ive_go/event"
	"github.com/on-the-ground/event_ive_go/event/loop"
	"github.com/on-the-ground/event_ive_go/log"
)

// Config holds the settings of a bus and its logger.
type Config struct {
	DefaultNamespace string
	DeliveryPolicy   event.DeliveryPolicy
	MaxOffline       int

	LoopBufferSize int
	LoopNumWorkers int

	LogLevel       log.LogLevel
	LogDevelopment bool
}

// Load reads the configuration from the file at path, if any, and from
// EVENT_IVE_* environment variables, which take precedence.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(delimiter, "_"))
	v.AutomaticEnv()

	v.SetDefault(ConfigBusDefaultNamespace, event.DefaultNamespace)
	v.SetDefault(ConfigBusDeliveryPolicy, string(event.FailFast))
	v.SetDefault(ConfigBusMaxOffline, 0)
	v.SetDefault(ConfigLoopBufferSize, 1)
	v.SetDefault(ConfigLoopNumWorkers, 1)
	v.SetDefault(ConfigLogLevel, string(log.LogInfo))
	v.SetDefault(ConfigLogDevelopment, false)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	}

	policy, err := event.ParseDeliveryPolicy(v.GetString(ConfigBusDeliveryPolicy))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", ConfigBusDeliveryPolicy, err)
	}

	cfg := Config{
		DefaultNamespace: v.GetString(ConfigBusDefaultNamespace),
		DeliveryPolicy:   policy,
		MaxOffline:       v.GetInt(ConfigBusMaxOffline),
		LoopBufferSize:   v.GetInt(ConfigLoopBufferSize),
		LoopNumWorkers:   v.GetInt(ConfigLoopNumWorkers),
		LogLevel:         log.LogLevel(v.GetString(ConfigLogLevel)),
		LogDevelopment:   v.GetBool(ConfigLogDevelopment),
	}

	if cfg.MaxOffline < 0 {
		return Config{}, fmt.Errorf("%s must not be negative, got %d", ConfigBusMaxOffline, cfg.MaxOffline)
	}
	if cfg.DefaultNamespace == "" {
		return Config{}, fmt.Errorf("%s must not be empty", ConfigBusDefaultNamespace)
	}

	return cfg, nil
}

// Logger builds the logger described by the log settings.
func (c Config) Logger() (*zap.Logger, error) {
	return log.NewLogger(c.LogLevel, c.LogDevelopment)
}

// RegistryOptions turns the bus settings into registry options.
func (c Config) RegistryOptions(logger *zap.Logger) []event.Option {
	return []event.Option{
		event.WithLogger(logger),
		event.WithDefaultNamespace(c.DefaultNamespace),
		event.WithDeliveryPolicy(c.DeliveryPolicy),
		event.WithMaxOffline(c.MaxOffline),
	}
}

func (c Config) LoopConfig() loop.Config {
	return loop.NewConfig(c.LoopBufferSize, c.LoopNumWorkers)
}
