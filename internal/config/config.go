package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Unbounded marks a limit key that is tracked but never enforced. Every
// tracked metric key must carry either a ceiling or this marker; Validate
// fails fast on omission so a typoed key can never silently pass.
const Unbounded = -1

// Config holds the full application configuration.
type Config struct {
	Source        SourceConfig           `yaml:"source" mapstructure:"source"`
	Boxes         map[string][][]float64 `yaml:"boxes" mapstructure:"boxes"`
	BoxOrder      []string               `yaml:"box_order" mapstructure:"box_order"`
	Neighborhoods []string               `yaml:"neighborhoods" mapstructure:"neighborhoods"`
	Commuters     []Commuter             `yaml:"commuters" mapstructure:"commuters"`
	Modes         []string               `yaml:"modes" mapstructure:"modes"`
	Maps          MapsConfig             `yaml:"maps" mapstructure:"maps"`
	Shorten       ShortenConfig          `yaml:"shorten" mapstructure:"shorten"`
	Slack         SlackConfig            `yaml:"slack" mapstructure:"slack"`
	Cache         CacheConfig            `yaml:"cache" mapstructure:"cache"`
	Status        StatusConfig           `yaml:"status" mapstructure:"status"`
	Log           LogConfig              `yaml:"log" mapstructure:"log"`
	Dev           bool                   `yaml:"dev" mapstructure:"dev"`
	SleepSecs     int                    `yaml:"sleep_secs" mapstructure:"sleep_secs"`
}

// SourceConfig configures the classifieds listing source.
type SourceConfig struct {
	Site        string   `yaml:"site" mapstructure:"site"`
	Areas       []string `yaml:"areas" mapstructure:"areas"`
	Section     string   `yaml:"section" mapstructure:"section"`
	MinPrice    int      `yaml:"min_price" mapstructure:"min_price"`
	MaxPrice    int      `yaml:"max_price" mapstructure:"max_price"`
	MinBedrooms int      `yaml:"min_bedrooms" mapstructure:"min_bedrooms"`
	TimeoutSecs int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries     int      `yaml:"retries" mapstructure:"retries"`
}

// Commuter is one person whose commute every accepted listing must satisfy.
// Limits maps dotted metric keys (fare, total, extra, time.<MODE>,
// steps.TRANSIT) to ceilings.
type Commuter struct {
	Name    string             `yaml:"name" mapstructure:"name"`
	Work    string             `yaml:"work" mapstructure:"work"`
	Arrival string             `yaml:"arrival" mapstructure:"arrival"`
	Limits  map[string]float64 `yaml:"limits" mapstructure:"limits"`
}

// NextArrival returns the next weekday occurrence of the commuter's desired
// arrival clock time, for use as the directions arrival_time parameter.
func (c Commuter) NextArrival(now time.Time) (time.Time, error) {
	clock, err := time.Parse("15:04", c.Arrival)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "config: commuter %s arrival", c.Name)
	}
	t := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	for !t.After(now) || t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// MapsConfig holds directions provider settings.
type MapsConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	QPS     float64 `yaml:"qps" mapstructure:"qps"`
}

// ShortenConfig holds link shortener settings.
type ShortenConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SlackConfig holds chat sink settings.
type SlackConfig struct {
	Token   string `yaml:"token" mapstructure:"token"`
	Channel string `yaml:"channel" mapstructure:"channel"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// CacheConfig configures the directions response cache.
type CacheConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Path     string `yaml:"path" mapstructure:"path"`
	TTLHours int    `yaml:"ttl_hours" mapstructure:"ttl_hours"`
}

// StatusConfig configures the status HTTP server. An empty Addr disables it.
type StatusConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("APTSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("source.section", "apa")
	v.SetDefault("source.timeout_secs", 30)
	v.SetDefault("source.retries", 2)
	v.SetDefault("modes", []string{"transit", "bicycling", "walking", "driving"})
	v.SetDefault("maps.base_url", "https://maps.googleapis.com/maps/api/directions/json")
	v.SetDefault("maps.qps", 5)
	v.SetDefault("shorten.base_url", "https://api.tinyurl.com")
	v.SetDefault("slack.base_url", "https://slack.com/api")
	v.SetDefault("slack.channel", "#housing")
	v.SetDefault("cache.path", "aptscout.db")
	v.SetDefault("cache.ttl_hours", 24)
	v.SetDefault("sleep_secs", 1200)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// Viper lowercases every map key on the way in, so "time.TRANSIT"
	// arrives as "time.transit". Restore the canonical form before
	// validation and lookup.
	for i := range cfg.Commuters {
		cfg.Commuters[i].Limits = canonicalLimits(cfg.Commuters[i].Limits)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// canonicalLimits normalizes dotted limit keys: the metric name is lower
// case, the mode suffix upper case ("time.transit" becomes "time.TRANSIT").
func canonicalLimits(limits map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(limits))
	for key, ceiling := range limits {
		k := strings.ToLower(key)
		if i := strings.IndexByte(k, '.'); i >= 0 {
			k = k[:i+1] + strings.ToUpper(k[i+1:])
		}
		out[k] = ceiling
	}
	return out
}

// Validate checks box shapes and the limit schema for every commuter.
func (c *Config) Validate() error {
	for name, corners := range c.Boxes {
		if len(corners) != 2 || len(corners[0]) != 2 || len(corners[1]) != 2 {
			return eris.Errorf("config: box %q must be two [lat, lng] corners", name)
		}
	}
	for _, name := range c.BoxOrder {
		if _, ok := c.Boxes[name]; !ok {
			return eris.Errorf("config: box_order names unknown box %q", name)
		}
	}

	required := []string{"fare", "total", "extra", "steps.TRANSIT"}
	for _, mode := range c.Modes {
		required = append(required, "time."+strings.ToUpper(mode))
	}

	for _, commuter := range c.Commuters {
		if commuter.Name == "" || commuter.Work == "" {
			return eris.New("config: commuter needs both name and work address")
		}
		if _, err := commuter.NextArrival(time.Now()); err != nil {
			return err
		}
		for _, key := range required {
			ceiling, ok := commuter.Limits[key]
			if !ok {
				return eris.Errorf("config: commuter %s is missing limit %q (set a ceiling or %d for unbounded)",
					commuter.Name, key, Unbounded)
			}
			if ceiling < Unbounded {
				return eris.Errorf("config: commuter %s limit %q is %v; ceilings must be >= %d",
					commuter.Name, key, ceiling, Unbounded)
			}
		}
	}
	return nil
}

// SleepInterval returns the delay between scrape cycles.
func (c *Config) SleepInterval() time.Duration {
	return time.Duration(c.SleepSecs) * time.Second
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
