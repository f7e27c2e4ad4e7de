package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the whole configuration surface. Every threshold the screener
// and the strategy use is a named, overridable field here, never a literal
// buried in logic. Invalid combinations are rejected at load time.
type Config struct {
	Environment string `yaml:"environment" default:"development"`

	Server struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`

	Logging struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`

	ClickHouse struct {
		Enabled      bool          `yaml:"enabled"`
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port" default:"9000"`
		Database     string        `yaml:"database" default:"stockradar"`
		User         string        `yaml:"user" default:"default"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"clickhouse"`

	Redis struct {
		Enabled  bool          `yaml:"enabled"`
		Addr     string        `yaml:"addr" default:"localhost:6379"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		TTL      time.Duration `yaml:"ttl" default:"24h"`
	} `yaml:"redis"`

	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"stockradar.signals"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		MaxAttempts  int           `yaml:"max_attempts" default:"3"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`

	Schedule struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron" default:"30 9 * * MON-FRI"` // run after the open
	} `yaml:"schedule"`

	// Screening is the orchestrator's eligibility and batch surface.
	Screening struct {
		Universe     []string      `yaml:"universe"` // empty means "ask the bar source"
		LookbackBars int           `yaml:"lookback_bars" default:"60" validate:"gt=0"`
		MinPrice     float64       `yaml:"min_price" default:"5" validate:"gte=0"`
		MaxPrice     float64       `yaml:"max_price" default:"200" validate:"gt=0"`
		MinAmount    float64       `yaml:"min_amount" default:"10000000" validate:"gte=0"`
		RSIMin       float64       `yaml:"rsi_min" default:"30" validate:"gte=0,lte=100"`
		RSIMax       float64       `yaml:"rsi_max" default:"80" validate:"gte=0,lte=100"`
		MinScore     int           `yaml:"min_score" default:"60"`
		TopN         int           `yaml:"top_n" default:"10" validate:"gt=0"`
		ExcludeTags  []string      `yaml:"exclude_tags" default:"[\"suspended\",\"st\"]"`
		Concurrency  int           `yaml:"concurrency" default:"8" validate:"gt=0"`
		Timeout      time.Duration `yaml:"timeout" default:"10m"`
	} `yaml:"screening"`

	// Strategy is the platform/breakout detection surface.
	Strategy struct {
		PlatformWindow  int     `yaml:"platform_window" default:"20" validate:"gt=1"`
		MaxVolatility   float64 `yaml:"max_volatility" default:"0.15" validate:"gt=0"`
		MAConvergence   float64 `yaml:"ma_convergence" default:"0.03" validate:"gt=0"`
		VolumeThreshold float64 `yaml:"volume_threshold" default:"2.0" validate:"gt=0"`
		PriceThreshold  float64 `yaml:"price_threshold" default:"0.03" validate:"gte=0"`

		Scoring Scoring `yaml:"scoring"`
	} `yaml:"strategy"`
}

// Scoring holds the recommendation point table and action cutoffs.
type Scoring struct {
	BreakoutPoints    int `yaml:"breakout_points" default:"40" validate:"gte=0"`
	PlatformPoints    int `yaml:"platform_points" default:"20" validate:"gte=0"`
	AlignmentPoints   int `yaml:"alignment_points" default:"20" validate:"gte=0"`
	ConsistencyPoints int `yaml:"consistency_points" default:"15" validate:"gte=0"`
	RSIStrongPoints   int `yaml:"rsi_strong_points" default:"10" validate:"gte=0"`
	RSIOverheatMalus  int `yaml:"rsi_overheat_malus" default:"10" validate:"gte=0"`
	KDJPoints         int `yaml:"kdj_points" default:"10" validate:"gte=0"`
	VolumePoints      int `yaml:"volume_points" default:"15" validate:"gte=0"`

	RSIStrongLow    float64 `yaml:"rsi_strong_low" default:"60"`
	RSIStrongHigh   float64 `yaml:"rsi_strong_high" default:"80"`
	KDJStrongK      float64 `yaml:"kdj_strong_k" default:"70"`
	VolumeExpansion float64 `yaml:"volume_expansion" default:"2.0"`

	StrongBuyCutoff int `yaml:"strong_buy_cutoff" default:"80"`
	BuyCutoff       int `yaml:"buy_cutoff" default:"60"`
	WatchCutoff     int `yaml:"watch_cutoff" default:"40"`
}

// Load reads, defaults, and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment
// variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("UNIVERSE"); v != "" {
		c.Screening.Universe = strings.Split(v, ",")
	}
	return c, nil
}

// Validate checks field constraints and the cross-field rules the tag
// language cannot express. A violation here is a configuration fault: the
// process refuses to start rather than computing with a broken surface.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Screening.MinPrice >= c.Screening.MaxPrice {
		return fmt.Errorf("screening: min_price (%v) must be below max_price (%v)",
			c.Screening.MinPrice, c.Screening.MaxPrice)
	}
	if c.Screening.RSIMin >= c.Screening.RSIMax {
		return fmt.Errorf("screening: rsi_min (%v) must be below rsi_max (%v)",
			c.Screening.RSIMin, c.Screening.RSIMax)
	}

	s := c.Strategy.Scoring
	if !(s.StrongBuyCutoff > s.BuyCutoff && s.BuyCutoff > s.WatchCutoff) {
		return fmt.Errorf("scoring: cutoffs must be strictly descending, got %d/%d/%d",
			s.StrongBuyCutoff, s.BuyCutoff, s.WatchCutoff)
	}
	if s.RSIStrongLow >= s.RSIStrongHigh {
		return fmt.Errorf("scoring: rsi_strong_low (%v) must be below rsi_strong_high (%v)",
			s.RSIStrongLow, s.RSIStrongHigh)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka: brokers required when enabled")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse: host required when enabled")
	}
	return nil
}
