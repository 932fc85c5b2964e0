package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxRankedTrains  = 3
	DefaultCacheTTL         = 60 * time.Second
	DefaultFetchConcurrency = 1
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultHTTPMaxSize      = 4 << 20 // 4 MB
	DefaultUserAgent        = "departures (+https://tidbyt.dev/departures)"
	DefaultServerAddr       = ":8080"
	DefaultMailSubject      = "Upcoming trains"
)

// Where departure boards and train stop lists are fetched from. Both
// URLs are fmt templates: StationURL takes a station code, TrainURL a
// station code and a train number.
type SourceConfig struct {
	StationURL string `yaml:"stationURL" validate:"required"`
	TrainURL   string `yaml:"trainURL" validate:"required"`

	// Zero pad two character train numbers to four.
	PadTrainNumbers bool `yaml:"padTrainNumbers"`
}

type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" validate:"gte=0"`
	Retries   int           `yaml:"retries" validate:"gte=0"`
	RetryWait time.Duration `yaml:"retryWait" validate:"gte=0"`
	MaxSize   int           `yaml:"maxSize" validate:"gte=0"`
	UserAgent string        `yaml:"userAgent"`
}

type CacheConfig struct {
	Backend     string        `yaml:"backend" validate:"oneof=file memory memory-storage sqlite postgres redis"`
	Directory   string        `yaml:"directory"`
	MemorySize  int           `yaml:"memorySize" validate:"gte=0"`
	Postgres    string        `yaml:"postgres" validate:"required_if=Backend postgres"`
	Redis       string        `yaml:"redis" validate:"required_if=Backend redis"`
	RedisExpiry time.Duration `yaml:"redisExpiry" validate:"gte=0"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from" validate:"omitempty,email"`
	To       string `yaml:"to" validate:"omitempty,email"`
	Subject  string `yaml:"subject"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// Config is passed explicitly to everything that needs it. There is
// no package level configuration state.
type Config struct {
	Verbose            bool   `yaml:"verbose"`
	LogFile            string `yaml:"logFile"`
	UseAlternateSource bool   `yaml:"useAlternateSource"`

	// How many upcoming trains get their previous stops checked.
	MaxRankedTrains int `yaml:"maxRankedTrains" validate:"gte=1"`

	// How long fetched documents are considered fresh.
	CacheTTL time.Duration `yaml:"cacheTTL" validate:"gt=0"`

	// Number of previous stops fetched at once.
	FetchConcurrency int `yaml:"fetchConcurrency" validate:"gte=1"`

	Source          SourceConfig `yaml:"source"`
	AlternateSource SourceConfig `yaml:"alternateSource"`
	HTTP            HTTPConfig   `yaml:"http"`
	Cache           CacheConfig  `yaml:"cache"`
	Mail            MailConfig   `yaml:"mail"`
	Server          ServerConfig `yaml:"server"`
}

func Default() *Config {
	return &Config{
		MaxRankedTrains:  DefaultMaxRankedTrains,
		CacheTTL:         DefaultCacheTTL,
		FetchConcurrency: DefaultFetchConcurrency,
		Source: SourceConfig{
			StationURL:      "http://dv.njtransit.com/mobile/tid-mobile.aspx?SID=%s&SORT=A",
			TrainURL:        "http://dv.njtransit.com/mobile/train_stops.aspx?sid=%s&train=%s",
			PadTrainNumbers: true,
		},
		AlternateSource: SourceConfig{
			StationURL: "http://127.0.0.1:8000/njtransit-%s.html",
			TrainURL:   "http://127.0.0.1:8000/njtransit-train-%s-%s.html",
		},
		HTTP: HTTPConfig{
			Timeout:   DefaultHTTPTimeout,
			MaxSize:   DefaultHTTPMaxSize,
			UserAgent: DefaultUserAgent,
		},
		Cache: CacheConfig{
			Backend:   "file",
			Directory: os.TempDir(),
		},
		Mail: MailConfig{
			Port:    587,
			Subject: DefaultMailSubject,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
	}
}

// Reads a YAML configuration file. Settings missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// The source queries should go to.
func (c *Config) ActiveSource() SourceConfig {
	if c.UseAlternateSource {
		return c.AlternateSource
	}
	return c.Source
}
