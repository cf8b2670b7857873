package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration of a commute-planner run.
// Sources, later wins: defaults, YAML file, .env, COMMUTE_* environment.
type Config struct {
	Map     MapConfig     `yaml:"map"`
	Routing RoutingConfig `yaml:"routing"`
	Roster  RosterConfig  `yaml:"roster"`
	Output  OutputConfig  `yaml:"output"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	API     APIConfig     `yaml:"api"`
}

// MapConfig holds the map API endpoint and credentials.
type MapConfig struct {
	Host      string        `yaml:"host" validate:"required,url"`
	APIKey    string        `yaml:"api_key" validate:"required"`
	SecretKey string        `yaml:"secret_key" validate:"required"`
	Region    string        `yaml:"region" validate:"required"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	Preflight bool          `yaml:"preflight"`
}

type RoutingConfig struct {
	Modes []string `yaml:"modes" validate:"min=1,dive,oneof=walk transport drive ride"`
	// Departure fixes the routing timestamp, layout DepartureLayout.
	// Empty means the wall clock at request time.
	Departure      string `yaml:"departure"`
	Workers        int    `yaml:"workers" validate:"min=1,max=64"`
	NearestOffices int    `yaml:"nearest_offices" validate:"min=0"`
	NearestPersons int    `yaml:"nearest_persons" validate:"min=0"`
}

type RosterConfig struct {
	Path        string `yaml:"path" validate:"required"`
	PersonSheet string `yaml:"person_sheet" validate:"required"`
	OfficeSheet string `yaml:"office_sheet" validate:"required"`
}

// OutputConfig controls where results go besides the console.
type OutputConfig struct {
	// Workbook receives the designations; empty disables write-back.
	Workbook string `yaml:"workbook"`
}

type StoreConfig struct {
	Driver   string `yaml:"driver" validate:"oneof=none sqlite postgres mongo"`
	DSN      string `yaml:"dsn" validate:"required_unless=Driver none"`
	Database string `yaml:"database" validate:"required_if=Driver mongo"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type APIConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

const DepartureLayout = "2006-01-02 15:04:05"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Map: MapConfig{
			Host:      "https://api.map.baidu.com",
			Region:    "上海",
			Timeout:   10 * time.Second,
			Preflight: true,
		},
		Routing: RoutingConfig{
			Modes:          []string{"walk", "transport"},
			Workers:        1,
			NearestOffices: 10,
			NearestPersons: 20,
		},
		Roster: RosterConfig{
			Path:        "data.xlsx",
			PersonSheet: "persons",
			OfficeSheet: "offices",
		},
		Store: StoreConfig{
			Driver: "none",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		API: APIConfig{
			Addr: ":8080",
		},
	}
}

// Get returns the environment value for key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// applyEnvOverrides applies COMMUTE_SECTION_KEY variables.
func applyEnvOverrides(cfg *Config) error {
	cfg.Map.Host = Get("COMMUTE_MAP_HOST", cfg.Map.Host)
	cfg.Map.APIKey = Get("COMMUTE_MAP_API_KEY", cfg.Map.APIKey)
	cfg.Map.SecretKey = Get("COMMUTE_MAP_SECRET_KEY", cfg.Map.SecretKey)
	cfg.Map.Region = Get("COMMUTE_MAP_REGION", cfg.Map.Region)

	if v := os.Getenv("COMMUTE_MAP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("COMMUTE_MAP_TIMEOUT: %w", err)
		}
		cfg.Map.Timeout = d
	}
	if v := os.Getenv("COMMUTE_MAP_PREFLIGHT"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COMMUTE_MAP_PREFLIGHT: %w", err)
		}
		cfg.Map.Preflight = b
	}

	if v := os.Getenv("COMMUTE_ROUTING_MODES"); v != "" {
		cfg.Routing.Modes = splitList(v)
	}
	cfg.Routing.Departure = Get("COMMUTE_ROUTING_DEPARTURE", cfg.Routing.Departure)
	if v := os.Getenv("COMMUTE_ROUTING_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COMMUTE_ROUTING_WORKERS: %w", err)
		}
		cfg.Routing.Workers = n
	}

	cfg.Roster.Path = Get("COMMUTE_ROSTER_PATH", cfg.Roster.Path)
	cfg.Output.Workbook = Get("COMMUTE_OUTPUT_WORKBOOK", cfg.Output.Workbook)

	cfg.Store.Driver = Get("COMMUTE_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = Get("COMMUTE_STORE_DSN", cfg.Store.DSN)
	cfg.Store.Database = Get("COMMUTE_STORE_DATABASE", cfg.Store.Database)

	cfg.Logging.Level = Get("COMMUTE_LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = Get("COMMUTE_LOG_FORMAT", cfg.Logging.Format)

	cfg.API.Addr = Get("COMMUTE_API_ADDR", cfg.API.Addr)

	return nil
}

// splitList splits a comma separated value, dropping blanks around items.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, formatFieldError(fe))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}

	if _, err := c.DepartureTime(); err != nil {
		return err
	}

	return nil
}

// DepartureTime parses Routing.Departure in local time.
// The zero time means no fixed departure.
func (c *Config) DepartureTime() (time.Time, error) {
	if c.Routing.Departure == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DepartureLayout, c.Routing.Departure, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("routing.departure: %w", err)
	}
	return t, nil
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required", "required_unless", "required_if":
		return field + " is required"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "min", "max", "gt":
		return field + " must satisfy " + fe.Tag() + "=" + fe.Param()
	default:
		return field + " failed " + fe.Tag() + " validation"
	}
}
