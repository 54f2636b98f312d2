package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/weekday-rota/pkg/core/model"
)

const (
	configFileBase = "schedule_config"

	// Column headers of the original intake form
	DefaultNameColumn = "ФИО"
	DefaultDaysColumn = "Дни"

	DefaultStorageDriver = DriverSQLite
	DefaultSQLiteDSN     = "weekday_rota.db"
	DefaultServerAddr    = ":8080"
	DefaultLogDir        = "logs"

	// DatabaseURLEnv overrides storage.dsn when set (typically from .env)
	DatabaseURLEnv = "DATABASE_URL"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverSheets   = "sheets"
)

// TargetOverride replaces the required headcount of one day for every week matched by RRule
type TargetOverride struct {
	RRule    string `yaml:"rrule" validate:"required"`
	Day      string `yaml:"day" validate:"required"`
	Required int    `yaml:"required" validate:"min=0"`
}

// Weekday parses the override's day name
func (o TargetOverride) Weekday() (model.Weekday, error) {
	return model.ParseWeekday(o.Day)
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=sqlite postgres sheets"`
	DSN    string `yaml:"dsn,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	ResponsesSheetID string           `yaml:"responsesSheetID" validate:"required"`
	ResponsesTab     string           `yaml:"responsesTab" validate:"required"`
	NameColumn       string           `yaml:"nameColumn,omitempty" validate:"required"`
	DaysColumn       string           `yaml:"daysColumn,omitempty" validate:"required"`
	ScheduleSheetID  string           `yaml:"scheduleSheetID,omitempty"`
	DayOrder         string           `yaml:"dayOrder,omitempty" validate:"omitempty,oneof=fixed scarcity shuffle"`
	TargetOverrides  []TargetOverride `yaml:"targetOverrides,omitempty" validate:"dive"`
	Storage          StorageConfig    `yaml:"storage"`
	DatabaseSheetID  string           `yaml:"databaseSheetID,omitempty"`
	GmailUserID      string           `yaml:"gmailUserID,omitempty"`
	GmailSender      string           `yaml:"gmailSender,omitempty"`
	Recipients       []string         `yaml:"recipients,omitempty" validate:"dive,email"`
	Server           ServerConfig     `yaml:"server"`
	LogDir           string           `yaml:"logDir,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates schedule_config.<env>.yaml (or schedule_config.yaml when env is empty).
// The file is looked up in the current directory first, then in the user's home directory.
func LoadWithEnv(env string) (*Config, error) {
	fileName := configFileBase + ".yaml"
	if env != "" {
		fileName = configFileBase + "." + env + ".yaml"
	}

	configPath, err := findFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads, defaults and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if dsn := os.Getenv(DatabaseURLEnv); dsn != "" {
		cfg.Storage.DSN = dsn
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.NameColumn == "" {
		cfg.NameColumn = DefaultNameColumn
	}
	if cfg.DaysColumn == "" {
		cfg.DaysColumn = DefaultDaysColumn
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorageDriver
	}
	if cfg.Storage.Driver == DriverSQLite && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = DefaultSQLiteDSN
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir
	}
}

// Validate validates the configuration struct, the backend-specific settings and the override rules
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch cfg.Storage.Driver {
	case DriverPostgres:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("config validation failed: storage.dsn (or %s) is required for the postgres driver", DatabaseURLEnv)
		}
	case DriverSheets:
		if cfg.DatabaseSheetID == "" {
			return fmt.Errorf("config validation failed: databaseSheetID is required for the sheets driver")
		}
	}

	if len(cfg.Recipients) > 0 && cfg.GmailUserID == "" {
		return fmt.Errorf("config validation failed: gmailUserID is required when recipients are configured")
	}

	for i, override := range cfg.TargetOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in targetOverrides[%d]: %w", i, err)
		}
		if _, err := override.Weekday(); err != nil {
			return fmt.Errorf("invalid day in targetOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

// findFile searches for fileName in the current directory and then the home directory
func findFile(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
