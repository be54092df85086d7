package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/vendor-spend/internal/report"
	"github.com/sells-group/vendor-spend/internal/sheet"
)

// Config holds the full application configuration.
type Config struct {
	Workbook WorkbookConfig `yaml:"workbook" mapstructure:"workbook"`
	Registry RegistryConfig `yaml:"registry" mapstructure:"registry"`
	Classify ClassifyConfig `yaml:"classify" mapstructure:"classify"`
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// WorkbookConfig locates the procurement workbook and describes its layout.
type WorkbookConfig struct {
	Input  string `yaml:"input" mapstructure:"input"`
	Output string `yaml:"output" mapstructure:"output"`
	// CSV, when set, also exports the classified rows as CSV.
	CSV string `yaml:"csv" mapstructure:"csv"`

	sheet.Layout `yaml:",inline" mapstructure:",squash"`
}

// RegistryConfig configures the curated vendor registry.
type RegistryConfig struct {
	// File replaces the embedded registry when set.
	File   string `yaml:"file" mapstructure:"file"`
	Strict bool   `yaml:"strict" mapstructure:"strict"`
}

// ClassifyConfig configures the keyword fallback rules.
type ClassifyConfig struct {
	// RulesFile replaces the built-in rules when set.
	RulesFile string `yaml:"rules_file" mapstructure:"rules_file"`
}

// ReportConfig configures savings estimation and the report tabs.
type ReportConfig struct {
	Rates         report.Rates      `yaml:"rates" mapstructure:"rates"`
	Memo          report.MemoHeader `yaml:"memo" mapstructure:"memo"`
	Opportunities int               `yaml:"opportunities" mapstructure:"opportunities"`
}

// StoreConfig selects the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
	// ConnectAttempts bounds retries of the initial open and migration.
	ConnectAttempts int `yaml:"connect_attempts" mapstructure:"connect_attempts"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	Burst       int      `yaml:"burst" mapstructure:"burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
	MaxNames    int      `yaml:"max_names" mapstructure:"max_names"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("VENDOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	layout := sheet.DefaultLayout()
	v.SetDefault("workbook.input", "")
	v.SetDefault("workbook.output", "")
	v.SetDefault("workbook.csv", "")
	v.SetDefault("workbook.assessment_sheet", layout.AssessmentSheet)
	v.SetDefault("workbook.opportunities_sheet", layout.OpportunitiesSheet)
	v.SetDefault("workbook.methodology_sheet", layout.MethodologySheet)
	v.SetDefault("workbook.memo_sheet", layout.MemoSheet)
	v.SetDefault("workbook.name_column", layout.NameColumn)
	v.SetDefault("workbook.department_column", layout.DepartmentColumn)
	v.SetDefault("workbook.cost_column", layout.CostColumn)
	v.SetDefault("workbook.description_column", layout.DescriptionColumn)
	v.SetDefault("workbook.recommendation_column", layout.RecommendationColumn)
	v.SetDefault("workbook.header_rows", layout.HeaderRows)

	v.SetDefault("registry.file", "")
	v.SetDefault("registry.strict", false)
	v.SetDefault("classify.rules_file", "")

	rates := report.DefaultRates()
	memo := report.DefaultMemoHeader()
	v.SetDefault("report.rates.terminate", rates.Terminate)
	v.SetDefault("report.rates.consolidate", rates.Consolidate)
	v.SetDefault("report.rates.optimize", rates.Optimize)
	v.SetDefault("report.memo.to", memo.To)
	v.SetDefault("report.memo.from", memo.From)
	v.SetDefault("report.memo.subject", memo.Subject)
	v.SetDefault("report.memo.date", "")
	v.SetDefault("report.opportunities", 3)

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 1)
	v.SetDefault("store.connect_attempts", 3)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.max_names", 1000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "analyze":
		if c.Workbook.Input == "" {
			errs = append(errs, "workbook.input is required")
		}
		if c.Report.Opportunities < 1 {
			errs = append(errs, "report.opportunities must be >= 1")
		}
		if err := c.Report.Rates.Validate(); err != nil {
			errs = append(errs, err.Error())
		}
		errs = append(errs, c.validateStore()...)
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RateLimit < 0 {
			errs = append(errs, "server.rate_limit must be >= 0")
		}
		errs = append(errs, c.validateStore()...)
	case "classify":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.New(fmt.Sprintf("config: %s", strings.Join(errs, "; ")))
	}
	return nil
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case DriverSQLite, DriverNone:
		return nil
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required for the postgres driver"}
		}
		return nil
	default:
		return []string{fmt.Sprintf("store.driver %q is not one of sqlite, postgres, none", c.Store.Driver)}
	}
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
