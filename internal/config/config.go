package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/atharv3903/borderroute/internal/algo"
)

// ServerConfig is resolved from defaults, then the optional YAML file, then
// environment variables, then command line flags.
type ServerConfig struct {
	Addr             string        `yaml:"addr"`
	DataFile         string        `yaml:"data_file"`
	MySQLDSN         string        `yaml:"mysql_dsn"`
	Metric           string        `yaml:"metric"`
	Heuristic        bool          `yaml:"heuristic"`
	SymmetricWeights bool          `yaml:"symmetric_weights"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
	LogFormat        string        `yaml:"log_format"`
	LogLevel         string        `yaml:"log_level"`
}

func Default() ServerConfig {
	return ServerConfig{
		Addr:             ":8080",
		Metric:           string(algo.MetricDistance),
		Heuristic:        true,
		SymmetricWeights: true,
		RequestTimeout:   2 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		LogFormat:        "json",
		LogLevel:         "info",
	}
}

func FromFlagsServer() (ServerConfig, error) {
	return Parse(flag.CommandLine, os.Args[1:], os.Getenv)
}

// Parse resolves the configuration from args and getenv using fs.
func Parse(fs *flag.FlagSet, args []string, getenv func(string) string) (ServerConfig, error) {
	cfg := Default()

	var path string
	var f ServerConfig
	fs.StringVar(&path, "config", getenv("BORDERROUTE_CONFIG"), "YAML config file")
	fs.StringVar(&f.Addr, "addr", cfg.Addr, "HTTP bind address")
	fs.StringVar(&f.DataFile, "data", cfg.DataFile, "countries JSON file (embedded dataset when empty)")
	fs.StringVar(&f.MySQLDSN, "dsn", cfg.MySQLDSN, "MySQL DSN of a countries table (overrides -data)")
	fs.StringVar(&f.Metric, "metric", cfg.Metric, "route metric: distance or hops")
	fs.BoolVar(&f.Heuristic, "heuristic", cfg.Heuristic, "A* ordering for the distance metric")
	fs.BoolVar(&f.SymmetricWeights, "symmetric", cfg.SymmetricWeights, "compute each border weight once per pair")
	fs.DurationVar(&f.RequestTimeout, "request-timeout", cfg.RequestTimeout, "per request timeout")
	fs.DurationVar(&f.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&f.LogFormat, "log-format", cfg.LogFormat, "json, text or console")
	fs.StringVar(&f.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return cfg, err
		}
	}

	if err := applyEnv(&cfg, getenv); err != nil {
		return cfg, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "addr":
			cfg.Addr = f.Addr
		case "data":
			cfg.DataFile = f.DataFile
		case "dsn":
			cfg.MySQLDSN = f.MySQLDSN
		case "metric":
			cfg.Metric = f.Metric
		case "heuristic":
			cfg.Heuristic = f.Heuristic
		case "symmetric":
			cfg.SymmetricWeights = f.SymmetricWeights
		case "request-timeout":
			cfg.RequestTimeout = f.RequestTimeout
		case "shutdown-timeout":
			cfg.ShutdownTimeout = f.ShutdownTimeout
		case "log-format":
			cfg.LogFormat = f.LogFormat
		case "log-level":
			cfg.LogLevel = f.LogLevel
		}
	})

	return cfg, cfg.Validate()
}

// LoadFile reads a YAML file over the defaults. Unknown keys are rejected.
func LoadFile(path string) (ServerConfig, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *ServerConfig, getenv func(string) string) error {
	str := map[string]*string{
		"BORDERROUTE_ADDR":       &cfg.Addr,
		"BORDERROUTE_DATA_FILE":  &cfg.DataFile,
		"DB_DSN":                 &cfg.MySQLDSN,
		"BORDERROUTE_METRIC":     &cfg.Metric,
		"BORDERROUTE_LOG_FORMAT": &cfg.LogFormat,
		"BORDERROUTE_LOG_LEVEL":  &cfg.LogLevel,
	}
	for key, dst := range str {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"BORDERROUTE_HEURISTIC":         &cfg.Heuristic,
		"BORDERROUTE_SYMMETRIC_WEIGHTS": &cfg.SymmetricWeights,
	}
	for key, dst := range bools {
		if v := getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			*dst = b
		}
	}

	durations := map[string]*time.Duration{
		"BORDERROUTE_REQUEST_TIMEOUT":  &cfg.RequestTimeout,
		"BORDERROUTE_SHUTDOWN_TIMEOUT": &cfg.ShutdownTimeout,
	}
	for key, dst := range durations {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("config: %s: %w", key, err)
			}
			*dst = d
		}
	}
	return nil
}

func (c ServerConfig) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is empty"))
	}
	if _, err := algo.ParseMetric(c.Metric); err != nil {
		errs = append(errs, err)
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	switch c.LogFormat {
	case "json", "text", "console":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", c.LogLevel))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
