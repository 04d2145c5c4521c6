package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "borderroute.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(newFlagSet(), nil, env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.SymmetricWeights)
}

func TestParsePrecedence(t *testing.T) {
	path := writeFile(t, `
addr: ":9000"
metric: hops
request_timeout: 750ms
log_level: debug
`)
	cfg, err := Parse(newFlagSet(), []string{"-config", path, "-log-level", "warn"}, env(map[string]string{
		"BORDERROUTE_ADDR": ":9100",
		"DB_DSN":           "user:pass@tcp(db:3306)/geo",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Addr, "env beats file")
	assert.Equal(t, "hops", cfg.Metric, "file beats default")
	assert.Equal(t, 750*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, "warn", cfg.LogLevel, "flag beats file")
	assert.Equal(t, "user:pass@tcp(db:3306)/geo", cfg.MySQLDSN)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestParseConfigFromEnv(t *testing.T) {
	path := writeFile(t, "heuristic: false\n")
	cfg, err := Parse(newFlagSet(), nil, env(map[string]string{"BORDERROUTE_CONFIG": path}))
	require.NoError(t, err)
	assert.False(t, cfg.Heuristic)

	cfg, err = Parse(newFlagSet(), []string{"-heuristic=true"}, env(map[string]string{"BORDERROUTE_CONFIG": path}))
	require.NoError(t, err)
	assert.True(t, cfg.Heuristic)
}

func TestParseEnvCoversEveryField(t *testing.T) {
	path := writeFile(t, "symmetric_weights: true\nshutdown_timeout: 3s\n")
	cfg, err := Parse(newFlagSet(), []string{"-config", path}, env(map[string]string{
		"BORDERROUTE_DATA_FILE":         "/srv/countries.json",
		"BORDERROUTE_METRIC":            "hops",
		"BORDERROUTE_HEURISTIC":         "false",
		"BORDERROUTE_SYMMETRIC_WEIGHTS": "false",
		"BORDERROUTE_REQUEST_TIMEOUT":   "1500ms",
		"BORDERROUTE_SHUTDOWN_TIMEOUT":  "30s",
		"BORDERROUTE_LOG_FORMAT":        "console",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/srv/countries.json", cfg.DataFile)
	assert.Equal(t, "hops", cfg.Metric)
	assert.False(t, cfg.Heuristic)
	assert.False(t, cfg.SymmetricWeights, "env beats file")
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout, "env beats file")
	assert.Equal(t, "console", cfg.LogFormat)

	cfg, err = Parse(newFlagSet(), []string{"-symmetric=true", "-shutdown-timeout", "5s"}, env(map[string]string{
		"BORDERROUTE_SYMMETRIC_WEIGHTS": "false",
		"BORDERROUTE_SHUTDOWN_TIMEOUT":  "30s",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.SymmetricWeights, "flag beats env")
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFileRejectsUnknownKeys(t *testing.T) {
	_, err := LoadFile(writeFile(t, "adress: \":1\"\n"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseInvalid(t *testing.T) {
	cases := map[string]struct {
		args []string
		env  map[string]string
	}{
		"metric":     {args: []string{"-metric", "time"}},
		"timeout":    {args: []string{"-request-timeout", "0s"}},
		"log format": {args: []string{"-log-format", "xml"}},
		"log level":  {env: map[string]string{"BORDERROUTE_LOG_LEVEL": "loud"}},
		"bool env":   {env: map[string]string{"BORDERROUTE_HEURISTIC": "maybe"}},
		"symmetric":  {env: map[string]string{"BORDERROUTE_SYMMETRIC_WEIGHTS": "sometimes"}},
		"shutdown":   {env: map[string]string{"BORDERROUTE_SHUTDOWN_TIMEOUT": "soon"}},
		"bad flag":   {args: []string{"-nope"}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(newFlagSet(), tc.args, env(tc.env))
			assert.Error(t, err)
		})
	}
}
