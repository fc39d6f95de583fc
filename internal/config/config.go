package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atomicstack/torrent-console/internal/app"
	"github.com/atomicstack/torrent-console/internal/batch"
	"github.com/atomicstack/torrent-console/internal/remote"
	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Level    string
	Trace    bool
}

// EnvPrefix prefixes every environment variable that mirrors a flag, e.g.
// TORRENT_CONSOLE_PORT for --port.
const EnvPrefix = "TORRENT_CONSOLE"

const (
	flagDaemon          = "daemon"
	flagPort            = "port"
	flagUsername        = "username"
	flagPassword        = "password"
	flagWidth           = "width"
	flagHeight          = "height"
	flagRefreshInterval = "refresh-interval"
	flagEvents          = "events"
	flagLogFile         = "log-file"
	flagLogLevel        = "log-level"
	flagTrace           = "trace"
	flagExclude         = "exclude-commands"
)

// DefineFlags declares the global options on fs.
func DefineFlags(fs *pflag.FlagSet) {
	fs.StringP(flagDaemon, "d", "127.0.0.1", "address of the torrent service")
	fs.IntP(flagPort, "p", 8080, "port of the torrent service")
	fs.StringP(flagUsername, "u", "", "user name for the torrent service")
	fs.StringP(flagPassword, "P", "", "password for the torrent service")
	fs.Int(flagWidth, 0, "desired viewport width in cells (0 uses terminal width)")
	fs.Int(flagHeight, 0, "desired viewport height in rows (0 uses terminal height)")
	fs.Duration(flagRefreshInterval, 30*time.Second, "periodic torrent list refresh (0 disables)")
	fs.Bool(flagEvents, true, "subscribe to update events from the service")
	fs.String(flagLogFile, "", "path to the log file")
	fs.String(flagLogLevel, "info", "log level (debug|info|warn|error)")
	fs.Bool(flagTrace, false, "enable verbose JSON trace logging")
	fs.StringSlice(flagExclude, nil, "command names to leave out of the registry")
	_ = fs.MarkHidden(flagExclude)
}

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment. Flag parsing
// stops at the first positional argument so the command line keeps its own
// options.
func LoadArgs(args []string, environ []string) (Config, error) {
	fs := pflag.NewFlagSet("torrent-console", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SetInterspersed(false)
	DefineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := FromFlags(fs, fs.Args(), environ)
	if err != nil {
		return Config{}, err
	}
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// FromFlags resolves a parsed flag set against the environment. Explicit
// flags win over environment values, which win over flag defaults.
func FromFlags(fs *pflag.FlagSet, positional []string, environ []string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("bind flags: %w", err)
	}
	if err := v.MergeConfigMap(parseEnv(environ)); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	cfg := Config{
		App: app.Config{
			Params: remote.Params{
				Address:  v.GetString(flagDaemon),
				Port:     v.GetInt(flagPort),
				Username: v.GetString(flagUsername),
				Password: v.GetString(flagPassword),
			},
			Width:           v.GetInt(flagWidth),
			Height:          v.GetInt(flagHeight),
			RefreshInterval: v.GetDuration(flagRefreshInterval),
			Events:          v.GetBool(flagEvents),
			Exclude:         splitList(v.GetStringSlice(flagExclude)),
			CommandLine:     commandLine(positional),
		},
		Logging: Logging{
			FilePath: v.GetString(flagLogFile),
			Level:    v.GetString(flagLogLevel),
			Trace:    v.GetBool(flagTrace),
		},
		Flags: make(map[string]string),
		Args:  append([]string(nil), positional...),
	}
	fs.VisitAll(func(f *pflag.Flag) {
		value := fmt.Sprint(v.Get(f.Name))
		if f.Name == flagPassword && value != "" {
			value = "<redacted>"
		}
		cfg.Flags[f.Name] = value
	})
	return cfg, nil
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.App.Params.Address) == "" {
		return fmt.Errorf("daemon address must not be empty")
	}
	if cfg.App.Params.Port < 1 || cfg.App.Params.Port > 65535 {
		return fmt.Errorf("port must be within 1..65535 (got %d)", cfg.App.Params.Port)
	}
	if cfg.App.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", cfg.App.Width)
	}
	if cfg.App.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", cfg.App.Height)
	}
	if cfg.App.RefreshInterval < 0 {
		return fmt.Errorf("refresh interval must be >= 0 (got %s)", cfg.App.RefreshInterval)
	}
	if cfg.Logging.Level != "" {
		if _, err := log.ParseLevel(strings.ToLower(cfg.Logging.Level)); err != nil {
			return fmt.Errorf("log level %q: %w", cfg.Logging.Level, err)
		}
	}
	return nil
}

// commandLine turns the positional arguments into one batch command line.
// A single argument is taken verbatim; several are re-quoted and joined.
func commandLine(positional []string) string {
	switch len(positional) {
	case 0:
		return ""
	case 1:
		return positional[0]
	default:
		return batch.Join(positional)
	}
}

// parseEnv maps TORRENT_CONSOLE_* entries onto flag names.
func parseEnv(environ []string) map[string]interface{} {
	values := make(map[string]interface{})
	prefix := EnvPrefix + "_"
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(key, prefix), "_", "-"))
		if name == "" {
			continue
		}
		values[name] = value
	}
	return values
}

// splitList accepts both repeated flags and comma separated environment
// values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
