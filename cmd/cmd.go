package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ritvikPuranik/email-trading-bot/substitutor"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Flag names shared by the credtmpl commands.
const (
	FlagLogLevel     = "log-level"
	FlagConfig       = "config"
	FlagEnvFile      = "env-file"
	FlagFile         = "file"
	FlagOutput       = "output"
	FlagProfile      = "profile"
	FlagPlaceholder  = "placeholder"
	FlagMissing      = "missing"
	FlagExpandAll    = "expand-all"
	FlagValidateJSON = "validate-json"
)

// NewLogger returns a console logger writing to stderr at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// LoadConfig resolves the run configuration. The file named by --config
// is read when given; otherwise the file at ConfigLocation(serviceName)
// is read if it exists. Flags that were set explicitly override both.
func LoadConfig(c *cli.Context, serviceName string) (*substitutor.Config, error) {
	cfg, err := readConfig(c, serviceName)
	if err != nil {
		return nil, err
	}

	if ctx, ok := lookupSet(c, FlagEnvFile); ok {
		cfg.EnvFiles = ctx.StringSlice(FlagEnvFile)
	}
	if ctx, ok := lookupSet(c, FlagFile); ok {
		cfg.File = ctx.String(FlagFile)
	}
	if ctx, ok := lookupSet(c, FlagOutput); ok {
		cfg.Output = ctx.String(FlagOutput)
	}
	if ctx, ok := lookupSet(c, FlagProfile); ok {
		cfg.Profile = ctx.String(FlagProfile)
		cfg.Placeholders = nil
	}
	if ctx, ok := lookupSet(c, FlagPlaceholder); ok {
		cfg.Placeholders = ctx.StringSlice(FlagPlaceholder)
	}
	if ctx, ok := lookupSet(c, FlagMissing); ok {
		cfg.Missing = ctx.String(FlagMissing)
	}
	if ctx, ok := lookupSet(c, FlagExpandAll); ok {
		cfg.ExpandAll = ctx.Bool(FlagExpandAll)
	}
	if ctx, ok := lookupSet(c, FlagValidateJSON); ok {
		cfg.ValidateJSON = ctx.Bool(FlagValidateJSON)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readConfig(c *cli.Context, serviceName string) (*substitutor.Config, error) {
	if ctx, ok := lookupSet(c, FlagConfig); ok {
		return substitutor.LoadConfig(ctx.String(FlagConfig))
	}
	path := ConfigLocation(serviceName)
	_, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return substitutor.DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return substitutor.LoadConfig(path)
}

// lookupSet returns the innermost context in which the flag name was set.
// cli only consults the innermost context that declares a flag, so a
// value given to the app before a command that redeclares the same flag
// would otherwise be lost.
func lookupSet(c *cli.Context, name string) (*cli.Context, bool) {
	for _, ctx := range c.Lineage() {
		if ctx.IsSet(name) {
			return ctx, true
		}
	}
	return nil, false
}
