package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ritvikPuranik/email-trading-bot/cmd"
	"github.com/ritvikPuranik/email-trading-bot/substitutor"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const serviceName = "credtmpl"

// newLogger is replaced in tests.
var newLogger = cmd.NewLogger

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  serviceName,
		Usage: "fill environment values into a credentials template",
		Description: "Replaces ${NAME} placeholders in a credentials template with values from the\n" +
			"environment and .env files, overwriting the template in place.",
		Flags:  append(globalFlags(), renderFlags()...),
		Action: withLogger("render", render),
		Commands: []*cli.Command{{
			Name:   "render",
			Usage:  "substitute placeholders in the template (default)",
			Flags:  renderFlags(),
			Action: withLogger("render", render),
		}, {
			Name:  "generate",
			Usage: "write a Google OAuth web client credentials file from the environment",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    cmd.FlagOutput,
					Aliases: []string{"o"},
					Usage:   "credentials file to write (default " + substitutor.DefaultFile + ")",
				},
				missingFlag(),
			},
			Action: withLogger("generate", generate),
		}, {
			Name:  "check",
			Usage: "list the placeholders in the template and whether their variables are set",
			Flags: []cli.Flag{
				fileFlag(),
				profileFlag(),
				placeholderFlag(),
			},
			Action: withLogger("check", check),
		}},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    cmd.FlagLogLevel,
			Value:   "info",
			Usage:   "log level (debug, info, warn, error)",
			EnvVars: []string{"CREDTMPL_LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:  cmd.FlagConfig,
			Usage: "YAML config file (default " + cmd.ConfigLocation(serviceName) + " when present)",
		},
		&cli.StringSliceFlag{
			Name:  cmd.FlagEnvFile,
			Usage: ".env files to load, host variables take precedence (default .env)",
		},
	}
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		fileFlag(),
		&cli.StringFlag{
			Name:    cmd.FlagOutput,
			Aliases: []string{"o"},
			Usage:   "write the result here instead of overwriting the template",
		},
		profileFlag(),
		placeholderFlag(),
		missingFlag(),
		&cli.BoolFlag{
			Name:  cmd.FlagExpandAll,
			Usage: "expand every ${NAME} reference, not only the profile's placeholders",
		},
		&cli.BoolFlag{
			Name:  cmd.FlagValidateJSON,
			Usage: "refuse to write output that is not valid JSON",
		},
	}
}

func fileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    cmd.FlagFile,
		Aliases: []string{"f"},
		Usage:   "template file (default credentials.json)",
	}
}

func profileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  cmd.FlagProfile,
		Usage: "placeholder profile (" + strings.Join(substitutor.ProfileNames(), ", ") + ")",
	}
}

func placeholderFlag() cli.Flag {
	return &cli.StringSliceFlag{
		Name:  cmd.FlagPlaceholder,
		Usage: "placeholder name to substitute, overrides --profile",
	}
}

func missingFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  cmd.FlagMissing,
		Usage: "what unset variables become: empty, keep or error",
	}
}

type action func(c *cli.Context, logger *zap.Logger) error

// withLogger builds the logger for an action and logs the error it
// returns.
func withLogger(name string, fn action) cli.ActionFunc {
	return func(c *cli.Context) error {
		logger, err := newLogger(c.String(cmd.FlagLogLevel))
		if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "ERROR: %v\n", err)
			return err
		}
		defer logger.Sync()

		if err := fn(c, logger); err != nil {
			logger.Error(name+" failed", zap.Error(err))
			return err
		}
		return nil
	}
}

func render(c *cli.Context, logger *zap.Logger) error {
	cfg, err := cmd.LoadConfig(c, serviceName)
	if err != nil {
		return err
	}
	if err := substitutor.LoadEnvironment(cfg.EnvFiles...); err != nil {
		return err
	}
	s, err := cfg.NewSubstitutor(substitutor.OSEnvironment{}, logger)
	if err != nil {
		return err
	}
	_, err = s.Render(cfg.File, cfg.OutputPath())
	return err
}

func generate(c *cli.Context, logger *zap.Logger) error {
	cfg, err := cmd.LoadConfig(c, serviceName)
	if err != nil {
		return err
	}
	if err := substitutor.LoadEnvironment(cfg.EnvFiles...); err != nil {
		return err
	}
	missing, err := substitutor.ParseMissingPolicy(cfg.Missing)
	if err != nil {
		return err
	}
	doc, err := substitutor.GenerateWebCredentials(substitutor.OSEnvironment{}, missing)
	if err != nil {
		return err
	}
	// The configured template is an input of render, never a target here.
	path := cfg.Output
	if path == "" {
		path = substitutor.DefaultFile
	}
	if err := substitutor.WriteFile(path, string(doc)); err != nil {
		return err
	}
	logger.Info("generated credentials", zap.String("output", path))
	return nil
}

func check(c *cli.Context, logger *zap.Logger) error {
	cfg, err := cmd.LoadConfig(c, serviceName)
	if err != nil {
		return err
	}
	if err := substitutor.LoadEnvironment(cfg.EnvFiles...); err != nil {
		return err
	}
	names, err := substitutor.ResolvePlaceholders(cfg.Profile, cfg.Placeholders)
	if err != nil {
		return err
	}
	buf, err := substitutor.ReadFile(cfg.File)
	if err != nil {
		return err
	}

	configured := make(map[string]bool, len(names))
	for _, name := range names {
		configured[name] = true
	}

	env := substitutor.OSEnvironment{}
	var unset []string
	for _, name := range substitutor.Placeholders(buf) {
		status := "set"
		switch _, ok := env.Lookup(name); {
		case !configured[name]:
			status = "ignored"
		case !ok:
			status = "unset"
			unset = append(unset, name)
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", name, status)
	}
	logger.Debug("checked template", zap.String("template", cfg.File), zap.Strings("unset", unset))

	if len(unset) > 0 {
		return fmt.Errorf("%d placeholder(s) unset: %s", len(unset), strings.Join(unset, ", "))
	}
	return nil
}
