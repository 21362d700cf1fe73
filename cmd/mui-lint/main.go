package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"

	"mui-v7-lint/analysis"
	"mui-v7-lint/config"
	"mui-v7-lint/util"
)

const (
	exitFindings = 1
	exitSetup    = 2
)

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newPrinter(c *cli.Context) *util.Printer {
	return util.NewPrinter(os.Stdout, !c.Bool("no-color") && util.IsTerminal(os.Stdout))
}

// loadConfig reads --config, or the nearest config file above the working
// directory, and applies the command line overrides on top.
func loadConfig(c *cli.Context) (*config.Config, error) {
	file := c.String("config")
	if file == "" {
		found, ok, err := config.Find(".")
		if err != nil {
			return nil, err
		}
		if ok {
			file = found
		}
	}

	cfg := config.Default()
	if file != "" {
		var err error
		if cfg, err = config.Load(file); err != nil {
			return nil, err
		}
	}

	overrides, err := parseRuleFlags(c.StringSlice("rule"))
	if err != nil {
		return nil, err
	}
	if err := cfg.Override(c.String("preset"), overrides); err != nil {
		return nil, err
	}
	if n := c.Int("max-passes"); n > 0 {
		cfg.MaxPasses = n
	}
	return cfg, nil
}

func parseRuleFlags(flags []string) (map[string]string, error) {
	out := map[string]string{}
	for _, kv := range flags {
		key, sev, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("bad --rule %q, want key=severity", kv)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(sev)
	}
	return out, nil
}

func newEngine(c *cli.Context, cfg *config.Config) *analysis.Engine {
	return analysis.New(
		analysis.WithLogger(newLogger(c)),
		analysis.WithMaxPasses(cfg.MaxPasses),
		analysis.WithRules(cfg.EnabledRules()...),
	)
}

func main() {
	lintFlags := []cli.Flag{
		&cli.IntFlag{
			Name:  "jobs",
			Usage: "files analysed in parallel",
			Value: runtime.GOMAXPROCS(0),
		},
		&cli.IntFlag{
			Name:  "max-passes",
			Usage: "fix passes per file before giving up (overrides the config)",
		},
	}

	app := cli.App{
		Name:  "mui-lint",
		Usage: "find and fix MUI v6 patterns that break or are deprecated in v7",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "config file, default is the nearest " + config.FileName,
			},
			&cli.StringFlag{
				Name:  "preset",
				Usage: "severity preset: " + strings.Join(analysis.PresetNames(), ", "),
			},
			&cli.StringSliceFlag{
				Name:  "rule",
				Usage: "override a rule severity, as key=error|warn|off",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "never colour the output",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug output to stderr",
			},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			var exit cli.ExitCoder
			if errors.As(err, &exit) {
				if msg := exit.Error(); msg != "" {
					fmt.Fprintln(os.Stderr, msg)
				}
				os.Exit(exit.ExitCode())
			}
			fmt.Fprintf(os.Stderr, "mui-lint: %s\n", err)
			os.Exit(exitSetup)
		},
		Commands: []*cli.Command{
			{
				Name:      "lint",
				Usage:     "report migration issues",
				ArgsUsage: "[path...]",
				Flags:     lintFlags,
				Action:    lint,
			},
			{
				Name:      "fix",
				Usage:     "rewrite files with every safe fix",
				ArgsUsage: "[path...]",
				Flags: append(lintFlags, &cli.BoolFlag{
					Name:  "dry-run",
					Usage: "report what would change without writing",
				}),
				Action: fix,
			},
			{
				Name:   "rules",
				Usage:  "list the rule catalogue with the configured severities",
				Action: rules,
			},
			{
				Name:  "docs",
				Usage: "write the rule documentation as HTML",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "out",
						Usage: "output directory",
						Value: "mui-lint-docs",
					},
				},
				Action: writeDocs,
			},
			{
				Name:  "init",
				Usage: "write a default " + config.FileName,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "overwrite an existing file",
					},
				},
				Action: initConfig,
			},
			{
				Name:      "parse",
				Usage:     "print the syntax tree of a file",
				ArgsUsage: "file",
				Action:    parse,
			},
			{
				Name:      "query-repl",
				Usage:     "run tree-sitter queries against a file interactively",
				ArgsUsage: "file",
				Action:    queryRepl,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "mui-lint: %s\n", err)
		os.Exit(exitSetup)
	}
}
