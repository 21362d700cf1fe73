package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"mui-v7-lint/analysis"
	"mui-v7-lint/config"
	"mui-v7-lint/docs"
)

func rules(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RULE\tTIER\tFIXABLE\tSEVERITY\tTITLE")
	for _, r := range analysis.DefaultRules {
		title := ""
		if doc, ok := analysis.Doc(r.Key()); ok {
			title = doc.Title
		}
		fixable := "no"
		if r.Fixable() {
			fixable = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Key(), r.Tier(), fixable, cfg.Severity(r.Key()), title)
	}
	for _, key := range analysis.EngineKeys() {
		title := ""
		if doc, ok := analysis.Doc(key); ok {
			title = doc.Title
		}
		tier, err := analysis.TierOf(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", key, tier, "-", cfg.Severity(key), title)
	}
	return w.Flush()
}

func writeDocs(c *cli.Context) error {
	files, err := docs.WriteAll(c.String("out"))
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Println(f)
	}
	return nil
}

func initConfig(c *cli.Context) error {
	if _, err := os.Stat(config.FileName); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists, use --force to overwrite it", config.FileName)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", config.FileName, err)
	}

	f, err := os.Create(config.FileName)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", config.FileName, err)
	}
	defer f.Close()

	if err := config.Default().Encode(f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}
	fmt.Printf("wrote %s\n", config.FileName)
	return nil
}
