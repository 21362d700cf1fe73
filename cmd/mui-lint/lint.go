package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/iafan/cwalk"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"mui-v7-lint/analysis"
	"mui-v7-lint/config"
)

type fileResult struct {
	path  string
	body  []byte
	diags []analysis.Diagnostic
	// applied counts the diagnostics whose fixes were written.
	applied int
}

// projectRoot is the directory config globs are relative to.
func projectRoot(cfg *config.Config) string {
	if cfg.Path != "" {
		return filepath.Dir(cfg.Path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// relative returns path relative to root, or relative to the walked
// directory when path lies outside root.
func relative(root, walked, path string) string {
	abs, err := filepath.Abs(path)
	if err == nil {
		if rel, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	rel, err := filepath.Rel(walked, path)
	if err != nil {
		return path
	}
	return rel
}

// discover returns the source files under paths that cfg selects, sorted.
// Files named on the command line are taken as long as they can be parsed.
func discover(cfg *config.Config, paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	root := projectRoot(cfg)

	var mu sync.Mutex
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if analysis.IsSourceFile(p) {
				files = append(files, p)
			}
			continue
		}

		err = cwalk.Walk(p, func(rel string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return nil
			}
			path := filepath.Join(p, rel)
			if !cfg.Matches(relative(root, p, path)) {
				return nil
			}
			mu.Lock()
			files = append(files, path)
			mu.Unlock()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// process runs fn over files with at most jobs files in flight and returns
// the results in file order.
func process(ctx context.Context, files []string, jobs int, fn func(ctx context.Context, path string, body []byte) (fileResult, error)) ([]fileResult, error) {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, path := range files {
		g.Go(func() error {
			body, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			res, err := fn(ctx, path, body)
			if err != nil {
				return err
			}
			res.path = path
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// report prints every diagnostic that is not switched off and returns an
// exit error when any of them is an error.
func report(c *cli.Context, cfg *config.Config, results []fileResult) error {
	printer := newPrinter(c)
	var errs, warnings, fixed int
	for _, res := range results {
		fixed += res.applied
		for _, d := range res.diags {
			sev := cfg.Severity(d.Key)
			switch sev {
			case analysis.SeverityOff:
				continue
			case analysis.SeverityError:
				errs++
			default:
				warnings++
			}
			if err := printer.Diagnostic(res.path, res.body, d, sev); err != nil {
				return err
			}
		}
	}
	if err := printer.Summary(len(results), errs, warnings, fixed); err != nil {
		return err
	}
	if errs > 0 {
		return cli.Exit("", exitFindings)
	}
	return nil
}

func lint(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	files, err := discover(cfg, c.Args().Slice())
	if err != nil {
		return err
	}
	eng := newEngine(c, cfg)

	results, err := process(c.Context, files, c.Int("jobs"), func(ctx context.Context, path string, body []byte) (fileResult, error) {
		diags, err := eng.Lint(ctx, path, body)
		if err != nil {
			return fileResult{}, fmt.Errorf("failed to lint %s: %w", path, err)
		}
		return fileResult{body: body, diags: diags}, nil
	})
	if err != nil {
		return err
	}
	return report(c, cfg, results)
}

func fix(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	files, err := discover(cfg, c.Args().Slice())
	if err != nil {
		return err
	}
	eng := newEngine(c, cfg)
	logger := newLogger(c)
	dryRun := c.Bool("dry-run")

	results, err := process(c.Context, files, c.Int("jobs"), func(ctx context.Context, path string, body []byte) (fileResult, error) {
		res, err := eng.Fix(ctx, path, body)
		if err != nil {
			return fileResult{}, fmt.Errorf("failed to fix %s: %w", path, err)
		}
		if res.Changed() {
			logger.Info("fixed file", "file", path, "passes", res.Passes, "applied", len(res.Applied), "dry-run", dryRun)
			if !dryRun {
				if err := writeFile(path, res.Body); err != nil {
					return fileResult{}, err
				}
			}
		}
		return fileResult{body: res.Body, diags: res.Remaining, applied: len(res.Applied)}, nil
	})
	if err != nil {
		return err
	}
	return report(c, cfg, results)
}

// writeFile replaces the contents of path and keeps its permissions.
func writeFile(path string, body []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, body, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write fixed file %s: %w", path, err)
	}
	return nil
}
