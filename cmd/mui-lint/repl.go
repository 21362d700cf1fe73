package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/urfave/cli/v2"

	"mui-v7-lint/analysis"
)

func parseFile(c *cli.Context) (analysis.Language, *sitter.Tree, []byte, error) {
	if c.Args().Len() != 1 {
		return analysis.LanguageUnknown, nil, nil, cli.Exit("I need exactly one file to parse.", exitSetup)
	}
	path := c.Args().First()
	lang, err := analysis.LanguageFor(path)
	if err != nil {
		return lang, nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return lang, nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	tree, err := analysis.Parser(lang).ParseCtx(c.Context, nil, data)
	if err != nil {
		return lang, nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return lang, tree, data, nil
}

func parse(c *cli.Context) error {
	_, tree, _, err := parseFile(c)
	if err != nil {
		return err
	}
	fmt.Println(tree.RootNode().String())
	return nil
}

// runQuery prints every capture of query over root.
func runQuery(w io.Writer, lang analysis.Language, root *sitter.Node, data, query []byte) error {
	q, err := sitter.NewQuery(query, lang.Grammar())
	if err != nil {
		return fmt.Errorf("bad query: %w", err)
	}
	qc := sitter.NewQueryCursor()
	qc.Exec(q, root)

	for match, ok := qc.NextMatch(); ok; match, ok = qc.NextMatch() {
		for idx, capture := range match.Captures {
			fmt.Fprintf(w, "capture %d %s %s\n", idx, q.CaptureNameForId(capture.Index), capture.Node.String())
			fmt.Fprintln(w, capture.Node.Content(data))
		}
		fmt.Fprintln(w, "===")
	}
	return nil
}

func queryRepl(c *cli.Context) error {
	lang, tree, data, err := parseFile(c)
	if err != nil {
		return err
	}

	rl, err := readline.New("> ")
	if err != nil {
		return fmt.Errorf("failed to start prompt: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(rl.Stdout(), `Type a tree-sitter query, or ":load FILE" to run the query in FILE.`)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil { // io.EOF
			return nil
		}

		line = strings.TrimSpace(line)
		query := []byte(line)
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, ":load "):
			file := strings.TrimSpace(strings.TrimPrefix(line, ":load "))
			if query, err = os.ReadFile(file); err != nil {
				fmt.Fprintf(rl.Stderr(), "failed to read %s: %s\n", file, err)
				continue
			}
		}

		if err := runQuery(rl.Stdout(), lang, tree.RootNode(), data, query); err != nil {
			fmt.Fprintln(rl.Stderr(), err)
		}
	}
}
