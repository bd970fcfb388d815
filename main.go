package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsontree/internal/browser"
	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/errors"
	"github.com/mcncl/jsontree/internal/expansion"
	"github.com/mcncl/jsontree/internal/formatter"
	"github.com/mcncl/jsontree/internal/models"
	"github.com/mcncl/jsontree/internal/parser"
	"github.com/mcncl/jsontree/internal/query"
	"github.com/mcncl/jsontree/internal/render"
	"github.com/mcncl/jsontree/internal/search"
	"github.com/mcncl/jsontree/internal/tree"
)

// Version information
const (
	Version = "0.1.0"
)

// cli defines the command-line interface
type cli struct {
	Config  string           `help:"Path to a config file. Defaults to the nearest .jsontree.yml." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Verbose bool             `help:"Log progress information to stderr." short:"V"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`

	Format   FormatCmd   `cmd:"" help:"Pretty-print JSON with two-space indentation. Invalid input is echoed unchanged."`
	Validate ValidateCmd `cmd:"" help:"Check that the input is a single well-formed JSON value."`
	Sample   SampleCmd   `cmd:"" help:"Print an example document."`
	Search   SearchCmd   `cmd:"" help:"List keys and values containing a term, case-insensitively."`
	Tree     TreeCmd     `cmd:"" help:"Print the document as a tree of expandable nodes."`
	Query    QueryCmd    `cmd:"" help:"Select nodes with a JSONPath expression."`
	Explore  ExploreCmd  `cmd:"" help:"Browse the document interactively."`
}

// CLI holds the parsed command line
var CLI cli

// Context holds the runtime context shared by every command
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("jsontree"),
		kong.Description("Explore, search and format JSON documents"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	appCtx, err := newContext(CLI.Config, config.Overrides{Debug: CLI.Debug, Verbose: CLI.Verbose})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsontree --help\n")
		os.Exit(1)
	}
}

// newContext loads configuration, layers the global flags on top and builds
// the logger
func newContext(configPath string, flags config.Overrides) (*Context, error) {
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfigWithCLI(configPath, flags)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}

	logger := newLogger(os.Stderr, cfg.Dev)
	if configPath != "" {
		logger.Info("loaded config", slog.String("path", configPath))
	}

	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}, nil
}

// newLogger logs warnings only unless dev.verbose or dev.debug ask for more
func newLogger(w io.Writer, dev config.DevConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	switch {
	case dev.Debug:
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case dev.Verbose:
		opts.Level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// commandConfig applies per-command flags to a copy of the loaded config
func commandConfig(ctx *Context, maxResults int, asJSON bool) (*config.Config, error) {
	o := config.Overrides{MaxResults: maxResults}
	if asJSON {
		o.Format = config.OutputJSON
	}
	cfg, err := ctx.Config.WithOverrides(o)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}
	return cfg, nil
}

// FormatCmd pretty-prints its input
type FormatCmd struct {
	File string `arg:"" optional:"" help:"JSON file to read. Reads stdin when omitted." type:"path"`
}

// Run executes the format command
func (c *FormatCmd) Run(ctx *Context) error {
	text, err := readInput(ctx, c.File)
	if err != nil {
		return err
	}
	if err := parser.Validate(text); err != nil {
		if !errors.IsParsingError(err) {
			return err
		}
		ctx.Logger.Info("input is not valid JSON, echoing unchanged", slog.String("reason", err.Error()))
		return writeOutput(ctx, text)
	}
	return writeOutput(ctx, formatter.NewFormatter().Format(text)+"\n")
}

// ValidateCmd checks its input parses
type ValidateCmd struct {
	File string `arg:"" optional:"" help:"JSON file to read. Reads stdin when omitted." type:"path"`
}

// Run executes the validate command
func (c *ValidateCmd) Run(ctx *Context) error {
	root, err := parseInput(ctx, c.File)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("document is valid", slog.String("type", string(tree.Classify(root))))
	return writeOutput(ctx, "valid\n")
}

// SampleCmd prints the sample document
type SampleCmd struct{}

// Run executes the sample command
func (c *SampleCmd) Run(ctx *Context) error {
	return writeOutput(ctx, formatter.Sample()+"\n")
}

// SearchCmd lists matches for a term
type SearchCmd struct {
	Term       string `arg:"" help:"Text to look for in keys and values."`
	File       string `arg:"" optional:"" help:"JSON file to read. Reads stdin when omitted." type:"path"`
	MaxResults int    `help:"Stop after this many results (0 for no limit)." short:"m"`
	JSON       bool   `help:"Print results as a JSON array." short:"j" name:"json"`
}

// Run executes the search command
func (c *SearchCmd) Run(ctx *Context) error {
	if c.MaxResults < 0 {
		return errors.NewInputError(fmt.Sprintf("--max-results must not be negative, got %d", c.MaxResults), nil)
	}
	cfg, err := commandConfig(ctx, c.MaxResults, c.JSON)
	if err != nil {
		return err
	}
	root, err := parseInput(ctx, c.File)
	if err != nil {
		return err
	}

	results := search.Search(root, c.Term)
	total := len(results)
	results = filterResults(cfg, results)
	ctx.Logger.Info("search finished",
		slog.String("term", c.Term),
		slog.Int("matches", total),
		slog.Int("shown", len(results)),
	)

	if cfg.Output.Format == config.OutputJSON {
		return writeJSON(ctx, results)
	}

	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Entry, r.Key, r.Type, r.Match, tree.Describe(r.Value))
	}
	_ = tw.Flush()
	return writeOutput(ctx, sb.String())
}

// filterResults drops excluded paths and applies search.max_results
func filterResults(cfg *config.Config, results []models.SearchResult) []models.SearchResult {
	limit := cfg.Search.MaxResults
	filtered := make([]models.SearchResult, 0, len(results))
	for _, r := range results {
		if cfg.IsExcluded(r.Entry.String()) {
			continue
		}
		filtered = append(filtered, r)
		if limit > 0 && len(filtered) == limit {
			break
		}
	}
	return filtered
}

// TreeCmd prints the document as a tree
type TreeCmd struct {
	File      string   `arg:"" optional:"" help:"JSON file to read. Reads stdin when omitted." type:"path"`
	ExpandAll bool     `help:"Expand every node." short:"a"`
	Expand    []string `help:"JSONPath expression whose matches are expanded, along with their ancestors." short:"e"`
	Highlight string   `help:"Mark nodes matching this search term." short:"H"`
}

// Run executes the tree command
func (c *TreeCmd) Run(ctx *Context) error {
	root, err := parseInput(ctx, c.File)
	if err != nil {
		return err
	}

	store := expansion.New()
	store.Expand(models.RootKey)
	if c.ExpandAll || ctx.Config.Tree.ExpandAll {
		store.ExpandAll(root)
	}
	for _, expr := range c.Expand {
		matches, err := query.Select(root, expr)
		if err != nil {
			return err
		}
		for _, m := range matches {
			store.Reveal(m.Path)
			store.Expand(m.Path.Key())
		}
	}

	renderer := render.NewRenderer(ctx.Config.Tree.Indent)
	if c.Highlight != "" {
		results := search.Search(root, c.Highlight)
		renderer.Highlight(results)
		for _, r := range results {
			store.Reveal(r.Entry)
		}
	}

	var sb strings.Builder
	if err := renderer.Render(&sb, root, store); err != nil {
		return errors.NewOutputError("failed to render tree", err)
	}
	return writeOutput(ctx, sb.String())
}

// QueryCmd selects nodes with JSONPath
type QueryCmd struct {
	Expr string `arg:"" help:"JSONPath expression, e.g. '$.items[*].id'."`
	File string `arg:"" optional:"" help:"JSON file to read. Reads stdin when omitted." type:"path"`
	JSON bool   `help:"Print matches as a JSON array of {path, value}." short:"j" name:"json"`
}

type queryMatch struct {
	Path  models.Path  `json:"path"`
	Value models.Value `json:"value"`
}

// Run executes the query command
func (c *QueryCmd) Run(ctx *Context) error {
	cfg, err := commandConfig(ctx, 0, c.JSON)
	if err != nil {
		return err
	}
	root, err := parseInput(ctx, c.File)
	if err != nil {
		return err
	}
	matches, err := query.Select(root, c.Expr)
	if err != nil {
		return err
	}
	ctx.Logger.Info("query finished", slog.String("expr", c.Expr), slog.Int("matches", len(matches)))

	if cfg.Output.Format == config.OutputJSON {
		out := make([]queryMatch, len(matches))
		for i, m := range matches {
			out[i] = queryMatch{Path: m.Path, Value: m.Value}
		}
		return writeJSON(ctx, out)
	}

	f := formatter.NewFormatter()
	var sb strings.Builder
	for _, m := range matches {
		sb.WriteString(m.Path.String())
		sb.WriteString("\n")
		sb.WriteString(f.FormatValue(m.Value))
		sb.WriteString("\n")
	}
	return writeOutput(ctx, sb.String())
}

// ExploreCmd opens the interactive browser
type ExploreCmd struct {
	File      string `arg:"" optional:"" help:"JSON file to read. Reads stdin when omitted." type:"path"`
	ExpandAll bool   `help:"Start with every node expanded." short:"a"`
}

// Run executes the explore command
func (c *ExploreCmd) Run(ctx *Context) error {
	root, err := parseInput(ctx, c.File)
	if err != nil {
		return err
	}
	app := browser.NewApplication(root, c.ExpandAll || ctx.Config.Tree.ExpandAll)
	if err := app.Run(); err != nil {
		return errors.NewOutputError("terminal browser failed", err)
	}
	return nil
}

// parseInput reads JSON from file or stdin and parses it
func parseInput(ctx *Context, file string) (models.Value, error) {
	if file != "" {
		root, err := parser.ParseFile(file)
		if err == nil {
			ctx.Logger.Debug("parsed document", slog.String("file", file), slog.Int("nodes", tree.Count(root)))
		}
		return root, err
	}

	text, err := readInput(ctx, "")
	if err != nil {
		return models.Value{}, err
	}
	root, err := parser.ParseString(text)
	if err != nil {
		return models.Value{}, err
	}
	ctx.Logger.Debug("parsed document", slog.String("file", "<stdin>"), slog.Int("nodes", tree.Count(root)))
	return root, nil
}

// readInput returns the raw text of file, or of stdin when file is empty
func readInput(ctx *Context, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			if os.IsNotExist(err) {
				return "", errors.NewInputError(fmt.Sprintf("file '%s' not found", file), errors.ErrFileNotFound)
			}
			return "", errors.NewInputError(fmt.Sprintf("failed to open file '%s'", file), err)
		}
		return string(data), nil
	}

	// A terminal on stdin means nothing was piped in
	if f, ok := ctx.Stdin.(*os.File); ok {
		stdinInfo, err := f.Stat()
		if err != nil {
			return "", errors.NewInputError("failed to access stdin", err)
		}
		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			return "", errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

// writeOutput writes text to the command's stdout
func writeOutput(ctx *Context, text string) error {
	if _, err := io.WriteString(ctx.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

func writeJSON(ctx *Context, v any) error {
	enc := json.NewEncoder(ctx.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", formatter.Indent)
	if err := enc.Encode(v); err != nil {
		return errors.NewOutputError("failed to encode JSON output", err)
	}
	return nil
}
