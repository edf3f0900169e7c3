package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathforge/pathforge/pkg/pathway"
	"github.com/pathforge/pathforge/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output      string // output file path (stdout if empty)
	name        string // pathway name
	refresh     bool   // bypass the pathway result cache
	noCache     bool   // disable caching entirely
	concurrency int    // parallel naming calls
	timeout     int    // per-call naming timeout (seconds)
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{}

	cmd := &cobra.Command{
		Use:   "build <items-file>",
		Short: "Build a conversation pathway from a content items file",
		Long: `Build a conversation pathway from a JSON file of content items.

Each item is either a plain string (treated as a conversational prompt) or an
object with a "content" field holding the prompt payload:

  [
    "Greet the caller and introduce yourself",
    {"id": "2", "content": "{\"prompt\": \"Ask about their needs\", \"type\": \"voice_prompt\"}"}
  ]

Examples:
  pathforge build items.json                  # Print the pathway to stdout
  pathforge build items.json -o pathway.json  # Write to a file
  pathforge build items.json -n "Sales Call"  # Name the pathway`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "pathway name")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even if a cached result exists")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "parallel naming calls (0 = default)")
	cmd.Flags().IntVar(&opts.timeout, "timeout", 0, "naming call timeout in seconds (0 = default)")

	return cmd
}

func (c *CLI) runBuild(ctx context.Context, itemsPath string, opts buildOpts) error {
	items, err := readItems(itemsPath)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	cfg := c.loadConfig()
	pipeOpts := pipeline.Options{
		PathwayName: opts.name,
		Refresh:     opts.refresh,
		Concurrency: firstPositive(opts.concurrency, cfg.Naming.Concurrency),
		CallTimeout: time.Duration(firstPositive(opts.timeout, cfg.Naming.CallTimeoutSeconds)) * time.Second,
		Namer:       c.newNamer(runner),
		Logger:      c.Logger,
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building pathway from %d items...", len(items)))
	spinner.Start()
	result, err := runner.Execute(ctx, items, pipeOpts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Built %d nodes and %d edges", result.Stats.NodeCount, result.Stats.EdgeCount))

	printSuccess("Built %s", result.Name)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.PathwayHit)
	printFindings(result.Findings)

	if err := writePathway(result.Pathway, opts.output); err != nil {
		return err
	}
	if opts.output != "" {
		printFile(opts.output)
		printNextStep("Render it", fmt.Sprintf("pathforge render %s -o pathway.svg", opts.output))
	}
	return nil
}

// readItems loads content items from a JSON file. Entries are plain strings
// or objects; objects without a "content" field are re-serialized and passed
// through as the payload itself.
func readItems(path string) ([]pipeline.ContentItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("items file must be a JSON array: %w", err)
	}

	items := make([]pipeline.ContentItem, 0, len(raw))
	for i, entry := range raw {
		item := pipeline.ContentItem{ID: fmt.Sprintf("%d", i+1)}

		var s string
		if err := json.Unmarshal(entry, &s); err == nil {
			item.Content = s
			items = append(items, item)
			continue
		}

		var obj struct {
			ID      string `json:"id"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(entry, &obj); err != nil {
			return nil, fmt.Errorf("item %d: expected string or object: %w", i+1, err)
		}
		if obj.ID != "" {
			item.ID = obj.ID
		}
		if obj.Content != "" {
			item.Content = obj.Content
		} else {
			item.Content = string(entry)
		}
		items = append(items, item)
	}
	return items, nil
}

// printFindings lists validation findings, or confirms a clean pathway.
func printFindings(findings []pathway.ValidationError) {
	if len(findings) == 0 {
		printDetail("No validation findings")
		return
	}
	printWarning("%d validation findings", len(findings))
	for _, f := range findings {
		printDetail("%s", f.Error())
	}
}

// writePathway serializes the pathway as indented JSON to path (stdout if empty).
func writePathway(p *pathway.Pathway, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return pathway.Write(p, out)
}

// firstPositive returns the first value greater than zero.
func firstPositive(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}
