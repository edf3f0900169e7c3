package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pathforge/pathforge/pkg/render"
)

// Supported render formats.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path (format inferred from extension)
	format   string // explicit format override
	detailed bool   // include prompts and intents in node labels
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <pathway-file>",
		Short: "Render a pathway as DOT, SVG, or PNG",
		Long: `Render a pathway document as a Graphviz diagram.

The output format is inferred from the output file extension, or forced with
--format. Without an output file, DOT is printed to stdout.

Examples:
  pathforge render pathway.json                    # DOT to stdout
  pathforge render pathway.json -o pathway.svg     # SVG file
  pathforge render pathway.json -o pathway.png     # PNG file
  pathforge render pathway.json --detailed         # Include prompts in labels`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, png (default: inferred)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include prompts and intents in labels")

	return cmd
}

func (c *CLI) runRender(pathwayPath string, opts renderOpts) error {
	p, err := readPathway(pathwayPath)
	if err != nil {
		return err
	}

	format := opts.format
	if format == "" {
		format = inferFormat(opts.output)
	}

	dot := render.ToDOT(p, render.Options{Detailed: opts.detailed})

	var out []byte
	switch format {
	case formatDOT:
		out = []byte(dot)
	case formatSVG:
		out, err = render.RenderSVG(dot)
	case formatPNG:
		out, err = render.RenderPNG(dot)
	default:
		return fmt.Errorf("unknown format %q (supported: dot, svg, png)", format)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	printSuccess("Rendered %s", format)
	printFile(opts.output)
	return nil
}

// inferFormat derives the output format from the file extension.
// No output file means DOT on stdout.
func inferFormat(output string) string {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".svg":
		return formatSVG
	case ".png":
		return formatPNG
	default:
		return formatDOT
	}
}
