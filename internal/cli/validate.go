package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathforge/pathforge/pkg/pathway"
	"github.com/pathforge/pathforge/pkg/transform/validate"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <pathway-file>",
		Short: "Validate a pathway document",
		Long: `Run the validation passes over a pathway document and report findings.

The exit code is zero even when findings exist; pass --strict to fail on any
finding.

Examples:
  pathforge validate pathway.json
  pathforge validate pathway.json --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPathway(args[0])
			if err != nil {
				return err
			}

			findings := validate.NewValidator().Validate(p)
			printInfo("Validated %d nodes and %d edges", p.NodeCount(), p.EdgeCount())
			printFindings(findings)

			if strict && len(findings) > 0 {
				return fmt.Errorf("%d validation findings", len(findings))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when findings exist")
	return cmd
}

// readPathway loads a pathway document from disk.
func readPathway(path string) (*pathway.Pathway, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pathway file: %w", err)
	}
	defer f.Close()

	p, err := pathway.Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse pathway %s: %w", path, err)
	}
	return p, nil
}
