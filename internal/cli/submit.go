package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathforge/pathforge/pkg/cache"
	"github.com/pathforge/pathforge/pkg/hosting"
	"github.com/pathforge/pathforge/pkg/httputil"
)

// submitOpts holds the command-line flags for the submit command.
type submitOpts struct {
	name        string // pathway name on the hosting API
	description string // pathway description
	id          string // existing hosted pathway to update
}

// submitCommand creates the submit command.
func (c *CLI) submitCommand() *cobra.Command {
	opts := submitOpts{}

	cmd := &cobra.Command{
		Use:   "submit <pathway-file>",
		Short: "Create or update a pathway on the hosting API",
		Long: `Upload a pathway document to the hosting API.

Without --id a new hosted pathway is created and its document uploaded in a
second call. With --id the existing hosted pathway is replaced.

The API token is read from the PATHFORGE_API_KEY environment variable.

Examples:
  pathforge submit pathway.json -n "Sales Call"
  pathforge submit pathway.json --id pw-abc123 -n "Sales Call v2"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSubmit(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "pathway name (required)")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "pathway description")
	cmd.Flags().StringVar(&opts.id, "id", "", "existing hosted pathway ID to update")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func (c *CLI) runSubmit(ctx context.Context, pathwayPath string, opts submitOpts) error {
	p, err := readPathway(pathwayPath)
	if err != nil {
		return err
	}

	client, err := c.newHostingClient()
	if err != nil {
		return err
	}

	id := opts.id
	if id == "" {
		spinner := newSpinnerWithContext(ctx, "Creating hosted pathway...")
		spinner.Start()
		id, err = client.Create(ctx, opts.name, opts.description)
		if err != nil {
			spinner.StopWithError("Create failed")
			return fmt.Errorf("create hosted pathway: %w", err)
		}
		spinner.StopWithSuccess("Created hosted pathway " + StyleHighlight.Render(id))
	}

	doc := hosting.Document{
		ID:          id,
		Name:        opts.name,
		Description: opts.description,
		Pathway:     p,
	}

	spinner := newSpinnerWithContext(ctx, "Uploading pathway document...")
	spinner.Start()
	err = client.Update(ctx, id, doc)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("upload pathway: %w", err)
	}

	printSuccess("Uploaded %d nodes and %d edges", p.NodeCount(), p.EdgeCount())
	printNextStep("Inspect it", fmt.Sprintf("pathforge hosted get %s", id))
	return nil
}

// newHostingClient builds the hosting API client from config and environment.
func (c *CLI) newHostingClient() (*hosting.Client, error) {
	token := os.Getenv("PATHFORGE_API_KEY")
	if token == "" {
		return nil, fmt.Errorf("PATHFORGE_API_KEY not set")
	}

	var respCache *httputil.Cache
	if dir, err := cacheDir(); err == nil {
		if fc, err := httputil.NewCache(dir, cache.DefaultTTL); err == nil {
			respCache = fc
		}
	}

	return hosting.NewClient(hosting.Options{
		BaseURL: c.loadConfig().Hosting.BaseURL,
		Token:   token,
		Cache:   respCache,
		Logger:  c.Logger,
	})
}
