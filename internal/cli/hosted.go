package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pathforge/pathforge/pkg/hosting"
)

// hostedCommand creates the hosted command with subcommands.
func (c *CLI) hostedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hosted",
		Short: "Browse pathways stored on the hosting API",
		Long: `List, inspect, and download pathways from the hosting API.

The API token is read from the PATHFORGE_API_KEY environment variable.
Responses are cached locally; pass --refresh to bypass the cache.`,
	}

	cmd.AddCommand(c.hostedListCommand())
	cmd.AddCommand(c.hostedGetCommand())
	cmd.AddCommand(c.hostedBrowseCommand())

	return cmd
}

// hostedListCommand creates the "hosted list" subcommand.
func (c *CLI) hostedListCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hosted pathways",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newHostingClient()
			if err != nil {
				return err
			}

			pathways, err := c.fetchHostedList(cmd.Context(), client, refresh)
			if err != nil {
				return err
			}
			if len(pathways) == 0 {
				printInfo("No hosted pathways")
				return nil
			}

			for _, p := range pathways {
				fmt.Println(StyleHighlight.Render(p.ID) + "  " + StyleValue.Render(p.Name))
				if p.Description != "" {
					printDetail("%s", p.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the response cache")
	return cmd
}

// hostedGetCommand creates the "hosted get" subcommand.
func (c *CLI) hostedGetCommand() *cobra.Command {
	var (
		refresh bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "get <pathway-id>",
		Short: "Download a hosted pathway document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newHostingClient()
			if err != nil {
				return err
			}
			return c.fetchHostedPathway(cmd.Context(), client, args[0], refresh, output)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the response cache")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// hostedBrowseCommand creates the "hosted browse" subcommand with an
// interactive picker.
func (c *CLI) hostedBrowseCommand() *cobra.Command {
	var (
		refresh bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively select and download a hosted pathway",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := c.newHostingClient()
			if err != nil {
				return err
			}

			pathways, err := c.fetchHostedList(ctx, client, refresh)
			if err != nil {
				return err
			}
			if len(pathways) == 0 {
				printInfo("No hosted pathways")
				return nil
			}

			model := NewPathwayListModel(pathways)
			final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("selection: %w", err)
			}

			selected := final.(PathwayListModel).Selected
			if selected == nil {
				return nil
			}
			return c.fetchHostedPathway(ctx, client, selected.ID, refresh, output)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the response cache")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

func (c *CLI) fetchHostedList(ctx context.Context, client *hosting.Client, refresh bool) ([]hosting.Summary, error) {
	spinner := newSpinnerWithContext(ctx, "Fetching hosted pathways...")
	spinner.Start()
	pathways, err := client.List(ctx, refresh)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("list hosted pathways: %w", err)
	}
	return pathways, nil
}

func (c *CLI) fetchHostedPathway(ctx context.Context, client *hosting.Client, id string, refresh bool, output string) error {
	spinner := newSpinnerWithContext(ctx, "Fetching pathway...")
	spinner.Start()
	doc, err := client.Get(ctx, id, refresh)
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("get pathway %s: %w", id, err)
	}
	if doc.Pathway == nil {
		printWarning("Hosted pathway %s has no document yet", id)
		return nil
	}

	if output != "" {
		printSuccess("Fetched hosted pathway")
		printKeyValue("Name", doc.Name)
		printKeyValue("ID", doc.ID)
		printStats(doc.Pathway.NodeCount(), doc.Pathway.EdgeCount(), false)
		printFile(output)
	}
	return writePathway(doc.Pathway, output)
}
