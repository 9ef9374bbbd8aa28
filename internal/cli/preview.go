package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/imagerows/pkg/gallery"
)

// previewCommand creates the preview command, an interactive row browser.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags     layoutFlags
		fromStore bool
	)

	cmd := &cobra.Command{
		Use:   "preview [layout.json|listing.json|page.html]",
		Short: "Browse the rows of a layout interactively",
		Long: `Browse the rows of a layout interactively.

Each row shows its group, position, height and thumbnail count; fallback rows
are highlighted. Press enter to list a row's thumbnails.

With --store, pick a listing from the configured store instead of a file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				l   gallery.Layout
				ok  = true
				err error
			)
			switch {
			case fromStore:
				l, ok, err = c.pickStoredLayout(cmd, flags)
			case len(args) == 1:
				l, err = c.partitionLayout(args[0], flags)
			default:
				return fmt.Errorf("a file argument or --store is required")
			}
			if err != nil || !ok {
				return err
			}

			_, err = tea.NewProgram(NewRowListModel(l)).Run()
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&fromStore, "store", false, "pick a listing from the configured store")

	return cmd
}

// pickStoredLayout lets the user select a stored listing and lays it out.
// ok is false when there is nothing to pick or the user quits.
func (c *CLI) pickStoredLayout(cmd *cobra.Command, flags layoutFlags) (l gallery.Layout, ok bool, err error) {
	ctx := cmd.Context()
	st, err := c.conf().OpenStore(ctx)
	if err != nil {
		return l, false, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	summaries, err := st.List(ctx)
	if err != nil {
		return l, false, err
	}
	if len(summaries) == 0 {
		printInfo("No stored listings")
		printNextStep("Add one", appName+" store put listing.json")
		return l, false, nil
	}

	final, err := tea.NewProgram(NewListingListModel(summaries)).Run()
	if err != nil {
		return l, false, err
	}
	picked := final.(ListingListModel).Selected
	if picked == nil {
		return l, false, nil
	}

	listing, err := st.Get(ctx, picked.ID)
	if err != nil {
		return l, false, err
	}
	runner, err := c.newRunner(cmd, false)
	if err != nil {
		return l, false, err
	}
	defer runner.Close()
	l, err = runner.ComputeLayout(ctx, listing, c.options(flags))
	return l, err == nil, err
}
