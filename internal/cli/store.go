package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imagerows/pkg/errors"
	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/store"
)

// storeCommand creates the store command for managing saved listings.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage listings saved in the configured store",
		Long: `Manage listings saved in the configured store.

The store backend is selected in the [store] section of the config file:
memory (per process), file or mongo. Saved listings are served under
/v1/listings by 'serve'.`,
	}

	cmd.AddCommand(c.storePutCommand())
	cmd.AddCommand(c.storeGetCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeDeleteCommand())

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(cmd *cobra.Command, fn func(store.Store) error) error {
	st, err := c.conf().OpenStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

func (c *CLI) storePutCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "put [listing.json|page.html]",
		Short: "Save a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.readListing(args[0], c.options(layoutFlags{}))
			if err != nil {
				return err
			}
			if id != "" {
				l.ID = id
			}
			if err := errors.ValidateListingID(l.ID); err != nil {
				return err
			}
			return c.withStore(cmd, func(st store.Store) error {
				if err := st.Put(cmd.Context(), l); err != nil {
					return err
				}
				printSuccess("Saved listing %s", StyleHighlight.Render(l.ID))
				printDetail("%d results, %d measured", len(l.Results), l.Measured())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "listing id (default: the listing's id or the file name)")
	return cmd
}

func (c *CLI) storeGetCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Write a saved listing as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(st store.Store) error {
				l, err := st.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out, err := openOutput(output)
				if err != nil {
					return err
				}
				if err := gallery.WriteListing(l, out); err != nil {
					out.Close()
					return err
				}
				return out.Close()
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(st store.Store) error {
				summaries, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(summaries) == 0 {
					printInfo("No stored listings")
					return nil
				}
				for _, s := range summaries {
					printKeyValue(s.ID, strconv.Itoa(s.Results)+" results  "+StyleDim.Render(formatRelativeTime(s.UpdatedAt)))
				}
				return nil
			})
		},
	}
}

func (c *CLI) storeDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved listing",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withStore(cmd, func(st store.Store) error {
				if err := st.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				printSuccess("Deleted listing %s", args[0])
				return nil
			})
		},
	}
}
