package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/pipeline"
	"github.com/matzehuels/imagerows/pkg/render"
)

// partitionCommand creates the partition command, a debug view of how a
// listing splits into groups, rows and thumbnails.
func (c *CLI) partitionCommand() *cobra.Command {
	var (
		flags  layoutFlags
		output string
		svg    bool
	)

	cmd := &cobra.Command{
		Use:   "partition [listing.json|page.html|layout.json]",
		Short: "Show how a listing splits into groups and rows (debug tool)",
		Long: `Show how a listing splits into groups and rows.

Results that do not directly follow each other in the page start a new group;
each group is justified into rows on its own. The partition is written as a
Graphviz DOT graph, or as SVG with --svg. Fallback rows are drawn dashed and
unmeasured thumbnails grey.

A layout.json input is shown as is; anything else is laid out first.`,
		Example: `  # DOT on stdout
  imagerows partition listing.json

  # Rendered through Graphviz
  imagerows partition --svg -o partition.svg page.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := c.partitionLayout(args[0], flags)
			if err != nil {
				return err
			}

			data := []byte(render.ToDOT(l))
			if svg {
				if data, err = render.RenderDOTSVG(cmd.Context(), string(data)); err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}
			if err := writeFile(data, output); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if output == "" {
				return nil
			}

			fallback := 0
			for _, g := range l.Groups {
				for _, r := range g.Rows {
					if r.Fallback {
						fallback++
					}
				}
			}
			printSuccess("Partition generated")
			printKeyValue("Groups", strconv.Itoa(len(l.Groups)))
			printKeyValue("Rows", fmt.Sprintf("%d (%d fallback)", l.RowCount(), fallback))
			printKeyValue("Thumbnails", strconv.Itoa(l.ItemCount()))
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render the graph to SVG with Graphviz")

	return cmd
}

// partitionLayout loads a layout file or lays out a listing without caching.
func (c *CLI) partitionLayout(input string, flags layoutFlags) (gallery.Layout, error) {
	if strings.HasSuffix(input, ".layout.json") {
		return gallery.ReadLayoutFile(input)
	}
	opts := c.options(flags)
	l, err := c.readListing(input, opts)
	if err != nil {
		return gallery.Layout{}, err
	}
	if err := opts.ValidateForLayout(); err != nil {
		return gallery.Layout{}, err
	}
	return pipeline.ComputeLayout(l, opts)
}
