package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/pipeline"
)

// layoutCommand creates the layout command for justifying a listing.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		noCache bool
		refresh bool
		measure bool
	)

	cmd := &cobra.Command{
		Use:   "layout [listing.json|page.html]",
		Short: "Justify a listing into rows",
		Long: `Justify a listing into rows.

The layout command reads a listing (listing JSON, or an HTML results page read
with the configured selectors) and computes the justified rows at the
container width. The output is a layout.json file that 'render' turns into
SVG, PNG or Graphviz output.

Thumbnails without a known size are laid out as squares. Pass --measure to
probe their sources first. Use "-" to read from stdin.

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(flags)
			opts.Refresh = refresh
			return c.runLayout(cmd, args[0], output, opts, noCache, measure)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file (default: <input>.layout.json, "-" for stdout)`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().BoolVar(&measure, "measure", false, "probe sources of thumbnails without a known size")

	return cmd
}

// runLayout reads the listing, computes its layout, and writes it out.
func (c *CLI) runLayout(cmd *cobra.Command, input, output string, opts pipeline.Options, noCache, measure bool) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(cmd, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	l, err := c.readListing(input, opts)
	if err != nil {
		return err
	}

	if measure {
		if err := c.measure(ctx, runner, l); err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	out, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	data, err := gallery.MarshalLayout(out)
	if err != nil {
		return fmt.Errorf("serialize layout: %w", err)
	}
	if err := writeFile(data, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if outputPath == "-" {
		return nil
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(out.RowCount(), out.ItemCount(), cacheHit)
	printNextStep("Render", appName+" render "+outputPath)

	return nil
}

// readListing parses input as listing JSON or an HTML page.
func (c *CLI) readListing(input string, opts pipeline.Options) (*gallery.Listing, error) {
	in, err := openInput(input)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", input, err)
	}
	defer in.Close()

	l, err := pipeline.Parse(in, opts)
	if err != nil {
		return nil, fmt.Errorf("read listing %s: %w", input, err)
	}
	if l.ID == "" {
		l.ID = filepath.Base(basePath("", input))
	}
	c.Logger.Debug("read listing", "input", input, "results", len(l.Results), "measured", l.Measured())
	return l, nil
}

// measure probes every unmeasured thumbnail of l through the runner's cache.
func (c *CLI) measure(ctx context.Context, runner *pipeline.Runner, l *gallery.Listing) error {
	missing := len(l.Results) - l.Measured()
	if missing == 0 {
		return nil
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Measuring %d thumbnails...", missing))
	spinner.Start()

	n, err := pipeline.Measure(ctx, c.newLoader(runner.Cache, ""), l, c.conf().Assets.Concurrency)
	if err != nil {
		spinner.StopWithError("Measuring failed")
		return fmt.Errorf("measure thumbnails: %w", err)
	}
	spinner.Stop()

	loggerFromContext(ctx).Info("measured thumbnails", "measured", n, "unmeasured", missing-n)
	return nil
}
