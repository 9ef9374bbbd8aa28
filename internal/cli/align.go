package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imagerows/pkg/assets"
	"github.com/matzehuels/imagerows/pkg/dom"
	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/layout"
)

// alignOpts holds the flags of the align command.
type alignOpts struct {
	layout     layoutFlags
	output     string
	layoutOut  string
	fallback   string
	assetsRoot string
	noLoad     bool
	noCache    bool
}

// alignCommand creates the align command, which justifies an HTML results
// page in place.
func (c *CLI) alignCommand() *cobra.Command {
	var opts alignOpts

	cmd := &cobra.Command{
		Use:   "align page.html",
		Short: "Justify the thumbnails of an HTML results page in place",
		Long: `Justify the thumbnails of an HTML results page in place.

The align command watches the page the way a browser would: it fires
pageshow, loads every thumbnail (substituting --fallback for thumbnails whose
asset fails), fires load, and runs the pending layout pass. Each thumbnail's
style attribute receives its width, height and margins; everything else in
the page is preserved.

Thumbnail sources are resolved against --assets, which defaults to the
directory holding the page. Use --no-load to lay out with the sizes already
recorded in data-natural-width and data-natural-height.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runAlign(cmd, args[0], opts)
		},
	}

	opts.layout.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (default: <input>.aligned.html, "-" for stdout)`)
	cmd.Flags().StringVar(&opts.layoutOut, "layout", "", "also write the resulting layout JSON to this file")
	cmd.Flags().StringVar(&opts.fallback, "fallback", "", "image substituted for thumbnails that fail to load")
	cmd.Flags().StringVar(&opts.assetsRoot, "assets", "", "directory local thumbnail sources resolve against")
	cmd.Flags().BoolVar(&opts.noLoad, "no-load", false, "do not probe thumbnail sources")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching of probed sizes")

	return cmd
}

// runAlign parses the page, drives a watched coordinator through page and
// asset events, and writes the restyled page.
func (c *CLI) runAlign(cmd *cobra.Command, input string, opts alignOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	in, err := openInput(input)
	if err != nil {
		return fmt.Errorf("open %s: %w", input, err)
	}
	doc, err := dom.Parse(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("parse %s: %w", input, err)
	}

	po := c.options(opts.layout)
	if err := po.ValidateForLayout(); err != nil {
		return err
	}
	cfg := po.LayoutConfig()
	if opts.fallback != "" {
		cfg.FallbackImage = opts.fallback
	}
	if opts.layout.width > 0 {
		logger.Warn("--width is ignored by align; the container's style sets the width")
	}

	// Batch runs have no frames to wait for, so deferred passes run on demand.
	sched := &layout.ManualScheduler{}
	coord, err := layout.New(doc, cfg, layout.WithScheduler(sched), layout.WithLogger(logger))
	if err != nil {
		return err
	}
	coord.Watch()
	doc.Fire(layout.EventPageShow)

	if !opts.noLoad {
		runner, err := c.newRunner(cmd, opts.noCache)
		if err != nil {
			return fmt.Errorf("initialize runner: %w", err)
		}
		defer runner.Close()

		root := opts.assetsRoot
		if root == "" && input != "-" {
			root = filepath.Dir(input)
		}
		images := doc.Thumbnails(cfg)
		thumbs := make([]assets.Thumbnail, len(images))
		for i, img := range images {
			thumbs[i] = img
		}

		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %d thumbnails...", len(thumbs)))
		spinner.Start()
		report := c.newLoader(runner.Cache, root).LoadAll(ctx, thumbs)
		spinner.Stop()

		logger.Info("loaded thumbnails",
			"loaded", report.Loaded,
			"recovered", report.Recovered,
			"failed", report.Failed)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	doc.Fire(layout.EventLoad)
	sched.Run()

	pass := coord.LastPass()
	if pass == nil {
		if _, ok := doc.Container(cfg.ContainerSelector); ok {
			return fmt.Errorf("container %q in %s has no usable width; set a px width or %s", cfg.ContainerSelector, input, dom.AttrWidth)
		}
		return fmt.Errorf("container %q not found in %s", cfg.ContainerSelector, input)
	}

	outputPath := opts.output
	if outputPath == "" {
		outputPath = basePath("", input) + ".aligned.html"
	}
	out, err := openOutput(outputPath)
	if err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if err := doc.Render(out); err != nil {
		out.Close()
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}
	if err := out.Close(); err != nil {
		return err
	}

	if opts.layoutOut != "" {
		exported := doc.Export(pass, cfg)
		exported.ListingID = filepath.Base(basePath("", input))
		if err := gallery.WriteLayoutFile(exported, opts.layoutOut); err != nil {
			return fmt.Errorf("write layout %s: %w", opts.layoutOut, err)
		}
	}
	stats := pass.Stats()
	prog.done("aligned page", "passes", coord.Passes(), "rows", stats.Rows)
	if outputPath == "-" {
		return nil
	}

	printSuccess("Aligned %d thumbnails in %d passes", stats.Items, coord.Passes())
	printFile(outputPath)
	if opts.layoutOut != "" {
		printFile(opts.layoutOut)
	}
	printStats(stats.Rows, stats.Items, false)
	if stats.Unmeasured > 0 {
		printWarning("%d thumbnails have no known size and were laid out as squares", stats.Unmeasured)
	}
	return nil
}
