package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/imagerows/pkg/gallery"
	"github.com/matzehuels/imagerows/pkg/pipeline"
	"github.com/matzehuels/imagerows/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string  // base path for output files
	formats string  // comma-separated output formats
	labels  bool    // draw result ids on thumbnails
	scale   float64 // PNG scale factor
	noCache bool
	refresh bool
}

// renderCommand creates the render command for drawing a computed layout.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render layout.json",
		Short: "Render a layout to SVG, PNG, JSON or Graphviz DOT",
		Long: `Render a layout to SVG, PNG, JSON or Graphviz DOT.

The render command takes a layout.json file (produced by 'layout' or
'align --layout') and draws every row as boxes on a canvas of the container's
width. Fallback rows are shaded so clamped rows stand out.

One file is written per format, named <base>.<format>; JSON is written to
<base>.layout.json, or <base>.rendered.json when that is the input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "base path for output files (default: input without extension)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, json, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "label thumbnails with their result ids")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached artifacts exist")

	return cmd
}

// runRender loads the layout and writes one artifact per requested format.
func (c *CLI) runRender(cmd *cobra.Command, input string, ro renderOpts) error {
	ctx := cmd.Context()

	l, err := gallery.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	opts := pipeline.Options{
		Formats: parseFormats(ro.formats),
		Labels:  ro.labels,
		Scale:   ro.scale,
		Refresh: ro.refresh,
		Logger:  c.Logger,
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(cmd, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d rows...", l.RowCount()))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	base := basePath(ro.output, input)
	// A layout.json input would otherwise be overwritten by its own JSON.
	if ro.output == "" {
		base = trimSuffix(base, ".layout")
	}

	paths := make([]string, 0, len(artifacts))
	for _, format := range opts.Formats {
		path := base + "." + format
		if format == render.FormatJSON {
			path = base + ".layout.json"
		}
		if path == input {
			path = base + ".rendered." + format
		}
		if err := writeFile(artifacts[format], path); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		c.Logger.Debug("wrote artifact", "format", format, "bytes", len(artifacts[format]))
		paths = append(paths, path)
	}
	sort.Strings(paths)

	printSuccess("Rendered %d %s", len(paths), plural(len(paths), "file", "files"))
	for _, p := range paths {
		printFile(p)
	}
	printStats(l.RowCount(), l.ItemCount(), cacheHit)
	return nil
}
