// Package cli implements the imagerows command-line interface.
package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/imagerows/pkg/assets"
	"github.com/matzehuels/imagerows/pkg/buildinfo"
	"github.com/matzehuels/imagerows/pkg/cache"
	"github.com/matzehuels/imagerows/pkg/config"
	"github.com/matzehuels/imagerows/pkg/observability"
	"github.com/matzehuels/imagerows/pkg/pipeline"
	"github.com/matzehuels/imagerows/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// envConfig names the environment variable holding the config file path.
	envConfig = "IMAGEROWS_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "imagerows justifies image thumbnails into rows",
		Long: `imagerows arranges variable-aspect-ratio thumbnails into justified rows that
fill a container's width, the way an image search results page does.

It lays out listings, aligns HTML results pages in place, renders layouts as
SVG, PNG or Graphviz, and serves the same pipeline over HTTP.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			observability.Register(observability.NewLogHooks(c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", os.Getenv(envConfig), "config file (TOML)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.alignCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.partitionCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file once per process.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	c.cfg = cfg
	return nil
}

// conf returns the loaded configuration, or the defaults when a command
// runs without the root's pre-run hook (as in tests).
func (c *CLI) conf() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(cmd *cobra.Command, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(nil, nil, c.Logger), nil
	}
	cc, err := c.conf().OpenCache(cmd.Context())
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newLoader creates an asset loader from the [assets] config. Probed sizes
// share the cache the runner uses. An empty root uses the configured one.
func (c *CLI) newLoader(cc cache.Cache, root string) *assets.Loader {
	cfg := c.conf()
	if root == "" {
		root = cfg.Assets.Root
	}
	ttl := cfg.Cache.TTL.Duration
	if ttl == 0 {
		ttl = pipeline.TTLAsset
	}
	return assets.NewLoader(root,
		assets.WithHTTPClient(&http.Client{Timeout: cfg.Assets.Timeout.Duration}),
		assets.WithCache(cc, nil, ttl),
		assets.WithConcurrency(cfg.Assets.Concurrency),
		assets.WithLogger(c.Logger),
	)
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the layout flags shared by several commands. Zero values
// leave the configured value in place.
type layoutFlags struct {
	width            float64
	verticalMargin   float64
	horizontalMargin float64
	maxHeight        float64
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "container content width (default: the listing's width)")
	cmd.Flags().Float64Var(&f.verticalMargin, "vertical-margin", 0, "spacing between thumbnails in a row")
	cmd.Flags().Float64Var(&f.horizontalMargin, "horizontal-margin", 0, "left and top margin of each thumbnail")
	cmd.Flags().Float64Var(&f.maxHeight, "max-height", 0, "maximum row height")
}

// options builds pipeline options on top of the configured layout.
func (c *CLI) options(f layoutFlags) pipeline.Options {
	base := c.conf().LayoutConfig()
	return pipeline.Options{
		ContainerWidth:   f.width,
		VerticalMargin:   f.verticalMargin,
		HorizontalMargin: f.horizontalMargin,
		MaxHeight:        f.maxHeight,
		Base:             &base,
		Logger:           c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{render.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
