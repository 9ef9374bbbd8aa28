package layout

import (
	"time"

	"github.com/matzehuels/imagerows/pkg/errors"
)

// InlineGap is the width of the whitespace that inline-block thumbnails
// render between each other. It is subtracted from the right and bottom
// margins so the visible gap equals VerticalMargin.
const InlineGap = 7

// Default configuration values.
const (
	DefaultContainerSelector = "#urls"
	DefaultResultsSelector   = "#urls .result-images"
	DefaultImageSelector     = "img.image_thumbnail"
	DefaultVerticalMargin    = 14
	DefaultHorizontalMargin  = 6
	DefaultMaxHeight         = 200
	DefaultDelay             = 100 * time.Millisecond
)

// Config is the immutable configuration of a Coordinator.
//
// VerticalMargin is the spacing between neighbouring thumbnails of a row
// (it is counted once per item by the justifier). HorizontalMargin is the
// left and top spacing of each thumbnail.
type Config struct {
	ContainerSelector string
	ResultsSelector   string
	ImageSelector     string

	VerticalMargin   float64
	HorizontalMargin float64
	MaxHeight        float64

	// FallbackImage, when set, replaces the source of a thumbnail whose
	// asset fails to load. It is substituted at most once per thumbnail.
	FallbackImage string

	// Delay is the debounce window between a trigger and its pass.
	Delay time.Duration
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		ContainerSelector: DefaultContainerSelector,
		ResultsSelector:   DefaultResultsSelector,
		ImageSelector:     DefaultImageSelector,
		VerticalMargin:    DefaultVerticalMargin,
		HorizontalMargin:  DefaultHorizontalMargin,
		MaxHeight:         DefaultMaxHeight,
		Delay:             DefaultDelay,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := errors.ValidateSelector("container", c.ContainerSelector); err != nil {
		return err
	}
	if err := errors.ValidateSelector("results", c.ResultsSelector); err != nil {
		return err
	}
	if err := errors.ValidateSelector("image", c.ImageSelector); err != nil {
		return err
	}
	if err := errors.ValidateMargin("vertical margin", c.VerticalMargin); err != nil {
		return err
	}
	if err := errors.ValidateMargin("horizontal margin", c.HorizontalMargin); err != nil {
		return err
	}
	if err := errors.ValidateDimension("max height", c.MaxHeight); err != nil {
		return err
	}
	if c.Delay < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "delay cannot be negative, got %v", c.Delay)
	}
	return nil
}

// Margins returns the per-side spacing applied to every thumbnail.
func (c Config) Margins() Margins {
	return Margins{
		Left:   c.HorizontalMargin,
		Top:    c.HorizontalMargin,
		Right:  c.VerticalMargin - InlineGap,
		Bottom: c.VerticalMargin - InlineGap,
	}
}
