package segment

import "fmt"

// Defaults for Config. The tuning constants are calibrated for 0/255
// binarization and handwriting at roughly 30-40 px per character.
const (
	DefaultMinCharWidth       = 25
	DefaultMaxCharWidth       = 45
	DefaultShortGapLength     = 15
	DefaultMinSmoothWidth     = 5
	DefaultMaxSmoothWindow    = 11
	DefaultMinSmoothWindow    = 3
	DefaultMaxPolyOrder       = 3
	DefaultMinimumAcceptValue = 2000
)

// Config controls one segmentation call. It is passed by value and never
// modified by the pipeline.
type Config struct {
	// MinCharWidth is the minimum spacing, in pixels, between two accepted splits.
	MinCharWidth int `json:"min_char_width" yaml:"min_char_width"`

	// MaxCharWidth is the widest ink span accepted as a single character.
	// Wider spans are subdivided.
	MaxCharWidth int `json:"max_char_width" yaml:"max_char_width"`

	// ShortGapLength separates short gaps (end-start below it, cut once at the
	// midpoint) from long gaps (cut at both ends).
	ShortGapLength int `json:"short_gap_length" yaml:"short_gap_length"`

	// MinSmoothWidth is the narrowest oversized span that is smoothed before
	// searching for a minimum.
	MinSmoothWidth int `json:"min_smooth_width" yaml:"min_smooth_width"`

	// MaxSmoothWindow and MinSmoothWindow bound the Savitzky-Golay window.
	// Both must be odd.
	MaxSmoothWindow int `json:"max_smooth_window" yaml:"max_smooth_window"`
	MinSmoothWindow int `json:"min_smooth_window" yaml:"min_smooth_window"`

	// MaxPolyOrder caps the smoothing polynomial order.
	MaxPolyOrder int `json:"max_poly_order" yaml:"max_poly_order"`

	// MinimumAcceptValue is the largest smoothed projection value a local
	// minimum may have to be used as a split.
	MinimumAcceptValue float64 `json:"minimum_accept_value" yaml:"minimum_accept_value"`

	// SplitTrailingSpan also evaluates an ink span that runs into the right edge
	// of the region. Off by default: such a span has no closing gap and is left
	// alone.
	SplitTrailingSpan bool `json:"split_trailing_span" yaml:"split_trailing_span"`
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		MinCharWidth:       DefaultMinCharWidth,
		MaxCharWidth:       DefaultMaxCharWidth,
		ShortGapLength:     DefaultShortGapLength,
		MinSmoothWidth:     DefaultMinSmoothWidth,
		MaxSmoothWindow:    DefaultMaxSmoothWindow,
		MinSmoothWindow:    DefaultMinSmoothWindow,
		MaxPolyOrder:       DefaultMaxPolyOrder,
		MinimumAcceptValue: DefaultMinimumAcceptValue,
	}
}

// WithWidths returns a copy of c with the character width bounds replaced.
// Non-positive arguments keep the current value.
func (c Config) WithWidths(minCharWidth, maxCharWidth int) Config {
	if minCharWidth > 0 {
		c.MinCharWidth = minCharWidth
	}
	if maxCharWidth > 0 {
		c.MaxCharWidth = maxCharWidth
	}
	return c
}

// Validate reports the first inconsistent setting as an ErrInvalidConfig error.
func (c Config) Validate() error {
	switch {
	case c.MinCharWidth <= 0:
		return newConfigError(fmt.Sprintf("min_char_width must be positive, got %d", c.MinCharWidth))
	case c.MaxCharWidth <= 0:
		return newConfigError(fmt.Sprintf("max_char_width must be positive, got %d", c.MaxCharWidth))
	case c.ShortGapLength <= 0:
		return newConfigError(fmt.Sprintf("short_gap_length must be positive, got %d", c.ShortGapLength))
	case c.MinSmoothWindow < 1 || c.MinSmoothWindow%2 == 0:
		return newConfigError(fmt.Sprintf("min_smooth_window must be a positive odd number, got %d", c.MinSmoothWindow))
	case c.MaxSmoothWindow < c.MinSmoothWindow || c.MaxSmoothWindow%2 == 0:
		return newConfigError(fmt.Sprintf("max_smooth_window must be odd and >= min_smooth_window, got %d", c.MaxSmoothWindow))
	case c.MinSmoothWidth < c.MinSmoothWindow:
		return newConfigError(fmt.Sprintf("min_smooth_width (%d) must be >= min_smooth_window (%d)", c.MinSmoothWidth, c.MinSmoothWindow))
	case c.MaxPolyOrder < 0:
		return newConfigError(fmt.Sprintf("max_poly_order must not be negative, got %d", c.MaxPolyOrder))
	}
	return nil
}
