package errors

import (
	"math"
	"net/url"
	"slices"
	"strings"
	"unicode"
)

// ValidateListingID validates a listing identifier used as a storage key.
// It rejects identifiers that could be used for path traversal or key
// injection:
//   - No empty identifiers
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateListingID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "listing id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "listing id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "listing id contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidInput, "listing id contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateSelector performs a shallow sanity check on a CSS selector. Full
// parsing happens when the selector is compiled against a document.
func ValidateSelector(name, sel string) error {
	if strings.TrimSpace(sel) == "" {
		return New(ErrCodeInvalidSelector, "%s selector cannot be empty", name)
	}
	for _, r := range sel {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t' && r != '\n') {
			return New(ErrCodeInvalidSelector, "%s selector contains control characters", name)
		}
	}
	if strings.Count(sel, "[") != strings.Count(sel, "]") || strings.Count(sel, "(") != strings.Count(sel, ")") {
		return New(ErrCodeInvalidSelector, "%s selector has unbalanced brackets: %q", name, sel)
	}
	return nil
}

// ValidateMargin checks that a margin is a finite, non-negative number.
func ValidateMargin(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidConfig, "%s cannot be negative, got %v", name, v)
	}
	return nil
}

// ValidateDimension checks that a size is a finite, strictly positive number.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidConfig, "%s must be finite", name)
	}
	if v <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", name, v)
	}
	return nil
}

// maxPathLength bounds asset paths resolved against a local root.
const maxPathLength = 500

// ValidatePath checks a page-relative asset path before it is joined onto
// a local asset root. The path must be relative, slash-separated, and stay
// below the root.
func ValidatePath(p string) error {
	switch {
	case p == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(p) > maxPathLength:
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	case strings.ContainsFunc(p, unicode.IsControl):
		return New(ErrCodeInvalidPath, "path contains control characters")
	case strings.HasPrefix(p, "/"):
		return New(ErrCodeInvalidPath, "path must be relative: %q", p)
	case strings.Contains(p, "\\"):
		return New(ErrCodeInvalidPath, "path cannot contain backslashes: %q", p)
	case slices.Contains(strings.Split(p, "/"), ".."):
		return New(ErrCodeInvalidPath, "path escapes the asset root: %q", p)
	}
	return nil
}

// ValidateURL checks that a remote thumbnail source is an absolute http or
// https URL with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https: %q", raw)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL has no host: %q", raw)
	}
	return nil
}
