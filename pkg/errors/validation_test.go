package errors

import (
	"math"
	"testing"
)

func TestValidateListingID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "q-cats-page-1", false},
		{"uuid", "6f1e2d9c-1c52-4b59-8d60-2f0c6f1b9a11", false},
		{"dots", "v1.2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"slash", "a/b", true},
		{"traversal", "..", true},
		{"backslash", "a\\b", true},
		{"control char", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateListingID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateListingID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSelector(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"id", "#urls", false},
		{"descendant", "#urls .result-images", false},
		{"attribute", "img[data-src]", false},
		{"pseudo", "li:not(.ad)", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"unbalanced bracket", "img[data-src", true},
		{"unbalanced paren", "li:not(.ad", true},
		{"null byte", "img\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSelector("results", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSelector(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidSelector) {
				t.Errorf("ValidateSelector(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateMarginAndDimension(t *testing.T) {
	tests := []struct {
		name         string
		value        float64
		marginErr    bool
		dimensionErr bool
	}{
		{"positive", 14, false, false},
		{"zero", 0, false, true},
		{"negative", -1, true, true},
		{"nan", math.NaN(), true, true},
		{"inf", math.Inf(1), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateMargin("margin", tt.value); (err != nil) != tt.marginErr {
				t.Errorf("ValidateMargin(%v) error = %v, wantErr %v", tt.value, err, tt.marginErr)
			}
			if err := ValidateDimension("max height", tt.value); (err != nil) != tt.dimensionErr {
				t.Errorf("ValidateDimension(%v) error = %v, wantErr %v", tt.value, err, tt.dimensionErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"https://example.com/a.jpg", false},
		{"http://localhost:8080/t.png", false},
		{"", true},
		{"ftp://example.com/a.jpg", true},
		{"https:///a.jpg", true},
		{"http://[::1", true},
		{"javascript:alert(1)", true},
	}

	for _, tt := range tests {
		if err := ValidateURL(tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "img/img_load_error.svg", false},
		{"valid filename only", "thumb.png", false},
		{"valid with dots", "v1.2.3/thumb.webp", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"dotted name", "thumb..png", false},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidListing,
		ErrCodeInvalidFormat,
		ErrCodeInvalidSelector,
		ErrCodeInvalidPath,
		ErrCodeNotFound,
		ErrCodeListingNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRateLimited,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
