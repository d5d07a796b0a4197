package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxLabelLength bounds node labels accepted from editing surfaces.
const MaxLabelLength = 256

// ExportFormats lists the formats accepted by ValidateFormat.
var ExportFormats = []string{"json", "dot", "svg"}

// ValidateLabel checks a node label and returns it trimmed of surrounding
// whitespace.
//
// The rules are deliberately small:
//   - No empty labels (after trimming)
//   - No control characters
//   - Maximum length of MaxLabelLength bytes
func ValidateLabel(label string) (string, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return "", New(ErrCodeInvalidLabel, "node label must not be empty")
	}

	if len(trimmed) > MaxLabelLength {
		return "", New(ErrCodeInvalidLabel, "node label too long (max %d characters)", MaxLabelLength)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", New(ErrCodeInvalidLabel, "node label contains control characters")
		}
	}

	return trimmed, nil
}

// ValidateFormat checks an export format name.
func ValidateFormat(format string) error {
	if !slices.Contains(ExportFormats, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)",
			format, strings.Join(ExportFormats, ", "))
	}
	return nil
}

// ValidatePath validates a file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
