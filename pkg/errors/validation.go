package errors

import (
	"strings"
	"unicode"
)

// maxFieldLength bounds every string field of an entry.
const maxFieldLength = 1024

// ValidateField validates a single entry field (name, specifier, source, license).
//
// The rules are deliberately loose because values are reported verbatim:
//   - Maximum length of 1024 characters
//   - No control characters or null bytes
//
// Emptiness is checked by the caller since license and specifier may be empty.
func ValidateField(field, value string) error {
	if len(value) > maxFieldLength {
		return New(ErrCodeInvalidEntry, "%s too long (max %d characters)", field, maxFieldLength)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidEntry, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidatePackageName validates a declared dependency name.
// It rejects empty names in addition to the [ValidateField] rules.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidEntry, "package name cannot be empty")
	}
	return ValidateField("package name", name)
}

// ValidateManifestPattern validates a locator pattern for safety.
// Patterns match base names only, so they cannot contain path separators.
func ValidateManifestPattern(pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidInput, "manifest pattern cannot be empty")
	}
	if strings.ContainsAny(pattern, "/\\") {
		return New(ErrCodeInvalidInput, "manifest pattern cannot contain path separators: %q", pattern)
	}
	return nil
}

// ValidateRoot validates a walk root path.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
func ValidateRoot(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
