package errors

import (
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 256 characters
//   - After mapping '-' and '.' to '_', the name must be an identifier
//     (a letter or underscore followed by letters, digits or underscores)
//
// The traversal checks run first, so names such as "a..b" are rejected even
// though their mapped form "a__b" is a valid identifier.
func ValidatePackageName(name string) (string, error) {
	if name == "" {
		return "", New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return "", New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return "", New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return "", New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	if !isIdentifier(strings.NewReplacer("-", "_", ".", "_").Replace(name)) {
		return "", New(ErrCodeInvalidPackage,
			"package name %q must be an identifier (no spaces or special characters other than '-' and '.')", name)
	}

	return name, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// ValidateRepo checks a repository location. URLs with an http, https or
// file scheme are returned unchanged; anything else must be an existing
// local path and is returned in absolute form.
func ValidateRepo(repo string) (string, error) {
	if repo == "" {
		return "", New(ErrCodeInvalidPath, "repository URL or path cannot be empty")
	}

	if u, err := url.Parse(repo); err == nil {
		switch u.Scheme {
		case "http", "https", "file":
			return repo, nil
		}
	}

	if _, err := os.Stat(repo); err != nil {
		return "", New(ErrCodeInvalidPath, "repository %q is not a valid URL or an existing local path", repo)
	}
	abs, err := filepath.Abs(repo)
	if err != nil {
		return "", Wrap(ErrCodeInvalidPath, err, "resolve %q", repo)
	}
	return abs, nil
}

// Modes accepted by [ValidateMode].
var Modes = []string{"online", "offline", "test"}

// ValidateMode checks that mode is one of [Modes]. Matching is case-sensitive.
func ValidateMode(mode string) (string, error) {
	if !slices.Contains(Modes, mode) {
		return "", New(ErrCodeInvalidMode, "mode must be one of: %s (got %q)", strings.Join(Modes, ", "), mode)
	}
	return mode, nil
}

// OutputExtensions lists the image formats [ValidateOutputFile] accepts.
var OutputExtensions = []string{".png", ".svg", ".pdf", ".jpg"}

// ValidateOutputFile checks that filename is non-empty and ends with one of
// [OutputExtensions]. Matching is case-sensitive.
func ValidateOutputFile(filename string) (string, error) {
	if filename == "" {
		return "", New(ErrCodeInvalidFormat, "output file name cannot be empty")
	}
	for _, ext := range OutputExtensions {
		if strings.HasSuffix(filename, ext) {
			return filename, nil
		}
	}
	return "", New(ErrCodeInvalidFormat, "output file must end in .png, .svg, .pdf or .jpg: %q", filename)
}

// ParseBool interprets a boolean switch value. It accepts true/1/yes/on and
// false/0/no/off in any letter case.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return false, New(ErrCodeInvalidInput, "expected a boolean (true/false, yes/no, on/off, 1/0): %q", s)
}
