package errors

import (
	"strings"
	"unicode"
)

// ValidateNodeID validates a compiled node identifier.
//
// Node ids are used to build rendering ids and DOT identifiers, so the rules
// are conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
//   - No trailing backslash, which DOT cannot quote
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidClosure, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidClosure, "node id too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidClosure, "node id %q contains control characters", id)
		}
	}

	if strings.HasSuffix(id, `\`) {
		return New(ErrCodeInvalidClosure, "node id %q ends with a backslash", id)
	}

	return nil
}

// ValidateIdentifier validates the name and version of a workflow or
// task identifier. Both participate in generated node ids.
func ValidateIdentifier(name, version string) error {
	if name == "" {
		return New(ErrCodeInvalidClosure, "identifier name cannot be empty")
	}
	for _, s := range []string{name, version} {
		for _, r := range s {
			if unicode.IsControl(r) {
				return New(ErrCodeInvalidClosure, "identifier %q contains control characters", s)
			}
		}
	}
	return nil
}

// ValidateDirection validates a layout direction ("LR" or "TB").
func ValidateDirection(direction string) error {
	switch direction {
	case "LR", "TB":
		return nil
	case "":
		return New(ErrCodeInvalidDirection, "layout direction cannot be empty")
	default:
		return New(ErrCodeInvalidDirection, "invalid layout direction %q (must be LR or TB)", direction)
	}
}

// ValidateDepth validates a flattening depth.
func ValidateDepth(depth int) error {
	if depth < 0 {
		return New(ErrCodeInvalidDepth, "depth must not be negative, got %d", depth)
	}
	const maxDepth = 64
	if depth > maxDepth {
		return New(ErrCodeInvalidDepth, "depth too large (max %d)", maxDepth)
	}
	return nil
}

// ValidatePath validates a relative file path supplied by a caller.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
