// Package validate holds the name and path grammar applied to every path
// before it is allowed to mutate a tree.
package validate

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/brettbedarf/memtree/config"
)

var (
	// ErrInvalidName indicates a name outside the allowed character set or length
	ErrInvalidName = errors.New("invalid name")

	// ErrInvalidPath indicates misplaced separators or dots
	ErrInvalidPath = errors.New("invalid path")

	// ErrPathTooLong indicates a path longer than Rules.MaxPathLen bytes
	ErrPathTooLong = fmt.Errorf("%w: path too long", ErrInvalidPath)
)

// PathError reports the byte offset at which a path broke the grammar.
type PathError struct {
	Path   string
	Offset int
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q at byte %d: %s", e.Path, e.Offset, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidPath
func (e *PathError) Unwrap() error {
	return ErrInvalidPath
}

// Rules bounds the grammar. The zero value is not useful; use [DefaultRules]
// or [NewRules].
type Rules struct {
	MaxNameLen int // characters
	MaxPathLen int // bytes
}

// DefaultRules uses the config package defaults
var DefaultRules = Rules{
	MaxNameLen: config.DefaultMaxNameLen,
	MaxPathLen: config.DefaultMaxPathLen,
}

// NewRules builds Rules from cfg, falling back to defaults for unset bounds
func NewRules(cfg *config.Config) Rules {
	r := DefaultRules
	if cfg == nil {
		return r
	}
	if cfg.MaxNameLen > 0 {
		r.MaxNameLen = cfg.MaxNameLen
	}
	if cfg.MaxPathLen > 0 {
		r.MaxPathLen = cfg.MaxPathLen
	}
	return r
}

// IsValidName reports whether s passes the name grammar under [DefaultRules]
func IsValidName(s string) bool {
	return DefaultRules.IsValidName(s)
}

// ValidatePath checks s against the path grammar under [DefaultRules]
func ValidatePath(s string) error {
	return DefaultRules.ValidatePath(s)
}

// IsValidName reports whether s is 1..MaxNameLen characters long and made of
// letters, numbers, '-', '.' and '/' only. Invalid UTF-8 decodes to
// utf8.RuneError which is not a letter, so malformed input is rejected.
func (r Rules) IsValidName(s string) bool {
	n := utf8.RuneCountInString(s)
	if n == 0 || n > r.MaxNameLen {
		return false
	}
	for _, c := range s {
		if unicode.IsLetter(c) || unicode.IsNumber(c) {
			continue
		}
		if c != '-' && c != '.' && c != '/' {
			return false
		}
	}
	return true
}

// ValidatePath checks separator and dot placement across the whole of s.
//
// The scan works on bytes and requires ASCII; any byte >= 0x80 fails. A '.'
// in the final position counts as followed by another '.', so a trailing dot
// is rejected just like a doubled one.
func (r Rules) ValidatePath(s string) error {
	if len(s) > r.MaxPathLen {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrPathTooLong, len(s), r.MaxPathLen)
	}

	last := len(s) - 1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf {
			return &PathError{Path: s, Offset: i, Reason: "non-ASCII byte"}
		}

		switch c {
		case '/':
			if i == 0 {
				return &PathError{Path: s, Offset: i, Reason: "leading separator"}
			}
			after := byte('/')
			if i < last {
				after = s[i+1]
			}
			if after == '/' || s[i-1] == '/' {
				return &PathError{Path: s, Offset: i, Reason: "empty segment"}
			}
		case '.':
			if i == 0 {
				return &PathError{Path: s, Offset: i, Reason: "leading dot"}
			}
			after := byte('.')
			if i < last {
				after = s[i+1]
			}
			before := s[i-1]
			if after == '.' || after == '/' || before == '.' || before == '/' {
				return &PathError{Path: s, Offset: i, Reason: "misplaced dot"}
			}
		}
	}

	return nil
}
