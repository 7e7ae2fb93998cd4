// internal/hangul/hangul.go
//
// Local word validation for 끝말잇기 candidates.
// Responsibilities:
//   - Normalize raw input (trim + Unicode NFC).
//   - Check the syntactic form of a candidate word (no I/O).
//   - Extract first/last syllable blocks for the chain rule.
//
// Notes:
//   - Lengths are counted in syllable blocks (runes after NFC), never bytes.
//   - Only modern precomposed syllables U+AC00..U+D7A3 are accepted, so bare
//     jamo (ㅋ, ㅏ), Latin letters, digits and punctuation are all rejected.

package hangul

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const (
	MinSyllables = 2
	MaxSyllables = 10

	firstSyllable rune = 0xAC00 // 가
	lastSyllable  rune = 0xD7A3 // 힣
)

// ErrInvalidFormat is wrapped by every format failure below.
var ErrInvalidFormat = errors.New("invalid word format")

var (
	ErrEmpty     = fmt.Errorf("%w: empty", ErrInvalidFormat)
	ErrLength    = fmt.Errorf("%w: length must be %d-%d syllables", ErrInvalidFormat, MinSyllables, MaxSyllables)
	ErrNotHangul = fmt.Errorf("%w: hangul syllables only", ErrInvalidFormat)
	ErrRepeated  = fmt.Errorf("%w: single repeated syllable", ErrInvalidFormat)
)

// Normalize trims surrounding whitespace and composes decomposed jamo
// sequences into syllable blocks.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// CheckFormat runs the local checks in order and returns the first failure,
// or nil when s is a well-formed candidate. s is normalized first.
func CheckFormat(s string) error {
	s = Normalize(s)
	if s == "" {
		return ErrEmpty
	}
	if n := utf8.RuneCountInString(s); n < MinSyllables || n > MaxSyllables {
		return ErrLength
	}
	for _, r := range s {
		if !IsSyllable(r) {
			return ErrNotHangul
		}
	}
	if repeated(s) {
		return ErrRepeated
	}
	return nil
}

// Valid reports whether CheckFormat accepts s.
func Valid(s string) bool { return CheckFormat(s) == nil }

// IsSyllable reports whether r is a complete modern Hangul syllable block.
func IsSyllable(r rune) bool {
	return r >= firstSyllable && r <= lastSyllable
}

// FirstSyllable returns the first syllable of the normalized word, or "".
func FirstSyllable(word string) string {
	word = Normalize(word)
	r, size := utf8.DecodeRuneInString(word)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// LastSyllable returns the last syllable of the normalized word, or "".
func LastSyllable(word string) string {
	word = Normalize(word)
	r, size := utf8.DecodeLastRuneInString(word)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// repeated reports whether every rune in s equals the first one.
func repeated(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}
