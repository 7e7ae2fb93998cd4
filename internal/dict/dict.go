// internal/dict/dict.go
//
// Dictionary lookups used by the game engine.
// Defines:
//   - Client: the two queries the engine needs (exact existence, prefix search).
//   - ErrLookupUnavailable: the single failure class for transport/parse errors.
//
// Implementations in this package:
//   - KRDict: the public 한국어기초사전 Open API (krdict.korean.go.kr).
//   - Cached: read-through cache decorator for any Client.
//   - Static: fixed in-memory word set (tests and fixtures).

package dict

import (
	"context"
	"errors"
)

// ErrLookupUnavailable means the dictionary could not answer: network
// failure, non-2xx status, API error document or undecodable body.
// It never means "word not found".
var ErrLookupUnavailable = errors.New("dictionary lookup unavailable")

// Client queries a Korean noun dictionary.
type Client interface {
	// WordExists reports whether word is a dictionary noun.
	WordExists(ctx context.Context, word string) (bool, error)

	// WordsStartingWith returns up to limit nouns beginning with prefix.
	// No matches is an empty slice, not an error.
	WordsStartingWith(ctx context.Context, prefix string, limit int) ([]string, error)
}
