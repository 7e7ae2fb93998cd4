package dict

import (
	"context"
	"strings"
)

// Static is a fixed word set. Prefix results keep insertion order.
type Static struct {
	words []string
	set   map[string]struct{}
}

// NewStatic builds a Static dictionary; blank and repeated words are dropped.
func NewStatic(words ...string) *Static {
	s := &Static{set: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := s.set[w]; ok {
			continue
		}
		s.set[w] = struct{}{}
		s.words = append(s.words, w)
	}
	return s
}

func (s *Static) WordExists(_ context.Context, word string) (bool, error) {
	_, ok := s.set[strings.TrimSpace(word)]
	return ok, nil
}

func (s *Static) WordsStartingWith(_ context.Context, prefix string, limit int) ([]string, error) {
	out := []string{}
	if prefix == "" {
		return out, nil
	}
	for _, w := range s.words {
		if len(out) >= limit {
			break
		}
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	return out, nil
}
