package game

import "github.com/robalobadob/kkeutmal/internal/hangul"

// CheckChain applies the chain rule and the duplicate rule to a candidate
// against history. It returns "" when both pass. An empty history has no
// chain constraint.
func CheckChain(candidate string, history []Word) Reason {
	candidate = hangul.Normalize(candidate)
	if n := len(history); n > 0 {
		if hangul.FirstSyllable(candidate) != hangul.LastSyllable(history[n-1].Text) {
			return ReasonChainMismatch
		}
	}
	for _, w := range history {
		if hangul.Normalize(w.Text) == candidate {
			return ReasonDuplicateWord
		}
	}
	return ""
}

// usedSet returns the normalized texts of every played word.
func usedSet(history []Word) map[string]struct{} {
	set := make(map[string]struct{}, len(history))
	for _, w := range history {
		set[hangul.Normalize(w.Text)] = struct{}{}
	}
	return set
}

// legalReplies filters untrusted dictionary candidates down to words that
// are well formed, start with syllable, are unused, and appear once.
// Input order is preserved.
func legalReplies(candidates []string, syllable string, used map[string]struct{}) []string {
	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		c = hangul.Normalize(c)
		if !hangul.Valid(c) || hangul.FirstSyllable(c) != syllable {
			continue
		}
		if _, ok := used[c]; ok {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
