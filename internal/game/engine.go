// internal/game/engine.go
//
// Core game engine for a single 끝말잇기 session.
// Responsibilities:
//   - Validate a submitted word: local form, chain rule, duplicates, then dictionary.
//   - Commit the user's word and pick the opponent's reply from the dictionary.
//   - Produce hint lists without mutating the session.
//   - Track state transitions: idle → in_progress → ended(user), reset → idle.
//
// Notes:
//   - Cheap local checks always run before the dictionary call.
//   - Every rejection returns the input Session untouched; acceptance is all-or-nothing,
//     including when the reply lookup fails after the user's word was confirmed.
//   - Only the opponent can lose: the engine never ends a game against the user.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/kkeutmal/internal/dict"
	"github.com/robalobadob/kkeutmal/internal/hangul"
)

const (
	DefaultCandidateLimit = 50
	DefaultHintLimit      = MaxHintLimit
	DefaultLookupTimeout  = 5 * time.Second

	// MaxHintLimit is the most hints a single request may return.
	MaxHintLimit = 12
)

// ErrNotInProgress is returned by Respond and Hints outside the in_progress state.
var ErrNotInProgress = errors.New("game not in progress")

// Engine runs moves against a dictionary. It holds no session state and is
// safe for concurrent use across different sessions.
type Engine struct {
	dict           dict.Client
	chooser        Chooser
	candidateLimit int
	hintLimit      int
	lookupTimeout  time.Duration
	now            func() time.Time
}

// Option customises an Engine.
type Option func(*Engine)

// WithChooser replaces the random reply picker.
func WithChooser(c Chooser) Option { return func(e *Engine) { e.chooser = c } }

// WithCandidateLimit sets how many prefix matches are requested per lookup.
func WithCandidateLimit(n int) Option { return func(e *Engine) { e.candidateLimit = n } }

// WithHintLimit caps the number of hints returned. Values outside
// 1..MaxHintLimit fall back to MaxHintLimit.
func WithHintLimit(n int) Option { return func(e *Engine) { e.hintLimit = n } }

// WithLookupTimeout bounds each dictionary call.
func WithLookupTimeout(d time.Duration) Option { return func(e *Engine) { e.lookupTimeout = d } }

// WithClock overrides time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// NewEngine constructs an Engine over d.
func NewEngine(d dict.Client, opts ...Option) *Engine {
	e := &Engine{
		dict:           d,
		chooser:        CryptoChooser{},
		candidateLimit: DefaultCandidateLimit,
		hintLimit:      DefaultHintLimit,
		lookupTimeout:  DefaultLookupTimeout,
		now:            time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	if e.hintLimit <= 0 || e.hintLimit > MaxHintLimit {
		e.hintLimit = MaxHintLimit
	}
	return e
}

// NewSession returns an idle session with the given ID.
func NewSession(id string) Session {
	return Session{
		ID:        id,
		History:   []Word{},
		Status:    StatusIdle,
		Winner:    WinnerNone,
		UpdatedAt: time.Now().UTC(),
	}
}

// Reset discards all history and returns s to idle, keeping its ID.
func Reset(s Session) Session {
	return NewSession(s.ID)
}

// Submit validates text as the user's next word and, if accepted, commits it
// together with the opponent's reply (or ends the game when no reply exists).
// If the reply lookup fails the whole move is rejected and s is returned as is.
func (e *Engine) Submit(ctx context.Context, s Session, text string) MoveResult {
	res := e.Accept(ctx, s, text)
	if !res.Accepted {
		return res
	}
	next, reply, err := e.Respond(ctx, res.Session)
	if err != nil {
		return reject(s, ReasonLookupUnavailable, err.Error())
	}
	return MoveResult{Accepted: true, Session: next, OpponentReply: reply}
}

// Accept runs the user-side checks in cost order (form, chain, duplicate,
// dictionary) and returns s with the word appended and status in_progress.
// It does not pick a reply.
func (e *Engine) Accept(ctx context.Context, s Session, text string) MoveResult {
	if s.Status == StatusEnded {
		return reject(s, ReasonGameOver, "")
	}

	word := hangul.Normalize(text)
	if err := hangul.CheckFormat(word); err != nil {
		return reject(s, ReasonInvalidFormat, formatDetail(err))
	}
	if reason := CheckChain(word, s.History); reason != "" {
		detail := ""
		if reason == ReasonChainMismatch {
			last, _ := s.LastWord()
			detail = fmt.Sprintf("'%s'(으)로 시작하는 단어를 입력해주세요.", hangul.LastSyllable(last.Text))
		}
		return reject(s, reason, detail)
	}

	found, err := e.wordExists(ctx, word)
	if err != nil {
		return reject(s, ReasonLookupUnavailable, err.Error())
	}
	if !found {
		return reject(s, ReasonNotInDictionary, "")
	}

	next := s.append(Word{Text: word, Player: PlayerUser})
	next.Status = StatusInProgress
	next.UpdatedAt = e.now().UTC()
	return MoveResult{Accepted: true, Session: next}
}

// Respond picks the opponent's reply to the last word of s and returns the
// updated session and the reply. When no legal reply exists the session is
// ended with the user as winner and the reply is "".
func (e *Engine) Respond(ctx context.Context, s Session) (Session, string, error) {
	if s.Status != StatusInProgress {
		return s, "", ErrNotInProgress
	}
	last, ok := s.LastWord()
	if !ok {
		return s, "", ErrNotInProgress
	}

	replies, err := e.replies(ctx, hangul.LastSyllable(last.Text), s.History)
	if err != nil {
		return s, "", err
	}

	if len(replies) == 0 {
		next := s
		next.Status = StatusEnded
		next.Winner = WinnerUser
		next.UpdatedAt = e.now().UTC()
		log.Debug().Str("session", s.ID).Str("word", last.Text).Msg("opponent has no reply")
		return next, "", nil
	}

	reply := replies[e.pick(len(replies))]
	next := s.append(Word{Text: reply, Player: PlayerOpponent})
	next.UpdatedAt = e.now().UTC()
	log.Debug().Str("session", s.ID).Str("word", last.Text).Str("reply", reply).Int("choices", len(replies)).Msg("opponent replied")
	return next, reply, nil
}

// Hints lists up to the hint limit of unused words that would legally follow
// the last word, in dictionary order. The session is not modified.
func (e *Engine) Hints(ctx context.Context, s Session) ([]string, error) {
	if s.Status != StatusInProgress {
		return nil, ErrNotInProgress
	}
	last, ok := s.LastWord()
	if !ok {
		return nil, ErrNotInProgress
	}
	words, err := e.replies(ctx, hangul.LastSyllable(last.Text), s.History)
	if err != nil {
		return nil, err
	}
	if len(words) > e.hintLimit {
		words = words[:e.hintLimit]
	}
	return words, nil
}

// replies fetches prefix matches for syllable and drops everything that is
// not a legal, unused continuation.
func (e *Engine) replies(ctx context.Context, syllable string, history []Word) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()
	candidates, err := e.dict.WordsStartingWith(ctx, syllable, e.candidateLimit)
	if err != nil {
		return nil, lookupErr(err)
	}
	return legalReplies(candidates, syllable, usedSet(history)), nil
}

func (e *Engine) wordExists(ctx context.Context, word string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()
	found, err := e.dict.WordExists(ctx, word)
	if err != nil {
		return false, lookupErr(err)
	}
	return found, nil
}

// pick guards against a Chooser returning an out-of-range index.
func (e *Engine) pick(n int) int {
	i := e.chooser.Intn(n)
	if i < 0 || i >= n {
		return 0
	}
	return i
}

// lookupErr makes sure any dictionary failure is classified as unavailable.
func lookupErr(err error) error {
	if errors.Is(err, dict.ErrLookupUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", dict.ErrLookupUnavailable, err)
}

// append returns a copy of s with w added; s.History is not touched.
func (s Session) append(w Word) Session {
	h := make([]Word, len(s.History), len(s.History)+2)
	copy(h, s.History)
	s.History = append(h, w)
	return s
}

// formatDetail gives the user-facing text for a hangul format error.
func formatDetail(err error) string {
	switch {
	case errors.Is(err, hangul.ErrRepeated):
		return "반복되는 글자만 있는 단어는 사용할 수 없습니다."
	case errors.Is(err, hangul.ErrNotHangul):
		return "한글 단어만 입력할 수 있습니다."
	default:
		return fmt.Sprintf("단어 길이는 %d글자 이상 %d글자 이하여야 합니다.", hangul.MinSyllables, hangul.MaxSyllables)
	}
}

func reject(s Session, r Reason, detail string) MoveResult {
	return MoveResult{Accepted: false, Session: s, Reason: r, Detail: detail}
}
