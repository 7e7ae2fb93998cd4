// internal/game/types.go
//
// Core type definitions for the 끝말잇기 engine.
// Defines:
//   - Player / Word: one played word and who played it.
//   - Status / Winner: the session state machine.
//   - Session: the single live game, passed into and returned from each transition.
//   - Reason / MoveResult: the outcome of a submitted move.

package game

import "time"

// Player identifies who played a word.
type Player string

const (
	PlayerUser     Player = "user"
	PlayerOpponent Player = "opponent"
)

// Word is one entry in the play history.
type Word struct {
	Text   string `json:"text"`
	Player Player `json:"player"`
}

// Status is the session lifecycle state.
//   - idle:        no moves yet.
//   - in_progress: at least one accepted move, not finished.
//   - ended:       terminal; Winner is set.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in_progress"
	StatusEnded      Status = "ended"
)

// Winner is set when Status is ended.
type Winner string

const (
	WinnerNone     Winner = "none"
	WinnerUser     Winner = "user"
	WinnerOpponent Winner = "opponent"
)

// Session holds the state of one game. Transitions never modify the
// History backing array of the Session they were given.
type Session struct {
	ID        string    `json:"id"`
	History   []Word    `json:"history"`
	Status    Status    `json:"status"`
	Winner    Winner    `json:"winner"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LastWord returns the most recently played word and true, or false when
// the history is empty.
func (s Session) LastWord() (Word, bool) {
	if len(s.History) == 0 {
		return Word{}, false
	}
	return s.History[len(s.History)-1], true
}

// UsedWords returns the history texts in play order.
func (s Session) UsedWords() []string {
	out := make([]string, len(s.History))
	for i, w := range s.History {
		out[i] = w.Text
	}
	return out
}

// Reason tags a rejected move.
type Reason string

const (
	ReasonInvalidFormat     Reason = "invalid_format"
	ReasonChainMismatch     Reason = "chain_mismatch"
	ReasonDuplicateWord     Reason = "duplicate_word"
	ReasonNotInDictionary   Reason = "not_in_dictionary"
	ReasonLookupUnavailable Reason = "lookup_unavailable"
	ReasonGameOver          Reason = "game_over"
)

var reasonMessages = map[Reason]string{
	ReasonInvalidFormat:     "사용할 수 없는 단어 형식입니다.",
	ReasonChainMismatch:     "앞 단어의 끝 글자로 시작하는 단어를 입력해주세요.",
	ReasonDuplicateWord:     "이미 사용된 단어입니다!",
	ReasonNotInDictionary:   "등록되지 않은 단어입니다!",
	ReasonLookupUnavailable: "단어 검증에 실패했습니다. 잠시 후 다시 시도해주세요.",
	ReasonGameOver:          "게임 종료! 새 게임을 시작하세요.",
}

// Message is the user-facing text for r.
func (r Reason) Message() string { return reasonMessages[r] }

// Retryable reports whether the same move may succeed if resubmitted.
func (r Reason) Retryable() bool { return r == ReasonLookupUnavailable }

// MoveResult is the outcome of Engine.Submit. On rejection Session is the
// unchanged input session.
type MoveResult struct {
	Accepted      bool    `json:"accepted"`
	Session       Session `json:"session"`
	OpponentReply string  `json:"opponentReply,omitempty"`
	Reason        Reason  `json:"reason,omitempty"`
	Detail        string  `json:"detail,omitempty"`
}
