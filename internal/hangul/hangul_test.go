package hangul

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFormat(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{name: "two syllables", in: "사과", want: nil},
		{name: "ten syllables", in: "가나다라마바사아자차", want: nil},
		{name: "surrounding whitespace trimmed", in: "  학교\t", want: nil},
		{name: "empty", in: "", want: ErrEmpty},
		{name: "whitespace only", in: "   ", want: ErrEmpty},
		{name: "single syllable", in: "책", want: ErrLength},
		{name: "eleven syllables", in: "가나다라마바사아자차카", want: ErrLength},
		{name: "latin", in: "apple", want: ErrNotHangul},
		{name: "digits", in: "사과1", want: ErrNotHangul},
		{name: "bare jamo", in: "ㅋㅋㅋ", want: ErrNotHangul},
		{name: "embedded space", in: "사 과", want: ErrNotHangul},
		{name: "punctuation", in: "사과!", want: ErrNotHangul},
		{name: "repeated syllable", in: "하하하", want: ErrRepeated},
		{name: "repeated pair", in: "가가", want: ErrRepeated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckFormat(tt.in)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestCheckFormat_LengthCountsSyllablesNotBytes(t *testing.T) {
	// 10 syllables are 30 bytes of UTF-8 and must still pass.
	word := strings.Repeat("가나", 5)
	assert.Len(t, word, 30)
	assert.NoError(t, CheckFormat(word))
}

func TestCheckFormat_Deterministic(t *testing.T) {
	for _, in := range []string{"사과", "ㅋㅋ", "", "가나다라마바사아자차카"} {
		assert.Equal(t, CheckFormat(in), CheckFormat(in), in)
	}
}

func TestNormalize_ComposesJamo(t *testing.T) {
	decomposed := "\u1112\u1161\u11a8\u1100\u116d" // 학교 as conjoining jamo
	assert.NotEqual(t, "학교", decomposed)
	assert.Equal(t, "학교", Normalize(decomposed))
	assert.True(t, Valid(decomposed))
}

func TestSyllables(t *testing.T) {
	assert.Equal(t, "학", FirstSyllable("학교"))
	assert.Equal(t, "교", LastSyllable("학교"))
	assert.Equal(t, "개", LastSyllable(" 무지개 "))
	assert.Equal(t, "", FirstSyllable(""))
	assert.Equal(t, "", LastSyllable("  "))
}
