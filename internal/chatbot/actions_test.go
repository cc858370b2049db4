package chatbot

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseActions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Action
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "related id",
			text: "[id12] 수리검사 절차",
			want: []Action{{Kind: ActionRelated, Label: "[id12] 수리검사 절차", RelatedID: 12}},
		},
		{
			name: "link",
			text: "https://www.kgs.or.kr",
			want: []Action{{Kind: ActionLink, Label: "https://www.kgs.or.kr"}},
		},
		{
			name: "mixed lines with blanks",
			text: "  검사 수수료  \n\n[id3]\nhttp://example.com/form",
			want: []Action{
				{Kind: ActionPrompt, Label: "검사 수수료"},
				{Kind: ActionRelated, Label: "[id3]", RelatedID: 3},
				{Kind: ActionLink, Label: "http://example.com/form"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseActions(tt.text))
		})
	}
}

func TestMoreChips(t *testing.T) {
	chips := MoreChips([]string{"a", "b", "c", "d"})
	assert.Equal(t, append(append([]string(nil), extraChips...), "a", "b", "c"), chips)

	chips = MoreChips(nil)
	assert.Equal(t, extraChips, chips)

	chips[0] = "changed"
	assert.Equal(t, "재검사 주기", extraChips[0], "returned slice must not alias the defaults")
}

func TestNewWelcome(t *testing.T) {
	w := NewWelcome()
	assert.Len(t, w.Messages, 4)
	assert.Equal(t, DefaultChips, w.Chips)
	assert.Equal(t, Disclaimer, w.Disclaimer)

	w.Chips[0] = "changed"
	assert.Equal(t, "압력용기 법정 검사", DefaultChips[0])
}

func TestTranscript(t *testing.T) {
	tr := NewTranscript()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed }

	u := tr.AddUser("검사 수수료")
	b := tr.AddResponse(Response{Type: TypeQnA, Content: "용량에 따라 다릅니다."})

	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.NotEqual(t, u.ID, b.ID)
	assert.Equal(t, fixed, b.CreatedAt)

	turns := tr.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleBot, turns[1].Role)
	assert.Equal(t, TypeQnA, turns[1].Type)

	tr.Clear()
	assert.Zero(t, tr.Len())
}
