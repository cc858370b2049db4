package ranking

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
	"github.com/yhseo-kgs/chatbot-proxy/internal/qna"
)

func sampleRecords() []qna.Record {
	return []qna.Record{
		qna.NewRecord(1, "법정검사", "압력용기 재검사 주기", "압력용기는 4년마다 재검사를 받습니다.", "고압가스 안전관리법", "[id2]"),
		qna.NewRecord(2, "검사신청", "검사 신청 방법", "관할 지사에 신청서를 제출합니다.", "", ""),
		qna.NewRecord(3, "수수료", "검사 수수료 안내", "수수료는 용량에 따라 다릅니다.", "", ""),
		qna.NewRecord(4, "", "안전관리 요령", "정기적으로 점검하세요.", "", ""),
	}
}

func TestRank_EmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t"} {
		res := Rank(q, sampleRecords())
		assert.Nil(t, res.Best)
		assert.NotNil(t, res.TopK)
		assert.Empty(t, res.TopK)
	}
}

func TestRank_Scoring(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		bestID   int
		expected float64
	}{
		{
			// query in question 0.8, three tokens in question 0.9, two tokens in answer 0.4
			name:     "exact question",
			query:    "압력용기 재검사 주기",
			bestID:   1,
			expected: 2.1,
		},
		{
			// question 0.8+0.3, answer 0.4+0.2, category contained in query 0.2
			name:     "category bonus",
			query:    "수수료",
			bestID:   3,
			expected: 0.8 + 0.3 + 0.4 + 0.2 + 0.2,
		},
		{
			name:     "trimmed query",
			query:    "  검사 신청 방법  ",
			bestID:   2,
			expected: 0.8 + 0.9 + 0.2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := Rank(tc.query, sampleRecords())
			require.NotNil(t, res.Best)
			assert.Equal(t, tc.bestID, res.Best.ID)
			assert.InDelta(t, tc.expected, res.Best.Score, 1e-9)
			assert.Equal(t, res.TopK[0], *res.Best)
		})
	}
}

func TestRank_SingleCharacterTokensIgnored(t *testing.T) {
	records := []qna.Record{qna.NewRecord(1, "", "a b c", "x", "", "")}

	res := Rank("a z", records)
	assert.Nil(t, res.Best, "single-character tokens never score on their own")
}

func TestRank_TokensSplitOnAnyWhitespace(t *testing.T) {
	records := []qna.Record{qna.NewRecord(1, "", "압력용기 재검사 주기는?", "답변", "", "")}

	for _, q := range []string{"압력용기\t재검사", "압력용기\n재검사", "압력용기   재검사 "} {
		res := Rank(q, records)
		require.NotNil(t, res.Best, q)
		assert.InDelta(t, 2*WeightTokenInQuestion, res.Best.Score, 1e-9, q)
	}
}

func TestRank_CategoryMatchUsesNormalizedForm(t *testing.T) {
	records := []qna.Record{qna.NewRecord(1, "수수료\t", "환불 안내", "환불은 불가합니다.", "", "")}

	res := Rank("수수료 규정", records)
	require.NotNil(t, res.Best)
	assert.InDelta(t, WeightCategoryInQuery, res.Best.Score, 1e-9)

	res = Rank("검사 수수료", []qna.Record{qna.NewRecord(2, "  검사   수수료 ", "안내", "답변", "", "")})
	require.NotNil(t, res.Best)
	assert.InDelta(t, WeightCategoryInQuery, res.Best.Score, 1e-9)
}

func TestRank_DropsZeroScores(t *testing.T) {
	res := Rank("존재하지않는질문", sampleRecords())
	assert.Nil(t, res.Best)
	assert.Empty(t, res.TopK)
	assert.Equal(t, NoMatchMessage, FormatResult(res))
}

func TestRank_TopKBoundedAndSorted(t *testing.T) {
	var records []qna.Record
	for i := 1; i <= 12; i++ {
		answer := "가스"
		if i%3 == 0 {
			answer = "가스 검사"
		}
		records = append(records, qna.NewRecord(i, "", fmt.Sprintf("검사 항목 %d", i), answer, "", ""))
	}

	res := Rank("검사", records)
	require.Len(t, res.TopK, TopK)
	for i := 1; i < len(res.TopK); i++ {
		assert.GreaterOrEqual(t, res.TopK[i-1].Score, res.TopK[i].Score)
	}

	// ties keep dataset order
	assert.Equal(t, []int{3, 6, 9, 12, 1}, []int{res.TopK[0].ID, res.TopK[1].ID, res.TopK[2].ID, res.TopK[3].ID, res.TopK[4].ID})
}

func TestFormatAnswer(t *testing.T) {
	withRef := qna.NewRecord(1, "", "q", "답변", "근거 조항", "")
	assert.Equal(t, "답변\n\n📋 참조: 근거 조항", FormatAnswer(withRef))

	withoutRef := qna.NewRecord(2, "", "q", "답변", "", "")
	assert.Equal(t, "답변", FormatAnswer(withoutRef))
}

type stubSource struct {
	initErr error
	records []qna.Record
}

func (s stubSource) Initialize(ctx context.Context) error { return s.initErr }
func (s stubSource) All() ([]qna.Record, error)          { return s.records, nil }

func TestRanker_UsesSource(t *testing.T) {
	ranker := NewRanker(stubSource{records: sampleRecords()})
	res, err := ranker.Rank(context.Background(), "검사 신청 방법")
	require.NoError(t, err)
	require.NotNil(t, res.Best)
	assert.Equal(t, 2, res.Best.ID)

	loadErr := domain.LoadError("no valid qna data found", nil)
	broken := NewRanker(stubSource{initErr: loadErr})
	res, err = broken.Rank(context.Background(), "검사")
	assert.True(t, errors.Is(err, loadErr))
	assert.Nil(t, res.Best)
}

func TestRanker_WithStore(t *testing.T) {
	store := qna.NewStore(qna.StaticSource(`[{"id_qna": 1, "question_qna": "압력용기 재검사", "answer_qna": "4년"}]`), nil)
	ranker := NewRanker(store)

	res, err := ranker.Rank(context.Background(), "압력용기 재검사")
	require.NoError(t, err)
	require.NotNil(t, res.Best)
	assert.GreaterOrEqual(t, res.Best.Score, 0.8)
}
