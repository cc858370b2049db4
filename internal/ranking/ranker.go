// Package ranking scores QnA records against a free-text query with an
// additive keyword heuristic.
package ranking

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/yhseo-kgs/chatbot-proxy/internal/qna"
)

// Scoring weights.
const (
	WeightQueryInQuestion = 0.8
	WeightTokenInQuestion = 0.3
	WeightQueryInAnswer   = 0.4
	WeightTokenInAnswer   = 0.2
	WeightCategoryInQuery = 0.2

	// TopK is the maximum number of candidates returned.
	TopK = 5
)

// NoMatchMessage is shown when nothing in the corpus matched.
const NoMatchMessage = "관련 정보를 찾을 수 없습니다."

const referencePrefix = "\n\n📋 참조: "

// Candidate is one scored record.
type Candidate struct {
	ID     int        `json:"id"`
	Score  float64    `json:"score"`
	Record qna.Record `json:"record"`
}

// Result holds the best candidate and the ordered top candidates.
// Best is nil when nothing scored above zero.
type Result struct {
	Best *Candidate
	TopK []Candidate
}

// Rank scores every record against query. The query is only trimmed and
// lowercased; records are compared on their normalized question and answer.
func Rank(query string, records []qna.Record) Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Result{TopK: []Candidate{}}
	}

	tokens := tokenize(q)

	scored := make([]Candidate, 0, len(records))
	for _, r := range records {
		if s := score(q, tokens, r); s > 0 {
			scored = append(scored, Candidate{ID: r.ID, Score: s, Record: r})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > TopK {
		scored = scored[:TopK]
	}

	res := Result{TopK: scored}
	if len(scored) > 0 {
		best := scored[0]
		res.Best = &best
	}
	return res
}

// tokenize splits on runs of whitespace and keeps tokens longer than one character.
func tokenize(q string) []string {
	parts := strings.Fields(q)
	tokens := parts[:0]
	for _, p := range parts {
		if utf8.RuneCountInString(p) > 1 {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

func score(q string, tokens []string, r qna.Record) float64 {
	question := r.NormalizedQuestion()
	answer := r.NormalizedAnswer()

	var s float64
	if strings.Contains(question, q) {
		s += WeightQueryInQuestion
	}
	for _, t := range tokens {
		if strings.Contains(question, t) {
			s += WeightTokenInQuestion
		}
	}

	if strings.Contains(answer, q) {
		s += WeightQueryInAnswer
	}
	for _, t := range tokens {
		if strings.Contains(answer, t) {
			s += WeightTokenInAnswer
		}
	}

	if c := r.NormalizedCategory(); c != "" && strings.Contains(q, c) {
		s += WeightCategoryInQuery
	}
	return s
}

// FormatAnswer renders a record for display: the answer followed by the
// reference line when one exists.
func FormatAnswer(r qna.Record) string {
	if r.Reference == "" {
		return r.Answer
	}
	return r.Answer + referencePrefix + r.Reference
}

// FormatResult renders the best candidate, or NoMatchMessage when there is none.
func FormatResult(res Result) string {
	if res.Best == nil {
		return NoMatchMessage
	}
	return FormatAnswer(res.Best.Record)
}

// RecordSource is the part of the QnA store the Ranker needs.
type RecordSource interface {
	Initialize(ctx context.Context) error
	All() ([]qna.Record, error)
}

// Ranker ranks queries against an explicitly supplied record source.
type Ranker struct {
	source RecordSource
}

// NewRanker creates a Ranker over source.
func NewRanker(source RecordSource) *Ranker {
	return &Ranker{source: source}
}

// Rank waits for the source to be loaded and ranks query against it.
func (r *Ranker) Rank(ctx context.Context, query string) (Result, error) {
	if err := r.source.Initialize(ctx); err != nil {
		return Result{TopK: []Candidate{}}, err
	}
	records, err := r.source.All()
	if err != nil {
		return Result{TopK: []Candidate{}}, err
	}
	return Rank(query, records), nil
}

var _ RecordSource = (*qna.Store)(nil)
