// Package qna loads the static question/answer dataset once and serves
// lookups, category filters and substring search over it.
package qna

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
	"github.com/yhseo-kgs/chatbot-proxy/internal/observability"
)

// DefaultSearchLimit caps Search results when the caller passes no limit.
const DefaultSearchLimit = 10

// Store holds the normalized dataset. Initialize loads it exactly once;
// afterwards the data is read-only and safe for concurrent readers.
type Store struct {
	source Source
	logger *observability.Logger

	once  sync.Once
	err   error
	ready atomic.Bool

	records []Record
	byID    map[int]int
	index   CategoryIndex
}

// NewStore creates a store backed by source. Nothing is fetched until Initialize.
func NewStore(source Source, logger *observability.Logger) *Store {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Store{
		source: source,
		logger: logger.WithComponent("qna_store"),
	}
}

// Initialize fetches, sanitizes, parses and indexes the dataset. Only the
// first call does any work; later calls return the same outcome.
func (s *Store) Initialize(ctx context.Context) error {
	s.once.Do(func() {
		s.err = s.load(ctx)
		if s.err != nil {
			s.logger.Error().Err(s.err).Str("source", s.source.Location()).Msg("QnA load failed")
			return
		}
		s.ready.Store(true)
	})
	return s.err
}

// Ready reports whether a load has succeeded.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

func (s *Store) load(ctx context.Context) error {
	s.logger.Info().Str("source", s.source.Location()).Msg("Loading QnA data")

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return domain.LoadError("fetch qna data", err)
	}

	rows, err := decodeRows(sanitizeNonFinite(raw))
	if err != nil {
		return err
	}

	records := make([]Record, 0, len(rows))
	byID := make(map[int]int, len(rows))
	dropped := 0
	for _, row := range rows {
		rec, ok := normalizeRow(row)
		if !ok {
			dropped++
			continue
		}
		if _, dup := byID[rec.ID]; dup {
			dropped++
			continue
		}
		byID[rec.ID] = len(records)
		records = append(records, rec)
	}

	if len(records) == 0 {
		return domain.LoadError("no valid qna data found", nil)
	}

	s.records = records
	s.byID = byID
	s.index = buildIndex(records)

	s.logger.Info().
		Int("records", len(records)).
		Int("dropped", dropped).
		Int("categories", s.index.Len()).
		Msg("QnA data loaded")
	return nil
}

func decodeRows(data []byte) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, domain.LoadError("parse qna data", err)
	}

	items, ok := root.([]interface{})
	if !ok {
		return nil, domain.LoadError("qna json root must be an array", nil)
	}

	rows := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if row, ok := item.(map[string]interface{}); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// normalizeRow maps one raw element to a Record. Elements without a usable
// id or with a blank question or answer are rejected.
func normalizeRow(row map[string]interface{}) (Record, bool) {
	id, ok := asID(row["id_qna"])
	if !ok {
		return Record{}, false
	}

	question := asString(row["question_qna"])
	answer := asString(row["answer_qna"])
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return Record{}, false
	}

	return NewRecord(
		id,
		asString(row["category_qna"]),
		question,
		answer,
		asString(row["reference_qna"]),
		asString(row["action_qna"]),
	), true
}

func asID(v interface{}) (int, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func (s *Store) checkReady() error {
	if !s.ready.Load() {
		return domain.NotReadyError("qna store not ready")
	}
	return nil
}

// All returns every record in dataset order.
func (s *Store) All() ([]Record, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out, nil
}

// FindByID returns the record with id. A miss is reported by the bool, not an error.
func (s *Store) FindByID(id int) (Record, bool, error) {
	if err := s.checkReady(); err != nil {
		return Record{}, false, err
	}
	i, ok := s.byID[id]
	if !ok {
		return Record{}, false, nil
	}
	return s.records[i], true, nil
}

// GetByCategory returns the records whose normalized category equals the
// normalized argument.
func (s *Store) GetByCategory(category string) ([]Record, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	want := Normalize(category)
	var out []Record
	for _, r := range s.records {
		if r.normCategory == want {
			out = append(out, r)
		}
	}
	return out, nil
}

// Search returns up to limit records whose normalized question, answer or
// category contains the normalized text. limit <= 0 means DefaultSearchLimit.
func (s *Store) Search(text string, limit int) ([]Record, error) {
	if err := s.checkReady(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	q := Normalize(text)
	if q == "" {
		return []Record{}, nil
	}

	out := []Record{}
	for _, r := range s.records {
		if len(out) >= limit {
			break
		}
		if strings.Contains(r.normQuestion, q) ||
			strings.Contains(r.normAnswer, q) ||
			(r.normCategory != "" && strings.Contains(r.normCategory, q)) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Index returns the category index built at load time.
func (s *Store) Index() (CategoryIndex, error) {
	if err := s.checkReady(); err != nil {
		return CategoryIndex{}, err
	}
	return s.index, nil
}

// Stats summarizes the loaded dataset.
func (s *Store) Stats() (Stats, error) {
	if err := s.checkReady(); err != nil {
		return Stats{}, err
	}

	categories := make(map[string]struct{})
	st := Stats{Total: len(s.records)}
	for _, r := range s.records {
		if r.Category != "" {
			categories[r.Category] = struct{}{}
		}
		if r.Question != "" && r.Answer != "" {
			st.QuestionsWithAnswers++
		}
		if r.HasAction() {
			st.QuestionsWithActions++
		}
		if r.HasReference() {
			st.QuestionsWithReferences++
		}
	}

	st.Categories = len(categories)
	st.CategoryList = make([]string, 0, len(categories))
	for c := range categories {
		st.CategoryList = append(st.CategoryList, c)
	}
	sort.Strings(st.CategoryList)
	return st, nil
}
