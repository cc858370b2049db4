package qna

// Record is one question/answer entry of the local knowledge base.
// Records are immutable once loaded.
type Record struct {
	ID        int    `json:"id"`
	Category  string `json:"category,omitempty"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Reference string `json:"reference,omitempty"`
	Action    string `json:"action,omitempty"`

	normQuestion string
	normAnswer   string
	normCategory string
}

// NormalizedQuestion returns the search form of the question.
func (r Record) NormalizedQuestion() string { return r.normQuestion }

// NormalizedAnswer returns the search form of the answer.
func (r Record) NormalizedAnswer() string { return r.normAnswer }

// NormalizedCategory returns the search form of the category, or "" when unset.
func (r Record) NormalizedCategory() string { return r.normCategory }

// HasReference reports whether the record carries reference text.
func (r Record) HasReference() bool { return r.Reference != "" }

// HasAction reports whether the record carries follow-up actions.
func (r Record) HasAction() bool { return r.Action != "" }

// NewRecord builds a record and computes its normalized forms. It is used by
// the loader and by tests that need records without going through a Store.
func NewRecord(id int, category, question, answer, reference, action string) Record {
	return Record{
		ID:           id,
		Category:     category,
		Question:     question,
		Answer:       answer,
		Reference:    reference,
		Action:       action,
		normQuestion: Normalize(question),
		normAnswer:   Normalize(answer),
		normCategory: Normalize(category),
	}
}

// Stats summarizes a loaded dataset.
type Stats struct {
	Total                   int      `json:"total"`
	Categories              int      `json:"categories"`
	QuestionsWithAnswers    int      `json:"questionsWithAnswers"`
	QuestionsWithActions    int      `json:"questionsWithActions"`
	QuestionsWithReferences int      `json:"questionsWithReferences"`
	CategoryList            []string `json:"categoryList"`
}

// CategoryIndex maps normalized category labels to record ids.
// Keys keep the order in which categories were first seen.
type CategoryIndex struct {
	byCategory map[string][]int
	order      []string
}

func buildIndex(records []Record) CategoryIndex {
	idx := CategoryIndex{byCategory: make(map[string][]int)}
	for _, r := range records {
		if r.normCategory == "" {
			continue
		}
		if _, seen := idx.byCategory[r.normCategory]; !seen {
			idx.order = append(idx.order, r.normCategory)
		}
		idx.byCategory[r.normCategory] = append(idx.byCategory[r.normCategory], r.ID)
	}
	return idx
}

// Keys returns the normalized category labels in first-seen order.
func (c CategoryIndex) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// IDs returns the ids filed under category. The label is normalized first.
func (c CategoryIndex) IDs(category string) []int {
	ids := c.byCategory[Normalize(category)]
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

// Len returns the number of distinct categories.
func (c CategoryIndex) Len() int {
	return len(c.order)
}

// Map returns a copy of the full index.
func (c CategoryIndex) Map() map[string][]int {
	out := make(map[string][]int, len(c.byCategory))
	for k, v := range c.byCategory {
		ids := make([]int, len(v))
		copy(ids, v)
		out[k] = ids
	}
	return out
}
