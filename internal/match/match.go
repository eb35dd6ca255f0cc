package match

import (
	"strings"
	"unicode"

	"NewsDashboard/internal/domain"
)

// Normalize turns a title into its canonical comparable form: lower
// case, letters (including CJK ideographs), digits and underscore only.
// Punctuation and whitespace are dropped entirely.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matcher maps a model-emitted title back to one of the batch records.
// Implementations consume each record at most once.
type Matcher interface {
	// Match returns the record id claimed by the title, or false when
	// nothing in the batch corresponds to it.
	Match(title string) (int64, bool)
	// Unmatched returns the ids of records no title has claimed.
	Unmatched() []int64
}

type candidate struct {
	id       int64
	norm     string
	consumed bool
}

// TitleMatcher resolves titles by exact normalized equality first, then
// by bidirectional substring containment. Substring tolerates the model
// truncating or paraphrasing a title it echoes back.
type TitleMatcher struct {
	candidates []candidate
}

var _ Matcher = (*TitleMatcher)(nil)

// NewTitleMatcher indexes the batch records by normalized title.
func NewTitleMatcher(records []domain.NewsRecord) *TitleMatcher {
	candidates := make([]candidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, candidate{id: rec.ID, norm: Normalize(rec.Title)})
	}
	return &TitleMatcher{candidates: candidates}
}

// Match claims the first record whose normalized title equals the
// needle; failing that, the first unconsumed record where one norm
// contains the other.
func (m *TitleMatcher) Match(title string) (int64, bool) {
	needle := Normalize(title)
	if needle == "" {
		return 0, false
	}

	for i := range m.candidates {
		c := &m.candidates[i]
		if !c.consumed && c.norm == needle {
			c.consumed = true
			return c.id, true
		}
	}

	for i := range m.candidates {
		c := &m.candidates[i]
		if c.consumed || c.norm == "" {
			continue
		}
		if strings.Contains(c.norm, needle) || strings.Contains(needle, c.norm) {
			c.consumed = true
			return c.id, true
		}
	}

	return 0, false
}

// Unmatched reports the batch records left unclaimed, in batch order.
func (m *TitleMatcher) Unmatched() []int64 {
	var ids []int64
	for _, c := range m.candidates {
		if !c.consumed {
			ids = append(ids, c.id)
		}
	}
	return ids
}
