// questions/bank.go
package questions

import (
	"encoding/csv"
	"strings"

	"github.com/wfunc/quizboard/models"
)

// MaxQuestions caps the pool size after a merge.
const MaxQuestions = 300

// Rand is the random source the bank draws with. *math/rand.Rand
// satisfies it; tests substitute a scripted sequence.
type Rand interface {
	Intn(n int) int
}

// DefaultQuestions returns a fresh copy of the seed question set.
func DefaultQuestions() []models.QuestionItem {
	return []models.QuestionItem{
		{Q: "2 + 2", A: "4"},
		{Q: "9 × 4", A: "36"},
		{Q: "7 × 8", A: "56"},
		{Q: "9 ÷ 3", A: "3"},
		{Q: "√81", A: "9"},
		{Q: "√49", A: "7"},
		{Q: "12 ÷ 4", A: "3"},
		{Q: "15 + 5", A: "20"},
		{Q: "11 × 8", A: "88"},
		{Q: "14²", A: "196"},
	}
}

// Bank is a session-scoped question pool. It is always seeded with the
// default set; an empty pool is an invariant violation, not a runtime
// case.
type Bank struct {
	items []models.QuestionItem
	cap   int
	rng   Rand
}

// NewBank creates a bank seeded with the default question set.
func NewBank(rng Rand) *Bank {
	return NewBankWithCap(rng, MaxQuestions)
}

// NewBankWithCap creates a seeded bank with a custom pool cap.
func NewBankWithCap(rng Rand, cap int) *Bank {
	return &Bank{
		items: DefaultQuestions(),
		cap:   cap,
		rng:   rng,
	}
}

// Len returns the current pool size.
func (b *Bank) Len() int {
	return len(b.items)
}

// Items returns a copy of the current pool.
func (b *Bank) Items() []models.QuestionItem {
	out := make([]models.QuestionItem, len(b.items))
	copy(out, b.items)
	return out
}

// Merge appends newly parsed items after the existing ones, then
// truncates the combined pool to the cap. No deduplication.
func (b *Bank) Merge(newItems []models.QuestionItem) {
	combined := append(b.items, newItems...)
	if len(combined) > b.cap {
		combined = combined[:b.cap]
	}
	b.items = combined
}

// Draw selects one item uniformly at random from the pool. The seed
// guarantees a non-empty pool; the default-set fallback is defensive.
func (b *Bank) Draw() models.QuestionItem {
	pool := b.items
	if len(pool) == 0 {
		pool = DefaultQuestions()
	}
	return pool[b.rng.Intn(len(pool))]
}

// Reset restores the default question set.
func (b *Bank) Reset() {
	b.items = DefaultQuestions()
}

// ParseCSV extracts question/answer pairs from tabular text. The header
// row must name a question column ("q" or "question") and an answer
// column ("a" or "answer"), matched case-sensitively. Rows missing a
// non-empty question or answer after trimming are dropped. Malformed
// input yields zero items rather than an error; lenient by policy.
func ParseCSV(text string) []models.QuestionItem {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return nil
	}

	qCol, aCol := -1, -1
	for i, name := range records[0] {
		switch strings.TrimSpace(name) {
		case "q", "question":
			if qCol == -1 {
				qCol = i
			}
		case "a", "answer":
			if aCol == -1 {
				aCol = i
			}
		}
	}
	if qCol == -1 || aCol == -1 {
		return nil
	}

	var items []models.QuestionItem
	for _, row := range records[1:] {
		if qCol >= len(row) || aCol >= len(row) {
			continue
		}
		q := strings.TrimSpace(row[qCol])
		a := strings.TrimSpace(row[aCol])
		if q == "" || a == "" {
			continue
		}
		items = append(items, models.QuestionItem{Q: q, A: a})
	}
	return items
}
