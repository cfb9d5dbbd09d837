// Package dedup separates new transactions from ones already on record.
package dedup

import (
	"strings"

	"hometab/expense-tracker/internal/models"
)

// KeySeparator joins the fields of a natural key.
const KeySeparator = "|"

// Key is the natural identity of a transaction: its date text, trimmed
// business name and amount text. No other normalization is applied.
func Key(tx models.Transaction) string {
	return tx.Date + KeySeparator + strings.TrimSpace(tx.Business) + KeySeparator + tx.AmountText()
}

// Result is the outcome of a deduplication pass.
type Result struct {
	Accepted   []models.Transaction
	Duplicates int
}

// Deduplicate returns the candidates whose key is not already present in
// existing. Accepted keys are added to the seen set as candidates are
// visited, so duplicates inside the batch are also rejected. Candidate order
// is preserved.
func Deduplicate(existing, candidates []models.Transaction) Result {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, tx := range existing {
		seen[Key(tx)] = struct{}{}
	}

	res := Result{Accepted: make([]models.Transaction, 0, len(candidates))}
	for _, tx := range candidates {
		k := Key(tx)
		if _, dup := seen[k]; dup {
			res.Duplicates++
			continue
		}
		seen[k] = struct{}{}
		res.Accepted = append(res.Accepted, tx)
	}
	return res
}

// Merge appends the accepted records to existing without modifying either
// input.
func Merge(existing []models.Transaction, res Result) []models.Transaction {
	out := make([]models.Transaction, 0, len(existing)+len(res.Accepted))
	out = append(out, existing...)
	out = append(out, res.Accepted...)
	return out
}
