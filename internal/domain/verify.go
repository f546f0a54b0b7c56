package domain

import "fmt"

// Violation describes one broken schedule invariant.
type Violation struct {
	Number  int    `json:"number"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Rules reported by VerifySchedule.
const (
	RuleTotal     = "total"
	RuleChain     = "chain"
	RuleNumbering = "numbering"
	RuleClosing   = "closing"
	RuleFlat      = "flat"
)

// VerifySchedule checks a stored schedule against the invariants every
// schedule must hold. rows must be ordered by number. Cancelled rows keep
// their numbers but are skipped when checking balance chaining.
//
// Interest-only rows never move principal, so each must open and close at the
// same balance. Their settled rows record the balance they were billed on, so
// only open rows are chained.
func VerifySchedule(rows []ScheduleRow, product Product) []Violation {
	var out []Violation

	var prev *ScheduleRow
	for i := range rows {
		row := &rows[i]

		if row.Number != i+1 {
			out = append(out, Violation{
				Number:  row.Number,
				Rule:    RuleNumbering,
				Message: fmt.Sprintf("expected installment %d, found %d", i+1, row.Number),
			})
		}
		if row.Total != row.Principal+row.Interest {
			out = append(out, Violation{
				Number:  row.Number,
				Rule:    RuleTotal,
				Message: fmt.Sprintf("total %s != principal %s + interest %s", row.Total, row.Principal, row.Interest),
			})
		}

		if product == ProductInterestOnly && row.OpeningBalance != row.ClosingBalance {
			out = append(out, Violation{
				Number:  row.Number,
				Rule:    RuleFlat,
				Message: fmt.Sprintf("opening %s != closing %s", row.OpeningBalance, row.ClosingBalance),
			})
		}

		if row.Status == RowCancelled {
			continue
		}
		if product == ProductInterestOnly && !row.Status.IsOpen() {
			continue
		}
		if prev != nil && prev.ClosingBalance != row.OpeningBalance {
			out = append(out, Violation{
				Number: row.Number,
				Rule:   RuleChain,
				Message: fmt.Sprintf("opening %s does not match closing %s of installment %d",
					row.OpeningBalance, prev.ClosingBalance, prev.Number),
			})
		}
		prev = row
	}

	if product == ProductAmortizing && len(rows) > 0 {
		last := rows[len(rows)-1]
		if last.ClosingBalance != 0 {
			out = append(out, Violation{
				Number:  last.Number,
				Rule:    RuleClosing,
				Message: fmt.Sprintf("last installment closes at %s", last.ClosingBalance),
			})
		}
	}

	return out
}
