package enums

import "strings"

// MoveReason tags why a stock ledger entry was written. Values are free-form;
// the constants below are the ones the system writes itself.
type MoveReason string

const (
	MoveReasonAdjustment MoveReason = "adjustment"
	MoveReasonSale       MoveReason = "sale"
)

// String implements fmt.Stringer.
func (r MoveReason) String() string {
	return string(r)
}

// NormalizeMoveReason trims input and falls back to adjustment when empty.
func NormalizeMoveReason(value string) MoveReason {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return MoveReasonAdjustment
	}
	return MoveReason(trimmed)
}
