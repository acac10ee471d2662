// Package chapel implements the Sunday chapel delivery rules: the single
// allowed hand-off date and the order weight cap.
package chapel

import "time"

// MaxWeightGrams is the heaviest order the youth group can carry to the
// chapel on a Sunday.
const MaxWeightGrams = 5000

// Fixed hand-off location, printed on the booking record.
const (
	Name = "A Igreja de Jesus Cristo dos Santos dos Últimos Dias"
	CEP  = "04678-000"
)

// Line is one order line as seen by the scheduler.
type Line struct {
	SpiceID         string
	Name            string
	Quantity        int
	UnitWeightGrams int
	UnitPriceCents  int64
}

// Eligibility is the outcome of evaluating an order against the chapel
// delivery rules. DeliveryDate is set only when chapel delivery was
// requested and the order qualifies.
type Eligibility struct {
	TotalWeightGrams int
	Eligible         bool
	DeliveryDate     *time.Time
}

// NextDeliveryDate returns the Sunday after next, at midnight in ref's
// location. When ref is itself a Sunday the current day is skipped, so the
// result is always between 8 and 14 days out and lands on the second
// upcoming Sunday.
func NextDeliveryDate(ref time.Time) time.Time {
	dow := int(ref.Weekday())
	daysUntilNextSunday := 7
	if dow != 0 {
		daysUntilNextSunday = 7 - dow
	}
	target := ref.AddDate(0, 0, daysUntilNextSunday+7)
	return time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, target.Location())
}

// TotalWeightGrams sums unit weight times quantity over all lines.
func TotalWeightGrams(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.UnitWeightGrams * l.Quantity
	}
	return total
}

// Evaluate computes the order weight and whether it qualifies for chapel
// delivery. The date is re-derived from ref on every call; callers must
// pass the current time, not a cached one, so bookings straddling midnight
// pick up the right Sunday.
func Evaluate(lines []Line, requested bool, ref time.Time) Eligibility {
	total := TotalWeightGrams(lines)
	eligible := total <= MaxWeightGrams
	out := Eligibility{TotalWeightGrams: total, Eligible: eligible}
	if requested && eligible {
		date := NextDeliveryDate(ref)
		out.DeliveryDate = &date
	}
	return out
}
