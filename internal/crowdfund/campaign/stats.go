package campaign

import (
	"time"

	"github.com/holiman/uint256"
)

// Contribution is a single contributor's current ledger balance.
type Contribution struct {
	Address string
	Amount  *uint256.Int
}

// Stats is an aggregate snapshot for dashboards.
type Stats struct {
	// Phase is the derived lifecycle view at snapshot time.
	Phase Phase
	// TotalRaised mirrors the aggregate total.
	TotalRaised *uint256.Int
	// Goal mirrors the base funding target.
	Goal *uint256.Int
	// ProgressBasisPoints is raised/goal in basis points, capped at 10000.
	ProgressBasisPoints uint64
	// Contributors is the count of addresses with a nonzero balance.
	Contributors int
	// AverageContribution is TotalRaised / Contributors, zero when empty.
	AverageContribution *uint256.Int
	// LargestContribution is the highest single balance, zero when empty.
	LargestContribution *uint256.Int
	// SecondsRemaining is time left until the deadline, zero once passed.
	SecondsRemaining int64
}

// ComputeStats derives the dashboard snapshot from the aggregate and the
// current ledger. Refunded contributors carry a zero balance and are not
// counted.
func (c Campaign) ComputeStats(ledger []Contribution, now func() time.Time) Stats {
	now = orNow(now)
	moment := now().UTC()

	stats := Stats{
		Phase:               c.Phase(moment),
		TotalRaised:         amountOrZero(c.TotalRaised),
		Goal:                amountOrZero(c.Goal),
		AverageContribution: new(uint256.Int),
		LargestContribution: new(uint256.Int),
	}

	if !c.Expired(moment) {
		stats.SecondsRemaining = int64(c.Deadline.Sub(moment) / time.Second)
	}

	for _, entry := range ledger {
		if entry.Amount == nil || entry.Amount.IsZero() {
			continue
		}
		stats.Contributors++
		if entry.Amount.Cmp(stats.LargestContribution) > 0 {
			stats.LargestContribution = entry.Amount.Clone()
		}
	}
	if stats.Contributors > 0 {
		stats.AverageContribution = new(uint256.Int).Div(
			stats.TotalRaised,
			uint256.NewInt(uint64(stats.Contributors)),
		)
	}

	if !stats.Goal.IsZero() {
		scaled, overflow := new(uint256.Int).MulOverflow(stats.TotalRaised, uint256.NewInt(10_000))
		ratio := new(uint256.Int).Div(scaled, stats.Goal)
		if overflow || ratio.CmpUint64(10_000) > 0 {
			stats.ProgressBasisPoints = 10_000
		} else {
			stats.ProgressBasisPoints = ratio.Uint64()
		}
	}
	return stats
}
