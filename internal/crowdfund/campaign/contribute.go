package campaign

import (
	"strings"
	"time"

	"github.com/holiman/uint256"

	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

// Contribute applies a contribution to the aggregate.
//
// prior is the contributor's current ledger balance (nil for a first-time
// contributor). On success it returns the updated record and the
// contributor's new ledger balance. Preconditions are checked in spec order;
// the first failure wins and nothing is mutated.
func (c Campaign) Contribute(contributor string, prior, amount *uint256.Int, now func() time.Time) (Campaign, *uint256.Int, error) {
	now = orNow(now)
	if strings.TrimSpace(contributor) == "" {
		return Campaign{}, nil, apperrors.New(apperrors.CodeUnauthorized, "contributor identity is required")
	}
	if c.Status != StatusActive {
		return Campaign{}, nil, ErrCampaignNotActive
	}
	moment := now().UTC()
	if c.Expired(moment) {
		return Campaign{}, nil, ErrCampaignExpired
	}
	if amount == nil || amount.IsZero() {
		return Campaign{}, nil, apperrors.New(apperrors.CodeInvalidAmount, "amount must be positive")
	}
	if amount.Cmp(c.MinContribution) < 0 {
		return Campaign{}, nil, apperrors.WithMetadata(
			apperrors.CodeInvalidAmount,
			"amount is below the minimum contribution",
			map[string]string{
				"Amount":  amount.Dec(),
				"Minimum": c.MinContribution.Dec(),
			},
		)
	}

	balance, err := checkedAdd(amountOrZero(prior), amount)
	if err != nil {
		return Campaign{}, nil, err
	}
	total, err := checkedAdd(c.TotalRaised, amount)
	if err != nil {
		return Campaign{}, nil, err
	}

	updated := c.clone()
	updated.TotalRaised = total
	updated.UpdatedAt = moment
	return updated, balance, nil
}
