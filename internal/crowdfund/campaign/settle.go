package campaign

import (
	"time"

	"github.com/holiman/uint256"
)

// Withdraw pays the whole raised total to the creator.
//
// Legal only for the creator, on an active campaign, after the deadline,
// with the goal met, exactly once. On success it returns the updated record
// with a zeroed total and the payout amount; Settled guards against replay
// so the zeroed total is never misread as a failed campaign.
func (c Campaign) Withdraw(caller string, now func() time.Time) (Campaign, *uint256.Int, error) {
	now = orNow(now)
	if caller != c.Creator {
		return Campaign{}, nil, ErrUnauthorized
	}
	if c.Status != StatusActive {
		return Campaign{}, nil, ErrCampaignNotActive
	}
	if c.Settled {
		return Campaign{}, nil, ErrAlreadyWithdrawn
	}
	moment := now().UTC()
	if !c.Expired(moment) {
		return Campaign{}, nil, ErrCampaignNotExpired
	}
	if !c.GoalMet() {
		return Campaign{}, nil, ErrGoalNotReached
	}
	if c.TotalRaised.IsZero() {
		return Campaign{}, nil, ErrAlreadyWithdrawn
	}

	payout := c.TotalRaised.Clone()
	updated := c.clone()
	updated.TotalRaised = new(uint256.Int)
	updated.Settled = true
	updated.UpdatedAt = moment
	return updated, payout, nil
}

// Refund settles a single contributor's balance back to them.
//
// balance is the contributor's current ledger entry. Refunds are legal after
// the deadline when the goal was missed, or unconditionally once the campaign
// is cancelled. The caller is the refunded contributor; refunding on behalf
// of another identity is not supported.
func (c Campaign) Refund(balance *uint256.Int, now func() time.Time) (Campaign, *uint256.Int, error) {
	now = orNow(now)
	moment := now().UTC()
	if c.Status != StatusCancelled {
		if c.Status != StatusActive {
			return Campaign{}, nil, ErrCampaignNotActive
		}
		if c.Settled {
			return Campaign{}, nil, ErrGoalAlreadyReached
		}
		if !c.Expired(moment) {
			return Campaign{}, nil, ErrCampaignNotExpired
		}
		if c.GoalMet() {
			return Campaign{}, nil, ErrGoalAlreadyReached
		}
	}
	if balance == nil || balance.IsZero() {
		return Campaign{}, nil, ErrNoContribution
	}

	total, err := checkedSub(c.TotalRaised, balance)
	if err != nil {
		return Campaign{}, nil, err
	}

	refunded := balance.Clone()
	updated := c.clone()
	updated.TotalRaised = total
	updated.UpdatedAt = moment
	return updated, refunded, nil
}

// Cancel marks the campaign cancelled, making refunds unconditionally
// available. Creator-only, and only while the campaign is active, unsettled,
// and before the deadline.
func (c Campaign) Cancel(caller string, now func() time.Time) (Campaign, error) {
	now = orNow(now)
	if caller != c.Creator {
		return Campaign{}, ErrUnauthorized
	}
	if c.Status != StatusActive {
		return Campaign{}, ErrCampaignNotActive
	}
	if c.Settled {
		return Campaign{}, ErrAlreadyWithdrawn
	}
	moment := now().UTC()
	if c.Expired(moment) {
		return Campaign{}, ErrCampaignExpired
	}

	updated := c.clone()
	updated.Status = StatusCancelled
	updated.UpdatedAt = moment
	return updated, nil
}

// orNow defaults a nil clock to time.Now.
func orNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
