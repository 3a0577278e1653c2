package campaign

import (
	"strings"
	"time"

	"github.com/holiman/uint256"

	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

// RoadmapItem is a dated note on the campaign's delivery plan. Items are
// append-only and ordered by insertion.
type RoadmapItem struct {
	// Seq is the 1-based insertion order, assigned by storage.
	Seq int64
	// Date is the planned delivery date.
	Date time.Time
	// Description is free-form text, never empty.
	Description string
	// AddedAt is the timestamp of the add call.
	AddedAt time.Time
}

// StretchGoal is an extra funding threshold beyond the base goal. Goals are
// append-only and their thresholds strictly increase.
type StretchGoal struct {
	// Seq is the 1-based insertion order, assigned by storage.
	Seq int64
	// Threshold is the raised total at which the goal unlocks.
	Threshold *uint256.Int
	// Description is free-form text, never empty.
	Description string
	// AddedAt is the timestamp of the add call.
	AddedAt time.Time
}

// NewRoadmapItem validates a roadmap entry on behalf of the creator. The item
// date must lie strictly after the moment it is added; planning the past is a
// typo.
func (c Campaign) NewRoadmapItem(caller string, date time.Time, description string, now func() time.Time) (RoadmapItem, error) {
	now = orNow(now)
	if caller != c.Creator {
		return RoadmapItem{}, ErrUnauthorized
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return RoadmapItem{}, apperrors.New(apperrors.CodeEmptyDescription, "roadmap item description is required")
	}
	moment := now().UTC()
	if !date.UTC().After(moment) {
		return RoadmapItem{}, apperrors.WithMetadata(
			apperrors.CodeInvalidRoadmapDate,
			"roadmap item date must be in the future",
			map[string]string{"Date": date.UTC().Format(time.RFC3339)},
		)
	}
	return RoadmapItem{
		Date:        date.UTC(),
		Description: description,
		AddedAt:     moment,
	}, nil
}

// NewStretchGoal validates a stretch goal on behalf of the creator. prevMax is
// the highest existing threshold (nil when none exist); the new threshold must
// exceed both the base goal and prevMax so milestones stay strictly ordered.
func (c Campaign) NewStretchGoal(caller string, threshold, prevMax *uint256.Int, description string, now func() time.Time) (StretchGoal, error) {
	now = orNow(now)
	if caller != c.Creator {
		return StretchGoal{}, ErrUnauthorized
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return StretchGoal{}, apperrors.New(apperrors.CodeEmptyDescription, "stretch goal description is required")
	}
	if threshold == nil || threshold.Cmp(c.Goal) <= 0 {
		return StretchGoal{}, apperrors.New(
			apperrors.CodeStretchGoalThresholdTooLow,
			"stretch goal threshold must exceed the base goal",
		)
	}
	if prevMax != nil && threshold.Cmp(prevMax) <= 0 {
		return StretchGoal{}, apperrors.WithMetadata(
			apperrors.CodeStretchGoalThresholdTooLow,
			"stretch goal threshold must exceed the previous stretch goal",
			map[string]string{
				"Threshold": threshold.Dec(),
				"Previous":  prevMax.Dec(),
			},
		)
	}
	return StretchGoal{
		Threshold:   threshold.Clone(),
		Description: description,
		AddedAt:     now().UTC(),
	}, nil
}

// Milestone is the funding target the campaign is currently working toward.
type Milestone struct {
	// Target is the next unmet threshold, starting with the base goal.
	Target *uint256.Int
	// Description is empty for the base goal, otherwise the stretch goal text.
	Description string
	// AllReached is set when every threshold, stretch goals included, is met.
	AllReached bool
}

// CurrentMilestone reports the smallest threshold the raised total has not
// reached yet. The base goal comes first; stretch goals follow in threshold
// order. When everything is met the last threshold is reported with
// AllReached set.
func (c Campaign) CurrentMilestone(goals []StretchGoal) Milestone {
	raised := amountOrZero(c.TotalRaised)
	if raised.Cmp(c.Goal) < 0 {
		return Milestone{Target: c.Goal.Clone()}
	}
	for _, goal := range goals {
		if raised.Cmp(goal.Threshold) < 0 {
			return Milestone{Target: goal.Threshold.Clone(), Description: goal.Description}
		}
	}
	last := Milestone{Target: c.Goal.Clone(), AllReached: true}
	if n := len(goals); n > 0 {
		last.Target = goals[n-1].Threshold.Clone()
		last.Description = goals[n-1].Description
	}
	return last
}
