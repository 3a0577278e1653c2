package service

import (
	"context"
	"time"

	"github.com/holiman/uint256"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/campaign"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/storage"
)

// AddRoadmapItem appends a dated note to the delivery plan.
func (s *Service) AddRoadmapItem(ctx context.Context, credential string, date time.Time, description string) (RoadmapItemView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.AddRoadmapItem")
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.loadCampaign(ctx)
	if err != nil {
		return RoadmapItemView{}, err
	}
	caller, err := s.verifyCaller(credential)
	if err != nil {
		return RoadmapItemView{}, err
	}

	item, err := record.NewRoadmapItem(caller.Address, date, description, s.now)
	if err != nil {
		return RoadmapItemView{}, err
	}

	err = s.store.Apply(ctx, storage.Changeset{
		RoadmapItem: &item,
		Journal: []storage.JournalEntry{{
			Event: storage.EventRoadmapItemAdded,
			Actor: caller.Address,
			Note:  item.Description,
			At:    item.AddedAt,
		}},
	})
	if err != nil {
		return RoadmapItemView{}, err
	}
	return roadmapItemView(item), nil
}

// AddStretchGoal appends a funding threshold beyond the base goal.
func (s *Service) AddStretchGoal(ctx context.Context, credential, threshold, description string) (StretchGoalView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.AddStretchGoal")
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.loadCampaign(ctx)
	if err != nil {
		return StretchGoalView{}, err
	}
	caller, err := s.verifyCaller(credential)
	if err != nil {
		return StretchGoalView{}, err
	}
	parsed, err := campaign.ParseAmount(threshold)
	if err != nil {
		return StretchGoalView{}, err
	}

	existing, err := s.store.ListStretchGoals(ctx)
	if err != nil {
		return StretchGoalView{}, err
	}
	var prevMax *uint256.Int
	if n := len(existing); n > 0 {
		prevMax = existing[n-1].Threshold
	}

	goal, err := record.NewStretchGoal(caller.Address, parsed, prevMax, description, s.now)
	if err != nil {
		return StretchGoalView{}, err
	}

	err = s.store.Apply(ctx, storage.Changeset{
		StretchGoal: &goal,
		Journal: []storage.JournalEntry{{
			Event:  storage.EventStretchGoalAdded,
			Actor:  caller.Address,
			Amount: campaign.FormatAmount(goal.Threshold),
			Note:   goal.Description,
			At:     goal.AddedAt,
		}},
	})
	if err != nil {
		return StretchGoalView{}, err
	}
	return stretchGoalView(goal), nil
}
