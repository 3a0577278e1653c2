package service

import (
	"context"
	"time"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/campaign"
)

// CampaignView is the read model for the campaign summary. Amounts travel as
// decimal strings so callers never lose precision to JSON numbers.
type CampaignView struct {
	Creator         string            `json:"creator"`
	Asset           string            `json:"asset"`
	Goal            string            `json:"goal"`
	Deadline        time.Time         `json:"deadline"`
	MinContribution string            `json:"min_contribution"`
	TotalRaised     string            `json:"total_raised"`
	Phase           string            `json:"phase"`
	Settled         bool              `json:"settled"`
	Admin           string            `json:"admin"`
	CodeRef         string            `json:"code_ref,omitempty"`
	Title           string            `json:"title,omitempty"`
	Description     string            `json:"description,omitempty"`
	Socials         map[string]string `json:"socials,omitempty"`
	InitializedAt   time.Time         `json:"initialized_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ContributionView is the read model for one ledger balance.
type ContributionView struct {
	Address     string `json:"address"`
	Amount      string `json:"amount"`
	TotalRaised string `json:"total_raised,omitempty"`
}

// SettlementView reports a completed withdrawal or refund.
type SettlementView struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
	Phase   string `json:"phase"`
}

// RoadmapItemView is the read model for one roadmap entry.
type RoadmapItemView struct {
	Seq         int64     `json:"seq"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// StretchGoalView is the read model for one stretch goal.
type StretchGoalView struct {
	Seq         int64  `json:"seq"`
	Threshold   string `json:"threshold"`
	Description string `json:"description"`
}

// MilestoneView is the read model for the current funding target.
type MilestoneView struct {
	Target      string `json:"target"`
	Description string `json:"description,omitempty"`
	AllReached  bool   `json:"all_reached"`
	TotalRaised string `json:"total_raised"`
}

// StatsView is the read model for the dashboard snapshot.
type StatsView struct {
	Phase               string `json:"phase"`
	TotalRaised         string `json:"total_raised"`
	Goal                string `json:"goal"`
	ProgressBasisPoints uint64 `json:"progress_basis_points"`
	Contributors        int    `json:"contributors"`
	AverageContribution string `json:"average_contribution"`
	LargestContribution string `json:"largest_contribution"`
	SecondsRemaining    int64  `json:"seconds_remaining"`
}

// JournalEntryView is the read model for one journal record.
type JournalEntryView struct {
	Seq    int64     `json:"seq"`
	Event  string    `json:"event"`
	Actor  string    `json:"actor"`
	Amount string    `json:"amount,omitempty"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// Summary returns the campaign read model.
func (s *Service) Summary(ctx context.Context) (CampaignView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Summary")
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.loadCampaign(ctx)
	if err != nil {
		return CampaignView{}, err
	}
	return s.campaignView(record), nil
}

// Contribution returns one contributor's ledger balance.
func (s *Service) Contribution(ctx context.Context, address string) (ContributionView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Contribution")
	var err error
	defer func() { endSpan(span, err) }()

	if _, err = s.loadCampaign(ctx); err != nil {
		return ContributionView{}, err
	}
	balance, err := s.store.GetContribution(ctx, address)
	if err != nil {
		return ContributionView{}, err
	}
	return ContributionView{
		Address: address,
		Amount:  campaign.FormatAmount(balance),
	}, nil
}

// Contributions returns the full ledger, ordered by address.
func (s *Service) Contributions(ctx context.Context) ([]ContributionView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Contributions")
	var err error
	defer func() { endSpan(span, err) }()

	if _, err = s.loadCampaign(ctx); err != nil {
		return nil, err
	}
	entries, err := s.store.ListContributions(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ContributionView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, ContributionView{
			Address: entry.Address,
			Amount:  campaign.FormatAmount(entry.Amount),
		})
	}
	return views, nil
}

// Roadmap returns the delivery plan in insertion order.
func (s *Service) Roadmap(ctx context.Context) ([]RoadmapItemView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Roadmap")
	var err error
	defer func() { endSpan(span, err) }()

	if _, err = s.loadCampaign(ctx); err != nil {
		return nil, err
	}
	items, err := s.store.ListRoadmapItems(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]RoadmapItemView, 0, len(items))
	for _, item := range items {
		views = append(views, roadmapItemView(item))
	}
	return views, nil
}

// StretchGoals returns stretch goals in threshold order.
func (s *Service) StretchGoals(ctx context.Context) ([]StretchGoalView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.StretchGoals")
	var err error
	defer func() { endSpan(span, err) }()

	if _, err = s.loadCampaign(ctx); err != nil {
		return nil, err
	}
	goals, err := s.store.ListStretchGoals(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]StretchGoalView, 0, len(goals))
	for _, goal := range goals {
		views = append(views, stretchGoalView(goal))
	}
	return views, nil
}

// Milestone returns the threshold the campaign is currently working toward.
func (s *Service) Milestone(ctx context.Context) (MilestoneView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Milestone")
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.loadCampaign(ctx)
	if err != nil {
		return MilestoneView{}, err
	}
	goals, err := s.store.ListStretchGoals(ctx)
	if err != nil {
		return MilestoneView{}, err
	}
	milestone := record.CurrentMilestone(goals)
	return MilestoneView{
		Target:      campaign.FormatAmount(milestone.Target),
		Description: milestone.Description,
		AllReached:  milestone.AllReached,
		TotalRaised: campaign.FormatAmount(record.TotalRaised),
	}, nil
}

// Stats returns the dashboard snapshot.
func (s *Service) Stats(ctx context.Context) (StatsView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Stats")
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.loadCampaign(ctx)
	if err != nil {
		return StatsView{}, err
	}
	ledger, err := s.store.ListContributions(ctx)
	if err != nil {
		return StatsView{}, err
	}
	stats := record.ComputeStats(ledger, s.now)
	return StatsView{
		Phase:               string(stats.Phase),
		TotalRaised:         campaign.FormatAmount(stats.TotalRaised),
		Goal:                campaign.FormatAmount(stats.Goal),
		ProgressBasisPoints: stats.ProgressBasisPoints,
		Contributors:        stats.Contributors,
		AverageContribution: campaign.FormatAmount(stats.AverageContribution),
		LargestContribution: campaign.FormatAmount(stats.LargestContribution),
		SecondsRemaining:    stats.SecondsRemaining,
	}, nil
}

// Journal returns the newest audit entries, newest first.
func (s *Service) Journal(ctx context.Context, limit int) ([]JournalEntryView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Journal")
	var err error
	defer func() { endSpan(span, err) }()

	if _, err = s.loadCampaign(ctx); err != nil {
		return nil, err
	}
	entries, err := s.store.ListJournal(ctx, limit)
	if err != nil {
		return nil, err
	}
	views := make([]JournalEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, JournalEntryView{
			Seq:    entry.Seq,
			Event:  entry.Event,
			Actor:  entry.Actor,
			Amount: entry.Amount,
			Note:   entry.Note,
			At:     entry.At,
		})
	}
	return views, nil
}

func (s *Service) campaignView(record campaign.Campaign) CampaignView {
	return CampaignView{
		Creator:         record.Creator,
		Asset:           record.Asset,
		Goal:            campaign.FormatAmount(record.Goal),
		Deadline:        record.Deadline,
		MinContribution: campaign.FormatAmount(record.MinContribution),
		TotalRaised:     campaign.FormatAmount(record.TotalRaised),
		Phase:           string(record.Phase(s.now().UTC())),
		Settled:         record.Settled,
		Admin:           record.Admin,
		CodeRef:         record.CodeRef,
		Title:           record.Title,
		Description:     record.Description,
		Socials:         record.Socials,
		InitializedAt:   record.InitializedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func roadmapItemView(item campaign.RoadmapItem) RoadmapItemView {
	return RoadmapItemView{
		Seq:         item.Seq,
		Date:        item.Date,
		Description: item.Description,
	}
}

func stretchGoalView(goal campaign.StretchGoal) StretchGoalView {
	return StretchGoalView{
		Seq:         goal.Seq,
		Threshold:   campaign.FormatAmount(goal.Threshold),
		Description: goal.Description,
	}
}
