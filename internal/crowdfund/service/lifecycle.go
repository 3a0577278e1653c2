package service

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/campaign"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/storage"
)

// InitializeParams are the immutable campaign parameters.
type InitializeParams struct {
	Credential      string
	Asset           string
	Goal            string
	Deadline        time.Time
	MinContribution string
	CodeRef         string
	Title           string
	Description     string
}

// Initialize creates the campaign record. The verified caller becomes both
// creator and admin.
func (s *Service) Initialize(ctx context.Context, params InitializeParams) (CampaignView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Initialize")
	var err error
	defer func() { endSpan(span, err) }()

	_, getErr := s.store.GetCampaign(ctx)
	if getErr == nil {
		err = campaign.ErrAlreadyInitialized
		return CampaignView{}, err
	}
	if !errors.Is(getErr, storage.ErrNotFound) {
		err = getErr
		return CampaignView{}, err
	}

	caller, err := s.verifyCaller(params.Credential)
	if err != nil {
		return CampaignView{}, err
	}
	goal, err := campaign.ParseAmount(params.Goal)
	if err != nil {
		return CampaignView{}, err
	}
	minContribution, err := campaign.ParseOptionalAmount(params.MinContribution)
	if err != nil {
		return CampaignView{}, err
	}

	record, err := campaign.Initialize(campaign.InitializeInput{
		Creator:         caller.Address,
		Asset:           params.Asset,
		Goal:            goal,
		Deadline:        params.Deadline,
		MinContribution: minContribution,
		CodeRef:         params.CodeRef,
	}, s.now)
	if err != nil {
		return CampaignView{}, err
	}
	record.Title = params.Title
	record.Description = params.Description

	err = s.store.Apply(ctx, storage.Changeset{
		InsertCampaign: true,
		Campaign:       &record,
		Journal: []storage.JournalEntry{{
			Event: storage.EventInitialized,
			Actor: caller.Address,
			At:    record.InitializedAt,
		}},
	})
	if err != nil {
		return CampaignView{}, err
	}
	return s.campaignView(record), nil
}

// Contribute moves a contribution from the caller into contract custody and
// records it on the ledger.
func (s *Service) Contribute(ctx context.Context, credential, amount string) (ContributionView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Contribute")
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.loadCampaign(ctx)
	if err != nil {
		return ContributionView{}, err
	}
	caller, err := s.verifyCaller(credential)
	if err != nil {
		return ContributionView{}, err
	}
	parsed, err := campaign.ParseAmount(amount)
	if err != nil {
		return ContributionView{}, err
	}
	prior, err := s.store.GetContribution(ctx, caller.Address)
	if err != nil {
		return ContributionView{}, err
	}

	updated, balance, err := record.Contribute(caller.Address, prior, parsed, s.now)
	if err != nil {
		return ContributionView{}, err
	}

	err = s.transferAndApply(ctx, record.Asset, caller.Address, s.account, parsed, storage.Changeset{
		Campaign: &updated,
		Contribution: &storage.ContributionUpdate{
			Address: caller.Address,
			Balance: balance,
			At:      updated.UpdatedAt,
		},
		Journal: []storage.JournalEntry{{
			Event:  storage.EventContributed,
			Actor:  caller.Address,
			Amount: campaign.FormatAmount(parsed),
			At:     updated.UpdatedAt,
		}},
	})
	if err != nil {
		return ContributionView{}, err
	}

	return ContributionView{
		Address:     caller.Address,
		Amount:      campaign.FormatAmount(balance),
		TotalRaised: campaign.FormatAmount(updated.TotalRaised),
	}, nil
}

// Withdraw pays the raised total out to the creator after a successful run.
func (s *Service) Withdraw(ctx context.Context, credential string) (SettlementView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Withdraw")
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.loadCampaign(ctx)
	if err != nil {
		return SettlementView{}, err
	}
	caller, err := s.verifyCaller(credential)
	if err != nil {
		return SettlementView{}, err
	}

	updated, payout, err := record.Withdraw(caller.Address, s.now)
	if err != nil {
		return SettlementView{}, err
	}

	err = s.transferAndApply(ctx, record.Asset, s.account, record.Creator, payout, storage.Changeset{
		Campaign: &updated,
		Journal: []storage.JournalEntry{{
			Event:  storage.EventWithdrawn,
			Actor:  caller.Address,
			Amount: campaign.FormatAmount(payout),
			At:     updated.UpdatedAt,
		}},
	})
	if err != nil {
		return SettlementView{}, err
	}

	return SettlementView{
		Address: record.Creator,
		Amount:  campaign.FormatAmount(payout),
		Phase:   string(updated.Phase(s.now().UTC())),
	}, nil
}

// Refund returns the caller's full ledger balance after a failed or
// cancelled run. Refunds are pull-based: each contributor claims their own.
func (s *Service) Refund(ctx context.Context, credential string) (SettlementView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Refund")
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.loadCampaign(ctx)
	if err != nil {
		return SettlementView{}, err
	}
	caller, err := s.verifyCaller(credential)
	if err != nil {
		return SettlementView{}, err
	}
	balance, err := s.store.GetContribution(ctx, caller.Address)
	if err != nil {
		return SettlementView{}, err
	}

	updated, refunded, err := record.Refund(balance, s.now)
	if err != nil {
		return SettlementView{}, err
	}

	err = s.transferAndApply(ctx, record.Asset, s.account, caller.Address, refunded, storage.Changeset{
		Campaign: &updated,
		Contribution: &storage.ContributionUpdate{
			Address: caller.Address,
			Balance: nil, // zeroed ledger entry
			At:      updated.UpdatedAt,
		},
		Journal: []storage.JournalEntry{{
			Event:  storage.EventRefunded,
			Actor:  caller.Address,
			Amount: campaign.FormatAmount(refunded),
			At:     updated.UpdatedAt,
		}},
	})
	if err != nil {
		return SettlementView{}, err
	}

	return SettlementView{
		Address: caller.Address,
		Amount:  campaign.FormatAmount(refunded),
		Phase:   string(updated.Phase(s.now().UTC())),
	}, nil
}

// Cancel marks the campaign cancelled so contributors can claim refunds
// before the deadline.
func (s *Service) Cancel(ctx context.Context, credential string) (CampaignView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Cancel")
	var err error
	defer func() { endSpan(span, err) }()

	record, err := s.loadCampaign(ctx)
	if err != nil {
		return CampaignView{}, err
	}
	caller, err := s.verifyCaller(credential)
	if err != nil {
		return CampaignView{}, err
	}

	updated, err := record.Cancel(caller.Address, s.now)
	if err != nil {
		return CampaignView{}, err
	}

	err = s.store.Apply(ctx, storage.Changeset{
		Campaign: &updated,
		Journal: []storage.JournalEntry{{
			Event: storage.EventCancelled,
			Actor: caller.Address,
			At:    updated.UpdatedAt,
		}},
	})
	if err != nil {
		return CampaignView{}, err
	}
	return s.campaignView(updated), nil
}
