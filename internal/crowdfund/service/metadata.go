package service

import (
	"context"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/campaign"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/storage"
)

// UpdateTitle replaces the campaign title.
func (s *Service) UpdateTitle(ctx context.Context, credential, title string) (CampaignView, error) {
	return s.updateMetadata(ctx, "crowdfund.UpdateTitle", credential, "title",
		func(record campaign.Campaign, caller string) (campaign.Campaign, error) {
			return record.UpdateTitle(caller, title, s.now)
		})
}

// UpdateDescription replaces the campaign description.
func (s *Service) UpdateDescription(ctx context.Context, credential, description string) (CampaignView, error) {
	return s.updateMetadata(ctx, "crowdfund.UpdateDescription", credential, "description",
		func(record campaign.Campaign, caller string) (campaign.Campaign, error) {
			return record.UpdateDescription(caller, description, s.now)
		})
}

// UpdateSocials replaces the social links map wholesale.
func (s *Service) UpdateSocials(ctx context.Context, credential string, socials map[string]string) (CampaignView, error) {
	return s.updateMetadata(ctx, "crowdfund.UpdateSocials", credential, "socials",
		func(record campaign.Campaign, caller string) (campaign.Campaign, error) {
			return record.UpdateSocials(caller, socials, s.now)
		})
}

// Upgrade points the contract at a new code version. Admin-only.
func (s *Service) Upgrade(ctx context.Context, credential, codeRef string) (CampaignView, error) {
	ctx, span := s.startSpan(ctx, "crowdfund.Upgrade")
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

	updated, err := record.Upgrade(caller.Address, codeRef, s.now)
	if err != nil {
		return CampaignView{}, err
	}

	err = s.store.Apply(ctx, storage.Changeset{
		Campaign: &updated,
		Journal: []storage.JournalEntry{{
			Event: storage.EventUpgraded,
			Actor: caller.Address,
			Note:  updated.CodeRef,
			At:    updated.UpdatedAt,
		}},
	})
	if err != nil {
		return CampaignView{}, err
	}
	return s.campaignView(updated), nil
}

func (s *Service) updateMetadata(ctx context.Context, spanName, credential, field string, apply func(campaign.Campaign, string) (campaign.Campaign, error)) (CampaignView, error) {
	ctx, span := s.startSpan(ctx, spanName)
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

	updated, err := apply(record, caller.Address)
	if err != nil {
		return CampaignView{}, err
	}

	err = s.store.Apply(ctx, storage.Changeset{
		Campaign: &updated,
		Journal: []storage.JournalEntry{{
			Event: storage.EventMetadataUpdated,
			Actor: caller.Address,
			Note:  field,
			At:    updated.UpdatedAt,
		}},
	})
	if err != nil {
		return CampaignView{}, err
	}
	return s.campaignView(updated), nil
}
