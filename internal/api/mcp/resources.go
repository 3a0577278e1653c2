package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/service"
)

const journalResourceLimit = 50

// CampaignSummaryResource describes the campaign summary document.
func CampaignSummaryResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "campaign://summary",
		Name:        "campaign-summary",
		Description: "Campaign parameters, raised total, and lifecycle phase",
		MIMEType:    "application/json",
	}
}

// CampaignStatsResource describes the dashboard snapshot document.
func CampaignStatsResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "campaign://stats",
		Name:        "campaign-stats",
		Description: "Funding progress, contributor counts, and time remaining",
		MIMEType:    "application/json",
	}
}

// CampaignMilestoneResource describes the current milestone document.
func CampaignMilestoneResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "campaign://milestone",
		Name:        "campaign-milestone",
		Description: "The funding threshold the campaign is currently working toward",
		MIMEType:    "application/json",
	}
}

// CampaignRoadmapResource describes the roadmap document.
func CampaignRoadmapResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "campaign://roadmap",
		Name:        "campaign-roadmap",
		Description: "Roadmap items and stretch goals in order",
		MIMEType:    "application/json",
	}
}

// CampaignJournalResource describes the audit journal document.
func CampaignJournalResource() *mcp.Resource {
	return &mcp.Resource{
		URI:         "campaign://journal",
		Name:        "campaign-journal",
		Description: "Newest campaign events, newest first",
		MIMEType:    "application/json",
	}
}

// CampaignContributionResourceTemplate describes per-contributor balances.
func CampaignContributionResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		URITemplate: "campaign://contribution/{address}",
		Name:        "campaign-contribution",
		Description: "One contributor's current ledger balance",
		MIMEType:    "application/json",
	}
}

func resourceResult(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal resource payload: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// CampaignSummaryResourceHandler serves the campaign summary.
func CampaignSummaryResourceHandler(svc *service.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		view, err := svc.Summary(ctx)
		if err != nil {
			return nil, fmt.Errorf("campaign summary failed: %w", err)
		}
		return resourceResult(req.Params.URI, view)
	}
}

// CampaignStatsResourceHandler serves the dashboard snapshot.
func CampaignStatsResourceHandler(svc *service.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		view, err := svc.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("campaign stats failed: %w", err)
		}
		return resourceResult(req.Params.URI, view)
	}
}

// CampaignMilestoneResourceHandler serves the current milestone.
func CampaignMilestoneResourceHandler(svc *service.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		view, err := svc.Milestone(ctx)
		if err != nil {
			return nil, fmt.Errorf("campaign milestone failed: %w", err)
		}
		return resourceResult(req.Params.URI, view)
	}
}

// roadmapPayload bundles roadmap items and stretch goals into one document.
type roadmapPayload struct {
	Items        []service.RoadmapItemView `json:"items"`
	StretchGoals []service.StretchGoalView `json:"stretch_goals"`
}

// CampaignRoadmapResourceHandler serves roadmap items and stretch goals.
func CampaignRoadmapResourceHandler(svc *service.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		items, err := svc.Roadmap(ctx)
		if err != nil {
			return nil, fmt.Errorf("campaign roadmap failed: %w", err)
		}
		goals, err := svc.StretchGoals(ctx)
		if err != nil {
			return nil, fmt.Errorf("campaign stretch goals failed: %w", err)
		}
		return resourceResult(req.Params.URI, roadmapPayload{Items: items, StretchGoals: goals})
	}
}

// CampaignJournalResourceHandler serves the audit journal.
func CampaignJournalResourceHandler(svc *service.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		entries, err := svc.Journal(ctx, journalResourceLimit)
		if err != nil {
			return nil, fmt.Errorf("campaign journal failed: %w", err)
		}
		return resourceResult(req.Params.URI, struct {
			Entries []service.JournalEntryView `json:"entries"`
		}{Entries: entries})
	}
}

// CampaignContributionResourceHandler serves one contributor's balance.
func CampaignContributionResourceHandler(svc *service.Service) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("contributor address is required; use URI format campaign://contribution/{address}")
		}
		address, err := parseContributionAddress(req.Params.URI)
		if err != nil {
			return nil, err
		}
		view, err := svc.Contribution(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("campaign contribution failed: %w", err)
		}
		return resourceResult(req.Params.URI, view)
	}
}

// parseContributionAddress extracts the address from a URI of the form
// campaign://contribution/{address}.
func parseContributionAddress(uri string) (string, error) {
	const prefix = "campaign://contribution/"
	if !strings.HasPrefix(uri, prefix) {
		return "", fmt.Errorf("unexpected contribution URI %q", uri)
	}
	address := strings.TrimPrefix(uri, prefix)
	if address == "" {
		return "", fmt.Errorf("contribution URI %q is missing an address", uri)
	}
	return address, nil
}
