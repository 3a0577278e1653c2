package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/service"
	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

// toolError surfaces an operation failure with its machine-readable code so
// scripted callers can branch on the kind instead of parsing prose.
func toolError(op string, err error) error {
	if code := apperrors.GetCode(err); code != apperrors.CodeUnknown {
		return fmt.Errorf("%s failed: %s: %w", op, code, err)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

// parseDeadline accepts RFC3339 timestamps from tool inputs.
func parseDeadline(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return parsed, nil
}

// CampaignInitializeHandler executes campaign initialization.
func CampaignInitializeHandler(svc *service.Service) mcp.ToolHandlerFor[CampaignInitializeInput, service.CampaignView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignInitializeInput) (*mcp.CallToolResult, service.CampaignView, error) {
		deadline, err := parseDeadline(input.Deadline)
		if err != nil {
			return nil, service.CampaignView{}, err
		}
		view, err := svc.Initialize(ctx, service.InitializeParams{
			Credential:      input.Caller,
			Asset:           input.Asset,
			Goal:            input.Goal,
			Deadline:        deadline,
			MinContribution: input.MinContribution,
			CodeRef:         input.CodeRef,
			Title:           input.Title,
			Description:     input.Description,
		})
		if err != nil {
			return nil, service.CampaignView{}, toolError("campaign initialize", err)
		}
		return nil, view, nil
	}
}

// CampaignContributeHandler executes a contribution.
func CampaignContributeHandler(svc *service.Service) mcp.ToolHandlerFor[CampaignContributeInput, service.ContributionView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CampaignContributeInput) (*mcp.CallToolResult, service.ContributionView, error) {
		view, err := svc.Contribute(ctx, input.Caller, input.Amount)
		if err != nil {
			return nil, service.ContributionView{}, toolError("campaign contribute", err)
		}
		return nil, view, nil
	}
}

// CampaignWithdrawHandler executes the creator withdrawal.
func CampaignWithdrawHandler(svc *service.Service) mcp.ToolHandlerFor[CallerInput, service.SettlementView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CallerInput) (*mcp.CallToolResult, service.SettlementView, error) {
		view, err := svc.Withdraw(ctx, input.Caller)
		if err != nil {
			return nil, service.SettlementView{}, toolError("campaign withdraw", err)
		}
		return nil, view, nil
	}
}

// CampaignRefundHandler executes a contributor refund claim.
func CampaignRefundHandler(svc *service.Service) mcp.ToolHandlerFor[CallerInput, service.SettlementView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CallerInput) (*mcp.CallToolResult, service.SettlementView, error) {
		view, err := svc.Refund(ctx, input.Caller)
		if err != nil {
			return nil, service.SettlementView{}, toolError("campaign refund", err)
		}
		return nil, view, nil
	}
}

// CampaignCancelHandler executes campaign cancellation.
func CampaignCancelHandler(svc *service.Service) mcp.ToolHandlerFor[CallerInput, service.CampaignView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CallerInput) (*mcp.CallToolResult, service.CampaignView, error) {
		view, err := svc.Cancel(ctx, input.Caller)
		if err != nil {
			return nil, service.CampaignView{}, toolError("campaign cancel", err)
		}
		return nil, view, nil
	}
}

// RoadmapItemAddHandler appends a roadmap item.
func RoadmapItemAddHandler(svc *service.Service) mcp.ToolHandlerFor[RoadmapItemAddInput, service.RoadmapItemView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RoadmapItemAddInput) (*mcp.CallToolResult, service.RoadmapItemView, error) {
		date, err := parseDeadline(input.Date)
		if err != nil {
			return nil, service.RoadmapItemView{}, err
		}
		view, err := svc.AddRoadmapItem(ctx, input.Caller, date, input.Description)
		if err != nil {
			return nil, service.RoadmapItemView{}, toolError("roadmap item add", err)
		}
		return nil, view, nil
	}
}

// StretchGoalAddHandler appends a stretch goal.
func StretchGoalAddHandler(svc *service.Service) mcp.ToolHandlerFor[StretchGoalAddInput, service.StretchGoalView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StretchGoalAddInput) (*mcp.CallToolResult, service.StretchGoalView, error) {
		view, err := svc.AddStretchGoal(ctx, input.Caller, input.Threshold, input.Description)
		if err != nil {
			return nil, service.StretchGoalView{}, toolError("stretch goal add", err)
		}
		return nil, view, nil
	}
}

// CampaignUpdateTitleHandler replaces the campaign title.
func CampaignUpdateTitleHandler(svc *service.Service) mcp.ToolHandlerFor[MetadataUpdateInput, service.CampaignView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MetadataUpdateInput) (*mcp.CallToolResult, service.CampaignView, error) {
		view, err := svc.UpdateTitle(ctx, input.Caller, input.Value)
		if err != nil {
			return nil, service.CampaignView{}, toolError("title update", err)
		}
		return nil, view, nil
	}
}

// CampaignUpdateDescriptionHandler replaces the campaign description.
func CampaignUpdateDescriptionHandler(svc *service.Service) mcp.ToolHandlerFor[MetadataUpdateInput, service.CampaignView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MetadataUpdateInput) (*mcp.CallToolResult, service.CampaignView, error) {
		view, err := svc.UpdateDescription(ctx, input.Caller, input.Value)
		if err != nil {
			return nil, service.CampaignView{}, toolError("description update", err)
		}
		return nil, view, nil
	}
}

// CampaignUpdateSocialsHandler replaces the campaign social links.
func CampaignUpdateSocialsHandler(svc *service.Service) mcp.ToolHandlerFor[SocialsUpdateInput, service.CampaignView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SocialsUpdateInput) (*mcp.CallToolResult, service.CampaignView, error) {
		view, err := svc.UpdateSocials(ctx, input.Caller, input.Socials)
		if err != nil {
			return nil, service.CampaignView{}, toolError("socials update", err)
		}
		return nil, view, nil
	}
}

// ContractUpgradeHandler points the contract at new code.
func ContractUpgradeHandler(svc *service.Service) mcp.ToolHandlerFor[ContractUpgradeInput, service.CampaignView] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ContractUpgradeInput) (*mcp.CallToolResult, service.CampaignView, error) {
		view, err := svc.Upgrade(ctx, input.Caller, input.CodeRef)
		if err != nil {
			return nil, service.CampaignView{}, toolError("contract upgrade", err)
		}
		return nil, view, nil
	}
}
