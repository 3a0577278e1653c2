package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/service"
)

const (
	serverName = "crowdfund-space"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// NewServer builds the MCP server with every contract tool and resource
// registered.
func NewServer(svc *service.Service) (*mcp.Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("crowdfund service is required")
	}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, CampaignInitializeTool(), CampaignInitializeHandler(svc))
	mcp.AddTool(server, CampaignContributeTool(), CampaignContributeHandler(svc))
	mcp.AddTool(server, CampaignWithdrawTool(), CampaignWithdrawHandler(svc))
	mcp.AddTool(server, CampaignRefundTool(), CampaignRefundHandler(svc))
	mcp.AddTool(server, CampaignCancelTool(), CampaignCancelHandler(svc))
	mcp.AddTool(server, RoadmapItemAddTool(), RoadmapItemAddHandler(svc))
	mcp.AddTool(server, StretchGoalAddTool(), StretchGoalAddHandler(svc))
	mcp.AddTool(server, CampaignUpdateTitleTool(), CampaignUpdateTitleHandler(svc))
	mcp.AddTool(server, CampaignUpdateDescriptionTool(), CampaignUpdateDescriptionHandler(svc))
	mcp.AddTool(server, CampaignUpdateSocialsTool(), CampaignUpdateSocialsHandler(svc))
	mcp.AddTool(server, ContractUpgradeTool(), ContractUpgradeHandler(svc))

	server.AddResource(CampaignSummaryResource(), CampaignSummaryResourceHandler(svc))
	server.AddResource(CampaignStatsResource(), CampaignStatsResourceHandler(svc))
	server.AddResource(CampaignMilestoneResource(), CampaignMilestoneResourceHandler(svc))
	server.AddResource(CampaignRoadmapResource(), CampaignRoadmapResourceHandler(svc))
	server.AddResource(CampaignJournalResource(), CampaignJournalResourceHandler(svc))
	server.AddResourceTemplate(CampaignContributionResourceTemplate(), CampaignContributionResourceHandler(svc))

	return server, nil
}

// Serve runs the MCP server over stdio until the context is cancelled.
func Serve(ctx context.Context, server *mcp.Server) error {
	if server == nil {
		return fmt.Errorf("mcp server is required")
	}
	return server.Run(ctx, &mcp.StdioTransport{})
}
