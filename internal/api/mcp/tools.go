package mcp

import "github.com/modelcontextprotocol/go-sdk/mcp"

// CampaignInitializeInput represents the MCP tool input for initialization.
type CampaignInitializeInput struct {
	Caller          string `json:"caller" jsonschema:"caller credential or address; becomes creator and admin"`
	Asset           string `json:"asset" jsonschema:"fungible asset identifier contributions are made in"`
	Goal            string `json:"goal" jsonschema:"funding goal as a decimal string in the asset's smallest unit"`
	Deadline        string `json:"deadline" jsonschema:"RFC3339 timestamp when contributions close"`
	MinContribution string `json:"min_contribution,omitempty" jsonschema:"smallest accepted contribution, defaults to no minimum"`
	CodeRef         string `json:"code_ref,omitempty" jsonschema:"code version reference backing this contract"`
	Title           string `json:"title,omitempty" jsonschema:"display title"`
	Description     string `json:"description,omitempty" jsonschema:"display description"`
}

// CampaignContributeInput represents the MCP tool input for contributions.
type CampaignContributeInput struct {
	Caller string `json:"caller" jsonschema:"contributor credential or address"`
	Amount string `json:"amount" jsonschema:"contribution amount as a decimal string"`
}

// CallerInput represents tool inputs that only identify the caller.
type CallerInput struct {
	Caller string `json:"caller" jsonschema:"caller credential or address"`
}

// RoadmapItemAddInput represents the MCP tool input for roadmap items.
type RoadmapItemAddInput struct {
	Caller      string `json:"caller" jsonschema:"creator credential or address"`
	Date        string `json:"date" jsonschema:"RFC3339 planned delivery date"`
	Description string `json:"description" jsonschema:"roadmap item text"`
}

// StretchGoalAddInput represents the MCP tool input for stretch goals.
type StretchGoalAddInput struct {
	Caller      string `json:"caller" jsonschema:"creator credential or address"`
	Threshold   string `json:"threshold" jsonschema:"funding threshold as a decimal string, above the base goal and prior stretch goals"`
	Description string `json:"description" jsonschema:"stretch goal text"`
}

// MetadataUpdateInput represents the MCP tool input for title and
// description updates.
type MetadataUpdateInput struct {
	Caller string `json:"caller" jsonschema:"creator credential or address"`
	Value  string `json:"value" jsonschema:"new field value"`
}

// SocialsUpdateInput represents the MCP tool input for social link updates.
type SocialsUpdateInput struct {
	Caller  string            `json:"caller" jsonschema:"creator credential or address"`
	Socials map[string]string `json:"socials" jsonschema:"platform label to link map, replaces the stored set"`
}

// ContractUpgradeInput represents the MCP tool input for code upgrades.
type ContractUpgradeInput struct {
	Caller  string `json:"caller" jsonschema:"admin credential or address"`
	CodeRef string `json:"code_ref" jsonschema:"new code version reference"`
}

// CampaignInitializeTool defines the MCP tool schema for initialization.
func CampaignInitializeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_initialize",
		Description: "Creates the crowdfund campaign with its goal, asset, and deadline",
	}
}

// CampaignContributeTool defines the MCP tool schema for contributions.
func CampaignContributeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_contribute",
		Description: "Contributes tokens to the active campaign",
	}
}

// CampaignWithdrawTool defines the MCP tool schema for creator withdrawal.
func CampaignWithdrawTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_withdraw",
		Description: "Pays the raised total to the creator after a successful campaign",
	}
}

// CampaignRefundTool defines the MCP tool schema for contributor refunds.
func CampaignRefundTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_refund",
		Description: "Returns the caller's contribution after a failed or cancelled campaign",
	}
}

// CampaignCancelTool defines the MCP tool schema for cancellation.
func CampaignCancelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_cancel",
		Description: "Cancels the campaign before the deadline, opening refunds",
	}
}

// RoadmapItemAddTool defines the MCP tool schema for roadmap items.
func RoadmapItemAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "roadmap_item_add",
		Description: "Appends a dated item to the campaign roadmap",
	}
}

// StretchGoalAddTool defines the MCP tool schema for stretch goals.
func StretchGoalAddTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "stretch_goal_add",
		Description: "Appends a stretch goal above the base goal and prior thresholds",
	}
}

// CampaignUpdateTitleTool defines the MCP tool schema for title updates.
func CampaignUpdateTitleTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_update_title",
		Description: "Replaces the campaign title",
	}
}

// CampaignUpdateDescriptionTool defines the MCP tool schema for description updates.
func CampaignUpdateDescriptionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_update_description",
		Description: "Replaces the campaign description",
	}
}

// CampaignUpdateSocialsTool defines the MCP tool schema for social link updates.
func CampaignUpdateSocialsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "campaign_update_socials",
		Description: "Replaces the campaign social links",
	}
}

// ContractUpgradeTool defines the MCP tool schema for code upgrades.
func ContractUpgradeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "contract_upgrade",
		Description: "Points the contract at a new code version (admin only)",
	}
}
