package storage

import (
	"context"
	"time"

	"github.com/holiman/uint256"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/campaign"
	"github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// Journal event names, one per mutating operation.
const (
	EventInitialized      = "initialized"
	EventContributed      = "contributed"
	EventWithdrawn        = "withdrawn"
	EventRefunded         = "refunded"
	EventCancelled        = "cancelled"
	EventRoadmapItemAdded = "roadmap_item_added"
	EventStretchGoalAdded = "stretch_goal_added"
	EventMetadataUpdated  = "metadata_updated"
	EventUpgraded         = "upgraded"
)

// JournalEntry is one append-only audit record.
type JournalEntry struct {
	// Seq is the 1-based insertion order, assigned by storage.
	Seq int64
	// Event is one of the Event* names.
	Event string
	// Actor is the caller address behind the mutation.
	Actor string
	// Amount is the decimal token amount the event moved, empty when none.
	Amount string
	// Note carries event-specific detail, such as the metadata field touched.
	Note string
	// At is the event timestamp.
	At time.Time
}

// ContributionUpdate replaces one contributor's ledger balance.
type ContributionUpdate struct {
	Address string
	Balance *uint256.Int
	At      time.Time
}

// Changeset is the unit of persistence. Apply commits every populated field
// in one transaction or none of them.
type Changeset struct {
	// InsertCampaign requires the campaign row to be absent; used only by
	// initialization so a racing second initialize loses cleanly.
	InsertCampaign bool
	// Campaign replaces (or inserts) the aggregate row when non-nil.
	Campaign *campaign.Campaign
	// Contribution replaces one ledger balance when non-nil.
	Contribution *ContributionUpdate
	// RoadmapItem appends a roadmap entry when non-nil.
	RoadmapItem *campaign.RoadmapItem
	// StretchGoal appends a stretch goal when non-nil.
	StretchGoal *campaign.StretchGoal
	// Journal entries are appended in order.
	Journal []JournalEntry
}

// Store persists the single-campaign aggregate and its satellite records.
type Store interface {
	// GetCampaign loads the aggregate row, ErrNotFound before initialization.
	GetCampaign(ctx context.Context) (campaign.Campaign, error)
	// GetContribution loads one ledger balance, zero when absent.
	GetContribution(ctx context.Context, address string) (*uint256.Int, error)
	// ListContributions returns the ledger ordered by address.
	ListContributions(ctx context.Context) ([]campaign.Contribution, error)
	// ListRoadmapItems returns roadmap entries in insertion order.
	ListRoadmapItems(ctx context.Context) ([]campaign.RoadmapItem, error)
	// ListStretchGoals returns stretch goals in insertion order.
	ListStretchGoals(ctx context.Context) ([]campaign.StretchGoal, error)
	// ListJournal returns the newest journal entries, newest first.
	ListJournal(ctx context.Context, limit int) ([]JournalEntry, error)
	// Apply commits a changeset atomically.
	Apply(ctx context.Context, change Changeset) error
}
