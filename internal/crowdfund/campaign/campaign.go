package campaign

import (
	"strings"
	"time"

	"github.com/holiman/uint256"

	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

// Status is the persisted lifecycle label.
//
// Only the Active/Cancelled distinction is stored; Successful and Failed are
// computed predicates over the deadline and the goal (see Phase). Cancellation
// is the one outcome that must be remembered explicitly because it overrides
// the goal/deadline logic.
type Status string

const (
	// StatusActive indicates the campaign accepts contributions and has not
	// been cancelled.
	StatusActive Status = "active"
	// StatusCancelled indicates the creator cancelled the campaign; refunds
	// are unconditionally available.
	StatusCancelled Status = "cancelled"
)

// Phase is the derived lifecycle view exposed to readers.
type Phase string

const (
	// PhaseFunding means the deadline has not passed and contributions are open.
	PhaseFunding Phase = "funding"
	// PhaseSuccessful means the deadline passed with the goal met.
	PhaseSuccessful Phase = "successful"
	// PhaseFailed means the deadline passed with the goal unmet.
	PhaseFailed Phase = "failed"
	// PhaseCancelled means the creator cancelled the campaign.
	PhaseCancelled Phase = "cancelled"
)

var (
	// ErrNotInitialized indicates the contract has no campaign record yet.
	ErrNotInitialized = apperrors.New(apperrors.CodeNotInitialized, "campaign is not initialized")
	// ErrAlreadyInitialized indicates a second initialize call.
	ErrAlreadyInitialized = apperrors.New(apperrors.CodeAlreadyInitialized, "campaign is already initialized")
	// ErrUnauthorized indicates the caller lacks authority for a privileged op.
	ErrUnauthorized = apperrors.New(apperrors.CodeUnauthorized, "caller is not authorized")
	// ErrCampaignNotActive indicates the stored status disallows the operation.
	ErrCampaignNotActive = apperrors.New(apperrors.CodeCampaignNotActive, "campaign is not active")
	// ErrCampaignExpired indicates the deadline has passed.
	ErrCampaignExpired = apperrors.New(apperrors.CodeCampaignExpired, "campaign deadline has passed")
	// ErrCampaignNotExpired indicates the deadline has not passed yet.
	ErrCampaignNotExpired = apperrors.New(apperrors.CodeCampaignNotExpired, "campaign deadline has not passed")
	// ErrGoalNotReached indicates the funding goal was not met.
	ErrGoalNotReached = apperrors.New(apperrors.CodeGoalNotReached, "funding goal was not reached")
	// ErrGoalAlreadyReached indicates refunds are unavailable because the goal was met.
	ErrGoalAlreadyReached = apperrors.New(apperrors.CodeGoalAlreadyReached, "funding goal was reached")
	// ErrAlreadyWithdrawn indicates the raised funds were already paid out.
	ErrAlreadyWithdrawn = apperrors.New(apperrors.CodeAlreadyWithdrawn, "raised funds were already withdrawn")
	// ErrNoContribution indicates a refund with a zero ledger balance.
	ErrNoContribution = apperrors.New(apperrors.CodeNoContribution, "caller has no contribution to refund")
)

// Campaign is the single per-contract aggregate record.
type Campaign struct {
	// Creator is the identity that initialized the campaign. Immutable.
	Creator string
	// Asset identifies the fungible token accepted for contributions.
	Asset string
	// Goal is the funding target in the asset's smallest unit. Immutable.
	Goal *uint256.Int
	// Deadline is the moment contributions close and settlement opens.
	Deadline time.Time
	// MinContribution is the smallest accepted contribution. Immutable.
	MinContribution *uint256.Int
	// TotalRaised always equals the sum of all ledger balances.
	TotalRaised *uint256.Int
	// Status persists only the Active/Cancelled distinction.
	Status Status
	// Settled records a completed withdrawal and guards against replay.
	Settled bool
	// Admin is the identity authorized to upgrade the contract code.
	Admin string
	// CodeRef names the executable code version backing this contract.
	CodeRef string

	// Title is creator-editable display metadata.
	Title string
	// Description is creator-editable display metadata.
	Description string
	// Socials maps a platform label to a link.
	Socials map[string]string

	// InitializedAt is the timestamp of the initialize call.
	InitializedAt time.Time
	// UpdatedAt is the timestamp of the most recent mutation.
	UpdatedAt time.Time
}

// InitializeInput describes the immutable campaign parameters.
type InitializeInput struct {
	Creator         string
	Asset           string
	Goal            *uint256.Int
	Deadline        time.Time
	MinContribution *uint256.Int
	CodeRef         string
}

// Initialize creates the campaign record. It is the only way a record comes
// into existence; the admin starts out as the creator.
func Initialize(input InitializeInput, now func() time.Time) (Campaign, error) {
	now = orNow(now)

	creator := strings.TrimSpace(input.Creator)
	if creator == "" {
		return Campaign{}, apperrors.New(apperrors.CodeUnauthorized, "creator identity is required")
	}
	asset := strings.TrimSpace(input.Asset)
	if asset == "" {
		return Campaign{}, apperrors.New(apperrors.CodeInvalidAsset, "asset identifier is required")
	}
	if input.Goal == nil || input.Goal.IsZero() {
		return Campaign{}, apperrors.New(apperrors.CodeInvalidGoal, "goal must be positive")
	}

	initializedAt := now().UTC()
	if !input.Deadline.After(initializedAt) {
		return Campaign{}, apperrors.WithMetadata(
			apperrors.CodeInvalidDeadline,
			"deadline must be in the future",
			map[string]string{"Deadline": input.Deadline.UTC().Format(time.RFC3339)},
		)
	}

	return Campaign{
		Creator:         creator,
		Asset:           asset,
		Goal:            input.Goal.Clone(),
		Deadline:        input.Deadline.UTC(),
		MinContribution: amountOrZero(input.MinContribution),
		TotalRaised:     new(uint256.Int),
		Status:          StatusActive,
		Admin:           creator,
		CodeRef:         strings.TrimSpace(input.CodeRef),
		InitializedAt:   initializedAt,
		UpdatedAt:       initializedAt,
	}, nil
}

// Expired reports whether the deadline has passed at the given time.
func (c Campaign) Expired(now time.Time) bool {
	return !now.UTC().Before(c.Deadline)
}

// GoalMet reports whether total raised has reached the goal.
func (c Campaign) GoalMet() bool {
	return c.TotalRaised != nil && c.Goal != nil && c.TotalRaised.Cmp(c.Goal) >= 0
}

// Phase derives the read-side lifecycle view from stored state and the clock.
func (c Campaign) Phase(now time.Time) Phase {
	if c.Status == StatusCancelled {
		return PhaseCancelled
	}
	if !c.Expired(now) {
		return PhaseFunding
	}
	if c.Settled || c.GoalMet() {
		return PhaseSuccessful
	}
	return PhaseFailed
}

// clone returns a deep copy so pure operations never mutate their receiver.
func (c Campaign) clone() Campaign {
	copied := c
	if c.Goal != nil {
		copied.Goal = c.Goal.Clone()
	}
	if c.MinContribution != nil {
		copied.MinContribution = c.MinContribution.Clone()
	}
	if c.TotalRaised != nil {
		copied.TotalRaised = c.TotalRaised.Clone()
	}
	if c.Socials != nil {
		copied.Socials = make(map[string]string, len(c.Socials))
		for key, value := range c.Socials {
			copied.Socials[key] = value
		}
	}
	return copied
}
