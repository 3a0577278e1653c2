package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/holiman/uint256"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/authority"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/campaign"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/storage"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/storage/sqlite"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/token"
	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

var (
	svcLaunch   = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svcDeadline = time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
)

// fixture drives the full stack: sqlite store, in-process vault, trusted
// caller verification, and a movable clock.
type fixture struct {
	svc   *Service
	vault *token.Vault
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "crowdfund.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{vault: token.NewVault(), now: svcLaunch}
	f.svc = New(store, f.vault, authority.TrustedVerifier{},
		WithClock(func() time.Time { return f.now }))
	return f
}

func (f *fixture) advanceTo(moment time.Time) {
	f.now = moment
}

func (f *fixture) initialize(t *testing.T) {
	t.Helper()
	_, err := f.svc.Initialize(context.Background(), InitializeParams{
		Credential:      "creator-1",
		Asset:           "asset-usd",
		Goal:            "1000",
		Deadline:        svcDeadline,
		MinContribution: "10",
		CodeRef:         "code-v1",
		Title:           "Space Probe",
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
}

func (f *fixture) fund(t *testing.T, backer, amount string) {
	t.Helper()
	f.vault.Mint("asset-usd", backer, uint256.MustFromDecimal(amount))
	if _, err := f.svc.Contribute(context.Background(), backer, amount); err != nil {
		t.Fatalf("Contribute(%s, %s) error = %v", backer, amount, err)
	}
}

func TestInitializeAndSummary(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)

	view, err := f.svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if view.Creator != "creator-1" || view.Admin != "creator-1" {
		t.Errorf("Creator/Admin = %q/%q, want creator-1", view.Creator, view.Admin)
	}
	if view.Phase != string(campaign.PhaseFunding) {
		t.Errorf("Phase = %q, want funding", view.Phase)
	}
	if view.TotalRaised != "0" || view.Goal != "1000" {
		t.Errorf("TotalRaised/Goal = %s/%s, want 0/1000", view.TotalRaised, view.Goal)
	}
	if view.Title != "Space Probe" {
		t.Errorf("Title = %q, want %q", view.Title, "Space Probe")
	}

	_, err = f.svc.Initialize(context.Background(), InitializeParams{
		Credential: "creator-2", Asset: "asset-usd", Goal: "500", Deadline: svcDeadline,
	})
	if !errors.Is(err, campaign.ErrAlreadyInitialized) {
		t.Errorf("second Initialize() error = %v, want %v", err, campaign.ErrAlreadyInitialized)
	}
}

func TestOperationsBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Summary(ctx); !errors.Is(err, campaign.ErrNotInitialized) {
		t.Errorf("Summary() error = %v, want %v", err, campaign.ErrNotInitialized)
	}
	if _, err := f.svc.Contribute(ctx, "backer-1", "100"); !errors.Is(err, campaign.ErrNotInitialized) {
		t.Errorf("Contribute() error = %v, want %v", err, campaign.ErrNotInitialized)
	}
	if _, err := f.svc.Withdraw(ctx, "creator-1"); !errors.Is(err, campaign.ErrNotInitialized) {
		t.Errorf("Withdraw() error = %v, want %v", err, campaign.ErrNotInitialized)
	}
}

func TestSuccessfulCampaign(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	f.fund(t, "backer-1", "600")
	f.fund(t, "backer-2", "500")

	// Custody holds everything contributed.
	if got := f.vault.Balance("asset-usd", "crowdfund-contract"); got.Dec() != "1100" {
		t.Errorf("custody balance = %s, want 1100", got.Dec())
	}

	f.advanceTo(svcDeadline.Add(time.Hour))

	settlement, err := f.svc.Withdraw(ctx, "creator-1")
	if err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}
	if settlement.Amount != "1100" {
		t.Errorf("payout = %s, want 1100", settlement.Amount)
	}
	if got := f.vault.Balance("asset-usd", "creator-1"); got.Dec() != "1100" {
		t.Errorf("creator balance = %s, want 1100", got.Dec())
	}

	view, err := f.svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if view.Phase != string(campaign.PhaseSuccessful) || !view.Settled {
		t.Errorf("Phase/Settled = %q/%v, want successful/true", view.Phase, view.Settled)
	}

	// Refunds after a successful withdrawal are off the table.
	_, err = f.svc.Refund(ctx, "backer-1")
	if !errors.Is(err, campaign.ErrGoalAlreadyReached) {
		t.Errorf("Refund() error = %v, want %v", err, campaign.ErrGoalAlreadyReached)
	}
}

func TestFailedCampaignRefunds(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	f.fund(t, "backer-1", "300")
	f.fund(t, "backer-2", "200")
	f.advanceTo(svcDeadline.Add(time.Hour))

	_, err := f.svc.Withdraw(ctx, "creator-1")
	if !errors.Is(err, campaign.ErrGoalNotReached) {
		t.Fatalf("Withdraw() error = %v, want %v", err, campaign.ErrGoalNotReached)
	}

	settlement, err := f.svc.Refund(ctx, "backer-1")
	if err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	if settlement.Amount != "300" {
		t.Errorf("refund = %s, want 300", settlement.Amount)
	}
	if got := f.vault.Balance("asset-usd", "backer-1"); got.Dec() != "300" {
		t.Errorf("backer balance = %s, want 300", got.Dec())
	}

	// Second claim finds an empty ledger entry.
	_, err = f.svc.Refund(ctx, "backer-1")
	if !errors.Is(err, campaign.ErrNoContribution) {
		t.Errorf("second Refund() error = %v, want %v", err, campaign.ErrNoContribution)
	}

	// The other backer's claim is unaffected.
	if _, err := f.svc.Refund(ctx, "backer-2"); err != nil {
		t.Fatalf("Refund(backer-2) error = %v", err)
	}

	view, err := f.svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if view.TotalRaised != "0" {
		t.Errorf("TotalRaised = %s, want 0 after refunds", view.TotalRaised)
	}
	if view.Phase != string(campaign.PhaseFailed) {
		t.Errorf("Phase = %q, want failed", view.Phase)
	}
}

func TestCancelledCampaignRefundsEarly(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	f.fund(t, "backer-1", "300")

	if _, err := f.svc.Cancel(ctx, "backer-1"); !errors.Is(err, campaign.ErrUnauthorized) {
		t.Errorf("Cancel() by backer error = %v, want %v", err, campaign.ErrUnauthorized)
	}

	view, err := f.svc.Cancel(ctx, "creator-1")
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if view.Phase != string(campaign.PhaseCancelled) {
		t.Errorf("Phase = %q, want cancelled", view.Phase)
	}

	// Contributions stop immediately.
	f.vault.Mint("asset-usd", "backer-2", uint256.MustFromDecimal("50"))
	if _, err := f.svc.Contribute(ctx, "backer-2", "50"); !errors.Is(err, campaign.ErrCampaignNotActive) {
		t.Errorf("Contribute() error = %v, want %v", err, campaign.ErrCampaignNotActive)
	}

	// Refunds open before the deadline.
	settlement, err := f.svc.Refund(ctx, "backer-1")
	if err != nil {
		t.Fatalf("Refund() error = %v", err)
	}
	if settlement.Amount != "300" {
		t.Errorf("refund = %s, want 300", settlement.Amount)
	}
}

func TestContributeTransferFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	// backer-1 has no vault balance, so the transfer into custody fails.
	_, err := f.svc.Contribute(ctx, "backer-1", "100")
	if got := apperrors.GetCode(err); got != apperrors.CodeTransferFailed {
		t.Fatalf("Contribute() code = %q, want %q", got, apperrors.CodeTransferFailed)
	}

	view, err := f.svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if view.TotalRaised != "0" {
		t.Errorf("TotalRaised = %s, want 0 after failed transfer", view.TotalRaised)
	}
	balance, err := f.svc.Contribution(ctx, "backer-1")
	if err != nil {
		t.Fatalf("Contribution() error = %v", err)
	}
	if balance.Amount != "0" {
		t.Errorf("ledger balance = %s, want 0", balance.Amount)
	}
}

// brokenStore fails Apply while armed, leaving reads and earlier writes on
// the wrapped store untouched.
type brokenStore struct {
	storage.Store
	applyErr error
}

func (b *brokenStore) Apply(ctx context.Context, cs storage.Changeset) error {
	if b.applyErr != nil {
		return b.applyErr
	}
	return b.Store.Apply(ctx, cs)
}

func TestContributePersistFailureReversesTransfer(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "crowdfund.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	broken := &brokenStore{Store: store}
	vault := token.NewVault()
	svc := New(broken, vault, authority.TrustedVerifier{},
		WithClock(func() time.Time { return svcLaunch }))
	ctx := context.Background()

	_, err = svc.Initialize(ctx, InitializeParams{
		Credential:      "creator-1",
		Asset:           "asset-usd",
		Goal:            "1000",
		Deadline:        svcDeadline,
		MinContribution: "10",
		CodeRef:         "code-v1",
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	vault.Mint("asset-usd", "backer-1", uint256.MustFromDecimal("500"))

	broken.applyErr = errors.New("disk full")
	if _, err := svc.Contribute(ctx, "backer-1", "100"); err == nil {
		t.Fatal("Contribute() error = nil, want persist failure")
	}

	// The custody transfer is reversed, so the backer keeps their balance and
	// the contract account holds nothing.
	if got := vault.Balance("asset-usd", "backer-1"); got.Cmp(uint256.MustFromDecimal("500")) != 0 {
		t.Errorf("backer balance = %s, want 500", got.Dec())
	}
	if got := vault.Balance("asset-usd", defaultContractAccount); !got.IsZero() {
		t.Errorf("contract balance = %s, want 0", got.Dec())
	}

	broken.applyErr = nil
	view, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if view.TotalRaised != "0" {
		t.Errorf("TotalRaised = %s, want 0 after failed persist", view.TotalRaised)
	}
}

func TestRoadmapAndStretchGoals(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	item, err := f.svc.AddRoadmapItem(ctx, "creator-1", svcDeadline.AddDate(0, 2, 0), "ship beta")
	if err != nil {
		t.Fatalf("AddRoadmapItem() error = %v", err)
	}
	if item.Seq != 1 {
		t.Errorf("Seq = %d, want 1", item.Seq)
	}

	if _, err := f.svc.AddStretchGoal(ctx, "creator-1", "2000", "art book"); err != nil {
		t.Fatalf("AddStretchGoal() error = %v", err)
	}
	_, err = f.svc.AddStretchGoal(ctx, "creator-1", "1500", "too low")
	if got := apperrors.GetCode(err); got != apperrors.CodeStretchGoalThresholdTooLow {
		t.Errorf("AddStretchGoal() code = %q, want %q", got, apperrors.CodeStretchGoalThresholdTooLow)
	}
	if _, err := f.svc.AddStretchGoal(ctx, "creator-1", "3000", "soundtrack"); err != nil {
		t.Fatalf("AddStretchGoal() error = %v", err)
	}

	milestone, err := f.svc.Milestone(ctx)
	if err != nil {
		t.Fatalf("Milestone() error = %v", err)
	}
	if milestone.Target != "1000" {
		t.Errorf("Target = %s, want base goal 1000", milestone.Target)
	}

	f.fund(t, "backer-1", "2500")
	milestone, err = f.svc.Milestone(ctx)
	if err != nil {
		t.Fatalf("Milestone() error = %v", err)
	}
	if milestone.Target != "3000" || milestone.Description != "soundtrack" {
		t.Errorf("Milestone = %s/%q, want 3000/soundtrack", milestone.Target, milestone.Description)
	}
}

func TestMetadataAndUpgrade(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	view, err := f.svc.UpdateTitle(ctx, "creator-1", "New Title")
	if err != nil {
		t.Fatalf("UpdateTitle() error = %v", err)
	}
	if view.Title != "New Title" {
		t.Errorf("Title = %q, want %q", view.Title, "New Title")
	}

	view, err = f.svc.UpdateSocials(ctx, "creator-1", map[string]string{"web": "https://example.com"})
	if err != nil {
		t.Fatalf("UpdateSocials() error = %v", err)
	}
	if view.Socials["web"] != "https://example.com" {
		t.Errorf("Socials = %v, want web link", view.Socials)
	}

	if _, err := f.svc.UpdateTitle(ctx, "backer-1", "nope"); !errors.Is(err, campaign.ErrUnauthorized) {
		t.Errorf("UpdateTitle() error = %v, want %v", err, campaign.ErrUnauthorized)
	}

	view, err = f.svc.Upgrade(ctx, "creator-1", "code-v2")
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if view.CodeRef != "code-v2" {
		t.Errorf("CodeRef = %q, want code-v2", view.CodeRef)
	}
	if _, err := f.svc.Upgrade(ctx, "backer-1", "code-v3"); !errors.Is(err, campaign.ErrUnauthorized) {
		t.Errorf("Upgrade() error = %v, want %v", err, campaign.ErrUnauthorized)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	f.fund(t, "backer-1", "600")
	f.fund(t, "backer-2", "150")

	stats, err := f.svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Contributors != 2 {
		t.Errorf("Contributors = %d, want 2", stats.Contributors)
	}
	if stats.ProgressBasisPoints != 7500 {
		t.Errorf("ProgressBasisPoints = %d, want 7500", stats.ProgressBasisPoints)
	}
	if stats.LargestContribution != "600" {
		t.Errorf("LargestContribution = %s, want 600", stats.LargestContribution)
	}
	if stats.AverageContribution != "375" {
		t.Errorf("AverageContribution = %s, want 375", stats.AverageContribution)
	}
}

func TestJournalRecordsOperations(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	f.fund(t, "backer-1", "1000")
	f.advanceTo(svcDeadline.Add(time.Hour))
	if _, err := f.svc.Withdraw(ctx, "creator-1"); err != nil {
		t.Fatalf("Withdraw() error = %v", err)
	}

	entries, err := f.svc.Journal(ctx, 10)
	if err != nil {
		t.Fatalf("Journal() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	wantEvents := []string{storage.EventWithdrawn, storage.EventContributed, storage.EventInitialized}
	for i, want := range wantEvents {
		if entries[i].Event != want {
			t.Errorf("entries[%d].Event = %q, want %q", i, entries[i].Event, want)
		}
	}
	if entries[0].Amount != "1000" {
		t.Errorf("withdrawal amount = %s, want 1000", entries[0].Amount)
	}
}

func TestContributionViews(t *testing.T) {
	f := newFixture(t)
	f.initialize(t)
	ctx := context.Background()

	f.fund(t, "backer-2", "100")
	f.fund(t, "backer-1", "200")

	views, err := f.svc.Contributions(ctx)
	if err != nil {
		t.Fatalf("Contributions() error = %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("len(views) = %d, want 2", len(views))
	}
	if views[0].Address != "backer-1" || views[0].Amount != "200" {
		t.Errorf("views[0] = %+v, want backer-1/200", views[0])
	}

	single, err := f.svc.Contribution(ctx, "backer-2")
	if err != nil {
		t.Fatalf("Contribution() error = %v", err)
	}
	if single.Amount != "100" {
		t.Errorf("Amount = %s, want 100", single.Amount)
	}
}
