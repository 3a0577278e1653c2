package campaign

import (
	"errors"
	"testing"
	"time"

	"github.com/holiman/uint256"

	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

func TestNewRoadmapItem(t *testing.T) {
	record := newTestCampaign(t)
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	item, err := record.NewRoadmapItem("creator-1", date, "  ship beta  ", clockAt(launch))
	if err != nil {
		t.Fatalf("NewRoadmapItem() error = %v", err)
	}
	if item.Description != "ship beta" {
		t.Errorf("Description = %q, want %q", item.Description, "ship beta")
	}
	if !item.Date.Equal(date) {
		t.Errorf("Date = %v, want %v", item.Date, date)
	}
}

func TestNewRoadmapItemRejections(t *testing.T) {
	record := newTestCampaign(t)
	future := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		caller      string
		date        time.Time
		description string
		wantCode    apperrors.Code
	}{
		{
			name:        "wrong caller",
			caller:      "backer-1",
			date:        future,
			description: "ship beta",
			wantCode:    apperrors.CodeUnauthorized,
		},
		{
			name:     "empty description",
			caller:   "creator-1",
			date:     future,
			wantCode: apperrors.CodeEmptyDescription,
		},
		{
			name:        "blank description",
			caller:      "creator-1",
			date:        future,
			description: "   ",
			wantCode:    apperrors.CodeEmptyDescription,
		},
		{
			name:        "date in the past",
			caller:      "creator-1",
			date:        launch.AddDate(0, 0, -2),
			description: "ship beta",
			wantCode:    apperrors.CodeInvalidRoadmapDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := record.NewRoadmapItem(tt.caller, tt.date, tt.description, clockAt(launch))
			if got := apperrors.GetCode(err); got != tt.wantCode {
				t.Errorf("NewRoadmapItem() code = %q, want %q (err = %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestNewRoadmapItemRejectsPresent(t *testing.T) {
	// The item date must lie strictly in the future, so "now" is too early.
	record := newTestCampaign(t)
	_, err := record.NewRoadmapItem("creator-1", launch, "due right now", clockAt(launch))
	if got := apperrors.GetCode(err); got != apperrors.CodeInvalidRoadmapDate {
		t.Fatalf("NewRoadmapItem() code = %q, want %q (err = %v)", got, apperrors.CodeInvalidRoadmapDate, err)
	}
}

func TestNewStretchGoal(t *testing.T) {
	record := newTestCampaign(t)

	goal, err := record.NewStretchGoal("creator-1", amt("2000"), nil, "art book", clockAt(launch))
	if err != nil {
		t.Fatalf("NewStretchGoal() error = %v", err)
	}
	if goal.Threshold.Cmp(amt("2000")) != 0 {
		t.Errorf("Threshold = %s, want 2000", goal.Threshold.Dec())
	}

	second, err := record.NewStretchGoal("creator-1", amt("3000"), goal.Threshold, "soundtrack", clockAt(launch))
	if err != nil {
		t.Fatalf("NewStretchGoal() second error = %v", err)
	}
	if second.Threshold.Cmp(amt("3000")) != 0 {
		t.Errorf("Threshold = %s, want 3000", second.Threshold.Dec())
	}
}

func TestNewStretchGoalRejections(t *testing.T) {
	record := newTestCampaign(t)

	tests := []struct {
		name      string
		caller    string
		threshold *uint256.Int
		prevMax   *uint256.Int
		text      string
		wantCode  apperrors.Code
	}{
		{
			name:      "wrong caller",
			caller:    "backer-1",
			threshold: amt("2000"),
			text:      "art book",
			wantCode:  apperrors.CodeUnauthorized,
		},
		{
			name:      "empty description",
			caller:    "creator-1",
			threshold: amt("2000"),
			wantCode:  apperrors.CodeEmptyDescription,
		},
		{
			name:      "threshold equals base goal",
			caller:    "creator-1",
			threshold: amt("1000"),
			text:      "art book",
			wantCode:  apperrors.CodeStretchGoalThresholdTooLow,
		},
		{
			name:      "threshold below base goal",
			caller:    "creator-1",
			threshold: amt("500"),
			text:      "art book",
			wantCode:  apperrors.CodeStretchGoalThresholdTooLow,
		},
		{
			name:      "threshold not above previous",
			caller:    "creator-1",
			threshold: amt("2000"),
			prevMax:   amt("2000"),
			text:      "art book",
			wantCode:  apperrors.CodeStretchGoalThresholdTooLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := record.NewStretchGoal(tt.caller, tt.threshold, tt.prevMax, tt.text, clockAt(launch))
			if got := apperrors.GetCode(err); got != tt.wantCode {
				t.Errorf("NewStretchGoal() code = %q, want %q (err = %v)", got, tt.wantCode, err)
			}
		})
	}
}

func TestCurrentMilestone(t *testing.T) {
	record := newTestCampaign(t)
	goals := []StretchGoal{
		{Seq: 1, Threshold: amt("2000"), Description: "art book"},
		{Seq: 2, Threshold: amt("3000"), Description: "soundtrack"},
	}

	tests := []struct {
		name      string
		raised    string
		wantGoal  string
		wantText  string
		wantAllOK bool
	}{
		{name: "below base goal", raised: "500", wantGoal: "1000"},
		{name: "base goal met", raised: "1000", wantGoal: "2000", wantText: "art book"},
		{name: "first stretch met", raised: "2500", wantGoal: "3000", wantText: "soundtrack"},
		{name: "all met", raised: "3000", wantGoal: "3000", wantText: "soundtrack", wantAllOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := record.clone()
			c.TotalRaised = amt(tt.raised)
			milestone := c.CurrentMilestone(goals)
			if milestone.Target.Cmp(amt(tt.wantGoal)) != 0 {
				t.Errorf("Target = %s, want %s", milestone.Target.Dec(), tt.wantGoal)
			}
			if milestone.Description != tt.wantText {
				t.Errorf("Description = %q, want %q", milestone.Description, tt.wantText)
			}
			if milestone.AllReached != tt.wantAllOK {
				t.Errorf("AllReached = %v, want %v", milestone.AllReached, tt.wantAllOK)
			}
		})
	}

	t.Run("no stretch goals and goal met", func(t *testing.T) {
		c := record.clone()
		c.TotalRaised = amt("1000")
		milestone := c.CurrentMilestone(nil)
		if !milestone.AllReached {
			t.Error("AllReached = false, want true")
		}
		if milestone.Target.Cmp(amt("1000")) != 0 {
			t.Errorf("Target = %s, want 1000", milestone.Target.Dec())
		}
	})
}

func TestUpdateMetadata(t *testing.T) {
	record := newTestCampaign(t)
	moment := launch.Add(time.Hour)

	updated, err := record.UpdateTitle("creator-1", "  Space Probe  ", clockAt(moment))
	if err != nil {
		t.Fatalf("UpdateTitle() error = %v", err)
	}
	if updated.Title != "Space Probe" {
		t.Errorf("Title = %q, want %q", updated.Title, "Space Probe")
	}

	updated, err = updated.UpdateDescription("creator-1", "a probe", clockAt(moment))
	if err != nil {
		t.Fatalf("UpdateDescription() error = %v", err)
	}
	if updated.Description != "a probe" {
		t.Errorf("Description = %q, want %q", updated.Description, "a probe")
	}

	updated, err = updated.UpdateSocials("creator-1", map[string]string{
		"web":  "https://example.com",
		"":     "dropped",
		"blog": "  ",
	}, clockAt(moment))
	if err != nil {
		t.Fatalf("UpdateSocials() error = %v", err)
	}
	if len(updated.Socials) != 1 || updated.Socials["web"] != "https://example.com" {
		t.Errorf("Socials = %v, want single web link", updated.Socials)
	}
}

func TestUpdateMetadataRejections(t *testing.T) {
	record := newTestCampaign(t)

	if _, err := record.UpdateTitle("backer-1", "nope", clockAt(launch)); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("UpdateTitle() error = %v, want %v", err, ErrUnauthorized)
	}

	cancelled, err := record.Cancel("creator-1", clockAt(launch.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if _, err := cancelled.UpdateTitle("creator-1", "nope", clockAt(launch)); !errors.Is(err, ErrCampaignNotActive) {
		t.Errorf("UpdateTitle() error = %v, want %v", err, ErrCampaignNotActive)
	}
}

func TestUpgrade(t *testing.T) {
	record := newTestCampaign(t)

	updated, err := record.Upgrade("creator-1", "code-v2", clockAt(deadline.Add(time.Hour)))
	if err != nil {
		t.Fatalf("Upgrade() error = %v", err)
	}
	if updated.CodeRef != "code-v2" {
		t.Errorf("CodeRef = %q, want %q", updated.CodeRef, "code-v2")
	}

	if _, err := record.Upgrade("backer-1", "code-v2", clockAt(launch)); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Upgrade() error = %v, want %v", err, ErrUnauthorized)
	}
	_, err = record.Upgrade("creator-1", "  ", clockAt(launch))
	if got := apperrors.GetCode(err); got != apperrors.CodeInvalidCodeRef {
		t.Errorf("Upgrade() code = %q, want %q", got, apperrors.CodeInvalidCodeRef)
	}
}
