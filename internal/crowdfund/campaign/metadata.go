package campaign

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

// UpdateTitle replaces the display title. Creator-only, active campaigns only.
func (c Campaign) UpdateTitle(caller, title string, now func() time.Time) (Campaign, error) {
	return c.updateMetadata(caller, now, func(updated *Campaign) {
		updated.Title = strings.TrimSpace(title)
	})
}

// UpdateDescription replaces the display description. Creator-only, active
// campaigns only.
func (c Campaign) UpdateDescription(caller, description string, now func() time.Time) (Campaign, error) {
	return c.updateMetadata(caller, now, func(updated *Campaign) {
		updated.Description = strings.TrimSpace(description)
	})
}

// UpdateSocials replaces the social links map wholesale. Creator-only, active
// campaigns only. Blank labels and blank links are dropped.
func (c Campaign) UpdateSocials(caller string, socials map[string]string, now func() time.Time) (Campaign, error) {
	return c.updateMetadata(caller, now, func(updated *Campaign) {
		cleaned := make(map[string]string, len(socials))
		for label, link := range socials {
			label = strings.TrimSpace(label)
			link = strings.TrimSpace(link)
			if label == "" || link == "" {
				continue
			}
			cleaned[label] = link
		}
		updated.Socials = cleaned
	})
}

func (c Campaign) updateMetadata(caller string, now func() time.Time, apply func(*Campaign)) (Campaign, error) {
	now = orNow(now)
	if caller != c.Creator {
		return Campaign{}, ErrUnauthorized
	}
	if c.Status != StatusActive {
		return Campaign{}, ErrCampaignNotActive
	}
	updated := c.clone()
	apply(&updated)
	updated.UpdatedAt = now().UTC()
	return updated, nil
}

// Upgrade points the contract at a new code version. Admin-only; unlike the
// metadata setters it remains legal after the deadline so a stuck contract
// can still be repaired.
func (c Campaign) Upgrade(caller, codeRef string, now func() time.Time) (Campaign, error) {
	now = orNow(now)
	if caller != c.Admin {
		return Campaign{}, ErrUnauthorized
	}
	codeRef = strings.TrimSpace(codeRef)
	if codeRef == "" {
		return Campaign{}, apperrors.New(apperrors.CodeInvalidCodeRef, "code reference is required")
	}
	updated := c.clone()
	updated.CodeRef = codeRef
	updated.UpdatedAt = now().UTC()
	return updated, nil
}
