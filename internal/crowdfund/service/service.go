// Package service wires the campaign domain to storage, token transfer, and
// caller verification. Every entry point follows the same shape: verify the
// caller, run the pure domain operation, move token value, then persist the
// whole outcome in one changeset.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/holiman/uint256"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/crowdfund.space/internal/crowdfund/authority"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/campaign"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/storage"
	"github.com/louisbranch/crowdfund.space/internal/crowdfund/token"
)

// defaultContractAccount is the custody account the contract holds raised
// funds under in the token backend.
const defaultContractAccount = "crowdfund-contract"

// Service exposes the crowdfund contract operations.
type Service struct {
	store    storage.Store
	tokens   token.Transferor
	verifier authority.Verifier
	account  string
	now      func() time.Time
	tracer   trace.Tracer
}

// transferAndApply moves token value and then persists the changeset. When
// the write fails the transfer is reversed so custody never diverges from the
// stored ledger; a failed reversal surfaces both errors.
func (s *Service) transferAndApply(ctx context.Context, asset, from, to string, amount *uint256.Int, cs storage.Changeset) error {
	if err := s.tokens.Transfer(ctx, asset, from, to, amount); err != nil {
		return err
	}
	if err := s.store.Apply(ctx, cs); err != nil {
		if reverseErr := s.tokens.Transfer(ctx, asset, to, from, amount); reverseErr != nil {
			return errors.Join(err, reverseErr)
		}
		return err
	}
	return nil
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithContractAccount overrides the custody account name.
func WithContractAccount(account string) Option {
	return func(s *Service) {
		if account != "" {
			s.account = account
		}
	}
}

// New builds a Service.
func New(store storage.Store, tokens token.Transferor, verifier authority.Verifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		tokens:   tokens,
		verifier: verifier,
		account:  defaultContractAccount,
		now:      time.Now,
		tracer:   otel.Tracer("crowdfund/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

// loadCampaign fetches the aggregate, mapping a missing row to the
// not-initialized domain error every operation expects.
func (s *Service) loadCampaign(ctx context.Context) (campaign.Campaign, error) {
	record, err := s.store.GetCampaign(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return campaign.Campaign{}, campaign.ErrNotInitialized
	}
	return record, err
}

func (s *Service) verifyCaller(credential string) (authority.Caller, error) {
	return s.verifier.Verify(credential)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
