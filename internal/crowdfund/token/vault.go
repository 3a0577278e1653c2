package token

import (
	"context"
	"sync"

	"github.com/holiman/uint256"

	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

// Vault is an in-process token ledger. It backs local deployments and tests;
// production deployments plug a real asset backend behind Transferor instead.
type Vault struct {
	mu       sync.Mutex
	balances map[vaultKey]*uint256.Int
}

type vaultKey struct {
	asset   string
	account string
}

// NewVault returns an empty vault.
func NewVault() *Vault {
	return &Vault{balances: make(map[vaultKey]*uint256.Int)}
}

// Mint credits an account out of thin air. Test and bootstrap helper.
func (v *Vault) Mint(asset, account string, amount *uint256.Int) {
	if amount == nil || amount.IsZero() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	key := vaultKey{asset: asset, account: account}
	balance, ok := v.balances[key]
	if !ok {
		balance = new(uint256.Int)
		v.balances[key] = balance
	}
	balance.Add(balance, amount)
}

// Balance reports an account's current balance for an asset.
func (v *Vault) Balance(asset, account string) *uint256.Int {
	v.mu.Lock()
	defer v.mu.Unlock()
	balance, ok := v.balances[vaultKey{asset: asset, account: account}]
	if !ok {
		return new(uint256.Int)
	}
	return balance.Clone()
}

// Transfer moves amount between accounts, failing without effect when the
// source balance is insufficient.
func (v *Vault) Transfer(ctx context.Context, asset, from, to string, amount *uint256.Int) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.CodeTransferFailed, "transfer aborted", err)
	}
	if amount == nil || amount.IsZero() {
		return apperrors.New(apperrors.CodeTransferFailed, "transfer amount must be positive")
	}
	if from == to {
		return apperrors.New(apperrors.CodeTransferFailed, "transfer source and destination match")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	source, ok := v.balances[vaultKey{asset: asset, account: from}]
	if !ok || source.Cmp(amount) < 0 {
		return apperrors.WithMetadata(
			apperrors.CodeTransferFailed,
			"insufficient balance",
			map[string]string{
				"Asset":   asset,
				"Account": from,
			},
		)
	}

	destKey := vaultKey{asset: asset, account: to}
	dest, ok := v.balances[destKey]
	if !ok {
		dest = new(uint256.Int)
		v.balances[destKey] = dest
	}
	source.Sub(source, amount)
	dest.Add(dest, amount)
	return nil
}
