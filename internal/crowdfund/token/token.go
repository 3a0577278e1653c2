// Package token abstracts the fungible asset that campaign value moves in.
// The contract never holds raw balances itself; it instructs a Transferor
// and trusts it to either complete the movement or fail atomically.
package token

import (
	"context"

	"github.com/holiman/uint256"
)

// Transferor moves token value between accounts.
type Transferor interface {
	// Transfer moves amount of asset from one account to another. A nil
	// error means the full amount moved; partial transfers never happen.
	Transfer(ctx context.Context, asset, from, to string, amount *uint256.Int) error
}
