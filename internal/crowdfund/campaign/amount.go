package campaign

import (
	"strings"

	"github.com/holiman/uint256"

	apperrors "github.com/louisbranch/crowdfund.space/internal/platform/errors"
)

// ParseAmount parses a non-negative decimal token amount.
// Amounts are expressed in the asset's smallest indivisible unit.
func ParseAmount(value string) (*uint256.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, apperrors.New(apperrors.CodeInvalidAmount, "amount is required")
	}
	amount, err := uint256.FromDecimal(trimmed)
	if err != nil {
		return nil, apperrors.WithMetadata(
			apperrors.CodeInvalidAmount,
			"amount must be a non-negative integer",
			map[string]string{"Amount": trimmed},
		)
	}
	return amount, nil
}

// ParseOptionalAmount parses a decimal amount, treating blank input as zero.
func ParseOptionalAmount(value string) (*uint256.Int, error) {
	if strings.TrimSpace(value) == "" {
		return new(uint256.Int), nil
	}
	return ParseAmount(value)
}

// FormatAmount renders an amount as a decimal string. Nil renders as zero.
func FormatAmount(amount *uint256.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.Dec()
}

// checkedAdd returns a+b, failing instead of wrapping on overflow.
func checkedAdd(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, apperrors.New(apperrors.CodeArithmeticOverflow, "addition overflows 256 bits")
	}
	return sum, nil
}

// checkedSub returns a-b, failing instead of wrapping on underflow.
func checkedSub(a, b *uint256.Int) (*uint256.Int, error) {
	diff, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, apperrors.New(apperrors.CodeArithmeticOverflow, "subtraction underflows zero")
	}
	return diff, nil
}

// amountOrZero normalizes nil amounts to zero without aliasing the input.
func amountOrZero(amount *uint256.Int) *uint256.Int {
	if amount == nil {
		return new(uint256.Int)
	}
	return amount.Clone()
}
