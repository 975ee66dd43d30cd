package strategy

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// validateBasics covers the checks shared by every strategy: a non-empty swap
// sequence, a positive input amount and concrete counterparties.
func validateBasics(solution model.Solution) error {
	if len(solution.Swaps) == 0 {
		return clierr.New(clierr.CodeInvalidSolution, "solution has no swaps")
	}
	if solution.GivenAmount == nil || solution.GivenAmount.Sign() <= 0 {
		return clierr.New(clierr.CodeInvalidSolution, "given_amount must be a positive integer")
	}
	if solution.Sender == (common.Address{}) {
		return clierr.New(clierr.CodeInvalidSolution, "sender is required")
	}
	if solution.Receiver == (common.Address{}) {
		return clierr.New(clierr.CodeInvalidSolution, "receiver is required")
	}
	return nil
}

// validateSplits walks the swaps in declared order and checks that, per input
// token, the declared splits form one well-formed distribution: every split in
// [0,1), non-zero fractions summing below one, and exactly the final swap for
// that token carrying split zero so it absorbs whatever remains.
func validateSplits(swaps []model.Swap) error {
	lastIndex := map[common.Address]int{}
	for i, swap := range swaps {
		lastIndex[swap.TokenIn] = i
	}
	sums := map[common.Address]*big.Rat{}
	for i, swap := range swaps {
		if swap.Split < 0 || swap.Split >= 1 {
			return clierr.New(clierr.CodeInvalidSolution, fmt.Sprintf("swap %d: split %v outside [0,1)", i, swap.Split))
		}
		final := lastIndex[swap.TokenIn] == i
		if final && swap.Split != 0 {
			return clierr.New(clierr.CodeInvalidSolution, fmt.Sprintf("swap %d: final swap for token %s must have split 0", i, swap.TokenIn.Hex()))
		}
		if !final && swap.Split == 0 {
			return clierr.New(clierr.CodeInvalidSolution, fmt.Sprintf("swap %d: non-final swap for token %s must declare a non-zero split", i, swap.TokenIn.Hex()))
		}
		if swap.Split == 0 {
			continue
		}
		fraction, err := fractionRat(swap.Split)
		if err != nil {
			return clierr.Wrap(clierr.CodeInvalidSolution, fmt.Sprintf("swap %d: split", i), err)
		}
		sum, ok := sums[swap.TokenIn]
		if !ok {
			sum = new(big.Rat)
			sums[swap.TokenIn] = sum
		}
		sum.Add(sum, fraction)
		if sum.Cmp(big.NewRat(1, 1)) >= 0 {
			return clierr.New(clierr.CodeInvalidSolution, fmt.Sprintf("splits for token %s sum to %s, leaving nothing for the final swap", swap.TokenIn.Hex(), sum.FloatString(4)))
		}
	}
	return nil
}

// validateConnectivity checks that the swaps form a connected path or split
// graph from the given token to the checked token. Swaps are walked in
// declared order; each hop must consume a token already produced upstream.
func validateConnectivity(swaps []model.Swap, given, checked common.Address) error {
	reachable := map[common.Address]bool{given: true}
	for i, swap := range swaps {
		if !reachable[swap.TokenIn] {
			return clierr.New(clierr.CodeInvalidSolution, fmt.Sprintf("swap %d: token %s is not produced by any upstream swap", i, swap.TokenIn.Hex()))
		}
		reachable[swap.TokenOut] = true
	}
	if !reachable[checked] {
		return clierr.New(clierr.CodeInvalidSolution, fmt.Sprintf("no swap path reaches checked token %s", checked.Hex()))
	}
	return nil
}

// minimumOut computes the smallest acceptable output: the explicit checked
// amount when present, otherwise the expected amount shaved by the slippage
// tolerance, rounded down. Rounding down protects the trader; never round up.
func minimumOut(solution model.Solution) (*big.Int, error) {
	if solution.CheckedAmount != nil && solution.CheckedAmount.Sign() > 0 {
		return new(big.Int).Set(&solution.CheckedAmount.Int), nil
	}
	if solution.ExpectedAmount == nil || solution.ExpectedAmount.Sign() <= 0 {
		return new(big.Int), nil
	}
	if solution.Slippage < 0 || solution.Slippage >= 1 {
		return nil, clierr.New(clierr.CodeInvalidSolution, fmt.Sprintf("slippage %v outside [0,1)", solution.Slippage))
	}
	keep, err := fractionRat(1 - solution.Slippage)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeInvalidSolution, "slippage", err)
	}
	out := new(big.Int).Mul(&solution.ExpectedAmount.Int, keep.Num())
	return out.Quo(out, keep.Denom()), nil
}

// fractionRat converts a fraction to an exact rational via its shortest
// decimal form, so 0.01 means exactly 1/100 rather than the nearest binary
// float.
func fractionRat(value float64) (*big.Rat, error) {
	rat, ok := new(big.Rat).SetString(strconv.FormatFloat(value, 'f', -1, 64))
	if !ok {
		return nil, fmt.Errorf("cannot represent %v as a fraction", value)
	}
	return rat, nil
}
