package strategy

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/swapencode/internal/encoding/permit2"
	"github.com/ggonzalez94/swapencode/internal/encoding/venue"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/id"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// splitMax is the fixed-point scale for split fractions in swap plan headers:
// a uint24 where 0 means "all remaining input".
const splitMax = 0xFFFFFF

// swapHeaderLen is the fixed-width header prepended to each venue block:
// tokenInIndex(1) | tokenOutIndex(1) | split(3) | executor(20) | blockLen(2).
const swapHeaderLen = 27

// SplitSwap encodes solutions against the split-capable router. With a permit
// signer attached it emits the Permit2 entry point instead of the plain one.
type SplitSwap struct {
	chain    id.Chain
	registry *venue.Registry
	permit   *permit2.Signer
}

func NewSplitSwap(chain id.Chain, registry *venue.Registry, permit *permit2.Signer) (*SplitSwap, error) {
	if registry == nil {
		return nil, clierr.New(clierr.CodeConfig, "split swap strategy requires a venue registry")
	}
	return &SplitSwap{chain: chain, registry: registry, permit: permit}, nil
}

func (s *SplitSwap) Name() string {
	if s.permit != nil {
		return "split-swap-permit2"
	}
	return "split-swap"
}

func (s *SplitSwap) Encode(solution model.Solution) (model.Transaction, error) {
	if err := validateBasics(solution); err != nil {
		return model.Transaction{}, err
	}
	if solution.RouterAddress == (common.Address{}) {
		return model.Transaction{}, clierr.New(clierr.CodeInvalidSolution, "router_address is required for the split swap strategy")
	}

	wrap := solution.GivenIsNative()
	unwrap := solution.CheckedIsNative()
	givenToken := solution.GivenToken
	checkedToken := solution.CheckedToken
	if wrap {
		givenToken = common.HexToAddress(s.chain.WrappedNative)
	}
	if unwrap {
		checkedToken = common.HexToAddress(s.chain.WrappedNative)
	}

	if err := validateSplits(solution.Swaps); err != nil {
		return model.Transaction{}, err
	}
	if err := validateConnectivity(solution.Swaps, givenToken, checkedToken); err != nil {
		return model.Transaction{}, err
	}
	minOut, err := minimumOut(solution)
	if err != nil {
		return model.Transaction{}, err
	}

	plan, err := s.encodePlan(solution, checkedToken, givenToken, unwrap)
	if err != nil {
		return model.Transaction{}, err
	}

	givenAmount := new(big.Int).Set(&solution.GivenAmount.Int)
	var data []byte
	if s.permit != nil {
		if wrap {
			return model.Transaction{}, clierr.New(clierr.CodeInvalidSolution, "signed-approval strategy requires an ERC-20 given token")
		}
		if solution.Sender != s.permit.Address() {
			return model.Transaction{}, clierr.New(clierr.CodeInvalidSolution, "sender does not match the permit signing key")
		}
		permit, signature, err := s.permit.SignPermit(givenToken, solution.RouterAddress, givenAmount)
		if err != nil {
			return model.Transaction{}, err
		}
		data, err = routerABI.Pack("swapPermit2",
			givenAmount, givenToken, checkedToken, minOut,
			solution.ExactOut, wrap, unwrap, solution.Receiver,
			permit, signature, plan)
		if err != nil {
			return model.Transaction{}, clierr.Wrap(clierr.CodeEncoding, "pack swapPermit2 calldata", err)
		}
	} else {
		data, err = routerABI.Pack("swap",
			givenAmount, givenToken, checkedToken, minOut,
			solution.ExactOut, wrap, unwrap, solution.Receiver, plan)
		if err != nil {
			return model.Transaction{}, clierr.Wrap(clierr.CodeEncoding, "pack swap calldata", err)
		}
	}

	value := new(big.Int)
	if wrap {
		value.Set(givenAmount)
	}
	return model.NewTransaction(solution.RouterAddress, value, data), nil
}

// encodePlan produces the router's swap plan argument: for each swap a
// fixed-width header followed by the venue's byte block.
func (s *SplitSwap) encodePlan(solution model.Solution, checkedToken, givenToken common.Address, unwrap bool) ([]byte, error) {
	indexes, err := tokenIndexes(solution.Swaps, givenToken)
	if err != nil {
		return nil, err
	}

	var plan []byte
	for i, swap := range solution.Swaps {
		encoder, err := s.registry.Resolve(swap.Component.ProtocolSystem)
		if err != nil {
			return nil, err
		}
		// Only a hop whose checked-token output is not consumed by a later
		// swap pays out past the router, and only when the router does not
		// need the output back to unwrap.
		transferTo := solution.RouterAddress
		if swap.TokenOut == checkedToken && !unwrap && !consumedLater(solution.Swaps, i, swap.TokenOut) {
			transferTo = solution.Receiver
		}
		ctx := venue.Context{
			Chain:      s.chain,
			Sender:     solution.Sender,
			Receiver:   solution.Receiver,
			Router:     solution.RouterAddress,
			TransferTo: transferTo,
			SwapIndex:  i,
			LastSwap:   i == len(solution.Swaps)-1,
		}
		block, err := encoder.Encode(swap, ctx)
		if err != nil {
			return nil, err
		}
		if len(block) > 0xFFFF {
			return nil, clierr.New(clierr.CodeEncoding, fmt.Sprintf("swap %d: venue block of %d bytes exceeds the plan limit", i, len(block)))
		}
		scaled, err := scaleSplit(swap.Split)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeInvalidSolution, fmt.Sprintf("swap %d: split", i), err)
		}

		header := make([]byte, 0, swapHeaderLen)
		header = append(header, indexes[swap.TokenIn], indexes[swap.TokenOut])
		header = append(header, byte(scaled>>16), byte(scaled>>8), byte(scaled))
		header = append(header, encoder.Executor().Bytes()...)
		header = binary.BigEndian.AppendUint16(header, uint16(len(block)))
		plan = append(plan, header...)
		plan = append(plan, block...)
	}
	return plan, nil
}

// consumedLater reports whether any swap after index i takes token as input,
// meaning its output must stay with the router for the next hop.
func consumedLater(swaps []model.Swap, i int, token common.Address) bool {
	for _, swap := range swaps[i+1:] {
		if swap.TokenIn == token {
			return true
		}
	}
	return false
}

// tokenIndexes assigns each token touched by the plan a stable small index the
// router uses to route intermediate outputs to the next hop's input. The
// given token is always index zero.
func tokenIndexes(swaps []model.Swap, givenToken common.Address) (map[common.Address]byte, error) {
	indexes := map[common.Address]byte{givenToken: 0}
	next := 1
	assign := func(token common.Address) error {
		if _, ok := indexes[token]; ok {
			return nil
		}
		if next > 255 {
			return clierr.New(clierr.CodeInvalidSolution, "solution touches more than 256 tokens")
		}
		indexes[token] = byte(next)
		next++
		return nil
	}
	for _, swap := range swaps {
		if err := assign(swap.TokenIn); err != nil {
			return nil, err
		}
		if err := assign(swap.TokenOut); err != nil {
			return nil, err
		}
	}
	return indexes, nil
}

// scaleSplit converts a split fraction to its uint24 fixed-point wire form,
// rounding down.
func scaleSplit(split float64) (uint32, error) {
	if split == 0 {
		return 0, nil
	}
	fraction, err := fractionRat(split)
	if err != nil {
		return 0, err
	}
	scaled := new(big.Int).Mul(fraction.Num(), big.NewInt(splitMax))
	scaled.Quo(scaled, fraction.Denom())
	if scaled.Sign() < 0 || scaled.Cmp(big.NewInt(splitMax)) >= 0 {
		return 0, fmt.Errorf("fraction %v out of range", split)
	}
	return uint32(scaled.Uint64()), nil
}
