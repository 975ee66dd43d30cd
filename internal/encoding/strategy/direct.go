package strategy

import (
	"math/big"

	"github.com/ggonzalez94/swapencode/internal/encoding/venue"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/id"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// Direct encodes a single full-consuming swap straight against the venue's
// executor contract, with no router indirection.
type Direct struct {
	chain    id.Chain
	registry *venue.Registry
}

func NewDirect(chain id.Chain, registry *venue.Registry) (*Direct, error) {
	if registry == nil {
		return nil, clierr.New(clierr.CodeConfig, "direct execution strategy requires a venue registry")
	}
	return &Direct{chain: chain, registry: registry}, nil
}

func (d *Direct) Name() string { return "direct-execution" }

func (d *Direct) Encode(solution model.Solution) (model.Transaction, error) {
	if err := validateBasics(solution); err != nil {
		return model.Transaction{}, err
	}
	if len(solution.Swaps) != 1 {
		return model.Transaction{}, clierr.New(clierr.CodeInvalidSolution, "direct execution handles exactly one swap")
	}
	swap := solution.Swaps[0]
	if swap.Split != 0 {
		return model.Transaction{}, clierr.New(clierr.CodeInvalidSolution, "direct execution requires the swap to consume the full input (split 0)")
	}
	if solution.GivenIsNative() || solution.CheckedIsNative() {
		return model.Transaction{}, clierr.New(clierr.CodeInvalidSolution, "direct execution supports ERC-20 tokens only")
	}
	if err := validateConnectivity(solution.Swaps, solution.GivenToken, solution.CheckedToken); err != nil {
		return model.Transaction{}, err
	}

	encoder, err := d.registry.Resolve(swap.Component.ProtocolSystem)
	if err != nil {
		return model.Transaction{}, err
	}
	ctx := venue.Context{
		Chain:      d.chain,
		Sender:     solution.Sender,
		Receiver:   solution.Receiver,
		TransferTo: solution.Receiver,
		SwapIndex:  0,
		LastSwap:   true,
	}
	block, err := encoder.Encode(swap, ctx)
	if err != nil {
		return model.Transaction{}, err
	}
	givenAmount := new(big.Int).Set(&solution.GivenAmount.Int)
	data, err := executorABI.Pack("swap", givenAmount, block)
	if err != nil {
		return model.Transaction{}, clierr.Wrap(clierr.CodeEncoding, "pack executor calldata", err)
	}
	return model.NewTransaction(encoder.Executor(), new(big.Int), data), nil
}
