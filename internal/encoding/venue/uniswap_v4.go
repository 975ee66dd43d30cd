package venue

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// uniswapV4Encoder packs singleton pool-manager swaps. Pools are identified by
// their key (fee, tick spacing, hooks) rather than a deployed address, so the
// block carries the full key and no pool address.
//
// Block layout: tokenIn(20) | tokenOut(20) | fee(3) | tickSpacing(3) |
// hooks(20) | receiver(20) | zeroForOne(1).
type uniswapV4Encoder struct {
	system   string
	executor common.Address
}

func newUniswapV4(system string, executor common.Address) Encoder {
	return uniswapV4Encoder{system: system, executor: executor}
}

func (e uniswapV4Encoder) ProtocolSystem() string   { return e.system }
func (e uniswapV4Encoder) Executor() common.Address { return e.executor }

func (e uniswapV4Encoder) Encode(swap model.Swap, ctx Context) ([]byte, error) {
	if err := requireMembers(e.system, swap); err != nil {
		return nil, err
	}
	fee, err := staticUint(e.system, swap, "key_lp_fee", 3)
	if err != nil {
		return nil, err
	}
	tickSpacing, err := staticUint(e.system, swap, "tick_spacing", 3)
	if err != nil {
		return nil, err
	}
	hooks := staticAddress(swap, "hooks")
	block := make([]byte, 0, 87)
	block = append(block, swap.TokenIn.Bytes()...)
	block = append(block, swap.TokenOut.Bytes()...)
	block = append(block, fee...)
	block = append(block, tickSpacing...)
	block = append(block, hooks.Bytes()...)
	block = append(block, ctx.TransferTo.Bytes()...)
	block = append(block, zeroForOne(swap.TokenIn, swap.TokenOut))
	return block, nil
}
