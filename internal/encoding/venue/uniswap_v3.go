package venue

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// uniswapV3Encoder packs concentrated-liquidity pool swaps. The fee tier is a
// pool constant carried in the component's static attributes.
//
// Block layout: tokenIn(20) | tokenOut(20) | fee(3) | receiver(20) | pool(20)
// | zeroForOne(1).
type uniswapV3Encoder struct {
	system   string
	executor common.Address
}

func newUniswapV3(system string, executor common.Address) Encoder {
	return uniswapV3Encoder{system: system, executor: executor}
}

func (e uniswapV3Encoder) ProtocolSystem() string   { return e.system }
func (e uniswapV3Encoder) Executor() common.Address { return e.executor }

func (e uniswapV3Encoder) Encode(swap model.Swap, ctx Context) ([]byte, error) {
	if err := requireMembers(e.system, swap); err != nil {
		return nil, err
	}
	pool, err := componentAddress(e.system, swap)
	if err != nil {
		return nil, err
	}
	fee, err := staticUint(e.system, swap, "fee", 3)
	if err != nil {
		return nil, err
	}
	block := make([]byte, 0, 84)
	block = append(block, swap.TokenIn.Bytes()...)
	block = append(block, swap.TokenOut.Bytes()...)
	block = append(block, fee...)
	block = append(block, ctx.TransferTo.Bytes()...)
	block = append(block, pool.Bytes()...)
	block = append(block, zeroForOne(swap.TokenIn, swap.TokenOut))
	return block, nil
}
