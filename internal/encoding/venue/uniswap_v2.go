package venue

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// uniswapV2Encoder covers the constant-product pair family: uniswap_v2 itself
// plus forks that reuse the byte layout (sushiswap_v2, pancakeswap_v2).
//
// Block layout: tokenIn(20) | pool(20) | receiver(20) | zeroForOne(1).
type uniswapV2Encoder struct {
	system   string
	executor common.Address
}

func newUniswapV2(system string, executor common.Address) Encoder {
	return uniswapV2Encoder{system: system, executor: executor}
}

func (e uniswapV2Encoder) ProtocolSystem() string   { return e.system }
func (e uniswapV2Encoder) Executor() common.Address { return e.executor }

func (e uniswapV2Encoder) Encode(swap model.Swap, ctx Context) ([]byte, error) {
	if err := requireMembers(e.system, swap); err != nil {
		return nil, err
	}
	pool, err := componentAddress(e.system, swap)
	if err != nil {
		return nil, err
	}
	block := make([]byte, 0, 61)
	block = append(block, swap.TokenIn.Bytes()...)
	block = append(block, pool.Bytes()...)
	block = append(block, ctx.TransferTo.Bytes()...)
	block = append(block, zeroForOne(swap.TokenIn, swap.TokenOut))
	return block, nil
}
