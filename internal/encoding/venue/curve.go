package venue

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// curveEncoder packs stable-pool exchanges. Curve pools address coins by index
// within the pool's ordered coin list, which the component's token set
// mirrors.
//
// Block layout: tokenIn(20) | tokenOut(20) | pool(20) | i(1) | j(1) |
// receiver(20).
type curveEncoder struct {
	system   string
	executor common.Address
}

func newCurve(system string, executor common.Address) Encoder {
	return curveEncoder{system: system, executor: executor}
}

func (e curveEncoder) ProtocolSystem() string   { return e.system }
func (e curveEncoder) Executor() common.Address { return e.executor }

func (e curveEncoder) Encode(swap model.Swap, ctx Context) ([]byte, error) {
	if err := requireMembers(e.system, swap); err != nil {
		return nil, err
	}
	pool, err := componentAddress(e.system, swap)
	if err != nil {
		return nil, err
	}
	i, err := coinIndex(e.system, swap.Component, swap.TokenIn)
	if err != nil {
		return nil, err
	}
	j, err := coinIndex(e.system, swap.Component, swap.TokenOut)
	if err != nil {
		return nil, err
	}
	block := make([]byte, 0, 82)
	block = append(block, swap.TokenIn.Bytes()...)
	block = append(block, swap.TokenOut.Bytes()...)
	block = append(block, pool.Bytes()...)
	block = append(block, i, j)
	block = append(block, ctx.TransferTo.Bytes()...)
	return block, nil
}

func coinIndex(system string, component model.ProtocolComponent, token common.Address) (byte, error) {
	for idx, candidate := range component.Tokens {
		if candidate == token {
			if idx > 255 {
				return 0, clierr.New(clierr.CodeEncoding, fmt.Sprintf("%s: coin index %d out of range", system, idx))
			}
			return byte(idx), nil
		}
	}
	return 0, clierr.New(clierr.CodeEncoding, fmt.Sprintf("%s: token %s is not a pool coin", system, token.Hex()))
}
