package venue

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// balancerV2Encoder packs vault-mediated swaps. The component id is the
// 32-byte vault pool id, not a pool address.
//
// Block layout: tokenIn(20) | tokenOut(20) | poolId(32) | receiver(20).
type balancerV2Encoder struct {
	system   string
	executor common.Address
}

func newBalancerV2(system string, executor common.Address) Encoder {
	return balancerV2Encoder{system: system, executor: executor}
}

func (e balancerV2Encoder) ProtocolSystem() string   { return e.system }
func (e balancerV2Encoder) Executor() common.Address { return e.executor }

func (e balancerV2Encoder) Encode(swap model.Swap, ctx Context) ([]byte, error) {
	if err := requireMembers(e.system, swap); err != nil {
		return nil, err
	}
	poolID, err := parsePoolID(swap.Component.ID)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeEncoding, e.system+": resolve pool id", err)
	}
	block := make([]byte, 0, 92)
	block = append(block, swap.TokenIn.Bytes()...)
	block = append(block, swap.TokenOut.Bytes()...)
	block = append(block, poolID...)
	block = append(block, ctx.TransferTo.Bytes()...)
	return block, nil
}

func parsePoolID(id string) ([]byte, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(id), "0x")
	if len(raw) != 64 {
		return nil, fmt.Errorf("pool id %q is not 32 bytes", id)
	}
	decoded := common.FromHex("0x" + raw)
	if len(decoded) != 32 {
		return nil, fmt.Errorf("pool id %q is not valid hex", id)
	}
	return decoded, nil
}
