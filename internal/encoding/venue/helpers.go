package venue

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// requireMembers checks that both legs of the swap are members of the
// component's token set before any bytes are produced.
func requireMembers(system string, swap model.Swap) error {
	if !swap.Component.HasToken(swap.TokenIn) {
		return clierr.New(clierr.CodeEncoding, fmt.Sprintf("%s: token_in %s is not in component %s", system, swap.TokenIn.Hex(), swap.Component.ID))
	}
	if !swap.Component.HasToken(swap.TokenOut) {
		return clierr.New(clierr.CodeEncoding, fmt.Sprintf("%s: token_out %s is not in component %s", system, swap.TokenOut.Hex(), swap.Component.ID))
	}
	return nil
}

// zeroForOne is the pool-level direction flag: true when the input token sorts
// below the output token, matching the token0/token1 ordering AMM pairs use.
func zeroForOne(tokenIn, tokenOut common.Address) byte {
	if bytes.Compare(tokenIn.Bytes(), tokenOut.Bytes()) < 0 {
		return 1
	}
	return 0
}

// staticUint reads a big-endian integer static attribute and checks it fits in
// width bytes.
func staticUint(system string, swap model.Swap, name string, width int) ([]byte, error) {
	raw, ok := swap.Component.StaticAttributes[name]
	if !ok {
		return nil, clierr.New(clierr.CodeEncoding, fmt.Sprintf("%s: component %s is missing static attribute %q", system, swap.Component.ID, name))
	}
	value := new(big.Int).SetBytes(raw)
	if value.BitLen() > width*8 {
		return nil, clierr.New(clierr.CodeEncoding, fmt.Sprintf("%s: static attribute %q does not fit in %d bytes", system, name, width))
	}
	return value.FillBytes(make([]byte, width)), nil
}

// staticAddress reads a static attribute holding a 20-byte address. Missing
// attributes fall back to the zero address.
func staticAddress(swap model.Swap, name string) common.Address {
	raw, ok := swap.Component.StaticAttributes[name]
	if !ok {
		return common.Address{}
	}
	return common.BytesToAddress(raw)
}

func componentAddress(system string, swap model.Swap) (common.Address, error) {
	addr, err := swap.Component.AddressID()
	if err != nil {
		return common.Address{}, clierr.Wrap(clierr.CodeEncoding, system+": resolve pool address", err)
	}
	return addr, nil
}
