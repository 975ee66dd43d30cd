package strategy

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABI fragments for the router and executor entry points the strategies
// target.
const (
	RouterABI = `[
		{"name":"swap","type":"function","stateMutability":"payable","inputs":[{"name":"givenAmount","type":"uint256"},{"name":"givenToken","type":"address"},{"name":"checkedToken","type":"address"},{"name":"minAmountOut","type":"uint256"},{"name":"exactOut","type":"bool"},{"name":"wrap","type":"bool"},{"name":"unwrap","type":"bool"},{"name":"receiver","type":"address"},{"name":"swaps","type":"bytes"}],"outputs":[{"name":"amountOut","type":"uint256"}]},
		{"name":"swapPermit2","type":"function","stateMutability":"payable","inputs":[{"name":"givenAmount","type":"uint256"},{"name":"givenToken","type":"address"},{"name":"checkedToken","type":"address"},{"name":"minAmountOut","type":"uint256"},{"name":"exactOut","type":"bool"},{"name":"wrap","type":"bool"},{"name":"unwrap","type":"bool"},{"name":"receiver","type":"address"},{"name":"permit","type":"tuple","components":[{"name":"details","type":"tuple","components":[{"name":"token","type":"address"},{"name":"amount","type":"uint160"},{"name":"expiration","type":"uint48"},{"name":"nonce","type":"uint48"}]},{"name":"spender","type":"address"},{"name":"sigDeadline","type":"uint256"}]},{"name":"signature","type":"bytes"},{"name":"swaps","type":"bytes"}],"outputs":[{"name":"amountOut","type":"uint256"}]}
	]`

	ExecutorABI = `[
		{"name":"swap","type":"function","stateMutability":"payable","inputs":[{"name":"givenAmount","type":"uint256"},{"name":"data","type":"bytes"}],"outputs":[{"name":"calculatedAmount","type":"uint256"}]}
	]`
)

var (
	routerABI   = mustABI(RouterABI)
	executorABI = mustABI(ExecutorABI)
)

func mustABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
