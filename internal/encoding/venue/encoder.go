package venue

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ggonzalez94/swapencode/internal/id"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// Context carries the solution-level facts a venue encoder needs beyond the
// swap itself: who initiated the trade, which contract orchestrates it, and
// where this swap's output must land. TransferTo is the router for
// intermediate hops and the final receiver for the last hop; venues that can
// pay out directly use it to skip one token transfer.
type Context struct {
	Chain      id.Chain
	Sender     common.Address
	Receiver   common.Address
	Router     common.Address
	TransferTo common.Address
	SwapIndex  int
	LastSwap   bool
}

// Encoder packs one swap's parameters into the byte layout agreed with the
// on-chain executor contract for its venue family. Implementations must be
// pure: identical (swap, context) pairs yield identical bytes.
type Encoder interface {
	ProtocolSystem() string
	Executor() common.Address
	Encode(swap model.Swap, ctx Context) ([]byte, error)
}
