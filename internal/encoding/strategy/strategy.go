// Package strategy turns one validated trade solution into final transaction
// fields. Two implementations exist: router-mediated split swaps (optionally
// with a signed Permit2 allowance) and direct single-venue execution.
package strategy

import (
	"github.com/ggonzalez94/swapencode/internal/model"
)

// Encoder is one execution strategy. Implementations hold no mutable state
// after construction and may be shared across concurrent Encode calls.
type Encoder interface {
	Name() string
	Encode(solution model.Solution) (model.Transaction, error)
}
