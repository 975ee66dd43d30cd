// Package encoding exposes the public surface of the calldata encoder: a
// façade that turns trade solutions into ready-to-send transaction fields and
// a builder that wires the venue registry, strategy and permit signer
// together.
package encoding

import (
	"fmt"

	"github.com/ggonzalez94/swapencode/internal/encoding/strategy"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/id"
	"github.com/ggonzalez94/swapencode/internal/model"
)

// Encoder is the façade over one configured strategy. It holds no mutable
// state and may be shared across concurrent Encode calls.
type Encoder struct {
	chain    id.Chain
	strategy strategy.Encoder
}

func NewEncoder(chain id.Chain, strat strategy.Encoder) (*Encoder, error) {
	if strat == nil {
		return nil, clierr.New(clierr.CodeConfig, "encoder requires a strategy")
	}
	return &Encoder{chain: chain, strategy: strat}, nil
}

func (e *Encoder) Chain() id.Chain { return e.chain }

func (e *Encoder) Strategy() string { return e.strategy.Name() }

// Encode produces one transaction per solution, in input order. The first
// failure aborts the batch; no partial results are returned.
func (e *Encoder) Encode(solutions []model.Solution) ([]model.Transaction, error) {
	if len(solutions) == 0 {
		return nil, clierr.New(clierr.CodeUsage, "no solutions to encode")
	}
	transactions := make([]model.Transaction, 0, len(solutions))
	for i, solution := range solutions {
		tx, err := e.strategy.Encode(solution)
		if err != nil {
			if typed, ok := clierr.As(err); ok {
				return nil, clierr.Wrap(typed.Code, fmt.Sprintf("solution %d", i), err)
			}
			return nil, clierr.Wrap(clierr.CodeEncoding, fmt.Sprintf("solution %d", i), err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}
