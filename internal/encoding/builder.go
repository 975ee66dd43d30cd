package encoding

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ggonzalez94/swapencode/internal/encoding/permit2"
	"github.com/ggonzalez94/swapencode/internal/encoding/strategy"
	"github.com/ggonzalez94/swapencode/internal/encoding/venue"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/id"
)

// Builder assembles an Encoder. A chain and exactly one strategy must be set
// before Build; the Router/RouterWithPermit2/DirectExecution shortcuts
// construct the venue registry and strategy in one step. One-shot helper, not
// a long-lived component.
type Builder struct {
	chain    *id.Chain
	strategy strategy.Encoder
	now      func() time.Time
}

func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

func (b *Builder) Chain(chain id.Chain) *Builder {
	b.chain = &chain
	return b
}

// Clock overrides the time source used for permit deadlines. Tests use it to
// make signed-approval output reproducible.
func (b *Builder) Clock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Strategy sets the strategy encoder directly. Not to be combined with the
// shortcut methods.
func (b *Builder) Strategy(strat strategy.Encoder) *Builder {
	b.strategy = strat
	return b
}

// Router configures the plain split-swap router strategy.
func (b *Builder) Router(configPath string) (*Builder, error) {
	registry, err := b.registry(configPath)
	if err != nil {
		return nil, err
	}
	strat, err := strategy.NewSplitSwap(*b.chain, registry, nil)
	if err != nil {
		return nil, err
	}
	b.strategy = strat
	return b, nil
}

// RouterWithPermit2 configures the split-swap router strategy with a signed
// Permit2 allowance produced by the supplied private key.
func (b *Builder) RouterWithPermit2(configPath, privateKeyHex string) (*Builder, error) {
	registry, err := b.registry(configPath)
	if err != nil {
		return nil, err
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x"))
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeSigning, "parse swapper private key", err)
	}
	signer, err := permit2.NewSigner(key, b.chain.EVMChainID, b.now)
	if err != nil {
		return nil, err
	}
	strat, err := strategy.NewSplitSwap(*b.chain, registry, signer)
	if err != nil {
		return nil, err
	}
	b.strategy = strat
	return b, nil
}

// DirectExecution configures the single-venue executor strategy.
func (b *Builder) DirectExecution(configPath string) (*Builder, error) {
	registry, err := b.registry(configPath)
	if err != nil {
		return nil, err
	}
	strat, err := strategy.NewDirect(*b.chain, registry)
	if err != nil {
		return nil, err
	}
	b.strategy = strat
	return b, nil
}

func (b *Builder) registry(configPath string) (*venue.Registry, error) {
	if b.chain == nil {
		return nil, clierr.New(clierr.CodeConfig, "set the chain before choosing a strategy")
	}
	return venue.NewRegistry(configPath, *b.chain)
}

func (b *Builder) Build() (*Encoder, error) {
	if b.chain == nil || b.strategy == nil {
		return nil, clierr.New(clierr.CodeConfig, "set the chain and strategy before building the encoder")
	}
	return NewEncoder(*b.chain, b.strategy)
}
