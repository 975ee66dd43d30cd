package encoding

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/id"
	"github.com/ggonzalez94/swapencode/internal/model"
)

var (
	weth   = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	usdc   = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	sender = common.HexToAddress("0xcd09f75E2BF2A4d11F3AB23f1389FcC1621c0cc2")
	router = common.HexToAddress("0x023d2eE31F1c1b6f0B2e3f4B1a2C18Fa1E2dA4d5")
	pool   = common.HexToAddress("0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc")
)

func solutionWithAmount(amount int64) model.Solution {
	return model.Solution{
		Sender:       sender,
		Receiver:     sender,
		GivenToken:   weth,
		GivenAmount:  model.NewAmount(amount),
		CheckedToken: usdc,
		Swaps: []model.Swap{{
			Component: model.ProtocolComponent{
				ID:             pool.Hex(),
				ProtocolSystem: "uniswap_v2",
				Tokens:         []common.Address{usdc, weth},
			},
			TokenIn:  weth,
			TokenOut: usdc,
		}},
		RouterAddress: router,
	}
}

func routerEncoder(t *testing.T) *Encoder {
	t.Helper()
	chain, err := id.ParseChain("ethereum")
	if err != nil {
		t.Fatalf("parse chain: %v", err)
	}
	builder, err := NewBuilder().Chain(chain).Router("")
	if err != nil {
		t.Fatalf("configure router: %v", err)
	}
	encoder, err := builder.Build()
	if err != nil {
		t.Fatalf("build encoder: %v", err)
	}
	return encoder
}

func TestEncodePreservesOrder(t *testing.T) {
	encoder := routerEncoder(t)
	s1 := solutionWithAmount(1_000)
	s2 := solutionWithAmount(2_000)

	forward, err := encoder.Encode([]model.Solution{s1, s2})
	if err != nil {
		t.Fatalf("encode forward: %v", err)
	}
	reversed, err := encoder.Encode([]model.Solution{s2, s1})
	if err != nil {
		t.Fatalf("encode reversed: %v", err)
	}
	if len(forward) != 2 || len(reversed) != 2 {
		t.Fatalf("expected two transactions each, got %d and %d", len(forward), len(reversed))
	}
	if !bytes.Equal(forward[0].Data, reversed[1].Data) || !bytes.Equal(forward[1].Data, reversed[0].Data) {
		t.Fatal("expected outputs to follow input order")
	}
	if bytes.Equal(forward[0].Data, forward[1].Data) {
		t.Fatal("distinct solutions must not encode identically")
	}
}

func TestEncodeAbortsOnFirstError(t *testing.T) {
	encoder := routerEncoder(t)
	good := solutionWithAmount(1_000)
	bad := solutionWithAmount(1_000)
	bad.Swaps = nil

	transactions, err := encoder.Encode([]model.Solution{bad, good})
	if !clierr.Is(err, clierr.CodeInvalidSolution) {
		t.Fatalf("expected invalid solution error, got %v", err)
	}
	if transactions != nil {
		t.Fatal("expected no partial results")
	}
}

func TestEncodeRejectsEmptyBatch(t *testing.T) {
	encoder := routerEncoder(t)
	if _, err := encoder.Encode(nil); !clierr.Is(err, clierr.CodeUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestBuilderRequiresChain(t *testing.T) {
	if _, err := NewBuilder().Router(""); !clierr.Is(err, clierr.CodeConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestBuilderRequiresStrategy(t *testing.T) {
	chain, err := id.ParseChain("ethereum")
	if err != nil {
		t.Fatalf("parse chain: %v", err)
	}
	if _, err := NewBuilder().Chain(chain).Build(); !clierr.Is(err, clierr.CodeConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestBuilderRejectsBadKey(t *testing.T) {
	chain, err := id.ParseChain("ethereum")
	if err != nil {
		t.Fatalf("parse chain: %v", err)
	}
	if _, err := NewBuilder().Chain(chain).RouterWithPermit2("", "zz-not-hex"); !clierr.Is(err, clierr.CodeSigning) {
		t.Fatalf("expected signing error, got %v", err)
	}
}

func TestBuilderDirectExecution(t *testing.T) {
	chain, err := id.ParseChain("ethereum")
	if err != nil {
		t.Fatalf("parse chain: %v", err)
	}
	builder, err := NewBuilder().Chain(chain).DirectExecution("")
	if err != nil {
		t.Fatalf("configure direct execution: %v", err)
	}
	encoder, err := builder.Build()
	if err != nil {
		t.Fatalf("build encoder: %v", err)
	}
	if encoder.Strategy() != "direct-execution" {
		t.Fatalf("unexpected strategy: %s", encoder.Strategy())
	}
	tx, err := encoder.Encode([]model.Solution{solutionWithAmount(1_000)})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if tx[0].To == router {
		t.Fatal("direct execution must not target the router")
	}
}
