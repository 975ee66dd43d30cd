package permit2

import (
	"bytes"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
)

const testPrivateKey = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

var (
	testToken   = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	testSpender = common.HexToAddress("0x023d2eE31F1c1b6f0B2e3f4B1a2C18Fa1E2dA4d5")
)

func testSigner(t *testing.T, now func() time.Time) *Signer {
	t.Helper()
	key, err := crypto.HexToECDSA(testPrivateKey)
	if err != nil {
		t.Fatalf("parse test key: %v", err)
	}
	signer, err := NewSigner(key, 1, now)
	if err != nil {
		t.Fatalf("build signer: %v", err)
	}
	return signer
}

func TestSignPermitRecoversSigner(t *testing.T) {
	signer := testSigner(t, nil)
	permit, signature, err := signer.SignPermit(testToken, testSpender, big.NewInt(1_000_000))
	if err != nil {
		t.Fatalf("sign permit: %v", err)
	}
	if len(signature) != 65 {
		t.Fatalf("expected 65-byte signature, got %d", len(signature))
	}
	if v := signature[64]; v != 27 && v != 28 {
		t.Fatalf("unexpected recovery id: %d", v)
	}
	recovered, err := RecoverPermitSigner(1, permit, signature)
	if err != nil {
		t.Fatalf("recover signer: %v", err)
	}
	if recovered != signer.Address() {
		t.Fatalf("recovered %s, want %s", recovered.Hex(), signer.Address().Hex())
	}
}

func TestSignPermitDeterministicUnderFixedClock(t *testing.T) {
	fixed := func() time.Time { return time.Unix(1_700_000_000, 0) }
	signer := testSigner(t, fixed)
	permit, first, err := signer.SignPermit(testToken, testSpender, big.NewInt(42))
	if err != nil {
		t.Fatalf("first sign: %v", err)
	}
	_, second, err := signer.SignPermit(testToken, testSpender, big.NewInt(42))
	if err != nil {
		t.Fatalf("second sign: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("expected identical signatures under a fixed clock")
	}
	wantDeadline := time.Unix(1_700_000_000, 0).Add(permitSigDeadline).Unix()
	if permit.SigDeadline.Int64() != wantDeadline {
		t.Fatalf("unexpected sig deadline: %d, want %d", permit.SigDeadline.Int64(), wantDeadline)
	}
}

func TestSignPermitRejectsOversizedAmount(t *testing.T) {
	signer := testSigner(t, nil)
	huge := new(big.Int).Lsh(big.NewInt(1), 161)
	if _, _, err := signer.SignPermit(testToken, testSpender, huge); !clierr.Is(err, clierr.CodeSigning) {
		t.Fatalf("expected signing error, got %v", err)
	}
}

func TestNewSignerRequiresKey(t *testing.T) {
	if _, err := NewSigner(nil, 1, nil); !clierr.Is(err, clierr.CodeSigning) {
		t.Fatalf("expected signing error, got %v", err)
	}
}

func TestPermitDomainPinsChain(t *testing.T) {
	signer := testSigner(t, func() time.Time { return time.Unix(1_700_000_000, 0) })
	permit, signature, err := signer.SignPermit(testToken, testSpender, big.NewInt(42))
	if err != nil {
		t.Fatalf("sign permit: %v", err)
	}
	recovered, err := RecoverPermitSigner(8453, permit, signature)
	if err != nil {
		t.Fatalf("recover on other chain: %v", err)
	}
	if recovered == signer.Address() {
		t.Fatal("signature must not verify under a different chain id")
	}
}
