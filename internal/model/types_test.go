package model

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

const solutionFixture = `{
	"sender": "0xcd09f75E2BF2A4d11F3AB23f1389FcC1621c0cc2",
	"receiver": "0xcd09f75E2BF2A4d11F3AB23f1389FcC1621c0cc2",
	"given_token": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
	"given_amount": "1000000000000000000",
	"checked_token": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
	"expected_amount": "3000000000",
	"slippage": 0.01,
	"swaps": [{
		"component": {
			"id": "0xB4e16d0168e52d35CaCD2c6185b44281Ec28C9Dc",
			"protocol_system": "uniswap_v2",
			"tokens": [
				"0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
				"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
			],
			"static_attributes": {"fee": "0x1e"}
		},
		"token_in": "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2",
		"token_out": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		"split": 0
	}],
	"router_address": "0x023d2eE31F1c1b6f0B2e3f4B1a2C18Fa1E2dA4d5"
}`

func TestSolutionUnmarshal(t *testing.T) {
	var solution Solution
	if err := json.Unmarshal([]byte(solutionFixture), &solution); err != nil {
		t.Fatalf("unmarshal solution: %v", err)
	}
	if solution.GivenAmount.String() != "1000000000000000000" {
		t.Fatalf("unexpected given amount: %s", solution.GivenAmount.String())
	}
	if solution.Slippage != 0.01 {
		t.Fatalf("unexpected slippage: %v", solution.Slippage)
	}
	if len(solution.Swaps) != 1 {
		t.Fatalf("expected one swap, got %d", len(solution.Swaps))
	}
	swap := solution.Swaps[0]
	if swap.Component.ProtocolSystem != "uniswap_v2" {
		t.Fatalf("unexpected protocol system: %s", swap.Component.ProtocolSystem)
	}
	fee, ok := swap.Component.StaticAttributes["fee"]
	if !ok || len(fee) != 1 || fee[0] != 0x1e {
		t.Fatalf("unexpected fee attribute: %x", fee)
	}
	if !swap.Component.HasToken(swap.TokenIn) || !swap.Component.HasToken(swap.TokenOut) {
		t.Fatal("expected swap tokens to be component members")
	}
}

func TestAmountAcceptsHexAndDecimal(t *testing.T) {
	var decimal, hexAmount Amount
	if err := json.Unmarshal([]byte(`"1000"`), &decimal); err != nil {
		t.Fatalf("decimal amount: %v", err)
	}
	if err := json.Unmarshal([]byte(`"0x3e8"`), &hexAmount); err != nil {
		t.Fatalf("hex amount: %v", err)
	}
	if decimal.Cmp(&hexAmount.Int) != 0 {
		t.Fatalf("expected equal amounts, got %s and %s", decimal.String(), hexAmount.String())
	}
	var negative Amount
	if err := json.Unmarshal([]byte(`"-5"`), &negative); err == nil {
		t.Fatal("expected negative amount to be rejected")
	}
}

func TestHexBytesToleratesOddLength(t *testing.T) {
	var h HexBytes
	if err := json.Unmarshal([]byte(`"0x1e"`), &h); err != nil {
		t.Fatalf("even-length hex: %v", err)
	}
	if err := json.Unmarshal([]byte(`"0xbb8"`), &h); err != nil {
		t.Fatalf("odd-length hex: %v", err)
	}
	if len(h) != 2 || h[0] != 0x0b || h[1] != 0xb8 {
		t.Fatalf("unexpected bytes: %x", []byte(h))
	}
}

func TestHexBytesRejectsInvalidHex(t *testing.T) {
	for _, raw := range []string{`"0xZZZZ"`, `"0xfee_"`, `"nothex"`} {
		var h HexBytes
		if err := json.Unmarshal([]byte(raw), &h); err == nil {
			t.Fatalf("expected %s to be rejected, decoded %x", raw, []byte(h))
		}
	}
}

func TestStaticAttributeRejectsInvalidHex(t *testing.T) {
	broken := strings.Replace(solutionFixture, `"fee": "0x1e"`, `"fee": "0xZZZZ"`, 1)
	var solution Solution
	if err := json.Unmarshal([]byte(broken), &solution); err == nil {
		t.Fatal("expected malformed static attribute to fail unmarshaling")
	}
}

func TestTransactionMarshal(t *testing.T) {
	tx := NewTransaction(common.HexToAddress("0x023d2eE31F1c1b6f0B2e3f4B1a2C18Fa1E2dA4d5"), big.NewInt(0), []byte{0xde, 0xad})
	buf, err := json.Marshal(tx)
	if err != nil {
		t.Fatalf("marshal transaction: %v", err)
	}
	encoded := string(buf)
	for _, want := range []string{`"value":"0x0"`, `"data":"0xdead"`} {
		if !strings.Contains(encoded, want) {
			t.Fatalf("expected %s in %s", want, encoded)
		}
	}
}

func TestNativeTokenDetection(t *testing.T) {
	var solution Solution
	if err := json.Unmarshal([]byte(solutionFixture), &solution); err != nil {
		t.Fatalf("unmarshal solution: %v", err)
	}
	if solution.GivenIsNative() {
		t.Fatal("ERC-20 given token reported as native")
	}
	solution.GivenToken = common.Address{}
	if !solution.GivenIsNative() {
		t.Fatal("zero given token not reported as native")
	}
}
