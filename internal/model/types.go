package model

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Amount is a non-negative base-unit token amount. It accepts decimal strings,
// 0x-prefixed hex strings, and plain JSON numbers on input and renders as a
// decimal string on output.
type Amount struct {
	big.Int
}

func NewAmount(v int64) *Amount {
	a := &Amount{}
	a.SetInt64(v)
	return a
}

func NewAmountFromBig(v *big.Int) *Amount {
	a := &Amount{}
	if v != nil {
		a.Set(v)
	}
	return a
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	raw = strings.Trim(raw, `"`)
	if raw == "" {
		return fmt.Errorf("empty amount")
	}
	base := 10
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		raw = raw[2:]
		base = 16
	}
	if _, ok := a.SetString(raw, base); !ok {
		return fmt.Errorf("invalid amount %q", raw)
	}
	if a.Sign() < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	return nil
}

func (a *Amount) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	return json.Marshal(a.String())
}

// HexBytes is a raw byte value carried as 0x-prefixed hex in JSON. Unlike
// hexutil.Bytes it tolerates odd-length and unprefixed input, which appears in
// venue static attributes.
type HexBytes []byte

func (h *HexBytes) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if len(raw)%2 != 0 {
		raw = "0" + raw
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("invalid hex value %q", raw)
	}
	*h = decoded
	return nil
}

func (h HexBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hexutil.Encode(h))
}

// ProtocolComponent identifies one on-chain liquidity venue instance.
// Immutable once constructed; owned by the Swap that references it.
type ProtocolComponent struct {
	ID               string              `json:"id"`
	ProtocolSystem   string              `json:"protocol_system"`
	ProtocolTypeName string              `json:"protocol_type_name,omitempty"`
	Chain            string              `json:"chain,omitempty"`
	Tokens           []common.Address    `json:"tokens"`
	ContractIDs      []string            `json:"contract_ids,omitempty"`
	StaticAttributes map[string]HexBytes `json:"static_attributes,omitempty"`
}

// AddressID interprets the component id as an on-chain address. Most venue
// families use the pool address as the component id.
func (c ProtocolComponent) AddressID() (common.Address, error) {
	id := strings.TrimSpace(c.ID)
	if !common.IsHexAddress(id) {
		return common.Address{}, fmt.Errorf("component id %q is not an address", c.ID)
	}
	return common.HexToAddress(id), nil
}

// HasToken reports whether addr is a member of the component's token set.
func (c ProtocolComponent) HasToken(addr common.Address) bool {
	for _, token := range c.Tokens {
		if token == addr {
			return true
		}
	}
	return false
}

// Swap is one hop of a trade. Split is the fraction in [0,1) of the remaining
// input routed through this swap; zero means "all that remains".
type Swap struct {
	Component ProtocolComponent `json:"component"`
	TokenIn   common.Address    `json:"token_in"`
	TokenOut  common.Address    `json:"token_out"`
	Split     float64           `json:"split"`
}

// Solution is one complete trade request as decided by an upstream planner.
type Solution struct {
	Sender         common.Address `json:"sender"`
	Receiver       common.Address `json:"receiver"`
	GivenToken     common.Address `json:"given_token"`
	GivenAmount    *Amount        `json:"given_amount"`
	CheckedToken   common.Address `json:"checked_token"`
	CheckedAmount  *Amount        `json:"checked_amount,omitempty"`
	ExpectedAmount *Amount        `json:"expected_amount,omitempty"`
	ExactOut       bool           `json:"exact_out,omitempty"`
	Slippage       float64        `json:"slippage,omitempty"`
	Swaps          []Swap         `json:"swaps"`
	RouterAddress  common.Address `json:"router_address,omitempty"`
}

// NativeToken is the placeholder address denoting the chain's native asset on
// the given or checked side of a solution.
var NativeToken = common.Address{}

func (s Solution) GivenIsNative() bool   { return s.GivenToken == NativeToken }
func (s Solution) CheckedIsNative() bool { return s.CheckedToken == NativeToken }

// Transaction is the encoded output artifact: destination contract, attached
// native value and call payload. Produced fresh per solution, never mutated.
type Transaction struct {
	To    common.Address `json:"to"`
	Value *hexutil.Big   `json:"value"`
	Data  hexutil.Bytes  `json:"data"`
}

func NewTransaction(to common.Address, value *big.Int, data []byte) Transaction {
	if value == nil {
		value = new(big.Int)
	}
	return Transaction{To: to, Value: (*hexutil.Big)(value), Data: data}
}
