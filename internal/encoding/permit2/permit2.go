// Package permit2 produces signed Permit2 allowances: EIP-712 typed-data
// messages authorizing a spender contract to pull tokens from the signer
// without a prior on-chain approval transaction.
package permit2

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
)

// ContractAddress is the canonical Permit2 deployment, identical on every
// chain it exists on.
var ContractAddress = common.HexToAddress("0x000000000022D473030F116dDEE9F6B43aC78BA3")

const (
	// Allowance lifetime baked into each signed permit.
	permitExpiration = 30 * 24 * time.Hour
	// Window within which the signature itself must be submitted.
	permitSigDeadline = 30 * time.Minute
)

// PermitDetails mirrors the Permit2 AllowanceTransfer struct of the same
// name. Amount is uint160, Expiration and Nonce are uint48 on-chain.
type PermitDetails struct {
	Token      common.Address
	Amount     *big.Int
	Expiration *big.Int
	Nonce      *big.Int
}

// PermitSingle is the signed message body: one token allowance for one
// spender.
type PermitSingle struct {
	Details     PermitDetails
	Spender     common.Address
	SigDeadline *big.Int
}

var permitTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"PermitDetails": {
		{Name: "token", Type: "address"},
		{Name: "amount", Type: "uint160"},
		{Name: "expiration", Type: "uint48"},
		{Name: "nonce", Type: "uint48"},
	},
	"PermitSingle": {
		{Name: "details", Type: "PermitDetails"},
		{Name: "spender", Type: "address"},
		{Name: "sigDeadline", Type: "uint256"},
	},
}

// Signer holds the swapper's key for the duration of the encoder's lifetime
// and signs permits on demand. It never exposes or logs the key material.
type Signer struct {
	key     *ecdsa.PrivateKey
	chainID int64
	now     func() time.Time
}

// NewSigner wraps an already-parsed private key. The clock is injectable so
// permit deadlines are reproducible under test; nil means time.Now.
func NewSigner(key *ecdsa.PrivateKey, chainID int64, now func() time.Time) (*Signer, error) {
	if key == nil {
		return nil, clierr.New(clierr.CodeSigning, "permit signer requires a private key")
	}
	if now == nil {
		now = time.Now
	}
	return &Signer{key: key, chainID: chainID, now: now}, nil
}

func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// SignPermit builds and signs a PermitSingle letting spender pull amount of
// token from the signer. The returned signature is 65 bytes r||s||v with v in
// {27,28}. The nonce is always zero: per-token nonce tracking requires chain
// state, which callers own.
func (s *Signer) SignPermit(token, spender common.Address, amount *big.Int) (PermitSingle, []byte, error) {
	if amount == nil || amount.Sign() < 0 || amount.BitLen() > 160 {
		return PermitSingle{}, nil, clierr.New(clierr.CodeSigning, "permit amount must fit in uint160")
	}
	now := s.now().UTC()
	permit := PermitSingle{
		Details: PermitDetails{
			Token:      token,
			Amount:     new(big.Int).Set(amount),
			Expiration: big.NewInt(now.Add(permitExpiration).Unix()),
			Nonce:      big.NewInt(0),
		},
		Spender:     spender,
		SigDeadline: big.NewInt(now.Add(permitSigDeadline).Unix()),
	}

	hash, _, err := apitypes.TypedDataAndHash(typedDataFor(s.chainID, permit))
	if err != nil {
		return PermitSingle{}, nil, clierr.Wrap(clierr.CodeSigning, "hash permit typed data", err)
	}
	signature, err := crypto.Sign(hash, s.key)
	if err != nil {
		return PermitSingle{}, nil, clierr.Wrap(clierr.CodeSigning, "sign permit", err)
	}
	if len(signature) != 65 {
		return PermitSingle{}, nil, clierr.New(clierr.CodeSigning, fmt.Sprintf("unexpected signature length %d", len(signature)))
	}
	// Contracts expect the Ethereum recovery id convention.
	signature[64] += 27
	return permit, signature, nil
}

func typedDataFor(chainID int64, permit PermitSingle) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       permitTypes,
		PrimaryType: "PermitSingle",
		Domain: apitypes.TypedDataDomain{
			Name:              "Permit2",
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: ContractAddress.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"details": map[string]interface{}{
				"token":      permit.Details.Token.Hex(),
				"amount":     (*math.HexOrDecimal256)(permit.Details.Amount),
				"expiration": (*math.HexOrDecimal256)(permit.Details.Expiration),
				"nonce":      (*math.HexOrDecimal256)(permit.Details.Nonce),
			},
			"spender":     permit.Spender.Hex(),
			"sigDeadline": (*math.HexOrDecimal256)(permit.SigDeadline),
		},
	}
}

// RecoverPermitSigner returns the address that produced signature over the
// given permit. Used by tests and by callers that verify before submitting.
func RecoverPermitSigner(chainID int64, permit PermitSingle, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, fmt.Errorf("signature must be 65 bytes")
	}
	hash, _, err := apitypes.TypedDataAndHash(typedDataFor(chainID, permit))
	if err != nil {
		return common.Address{}, err
	}
	adjusted := make([]byte, 65)
	copy(adjusted, signature)
	adjusted[64] -= 27
	pub, err := crypto.SigToPub(hash, adjusted)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(*pub), nil
}
