package id

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	clierr "github.com/ggonzalez94/swapencode/internal/errors"
)

var evmAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// Chain identifies an EVM network the encoder can target. WrappedNative is the
// canonical wrapped form of the chain's native asset; swaps that take native
// input are encoded against it.
type Chain struct {
	Name          string
	Slug          string
	CAIP2         string
	EVMChainID    int64
	WrappedNative string
}

var chainBySlug = map[string]Chain{
	"ethereum": {Name: "Ethereum", Slug: "ethereum", CAIP2: "eip155:1", EVMChainID: 1, WrappedNative: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
	"mainnet":  {Name: "Ethereum", Slug: "ethereum", CAIP2: "eip155:1", EVMChainID: 1, WrappedNative: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
	"base":     {Name: "Base", Slug: "base", CAIP2: "eip155:8453", EVMChainID: 8453, WrappedNative: "0x4200000000000000000000000000000000000006"},
	"unichain": {Name: "Unichain", Slug: "unichain", CAIP2: "eip155:130", EVMChainID: 130, WrappedNative: "0x4200000000000000000000000000000000000006"},
}

var chainByID = map[int64]Chain{
	1:    chainBySlug["ethereum"],
	130:  chainBySlug["unichain"],
	8453: chainBySlug["base"],
}

// ParseChain resolves a chain slug or name to its Chain entry.
func ParseChain(value string) (Chain, error) {
	slug := strings.ToLower(strings.TrimSpace(value))
	if slug == "" {
		return Chain{}, clierr.New(clierr.CodeUsage, "chain is required")
	}
	chain, ok := chainBySlug[slug]
	if !ok {
		return Chain{}, clierr.New(clierr.CodeUsage, fmt.Sprintf("unsupported chain %q (supported: %s)", value, strings.Join(SupportedChains(), ", ")))
	}
	return chain, nil
}

func ChainByEVMID(chainID int64) (Chain, bool) {
	chain, ok := chainByID[chainID]
	return chain, ok
}

func SupportedChains() []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(chainBySlug))
	for _, chain := range chainBySlug {
		if seen[chain.Slug] {
			continue
		}
		seen[chain.Slug] = true
		out = append(out, chain.Slug)
	}
	sort.Strings(out)
	return out
}

func IsEVMAddress(value string) bool {
	return evmAddressPattern.MatchString(strings.TrimSpace(value))
}
