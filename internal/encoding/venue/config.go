package venue

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/id"
	"gopkg.in/yaml.v3"
)

// defaultExecutors is the embedded executor table used when no config file is
// supplied: chain slug -> protocol_system -> executor contract address.
const defaultExecutors = `
ethereum:
  uniswap_v2: "0x5C2F5a71f67c01775180adc06909288b4c329308"
  sushiswap_v2: "0x5C2F5a71f67c01775180adc06909288b4c329308"
  pancakeswap_v2: "0x5C2F5a71f67c01775180adc06909288b4c329308"
  uniswap_v3: "0x2E234DAe75C793f67A35089C9d99245E1C58470b"
  uniswap_v4: "0xF62849F9A0B5Bf2913b396098F7c7019b51A820a"
  balancer_v2: "0x5615dEB798BB3E4dFa0139dFa1b3D433Cc23b72f"
  curve: "0x2e234DAe75C793f67A35089C9d99245E1C58470b"
base:
  uniswap_v2: "0x3582E345df6A62e8611cCB44e7049c5C4DF23eCA"
  uniswap_v3: "0x3E1FE4A1FfF99d8bbe689e8F43EAaf72b21ba08C"
  uniswap_v4: "0x6Ff5693b99212Da76ad316178A184AB56D299b43"
unichain:
  uniswap_v2: "0x02D1cebDd7d9ae5e58a2a7A2aA1Dba4A8f8E6077"
  uniswap_v3: "0x12Bb1A120dcF8Cb7152eDAC9f04d176DD7f41F7e"
  uniswap_v4: "0x1F98400000000000000000000000000000000004"
`

// factories maps a protocol_system to the constructor for its encoder. New
// venue families are added here and in the executor table, never inside the
// strategy encoders.
var factories = map[string]func(system string, executor common.Address) Encoder{
	"uniswap_v2":     newUniswapV2,
	"sushiswap_v2":   newUniswapV2,
	"pancakeswap_v2": newUniswapV2,
	"uniswap_v3":     newUniswapV3,
	"uniswap_v4":     newUniswapV4,
	"balancer_v2":    newBalancerV2,
	"curve":          newCurve,
}

type executorTable map[string]map[string]string

func loadExecutorTable(configPath string) (executorTable, error) {
	raw := []byte(defaultExecutors)
	if strings.TrimSpace(configPath) != "" {
		buf, err := os.ReadFile(configPath)
		if err != nil {
			return nil, clierr.Wrap(clierr.CodeConfig, "read executor config", err)
		}
		raw = buf
	}
	var table executorTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, clierr.Wrap(clierr.CodeConfig, "parse executor config", err)
	}
	if len(table) == 0 {
		return nil, clierr.New(clierr.CodeConfig, "executor config is empty")
	}
	return table, nil
}

// NewRegistry builds the venue encoder set for one chain. It fails fast on a
// missing or malformed config file, an unknown protocol_system, or an invalid
// executor address; lookups never touch configuration again.
func NewRegistry(configPath string, chain id.Chain) (*Registry, error) {
	table, err := loadExecutorTable(configPath)
	if err != nil {
		return nil, err
	}
	executors, ok := table[chain.Slug]
	if !ok {
		return nil, clierr.New(clierr.CodeConfig, fmt.Sprintf("executor config has no entries for chain %q", chain.Slug))
	}
	encoders := make(map[string]Encoder, len(executors))
	for system, addr := range executors {
		system = strings.ToLower(strings.TrimSpace(system))
		factory, ok := factories[system]
		if !ok {
			return nil, clierr.New(clierr.CodeConfig, fmt.Sprintf("no encoder implementation for protocol_system %q", system))
		}
		if !id.IsEVMAddress(addr) {
			return nil, clierr.New(clierr.CodeConfig, fmt.Sprintf("invalid executor address %q for %s", addr, system))
		}
		encoders[system] = factory(system, common.HexToAddress(addr))
	}
	return &Registry{encoders: encoders}, nil
}

// Registry resolves a protocol_system to its encoder. Immutable once built;
// safe for concurrent use without locking.
type Registry struct {
	encoders map[string]Encoder
}

func (r *Registry) Resolve(protocolSystem string) (Encoder, error) {
	encoder, ok := r.encoders[strings.ToLower(strings.TrimSpace(protocolSystem))]
	if !ok {
		return nil, clierr.New(clierr.CodeUnsupported, fmt.Sprintf("unsupported protocol_system %q (registered: %s)", protocolSystem, strings.Join(r.Systems(), ", ")))
	}
	return encoder, nil
}

func (r *Registry) Systems() []string {
	out := make([]string, 0, len(r.encoders))
	for system := range r.encoders {
		out = append(out, system)
	}
	sort.Strings(out)
	return out
}
