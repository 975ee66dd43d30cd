package app

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ggonzalez94/swapencode/internal/config"
	"github.com/ggonzalez94/swapencode/internal/encoding"
	clierr "github.com/ggonzalez94/swapencode/internal/errors"
	"github.com/ggonzalez94/swapencode/internal/id"
	"github.com/ggonzalez94/swapencode/internal/model"
	"github.com/ggonzalez94/swapencode/internal/out"
	"github.com/ggonzalez94/swapencode/internal/signer"
	"github.com/ggonzalez94/swapencode/internal/store"
	"github.com/spf13/cobra"
)

func (r *Runner) newRouterCommand(flags *config.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "router",
		Short: "Encode against the split-swap router",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runEncode(cmd, flags, func(builder *encoding.Builder, settings config.Settings) (*encoding.Builder, error) {
				return builder.Router(settings.ExecutorsPath)
			})
		},
	}
}

func (r *Runner) newRouterPermit2Command(flags *config.GlobalFlags) *cobra.Command {
	var swapperPK string
	cmd := &cobra.Command{
		Use:   "router-permit2",
		Short: "Encode against the split-swap router with a signed Permit2 allowance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runEncode(cmd, flags, func(builder *encoding.Builder, settings config.Settings) (*encoding.Builder, error) {
				keyHex, err := signer.ResolveKeyHex(swapperPK)
				if err != nil {
					return nil, err
				}
				return builder.RouterWithPermit2(settings.ExecutorsPath, keyHex)
			})
		},
	}
	cmd.Flags().StringVarP(&swapperPK, "swapper-pk", "k", "", "swapper private key hex (falls back to env, key file or keystore)")
	return cmd
}

func (r *Runner) newDirectCommand(flags *config.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "direct",
		Short: "Encode a single swap straight against its venue executor",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.runEncode(cmd, flags, func(builder *encoding.Builder, settings config.Settings) (*encoding.Builder, error) {
				return builder.DirectExecution(settings.ExecutorsPath)
			})
		},
	}
}

type strategyConfigurer func(builder *encoding.Builder, settings config.Settings) (*encoding.Builder, error)

func (r *Runner) runEncode(cmd *cobra.Command, flags *config.GlobalFlags, configure strategyConfigurer) error {
	settings, err := config.Load(*flags)
	if err != nil {
		return clierr.Wrap(clierr.CodeConfig, "load settings", err)
	}
	chain, err := id.ParseChain(settings.Chain)
	if err != nil {
		return err
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return clierr.Wrap(clierr.CodeUsage, "read stdin", err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return clierr.New(clierr.CodeUsage, "no input provided; expected a solution as JSON on stdin")
	}
	var solution model.Solution
	if err := json.Unmarshal(raw, &solution); err != nil {
		return clierr.Wrap(clierr.CodeUsage, "parse solution", err)
	}

	builder, err := configure(encoding.NewBuilder().Chain(chain).Clock(r.now), settings)
	if err != nil {
		return err
	}
	encoder, err := builder.Build()
	if err != nil {
		return err
	}
	transactions, err := encoder.Encode([]model.Solution{solution})
	if err != nil {
		return err
	}

	if settings.StoreEnabled {
		r.recordEncodes(settings, encoder, raw, transactions)
	}
	return out.Render(r.stdout, transactions, settings)
}

// recordEncodes appends the produced transactions to the local journal.
// Journal trouble must never block the encode output, so failures only warn.
func (r *Runner) recordEncodes(settings config.Settings, encoder *encoding.Encoder, input []byte, transactions []model.Transaction) {
	journal, err := store.Open(settings.StorePath, settings.StoreLockPath)
	if err != nil {
		fmt.Fprintf(r.stderr, "warning: open encode journal: %v\n", err)
		return
	}
	defer journal.Close()

	digest := sha256.Sum256(input)
	for i, tx := range transactions {
		entry := store.Entry{
			ID:             newEncodeID(),
			Chain:          encoder.Chain().Slug,
			Strategy:       encoder.Strategy(),
			SolutionDigest: hex.EncodeToString(digest[:]),
			To:             tx.To.Hex(),
			Value:          tx.Value.ToInt().String(),
			Data:           tx.Data.String(),
			CreatedAt:      r.now().UTC().Format(time.RFC3339),
		}
		if err := journal.Record(entry); err != nil {
			fmt.Fprintf(r.stderr, "warning: record encode %d: %v\n", i, err)
		}
	}
}

func (r *Runner) newHistoryCommand(flags *config.GlobalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent encodes from the local journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(*flags)
			if err != nil {
				return clierr.Wrap(clierr.CodeConfig, "load settings", err)
			}
			journal, err := store.Open(settings.StorePath, settings.StoreLockPath)
			if err != nil {
				return clierr.Wrap(clierr.CodeInternal, "open encode journal", err)
			}
			defer journal.Close()
			entries, err := journal.List(limit)
			if err != nil {
				return clierr.Wrap(clierr.CodeInternal, "list encodes", err)
			}
			return out.Render(r.stdout, entries, settings)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to list")
	return cmd
}
