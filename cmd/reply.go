package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firstlinehq/firstline/internal/config"
	"github.com/firstlinehq/firstline/internal/pipeline"
	"github.com/firstlinehq/firstline/internal/tools"
)

// replyCmd runs one message through the pipeline without the gateway or the
// database: useful for prompt tuning and debugging classification.
func replyCmd() *cobra.Command {
	var variantFlag string

	cmd := &cobra.Command{
		Use:   "reply [message]",
		Short: "Run one message through the reply pipeline and print the outcome",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()

			cfg, err := config.Load(resolveConfigPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if variantFlag != "" {
				cfg.Agent.PromptVariant = variantFlag
			}

			registry := tools.DefaultRegistry(nil)
			engine := pipeline.NewEngine(pipeline.EngineConfig{
				Backend:     buildBackend(cfg, registry),
				Registry:    registry,
				VariantMode: cfg.Agent.PromptVariant,
			})

			out := engine.Run(context.Background(), pipeline.Request{
				Message: strings.Join(args, " "),
			})

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				slog.Error("encode outcome", "error", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&variantFlag, "variant", "", "force prompt variant (a, b, random, auto)")
	return cmd
}
