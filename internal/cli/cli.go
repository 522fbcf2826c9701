// Package cli wires the worker, producer and admin commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dealdesk/config"
	"dealdesk/internal/llm"
	"dealdesk/internal/logging"
	"dealdesk/internal/orchestrator"
	"dealdesk/internal/producer"
	"dealdesk/internal/quant"
	"dealdesk/internal/review"
	"dealdesk/internal/store"
)

var million = decimal.NewFromInt(1_000_000)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "dealdesk",
		Short: "dealdesk - LLM-assisted acquisition deal review",
		Long: `dealdesk reviews acquisition candidates through a Scout/Contrarian/Judge
pipeline, reconciling reviewer judgment with a deterministic risk score.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				cfg.Debug = true
				cfg.LogLevel = "debug"
			}
			logging.Init(cfg.LogLevel, cfg.LogFormat)
			return cfg.Validate()
		},
	}

	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newSeedCmd(cfg))
	rootCmd.AddCommand(newInitDBCmd(cfg))
	rootCmd.AddCommand(newReviewCmd(cfg))
	rootCmd.AddCommand(newConfigCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	return rootCmd
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the review worker against the deal queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			withProducer, _ := cmd.Flags().GetBool("with-producer")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			queue, err := store.Open(cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer queue.Close()

			if err := queue.InitSchema(ctx); err != nil {
				return err
			}

			gw, err := llm.NewGateway(ctx, cfg)
			if err != nil {
				return err
			}

			machine := review.NewMachine(cfg, gw, quant.NewScorer())
			orch := orchestrator.New(cfg, queue, machine)

			g, gctx := errgroup.WithContext(ctx)
			if withProducer {
				prod := producer.New(queue)
				g.Go(func() error { return prod.Run(gctx, cfg.ProducerInterval) })
			}
			g.Go(func() error { return orch.Run(gctx) })

			if err := g.Wait(); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().Bool("with-producer", false, "Also run the synthetic deal producer")
	return cmd
}

func newSeedCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert synthetic deals into the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, _ := cmd.Flags().GetInt("count")

			queue, err := store.Open(cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer queue.Close()

			if err := queue.InitSchema(cmd.Context()); err != nil {
				return err
			}

			prod := producer.New(queue)
			for i := 0; i < n; i++ {
				deal := prod.Generate()
				id, err := queue.InsertDeal(cmd.Context(), deal)
				if err != nil {
					return err
				}
				fmt.Printf("seeded %s  %-13s  $%sM revenue\n",
					id[:8], deal.Sector, deal.Revenue.Div(million).StringFixed(1))
			}
			return nil
		},
	}
	cmd.Flags().IntP("count", "n", 5, "Number of deals to insert")
	return cmd
}

func newInitDBCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create the queue schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := store.Open(cfg.DatabaseDSN)
			if err != nil {
				return err
			}
			defer queue.Close()

			if err := queue.InitSchema(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("tables ready")
			return nil
		},
	}
}

// newReviewCmd reviews one synthetic deal in-process without the queue.
// Useful for exercising the pipeline against a configured model.
func newReviewCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "Generate one synthetic deal and review it (no queue)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			gw, err := llm.NewGateway(ctx, cfg)
			if err != nil {
				return err
			}

			deal := producer.New(nil).Generate()
			machine := review.NewMachine(cfg, gw, quant.NewScorer())

			state, err := machine.Run(ctx, deal)
			if err != nil {
				return err
			}

			orchestrator.PrintMemo(deal, state)
			return nil
		},
	}
}

func newConfigCmd(cfg *config.Config) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *cfg
			if shown.APIKey != "" {
				shown.APIKey = "***"
			}
			data, err := json.MarshalIndent(shown, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	})

	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("dealdesk v1.0.0")
		},
	}
}
