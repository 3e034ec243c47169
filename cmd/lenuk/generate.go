package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/verte-zerg/lenuk/internal/generator"
	"github.com/verte-zerg/lenuk/internal/tui"
)

func newGenerateCmd() *cobra.Command {
	flags := &practiceFlags{}
	var tokens bool
	var generation int
	var contentSeed string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the prompt a seed produces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, flags, tokens, generation, contentSeed)
		},
	}
	bindPracticeFlags(cmd, flags)
	cmd.Flags().BoolVar(&tokens, "tokens", false, "print one token per line")
	cmd.Flags().IntVar(&generation, "generation", 0, "regeneration count (Tab presses in practice)")
	cmd.Flags().StringVar(&contentSeed, "content-seed", "", "composed seed stored with a result; replaces --seed and --generation")
	return cmd
}

func runGenerate(cmd *cobra.Command, f *practiceFlags, tokens bool, generation int, contentSeed string) error {
	if generation < 0 {
		return fmt.Errorf("--generation must be >= 0")
	}
	if contentSeed != "" && generation != 0 {
		return fmt.Errorf("--content-seed already includes the generation")
	}
	cfg, err := resolvePracticeConfig(cmd, f)
	if err != nil {
		return err
	}
	packs, err := loadPacks(cmd)
	if err != nil {
		return err
	}
	opts := tui.BuildOptions(cfg, generation)
	if contentSeed != "" {
		opts.Seed = generator.Seed(contentSeed)
	}
	content, err := generator.New(packs).BuildTestContent(opts)
	if err != nil {
		return unknownLangError(err)
	}
	pslog.Ctx(cmd.Context()).Info("prompt generated", "seed", cfg.Seed, "content_seed", string(content.Seed), "words", len(content.Words))

	out := cmd.OutOrStdout()
	if !tokens {
		if _, err := fmt.Fprintln(out, content.Text); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	for _, token := range content.Tokens {
		if _, err := fmt.Fprintln(out, token); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
