// Package main provides the CLI entrypoint for lenuk.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/psi"
	"pkt.systems/pslog"
)

func main() {
	psi.Run(submain)
}

func submain(ctx context.Context) int {
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(os.Stderr),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)

	root := newRootCmd()
	root.SetArgs(os.Args[1:])
	if err := root.ExecuteContext(ctx); err != nil {
		pslog.Ctx(ctx).With("err", err).Error("lenuk command failed")
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	flags := &practiceFlags{}
	root := &cobra.Command{
		Use:           "lenuk",
		Short:         "Seeded typing practice in the terminal",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPractice(cmd, flags)
		},
	}
	bindPracticeFlags(root, flags)

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newLangsCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newConfigCmd())

	return root
}
