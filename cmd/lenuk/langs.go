package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/lenuk/internal/config"
	"github.com/verte-zerg/lenuk/internal/wordlist"
)

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List language packs",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	packs, err := loadPacks(cmd)
	if err != nil {
		return err
	}
	builtin, err := wordlist.BuiltinPacks()
	if err != nil {
		return fmt.Errorf("failed to load built-in packs: %w", err)
	}
	isBuiltin := make(map[string]bool, len(builtin))
	for _, pack := range builtin {
		isBuiltin[pack.Code] = true
	}

	out := cmd.OutOrStdout()
	for _, summary := range packs.List() {
		source := "custom"
		if isBuiltin[summary.Code] {
			source = "built-in"
		}
		if _, err := fmt.Fprintf(out, "%-10s %-20s %s\n", summary.Code, summary.Name, source); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(out, "\nCustom packs: %s/<code>.txt\n", config.DefaultWordListDir()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
