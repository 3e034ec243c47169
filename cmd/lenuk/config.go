package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/lenuk/internal/config"
	"github.com/verte-zerg/lenuk/internal/generator"
	"github.com/verte-zerg/lenuk/internal/wordlist"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	edit := exec.CommandContext(cmd.Context(), parts[0], append(parts[1:], path)...)
	edit.Stdin = os.Stdin
	edit.Stdout = os.Stdout
	edit.Stderr = os.Stderr
	if err := edit.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the config file unless it already exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# lenuk configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q          # Language pack code (see: lenuk langs)
# mode = %q            # time or words
# words = %d              # Words per prompt in words mode
# duration = %d           # Session length in seconds
# level = "medium"        # Preset: %s
# difficulty = %q     # common or mixed
# punctuation = false     # Append punctuation to some words
# numbers = false         # Insert number tokens
# punctuation-rate = %g # Punctuation probability per word (0-1)
# numbers-rate = %g     # Number token rate (0-1)
# repeat = true           # Allow repeated words
# seed = "my-seed"        # Fixed content seed (random when unset)
`,
		wordlist.DefaultLanguageCode,
		defaultMode,
		defaultWords,
		defaultDuration,
		strings.Join(config.LevelNames(), ", "),
		defaultDifficulty,
		generator.DefaultPunctuationRate,
		generator.DefaultNumbersRate,
	)
}
