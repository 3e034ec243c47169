package main

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/verte-zerg/lenuk/internal/config"
	"github.com/verte-zerg/lenuk/internal/generator"
	"github.com/verte-zerg/lenuk/internal/model"
	"github.com/verte-zerg/lenuk/internal/store"
	"github.com/verte-zerg/lenuk/internal/tui"
	"github.com/verte-zerg/lenuk/internal/wordlist"
)

const (
	defaultMode       = "time"
	defaultWords      = 25
	defaultDuration   = 30
	defaultDifficulty = "mixed"
)

// practiceFlags holds the content settings shared by practice and generate.
type practiceFlags struct {
	lang        string
	mode        string
	words       int
	duration    int
	punct       bool
	numbers     bool
	punctRate   float64
	numbersRate float64
	difficulty  string
	level       string
	repeat      bool
	seed        string
}

func bindPracticeFlags(cmd *cobra.Command, f *practiceFlags) {
	fs := cmd.Flags()
	fs.StringVar(&f.lang, "lang", wordlist.DefaultLanguageCode, "language pack code (see: lenuk langs)")
	fs.StringVar(&f.mode, "mode", defaultMode, "test mode: time or words")
	fs.IntVar(&f.words, "words", defaultWords, "words per prompt in words mode")
	fs.IntVar(&f.duration, "duration", defaultDuration, "session length in seconds")
	fs.BoolVar(&f.punct, "punct", false, "append punctuation to some words")
	fs.BoolVar(&f.numbers, "numbers", false, "insert number tokens")
	fs.Float64Var(&f.punctRate, "punct-rate", generator.DefaultPunctuationRate, "punctuation probability per word (0-1)")
	fs.Float64Var(&f.numbersRate, "numbers-rate", generator.DefaultNumbersRate, "number token rate (0-1)")
	fs.StringVar(&f.difficulty, "difficulty", defaultDifficulty, "word pool: common or mixed")
	fs.StringVar(&f.level, "level", "", "preset: "+strings.Join(config.LevelNames(), ", "))
	fs.BoolVar(&f.repeat, "repeat", true, "allow repeated words")
	fs.StringVar(&f.seed, "seed", "", "content seed (random when empty)")
}

func runPractice(cmd *cobra.Command, f *practiceFlags) error {
	ctx := cmd.Context()
	cfg, err := resolvePracticeConfig(cmd, f)
	if err != nil {
		return err
	}
	packs, err := loadPacks(cmd)
	if err != nil {
		return err
	}
	if _, err := packs.Lookup(cfg.Lang); err != nil {
		return unknownLangError(err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			pslog.Ctx(ctx).With("err", cerr).Warn("db close failed")
		}
	}()

	m, err := tui.NewModel(ctx, cfg, st, generator.New(packs))
	if err != nil {
		return fmt.Errorf("failed to build prompt: %w", err)
	}
	defer m.Close()

	pslog.Ctx(ctx).Debug("practice starting", "lang", cfg.Lang, "mode", cfg.Mode, "seed", cfg.Seed)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePracticeConfig layers flag defaults, the level preset, the config
// file and explicit flags, in that order of precedence from lowest.
func resolvePracticeConfig(cmd *cobra.Command, f *practiceFlags) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return mergePracticeConfig(cmd, *f, fileCfg.Practice)
}

func mergePracticeConfig(cmd *cobra.Command, f practiceFlags, file config.PracticeConfig) (model.Config, error) {
	applyConfig(cmd, "lang", &f.lang, file.Lang)
	applyConfig(cmd, "mode", &f.mode, file.Mode)
	applyConfig(cmd, "words", &f.words, file.Words)
	applyConfig(cmd, "duration", &f.duration, file.Duration)
	applyConfig(cmd, "level", &f.level, file.Level)
	applyConfig(cmd, "repeat", &f.repeat, file.AllowRepeat)
	applyConfig(cmd, "seed", &f.seed, file.Seed)

	if f.level != "" {
		level, err := config.LookupLevel(f.level)
		if err != nil {
			return model.Config{}, fmt.Errorf("--level: %w", err)
		}
		applyLevel(cmd, "difficulty", &f.difficulty, &level.Difficulty, file.Difficulty != nil)
		applyLevel(cmd, "punct", &f.punct, &level.Punctuation, file.Punctuation != nil)
		applyLevel(cmd, "numbers", &f.numbers, &level.Numbers, file.Numbers != nil)
		applyLevel(cmd, "punct-rate", &f.punctRate, level.PunctuationRate, file.PunctuationRate != nil)
		applyLevel(cmd, "numbers-rate", &f.numbersRate, level.NumbersRate, file.NumbersRate != nil)
	}
	applyConfig(cmd, "difficulty", &f.difficulty, file.Difficulty)
	applyConfig(cmd, "punct", &f.punct, file.Punctuation)
	applyConfig(cmd, "numbers", &f.numbers, file.Numbers)
	applyConfig(cmd, "punct-rate", &f.punctRate, file.PunctuationRate)
	applyConfig(cmd, "numbers-rate", &f.numbersRate, file.NumbersRate)

	cfg := model.Config{
		Lang:            strings.TrimSpace(f.lang),
		Mode:            strings.ToLower(strings.TrimSpace(f.mode)),
		Words:           f.words,
		Duration:        f.duration,
		Punctuation:     f.punct,
		Numbers:         f.numbers,
		PunctuationRate: f.punctRate,
		NumbersRate:     f.numbersRate,
		Difficulty:      strings.ToLower(strings.TrimSpace(f.difficulty)),
		AllowRepeat:     f.repeat,
		Seed:            strings.TrimSpace(f.seed),
	}
	if cfg.Seed == "" {
		cfg.Seed = ulid.Make().String()
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

// applyConfig copies a file value unless the flag was set explicitly.
func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyLevel copies a preset value when neither the flag nor the file sets it.
func applyLevel[T any](cmd *cobra.Command, name string, target, value *T, inFile bool) {
	if inFile {
		return
	}
	applyConfig(cmd, name, target, value)
}

func validateConfig(cfg model.Config) error {
	if cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	switch generator.Mode(cfg.Mode) {
	case generator.ModeTime, generator.ModeWords:
	default:
		return fmt.Errorf("--mode must be %q or %q", generator.ModeTime, generator.ModeWords)
	}
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if cfg.PunctuationRate < 0 || cfg.PunctuationRate > 1 {
		return fmt.Errorf("--punct-rate must be between 0 and 1")
	}
	if cfg.NumbersRate < 0 || cfg.NumbersRate > 1 {
		return fmt.Errorf("--numbers-rate must be between 0 and 1")
	}
	switch generator.Difficulty(cfg.Difficulty) {
	case generator.DifficultyCommon, generator.DifficultyMixed:
	default:
		return fmt.Errorf("--difficulty must be %q or %q", generator.DifficultyCommon, generator.DifficultyMixed)
	}
	return nil
}

// loadPacks returns the built-in packs plus any custom lists in the word
// list directory.
func loadPacks(cmd *cobra.Command) (*wordlist.Registry, error) {
	logger := pslog.Ctx(cmd.Context())
	packs, err := wordlist.Builtin()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in packs: %w", err)
	}
	dir := config.DefaultWordListDir()
	added, skipped, err := packs.RegisterDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom packs from %s: %w", dir, err)
	}
	if len(added) > 0 {
		logger.Debug("custom packs loaded", "dir", dir, "codes", strings.Join(added, ","))
	}
	for _, code := range skipped {
		logger.Warn("custom pack shadows a built-in pack", "code", code, "dir", dir)
	}
	return packs, nil
}

func unknownLangError(err error) error {
	if errors.Is(err, wordlist.ErrUnknownLanguage) {
		return fmt.Errorf("%w (run: lenuk langs)", err)
	}
	return err
}
