// Package main provides the CLI entrypoint for vigenere.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/vigenere/internal/alphabet"
	"github.com/verte-zerg/vigenere/internal/cipher"
	"github.com/verte-zerg/vigenere/internal/config"
	"github.com/verte-zerg/vigenere/internal/cracker"
	"github.com/verte-zerg/vigenere/internal/dictionary"
	"github.com/verte-zerg/vigenere/internal/keygen"
	"github.com/verte-zerg/vigenere/internal/logging"
	"github.com/verte-zerg/vigenere/internal/model"
	"github.com/verte-zerg/vigenere/internal/report"
	"github.com/verte-zerg/vigenere/internal/store"
	"github.com/verte-zerg/vigenere/internal/textfix"
	"github.com/verte-zerg/vigenere/internal/tui"
	"github.com/verte-zerg/vigenere/internal/wordfreq"
	"github.com/verte-zerg/vigenere/internal/wordlist"
)

const (
	defaultNumTestChars = 3
	defaultWorkers      = 1
	defaultHistoryLast  = 20
	defaultWordlistSz   = 50000
	embeddedDictName    = "embedded"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	cipherInput     string
	cipherOutput    string
	cipherKey       string
	cipherRandomKey int

	crackInput        string
	crackOutput       string
	crackKeyLength    int
	crackNumTestChars int
	crackWorkers      int
	crackDict         string
	crackFormat       string
	crackNoTUI        bool
	crackNoHistory    bool
	crackVerbose      bool

	analyzeInput        string
	analyzeKeyLength    int
	analyzeNumTestChars int
	analyzeTop          int
	analyzeFormat       string

	historyLast int

	wordlistSize  int
	wordlistForce bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vigenere",
		Short:         "Vigenère cipher tool and cracker",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(newCipherCmd("encrypt", "Encrypt a plaintext file", cipher.Encrypt))
	rootCmd.AddCommand(newCipherCmd("decrypt", "Decrypt a ciphertext file", cipher.Decrypt))
	rootCmd.AddCommand(newCrackCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newWordlistCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newCipherCmd(use, short string, dir cipher.Direction) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCipherCmd(cmd, dir)
		},
	}
	cmd.Flags().StringVarP(&cipherInput, "input", "i", "", "input file")
	cmd.Flags().StringVarP(&cipherOutput, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&cipherKey, "key", "k", "", "cipher key (letters only)")
	if dir == cipher.Encrypt {
		cmd.Flags().IntVar(&cipherRandomKey, "random-key", 0, "generate a random key of this length")
	}
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runCipherCmd(cmd *cobra.Command, dir cipher.Direction) error {
	key := cipherKey
	if dir == cipher.Encrypt && cmd.Flags().Changed("random-key") {
		if key != "" {
			return fmt.Errorf("use either --key or --random-key")
		}
		generated, err := keygen.New().Key(cipherRandomKey)
		if err != nil {
			return fmt.Errorf("invalid --random-key value: %w", err)
		}
		key = generated
		logErrf("Key: %s\n", key)
	}
	if key == "" {
		return fmt.Errorf("--key is required")
	}

	text, err := readInput(cipherInput)
	if err != nil {
		return err
	}
	out, err := cipher.Transform(text, key, dir)
	if err != nil {
		return err
	}
	return writeOutput(cipherOutput, out)
}

func newCrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crack",
		Short: "Recover the key of a ciphertext file",
		Args:  cobra.NoArgs,
		RunE:  runCrackCmd,
	}
	cmd.Flags().StringVarP(&crackInput, "input", "i", "", "ciphertext file")
	cmd.Flags().StringVarP(&crackOutput, "output", "o", "", "write the recovered plaintext to this file")
	cmd.Flags().IntVarP(&crackKeyLength, "key-length", "l", 0, "key length")
	cmd.Flags().IntVarP(&crackNumTestChars, "num-test-chars", "n", defaultNumTestChars, "candidate letters tried per key position (1-26)")
	cmd.Flags().IntVar(&crackWorkers, "workers", defaultWorkers, "goroutines scoring candidate keys")
	cmd.Flags().StringVar(&crackDict, "dict", "", "dictionary file, one word per line")
	cmd.Flags().StringVar(&crackFormat, "format", formatText, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&crackNoTUI, "no-tui", false, "disable the progress view")
	cmd.Flags().BoolVar(&crackNoHistory, "no-history", false, "do not record the run")
	cmd.Flags().BoolVar(&crackVerbose, "verbose", false, "log analysis details to stderr")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("key-length")
	return cmd
}

func runCrackCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "num-test-chars", &crackNumTestChars, fileCfg.Crack.NumTestChars)
	applyIntConfig(cmd, "workers", &crackWorkers, fileCfg.Crack.Workers)
	applyStringConfig(cmd, "dict", &crackDict, fileCfg.Dictionary.Path)
	applyNegatedBoolConfig(cmd, "no-tui", &crackNoTUI, fileCfg.Crack.TUI)
	applyNegatedBoolConfig(cmd, "no-history", &crackNoHistory, fileCfg.Crack.History)

	cfg := model.CrackConfig{
		KeyLength:    crackKeyLength,
		NumTestChars: crackNumTestChars,
		Workers:      crackWorkers,
		DictPath:     crackDict,
	}
	if err := validateCrackConfig(cfg); err != nil {
		return err
	}
	if _, ok := cracker.CandidateCount(cfg.KeyLength, cfg.NumTestChars); !ok {
		return fmt.Errorf("%w: --num-test-chars %d with --key-length %d gives more than %d candidate keys",
			cracker.ErrInvalidParams, cfg.NumTestChars, cfg.KeyLength, cracker.MaxCandidates)
	}
	if err := validateFormat(crackFormat); err != nil {
		return err
	}

	ciphertext, err := readInput(crackInput)
	if err != nil {
		return err
	}
	oracle, source, err := loadDictionary(cfg.DictPath)
	if err != nil {
		return fmt.Errorf("failed to load dictionary: %w", err)
	}
	logger := logging.New(os.Stderr, crackVerbose)
	logger.Debug("dictionary loaded", "source", source, "words", oracle.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	crack := func(ctx context.Context, progress cracker.ProgressFunc) (cracker.Result, error) {
		c := cracker.New(oracle,
			cracker.WithWorkers(cfg.Workers),
			cracker.WithLogger(logger),
			cracker.WithProgress(progress))
		return c.Crack(ctx, ciphertext, cfg.KeyLength, cfg.NumTestChars)
	}

	startedAt := time.Now()
	var res cracker.Result
	if !crackNoTUI && term.IsTerminal(int(os.Stderr.Fd())) {
		title := fmt.Sprintf("Cracking %s (key length %d)", filepath.Base(crackInput), cfg.KeyLength)
		res, err = tui.Run(ctx, os.Stderr, title, crack)
	} else {
		res, err = crack(ctx, nil)
	}
	if err != nil {
		return crackError(err, cfg)
	}
	endedAt := time.Now()

	if crackOutput != "" {
		if err := writeOutput(crackOutput, res.Plaintext); err != nil {
			return err
		}
	}
	if !crackNoHistory {
		recordRun(ctx, model.CrackRun{
			StartedAt:    startedAt,
			EndedAt:      endedAt,
			InputPath:    absPath(crackInput),
			KeyLength:    cfg.KeyLength,
			NumTestChars: cfg.NumTestChars,
			Key:          res.Key,
			Score:        res.Score,
			Candidates:   res.Candidates,
			DurationMs:   res.Elapsed.Milliseconds(),
		})
	}
	return writeCrackResult(cmd.OutOrStdout(), crackFormat, res)
}

func crackError(err error, cfg model.CrackConfig) error {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("crack canceled")
	case errors.Is(err, cracker.ErrDegenerateKeyLength):
		return fmt.Errorf("key length %d leaves a key position without letters: %w", cfg.KeyLength, err)
	case errors.Is(err, cipher.ErrInvalidInput):
		return err
	}
	return fmt.Errorf("failed to crack: %w", err)
}

type crackReport struct {
	Plaintext  string  `json:"plaintext" yaml:"plaintext"`
	Key        string  `json:"key" yaml:"key"`
	Score      int     `json:"score" yaml:"score"`
	Candidates int     `json:"candidates" yaml:"candidates"`
	RuntimeSec float64 `json:"runtime_sec" yaml:"runtime_sec"`
}

func writeCrackResult(w io.Writer, format string, res cracker.Result) error {
	runtime := roundSeconds(res.Elapsed)
	if format != formatText {
		return writeStructured(w, format, crackReport{
			Plaintext:  res.Plaintext,
			Key:        res.Key,
			Score:      res.Score,
			Candidates: res.Candidates,
			RuntimeSec: runtime,
		})
	}
	_, err := fmt.Fprintf(w, "\nPlaintext:\n\n%s\n\nKey:     %s\nRuntime: %s sec\n",
		res.Plaintext, res.Key, strconv.FormatFloat(runtime, 'f', -1, 64))
	return err
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*1e4) / 1e4
}

func recordRun(ctx context.Context, run model.CrackRun) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logErrf("failed to open history db: %v\n", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close history db: %v\n", cerr)
		}
	}()
	if _, err := st.InsertRun(context.WithoutCancel(ctx), run); err != nil {
		logErrf("failed to record crack run: %v\n", err)
	}
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Show letter frequencies and candidate key letters per key position",
		Args:  cobra.NoArgs,
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "ciphertext file")
	cmd.Flags().IntVarP(&analyzeKeyLength, "key-length", "l", 0, "key length")
	cmd.Flags().IntVarP(&analyzeNumTestChars, "num-test-chars", "n", defaultNumTestChars, "candidate letters per key position (1-26)")
	cmd.Flags().IntVar(&analyzeTop, "top", 8, "letters shown per position (0 for all)")
	cmd.Flags().StringVar(&analyzeFormat, "format", formatText, "output format: text, json or yaml")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("key-length")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "num-test-chars", &analyzeNumTestChars, fileCfg.Crack.NumTestChars)

	if err := validateCrackConfig(model.CrackConfig{
		KeyLength:    analyzeKeyLength,
		NumTestChars: analyzeNumTestChars,
		Workers:      defaultWorkers,
	}); err != nil {
		return err
	}
	if analyzeTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	if err := validateFormat(analyzeFormat); err != nil {
		return err
	}

	ciphertext, err := readInput(analyzeInput)
	if err != nil {
		return err
	}
	if !cipher.IsValidMessage(ciphertext) {
		return cipher.ErrInvalidInput
	}
	positions, err := cracker.AnalyzePositions(ciphertext, analyzeKeyLength, analyzeNumTestChars)
	if err != nil {
		return crackError(err, model.CrackConfig{KeyLength: analyzeKeyLength})
	}

	out := cmd.OutOrStdout()
	if analyzeFormat != formatText {
		return writeStructured(out, analyzeFormat, positionOutputs(positions))
	}
	return report.RenderPositions(out, positions, report.AnalysisOptions{
		Top:      analyzeTop,
		BarWidth: report.BarWidthFor(report.TerminalWidth()),
		Color:    report.ShouldUseColor(out),
	})
}

type positionOutput struct {
	Position     int                `json:"position" yaml:"position"`
	Letters      int                `json:"letters" yaml:"letters"`
	Frequent     string             `json:"frequent" yaml:"frequent"`
	KeyLetters   string             `json:"key_letters" yaml:"key_letters"`
	Distribution map[string]float64 `json:"distribution" yaml:"distribution"`
}

func positionOutputs(positions []cracker.Position) []positionOutput {
	out := make([]positionOutput, 0, len(positions))
	for p, pos := range positions {
		dist := make(map[string]float64)
		for i, f := range pos.Distribution {
			if f > 0 {
				dist[string(alphabet.Letter(i))] = f
			}
		}
		out = append(out, positionOutput{
			Position:     p + 1,
			Letters:      len(pos.Thread),
			Frequent:     string(pos.Frequent),
			KeyLetters:   string(pos.KeyLetters),
			Distribution: dist,
		})
	}
	return out
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded crack runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "show the last N runs (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(cmd.Context(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return report.RenderRuns(cmd.OutOrStdout(), runs)
}

func newWordlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlist",
		Short: "Download the English dictionary",
		Args:  cobra.NoArgs,
		RunE:  runWordlistCmd,
	}
	cmd.Flags().IntVar(&wordlistSize, "size", defaultWordlistSz, "number of words")
	cmd.Flags().BoolVar(&wordlistForce, "force", false, "overwrite an existing word list")
	return cmd
}

func runWordlistCmd(cmd *cobra.Command, _ []string) error {
	if wordlistSize <= 0 {
		return fmt.Errorf("--size must be greater than 0")
	}
	outPath := config.DefaultWordListPath()
	if !wordlistForce {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat word list: %w", err)
		}
	}

	logErrln("Fetching wordfreq metadata...")
	wheel, err := wordfreq.DownloadLatestWheel(cmd.Context(), config.DefaultWordfreqCacheDir())
	if err != nil {
		return fmt.Errorf("failed to download wordfreq wheel: %w", err)
	}
	if wheel.Cached {
		logErrf("Using cached wheel %s\n", wheel.Filename)
	} else {
		logErrf("Downloaded wheel %s\n", wheel.Filename)
	}

	words, err := wordfreq.ExtractEnglish(wheel.Path, wordlistSize)
	if err != nil {
		return fmt.Errorf("failed to extract word list: %w", err)
	}
	if err := wordlist.WriteWords(outPath, words); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	logErrf("Wrote %s (%d words)\n", outPath, len(words))

	if err := wordfreq.WriteAttribution(wheel.Path, filepath.Dir(outPath)); err != nil {
		return fmt.Errorf("failed to write attribution: %w", err)
	}
	logErrln("Wrote ATTRIBUTION.txt and LICENSE.txt")
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path, err := ensureConfigFile()
	if err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// ensureConfigFile writes the commented template unless a config already exists.
func ensureConfigFile() (string, error) {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return "", fmt.Errorf("failed to write config: %w", err)
		}
	}
	return path, nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# vigenere configuration
# Uncomment a value to enable it. CLI flags override config values.

[crack]
# num-test-chars = %d     # Candidate letters tried per key position (1-26)
# workers = %d            # Goroutines scoring candidate keys
# tui = true              # Show the progress view when stderr is a terminal
# history = true          # Record crack runs in the history database

[dictionary]
# path = %q               # Word list, one word per line (default: downloaded list, then embedded)
`,
		defaultNumTestChars,
		defaultWorkers,
		config.DefaultWordListPath(),
	)
}

func validateCrackConfig(cfg model.CrackConfig) error {
	if cfg.KeyLength < 1 {
		return fmt.Errorf("--key-length must be >= 1")
	}
	if cfg.NumTestChars < 1 || cfg.NumTestChars > alphabet.Size {
		return fmt.Errorf("--num-test-chars must be between 1 and %d", alphabet.Size)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("--workers must be >= 1")
	}
	return nil
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown --format %q (expected text, json or yaml)", format)
}

// loadDictionary resolves the dictionary: an explicit path, then the
// downloaded word list, then the embedded list. It also returns the source.
func loadDictionary(path string) (*dictionary.WordSet, string, error) {
	if path != "" {
		set, err := dictionary.Load(path)
		return set, path, err
	}
	downloaded := config.DefaultWordListPath()
	if _, err := os.Stat(downloaded); err == nil {
		set, err := dictionary.Load(downloaded)
		return set, downloaded, err
	}
	return dictionary.Embedded(), embeddedDictName, nil
}

func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return validateFormat(format)
}

func readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return textfix.Fix(string(data)), nil
}

func writeOutput(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyNegatedBoolConfig maps an enabling config value onto a --no-* flag.
func applyNegatedBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = !*value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
