package cracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/vigenere/internal/alphabet"
	"github.com/verte-zerg/vigenere/internal/cipher"
	"github.com/verte-zerg/vigenere/internal/dictionary"
)

// ErrInvalidParams is returned for a key length below 1 or a candidate
// count outside [1,26].
var ErrInvalidParams = errors.New("invalid crack parameters")

// ProgressFunc receives the number of scored candidates and the total.
// Calls are serialized.
type ProgressFunc func(done, total int)

// Position holds the analysis of one key position.
type Position struct {
	Thread       string
	Distribution Distribution
	// Frequent lists the most frequent ciphertext letters, highest first.
	Frequent []rune
	// KeyLetters lists the implied key letters, in the order of Frequent.
	KeyLetters []rune
}

// Result is the outcome of a crack.
type Result struct {
	Plaintext  string
	Key        string
	Score      int
	Candidates int
	Elapsed    time.Duration
}

// Cracker scores candidate keys against a dictionary.
type Cracker struct {
	oracle   dictionary.Oracle
	workers  int
	logger   *slog.Logger
	progress ProgressFunc
}

// Option configures a Cracker.
type Option func(*Cracker)

// WithWorkers scores candidates on n goroutines. Values below 2 score sequentially.
func WithWorkers(n int) Option {
	return func(c *Cracker) {
		c.workers = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cracker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithProgress registers a callback invoked after each scored candidate.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Cracker) {
		c.progress = fn
	}
}

// New returns a Cracker that scores plaintexts with oracle.
func New(oracle dictionary.Oracle, opts ...Option) *Cracker {
	c := &Cracker{
		oracle:  oracle,
		workers: 1,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnalyzePositions splits ciphertext into keyLength threads and derives
// numTestChars candidate key letters for each.
func AnalyzePositions(ciphertext string, keyLength, numTestChars int) ([]Position, error) {
	if err := checkParams(keyLength, numTestChars); err != nil {
		return nil, err
	}
	if letters := countLetters(ciphertext); keyLength > letters {
		return nil, fmt.Errorf("key position %d: %w", letters, ErrDegenerateKeyLength)
	}
	threads := SplitThreads(ciphertext, keyLength)
	positions := make([]Position, len(threads))
	for p, thread := range threads {
		dist, err := Frequencies(thread)
		if err != nil {
			return nil, fmt.Errorf("key position %d: %w", p, err)
		}
		frequent := TopLetters(dist, numTestChars)
		positions[p] = Position{
			Thread:       thread,
			Distribution: dist,
			Frequent:     frequent,
			KeyLetters:   KeyLetters(frequent),
		}
	}
	return positions, nil
}

// Crack recovers the most plausible key of length keyLength, trying
// numTestChars letters per position. Ties go to the candidate enumerated first.
func (c *Cracker) Crack(ctx context.Context, ciphertext string, keyLength, numTestChars int) (Result, error) {
	start := time.Now()
	if c.oracle == nil {
		return Result{}, dictionary.ErrUnavailable
	}
	if !cipher.IsValidMessage(ciphertext) {
		return Result{}, cipher.ErrInvalidInput
	}
	positions, err := AnalyzePositions(ciphertext, keyLength, numTestChars)
	if err != nil {
		return Result{}, err
	}
	if _, ok := CandidateCount(keyLength, numTestChars); !ok {
		return Result{}, fmt.Errorf("%w: %d candidate letters over %d key positions exceed %d candidate keys",
			ErrInvalidParams, numTestChars, keyLength, MaxCandidates)
	}

	letters := make([][]rune, len(positions))
	for p, pos := range positions {
		letters[p] = pos.KeyLetters
		c.logger.Debug("key position analyzed",
			"position", p,
			"letters", len(pos.Thread),
			"frequent", string(pos.Frequent),
			"key_letters", string(pos.KeyLetters))
	}
	keys := CandidateKeys(letters)
	if len(keys) == 0 {
		return Result{}, fmt.Errorf("%w: no candidate keys", ErrInvalidParams)
	}
	c.logger.Debug("candidate keys enumerated", "count", len(keys))

	scores, err := c.scoreAll(ctx, ciphertext, keys)
	if err != nil {
		return Result{}, err
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] < scores[best] {
			best = i
		}
	}
	c.logger.Debug("best candidate selected", "key", keys[best], "score", scores[best])

	plaintext, err := cipher.DecryptText(ciphertext, keys[best])
	if err != nil {
		return Result{}, err
	}
	return Result{
		Plaintext:  plaintext,
		Key:        keys[best],
		Score:      scores[best],
		Candidates: len(keys),
		Elapsed:    time.Since(start),
	}, nil
}

// scoreAll returns one score per key, index-aligned with keys. ciphertext
// must already satisfy cipher.IsValidMessage.
func (c *Cracker) scoreAll(ctx context.Context, ciphertext string, keys []string) ([]int, error) {
	scores := make([]int, len(keys))
	var mu sync.Mutex
	done := 0
	report := func() {
		if c.progress == nil {
			return
		}
		mu.Lock()
		done++
		c.progress(done, len(keys))
		mu.Unlock()
	}

	if c.workers < 2 {
		for i, key := range keys {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			scores[i] = scoreValid(c.oracle, ciphertext, key)
			report()
		}
		return scores, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, key := range keys {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i] = scoreValid(c.oracle, ciphertext, key)
			report()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

func checkParams(keyLength, numTestChars int) error {
	if keyLength < 1 {
		return fmt.Errorf("%w: key length must be >= 1, got %d", ErrInvalidParams, keyLength)
	}
	if numTestChars < 1 || numTestChars > alphabet.Size {
		return fmt.Errorf("%w: candidate count must be between 1 and %d, got %d", ErrInvalidParams, alphabet.Size, numTestChars)
	}
	return nil
}

func countLetters(text string) int {
	n := 0
	for _, r := range text {
		if alphabet.IsLetter(r) {
			n++
		}
	}
	return n
}
