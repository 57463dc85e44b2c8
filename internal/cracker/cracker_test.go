package cracker

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/vigenere/internal/cipher"
	"github.com/verte-zerg/vigenere/internal/dictionary"
)

const samplePlaintext = "The old man sat by the river every evening and watched the water move slowly past the trees. " +
	"He liked to think about the years when he was young and strong, when he could work in the fields from morning until night. " +
	"Now his legs were tired, but his mind was still clear, and he remembered every friend he had ever known. " +
	"Sometimes his daughter would come down to the river with bread and cheese, and they would eat together while the sun went down behind the hill. " +
	"She told him about the city, the people she met there, and the small house she hoped to buy one day. " +
	"He listened and smiled, because he knew that she would be happy, and that was all he had ever wanted for her."

func encryptSample(t *testing.T, key string) string {
	t.Helper()
	ciphertext, err := cipher.EncryptText(samplePlaintext, key)
	require.NoError(t, err)
	return ciphertext
}

func TestCrackRecoversKnownKey(t *testing.T) {
	ciphertext := encryptSample(t, "cat")

	res, err := New(dictionary.Embedded()).Crack(context.Background(), ciphertext, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, "cat", res.Key)
	assert.Equal(t, strings.ToLower(samplePlaintext), res.Plaintext)
	assert.Equal(t, 0, res.Score)
	assert.Equal(t, 64, res.Candidates)
	assert.Positive(t, res.Elapsed)
}

func TestCrackWithStubDictionary(t *testing.T) {
	ciphertext := encryptSample(t, "lemon")
	stub := dictionary.NewWordSet(Words(strings.ToLower(samplePlaintext)))

	res, err := New(stub).Crack(context.Background(), ciphertext, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, "lemon", res.Key)
	assert.Equal(t, 243, res.Candidates)
}

func TestCrackIsDeterministic(t *testing.T) {
	ciphertext := encryptSample(t, "cat")
	c := New(dictionary.Embedded())

	first, err := c.Crack(context.Background(), ciphertext, 3, 4)
	require.NoError(t, err)
	second, err := c.Crack(context.Background(), ciphertext, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, first.Plaintext, second.Plaintext)
}

func TestCrackTieGoesToFirstCandidate(t *testing.T) {
	ciphertext := encryptSample(t, "cat")
	positions, err := AnalyzePositions(ciphertext, 3, 4)
	require.NoError(t, err)

	var first []rune
	for _, pos := range positions {
		first = append(first, pos.KeyLetters[0])
	}

	// An empty dictionary rejects every word, so every candidate ties.
	res, err := New(dictionary.NewWordSet(nil)).Crack(context.Background(), ciphertext, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, string(first), res.Key)
}

func TestCrackParallelMatchesSequential(t *testing.T) {
	ciphertext := encryptSample(t, "cat")
	// Only a handful of words are known, so many candidates tie on score.
	oracle := dictionary.NewWordSet([]string{"the", "and", "he"})

	seq, err := New(oracle).Crack(context.Background(), ciphertext, 3, 4)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		par, err := New(oracle, WithWorkers(8)).Crack(context.Background(), ciphertext, 3, 4)
		require.NoError(t, err)
		assert.Equal(t, seq.Key, par.Key)
		assert.Equal(t, seq.Score, par.Score)
	}
}

func TestCrackReportsProgress(t *testing.T) {
	ciphertext := encryptSample(t, "cat")
	var mu sync.Mutex
	var calls []int
	total := 0
	progress := func(done, n int) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, done)
		total = n
	}

	_, err := New(dictionary.Embedded(), WithWorkers(4), WithProgress(progress)).
		Crack(context.Background(), ciphertext, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, total)
	require.Len(t, calls, 8)
	for i, done := range calls {
		assert.Equal(t, i+1, done)
	}
}

func TestCrackDegenerateKeyLength(t *testing.T) {
	_, err := New(dictionary.Embedded()).Crack(context.Background(), "ab, c", 4, 1)
	assert.ErrorIs(t, err, ErrDegenerateKeyLength)
}

func TestCrackInvalidParams(t *testing.T) {
	c := New(dictionary.Embedded())
	_, err := c.Crack(context.Background(), "hello there", 0, 3)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = c.Crack(context.Background(), "hello there", 2, 0)
	assert.ErrorIs(t, err, ErrInvalidParams)
	_, err = c.Crack(context.Background(), "hello there", 2, 27)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestCrackRejectsTooManyCandidates(t *testing.T) {
	ciphertext := strings.Repeat("the quick brown fox jumps over the lazy dog ", 10)
	res, err := New(dictionary.Embedded()).Crack(context.Background(), ciphertext, 14, 26)
	require.ErrorIs(t, err, ErrInvalidParams)
	assert.Zero(t, res.Candidates)
}

func TestCrackHugeKeyLengthIsDegenerate(t *testing.T) {
	_, err := New(dictionary.Embedded()).Crack(context.Background(), "hello there", 1<<40, 1)
	assert.ErrorIs(t, err, ErrDegenerateKeyLength)
}

func TestCrackInvalidCiphertext(t *testing.T) {
	_, err := New(dictionary.Embedded()).Crack(context.Background(), "abc123", 2, 2)
	assert.ErrorIs(t, err, cipher.ErrInvalidInput)
}

func TestCrackWithoutDictionary(t *testing.T) {
	_, err := New(nil).Crack(context.Background(), "hello", 1, 1)
	assert.ErrorIs(t, err, dictionary.ErrUnavailable)
}

func TestCrackCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(dictionary.Embedded()).Crack(ctx, encryptSample(t, "cat"), 3, 4)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzePositions(t *testing.T) {
	positions, err := AnalyzePositions(encryptSample(t, "cat"), 3, 4)
	require.NoError(t, err)
	require.Len(t, positions, 3)
	assert.Equal(t, []rune("crlf"), positions[0].KeyLetters)
	assert.Equal(t, []rune("adzk"), positions[1].KeyLetters)
	assert.Equal(t, []rune("tiws"), positions[2].KeyLetters)
	for _, pos := range positions {
		assert.Len(t, pos.Frequent, 4)
		assert.NotEmpty(t, pos.Thread)
	}
}
