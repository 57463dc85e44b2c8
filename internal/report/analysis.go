package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/vigenere/internal/alphabet"
	"github.com/verte-zerg/vigenere/internal/cracker"
)

const barRune = "█"

var (
	candidateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

// AnalysisOptions controls RenderPositions.
type AnalysisOptions struct {
	// Top limits each table to the most frequent letters. Zero shows all 26.
	Top int
	// BarWidth is the width of the longest bar. Zero disables bars.
	BarWidth int
	Color    bool
}

// RenderPositions prints one frequency table per key position followed by
// the candidate key letters derived from it.
func RenderPositions(w io.Writer, positions []cracker.Position, opts AnalysisOptions) error {
	for p, pos := range positions {
		title := fmt.Sprintf("Key position %d (%d letters)", p+1, len(pos.Thread))
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
		for _, line := range positionTable(pos, opts) {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "Candidate key letters: %s\n\n", spaced(pos.KeyLetters)); err != nil {
			return err
		}
	}
	return nil
}

type letterFreq struct {
	letter rune
	freq   float64
}

func positionTable(pos cracker.Position, opts AnalysisOptions) []string {
	items := make([]letterFreq, 0, alphabet.Size)
	maxFreq := 0.0
	for i, f := range pos.Distribution {
		items = append(items, letterFreq{letter: alphabet.Letter(i), freq: f})
		maxFreq = math.Max(maxFreq, f)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].freq > items[j].freq
	})
	if opts.Top > 0 && opts.Top < len(items) {
		items = items[:opts.Top]
	}

	frequent := make(map[rune]bool, len(pos.Frequent))
	for _, r := range pos.Frequent {
		frequent[r] = true
	}

	headers := []string{"Letter", "Freq", "Count"}
	if opts.BarWidth > 0 {
		headers = append(headers, "")
	}
	total := float64(len(pos.Thread))
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		row := []string{
			string(it.letter),
			fmt.Sprintf("%.2f%%", it.freq*100),
			fmt.Sprintf("%d", int(math.Round(it.freq*total))),
		}
		if opts.BarWidth > 0 {
			row = append(row, bar(it.freq, maxFreq, opts.BarWidth))
		}
		rows = append(rows, row)
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true})
	if !opts.Color {
		return lines
	}
	// Row i+1 belongs to items[i]; the header stays plain.
	for i, it := range items {
		if frequent[it.letter] {
			lines[i+1] = candidateStyle.Render(lines[i+1])
		} else {
			lines[i+1] = mutedStyle.Render(lines[i+1])
		}
	}
	return lines
}

func bar(freq, maxFreq float64, width int) string {
	if maxFreq <= 0 {
		return ""
	}
	n := int(math.Round(freq / maxFreq * float64(width)))
	return strings.Repeat(barRune, n)
}

func spaced(letters []rune) string {
	parts := make([]string, len(letters))
	for i, r := range letters {
		parts[i] = string(r)
	}
	return strings.Join(parts, " ")
}
