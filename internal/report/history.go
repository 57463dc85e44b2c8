package report

import (
	"fmt"
	"io"
	"time"

	"github.com/verte-zerg/vigenere/internal/model"
)

// RenderRuns prints recorded crack runs as a table.
func RenderRuns(w io.Writer, runs []model.CrackRun) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No crack runs recorded.")
		return err
	}
	headers := []string{"ID", "Finished", "Input", "Len", "N", "Key", "Score", "Candidates", "Runtime"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", run.ID),
			run.EndedAt.Local().Format(time.DateTime),
			run.InputPath,
			fmt.Sprintf("%d", run.KeyLength),
			fmt.Sprintf("%d", run.NumTestChars),
			run.Key,
			fmt.Sprintf("%d", run.Score),
			fmt.Sprintf("%d", run.Candidates),
			fmt.Sprintf("%.3fs", float64(run.DurationMs)/1000),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{0: true, 3: true, 4: true, 6: true, 7: true, 8: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
