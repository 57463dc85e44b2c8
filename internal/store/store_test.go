package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/vigenere/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndListRuns(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i, key := range []string{"cat", "dog", "owl"} {
		start := time.Unix(0, 0).UTC().Add(time.Duration(i) * time.Minute)
		end := start.Add(1500 * time.Millisecond)
		id, err := st.InsertRun(ctx, model.CrackRun{
			StartedAt:    start,
			EndedAt:      end,
			InputPath:    "cipher.txt",
			KeyLength:    3,
			NumTestChars: 4,
			Key:          key,
			Score:        i,
			Candidates:   64,
			DurationMs:   end.Sub(start).Milliseconds(),
		})
		if err != nil {
			t.Fatalf("insert run: %v", err)
		}
		ids = append(ids, id)
	}

	all, err := st.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(all))
	}
	if all[0].Key != "cat" || all[2].Key != "owl" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[1].DurationMs != 1500 || all[1].Candidates != 64 || all[1].Score != 1 {
		t.Fatalf("unexpected run fields: %+v", all[1])
	}
	if !all[0].StartedAt.Equal(time.Unix(0, 0)) {
		t.Fatalf("unexpected start time: %v", all[0].StartedAt)
	}

	last, err := st.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(last) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(last))
	}
	if last[0].ID != ids[1] || last[1].ID != ids[2] {
		t.Fatalf("unexpected run ids: %+v", last)
	}
}

func TestListRunsEmpty(t *testing.T) {
	st := openTestStore(t)
	runs, err := st.ListRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}
