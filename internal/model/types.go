// Package model defines shared data structures.
package model

import "time"

// CrackConfig defines cracking settings.
type CrackConfig struct {
	KeyLength    int
	NumTestChars int
	Workers      int
	DictPath     string
}

// CrackRun records a completed crack.
type CrackRun struct {
	ID           int64
	StartedAt    time.Time
	EndedAt      time.Time
	InputPath    string
	KeyLength    int
	NumTestChars int
	Key          string
	Score        int
	Candidates   int
	DurationMs   int64
}
