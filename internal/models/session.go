package models

import "time"

// Ressenti (perceived effort) is rated on this scale
const (
	MinRessenti = 1
	MaxRessenti = 5
)

// Session is one timed stretch of work on a task
type Session struct {
	ID            string     `json:"id"`
	Start         time.Time  `json:"start"`
	Stop          *time.Time `json:"stop"`
	PausesMinutes int        `json:"pausesMinutes"`
	Ressenti      *int       `json:"ressenti"`
}

// IsOpen reports whether the session is still running
func (s Session) IsOpen() bool {
	return s.Stop == nil
}

// Elapsed returns the worked time, pauses excluded. Open sessions run until now.
func (s Session) Elapsed(now time.Time) time.Duration {
	end := now
	if s.Stop != nil {
		end = *s.Stop
	}
	d := end.Sub(s.Start) - time.Duration(s.PausesMinutes)*time.Minute
	if d < 0 {
		return 0
	}
	return d
}
