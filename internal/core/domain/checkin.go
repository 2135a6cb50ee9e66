package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Mood is the closed set of labels a check-in can carry.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodAnxious  Mood = "anxious"
	MoodCalm     Mood = "calm"
	MoodStressed Mood = "stressed"
	MoodNeutral  Mood = "neutral"
)

const (
	MinIntensity   = 1
	MaxIntensity   = 10
	MaxNotesLength = 2000
)

var moods = []Mood{MoodHappy, MoodSad, MoodAnxious, MoodCalm, MoodStressed, MoodNeutral}

// Valid reports whether m is one of the recognised moods.
func (m Mood) Valid() bool {
	for _, known := range moods {
		if m == known {
			return true
		}
	}
	return false
}

// CheckIn is a single mood record. It is owned by exactly one user and never
// updated after creation.
type CheckIn struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Mood      Mood      `json:"mood"`
	Intensity int       `json:"intensity"`
	Notes     string    `json:"notes"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate enforces the field invariants independently of the transport layer.
func (c *CheckIn) Validate() error {
	verr := NewValidationError()
	if !c.Mood.Valid() {
		verr.Add("mood", fmt.Sprintf("mood must be one of: %v", moods))
	}
	if c.Intensity < MinIntensity || c.Intensity > MaxIntensity {
		verr.Add("intensity", fmt.Sprintf("intensity must be between %d and %d", MinIntensity, MaxIntensity))
	}
	if utf8.RuneCountInString(c.Notes) > MaxNotesLength {
		verr.Add("notes", fmt.Sprintf("notes must be at most %d characters", MaxNotesLength))
	}
	return verr.OrNil()
}

// TimestampLayout is the wire and on-disk form of check-in times: UTC, fixed
// width, millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in TimestampLayout after normalising it.
func FormatTimestamp(t time.Time) string {
	return NormalizeTimestamp(t).Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC 3339 time, with or without fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return NormalizeTimestamp(t), nil
}

// NormalizeTimestamp converts t to UTC with millisecond precision. In that form
// the RFC 3339 rendering sorts lexicographically in chronological order.
func NormalizeTimestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
