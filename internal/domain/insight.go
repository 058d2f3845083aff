package domain

import "time"

// Fingerprint summarizes the log state for cache keying.
type Fingerprint struct {
	Count  int       `json:"count"`
	Latest time.Time `json:"latest"`
}

// FingerprintOf computes the fingerprint of a log in append order.
// Latest is the newest CreatedAt, which for an append-only log is the last entry.
func FingerprintOf(entries []ActivityEntry) Fingerprint {
	fp := Fingerprint{Count: len(entries)}
	for _, e := range entries {
		if e.CreatedAt.After(fp.Latest) {
			fp.Latest = e.CreatedAt
		}
	}
	return fp
}

// Quote is a mood-appropriate "quote of the day".
type Quote struct {
	Text   string `json:"quote"`
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// Insight is the analytical payload stored per fingerprint.
type Insight struct {
	TagEmotion []string  `json:"tag_emotion"`
	MusicTaste []string  `json:"music_taste"`
	Overall    string    `json:"overall"`
	Quote      *Quote    `json:"quote,omitempty"`
	ComputedAt time.Time `json:"computed_at"`
}

// Complete reports whether the payload can be trusted from cache.
func (i Insight) Complete() bool {
	return i.Quote != nil && i.Quote.Text != ""
}
