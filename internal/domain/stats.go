package domain

import (
	"sort"
	"time"
)

// MoodCount is the number of entries logged with a mood.
type MoodCount struct {
	Mood  Mood `json:"mood"`
	Count int  `json:"count"`
}

// MoodDistribution counts entries per mood, most frequent first.
// Ties are broken by display order.
func MoodDistribution(entries []ActivityEntry) []MoodCount {
	counts := make(map[Mood]int)
	for _, e := range entries {
		counts[e.Mood]++
	}

	order := make(map[Mood]int, len(moodTable))
	for i, m := range Moods() {
		order[m] = i
	}

	out := make([]MoodCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, MoodCount{Mood: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		oi, iok := order[out[i].Mood]
		oj, jok := order[out[j].Mood]
		if iok != jok {
			return iok
		}
		if oi != oj {
			return oi < oj
		}
		return out[i].Mood < out[j].Mood
	})
	return out
}

// MostFrequentMood returns the dominant mood, false for an empty log.
func MostFrequentMood(entries []ActivityEntry) (Mood, bool) {
	dist := MoodDistribution(entries)
	if len(dist) == 0 {
		return "", false
	}
	return dist[0].Mood, true
}

// EntriesOnDay returns the entries created on the same local calendar day as day.
func EntriesOnDay(entries []ActivityEntry, day time.Time, loc *time.Location) []ActivityEntry {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := day.In(loc).Date()

	var out []ActivityEntry
	for _, e := range entries {
		ey, em, ed := e.CreatedAt.In(loc).Date()
		if ey == y && em == m && ed == d {
			out = append(out, e)
		}
	}
	return out
}

// Stats is the summary served to the analysis view.
type Stats struct {
	Total        int         `json:"total"`
	Distribution []MoodCount `json:"distribution"`
	TopMood      Mood        `json:"top_mood,omitempty"`
	TopTags      []string    `json:"top_tags,omitempty"`
}

const topTagsLimit = 5

// Summarize builds Stats for the log.
func Summarize(entries []ActivityEntry) Stats {
	st := Stats{
		Total:        len(entries),
		Distribution: MoodDistribution(entries),
	}
	if top, ok := MostFrequentMood(entries); ok {
		st.TopMood = top
	}

	tagCounts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, e := range entries {
		for _, tag := range e.Tags {
			if _, ok := firstSeen[tag]; !ok {
				firstSeen[tag] = len(firstSeen)
			}
			tagCounts[tag]++
		}
	}
	tags := make([]string, 0, len(tagCounts))
	for tag := range tagCounts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if tagCounts[tags[i]] != tagCounts[tags[j]] {
			return tagCounts[tags[i]] > tagCounts[tags[j]]
		}
		return firstSeen[tags[i]] < firstSeen[tags[j]]
	})
	if len(tags) > topTagsLimit {
		tags = tags[:topTagsLimit]
	}
	if len(tags) > 0 {
		st.TopTags = tags
	}
	return st
}
