package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

const noteWidth = 40

func printTitle(w io.Writer, title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(w, title)
	switch count {
	case 1:
		_, _ = c.Fprintf(w, " - %d entry\n", count)
	default:
		_, _ = c.Fprintf(w, " - %d entries\n", count)
	}
}

func printEntries(w io.Writer, entries []domain.ActivityEntry, loc *time.Location, showID bool) {
	if len(entries) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(w, " none\n\n")
		return
	}

	faint := color.New(color.Faint)
	tags := color.New(color.FgCyan)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = noteWidth
	tbl.Wrap = true
	for _, e := range entries {
		row := []interface{}{
			faint.Sprint(e.CreatedAt.In(loc).Format("2006-01-02 15:04")),
			e.Glyph() + " " + e.Mood.Label(),
			tags.Sprint(hashTags(e.Tags)),
			summary(e),
		}
		if showID {
			row = append([]interface{}{faint.Sprint(e.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w)
}

func hashTags(tags []string) string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + t
	}
	return strings.Join(out, " ")
}

// summary is the title of a diary entry, else its note, plus the linked track.
func summary(e domain.ActivityEntry) string {
	text := e.Title
	if text == "" {
		text = e.Note
	}
	if e.LinkedMedia != nil {
		track := "♪ " + e.LinkedMedia.Name
		if e.LinkedMedia.Artist != "" {
			track += " - " + e.LinkedMedia.Artist
		}
		if text == "" {
			return track
		}
		return text + " " + track
	}
	return text
}

func printBadges(w io.Writer, earned domain.AchievementSet) {
	bold := color.New(color.Bold)
	got := color.New(color.FgHiYellow)
	missing := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("  "), bold.Sprint("Badge"), bold.Sprint("Description"))
	for _, b := range domain.BadgeCatalog {
		if earned.Has(b.ID) {
			tbl.AddRow(got.Sprint("★"), got.Sprint(b.Title), b.Description)
		} else {
			tbl.AddRow(missing.Sprint("☆"), missing.Sprint(b.Title), missing.Sprint(b.Description))
		}
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func printStats(w io.Writer, s domain.Stats) {
	printTitle(w, "Moods", s.Total)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, mc := range s.Distribution {
		if mc.Count == 0 {
			continue
		}
		bar := strings.Repeat("■", mc.Count)
		tbl.AddRow(mc.Mood.Glyph()+" "+mc.Mood.Label(), mc.Count, color.New(color.FgGreen).Sprint(bar))
	}
	tbl.RightAlign(1)
	_, _ = fmt.Fprintln(w, tbl)

	if s.TopMood != "" {
		_, _ = fmt.Fprintf(w, "\nmost frequent: %s %s\n", s.TopMood.Glyph(), s.TopMood.Label())
	}
	if len(s.TopTags) > 0 {
		_, _ = fmt.Fprintf(w, "top tags: %s\n", color.New(color.FgCyan).Sprint(hashTags(s.TopTags)))
	}
}
