package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

const layoutISO = "2006-01-02"

type addOptions struct {
	Tags  []string
	Title string
	Glyph string
	Diary bool
}

func addAdd(topLevel *cobra.Command, open opener) {
	o := &addOptions{}

	moods := make([]string, 0, len(domain.Moods()))
	for _, m := range domain.Moods() {
		moods = append(moods, string(m))
	}

	cmd := &cobra.Command{
		Use:       "add <mood> [note...]",
		Short:     "Record how you feel",
		ValidArgs: moods,
		Example: `
harunode add calm 산책하고 왔다 --tag 휴식
harunode add custom --glyph 🌧 비 오는 날
harunode add happy --diary --title "좋은 하루" 친구랑 저녁
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, done, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			draft := domain.EntryDraft{
				Kind:      domain.KindQuick,
				Mood:      domain.Mood(args[0]),
				MoodGlyph: o.Glyph,
				Tags:      o.Tags,
				Title:     o.Title,
				Note:      strings.Join(args[1:], " "),
			}
			if o.Diary {
				draft.Kind = domain.KindDiary
			}

			before := core.Journal.Achievements()
			entry, err := core.Journal.Add(cmd.Context(), draft)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printEntries(out, []domain.ActivityEntry{entry}, core.Journal.Location(), false)
			for _, b := range core.Journal.Achievements().List() {
				if before.Has(b) {
					continue
				}
				if info, ok := domain.LookupBadge(b); ok {
					_, _ = fmt.Fprintf(out, "🏅 new badge: %s - %s\n", info.Title, info.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&o.Tags, "tag", "t", nil, "Tag the entry, repeatable.")
	cmd.Flags().StringVar(&o.Title, "title", "", "Diary title.")
	cmd.Flags().StringVar(&o.Glyph, "glyph", "", "Glyph for a custom mood.")
	cmd.Flags().BoolVar(&o.Diary, "diary", false, "Record a diary entry instead of a quick check-in.")

	topLevel.AddCommand(cmd)
}

type entriesOptions struct {
	Limit  int
	On     string
	ShowID bool
}

func addEntries(topLevel *cobra.Command, open opener) {
	o := &entriesOptions{}

	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"ls", "log"},
		Short:   "List recorded entries, newest first",
		Example: `
harunode entries --limit 10
harunode entries --on 2025-03-01 --id
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, done, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			loc := core.Journal.Location()
			entries := core.Journal.Recent(core.Journal.Len())
			title := "Entries"
			if o.On != "" {
				day, err := time.ParseInLocation(layoutISO, o.On, loc)
				if err != nil {
					return fmt.Errorf("invalid --on date %q, want YYYY-MM-DD", o.On)
				}
				entries = domain.EntriesOnDay(entries, day, loc)
				title = o.On
			}
			if o.Limit > 0 && len(entries) > o.Limit {
				entries = entries[:o.Limit]
			}

			out := cmd.OutOrStdout()
			printTitle(out, title, len(entries))
			printEntries(out, entries, loc, o.ShowID)
			return nil
		},
	}

	cmd.Flags().IntVarP(&o.Limit, "limit", "n", 0, "Show at most this many entries.")
	cmd.Flags().StringVar(&o.On, "on", "", `Only entries of one day, example: --on="2025-02-28".`)
	cmd.Flags().BoolVar(&o.ShowID, "id", false, "Show entry ids.")

	topLevel.AddCommand(cmd)
}

func addBadges(topLevel *cobra.Command, open opener) {
	cmd := &cobra.Command{
		Use:   "badges",
		Short: "Show earned and missing badges",
		RunE: func(cmd *cobra.Command, args []string) error {
			core, done, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			printBadges(cmd.OutOrStdout(), core.Journal.Achievements())
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func addStats(topLevel *cobra.Command, open opener) {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the mood distribution and favourite tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			core, done, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			printStats(cmd.OutOrStdout(), domain.Summarize(core.Journal.Entries()))
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}
