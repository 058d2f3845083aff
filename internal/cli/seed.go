package cli

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/harunode/internal/domain"
)

var seedTags = []string{"운동", "공부", "카페", "친구", "휴식", "독서", "영화"}

// seedEntries builds count demo entries, one per day going back from now,
// each with a random fixed mood and one random tag.
func seedEntries(count int, now time.Time, rng *rand.Rand) []domain.ActivityEntry {
	moods := domain.Moods()
	fixed := moods[:len(moods)-1] // custom needs a glyph

	entries := make([]domain.ActivityEntry, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, domain.ActivityEntry{
			ID:        "seed-" + uuid.NewString(),
			CreatedAt: now.AddDate(0, 0, -i),
			Kind:      domain.KindQuick,
			Mood:      fixed[rng.IntN(len(fixed))],
			Tags:      []string{seedTags[rng.IntN(len(seedTags))]},
			Note:      fmt.Sprintf("테스트 데이터입니다. (%d일 전)", i+1),
		})
	}
	return entries
}

func addSeed(topLevel *cobra.Command, open opener) {
	var count int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Add random demo entries, one per day going back from today",
		Example: `
harunode seed --count 14
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			core, done, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
			res := core.Journal.MergeImport(cmd.Context(), seedEntries(count, time.Now(), rng))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ %d demo entries added\n", res.Added)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 5, "Number of entries to create.")
	topLevel.AddCommand(cmd)
}
