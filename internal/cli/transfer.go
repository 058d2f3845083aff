package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/harunode/internal/domain"
	"github.com/MrSnakeDoc/harunode/internal/utils"
)

func addExport(topLevel *cobra.Command, open opener) {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole log as JSON",
		Example: `
harunode export > backup.json
harunode export --out backup.json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			core, done, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			entries := core.Journal.Entries()
			if outPath == "" {
				return writeEntries(cmd.OutOrStdout(), entries)
			}

			f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", outPath, err)
			}
			if err := writeEntries(f, entries); err != nil {
				utils.Close(f)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported %d entries to %s\n", len(entries), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout.")
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command, open opener) {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge entries from a JSON export, skipping ids already present",
		Example: `
harunode import backup.json
harunode import - < backup.json
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer utils.Close(f)
				r = f
			}

			incoming, err := readEntries(r)
			if err != nil {
				return err
			}

			core, done, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			res := core.Journal.MergeImport(cmd.Context(), incoming)
			out := cmd.OutOrStdout()
			_, _ = color.New(color.FgGreen).Fprintf(out, "✅ %d added", res.Added)
			_, _ = color.New(color.Faint).Fprintf(out, ", %d already present, %d invalid\n", res.Skipped, res.Invalid)
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

func writeEntries(w io.Writer, entries []domain.ActivityEntry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("failed to write entries: %w", err)
	}
	return nil
}

func readEntries(r io.Reader) ([]domain.ActivityEntry, error) {
	var entries []domain.ActivityEntry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}
	return entries, nil
}
