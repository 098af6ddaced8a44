package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"maiscore/internal/rating"
	"maiscore/internal/songid"
)

var (
	songJSON       bool
	songThresholds bool
)

var songCmd = &cobra.Command{
	Use:   "song <song-id>",
	Short: "Look a song up in the catalog",
	Long:  "Look a song up by internal id and print its charts, optionally with per-chart rating thresholds",
	Args:  cobra.ExactArgs(1),
	RunE:  runSong,
}

func init() {
	songCmd.Flags().BoolVar(&songJSON, "json", false, "print raw JSON instead of a table")
	songCmd.Flags().BoolVar(&songThresholds, "thresholds", false, "print S..SSS+ rating per chart")
	rootCmd.AddCommand(songCmd)
}

func runSong(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("song id must be numeric: %q", args[0])
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	song, err := newAggregator().Song(ctx, id)
	if err != nil {
		return fmt.Errorf("look up song %d: %w", id, err)
	}

	if songJSON {
		return printJSON(song)
	}

	fmt.Printf("%s  (%s / %s, id %d)\n", song.Title, song.Artist, song.Genre, id)

	cat := songid.Classify(id)
	charts := song.Difficulties.ForCategory(cat)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DIFF\tLEVEL\tVALUE\tNOTES\tDESIGNER")
	for _, c := range charts {
		fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%s\n",
			c.Difficulty.Label(), c.LevelLabel, c.LevelValue, c.Notes.Count(), c.NoteDesigner)
	}
	w.Flush()

	if songThresholds {
		fmt.Println()
		for _, c := range charts {
			fmt.Printf("%s %.1f:", c.Difficulty.Label(), c.LevelValue)
			for _, t := range rating.GradeThresholds(c.LevelValue) {
				fmt.Printf("  %s=%d", t.Grade, t.Rating)
			}
			fmt.Println()
		}
	}
	return nil
}

// printJSON renders any value as indented JSON on stdout
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
