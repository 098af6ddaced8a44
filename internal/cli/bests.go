package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"maiscore/internal/rating"
	"maiscore/pkg/models"
)

var bestsJSON bool

var bestsCmd = &cobra.Command{
	Use:   "bests <player-ref>",
	Short: "Fetch a player's best-35/best-15 selection",
	Long:  "Fetch a player's best scores from the chosen source and print them with the aggregate rating",
	Args:  cobra.ExactArgs(1),
	RunE:  runBests,
}

func init() {
	bestsCmd.Flags().BoolVar(&bestsJSON, "json", false, "print raw JSON instead of a table")
	rootCmd.AddCommand(bestsCmd)
}

func runBests(cmd *cobra.Command, args []string) error {
	kind, err := sourceKindFlag(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	result, err := newAggregator().Bests(ctx, args[0], kind)
	if err != nil {
		return fmt.Errorf("fetch bests: %w", err)
	}

	if bestsJSON {
		return printJSON(result)
	}

	fmt.Printf("%s  rating %d  (b35 %d + b15 %d)\n\n",
		result.Profile.Username, result.TotalRating(), result.Best35Total, result.Best15Total)

	printScoreTable("Best 35 (standard)", result.Best35)
	fmt.Println()
	printScoreTable("Best 15 (deluxe)", result.Best15)
	return nil
}

func printScoreTable(title string, scores []models.ChartScore) {
	fmt.Println(title)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTITLE\tDIFF\tLEVEL\tACH\tGRADE\tRATING\tDX")
	for i, s := range scores {
		// The grade is recomputed from the achievement rate so the column is
		// filled even when the source omitted its own rate string.
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.4f%%\t%s\t%d\t%d/%d\n",
			i+1, s.Title, s.Difficulty.Label(), s.LevelLabel,
			s.Achievements, rating.GradeFor(s.Achievements), s.Rating, s.DXScore, s.MaxDXScore)
	}
	w.Flush()
}
