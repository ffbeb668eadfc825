package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"nba-insights-go/internal/aggregator"
	"nba-insights-go/internal/dataset"
	"nba-insights-go/internal/engine"
	"nba-insights-go/internal/logger"
	"nba-insights-go/internal/report"
)

var (
	version    = "dev"
	commit     = "none"
	jsonOutput bool
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "nba",
		Short: "Next-best-action batch scorer",
		Long: `nba scores a contact portfolio export with the recommendation
engine and writes an xlsx report with portfolio rollups and one
row per contact.`,
	}
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{"version": version, "commit": commit})
			} else {
				fmt.Printf("nba %s (%s)\n", version, commit)
			}
		},
	})

	var outPath string
	var weightsPath string
	scoreCmd := &cobra.Command{
		Use:   "score <workbook.xlsx>",
		Short: "Score every contact in a workbook and write a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(args[0], outPath, weightsPath)
		},
	}
	scoreCmd.Flags().StringVarP(&outPath, "out", "o", "nba-report.xlsx", "Report output path")
	scoreCmd.Flags().StringVarP(&weightsPath, "weights", "w", "", "YAML weights override")
	rootCmd.AddCommand(scoreCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScore(inPath, outPath, weightsPath string) error {
	log := logger.New().WithComponent("batch")

	weights := engine.DefaultWeights()
	if weightsPath == "" {
		weightsPath = os.Getenv("NBA_WEIGHTS_PATH")
	}
	if weightsPath != "" {
		var err error
		if weights, err = engine.LoadWeights(weightsPath); err != nil {
			return err
		}
		log.WithField("weights_path", weightsPath).Info("weights override loaded")
	}

	contacts, err := dataset.Load(inPath)
	if err != nil {
		return fmt.Errorf("load contacts: %w", err)
	}
	summary := dataset.Summarize(contacts)
	log.WithField("total_contacts", summary.TotalContacts).Info("contacts loaded")

	// One frozen instant for the whole run so every contact's recency
	// checks agree on "today".
	now := time.Now()
	eng := engine.New(weights, log)

	scored := make([]aggregator.ScoredContact, 0, len(contacts))
	for i := range contacts {
		scored = append(scored, aggregator.ScoredContact{
			Contact:     contacts[i],
			Predictions: eng.GeneratePredictions(&contacts[i], now),
		})
	}

	ins := aggregator.Aggregate(scored)
	if err := report.Write(outPath, scored, ins); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]any{
			"contacts":            ins.TotalContacts,
			"with_recommendation": ins.WithRecommendation,
			"by_prediction_type":  ins.ByPredictionType,
			"critical_churn":      ins.CriticalChurn,
			"report":              outPath,
		})
	} else {
		card := aggregator.Card(ins)
		fmt.Printf("%d contacts scored, %d with a recommendation\n", ins.TotalContacts, ins.WithRecommendation)
		fmt.Printf("Insight: %s\nAction:  %s\nImpact:  %s\n", card.Insight, card.Action, card.Impact)
		fmt.Printf("Report written to %s\n", outPath)
	}
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
