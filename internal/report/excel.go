// Package report writes a scored portfolio to an xlsx workbook: a summary
// sheet with the headline card and rollups, plus one row per contact.
package report

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"nba-insights-go/internal/aggregator"
	"nba-insights-go/internal/format"
	"nba-insights-go/internal/logger"
	"nba-insights-go/internal/types"
)

const (
	sheetSummary  = "Summary"
	sheetContacts = "Contacts"
)

var contactHeader = []string{
	"Contact ID", "Status", "Prediction", "Confidence", "Risk", "Urgency",
	"Top Factor", "Next Best Action",
}

// Write renders the portfolio to path. Contacts without a recommendation
// still get a row so the export reconciles with the CRM count.
func Write(path string, scored []aggregator.ScoredContact, ins aggregator.Insight) error {
	log := logger.New().WithComponent("report").WithField("path", path)

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheetSummary)
	if _, err := f.NewSheet(sheetContacts); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}

	card := aggregator.Card(ins)
	summaryRows := [][]any{
		{"Insight", card.Insight},
		{"Action", card.Action},
		{"Impact", card.Impact},
		{},
		{"Total contacts", ins.TotalContacts},
		{"With recommendation", ins.WithRecommendation},
		{"Critical churn", ins.CriticalChurn},
	}
	predTypes := make([]string, 0, len(ins.ByPredictionType))
	for t := range ins.ByPredictionType {
		predTypes = append(predTypes, t)
	}
	sort.Strings(predTypes)
	for _, t := range predTypes {
		label := format.PredictionType(types.PredictionType(t)).Label
		summaryRows = append(summaryRows, []any{fmt.Sprintf("Predicted: %s", label), ins.ByPredictionType[t]})
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}

	header := make([]any, len(contactHeader))
	for i, h := range contactHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetContacts, "A1", &header); err != nil {
		return fmt.Errorf("contacts header: %w", err)
	}
	for i := range scored {
		sc := &scored[i]
		row := []any{sc.Contact.ContactID, string(sc.Contact.Status), "", "", "", "", "", ""}
		if p := sc.Primary(); p != nil {
			topFactor := ""
			if len(p.Explanation.Factors) > 0 {
				topFactor = p.Explanation.Factors[0].Name
			}
			nextAction := ""
			if len(p.RecommendedActions) > 0 {
				nextAction = p.RecommendedActions[0].Title
			}
			row = []any{
				sc.Contact.ContactID,
				string(sc.Contact.Status),
				format.PredictionType(p.Type).Label,
				fmt.Sprintf("%.2f", p.Confidence),
				format.RiskLevel(p.RiskLevel).Label,
				fmt.Sprintf("%.2f", p.UrgencyScore),
				topFactor,
				nextAction,
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetContacts, cell, &row); err != nil {
			return fmt.Errorf("contact row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		log.WithError(err).Error("save failed")
		return fmt.Errorf("save: %w", err)
	}
	log.WithField("contacts", len(scored)).Info("report written")
	return nil
}
