package submit

import (
	"github.com/dlebedev/checkride/internal/models"
	"github.com/dlebedev/checkride/internal/record"
)

// ChecklistSections are the record fields scanned for pass/fail flags.
var ChecklistSections = []string{
	"exteriorChecklist",
	"interiorChecklist",
	"undercarriageChecklist",
}

// SummarizeBattery derives min/max/mean voltage over the batteryCells array.
// Cells without a numeric voltage reading are skipped.
func SummarizeBattery(rec record.Record) models.BatterySummary {
	var sum models.BatterySummary

	cells, ok := rec["batteryCells"].([]any)
	if !ok {
		return sum
	}

	var total float64
	for _, c := range cells {
		cell, ok := c.(map[string]any)
		if !ok {
			continue
		}
		v, ok := cell["voltage"].(float64)
		if !ok {
			continue
		}
		if sum.CellCount == 0 || v < sum.MinVoltage {
			sum.MinVoltage = v
		}
		if sum.CellCount == 0 || v > sum.MaxVoltage {
			sum.MaxVoltage = v
		}
		total += v
		sum.CellCount++
	}
	if sum.CellCount > 0 {
		sum.MeanVoltage = total / float64(sum.CellCount)
	}
	return sum
}

// SummarizeChecklists counts boolean flags across the checklist sections:
// true is a pass, false a fail, nil (never answered) skipped.
func SummarizeChecklists(rec record.Record) models.ChecklistSummary {
	var sum models.ChecklistSummary
	for _, section := range ChecklistSections {
		countFlags(rec[section], &sum)
	}
	return sum
}

func countFlags(node any, sum *models.ChecklistSummary) {
	switch value := node.(type) {
	case bool:
		if value {
			sum.Passed++
		} else {
			sum.Failed++
		}
	case nil:
		// only counted when it appears as an item's explicit "passed" slot;
		// bare nils elsewhere in the tree carry no checklist meaning
	case map[string]any:
		for k, v := range value {
			if v == nil && (k == "passed" || k == "ok") {
				sum.Skipped++
				continue
			}
			countFlags(v, sum)
		}
	case []any:
		for _, v := range value {
			countFlags(v, sum)
		}
	}
}
