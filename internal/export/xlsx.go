// Package export produces an XLSX summary of a batch run.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/resume-parser/internal/pipeline"
)

const sheet = "Resumes"

// WriteSummary writes one workbook with a row per processed document.
func WriteSummary(path string, sum *pipeline.Summary) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{
		"Document",
		"Format",
		"Status",
		"Finish Reason",
		"Output File",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range sum.Results {
		values := []any{r.Name, r.Format, r.Status, r.FinishReason, r.OutputPath, r.Error}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
