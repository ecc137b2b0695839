package excel

import (
	"fmt"
	"io"

	"playercorr/domain/stats"
	"playercorr/internal/fileutil"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the summary workbook
const (
	SheetCorrelations = "Correlations"
	SheetMatrix       = "Matrix"
	SheetRecords      = "Records"
)

// WorkbookExporter writes a run summary as an XLSX workbook
type WorkbookExporter struct{}

// NewWorkbookExporter creates an XLSX exporter
func NewWorkbookExporter() *WorkbookExporter {
	return &WorkbookExporter{}
}

// Export writes the Correlations, Matrix and Records sheets to path
func (e *WorkbookExporter) Export(path string, summary *stats.Summary) error {
	f, err := Build(summary)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := fileutil.WriteFile(path, func(w io.Writer) error {
		return f.Write(w)
	}); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// Build assembles the workbook in memory
func Build(summary *stats.Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	// Rename the default sheet rather than leaving an empty Sheet1 behind.
	if err := f.SetSheetName("Sheet1", SheetCorrelations); err != nil {
		return nil, err
	}
	if err := writeCorrelations(f, summary); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetMatrix); err != nil {
		return nil, err
	}
	if err := writeMatrix(f, summary.Matrix); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetRecords); err != nil {
		return nil, err
	}
	if err := writeRecords(f, summary); err != nil {
		return nil, err
	}
	if idx, err := f.GetSheetIndex(SheetCorrelations); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func writeCorrelations(f *excelize.File, summary *stats.Summary) error {
	if err := f.SetSheetRow(SheetCorrelations, "A1", &[]interface{}{
		"run_id", summary.RunID.String(),
		"dataset_sha256", summary.DatasetHash.String(),
		"generated_at", summary.GeneratedAt.String(),
	}); err != nil {
		return err
	}
	header := []interface{}{"pair", "x", "y", "n", "coefficient", "p_value", "slope", "intercept"}
	if err := f.SetSheetRow(SheetCorrelations, "A2", &header); err != nil {
		return err
	}
	for i, pr := range summary.Pairs {
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		row := []interface{}{
			pr.Pair.Title, string(pr.Pair.X), string(pr.Pair.Y), pr.Result.N,
			pr.Result.Coefficient, pr.Result.PValue, pr.Result.Slope, pr.Result.Intercept,
		}
		if err := f.SetSheetRow(SheetCorrelations, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeMatrix(f *excelize.File, m stats.Matrix) error {
	if m.Values == nil {
		return nil
	}
	for i, label := range m.Labels {
		colHeader, _ := excelize.CoordinatesToCellName(i+2, 1)
		rowHeader, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellValue(SheetMatrix, colHeader, label); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetMatrix, rowHeader, label); err != nil {
			return err
		}
		for j := range m.Labels {
			cell, _ := excelize.CoordinatesToCellName(j+2, i+2)
			if err := f.SetCellFloat(SheetMatrix, cell, m.At(i, j), -1, 64); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRecords(f *excelize.File, summary *stats.Summary) error {
	header := []interface{}{"kills", "level", "apm"}
	if err := f.SetSheetRow(SheetRecords, "A1", &header); err != nil {
		return err
	}
	for i, r := range summary.Filtered {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{r.Kills, r.Level, r.APM}
		if err := f.SetSheetRow(SheetRecords, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
