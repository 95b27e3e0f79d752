package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	foodNameColumn    = "FoodName"
	servingSizeColumn = "ServingSize"
	profileNameColumn = "ProfileName"
)

// What a parse run did besides producing records: rows it had to skip and
// why. Skips are soft; a malformed trailing row never aborts an upload.
type IngestReport struct {
	Parsed   int      `json:"parsed"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

// IngestService turns uploaded tabular files (xlsx or csv) into catalog
// record batches. It holds no state; parsing is a pure function of the file.
type IngestService struct{}

func NewIngestService() *IngestService {
	return &IngestService{}
}

// ParseFoods reads a foods sheet. The sheet must have a FoodName column and
// at least one nutrient column; ServingSize is read when present. Any other
// column is treated as a nutrient.
func (s *IngestService) ParseFoods(r io.Reader, filename string) ([]FoodRecord, *IngestReport, error) {
	rows, err := readRows(r, filename)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, &SchemaError{MissingColumns: []string{foodNameColumn}}
	}

	header := rows[0]
	nameIdx, servingIdx := -1, -1
	nutrientCols := map[int]string{}
	for i, col := range header {
		col = strings.TrimSpace(col)
		switch col {
		case foodNameColumn:
			nameIdx = i
		case servingSizeColumn:
			servingIdx = i
		case "":
			// unnamed column, ignore
		default:
			nutrientCols[i] = col
		}
	}

	var missing []string
	if nameIdx < 0 {
		missing = append(missing, foodNameColumn)
	}
	if len(nutrientCols) == 0 {
		missing = append(missing, "at least one nutrient column")
	}
	if len(missing) > 0 {
		return nil, nil, &SchemaError{MissingColumns: missing}
	}

	report := &IngestReport{}
	var records []FoodRecord
	for rowNum, row := range rows[1:] {
		name := cellAt(row, nameIdx)
		if name == "" {
			report.Skipped++
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d: empty %s, skipped", rowNum+2, foodNameColumn))
			continue
		}
		rec := FoodRecord{
			Name:        name,
			ServingSize: cellAt(row, servingIdx),
			Nutrients:   map[string]float64{},
		}
		for idx, nutrient := range nutrientCols {
			if v, ok := parseAmount(cellAt(row, idx)); ok {
				rec.Nutrients[nutrient] = v
			}
			// empty / non-numeric / negative cells stay absent: downstream
			// must be able to tell "no data" from "zero"
		}
		records = append(records, rec)
		report.Parsed++
	}
	return records, report, nil
}

// ParseProfiles reads an RDA sheet: a ProfileName column plus one column per
// nutrient target.
func (s *IngestService) ParseProfiles(r io.Reader, filename string) ([]ProfileRecord, *IngestReport, error) {
	rows, err := readRows(r, filename)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, &SchemaError{MissingColumns: []string{profileNameColumn}}
	}

	header := rows[0]
	nameIdx := -1
	nutrientCols := map[int]string{}
	for i, col := range header {
		col = strings.TrimSpace(col)
		switch col {
		case profileNameColumn:
			nameIdx = i
		case "":
		default:
			nutrientCols[i] = col
		}
	}

	var missing []string
	if nameIdx < 0 {
		missing = append(missing, profileNameColumn)
	}
	if len(nutrientCols) == 0 {
		missing = append(missing, "at least one nutrient column")
	}
	if len(missing) > 0 {
		return nil, nil, &SchemaError{MissingColumns: missing}
	}

	report := &IngestReport{}
	var records []ProfileRecord
	for rowNum, row := range rows[1:] {
		name := cellAt(row, nameIdx)
		if name == "" {
			report.Skipped++
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("row %d: empty %s, skipped", rowNum+2, profileNameColumn))
			continue
		}
		rec := ProfileRecord{Name: name, Targets: map[string]float64{}}
		for idx, nutrient := range nutrientCols {
			if v, ok := parseAmount(cellAt(row, idx)); ok {
				rec.Targets[nutrient] = v
			}
		}
		records = append(records, rec)
		report.Parsed++
	}
	return records, report, nil
}

// readRows loads the first sheet of an xlsx workbook, or a csv file, into a
// row matrix. Rows may be ragged; cellAt guards the lookups.
func readRows(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("cannot open workbook: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		return f.GetRows(sheets[0])
	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1 // tolerate ragged rows
		return cr.ReadAll()
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .xlsx or .csv", filepath.Ext(filename))
	}
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseAmount coerces a cell to a non-negative amount. Empty, non-numeric
// and negative cells all read as unknown.
func parseAmount(cell string) (float64, bool) {
	if cell == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
