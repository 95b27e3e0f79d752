package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestParseFoodsFromWorkbook(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"FoodName", "ServingSize", "Calories (kcal)", "Protein (g)", "Fiber (g)"},
		{"Rice", "1 cup", 200, 4, nil},
		{"Dal", "1 bowl", 150, 9, 3},
	})

	records, report, err := NewIngestService().ParseFoods(buf, "foods.xlsx")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if report.Parsed != 2 || report.Skipped != 0 {
		t.Fatalf("report = %+v", report)
	}

	rice := records[0]
	if rice.Name != "Rice" || rice.ServingSize != "1 cup" {
		t.Errorf("rice row = %+v", rice)
	}
	if _, ok := rice.Nutrients["Fiber (g)"]; ok {
		t.Error("empty fiber cell must stay absent, not zero")
	}
	if rice.Nutrients["Calories (kcal)"] != 200 {
		t.Errorf("rice calories = %v", rice.Nutrients["Calories (kcal)"])
	}
	if records[1].Nutrients["Fiber (g)"] != 3 {
		t.Errorf("dal fiber = %v", records[1].Nutrients["Fiber (g)"])
	}
}

func TestParseFoodsMissingColumns(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"ServingSize"},
		{"1 cup"},
	})

	_, _, err := NewIngestService().ParseFoods(buf, "foods.xlsx")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if len(schemaErr.MissingColumns) != 2 {
		t.Errorf("missing columns = %v", schemaErr.MissingColumns)
	}
}

func TestParseFoodsSkipsBlankIdentityRows(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"FoodName", "Calories (kcal)"},
		{"Rice", 200},
		{"", 90}, // malformed trailing row must not abort the upload
		{"Dal", 150},
	})

	records, report, err := NewIngestService().ParseFoods(buf, "foods.xlsx")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if report.Parsed != 2 || report.Skipped != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(report.Warnings) != 1 {
		t.Errorf("warnings = %v", report.Warnings)
	}
	if records[1].Name != "Dal" {
		t.Errorf("rows after the skipped one must still parse, got %+v", records)
	}
}

func TestParseFoodsCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"FoodName,ServingSize,Calories (kcal),Protein (g)",
		"Rice,1 cup,200,4",
		"Dal,1 bowl,150,",   // trailing empty cell -> unknown protein
		"Idli,2 pieces,120", // short row: parser must cope
	}, "\n")

	records, report, err := NewIngestService().ParseFoods(strings.NewReader(csvData), "foods.csv")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if report.Parsed != 3 {
		t.Fatalf("report = %+v", report)
	}
	if _, ok := records[1].Nutrients["Protein (g)"]; ok {
		t.Error("empty csv cell must stay absent")
	}
	if _, ok := records[2].Nutrients["Protein (g)"]; ok {
		t.Error("short row cell must stay absent")
	}
}

func TestParseFoodsRejectsNonNumericAndNegative(t *testing.T) {
	csvData := strings.Join([]string{
		"FoodName,Calories (kcal),Protein (g)",
		"Rice,abc,-4",
	}, "\n")

	records, _, err := NewIngestService().ParseFoods(strings.NewReader(csvData), "foods.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(records[0].Nutrients) != 0 {
		t.Errorf("non-numeric and negative cells must read as unknown, got %v", records[0].Nutrients)
	}
}

func TestParseProfiles(t *testing.T) {
	buf := buildWorkbook(t, [][]any{
		{"ProfileName", "Calories (kcal)", "Protein (g)"},
		{"Adult-Male", 2000, 50},
		{"Adult-Female", 1800, 46},
	})

	records, report, err := NewIngestService().ParseProfiles(buf, "rda.xlsx")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if report.Parsed != 2 {
		t.Fatalf("report = %+v", report)
	}
	if records[0].Targets["Calories (kcal)"] != 2000 {
		t.Errorf("targets = %v", records[0].Targets)
	}
}

func TestParseProfilesMissingNameColumn(t *testing.T) {
	csvData := "Calories (kcal)\n2000\n"

	_, _, err := NewIngestService().ParseProfiles(strings.NewReader(csvData), "rda.csv")
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestUnsupportedFileType(t *testing.T) {
	_, _, err := NewIngestService().ParseFoods(strings.NewReader("x"), "foods.pdf")
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}
