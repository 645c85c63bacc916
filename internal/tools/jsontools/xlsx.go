package jsontools

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/roelfdiedericks/devkit/internal/tools/toolkit"
	"github.com/roelfdiedericks/devkit/internal/types"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// XLSXTool builds an Excel workbook from CSV or a JSON array
type XLSXTool struct {
	toolkit.Info
}

// NewXLSXTool creates the csv-xlsx tool
func NewXLSXTool() *XLSXTool {
	return &XLSXTool{Info: toolkit.NewInfo(
		"csv-xlsx", "CSV to Excel",
		"Convert CSV or a JSON array of objects into an .xlsx workbook for download.",
		types.CategoryJSON, "excel", "spreadsheet", "workbook", "xlsx",
	)}
}

func (t *XLSXTool) Schema() map[string]any {
	return toolkit.Object(map[string]any{
		"format":    toolkit.Enum("Input format. Default: csv", "csv", "json"),
		"text":      toolkit.String("CSV text (first row is the header) or a JSON array"),
		"delimiter": toolkit.String("CSV field delimiter. Default: ,"),
		"sheet":     toolkit.String("Worksheet name. Default: Sheet1"),
		"filename":  toolkit.String("Download name. Default: data.xlsx"),
	}, "text")
}

type xlsxInput struct {
	Format    string `json:"format"`
	Text      string `json:"text"`
	Delimiter string `json:"delimiter"`
	Sheet     string `json:"sheet"`
	Filename  string `json:"filename"`
}

func (t *XLSXTool) Execute(ctx context.Context, input json.RawMessage) (*types.ToolResult, error) {
	var params xlsxInput
	if err := types.DecodeInput(input, &params); err != nil {
		return nil, err
	}
	format, err := toolkit.Mode(params.Format, "csv", "csv", "json")
	if err != nil {
		return nil, err
	}

	var records [][]string
	if format == "json" {
		header, rows, err := JSONToTable(params.Text)
		if err != nil {
			return nil, err
		}
		records = append([][]string{header}, rows...)
	} else {
		delim, err := parseDelimiter(params.Delimiter)
		if err != nil {
			return nil, err
		}
		if records, err = readCSV(params.Text, delim); err != nil {
			return nil, err
		}
	}

	sheet := strings.TrimSpace(params.Sheet)
	if sheet == "" {
		sheet = "Sheet1"
	}
	data, err := BuildWorkbook(sheet, records)
	if err != nil {
		return nil, err
	}

	filename := strings.TrimSpace(params.Filename)
	if filename == "" {
		filename = "data.xlsx"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		filename += ".xlsx"
	}

	rows := len(records) - 1
	return types.TextResult(fmt.Sprintf("Workbook with %d data rows in sheet %q.", rows, sheet)).
		Add(types.FileBlock(data, xlsxMime, filename)).
		WithFields(map[string]any{"rows": rows, "sheet": sheet}), nil
}

// BuildWorkbook writes records into a single-sheet workbook. The first record
// is the header and is set in bold; numeric cells are stored as numbers.
func BuildWorkbook(sheet string, records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, types.WrapInput(err, "invalid sheet name")
		}
	}

	for r, rec := range records {
		for c, value := range rec {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", c+1, r+1, err)
			}
			var v any = value
			if r > 0 && jsonNumber.MatchString(value) {
				if n, err := strconv.ParseFloat(value, 64); err == nil {
					v = n
				}
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	if len(records) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
		if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
