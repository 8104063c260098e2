package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quotes-scraper/logger"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer writes tables to tabs of a Google Sheets spreadsheet.
// It implements export.RowWriter; the target names the tab.
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	log           logger.Logger
}

// NewWriter creates a new Google Sheets writer
func NewWriter(ctx context.Context, spreadsheetID, credentialsPath string, log logger.Logger) (*Writer, error) {
	credsJSON, err := readCredentials(credentialsPath, log)
	if err != nil {
		return nil, err
	}

	return newWriter(ctx, spreadsheetID, log, option.WithCredentialsJSON(credsJSON))
}

func newWriter(ctx context.Context, spreadsheetID string, log logger.Logger, opts ...option.ClientOption) (*Writer, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is empty")
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// readCredentials reads service account credentials from a file or the
// GOOGLE_SHEETS_CREDENTIALS environment variable
func readCredentials(credentialsPath string, log logger.Logger) ([]byte, error) {
	var credsJSON []byte

	if credentialsPath != "" {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credsJSON = data
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		log.Debug("Reading credentials from GOOGLE_SHEETS_CREDENTIALS", logger.Int("bytes", len(credsEnv)))
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	return credsJSON, nil
}

// WriteRows implements export.RowWriter.
// The tab is created when missing and cleared otherwise, then header and rows
// are written from A1.
func (w *Writer) WriteRows(ctx context.Context, target string, header []string, rows [][]string) error {
	sheetName := SheetName(target)

	if err := w.ensureSheet(ctx, sheetName); err != nil {
		return err
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toRow(header))
	for _, row := range rows {
		values = append(values, toRow(row))
	}

	range_ := fmt.Sprintf("'%s'!A1", sheetName)
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := w.service.Spreadsheets.Values.Update(w.spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write to sheet %q: %w", sheetName, err)
	}

	w.log.Info("Wrote rows to Google Sheets",
		logger.String("sheet", sheetName),
		logger.Int("rows", len(rows)),
	)
	return nil
}

// ensureSheet creates the tab if the spreadsheet lacks it, or clears it
func (w *Writer) ensureSheet(ctx context.Context, sheetName string) error {
	spreadsheet, err := w.service.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	for _, s := range spreadsheet.Sheets {
		if s.Properties != nil && s.Properties.Title == sheetName {
			_, err := w.service.Spreadsheets.Values.Clear(w.spreadsheetID, fmt.Sprintf("'%s'", sheetName), &sheets.ClearValuesRequest{}).
				Context(ctx).
				Do()
			if err != nil {
				return fmt.Errorf("failed to clear sheet %q: %w", sheetName, err)
			}
			return nil
		}
	}

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: sheetName},
				},
			},
		},
	}
	if _, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheetName, err)
	}

	w.log.Debug("Created sheet", logger.String("sheet", sheetName))
	return nil
}

func toRow(fields []string) []interface{} {
	row := make([]interface{}, len(fields))
	for i, f := range fields {
		row[i] = f
	}
	return row
}

// SheetName derives a tab name from an output target such as "out/quotes.csv"
func SheetName(target string) string {
	base := filepath.Base(target)
	return sanitizeSheetName(strings.TrimSuffix(base, filepath.Ext(base)))
}

// sanitizeSheetName removes invalid characters from sheet name
func sanitizeSheetName(name string) string {
	// Google Sheets sheet names cannot contain: / \ ? * [ ] or a quote
	invalidChars := []string{"/", "\\", "?", "*", "[", "]", "'"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" || result == "." {
		result = "Sheet1"
	}
	if runes := []rune(result); len(runes) > 100 {
		result = string(runes[:100])
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) string {
	// Handle various URL formats:
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
