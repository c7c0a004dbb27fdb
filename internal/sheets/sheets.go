// Package sheets implements the applicant ledger on a Google Sheets tab.
package sheets

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/hiringtools/cv-intake/internal/intake"
)

// Scope grants spreadsheet read/write access.
const Scope = sheetsapi.SpreadsheetsScope

// Ledger reads and appends applicant rows on one spreadsheet tab. Rows are
// append-only; nothing here ever rewrites existing data below the header.
type Ledger struct {
	svc     *sheetsapi.Service
	sheetID string
	tab     string
	logger  *zap.Logger
}

func New(ctx context.Context, client *http.Client, sheetID, tab string, logger *zap.Logger) (*Ledger, error) {
	if sheetID == "" {
		return nil, fmt.Errorf("sheet id is required")
	}
	if tab == "" {
		tab = "Applicants"
	}

	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &Ledger{svc: svc, sheetID: sheetID, tab: tab, logger: logger}, nil
}

// EnsureHeader writes the column header when the first row is missing or
// shorter than expected.
func (l *Ledger) EnsureHeader(ctx context.Context) error {
	resp, err := l.svc.Spreadsheets.Values.
		Get(l.sheetID, fmt.Sprintf("%s!A1:Z1", l.tab)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("reading header row: %w", err)
	}

	if len(resp.Values) > 0 && len(resp.Values[0]) >= len(Header) {
		return nil
	}

	row := make([]interface{}, len(Header))
	for i, h := range Header {
		row[i] = h
	}

	_, err = l.svc.Spreadsheets.Values.
		Update(l.sheetID, fmt.Sprintf("%s!A1", l.tab), &sheetsapi.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("writing header row: %w", err)
	}

	l.logger.Info("wrote ledger header", zap.String("tab", l.tab))
	return nil
}

// ReadAll returns every data row below the header.
func (l *Ledger) ReadAll(ctx context.Context) ([]intake.Record, error) {
	resp, err := l.svc.Spreadsheets.Values.
		Get(l.sheetID, fmt.Sprintf("%s!A2:M", l.tab)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("reading ledger rows: %w", err)
	}

	records := make([]intake.Record, 0, len(resp.Values))
	for _, row := range resp.Values {
		records = append(records, recordFromRow(row))
	}

	l.logger.Debug("read ledger", zap.Int("rows", len(records)))
	return records, nil
}

// AppendBatch appends all rows in one values.append call.
func (l *Ledger) AppendBatch(ctx context.Context, rows []intake.Record) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([][]interface{}, 0, len(rows))
	for i := range rows {
		values = append(values, rowFromRecord(&rows[i]))
	}

	_, err := l.svc.Spreadsheets.Values.
		Append(l.sheetID, fmt.Sprintf("%s!A1", l.tab), &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("appending %d rows: %w", len(rows), err)
	}

	l.logger.Info("appended ledger rows", zap.Int("count", len(rows)))
	return nil
}
