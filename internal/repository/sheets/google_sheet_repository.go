package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/farmsim/internal/config"
	"github.com/mamadbah2/farmsim/internal/domain/models"
)

// LedgerRange is the sheet range daily reports are appended to.
const LedgerRange = "Ledger!A:L"

// Repository appends rows to a spreadsheet.
type Repository interface {
	WriteRow(ctx context.Context, sheetRange string, values []interface{}) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// WriteRow appends the provided values to the supplied sheet range.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// LedgerRow flattens a daily report into the ledger column order.
func LedgerRow(r models.DailyReport) []interface{} {
	return []interface{}{
		r.CreatedAt.Format("2006-01-02 15:04:05"),
		r.FarmName,
		r.Day,
		string(r.Season),
		string(r.Weather),
		r.Money,
		r.NetWorth,
		r.LivingAnimals,
		r.DeadAnimals,
		r.Income,
		r.Expenses,
		r.Profit,
	}
}

// Ledger appends daily reports to the spreadsheet ledger.
type Ledger struct {
	repo Repository
}

// NewLedger wraps a sheets repository.
func NewLedger(repo Repository) *Ledger {
	return &Ledger{repo: repo}
}

// SaveDailyReport appends one ledger row.
func (l *Ledger) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	return l.repo.WriteRow(ctx, LedgerRange, LedgerRow(report))
}
