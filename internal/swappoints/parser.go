package swappoints

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	apperrors "fxdesk/internal/errors"
)

// Field is a canonical swap point column.
type Field string

const (
	FieldTenor          Field = "tenor"
	FieldSettlementDate Field = "settlement_date"
	FieldDays           Field = "days"
	FieldSwapPoint      Field = "swap_point"
)

// columnAliases maps each accepted header spelling to its field.
var columnAliases = map[string]Field{
	"tenor": FieldTenor,
	"Tenor": FieldTenor,
	"TENOR": FieldTenor,

	"settlement_date": FieldSettlementDate,
	"settlementDate":  FieldSettlementDate,
	"SettlementDate":  FieldSettlementDate,
	"SETTLEMENT_DATE": FieldSettlementDate,

	"days": FieldDays,
	"Days": FieldDays,
	"DAYS": FieldDays,

	"swap_point": FieldSwapPoint,
	"swapPoint":  FieldSwapPoint,
	"SwapPoint":  FieldSwapPoint,
	"SWAP_POINT": FieldSwapPoint,
}

// ResolveColumn returns the field a header names.
func ResolveColumn(header string) (Field, bool) {
	f, ok := columnAliases[strings.TrimSpace(header)]
	return f, ok
}

// excelEpoch is day zero of Excel's 1900 date system, shifted to absorb the
// fictitious 1900-02-29.
var excelEpoch = civil.Date{Year: 1899, Month: time.December, Day: 30}

// Parser reads swap point workbooks.
type Parser struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewParser creates a Parser.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger: logger.With(slog.String("component", "swap_point_parser")),
		now:    time.Now,
	}
}

// Parse reads the first sheet of an xlsx workbook. The first row is the
// header; every following non-blank row becomes a Record. Any bad row
// rejects the whole workbook.
func (p *Parser) Parse(r io.Reader, currencyPairID, uploadedBy string) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, parseFailure("could not open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, parseFailure("Excel file is empty", nil)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, parseFailure("could not read sheet "+sheets[0], err)
	}

	records, err := p.parseRows(rows, currencyPairID, uploadedBy)
	if err != nil {
		return nil, err
	}

	p.logger.Info("swap point workbook parsed",
		slog.String("sheet", sheets[0]),
		slog.String("currency_pair_id", currencyPairID),
		slog.Int("records", len(records)))

	return records, nil
}

func (p *Parser) parseRows(rows [][]string, currencyPairID, uploadedBy string) ([]Record, error) {
	if len(rows) < 2 {
		return nil, parseFailure("Excel file is empty", nil)
	}

	columns := make(map[Field]int)
	for i, header := range rows[0] {
		if f, ok := ResolveColumn(header); ok {
			if _, seen := columns[f]; !seen {
				columns[f] = i
			}
		}
	}

	now := p.now().UTC()
	records := make([]Record, 0, len(rows)-1)

	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rowNumber := i + 2

		rec, err := parseRow(row, columns, rowNumber)
		if err != nil {
			return nil, err
		}
		rec.CurrencyPairID = currencyPairID
		rec.UploadedBy = uploadedBy
		rec.Source = SourceExcelUpload
		rec.CreatedAt = now
		rec.UpdatedAt = now
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, parseFailure("Excel file is empty", nil)
	}

	return records, nil
}

func parseRow(row []string, columns map[Field]int, rowNumber int) (Record, error) {
	cell := func(f Field) string {
		i, ok := columns[f]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec Record

	raw := cell(FieldSwapPoint)
	if raw == "" {
		return rec, rowFailure(rowNumber, "Missing required swap_point value")
	}
	sp, err := decimal.NewFromString(raw)
	if err != nil {
		return rec, rowFailure(rowNumber, fmt.Sprintf("Invalid swap_point value %q - must be a valid number", raw))
	}
	rec.SwapPoint = sp

	if tenor := cell(FieldTenor); tenor != "" {
		rec.Tenor = strings.ToUpper(tenor)
	}

	if rawDate := cell(FieldSettlementDate); rawDate != "" {
		d, err := ParseSettlementDate(rawDate)
		if err != nil {
			return rec, rowFailure(rowNumber, fmt.Sprintf("Invalid settlement_date value %q - %v", rawDate, err))
		}
		rec.SettlementDate = &d
	}

	if rawDays := cell(FieldDays); rawDays != "" {
		days, err := parseDays(rawDays)
		if err != nil {
			return rec, rowFailure(rowNumber, fmt.Sprintf("Invalid days value %q - must be a valid integer", rawDays))
		}
		rec.Days = &days
	}

	return rec, nil
}

// ParseSettlementDate accepts YYYY-MM-DD, an Excel serial day number or an
// RFC 3339 timestamp.
func ParseSettlementDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)

	if d, err := civil.ParseDate(s); err == nil {
		return d, nil
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 {
			return civil.Date{}, fmt.Errorf("serial date out of range")
		}
		return excelEpoch.AddDays(int(math.Floor(serial))), nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return civil.DateOf(t), nil
	}

	return civil.Date{}, fmt.Errorf("must be YYYY-MM-DD, an Excel date or RFC 3339")
}

func parseDays(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("not an integer")
	}
	return int(d.IntPart()), nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func rowFailure(rowNumber int, msg string) error {
	return parseFailure(fmt.Sprintf("Row %d: %s", rowNumber, msg), nil)
}

func parseFailure(msg string, cause error) error {
	return apperrors.NewParsingError("Failed to parse Excel file: "+msg, cause)
}
