// Package swappoints models uploaded swap-point quotes, ingests them from
// Excel workbooks and turns them into forward curves.
package swappoints

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	apperrors "fxdesk/internal/errors"
)

// Sources of swap point records.
const (
	SourceExcelUpload = "EXCEL_UPLOAD"
	SourceManual      = "MANUAL"
)

// Record is one stored swap point quote. At least one of Tenor,
// SettlementDate and Days identifies where on the curve it sits.
type Record struct {
	ID             string          `json:"id"`
	CurrencyPairID string          `json:"currencyPairId"`
	Tenor          string          `json:"tenor,omitempty"`
	SettlementDate *civil.Date     `json:"settlementDate,omitempty"`
	Days           *int            `json:"days,omitempty"`
	SwapPoint      decimal.Decimal `json:"swapPoint"`
	Source         string          `json:"source"`
	UploadedBy     string          `json:"uploadedBy,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// HasLocator reports whether the record says where on the curve it belongs.
func (r Record) HasLocator() bool {
	return strings.TrimSpace(r.Tenor) != "" || r.SettlementDate != nil || r.Days != nil
}

// Validate checks a batch before it is stored.
func Validate(records []Record) error {
	if len(records) == 0 {
		return apperrors.NewAppValidationError("swap points list is empty")
	}
	for i, r := range records {
		if r.CurrencyPairID == "" {
			return apperrors.NewAppValidationError(fmt.Sprintf("swap point %d: currency pair ID is required", i+1))
		}
		if !r.HasLocator() {
			return apperrors.NewAppValidationError(
				fmt.Sprintf("swap point %d: at least one of tenor, settlementDate, or days must be provided", i+1))
		}
	}
	return nil
}
