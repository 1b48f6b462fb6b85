package dto

import (
	"github.com/mikeoc61/currency-monitor/internal/core/domain"
	portssvc "github.com/mikeoc61/currency-monitor/internal/core/ports/services"
	"github.com/mikeoc61/currency-monitor/internal/utils"
)

// RatesQuery carries the optional query parameters of a rates request.
// Spread bounds mirror the provider form limits.
type RatesQuery struct {
	// Currencies is a comma separated basket override, e.g. "EUR,GBP".
	Currencies string `form:"currencies" binding:"omitempty,codelist"`
	// Spread is the spread in percentage points.
	Spread float64 `form:"spread" binding:"omitempty,min=0.1,max=2"`
}

// DisplayRecordResponse is one rendered display line. Rates are
// formatted to 4 decimal places, change to 2, matching the console
// rendering conventions.
type DisplayRecordResponse struct {
	Code          string `json:"code"`
	USDPerForeign string `json:"usdPerForeign"`
	ForeignPerUSD string `json:"foreignPerUSD"`
	USDBuy        string `json:"usdBuy"`
	ForeignSell   string `json:"foreignSell"`
	ChangePct     string `json:"changePct"`
	ChangeAbs     string `json:"changeAbs"`
	Direction     string `json:"direction"`
	USDFirst      bool   `json:"usdFirst"`
	ChangeSince   string `json:"changeSince,omitempty"`
}

// RatesResponse is the payload of a rates request.
type RatesResponse struct {
	AsOf      int64                   `json:"asOf"`
	AsOfStamp string                  `json:"asOfStamp"`
	SpreadPct float64                 `json:"spreadPct"`
	Records   []DisplayRecordResponse `json:"records"`
	Skipped   []string                `json:"skipped,omitempty"`
}

// ToDisplayRecordResponse converts a domain.DisplayRecord to its DTO.
func ToDisplayRecordResponse(record domain.DisplayRecord) DisplayRecordResponse {
	resp := DisplayRecordResponse{
		Code:          record.Code,
		USDPerForeign: utils.FormatRate(record.USDPerForeign, 4),
		ForeignPerUSD: utils.FormatRate(record.ForeignPerUSD, 4),
		USDBuy:        utils.FormatRate(record.USDBuy, 4),
		ForeignSell:   utils.FormatRate(record.ForeignSell, 4),
		ChangePct:     record.ChangePct.StringFixed(2),
		ChangeAbs:     record.ChangeAbs.StringFixed(2),
		Direction:     string(record.Direction),
		USDFirst:      record.USDFirst,
	}
	if record.PreviousSavedAt > 0 {
		resp.ChangeSince = utils.UnixStamp(record.PreviousSavedAt)
	}
	return resp
}

// ToRatesResponse converts a rate board to the response payload.
func ToRatesResponse(board *portssvc.RateBoard, spreadPct float64) RatesResponse {
	records := make([]DisplayRecordResponse, len(board.Records))
	for i, record := range board.Records {
		records[i] = ToDisplayRecordResponse(record)
	}
	return RatesResponse{
		AsOf:      board.AsOf,
		AsOfStamp: utils.UnixStamp(board.AsOf),
		SpreadPct: spreadPct,
		Records:   records,
		Skipped:   board.Skipped,
	}
}

// CurrencyResponse is one code -> definition entry.
type CurrencyResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ToCurrencyResponses converts currency names to DTOs, spelling out
// unknown codes the way the console variants do.
func ToCurrencyResponses(names []domain.CurrencyName) []CurrencyResponse {
	responses := make([]CurrencyResponse, len(names))
	for i, name := range names {
		label := name.Name
		if label == "" {
			label = "Unknown"
		}
		responses[i] = CurrencyResponse{Code: name.Code, Name: label}
	}
	return responses
}
