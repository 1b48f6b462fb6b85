package handlers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mikeoc61/currency-monitor/internal/apperrors"
	portssvc "github.com/mikeoc61/currency-monitor/internal/core/ports/services"
	"github.com/mikeoc61/currency-monitor/internal/dto"
	"github.com/mikeoc61/currency-monitor/internal/middleware"
	"github.com/mikeoc61/currency-monitor/internal/platform/config"
	"github.com/mikeoc61/currency-monitor/internal/utils"
)

// ratesHandler handles HTTP requests for rate boards and currency
// definitions.
type ratesHandler struct {
	ratesService portssvc.RatesSvcFacade
	cfg          *config.Config
}

func newRatesHandler(ratesService portssvc.RatesSvcFacade, cfg *config.Config) *ratesHandler {
	return &ratesHandler{ratesService: ratesService, cfg: cfg}
}

// resolveQuery binds the optional query parameters, falling back to the
// configured basket and spread.
func (h *ratesHandler) resolveQuery(c *gin.Context) (basket []string, spread decimal.Decimal, ok bool) {
	var query dto.RatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return nil, decimal.Decimal{}, false
	}

	basket = h.cfg.Basket
	if query.Currencies != "" {
		basket = nil
		for _, code := range strings.Split(query.Currencies, ",") {
			if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
				basket = append(basket, code)
			}
		}
	}

	spreadPct := h.cfg.SpreadPct
	if query.Spread != 0 {
		spreadPct = query.Spread
	}
	return basket, decimal.NewFromFloat(spreadPct), true
}

// getRates godoc
// @Summary Get the current rate board
// @Description Fetches live quotes for the basket, applies the spread and classifies movement against the stored prior rates
// @Tags rates
// @Produce json
// @Param currencies query string false "Comma separated currency codes"
// @Param spread query number false "Spread in percentage points" minimum(0.1) maximum(2)
// @Success 200 {object} dto.RatesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Failure 502 {object} map[string]string "Quote source unavailable"
// @Router /rates [get]
func (h *ratesHandler) getRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	basket, spread, ok := h.resolveQuery(c)
	if !ok {
		return
	}

	board, err := h.ratesService.GetRateBoard(c.Request.Context(), basket, spread)
	if err != nil {
		h.renderBoardError(c, logger, err, false)
		return
	}

	spreadFloat, _ := spread.Float64()
	c.JSON(http.StatusOK, dto.ToRatesResponse(board, spreadFloat))
}

// getRatesHTML renders the same board as a minimal HTML page.
func (h *ratesHandler) getRatesHTML(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	basket, spread, ok := h.resolveQuery(c)
	if !ok {
		return
	}

	board, err := h.ratesService.GetRateBoard(c.Request.Context(), basket, spread)
	if err != nil {
		h.renderBoardError(c, logger, err, true)
		return
	}

	spreadFloat, _ := spread.Float64()
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := ratesPageTmpl.Execute(c.Writer, dto.ToRatesResponse(board, spreadFloat)); err != nil {
		logger.Error("Failed to render rates page", slog.String("error", err.Error()))
	}
}

// renderBoardError maps service failures onto a human-readable response
// instead of propagating a raw fault to the transport layer.
func (h *ratesHandler) renderBoardError(c *gin.Context, logger *slog.Logger, err error, asHTML bool) {
	status := http.StatusInternalServerError
	message := "Failed to build the rate board"

	switch {
	case errors.Is(err, apperrors.ErrSourceUnavailable):
		logger.Warn("Quote source unavailable", slog.String("error", err.Error()))
		status = http.StatusBadGateway
		message = "The exchange rate service is currently unavailable. Please try again later."
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error building rate board", slog.String("error", err.Error()))
		status = http.StatusBadRequest
		message = err.Error()
	default:
		logger.Error("Failed to build rate board", slog.String("error", err.Error()))
	}

	if asHTML {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(status, "<h2>%s</h2>", template.HTMLEscapeString(message))
		return
	}
	c.JSON(status, gin.H{"error": message})
}

// listCurrencies godoc
// @Summary List currency definitions
// @Description Resolves each basket code to its human readable name
// @Tags currencies
// @Produce json
// @Param currencies query string false "Comma separated currency codes"
// @Success 200 {array} dto.CurrencyResponse
// @Router /currencies [get]
func (h *ratesHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	basket, _, ok := h.resolveQuery(c)
	if !ok {
		return
	}

	names, err := h.ratesService.ListCurrencies(c.Request.Context(), basket)
	if err != nil {
		logger.Error("Failed to list currencies", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponses(names))
}

// ratesPageTmpl is the browser rendering of a rate board. Styling is
// deliberately minimal; the numeric fields are the contract.
var ratesPageTmpl = template.Must(template.New("rates").Funcs(template.FuncMap{
	"stamp": utils.UnixStamp,
}).Parse(`<!DOCTYPE html>
<html>
<head><title>Currency Exchange Rates</title><meta charset="utf-8"></head>
<body>
<h1>Currency Exchange Rates</h1>
<h2>As of {{.AsOfStamp}} (spread {{printf "%.2f" .SpreadPct}}%)</h2>
{{range .Records}}{{if .USDFirst}}<pre>{{.Code}}/USD: {{.USDPerForeign}} ({{.USDBuy}})  USD/{{.Code}}: {{.ForeignPerUSD}} ({{.ForeignSell}})  <span title="USD % change since {{.ChangeSince}}" class="{{.Direction}}">{{.ChangeAbs}}%</span></pre>
{{else}}<pre>USD/{{.Code}}: {{.ForeignPerUSD}} ({{.ForeignSell}})  {{.Code}}/USD: {{.USDPerForeign}} ({{.USDBuy}})  <span title="USD % change since {{.ChangeSince}}" class="{{.Direction}}">{{.ChangeAbs}}%</span></pre>
{{end}}{{end}}
{{if .Skipped}}<p>Skipped: {{range .Skipped}}{{.}} {{end}}</p>{{end}}
</body>
</html>
`))
