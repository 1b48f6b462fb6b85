package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mikeoc61/currency-monitor/internal/apperrors"
	"github.com/mikeoc61/currency-monitor/internal/core/domain"
	portssvc "github.com/mikeoc61/currency-monitor/internal/core/ports/services"
	"github.com/mikeoc61/currency-monitor/internal/dto"
	"github.com/mikeoc61/currency-monitor/internal/handlers"
	"github.com/mikeoc61/currency-monitor/internal/platform/config"
)

// --- Mock RatesService ---
type MockRatesService struct {
	mock.Mock
}

func (m *MockRatesService) GetRateBoard(ctx context.Context, basket []string, spreadPct decimal.Decimal) (*portssvc.RateBoard, error) {
	args := m.Called(ctx, basket, spreadPct)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.RateBoard), args.Error(1)
}

func (m *MockRatesService) ListCurrencies(ctx context.Context, basket []string) ([]domain.CurrencyName, error) {
	args := m.Called(ctx, basket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CurrencyName), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.RatesSvcFacade = (*MockRatesService)(nil)

// --- Test Suite ---
type RatesHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockRatesService *MockRatesService
	cfg              *config.Config
}

func (suite *RatesHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockRatesService = new(MockRatesService)
	suite.cfg = &config.Config{
		Basket:        []string{"EUR", "GBP"},
		SpreadPct:     1.0,
		RateLimitSpec: "1000-S",
	}

	err := handlers.RegisterRoutes(suite.router, suite.cfg, suite.mockRatesService)
	suite.Require().NoError(err)
}

func (suite *RatesHandlerTestSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func sampleBoard() *portssvc.RateBoard {
	return &portssvc.RateBoard{
		AsOf: 1756400000,
		Records: []domain.DisplayRecord{
			{
				Code:            "EUR",
				USDPerForeign:   decimal.RequireFromString("1.11886"),
				ForeignPerUSD:   decimal.RequireFromString("0.893764"),
				USDBuy:          decimal.RequireFromString("1.13005"),
				ForeignSell:     decimal.RequireFromString("0.884915"),
				ChangePct:       decimal.RequireFromString("0.69"),
				ChangeAbs:       decimal.RequireFromString("0.69"),
				Direction:       domain.DirectionWeakened,
				USDFirst:        true,
				PreviousSavedAt: 1756300000,
			},
		},
	}
}

func (suite *RatesHandlerTestSuite) TestGetRates_Defaults() {
	suite.mockRatesService.On("GetRateBoard", mock.Anything, []string{"EUR", "GBP"},
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.NewFromInt(1)) })).
		Return(sampleBoard(), nil).Once()

	w := suite.get("/api/v1/rates")
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp dto.RatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(1756400000), resp.AsOf)
	suite.Require().Len(resp.Records, 1)
	suite.Equal("EUR", resp.Records[0].Code)
	suite.Equal("1.1189", resp.Records[0].USDPerForeign)
	suite.Equal("weakened", resp.Records[0].Direction)
	suite.NotEmpty(resp.Records[0].ChangeSince)

	suite.mockRatesService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRates_QueryOverrides() {
	suite.mockRatesService.On("GetRateBoard", mock.Anything, []string{"JPY", "CHF"},
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("0.5")) })).
		Return(sampleBoard(), nil).Once()

	w := suite.get("/api/v1/rates?currencies=jpy,%20chf&spread=0.5")
	suite.Equal(http.StatusOK, w.Code)
	suite.mockRatesService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRates_MalformedCurrencyList() {
	w := suite.get("/api/v1/rates?currencies=EURO,GBP")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRatesService.AssertNotCalled(suite.T(), "GetRateBoard", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RatesHandlerTestSuite) TestGetRates_SpreadOutOfBounds() {
	w := suite.get("/api/v1/rates?spread=5")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRatesService.AssertNotCalled(suite.T(), "GetRateBoard", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RatesHandlerTestSuite) TestGetRates_SourceUnavailable() {
	suite.mockRatesService.On("GetRateBoard", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrSourceUnavailable).Once()

	w := suite.get("/api/v1/rates")
	suite.Equal(http.StatusBadGateway, w.Code)

	var resp map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp["error"], "currently unavailable")
}

func (suite *RatesHandlerTestSuite) TestGetRates_UnexpectedError() {
	suite.mockRatesService.On("GetRateBoard", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrStoreUnavailable).Once()

	w := suite.get("/api/v1/rates")
	suite.Equal(http.StatusInternalServerError, w.Code)
}

func (suite *RatesHandlerTestSuite) TestGetRatesHTML_RendersRecords() {
	suite.mockRatesService.On("GetRateBoard", mock.Anything, mock.Anything, mock.Anything).
		Return(sampleBoard(), nil).Once()

	w := suite.get("/rates")
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Content-Type"), "text/html")
	suite.Contains(w.Body.String(), "EUR/USD: 1.1189")
	suite.Contains(w.Body.String(), "0.69%")
}

func (suite *RatesHandlerTestSuite) TestGetRatesHTML_SourceUnavailable() {
	suite.mockRatesService.On("GetRateBoard", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrSourceUnavailable).Once()

	w := suite.get("/rates")
	suite.Equal(http.StatusBadGateway, w.Code)
	suite.Contains(w.Body.String(), "currently unavailable")
}

func (suite *RatesHandlerTestSuite) TestListCurrencies() {
	suite.mockRatesService.On("ListCurrencies", mock.Anything, []string{"EUR", "GBP"}).
		Return([]domain.CurrencyName{
			{Code: "EUR", Name: "Euro"},
			{Code: "ZZZ", Name: ""},
		}, nil).Once()

	w := suite.get("/api/v1/currencies")
	suite.Require().Equal(http.StatusOK, w.Code)

	var resp []dto.CurrencyResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp, 2)
	suite.Equal("Euro", resp[0].Name)
	suite.Equal("Unknown", resp[1].Name)
}

func (suite *RatesHandlerTestSuite) TestHealth() {
	w := suite.get("/health")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func TestRatesHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RatesHandlerTestSuite))
}
