package currencylayer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mikeoc61/currency-monitor/internal/adapters/currencylayer"
	"github.com/mikeoc61/currency-monitor/internal/apperrors"
)

type ClientTestSuite struct {
	suite.Suite
}

func (suite *ClientTestSuite) newServer(handler http.HandlerFunc) (*httptest.Server, *currencylayer.Client) {
	server := httptest.NewServer(handler)
	suite.T().Cleanup(server.Close)
	client := currencylayer.NewClient("test-key", currencylayer.WithBaseURL(server.URL))
	return server, client
}

func (suite *ClientTestSuite) TestFetchLive_Success() {
	var gotQuery map[string][]string
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		suite.Equal("/live", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"timestamp": 1756400000,
			"source": "USD",
			"quotes": {"USDEUR": 0.893764, "usdjpy": 147.2035}
		}`))
	})

	table, err := client.FetchLive(context.Background(), []string{"EUR", "JPY"})
	suite.Require().NoError(err)

	suite.Equal([]string{"test-key"}, gotQuery["access_key"])
	suite.Equal([]string{"EUR,JPY"}, gotQuery["currencies"])

	suite.Equal(int64(1756400000), table.AsOf)
	// Pair keys are canonicalized and values carry the provider's exact
	// decimal text.
	suite.Equal("0.893764", table.Quotes["USDEUR"])
	suite.Equal("147.2035", table.Quotes["USDJPY"])
}

func (suite *ClientTestSuite) TestFetchLive_EmptyBasketOmitsCurrencies() {
	var gotQuery map[string][]string
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"success": true, "timestamp": 1, "quotes": {}}`))
	})

	_, err := client.FetchLive(context.Background(), nil)
	suite.Require().NoError(err)
	suite.NotContains(gotQuery, "currencies")
}

func (suite *ClientTestSuite) TestFetchLive_ProviderFailure() {
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		// Quota and key errors still come back with HTTP 200.
		w.Write([]byte(`{
			"success": false,
			"error": {"code": 104, "type": "usage_limit_reached", "info": "monthly usage limit reached"}
		}`))
	})

	_, err := client.FetchLive(context.Background(), []string{"EUR"})
	suite.Require().ErrorIs(err, apperrors.ErrSourceUnavailable)
	suite.Contains(err.Error(), "usage_limit_reached")
}

func (suite *ClientTestSuite) TestFetchLive_HTTPError() {
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.FetchLive(context.Background(), []string{"EUR"})
	suite.Require().ErrorIs(err, apperrors.ErrSourceUnavailable)
}

func (suite *ClientTestSuite) TestFetchLive_MalformedBody() {
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": tru`))
	})

	_, err := client.FetchLive(context.Background(), []string{"EUR"})
	suite.Require().ErrorIs(err, apperrors.ErrSourceUnavailable)
}

func (suite *ClientTestSuite) TestFetchLive_UnreachableHost() {
	server, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.FetchLive(context.Background(), []string{"EUR"})
	suite.Require().ErrorIs(err, apperrors.ErrSourceUnavailable)
}

func (suite *ClientTestSuite) TestFetchList_Success() {
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		suite.Equal("/list", r.URL.Path)
		w.Write([]byte(`{"success": true, "currencies": {"EUR": "Euro", "XAU": "Gold Ounce"}}`))
	})

	listing, err := client.FetchList(context.Background())
	suite.Require().NoError(err)
	suite.Equal("Gold Ounce", listing["XAU"])
}

func (suite *ClientTestSuite) TestFetchList_ProviderFailure() {
	_, client := suite.newServer(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error": {"code": 101, "type": "invalid_access_key"}}`))
	})

	_, err := client.FetchList(context.Background())
	suite.Require().ErrorIs(err, apperrors.ErrSourceUnavailable)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}
