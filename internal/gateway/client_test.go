package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"zimtrader/internal/domain"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(Config{
		BaseURL:     server.URL,
		DataBaseURL: server.URL,
		APIKey:      "test-key",
		APISecret:   "test-secret",
		RateLimit:   rate.Inf,
		Burst:       1,
	}, zap.NewNop())
	return client, server
}

func TestDoPassesThroughUpstreamBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/account", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("APCA-API-KEY-ID"))
		assert.Equal(t, "test-secret", r.Header.Get("APCA-API-SECRET-KEY"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"account_number":"PA123","cash":"1000"}`))
	})
	defer server.Close()

	body, err := client.Do(context.Background(), Request{Action: ActionGetAccount})
	require.NoError(t, err)
	assert.JSONEq(t, `{"account_number":"PA123","cash":"1000"}`, string(body))
}

func TestDoRelaysUpstreamError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"forbidden"}`))
	})
	defer server.Close()

	_, err := client.Do(context.Background(), Request{Action: ActionGetPositions})
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusForbidden, upstream.StatusCode)
	assert.Contains(t, upstream.Details, "forbidden")
}

func TestDoRejectsUnknownAction(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	})
	defer server.Close()

	_, err := client.Do(context.Background(), Request{Action: "deleteEverything"})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestPlaceOrderDefaultsTypeAndTimeInForce(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/orders", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "AAPL", body["symbol"])
		assert.Equal(t, "5", body["qty"])
		assert.Equal(t, "buy", body["side"])
		assert.Equal(t, "market", body["type"])
		assert.Equal(t, "day", body["time_in_force"])

		w.Write([]byte(`{"id":"order-1","status":"accepted"}`))
	})
	defer server.Close()

	err := client.PlaceOrder(context.Background(), "AAPL", 5, "BUY", domain.InstrumentStock)
	require.NoError(t, err)
}

func TestGetQuoteParsesStockShape(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/stocks/AAPL/quotes/latest", r.URL.Path)
		w.Write([]byte(`{"quote":{"ap":189.5,"bp":189.4}}`))
	})
	defer server.Close()

	price, err := client.GetQuote(context.Background(), "AAPL", domain.InstrumentStock)
	require.NoError(t, err)
	assert.Equal(t, 189.5, price)
}

func TestGetQuoteParsesCryptoShape(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta3/crypto/us/latest/quotes", r.URL.Path)
		assert.Equal(t, "BTC/USD", r.URL.Query().Get("symbols"))
		w.Write([]byte(`{"quotes":{"BTC/USD":{"ap":64210.5,"bp":64200.1}}}`))
	})
	defer server.Close()

	price, err := client.GetQuote(context.Background(), "BTC/USD", domain.InstrumentCrypto)
	require.NoError(t, err)
	assert.Equal(t, 64210.5, price)
}

func TestGetQuoteFallsBackToBid(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quote":{"ap":0,"bp":42.1}}`))
	})
	defer server.Close()

	price, err := client.GetQuote(context.Background(), "DELTA", domain.InstrumentStock)
	require.NoError(t, err)
	assert.Equal(t, 42.1, price)
}

func TestGetQuotesJoinsSymbols(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/stocks/quotes/latest", r.URL.Path)
		assert.Equal(t, "AAPL,TSLA", r.URL.Query().Get("symbols"))
		w.Write([]byte(`{"quotes":{}}`))
	})
	defer server.Close()

	_, err := client.Do(context.Background(), Request{
		Action:  ActionGetQuotes,
		Symbols: []string{"AAPL", "TSLA"},
	})
	require.NoError(t, err)
}

func TestRateLimiterHonorsContextCancellation(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	})
	defer server.Close()
	client.limiter = rate.NewLimiter(0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Do(ctx, Request{Action: ActionGetAccount})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter wait")
}
