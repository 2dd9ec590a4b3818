package nse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleChain = `{
  "records": {
    "expiryDates": ["25-Jan-2024", "01-Feb-2024"],
    "underlyingValue": 21462.25,
    "data": [
      {"strikePrice": 21400, "CE": {"openInterest": 1200, "impliedVolatility": 12.5, "totalTradedVolume": 5000},
                             "PE": {"openInterest": 900, "impliedVolatility": 13.1, "totalTradedVolume": 4200}},
      {"strikePrice": 21450, "CE": {"openInterest": 300}},
      {"strikePrice": 21500, "CE": {"openInterest": "1,500", "impliedVolatility": "11.75", "totalTradedVolume": 800},
                             "PE": {}}
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		Symbol:  "NIFTY",
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestFetchOptionChain(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/option-chain-indices", r.URL.Path)
		assert.Equal(t, "NIFTY", r.URL.Query().Get("symbol"))
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		assert.Contains(t, r.Header.Get("Referer"), "/option-chain")
		w.Write([]byte(sampleChain))
	})

	chain, err := client.FetchOptionChain(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "25-Jan-2024", chain.Expiry)
	assert.Equal(t, 21462.25, chain.Spot)
	// The 21450 row has no PE leg and is skipped
	require.Len(t, chain.Rows, 2)
	assert.Equal(t, []int64{21400, 21500}, rowStrikes(chain))

	assert.Equal(t, Leg{OpenInterest: 1200, ImpliedVolatility: 12.5, TradedVolume: 5000}, chain.Rows[0].Call)
	assert.Equal(t, Leg{OpenInterest: 900, ImpliedVolatility: 13.1, TradedVolume: 4200}, chain.Rows[0].Put)
	assert.Equal(t, Leg{OpenInterest: 1500, ImpliedVolatility: 11.75, TradedVolume: 800}, chain.Rows[1].Call)
	assert.Equal(t, Leg{}, chain.Rows[1].Put)
}

// Two expiries listed strike by strike, the way the live endpoint does
const multiExpiryChain = `{
  "records": {
    "expiryDates": ["25-Jan-2024", "01-Feb-2024"],
    "underlyingValue": 21462.25,
    "data": [
      {"strikePrice": 21400, "expiryDate": "25-Jan-2024", "CE": {"openInterest": 1000}, "PE": {"openInterest": 1100}},
      {"strikePrice": 21400, "expiryDate": "01-Feb-2024", "CE": {"openInterest": 2000}, "PE": {"openInterest": 2100}},
      {"strikePrice": 21500, "expiryDate": "01-Feb-2024", "CE": {"openInterest": 2001}, "PE": {"openInterest": 2101}},
      {"strikePrice": 21500, "expiryDate": "25-Jan-2024", "CE": {"openInterest": 1001}, "PE": {"openInterest": 1101}},
      {"strikePrice": 21600, "expiryDate": "01-Feb-2024", "CE": {"openInterest": 2002}, "PE": {"openInterest": 2102}}
    ]
  }
}`

func rowStrikes(chain *OptionChain) []int64 {
	strikes := make([]int64, 0, len(chain.Rows))
	for _, row := range chain.Rows {
		strikes = append(strikes, row.Strike)
	}
	return strikes
}

func TestFetchOptionChain_NearestExpiryOnly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(multiExpiryChain))
	})

	chain, err := client.FetchOptionChain(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "25-Jan-2024", chain.Expiry)
	// 21600 is listed only for the later expiry
	assert.Equal(t, []int64{21400, 21500}, rowStrikes(chain))
	for _, row := range chain.Rows {
		assert.Equal(t, "25-Jan-2024", row.Expiry)
		assert.Less(t, row.Call.OpenInterest, int64(2000), "strike %d", row.Strike)
		assert.Less(t, row.Put.OpenInterest, int64(2000), "strike %d", row.Strike)
	}
}

func TestParseOptionChain_RepeatedStrikeKeepsFirst(t *testing.T) {
	body := `{"records":{"expiryDates":["25-Jan-2024"],"underlyingValue":100,"data":[
	  {"strikePrice":100,"CE":{"openInterest":1},"PE":{}},
	  {"strikePrice":100,"CE":{"openInterest":2},"PE":{}},
	  {"strikePrice":"200","CE":{"openInterest":3},"PE":{}}
	]}}`

	chain, err := parseOptionChain([]byte(body))
	require.NoError(t, err)
	require.Equal(t, []int64{100, 200}, rowStrikes(chain))
	assert.Equal(t, int64(1), chain.Rows[0].Call.OpenInterest)
}

func TestFetchOptionChain_Unavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"non-200", http.StatusUnauthorized, `{}`},
		{"malformed json", http.StatusOK, `<html>blocked</html>`},
		{"missing records", http.StatusOK, `{}`},
		{"empty data", http.StatusOK, `{"records":{"data":[],"expiryDates":["x"],"underlyingValue":1}}`},
		{"missing expiries", http.StatusOK, `{"records":{"data":[{"strikePrice":1}],"underlyingValue":1}}`},
		{"missing spot", http.StatusOK, `{"records":{"data":[{"strikePrice":1}],"expiryDates":["x"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			chain, err := client.FetchOptionChain(context.Background())
			assert.Nil(t, chain)
			assert.True(t, errors.Is(err, ErrUnavailable))
		})
	}
}

func TestFetchOptionChain_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{BaseURL: server.URL, Symbol: "NIFTY", Timeout: 50 * time.Millisecond}, zerolog.Nop())

	_, err := client.FetchOptionChain(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestFetchFutures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quote-derivative", r.URL.Path)
		w.Write([]byte(`{"marketDeptOrderBook":{"tradeInfo":{"totalTradedVolume":183250}}}`))
	})

	futures, err := client.FetchFutures(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(183250), futures.TradedVolume)
}

func TestFetchFutures_MissingPath(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"marketDeptOrderBook":{}}`,
		`{"marketDeptOrderBook":{"tradeInfo":{}}}`,
	} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})

		_, err := client.FetchFutures(context.Background())
		assert.True(t, errors.Is(err, ErrUnavailable), body)
	}
}

func TestPrimeSession_StoresCookies(t *testing.T) {
	var sawCookie bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			http.SetCookie(w, &http.Cookie{Name: "nsit", Value: "abc", Path: "/"})
		case "/api/quote-derivative":
			if c, err := r.Cookie("nsit"); err == nil && c.Value == "abc" {
				sawCookie = true
			}
			w.Write([]byte(`{"marketDeptOrderBook":{"tradeInfo":{"totalTradedVolume":1}}}`))
		}
	})

	require.NoError(t, client.PrimeSession(context.Background()))
	_, err := client.FetchFutures(context.Background())
	require.NoError(t, err)
	assert.True(t, sawCookie)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{`12.5`, 12.5, true},
		{`"12.5"`, 12.5, true},
		{`"1,234"`, 1234, true},
		{`null`, 0, false},
		{`""`, 0, false},
		{`"-"`, 0, false},
		{``, 0, false},
	}

	for _, tt := range tests {
		got, ok := parseNumber([]byte(tt.raw))
		assert.Equal(t, tt.ok, ok, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}
