package nse

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Leg holds the per-side fields of one option chain row.
// Fields missing upstream are left at zero.
type Leg struct {
	OpenInterest      int64
	ImpliedVolatility float64
	TradedVolume      int64
}

// StrikeRow is one strike carrying both a call and a put leg
type StrikeRow struct {
	Strike int64
	Expiry string
	Call   Leg
	Put    Leg
}

// OptionChain is the parsed option chain of the nearest expiry. Rows hold at
// most one entry per strike.
type OptionChain struct {
	Expiry string
	Spot   float64
	Rows   []StrikeRow
}

// Futures is the parsed futures quote
type Futures struct {
	TradedVolume int64
}

// optionChainResponse mirrors the fields read from /api/option-chain-indices
type optionChainResponse struct {
	Records *struct {
		Data            []map[string]json.RawMessage `json:"data"`
		ExpiryDates     []string                     `json:"expiryDates"`
		UnderlyingValue json.RawMessage              `json:"underlyingValue"`
	} `json:"records"`
}

// futuresResponse mirrors the fields read from /api/quote-derivative
type futuresResponse struct {
	MarketDeptOrderBook *struct {
		TradeInfo *struct {
			TotalTradedVolume json.RawMessage `json:"totalTradedVolume"`
		} `json:"tradeInfo"`
	} `json:"marketDeptOrderBook"`
}

// parseOptionChain validates the top-level fields and extracts the rows.
// records.data lists one row per (strike, expiry); only rows of the nearest
// expiry are kept, and the first row wins when a strike repeats. A row
// contributes only when it has a strike and both CE and PE legs.
func parseOptionChain(body []byte) (*OptionChain, error) {
	var resp optionChainResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode option chain: %w", err)
	}

	if resp.Records == nil {
		return nil, fmt.Errorf("missing records")
	}
	if len(resp.Records.Data) == 0 {
		return nil, fmt.Errorf("missing records.data")
	}
	if len(resp.Records.ExpiryDates) == 0 {
		return nil, fmt.Errorf("missing records.expiryDates")
	}
	spot, ok := parseNumber(resp.Records.UnderlyingValue)
	if !ok {
		return nil, fmt.Errorf("missing records.underlyingValue")
	}

	chain := &OptionChain{
		Expiry: resp.Records.ExpiryDates[0],
		Spot:   spot,
		Rows:   make([]StrikeRow, 0, len(resp.Records.Data)),
	}

	seen := make(map[int64]struct{}, len(resp.Records.Data))
	for _, entry := range resp.Records.Data {
		ce, hasCE := entry["CE"]
		pe, hasPE := entry["PE"]
		if !hasCE || !hasPE {
			continue
		}
		if expiry, ok := parseString(entry["expiryDate"]); ok && expiry != chain.Expiry {
			continue
		}
		value, ok := parseNumber(entry["strikePrice"])
		if !ok {
			continue
		}
		strike := int64(math.Round(value))
		if _, dup := seen[strike]; dup {
			continue
		}
		seen[strike] = struct{}{}

		chain.Rows = append(chain.Rows, StrikeRow{
			Strike: strike,
			Expiry: chain.Expiry,
			Call:   parseLeg(ce),
			Put:    parseLeg(pe),
		})
	}

	return chain, nil
}

func parseFutures(body []byte) (*Futures, error) {
	var resp futuresResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode futures quote: %w", err)
	}

	if resp.MarketDeptOrderBook == nil || resp.MarketDeptOrderBook.TradeInfo == nil {
		return nil, fmt.Errorf("missing marketDeptOrderBook.tradeInfo")
	}
	volume, ok := parseNumber(resp.MarketDeptOrderBook.TradeInfo.TotalTradedVolume)
	if !ok {
		return nil, fmt.Errorf("missing marketDeptOrderBook.tradeInfo.totalTradedVolume")
	}

	return &Futures{TradedVolume: int64(math.Round(volume))}, nil
}

// parseLeg reads the numeric fields of a CE/PE object, defaulting to zero
func parseLeg(raw json.RawMessage) Leg {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Leg{}
	}

	oi, _ := parseNumber(fields["openInterest"])
	iv, _ := parseNumber(fields["impliedVolatility"])
	vol, _ := parseNumber(fields["totalTradedVolume"])

	return Leg{
		OpenInterest:      int64(math.Round(oi)),
		ImpliedVolatility: iv,
		TradedVolume:      int64(math.Round(vol)),
	}
}

// parseString reads a non-empty JSON string
func parseString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

// parseNumber accepts a JSON number or a numeric string
func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
