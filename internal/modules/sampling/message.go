package sampling

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/aristath/oi-sentinel/internal/clients/nse"
	"github.com/aristath/oi-sentinel/internal/modules/snapshots"
)

// UnavailableMessage is sent when the option chain cannot be fetched
const UnavailableMessage = "⚠️ NSE Option Chain not available."

const (
	columnHeader         = "Strike   OI   ΔOI   IV   ΔIV   ΔVol\n"
	futuresErrorNotice   = "\n⚠️ Futures data error."
	futuresSectionHeader = "\n📌 <b>Futures Volume</b>\n"
)

// report assembles the HTML alert for one cycle. Upstream text is escaped
// since the message is sent with parse_mode=HTML.
type report struct {
	b strings.Builder
}

func newReport(symbol, expiry string, spot float64) *report {
	r := &report{}
	fmt.Fprintf(&r.b, "📊 %s - Expiry %s\nSpot: %s\n\n", html.EscapeString(symbol), html.EscapeString(expiry), formatFloat(spot))
	return r
}

func (r *report) section(side snapshots.Side) {
	switch side {
	case snapshots.SideCall:
		r.b.WriteString("📌 <b>Calls (CE)</b>\n")
	case snapshots.SidePut:
		r.b.WriteString("\n📌 <b>Puts (PE)</b>\n")
	}
	r.b.WriteString(columnHeader)
}

func (r *report) row(strike int64, leg nse.Leg, delta snapshots.Delta) {
	fmt.Fprintf(&r.b, "%-7d %-6d %-5s %-5s %-5s %s\n",
		strike,
		leg.OpenInterest,
		signedInt(delta.OpenInterest),
		formatFloat(leg.ImpliedVolatility),
		signedFloat(delta.ImpliedVolatility),
		signedInt(delta.TradedVolume),
	)
}

func (r *report) futures(volume int64, delta snapshots.Delta) {
	r.b.WriteString(futuresSectionHeader)
	fmt.Fprintf(&r.b, "%d (%s)", volume, signedInt(delta.TradedVolume))
}

func (r *report) futuresError() {
	r.b.WriteString(futuresErrorNotice)
}

func (r *report) String() string {
	return r.b.String()
}

// signedInt marks rises green and falls red
func signedInt(v int64) string {
	s := strconv.FormatInt(v, 10)
	return mark(s, v > 0, v < 0)
}

func signedFloat(v float64) string {
	return mark(formatFloat(v), v > 0, v < 0)
}

func mark(s string, up, down bool) string {
	switch {
	case up:
		return "🟢" + s
	case down:
		return "🔴" + s
	}
	return s
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
