// Package metrics derives advertising ratios from aggregated counters.
// Ratios are always recomputed from sums, never averaged, and are 0 when the
// denominator is 0.
package metrics

// Counters are the additive figures a ratio is derived from.
type Counters struct {
	Views  int64
	Clicks int64
	Orders int64
	Sum    float64
}

type Ratios struct {
	CTR float64
	CPC float64
	CPM float64
	CR  float64
}

// Derive computes ctr and cr as percentages, cpc per click and cpm per
// thousand views.
func Derive(c Counters) Ratios {
	return Ratios{
		CTR: CTR(c.Clicks, c.Views),
		CPC: CPC(c.Sum, c.Clicks),
		CPM: CPM(c.Sum, c.Views),
		CR:  CR(c.Orders, c.Clicks),
	}
}

func CTR(clicks, views int64) float64       { return safeDivF(float64(clicks)*100, float64(views)) }
func CPC(sum float64, clicks int64) float64 { return safeDivF(sum, float64(clicks)) }
func CPM(sum float64, views int64) float64  { return safeDivF(sum*1000, float64(views)) }
func CR(orders, clicks int64) float64       { return safeDivF(float64(orders)*100, float64(clicks)) }

func safeDivF(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
