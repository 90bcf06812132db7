package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"bourse/internal/investor"

	"github.com/shopspring/decimal"
)

// Source is the read-only engine surface a summary is built from.
type Source interface {
	StockIDs() []string
	Price(stockID string) int64
	InitialPrice(stockID string) int64
	StartNetWorth(investorID int) int64
	Transactions() int
	Investors() *investor.Registry
}

type InvestorLine struct {
	ID            int
	Kind          investor.Kind
	NetWorth      int64
	StartNetWorth int64
	Cash          int64
	Holdings      map[string]int64
	Transactions  int
}

func (l InvestorLine) Improved() bool {
	return l.NetWorth > l.StartNetWorth
}

type KindStats struct {
	Kind            investor.Kind
	Count           int
	Improved        int
	AverageNetWorth decimal.Decimal
	ImprovedPercent decimal.Decimal
}

type Summary struct {
	StockIDs        []string
	StartPrices     map[string]int64
	EndPrices       map[string]int64
	Activity        map[string]StockActivity
	Investors       []InvestorLine
	Kinds           []KindStats // one entry per kind present, in kind order
	AverageNetWorth decimal.Decimal
	Transactions    int
}

// Summarize values every investor at current prices and groups them by kind.
func Summarize(src Source, trades *Collector) Summary {
	s := Summary{
		StockIDs:     src.StockIDs(),
		StartPrices:  make(map[string]int64),
		EndPrices:    make(map[string]int64),
		Transactions: src.Transactions(),
	}
	for _, id := range s.StockIDs {
		s.StartPrices[id] = src.InitialPrice(id)
		s.EndPrices[id] = src.Price(id)
	}
	if trades != nil {
		s.Activity = trades.Activity()
	}

	byKind := make(map[investor.Kind]*KindStats)
	sums := make(map[investor.Kind]int64)
	var total int64
	for _, inv := range src.Investors().All() {
		line := InvestorLine{
			ID:            inv.ID(),
			Kind:          inv.Kind(),
			NetWorth:      inv.Wallet().NetWorth(src.Price),
			StartNetWorth: src.StartNetWorth(inv.ID()),
			Cash:          inv.Wallet().Cash(),
			Holdings:      inv.Wallet().Stocks(),
			Transactions:  inv.Transactions(),
		}
		s.Investors = append(s.Investors, line)
		total += line.NetWorth

		stats, ok := byKind[line.Kind]
		if !ok {
			stats = &KindStats{Kind: line.Kind}
			byKind[line.Kind] = stats
		}
		stats.Count++
		if line.Improved() {
			stats.Improved++
		}
		sums[line.Kind] += line.NetWorth
	}

	s.AverageNetWorth = average(total, len(s.Investors))
	for kind, stats := range byKind {
		stats.AverageNetWorth = average(sums[kind], stats.Count)
		stats.ImprovedPercent = decimal.NewFromInt(int64(stats.Improved)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(stats.Count)))
		s.Kinds = append(s.Kinds, *stats)
	}
	slices.SortFunc(s.Kinds, func(a, b KindStats) int { return int(a.Kind) - int(b.Kind) })
	return s
}

// Stats returns the statistics of a kind, if any investor of it exists.
func (s Summary) Stats(kind investor.Kind) (KindStats, bool) {
	for _, stats := range s.Kinds {
		if stats.Kind == kind {
			return stats, true
		}
	}
	return KindStats{}, false
}

// Ratio compares the average net worth of two kinds. It is undefined when
// either kind is absent or the denominator's average is zero.
func (s Summary) Ratio(numerator, denominator investor.Kind) (decimal.Decimal, bool) {
	num, ok := s.Stats(numerator)
	if !ok {
		return decimal.Zero, false
	}
	den, ok := s.Stats(denominator)
	if !ok || den.AverageNetWorth.IsZero() {
		return decimal.Zero, false
	}
	return num.AverageNetWorth.Div(den.AverageNetWorth), true
}

func average(sum int64, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(n)))
}

// Print writes a human readable report.
func (s Summary) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "INVESTOR\tKIND\tNET WORTH\tCASH\tHOLDINGS\tTRANSACTIONS")
	for _, line := range s.Investors {
		fmt.Fprintf(tw, "%d\t%v\t%d\t%d\t%s\t%d\n",
			line.ID, line.Kind, line.NetWorth, line.Cash, formatHoldings(line.Holdings), line.Transactions)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "STOCK\tSTART\tEND\tTRADES\tVOLUME\tLOW\tHIGH")
	for _, id := range s.StockIDs {
		activity := s.Activity[id]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
			id, s.StartPrices[id], s.EndPrices[id], activity.Trades, activity.Volume, activity.Low, activity.High)
	}
	fmt.Fprintln(tw)

	if len(s.Investors) > 0 {
		fmt.Fprintf(tw, "Starting net worth:\t%d\n", s.Investors[0].StartNetWorth)
	}
	fmt.Fprintf(tw, "Average net worth:\t%s\n", s.AverageNetWorth.StringFixed(2))
	for _, kind := range []investor.Kind{investor.Random, investor.MovingAverage} {
		stats, ok := s.Stats(kind)
		if !ok {
			fmt.Fprintf(tw, "Average net worth (%v):\tn/a\n", kind)
			continue
		}
		fmt.Fprintf(tw, "Average net worth (%v):\t%s\n", kind, stats.AverageNetWorth.StringFixed(2))
		fmt.Fprintf(tw, "Net worth increased (%v):\t%s%%\n", kind, stats.ImprovedPercent.StringFixed(1))
	}
	if ratio, ok := s.Ratio(investor.MovingAverage, investor.Random); ok {
		fmt.Fprintf(tw, "Moving-average vs random:\t%s\n", ratio.StringFixed(4))
	} else {
		fmt.Fprintf(tw, "Moving-average vs random:\tn/a\n")
	}
	fmt.Fprintf(tw, "Total transactions:\t%d\n", s.Transactions)
	return tw.Flush()
}

func formatHoldings(holdings map[string]int64) string {
	if len(holdings) == 0 {
		return "-"
	}
	ids := make([]string, 0, len(holdings))
	for id := range holdings {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s:%d", id, holdings[id])
	}
	return strings.Join(parts, ",")
}
