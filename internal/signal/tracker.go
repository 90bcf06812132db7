// Package signal computes moving-average crossover strengths from the price
// each stock closes a round at.
package signal

const (
	ShortPeriod = 5
	LongPeriod  = 10
)

// window is a fixed-size FIFO of prices with a running sum.
type window struct {
	size   int
	prices []int64
	sum    int64
}

func (w *window) push(price int64) {
	w.prices = append(w.prices, price)
	w.sum += price
	if len(w.prices) > w.size {
		w.sum -= w.prices[0]
		w.prices = w.prices[1:]
	}
}

func (w *window) full() bool {
	return len(w.prices) == w.size
}

func (w *window) average() float64 {
	if len(w.prices) == 0 {
		return 0
	}
	return float64(w.sum) / float64(len(w.prices))
}

type series struct {
	short, long window

	ready          bool
	shortWasAbove  bool
	prevShort      float64
	signalStrength float64
}

func newSeries() *series {
	return &series{
		short: window{size: ShortPeriod},
		long:  window{size: LongPeriod},
	}
}

func (s *series) observe(price int64) {
	s.short.push(price)
	s.long.push(price)

	if !s.ready {
		// The first full long window only seeds the crossover state.
		if s.long.full() {
			s.ready = true
			s.shortWasAbove = s.short.average() > s.long.average()
			s.prevShort = s.short.average()
		}
		return
	}

	short, long := s.short.average(), s.long.average()
	shortAbove := short > long
	strength := short - s.prevShort
	if strength < 0 {
		strength = -strength
	}

	switch {
	case shortAbove == s.shortWasAbove:
		s.signalStrength = 0
	case shortAbove:
		s.signalStrength = strength
	default:
		s.signalStrength = -strength
	}
	s.shortWasAbove = shortAbove
	s.prevShort = short
}

// Tracker holds one crossover series per stock. Positive strength means the
// short average just crossed above the long one, negative means below, zero
// means no crossover this round.
type Tracker struct {
	series map[string]*series
}

func NewTracker(stockIDs ...string) *Tracker {
	t := &Tracker{series: make(map[string]*series, len(stockIDs))}
	for _, id := range stockIDs {
		t.series[id] = newSeries()
	}
	return t
}

// Observe records the post-round price of a stock.
func (t *Tracker) Observe(stockID string, price int64) {
	s, ok := t.series[stockID]
	if !ok {
		s = newSeries()
		t.series[stockID] = s
	}
	s.observe(price)
}

func (t *Tracker) Strength(stockID string) float64 {
	if s, ok := t.series[stockID]; ok {
		return s.signalStrength
	}
	return 0
}

// Ready reports whether the stock has a full long window.
func (t *Tracker) Ready(stockID string) bool {
	s, ok := t.series[stockID]
	return ok && s.ready
}
