package investor

import (
	"math/rand"
	"testing"

	"bourse/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomPolicy_RequestsAreAffordable(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	market := fakeMarket{round: 12, prices: map[string]int64{"AAA": 100, "BBB": 40, "CCC": 5}}

	produced := 0
	for i := 0; i < 200; i++ {
		inv, err := New(Random, i, NewWallet(rng.Int63n(500), map[string]int64{"BBB": rng.Int63n(4)}), rng)
		require.NoError(t, err)
		policy := inv.Policy().(*RandomPolicy)
		policy.OrderChance = 1

		req, ok := inv.ProduceOrder(market)
		if !ok {
			continue
		}
		produced++

		_, err = common.NewOrder(req, inv.Wallet())
		require.NoError(t, err, "request %+v", req)

		variation := req.LimitPrice - market.Price(req.Stock)
		switch req.Side {
		case common.Buy:
			assert.GreaterOrEqual(t, variation, int64(buyVariationLower))
			assert.LessOrEqual(t, variation, int64(buyVariationUpper))
		case common.Sell:
			assert.Equal(t, "BBB", req.Stock)
			assert.GreaterOrEqual(t, variation, int64(sellVariationLower))
			assert.LessOrEqual(t, variation, int64(sellVariationUpper))
		}
		if req.Expiry == common.Due {
			assert.Greater(t, req.DueRound, market.round)
			assert.LessOrEqual(t, req.DueRound, market.round+maxDueRounds)
		}
	}
	assert.Positive(t, produced)
}

func TestRandomPolicy_NothingToTrade(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	inv, err := New(Random, 0, NewWallet(10, nil), rng)
	require.NoError(t, err)
	inv.Policy().(*RandomPolicy).OrderChance = 1

	// Too poor to buy anything and holding nothing to sell.
	market := fakeMarket{prices: map[string]int64{"AAA": 100}}
	for i := 0; i < 50; i++ {
		_, ok := inv.ProduceOrder(market)
		assert.False(t, ok)
	}
}

func TestRandomPolicy_SameSeedSameOrders(t *testing.T) {
	market := fakeMarket{round: 1, prices: map[string]int64{"AAA": 100, "BBB": 40}}
	produce := func() []common.OrderRequest {
		rng := rand.New(rand.NewSource(11))
		inv, err := New(Random, 0, NewWallet(5000, map[string]int64{"AAA": 10}), rng)
		require.NoError(t, err)
		var out []common.OrderRequest
		for i := 0; i < 100; i++ {
			if req, ok := inv.ProduceOrder(market); ok {
				out = append(out, req)
			}
		}
		return out
	}
	assert.Equal(t, produce(), produce())
}

func TestMovingAveragePolicy_NoSignalNoOrder(t *testing.T) {
	inv := NewWithPolicy(MovingAverage, 0, NewWallet(1000, map[string]int64{"AAA": 5}), &MovingAveragePolicy{Aggression: 1})
	_, ok := inv.ProduceOrder(fakeMarket{prices: map[string]int64{"AAA": 100}})
	assert.False(t, ok)
}

func TestMovingAveragePolicy_BuysOnUpwardCross(t *testing.T) {
	inv := NewWithPolicy(MovingAverage, 0, NewWallet(1000, nil), &MovingAveragePolicy{Aggression: 1})
	market := fakeMarket{
		round:   20,
		prices:  map[string]int64{"AAA": 100, "BBB": 50},
		signals: map[string]float64{"AAA": 2, "BBB": 1},
	}

	req, ok := inv.ProduceOrder(market)
	require.True(t, ok)
	assert.Equal(t, common.Buy, req.Side)
	assert.Equal(t, "AAA", req.Stock)
	assert.Equal(t, common.Due, req.Expiry)
	assert.Equal(t, 25, req.DueRound)
	// Strongest signal seen so far: full size at the widest limit.
	assert.Equal(t, int64(10), req.Quantity)
	assert.Equal(t, int64(110), req.LimitPrice)
}

func TestMovingAveragePolicy_ScalesAgainstStrongestSignal(t *testing.T) {
	policy := &MovingAveragePolicy{Aggression: 1}
	inv := NewWithPolicy(MovingAverage, 0, NewWallet(1000, nil), policy)

	_, ok := inv.ProduceOrder(fakeMarket{prices: map[string]int64{"AAA": 100}, signals: map[string]float64{"AAA": 4}})
	require.True(t, ok)

	req, ok := inv.ProduceOrder(fakeMarket{prices: map[string]int64{"AAA": 100}, signals: map[string]float64{"AAA": 1}})
	require.True(t, ok)
	// A quarter of the strongest signal: a quarter of the affordable size.
	assert.Equal(t, int64(3), req.Quantity)
	assert.Equal(t, int64(103), req.LimitPrice)
}

func TestMovingAveragePolicy_SellsOnDownwardCross(t *testing.T) {
	inv := NewWithPolicy(MovingAverage, 0, NewWallet(0, map[string]int64{"AAA": 6}), &MovingAveragePolicy{Aggression: 1})
	market := fakeMarket{
		round:   3,
		prices:  map[string]int64{"AAA": 100},
		signals: map[string]float64{"AAA": -1},
	}

	req, ok := inv.ProduceOrder(market)
	require.True(t, ok)
	assert.Equal(t, common.Sell, req.Side)
	assert.Equal(t, "AAA", req.Stock)
	assert.Equal(t, int64(6), req.Quantity)
	assert.Equal(t, int64(90), req.LimitPrice)
	assert.Equal(t, 8, req.DueRound)
}

func TestMovingAveragePolicy_CannotSellWhatItDoesNotHold(t *testing.T) {
	inv := NewWithPolicy(MovingAverage, 0, NewWallet(1000, nil), &MovingAveragePolicy{Aggression: 1})
	_, ok := inv.ProduceOrder(fakeMarket{prices: map[string]int64{"AAA": 100}, signals: map[string]float64{"AAA": -1}})
	assert.False(t, ok)
}
