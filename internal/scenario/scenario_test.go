package scenario

import (
	"strings"
	"testing"

	"bourse/internal/investor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	sc, err := Load("testdata/basic.txt")
	require.NoError(t, err)

	assert.Equal(t, []investor.Kind{investor.Random, investor.Random, investor.MovingAverage, investor.MovingAverage}, sc.Investors)
	assert.Equal(t, map[string]int64{"APL": 145, "MSFT": 300}, sc.Prices)
	assert.Equal(t, int64(100000), sc.Cash)
	assert.Equal(t, map[string]int64{"APL": 5, "MSFT": 2}, sc.Holdings)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.txt")
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestParse_TabsAndZeroCash(t *testing.T) {
	sc, err := Parse(strings.NewReader("S\nAAA:10\n0\tAAA:1\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), sc.Cash)
	assert.Equal(t, map[string]int64{"AAA": 1}, sc.Holdings)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"two lines", "R\nAAA:10\n"},
		{"unknown investor", "R X\nAAA:10\n100 AAA:1\n"},
		{"multi character investor", "RR\nAAA:10\n100 AAA:1\n"},
		{"missing colon", "R\nAAA10\n100 AAA:1\n"},
		{"double colon", "R\nAAA:10:2\n100 AAA:1\n"},
		{"long stock name", "R\nABCDEF:10\n100 ABCDEF:1\n"},
		{"digit in name", "R\nAA1:10\n100 AA1:1\n"},
		{"zero price", "R\nAAA:0\n100 AAA:1\n"},
		{"negative price", "R\nAAA:-5\n100 AAA:1\n"},
		{"price not a number", "R\nAAA:ten\n100 AAA:1\n"},
		{"negative cash", "R\nAAA:10\n-1 AAA:1\n"},
		{"cash not a number", "R\nAAA:10\nlots AAA:1\n"},
		{"wallet without stocks", "R\nAAA:10\n100\n"},
		{"zero holding", "R\nAAA:10\n100 AAA:0\n"},
		{"unknown wallet stock", "R\nAAA:10\n100 BBB:1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrInvalidScenario)
		})
	}
}
