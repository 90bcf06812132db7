// Package scenario reads simulation scenario files.
//
// A scenario has three significant lines; blank lines and lines starting with
// '#' are skipped:
//
//	R R S S            investor tags, one per investor
//	APL:145 MSFT:300   stocks with their opening prices
//	100000 APL:5       starting cash and holdings given to every investor
package scenario

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"bourse/internal/investor"
)

var ErrInvalidScenario = errors.New("invalid scenario")

const maxStockNameLen = 5

type Scenario struct {
	Investors []investor.Kind
	Prices    map[string]int64
	Cash      int64
	Holdings  map[string]int64
}

func Load(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (Scenario, error) {
	var (
		sc      Scenario
		lines   []string
		scanner = bufio.NewScanner(r)
	)
	for scanner.Scan() && len(lines) < 3 {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return Scenario{}, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	if len(lines) < 3 {
		return Scenario{}, fmt.Errorf("%w: too few lines", ErrInvalidScenario)
	}

	var err error
	if sc.Investors, err = parseInvestors(lines[0]); err != nil {
		return Scenario{}, err
	}
	if sc.Prices, err = parseStocks(lines[1]); err != nil {
		return Scenario{}, err
	}
	if sc.Cash, sc.Holdings, err = parseWallet(lines[2], sc.Prices); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func parseInvestors(line string) ([]investor.Kind, error) {
	var kinds []investor.Kind
	for _, field := range strings.Fields(line) {
		if utf8.RuneCountInString(field) != 1 {
			return nil, fmt.Errorf("%w: invalid investor specifier %q", ErrInvalidScenario, field)
		}
		tag, _ := utf8.DecodeRuneInString(field)
		kind, err := investor.KindFromTag(tag)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScenario, err)
		}
		kinds = append(kinds, kind)
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: no investors", ErrInvalidScenario)
	}
	return kinds, nil
}

// parseStocks reads NAME:AMOUNT pairs. Amounts must be positive.
func parseStocks(line string) (map[string]int64, error) {
	stocks := make(map[string]int64)
	for _, field := range strings.Fields(line) {
		name, amount, ok := strings.Cut(field, ":")
		if !ok || strings.Contains(amount, ":") {
			return nil, fmt.Errorf("%w: invalid stock format %q", ErrInvalidScenario, field)
		}
		name = strings.ToUpper(name)
		if !validStockName(name) {
			return nil, fmt.Errorf("%w: invalid stock name %q", ErrInvalidScenario, name)
		}
		value, err := strconv.ParseInt(amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid amount %q", ErrInvalidScenario, amount)
		}
		if value <= 0 {
			return nil, fmt.Errorf("%w: amount must be positive: %d", ErrInvalidScenario, value)
		}
		stocks[name] = value
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("%w: no stocks", ErrInvalidScenario)
	}
	return stocks, nil
}

func validStockName(name string) bool {
	if name == "" || utf8.RuneCountInString(name) > maxStockNameLen {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func parseWallet(line string, prices map[string]int64) (int64, map[string]int64, error) {
	fields := strings.Fields(line)
	cashField, rest := fields[0], strings.Join(fields[1:], " ")
	cash, err := strconv.ParseInt(cashField, 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: invalid wallet cash %q", ErrInvalidScenario, cashField)
	}
	if cash < 0 {
		return 0, nil, fmt.Errorf("%w: wallet cash must be non-negative: %d", ErrInvalidScenario, cash)
	}
	if strings.TrimSpace(rest) == "" {
		return 0, nil, fmt.Errorf("%w: missing wallet stocks", ErrInvalidScenario)
	}
	holdings, err := parseStocks(rest)
	if err != nil {
		return 0, nil, err
	}
	for name := range holdings {
		if _, ok := prices[name]; !ok {
			return 0, nil, fmt.Errorf("%w: unknown stock in wallet %q", ErrInvalidScenario, name)
		}
	}
	return cash, holdings, nil
}
