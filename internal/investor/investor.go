package investor

import (
	"errors"
	"fmt"
	"math/rand"

	"bourse/internal/common"
)

var ErrUnhandledKind = errors.New("unhandled investor kind")

// Kind tags the closed set of investor strategies.
type Kind int

const (
	Random Kind = iota
	MovingAverage
)

var kindTags = map[Kind]rune{
	Random:        'R',
	MovingAverage: 'S',
}

var kindNames = map[Kind]string{
	Random:        "random",
	MovingAverage: "moving-average",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Tag is the single character used for the kind in scenario files.
func (k Kind) Tag() rune {
	return kindTags[k]
}

// KindFromTag resolves a scenario file tag.
func KindFromTag(tag rune) (Kind, error) {
	for kind, t := range kindTags {
		if t == tag {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: tag %q", ErrUnhandledKind, tag)
}

// MarketView is everything a policy may read about the market. Policies never
// mutate engine state.
type MarketView interface {
	Round() int
	StockIDs() []string
	Price(stockID string) int64
	Signal(stockID string) float64
}

// Policy decides, once per round, whether the investor places an order.
type Policy interface {
	Decide(view MarketView, self *Investor) (common.OrderRequest, bool)
}

type Investor struct {
	id     int
	kind   Kind
	wallet *Wallet
	policy Policy

	buys  int
	sells int
}

// New builds an investor of the given kind. Any kind outside the known tag
// set is a setup error.
func New(kind Kind, id int, wallet *Wallet, rng *rand.Rand) (*Investor, error) {
	var policy Policy
	switch kind {
	case Random:
		policy = NewRandomPolicy(rng)
	case MovingAverage:
		policy = NewMovingAveragePolicy(rng)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnhandledKind, kind)
	}
	return NewWithPolicy(kind, id, wallet, policy), nil
}

func NewWithPolicy(kind Kind, id int, wallet *Wallet, policy Policy) *Investor {
	return &Investor{
		id:     id,
		kind:   kind,
		wallet: wallet,
		policy: policy,
	}
}

func (inv *Investor) ID() int         { return inv.id }
func (inv *Investor) Kind() Kind      { return inv.kind }
func (inv *Investor) Wallet() *Wallet { return inv.wallet }
func (inv *Investor) Policy() Policy  { return inv.policy }

// Transactions counts the closes this investor took part in.
func (inv *Investor) Transactions() int {
	return inv.buys + inv.sells
}

// ProduceOrder asks the policy for at most one order request. The owner field
// is always stamped with this investor's id.
func (inv *Investor) ProduceOrder(view MarketView) (common.OrderRequest, bool) {
	req, ok := inv.policy.Decide(view, inv)
	if !ok {
		return common.OrderRequest{}, false
	}
	req.Owner = inv.id
	return req, true
}

// SettleBuy moves cash out and stock in.
func (inv *Investor) SettleBuy(stockID string, qty, value int64) error {
	if err := inv.wallet.Debit(value); err != nil {
		return err
	}
	inv.buys++
	return inv.wallet.CreditStock(stockID, qty)
}

// SettleSell moves stock out and cash in.
func (inv *Investor) SettleSell(stockID string, qty, value int64) error {
	if err := inv.wallet.DebitStock(stockID, qty); err != nil {
		return err
	}
	inv.sells++
	return inv.wallet.Credit(value)
}

func (inv *Investor) String() string {
	return fmt.Sprintf("%d (%v) %v, transactions: %d", inv.id, inv.kind, inv.wallet, inv.Transactions())
}

// Registry owns the investor population of one simulation and hands out ids.
// Orders refer to investors by id only.
type Registry struct {
	nextID    int
	investors []*Investor
	byID      map[int]*Investor
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[int]*Investor)}
}

// Add builds and registers an investor of the given kind.
func (r *Registry) Add(kind Kind, wallet *Wallet, rng *rand.Rand) (*Investor, error) {
	inv, err := New(kind, r.nextID, wallet, rng)
	if err != nil {
		return nil, err
	}
	r.register(inv)
	return inv, nil
}

// AddWithPolicy registers an investor driven by a caller supplied policy.
func (r *Registry) AddWithPolicy(kind Kind, wallet *Wallet, policy Policy) *Investor {
	inv := NewWithPolicy(kind, r.nextID, wallet, policy)
	r.register(inv)
	return inv
}

func (r *Registry) register(inv *Investor) {
	r.nextID++
	r.investors = append(r.investors, inv)
	r.byID[inv.id] = inv
}

func (r *Registry) Get(id int) (*Investor, bool) {
	inv, ok := r.byID[id]
	return inv, ok
}

// All returns the investors in registration order.
func (r *Registry) All() []*Investor {
	return r.investors
}

func (r *Registry) Len() int {
	return len(r.investors)
}
