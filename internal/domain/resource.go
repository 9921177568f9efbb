package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Resource is a tradeable commodity produced by farmable tiles.
type Resource int

const (
	Brick Resource = iota
	Stone
	Wheat
	Sheep
	Wood
)

// ResourceCount is the number of distinct resources.
const ResourceCount = 5

// Resources lists every resource in a fixed order.
var Resources = [ResourceCount]Resource{Brick, Stone, Wheat, Sheep, Wood}

var resourceNames = [ResourceCount]string{"brick", "stone", "wheat", "sheep", "wood"}

func (r Resource) String() string {
	if r < 0 || r >= ResourceCount {
		return "unknown"
	}
	return resourceNames[r]
}

// ParseResource resolves a resource by its lowercase name.
func ParseResource(name string) (Resource, bool) {
	for i, n := range resourceNames {
		if n == strings.ToLower(name) {
			return Resource(i), true
		}
	}
	return 0, false
}

// Transaction is a complete set of signed per-resource deltas. The zero value changes nothing.
type Transaction [ResourceCount]int

// NewTransaction builds a transaction from a sparse map; missing resources default to 0.
func NewTransaction(deltas map[Resource]int) Transaction {
	var tx Transaction
	for r, d := range deltas {
		tx[r] += d
	}
	return tx
}

// Inverse returns the transaction with every delta negated.
func (tx Transaction) Inverse() Transaction {
	var out Transaction
	for i, d := range tx {
		out[i] = -d
	}
	return out
}

// Add returns the element-wise sum of two transactions.
func (tx Transaction) Add(other Transaction) Transaction {
	var out Transaction
	for i := range tx {
		out[i] = tx[i] + other[i]
	}
	return out
}

// IsZero reports whether the transaction changes nothing.
func (tx Transaction) IsZero() bool {
	return tx == Transaction{}
}

// Map returns the non-zero deltas keyed by resource name.
func (tx Transaction) Map() map[string]int {
	out := make(map[string]int)
	for i, d := range tx {
		if d != 0 {
			out[Resource(i).String()] = d
		}
	}
	return out
}

// MarshalJSON encodes the transaction as a resource-name keyed object of non-zero deltas.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(tx.Map())
}

// UnmarshalJSON decodes a resource-name keyed object; unknown names are rejected.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Transaction
	for name, d := range raw {
		r, ok := ParseResource(name)
		if !ok {
			return fmt.Errorf("unknown resource %q", name)
		}
		out[r] += d
	}
	*tx = out
	return nil
}

// Holder is anything that owns a resource ledger: players and the bank.
type Holder interface {
	CanApply(tx Transaction) bool
	Apply(tx Transaction)
	Balance(r Resource) int
}

// Ledger is a nonnegative per-resource balance sheet.
type Ledger struct {
	balances [ResourceCount]int
}

// Balance returns the holder's count of r.
func (l *Ledger) Balance(r Resource) int { return l.balances[r] }

// Balances returns a copy of every balance keyed by resource name.
func (l *Ledger) Balances() map[string]int {
	out := make(map[string]int, ResourceCount)
	for i, b := range l.balances {
		out[Resource(i).String()] = b
	}
	return out
}

// Total returns the sum of all balances.
func (l *Ledger) Total() int {
	n := 0
	for _, b := range l.balances {
		n += b
	}
	return n
}

// CanApply reports whether applying tx leaves every balance nonnegative.
func (l *Ledger) CanApply(tx Transaction) bool {
	for i, d := range tx {
		if l.balances[i]+d < 0 {
			return false
		}
	}
	return true
}

// Apply mutates the ledger by tx. Callers must check CanApply first; an unaffordable
// transaction is a programming error and panics before any balance changes.
func (l *Ledger) Apply(tx Transaction) {
	if !l.CanApply(tx) {
		panic(fmt.Sprintf("domain: transaction %v would overdraw ledger %v", tx, l.balances))
	}
	for i, d := range tx {
		l.balances[i] += d
	}
}
