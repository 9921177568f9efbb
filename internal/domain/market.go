package domain

// Trade is a seller-proposed transaction; the buyer receives its inverse.
type Trade struct {
	Proposal Transaction
}

// Execute applies the proposal to seller and its inverse to buyer, or neither.
func (t Trade) Execute(seller, buyer Holder) error {
	if !seller.CanApply(t.Proposal) {
		return invalidAction("seller cannot afford trade")
	}
	inverse := t.Proposal.Inverse()
	if !buyer.CanApply(inverse) {
		return invalidAction("buyer cannot afford trade")
	}
	seller.Apply(t.Proposal)
	buyer.Apply(inverse)
	return nil
}

// DefaultBankInventory is the per-resource stock of a standard bank.
const DefaultBankInventory = 19

// bankTradeRatio is how many of one resource the bank asks for a single unit of another.
const bankTradeRatio = 4

// Bank is the shared resource supply and a fixed-rate trade counterparty.
type Bank struct {
	Ledger
}

// NewBank seeds a bank with inventory units of every resource.
func NewBank(inventory int) *Bank {
	b := &Bank{}
	var seed Transaction
	for _, r := range Resources {
		seed[r] = inventory
	}
	b.Apply(seed)
	return b
}

// Offers lists the 4-for-1 exchanges the bank can honor right now, from the trading player's
// side: give four of one resource, receive one of another.
func (b *Bank) Offers() []Transaction {
	var offers []Transaction
	for _, give := range Resources {
		for _, receive := range Resources {
			if give == receive {
				continue
			}
			var tx Transaction
			tx[give] = -bankTradeRatio
			tx[receive] = 1
			if !b.CanApply(tx.Inverse()) {
				continue
			}
			offers = append(offers, tx)
		}
	}
	return offers
}

// Offering reports whether tx is currently in the bank's catalog.
func (b *Bank) Offering(tx Transaction) bool {
	for _, offer := range b.Offers() {
		if offer == tx {
			return true
		}
	}
	return false
}
