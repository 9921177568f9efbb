package ports

import "context"

// WalletUpdate represents a single currency change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for managing player currency.
type EconomyPort interface {
	// UpdateBalances applies multiple wallet changes. Used to pay the victory reward.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
