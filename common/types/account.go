package types

// Account is the native balance of an address. Balances are only moved by
// value attached to delegated execution.
type Account struct {
	Address Address
	Balance uint64
}
