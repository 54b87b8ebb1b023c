package domain

// Snapshot is an immutable view of one user's collections as delivered by the
// store. All derived state (balances, billing windows, asset summaries) is a
// pure function of a Snapshot; a new Revision is stamped whenever any
// collection changes, so computations can be memoized on it.
type Snapshot struct {
	Revision     string
	UserID       string
	Accounts     map[string]Account
	Cards        map[string]Card
	Transactions []Transaction
	Schedules    []Schedule
	Currencies   map[string]Currency // keyed by symbol
}

// Account returns the account with the given id, if present. Callers must
// tolerate absence: transactions referencing a deleted account are orphaned,
// not fatal.
func (s *Snapshot) Account(accountID string) (Account, bool) {
	acc, ok := s.Accounts[accountID]
	return acc, ok
}

// Card returns the card with the given id, if present.
func (s *Snapshot) Card(cardID string) (Card, bool) {
	card, ok := s.Cards[cardID]
	return card, ok
}
