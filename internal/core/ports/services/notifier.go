package services

import "context"

// Collection names a store collection in change events.
type Collection string

const (
	CollectionAccounts     Collection = "accounts"
	CollectionCards        Collection = "cards"
	CollectionTransactions Collection = "transactions"
	CollectionSchedules    Collection = "schedules"
	CollectionCurrencies   Collection = "currencies"
	CollectionCategories   Collection = "categories"
	CollectionMemos        Collection = "memos"

	// CollectionAll marks a bulk mutation spanning every collection, such
	// as a destructive import.
	CollectionAll Collection = "all"
)

// ChangeNotifier publishes a collection-changed event after a mutation has
// committed, so other sessions of the same user re-pull their snapshot.
// Publishing is best-effort: a failed notification never rolls back the
// committed mutation.
type ChangeNotifier interface {
	CollectionChanged(ctx context.Context, userID string, collections ...Collection)
}
