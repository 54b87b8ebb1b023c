package services

import (
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// ledgerService derives account balances by replaying the transaction
// history on top of each account's initial balance. Derivation is a pure
// summation, so replay order never matters, and it degrades instead of
// failing: a transaction referencing a missing account contributes zero, and
// an unknown currency converts at rate 1. Dashboards must render even over
// an incomplete join.
type ledgerService struct{}

// NewLedgerService creates a new LedgerService.
func NewLedgerService() portssvc.LedgerSvcFacade {
	return &ledgerService{}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// BalancesForAccount computes the per-currency balance map of one account.
func (s *ledgerService) BalancesForAccount(snap *domain.Snapshot, accountID string) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)

	account, ok := snap.Account(accountID)
	if !ok {
		// Orphaned reference: the account is gone, nothing to derive.
		return balances
	}
	if !account.InitialBalance.IsZero() {
		balances[account.CurrencySymbol] = account.InitialBalance
	}

	for _, txn := range snap.Transactions {
		applyTransaction(balances, txn, account, accountID)
	}

	for symbol, amount := range balances {
		if amount.IsZero() {
			delete(balances, symbol)
		}
	}
	return balances
}

// applyTransaction adds txn's signed contribution to the balance map of
// accountID, if any.
func applyTransaction(balances map[string]decimal.Decimal, txn domain.Transaction, account domain.Account, accountID string) {
	switch txn.Kind {
	case domain.KindIncome:
		if txn.AccountID == accountID {
			symbol, amount := txn.EffectiveCurrencyAmount(account.CurrencySymbol)
			balances[symbol] = balances[symbol].Add(amount)
		}
	case domain.KindExpense, domain.KindPayment:
		// A payment debits the card's settlement account exactly like an
		// expense; the settled card-expense entries themselves never touch
		// account balances.
		if txn.AccountID == accountID {
			symbol, amount := txn.EffectiveCurrencyAmount(account.CurrencySymbol)
			balances[symbol] = balances[symbol].Sub(amount)
		}
	case domain.KindTransfer:
		if txn.AccountID == accountID {
			symbol, amount := txn.EffectiveCurrencyAmount(account.CurrencySymbol)
			balances[symbol] = balances[symbol].Sub(amount)
		}
		if txn.ToAccountID == accountID {
			symbol, amount := txn.EffectiveCurrencyAmount(account.CurrencySymbol)
			balances[symbol] = balances[symbol].Add(amount)
		}
	case domain.KindCardExpense:
		// No direct account effect until settled by a payment.
	}
}

// TotalInKRW converts a per-currency balance map to KRW using the snapshot's
// currency table. An unknown symbol converts at rate 1: the amount passes
// through at face value rather than failing the whole aggregate.
func (s *ledgerService) TotalInKRW(snap *domain.Snapshot, balances map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for symbol, amount := range balances {
		total = total.Add(amount.Mul(rateFor(snap, symbol)))
	}
	return total
}

// rateFor returns the KRW rate of symbol, defaulting to 1 for the base
// currency and for symbols missing from the table.
func rateFor(snap *domain.Snapshot, symbol string) decimal.Decimal {
	if symbol == domain.BaseCurrencySymbol {
		return decimal.NewFromInt(1)
	}
	if cur, ok := snap.Currencies[symbol]; ok {
		return cur.Rate
	}
	return decimal.NewFromInt(1)
}
