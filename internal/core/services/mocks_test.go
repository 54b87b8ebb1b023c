package services_test

import (
	"context"
	"time"

	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/stretchr/testify/mock"
)

// fixedClock returns the same instant on every call.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// recordingNotifier captures the collections reported as changed.
type recordingNotifier struct {
	events []portssvc.Collection
}

func (n *recordingNotifier) CollectionChanged(ctx context.Context, userID string, collections ...portssvc.Collection) {
	n.events = append(n.events, collections...)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, userID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeleteAccount(ctx context.Context, userID, accountID string) error {
	args := m.Called(ctx, userID, accountID)
	return args.Error(0)
}

func (m *MockAccountRepository) ReplaceAllForUser(ctx context.Context, userID string, accounts []domain.Account) error {
	args := m.Called(ctx, userID, accounts)
	return args.Error(0)
}

// --- Mock CardRepository ---

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) FindCardByID(ctx context.Context, userID, cardID string) (*domain.Card, error) {
	args := m.Called(ctx, userID, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) ListCardsByUser(ctx context.Context, userID string) ([]domain.Card, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Card), args.Error(1)
}

func (m *MockCardRepository) SaveCard(ctx context.Context, card domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) UpdateCard(ctx context.Context, card domain.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) DeleteCard(ctx context.Context, userID, cardID string) error {
	args := m.Called(ctx, userID, cardID)
	return args.Error(0)
}

func (m *MockCardRepository) ReplaceAllForUser(ctx context.Context, userID string, cards []domain.Card) error {
	args := m.Called(ctx, userID, cards)
	return args.Error(0)
}

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, userID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactionsByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	args := m.Called(ctx, userID, transactionID)
	return args.Error(0)
}

func (m *MockTransactionRepository) ConfirmCardPayment(ctx context.Context, payment domain.Transaction) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockTransactionRepository) DeletePayment(ctx context.Context, userID, paymentID string) error {
	args := m.Called(ctx, userID, paymentID)
	return args.Error(0)
}

func (m *MockTransactionRepository) AppendTransactions(ctx context.Context, userID string, txns []domain.Transaction) error {
	args := m.Called(ctx, userID, txns)
	return args.Error(0)
}

func (m *MockTransactionRepository) ReplaceAllForUser(ctx context.Context, userID string, txns []domain.Transaction) error {
	args := m.Called(ctx, userID, txns)
	return args.Error(0)
}

// --- Mock ScheduleRepository ---

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindScheduleByID(ctx context.Context, userID, scheduleID string) (*domain.Schedule, error) {
	args := m.Called(ctx, userID, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) ListSchedulesByUser(ctx context.Context, userID string) ([]domain.Schedule, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) SaveSchedule(ctx context.Context, schedule domain.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) UpdateSchedule(ctx context.Context, schedule domain.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) DeleteSchedule(ctx context.Context, userID, scheduleID string) error {
	args := m.Called(ctx, userID, scheduleID)
	return args.Error(0)
}

func (m *MockScheduleRepository) CompleteSchedule(ctx context.Context, userID, scheduleID string, income domain.Transaction) error {
	args := m.Called(ctx, userID, scheduleID, income)
	return args.Error(0)
}

func (m *MockScheduleRepository) ReplaceAllForUser(ctx context.Context, userID string, schedules []domain.Schedule) error {
	args := m.Called(ctx, userID, schedules)
	return args.Error(0)
}

// --- Mock CurrencyRepository ---

type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) FindCurrencyBySymbol(ctx context.Context, userID, symbol string) (*domain.Currency, error) {
	args := m.Called(ctx, userID, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) ListCurrenciesByUser(ctx context.Context, userID string) ([]domain.Currency, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) UpdateCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) DeleteCurrency(ctx context.Context, userID, symbol string) error {
	args := m.Called(ctx, userID, symbol)
	return args.Error(0)
}

func (m *MockCurrencyRepository) ReplaceAllForUser(ctx context.Context, userID string, currencies []domain.Currency) error {
	args := m.Called(ctx, userID, currencies)
	return args.Error(0)
}

// --- Mock CategoryRepository ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	args := m.Called(ctx, userID, categoryID)
	return args.Error(0)
}

func (m *MockCategoryRepository) ReplaceAllForUser(ctx context.Context, userID string, categories []domain.Category) error {
	args := m.Called(ctx, userID, categories)
	return args.Error(0)
}

// --- Mock MemoRepository ---

type MockMemoRepository struct {
	mock.Mock
}

func (m *MockMemoRepository) FindMemoByID(ctx context.Context, userID, memoID string) (*domain.Memo, error) {
	args := m.Called(ctx, userID, memoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Memo), args.Error(1)
}

func (m *MockMemoRepository) ListMemosByUser(ctx context.Context, userID string) ([]domain.Memo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Memo), args.Error(1)
}

func (m *MockMemoRepository) SaveMemo(ctx context.Context, memo domain.Memo) error {
	args := m.Called(ctx, memo)
	return args.Error(0)
}

func (m *MockMemoRepository) UpdateMemo(ctx context.Context, memo domain.Memo) error {
	args := m.Called(ctx, memo)
	return args.Error(0)
}

func (m *MockMemoRepository) DeleteMemo(ctx context.Context, userID, memoID string) error {
	args := m.Called(ctx, userID, memoID)
	return args.Error(0)
}

func (m *MockMemoRepository) ReplaceAllForUser(ctx context.Context, userID string, memos []domain.Memo) error {
	args := m.Called(ctx, userID, memos)
	return args.Error(0)
}
