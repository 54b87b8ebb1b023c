package pgsql

import (
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		CardRepo:        newPgxCardRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		ScheduleRepo:    newPgxScheduleRepository(dbPool),
		CurrencyRepo:    newPgxCurrencyRepository(dbPool),
		CategoryRepo:    newPgxCategoryRepository(dbPool),
		MemoRepo:        newPgxMemoRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
	}
}
