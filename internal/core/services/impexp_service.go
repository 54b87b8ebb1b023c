package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagyebu-app/gagyebu/internal/apperrors"
	"github.com/gagyebu-app/gagyebu/internal/core/domain"
	portsrepo "github.com/gagyebu-app/gagyebu/internal/core/ports/repositories"
	portssvc "github.com/gagyebu-app/gagyebu/internal/core/ports/services"
	"github.com/gagyebu-app/gagyebu/internal/dto"
	"github.com/gagyebu-app/gagyebu/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// csvHeader is the fixed column order of the flattened transaction CSV.
// Payment transactions carry back-references that do not fit a flat row, so
// they are excluded from CSV export and rejected on CSV import; the JSON
// payload is the only full-fidelity format.
var csvHeader = []string{
	"kind", "timestamp", "description", "memo", "category", "amount",
	"account", "toAccount", "card", "originalAmount", "originalCurrency",
}

// impexpService serializes a user's complete data set to a portable JSON
// document (and a flat CSV for transactions) and restores it. Exported
// documents carry no internal ids: accounts and cards travel by name,
// currencies by symbol, payment back-references as indices into the exported
// transaction list. Import regenerates every id and remaps the references.
type impexpService struct {
	repos    portsrepo.RepositoryProvider
	notifier portssvc.ChangeNotifier
	clock    portssvc.Clock
}

// NewImpexpService creates a new ImpexpService.
func NewImpexpService(repos portsrepo.RepositoryProvider, notifier portssvc.ChangeNotifier, clock portssvc.Clock) portssvc.ImpexpSvcFacade {
	return &impexpService{repos: repos, notifier: notifier, clock: clock}
}

var _ portssvc.ImpexpSvcFacade = (*impexpService)(nil)

type collections struct {
	accounts     []domain.Account
	cards        []domain.Card
	transactions []domain.Transaction
	schedules    []domain.Schedule
	currencies   []domain.Currency
	categories   []domain.Category
	memos        []domain.Memo
}

// exportRef resolves an internal id to a display name. A set id with no live
// document is an orphan left behind by a delete: the raw id travels as an
// opaque name, flagged, so the dangling reference survives a round trip.
func exportRef(id string, names map[string]string) (name string, orphaned bool) {
	if id == "" {
		return "", false
	}
	if n, ok := names[id]; ok {
		return n, false
	}
	return id, true
}

func (s *impexpService) loadAll(ctx context.Context, userID string) (*collections, error) {
	var c collections
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.accounts, err = s.repos.AccountRepo.ListAccountsByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		c.cards, err = s.repos.CardRepo.ListCardsByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		c.transactions, err = s.repos.TransactionRepo.ListTransactionsByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		c.schedules, err = s.repos.ScheduleRepo.ListSchedulesByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		c.currencies, err = s.repos.CurrencyRepo.ListCurrenciesByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		c.categories, err = s.repos.CategoryRepo.ListCategoriesByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		c.memos, err = s.repos.MemoRepo.ListMemosByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	return &c, nil
}

// ExportJSON serializes every collection of the user into one portable
// document with internal ids stripped.
func (s *impexpService) ExportJSON(ctx context.Context, userID string) (*dto.ExportPayload, error) {
	c, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	accountNames := make(map[string]string, len(c.accounts))
	for _, a := range c.accounts {
		accountNames[a.AccountID] = a.Name
	}
	cardNames := make(map[string]string, len(c.cards))
	for _, cd := range c.cards {
		cardNames[cd.CardID] = cd.Name
	}
	txnIndex := make(map[string]int, len(c.transactions))
	for i, t := range c.transactions {
		txnIndex[t.TransactionID] = i
	}

	payload := &dto.ExportPayload{
		ExportedAt:   s.clock.Now().UTC().Format(time.RFC3339),
		Accounts:     make([]dto.ExportAccount, 0, len(c.accounts)),
		Cards:        make([]dto.ExportCard, 0, len(c.cards)),
		Transactions: make([]dto.ExportTransaction, 0, len(c.transactions)),
		Schedules:    make([]dto.ExportSchedule, 0, len(c.schedules)),
		Currencies:   make([]dto.ExportCurrency, 0, len(c.currencies)),
	}
	for _, a := range c.accounts {
		payload.Accounts = append(payload.Accounts, dto.ExportAccount{
			Name:           a.Name,
			Category:       a.Category,
			CurrencySymbol: a.CurrencySymbol,
			InitialBalance: a.InitialBalance,
		})
	}
	for _, cd := range c.cards {
		settlementName, settlementOrphaned := exportRef(cd.SettlementAccountID, accountNames)
		payload.Cards = append(payload.Cards, dto.ExportCard{
			Name:                      cd.Name,
			PaymentDay:                cd.PaymentDay,
			UsageStartDay:             cd.UsageStartDay,
			UsageEndDay:               cd.UsageEndDay,
			SettlementAccountName:     settlementName,
			SettlementAccountOrphaned: settlementOrphaned,
		})
	}
	for _, t := range c.transactions {
		et := dto.ExportTransaction{
			Kind:             t.Kind,
			Timestamp:        t.Timestamp.UTC().Format(time.RFC3339),
			Description:      t.Description,
			Memo:             t.Memo,
			Category:         t.Category,
			Amount:           t.Amount,
			IsPaid:           t.IsPaid,
			OriginalAmount:   t.OriginalAmount,
			OriginalCurrency: t.OriginalCurrency,
		}
		et.AccountName, et.AccountOrphaned = exportRef(t.AccountID, accountNames)
		et.ToAccountName, et.ToAccountOrphaned = exportRef(t.ToAccountID, accountNames)
		et.CardName, et.CardOrphaned = exportRef(t.CardID, cardNames)
		for _, settledID := range t.PaidCardTransactionIDs {
			if idx, ok := txnIndex[settledID]; ok {
				et.PaidCardTransactionRefs = append(et.PaidCardTransactionRefs, idx)
			}
		}
		payload.Transactions = append(payload.Transactions, et)
	}
	for _, sc := range c.schedules {
		accountName, accountOrphaned := exportRef(sc.AccountID, accountNames)
		payload.Schedules = append(payload.Schedules, dto.ExportSchedule{
			Description:     sc.Description,
			Amount:          sc.Amount,
			DueDate:         sc.DueDate.UTC().Format(time.RFC3339),
			AccountName:     accountName,
			AccountOrphaned: accountOrphaned,
			IsCompleted:     sc.IsCompleted,
		})
	}
	for _, cur := range c.currencies {
		payload.Currencies = append(payload.Currencies, dto.ExportCurrency{
			Symbol: cur.Symbol,
			Name:   cur.Name,
			Rate:   cur.Rate,
			IsBase: cur.IsBase,
		})
	}
	for _, cat := range c.categories {
		payload.Categories = append(payload.Categories, cat.Name)
	}
	for _, m := range c.memos {
		payload.Memos = append(payload.Memos, dto.ExportMemo{Title: m.Title, Content: m.Content})
	}
	return payload, nil
}

// ImportJSON destructively replaces the user's data set with the payload.
// Fresh ids are generated for every document and the name/index references
// are remapped onto them; the base KRW currency row is restored even when
// the payload omits it.
func (s *impexpService) ImportJSON(ctx context.Context, userID string, payload dto.ExportPayload) (*dto.ImportResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := s.clock.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	currencies := make([]domain.Currency, 0, len(payload.Currencies)+1)
	currencySeen := map[string]bool{}
	for _, ec := range payload.Currencies {
		if ec.Symbol == "" {
			return nil, fmt.Errorf("%w: currency with empty symbol", apperrors.ErrValidation)
		}
		if currencySeen[ec.Symbol] {
			return nil, fmt.Errorf("%w: duplicate currency symbol %q", apperrors.ErrValidation, ec.Symbol)
		}
		currencySeen[ec.Symbol] = true
		cur := domain.Currency{
			Symbol:      ec.Symbol,
			Name:        ec.Name,
			Rate:        ec.Rate,
			IsBase:      ec.Symbol == domain.BaseCurrencySymbol,
			UserID:      userID,
			AuditFields: audit,
		}
		if cur.IsBase {
			cur.Rate = decimal.NewFromInt(1)
		} else if cur.Rate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: currency %q rate must be positive", apperrors.ErrValidation, ec.Symbol)
		}
		currencies = append(currencies, cur)
	}
	if !currencySeen[domain.BaseCurrencySymbol] {
		base := domain.BaseCurrency(userID)
		base.AuditFields = audit
		currencies = append(currencies, base)
	}

	accounts := make([]domain.Account, 0, len(payload.Accounts))
	accountIDs := make(map[string]string, len(payload.Accounts))
	for _, ea := range payload.Accounts {
		if ea.Name == "" {
			return nil, fmt.Errorf("%w: account with empty name", apperrors.ErrValidation)
		}
		if _, dup := accountIDs[ea.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate account name %q", apperrors.ErrValidation, ea.Name)
		}
		if !domain.ValidAccountCategory(ea.Category) {
			return nil, fmt.Errorf("%w: account %q has unknown category %q", apperrors.ErrValidation, ea.Name, ea.Category)
		}
		id := uuid.NewString()
		accountIDs[ea.Name] = id
		accounts = append(accounts, domain.Account{
			AccountID:      id,
			UserID:         userID,
			Name:           ea.Name,
			Category:       ea.Category,
			CurrencySymbol: ea.CurrencySymbol,
			InitialBalance: ea.InitialBalance,
			AuditFields:    audit,
		})
	}

	// References flagged as orphaned in the payload are rebuilt as fresh
	// dangling ids, one per opaque name, so everything that pointed at the
	// same deleted document keeps pointing at the same (absent) id.
	orphanIDs := map[string]string{}
	mintOrphanID := func(opaqueName string) string {
		if id, ok := orphanIDs[opaqueName]; ok {
			return id
		}
		id := uuid.NewString()
		orphanIDs[opaqueName] = id
		return id
	}

	cards := make([]domain.Card, 0, len(payload.Cards))
	cardIDs := make(map[string]string, len(payload.Cards))
	for _, ec := range payload.Cards {
		if ec.Name == "" {
			return nil, fmt.Errorf("%w: card with empty name", apperrors.ErrValidation)
		}
		if _, dup := cardIDs[ec.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate card name %q", apperrors.ErrValidation, ec.Name)
		}
		var settlementID string
		if ec.SettlementAccountOrphaned && ec.SettlementAccountName != "" {
			settlementID = mintOrphanID(ec.SettlementAccountName)
		} else {
			id, ok := accountIDs[ec.SettlementAccountName]
			if !ok {
				return nil, fmt.Errorf("%w: card %q references unknown account %q", apperrors.ErrValidation, ec.Name, ec.SettlementAccountName)
			}
			settlementID = id
		}
		id := uuid.NewString()
		cardIDs[ec.Name] = id
		cards = append(cards, domain.Card{
			CardID:              id,
			UserID:              userID,
			Name:                ec.Name,
			PaymentDay:          ec.PaymentDay,
			UsageStartDay:       ec.UsageStartDay,
			UsageEndDay:         ec.UsageEndDay,
			SettlementAccountID: settlementID,
			AuditFields:         audit,
		})
	}

	txns := make([]domain.Transaction, len(payload.Transactions))
	for i, et := range payload.Transactions {
		ts, err := time.Parse(time.RFC3339, et.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %d has invalid timestamp %q", apperrors.ErrValidation, i, et.Timestamp)
		}
		txn := domain.Transaction{
			TransactionID:    uuid.NewString(),
			UserID:           userID,
			Kind:             et.Kind,
			Timestamp:        ts,
			Description:      et.Description,
			Memo:             et.Memo,
			Category:         et.Category,
			Amount:           et.Amount,
			IsPaid:           et.IsPaid,
			OriginalAmount:   et.OriginalAmount,
			OriginalCurrency: et.OriginalCurrency,
			AuditFields:      audit,
		}
		if et.AccountName != "" {
			if et.AccountOrphaned {
				txn.AccountID = mintOrphanID(et.AccountName)
			} else if id, ok := accountIDs[et.AccountName]; ok {
				txn.AccountID = id
			} else {
				return nil, fmt.Errorf("%w: transaction %d references unknown account %q", apperrors.ErrValidation, i, et.AccountName)
			}
		}
		if et.ToAccountName != "" {
			if et.ToAccountOrphaned {
				txn.ToAccountID = mintOrphanID(et.ToAccountName)
			} else if id, ok := accountIDs[et.ToAccountName]; ok {
				txn.ToAccountID = id
			} else {
				return nil, fmt.Errorf("%w: transaction %d references unknown account %q", apperrors.ErrValidation, i, et.ToAccountName)
			}
		}
		if et.CardName != "" {
			if et.CardOrphaned {
				txn.CardID = mintOrphanID(et.CardName)
			} else if id, ok := cardIDs[et.CardName]; ok {
				txn.CardID = id
			} else {
				return nil, fmt.Errorf("%w: transaction %d references unknown card %q", apperrors.ErrValidation, i, et.CardName)
			}
		}
		txns[i] = txn
	}
	// Second pass so index references can point forward as well as back.
	for i, et := range payload.Transactions {
		for _, ref := range et.PaidCardTransactionRefs {
			if ref < 0 || ref >= len(txns) {
				return nil, fmt.Errorf("%w: transaction %d has out-of-range payment reference %d", apperrors.ErrValidation, i, ref)
			}
			txns[i].PaidCardTransactionIDs = append(txns[i].PaidCardTransactionIDs, txns[ref].TransactionID)
		}
		if err := txns[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %s", apperrors.ErrValidation, i, err)
		}
	}

	schedules := make([]domain.Schedule, 0, len(payload.Schedules))
	for i, es := range payload.Schedules {
		due, err := time.Parse(time.RFC3339, es.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: schedule %d has invalid due date %q", apperrors.ErrValidation, i, es.DueDate)
		}
		var accountID string
		if es.AccountOrphaned && es.AccountName != "" {
			accountID = mintOrphanID(es.AccountName)
		} else {
			id, ok := accountIDs[es.AccountName]
			if !ok {
				return nil, fmt.Errorf("%w: schedule %d references unknown account %q", apperrors.ErrValidation, i, es.AccountName)
			}
			accountID = id
		}
		schedules = append(schedules, domain.Schedule{
			ScheduleID:  uuid.NewString(),
			UserID:      userID,
			Description: es.Description,
			Amount:      es.Amount,
			DueDate:     due,
			AccountID:   accountID,
			IsCompleted: es.IsCompleted,
			AuditFields: audit,
		})
	}

	categories := make([]domain.Category, 0, len(payload.Categories))
	for _, name := range payload.Categories {
		categories = append(categories, domain.Category{
			CategoryID:  uuid.NewString(),
			UserID:      userID,
			Name:        name,
			AuditFields: audit,
		})
	}
	memos := make([]domain.Memo, 0, len(payload.Memos))
	for _, em := range payload.Memos {
		memos = append(memos, domain.Memo{
			MemoID:      uuid.NewString(),
			UserID:      userID,
			Title:       em.Title,
			Content:     em.Content,
			AuditFields: audit,
		})
	}

	// Everything validated; now replace collection by collection.
	if err := s.repos.CurrencyRepo.ReplaceAllForUser(ctx, userID, currencies); err != nil {
		return nil, fmt.Errorf("failed to import currencies: %w", err)
	}
	if err := s.repos.AccountRepo.ReplaceAllForUser(ctx, userID, accounts); err != nil {
		return nil, fmt.Errorf("failed to import accounts: %w", err)
	}
	if err := s.repos.CardRepo.ReplaceAllForUser(ctx, userID, cards); err != nil {
		return nil, fmt.Errorf("failed to import cards: %w", err)
	}
	if err := s.repos.TransactionRepo.ReplaceAllForUser(ctx, userID, txns); err != nil {
		return nil, fmt.Errorf("failed to import transactions: %w", err)
	}
	if err := s.repos.ScheduleRepo.ReplaceAllForUser(ctx, userID, schedules); err != nil {
		return nil, fmt.Errorf("failed to import schedules: %w", err)
	}
	if err := s.repos.CategoryRepo.ReplaceAllForUser(ctx, userID, categories); err != nil {
		return nil, fmt.Errorf("failed to import categories: %w", err)
	}
	if err := s.repos.MemoRepo.ReplaceAllForUser(ctx, userID, memos); err != nil {
		return nil, fmt.Errorf("failed to import memos: %w", err)
	}

	logger.Info("JSON import completed",
		slog.Int("accounts", len(accounts)),
		slog.Int("transactions", len(txns)),
	)
	s.notifyChanged(ctx, userID)
	return &dto.ImportResult{
		Accounts:     len(accounts),
		Cards:        len(cards),
		Transactions: len(txns),
		Schedules:    len(schedules),
		Currencies:   len(currencies),
		Categories:   len(categories),
		Memos:        len(memos),
	}, nil
}

// ExportCSV writes the user's transactions as flat CSV rows. Payment
// transactions are omitted.
func (s *impexpService) ExportCSV(ctx context.Context, userID string) ([]byte, error) {
	c, err := s.loadAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	accountNames := make(map[string]string, len(c.accounts))
	for _, a := range c.accounts {
		accountNames[a.AccountID] = a.Name
	}
	cardNames := make(map[string]string, len(c.cards))
	for _, cd := range c.cards {
		cardNames[cd.CardID] = cd.Name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, t := range c.transactions {
		if t.Kind == domain.KindPayment {
			continue
		}
		originalAmount := ""
		if t.OriginalAmount != nil {
			originalAmount = t.OriginalAmount.String()
		}
		row := []string{
			string(t.Kind),
			t.Timestamp.UTC().Format(time.RFC3339),
			t.Description,
			t.Memo,
			t.Category,
			t.Amount.String(),
			accountNames[t.AccountID],
			accountNames[t.ToAccountID],
			cardNames[t.CardID],
			originalAmount,
			t.OriginalCurrency,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportCSV additively appends transactions parsed from CSV rows. Account and
// card references resolve against the user's existing collections by name.
// Card charges import as unpaid; payment rows are rejected.
func (s *impexpService) ImportCSV(ctx context.Context, userID string, data []byte) (int, error) {
	accounts, err := s.repos.AccountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list accounts: %w", err)
	}
	cards, err := s.repos.CardRepo.ListCardsByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to list cards: %w", err)
	}
	accountIDs := make(map[string]string, len(accounts))
	for _, a := range accounts {
		accountIDs[a.Name] = a.AccountID
	}
	cardIDs := make(map[string]string, len(cards))
	for _, cd := range cards {
		cardIDs[cd.Name] = cd.CardID
	}

	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("%w: malformed csv: %s", apperrors.ErrValidation, err)
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("%w: csv is empty", apperrors.ErrValidation)
	}
	if len(records[0]) != len(csvHeader) {
		return 0, fmt.Errorf("%w: csv header has %d columns, want %d", apperrors.ErrValidation, len(records[0]), len(csvHeader))
	}

	now := s.clock.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID}

	txns := make([]domain.Transaction, 0, len(records)-1)
	for i, row := range records[1:] {
		line := i + 2 // 1-based, after header
		kind := domain.TransactionKind(row[0])
		if kind == domain.KindPayment {
			return 0, fmt.Errorf("%w: line %d: payment rows cannot be imported from csv", apperrors.ErrValidation, line)
		}
		ts, err := time.Parse(time.RFC3339, row[1])
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: invalid timestamp %q", apperrors.ErrValidation, line, row[1])
		}
		amount, err := decimal.NewFromString(row[5])
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: invalid amount %q", apperrors.ErrValidation, line, row[5])
		}
		txn := domain.Transaction{
			TransactionID:    uuid.NewString(),
			UserID:           userID,
			Kind:             kind,
			Timestamp:        ts,
			Description:      row[2],
			Memo:             row[3],
			Category:         row[4],
			Amount:           amount,
			OriginalCurrency: row[10],
			AuditFields:      audit,
		}
		if row[9] != "" {
			original, err := decimal.NewFromString(row[9])
			if err != nil {
				return 0, fmt.Errorf("%w: line %d: invalid original amount %q", apperrors.ErrValidation, line, row[9])
			}
			txn.OriginalAmount = &original
		}
		if name := row[6]; name != "" {
			id, ok := accountIDs[name]
			if !ok {
				return 0, fmt.Errorf("%w: line %d: unknown account %q", apperrors.ErrValidation, line, name)
			}
			txn.AccountID = id
		}
		if name := row[7]; name != "" {
			id, ok := accountIDs[name]
			if !ok {
				return 0, fmt.Errorf("%w: line %d: unknown account %q", apperrors.ErrValidation, line, name)
			}
			txn.ToAccountID = id
		}
		if name := row[8]; name != "" {
			id, ok := cardIDs[name]
			if !ok {
				return 0, fmt.Errorf("%w: line %d: unknown card %q", apperrors.ErrValidation, line, name)
			}
			txn.CardID = id
		}
		if err := txn.Validate(); err != nil {
			return 0, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, line, err)
		}
		txns = append(txns, txn)
	}

	if err := s.repos.TransactionRepo.AppendTransactions(ctx, userID, txns); err != nil {
		return 0, fmt.Errorf("failed to append transactions: %w", err)
	}
	s.notifyChanged(ctx, userID)
	return len(txns), nil
}

func (s *impexpService) notifyChanged(ctx context.Context, userID string) {
	if s.notifier != nil {
		s.notifier.CollectionChanged(ctx, userID, portssvc.CollectionAll)
	}
}
