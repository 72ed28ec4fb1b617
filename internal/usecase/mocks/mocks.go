package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository with
// an in-memory default behavior. Any Func field overrides the default.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc        func(ctx context.Context, account *domain.Account) error
	GetByIDFunc       func(ctx context.Context, id, ownerID string) (*domain.Account, error)
	GetByIDTxFunc     func(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Account, error)
	UpdateFunc        func(ctx context.Context, account *domain.Account) error
	DeleteFunc        func(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error)
	ListFunc          func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error)
	AdjustBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (bool, error)
	SumBalancesFunc   func(ctx context.Context, ownerID string) (decimal.Decimal, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed adds an account directly to the in-memory store.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok && acc.OwnerID == ownerID {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Account, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id, ownerID)
	}
	return m.GetByID(ctx, id, ownerID)
}

func (m *MockAccountRepository) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok && acc.OwnerID == ownerID {
		delete(m.accounts, id)
		return true, nil
	}
	return false, nil
}

func (m *MockAccountRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.OwnerID == ownerID {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (bool, error) {
	if m.AdjustBalanceFunc != nil {
		return m.AdjustBalanceFunc(ctx, tx, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return false, nil
	}
	acc.CurrentValue = acc.CurrentValue.Add(delta)
	acc.UpdatedAt = updatedAt
	return true, nil
}

func (m *MockAccountRepository) SumBalances(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	if m.SumBalancesFunc != nil {
		return m.SumBalancesFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, acc := range m.accounts {
		if acc.OwnerID == ownerID {
			sum = sum.Add(acc.CurrentValue)
		}
	}
	return sum, nil
}

// MockCreditCardRepository is a mock implementation of CreditCardRepository.
type MockCreditCardRepository struct {
	mu    sync.RWMutex
	cards map[string]*domain.CreditCard

	CreateFunc          func(ctx context.Context, card *domain.CreditCard) error
	GetByIDFunc         func(ctx context.Context, id, ownerID string) (*domain.CreditCard, error)
	GetByIDTxFunc       func(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.CreditCard, error)
	UpdateFunc          func(ctx context.Context, card *domain.CreditCard) error
	DeleteFunc          func(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error)
	ListFunc            func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.CreditCard, error)
	AdjustBalanceFunc   func(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (bool, error)
	SumDebtAndLimitFunc func(ctx context.Context, ownerID string) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockCreditCardRepository() *MockCreditCardRepository {
	return &MockCreditCardRepository{cards: make(map[string]*domain.CreditCard)}
}

// Seed adds a card directly to the in-memory store.
func (m *MockCreditCardRepository) Seed(card *domain.CreditCard) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = card
}

func (m *MockCreditCardRepository) Create(ctx context.Context, card *domain.CreditCard) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, card)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = card
	return nil
}

func (m *MockCreditCardRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.CreditCard, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if card, ok := m.cards[id]; ok && card.OwnerID == ownerID {
		return card, nil
	}
	return nil, domain.ErrCreditCardNotFound
}

func (m *MockCreditCardRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.CreditCard, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id, ownerID)
	}
	return m.GetByID(ctx, id, ownerID)
}

func (m *MockCreditCardRepository) Update(ctx context.Context, card *domain.CreditCard) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, card)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = card
	return nil
}

func (m *MockCreditCardRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if card, ok := m.cards[id]; ok && card.OwnerID == ownerID {
		delete(m.cards, id)
		return true, nil
	}
	return false, nil
}

func (m *MockCreditCardRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.CreditCard, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var cards []*domain.CreditCard
	for _, card := range m.cards {
		if card.OwnerID == ownerID {
			cards = append(cards, card)
		}
	}
	return cards, nil
}

func (m *MockCreditCardRepository) AdjustBalance(ctx context.Context, tx usecase.Transaction, id string, delta decimal.Decimal, updatedAt time.Time) (bool, error) {
	if m.AdjustBalanceFunc != nil {
		return m.AdjustBalanceFunc(ctx, tx, id, delta, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return false, nil
	}
	card.CurrentValue = card.CurrentValue.Add(delta)
	card.UpdatedAt = updatedAt
	return true, nil
}

func (m *MockCreditCardRepository) SumDebtAndLimit(ctx context.Context, ownerID string) (decimal.Decimal, decimal.Decimal, error) {
	if m.SumDebtAndLimitFunc != nil {
		return m.SumDebtAndLimitFunc(ctx, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	debt, limit := decimal.Zero, decimal.Zero
	for _, card := range m.cards {
		if card.OwnerID == ownerID {
			debt = debt.Add(card.Debt())
			limit = limit.Add(card.LimitValue)
		}
	}
	return debt, limit, nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category

	CreateFunc    func(ctx context.Context, category *domain.Category) error
	GetByIDFunc   func(ctx context.Context, id, ownerID string) (*domain.Category, error)
	GetByIDTxFunc func(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Category, error)
	UpdateFunc    func(ctx context.Context, category *domain.Category) error
	DeleteFunc    func(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error)
	ListFunc      func(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Category, error)
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{categories: make(map[string]*domain.Category)}
}

// Seed adds a category directly to the in-memory store.
func (m *MockCategoryRepository) Seed(category *domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = category
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.categories[id]; ok && c.OwnerID == ownerID {
		return c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Category, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id, ownerID)
	}
	return m.GetByID(ctx, id, ownerID)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = category
	return nil
}

func (m *MockCategoryRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.categories[id]; ok && c.OwnerID == ownerID {
		delete(m.categories, id)
		return true, nil
	}
	return false, nil
}

func (m *MockCategoryRepository) List(ctx context.Context, ownerID string, limit, offset int) ([]*domain.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var categories []*domain.Category
	for _, c := range m.categories {
		if c.OwnerID == ownerID {
			categories = append(categories, c)
		}
	}
	return categories, nil
}

// MockTransactionRepository is a mock implementation of
// TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	GetByIDFunc         func(ctx context.Context, id, ownerID string) (*domain.Transaction, error)
	GetByIDTxFunc       func(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Transaction, error)
	UpdateFunc          func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error
	DeleteFunc          func(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error)
	ListFunc            func(ctx context.Context, ownerID string, filter domain.TransactionFilter, limit, offset int) ([]*domain.Transaction, error)
	CountByAccountFunc  func(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error)
	CountByCategoryFunc func(ctx context.Context, tx usecase.Transaction, categoryID string) (int64, error)
	SumByTypeFunc       func(ctx context.Context, ownerID string, from, to *time.Time) ([]usecase.KindTotal, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{transactions: make(map[string]*domain.Transaction)}
}

// Seed adds a transaction directly to the in-memory store.
func (m *MockTransactionRepository) Seed(t *domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[t.ID] = t
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *t
	m.transactions[t.ID] = &stored
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id, ownerID string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, ownerID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok && t.OwnerID == ownerID {
		copied := *t
		return &copied, nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDTx(ctx context.Context, tx usecase.Transaction, id, ownerID string) (*domain.Transaction, error) {
	if m.GetByIDTxFunc != nil {
		return m.GetByIDTxFunc(ctx, tx, id, ownerID)
	}
	return m.GetByID(ctx, id, ownerID)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *t
	m.transactions[t.ID] = &stored
	return nil
}

func (m *MockTransactionRepository) Delete(ctx context.Context, tx usecase.Transaction, id, ownerID string) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id, ownerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.transactions[id]; ok && t.OwnerID == ownerID {
		delete(m.transactions, id)
		return true, nil
	}
	return false, nil
}

func (m *MockTransactionRepository) List(ctx context.Context, ownerID string, filter domain.TransactionFilter, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, ownerID, filter, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, t := range m.transactions {
		if t.OwnerID != ownerID {
			continue
		}
		if filter.Type != nil && t.Type != *filter.Type {
			continue
		}
		if filter.AccountID != nil && t.AccountID != *filter.AccountID {
			continue
		}
		if filter.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Settled != nil && t.Settled != *filter.Settled {
			continue
		}
		copied := *t
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockTransactionRepository) CountByAccount(ctx context.Context, tx usecase.Transaction, accountID string) (int64, error) {
	if m.CountByAccountFunc != nil {
		return m.CountByAccountFunc(ctx, tx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, t := range m.transactions {
		if t.AccountID == accountID {
			count++
			continue
		}
		if t.TransferAccountID != nil && *t.TransferAccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (m *MockTransactionRepository) CountByCategory(ctx context.Context, tx usecase.Transaction, categoryID string) (int64, error) {
	if m.CountByCategoryFunc != nil {
		return m.CountByCategoryFunc(ctx, tx, categoryID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, t := range m.transactions {
		if t.CategoryID != nil && *t.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *MockTransactionRepository) SumByType(ctx context.Context, ownerID string, from, to *time.Time) ([]usecase.KindTotal, error) {
	if m.SumByTypeFunc != nil {
		return m.SumByTypeFunc(ctx, ownerID, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	totals := make(map[domain.TransactionType]*usecase.KindTotal)
	for _, t := range m.transactions {
		if t.OwnerID != ownerID {
			continue
		}
		if from != nil && t.OccurredAt.Before(*from) {
			continue
		}
		if to != nil && !t.OccurredAt.Before(*to) {
			continue
		}
		kt, ok := totals[t.Type]
		if !ok {
			kt = &usecase.KindTotal{Type: t.Type, Total: decimal.Zero}
			totals[t.Type] = kt
		}
		kt.Total = kt.Total.Add(t.Amount)
		kt.Count++
	}
	var result []usecase.KindTotal
	for _, kt := range totals {
		result = append(result, *kt)
	}
	return result, nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc     func(ctx context.Context, user *domain.User) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// MockTransaction is a mock atomic unit that records its outcome.
type MockTransaction struct {
	mu         sync.Mutex
	committed  bool
	rolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}

// Committed reports whether the unit committed.
func (m *MockTransaction) Committed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.committed
}

// RolledBack reports whether the unit rolled back before committing.
func (m *MockTransaction) RolledBack() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rolledBack
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	mu    sync.Mutex
	units []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	unit := &MockTransaction{}
	m.units = append(m.units, unit)
	return unit, nil
}

// Units returns every atomic unit handed out so far.
func (m *MockTransactionManager) Units() []*MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTransaction(nil), m.units...)
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + itoa(m.counter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
