package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/dafibh/fortuna/insights-api/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockDataSource is an in-memory implementation of domain.DataSource.
// It returns every stored record for the user; filtering by period is left to the engine.
type MockDataSource struct {
	mu         sync.Mutex
	Expenses   map[string][]domain.Expense
	Categories map[string][]domain.Category
	Budgets    map[string][]domain.Budget

	ExpensesErr   error
	CategoriesErr error
	BudgetsErr    error

	Calls       map[string]int
	LastSession domain.Session
	LastMonths  int
	Invalidated []string
}

// NewMockDataSource creates a new MockDataSource
func NewMockDataSource() *MockDataSource {
	return &MockDataSource{
		Expenses:   make(map[string][]domain.Expense),
		Categories: make(map[string][]domain.Category),
		Budgets:    make(map[string][]domain.Budget),
		Calls:      make(map[string]int),
	}
}

// AddExpense stores an expense for a user
func (m *MockDataSource) AddExpense(userID string, e domain.Expense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Expenses[userID] = append(m.Expenses[userID], e)
}

// AddCategory stores a category for a user
func (m *MockDataSource) AddCategory(userID string, c domain.Category) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Categories[userID] = append(m.Categories[userID], c)
}

// AddBudget stores a budget for a user
func (m *MockDataSource) AddBudget(userID string, b domain.Budget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Budgets[userID] = append(m.Budgets[userID], b)
}

// CallCount returns how many times a method was called
func (m *MockDataSource) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[method]
}

func (m *MockDataSource) record(method string, session domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method]++
	m.LastSession = session
}

func (m *MockDataSource) expenses(userID string) ([]domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ExpensesErr != nil {
		return nil, m.ExpensesErr
	}
	return append([]domain.Expense(nil), m.Expenses[userID]...), nil
}

// GetSixMonthsExpenses returns the user's stored expenses
func (m *MockDataSource) GetSixMonthsExpenses(ctx context.Context, session domain.Session) ([]domain.Expense, error) {
	m.record("GetSixMonthsExpenses", session)
	return m.expenses(session.UserID)
}

// GetCustomExpenses returns the user's stored expenses and records months
func (m *MockDataSource) GetCustomExpenses(ctx context.Context, session domain.Session, months int) ([]domain.Expense, error) {
	m.record("GetCustomExpenses", session)
	m.mu.Lock()
	m.LastMonths = months
	m.mu.Unlock()
	return m.expenses(session.UserID)
}

// GetCurrentExpenses returns the user's stored expenses
func (m *MockDataSource) GetCurrentExpenses(ctx context.Context, session domain.Session) ([]domain.Expense, error) {
	m.record("GetCurrentExpenses", session)
	return m.expenses(session.UserID)
}

// GetCategories returns the user's stored categories
func (m *MockDataSource) GetCategories(ctx context.Context, session domain.Session) ([]domain.Category, error) {
	m.record("GetCategories", session)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CategoriesErr != nil {
		return nil, m.CategoriesErr
	}
	return append([]domain.Category(nil), m.Categories[session.UserID]...), nil
}

// GetBudgets returns the user's stored budgets
func (m *MockDataSource) GetBudgets(ctx context.Context, session domain.Session) ([]domain.Budget, error) {
	m.record("GetBudgets", session)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BudgetsErr != nil {
		return nil, m.BudgetsErr
	}
	return append([]domain.Budget(nil), m.Budgets[session.UserID]...), nil
}

// Invalidate records the user whose cache was dropped
func (m *MockDataSource) Invalidate(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidated = append(m.Invalidated, userID)
}

// MockPublisher captures published websocket events
type MockPublisher struct {
	mu     sync.Mutex
	Events map[string][]websocket.Event
}

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{Events: make(map[string][]websocket.Event)}
}

// Publish records the event
func (m *MockPublisher) Publish(userID string, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events[userID] = append(m.Events[userID], event)
}

// EventsFor returns the events published to a user
func (m *MockPublisher) EventsFor(userID string) []websocket.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]websocket.Event(nil), m.Events[userID]...)
}

// MockTokenVerifier accepts the tokens listed in Valid
type MockTokenVerifier struct {
	Valid map[string]bool
	Err   error
	mu    sync.Mutex
}

// VerifyToken returns domain.ErrUnauthorized for unknown tokens
func (m *MockTokenVerifier) VerifyToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if !m.Valid[token] {
		return domain.ErrUnauthorized
	}
	return nil
}

// Revoke makes token fail verification from now on
func (m *MockTokenVerifier) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Valid, token)
}

// Fixture categories shared across package tests
var (
	Food   = domain.Category{ID: 1, Name: "Food", ColorCode: "#ff6b6b", CategoryIcon: 3}
	Travel = domain.Category{ID: 2, Name: "Travel", ColorCode: "#4dabf7", CategoryIcon: 7}
	Bills  = domain.Category{ID: 3, Name: "Bills", ColorCode: "#ffd43b", CategoryIcon: 9}
)

// NewExpense builds an expense fixture
func NewExpense(id int64, cat domain.Category, amount string, date time.Time, method domain.PaymentMethod) domain.Expense {
	return domain.Expense{
		ID:            id,
		Amount:        decimal.RequireFromString(amount),
		Currency:      "INR",
		Category:      cat.Ref(),
		Date:          date,
		PaymentMethod: method,
	}
}

// NewBudget builds a budget fixture
func NewBudget(id int64, cat domain.Category, month, limit string) domain.Budget {
	return domain.Budget{
		ID:       id,
		Category: cat.Ref(),
		Month:    month,
		Amount:   decimal.RequireFromString(limit),
		Currency: "INR",
	}
}

// SeedUser fills ds with a month of data for userID: three October 2026 expenses,
// two September expenses and budgets for Food and Travel
func SeedUser(ds *MockDataSource, userID string) {
	ds.AddCategory(userID, Food)
	ds.AddCategory(userID, Travel)
	ds.AddCategory(userID, Bills)

	ds.AddBudget(userID, NewBudget(1, Food, "October 2026", "500"))
	ds.AddBudget(userID, NewBudget(2, Travel, "October 2026", "200"))

	day := func(m time.Month, d int) time.Time {
		return time.Date(2026, m, d, 12, 0, 0, 0, time.UTC)
	}
	ds.AddExpense(userID, NewExpense(1, Food, "100.00", day(10, 2), domain.PaymentMethodCash))
	ds.AddExpense(userID, NewExpense(2, Food, "250.50", day(10, 10), domain.PaymentMethodCard))
	ds.AddExpense(userID, NewExpense(3, Travel, "49.50", day(10, 15), domain.PaymentMethodUPI))
	ds.AddExpense(userID, NewExpense(4, Food, "200", day(9, 5), domain.PaymentMethodCash))
	ds.AddExpense(userID, NewExpense(5, Travel, "100", day(9, 20), domain.PaymentMethodCard))
}
