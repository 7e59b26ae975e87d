package posting_test

import (
	"context"
	"sort"

	"github.com/valeriaulyamaeva/circle-finance-app/internal/posting"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

// memStores — хранилище в памяти для тестов движка. Get* отдает копию, как и
// выборка из БД; изменения попадают обратно только через Update*.
type memStores struct {
	banks        map[int]models.Bank
	budgets      map[int]models.Budget
	goals        map[int]models.Goal
	transactions map[int]models.Transaction
	associations [][2]int // пары (userID, transactionID) в порядке вставки
	nextID       int
}

func newMemStores() *memStores {
	return &memStores{
		banks:        make(map[int]models.Bank),
		budgets:      make(map[int]models.Budget),
		goals:        make(map[int]models.Goal),
		transactions: make(map[int]models.Transaction),
		nextID:       1,
	}
}

func (m *memStores) putBank(bank models.Bank) int {
	bank.ID = m.nextID
	m.nextID++
	m.banks[bank.ID] = bank
	return bank.ID
}

func (m *memStores) putBudget(budget models.Budget) int {
	budget.ID = m.nextID
	m.nextID++
	m.budgets[budget.ID] = budget
	return budget.ID
}

func (m *memStores) putGoal(goal models.Goal) int {
	goal.ID = m.nextID
	m.nextID++
	m.goals[goal.ID] = goal
	return goal.ID
}

func (m *memStores) GetBank(_ context.Context, bankID int) (*models.Bank, error) {
	bank, ok := m.banks[bankID]
	if !ok {
		return nil, posting.ErrBankNotFound
	}
	copied := bank
	return &copied, nil
}

func (m *memStores) UpdateBankBalance(_ context.Context, bank *models.Bank) error {
	m.banks[bank.ID] = *bank
	return nil
}

func (m *memStores) GetBudget(_ context.Context, budgetID int) (*models.Budget, error) {
	budget, ok := m.budgets[budgetID]
	if !ok {
		return nil, posting.ErrBudgetNotFound
	}
	copied := budget
	return &copied, nil
}

func (m *memStores) ListBudgetsByCircle(_ context.Context, circleID int) ([]models.Budget, error) {
	var budgets []models.Budget
	for _, budget := range m.budgets {
		if budget.CircleID == circleID {
			budgets = append(budgets, budget)
		}
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].ID < budgets[j].ID })
	return budgets, nil
}

func (m *memStores) UpdateBudgetBalance(_ context.Context, budget *models.Budget) error {
	m.budgets[budget.ID] = *budget
	return nil
}

func (m *memStores) GetGoal(_ context.Context, goalID int) (*models.Goal, error) {
	goal, ok := m.goals[goalID]
	if !ok {
		return nil, posting.ErrGoalNotFound
	}
	copied := goal
	return &copied, nil
}

func (m *memStores) UpdateGoalBalance(_ context.Context, goal *models.Goal) error {
	m.goals[goal.ID] = *goal
	return nil
}

func (m *memStores) GetTransaction(_ context.Context, transactionID int) (*models.Transaction, error) {
	transaction, ok := m.transactions[transactionID]
	if !ok {
		return nil, posting.ErrTransactionNotFound
	}
	copied := transaction
	return &copied, nil
}

func (m *memStores) CreateTransaction(_ context.Context, transaction *models.Transaction) error {
	transaction.ID = m.nextID
	m.nextID++
	m.transactions[transaction.ID] = *transaction
	return nil
}

func (m *memStores) UpdateTransaction(_ context.Context, transaction *models.Transaction) error {
	m.transactions[transaction.ID] = *transaction
	return nil
}

func (m *memStores) CreateUserTransaction(_ context.Context, userID, transactionID int) error {
	m.associations = append(m.associations, [2]int{userID, transactionID})
	return nil
}

func newTestPoster(m *memStores) *posting.Poster {
	return posting.NewPoster(m, m, m, m)
}
