package posting

import (
	"context"
	"slices"

	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

// Poster проводит транзакции: проверяет поля, корректирует остатки счета,
// бюджетов и цели в памяти и лишь затем отдает изменения хранилищу. Все
// вызовы одной операции идут через одно хранилище (в бою — одна транзакция
// БД), поэтому ошибка на любом шаге оставляет остатки нетронутыми.
type Poster struct {
	banks        BankStore
	budgets      BudgetStore
	goals        GoalStore
	transactions TransactionStore
}

func NewPoster(banks BankStore, budgets BudgetStore, goals GoalStore, transactions TransactionStore) *Poster {
	return &Poster{
		banks:        banks,
		budgets:      budgets,
		goals:        goals,
		transactions: transactions,
	}
}

// postingState — сущности, затронутые одной операцией. Каждая сущность
// загружается один раз: сторнирование и повторная проводка при правке
// работают с одним и тем же экземпляром, иначе вторая запись затерла бы
// первую дельту.
type postingState struct {
	banks   map[int]*models.Bank
	budgets map[int]*models.Budget
	goals   map[int]*models.Goal
}

func newPostingState() *postingState {
	return &postingState{
		banks:   make(map[int]*models.Bank),
		budgets: make(map[int]*models.Budget),
		goals:   make(map[int]*models.Goal),
	}
}

func (s *postingState) bank(ctx context.Context, store BankStore, bankID int) (*models.Bank, error) {
	if bank, ok := s.banks[bankID]; ok {
		return bank, nil
	}
	bank, err := store.GetBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	s.banks[bankID] = bank
	return bank, nil
}

func (s *postingState) budget(ctx context.Context, store BudgetStore, budgetID int) (*models.Budget, error) {
	if budget, ok := s.budgets[budgetID]; ok {
		return budget, nil
	}
	budget, err := store.GetBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	s.budgets[budgetID] = budget
	return budget, nil
}

// adoptBudget берет бюджет из выборки fan-out под контроль состояния. Если
// бюджет уже затронут ранее (например, при сторнировании в рамках правки),
// возвращается уже скорректированный экземпляр.
func (s *postingState) adoptBudget(budget models.Budget) *models.Budget {
	if cached, ok := s.budgets[budget.ID]; ok {
		return cached
	}
	copied := budget
	s.budgets[budget.ID] = &copied
	return &copied
}

func (s *postingState) goal(ctx context.Context, store GoalStore, goalID int) (*models.Goal, error) {
	if goal, ok := s.goals[goalID]; ok {
		return goal, nil
	}
	goal, err := store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	s.goals[goalID] = goal
	return goal, nil
}

// persist записывает все затронутые остатки обратно в хранилище.
func (s *postingState) persist(ctx context.Context, p *Poster) error {
	for _, bank := range s.banks {
		if err := p.banks.UpdateBankBalance(ctx, bank); err != nil {
			return err
		}
	}
	for _, budget := range s.budgets {
		if err := p.budgets.UpdateBudgetBalance(ctx, budget); err != nil {
			return err
		}
	}
	for _, goal := range s.goals {
		if err := p.goals.UpdateGoalBalance(ctx, goal); err != nil {
			return err
		}
	}
	return nil
}

func validateTransaction(transaction *models.Transaction) error {
	switch {
	case transaction.Title == "":
		return &ValidationError{Field: "title"}
	case transaction.Type != models.TransactionIncome && transaction.Type != models.TransactionExpense:
		return &ValidationError{Field: "type"}
	case len(transaction.Categories) == 0:
		return &ValidationError{Field: "categories"}
	case transaction.Amount <= 0:
		return &ValidationError{Field: "amount"}
	case transaction.BankID == 0:
		return &ValidationError{Field: "bank_id"}
	}
	return nil
}

// applyEffect применяет денежный эффект транзакции с заданной величиной.
// Положительная величина — проводка, отрицательная — сторнирование.
// Порядок фиксированный: счет, fan-out по inclusive-бюджетам, цель, явно
// привязанный бюджет.
func (p *Poster) applyEffect(ctx context.Context, state *postingState, transaction *models.Transaction, amount float64) error {
	bank, err := state.bank(ctx, p.banks, transaction.BankID)
	if err != nil {
		return err
	}
	if err := AdjustBank(bank, transaction.Type, amount); err != nil {
		return err
	}

	if err := p.applyInclusive(ctx, state, transaction, amount); err != nil {
		return err
	}

	if transaction.GoalID != nil {
		goal, err := state.goal(ctx, p.goals, *transaction.GoalID)
		if err != nil {
			return err
		}
		if err := AdjustGoal(goal, transaction.Type, amount); err != nil {
			return err
		}
	}

	if transaction.BudgetID != nil {
		budget, err := state.budget(ctx, p.budgets, *transaction.BudgetID)
		if err != nil {
			return err
		}
		if err := AdjustBudget(budget, transaction.Type, amount); err != nil {
			return err
		}
	}

	return nil
}

// PostTransaction проводит новую транзакцию и связывает ее с владельцем и
// совладельцами. При любой ошибке остатки в хранилище не меняются и строка
// транзакции не создается.
func (p *Poster) PostTransaction(ctx context.Context, transaction *models.Transaction, coOwnerIDs []int) error {
	if err := validateTransaction(transaction); err != nil {
		return err
	}

	state := newPostingState()
	if err := p.applyEffect(ctx, state, transaction, transaction.Amount); err != nil {
		return err
	}

	if err := p.transactions.CreateTransaction(ctx, transaction); err != nil {
		return err
	}
	if err := p.transactions.CreateUserTransaction(ctx, transaction.OwnerUserID, transaction.ID); err != nil {
		return err
	}
	for _, userID := range coOwnerIDs {
		if err := p.transactions.CreateUserTransaction(ctx, userID, transaction.ID); err != nil {
			return err
		}
	}

	return state.persist(ctx, p)
}

// mergeTransaction накладывает заполненные поля changes на сохраненную
// транзакцию. Нулевые значения означают «не менять»; nil budget_id/goal_id
// сохраняет текущую привязку.
func mergeTransaction(stored *models.Transaction, changes *models.Transaction) *models.Transaction {
	merged := *stored
	if changes.Title != "" {
		merged.Title = changes.Title
	}
	if changes.Description != "" {
		merged.Description = changes.Description
	}
	if changes.Type != "" {
		merged.Type = changes.Type
	}
	if len(changes.Categories) > 0 {
		merged.Categories = changes.Categories
	}
	if changes.Amount != 0 {
		merged.Amount = changes.Amount
	}
	if !changes.Date.IsZero() {
		merged.Date = changes.Date
	}
	if changes.Time != "" {
		merged.Time = changes.Time
	}
	if changes.BankID != 0 {
		merged.BankID = changes.BankID
	}
	if changes.BudgetID != nil {
		merged.BudgetID = changes.BudgetID
	}
	if changes.GoalID != nil {
		merged.GoalID = changes.GoalID
	}
	return &merged
}

func sameLink(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// monetaryChanged — затронуты ли поля, влияющие на остатки
func monetaryChanged(stored, merged *models.Transaction) bool {
	return stored.Amount != merged.Amount ||
		stored.Type != merged.Type ||
		!slices.Equal(stored.Categories, merged.Categories) ||
		stored.BankID != merged.BankID ||
		!sameLink(stored.BudgetID, merged.BudgetID) ||
		!sameLink(stored.GoalID, merged.GoalID)
}

// UpdateTransaction правит проведенную транзакцию. Если изменились денежные
// поля, эффект старой версии сторнируется по старой привязке, затем эффект
// новой версии проводится по новой привязке; оба шага работают с общим
// набором загруженных сущностей, так что правка без фактических изменений —
// чистый ноль для всех остатков.
func (p *Poster) UpdateTransaction(ctx context.Context, transactionID int, changes *models.Transaction) (*models.Transaction, error) {
	stored, err := p.transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if stored.Voided {
		return nil, ErrTransactionVoided
	}

	merged := mergeTransaction(stored, changes)
	if err := validateTransaction(merged); err != nil {
		return nil, err
	}

	state := newPostingState()
	if monetaryChanged(stored, merged) {
		if err := p.applyEffect(ctx, state, stored, -stored.Amount); err != nil {
			return nil, err
		}
		if err := p.applyEffect(ctx, state, merged, merged.Amount); err != nil {
			return nil, err
		}
	}

	if err := p.transactions.UpdateTransaction(ctx, merged); err != nil {
		return nil, err
	}
	if err := state.persist(ctx, p); err != nil {
		return nil, err
	}
	return merged, nil
}

// VoidTransaction аннулирует транзакцию: сторнирует ее денежный эффект и
// поднимает флаг voided. Доступно только владельцу; повторное аннулирование
// и правка аннулированной транзакции запрещены.
func (p *Poster) VoidTransaction(ctx context.Context, userID, transactionID int) error {
	stored, err := p.transactions.GetTransaction(ctx, transactionID)
	if err != nil {
		return err
	}
	if stored.OwnerUserID != userID {
		return ErrUnauthorized
	}
	if stored.Voided {
		return ErrTransactionVoided
	}

	state := newPostingState()
	if err := p.applyEffect(ctx, state, stored, -stored.Amount); err != nil {
		return err
	}

	stored.Voided = true
	if err := p.transactions.UpdateTransaction(ctx, stored); err != nil {
		return err
	}
	return state.persist(ctx, p)
}
