package posting

import (
	"context"

	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

// Хранилища отдают свежую копию сущности при каждом Get: движок правит остатки
// в памяти и записывает их обратно только на стадии коммита. Отсутствующая
// сущность — соответствующая ошибка Err*NotFound.

type BankStore interface {
	GetBank(ctx context.Context, bankID int) (*models.Bank, error)
	UpdateBankBalance(ctx context.Context, bank *models.Bank) error
}

type BudgetStore interface {
	GetBudget(ctx context.Context, budgetID int) (*models.Budget, error)
	// ListBudgetsByCircle возвращает бюджеты круга по возрастанию id —
	// порядок обхода при fan-out должен быть детерминированным
	ListBudgetsByCircle(ctx context.Context, circleID int) ([]models.Budget, error)
	UpdateBudgetBalance(ctx context.Context, budget *models.Budget) error
}

type GoalStore interface {
	GetGoal(ctx context.Context, goalID int) (*models.Goal, error)
	UpdateGoalBalance(ctx context.Context, goal *models.Goal) error
}

type TransactionStore interface {
	GetTransaction(ctx context.Context, transactionID int) (*models.Transaction, error)
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	UpdateTransaction(ctx context.Context, transaction *models.Transaction) error
	// CreateUserTransaction связывает пользователя с транзакцией (совладельцы)
	CreateUserTransaction(ctx context.Context, userID, transactionID int) error
}
