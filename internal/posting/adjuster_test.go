package posting_test

import (
	"errors"
	"testing"

	"github.com/valeriaulyamaeva/circle-finance-app/internal/posting"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

func TestAdjustBankIncomeAndExpense(t *testing.T) {
	bank := &models.Bank{RemainingAmount: 100}

	if err := posting.AdjustBank(bank, models.TransactionIncome, 50); err != nil {
		t.Fatalf("не ожидали ошибки при пополнении: %v", err)
	}
	if bank.RemainingAmount != 150 {
		t.Errorf("остаток после дохода: получили %.2f, хотели 150", bank.RemainingAmount)
	}

	if err := posting.AdjustBank(bank, models.TransactionExpense, 70); err != nil {
		t.Fatalf("не ожидали ошибки при списании: %v", err)
	}
	if bank.RemainingAmount != 80 {
		t.Errorf("остаток после расхода: получили %.2f, хотели 80", bank.RemainingAmount)
	}
}

func TestAdjustBankInsufficientLeavesBalanceUntouched(t *testing.T) {
	bank := &models.Bank{RemainingAmount: 10}

	err := posting.AdjustBank(bank, models.TransactionExpense, 50)
	if !errors.Is(err, posting.ErrInsufficientBank) {
		t.Fatalf("ожидали ErrInsufficientBank, получили: %v", err)
	}
	if bank.RemainingAmount != 10 {
		t.Errorf("остаток не должен меняться при отказе: получили %.2f", bank.RemainingAmount)
	}
}

func TestAdjustBudgetReversalWithNegativeAmount(t *testing.T) {
	// Сторнирование — та же операция с отрицательной величиной
	budget := &models.Budget{RemainingAmount: 400}

	if err := posting.AdjustBudget(budget, models.TransactionExpense, -100); err != nil {
		t.Fatalf("не ожидали ошибки при сторнировании: %v", err)
	}
	if budget.RemainingAmount != 500 {
		t.Errorf("остаток после сторнирования расхода: получили %.2f, хотели 500", budget.RemainingAmount)
	}
}

func TestAdjustGoalReversalBelowZeroSurfacesError(t *testing.T) {
	// Сторнирование дохода с цели, на которой меньше средств, чем было
	// зачислено, — признак нарушения целостности; ошибка должна всплыть
	goal := &models.Goal{CurrentAmount: 30}

	err := posting.AdjustGoal(goal, models.TransactionIncome, -50)
	if !errors.Is(err, posting.ErrInsufficientGoal) {
		t.Fatalf("ожидали ErrInsufficientGoal, получили: %v", err)
	}
	if goal.CurrentAmount != 30 {
		t.Errorf("сумма цели не должна меняться при отказе: получили %.2f", goal.CurrentAmount)
	}
}
