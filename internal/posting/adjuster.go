package posting

import "github.com/valeriaulyamaeva/circle-finance-app/models"

// Factor возвращает знак изменения остатка: доход пополняет, расход списывает.
func Factor(transactionType models.TransactionType) float64 {
	if transactionType == models.TransactionIncome {
		return 1
	}
	return -1
}

// adjustBalance применяет дельту к остатку и следит, чтобы он не ушел в минус.
// При нехватке средств остаток не меняется. Amount может быть отрицательным —
// так сторнируется ранее проведенная транзакция; проверка на минус выполняется
// и при сторнировании: отрицательный итог означает нарушение целостности
// данных и должен всплыть, а не быть молча пропущенным.
func adjustBalance(balance *float64, transactionType models.TransactionType, amount float64, insufficient error) error {
	next := *balance + Factor(transactionType)*amount
	if next < 0 {
		return insufficient
	}
	*balance = next
	return nil
}

func AdjustBank(bank *models.Bank, transactionType models.TransactionType, amount float64) error {
	return adjustBalance(&bank.RemainingAmount, transactionType, amount, ErrInsufficientBank)
}

func AdjustBudget(budget *models.Budget, transactionType models.TransactionType, amount float64) error {
	return adjustBalance(&budget.RemainingAmount, transactionType, amount, ErrInsufficientBudget)
}

func AdjustGoal(goal *models.Goal, transactionType models.TransactionType, amount float64) error {
	return adjustBalance(&goal.CurrentAmount, transactionType, amount, ErrInsufficientGoal)
}
