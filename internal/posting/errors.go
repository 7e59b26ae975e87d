package posting

import (
	"errors"
	"fmt"
)

// Ошибки нехватки средств: проверяются через errors.Is, текст называет сущность
var (
	ErrInsufficientBank   = errors.New("недостаточно средств на счете")
	ErrInsufficientBudget = errors.New("недостаточно средств в бюджете")
	ErrInsufficientGoal   = errors.New("недостаточно средств в цели")
)

var (
	ErrBankNotFound        = errors.New("счет не найден")
	ErrBudgetNotFound      = errors.New("бюджет не найден")
	ErrGoalNotFound        = errors.New("цель не найдена")
	ErrTransactionNotFound = errors.New("транзакция не найдена")
)

var (
	ErrUnauthorized      = errors.New("нет прав на выполнение операции")
	ErrTransactionVoided = errors.New("транзакция аннулирована и не подлежит изменению")
)

type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("не заполнено обязательное поле: %s", e.Field)
}
