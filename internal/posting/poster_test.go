package posting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/circle-finance-app/internal/posting"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

func intPtr(v int) *int { return &v }

func baseTransaction(bankID int) *models.Transaction {
	return &models.Transaction{
		CircleID:    1,
		OwnerUserID: 1,
		BankID:      bankID,
		Title:       "Продукты",
		Description: "Закупка на неделю",
		Type:        models.TransactionExpense,
		Categories:  []string{"groceries"},
		Amount:      100,
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Time:        "14:30",
	}
}

func TestPostExpenseAdjustsBankAndExclusiveBudget(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, Currency: "TTD", Amount: 1000, RemainingAmount: 1000})
	budgetID := stores.putBudget(models.Budget{
		CircleID: 1, BankID: intPtr(bankID), Scope: models.ScopeExclusive,
		Amount: 500, RemainingAmount: 500,
	})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	transaction.BudgetID = intPtr(budgetID)

	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	if got := stores.banks[bankID].RemainingAmount; got != 900 {
		t.Errorf("остаток счета: получили %.2f, хотели 900", got)
	}
	if got := stores.budgets[budgetID].RemainingAmount; got != 400 {
		t.Errorf("остаток бюджета: получили %.2f, хотели 400", got)
	}
	if transaction.ID == 0 {
		t.Errorf("транзакция не получила id после проводки")
	}
}

func TestPostExpenseFansOutToInclusiveBudget(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	inclusiveID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeInclusive,
		Categories: []string{"entertainment"}, RemainingAmount: 300,
	})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	transaction.Categories = []string{"entertainment"}
	transaction.Amount = 50
	// budget_id не задан: бюджет должен быть задет через fan-out, а не напрямую

	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	if got := stores.banks[bankID].RemainingAmount; got != 950 {
		t.Errorf("остаток счета: получили %.2f, хотели 950", got)
	}
	if got := stores.budgets[inclusiveID].RemainingAmount; got != 250 {
		t.Errorf("остаток inclusive-бюджета: получили %.2f, хотели 250", got)
	}
}

func TestFanOutMatchesOnlyIntersectingCategories(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 500})
	transitID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeInclusive, Categories: []string{"transit"}, RemainingAmount: 200,
	})
	shoppingID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeInclusive, Categories: []string{"shopping"}, RemainingAmount: 200,
	})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	transaction.Categories = []string{"transit"}
	transaction.Amount = 20

	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	if got := stores.budgets[transitID].RemainingAmount; got != 180 {
		t.Errorf("бюджет transit: получили %.2f, хотели 180", got)
	}
	if got := stores.budgets[shoppingID].RemainingAmount; got != 200 {
		t.Errorf("бюджет shopping не должен был измениться: получили %.2f", got)
	}
}

func TestExclusiveBudgetIgnoresCategoryMatch(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 500})
	exclusiveID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeExclusive, Categories: []string{"groceries"}, RemainingAmount: 200,
	})
	poster := newTestPoster(stores)

	// Категория совпадает, но явной привязки нет: exclusive-бюджет
	// не должен быть затронут
	transaction := baseTransaction(bankID)

	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	if got := stores.budgets[exclusiveID].RemainingAmount; got != 200 {
		t.Errorf("exclusive-бюджет без привязки не должен меняться: получили %.2f", got)
	}
}

func TestLinkedInclusiveBudgetAdjustedOnce(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 500})
	linkedID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeInclusive, Categories: []string{"groceries"}, RemainingAmount: 300,
	})
	poster := newTestPoster(stores)

	// Привязанный inclusive-бюджет совпадает и по категории: списание
	// должно пройти ровно один раз
	transaction := baseTransaction(bankID)
	transaction.BudgetID = intPtr(linkedID)

	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	if got := stores.budgets[linkedID].RemainingAmount; got != 200 {
		t.Errorf("привязанный бюджет должен быть задет один раз: получили %.2f, хотели 200", got)
	}
}

func TestInsufficientBankBalanceAbortsPosting(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 10})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	transaction.Amount = 50

	err := poster.PostTransaction(context.Background(), transaction, nil)
	if !errors.Is(err, posting.ErrInsufficientBank) {
		t.Fatalf("ожидали ErrInsufficientBank, получили: %v", err)
	}

	if got := stores.banks[bankID].RemainingAmount; got != 10 {
		t.Errorf("остаток счета не должен меняться при отказе: получили %.2f", got)
	}
	if len(stores.transactions) != 0 {
		t.Errorf("строка транзакции не должна создаваться при отказе")
	}
}

func TestFanOutFailureRollsBackWholePosting(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	firstID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeInclusive, Categories: []string{"bills"}, RemainingAmount: 500,
	})
	brokeID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeInclusive, Categories: []string{"bills"}, RemainingAmount: 5,
	})
	thirdID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeInclusive, Categories: []string{"bills"}, RemainingAmount: 500,
	})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	transaction.Categories = []string{"bills"}
	transaction.Amount = 40

	err := poster.PostTransaction(context.Background(), transaction, nil)
	if !errors.Is(err, posting.ErrInsufficientBudget) {
		t.Fatalf("ожидали ErrInsufficientBudget, получили: %v", err)
	}

	for _, id := range []int{firstID, thirdID} {
		if got := stores.budgets[id].RemainingAmount; got != 500 {
			t.Errorf("бюджет %d должен остаться 500: получили %.2f", id, got)
		}
	}
	if got := stores.budgets[brokeID].RemainingAmount; got != 5 {
		t.Errorf("бюджет-виновник должен остаться 5: получили %.2f", got)
	}
	if got := stores.banks[bankID].RemainingAmount; got != 1000 {
		t.Errorf("остаток счета должен остаться 1000: получили %.2f", got)
	}
	if len(stores.transactions) != 0 {
		t.Errorf("строка транзакции не должна создаваться при отказе fan-out")
	}
}

func TestIncomeFillsGoal(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 100})
	goalID := stores.putGoal(models.Goal{CircleID: 1, Type: models.GoalSavings, TargetAmount: 1000, CurrentAmount: 0})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	transaction.Type = models.TransactionIncome
	transaction.Categories = []string{"income"}
	transaction.Amount = 250
	transaction.GoalID = intPtr(goalID)

	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	if got := stores.goals[goalID].CurrentAmount; got != 250 {
		t.Errorf("накопление цели: получили %.2f, хотели 250", got)
	}
	if got := stores.banks[bankID].RemainingAmount; got != 350 {
		t.Errorf("остаток счета: получили %.2f, хотели 350", got)
	}
}

func TestInsufficientGoalAbortsPosting(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	goalID := stores.putGoal(models.Goal{CircleID: 1, Type: models.GoalExpense, TargetAmount: 500, CurrentAmount: 20})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	transaction.Amount = 80
	transaction.GoalID = intPtr(goalID)

	err := poster.PostTransaction(context.Background(), transaction, nil)
	if !errors.Is(err, posting.ErrInsufficientGoal) {
		t.Fatalf("ожидали ErrInsufficientGoal, получили: %v", err)
	}
	if got := stores.banks[bankID].RemainingAmount; got != 1000 {
		t.Errorf("остаток счета должен остаться 1000: получили %.2f", got)
	}
	if got := stores.goals[goalID].CurrentAmount; got != 20 {
		t.Errorf("сумма цели должна остаться 20: получили %.2f", got)
	}
}

func TestPostValidatesRequiredFields(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 100})
	poster := newTestPoster(stores)

	cases := []struct {
		name   string
		mutate func(*models.Transaction)
	}{
		{"без заголовка", func(tr *models.Transaction) { tr.Title = "" }},
		{"без типа", func(tr *models.Transaction) { tr.Type = "" }},
		{"без категорий", func(tr *models.Transaction) { tr.Categories = nil }},
		{"нулевая сумма", func(tr *models.Transaction) { tr.Amount = 0 }},
		{"отрицательная сумма", func(tr *models.Transaction) { tr.Amount = -5 }},
		{"без счета", func(tr *models.Transaction) { tr.BankID = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			transaction := baseTransaction(bankID)
			tc.mutate(transaction)

			err := poster.PostTransaction(context.Background(), transaction, nil)
			var validationErr *posting.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("ожидали ValidationError, получили: %v", err)
			}
			if got := stores.banks[bankID].RemainingAmount; got != 100 {
				t.Errorf("остаток не должен меняться при отказе валидации: получили %.2f", got)
			}
		})
	}
}

func TestPostUnknownBankReturnsNotFound(t *testing.T) {
	stores := newMemStores()
	poster := newTestPoster(stores)

	transaction := baseTransaction(99)

	err := poster.PostTransaction(context.Background(), transaction, nil)
	if !errors.Is(err, posting.ErrBankNotFound) {
		t.Fatalf("ожидали ErrBankNotFound, получили: %v", err)
	}
}

func TestPostAssociatesOwnerAndCoOwners(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 500})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)

	if err := poster.PostTransaction(context.Background(), transaction, []int{2, 3}); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	if len(stores.associations) != 3 {
		t.Fatalf("ожидали 3 связи пользователь-транзакция, получили %d", len(stores.associations))
	}
	// Владелец связывается первым
	if stores.associations[0][0] != 1 {
		t.Errorf("первая связь должна принадлежать владельцу: получили пользователя %d", stores.associations[0][0])
	}
}

func TestUpdateAmountAndBackRestoresBalances(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	budgetID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeExclusive, RemainingAmount: 500,
	})
	inclusiveID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeInclusive, Categories: []string{"groceries"}, RemainingAmount: 300,
	})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	transaction.BudgetID = intPtr(budgetID)
	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	// После проводки: счет 900, exclusive 400, inclusive 200
	if _, err := poster.UpdateTransaction(context.Background(), transaction.ID, &models.Transaction{Amount: 40}); err != nil {
		t.Fatalf("ошибка правки транзакции: %v", err)
	}
	if got := stores.banks[bankID].RemainingAmount; got != 960 {
		t.Errorf("остаток счета после правки: получили %.2f, хотели 960", got)
	}
	if got := stores.budgets[budgetID].RemainingAmount; got != 460 {
		t.Errorf("остаток exclusive-бюджета после правки: получили %.2f, хотели 460", got)
	}
	if got := stores.budgets[inclusiveID].RemainingAmount; got != 260 {
		t.Errorf("остаток inclusive-бюджета после правки: получили %.2f, хотели 260", got)
	}

	// Возврат исходной суммы восстанавливает все остатки в точности
	if _, err := poster.UpdateTransaction(context.Background(), transaction.ID, &models.Transaction{Amount: 100}); err != nil {
		t.Fatalf("ошибка обратной правки транзакции: %v", err)
	}
	if got := stores.banks[bankID].RemainingAmount; got != 900 {
		t.Errorf("остаток счета после обратной правки: получили %.2f, хотели 900", got)
	}
	if got := stores.budgets[budgetID].RemainingAmount; got != 400 {
		t.Errorf("остаток exclusive-бюджета после обратной правки: получили %.2f, хотели 400", got)
	}
	if got := stores.budgets[inclusiveID].RemainingAmount; got != 200 {
		t.Errorf("остаток inclusive-бюджета после обратной правки: получили %.2f, хотели 200", got)
	}
}

func TestUpdateMovesEffectToNewBank(t *testing.T) {
	stores := newMemStores()
	oldBankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	newBankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	poster := newTestPoster(stores)

	transaction := baseTransaction(oldBankID)
	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	if _, err := poster.UpdateTransaction(context.Background(), transaction.ID, &models.Transaction{BankID: newBankID}); err != nil {
		t.Fatalf("ошибка правки транзакции: %v", err)
	}

	if got := stores.banks[oldBankID].RemainingAmount; got != 1000 {
		t.Errorf("старый счет должен быть восстановлен: получили %.2f", got)
	}
	if got := stores.banks[newBankID].RemainingAmount; got != 900 {
		t.Errorf("новый счет должен быть списан: получили %.2f, хотели 900", got)
	}
}

func TestUpdateNonMonetaryFieldsSkipsBalances(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	updated, err := poster.UpdateTransaction(context.Background(), transaction.ID, &models.Transaction{Title: "Новый заголовок"})
	if err != nil {
		t.Fatalf("ошибка правки транзакции: %v", err)
	}

	if updated.Title != "Новый заголовок" {
		t.Errorf("заголовок не обновился: %q", updated.Title)
	}
	if got := stores.banks[bankID].RemainingAmount; got != 900 {
		t.Errorf("правка без денежных полей не должна трогать остатки: получили %.2f", got)
	}
}

func TestUpdateFailureLeavesBalancesUntouched(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	// Новая сумма больше, чем весь остаток плюс сторнированные 100
	_, err := poster.UpdateTransaction(context.Background(), transaction.ID, &models.Transaction{Amount: 2000})
	if !errors.Is(err, posting.ErrInsufficientBank) {
		t.Fatalf("ожидали ErrInsufficientBank, получили: %v", err)
	}

	if got := stores.banks[bankID].RemainingAmount; got != 900 {
		t.Errorf("остаток должен остаться как после первой проводки: получили %.2f", got)
	}
	stored := stores.transactions[transaction.ID]
	if stored.Amount != 100 {
		t.Errorf("сумма транзакции не должна измениться при отказе: получили %.2f", stored.Amount)
	}
}

func TestVoidReversesBalancesAndFreezesTransaction(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	inclusiveID := stores.putBudget(models.Budget{
		CircleID: 1, Scope: models.ScopeInclusive, Categories: []string{"groceries"}, RemainingAmount: 300,
	})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	if err := poster.PostTransaction(context.Background(), transaction, nil); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	if err := poster.VoidTransaction(context.Background(), 1, transaction.ID); err != nil {
		t.Fatalf("ошибка аннулирования транзакции: %v", err)
	}

	if got := stores.banks[bankID].RemainingAmount; got != 1000 {
		t.Errorf("остаток счета после аннулирования: получили %.2f, хотели 1000", got)
	}
	if got := stores.budgets[inclusiveID].RemainingAmount; got != 300 {
		t.Errorf("остаток бюджета после аннулирования: получили %.2f, хотели 300", got)
	}
	if !stores.transactions[transaction.ID].Voided {
		t.Errorf("флаг voided не выставлен")
	}

	// Повторное аннулирование и правка запрещены
	if err := poster.VoidTransaction(context.Background(), 1, transaction.ID); !errors.Is(err, posting.ErrTransactionVoided) {
		t.Errorf("повторное аннулирование: ожидали ErrTransactionVoided, получили %v", err)
	}
	if _, err := poster.UpdateTransaction(context.Background(), transaction.ID, &models.Transaction{Amount: 50}); !errors.Is(err, posting.ErrTransactionVoided) {
		t.Errorf("правка аннулированной: ожидали ErrTransactionVoided, получили %v", err)
	}
}

func TestVoidByNonOwnerUnauthorized(t *testing.T) {
	stores := newMemStores()
	bankID := stores.putBank(models.Bank{CircleID: 1, RemainingAmount: 1000})
	poster := newTestPoster(stores)

	transaction := baseTransaction(bankID)
	// Пользователь 2 — совладелец, но не создатель
	if err := poster.PostTransaction(context.Background(), transaction, []int{2}); err != nil {
		t.Fatalf("ошибка проводки транзакции: %v", err)
	}

	err := poster.VoidTransaction(context.Background(), 2, transaction.ID)
	if !errors.Is(err, posting.ErrUnauthorized) {
		t.Fatalf("ожидали ErrUnauthorized, получили: %v", err)
	}
	if got := stores.banks[bankID].RemainingAmount; got != 900 {
		t.Errorf("остаток не должен меняться при отказе в правах: получили %.2f", got)
	}
	if stores.transactions[transaction.ID].Voided {
		t.Errorf("флаг voided не должен быть выставлен")
	}
}
