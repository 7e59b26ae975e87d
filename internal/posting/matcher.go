package posting

import "strings"

// CategoriesIntersect проверяет пересечение категорий транзакции и бюджета.
// Сравнение без учета регистра. Бюджет с пустым набором категорий не
// совпадает ни с чем: inclusive-бюджет без категорий ничего не отслеживает,
// а exclusive-бюджет привязывается только явно, по budget_id.
func CategoriesIntersect(transactionCategories, budgetCategories []string) bool {
	if len(budgetCategories) == 0 {
		return false
	}

	budgetSet := make(map[string]struct{}, len(budgetCategories))
	for _, category := range budgetCategories {
		budgetSet[strings.ToLower(category)] = struct{}{}
	}

	for _, category := range transactionCategories {
		if _, ok := budgetSet[strings.ToLower(category)]; ok {
			return true
		}
	}
	return false
}
