package utils

import "strings"

// Отображаемые названия категорий. Движок проводок работает только с сырыми
// ключами; названия нужны исключительно для JSON-ответов
var categoryLabels = map[string]string{
	"INCOME":        "Income",
	"BILLS":         "Bills",
	"TRANSIT":       "Transit",
	"GROCERIES":     "Groceries",
	"ENTERTAINMENT": "Entertainment",
	"SHOPPING":      "Shopping",
}

// CategoryLabel возвращает отображаемое название категории по ключу
func CategoryLabel(categoryKey string) string {
	if label, ok := categoryLabels[strings.ToUpper(categoryKey)]; ok {
		return label
	}
	return "Unknown Category"
}

// CategoryLabels возвращает названия для набора ключей
func CategoryLabels(categoryKeys []string) []string {
	labels := make([]string, 0, len(categoryKeys))
	for _, key := range categoryKeys {
		labels = append(labels, CategoryLabel(key))
	}
	return labels
}
