package posting

import (
	"context"

	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

// applyInclusive разносит эффект транзакции по всем inclusive-бюджетам круга
// с пересекающейся категорией. Явно привязанный бюджет (budget_id) из обхода
// исключается: он корректируется отдельным шагом и не должен быть затронут
// дважды за одну проводку. Правки делаются только в памяти (через state),
// поэтому ошибка на любом бюджете отменяет fan-out целиком — в хранилище
// ничего не попадает.
func (p *Poster) applyInclusive(ctx context.Context, state *postingState, transaction *models.Transaction, amount float64) error {
	budgets, err := p.budgets.ListBudgetsByCircle(ctx, transaction.CircleID)
	if err != nil {
		return err
	}

	for _, budget := range budgets {
		if budget.Scope != models.ScopeInclusive {
			continue
		}
		if transaction.BudgetID != nil && budget.ID == *transaction.BudgetID {
			continue
		}
		if !CategoriesIntersect(transaction.Categories, budget.Categories) {
			continue
		}
		if err := AdjustBudget(state.adoptBudget(budget), transaction.Type, amount); err != nil {
			return err
		}
	}
	return nil
}
