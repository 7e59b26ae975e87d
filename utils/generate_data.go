package utils

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valeriaulyamaeva/circle-finance-app/internal/database"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

var demoCategories = []string{"bills", "transit", "groceries", "entertainment", "shopping"}

func randomCategories() []string {
	return []string{demoCategories[rand.Intn(len(demoCategories))]}
}

// GenerateTestUsers создает демонстрационных пользователей
func GenerateTestUsers(pool *pgxpool.Pool, numUsers int) []int {
	ids := make([]int, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Email:    gofakeit.Email(),
			Password: gofakeit.Password(true, true, true, false, false, 8), // Генерация случайного пароля
			Name:     gofakeit.Name(),
		}
		if err := database.RegisterUser(pool, user); err != nil {
			log.Fatalf("ошибка при добавлении пользователя: %v", err)
		}
		ids = append(ids, user.ID)
	}
	return ids
}

// GenerateTestCircle создает круг с набором счетов, бюджетов и целей
func GenerateTestCircle(pool *pgxpool.Pool, ownerID int, memberIDs []int) int {
	circleID, err := database.CreateCircle(pool, gofakeit.Username(), ownerID)
	if err != nil {
		log.Fatalf("ошибка при создании круга: %v", err)
	}

	for _, memberID := range memberIDs {
		circle, err := database.GetCircleByID(pool, circleID)
		if err != nil {
			log.Fatalf("ошибка при получении круга: %v", err)
		}
		if err := database.JoinCircle(pool, memberID, circle.Nickname, "adult"); err != nil {
			log.Fatalf("ошибка при добавлении участника круга: %v", err)
		}
		if err := database.SetActiveCircle(pool, memberID, circleID); err != nil {
			log.Fatalf("ошибка при переключении круга: %v", err)
		}
	}

	bank := &models.Bank{
		CircleID:    circleID,
		OwnerUserID: ownerID,
		Title:       gofakeit.Company(),
		Currency:    "TTD",
		Amount:      float64(gofakeit.IntRange(5000, 20000)),
		IsPrimary:   true,
	}
	if err := database.CreateBank(pool, bank, memberIDs); err != nil {
		log.Fatalf("ошибка при создании счета: %v", err)
	}

	now := time.Now()
	budget := &models.Budget{
		CircleID:    circleID,
		OwnerUserID: ownerID,
		BankID:      &bank.ID,
		Title:       gofakeit.BuzzWord(),
		Amount:      float64(gofakeit.IntRange(500, 2000)),
		Type:        models.BudgetExpense,
		Scope:       models.ScopeInclusive,
		Categories:  randomCategories(),
		StartDate:   now,
		EndDate:     now.AddDate(0, 1, 0),
	}
	if err := database.CreateBudget(pool, budget, memberIDs); err != nil {
		log.Fatalf("ошибка при создании бюджета: %v", err)
	}

	goal := &models.Goal{
		CircleID:     circleID,
		OwnerUserID:  ownerID,
		Title:        gofakeit.BuzzWord(),
		TargetAmount: float64(gofakeit.IntRange(1000, 5000)),
		Type:         models.GoalSavings,
		StartDate:    now,
		EndDate:      now.AddDate(0, 6, 0),
	}
	if err := database.CreateGoal(pool, goal, memberIDs); err != nil {
		log.Fatalf("ошибка при создании цели: %v", err)
	}

	return circleID
}

// GenerateTestTransactions проводит демонстрационные транзакции через движок,
// чтобы остатки счетов и бюджетов разошлись правдоподобно
func GenerateTestTransactions(pool *pgxpool.Pool, userID, bankID, numTransactions int) {
	for i := 0; i < numTransactions; i++ {
		transactionType := models.TransactionExpense
		if rand.Intn(3) == 0 {
			transactionType = models.TransactionIncome
		}

		transaction := &models.Transaction{
			BankID:      bankID,
			Title:       gofakeit.ProductName(),
			Description: gofakeit.Sentence(5),
			Type:        transactionType,
			Categories:  randomCategories(),
			Amount:      float64(gofakeit.IntRange(5, 200)),
			Date:        gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
			Time:        gofakeit.Date().Format("15:04"),
		}
		if err := database.PostTransaction(context.Background(), pool, userID, transaction, nil); err != nil {
			// Нехватка средств при случайных суммах — нормальная ситуация
			log.Printf("транзакция %q не проведена: %v", transaction.Title, err)
		}
	}
}
