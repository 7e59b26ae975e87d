package database_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/valeriaulyamaeva/circle-finance-app/internal/database"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

// testPool подключается к тестовой БД или пропускает интеграционный тест
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if err := godotenv.Load(); err != nil {
		t.Skipf("нет .env, пропускаем интеграционный тест: %v", err)
	}
	pool, err := database.ConnectDB()
	if err != nil {
		t.Skipf("БД недоступна, пропускаем интеграционный тест: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// setupTestCircle создает пользователя, круг и основной счет для теста
func setupTestCircle(t *testing.T, pool *pgxpool.Pool) (userID, circleID, bankID int) {
	t.Helper()

	user := &models.User{
		Email:    gofakeit.Email(),
		Password: gofakeit.Password(true, true, true, false, false, 8),
		Name:     gofakeit.Name(),
	}
	if err := database.RegisterUser(pool, user); err != nil {
		t.Fatalf("ошибка регистрации пользователя: %v", err)
	}

	circleID, err := database.CreateCircle(pool, gofakeit.Username(), user.ID)
	if err != nil {
		t.Fatalf("ошибка создания круга: %v", err)
	}

	bank := &models.Bank{
		CircleID:    circleID,
		OwnerUserID: user.ID,
		Title:       "Основной счет",
		Currency:    "TTD",
		Amount:      1000.00,
		IsPrimary:   true,
	}
	if err := database.CreateBank(pool, bank, nil); err != nil {
		t.Fatalf("ошибка создания счета: %v", err)
	}

	return user.ID, circleID, bank.ID
}
