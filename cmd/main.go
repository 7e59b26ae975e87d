package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/circle-finance-app/internal/database"
	"github.com/valeriaulyamaeva/circle-finance-app/internal/posting"
	"github.com/valeriaulyamaeva/circle-finance-app/internal/routes"
	"github.com/valeriaulyamaeva/circle-finance-app/models"
	"github.com/valeriaulyamaeva/circle-finance-app/utils"
)

func ScheduleBudgetRenewal(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@monthly", func() {
		if err := database.UpdateExpiredBudgets(pool); err != nil {
			log.Printf("Ошибка продления истекших бюджетов: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи продления бюджетов: %v", err)
	}
	c.Start()
}

func ScheduleTransactionArchival(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		if err := database.ArchiveVoidedTransactions(pool); err != nil {
			log.Printf("Ошибка при переносе транзакций в архив: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи архивирования транзакций: %v", err)
	}
	c.Start()
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:3001" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

// statusForPostingError переводит ошибки движка проводок в HTTP-статусы
func statusForPostingError(err error) int {
	var validationErr *posting.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(err, posting.ErrInsufficientBank),
		errors.Is(err, posting.ErrInsufficientBudget),
		errors.Is(err, posting.ErrInsufficientGoal):
		return http.StatusBadRequest
	case errors.Is(err, posting.ErrBankNotFound),
		errors.Is(err, posting.ErrBudgetNotFound),
		errors.Is(err, posting.ErrGoalNotFound),
		errors.Is(err, posting.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, posting.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, posting.ErrTransactionVoided):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Ошибка загрузки .env файла: %v", err)
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	r := gin.Default()
	r.Use(CORSMiddleware())

	ScheduleBudgetRenewal(pool)
	ScheduleTransactionArchival(pool)

	// Пользовательские маршруты обслуживает mux-роутер
	r.Any("/api/*path", gin.WrapH(routes.SetupRouter(pool)))

	r.POST("/transactions", func(c *gin.Context) {
		var payload struct {
			models.Transaction
			UserID     int   `json:"user_id"`
			CoOwnerIDs []int `json:"co_owner_ids"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод", "details": err.Error()})
			return
		}

		if err := database.PostTransaction(context.Background(), pool, payload.UserID, &payload.Transaction, payload.CoOwnerIDs); err != nil {
			log.Printf("Ошибка проводки транзакции: %v", err)
			c.JSON(statusForPostingError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, payload.Transaction)
	})

	r.PUT("/transactions/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}
		var changes models.Transaction
		if err := c.ShouldBindJSON(&changes); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод"})
			return
		}

		updated, err := database.UpdatePostedTransaction(context.Background(), pool, id, &changes)
		if err != nil {
			log.Printf("Ошибка правки транзакции: %v", err)
			c.JSON(statusForPostingError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	r.PUT("/transactions/:id/void", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор пользователя"})
			return
		}

		if err := database.VoidPostedTransaction(context.Background(), pool, userID, id); err != nil {
			log.Printf("Ошибка аннулирования транзакции: %v", err)
			c.JSON(statusForPostingError(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Транзакция успешно аннулирована"})
	})

	r.GET("/transactions", func(c *gin.Context) {
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор пользователя"})
			return
		}
		voided := c.Query("voided") == "true"

		transactions, err := database.GetTransactionsByUser(pool, userID, voided)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения транзакций"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	})

	r.GET("/transactions/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}
		transaction, err := database.GetTransactionByID(pool, id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"transaction":     transaction,
			"category_labels": utils.CategoryLabels(transaction.Categories),
		})
	})

	r.POST("/banks", func(c *gin.Context) {
		var payload struct {
			models.Bank
			CoOwnerIDs []int `json:"co_owner_ids"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if err := database.CreateBank(pool, &payload.Bank, payload.CoOwnerIDs); err != nil {
			log.Printf("Ошибка при создании счета: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании счета"})
			return
		}
		c.JSON(http.StatusCreated, payload.Bank)
	})

	r.GET("/banks", func(c *gin.Context) {
		circleID, err := strconv.Atoi(c.Query("circle_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор круга"})
			return
		}
		banks, err := database.GetBanksByCircle(pool, circleID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении счетов"})
			return
		}
		c.JSON(http.StatusOK, banks)
	})

	r.PUT("/banks/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор счета"})
			return
		}
		var bank models.Bank
		if err := c.ShouldBindJSON(&bank); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		bank.ID = id
		if err := database.UpdateBank(pool, &bank); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении счета"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Счет успешно обновлен"})
	})

	r.DELETE("/banks/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор счета"})
			return
		}
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор пользователя"})
			return
		}
		if err := database.DeleteBank(pool, userID, id); err != nil {
			if errors.Is(err, posting.ErrUnauthorized) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Нет прав на удаление счета"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении счета"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Счет успешно удален"})
	})

	r.POST("/budgets", func(c *gin.Context) {
		var payload struct {
			models.Budget
			CoOwnerIDs []int `json:"co_owner_ids"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if err := database.CreateBudget(pool, &payload.Budget, payload.CoOwnerIDs); err != nil {
			log.Printf("Ошибка при создании бюджета: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании бюджета"})
			return
		}
		c.JSON(http.StatusCreated, payload.Budget)
	})

	r.GET("/budgets", func(c *gin.Context) {
		circleID, err := strconv.Atoi(c.Query("circle_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор круга"})
			return
		}
		budgets, err := database.GetBudgetsByCircle(pool, circleID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении бюджетов"})
			return
		}
		c.JSON(http.StatusOK, budgets)
	})

	r.GET("/budgets/:id/transactions", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		transactions, err := database.GetTransactionsByBudget(pool, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении транзакций бюджета"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	})

	r.PUT("/budgets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		var budget models.Budget
		if err := c.ShouldBindJSON(&budget); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		budget.ID = id
		if err := database.UpdateBudget(pool, &budget); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении бюджета"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет успешно обновлен"})
	})

	r.DELETE("/budgets/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор бюджета"})
			return
		}
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор пользователя"})
			return
		}
		if err := database.DeleteBudget(pool, userID, id); err != nil {
			if errors.Is(err, posting.ErrUnauthorized) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Нет прав на удаление бюджета"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении бюджета"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Бюджет успешно удален"})
	})

	r.POST("/goals", func(c *gin.Context) {
		var payload struct {
			models.Goal
			CoOwnerIDs []int `json:"co_owner_ids"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if err := database.CreateGoal(pool, &payload.Goal, payload.CoOwnerIDs); err != nil {
			log.Printf("Ошибка при создании цели: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании цели"})
			return
		}
		c.JSON(http.StatusCreated, payload.Goal)
	})

	r.GET("/goals", func(c *gin.Context) {
		circleID, err := strconv.Atoi(c.Query("circle_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор круга"})
			return
		}
		goals, err := database.GetGoalsByCircle(pool, circleID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении целей"})
			return
		}
		c.JSON(http.StatusOK, goals)
	})

	r.POST("/goals/:id/progress", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}
		var body struct {
			Progress decimal.Decimal `json:"progress"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if err := database.AddGoalProgress(pool, id, body.Progress); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Прогресс цели обновлен"})
	})

	r.DELETE("/goals/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}
		userID, err := strconv.Atoi(c.Query("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор пользователя"})
			return
		}
		if err := database.DeleteGoal(pool, userID, id); err != nil {
			if errors.Is(err, posting.ErrUnauthorized) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Нет прав на удаление цели"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении цели"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Цель успешно удалена"})
	})

	r.POST("/circles", func(c *gin.Context) {
		var body struct {
			Nickname string `json:"nickname"`
			UserID   int    `json:"user_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		circleID, err := database.CreateCircle(pool, body.Nickname, body.UserID)
		if err != nil {
			log.Printf("Ошибка при создании круга: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании круга"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"circle_id": circleID})
	})

	r.POST("/circles/join", func(c *gin.Context) {
		var body struct {
			Nickname string `json:"nickname"`
			UserID   int    `json:"user_id"`
			Role     string `json:"role"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}
		if body.Role == "" {
			body.Role = "adult"
		}
		if err := database.JoinCircle(pool, body.UserID, body.Nickname, body.Role); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при вступлении в круг"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Пользователь добавлен в круг"})
	})

	r.GET("/circles/:id/members", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор круга"})
			return
		}
		members, err := database.GetCircleMembers(pool, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении участников круга"})
			return
		}
		c.JSON(http.StatusOK, members)
	})

	r.GET("/circles/:id/transactions", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор круга"})
			return
		}
		voided := c.Query("voided") == "true"

		transactions, err := database.GetTransactionsByCircle(pool, id, voided)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения транзакций круга"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	})

	r.GET("/circles/:id/summary", func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор круга"})
			return
		}
		total, err := database.GetCircleTotalBalance(pool, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		income, expense, err := database.GetCircleMonthlySummary(pool, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		categoryExpenses, err := database.GetCircleCategoryExpenses(pool, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		currency := "TTD"
		if primary, err := database.GetPrimaryBankByCircle(pool, id); err == nil {
			currency = primary.Currency
		}

		// Счета в других валютах пересчитываются в валюту круга по кэшированным курсам
		banks, err := database.GetBanksByCircle(pool, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении счетов"})
			return
		}
		for _, bank := range banks {
			if bank.Currency == currency {
				continue
			}
			converted, err := utils.ConvertCurrency(bank.RemainingAmount, bank.Currency, currency)
			if err != nil {
				log.Printf("Ошибка пересчета валюты счета %d: %v", bank.ID, err)
				continue
			}
			total = total.Sub(decimal.NewFromFloat(bank.RemainingAmount)).Add(decimal.NewFromFloat(converted))
		}

		goals, err := database.GetGoalsByCircle(pool, id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении целей"})
			return
		}
		goalProgress := make([]gin.H, 0, len(goals))
		for _, goal := range goals {
			goalProgress = append(goalProgress, gin.H{
				"id":                  goal.ID,
				"title":               goal.Title,
				"remaining_to_target": goal.RemainingToTarget(),
				"achieved":            goal.Achieved(),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"total_balance":     utils.FormatAmount(total.InexactFloat64(), currency),
			"monthly_income":    income,
			"monthly_expense":   expense,
			"category_expenses": categoryExpenses,
			"goals":             goalProgress,
		})
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
