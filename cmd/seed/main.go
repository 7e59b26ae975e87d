package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/valeriaulyamaeva/circle-finance-app/internal/database"
	"github.com/valeriaulyamaeva/circle-finance-app/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Ошибка загрузки .env файла: %v", err)
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	userIDs := utils.GenerateTestUsers(pool, 4)
	ownerID := userIDs[0]

	circleID := utils.GenerateTestCircle(pool, ownerID, userIDs[1:])
	log.Printf("Создан демонстрационный круг %d с %d участниками", circleID, len(userIDs))

	bank, err := database.GetPrimaryBankByCircle(pool, circleID)
	if err != nil {
		log.Fatalf("Ошибка получения счета круга: %v", err)
	}

	for _, userID := range userIDs {
		utils.GenerateTestTransactions(pool, userID, bank.ID, 15)
	}

	log.Println("Генерация демонстрационных данных завершена")
}
