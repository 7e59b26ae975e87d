package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Кэш курсов валют к USD. lastFetch и сама карта меняются только под ratesMu
var (
	ratesMu      sync.RWMutex
	cachedRates  = map[string]float64{}
	lastFetch    time.Time
	cacheTimeout = 1 * time.Hour
	apiURL       = "https://v6.exchangerate-api.com/v6/e8c2f4afec9e1abf33fd661d/latest/"
)

// Символы валют для отображения; балансовая математика всегда работает с
// числовыми суммами и сюда не заглядывает
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"RUB": "₽",
	"TTD": "TT$",
	"BYN": "Br",
}

// FormatAmount форматирует сумму для отображения: символ валюты и два знака
// после запятой
func FormatAmount(amount float64, currencyCode string) string {
	symbol, ok := currencySymbols[currencyCode]
	if !ok {
		symbol = currencyCode + " "
	}
	return symbol + decimal.NewFromFloat(amount).StringFixed(2)
}

// GetCurrencyRate возвращает курс валюты к USD. Устаревший кэш обновляется
// через внешний API; если API недоступен, отдается старый курс
func GetCurrencyRate(currencyCode string) (float64, error) {
	ratesMu.RLock()
	rate, ok := cachedRates[currencyCode]
	fresh := time.Since(lastFetch) < cacheTimeout
	ratesMu.RUnlock()

	if ok && fresh {
		return rate, nil
	}

	if err := fetchExchangeRates(); err != nil {
		log.Printf("Ошибка обновления курсов валют: %v", err)
		if ok {
			return rate, nil
		}
		return 0, err
	}

	ratesMu.RLock()
	defer ratesMu.RUnlock()
	if rate, ok := cachedRates[currencyCode]; ok {
		return rate, nil
	}
	return 0, fmt.Errorf("курс валюты %s не найден", currencyCode)
}

func fetchExchangeRates() error {
	client := http.Client{Timeout: 10 * time.Second}
	url := apiURL + "USD" // Базовая валюта API — USD

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		resp, err := client.Get(url)
		if err != nil {
			lastErr = err
			log.Printf("Ошибка запроса курсов валют (попытка %d): %v", attempt, err)
			time.Sleep(2 * time.Second)
			continue
		}

		var payload struct {
			ConversionRates map[string]float64 `json:"conversion_rates"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()

		switch {
		case resp.StatusCode != http.StatusOK:
			lastErr = fmt.Errorf("API курсов валют вернул статус %d", resp.StatusCode)
		case decodeErr != nil:
			lastErr = fmt.Errorf("ошибка разбора ответа API курсов валют: %v", decodeErr)
		case len(payload.ConversionRates) == 0:
			lastErr = errors.New("пустой ответ API курсов валют")
		default:
			ratesMu.Lock()
			for code, rate := range payload.ConversionRates {
				if rate > 0 {
					cachedRates[code] = rate
				}
			}
			lastFetch = time.Now()
			ratesMu.Unlock()
			return nil
		}

		log.Printf("Ошибка обновления курсов валют (попытка %d): %v", attempt, lastErr)
		time.Sleep(2 * time.Second)
	}

	return lastErr
}

// ConvertCurrency переводит сумму между валютами по кэшированным курсам
func ConvertCurrency(amount float64, fromCurrency, toCurrency string) (float64, error) {
	fromRate, err := GetCurrencyRate(fromCurrency)
	if err != nil {
		return 0, err
	}
	toRate, err := GetCurrencyRate(toCurrency)
	if err != nil {
		return 0, err
	}
	if fromRate == 0 || toRate == 0 {
		return 0, errors.New("некорректные курсы валют")
	}
	return amount * (toRate / fromRate), nil
}
