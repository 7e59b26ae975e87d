package models_test

import (
	"testing"

	"github.com/valeriaulyamaeva/circle-finance-app/models"
)

func TestGoalRemainingToTarget(t *testing.T) {
	goal := models.Goal{TargetAmount: 2000, CurrentAmount: 750, Type: models.GoalSavings}
	if got := goal.RemainingToTarget(); got != 1250 {
		t.Errorf("остаток до цели: получили %f, хотели %f", got, 1250.0)
	}
	if goal.Achieved() {
		t.Errorf("цель с неполным прогрессом не должна считаться достигнутой")
	}
}

func TestGoalAchieved(t *testing.T) {
	goal := models.Goal{TargetAmount: 500, CurrentAmount: 500, Type: models.GoalSavings}
	if !goal.Achieved() {
		t.Errorf("цель с полным прогрессом должна считаться достигнутой")
	}
	if got := goal.RemainingToTarget(); got != 0 {
		t.Errorf("остаток достигнутой цели: получили %f, хотели %f", got, 0.0)
	}
}
