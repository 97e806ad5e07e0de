package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBudgetPDFKey(t *testing.T) {
	userID := uuid.MustParse("6f1c2a9e-3b7d-4c55-9a0e-2f8b1d4e7c10")
	at := time.Unix(1760000000, 0)

	key := BudgetPDFKey(userID, 42, at)

	assert.Equal(t, "budgets/6f1c2a9e-3b7d-4c55-9a0e-2f8b1d4e7c10/42/orcamento_42_1760000000.pdf", key)
}

func TestBudgetPDFKey_UniquePerGeneration(t *testing.T) {
	userID := uuid.New()
	first := BudgetPDFKey(userID, 7, time.Unix(100, 0))
	second := BudgetPDFKey(userID, 7, time.Unix(101, 0))

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "budgets/"+userID.String()+"/7/"))
}
