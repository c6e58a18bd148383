package analytics

import (
	"testing"

	"github.com/dafibh/fortuna/insights-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethods_SortedByAmount(t *testing.T) {
	records := []domain.Expense{
		expense(1, food, "100", day(2026, 10, 1), domain.PaymentMethodCard),
		expense(2, food, "300", day(2026, 10, 2), domain.PaymentMethodCash),
		expense(3, travel, "50", day(2026, 10, 3), domain.PaymentMethodCard),
	}

	got := PaymentMethods(records)

	require.Len(t, got, 2)
	assert.Equal(t, domain.PaymentMethodCash, got[0].Method)
	assert.True(t, got[0].Amount.Equal(amount("300")))
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, domain.PaymentMethodCard, got[1].Method)
	assert.True(t, got[1].Amount.Equal(amount("150")))
	assert.Equal(t, 2, got[1].Count)
}

func TestPaymentMethods_TiesKeepFirstSeenOrder(t *testing.T) {
	records := []domain.Expense{
		expense(1, food, "100", day(2026, 10, 1), domain.PaymentMethodUPI),
		expense(2, food, "100", day(2026, 10, 2), domain.PaymentMethodWallet),
		expense(3, food, "100", day(2026, 10, 3), domain.PaymentMethod("Crypto")),
	}

	got := PaymentMethods(records)

	require.Len(t, got, 3)
	assert.Equal(t, domain.PaymentMethodUPI, got[0].Method)
	assert.Equal(t, domain.PaymentMethodWallet, got[1].Method)
	assert.Equal(t, domain.PaymentMethod("Crypto"), got[2].Method)
}

func TestPaymentMethods_Empty(t *testing.T) {
	got := PaymentMethods(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
