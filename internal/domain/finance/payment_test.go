package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitecost/backend/internal/domain/shared/valueobject"
)

func TestNewReceivedPayment(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("without VAT keeps base amount", func(t *testing.T) {
		rp, err := NewReceivedPayment("PAY-2026-0001", "Al Noor Contracting", decimal.NewFromInt(5000), false, valueobject.DefaultVATRate, valueobject.AED, PaymentMethodBankTransfer, date)
		require.NoError(t, err)
		assert.True(t, rp.Amount.Equal(decimal.NewFromInt(5000)))
		assert.True(t, rp.VATAmount.IsZero())
		assert.False(t, rp.IsVAT)
	})

	t.Run("with VAT adds tax on top", func(t *testing.T) {
		rp, err := NewReceivedPayment("PAY-2026-0002", "Al Noor Contracting", decimal.NewFromInt(1000), true, valueobject.DefaultVATRate, valueobject.AED, PaymentMethodCash, date)
		require.NoError(t, err)
		assert.True(t, rp.Amount.Equal(decimal.NewFromInt(1050)), "got %s", rp.Amount)
		assert.True(t, rp.VATAmount.Equal(decimal.NewFromInt(50)), "got %s", rp.VATAmount)
		assert.True(t, rp.BaseAmount().Equal(decimal.NewFromInt(1000)))
	})

	t.Run("empty currency defaults to AED", func(t *testing.T) {
		rp, err := NewReceivedPayment("PAY-2026-0003", "Client", decimal.NewFromInt(100), false, valueobject.DefaultVATRate, "", PaymentMethodCash, date)
		require.NoError(t, err)
		assert.Equal(t, valueobject.AED, rp.Currency)
	})

	t.Run("raises payment received event", func(t *testing.T) {
		rp, err := NewReceivedPayment("PAY-2026-0004", "Client", decimal.NewFromInt(100), false, valueobject.DefaultVATRate, valueobject.AED, PaymentMethodCash, date)
		require.NoError(t, err)
		events := rp.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypePaymentReceived, events[0].EventType())
	})

	t.Run("validation errors", func(t *testing.T) {
		_, err := NewReceivedPayment("", "Client", decimal.NewFromInt(100), false, valueobject.DefaultVATRate, valueobject.AED, PaymentMethodCash, date)
		assert.Error(t, err)

		_, err = NewReceivedPayment("PAY-1", "", decimal.NewFromInt(100), false, valueobject.DefaultVATRate, valueobject.AED, PaymentMethodCash, date)
		assert.Error(t, err)

		_, err = NewReceivedPayment("PAY-1", "Client", decimal.Zero, false, valueobject.DefaultVATRate, valueobject.AED, PaymentMethodCash, date)
		assert.Error(t, err)

		_, err = NewReceivedPayment("PAY-1", "Client", decimal.NewFromInt(100), false, valueobject.DefaultVATRate, valueobject.AED, "CARRIER_PIGEON", date)
		assert.Error(t, err)

		_, err = NewReceivedPayment("PAY-1", "Client", decimal.NewFromInt(100), false, valueobject.DefaultVATRate, valueobject.AED, PaymentMethodCash, time.Time{})
		assert.Error(t, err)
	})
}
