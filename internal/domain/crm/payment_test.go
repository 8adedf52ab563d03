package crm

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var paymentDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestPaymentMethod_IsValid(t *testing.T) {
	valid := []PaymentMethod{
		PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodPayPal,
		PaymentMethodCash, PaymentMethodCrypto, PaymentMethodCheque,
		PaymentMethodUPI, PaymentMethodOther,
	}
	for _, m := range valid {
		assert.True(t, m.IsValid(), "%s should be valid", m)
	}
	assert.False(t, PaymentMethod("wire").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}

func TestPaymentRecord_Validate_ConditionalFields(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name    string
		record  PaymentRecord
		wantErr bool
	}{
		{
			"cash needs no transaction id",
			PaymentRecord{Method: PaymentMethodCash, Amount: amount, Date: paymentDate},
			false,
		},
		{
			"paypal without transaction id",
			PaymentRecord{Method: PaymentMethodPayPal, Amount: amount, Date: paymentDate},
			true,
		},
		{
			"paypal with transaction id",
			PaymentRecord{Method: PaymentMethodPayPal, Amount: amount, Date: paymentDate, TransactionID: "TXN-1"},
			false,
		},
		{
			"bank transfer without account number",
			PaymentRecord{Method: PaymentMethodBankTransfer, Amount: amount, Date: paymentDate, TransactionID: "TXN-1"},
			true,
		},
		{
			"bank transfer complete",
			PaymentRecord{Method: PaymentMethodBankTransfer, Amount: amount, Date: paymentDate, TransactionID: "TXN-1", AccountNumber: "0012345"},
			false,
		},
		{
			"credit card without last 4 digits",
			PaymentRecord{Method: PaymentMethodCreditCard, Amount: amount, Date: paymentDate, TransactionID: "TXN-1"},
			true,
		},
		{
			"credit card complete",
			PaymentRecord{Method: PaymentMethodCreditCard, Amount: amount, Date: paymentDate, TransactionID: "TXN-1", CardLast4Digits: "4242"},
			false,
		},
		{
			"crypto without wallet",
			PaymentRecord{Method: PaymentMethodCrypto, Amount: amount, Date: paymentDate, TransactionID: "TXN-1"},
			true,
		},
		{
			"cheque without cheque number",
			PaymentRecord{Method: PaymentMethodCheque, Amount: amount, Date: paymentDate, TransactionID: "TXN-1"},
			true,
		},
		{
			"upi without upi id",
			PaymentRecord{Method: PaymentMethodUPI, Amount: amount, Date: paymentDate, TransactionID: "TXN-1"},
			true,
		},
		{
			"upi complete",
			PaymentRecord{Method: PaymentMethodUPI, Amount: amount, Date: paymentDate, TransactionID: "TXN-1", UPIID: "egma@upi"},
			false,
		},
		{
			"zero amount",
			PaymentRecord{Method: PaymentMethodCash, Amount: decimal.Zero, Date: paymentDate},
			true,
		},
		{
			"negative amount",
			PaymentRecord{Method: PaymentMethodCash, Amount: decimal.NewFromInt(-5), Date: paymentDate},
			true,
		},
		{
			"missing date",
			PaymentRecord{Method: PaymentMethodCash, Amount: amount},
			true,
		},
		{
			"invalid method",
			PaymentRecord{Method: PaymentMethod("wire"), Amount: amount, Date: paymentDate},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPaymentConstructors(t *testing.T) {
	amount := decimal.NewFromInt(250)

	rec, err := NewBankTransferPayment(amount, paymentDate, "TXN-9", "ACC-1")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodBankTransfer, rec.Method)
	assert.NotEqual(t, rec.ID.String(), "00000000-0000-0000-0000-000000000000")

	_, err = NewBankTransferPayment(amount, paymentDate, "TXN-9", "")
	assert.Error(t, err)

	rec, err = NewCashPayment(amount, paymentDate)
	require.NoError(t, err)
	assert.Empty(t, rec.TransactionID)

	_, err = NewGenericPayment(PaymentMethodPayPal, amount, paymentDate, "")
	assert.Error(t, err)
}

func TestPaymentRecords_Total_OrderIndependent(t *testing.T) {
	a := PaymentRecord{Method: PaymentMethodCash, Amount: decimal.NewFromFloat(100.25), Date: paymentDate}
	b := PaymentRecord{Method: PaymentMethodCash, Amount: decimal.NewFromFloat(49.75), Date: paymentDate}
	c := PaymentRecord{Method: PaymentMethodCash, Amount: decimal.NewFromInt(300), Date: paymentDate}

	want := decimal.NewFromInt(450)
	assert.True(t, PaymentRecords{a, b, c}.Total().Equal(want))
	assert.True(t, PaymentRecords{c, b, a}.Total().Equal(want))
	assert.True(t, PaymentRecords{b, c, a}.Total().Equal(want))
}

func TestPaymentRecords_Total_Empty(t *testing.T) {
	assert.True(t, PaymentRecords{}.Total().IsZero())
	assert.True(t, PaymentRecords(nil).Total().IsZero())
}

func TestPaymentRecords_ScanValue_RoundTrip(t *testing.T) {
	records := PaymentRecords{
		{Method: PaymentMethodUPI, Amount: decimal.NewFromInt(75), Date: paymentDate, TransactionID: "TXN-1", UPIID: "egma@upi"},
	}

	raw, err := records.Value()
	require.NoError(t, err)

	var out PaymentRecords
	require.NoError(t, out.Scan(raw))
	require.Len(t, out, 1)
	assert.Equal(t, PaymentMethodUPI, out[0].Method)
	assert.True(t, out[0].Amount.Equal(decimal.NewFromInt(75)))
}

func TestPaymentRecords_Scan_Nil(t *testing.T) {
	var out PaymentRecords
	require.NoError(t, out.Scan(nil))
	assert.Empty(t, out)
}
