package crm

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank-transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit-card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCrypto       PaymentMethod = "crypto"
	PaymentMethodCheque       PaymentMethod = "cheque"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodOther        PaymentMethod = "other"
)

// IsValid checks if the method is a valid PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodPayPal,
		PaymentMethodCash, PaymentMethodCrypto, PaymentMethodCheque,
		PaymentMethodUPI, PaymentMethodOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentRecord represents a single payment applied to an invoice.
// It is a value object within the Invoice aggregate, stored as JSONB,
// and immutable once appended to the ledger.
type PaymentRecord struct {
	ID                  uuid.UUID       `json:"id"`
	Amount              decimal.Decimal `json:"amount"`
	Date                time.Time       `json:"date"`
	Method              PaymentMethod   `json:"method"`
	TransactionID       string          `json:"transaction_id,omitempty"`
	AccountNumber       string          `json:"account_number,omitempty"`
	CardLast4Digits     string          `json:"card_last4_digits,omitempty"`
	CryptoWalletAddress string          `json:"crypto_wallet_address,omitempty"`
	ChequeNumber        string          `json:"cheque_number,omitempty"`
	UPIID               string          `json:"upi_id,omitempty"`
	Notes               string          `json:"notes,omitempty"`
}

// PaymentRecords is a slice of PaymentRecord that implements GORM Scanner/Valuer for JSONB storage
type PaymentRecords []PaymentRecord

// Value implements driver.Valuer interface for GORM to store as JSONB
func (p PaymentRecords) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (p *PaymentRecords) Scan(value interface{}) error {
	if value == nil {
		*p = PaymentRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan PaymentRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*p = PaymentRecords{}
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Total returns the sum of all payment amounts in the ledger.
// The result is independent of record ordering.
func (p PaymentRecords) Total() decimal.Decimal {
	total := decimal.Zero
	for _, r := range p {
		total = total.Add(r.Amount)
	}
	return total
}

// Each payment method requires its own reference fields. A transaction
// reference is mandatory for every method except cash.
func (r *PaymentRecord) Validate() error {
	if !r.Method.IsValid() {
		return NewInvalidPaymentError("payment method is not valid")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return NewInvalidPaymentError("payment amount must be positive")
	}
	if r.Date.IsZero() {
		return NewInvalidPaymentError("payment date is required")
	}
	if r.Method != PaymentMethodCash && r.TransactionID == "" {
		return NewInvalidPaymentError("transaction ID is required for " + r.Method.String() + " payments")
	}
	switch r.Method {
	case PaymentMethodBankTransfer:
		if r.AccountNumber == "" {
			return NewInvalidPaymentError("account number is required for bank transfer payments")
		}
	case PaymentMethodCreditCard:
		if r.CardLast4Digits == "" {
			return NewInvalidPaymentError("card last 4 digits are required for credit card payments")
		}
	case PaymentMethodCrypto:
		if r.CryptoWalletAddress == "" {
			return NewInvalidPaymentError("wallet address is required for crypto payments")
		}
	case PaymentMethodCheque:
		if r.ChequeNumber == "" {
			return NewInvalidPaymentError("cheque number is required for cheque payments")
		}
	case PaymentMethodUPI:
		if r.UPIID == "" {
			return NewInvalidPaymentError("UPI ID is required for UPI payments")
		}
	}
	return nil
}

// newPaymentRecord builds the common part of a payment record
func newPaymentRecord(method PaymentMethod, amount decimal.Decimal, date time.Time) PaymentRecord {
	return PaymentRecord{
		ID:     uuid.New(),
		Amount: amount,
		Date:   date,
		Method: method,
	}
}

// NewBankTransferPayment creates a validated bank transfer payment record
func NewBankTransferPayment(amount decimal.Decimal, date time.Time, transactionID, accountNumber string) (PaymentRecord, error) {
	r := newPaymentRecord(PaymentMethodBankTransfer, amount, date)
	r.TransactionID = transactionID
	r.AccountNumber = accountNumber
	return r, r.Validate()
}

// NewCreditCardPayment creates a validated credit card payment record
func NewCreditCardPayment(amount decimal.Decimal, date time.Time, transactionID, cardLast4 string) (PaymentRecord, error) {
	r := newPaymentRecord(PaymentMethodCreditCard, amount, date)
	r.TransactionID = transactionID
	r.CardLast4Digits = cardLast4
	return r, r.Validate()
}

// NewCashPayment creates a validated cash payment record. Cash is the only
// method that does not require a transaction reference.
func NewCashPayment(amount decimal.Decimal, date time.Time) (PaymentRecord, error) {
	r := newPaymentRecord(PaymentMethodCash, amount, date)
	return r, r.Validate()
}

// NewCryptoPayment creates a validated crypto payment record
func NewCryptoPayment(amount decimal.Decimal, date time.Time, transactionID, walletAddress string) (PaymentRecord, error) {
	r := newPaymentRecord(PaymentMethodCrypto, amount, date)
	r.TransactionID = transactionID
	r.CryptoWalletAddress = walletAddress
	return r, r.Validate()
}

// NewChequePayment creates a validated cheque payment record
func NewChequePayment(amount decimal.Decimal, date time.Time, transactionID, chequeNumber string) (PaymentRecord, error) {
	r := newPaymentRecord(PaymentMethodCheque, amount, date)
	r.TransactionID = transactionID
	r.ChequeNumber = chequeNumber
	return r, r.Validate()
}

// NewUPIPayment creates a validated UPI payment record
func NewUPIPayment(amount decimal.Decimal, date time.Time, transactionID, upiID string) (PaymentRecord, error) {
	r := newPaymentRecord(PaymentMethodUPI, amount, date)
	r.TransactionID = transactionID
	r.UPIID = upiID
	return r, r.Validate()
}

// NewGenericPayment creates a validated payment record for paypal and other
// methods that only need a transaction reference
func NewGenericPayment(method PaymentMethod, amount decimal.Decimal, date time.Time, transactionID string) (PaymentRecord, error) {
	r := newPaymentRecord(method, amount, date)
	r.TransactionID = transactionID
	return r, r.Validate()
}
