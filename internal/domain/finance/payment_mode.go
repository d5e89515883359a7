package finance

// PaymentMode is how money changed hands
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "CASH"
	PaymentModeBankTransfer PaymentMode = "BANK_TRANSFER"
	PaymentModeUPI          PaymentMode = "UPI"
	PaymentModeCheque       PaymentMode = "CHEQUE"
	PaymentModeOther        PaymentMode = "OTHER"
)

// IsValid checks if the payment mode is valid
func (m PaymentMode) IsValid() bool {
	switch m {
	case PaymentModeCash, PaymentModeBankTransfer, PaymentModeUPI, PaymentModeCheque, PaymentModeOther:
		return true
	}
	return false
}

// String returns the string representation of PaymentMode
func (m PaymentMode) String() string {
	return string(m)
}
