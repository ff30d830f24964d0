package model

// Payment modes offered by the fee screens.
const (
	ModeCash = "Cash"
	ModeUPI  = "UPI"
	ModeBank = "Bank Transfer"
)

// Payment is one row of the fee payments sheet.
type Payment struct {
	PaymentID    string `json:"PaymentID,omitempty"`
	Date         string `json:"Date"`
	StudentID    string `json:"StudentID"`
	StudentName  string `json:"StudentName"`
	Amount       Number `json:"Amount"`
	Mode         string `json:"Mode"`
	Remark       string `json:"Remark,omitempty"`
	BalanceAfter Number `json:"BalanceAfter"`
}

// TotalPaid sums the payment amounts.
func TotalPaid(payments []Payment) Number {
	var total Number
	for _, p := range payments {
		total += p.Amount
	}
	return total
}
