package models

type PaymentRequest struct {
	DocumentCore `gorm:"embedded"`
	Purpose      string  `gorm:"not null" json:"purpose"`
	Payee        string  `gorm:"not null" json:"payee"`
	Amount       float64 `gorm:"not null;default:0" json:"amount"`
	Currency     string  `gorm:"type:varchar(8);default:'NGN'" json:"currency"`
	BankDetails  string  `gorm:"type:json" json:"bank_details"`
}

func (PaymentRequest) TableName() string { return "payment_requests" }

func (PaymentRequest) Kind() DocumentKind { return KindPaymentRequest }
