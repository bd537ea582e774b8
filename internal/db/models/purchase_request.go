package models

// PurchaseRequest covers procurement of goods and services. Line items are
// stored as a JSON snapshot; the engine never looks inside them.
type PurchaseRequest struct {
	DocumentCore `gorm:"embedded"`
	Purpose      string  `gorm:"not null" json:"purpose"`
	Items        string  `gorm:"type:json" json:"items"`
	TotalAmount  float64 `gorm:"not null;default:0" json:"total_amount"`
	Currency     string  `gorm:"type:varchar(8);default:'NGN'" json:"currency"`
	DeliveryTo   string  `json:"delivery_to"`
}

func (PurchaseRequest) TableName() string { return "purchase_requests" }

func (PurchaseRequest) Kind() DocumentKind { return KindPurchaseRequest }
