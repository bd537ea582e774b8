package models

type StaffStrategy struct {
	DocumentCore `gorm:"embedded"`
	Title        string `gorm:"not null" json:"title"`
	Objectives   string `gorm:"type:text" json:"objectives"`
	KeyResults   string `gorm:"type:text" json:"key_results"`
	Quarter      string `gorm:"type:varchar(8)" json:"quarter"`
}

func (StaffStrategy) TableName() string { return "staff_strategies" }

func (StaffStrategy) Kind() DocumentKind { return KindStaffStrategy }
