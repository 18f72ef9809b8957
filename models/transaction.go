package models

import "time"

const TransactionTable = "lib_transactions"

const (
	TransactionBorrow = "Borrow"
	TransactionReturn = "Return"
)

// Transaction records a checkout (IsStatus=true) or its closing return
// (IsStatus=false). LoanMaximum is the return deadline; past it the
// overdue worker raises a fine.
type Transaction struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	IDUser          uint       `gorm:"column:id_user;index;not null" json:"idUser"`
	IDBook          uint       `gorm:"column:id_book;index;not null" json:"idBook"`
	TransactionType string     `gorm:"size:20;not null" json:"transactionType"`
	TotalBook       int        `gorm:"not null;default:1" json:"totalBook"`
	LoanDate        time.Time  `gorm:"index;not null" json:"loanDate"`
	ReturnDate      *time.Time `gorm:"index" json:"returnDate,omitempty"`
	LoanMaximum     time.Time  `gorm:"not null" json:"loanMaximum"`
	IsStatus        bool       `gorm:"not null;default:true" json:"isStatus"`

	User User `gorm:"foreignKey:IDUser" json:"user,omitempty"`
	Book Book `gorm:"foreignKey:IDBook" json:"book,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Transaction) TableName() string { return TransactionTable }
