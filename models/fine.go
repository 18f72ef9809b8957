package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const FineTable = "lib_fines"

// Fine status moves one way: pending/failed -> success. Success is terminal.
const (
	FineStatusPending = "pending"
	FineStatusFailed  = "failed"
	FineStatusSuccess = "success"
)

type Fine struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	IDUser        uint            `gorm:"column:id_user;index;not null" json:"idUser"`
	IDBook        uint            `gorm:"column:id_book;index;not null" json:"idBook"`
	IDTransaction uint            `gorm:"column:id_transaction;uniqueIndex;not null" json:"idTransaction"`
	TotalDay      int             `gorm:"not null" json:"totalDay"`
	TotalFine     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalFine"`
	Status        string          `gorm:"size:20;not null;default:'pending'" json:"status"`

	// Payment gateway bookkeeping for the current settlement attempt.
	OrderID      string `gorm:"size:64;index" json:"-"`
	PaymentToken string `gorm:"size:128" json:"-"`

	User User `gorm:"foreignKey:IDUser" json:"user,omitempty"`
	Book Book `gorm:"foreignKey:IDBook" json:"book,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Fine) TableName() string { return FineTable }

// NewOverdueFine builds the pending fine for one overdue transaction:
// days late times the per-day amount.
func NewOverdueFine(t *Transaction, totalDay int, finePerDay int64) *Fine {
	return &Fine{
		IDUser:        t.IDUser,
		IDBook:        t.IDBook,
		IDTransaction: t.ID,
		TotalDay:      totalDay,
		TotalFine:     decimal.NewFromInt(finePerDay).Mul(decimal.NewFromInt(int64(totalDay))),
		Status:        FineStatusPending,
	}
}

// Paid reports whether the fine reached its terminal state.
func (f *Fine) Paid() bool { return f.Status == FineStatusSuccess }
