package models

import (
	"time"
)

type TransactionType string

const (
	TransactionDeposit  TransactionType = "deposit"
	TransactionWithdraw TransactionType = "withdraw"
)

type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "pending"
	TransactionApproved TransactionStatus = "approved"
	TransactionRejected TransactionStatus = "rejected"
	TransactionFailed   TransactionStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s TransactionStatus) Terminal() bool {
	return s != TransactionPending
}

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionApproved, TransactionRejected, TransactionFailed:
		return true
	}
	return false
}

// Transaction is a deposit or withdrawal request awaiting (or past) admin settlement.
type Transaction struct {
	ID            string            `json:"id" gorm:"primaryKey"`
	UserID        string            `json:"user_id" gorm:"not null;index"`
	Type          TransactionType   `json:"type" gorm:"type:varchar(16);not null"`
	Amount        int64             `json:"amount" gorm:"not null;check:amount > 0"`
	Status        TransactionStatus `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`
	Proof         string            `json:"proof,omitempty"`
	AccountNumber string            `json:"account_number,omitempty"`
	AccountType   string            `json:"account_type,omitempty"`
	AccountName   string            `json:"account_name,omitempty"`
	AdminNote     string            `json:"admin_note,omitempty"`
	SettledBy     string            `json:"settled_by,omitempty"`
	SettledAt     *time.Time        `json:"settled_at,omitempty"`
	Timestamp     time.Time         `json:"timestamp" gorm:"not null;index"`

	// Denormalized from the owner for the admin list (not stored in DB)
	InGameName string `json:"in_game_name,omitempty" gorm:"-"`
	InGameUID  string `json:"in_game_uid,omitempty" gorm:"-"`
}

type LedgerReason string

const (
	LedgerSlotBooking   LedgerReason = "slot_booking"
	LedgerDeposit       LedgerReason = "deposit"
	LedgerWithdraw      LedgerReason = "withdraw"
	LedgerStartingGrant LedgerReason = "starting_grant"
)

// CoinLedgerEntry records one balance change; Amount is positive for credits.
type CoinLedgerEntry struct {
	ID           string       `json:"id" gorm:"primaryKey"`
	UserID       string       `json:"user_id" gorm:"not null;index"`
	Amount       int64        `json:"amount" gorm:"not null"`
	Reason       LedgerReason `json:"reason" gorm:"type:varchar(32);not null;index"`
	ReferenceID  string       `json:"reference_id,omitempty"`
	BalanceAfter int64        `json:"balance_after"`
	CreatedAt    time.Time    `json:"created_at" gorm:"autoCreateTime;index"`
}

func (CoinLedgerEntry) TableName() string {
	return "coin_ledger"
}
