package models

import "time"

// UserWordBalance is the per-user word ledger row, created lazily on first
// access and never deleted. Every mutation moves RemainingWords together with
// the matching purchased/used counter in a single UPDATE, so
// RemainingWords == TotalWordsPurchased - TotalWordsUsed always holds.
type UserWordBalance struct {
	ID                  string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID              string    `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex" json:"user_id"`
	RemainingWords      int64     `gorm:"column:remaining_words;type:bigint;not null;default:0" json:"remaining_words"`
	TotalWordsPurchased int64     `gorm:"column:total_words_purchased;type:bigint;not null;default:0" json:"total_words_purchased"`
	TotalWordsUsed      int64     `gorm:"column:total_words_used;type:bigint;not null;default:0" json:"total_words_used"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (UserWordBalance) TableName() string { return "user_word_balance" }
