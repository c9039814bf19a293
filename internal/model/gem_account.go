package model

import "time"

type GemAccount struct {
	UserID      string    `gorm:"column:user_id;primaryKey;type:varchar(64)"`
	Balance     int64     `gorm:"column:balance;not null;default:0"`
	TotalEarned int64     `gorm:"column:total_earned;not null;default:0"`
	TotalSpent  int64     `gorm:"column:total_spent;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (GemAccount) TableName() string {
	return "gem_accounts"
}

// Apply moves the balance by delta and books it to the matching running total.
func (a *GemAccount) Apply(delta int64) {
	a.Balance += delta
	if delta > 0 {
		a.TotalEarned += delta
	} else {
		a.TotalSpent += -delta
	}
}

func (a GemAccount) Consistent() bool {
	return a.Balance >= 0 && a.TotalEarned >= 0 && a.TotalSpent >= 0 &&
		a.Balance == a.TotalEarned-a.TotalSpent
}
