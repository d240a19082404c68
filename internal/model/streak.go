// internal/model/streak.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Streak は1ユーザーの連続学習日数を表します。
// セッションのコミット時にのみ更新されます（放棄されたセッションは対象外）。
type Streak struct {
	UserID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"-"`
	Current      int        `gorm:"not null;default:0" json:"current"`
	Best         int        `gorm:"not null;default:0" json:"best"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
	UpdatedAt    time.Time  `json:"-"`
}

func (Streak) TableName() string {
	return "streaks"
}

// StreakResponse はクライアントに返すストリーク情報
type StreakResponse struct {
	Current    int  `json:"current"`
	Best       int  `json:"best"`
	IsBroken   bool `json:"is_broken"`
	DaysMissed int  `json:"days_missed"`
}

// StatsResponse は全セット横断の学習統計
type StatsResponse struct {
	SetCount     int             `json:"set_count"`
	ItemCount    int             `json:"item_count"`
	TotalCorrect int             `json:"total_correct"`
	TotalWrong   int             `json:"total_wrong"`
	SuccessRate  float64         `json:"success_rate"` // 0.0 - 1.0
	ToughCount   int             `json:"tough_count"`
	Sets         []SetStatsEntry `json:"sets"`
}

// SetStatsEntry はセット単位の統計行
type SetStatsEntry struct {
	SetID     uuid.UUID `json:"set_id"`
	Title     string    `json:"title"`
	ItemCount int       `json:"item_count"`
	LastScore *int      `json:"last_score,omitempty"`
}
