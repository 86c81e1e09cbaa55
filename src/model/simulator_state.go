package model

import "time"

// SimulatorState is the persisted copy of one user's paper-trading account.
// The account itself is stored as an opaque JSON document; the schema of that
// document belongs to the simulator package, not to the database.
type SimulatorState struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	StateJSON string    `gorm:"type:text;not null" json:"state_json"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
