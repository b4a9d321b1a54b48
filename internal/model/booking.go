package model

import (
	"time"
)

// Booking is a reservation extracted from a chat conversation.
type Booking struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	SessionID string    `json:"session_id" gorm:"type:varchar(64);index;not null"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	Email     string    `json:"email" gorm:"type:varchar(255)"`
	Date      string    `json:"date" gorm:"type:varchar(64)"`
	Time      string    `json:"time" gorm:"type:varchar(64)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Booking.
func (Booking) TableName() string {
	return "bookings"
}
