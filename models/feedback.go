package models

import "time"

var FeedbackTypes = []string{"general", "bug", "feature", "complaint"}

type Feedback struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index"`
	Type      string    `json:"type" gorm:"type:varchar(16);not null;default:'general'"`
	Rating    int       `json:"rating" gorm:"check:rating BETWEEN 0 AND 5"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Feedback) TableName() string {
	return "feedback"
}
