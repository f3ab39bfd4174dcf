package models

import (
	"time"

	"gorm.io/gorm"
)

// Job status values. A job only ever moves processing -> completed or
// processing -> failed.
const (
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

type User struct {
	gorm.Model
	Email         string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName     string `json:"firstName" gorm:"size:100"`
	LastName      string `json:"lastName" gorm:"size:100"`
	Password      string `json:"-" gorm:"size:255"`
	Plan          string `json:"plan" gorm:"size:50;default:'Free'"`
	CreditBalance int    `json:"creditBalance" gorm:"not null;default:0"`
}

type EnhancementJob struct {
	gorm.Model
	UserID           uint       `json:"userId" gorm:"not null;index"`
	Status           string     `json:"status" gorm:"size:20;not null;default:'processing'"`
	OriginalImageURL string     `json:"originalImageUrl" gorm:"type:text;not null"`
	Prompt           string     `json:"prompt" gorm:"type:text"`
	Preset           string     `json:"preset" gorm:"size:50"`
	EnhancedImageURL string     `json:"enhancedImageUrl,omitempty" gorm:"type:text"`
	ErrorMessage     string     `json:"errorMessage,omitempty" gorm:"type:text"`
	CreditsUsed      int        `json:"creditsUsed" gorm:"not null;default:1"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
}

type Purchase struct {
	gorm.Model
	UserID           uint   `json:"userId" gorm:"not null;index"`
	PlanType         string `json:"planType" gorm:"size:50"`
	CreditsPurchased int    `json:"creditsPurchased" gorm:"not null"`
	AmountCents      int64  `json:"amountCents" gorm:"not null"`
	Currency         string `json:"currency" gorm:"size:3"`
	StripeSessionID  string `json:"stripeSessionId" gorm:"uniqueIndex;size:255;not null"`
	CustomerEmail    string `json:"customerEmail" gorm:"size:255"`
}
