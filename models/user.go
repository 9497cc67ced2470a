package models

import (
	"strings"
	"time"
)

// User usuário do app
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;size:191;not null"`
	Password  string    `json:"-" gorm:"size:255;not null"`
	JobType   *string   `json:"jobType" gorm:"size:50"` // ex.: Uber, Amazon Flex, Demae-can
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName nome da tabela
func (User) TableName() string {
	return "users"
}

// NormalizeEmail e-mails são comparados sempre em minúsculas
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PublicUser payload exposto em /api/me e no login
type PublicUser struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	JobType *string `json:"jobType"`
}

// Public devolve somente os campos seguros do usuário
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, JobType: u.JobType}
}
