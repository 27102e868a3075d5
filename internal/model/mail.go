package model

import (
	"time"

	"github.com/google/uuid"
)

// Mail 待寄送的通知信，經由佇列交給 mail worker
type Mail struct {
	ID        uuid.UUID `json:"id"`
	To        []string  `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMail(to, subject, body string) *Mail {
	return &Mail{
		ID:        uuid.New(),
		To:        []string{to},
		Subject:   subject,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}
