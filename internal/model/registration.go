package model

import "time"

type Registration struct {
	ID        int       `json:"id" db:"id"`
	EventID   int       `json:"event_id" db:"event_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// RegistrationInput 報名表單
type RegistrationInput struct {
	FullName string `form:"full_name" validate:"required,max=255"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Phone    string `form:"phone" validate:"omitempty,max=50"`
}

// RecentRegistration dashboard 最近報名列表，附活動名稱
type RecentRegistration struct {
	Registration
	EventTitle string `json:"event_title" db:"event_title"`
	EventSlug  string `json:"event_slug" db:"event_slug"`
}

// RegistrationOutcome 報名/結帳完成後回傳給呈現層
type RegistrationOutcome struct {
	Registration *Registration
	Event        *Event
	Notices      []Notice
}
