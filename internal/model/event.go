package model

import (
	"time"
)

type Event struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	Image       *string   `json:"image,omitempty" db:"image"`
	StartTime   time.Time `json:"start_time" db:"start_time"`
	EndTime     time.Time `json:"end_time" db:"end_time"`
	Venue       string    `json:"venue" db:"venue"`
	Price       float64   `json:"price" db:"price"`
	Capacity    int       `json:"capacity" db:"capacity"`
	CategoryID  *int      `json:"category_id,omitempty" db:"category_id"`
	OrganizerID *int      `json:"organizer_id,omitempty" db:"organizer_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// 查詢時 JOIN 出來，僅供顯示
	CategoryName *string `json:"category_name,omitempty" db:"-"`
}

// IsFree 價格為 0 時走免費報名流程
func (e *Event) IsFree() bool {
	return e.Price == 0
}

// OwnedBy 檢查活動主辦者是否為指定使用者
func (e *Event) OwnedBy(userID int) bool {
	return e.OrganizerID != nil && *e.OrganizerID == userID
}

// EventInput 活動表單原始欄位，時間與數字由 service 解析
type EventInput struct {
	Title       string `form:"title" validate:"required,max=255"`
	Description string `form:"description" validate:"required"`
	Image       string `form:"image" validate:"omitempty,max=255"`
	Category    string `form:"category" validate:"omitempty,numeric"`
	StartTime   string `form:"start_time" validate:"required"`
	EndTime     string `form:"end_time" validate:"required"`
	Venue       string `form:"venue" validate:"required,max=255"`
	Price       string `form:"price" validate:"required"`
	Capacity    string `form:"capacity" validate:"required"`
}

// EventFromModel 編輯頁面用，把既有活動轉回表單值
func EventFromModel(e *Event) EventInput {
	in := EventInput{
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime.Format(FormTimeLayout),
		EndTime:     e.EndTime.Format(FormTimeLayout),
		Venue:       e.Venue,
		Price:       formatPrice(e.Price),
		Capacity:    itoa(e.Capacity),
	}
	if e.Image != nil {
		in.Image = *e.Image
	}
	if e.CategoryID != nil {
		in.Category = itoa(*e.CategoryID)
	}
	return in
}

// EventFields 驗證並解析後的活動欄位
type EventFields struct {
	Title       string
	Description string
	Image       *string
	CategoryID  *int
	StartTime   time.Time
	EndTime     time.Time
	Venue       string
	Price       float64
	Capacity    int
}

// UpdateEventParams 僅更新非 nil 欄位，slug 不可修改
type UpdateEventParams struct {
	Title       *string
	Description *string
	Image       **string
	CategoryID  **int
	StartTime   *time.Time
	EndTime     *time.Time
	Venue       *string
	Price       *float64
	Capacity    *int
	OrganizerID *int
}

// EventFilter 列表查詢條件
type EventFilter struct {
	CategoryID *int
	Limit      int
	Offset     int
}
