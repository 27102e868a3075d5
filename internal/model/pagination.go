package model

import "strconv"

// PageSize 活動列表每頁筆數
const PageSize = 6

// Page 分頁資訊
type Page struct {
	Number   int
	NumPages int
	Total    int
	PerPage  int
}

// NewPage 依總筆數與使用者傳入的頁碼字串計算實際頁碼
// 非整數或空字串 → 1；小於 1 → 1；超過最後一頁 → 最後一頁；沒有資料時仍有一頁
func NewPage(total, perPage int, raw string) Page {
	numPages := 1
	if total > 0 {
		numPages = (total + perPage - 1) / perPage
	}

	number, err := strconv.Atoi(raw)
	if err != nil || number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Page{Number: number, NumPages: numPages, Total: total, PerPage: perPage}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) PrevNumber() int {
	return p.Number - 1
}

func (p Page) NextNumber() int {
	return p.Number + 1
}

// EventListing 活動列表頁資料
type EventListing struct {
	Events           []*Event
	Page             Page
	Categories       []*Category
	SelectedCategory *Category
}

// DashboardStats dashboard 統計
type DashboardStats struct {
	TotalEvents        int
	TotalRegistrations int
}

type Dashboard struct {
	Events        []*Event
	Registrations []*RecentRegistration
	Stats         DashboardStats
}

// ManagedEvent 主辦者活動明細頁
type ManagedEvent struct {
	Event         *Event
	Registrations []*Registration
}
