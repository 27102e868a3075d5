package model

import "strconv"

// FormTimeLayout 對應 <input type="datetime-local">
const FormTimeLayout = "2006-01-02T15:04"

func itoa(n int) string {
	return strconv.Itoa(n)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
