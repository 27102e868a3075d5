package slug

import (
	"strconv"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// MaxBaseLength 保留空間給 -N 後綴
const MaxBaseLength = 200

// Make 把標題轉成 URL slug，空結果回傳 fallback
func Make(text, fallback string) string {
	s := gosimple.Make(text)
	if len(s) > MaxBaseLength {
		s = strings.TrimRight(s[:MaxBaseLength], "-")
	}
	if s == "" {
		return fallback
	}
	return s
}

// Unique 在 existing 中找出第一個未被使用的 base、base-1、base-2...
func Unique(base string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}

	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "-" + strconv.Itoa(i)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
