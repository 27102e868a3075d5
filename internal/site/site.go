package site

import (
	"os"
	"path/filepath"
)

var (
	heroCandidates    = []string{"hero.jpg", "Hero.jpg", "hero.png", "hero.svg", "Hero.png"}
	logoCandidates    = []string{"logo.png", "Logo.png", "logo.svg", "Logo.svg"}
	faviconCandidates = []string{"favicon.ico", "favicon.png", "favicon.svg"}
)

// Settings 每個頁面共用的站台設定
type Settings struct {
	SiteName   string
	HeroURL    string
	LogoURL    string
	FaviconURL string
}

// FindStaticImage 回傳 static/images 中第一個存在的檔案 URL
func FindStaticImage(baseDir string, candidates []string) (string, bool) {
	for _, name := range candidates {
		if _, err := os.Stat(filepath.Join(baseDir, "static", "images", name)); err == nil {
			return "/static/images/" + name, true
		}
	}
	return "", false
}

// Load 找不到圖片時使用預設路徑
func Load(baseDir, siteName string) Settings {
	return Settings{
		SiteName:   siteName,
		HeroURL:    imageOr(baseDir, heroCandidates, "/static/images/hero.jpg"),
		LogoURL:    imageOr(baseDir, logoCandidates, "/static/images/logo.png"),
		FaviconURL: imageOr(baseDir, faviconCandidates, "/static/images/favicon.svg"),
	}
}

func imageOr(baseDir string, candidates []string, fallback string) string {
	if url, ok := FindStaticImage(baseDir, candidates); ok {
		return url
	}
	return fallback
}
