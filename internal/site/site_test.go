package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		s := Load(t.TempDir(), "AuraLink")

		assert.Equal(t, "AuraLink", s.SiteName)
		assert.Equal(t, "/static/images/hero.jpg", s.HeroURL)
		assert.Equal(t, "/static/images/logo.png", s.LogoURL)
		assert.Equal(t, "/static/images/favicon.svg", s.FaviconURL)
	})

	t.Run("Discovered", func(t *testing.T) {
		dir := t.TempDir()
		images := filepath.Join(dir, "static", "images")
		require.NoError(t, os.MkdirAll(images, 0o755))
		for _, name := range []string{"hero.png", "hero.svg", "logo.svg", "favicon.ico"} {
			require.NoError(t, os.WriteFile(filepath.Join(images, name), []byte("x"), 0o644))
		}

		s := Load(dir, "AuraLink")

		// 依候選順序取第一個
		assert.Equal(t, "/static/images/hero.png", s.HeroURL)
		assert.Equal(t, "/static/images/logo.svg", s.LogoURL)
		assert.Equal(t, "/static/images/favicon.ico", s.FaviconURL)
	})
}
