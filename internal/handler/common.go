package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"auralink/internal/middleware"
	"auralink/internal/model"
	"auralink/internal/site"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// Presenter 組合每個頁面共用的資料並處理 flash 訊息
type Presenter struct {
	site   site.Settings
	secure bool
}

func NewPresenter(settings site.Settings, secureCookie bool) *Presenter {
	return &Presenter{site: settings, secure: secureCookie}
}

// HTML 渲染頁面，會取出上一個請求留下的 flash 訊息
func (p *Presenter) HTML(c *gin.Context, status int, name string, data gin.H, notices ...model.Notice) {
	if data == nil {
		data = gin.H{}
	}
	actor := middleware.Actor(c)
	data["Site"] = p.site
	data["Actor"] = actor
	data["Notices"] = append(p.takeFlash(c), notices...)
	c.HTML(status, name, data)
}

// Redirect 302，notices 留到下一個頁面顯示
func (p *Presenter) Redirect(c *gin.Context, location string, notices ...model.Notice) {
	if len(notices) > 0 {
		p.setFlash(c, notices)
	}
	c.Redirect(http.StatusFound, location)
}

func (p *Presenter) Error(c *gin.Context, status int, message string) {
	p.HTML(c, status, "error", gin.H{"Status": status, "Message": message})
}

func (p *Presenter) setFlash(c *gin.Context, notices []model.Notice) {
	b, err := json.Marshal(notices)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(b), 60, "/", "", p.secure, true)
}

func (p *Presenter) takeFlash(c *gin.Context) []model.Notice {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", p.secure, true)

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var notices []model.Notice
	if err := json.Unmarshal(b, &notices); err != nil {
		return nil
	}
	return notices
}

func BindForm(c *gin.Context, obj interface{}) error {
	return c.ShouldBind(obj)
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// loginURL 未登入時導向登入頁並帶上原路徑
func loginURL(c *gin.Context) string {
	return "/accounts/login/?next=" + url.QueryEscape(c.Request.URL.RequestURI())
}

// safeNext 只接受站內路徑
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
