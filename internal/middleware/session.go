package middleware

import (
	"context"
	"errors"
	"net/http"

	"auralink/internal/model"
	apperrors "auralink/pkg/app_errors"
	"auralink/pkg/auth"
	"auralink/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	SessionCookie = "session"
	actorKey      = "actor"
)

// UserLookup 依 id 取回使用者
type UserLookup interface {
	UserByID(ctx context.Context, id int) (*model.User, error)
}

// Session 從 cookie 還原目前使用者，token 無效或過期時視為匿名
func Session(tokens *auth.TokenManager, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		id, err := tokens.Parse(raw)
		if err != nil {
			clearCookie(c)
			c.Next()
			return
		}

		user, err := users.UserByID(c.Request.Context(), id)
		if errors.Is(err, apperrors.ErrUserNotFound) {
			logger.WithComponent("session").Debug("session user not found", zap.Int("user_id", id))
			clearCookie(c)
			c.Next()
			return
		}
		if err != nil {
			// 查詢失敗時保留 cookie，本次請求以匿名處理
			logger.WithComponent("session").Warn("session user lookup failed", zap.Int("user_id", id), zap.Error(err))
			c.Next()
			return
		}

		c.Set(actorKey, user)
		c.Next()
	}
}

// Actor 回傳目前使用者，匿名時為 nil
func Actor(c *gin.Context) *model.User {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// Login 簽發 token 並寫入 cookie
func Login(c *gin.Context, tokens *auth.TokenManager, user *model.User, secure bool) error {
	token, err := tokens.Create(user.ID, user.Username)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(tokens.TTL().Seconds()), "/", "", secure, true)
	c.Set(actorKey, user)
	return nil
}

func Logout(c *gin.Context) {
	clearCookie(c)
	c.Set(actorKey, (*model.User)(nil))
}

func clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
