package model

// NoticeLevel 提示訊息等級
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func Success(message string) Notice {
	return Notice{Level: NoticeSuccess, Message: message}
}

func Failure(message string) Notice {
	return Notice{Level: NoticeError, Message: message}
}
