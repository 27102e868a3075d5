package service

import "auralink/internal/model"

// CanManage 是否可管理指定活動：staff/superuser 可管理全部，其他人只能管理自己主辦的活動
func CanManage(actor *model.User, event *model.Event) bool {
	if actor == nil {
		return false
	}
	if actor.IsStaff || actor.IsSuperuser {
		return true
	}
	return event != nil && event.OwnedBy(actor.ID)
}

// IsOrganizer 主辦者角色即 staff
func IsOrganizer(actor *model.User) bool {
	return actor != nil && actor.IsStaff
}
