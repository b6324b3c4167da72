package domain

import "time"

// NotificationKind определяет стиль всплывающего уведомления
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationWarning NotificationKind = "warning"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

// Notification — временное уведомление. Одновременно у владельца видно не больше одного.
type Notification struct {
	Owner     string
	Message   string
	Kind      NotificationKind
	ExpiresAt time.Time
}

// Dismissed — пустое уведомление, рассылаемое при автоматическом скрытии
func (n Notification) Dismissed() bool {
	return n.Message == ""
}
