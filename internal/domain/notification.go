package domain

// NotificationKind classifies a status message.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyWarning NotificationKind = "warning"
	NotifyInfo    NotificationKind = "info"
)

// ParseNotificationKind maps s onto a known kind, falling back to info.
func ParseNotificationKind(s string) NotificationKind {
	switch k := NotificationKind(s); k {
	case NotifySuccess, NotifyError, NotifyWarning, NotifyInfo:
		return k
	}
	return NotifyInfo
}
