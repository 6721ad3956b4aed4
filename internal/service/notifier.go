package service

// Notifier receives user-visible notifications (the failure toasts of the
// messaging UI). Frontends provide the implementation.
type Notifier interface {
	Notify(title, detail string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, detail string)

func (f NotifierFunc) Notify(title, detail string) { f(title, detail) }

// NopNotifier discards notifications.
var NopNotifier = NotifierFunc(func(string, string) {})
