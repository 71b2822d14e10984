package notify

// Notifier sends a desktop notification. Implementations must not
// block the caller.
type Notifier interface {
	Notify(title, body string)
}

// Disabled is a Notifier that drops everything.
type Disabled struct{}

func (Disabled) Notify(title, body string) {}
