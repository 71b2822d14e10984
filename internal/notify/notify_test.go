package notify

import "testing"

func TestDisabled_NotifyIsNoop(t *testing.T) {
	var n Notifier = Disabled{}
	n.Notify("title", "body")
}
