//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

// linuxNotifier sends notifications through notify-send.
type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return &linuxNotifier{}
}

func (n *linuxNotifier) Send(title, message string) error {
	return notifySend(title, message)
}

// SendWithSound marks the notification normal-urgency; whether that plays a
// sound depends on the notification daemon.
func (n *linuxNotifier) SendWithSound(title, message string) error {
	return notifySend(title, message, "--urgency=normal")
}

func (n *linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

// notifySend shells out to notify-send, flags ahead of the positional title
// and message.
func notifySend(title, message string, flags ...string) error {
	args := append(flags, "--app-name=worklog", title, message)
	if err := exec.Command("notify-send", args...).Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
