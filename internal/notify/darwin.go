//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
	"strings"
)

// darwinNotifier sends notifications through osascript.
type darwinNotifier struct{}

func newPlatformNotifier() Notifier {
	return &darwinNotifier{}
}

func (n *darwinNotifier) Send(title, message string) error {
	return osascript(title, message, "")
}

func (n *darwinNotifier) SendWithSound(title, message string) error {
	return osascript(title, message, "default")
}

func (n *darwinNotifier) IsSupported() bool {
	_, err := exec.LookPath("osascript")
	return err == nil
}

// osascript displays a notification via AppleScript, with the named alert
// sound when one is given.
func osascript(title, message, sound string) error {
	script := fmt.Sprintf(`display notification %q with title %q`,
		escapeAppleScript(message), escapeAppleScript(title))
	if sound != "" {
		script += fmt.Sprintf(" sound name %q", sound)
	}

	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return fmt.Errorf("osascript failed: %w", err)
	}
	return nil
}

// escapeAppleScript escapes backslashes and quotes for AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
