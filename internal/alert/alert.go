// Package alert hands a pre-filled emergency message to the host's messaging
// facility. It never confirms delivery: a successful Dispatch only means the
// message was handed off for the user to send.
package alert

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/didyoueat/didyoueat/internal/state"
)

// Text is the fixed emergency message body.
const Text = "No meal confirmation today. Please check on them."

// Message is Text plus the app signature, as sent to the contact.
const Message = Text + " (Sent via Did You Eat app)"

// Dispatcher hands a message for contact to the host.
type Dispatcher interface {
	Dispatch(ctx context.Context, contact state.Contact, message string) error
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, contact state.Contact, message string) error

func (f DispatcherFunc) Dispatch(ctx context.Context, contact state.Contact, message string) error {
	return f(ctx, contact, message)
}

// SMSURI builds an sms: link understood by Android and iOS handlers.
func SMSURI(phone, message string) string {
	return fmt.Sprintf("sms:%s;?body=%s", strings.TrimSpace(phone), url.PathEscape(message))
}

// Launcher opens a URI with the OS default handler.
type Launcher func(ctx context.Context, target string) error

// OSLauncher uses open(1) on macOS and xdg-open(1) on Linux.
func OSLauncher(ctx context.Context, target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", target)
	case "linux", "freebsd", "openbsd":
		cmd = exec.CommandContext(ctx, "xdg-open", target)
	default:
		return fmt.Errorf("opening sms links is not supported on %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open sms link: %w", err)
	}
	return nil
}

// LaunchDispatcher opens the sms: link so the device's composer comes up
// pre-filled.
type LaunchDispatcher struct {
	launch Launcher
}

// NewLaunchDispatcher returns a dispatcher using launch, or OSLauncher if nil.
func NewLaunchDispatcher(launch Launcher) *LaunchDispatcher {
	if launch == nil {
		launch = OSLauncher
	}
	return &LaunchDispatcher{launch: launch}
}

func (d *LaunchDispatcher) Dispatch(ctx context.Context, contact state.Contact, message string) error {
	return d.launch(ctx, SMSURI(contact.Phone, message))
}

// PrintDispatcher writes the sms: link and message for manual sending.
type PrintDispatcher struct {
	w io.Writer
}

// NewPrintDispatcher returns a dispatcher writing to w.
func NewPrintDispatcher(w io.Writer) *PrintDispatcher {
	return &PrintDispatcher{w: w}
}

func (d *PrintDispatcher) Dispatch(ctx context.Context, contact state.Contact, message string) error {
	_, err := fmt.Fprintf(d.w, "Send to %s (%s):\n  %s\n  %s\n",
		contact.Name, contact.Phone, message, SMSURI(contact.Phone, message))
	return err
}
