//go:build !darwin && !linux

// Package notify provides desktop notification support.
// This file provides a no-op implementation for unsupported platforms.
package notify

type stubNotifier struct{}

func newPlatformNotifier() Notifier {
	return &stubNotifier{}
}

func (n *stubNotifier) Send(title, message string) error          { return nil }
func (n *stubNotifier) SendWithSound(title, message string) error { return nil }
func (n *stubNotifier) IsSupported() bool                         { return false }
