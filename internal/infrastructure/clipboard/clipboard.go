// Package clipboard adapts the system clipboard for stateful commands.
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/coaxialdolor/termai/internal/ports"
)

// System wraps the OS clipboard. On headless machines (no X11/Wayland
// display) Unsupported is true and the engine falls back to showing the
// command.
type System struct{}

func New() *System { return &System{} }

func (*System) Copy(text string) error {
	return clipboard.WriteAll(text)
}

func (*System) Available() bool {
	return !clipboard.Unsupported
}

var _ ports.Clipboard = (*System)(nil)
