// Package clipboard provides the system clipboard and an in-memory stand-in.
package clipboard

import (
	"sync"

	"github.com/atotto/clipboard"
	"github.com/sirupsen/logrus"
)

// System reads and writes the operating system clipboard.
type System struct{}

// ReadText implements host.Clipboard.
func (System) ReadText() (string, error) {
	return clipboard.ReadAll()
}

// WriteText implements host.Clipboard.
func (System) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// Memory is a process-local clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

// NewMemory returns a Memory clipboard holding text.
func NewMemory(text string) *Memory {
	return &Memory{text: text}
}

// ReadText implements host.Clipboard.
func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.text, nil
}

// WriteText implements host.Clipboard.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.text = text

	return nil
}

// Clipboard is the read/write surface shared by System and Memory.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// Detect returns the system clipboard, or a Memory clipboard when the
// platform has no clipboard utility.
func Detect() Clipboard { //nolint:ireturn
	if clipboard.Unsupported {
		logrus.Warn("system clipboard unavailable, using an in-memory clipboard")

		return NewMemory("")
	}

	return System{}
}
