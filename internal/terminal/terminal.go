// Package terminal runs text sent from the editor in a persistent
// in-process shell session.
package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const clearScreen = "\x1b[H\x1b[2J"

// Shell is a terminal backed by a shell interpreter. Variables, functions
// and the working directory persist between sends.
type Shell struct {
	mu     sync.Mutex
	runner *interp.Runner
	parser *syntax.Parser
	stdout io.Writer
	title  string
	shown  bool
	status uint8
}

// New starts a shell session in dir writing to stdout and stderr.
func New(title, dir string, stdin io.Reader, stdout, stderr io.Writer) (*Shell, error) {
	runner, err := interp.New(interp.Dir(dir), interp.StdIO(stdin, stdout, stderr))
	if err != nil {
		return nil, err
	}

	return &Shell{runner: runner, parser: syntax.NewParser(), stdout: stdout, title: title}, nil
}

// Show prints the session banner once.
func (s *Shell) Show() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shown {
		return nil
	}

	s.shown = true
	_, err := fmt.Fprintf(s.stdout, "--- %s ---\n", s.title)

	return err
}

// Clear clears the screen.
func (s *Shell) Clear() error {
	_, err := io.WriteString(s.stdout, clearScreen)

	return err
}

// SendText runs text as a shell script. A non-zero exit status is recorded
// and logged, not returned.
func (s *Shell) SendText(ctx context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.parser.Parse(strings.NewReader(text), s.title)
	if err != nil {
		return err
	}

	s.status = 0

	err = s.runner.Run(ctx, file)
	if err != nil {
		status, ok := interp.IsExitStatus(err)
		if !ok {
			return err
		}

		s.status = status
		logrus.WithFields(logrus.Fields{"terminal": s.title, "status": status}).Warn("command exited with non-zero status")
	}

	return nil
}

// ExitStatus returns the exit status of the last send.
func (s *Shell) ExitStatus() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return int(s.status)
}
