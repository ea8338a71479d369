package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

//nolint:gochecknoglobals // animation frames
var spinnerFrames = []byte{'|', '/', '-', '\\'}

// spinner animates a progress line on out. Log output routed through it
// clears that line first, and the next tick redraws it.
type spinner struct {
	message string
	out     io.Writer
	log     io.Writer
	mu      sync.Mutex
	frame   int
	stop    chan struct{}
	done    chan struct{}
}

func newSpinner(message string, out, log io.Writer) (s *spinner) {
	s = &spinner{
		message: message,
		out:     out,
		log:     log,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	return s
}

func (s *spinner) start() {
	s.mu.Lock()
	s.draw()
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		defer close(s.done)

		for {
			select {
			case <-s.stop:
				s.mu.Lock()
				s.clear()
				s.mu.Unlock()
				return
			case <-ticker.C:
				s.mu.Lock()
				s.draw()
				s.mu.Unlock()
			}
		}
	}()
}

// stopSpinner clears the line and waits for the animation to exit. Call it once.
func (s *spinner) stopSpinner() {
	close(s.stop)
	<-s.done
}

func (s *spinner) draw() {
	fmt.Fprintf(s.out, "\r%s %c", s.message, spinnerFrames[s.frame%len(spinnerFrames)])
	s.frame++
}

func (s *spinner) clear() {
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+2))
}

// Write clears the spinner line and forwards p to the log writer.
func (s *spinner) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clear()
	n, err = s.log.Write(p)
	return n, err
}

// withSpinner runs fn behind a spinner unless verbose output is on. The
// logger writes through the spinner for the duration of fn.
func withSpinner(logger *logrus.Logger, message string, fn func() error) (err error) {
	if getVerbose() {
		fmt.Println(message)
		err = fn()
		return err
	}

	previous := logger.Out
	s := newSpinner(message, os.Stdout, previous)
	logger.SetOutput(s)
	s.start()

	err = fn()

	s.stopSpinner()
	logger.SetOutput(previous)
	return err
}
