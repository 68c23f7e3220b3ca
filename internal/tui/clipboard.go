package tui

import (
	"sync"

	"github.com/muesli/termenv"
)

// clipboard keeps copies in process and mirrors them to the terminal's
// system clipboard through OSC 52 when an output is attached. Reading back
// from the terminal is not portable, so paste uses the in-process copy.
type clipboard struct {
	out *termenv.Output

	mu   sync.Mutex
	text string
}

func (c *clipboard) ReadText() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text, nil
}

func (c *clipboard) WriteText(s string) error {
	c.mu.Lock()
	c.text = s
	c.mu.Unlock()
	if c.out != nil {
		c.out.Copy(s)
	}
	return nil
}
