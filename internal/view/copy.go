package view

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docview/internal/render"
)

// Clipboard receives copied code text.
type Clipboard interface {
	WriteText(text string) error
}

// AckDuration is how long a copy control shows its acknowledgment.
const AckDuration = 2 * time.Second

// CopyControl is the copy button of one preformatted block.
type CopyControl struct {
	Index int
	text  string
	clip  Clipboard
	ack   time.Duration
	log   *slog.Logger

	mu    sync.Mutex
	label string
	timer *time.Timer
}

func newCopyControl(block render.CodeBlock, clip Clipboard, ack time.Duration, log *slog.Logger) *CopyControl {
	return &CopyControl{
		Index: block.Index,
		text:  block.Text,
		clip:  clip,
		ack:   ack,
		log:   log,
		label: render.CopyLabel,
	}
}

// Click copies the block text. On success the label reads "Copied!" for
// the acknowledgment period; a clipboard failure leaves it unchanged.
func (c *CopyControl) Click() bool {
	if c.clip == nil {
		return false
	}
	if err := c.clip.WriteText(c.text); err != nil {
		c.log.Debug("clipboard write failed", "block", c.Index, "error", err)
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.label = render.CopiedLabel
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.ack, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.label = render.CopyLabel
	})
	return true
}

// Label returns the current button text.
func (c *CopyControl) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}

// Text returns the text the control copies.
func (c *CopyControl) Text() string {
	return c.text
}

func (c *CopyControl) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
}
