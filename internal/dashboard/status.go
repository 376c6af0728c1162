package dashboard

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// StatusType styles the status banner.
type StatusType string

const (
	StatusInfo    StatusType = "info"
	StatusSuccess StatusType = "success"
	StatusError   StatusType = "error"
)

// ShowStatus displays a banner that hides itself StatusTTL after the latest call.
func (c *Controller) ShowStatus(message string, typ StatusType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showStatus(message, typ)
}

func (c *Controller) showStatus(message string, typ StatusType) {
	c.doc.SetText(IDStatus, message)
	class := "status-message show"
	if typ == StatusError {
		class += " error"
	}
	c.doc.SetClassName(IDStatus, class)

	c.statusGen++
	gen := c.statusGen
	c.after(StatusTTL, func() {
		// a newer banner owns the hide
		if gen != c.statusGen {
			return
		}
		c.doc.RemoveClass(IDStatus, "show")
	})
}

// CloseModal hides the modal.
func (c *Controller) CloseModal(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc.RemoveClass(IDModal, "show")
}

func (c *Controller) openModal(html string) {
	c.doc.SetHTML(IDModalBody, html)
	c.doc.AddClass(IDModal, "show")
}

// bumpCounter adds inc to the integer shown in element id. Non-numeric text counts as 0.
func (c *Controller) bumpCounter(id string, inc int) {
	cur, ok := c.doc.Text(id)
	if !ok {
		c.log.Debug("counter element missing", zap.String("id", id))
		return
	}
	c.doc.SetText(id, strconv.Itoa(leadingInt(cur)+inc))
}

// leadingInt parses an optional sign and the leading digits of s, ignoring the rest.
func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
