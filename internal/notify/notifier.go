// Package notify sends fire-and-forget HTTP notifications when a board
// starts or stops showing an error. The primary use case is ntfy.sh, but
// any HTTP webhook works.
package notify

import (
	"net/http"
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/board"
)

// DefaultTitle is the X-Title header used when no title is given.
const DefaultTitle = "metrotimes"

// MsgRecovered is posted when a previously shown error clears.
const MsgRecovered = "Board recovered"

// Notifier posts plain-text HTTP notifications for board error changes.
// Hook must be called from the controller's owning goroutine.
type Notifier struct {
	url       string
	title     string
	onError   bool
	onRecover bool
	client    *http.Client

	lastErr string
}

// New creates a Notifier. title is used as the X-Title header; if empty,
// DefaultTitle is used instead.
func New(notifURL, title string, onError, onRecover bool) *Notifier {
	if title == "" {
		title = DefaultTitle
	}
	return &Notifier{
		url:       notifURL,
		title:     title,
		onError:   onError,
		onRecover: onRecover,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Hook is a board render hook. It fires an asynchronous POST when a new
// error appears on the board and, optionally, when it clears. Repeated
// renders of the same error post once.
func (n *Notifier) Hook(rm board.RenderModel) {
	msg := rm.ErrorText()
	prev := n.lastErr
	n.lastErr = msg

	switch {
	case msg != "" && msg != prev:
		if n.onError {
			go n.post(msg)
		}
	case msg == "" && prev != "":
		if n.onRecover {
			go n.post(MsgRecovered)
		}
	}
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt the board.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
