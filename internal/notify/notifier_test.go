package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/board"
)

// captureServer starts an httptest.Server that records incoming requests.
// It returns the server and a function to collect all captured requests.
func captureServer(t *testing.T) (*httptest.Server, func() []capturedReq) {
	t.Helper()
	var mu sync.Mutex
	var reqs []capturedReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, capturedReq{
			method:      r.Method,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("X-Title"),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []capturedReq {
		mu.Lock()
		defer mu.Unlock()
		out := make([]capturedReq, len(reqs))
		copy(out, reqs)
		return out
	}
}

type capturedReq struct {
	method      string
	body        string
	contentType string
	title       string
}

// waitForRequests polls until count requests are captured or the deadline is reached.
func waitForRequests(t *testing.T, collect func() []capturedReq, count int) []capturedReq {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := collect(); len(got) >= count {
			return got
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d request(s)", count)
	return nil
}

// errorModel returns a render model showing only text, the way the board
// shows errors and the waiting message.
func errorModel(text string) board.RenderModel {
	return board.RenderModel{Blocks: []board.Block{{
		Kind: board.BlockMessage,
		Cell: board.Cell{Text: text},
	}}}
}

// dataModel returns a render model with one section header and no error.
func dataModel() board.RenderModel {
	return board.RenderModel{Blocks: []board.Block{
		{Kind: board.BlockHeader, Cell: board.Cell{Text: "METRO CENTER"}},
		{Kind: board.BlockRow, Row: board.Row{
			{Text: "RD"},
			{Text: "Glenmont"},
			{Text: "4", Align: board.AlignRight},
		}},
	}}
}

func TestHook_OnError(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "myboard", true, false)
	n.Hook(errorModel(board.MsgTooManyFailures))

	reqs := waitForRequests(t, collect, 1)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	r := reqs[0]
	if r.method != http.MethodPost {
		t.Errorf("method = %q, want POST", r.method)
	}
	if r.body != board.MsgTooManyFailures {
		t.Errorf("body = %q, want %q", r.body, board.MsgTooManyFailures)
	}
	if r.contentType != "text/plain" {
		t.Errorf("Content-Type = %q, want text/plain", r.contentType)
	}
	if r.title != "myboard" {
		t.Errorf("X-Title = %q, want myboard", r.title)
	}
}

func TestHook_OnError_Disabled(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", false, false)
	n.Hook(errorModel(board.MsgMissingAPIKey))

	// Give the goroutine time to fire (it shouldn't, but we need to be sure).
	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestHook_SameErrorPostsOnce(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, false)
	n.Hook(errorModel(board.MsgTooManyFailures))
	n.Hook(errorModel(board.MsgTooManyFailures))
	n.Hook(errorModel(board.MsgTooManyFailures))

	waitForRequests(t, collect, 1)
	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 1 {
		t.Errorf("expected 1 request, got %d", len(got))
	}
}

func TestHook_NewErrorPostsAgain(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, false)
	n.Hook(errorModel(board.MsgMissingAPIKey))
	n.Hook(errorModel(board.MsgTooManyFailures))

	reqs := waitForRequests(t, collect, 2)
	bodies := map[string]bool{}
	for _, r := range reqs {
		bodies[r.body] = true
	}
	if !bodies[board.MsgMissingAPIKey] || !bodies[board.MsgTooManyFailures] {
		t.Errorf("bodies = %v, want both errors", bodies)
	}
}

func TestHook_OnRecover(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", false, true)
	n.Hook(errorModel(board.MsgTooManyFailures))
	n.Hook(dataModel())

	reqs := waitForRequests(t, collect, 1)
	if reqs[0].body != MsgRecovered {
		t.Errorf("body = %q, want %q", reqs[0].body, MsgRecovered)
	}
}

func TestHook_OnRecover_Disabled(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", false, false)
	n.Hook(errorModel(board.MsgTooManyFailures))
	n.Hook(dataModel())

	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests, got %d", len(got))
	}
}

func TestHook_IgnoresHealthyModels(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, true)
	// Neither the waiting message nor data is an error, and nothing has
	// recovered yet.
	n.Hook(errorModel(board.MsgWaiting))
	n.Hook(dataModel())
	n.Hook(dataModel())

	time.Sleep(50 * time.Millisecond)
	if got := collect(); len(got) != 0 {
		t.Errorf("expected no requests for healthy renders, got %d", len(got))
	}
}

func TestHook_FallbackTitle(t *testing.T) {
	srv, collect := captureServer(t)

	n := New(srv.URL, "", true, false)
	n.Hook(errorModel(board.MsgTooManyFailures))

	reqs := waitForRequests(t, collect, 1)
	if reqs[0].title != DefaultTitle {
		t.Errorf("X-Title = %q, want %q", reqs[0].title, DefaultTitle)
	}
}

func TestHook_PostFailureSilent(t *testing.T) {
	// Point at a server that is already closed: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := New(srv.URL, "", true, true)
	// None of these should panic or block.
	n.Hook(errorModel(board.MsgTooManyFailures))
	n.Hook(dataModel())

	// Allow goroutines to finish.
	time.Sleep(100 * time.Millisecond)
}
