package ui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rodstewart/estatectl/internal/api"
	"github.com/rodstewart/estatectl/internal/auth"
	"github.com/rodstewart/estatectl/internal/dialog"
	"github.com/rodstewart/estatectl/internal/models"
)

const (
	bookingsJSON = `{"data":{"bookings":[` +
		`{"id":1,"status":"PENDING","totalPrice":120,"user":{"firstName":"Alice","lastName":"Ng","email":"alice@example.com"}},` +
		`{"id":2,"status":"PAID","totalPrice":340,"user":{"firstName":"Bob","lastName":"Stone","email":"bob@example.com"}}]}}`
	contactsJSON = `{"contacts":[{"id":"c1","name":"Carol","email":"carol@example.com","subject":"Viewing","message":"Is it free?","status":"UNREAD"}]}`
)

// recorder is a fake backend that remembers every mutating request
type recorder struct {
	mu     sync.Mutex
	calls  []string
	bodies map[string]string

	// override handles a request first; returning true skips the defaults
	override func(w http.ResponseWriter, r *http.Request) bool
}

func (rec *recorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	call := r.Method + " " + r.URL.Path

	rec.mu.Lock()
	if r.Method != http.MethodGet {
		rec.calls = append(rec.calls, call)
		rec.bodies[call] = string(body)
	}
	override := rec.override
	rec.mu.Unlock()

	if override != nil && override(w, r) {
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/bookings":
		_, _ = w.Write([]byte(bookingsJSON))
	case r.Method == http.MethodGet && r.URL.Path == "/contacts":
		_, _ = w.Write([]byte(contactsJSON))
	case r.Method == http.MethodGet:
		_, _ = w.Write([]byte(`[]`))
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (rec *recorder) mutations() []string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return append([]string(nil), rec.calls...)
}

func (rec *recorder) body(call string) string {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.bodies[call]
}

func (rec *recorder) setOverride(fn func(w http.ResponseWriter, r *http.Request) bool) {
	rec.mu.Lock()
	rec.override = fn
	rec.mu.Unlock()
}

func newTestModel(t *testing.T) (Model, *recorder, *auth.Session) {
	t.Helper()
	rec := &recorder{bodies: map[string]string{}}
	server := httptest.NewServer(rec)
	t.Cleanup(server.Close)

	session := auth.NewSession(auth.NewMemoryStore("secret"), nil, nil)
	client := api.NewClient(server.URL, session, api.WithUnauthorizedHandler(session.HandleUnauthorized))

	ctx, cancel := context.WithCancel(context.Background())
	m := New(ctx, Options{Client: client, Session: session})
	t.Cleanup(func() {
		cancel()
		m.Close()
	})

	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return drain(t, m, m.Init()), rec, session
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	model, cmd := m.Update(msg)
	return model.(Model), cmd
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = send(m, keyMsg(k))
	}
	return m, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

// drain runs cmd and feeds the dashboard's own messages back into m.
// Timers such as cursor blinks and spinner frames are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 500; steps++ {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		msg, ok := run(next)
		if !ok {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case loadedMsg, submittedMsg, loggedOutMsg:
			var c tea.Cmd
			m, c = send(m, msg)
			queue = append(queue, c)
		}
	}
	return m
}

func run(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(250 * time.Millisecond):
		return nil, false
	}
}

func bookingsOf(m Model) *listTab[models.Booking] {
	return m.tabs[0].(*listTab[models.Booking])
}

func contactsOf(m Model) *listTab[models.Contact] {
	return m.tabs[3].(*listTab[models.Contact])
}

func TestModel_LoadsEveryTab(t *testing.T) {
	m, _, _ := newTestModel(t)

	bookings := bookingsOf(m)
	if v := bookings.ctrl.View(); !v.Loaded || v.Total != 2 {
		t.Fatalf("expected 2 loaded bookings, got loaded=%v total=%d", v.Loaded, v.Total)
	}
	if v := contactsOf(m).ctrl.View(); v.Total != 1 {
		t.Errorf("expected 1 contact, got %d", v.Total)
	}

	view := m.View()
	for _, want := range []string{"1 Bookings", "6 Partners", "Alice Ng", "Showing 1-2 of 2 bookings"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestModel_TabNavigation(t *testing.T) {
	m, _, _ := newTestModel(t)

	tests := []struct {
		key    string
		active int
	}{
		{"tab", 1},
		{"tab", 2},
		{"shift+tab", 1},
		{"5", 4},
		{"1", 0},
		{"shift+tab", 5},
	}
	for _, tt := range tests {
		m, _ = press(m, tt.key)
		if m.active != tt.active {
			t.Fatalf("after %q: expected tab %d, got %d", tt.key, tt.active, m.active)
		}
	}

	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected q to quit")
	}
}

func TestListTab_Pagination(t *testing.T) {
	m, rec, _ := newTestModel(t)

	records := make([]string, 13)
	for i := range records {
		records[i] = `{"id":` + strconv.Itoa(i+1) + `,"status":"PENDING"}`
	}
	page := "[" + strings.Join(records, ",") + "]"
	rec.setOverride(func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodGet && r.URL.Path == "/bookings" {
			_, _ = w.Write([]byte(page))
			return true
		}
		return false
	})

	m, cmd := press(m, "R")
	m = drain(t, m, cmd)
	bookings := bookingsOf(m)
	if v := bookings.ctrl.View(); v.Page.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", v.Page.TotalPages)
	}

	m, _ = press(m, "j", "j", "l")
	if v := bookings.ctrl.View(); v.Page.Number != 2 {
		t.Errorf("expected page 2, got %d", v.Page.Number)
	}
	if bookings.cursor != 0 {
		t.Errorf("expected cursor reset to 0, got %d", bookings.cursor)
	}

	m, _ = press(m, "l", "l", "l")
	if !strings.Contains(m.View(), "Showing 13-13 of 13 bookings (page 3 of 3)") {
		t.Error("expected last page summary")
	}
}

func TestListTab_SearchAndFilter(t *testing.T) {
	m, _, _ := newTestModel(t)
	bookings := bookingsOf(m)

	m, _ = press(m, "/", "bob")
	if !bookings.Capturing() {
		t.Fatal("expected search to capture keys")
	}
	if got := len(bookings.ctrl.Filtered()); got != 1 {
		t.Errorf("expected 1 match for bob, got %d", got)
	}

	// q is typed into the search box rather than quitting
	m, _ = press(m, "q")
	if !bookings.searching || bookings.search.Value() != "bobq" {
		t.Fatalf("expected q to be typed into the search, got %q", bookings.search.Value())
	}
	m, _ = press(m, "esc", "x")
	if got := len(bookings.ctrl.Filtered()); got != 2 {
		t.Errorf("expected filters cleared, got %d matches", got)
	}

	m, _ = press(m, "f")
	if got := bookings.ctrl.Filter().Selected["status"]; got != models.BookingPending {
		t.Errorf("expected status filter PENDING, got %q", got)
	}
	if got := len(bookings.ctrl.Filtered()); got != 1 {
		t.Errorf("expected 1 pending booking, got %d", got)
	}

	// cycling past the last status returns to every status
	m, _ = press(m, "f", "f", "f", "f")
	if got := len(bookings.ctrl.Filtered()); got != 2 {
		t.Errorf("expected every booking after a full cycle, got %d", got)
	}
	_ = m
}

func TestListTab_DialogDismissal(t *testing.T) {
	m, _, _ := newTestModel(t)
	bookings := bookingsOf(m)
	top := m.headerHeight()

	tests := []struct {
		name    string
		dismiss tea.Msg
		closed  bool
	}{
		{"escape", keyMsg("esc"), true},
		{"close key", keyMsg("q"), true},
		{"backdrop click", click(0, top), true},
		{"click inside dialog", click(60, top+bookings.height/2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := press(m, "enter")
			if !bookings.viewDlg.IsOpen() {
				t.Fatal("expected view dialog to open")
			}
			m, _ = send(m, tt.dismiss)
			if got := !bookings.viewDlg.IsOpen(); got != tt.closed {
				t.Errorf("expected closed=%v, got %v", tt.closed, got)
			}
			bookings.viewDlg.Close()
		})
	}
}

func TestListTab_DeleteBlocksDismissalWhileSubmitting(t *testing.T) {
	m, rec, _ := newTestModel(t)
	bookings := bookingsOf(m)

	m, _ = press(m, "d")
	if !bookings.deleteDlg.IsOpen() {
		t.Fatal("expected delete dialog to open")
	}

	m, cmd := press(m, "y")
	if got := bookings.deleteDlg.Status(); got != dialog.Submitting {
		t.Fatalf("expected submitting, got %s", got)
	}

	m, _ = press(m, "esc")
	m, _ = send(m, click(0, m.headerHeight()))
	m, _ = press(m, "n")
	if got := bookings.deleteDlg.Status(); got != dialog.Submitting {
		t.Fatalf("expected dismissal to be refused while submitting, got %s", got)
	}

	m = drain(t, m, cmd)
	if bookings.deleteDlg.IsOpen() {
		t.Error("expected dialog to close after delete")
	}
	if _, ok := bookings.ctrl.Find("1"); ok {
		t.Error("expected booking 1 to be removed")
	}
	if got := strings.Join(rec.mutations(), ", "); got != "DELETE /bookings/1" {
		t.Errorf("unexpected requests: %s", got)
	}
	if !strings.Contains(m.View(), "Booking 1 deleted") {
		t.Error("expected success message")
	}
}

func TestListTab_DeleteFailureKeepsDialog(t *testing.T) {
	m, rec, _ := newTestModel(t)
	bookings := bookingsOf(m)
	rec.setOverride(func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"Booking has payments"}`))
			return true
		}
		return false
	})

	m, cmd := press(m, "d", "y")
	m = drain(t, m, cmd)

	if got := bookings.deleteDlg.Status(); got != dialog.Open {
		t.Fatalf("expected dialog to stay open, got %s", got)
	}
	if got := bookings.deleteDlg.Message(); got != "Booking has payments" {
		t.Errorf("expected server message, got %q", got)
	}
	if _, ok := bookings.ctrl.Find("1"); !ok {
		t.Error("expected booking 1 to be kept")
	}
	if !strings.Contains(m.View(), "Booking has payments") {
		t.Error("expected message in dialog")
	}
}

func TestListTab_StatusDialog(t *testing.T) {
	m, rec, _ := newTestModel(t)
	bookings := bookingsOf(m)
	rec.setOverride(func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodPut && r.URL.Path == "/bookings/1" {
			_, _ = w.Write([]byte(`{"data":{"booking":{"id":1,"status":"CONFIRMED"}}}`))
			return true
		}
		return false
	})

	m, _ = press(m, "s", "j")
	if bookings.statusChoice != 1 {
		t.Fatalf("expected CONFIRMED to be selected, got %d", bookings.statusChoice)
	}
	m, cmd := press(m, "enter")
	m = drain(t, m, cmd)

	if body := rec.body("PUT /bookings/1"); !strings.Contains(body, `"status":"CONFIRMED"`) {
		t.Errorf("expected status in request body, got %s", body)
	}
	got, ok := bookings.ctrl.Find("1")
	if !ok || got.Status != models.BookingConfirmed {
		t.Fatalf("expected booking 1 to be CONFIRMED, got %+v", got)
	}
	if got.GuestName() != "Alice Ng" {
		t.Errorf("expected guest to be kept after merge, got %q", got.GuestName())
	}
	if bookings.statusDlg.IsOpen() {
		t.Error("expected status dialog to close")
	}
	if !strings.Contains(m.View(), "Booking 1 status set to CONFIRMED") {
		t.Error("expected success message")
	}
}

func TestListTab_ReplyValidation(t *testing.T) {
	m, rec, _ := newTestModel(t)
	contacts := contactsOf(m)
	rec.setOverride(func(w http.ResponseWriter, r *http.Request) bool {
		if r.Method == http.MethodPut && r.URL.Path == "/contacts/c1" {
			_, _ = w.Write([]byte(`{"contact":{"id":"c1","status":"REPLIED","reply":"too short ok"}}`))
			return true
		}
		return false
	})

	m, _ = press(m, "4", "r")
	if !contacts.replyDlg.IsOpen() {
		t.Fatal("expected reply dialog to open")
	}

	m, cmd := press(m, "too short", "ctrl+s")
	m = drain(t, m, cmd)
	if got := contacts.replyDlg.Status(); got != dialog.Open {
		t.Fatalf("expected dialog to stay open, got %s", got)
	}
	if contacts.replyDlg.Message() == "" {
		t.Error("expected a validation message")
	}
	if calls := rec.mutations(); len(calls) != 0 {
		t.Fatalf("expected no request for an invalid reply, got %v", calls)
	}

	m, cmd = press(m, " ok", "ctrl+s")
	m = drain(t, m, cmd)
	body := rec.body("PUT /contacts/c1")
	if !strings.Contains(body, `"reply":"too short ok"`) || !strings.Contains(body, `"status":"REPLIED"`) {
		t.Errorf("unexpected request body: %s", body)
	}
	if got, _ := contacts.ctrl.Find("c1"); got.Status != models.ContactReplied {
		t.Errorf("expected contact REPLIED, got %q", got.Status)
	}
	if contacts.replyDlg.IsOpen() {
		t.Error("expected reply dialog to close")
	}
}

func TestListTab_ReplyUnsupported(t *testing.T) {
	m, _, _ := newTestModel(t)
	m, _ = press(m, "r")
	if bookingsOf(m).replyDlg.IsOpen() {
		t.Error("expected bookings not to open a reply dialog")
	}
}

func TestModel_LoginAfterUnauthorized(t *testing.T) {
	m, rec, session := newTestModel(t)

	var rejected atomic.Bool
	rejected.Store(true)
	rec.setOverride(func(w http.ResponseWriter, r *http.Request) bool {
		if rejected.Load() || r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return true
		}
		return false
	})

	m, _ = press(m, "d")
	m, cmd := press(m, "y")
	m = drain(t, m, cmd)
	if !session.LoggedOut() {
		t.Fatal("expected session to be logged out after 401")
	}
	if bookingsOf(m).deleteDlg.IsOpen() {
		t.Error("expected expired-session failure to close the dialog")
	}
	if bookingsOf(m).deleteDlg.Message() != "" {
		t.Error("expected no message for an expired session")
	}

	m, _ = send(m, loggedOutMsg{})
	if !strings.Contains(m.View(), "Sign in") {
		t.Fatal("expected login screen")
	}

	// keys go to the login box, not the lists
	m, _ = press(m, "2")
	if m.active != 0 {
		t.Errorf("expected tab to stay 0, got %d", m.active)
	}

	rejected.Store(false)
	m.login.Reset()
	m, cmd = press(m, "fresh-token", "enter")
	if m.loggedOut {
		t.Fatal("expected login to succeed")
	}
	if session.Token() != "fresh-token" {
		t.Errorf("expected fresh-token, got %q", session.Token())
	}
	m = drain(t, m, cmd)
	if v := bookingsOf(m).ctrl.View(); v.Total == 0 {
		t.Error("expected bookings to reload after login")
	}
}
