package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/rodstewart/estatectl/internal/api"
	"github.com/rodstewart/estatectl/internal/dialog"
	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/logger"
	"github.com/rodstewart/estatectl/internal/resources"
)

type dialogKind int

const (
	viewDialog dialogKind = iota
	deleteDialog
	statusDialog
	replyDialog
)

func (k dialogKind) String() string {
	switch k {
	case deleteDialog:
		return "delete"
	case statusDialog:
		return "status"
	case replyDialog:
		return "reply"
	default:
		return "view"
	}
}

// loadedMsg reports a finished fetch for one tab
type loadedMsg struct {
	tab int
	err error
}

// submittedMsg reports a finished dialog submission for one tab
type submittedMsg struct {
	tab    int
	kind   dialogKind
	ticket dialog.Ticket
	err    error
}

// tab is one screen of the dashboard
type tab interface {
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
	Resize(width, height int)
	// Capturing reports whether keys belong to the tab, e.g. while typing
	Capturing() bool
	// Reset drops open dialogs and transient input
	Reset()
	Close()
}

// rect is a rendered region in tab coordinates
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// listTab renders one admin collection
type listTab[T listing.Record] struct {
	ctx   context.Context
	index int
	def   resources.Definition[T]
	res   *api.Resource[T]
	ctrl  *listing.Controller[T]
	log   *logger.Logger

	keys       KeyMap
	dialogKeys DialogKeyMap

	width  int
	height int

	search    textinput.Model
	searching bool
	cursor    int
	// selection index per category, 0 selects every value
	choices map[string]int
	spinner spinner.Model
	flash   string

	viewDlg   *dialog.Dialog[T]
	deleteDlg *dialog.Dialog[T]
	statusDlg *dialog.Dialog[T]
	replyDlg  *dialog.Dialog[T]

	statusChoice int
	reply        textarea.Model
	cascade      bool
}

func newListTab[T listing.Record](ctx context.Context, index int, def resources.Definition[T], o Options) *listTab[T] {
	opts := []listing.Option{listing.WithLogger(o.Log), listing.WithContext(ctx)}
	if o.PageSize > 0 {
		opts = append(opts, listing.WithPageSize(o.PageSize))
	}

	search := textinput.New()
	search.Placeholder = "Search " + def.Name
	search.Prompt = "/ "
	search.CharLimit = 100

	reply := textarea.New()
	reply.Placeholder = "Write a reply (at least 10 characters)"
	reply.ShowLineNumbers = false
	reply.CharLimit = 5000
	reply.SetWidth(56)
	reply.SetHeight(6)

	singular := def.Singular
	return &listTab[T]{
		ctx:        ctx,
		index:      index,
		def:        def,
		res:        def.Resource(o.Client),
		ctrl:       def.Controller(o.Client, opts...),
		log:        o.Log,
		keys:       DefaultKeyMap(),
		dialogKeys: DefaultDialogKeyMap(),
		search:     search,
		choices:    map[string]int{},
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		viewDlg:    dialog.New[T]("Failed to load " + singular),
		deleteDlg:  dialog.New[T]("Failed to delete " + singular),
		statusDlg:  dialog.New[T]("Failed to update " + singular + " status"),
		replyDlg:   dialog.New[T]("Failed to send reply"),
		reply:      reply,
	}
}

func (t *listTab[T]) Title() string {
	return capitalize(t.def.Name)
}

func (t *listTab[T]) Init() tea.Cmd {
	return tea.Batch(t.load(), t.spinner.Tick)
}

func (t *listTab[T]) Resize(width, height int) {
	t.width = width
	t.height = height
	t.search.Width = max(width-6, 10)
	t.reply.SetWidth(min(max(width-12, 20), 72))
}

func (t *listTab[T]) Capturing() bool {
	return t.searching || t.openDialog() != nil
}

func (t *listTab[T]) Reset() {
	for _, d := range t.dialogs() {
		d.Close()
	}
	t.searching = false
	t.search.Blur()
	t.reply.Blur()
	t.flash = ""
}

func (t *listTab[T]) Close() {
	t.ctrl.Close()
}

func (t *listTab[T]) load() tea.Cmd {
	ctrl, index := t.ctrl, t.index
	return func() tea.Msg {
		return loadedMsg{tab: index, err: ctrl.Load(context.Background())}
	}
}

func (t *listTab[T]) dialogs() []*dialog.Dialog[T] {
	return []*dialog.Dialog[T]{t.viewDlg, t.deleteDlg, t.statusDlg, t.replyDlg}
}

func (t *listTab[T]) dialogFor(kind dialogKind) *dialog.Dialog[T] {
	return t.dialogs()[kind]
}

// openDialog returns the visible dialog, or nil
func (t *listTab[T]) openDialog() *dialog.Dialog[T] {
	for _, d := range t.dialogs() {
		if d.IsOpen() {
			return d
		}
	}
	return nil
}

func (t *listTab[T]) openKind() (dialogKind, bool) {
	for i, d := range t.dialogs() {
		if d.IsOpen() {
			return dialogKind(i), true
		}
	}
	return 0, false
}

func (t *listTab[T]) busy() bool {
	if t.ctrl.Loading() {
		return true
	}
	for _, d := range t.dialogs() {
		if d.Status() == dialog.Submitting {
			return true
		}
	}
	return false
}

func (t *listTab[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil && !listing.Quiet(msg.err) {
			t.log.Warn("failed to load records", "resource", t.def.Name, "error", msg.err)
		}
		t.clampCursor()
		return nil

	case submittedMsg:
		return t.finish(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		t.spinner, cmd = t.spinner.Update(msg)
		return cmd

	case tea.MouseMsg:
		return t.handleMouse(msg)

	case tea.KeyMsg:
		if kind, ok := t.openKind(); ok {
			return t.handleDialogKey(kind, msg)
		}
		if t.searching {
			return t.handleSearchKey(msg)
		}
		return t.handleListKey(msg)
	}

	// cursor blinks
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if t.searching {
		t.search, cmd = t.search.Update(msg)
		cmds = append(cmds, cmd)
	}
	if t.replyDlg.IsOpen() {
		t.reply, cmd = t.reply.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (t *listTab[T]) handleListKey(msg tea.KeyMsg) tea.Cmd {
	v := t.ctrl.View()
	t.flash = ""

	switch {
	case key.Matches(msg, t.keys.Up):
		if t.cursor > 0 {
			t.cursor--
		}
	case key.Matches(msg, t.keys.Down):
		if t.cursor < len(v.Page.Items)-1 {
			t.cursor++
		}
	case key.Matches(msg, t.keys.NextPage):
		t.ctrl.NextPage()
		t.cursor = 0
	case key.Matches(msg, t.keys.PrevPage):
		t.ctrl.PrevPage()
		t.cursor = 0
	case key.Matches(msg, t.keys.Search):
		t.searching = true
		return t.search.Focus()
	case key.Matches(msg, t.keys.Filter):
		t.cycleCategory(0)
	case key.Matches(msg, t.keys.AltFilter):
		t.cycleCategory(1)
	case key.Matches(msg, t.keys.ClearFilter):
		t.ctrl.ClearFilters()
		t.choices = map[string]int{}
		t.search.Reset()
		t.cursor = 0
	case key.Matches(msg, t.keys.Refresh):
		return t.load()
	case key.Matches(msg, t.keys.Open):
		if r, ok := t.selected(); ok {
			_ = t.viewDlg.Open(r)
		}
	case key.Matches(msg, t.keys.Delete):
		if r, ok := t.selected(); ok {
			t.cascade = false
			_ = t.deleteDlg.Open(r)
		}
	case key.Matches(msg, t.keys.Status):
		if r, ok := t.selected(); ok {
			t.statusChoice = t.statusIndex(t.def.Status(r))
			_ = t.statusDlg.Open(r)
		}
	case key.Matches(msg, t.keys.Reply):
		if !t.def.CanReply() {
			return nil
		}
		if r, ok := t.selected(); ok {
			if t.replyDlg.Open(r) == nil {
				t.reply.Reset()
				return t.reply.Focus()
			}
		}
	}
	return nil
}

func (t *listTab[T]) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		t.searching = false
		t.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	t.search, cmd = t.search.Update(msg)
	t.ctrl.SetQuery(t.search.Value())
	t.cursor = 0
	return cmd
}

func (t *listTab[T]) handleDialogKey(kind dialogKind, msg tea.KeyMsg) tea.Cmd {
	d := t.dialogFor(kind)
	if key.Matches(msg, t.dialogKeys.Escape) {
		t.dismiss(d, dialog.ReasonEscape)
		return nil
	}
	if d.Status() == dialog.Submitting {
		return nil
	}

	switch kind {
	case viewDialog:
		if key.Matches(msg, t.dialogKeys.Close) {
			t.dismiss(d, dialog.ReasonClose)
		}
	case deleteDialog:
		switch {
		case key.Matches(msg, t.dialogKeys.Confirm):
			return t.submitDelete()
		case key.Matches(msg, t.dialogKeys.Cancel):
			t.dismiss(d, dialog.ReasonClose)
		case key.Matches(msg, t.dialogKeys.Toggle) && len(t.def.Cascades) > 0:
			t.cascade = !t.cascade
		}
	case statusDialog:
		switch {
		case key.Matches(msg, t.dialogKeys.Next):
			t.statusChoice = (t.statusChoice + 1) % len(t.def.Statuses)
		case key.Matches(msg, t.dialogKeys.Prev):
			t.statusChoice = (t.statusChoice + len(t.def.Statuses) - 1) % len(t.def.Statuses)
		case msg.Type == tea.KeyEnter:
			return t.submitStatus()
		}
	case replyDialog:
		if key.Matches(msg, t.dialogKeys.Send) {
			return t.submitReply()
		}
		var cmd tea.Cmd
		t.reply, cmd = t.reply.Update(msg)
		d.SetInput("reply", t.reply.Value())
		return cmd
	}
	return nil
}

func (t *listTab[T]) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	kind, ok := t.openKind()
	if !ok {
		return nil
	}
	if !t.dialogRect(kind).contains(msg.X, msg.Y) {
		t.dismiss(t.dialogFor(kind), dialog.ReasonBackdrop)
	}
	return nil
}

func (t *listTab[T]) dismiss(d *dialog.Dialog[T], reason dialog.Reason) {
	if d.Dismiss(reason) {
		t.reply.Blur()
		return
	}
	t.log.Debug("dialog dismissal ignored", "resource", t.def.Name, "reason", reason.String(), "status", d.Status().String())
}

// submit starts run against the dialog's target
func (t *listTab[T]) submit(kind dialogKind, run func(ctx context.Context, target T) error) tea.Cmd {
	d := t.dialogFor(kind)
	ticket, err := d.Begin()
	if err != nil {
		return nil
	}
	ctx, target, index := t.ctx, d.Target(), t.index
	return func() tea.Msg {
		return submittedMsg{tab: index, kind: kind, ticket: ticket, err: run(ctx, target)}
	}
}

func (t *listTab[T]) submitDelete() tea.Cmd {
	var names []string
	if t.cascade {
		for _, c := range t.def.Cascades {
			names = append(names, c.Name)
		}
	}
	followUps, err := t.def.FollowUps(t.res, names...)
	if err != nil {
		t.flash = err.Error()
		return nil
	}
	return t.submit(deleteDialog, func(ctx context.Context, r T) error {
		return t.ctrl.Delete(ctx, r.RecordID(), followUps...)
	})
}

func (t *listTab[T]) submitStatus() tea.Cmd {
	patch, err := t.def.StatusPatch(t.def.Statuses[t.statusChoice])
	if err != nil {
		t.flash = err.Error()
		return nil
	}
	return t.submit(statusDialog, func(ctx context.Context, r T) error {
		_, err := t.ctrl.Update(ctx, r.RecordID(), patch)
		return err
	})
}

func (t *listTab[T]) submitReply() tea.Cmd {
	patch, err := t.def.ReplyPatch(t.reply.Value())
	if err != nil {
		t.flash = err.Error()
		return nil
	}
	return t.submit(replyDialog, func(ctx context.Context, r T) error {
		_, err := t.ctrl.Update(ctx, r.RecordID(), patch)
		return err
	})
}

func (t *listTab[T]) finish(msg submittedMsg) tea.Cmd {
	d := t.dialogFor(msg.kind)
	target := d.Target()
	if !d.Finish(msg.ticket, msg.err) {
		return nil
	}
	if msg.err != nil {
		if !listing.Quiet(msg.err) {
			t.log.Warn("dialog submission failed", "resource", t.def.Name, "dialog", msg.kind.String(), "id", target.RecordID(), "error", msg.err)
		}
		return nil
	}

	singular := capitalize(t.def.Singular)
	switch msg.kind {
	case deleteDialog:
		t.flash = fmt.Sprintf("%s %s deleted", singular, target.RecordID())
	case statusDialog:
		t.flash = fmt.Sprintf("%s %s status set to %s", singular, target.RecordID(), t.def.Statuses[t.statusChoice])
	case replyDialog:
		t.flash = fmt.Sprintf("Reply sent to %s %s", t.def.Singular, target.RecordID())
		t.reply.Reset()
		t.reply.Blur()
	}
	t.clampCursor()
	return nil
}

func (t *listTab[T]) selected() (T, bool) {
	var zero T
	items := t.ctrl.View().Page.Items
	if t.cursor < 0 || t.cursor >= len(items) {
		return zero, false
	}
	return items[t.cursor], true
}

func (t *listTab[T]) clampCursor() {
	n := len(t.ctrl.View().Page.Items)
	if t.cursor >= n {
		t.cursor = n - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

// cycleCategory steps the i-th category through All and each of its values
func (t *listTab[T]) cycleCategory(i int) {
	cats := t.def.Schema.Categories
	if i >= len(cats) || len(cats[i].Values) == 0 {
		return
	}
	cat := cats[i]
	next := (t.choices[cat.Name] + 1) % (len(cat.Values) + 1)
	value := cat.Case.All()
	if next > 0 {
		value = cat.Values[next-1]
	}
	if err := t.ctrl.SetCategory(cat.Name, value); err != nil {
		t.flash = err.Error()
		return
	}
	t.choices[cat.Name] = next
	t.cursor = 0
}

func (t *listTab[T]) statusIndex(status string) int {
	for i, s := range t.def.Statuses {
		if strings.EqualFold(s, status) {
			return i
		}
	}
	return 0
}

func (t *listTab[T]) View() string {
	v := t.ctrl.View()

	var sections []string
	sections = append(sections, t.renderToolbar(v))
	body := t.renderTable(v, t.height-3)
	sections = append(sections, body)
	sections = append(sections, t.renderStatusLine(v))
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	kind, ok := t.openKind()
	if !ok {
		return content
	}
	box := t.renderDialog(kind)
	return lipgloss.Place(t.width, t.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "))
}

func (t *listTab[T]) renderToolbar(v listing.View[T]) string {
	var parts []string
	if t.searching || t.search.Value() != "" {
		parts = append(parts, t.search.View())
	}
	for _, cat := range t.def.Schema.Categories {
		value := v.Filter.Selected[cat.Name]
		if value == "" {
			value = cat.Case.All()
		}
		parts = append(parts, LabelStyle.Render(cat.Name+":")+" "+value)
	}
	if t.busy() {
		parts = append(parts, t.spinner.View()+" loading")
	}
	return StatusBarStyle.Render(strings.Join(parts, "  ·  "))
}

func (t *listTab[T]) renderTable(v listing.View[T], height int) string {
	if v.Message != "" && v.Total == 0 {
		return ErrorStyle.Width(t.width).Height(max(height, 1)).Render(v.Message)
	}
	if v.Empty() {
		msg := fmt.Sprintf("No %s found", t.def.Name)
		if v.Total > 0 {
			msg = fmt.Sprintf("No %s match the current filters. Press x to clear them.", t.def.Name)
		} else if !v.Loaded {
			msg = "Loading " + t.def.Name + "..."
		}
		return EmptyStateStyle.Width(t.width).Height(max(height, 1)).Render(msg)
	}

	widths := t.columnWidths(v.Page.Items)
	headers := t.def.Headers()
	lines := []string{renderRow(headers, widths, TableHeaderStyle)}
	for i, r := range v.Page.Items {
		style := NormalRowStyle
		if i == t.cursor {
			style = SelectedRowStyle
		}
		lines = append(lines, renderRow(t.def.Row(r), widths, style))
	}
	return lipgloss.NewStyle().Height(max(height, 1)).Render(strings.Join(lines, "\n"))
}

// columnWidths sizes fixed columns to their content and shares the rest
// between wide ones
func (t *listTab[T]) columnWidths(items []T) []int {
	cols := t.def.Columns
	widths := make([]int, len(cols))
	used := 0
	wide := 0
	for i, c := range cols {
		w := runewidth.StringWidth(c.Header)
		for _, r := range items {
			w = max(w, runewidth.StringWidth(c.Value(r)))
		}
		if c.Wide {
			wide++
			widths[i] = min(w, 40)
			continue
		}
		widths[i] = w
		used += w
	}
	free := t.width - used - 2*len(cols)
	if wide > 0 && free > 0 {
		share := max(free/wide, 8)
		for i, c := range cols {
			if c.Wide {
				widths[i] = min(widths[i], share)
			}
		}
	}
	return widths
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		cell = runewidth.Truncate(cell, widths[i], "…")
		out[i] = runewidth.FillRight(cell, widths[i])
	}
	return style.Render(" " + strings.Join(out, "  ") + " ")
}

func (t *listTab[T]) renderStatusLine(v listing.View[T]) string {
	if t.flash != "" {
		return SuccessStyle.Render("✓ " + t.flash)
	}
	if v.Message != "" {
		return ErrorStyle.Render(v.Message)
	}
	if v.Empty() {
		return ""
	}
	first := (v.Page.Number-1)*v.Page.Size + 1
	last := first + len(v.Page.Items) - 1
	return StatusBarStyle.Render(fmt.Sprintf("Showing %d-%d of %d %s (page %d of %d)",
		first, last, v.Page.Filtered, t.def.Name, v.Page.Number, v.Page.TotalPages))
}

// dialogRect is where View places the dialog box
func (t *listTab[T]) dialogRect(kind dialogKind) rect {
	box := t.renderDialog(kind)
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	return rect{x: max(t.width-w, 0) / 2, y: max(t.height-h, 0) / 2, w: w, h: h}
}

func (t *listTab[T]) renderDialog(kind dialogKind) string {
	d := t.dialogFor(kind)
	target := d.Target()
	singular := capitalize(t.def.Singular)

	var title string
	var body []string
	var help []string
	style := DialogStyle

	switch kind {
	case viewDialog:
		title = fmt.Sprintf("%s %s", singular, target.RecordID())
		for _, f := range t.def.Details(target) {
			if f.Value == "" {
				continue
			}
			body = append(body, LabelStyle.Render(f.Label+":")+" "+runewidth.Wrap(f.Value, 60))
		}
		help = []string{helpKey("q/enter", "close"), helpKey("esc", "dismiss")}
	case deleteDialog:
		style = DangerDialogStyle
		title = fmt.Sprintf("Delete %s %s?", t.def.Singular, target.RecordID())
		body = append(body, "This cannot be undone.")
		for _, c := range t.def.Cascades {
			mark := "[ ]"
			if t.cascade {
				mark = "[x]"
			}
			body = append(body, mark+" "+c.Description)
		}
		help = []string{helpKey("y", "delete"), helpKey("n", "cancel")}
		if len(t.def.Cascades) > 0 {
			help = append(help, helpKey("c", "toggle"))
		}
	case statusDialog:
		title = fmt.Sprintf("Status of %s %s", t.def.Singular, target.RecordID())
		for i, s := range t.def.Statuses {
			line := "  " + s
			if i == t.statusChoice {
				line = SelectedRowStyle.Render("> " + s)
			}
			body = append(body, line)
		}
		help = []string{helpKey("j/k", "choose"), helpKey("enter", "save"), helpKey("esc", "cancel")}
	case replyDialog:
		title = fmt.Sprintf("Reply to %s %s", t.def.Singular, target.RecordID())
		body = append(body, t.reply.View())
		help = []string{helpKey("ctrl+s", "send"), helpKey("esc", "cancel")}
	}

	lines := []string{TitleStyle.Render(title), ""}
	lines = append(lines, body...)
	lines = append(lines, "")
	switch {
	case d.Status() == dialog.Submitting:
		lines = append(lines, t.spinner.View()+" Saving...")
	case d.Message() != "":
		lines = append(lines, ErrorStyle.Render(d.Message()))
	}
	lines = append(lines, strings.Join(help, "  "))
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
