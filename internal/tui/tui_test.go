package tui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/highstreeto/tracky/internal/repl"
	"github.com/highstreeto/tracky/internal/tracker"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTracker(t *testing.T, names ...string) (*tracker.Tracker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	tr := tracker.New(tracker.WithClock(clock.Now))
	for _, name := range names {
		if err := tr.AddProject(tracker.NewProject(name)); err != nil {
			t.Fatalf("add project: %v", err)
		}
	}
	return tr, clock
}

func newTestApp(t *testing.T, tr *tracker.Tracker) App {
	t.Helper()
	m, _ := NewApp(tr, t.TempDir()).Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// statusOf runs cmd and returns the status message it produces.
func statusOf(t *testing.T, cmd tea.Cmd) statusMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	raw := cmd()
	msg, ok := raw.(statusMsg)
	if !ok {
		t.Fatalf("expected statusMsg, got %T", raw)
	}
	return msg
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatHours(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0.0h"},
		{30 * time.Minute, "0.5h"},
		{90 * time.Minute, "1.5h"},
		{10 * time.Hour, "10.0h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.d); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		cursor, n, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{-1, 5, 0},
		{2, 5, 2},
		{7, 5, 4},
	}
	for _, tt := range tests {
		if got := clampCursor(tt.cursor, tt.n); got != tt.want {
			t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.n, got, tt.want)
		}
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 3 {
		t.Fatalf("expected 3 view names, got %d", len(viewNames))
	}
	if viewNames[viewDashboard] != "Dashboard" || viewNames[viewProjects] != "Projects" || viewNames[viewReports] != "Report" {
		t.Fatalf("unexpected view names: %v", viewNames)
	}
}

// ============================================================
// Projects model
// ============================================================

func TestValidateProjectName(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev")
	validate := validateProjectName(tr)

	tests := []struct {
		name string
		ok   bool
	}{
		{"Ops", true},
		{"  Ops  ", true},
		{"", false},
		{"   ", false},
		{"two words", false},
		{"two\u00a0words", false},
		{"two\vwords", false},
		{"Dev", false},
	}
	for _, tt := range tests {
		err := validate(tt.name)
		if (err == nil) != tt.ok {
			t.Errorf("validate(%q) = %v, want ok=%v", tt.name, err, tt.ok)
		}
	}
}

func TestValidateActivity(t *testing.T) {
	if validateActivity("  ") == nil {
		t.Fatal("blank activity should be rejected")
	}
	if err := validateActivity("write docs"); err != nil {
		t.Fatal(err)
	}
}

func TestProjectsNewProjectForm(t *testing.T) {
	tr, _ := newTestTracker(t)
	p := newProjectsModel(tr)

	p, _ = p.update(keyPress("n"))
	if !p.formActive || p.formType != formProject {
		t.Fatal("n should open the new project form")
	}

	*p.formValue = " Dev "
	p, cmd := p.submitForm()
	if p.formActive {
		t.Fatal("form should close after submit")
	}
	if msg := statusOf(t, cmd); msg.isError || msg.text != "Added new project Dev" {
		t.Fatalf("status = %+v", msg)
	}
	if _, ok := tr.FindProject("Dev"); !ok {
		t.Fatal("project not added")
	}
}

func TestProjectsNewProjectDuplicate(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev")
	p := newProjectsModel(tr)

	p, _ = p.showNewProjectForm()
	*p.formValue = "Dev"
	_, cmd := p.submitForm()
	if msg := statusOf(t, cmd); !msg.isError {
		t.Fatalf("duplicate should report an error, got %+v", msg)
	}
	if tr.Len() != 1 {
		t.Fatalf("tracker should be unchanged, got %d projects", tr.Len())
	}
}

func TestProjectsFormEscCancels(t *testing.T) {
	tr, _ := newTestTracker(t)
	p := newProjectsModel(tr)

	p, _ = p.showNewProjectForm()
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.formActive || p.form != nil {
		t.Fatal("esc should cancel the form")
	}
	if tr.Len() != 0 {
		t.Fatal("cancel should not add a project")
	}
}

func TestProjectsStartTask(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev", "Ops")
	p := newProjectsModel(tr)

	p, _ = p.update(keyPress("j"))
	p, _ = p.update(keyPress("s"))
	if !p.formActive || p.formType != formTask {
		t.Fatal("s should open the start task form")
	}
	if !strings.Contains(p.view(), "Start Task in Ops") {
		t.Fatal("form title should name the project")
	}

	*p.formValue = "deploy the thing"
	_, cmd := p.submitForm()
	if msg := statusOf(t, cmd); msg.text != "Started task deploy the thing ☕" {
		t.Fatalf("status = %+v", msg)
	}
	started := tr.Project(1).Started()
	if len(started) != 1 || started[0].Activity() != "deploy the thing" {
		t.Fatalf("unexpected tasks: %v", started)
	}
}

func TestProjectsStartedTaskFinishesByName(t *testing.T) {
	tr, clock := newTestTracker(t, "Dev")
	p := newProjectsModel(tr)

	p, _ = p.update(keyPress("s"))
	if !p.formActive || p.formType != formTask {
		t.Fatal("s should open the start task form")
	}
	*p.formValue = "  write  docs "
	p.submitForm()

	started := tr.Project(0).Started()
	if len(started) != 1 || started[0].Activity() != "write docs" {
		t.Fatalf("unexpected tasks: %v", started)
	}
	clock.Advance(time.Minute)

	d := repl.New(tr, io.Discard)
	if _, err := d.Handle("finish Dev write  docs"); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if len(tr.Project(0).Started()) != 0 || len(tr.Project(0).Finished()) != 1 {
		t.Fatal("task started on the board should finish from the command line")
	}
}

func TestProjectsStartTaskNeedsProject(t *testing.T) {
	tr, _ := newTestTracker(t)
	p := newProjectsModel(tr)

	p, _ = p.update(keyPress("s"))
	if p.formActive {
		t.Fatal("start task without projects should do nothing")
	}
}

func TestProjectsFinishSelected(t *testing.T) {
	tr, clock := newTestTracker(t, "Dev")
	tr.StartTask(0, "a")
	tr.StartTask(0, "b")
	p := newProjectsModel(tr)

	p, _ = p.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !p.viewingTasks {
		t.Fatal("enter should open the task view")
	}

	clock.Advance(5 * time.Second)
	p, _ = p.update(keyPress("j"))
	p, cmd := p.update(keyPress("x"))
	if msg := statusOf(t, cmd); msg.text != "Finished b ⚡ took 5s" {
		t.Fatalf("status = %+v", msg)
	}
	if got := tr.Project(0).Started(); len(got) != 1 || got[0].Activity() != "a" {
		t.Fatalf("wrong task finished, still running: %v", got)
	}

	// The finished task is now last in the list.
	p, _ = p.update(keyPress("j"))
	_, cmd = p.update(keyPress("x"))
	if msg := statusOf(t, cmd); !msg.isError {
		t.Fatalf("finishing a finished task should fail, got %+v", msg)
	}
}

func TestProjectsTaskViewBack(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev")
	p := newProjectsModel(tr)

	p, _ = p.update(tea.KeyMsg{Type: tea.KeyEnter})
	p, _ = p.update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.viewingTasks {
		t.Fatal("esc should return to the project list")
	}
}

func TestProjectsViewRendersTasks(t *testing.T) {
	tr, clock := newTestTracker(t, "Dev")
	tr.StartTask(0, "running one")
	tr.StartTask(0, "done one")
	clock.Advance(2 * time.Minute)
	tr.FinishTask(0, "done one")
	clock.Advance(time.Minute)

	p := newProjectsModel(tr)
	p.setSize(120, 30)
	if !strings.Contains(p.view(), "Dev") {
		t.Fatal("project list should show the project")
	}

	p.viewingTasks = true
	out := p.view()
	if !strings.Contains(out, "running one") || !strings.Contains(out, "00:03:00") {
		t.Fatalf("running task with live elapsed missing:\n%s", out)
	}
	if !strings.Contains(out, "took 00:02:00") {
		t.Fatalf("finished task duration missing:\n%s", out)
	}
}

// ============================================================
// Dashboard model
// ============================================================

func TestDashboardRunning(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev", "Ops")
	tr.StartTask(0, "a")
	tr.StartTask(1, "b")
	tr.StartTask(1, "c")
	tr.FinishTask(1, "c")

	d := newDashboardModel(tr)
	running := d.running()
	if len(running) != 2 {
		t.Fatalf("expected 2 running tasks, got %d", len(running))
	}
	if running[1].name != "Ops" || running[1].project != 1 || running[1].task.Activity() != "b" {
		t.Fatalf("unexpected running entry: %+v", running[1])
	}
}

func TestDashboardFinish(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev")
	d := newDashboardModel(tr)

	_, cmd := d.update(keyPress("x"))
	if msg := statusOf(t, cmd); !msg.isError || msg.text != "No tasks to finish!" {
		t.Fatalf("status = %+v", msg)
	}

	tr.StartTask(0, "a")
	tr.StartTask(0, "b")
	d, _ = d.update(keyPress("j"))
	d, cmd = d.update(keyPress("x"))
	if msg := statusOf(t, cmd); msg.isError {
		t.Fatalf("finish failed: %+v", msg)
	}
	if got := tr.Project(0).Started(); len(got) != 1 || got[0].Activity() != "a" {
		t.Fatalf("expected a to keep running, got %v", got)
	}
	if d.cursor != 0 {
		t.Fatalf("cursor should clamp to remaining tasks, got %d", d.cursor)
	}
}

func TestDashboardTickUpdatesElapsed(t *testing.T) {
	tr, clock := newTestTracker(t, "Dev")
	tr.StartTask(0, "a")
	d := newDashboardModel(tr)
	d.setSize(120, 30)

	clock.Advance(42 * time.Second)
	d, _ = d.update(tickMsg(clock.now))
	if !strings.Contains(d.view(), "00:00:42") {
		t.Fatalf("elapsed time not refreshed:\n%s", d.view())
	}
}

func TestDashboardTooSmall(t *testing.T) {
	tr, _ := newTestTracker(t)
	d := newDashboardModel(tr)
	d.setSize(10, 10)
	if d.view() != "Terminal too small" {
		t.Fatal("expected size warning")
	}
}

// ============================================================
// Reports model
// ============================================================

func TestCollect(t *testing.T) {
	tr, clock := newTestTracker(t, "Dev", "Ops")
	tr.StartTask(0, "a")
	clock.Advance(time.Hour)
	tr.FinishLastTask(0)
	tr.StartTask(1, "b")
	clock.Advance(30 * time.Minute)

	rows := collect(tr)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].finished != time.Hour || rows[0].running != 0 || rows[0].tasks != 1 {
		t.Fatalf("Dev row = %+v", rows[0])
	}
	if rows[1].finished != 0 || rows[1].running != 30*time.Minute || rows[1].tasks != 1 {
		t.Fatalf("Ops row = %+v", rows[1])
	}
}

func TestReportsView(t *testing.T) {
	tr, clock := newTestTracker(t, "Dev")
	tr.StartTask(0, "a")
	clock.Advance(90 * time.Minute)
	tr.FinishLastTask(0)

	r := newReportsModel(tr)
	r.setSize(120, 40)
	r.refresh()

	out := r.view()
	for _, want := range []string{"Hours per project", "total 1.5h", "Dev", "01:30:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("report view missing %q", want)
		}
	}
}

func TestReportsViewEmpty(t *testing.T) {
	tr, _ := newTestTracker(t)
	r := newReportsModel(tr)
	r.setSize(80, 30)
	r.refresh()

	if !strings.Contains(r.view(), "No projects yet") {
		t.Fatal("empty report should say so")
	}
}

// ============================================================
// App model
// ============================================================

func TestAppLoadingState(t *testing.T) {
	tr, _ := newTestTracker(t)
	app := NewApp(tr, t.TempDir())
	// Width 0 means not yet sized
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppViewStates(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev")
	tr.StartTask(0, "a")
	app := newTestApp(t, tr)

	// Test all views render without panic
	for _, v := range []viewState{viewDashboard, viewProjects, viewReports} {
		app.activeView = v
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr)

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppTabKeys(t *testing.T) {
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr)

	tests := []struct {
		key  tea.KeyMsg
		want viewState
	}{
		{keyPress("2"), viewProjects},
		{keyPress("3"), viewReports},
		{keyPress("1"), viewDashboard},
		{tea.KeyMsg{Type: tea.KeyTab}, viewProjects},
		{tea.KeyMsg{Type: tea.KeyTab}, viewReports},
		{tea.KeyMsg{Type: tea.KeyTab}, viewDashboard},
	}
	for _, tt := range tests {
		m, _ := app.Update(tt.key)
		app = m.(App)
		if app.activeView != tt.want {
			t.Fatalf("after %q active view = %d, want %d", tt.key.String(), app.activeView, tt.want)
		}
	}
}

func TestAppQuit(t *testing.T) {
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr)

	_, cmd := app.Update(keyPress("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should quit the board")
	}
}

func TestAppFormCapturesKeys(t *testing.T) {
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr)

	m, _ := app.Update(keyPress("2"))
	m, _ = m.Update(keyPress("n"))
	app = m.(App)
	if !app.isFormActive() {
		t.Fatal("n on projects should open a form")
	}

	// Typing "q" or "1" must reach the form, not quit or switch tabs.
	m, _ = app.Update(keyPress("1"))
	app = m.(App)
	if app.activeView != viewProjects || !app.isFormActive() {
		t.Fatal("form should capture keys")
	}
}

func TestAppStatusMessage(t *testing.T) {
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr)

	m, _ := app.Update(statusMsg{text: "test status"})
	app = m.(App)
	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppFooterRunningIndicator(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev")
	app := newTestApp(t, tr)
	if strings.Contains(app.renderFooter(), "running") {
		t.Fatal("no running indicator expected")
	}

	tr.StartTask(0, "a")
	if !strings.Contains(app.renderFooter(), "1 running") {
		t.Fatal("footer should count running tasks")
	}
}

func TestAppTickReschedules(t *testing.T) {
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr)

	_, cmd := app.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("tick should schedule the next tick")
	}
}

func TestAppExport(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev")
	tr.StartTask(0, "a")
	app := newTestApp(t, tr)

	m, _ := app.Update(keyPress("e"))
	app = m.(App)
	if app.picker == nil {
		t.Fatal("e should open the export picker")
	}
	if !strings.Contains(app.View(), "Export Format") {
		t.Fatal("picker should be rendered")
	}

	m, _ = app.Update(keyPress("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should export")
	}
	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg")
	}
	if filepath.Ext(done.path) != ".json" || done.count != 1 {
		t.Fatalf("unexpected export: %+v", done)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}

	m, _ = m.Update(done)
	if !strings.Contains(m.(App).status, "Exported 1 tasks") {
		t.Fatalf("status = %q", m.(App).status)
	}
}

func TestAppExportFailure(t *testing.T) {
	tr, _ := newTestTracker(t, "Dev")
	m, _ := NewApp(tr, filepath.Join(t.TempDir(), "missing")).Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	m, _ = m.Update(keyPress("e"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msg := statusOf(t, cmd)
	if !msg.isError || !strings.HasPrefix(msg.text, "Could not export: ") {
		t.Fatalf("status = %+v", msg)
	}
}

func TestAppExportCancel(t *testing.T) {
	tr, _ := newTestTracker(t)
	app := newTestApp(t, tr)

	m, _ := app.Update(keyPress("e"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.(App).picker != nil {
		t.Fatal("esc should close the picker")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should not be empty")
	}
}

func TestViewBindings(t *testing.T) {
	if len(keys.Views) != len(viewNames) {
		t.Fatalf("views = %d, want %d", len(keys.Views), len(viewNames))
	}
	if !key.Matches(keyPress("2"), keys.Views[viewProjects]) {
		t.Fatal("2 should select the projects view")
	}
	if got := keys.Views[viewReports].Help().Desc; got != "report" {
		t.Fatalf("help = %q, want report", got)
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should not be empty")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("help group %d is empty", i)
		}
	}
}

// ============================================================
// Board
// ============================================================

func TestBoardOptions(t *testing.T) {
	b := New()
	if b.in != os.Stdin || b.out != os.Stdout || b.exportDir != "." {
		t.Fatal("unexpected defaults")
	}

	dir := t.TempDir()
	b = New(WithInput(strings.NewReader("")), WithOutput(&strings.Builder{}), WithExportDir(dir))
	if b.exportDir != dir {
		t.Fatalf("exportDir = %q", b.exportDir)
	}
}
