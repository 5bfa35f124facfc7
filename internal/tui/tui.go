package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Joseda-hg/mestaches/internal/model"
	"github.com/Joseda-hg/mestaches/internal/todo"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

const (
	viewHeader  = "header"
	viewFooter  = "footer"
	viewTasks   = "tasks"
	viewForm    = "form"
	viewConfirm = "confirm"
	viewAlert   = "alert"
	viewHelp    = "help"
)

type UI struct {
	store    *todo.Store
	gui      *gocui.Gui
	messages todo.Messages

	tasks    []model.Task
	selected int

	form       *formState
	formEditor *formEditor
	confirm    *confirmState
	alert      string
	helpActive bool
	status     string
}

type confirmState struct {
	taskID string
	title  string
}

func Run(store *todo.Store) error {
	gui, err := gocui.NewGui(gocui.NewGuiOpts{OutputMode: gocui.OutputNormal})
	if err != nil {
		return err
	}
	defer gui.Close()

	ui := newUI(store)
	ui.gui = gui
	gui.Mouse = true

	gui.SetManagerFunc(ui.layout)
	if err := ui.bindKeys(gui); err != nil {
		return err
	}
	ui.loadTasks()

	ui.watchStore(func() {
		gui.Update(func(*gocui.Gui) error { return nil })
	})

	if err := gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}

	return nil
}

func newUI(store *todo.Store) *UI {
	ui := &UI{
		store:    store,
		messages: store.Messages(),
	}
	ui.formEditor = &formEditor{ui: ui}
	return ui
}

// watchStore asks for a redraw whenever the list changes, so edits made
// through the web surface show up between keypresses. The next layout pass
// reloads the tasks.
func (u *UI) watchStore(redraw func()) {
	u.store.OnChange(redraw)
}

// Notify shows message in a modal until the user dismisses it.
func (u *UI) Notify(message string) {
	u.alert = message
}

func (u *UI) bindKeys(gui *gocui.Gui) error {
	if err := gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'q', gocui.ModNone, u.quit); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'r', gocui.ModNone, u.reload); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'a', gocui.ModNone, u.addTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'n', gocui.ModNone, u.addTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'd', gocui.ModNone, u.deleteTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", 'x', gocui.ModNone, u.toggleDone); err != nil {
		return err
	}
	if err := gui.SetKeybinding("", '?', gocui.ModNone, u.toggleHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeySpace, gocui.ModNone, u.toggleDone); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyArrowDown, gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'j', gocui.ModNone, u.moveDown); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyArrowUp, gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, 'k', gocui.ModNone, u.moveUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.KeyDelete, gocui.ModNone, u.deleteTask); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEnter, gocui.ModNone, u.submitFormNow); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyTab, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyBacktab, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowDown, gocui.ModNone, u.nextFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyArrowUp, gocui.ModNone, u.prevFormField); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewForm, gocui.KeyEsc, gocui.ModNone, u.cancelForm); err != nil {
		return err
	}
	for _, ch := range []rune{'y', 'o'} {
		if err := gui.SetKeybinding(viewConfirm, ch, gocui.ModNone, u.acceptDelete); err != nil {
			return err
		}
	}
	if err := gui.SetKeybinding(viewConfirm, gocui.KeyEnter, gocui.ModNone, u.acceptDelete); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, 'n', gocui.ModNone, u.declineDelete); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewConfirm, gocui.KeyEsc, gocui.ModNone, u.declineDelete); err != nil {
		return err
	}
	for _, key := range []gocui.Key{gocui.KeyEnter, gocui.KeyEsc, gocui.KeySpace} {
		if err := gui.SetKeybinding(viewAlert, key, gocui.ModNone, u.dismissAlert); err != nil {
			return err
		}
	}
	if err := gui.SetKeybinding(viewHelp, gocui.KeyEsc, gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewHelp, '?', gocui.ModNone, u.closeHelp); err != nil {
		return err
	}
	if err := gui.SetViewClickBinding(&gocui.ViewMouseBinding{ViewName: viewTasks, Key: gocui.MouseLeft, Handler: func(opts gocui.ViewMouseBindingOpts) error {
		return u.onListClick(gui, opts)
	}}); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.MouseWheelUp, gocui.ModNone, u.scrollUp); err != nil {
		return err
	}
	if err := gui.SetKeybinding(viewTasks, gocui.MouseWheelDown, gocui.ModNone, u.scrollDown); err != nil {
		return err
	}
	return nil
}

func (u *UI) layout(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	if maxX <= 0 || maxY <= 0 {
		return nil
	}

	u.loadTasks()

	headerView, err := gui.SetView(viewHeader, 0, 0, maxX-1, 0, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	headerView.Frame = false
	headerView.FgColor = gocui.ColorDefault
	u.renderHeader(headerView)

	footerY1 := max(maxY-2, 1)
	footerY0 := max(footerY1-2, 1)
	footerView, err := gui.SetView(viewFooter, 0, footerY0, maxX-1, footerY1, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	footerView.Frame = false
	footerView.Wrap = true
	footerView.FgColor = gocui.ColorDefault | gocui.AttrDim
	u.renderFooter(footerView)

	bodyTop := 1
	bodyBottom := footerY0 - 1
	if bodyBottom <= bodyTop {
		return nil
	}

	tasksView, err := gui.SetView(viewTasks, 0, bodyTop, maxX-1, bodyBottom, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		tasksView.Title = u.messages.AppTitle
		tasksView.TitleColor = gocui.ColorCyan
	}
	applyViewStyle(tasksView, !u.inputActive())
	u.renderTaskList(tasksView)

	_, _ = gui.SetViewOnTop(viewHeader)
	_, _ = gui.SetViewOnTop(viewFooter)

	if u.form != nil {
		if err := u.showForm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewForm)
	}

	if u.confirm != nil {
		if err := u.showConfirm(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewConfirm)
	}

	if u.helpActive {
		if err := u.showHelp(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewHelp)
	}

	// The alert sits above every other modal, including the form that raised it.
	if u.alert != "" {
		if err := u.showAlert(gui); err != nil {
			return err
		}
	} else {
		_ = gui.DeleteView(viewAlert)
	}

	if gui.CurrentView() == nil || !u.inputActive() {
		_, _ = gui.SetCurrentView(viewTasks)
	}

	gui.Cursor = u.form != nil && u.alert == ""

	return nil
}

func (u *UI) loadTasks() {
	u.tasks = u.store.Tasks()
	if u.selected >= len(u.tasks) {
		u.selected = max(len(u.tasks)-1, 0)
	}
}

func (u *UI) renderHeader(view *gocui.View) {
	view.Clear()
	counts := todo.Count(u.tasks)
	fmt.Fprintf(view, "%s  %s", colorize(u.messages.AppTitle, ansiBold), formatCounters(counts, u.messages))
}

func (u *UI) renderFooter(view *gocui.View) {
	view.Clear()
	view.SetOrigin(0, 0)
	view.SetCursor(0, 0)

	fmt.Fprint(view, u.footerText())
}

func (u *UI) footerText() string {
	if u.status == "" {
		return u.messages.KeyHints
	}
	return u.messages.KeyHints + "\n" + u.status
}

func (u *UI) renderTaskList(view *gocui.View) {
	view.Clear()
	if len(u.tasks) == 0 {
		fmt.Fprint(view, u.messages.Empty)
		return
	}

	focused := !u.inputActive()
	for i, task := range u.tasks {
		prefix := " "
		if i == u.selected {
			if focused {
				prefix = ">"
			} else {
				prefix = "*"
			}
		}
		fmt.Fprintf(view, "%s %s\n", prefix, formatTaskRow(task, u.messages))
	}
	if focused {
		view.SetCursor(0, min(u.selected, len(u.tasks)-1))
	}
}

func (u *UI) selectedTask() *model.Task {
	if u.selected >= 0 && u.selected < len(u.tasks) {
		return &u.tasks[u.selected]
	}
	return nil
}

func (u *UI) onListClick(gui *gocui.Gui, opts gocui.ViewMouseBindingOpts) error {
	if u.inputActive() {
		return nil
	}
	view, err := gui.View(viewTasks)
	if err != nil {
		return nil
	}

	x0, y0, _, _ := view.Dimensions()
	ox, oy := view.Origin()
	row := max(opts.Y-y0-1+oy, 0)
	if row >= len(u.tasks) {
		return nil
	}
	u.selected = row

	column := opts.X - x0 - 1 + ox
	if column >= 0 && column < checkboxColumns {
		return u.toggleDone(gui, view)
	}
	return nil
}

func (u *UI) scrollUp(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() || view == nil {
		return nil
	}
	view.ScrollUp(1)
	return nil
}

func (u *UI) scrollDown(gui *gocui.Gui, view *gocui.View) error {
	if u.inputActive() || view == nil {
		return nil
	}
	view.ScrollDown(1)
	return nil
}

func (u *UI) moveDown(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected < len(u.tasks)-1 {
		u.selected++
	}
	return nil
}

func (u *UI) moveUp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	if u.selected > 0 {
		u.selected--
	}
	return nil
}

func (u *UI) reload(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.status = ""
	u.loadTasks()
	return nil
}

func (u *UI) toggleDone(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	if err := u.store.Toggle(context.Background(), selected.ID); err != nil {
		u.status = err.Error()
		u.loadTasks()
		return nil
	}
	u.status = ""
	u.loadTasks()
	return nil
}

func (u *UI) deleteTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	selected := u.selectedTask()
	if selected == nil {
		return nil
	}
	u.confirm = &confirmState{taskID: selected.ID, title: selected.Title}
	return nil
}

func (u *UI) acceptDelete(gui *gocui.Gui, _ *gocui.View) error {
	return u.answerDelete(gui, true)
}

func (u *UI) declineDelete(gui *gocui.Gui, _ *gocui.View) error {
	return u.answerDelete(gui, false)
}

func (u *UI) answerDelete(gui *gocui.Gui, accepted bool) error {
	if u.confirm == nil {
		return nil
	}
	taskID := u.confirm.taskID
	u.confirm = nil
	closeModal(gui, viewConfirm)

	if _, err := u.store.Delete(context.Background(), taskID, todo.Answer(accepted)); err != nil {
		u.status = err.Error()
	} else {
		u.status = ""
	}
	u.loadTasks()
	return nil
}

func (u *UI) showConfirm(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(50, len([]rune(u.messages.ConfirmDelete))+4)
	height := 4
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewConfirm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = u.messages.Delete
	view.Wrap = true
	view.FrameColor = gocui.ColorRed
	view.Clear()
	fmt.Fprintln(view, u.messages.ConfirmDelete)
	fmt.Fprintln(view, u.confirm.title)
	fmt.Fprintf(view, "[y/o] %s   [n/esc] %s", u.messages.Yes, u.messages.No)
	_, _ = gui.SetViewOnTop(viewConfirm)
	if u.alert == "" {
		_, _ = gui.SetCurrentView(viewConfirm)
	}
	return nil
}

func (u *UI) dismissAlert(gui *gocui.Gui, _ *gocui.View) error {
	u.alert = ""
	closeModal(gui, viewAlert)
	if gui != nil && u.form != nil {
		_, _ = gui.SetCurrentView(viewForm)
	}
	return nil
}

func (u *UI) showAlert(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(40, len([]rune(u.alert))+4)
	height := 3
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewAlert, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	view.Title = "!"
	view.Wrap = true
	view.FrameColor = gocui.ColorYellow
	view.Clear()
	fmt.Fprintln(view, u.alert)
	fmt.Fprint(view, u.messages.DismissHint)
	_, _ = gui.SetViewOnTop(viewAlert)
	_, _ = gui.SetCurrentView(viewAlert)
	return nil
}

func (u *UI) toggleHelp(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() && !u.helpActive {
		return nil
	}
	u.helpActive = !u.helpActive
	return nil
}

func (u *UI) closeHelp(gui *gocui.Gui, _ *gocui.View) error {
	u.helpActive = false
	closeModal(gui, viewHelp)
	return nil
}

func (u *UI) showHelp(gui *gocui.Gui) error {
	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := len(u.messages.HelpLines) + 2
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewHelp, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Title = u.messages.Help
		view.Wrap = true
	}
	view.Clear()
	fmt.Fprint(view, helpText(u.messages))
	_, _ = gui.SetCurrentView(viewHelp)
	return nil
}

func (u *UI) inputActive() bool {
	return u.form != nil || u.confirm != nil || u.alert != "" || u.helpActive
}

func (u *UI) quit(_ *gocui.Gui, _ *gocui.View) error {
	if u.confirm != nil || u.alert != "" {
		return nil
	}
	return gocui.ErrQuit
}

// closeModal drops a modal view and hands focus back to the list. Handlers
// run without a gui in tests.
func closeModal(gui *gocui.Gui, name string) {
	if gui == nil {
		return
	}
	_ = gui.DeleteView(name)
	_, _ = gui.SetCurrentView(viewTasks)
}

func helpText(messages todo.Messages) string {
	return strings.Join(messages.HelpLines, "\n")
}

func applyViewStyle(view *gocui.View, focused bool) {
	view.Frame = true
	view.Highlight = focused
	view.HighlightInactive = false
	view.SelBgColor = gocui.ColorBlue
	view.SelFgColor = gocui.ColorBlack
	view.InactiveViewSelBgColor = gocui.ColorDefault
	if focused {
		view.FrameColor = gocui.ColorCyan
	} else {
		view.FrameColor = gocui.ColorDefault
	}
}
