package tui

import (
	"context"
	"fmt"

	"github.com/Joseda-hg/mestaches/internal/todo"
	goerrors "github.com/go-errors/errors"
	"github.com/jesseduffield/gocui"
)

type formField struct {
	Label string
	Value string
}

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
)

type formState struct {
	form   *todo.Form
	fields []formField
	index  int
}

type formEditor struct {
	ui *UI
}

func buildFormFields(messages todo.Messages) []formField {
	return []formField{
		{Label: messages.TitleLabel},
		{Label: messages.DescLabel},
		{Label: messages.DueLabel},
	}
}

// applyFormFields copies the typed values into form. Nothing is trimmed; the
// title length check counts what the user entered.
func applyFormFields(fields []formField, form *todo.Form) {
	form.Title = fields[fieldTitle].Value
	form.Description = fields[fieldDescription].Value
	form.DueDate = fields[fieldDue].Value
}

func (u *UI) addTask(gui *gocui.Gui, _ *gocui.View) error {
	if u.inputActive() {
		return nil
	}
	u.form = &formState{
		form:   todo.NewForm(todo.WithMessages(u.messages)),
		fields: buildFormFields(u.messages),
	}
	return nil
}

func (u *UI) showForm(gui *gocui.Gui) error {
	if u.form == nil {
		return nil
	}

	maxX, maxY := gui.Size()
	width := max(60, maxX/2)
	height := min(8, max(6, maxY/2))
	x0 := (maxX - width) / 2
	y0 := (maxY - height) / 2

	view, err := gui.SetView(viewForm, x0, y0, x0+width, y0+height, 0)
	if err != nil && !goerrors.Is(err, gocui.ErrUnknownView) {
		return err
	}
	if goerrors.Is(err, gocui.ErrUnknownView) {
		view.Wrap = true
	}
	view.Title = u.messages.NewTask
	view.Editable = true
	view.KeybindOnEdit = true
	view.Editor = u.formEditor
	u.renderForm(view)
	_, _ = gui.SetCurrentView(viewForm)
	return nil
}

func (u *UI) submitFormNow(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil || u.alert != "" {
		return nil
	}

	applyFormFields(u.form.fields, u.form.form)
	task, ok := u.form.form.Submit(u)
	if !ok {
		return nil
	}

	if err := u.store.Add(context.Background(), task); err != nil {
		u.status = err.Error()
	} else {
		u.status = ""
	}

	u.form = nil
	closeModal(gui, viewForm)
	u.loadTasks()
	u.selected = max(len(u.tasks)-1, 0)
	return nil
}

func (u *UI) cancelForm(gui *gocui.Gui, _ *gocui.View) error {
	if u.alert != "" {
		return nil
	}
	u.form = nil
	closeModal(gui, viewForm)
	return nil
}

func (u *UI) nextFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index < len(u.form.fields)-1 {
		u.form.index++
	}
	u.renderForm(view)
	return nil
}

func (u *UI) prevFormField(gui *gocui.Gui, view *gocui.View) error {
	if u.form == nil {
		return nil
	}
	if u.form.index > 0 {
		u.form.index--
	}
	u.renderForm(view)
	return nil
}

func (u *UI) renderForm(view *gocui.View) {
	if u.form == nil || view == nil {
		return
	}
	view.Clear()
	for index, field := range u.form.fields {
		prefix := "  "
		if index == u.form.index {
			prefix = "> "
		}
		fmt.Fprintf(view, "%s%s: %s\n", prefix, field.Label, field.Value)
	}
	fmt.Fprintf(view, "\n  [enter] %s   [esc] %s", u.messages.Create, u.messages.Cancel)

	label := u.form.fields[u.form.index].Label + ": "
	cursorX := len([]rune(label)) + len([]rune(u.form.fields[u.form.index].Value)) + 2
	view.SetCursor(cursorX, u.form.index)
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil || view == nil || ui.alert != "" {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(field.Value)
		if len(runes) > 0 {
			field.Value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		field.Value += " "
	case gocui.KeyCtrlU:
		field.Value = ""
	}

	if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
		field.Value += string(ch)
	}

	ui.renderForm(view)
	return true
}
