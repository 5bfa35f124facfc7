package tui

import (
	"fmt"

	"github.com/Joseda-hg/mestaches/internal/model"
	"github.com/Joseda-hg/mestaches/internal/todo"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiGray   = "\x1b[90m"
	ansiStrike = "\x1b[2;9m"
)

// checkboxColumns is the width of the selection marker plus "[x]".
const checkboxColumns = 5

func colorize(text, code string) string {
	return code + text + ansiReset
}

func formatCheckbox(done bool) string {
	if done {
		return colorize("[x]", ansiGreen)
	}
	return colorize("[ ]", ansiRed)
}

func formatTitle(task model.Task) string {
	if task.Done {
		return colorize(task.Title, ansiStrike)
	}
	return colorize(task.Title, ansiBold)
}

func formatDescription(task model.Task, messages todo.Messages) string {
	if task.HasDescription() {
		return *task.Description
	}
	return messages.NoDescription
}

func formatTaskRow(task model.Task, messages todo.Messages) string {
	row := fmt.Sprintf("%s %s — %s", formatCheckbox(task.Done), formatTitle(task), formatDescription(task, messages))
	if task.HasDueDate() {
		row += "  " + colorize(*task.DueDate, ansiGray)
	}
	return row
}

func formatCounters(counts todo.Counts, messages todo.Messages) string {
	return fmt.Sprintf("%s / %s",
		colorize(fmt.Sprintf(messages.TodoCount, counts.Todo), ansiRed),
		colorize(fmt.Sprintf(messages.DoneCount, counts.Done), ansiGreen))
}
