package todo

import (
	"time"
	"unicode/utf8"

	"github.com/Joseda-hg/mestaches/internal/model"
)

const MinTitleLength = 3

// Form collects the input for one new task.
type Form struct {
	Title       string
	Description string
	DueDate     string

	opts options
}

func NewForm(opts ...Option) *Form {
	return &Form{opts: buildOptions(opts)}
}

// Submit validates the fields and builds a new task. On rejection notify
// receives the reason, the fields are kept and ok is false. On success the
// fields are cleared.
func (f *Form) Submit(notify Notifier) (model.Task, bool) {
	if utf8.RuneCountInString(f.Title) < MinTitleLength {
		f.notify(notify, f.opts.messages.TitleTooShort)
		return model.Task{}, false
	}
	if f.DueDate != "" {
		if _, err := time.Parse(model.DateLayout, f.DueDate); err != nil {
			f.notify(notify, f.opts.messages.InvalidDueDate)
			return model.Task{}, false
		}
	}

	now := f.opts.now()
	task := model.Task{
		ID:          f.opts.newID(),
		Title:       f.Title,
		Description: optional(f.Description),
		DueDate:     optional(f.DueDate),
		Done:        false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	f.Reset()
	return task, true
}

func (f *Form) Reset() {
	f.Title = ""
	f.Description = ""
	f.DueDate = ""
}

func (f *Form) notify(notify Notifier, message string) {
	f.opts.logger.WithField("title", f.Title).Debug(message)
	if notify != nil {
		notify.Notify(message)
	}
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
