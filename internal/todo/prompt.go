package todo

// Confirmer asks the user a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(message string) bool
}

// Notifier shows a blocking message to the user.
type Notifier interface {
	Notify(message string)
}

type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool {
	return f(message)
}

type NotifyFunc func(message string)

func (f NotifyFunc) Notify(message string) {
	f(message)
}

// Answer is a Confirmer whose reply was collected before the call, e.g. a
// modal the user already closed or a browser confirm() result.
type Answer bool

func (a Answer) Confirm(string) bool {
	return bool(a)
}
