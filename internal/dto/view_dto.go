package dto

// ViewState is the lifecycle state of a list view.
type ViewState string

const (
	ViewStateLoading ViewState = "loading"
	ViewStateSuccess ViewState = "success"
	ViewStateEmpty   ViewState = "empty"
	ViewStateError   ViewState = "error"
)

// EmptyPlaceholder is shown instead of an empty grid.
const EmptyPlaceholder = "No data found"

// ToastLevel distinguishes success from error notifications.
type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

// Toast is a transient notification surfaced to the user.
type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
}

// ListView describes a list view in a terminal state.
// Items is only set in the success state; an error never carries a stale list.
type ListView[T any] struct {
	State       ViewState `json:"state"`
	Items       []T       `json:"items,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Toast       *Toast    `json:"toast,omitempty"`
}

// NewListView picks the success or empty state based on the number of items.
func NewListView[T any](items []T) ListView[T] {
	if len(items) == 0 {
		return ListView[T]{State: ViewStateEmpty, Placeholder: EmptyPlaceholder}
	}
	return ListView[T]{State: ViewStateSuccess, Items: items}
}

// NewErrorListView reports a failed fetch.
func NewErrorListView[T any](message string) ListView[T] {
	return ListView[T]{State: ViewStateError, Toast: &Toast{Level: ToastError, Message: message}}
}

// FormState is the lifecycle state of a form.
type FormState string

const (
	FormStateEditable   FormState = "editable"
	FormStateSubmitting FormState = "submitting"
	FormStateSubmitted  FormState = "submitted"
)

// FormResult is the outcome of submitting a form.
type FormResult struct {
	State       FormState         `json:"state"`
	Values      map[string]string `json:"values,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Toast       *Toast            `json:"toast,omitempty"`
	Redirect    string            `json:"redirect,omitempty"`
	CloseModal  bool              `json:"closeModal,omitempty"`
	Refetch     []string          `json:"refetch,omitempty"`
}

// Succeeded reports whether the form reached the submitted state.
func (r FormResult) Succeeded() bool {
	return r.State == FormStateSubmitted
}

// Invalid reports whether the form was rejected before reaching the network.
func (r FormResult) Invalid() bool {
	return len(r.FieldErrors) > 0
}
