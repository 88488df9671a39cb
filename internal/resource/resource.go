package resource

import (
	"context"
	"fmt"
)

// Phase is the fetch state of a view.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Failed
)

var phaseNames = [...]string{"idle", "loading", "loaded", "failed"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if name == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Mode says what the open modal does on submit.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Messages are the toasts shown after successful mutations.
type Messages struct {
	Created string
	Updated string
	Deleted string
}

// Notifier shows a transient success message.
type Notifier interface {
	Show(message string)
}

// Resource adapts one backend collection of T, edited through form F, to the
// generic Controller. F holds the raw string input of the modal form and
// carries `validate` tags.
type Resource[T any, F any] struct {
	Name string
	ID   func(T) int

	List func(ctx context.Context) ([]T, error)
	// Companion, if set, fetches data the page needs next to its records
	// (an item picker, say). It runs concurrently with List; the returned
	// commit runs only when the load is accepted, under the controller lock.
	Companion func(ctx context.Context) (commit func(), err error)

	Create func(ctx context.Context, form F) error
	// Update is nil for create-only pages.
	Update func(ctx context.Context, id int, form F) error
	Delete func(ctx context.Context, id int) error

	EmptyForm func() F
	FormFrom  func(T) F
	// Adjust, if set, runs on every form edit with the previous and next form
	// and the loaded records, and returns the form to keep.
	Adjust func(prev, next F, records []T) F

	SearchFields func(T) []string
	SortKeys     map[string]Compare[T]
	DefaultSort  Sort

	Messages Messages
}
