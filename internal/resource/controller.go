package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/om_console/internal/utils"
)

// Controller drives one list/CRUD page: it fetches the collection on mount,
// keeps the last fetched copy, owns the create/edit modal and the two-step
// delete, and filters/sorts locally. Every mutation is followed by a full
// refetch. Work started before Unmount or a newer load is discarded.
type Controller[T any, F any] struct {
	res      Resource[T, F]
	notifier Notifier
	validate *validator.Validate

	mu      sync.Mutex
	mounted bool
	life    context.Context
	cancel  context.CancelFunc
	// mountSeq changes on Mount and Unmount; loadSeq on every fetch.
	mountSeq uint64
	loadSeq  uint64

	phase   Phase
	records []T
	err     error

	modal      Mode
	editID     int
	form       F
	fieldErrs  FieldErrors
	submitting bool

	deleteTarget *int
	deleting     bool
	actionErr    error

	search string
	sort   Sort
}

// NewController creates an unmounted controller for res.
func NewController[T any, F any](res Resource[T, F], notifier Notifier, v *validator.Validate) *Controller[T, F] {
	if v == nil {
		v = NewValidator()
	}
	return &Controller[T, F]{res: res, notifier: notifier, validate: v, sort: res.DefaultSort}
}

// Name returns the resource name.
func (c *Controller[T, F]) Name() string { return c.res.Name }

// Mount resets the page's local state and fetches the collection.
func (c *Controller[T, F]) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.life, c.cancel = context.WithCancel(context.Background())
	c.mounted = true
	c.mountSeq++
	c.resetLocked()
	c.mu.Unlock()

	return c.load(ctx)
}

// Unmount tears the page down. In-flight requests are cancelled and their
// results dropped; the fetched copy is discarded.
func (c *Controller[T, F]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mounted = false
	c.mountSeq++
	c.resetLocked()
	c.phase = Idle
}

func (c *Controller[T, F]) resetLocked() {
	var zero F
	c.records = nil
	c.err = nil
	c.modal = ""
	c.editID = 0
	c.form = zero
	c.fieldErrs = nil
	c.submitting = false
	c.deleteTarget = nil
	c.deleting = false
	c.actionErr = nil
	c.search = ""
	c.sort = c.res.DefaultSort
}

// Mounted reports whether the page is currently shown.
func (c *Controller[T, F]) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// Refresh refetches the collection. It is the only retry path after a
// failure.
func (c *Controller[T, F]) Refresh(ctx context.Context) error {
	return c.load(ctx)
}

// Scope derives a context that ends with either ctx or the page lifetime.
func Scope(ctx, life context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// Stale marks a result that arrived after its page was torn down or
// superseded. The underlying error, if any, stays in the chain so a rejected
// session is still recognisable.
func Stale(err error) error {
	if err == nil {
		return utils.ErrStaleResult
	}
	return fmt.Errorf("%w: %w", utils.ErrStaleResult, err)
}

func (c *Controller[T, F]) load(ctx context.Context) error {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return utils.ErrViewNotMounted
	}
	c.loadSeq++
	seq, life := c.loadSeq, c.life
	c.phase = Loading
	c.mu.Unlock()

	ctx, cancel := Scope(ctx, life)
	defer cancel()
	records, commit, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.loadSeq || life.Err() != nil {
		log.Debug().Str("resource", c.res.Name).Msg("Discarding stale fetch result")
		return Stale(err)
	}
	if err != nil {
		c.phase = Failed
		c.err = err
		log.Warn().Err(err).Str("resource", c.res.Name).Msg("Failed to fetch collection")
		return err
	}
	c.phase = Loaded
	c.err = nil
	c.records = records
	if commit != nil {
		commit()
	}
	return nil
}

// fetch runs List and the optional Companion together. Nothing is applied
// here; load decides whether the result is still wanted.
func (c *Controller[T, F]) fetch(ctx context.Context) ([]T, func(), error) {
	if c.res.Companion == nil {
		records, err := c.res.List(ctx)
		return records, nil, err
	}

	var records []T
	var commit func()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = c.res.List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		commit, err = c.res.Companion(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return records, commit, nil
}

// Records returns a copy of the last fetched collection in backend order.
func (c *Controller[T, F]) Records() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.records)
}

// Find returns the fetched record with the given id.
func (c *Controller[T, F]) Find(id int) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findLocked(id)
}

func (c *Controller[T, F]) findLocked(id int) (T, bool) {
	for _, r := range c.records {
		if c.res.ID(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// OpenCreate opens the modal with an empty form.
func (c *Controller[T, F]) OpenCreate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return utils.ErrViewNotMounted
	}
	c.modal = ModeCreate
	c.editID = 0
	c.form = c.res.EmptyForm()
	c.fieldErrs = nil
	return nil
}

// OpenEdit opens the modal pre-populated from record id.
func (c *Controller[T, F]) OpenEdit(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return utils.ErrViewNotMounted
	}
	if c.res.Update == nil {
		return utils.ErrUnsupportedMode
	}
	rec, ok := c.findLocked(id)
	if !ok {
		return utils.ErrRecordNotFound
	}
	c.modal = ModeEdit
	c.editID = id
	c.form = c.res.FormFrom(rec)
	c.fieldErrs = nil
	return nil
}

// SetForm replaces the modal form, applying the resource's Adjust hook.
func (c *Controller[T, F]) SetForm(form F) (F, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modal == "" {
		return form, utils.ErrModalClosed
	}
	if c.res.Adjust != nil {
		form = c.res.Adjust(c.form, form, c.records)
	}
	c.form = form
	return form, nil
}

// PatchForm decodes a JSON object over the open form, so fields missing from
// data keep their current value, then applies it like SetForm.
func (c *Controller[T, F]) PatchForm(data []byte) (F, error) {
	c.mu.Lock()
	form := c.form
	open := c.modal != ""
	c.mu.Unlock()
	if !open {
		return form, utils.ErrModalClosed
	}
	if err := json.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("invalid form body: %w", err)
	}
	return c.SetForm(form)
}

// Patch is PatchForm for callers that only need the error.
func (c *Controller[T, F]) Patch(data []byte) error {
	_, err := c.PatchForm(data)
	return err
}

// Form returns the open modal's form.
func (c *Controller[T, F]) Form() (F, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form, c.modal != ""
}

// CloseModal discards the form without any request.
func (c *Controller[T, F]) CloseModal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero F
	c.modal = ""
	c.editID = 0
	c.form = zero
	c.fieldErrs = nil
}

// Submit validates the open form and creates or updates the record. On
// success the modal closes, the collection is refetched and a toast shown.
// Validation failures stay on the open modal as field errors.
func (c *Controller[T, F]) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.modal == "" {
		c.mu.Unlock()
		return utils.ErrModalClosed
	}
	if c.submitting {
		c.mu.Unlock()
		return utils.ErrSubmitInFlight
	}
	if errs := ValidateForm(c.validate, c.form); errs != nil {
		c.fieldErrs = errs
		c.mu.Unlock()
		return errs
	}
	mode, id, form := c.modal, c.editID, c.form
	mountSeq, life := c.mountSeq, c.life
	c.submitting = true
	c.fieldErrs = nil
	c.mu.Unlock()

	rctx, cancel := Scope(ctx, life)
	var err error
	if mode == ModeEdit {
		err = c.res.Update(rctx, id, form)
	} else {
		err = c.res.Create(rctx, form)
	}
	cancel()

	c.mu.Lock()
	if mountSeq != c.mountSeq {
		c.mu.Unlock()
		return Stale(err)
	}
	c.submitting = false
	if err != nil {
		var inline FieldErrors
		if !errors.As(err, &inline) {
			inline = FromAPIError(err)
		}
		if inline != nil {
			c.fieldErrs = inline
		} else {
			c.fieldErrs = FieldErrors{"": err.Error()}
		}
		c.mu.Unlock()
		return err
	}
	var zero F
	c.modal = ""
	c.editID = 0
	c.form = zero
	c.mu.Unlock()

	msg := c.res.Messages.Created
	if mode == ModeEdit {
		msg = c.res.Messages.Updated
	}
	c.toast(msg)

	if err := c.load(ctx); err != nil && !errors.Is(err, utils.ErrStaleResult) {
		log.Warn().Err(err).Str("resource", c.res.Name).Msg("Saved, but refetch failed")
	}
	return nil
}

// RequestDelete opens the confirmation step for id. No request is made.
func (c *Controller[T, F]) RequestDelete(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return utils.ErrViewNotMounted
	}
	if c.res.Delete == nil {
		return utils.ErrUnsupportedMode
	}
	if _, ok := c.findLocked(id); !ok {
		return utils.ErrRecordNotFound
	}
	c.deleteTarget = &id
	c.actionErr = nil
	return nil
}

// CancelDelete drops the pending target without any request.
func (c *Controller[T, F]) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleteTarget = nil
	c.actionErr = nil
}

// ConfirmDelete deletes the pending target, then refetches and toasts.
func (c *Controller[T, F]) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	if c.deleteTarget == nil {
		c.mu.Unlock()
		return utils.ErrNoDeleteTarget
	}
	if c.deleting {
		c.mu.Unlock()
		return utils.ErrSubmitInFlight
	}
	id := *c.deleteTarget
	mountSeq, life := c.mountSeq, c.life
	c.deleting = true
	c.mu.Unlock()

	rctx, cancel := Scope(ctx, life)
	err := c.res.Delete(rctx, id)
	cancel()

	c.mu.Lock()
	if mountSeq != c.mountSeq {
		c.mu.Unlock()
		return Stale(err)
	}
	c.deleting = false
	if err != nil {
		c.actionErr = err
		c.mu.Unlock()
		return fmt.Errorf("failed to delete %s %d: %w", c.res.Name, id, err)
	}
	c.deleteTarget = nil
	c.actionErr = nil
	c.mu.Unlock()

	c.toast(c.res.Messages.Deleted)
	if err := c.load(ctx); err != nil && !errors.Is(err, utils.ErrStaleResult) {
		log.Warn().Err(err).Str("resource", c.res.Name).Msg("Deleted, but refetch failed")
	}
	return nil
}

func (c *Controller[T, F]) toast(msg string) {
	if msg != "" && c.notifier != nil {
		c.notifier.Show(msg)
	}
}

// Search sets the local filter term.
func (c *Controller[T, F]) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
}

// SortBy toggles the sort on key.
func (c *Controller[T, F]) SortBy(key string) (Sort, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.res.SortKeys[key]; !ok {
		return c.sort, fmt.Errorf("%w: %q", utils.ErrUnknownSortKey, key)
	}
	c.sort = c.sort.Toggle(key)
	return c.sort, nil
}

// Visible returns the fetched records matching the search term, in the
// current sort order.
func (c *Controller[T, F]) Visible() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

func (c *Controller[T, F]) visibleLocked() []T {
	out := Filter(c.records, c.res.SearchFields, c.search)
	return Ordered(out, c.res.SortKeys[c.sort.Key], c.res.ID, c.sort.Desc)
}

// ModalState is the open create/edit modal.
type ModalState[F any] struct {
	Mode        Mode        `json:"mode"`
	EditingID   int         `json:"editingId,omitempty"`
	Form        F           `json:"form"`
	FieldErrors FieldErrors `json:"fieldErrors,omitempty"`
	Submitting  bool        `json:"submitting"`
}

// State is a consistent snapshot of the page.
type State[T any, F any] struct {
	Resource     string         `json:"resource"`
	Phase        Phase          `json:"phase"`
	Error        string         `json:"error,omitempty"`
	Items        []T            `json:"items"`
	Total        int            `json:"total"`
	Search       string         `json:"search"`
	Sort         Sort           `json:"sort"`
	Modal        *ModalState[F] `json:"modal,omitempty"`
	DeleteTarget *int           `json:"deleteTarget,omitempty"`
	DeleteError  string         `json:"deleteError,omitempty"`
}

// State returns a snapshot for rendering.
func (c *Controller[T, F]) State() State[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State[T, F]{
		Resource: c.res.Name,
		Phase:    c.phase,
		Items:    c.visibleLocked(),
		Total:    len(c.records),
		Search:   c.search,
		Sort:     c.sort,
	}
	if c.err != nil {
		s.Error = c.err.Error()
	}
	if c.modal != "" {
		s.Modal = &ModalState[F]{
			Mode:        c.modal,
			EditingID:   c.editID,
			Form:        c.form,
			FieldErrors: c.fieldErrs,
			Submitting:  c.submitting,
		}
	}
	if c.deleteTarget != nil {
		id := *c.deleteTarget
		s.DeleteTarget = &id
	}
	if c.actionErr != nil {
		s.DeleteError = c.actionErr.Error()
	}
	return s
}
