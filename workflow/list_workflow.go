package workflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/lvalverde/commerce-admin-api/utils"
)

// PageSize is the fixed number of rows per visible page
const PageSize = 5

// Entity is what the list workflow needs from a managed record
type Entity interface {
	EntityID() int
	SearchText() string
	DisplayName() string
}

// ListOps binds a workflow instance to the backend operations for its entity
// type. Update receives the id separately because create payloads carry none.
type ListOps[T Entity] struct {
	Fetch  func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, item T) error
	Update func(ctx context.Context, id int, item T) error
	Delete func(ctx context.Context, id int) error
}

// ListWorkflow manages one entity collection's list view and CRUD lifecycle:
// the in-memory collection, the search filter, the page number, and the
// add/edit/delete intents. Each instance is the sole writer of its collection.
type ListWorkflow[T Entity] struct {
	mu   sync.Mutex
	name string
	ops  ListOps[T]

	collection []T
	search     string
	page       int

	editing    *T   // snapshot from StartEdit; nil otherwise
	formOpen   bool // true between StartAdd/StartEdit and a successful Save or CancelEdit
	deleteGate ConfirmGate

	stale          bool
	lastRefreshErr error
}

// NewListWorkflow creates a workflow for one entity collection. The name is
// used in confirmation messages and logs ("customer", "product", "order").
func NewListWorkflow[T Entity](name string, ops ListOps[T]) *ListWorkflow[T] {
	return &ListWorkflow[T]{
		name: name,
		ops:  ops,
		page: 1,
	}
}

// Refresh replaces the in-memory collection wholesale from the backend. On
// failure the previous collection stays visible and the workflow is marked
// stale; there is no automatic retry.
func (w *ListWorkflow[T]) Refresh(ctx context.Context) error {
	items, err := w.ops.Fetch(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.stale = true
		w.lastRefreshErr = err
		logrus.WithError(err).WithField("entity", w.name).Warn("refresh failed, keeping stale collection")
		return err
	}
	w.collection = items
	w.stale = false
	w.lastRefreshErr = nil
	return nil
}

// SetSearch replaces the search string and resets the page to 1. No backend
// call is made.
func (w *ListWorkflow[T]) SetSearch(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.search = text
	w.page = 1
}

// Search returns the current search string
func (w *ListWorkflow[T]) Search() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.search
}

// SetPage moves to the given page. Values below 1 clamp to 1; the filter
// itself clamps the upper bound by yielding empty pages past the end.
func (w *ListWorkflow[T]) SetPage(page int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if page < 1 {
		page = 1
	}
	w.page = page
}

// Page returns the current page number
func (w *ListWorkflow[T]) Page() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.page
}

// VisiblePage derives the current slice of the filtered collection: entities
// whose concatenated searchable text contains the search string
// case-insensitively, in collection order, window [(page-1)*5, page*5).
func (w *ListWorkflow[T]) VisiblePage() []T {
	w.mu.Lock()
	defer w.mu.Unlock()

	filtered := w.filteredLocked()
	start := (w.page - 1) * PageSize
	if start >= len(filtered) {
		return []T{}
	}
	end := start + PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	out := make([]T, end-start)
	copy(out, filtered[start:end])
	return out
}

// TotalPages returns max(1, ceil(filteredCount/5))
func (w *ListWorkflow[T]) TotalPages() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	count := len(w.filteredLocked())
	pages := (count + PageSize - 1) / PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// FilteredCount returns the number of entities matching the current search
func (w *ListWorkflow[T]) FilteredCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.filteredLocked())
}

// Collection returns a copy of the full in-memory collection
func (w *ListWorkflow[T]) Collection() []T {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]T, len(w.collection))
	copy(out, w.collection)
	return out
}

// Find returns the collection's copy of the entity with the given id
func (w *ListWorkflow[T]) Find(id int) (T, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, item := range w.collection {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Stale reports whether the collection survived a failed refresh and may be
// outdated, together with the error that caused it.
func (w *ListWorkflow[T]) Stale() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stale, w.lastRefreshErr
}

// StartAdd opens the entity form with no initial data
func (w *ListWorkflow[T]) StartAdd() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.formOpen = true
	w.editing = nil
}

// StartEdit opens the entity form pre-populated with a snapshot of the
// entity. Editing never touches the stored collection until Save succeeds.
func (w *ListWorkflow[T]) StartEdit(item T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	snapshot := item
	w.formOpen = true
	w.editing = &snapshot
}

// CancelEdit closes the form without saving; the collection is unchanged
func (w *ListWorkflow[T]) CancelEdit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.formOpen = false
	w.editing = nil
}

// FormOpen reports whether the entity form is open, and the snapshot it was
// opened with when it came from StartEdit.
func (w *ListWorkflow[T]) FormOpen() (bool, *T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.formOpen, w.editing
}

// Save commits the form: an update-by-id when the form was opened via
// StartEdit, a create otherwise. On success the form closes and the
// collection is re-fetched. On failure the form stays open with the entered
// data intact and the error is returned to the caller; it is never dropped.
// A refresh failure after a successful mutation is not a save failure: the
// record persisted, so Save returns nil and the workflow is marked stale.
func (w *ListWorkflow[T]) Save(ctx context.Context, formData T) error {
	w.mu.Lock()
	editing := w.editing
	w.mu.Unlock()

	var err error
	if editing != nil {
		err = w.ops.Update(ctx, (*editing).EntityID(), formData)
	} else {
		err = w.ops.Create(ctx, formData)
	}
	if err != nil {
		logrus.WithError(err).WithField("entity", w.name).Error("save failed")
		return err
	}

	w.mu.Lock()
	w.formOpen = false
	w.editing = nil
	w.mu.Unlock()

	// The re-fetch keeps server-computed fields consistent. A failure here
	// leaves the collection stale but the save itself already succeeded;
	// Refresh records the staleness and the error.
	_ = w.Refresh(ctx)
	return nil
}

// RequestDelete arms the confirmation gate for the entity. No backend call
// happens until ConfirmDelete.
func (w *ListWorkflow[T]) RequestDelete(item T) {
	w.mu.Lock()
	defer w.mu.Unlock()
	message := fmt.Sprintf("Delete %s %s?", w.name, item.DisplayName())
	w.deleteGate.Arm(message, item.EntityID())
}

// CancelDelete closes the gate without deleting anything
func (w *ListWorkflow[T]) CancelDelete() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.deleteGate.Close()
}

// PendingDelete returns the armed confirmation message and entity id
func (w *ListWorkflow[T]) PendingDelete() (open bool, message string, entityID int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deleteGate.IsOpen(), w.deleteGate.Message(), w.deleteGate.EntityID()
}

// ConfirmDelete issues the delete for the entity pending deletion. The gate
// closes either way; on failure the entity stays in the displayed collection
// and the error is returned. As with Save, a refresh failure after a
// successful delete marks the workflow stale instead of failing the delete.
func (w *ListWorkflow[T]) ConfirmDelete(ctx context.Context) error {
	w.mu.Lock()
	id, ok := w.deleteGate.Confirm()
	w.mu.Unlock()
	if !ok {
		return fmt.Errorf("no %s pending deletion", w.name)
	}

	if err := w.ops.Delete(ctx, id); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"entity": w.name, "id": id}).Error("delete failed")
		return err
	}

	_ = w.Refresh(ctx)
	return nil
}

// filteredLocked applies the search filter in collection order. Caller must
// hold the lock.
func (w *ListWorkflow[T]) filteredLocked() []T {
	if w.search == "" {
		return w.collection
	}
	term := utils.NormalizeSearch(w.search)
	var out []T
	for _, item := range w.collection {
		if utils.ContainsFold(item.SearchText(), term) {
			out = append(out, item)
		}
	}
	return out
}
