package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound indicates the requested client does not exist.
var ErrNotFound = errors.New("client not found")

// Saver persists the full client list. Every mutation writes a complete
// snapshot; there are no partial writes.
type Saver interface {
	SaveClients(ctx context.Context, clients []Client) error
}

// Repository owns the in-memory client list and the add/edit mode for the
// current session. All mutations go through it and are flushed to the Saver
// before returning. It is not safe for concurrent use; the UI event loop is
// the only caller.
type Repository struct {
	clients   []Client
	saver     Saver
	editing   bool
	editingID int64
	now       func() time.Time
}

// NewRepository wraps an already-loaded client list.
func NewRepository(initial []Client, saver Saver) *Repository {
	clients := make([]Client, len(initial))
	copy(clients, initial)
	return &Repository{clients: clients, saver: saver, now: time.Now}
}

// All returns a copy of the client list in insertion order.
func (r *Repository) All() []Client {
	dup := make([]Client, len(r.clients))
	copy(dup, r.clients)
	return dup
}

// Len reports how many clients are on file.
func (r *Repository) Len() int { return len(r.clients) }

// Get looks a client up by id.
func (r *Repository) Get(id int64) (Client, bool) {
	for _, c := range r.clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// Search returns the clients matching the query without mutating anything.
func (r *Repository) Search(query string) []Client {
	return Filter(r.All(), query)
}

// Editing reports the id being edited, if the repository is in edit mode.
func (r *Repository) Editing() (int64, bool) {
	return r.editingID, r.editing
}

// BeginEdit switches to edit mode for the given client and returns its
// current record so the form can be pre-populated.
func (r *Repository) BeginEdit(id int64) (Client, error) {
	c, ok := r.Get(id)
	if !ok {
		return Client{}, fmt.Errorf("begin edit %d: %w", id, ErrNotFound)
	}
	r.editing = true
	r.editingID = id
	return c, nil
}

// CancelEdit reverts to add mode without touching any record.
func (r *Repository) CancelEdit() {
	r.editing = false
	r.editingID = 0
}

// Submit validates the input and either appends a new client (add mode) or
// replaces every field except the id of the client under edit (edit mode).
// On success the full list is persisted and the repository returns to add
// mode. On a validation failure nothing changes.
func (r *Repository) Submit(ctx context.Context, in Input) (Client, error) {
	if err := Validate(in); err != nil {
		return Client{}, err
	}
	record := r.record(in)

	if !r.editing {
		record.ID = r.newID()
		r.clients = append(r.clients, record)
	} else {
		idx := r.indexOf(r.editingID)
		if idx < 0 {
			return Client{}, fmt.Errorf("update client %d: %w", r.editingID, ErrNotFound)
		}
		record.ID = r.editingID
		r.clients[idx] = record
		r.editing = false
		r.editingID = 0
	}

	if err := r.persist(ctx); err != nil {
		return record, err
	}
	return record, nil
}

// Remove deletes a client in place, preserving the order of the rest.
// Unknown ids are reported as ErrNotFound so the caller can log the no-op.
func (r *Repository) Remove(ctx context.Context, id int64) error {
	idx := r.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("remove client %d: %w", id, ErrNotFound)
	}
	r.clients = append(r.clients[:idx], r.clients[idx+1:]...)
	return r.persist(ctx)
}

func (r *Repository) indexOf(id int64) int {
	for i := range r.clients {
		if r.clients[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) persist(ctx context.Context) error {
	if r.saver == nil {
		return nil
	}
	if err := r.saver.SaveClients(ctx, r.clients); err != nil {
		return fmt.Errorf("persist clients: %w", err)
	}
	return nil
}

// record builds the stored form of a validated submission. Gender is
// accepted in any case but persisted canonically lowercase.
func (r *Repository) record(in Input) Client {
	t := trimmed(in)
	return Client{
		FullName:  t.FullName,
		Age:       t.Age,
		Gender:    strings.ToLower(t.Gender),
		Email:     t.Email,
		Phone:     t.Phone,
		Goal:      t.Goal,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
	}
}

// newID derives an id from the creation timestamp in milliseconds, bumping
// it until unique within the collection.
func (r *Repository) newID() int64 {
	id := r.now().UnixMilli()
	for r.indexOf(id) >= 0 {
		id++
	}
	return id
}
