package manager

import (
	"context"
	"fmt"

	"github.com/ariebrainware/appointment-manager/model"
)

// MutationKind names the request a Mutation sends.
type MutationKind int

const (
	MutationCreate MutationKind = iota + 1
	MutationUpdate
	MutationDelete
)

func (k MutationKind) String() string {
	switch k {
	case MutationCreate:
		return "create"
	case MutationUpdate:
		return "update"
	case MutationDelete:
		return "delete"
	}
	return fmt.Sprintf("MutationKind(%d)", int(k))
}

// Mutation is a write captured from manager state. It holds copies only, so
// Apply may run outside the goroutine that owns the Manager.
type Mutation struct {
	Kind   MutationKind
	ID     string
	Record model.Appointment

	// form identifies the form opening a create or update was submitted from.
	form uint64
}

// Apply sends the mutation to store.
func (m Mutation) Apply(ctx context.Context, store Store) error {
	switch m.Kind {
	case MutationCreate:
		_, err := store.Create(ctx, m.Record)
		return err
	case MutationUpdate:
		_, err := store.Update(ctx, m.ID, m.Record)
		return err
	case MutationDelete:
		return store.Delete(ctx, m.ID)
	}
	return fmt.Errorf("apply %s: unsupported mutation", m.Kind)
}
