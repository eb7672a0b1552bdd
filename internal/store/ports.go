package store

import (
	"context"

	"cobros/internal/core"
)

// Remote is the document backend of record. All methods may fail for
// network reasons; the store treats those failures as non-fatal.
type Remote interface {
	ListUsers(ctx context.Context) ([]core.User, error)
	ListCharges(ctx context.Context) ([]core.Charge, error)
	AddUser(ctx context.Context, u core.User) error
	AddCharge(ctx context.Context, c core.Charge) error
	UpdateCharge(ctx context.Context, c core.Charge) error
	DeleteUser(ctx context.Context, id string) error
	DeleteCharge(ctx context.Context, id string) error
}

// Cache is the local mirror that keeps the application usable when the
// remote backend is unreachable. Load returns nil when a collection has
// never been written.
type Cache interface {
	LoadUsers(ctx context.Context) ([]core.User, error)
	SaveUsers(ctx context.Context, users []core.User) error
	LoadCharges(ctx context.Context) ([]core.Charge, error)
	SaveCharges(ctx context.Context, charges []core.Charge) error
}

// Publisher announces committed writes. A nil Publisher disables
// events without changing store behavior.
type Publisher interface {
	PublishMutation(ctx context.Context, entity, action, id string) error
}
