// Package store owns the live user and charge collections. The backend
// mode is decided once at startup: when the remote backend answers, the
// process runs remote-first with the local cache as a mirror; when it
// does not, the process runs on the cache alone for the rest of its
// life and is never re-probed.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"cobros/internal/core"

	"github.com/google/uuid"
)

type Mode string

const (
	ModeRemote Mode = "REMOTE"
	ModeLocal  Mode = "LOCAL"
)

// PersistenceError reports a failed remote write. The local state is
// already committed when it is raised, so callers treat it as a
// warning, not a rollback.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type RecordStore struct {
	mu      sync.RWMutex
	mode    Mode
	remote  Remote
	cache   Cache
	events  Publisher
	users   []core.User
	charges []core.Charge
}

// New loads both collections and fixes the backend mode. A nil remote,
// or a remote that fails either initial list, selects local mode. An
// empty local user list is seeded with a small demo dataset so a fresh
// install starts usable.
func New(ctx context.Context, remote Remote, cache Cache, events Publisher) (*RecordStore, error) {
	s := &RecordStore{
		mode:   ModeLocal,
		remote: remote,
		cache:  cache,
		events: events,
	}

	if remote != nil {
		users, uerr := remote.ListUsers(ctx)
		charges, cerr := remote.ListCharges(ctx)
		if uerr == nil && cerr == nil {
			s.mode = ModeRemote
			s.users = users
			s.charges = charges
			// Mirror the remote state so the cache is warm for the
			// next outage.
			if err := cache.SaveUsers(ctx, users); err != nil {
				return nil, fmt.Errorf("mirror users: %w", err)
			}
			if err := cache.SaveCharges(ctx, charges); err != nil {
				return nil, fmt.Errorf("mirror charges: %w", err)
			}
		} else {
			slog.WarnContext(ctx, "Remote backend unavailable, running on local cache",
				"users_error", uerr, "charges_error", cerr)
		}
	}

	if s.mode == ModeLocal {
		users, err := cache.LoadUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("load cached users: %w", err)
		}
		charges, err := cache.LoadCharges(ctx)
		if err != nil {
			return nil, fmt.Errorf("load cached charges: %w", err)
		}
		s.users = users
		s.charges = charges
		if len(s.users) == 0 {
			s.users = seedUsers()
			if err := cache.SaveUsers(ctx, s.users); err != nil {
				return nil, fmt.Errorf("persist seed users: %w", err)
			}
			slog.InfoContext(ctx, "Seeded demo users", "count", len(s.users))
		}
	}

	if s.users == nil {
		s.users = []core.User{}
	}
	if s.charges == nil {
		s.charges = []core.Charge{}
	}
	sortChargesByRecordedAt(s.charges)

	slog.InfoContext(ctx, "Record store ready",
		"mode", string(s.mode),
		"users", len(s.users),
		"charges", len(s.charges))
	return s, nil
}

func seedUsers() []core.User {
	now := time.Now().UTC().Format(time.RFC3339)
	return []core.User{
		{ID: "user1", Name: "Juan Pérez", Kind: core.Plain, Phone: "123-456-7890", Email: "juan@example.com", CreatedAt: now},
		{ID: "user2", Name: "María González", Kind: core.Vouchered, Phone: "098-765-4321", Email: "maria@example.com", CreatedAt: now},
		{ID: "user3", Name: "Carlos López", Kind: core.Plain, Phone: "555-123-4567", Email: "carlos@example.com", CreatedAt: now},
	}
}

// Charges with no parseable recording instant sort last.
func sortChargesByRecordedAt(charges []core.Charge) {
	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].RecordedAt > charges[j].RecordedAt
	})
}

func (s *RecordStore) Mode() Mode {
	return s.mode
}

// Users returns a snapshot. Mutating it does not affect the store.
func (s *RecordStore) Users() []core.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.User, len(s.users))
	copy(out, s.users)
	return out
}

// Charges returns a snapshot ordered by recording instant descending.
func (s *RecordStore) Charges() []core.Charge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Charge, len(s.charges))
	copy(out, s.charges)
	return out
}

func (s *RecordStore) UserByID(id string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return core.User{}, core.ErrNotFound
}

func (s *RecordStore) ChargeByID(id string) (core.Charge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.charges {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Charge{}, core.ErrNotFound
}

// AddUser validates, assigns an id and creation instant, and commits.
// The in-memory state only advances once the cache write succeeds, so
// the two never disagree; the remote write is attempted afterwards and
// a failure only logs a warning.
func (s *RecordStore) AddUser(ctx context.Context, u core.User) (core.User, error) {
	if err := u.Validate(); err != nil {
		return core.User{}, err
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	users := make([]core.User, 0, len(s.users)+1)
	users = append(users, s.users...)
	users = append(users, u)
	if err := s.cache.SaveUsers(ctx, users); err != nil {
		s.mu.Unlock()
		return core.User{}, fmt.Errorf("cache users: %w", err)
	}
	s.users = users
	s.mu.Unlock()

	if s.mode == ModeRemote {
		if err := s.remote.AddUser(ctx, u); err != nil {
			s.warn(ctx, &PersistenceError{Op: "add user", Err: err})
		}
	}
	s.publish(ctx, "usuario", "created", u.ID)
	return u, nil
}

// AddCharge snapshots the owning user's name and kind onto the record
// before validation, so the charge stays meaningful if the user is
// later deleted.
func (s *RecordStore) AddCharge(ctx context.Context, c core.Charge) (core.Charge, error) {
	owner, err := s.UserByID(c.UserID)
	if err != nil {
		return core.Charge{}, err
	}
	c.UserName = owner.Name
	c.Kind = owner.Kind
	if c.Kind == core.Plain {
		c.VoucherNumber = ""
		c.VoucherDate = ""
	}
	if err := c.Validate(); err != nil {
		return core.Charge{}, err
	}
	c.ID = uuid.NewString()
	c.RecordedAt = time.Now().UTC().Format(time.RFC3339)
	c.UpdatedAt = ""

	s.mu.Lock()
	// Newest recording instant, so it belongs at the front.
	charges := append([]core.Charge{c}, s.charges...)
	if err := s.cache.SaveCharges(ctx, charges); err != nil {
		s.mu.Unlock()
		return core.Charge{}, fmt.Errorf("cache charges: %w", err)
	}
	s.charges = charges
	s.mu.Unlock()

	if s.mode == ModeRemote {
		if err := s.remote.AddCharge(ctx, c); err != nil {
			s.warn(ctx, &PersistenceError{Op: "add charge", Err: err})
		}
	}
	s.publish(ctx, "cobro", "created", c.ID)
	return c, nil
}

// ChargeUpdate carries the mutable fields of a charge. Nil fields keep
// their current value.
type ChargeUpdate struct {
	UserID        *string  `json:"usuarioId"`
	Amount        *float64 `json:"monto"`
	Description   *string  `json:"descripcion"`
	SlipNumber    *string  `json:"numeroPlanilla"`
	SlipDate      *string  `json:"fechaPlanilla"`
	VoucherNumber *string  `json:"numeroComprobante"`
	VoucherDate   *string  `json:"fechaComprobante"`
}

// UpdateCharge merges upd into the stored charge. The kind is
// re-derived from the current owning user when it still exists; an
// orphaned charge keeps its stored kind. Moving to a plain kind clears
// the voucher fields.
func (s *RecordStore) UpdateCharge(ctx context.Context, id string, upd ChargeUpdate) (core.Charge, error) {
	s.mu.Lock()
	idx := -1
	for i, c := range s.charges {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return core.Charge{}, core.ErrNotFound
	}
	c := s.charges[idx]

	if upd.UserID != nil {
		c.UserID = *upd.UserID
	}
	if upd.Amount != nil {
		c.Amount = *upd.Amount
	}
	if upd.Description != nil {
		c.Description = *upd.Description
	}
	if upd.SlipNumber != nil {
		c.SlipNumber = *upd.SlipNumber
	}
	if upd.SlipDate != nil {
		c.SlipDate = *upd.SlipDate
	}
	if upd.VoucherNumber != nil {
		c.VoucherNumber = *upd.VoucherNumber
	}
	if upd.VoucherDate != nil {
		c.VoucherDate = *upd.VoucherDate
	}
	for _, u := range s.users {
		if u.ID == c.UserID {
			c.UserName = u.Name
			c.Kind = u.Kind
			break
		}
	}
	if c.Kind == core.Plain {
		c.VoucherNumber = ""
		c.VoucherDate = ""
	}
	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if err := c.Validate(); err != nil {
		s.mu.Unlock()
		return core.Charge{}, err
	}
	charges := make([]core.Charge, len(s.charges))
	copy(charges, s.charges)
	charges[idx] = c
	if err := s.cache.SaveCharges(ctx, charges); err != nil {
		s.mu.Unlock()
		return core.Charge{}, fmt.Errorf("cache charges: %w", err)
	}
	s.charges = charges
	s.mu.Unlock()

	if s.mode == ModeRemote {
		if err := s.remote.UpdateCharge(ctx, c); err != nil {
			s.warn(ctx, &PersistenceError{Op: "update charge", Err: err})
		}
	}
	s.publish(ctx, "cobro", "updated", c.ID)
	return c, nil
}

// DeleteUser removes the user if present. A second call for the same
// id is a no-op. Existing charges keep their name snapshot.
func (s *RecordStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	users := make([]core.User, 0, len(s.users))
	for _, u := range s.users {
		if u.ID == id {
			found = true
			continue
		}
		users = append(users, u)
	}
	if !found {
		s.mu.Unlock()
		return nil
	}
	if err := s.cache.SaveUsers(ctx, users); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("cache users: %w", err)
	}
	s.users = users
	s.mu.Unlock()

	if s.mode == ModeRemote {
		if err := s.remote.DeleteUser(ctx, id); err != nil {
			s.warn(ctx, &PersistenceError{Op: "delete user", Err: err})
		}
	}
	s.publish(ctx, "usuario", "deleted", id)
	return nil
}

func (s *RecordStore) DeleteCharge(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	charges := make([]core.Charge, 0, len(s.charges))
	for _, c := range s.charges {
		if c.ID == id {
			found = true
			continue
		}
		charges = append(charges, c)
	}
	if !found {
		s.mu.Unlock()
		return nil
	}
	if err := s.cache.SaveCharges(ctx, charges); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("cache charges: %w", err)
	}
	s.charges = charges
	s.mu.Unlock()

	if s.mode == ModeRemote {
		if err := s.remote.DeleteCharge(ctx, id); err != nil {
			s.warn(ctx, &PersistenceError{Op: "delete charge", Err: err})
		}
	}
	s.publish(ctx, "cobro", "deleted", id)
	return nil
}

func (s *RecordStore) warn(ctx context.Context, err *PersistenceError) {
	slog.WarnContext(ctx, "Remote write failed, local state kept",
		"op", err.Op, "error", err.Err)
}

func (s *RecordStore) publish(ctx context.Context, entity, action, id string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishMutation(ctx, entity, action, id); err != nil {
		slog.WarnContext(ctx, "Failed to publish mutation event",
			"entity", entity, "action", action, "id", id, "error", err)
	}
}
