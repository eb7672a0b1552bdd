package core

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Plain users document charges with a collection slip only.
	Plain Kind = "planilla"
	// Vouchered users document charges with a slip plus a payment voucher.
	Vouchered Kind = "comprobante"
)

type (
	// Kind selects which supporting documents a charge must carry.
	Kind string

	// User is a payer the organization collects from. Kind is fixed at
	// creation and drives the required fields of every charge created for
	// the user.
	User struct {
		ID        string `json:"id"`
		Name      string `json:"nombre"`
		Kind      Kind   `json:"tipo"`
		Phone     string `json:"telefono,omitempty"`
		Email     string `json:"email,omitempty"`
		CreatedAt string `json:"fechaCreacion,omitempty"`
	}

	// Charge is one payment record. UserName is a snapshot taken at
	// creation time so the record stays readable after its user is
	// deleted; Kind is copied from the owning user for the same reason.
	// SlipDate and VoucherDate hold ISO YYYY-MM-DD days, RecordedAt and
	// UpdatedAt hold RFC 3339 instants.
	Charge struct {
		ID            string  `json:"id"`
		UserID        string  `json:"usuarioId"`
		UserName      string  `json:"usuarioNombre"`
		Amount        float64 `json:"monto"`
		Description   string  `json:"descripcion,omitempty"`
		RecordedAt    string  `json:"fecha"`
		UpdatedAt     string  `json:"fechaActualizacion,omitempty"`
		Kind          Kind    `json:"tipo"`
		SlipNumber    string  `json:"numeroPlanilla"`
		SlipDate      string  `json:"fechaPlanilla"`
		VoucherNumber string  `json:"numeroComprobante,omitempty"`
		VoucherDate   string  `json:"fechaComprobante,omitempty"`
	}
)

// ErrNotFound reports an operation that referenced an id not present in
// the store. Callers test for it with errors.Is.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a missing or invalid required field. It is
// returned before any persistence is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Valid reports whether k is one of the two supported kinds.
func (k Kind) Valid() bool {
	return k == Plain || k == Vouchered
}

// Label returns the Spanish display label used in reports and exports.
func (k Kind) Label() string {
	if k == Vouchered {
		return "Planilla y Comprobante"
	}
	return "Solo Planilla"
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return invalidField("nombre", "must not be empty")
	}
	if !u.Kind.Valid() {
		return invalidField("tipo", "must be planilla or comprobante")
	}
	return nil
}

// Validate checks the kind-specific required-field set. Slip number and
// date are always mandatory; voucher number and date are mandatory for
// vouchered charges.
func (c Charge) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return invalidField("usuarioId", "must not be empty")
	}
	if c.Amount <= 0 {
		return invalidField("monto", "must be greater than zero")
	}
	if !c.Kind.Valid() {
		return invalidField("tipo", "must be planilla or comprobante")
	}
	if strings.TrimSpace(c.SlipNumber) == "" {
		return invalidField("numeroPlanilla", "must not be empty")
	}
	if _, err := ParseDay(c.SlipDate); err != nil {
		return invalidField("fechaPlanilla", "must be a valid date")
	}
	if c.Kind == Vouchered {
		if strings.TrimSpace(c.VoucherNumber) == "" {
			return invalidField("numeroComprobante", "must not be empty")
		}
		if _, err := ParseDay(c.VoucherDate); err != nil {
			return invalidField("fechaComprobante", "must be a valid date")
		}
	}
	return nil
}
