// Package remote talks to the Firestore REST API, where the collections
// of record live. Documents carry the same Spanish field names the web
// client wrote, so existing data keeps working unchanged.
package remote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cobros/internal/core"

	gfirestore "google.golang.org/api/firestore/v1"
	goption "google.golang.org/api/option"
)

const (
	usersCollection   = "usuarios"
	chargesCollection = "cobros"
)

type Client struct {
	svc    *gfirestore.Service
	parent string
}

// NewFromEnv creates a Firestore client from environment variables.
// Required: FIRESTORE_PROJECT_ID.
// Credentials come from GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	projectID := strings.TrimSpace(os.Getenv("FIRESTORE_PROJECT_ID"))
	if projectID == "" {
		return nil, errors.New("missing FIRESTORE_PROJECT_ID")
	}

	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := gfirestore.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gfirestore.DatastoreScope))
	if err != nil {
		return nil, fmt.Errorf("create firestore service: %w", err)
	}

	return &Client{
		svc:    svc,
		parent: fmt.Sprintf("projects/%s/databases/(default)/documents", projectID),
	}, nil
}

func credentialsFromEnv() ([]byte, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	if inline != "" {
		return []byte(inline), nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	credentialsJSON, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return credentialsJSON, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]core.User, error) {
	users := make([]core.User, 0)
	pageToken := ""
	for {
		call := c.svc.Projects.Databases.Documents.List(c.parent, usersCollection).
			PageSize(300).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", usersCollection, err)
		}
		for _, doc := range resp.Documents {
			users = append(users, userFromDocument(doc))
		}
		if resp.NextPageToken == "" {
			return users, nil
		}
		pageToken = resp.NextPageToken
	}
}

// ListCharges reads the charge collection ordered by recording
// instant, newest first, so callers see recent activity without
// re-sorting.
func (c *Client) ListCharges(ctx context.Context) ([]core.Charge, error) {
	charges := make([]core.Charge, 0)
	pageToken := ""
	for {
		call := c.svc.Projects.Databases.Documents.List(c.parent, chargesCollection).
			OrderBy("fecha desc").PageSize(300).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", chargesCollection, err)
		}
		for _, doc := range resp.Documents {
			charges = append(charges, chargeFromDocument(doc))
		}
		if resp.NextPageToken == "" {
			return charges, nil
		}
		pageToken = resp.NextPageToken
	}
}

func (c *Client) AddUser(ctx context.Context, u core.User) error {
	_, err := c.svc.Projects.Databases.Documents.
		CreateDocument(c.parent, usersCollection, &gfirestore.Document{Fields: userFields(u)}).
		DocumentId(u.ID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create user document: %w", err)
	}
	return nil
}

func (c *Client) AddCharge(ctx context.Context, ch core.Charge) error {
	_, err := c.svc.Projects.Databases.Documents.
		CreateDocument(c.parent, chargesCollection, &gfirestore.Document{Fields: chargeFields(ch)}).
		DocumentId(ch.ID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create charge document: %w", err)
	}
	return nil
}

func (c *Client) UpdateCharge(ctx context.Context, ch core.Charge) error {
	fields := chargeFields(ch)
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	name := fmt.Sprintf("%s/%s/%s", c.parent, chargesCollection, ch.ID)
	_, err := c.svc.Projects.Databases.Documents.
		Patch(name, &gfirestore.Document{Fields: fields}).
		UpdateMaskFieldPaths(paths...).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update charge document: %w", err)
	}
	return nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	name := fmt.Sprintf("%s/%s/%s", c.parent, usersCollection, id)
	if _, err := c.svc.Projects.Databases.Documents.Delete(name).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete user document: %w", err)
	}
	return nil
}

func (c *Client) DeleteCharge(ctx context.Context, id string) error {
	name := fmt.Sprintf("%s/%s/%s", c.parent, chargesCollection, id)
	if _, err := c.svc.Projects.Databases.Documents.Delete(name).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete charge document: %w", err)
	}
	return nil
}

func userFields(u core.User) map[string]gfirestore.Value {
	f := map[string]gfirestore.Value{
		"nombre": stringValue(u.Name),
		"tipo":   stringValue(string(u.Kind)),
	}
	if u.Phone != "" {
		f["telefono"] = stringValue(u.Phone)
	}
	if u.Email != "" {
		f["email"] = stringValue(u.Email)
	}
	if u.CreatedAt != "" {
		f["fechaCreacion"] = stringValue(u.CreatedAt)
	}
	return f
}

func chargeFields(ch core.Charge) map[string]gfirestore.Value {
	f := map[string]gfirestore.Value{
		"usuarioId":      stringValue(ch.UserID),
		"usuarioNombre":  stringValue(ch.UserName),
		"monto":          doubleValue(ch.Amount),
		"descripcion":    stringValue(ch.Description),
		"fecha":          stringValue(ch.RecordedAt),
		"tipo":           stringValue(string(ch.Kind)),
		"numeroPlanilla": stringValue(ch.SlipNumber),
		"fechaPlanilla":  stringValue(ch.SlipDate),
	}
	if ch.UpdatedAt != "" {
		f["fechaActualizacion"] = stringValue(ch.UpdatedAt)
	}
	// Voucher fields are always sent so an update can clear them.
	f["numeroComprobante"] = stringValue(ch.VoucherNumber)
	f["fechaComprobante"] = stringValue(ch.VoucherDate)
	return f
}

func userFromDocument(doc *gfirestore.Document) core.User {
	return core.User{
		ID:        documentID(doc.Name),
		Name:      stringField(doc, "nombre"),
		Kind:      core.Kind(stringField(doc, "tipo")),
		Phone:     stringField(doc, "telefono"),
		Email:     stringField(doc, "email"),
		CreatedAt: stringField(doc, "fechaCreacion"),
	}
}

func chargeFromDocument(doc *gfirestore.Document) core.Charge {
	return core.Charge{
		ID:            documentID(doc.Name),
		UserID:        stringField(doc, "usuarioId"),
		UserName:      stringField(doc, "usuarioNombre"),
		Amount:        numberField(doc, "monto"),
		Description:   stringField(doc, "descripcion"),
		RecordedAt:    stringField(doc, "fecha"),
		UpdatedAt:     stringField(doc, "fechaActualizacion"),
		Kind:          core.Kind(stringField(doc, "tipo")),
		SlipNumber:    stringField(doc, "numeroPlanilla"),
		SlipDate:      stringField(doc, "fechaPlanilla"),
		VoucherNumber: stringField(doc, "numeroComprobante"),
		VoucherDate:   stringField(doc, "fechaComprobante"),
	}
}

// documentID extracts the last path segment of a document resource name.
func documentID(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func stringValue(s string) gfirestore.Value {
	return gfirestore.Value{StringValue: s, ForceSendFields: []string{"StringValue"}}
}

func doubleValue(v float64) gfirestore.Value {
	return gfirestore.Value{DoubleValue: v, ForceSendFields: []string{"DoubleValue"}}
}

func stringField(doc *gfirestore.Document, key string) string {
	v, ok := doc.Fields[key]
	if !ok {
		return ""
	}
	if v.TimestampValue != "" {
		return v.TimestampValue
	}
	return v.StringValue
}

func numberField(doc *gfirestore.Document, key string) float64 {
	v, ok := doc.Fields[key]
	if !ok {
		return 0
	}
	if v.IntegerValue != 0 {
		return float64(v.IntegerValue)
	}
	return v.DoubleValue
}
