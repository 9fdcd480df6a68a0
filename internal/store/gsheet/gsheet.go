// Package gsheet implements the record store on a Google Sheets spreadsheet.
// Each record kind gets its own worksheet; a row is (user id, record id,
// document JSON). It is mainly used as the mirror target of the sync worker,
// but can also serve as the primary backend.
package gsheet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	goption "google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"endurowallet/internal/core"
	"endurowallet/internal/store"
)

// Client talks to one spreadsheet.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

var _ store.Store = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID. Credentials come from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func newSheetsService(ctx context.Context) (*gsheets.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	return gsheets.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheets.SpreadsheetsScope))
}

// sheetName maps a record kind to its worksheet.
func sheetName(kind core.Kind) string {
	return string(kind)
}

// List implements store.Store by scanning the kind's worksheet for the
// user's rows. A missing worksheet or empty sheet lists as empty.
func (c *Client) List(ctx context.Context, userID string, kind core.Kind) ([]store.Document, error) {
	if c.svc == nil {
		return nil, fmt.Errorf("%w: sheets service not initialized", store.ErrStoreUnavailable)
	}
	rng := fmt.Sprintf("%s!A:C", sheetName(kind))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", store.ErrStoreUnavailable, rng, err)
	}

	var docs []store.Document
	for _, row := range resp.Values {
		if len(row) < 3 {
			continue
		}
		owner := strings.TrimSpace(fmt.Sprint(row[0]))
		if owner != userID {
			continue
		}
		id := strings.TrimSpace(fmt.Sprint(row[1]))
		body := fmt.Sprint(row[2])
		if id == "" || !json.Valid([]byte(body)) {
			continue
		}
		docs = append(docs, store.Document{ID: id, Body: json.RawMessage(body)})
	}
	return docs, nil
}

// Append implements store.Store with a single row append, which the Sheets
// API applies atomically.
func (c *Client) Append(ctx context.Context, userID string, kind core.Kind, body json.RawMessage) (store.Document, error) {
	id := uuid.NewString()
	doc, err := c.AppendWithID(ctx, userID, kind, id, body)
	if err != nil {
		return store.Document{}, err
	}
	return doc, nil
}

// AppendWithID stores a document under a caller-chosen id. The mirror worker
// uses it to preserve ids assigned by the primary store.
func (c *Client) AppendWithID(ctx context.Context, userID string, kind core.Kind, id string, body json.RawMessage) (store.Document, error) {
	if c.svc == nil {
		return store.Document{}, fmt.Errorf("%w: sheets service not initialized", store.ErrWriteRejected)
	}
	mirrored, err := store.MirrorID(body, kind, id)
	if err != nil {
		return store.Document{}, fmt.Errorf("%w: %v", store.ErrWriteRejected, err)
	}

	rng := fmt.Sprintf("%s!A:C", sheetName(kind))
	vr := &gsheets.ValueRange{Values: [][]any{{userID, id, string(mirrored)}}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return store.Document{}, fmt.Errorf("%w: append to %s: %v", store.ErrWriteRejected, rng, err)
	}

	return store.Document{ID: id, Body: mirrored}, nil
}

// Has reports whether a record id already exists in the kind's worksheet,
// so the mirror worker can make re-deliveries idempotent.
func (c *Client) Has(ctx context.Context, kind core.Kind, id string) (bool, error) {
	if c.svc == nil {
		return false, fmt.Errorf("%w: sheets service not initialized", store.ErrStoreUnavailable)
	}
	rng := fmt.Sprintf("%s!B:B", sheetName(kind))
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("%w: read %s: %v", store.ErrStoreUnavailable, rng, err)
	}
	for _, row := range resp.Values {
		if len(row) > 0 && strings.TrimSpace(fmt.Sprint(row[0])) == id {
			return true, nil
		}
	}
	return false, nil
}
