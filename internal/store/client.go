package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"endurowallet/internal/core"
)

// Client is the typed record store client: it routes each record kind to the
// right partition and encodes/decodes record documents. Validation happens
// before records reach the client; it never validates.
type Client struct {
	st Store
}

// NewClient wraps a document store.
func NewClient(st Store) *Client {
	return &Client{st: st}
}

// listRecords decodes every document in the partition. Documents that fail
// to decode entirely are skipped with a warning: one corrupt legacy row must
// not take the whole collection down.
func listRecords[T any](ctx context.Context, st Store, userID string, kind core.Kind, withID func(T, string) T) ([]T, error) {
	docs, err := st.List(ctx, userID, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	records := make([]T, 0, len(docs))
	for _, doc := range docs {
		var rec T
		if err := json.Unmarshal(doc.Body, &rec); err != nil {
			slog.WarnContext(ctx, "Skipping undecodable record",
				"kind", kind, "record_id", doc.ID, "error", err)
			continue
		}
		records = append(records, withID(rec, doc.ID))
	}
	return records, nil
}

func appendRecord[T any](ctx context.Context, st Store, userID string, kind core.Kind, candidate T, withID func(T, string) T) (T, error) {
	var zero T
	body, err := json.Marshal(candidate)
	if err != nil {
		return zero, fmt.Errorf("encode %s: %w", kind, err)
	}
	doc, err := st.Append(ctx, userID, kind, body)
	if err != nil {
		return zero, fmt.Errorf("append %s: %w", kind, err)
	}
	return withID(candidate, doc.ID), nil
}

func incomeWithID(i core.Income, id string) core.Income {
	i.ID = id
	return i
}

func transactionWithID(t core.Transaction, id string) core.Transaction {
	t.ID = id
	return t
}

func saverWithID(s core.SaverGoal, id string) core.SaverGoal {
	s.ID = id
	return s
}

// ListIncome returns the user's income records, unordered.
func (c *Client) ListIncome(ctx context.Context, userID string) ([]core.Income, error) {
	return listRecords(ctx, c.st, userID, core.KindIncome, incomeWithID)
}

// ListTransactions returns the user's spending transactions, unordered.
func (c *Client) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	return listRecords(ctx, c.st, userID, core.KindTransactions, transactionWithID)
}

// ListSavers returns the user's saver goals, unordered.
func (c *Client) ListSavers(ctx context.Context, userID string) ([]core.SaverGoal, error) {
	return listRecords(ctx, c.st, userID, core.KindSavers, saverWithID)
}

// AppendIncome stores a validated income candidate and returns it with the
// store-assigned id.
func (c *Client) AppendIncome(ctx context.Context, userID string, candidate core.Income) (core.Income, error) {
	return appendRecord(ctx, c.st, userID, core.KindIncome, candidate, incomeWithID)
}

// AppendTransaction stores a validated transaction candidate.
func (c *Client) AppendTransaction(ctx context.Context, userID string, candidate core.Transaction) (core.Transaction, error) {
	return appendRecord(ctx, c.st, userID, core.KindTransactions, candidate, transactionWithID)
}

// AppendSaver stores a validated saver goal candidate.
func (c *Client) AppendSaver(ctx context.Context, userID string, candidate core.SaverGoal) (core.SaverGoal, error) {
	return appendRecord(ctx, c.st, userID, core.KindSavers, candidate, saverWithID)
}
