package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"endurowallet/internal/core"
)

// fakeStore is an in-test document store with scriptable failures.
type fakeStore struct {
	docs      map[string][]Document // keyed by userID/kind
	nextID    int
	listErr   error
	appendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string][]Document)}
}

func (f *fakeStore) key(userID string, kind core.Kind) string {
	return userID + "/" + string(kind)
}

func (f *fakeStore) List(_ context.Context, userID string, kind core.Kind) ([]Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.docs[f.key(userID, kind)], nil
}

func (f *fakeStore) Append(_ context.Context, userID string, kind core.Kind, body json.RawMessage) (Document, error) {
	if f.appendErr != nil {
		return Document{}, f.appendErr
	}
	f.nextID++
	doc := Document{ID: fmt.Sprintf("doc-%d", f.nextID), Body: body}
	k := f.key(userID, kind)
	f.docs[k] = append(f.docs[k], doc)
	return doc, nil
}

func TestClient_AppendThenListIncome(t *testing.T) {
	client := NewClient(newFakeStore())
	ctx := context.Background()

	candidate := core.Income{
		Amount: core.AmountOf(core.Money{Cents: 50000}),
		Month:  core.Mar,
		Year:   "2023",
	}
	created, err := client.AppendIncome(ctx, "user-1", candidate)
	if err != nil {
		t.Fatalf("AppendIncome: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created record has no id")
	}
	if created.Amount.Cents() != 50000 {
		t.Errorf("created amount = %d, want 50000", created.Amount.Cents())
	}

	records, err := client.ListIncome(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListIncome: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListIncome returned %d records, want 1", len(records))
	}
	if records[0].ID != created.ID {
		t.Errorf("listed id = %s, want %s", records[0].ID, created.ID)
	}
	if records[0].Month != core.Mar || records[0].Year != "2023" {
		t.Errorf("listed record = %+v", records[0])
	}
}

func TestClient_ListTolerateMalformedAmount(t *testing.T) {
	fs := newFakeStore()
	client := NewClient(fs)
	ctx := context.Background()

	// A legacy document whose amount is a string still decodes; the amount
	// is carried as invalid instead of dropping the record.
	fs.docs[fs.key("u", core.KindIncome)] = []Document{
		{ID: "legacy", Body: json.RawMessage(`{"incomeAmount":"a lot","incomeMonth":"jan","incomeYear":"2022"}`)},
	}

	records, err := client.ListIncome(ctx, "u")
	if err != nil {
		t.Fatalf("ListIncome: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Amount.Valid {
		t.Error("malformed amount decoded as valid")
	}
	if records[0].Amount.Raw != "a lot" {
		t.Errorf("raw = %q, want %q", records[0].Amount.Raw, "a lot")
	}
}

func TestClient_ListSkipsUndecodableDocument(t *testing.T) {
	fs := newFakeStore()
	client := NewClient(fs)

	fs.docs[fs.key("u", core.KindSavers)] = []Document{
		{ID: "bad", Body: json.RawMessage(`not json`)},
		{ID: "good", Body: json.RawMessage(`{"saverName":"Holiday","saverGoal":1000,"saverAmount":100}`)},
	}

	records, err := client.ListSavers(context.Background(), "u")
	if err != nil {
		t.Fatalf("ListSavers: %v", err)
	}
	if len(records) != 1 || records[0].ID != "good" {
		t.Fatalf("records = %+v, want only the decodable one", records)
	}
}

func TestClient_ErrorsWrapStoreSentinels(t *testing.T) {
	fs := newFakeStore()
	client := NewClient(fs)
	ctx := context.Background()

	fs.listErr = fmt.Errorf("%w: connection refused", ErrStoreUnavailable)
	if _, err := client.ListTransactions(ctx, "u"); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("ListTransactions error = %v, want ErrStoreUnavailable", err)
	}

	fs.appendErr = fmt.Errorf("%w: constraint violated", ErrWriteRejected)
	if _, err := client.AppendSaver(ctx, "u", core.SaverGoal{Name: "x"}); !errors.Is(err, ErrWriteRejected) {
		t.Errorf("AppendSaver error = %v, want ErrWriteRejected", err)
	}
}
