package core

import (
	"reflect"
	"testing"
)

func validAmount(cents int64) Amount {
	return AmountOf(Money{Cents: cents})
}

func badAmount(raw string) Amount {
	return Amount{Raw: raw}
}

func TestTotalIncome(t *testing.T) {
	tests := []struct {
		name        string
		records     []Income
		want        int64
		wantSkipped int
	}{
		{
			name:    "empty slice sums to zero",
			records: nil,
			want:    0,
		},
		{
			name: "sums valid amounts",
			records: []Income{
				{ID: "a", Amount: validAmount(100)},
				{ID: "b", Amount: validAmount(250)},
			},
			want: 350,
		},
		{
			name: "skips malformed amounts",
			records: []Income{
				{ID: "a", Amount: validAmount(100)},
				{ID: "b", Amount: badAmount("oops")},
				{ID: "c", Amount: validAmount(50)},
			},
			want:        150,
			wantSkipped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diag Diagnostics
			got := TotalIncome(tt.records, &diag)
			if got.Cents != tt.want {
				t.Errorf("TotalIncome() = %d, want %d", got.Cents, tt.want)
			}
			if len(diag.Skipped) != tt.wantSkipped {
				t.Errorf("skipped %d fields, want %d", len(diag.Skipped), tt.wantSkipped)
			}
		})
	}
}

func TestTotalIncome_OrderIndependent(t *testing.T) {
	a := []Income{
		{ID: "1", Amount: validAmount(100)},
		{ID: "2", Amount: validAmount(200)},
		{ID: "3", Amount: validAmount(300)},
	}
	b := []Income{a[2], a[0], a[1]}

	if TotalIncome(a, nil).Cents != TotalIncome(b, nil).Cents {
		t.Error("total depends on record order")
	}
}

func TestTotalIncome_NilDiagnostics(t *testing.T) {
	records := []Income{{ID: "a", Amount: badAmount("x")}}
	// Must not panic with a nil diagnostics sink.
	if got := TotalIncome(records, nil); got.Cents != 0 {
		t.Errorf("TotalIncome() = %d, want 0", got.Cents)
	}
}

func TestSpendingByCategory(t *testing.T) {
	records := []Transaction{
		{ID: "a", Value: validAmount(100), Category: CategoryGroceries},
		{ID: "b", Value: validAmount(50), Category: CategoryGroceries},
		{ID: "c", Value: validAmount(75), Category: CategoryBills},
		{ID: "d", Value: badAmount("?"), Category: CategoryRent},
	}

	var diag Diagnostics
	got := SpendingByCategory(records, &diag)

	want := map[Category]Money{
		CategoryGroceries: {Cents: 150},
		CategoryBills:     {Cents: 75},
		CategoryRent:      {Cents: 0}, // malformed value still claims its key
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SpendingByCategory() = %v, want %v", got, want)
	}
	if len(diag.Skipped) != 1 || diag.Skipped[0].RecordID != "d" {
		t.Errorf("diagnostics = %+v, want one skip for record d", diag.Skipped)
	}
}

func TestIncomeByMonth(t *testing.T) {
	records := []Income{
		{ID: "a", Amount: validAmount(100), Month: Jan, Year: "2023"},
		{ID: "b", Amount: validAmount(200), Month: Jan, Year: "2023"},
		{ID: "c", Amount: validAmount(999), Month: Jan, Year: "2022"}, // other year
		{ID: "d", Amount: validAmount(50), Month: Dec, Year: "2023"},
	}

	got := IncomeByMonth(records, "2023", nil)

	if got[0].Cents != 300 {
		t.Errorf("january = %d, want 300", got[0].Cents)
	}
	if got[11].Cents != 50 {
		t.Errorf("december = %d, want 50", got[11].Cents)
	}
	for i := 1; i < 11; i++ {
		if got[i].Cents != 0 {
			t.Errorf("month %d = %d, want 0", i+1, got[i].Cents)
		}
	}
}

func TestBreakdownSavers_SwitchDimension(t *testing.T) {
	records := []SaverGoal{
		{ID: "a", Name: "Holiday", Goal: validAmount(100000), Amount: validAmount(25000)},
		{ID: "b", Name: "Car", Goal: validAmount(500000), Amount: validAmount(10000)},
	}

	b := BreakdownSavers(records)

	amounts := b.Values(SaverAmountField, nil)
	goals := b.Values(SaverGoalField, nil)

	// Both dimensions share the same key set; only the values change.
	if len(amounts) != len(goals) {
		t.Fatalf("key sets differ: %d vs %d", len(amounts), len(goals))
	}
	for name := range amounts {
		if _, ok := goals[name]; !ok {
			t.Errorf("key %q missing from goal dimension", name)
		}
	}

	if amounts["Holiday"].Cents != 25000 {
		t.Errorf("Holiday amount = %d, want 25000", amounts["Holiday"].Cents)
	}
	if goals["Holiday"].Cents != 100000 {
		t.Errorf("Holiday goal = %d, want 100000", goals["Holiday"].Cents)
	}
}

func TestBreakdownSavers_DuplicateNamesAccumulate(t *testing.T) {
	records := []SaverGoal{
		{ID: "a", Name: "Holiday", Goal: validAmount(100), Amount: validAmount(10)},
		{ID: "b", Name: "Holiday", Goal: validAmount(200), Amount: validAmount(20)},
	}

	b := BreakdownSavers(records)
	if got := b.Names(); len(got) != 1 || got[0] != "Holiday" {
		t.Fatalf("Names() = %v, want [Holiday]", got)
	}
	if got := b.Values(SaverAmountField, nil)["Holiday"].Cents; got != 30 {
		t.Errorf("accumulated amount = %d, want 30", got)
	}
}

func TestBreakdownSavers_FirstSeenOrder(t *testing.T) {
	records := []SaverGoal{
		{ID: "a", Name: "Zebra", Goal: validAmount(1), Amount: validAmount(1)},
		{ID: "b", Name: "Apple", Goal: validAmount(1), Amount: validAmount(1)},
		{ID: "c", Name: "Zebra", Goal: validAmount(1), Amount: validAmount(1)},
	}

	got := BreakdownSavers(records).Names()
	want := []string{"Zebra", "Apple"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestBreakdownSavers_MalformedValueContributesZero(t *testing.T) {
	records := []SaverGoal{
		{ID: "a", Name: "Holiday", Goal: badAmount("lots"), Amount: validAmount(10)},
	}

	b := BreakdownSavers(records)

	var diag Diagnostics
	goals := b.Values(SaverGoalField, &diag)
	if goals["Holiday"].Cents != 0 {
		t.Errorf("malformed goal = %d, want 0", goals["Holiday"].Cents)
	}
	if len(diag.Skipped) != 1 {
		t.Fatalf("skipped = %+v, want one entry", diag.Skipped)
	}

	// The amount dimension is unaffected.
	amounts := b.Values(SaverAmountField, nil)
	if amounts["Holiday"].Cents != 10 {
		t.Errorf("amount = %d, want 10", amounts["Holiday"].Cents)
	}
}
