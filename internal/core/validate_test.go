package core

import (
	"errors"
	"testing"
)

func fieldMessage(t *testing.T, err error, field string) string {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	return verr.FieldMessage(field)
}

func TestValidateIncome(t *testing.T) {
	tests := []struct {
		name        string
		input       IncomeInput
		wantErr     bool
		wantField   string
		wantMessage string
	}{
		{
			name:  "valid",
			input: IncomeInput{Amount: "500", Month: "mar", Year: "2023"},
		},
		{
			name:        "empty amount",
			input:       IncomeInput{Amount: "", Month: "mar", Year: "2023"},
			wantErr:     true,
			wantField:   "incomeAmount",
			wantMessage: "Income amount must be a positive number.",
		},
		{
			name:        "non-numeric amount",
			input:       IncomeInput{Amount: "six hundred", Month: "mar", Year: "2023"},
			wantErr:     true,
			wantField:   "incomeAmount",
			wantMessage: "Income amount must be a positive number.",
		},
		{
			name:        "negative amount",
			input:       IncomeInput{Amount: "-10", Month: "mar", Year: "2023"},
			wantErr:     true,
			wantField:   "incomeAmount",
			wantMessage: "Income amount must be a positive number.",
		},
		{
			name:        "zero amount",
			input:       IncomeInput{Amount: "0", Month: "mar", Year: "2023"},
			wantErr:     true,
			wantField:   "incomeAmount",
			wantMessage: "Income amount must be a positive number.",
		},
		{
			name:        "unknown month",
			input:       IncomeInput{Amount: "500", Month: "march", Year: "2023"},
			wantErr:     true,
			wantField:   "incomeMonth",
			wantMessage: "Please select an income month.",
		},
		{
			name:        "short year",
			input:       IncomeInput{Amount: "500", Month: "mar", Year: "202"},
			wantErr:     true,
			wantField:   "incomeYear",
			wantMessage: "Please enter a valid year.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateIncome(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateIncome() unexpected error: %v", err)
				}
				if !got.Amount.Valid || got.Amount.Money.Cents != 50000 {
					t.Errorf("Amount = %+v, want 50000 cents", got.Amount)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateIncome() expected error, got nil")
			}
			if msg := fieldMessage(t, err, tt.wantField); msg != tt.wantMessage {
				t.Errorf("field %s message = %q, want %q", tt.wantField, msg, tt.wantMessage)
			}
		})
	}
}

func TestValidateIncome_NonNumericYearPasses(t *testing.T) {
	// The year rule is length-only, so a 4+ character non-numeric year is
	// accepted. Aggregation then simply never matches it to a series.
	if _, err := ValidateIncome(IncomeInput{Amount: "1", Month: "jan", Year: "20XX"}); err != nil {
		t.Fatalf("ValidateIncome() unexpected error: %v", err)
	}
}

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		name        string
		input       TransactionInput
		wantErr     bool
		wantField   string
		wantMessage string
	}{
		{
			name:  "valid",
			input: TransactionInput{Value: "42.50", Category: "groceries", Month: "jul", Year: "2022"},
		},
		{
			name:        "bad value",
			input:       TransactionInput{Value: "x", Category: "groceries", Month: "jul", Year: "2022"},
			wantErr:     true,
			wantField:   "transactionValue",
			wantMessage: "Transaction value must be a positive number.",
		},
		{
			name:        "unknown category",
			input:       TransactionInput{Value: "10", Category: "yachts", Month: "jul", Year: "2022"},
			wantErr:     true,
			wantField:   "transactionCategory",
			wantMessage: "Please select a transaction category.",
		},
		{
			name:        "empty month",
			input:       TransactionInput{Value: "10", Category: "bills", Month: "", Year: "2022"},
			wantErr:     true,
			wantField:   "transactionMonth",
			wantMessage: "Please select a transaction month.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateTransaction(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateTransaction() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateTransaction() expected error, got nil")
			}
			if msg := fieldMessage(t, err, tt.wantField); msg != tt.wantMessage {
				t.Errorf("field %s message = %q, want %q", tt.wantField, msg, tt.wantMessage)
			}
		})
	}
}

func TestValidateTransaction_CollectsAllFailures(t *testing.T) {
	_, err := ValidateTransaction(TransactionInput{Value: "", Category: "", Month: "", Year: ""})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) != 4 {
		t.Errorf("got %d field errors, want 4: %v", len(verr.Fields), verr)
	}
}

func TestValidateSaver(t *testing.T) {
	tests := []struct {
		name        string
		input       SaverInput
		wantErr     bool
		wantField   string
		wantMessage string
	}{
		{
			name:  "valid",
			input: SaverInput{Name: "Holiday", Goal: "1000", Amount: "250"},
		},
		{
			name:  "two character name is enough",
			input: SaverInput{Name: "ok", Goal: "1", Amount: "1"},
		},
		{
			name:        "one character name",
			input:       SaverInput{Name: "x", Goal: "1000", Amount: "250"},
			wantErr:     true,
			wantField:   "saverName",
			wantMessage: "Saver name must be at least 2 characters.",
		},
		{
			name:        "empty goal",
			input:       SaverInput{Name: "Holiday", Goal: "", Amount: "250"},
			wantErr:     true,
			wantField:   "saverGoal",
			wantMessage: "Saver goal must be a positive number.",
		},
		{
			name:        "empty amount",
			input:       SaverInput{Name: "Holiday", Goal: "1000", Amount: ""},
			wantErr:     true,
			wantField:   "saverAmount",
			wantMessage: "Saver amount must be a positive number.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateSaver(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ValidateSaver() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("ValidateSaver() expected error, got nil")
			}
			if msg := fieldMessage(t, err, tt.wantField); msg != tt.wantMessage {
				t.Errorf("field %s message = %q, want %q", tt.wantField, msg, tt.wantMessage)
			}
		})
	}
}
