package core

import (
	"fmt"
	"strings"
)

// FieldError describes why a single input field was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects the field-level failures for one submission.
// It never crosses the store boundary; callers surface it next to the form.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// Error implements error.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FieldMessage returns the message for a field, or "" if the field passed.
func (e *ValidationError) FieldMessage(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// IncomeInput carries raw user-entered income fields.
type IncomeInput struct {
	Amount string
	Month  string
	Year   string
}

// TransactionInput carries raw user-entered transaction fields.
type TransactionInput struct {
	Value    string
	Category string
	Month    string
	Year     string
}

// SaverInput carries raw user-entered saver fields.
type SaverInput struct {
	Name   string
	Goal   string
	Amount string
}

// The year rule is minimum length only. Any 4+ character string passes,
// matching the historical behavior.
const yearMinLength = 4

func validateAmount(e *ValidationError, field, raw, label string) Amount {
	cents, err := ParseDecimalToCents(raw)
	if err != nil {
		e.add(field, fmt.Sprintf("%s must be a positive number.", label))
		return Amount{Raw: raw}
	}
	return AmountOf(Money{Cents: cents})
}

func validateYear(e *ValidationError, field, raw string) {
	if len([]rune(raw)) < yearMinLength {
		e.add(field, "Please enter a valid year.")
	}
}

// ValidateIncome normalizes raw income input into a record candidate, or
// returns a *ValidationError naming every rejected field. It is pure: the
// same input always yields the same verdict and candidate.
func ValidateIncome(in IncomeInput) (Income, error) {
	var verr ValidationError
	amount := validateAmount(&verr, "incomeAmount", in.Amount, "Income amount")
	month := Month(in.Month)
	if !month.IsValid() {
		verr.add("incomeMonth", "Please select an income month.")
	}
	validateYear(&verr, "incomeYear", in.Year)
	if err := verr.orNil(); err != nil {
		return Income{}, err
	}
	return Income{Amount: amount, Month: month, Year: in.Year}, nil
}

// ValidateTransaction normalizes raw transaction input into a record
// candidate, or returns a *ValidationError.
func ValidateTransaction(in TransactionInput) (Transaction, error) {
	var verr ValidationError
	value := validateAmount(&verr, "transactionValue", in.Value, "Transaction value")
	category := Category(in.Category)
	if !category.IsValid() {
		verr.add("transactionCategory", "Please select a transaction category.")
	}
	month := Month(in.Month)
	if !month.IsValid() {
		verr.add("transactionMonth", "Please select a transaction month.")
	}
	validateYear(&verr, "transactionYear", in.Year)
	if err := verr.orNil(); err != nil {
		return Transaction{}, err
	}
	return Transaction{Value: value, Category: category, Month: month, Year: in.Year}, nil
}

// ValidateSaver normalizes raw saver input into a record candidate, or
// returns a *ValidationError. The name is taken as given: no trimming, so
// leading or trailing whitespace counts toward the length.
func ValidateSaver(in SaverInput) (SaverGoal, error) {
	var verr ValidationError
	if len([]rune(in.Name)) < 2 {
		verr.add("saverName", "Saver name must be at least 2 characters.")
	}
	goal := validateAmount(&verr, "saverGoal", in.Goal, "Saver goal")
	amount := validateAmount(&verr, "saverAmount", in.Amount, "Saver amount")
	if err := verr.orNil(); err != nil {
		return SaverGoal{}, err
	}
	return SaverGoal{Name: in.Name, Goal: goal, Amount: amount}, nil
}
