package core

import (
	"errors"
	"testing"
)

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{"valid", Credentials{Username: "alice", Password: "pw1"}, false},
		{"empty username", Credentials{Username: "", Password: "pw1"}, true},
		{"whitespace username", Credentials{Username: "   ", Password: "pw1"}, true},
		{"empty password", Credentials{Username: "alice", Password: ""}, true},
		{"both empty", Credentials{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("Validate() returned %T, want ValidationError", err)
			}
		})
	}
}

func TestHoliday_Validate(t *testing.T) {
	tests := []struct {
		name    string
		holiday Holiday
		wantErr bool
	}{
		{"valid", Holiday{Name: "Labor Day", Duration: 1, Description: "First Monday of September"}, false},
		{"empty name", Holiday{Name: "", Duration: 1, Description: "x"}, true},
		{"zero duration", Holiday{Name: "Labor Day", Duration: 0, Description: "x"}, true},
		{"empty description", Holiday{Name: "Labor Day", Duration: 1, Description: "  "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.holiday.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		wantErr  bool
	}{
		{"valid", Category{Name: "Food", Description: "Groceries and meals"}, false},
		{"empty name", Category{Name: " ", Description: "x"}, true},
		{"empty description", Category{Name: "Food", Description: ""}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.category.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpense_Validate(t *testing.T) {
	valid := Expense{Amount: 10.0, Date: "2024-09-02", UserID: 1, HolidayID: 1, CategoryID: 1}

	tests := []struct {
		name    string
		mutate  func(e Expense) Expense
		wantErr bool
	}{
		{"valid", func(e Expense) Expense { return e }, false},
		{"note optional", func(e Expense) Expense { e.Note = ""; return e }, false},
		{"zero amount", func(e Expense) Expense { e.Amount = 0; return e }, true},
		{"negative amount allowed", func(e Expense) Expense { e.Amount = -5; return e }, false},
		{"empty date", func(e Expense) Expense { e.Date = ""; return e }, true},
		{"missing user", func(e Expense) Expense { e.UserID = 0; return e }, true},
		{"missing holiday", func(e Expense) Expense { e.HolidayID = 0; return e }, true},
		{"missing category", func(e Expense) Expense { e.CategoryID = 0; return e }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mutate(valid).Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsValidation(t *testing.T) {
	if !IsValidation(ValidationError{Msg: "boom"}) {
		t.Error("IsValidation should match ValidationError")
	}
	if IsValidation(ErrNotFound) {
		t.Error("IsValidation should not match sentinel errors")
	}
	wrapped := errors.Join(ValidationError{Msg: "inner"}, errors.New("outer"))
	if !IsValidation(wrapped) {
		t.Error("IsValidation should see through wrapping")
	}
}
