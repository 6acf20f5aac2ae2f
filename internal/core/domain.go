package core

import (
	"strings"
	"time"
)

type (
	// User owns expenses. The password hash lives only here and is never
	// serialized; outward representations go through the HTTP layer's views.
	User struct {
		ID           int64
		Username     string
		Name         string
		Age          int
		PasswordHash string
		CreatedAt    time.Time
	}

	Holiday struct {
		ID          int64
		Name        string
		Duration    int
		Description string
	}

	Category struct {
		ID          int64
		Name        string
		Description string
	}

	Expense struct {
		ID         int64
		Amount     float64
		Date       string
		Note       string
		UserID     int64
		HolidayID  int64
		CategoryID int64
	}

	// Credentials is a signup/login payload before hashing.
	Credentials struct {
		Username string
		Password string
	}
)

func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" || c.Password == "" {
		return ValidationError{Msg: "Username and password are required"}
	}
	return nil
}

func (h Holiday) Validate() error {
	if strings.TrimSpace(h.Name) == "" || strings.TrimSpace(h.Description) == "" || h.Duration == 0 {
		return ValidationError{Msg: "A holiday must have a name, a length of duration and a description."}
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Description) == "" {
		return ValidationError{Msg: "A category must have a name and a description."}
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Amount == 0 || strings.TrimSpace(e.Date) == "" ||
		e.UserID == 0 || e.HolidayID == 0 || e.CategoryID == 0 {
		return ValidationError{Msg: "An expense must have a corresponding amount, date, user id, holiday id and category id."}
	}
	return nil
}

type (
	// HolidayWithExpenses is a holiday annotated with a single user's
	// expenses against it. The expense list is always ownership-filtered,
	// never the holiday's full expense set.
	HolidayWithExpenses struct {
		Holiday
		Expenses []Expense
	}

	CategoryWithExpenses struct {
		Category
		Expenses []Expense
	}

	// Profile is the signed-in view of a user: the holidays and categories
	// the user has spent under, each carrying only that user's expenses.
	Profile struct {
		User       User
		Holidays   []HolidayWithExpenses
		Categories []CategoryWithExpenses
	}
)
