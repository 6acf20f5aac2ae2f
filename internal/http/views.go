package http

import "holidays/internal/core"

// Outward JSON shapes. The password hash never appears here, and nested
// expense lists only ever hold the requesting user's rows.
type (
	userView struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
		Age      int    `json:"age"`
	}

	holidayView struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Duration    int    `json:"duration"`
		Description string `json:"description"`
	}

	categoryView struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	expenseView struct {
		ID         int64   `json:"id"`
		Amount     float64 `json:"amount"`
		Date       string  `json:"date"`
		Note       string  `json:"note"`
		UserID     int64   `json:"user_id"`
		HolidayID  int64   `json:"holiday_id"`
		CategoryID int64   `json:"category_id"`
	}

	holidayWithExpensesView struct {
		holidayView
		Expenses []expenseView `json:"expenses"`
	}

	categoryWithExpensesView struct {
		categoryView
		Expenses []expenseView `json:"expenses"`
	}

	profileView struct {
		userView
		Holidays   []holidayWithExpensesView  `json:"holidays"`
		Categories []categoryWithExpensesView `json:"categories"`
	}
)

func toUserView(u core.User) userView {
	return userView{ID: u.ID, Username: u.Username, Name: u.Name, Age: u.Age}
}

func toHolidayView(h core.Holiday) holidayView {
	return holidayView{ID: h.ID, Name: h.Name, Duration: h.Duration, Description: h.Description}
}

func toCategoryView(c core.Category) categoryView {
	return categoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toExpenseView(e core.Expense) expenseView {
	return expenseView{
		ID:         e.ID,
		Amount:     e.Amount,
		Date:       e.Date,
		Note:       e.Note,
		UserID:     e.UserID,
		HolidayID:  e.HolidayID,
		CategoryID: e.CategoryID,
	}
}

func toExpenseViews(expenses []core.Expense) []expenseView {
	views := make([]expenseView, 0, len(expenses))
	for _, e := range expenses {
		views = append(views, toExpenseView(e))
	}
	return views
}

func toProfileView(p core.Profile) profileView {
	view := profileView{
		userView:   toUserView(p.User),
		Holidays:   make([]holidayWithExpensesView, 0, len(p.Holidays)),
		Categories: make([]categoryWithExpensesView, 0, len(p.Categories)),
	}
	for _, h := range p.Holidays {
		view.Holidays = append(view.Holidays, holidayWithExpensesView{
			holidayView: toHolidayView(h.Holiday),
			Expenses:    toExpenseViews(h.Expenses),
		})
	}
	for _, c := range p.Categories {
		view.Categories = append(view.Categories, categoryWithExpensesView{
			categoryView: toCategoryView(c.Category),
			Expenses:     toExpenseViews(c.Expenses),
		})
	}
	return view
}
