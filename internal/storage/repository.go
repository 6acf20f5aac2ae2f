package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"holidays/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the relational store for users, holidays, categories
// and expenses. Foreign keys are enforced per connection via the DSN pragma,
// so the ON DELETE CASCADE rules in the schema are live.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// DB exposes the underlying handle so the session store can share the
// connection pool (and the migrated sessions table).
func (r *SQLiteRepository) DB() *sql.DB {
	return r.db
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// isUniqueViolation matches SQLite's unique-constraint error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation matches SQLite's FK-constraint error text.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// --- Users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, name, age, password_hash) VALUES (?, ?, ?, ?)`,
		u.Username, u.Name, u.Age, u.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return core.User{}, fmt.Errorf("username %q: %w", u.Username, core.ErrConflict)
		}
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("create user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", u.Username)
	return r.GetUser(ctx, id)
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id int64) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, name, age, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, name, age, password_hash, created_at FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Age, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, fmt.Errorf("user: %w", core.ErrNotFound)
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) DeleteUser(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "users", id)
}

// --- Holidays ---

func (r *SQLiteRepository) CreateHoliday(ctx context.Context, h core.Holiday) (core.Holiday, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO holidays (name, duration, description) VALUES (?, ?, ?)`,
		h.Name, h.Duration, h.Description,
	)
	if err != nil {
		return core.Holiday{}, fmt.Errorf("create holiday: %w", err)
	}
	h.ID, err = res.LastInsertId()
	if err != nil {
		return core.Holiday{}, fmt.Errorf("create holiday id: %w", err)
	}
	return h, nil
}

func (r *SQLiteRepository) GetHoliday(ctx context.Context, id int64) (core.Holiday, error) {
	var h core.Holiday
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, duration, description FROM holidays WHERE id = ?`, id).
		Scan(&h.ID, &h.Name, &h.Duration, &h.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Holiday{}, fmt.Errorf("holiday %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Holiday{}, fmt.Errorf("get holiday: %w", err)
	}
	return h, nil
}

func (r *SQLiteRepository) ListHolidays(ctx context.Context) ([]core.Holiday, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, duration, description FROM holidays ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	defer rows.Close()

	holidays := []core.Holiday{}
	for rows.Next() {
		var h core.Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Duration, &h.Description); err != nil {
			return nil, fmt.Errorf("scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (r *SQLiteRepository) DeleteHoliday(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "holidays", id)
}

// --- Categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		c.Name, c.Description,
	)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("create category id: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []core.Category{}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "categories", id)
}

// --- Expenses ---

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (amount, date, note, user_id, holiday_id, category_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Amount, e.Date, e.Note, e.UserID, e.HolidayID, e.CategoryID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return core.Expense{}, fmt.Errorf("expense references: %w", core.ErrNotFound)
		}
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense id: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"amount", e.Amount,
		"user_id", e.UserID,
		"holiday_id", e.HolidayID,
		"category_id", e.CategoryID)

	return e, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	var e core.Expense
	err := r.db.QueryRowContext(ctx,
		`SELECT id, amount, date, note, user_id, holiday_id, category_id FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.Amount, &e.Date, &e.Note, &e.UserID, &e.HolidayID, &e.CategoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// UpdateExpense rewrites the mutable fields of an expense. Ownership is the
// caller's responsibility; this only touches amount, date and note.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, date = ?, note = ? WHERE id = ?`,
		e.Amount, e.Date, e.Note, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", e.ID, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "expenses", id)
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, table string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s rows: %w", table, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s id %d: %w", table, id, core.ErrNotFound)
	}
	return nil
}

// --- Profile assembly ---

// Profile builds the signed-in view of a user: the holidays and categories
// reached through the user's own expenses, each annotated with only that
// user's expenses against it. The holiday→expenses join is intersected with
// ownership here, not pre-scoped, so shared holidays never leak other users'
// spending.
func (r *SQLiteRepository) Profile(ctx context.Context, userID int64) (core.Profile, error) {
	user, err := r.GetUser(ctx, userID)
	if err != nil {
		return core.Profile{}, err
	}

	profile := core.Profile{
		User:       user,
		Holidays:   []core.HolidayWithExpenses{},
		Categories: []core.CategoryWithExpenses{},
	}

	holidays, err := r.listUserHolidays(ctx, userID)
	if err != nil {
		return core.Profile{}, err
	}
	for _, h := range holidays {
		expenses, err := r.listOwnedExpenses(ctx, userID, "holiday_id", h.ID)
		if err != nil {
			return core.Profile{}, err
		}
		profile.Holidays = append(profile.Holidays, core.HolidayWithExpenses{Holiday: h, Expenses: expenses})
	}

	categories, err := r.listUserCategories(ctx, userID)
	if err != nil {
		return core.Profile{}, err
	}
	for _, c := range categories {
		expenses, err := r.listOwnedExpenses(ctx, userID, "category_id", c.ID)
		if err != nil {
			return core.Profile{}, err
		}
		profile.Categories = append(profile.Categories, core.CategoryWithExpenses{Category: c, Expenses: expenses})
	}

	return profile, nil
}

func (r *SQLiteRepository) listUserHolidays(ctx context.Context, userID int64) ([]core.Holiday, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT h.id, h.name, h.duration, h.description
		 FROM holidays h
		 JOIN expenses e ON e.holiday_id = h.id
		 WHERE e.user_id = ?
		 ORDER BY h.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user holidays: %w", err)
	}
	defer rows.Close()

	var holidays []core.Holiday
	for rows.Next() {
		var h core.Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Duration, &h.Description); err != nil {
			return nil, fmt.Errorf("scan user holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (r *SQLiteRepository) listUserCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT c.id, c.name, c.description
		 FROM categories c
		 JOIN expenses e ON e.category_id = c.id
		 WHERE e.user_id = ?
		 ORDER BY c.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan user category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *SQLiteRepository) listOwnedExpenses(ctx context.Context, userID int64, fkColumn string, fkID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, amount, date, note, user_id, holiday_id, category_id
		 FROM expenses
		 WHERE user_id = ? AND `+fkColumn+` = ?
		 ORDER BY id`, userID, fkID)
	if err != nil {
		return nil, fmt.Errorf("list owned expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.Expense{}
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Amount, &e.Date, &e.Note, &e.UserID, &e.HolidayID, &e.CategoryID); err != nil {
			return nil, fmt.Errorf("scan owned expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// CountExpenses returns the number of expense rows, optionally scoped to a user.
func (r *SQLiteRepository) CountExpenses(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM expenses`
	args := []any{}
	if userID != 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return count, nil
}
