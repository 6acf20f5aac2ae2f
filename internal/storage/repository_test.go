package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"holidays/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositoryTestSuite struct {
	suite.Suite
	repo *SQLiteRepository
	ctx  context.Context
}

func (s *RepositoryTestSuite) SetupTest() {
	repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "holidays.db"))
	require.NoError(s.T(), err, "failed to open test database")
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) mustCreateUser(username string) core.User {
	u, err := s.repo.CreateUser(s.ctx, core.User{
		Username:     username,
		Name:         "Test User",
		Age:          30,
		PasswordHash: "hash",
	})
	require.NoError(s.T(), err)
	return u
}

func (s *RepositoryTestSuite) mustCreateHoliday(name string) core.Holiday {
	h, err := s.repo.CreateHoliday(s.ctx, core.Holiday{Name: name, Duration: 3, Description: "a break"})
	require.NoError(s.T(), err)
	return h
}

func (s *RepositoryTestSuite) mustCreateCategory(name string) core.Category {
	c, err := s.repo.CreateCategory(s.ctx, core.Category{Name: name, Description: "spending"})
	require.NoError(s.T(), err)
	return c
}

func (s *RepositoryTestSuite) mustCreateExpense(userID, holidayID, categoryID int64, amount float64) core.Expense {
	e, err := s.repo.CreateExpense(s.ctx, core.Expense{
		Amount:     amount,
		Date:       "2026-07-04",
		Note:       "test expense",
		UserID:     userID,
		HolidayID:  holidayID,
		CategoryID: categoryID,
	})
	require.NoError(s.T(), err)
	return e
}

func (s *RepositoryTestSuite) TestCreateAndGetUser() {
	created := s.mustCreateUser("alice")
	assert.NotZero(s.T(), created.ID)
	assert.NotEmpty(s.T(), created.CreatedAt)

	got, err := s.repo.GetUser(s.ctx, created.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created, got)

	byName, err := s.repo.GetUserByUsername(s.ctx, "alice")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, byName.ID)
}

func (s *RepositoryTestSuite) TestDuplicateUsernameConflicts() {
	s.mustCreateUser("alice")

	_, err := s.repo.CreateUser(s.ctx, core.User{Username: "alice", PasswordHash: "other"})
	assert.True(s.T(), errors.Is(err, core.ErrConflict), "duplicate username should conflict, got %v", err)
}

func (s *RepositoryTestSuite) TestGetMissingUser() {
	_, err := s.repo.GetUser(s.ctx, 999)
	assert.True(s.T(), errors.Is(err, core.ErrNotFound))

	_, err = s.repo.GetUserByUsername(s.ctx, "nobody")
	assert.True(s.T(), errors.Is(err, core.ErrNotFound))
}

func (s *RepositoryTestSuite) TestHolidayCRUD() {
	h := s.mustCreateHoliday("4th of July")
	assert.NotZero(s.T(), h.ID)

	got, err := s.repo.GetHoliday(s.ctx, h.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), h, got)

	list, err := s.repo.ListHolidays(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)

	require.NoError(s.T(), s.repo.DeleteHoliday(s.ctx, h.ID))

	_, err = s.repo.GetHoliday(s.ctx, h.ID)
	assert.True(s.T(), errors.Is(err, core.ErrNotFound))
}

func (s *RepositoryTestSuite) TestListHolidaysEmpty() {
	list, err := s.repo.ListHolidays(s.ctx)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), list, "empty list should marshal as [], not null")
	assert.Empty(s.T(), list)
}

func (s *RepositoryTestSuite) TestCategoryCRUD() {
	c := s.mustCreateCategory("Food")
	assert.NotZero(s.T(), c.ID)

	got, err := s.repo.GetCategory(s.ctx, c.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), c, got)

	list, err := s.repo.ListCategories(s.ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), list, 1)

	require.NoError(s.T(), s.repo.DeleteCategory(s.ctx, c.ID))
	_, err = s.repo.GetCategory(s.ctx, c.ID)
	assert.True(s.T(), errors.Is(err, core.ErrNotFound))
}

func (s *RepositoryTestSuite) TestExpenseLifecycle() {
	user := s.mustCreateUser("alice")
	holiday := s.mustCreateHoliday("Memorial Day")
	category := s.mustCreateCategory("Travel")

	e := s.mustCreateExpense(user.ID, holiday.ID, category.ID, 42.50)
	assert.NotZero(s.T(), e.ID)

	e.Amount = 99.99
	e.Note = "updated"
	require.NoError(s.T(), s.repo.UpdateExpense(s.ctx, e))

	got, err := s.repo.GetExpense(s.ctx, e.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 99.99, got.Amount)
	assert.Equal(s.T(), "updated", got.Note)
	assert.Equal(s.T(), user.ID, got.UserID, "update must not touch ownership")

	require.NoError(s.T(), s.repo.DeleteExpense(s.ctx, e.ID))
	_, err = s.repo.GetExpense(s.ctx, e.ID)
	assert.True(s.T(), errors.Is(err, core.ErrNotFound))
}

func (s *RepositoryTestSuite) TestExpenseBadReferences() {
	user := s.mustCreateUser("alice")
	holiday := s.mustCreateHoliday("Memorial Day")
	category := s.mustCreateCategory("Travel")

	cases := []struct {
		name    string
		expense core.Expense
	}{
		{"missing holiday", core.Expense{Amount: 1, Date: "2026-01-01", UserID: user.ID, HolidayID: 999, CategoryID: category.ID}},
		{"missing category", core.Expense{Amount: 1, Date: "2026-01-01", UserID: user.ID, HolidayID: holiday.ID, CategoryID: 999}},
		{"missing user", core.Expense{Amount: 1, Date: "2026-01-01", UserID: 999, HolidayID: holiday.ID, CategoryID: category.ID}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.repo.CreateExpense(s.ctx, tc.expense)
			assert.True(s.T(), errors.Is(err, core.ErrNotFound), "expected not-found for %s, got %v", tc.name, err)

			count, err := s.repo.CountExpenses(s.ctx, 0)
			require.NoError(s.T(), err)
			assert.Zero(s.T(), count, "failed insert must not leave a row")
		})
	}
}

func (s *RepositoryTestSuite) TestUpdateMissingExpense() {
	err := s.repo.UpdateExpense(s.ctx, core.Expense{ID: 999, Amount: 1, Date: "2026-01-01"})
	assert.True(s.T(), errors.Is(err, core.ErrNotFound))
}

func (s *RepositoryTestSuite) TestDeleteHolidayCascadesExpenses() {
	user := s.mustCreateUser("alice")
	holiday := s.mustCreateHoliday("Labor Day")
	category := s.mustCreateCategory("Food")
	e := s.mustCreateExpense(user.ID, holiday.ID, category.ID, 10)

	require.NoError(s.T(), s.repo.DeleteHoliday(s.ctx, holiday.ID))

	_, err := s.repo.GetExpense(s.ctx, e.ID)
	assert.True(s.T(), errors.Is(err, core.ErrNotFound), "expense should cascade away with its holiday")
}

func (s *RepositoryTestSuite) TestDeleteUserCascadesExpenses() {
	user := s.mustCreateUser("alice")
	holiday := s.mustCreateHoliday("Labor Day")
	category := s.mustCreateCategory("Food")
	e := s.mustCreateExpense(user.ID, holiday.ID, category.ID, 10)

	require.NoError(s.T(), s.repo.DeleteUser(s.ctx, user.ID))

	_, err := s.repo.GetExpense(s.ctx, e.ID)
	assert.True(s.T(), errors.Is(err, core.ErrNotFound))

	// The holiday itself survives; only the expense hangs off the user.
	_, err = s.repo.GetHoliday(s.ctx, holiday.ID)
	assert.NoError(s.T(), err)
}

func (s *RepositoryTestSuite) TestProfileScopesToOwner() {
	alice := s.mustCreateUser("alice")
	bob := s.mustCreateUser("bob")
	shared := s.mustCreateHoliday("4th of July")
	bobOnly := s.mustCreateHoliday("Memorial Day")
	food := s.mustCreateCategory("Food")
	travel := s.mustCreateCategory("Travel")

	aliceExpense := s.mustCreateExpense(alice.ID, shared.ID, food.ID, 25)
	s.mustCreateExpense(bob.ID, shared.ID, food.ID, 50)
	s.mustCreateExpense(bob.ID, bobOnly.ID, travel.ID, 75)

	profile, err := s.repo.Profile(s.ctx, alice.ID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), alice.ID, profile.User.ID)
	require.Len(s.T(), profile.Holidays, 1, "only holidays alice spent against")
	assert.Equal(s.T(), shared.ID, profile.Holidays[0].Holiday.ID)
	require.Len(s.T(), profile.Holidays[0].Expenses, 1, "bob's expense on the shared holiday must not leak")
	assert.Equal(s.T(), aliceExpense.ID, profile.Holidays[0].Expenses[0].ID)

	require.Len(s.T(), profile.Categories, 1)
	assert.Equal(s.T(), food.ID, profile.Categories[0].Category.ID)
	require.Len(s.T(), profile.Categories[0].Expenses, 1)
	assert.Equal(s.T(), aliceExpense.ID, profile.Categories[0].Expenses[0].ID)
}

func (s *RepositoryTestSuite) TestProfileEmptyUser() {
	alice := s.mustCreateUser("alice")

	profile, err := s.repo.Profile(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	assert.NotNil(s.T(), profile.Holidays)
	assert.Empty(s.T(), profile.Holidays)
	assert.NotNil(s.T(), profile.Categories)
	assert.Empty(s.T(), profile.Categories)
}

func (s *RepositoryTestSuite) TestCountExpenses() {
	alice := s.mustCreateUser("alice")
	bob := s.mustCreateUser("bob")
	holiday := s.mustCreateHoliday("Labor Day")
	category := s.mustCreateCategory("Food")

	s.mustCreateExpense(alice.ID, holiday.ID, category.ID, 10)
	s.mustCreateExpense(alice.ID, holiday.ID, category.ID, 20)
	s.mustCreateExpense(bob.ID, holiday.ID, category.ID, 30)

	total, err := s.repo.CountExpenses(s.ctx, 0)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 3, total)

	mine, err := s.repo.CountExpenses(s.ctx, alice.ID)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 2, mine)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
