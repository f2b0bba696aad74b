package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ksolovey/unimatch/internal/db"
	svcErr "github.com/ksolovey/unimatch/internal/errors"
	"github.com/ksolovey/unimatch/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrate(&db.User{}, &db.Profile{}, &db.Like{}, &db.Complaint{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func validProfile(userID int64, gender string) *db.Profile {
	return &db.Profile{
		UserID:  userID,
		Name:    fmt.Sprintf("User %d", userID),
		Age:     20,
		Gender:  gender,
		Faculty: "Computer Science",
		Course:  2,
		Bio:     "a bio long enough to pass",
		PhotoID: fmt.Sprintf("photo-%d", userID),
		Active:  true,
	}
}

func TestUpsertUserFirstWriteWins(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(setupTestDB(t))

	require.NoError(t, repo.UpsertUser(ctx, 1, "anna", "Anna A"))
	// second write must not overwrite
	require.NoError(t, repo.UpsertUser(ctx, 1, "other", "Other Name"))

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSaveAndGetProfile(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(setupTestDB(t))

	require.NoError(t, repo.SaveProfile(ctx, validProfile(1, "female")))

	p, err := repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "User 1", p.Name)
	assert.True(t, p.Active)
	assert.False(t, p.Blocked)

	// full replace keeps the record whole
	replacement := validProfile(1, "female")
	replacement.Name = "Renamed"
	require.NoError(t, repo.SaveProfile(ctx, replacement))

	p, err = repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Name)
}

func TestSaveProfileValidation(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(setupTestDB(t))

	bad := validProfile(1, "female")
	bad.Age = 12
	err := repo.SaveProfile(ctx, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, svcErr.ErrValidation))

	// nothing was written
	p, err := repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestGetProfileMissing(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(setupTestDB(t))

	p, err := repo.GetProfile(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDeleteProfile(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(setupTestDB(t))

	require.NoError(t, repo.SaveProfile(ctx, validProfile(1, "male")))
	require.NoError(t, repo.DeleteProfile(ctx, 1))

	p, err := repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, p)

	profiles, err := repo.ListActive(ctx, 999, "")
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestListActiveExcludesHiddenAndBlocked(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := repository.NewProfileRepository(database)

	require.NoError(t, repo.SaveProfile(ctx, validProfile(1, "male")))
	require.NoError(t, repo.SaveProfile(ctx, validProfile(2, "female")))
	require.NoError(t, repo.SaveProfile(ctx, validProfile(3, "female")))

	require.NoError(t, repo.SetActive(ctx, 2, false))
	require.NoError(t, repo.Block(ctx, 3))

	profiles, err := repo.ListActive(ctx, 999, "")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, int64(1), profiles[0].UserID)

	// requester excluded
	profiles, err = repo.ListActive(ctx, 1, "")
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestListActiveGenderFilter(t *testing.T) {
	ctx := context.Background()
	database := setupTestDB(t)
	repo := repository.NewProfileRepository(database)

	// legacy rows with mixed casing and whitespace go in directly
	rows := []db.Profile{
		{UserID: 1, Name: "A", Age: 20, Gender: "male", Faculty: "CS dept", Course: 1, Bio: "bio text is long", PhotoID: "p1", Active: true},
		{UserID: 2, Name: "B", Age: 21, Gender: "Female", Faculty: "CS dept", Course: 2, Bio: "bio text is long", PhotoID: "p2", Active: true},
		{UserID: 3, Name: "C", Age: 22, Gender: " MALE ", Faculty: "CS dept", Course: 3, Bio: "bio text is long", PhotoID: "p3", Active: true},
	}
	require.NoError(t, database.Create(&rows).Error)

	males, err := repo.ListActive(ctx, 999, "male")
	require.NoError(t, err)
	require.Len(t, males, 2)
	assert.Equal(t, int64(1), males[0].UserID)
	assert.Equal(t, int64(3), males[1].UserID)

	females, err := repo.ListActive(ctx, 999, "female")
	require.NoError(t, err)
	require.Len(t, females, 1)
	assert.Equal(t, int64(2), females[0].UserID)
}

func TestListActiveStableOrder(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(setupTestDB(t))

	for _, id := range []int64{5, 2, 9, 1} {
		require.NoError(t, repo.SaveProfile(ctx, validProfile(id, "male")))
	}

	first, err := repo.ListActive(ctx, 999, "")
	require.NoError(t, err)
	second, err := repo.ListActive(ctx, 999, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), first[0].UserID)
}

func TestBlockUnblock(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(setupTestDB(t))

	require.NoError(t, repo.SaveProfile(ctx, validProfile(1, "male")))

	require.NoError(t, repo.Block(ctx, 1))
	blocked, err := repo.IsBlocked(ctx, 1)
	require.NoError(t, err)
	assert.True(t, blocked)

	// blocking again is a no-op, not an error
	require.NoError(t, repo.Block(ctx, 1))

	p, err := repo.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.False(t, p.Active)

	require.NoError(t, repo.Unblock(ctx, 1))
	blocked, err = repo.IsBlocked(ctx, 1)
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProfileRepository(setupTestDB(t))

	require.NoError(t, repo.UpsertUser(ctx, 1, "u1", "U1"))
	require.NoError(t, repo.UpsertUser(ctx, 2, "u2", "U2"))
	require.NoError(t, repo.SaveProfile(ctx, validProfile(1, "male")))
	require.NoError(t, repo.SaveProfile(ctx, validProfile(2, "female")))
	require.NoError(t, repo.SetActive(ctx, 2, false))

	users, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), users)

	total, err := repo.CountProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	active, err := repo.CountActiveProfiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), active)
}
