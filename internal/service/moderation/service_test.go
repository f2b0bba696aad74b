package moderation_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ksolovey/unimatch/internal/app"
	"github.com/ksolovey/unimatch/internal/cache"
	"github.com/ksolovey/unimatch/internal/config"
	"github.com/ksolovey/unimatch/internal/db"
	"github.com/ksolovey/unimatch/internal/gateway"
	"github.com/ksolovey/unimatch/internal/repository"
	"github.com/ksolovey/unimatch/internal/service/moderation"
)

const threshold = 3

func setupService(t *testing.T) (*moderation.Service, *repository.ProfileRepository, *repository.ComplaintRepository, *miniredis.Miniredis) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(&db.User{}, &db.Profile{}, &db.Like{}, &db.Complaint{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	appCtx := app.New(database, cache.NewRedisCache(cfg), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return moderation.NewService(appCtx, threshold),
		repository.NewProfileRepository(database),
		repository.NewComplaintRepository(database),
		mr
}

func seedProfile(t *testing.T, profiles *repository.ProfileRepository, id int64, g string) {
	t.Helper()
	require.NoError(t, profiles.SaveProfile(context.Background(), &db.Profile{
		UserID: id, Name: fmt.Sprintf("User %d", id), Age: 20, Gender: g,
		Faculty: "Computer Science", Course: 2,
		Bio: "a bio long enough to pass", PhotoID: fmt.Sprintf("p%d", id),
		Active: true,
	}))
}

func TestSelfComplaintRejected(t *testing.T) {
	ctx := context.Background()
	svc, _, complaints, _ := setupService(t)

	effects := svc.Complain(ctx, 1, 1, "spam")
	require.Len(t, effects, 1)
	rt := effects[0].(gateway.RenderText)
	assert.Contains(t, rt.Text, "can't report yourself")

	count, err := complaints.CountAgainst(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestComplaintsBelowThresholdReportCount(t *testing.T) {
	ctx := context.Background()
	svc, profiles, _, _ := setupService(t)

	seedProfile(t, profiles, 2, "male")

	effects := svc.Complain(ctx, 1, 2, "spam")
	rt := effects[0].(gateway.RenderText)
	assert.Contains(t, rt.Text, "Reports against this user: 1")

	blocked, err := profiles.IsBlocked(ctx, 2)
	require.NoError(t, err)
	assert.False(t, blocked)
}

// TestThresholdBlocksProfile: the third complaint blocks the target and
// removes it from discovery for everyone; a fourth complaint is a no-op
// past the threshold, not an error.
func TestThresholdBlocksProfile(t *testing.T) {
	ctx := context.Background()
	svc, profiles, _, _ := setupService(t)

	seedProfile(t, profiles, 1, "female")
	seedProfile(t, profiles, 2, "male")

	svc.Complain(ctx, 10, 2, "spam")
	svc.Complain(ctx, 11, 2, "spam")

	effects := svc.Complain(ctx, 12, 2, "spam")
	rt := effects[0].(gateway.RenderText)
	assert.Contains(t, rt.Text, "blocked")

	blocked, err := profiles.IsBlocked(ctx, 2)
	require.NoError(t, err)
	assert.True(t, blocked)

	// gone from discovery for any requester
	for _, requester := range []int64{1, 10, 999} {
		candidates, err := profiles.ListActive(ctx, requester, "")
		require.NoError(t, err)
		for _, c := range candidates {
			assert.NotEqual(t, int64(2), c.UserID)
		}
	}

	// fourth complaint leaves the user blocked, no error surfaced
	effects = svc.Complain(ctx, 13, 2, "again")
	rt = effects[0].(gateway.RenderText)
	assert.Contains(t, rt.Text, "blocked")

	blocked, err = profiles.IsBlocked(ctx, 2)
	require.NoError(t, err)
	assert.True(t, blocked)
}

// TestComplaintCounterCacheFirst verifies the complaint counter: the first
// report populates the cache from the DB, later reports are served from the
// live counter rather than a fresh count.
func TestComplaintCounterCacheFirst(t *testing.T) {
	ctx := context.Background()
	svc, profiles, complaints, mr := setupService(t)

	seedProfile(t, profiles, 2, "male")

	svc.Complain(ctx, 10, 2, "spam")

	// cache key is now set
	val, err := mr.Get("complaints:count:2")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	// a row written behind the service's back is not re-counted: the next
	// report bumps and reads the cached counter
	require.NoError(t, complaints.AddComplaint(ctx, 99, 2, "spam"))

	effects := svc.Complain(ctx, 11, 2, "spam")
	rt := effects[0].(gateway.RenderText)
	assert.Contains(t, rt.Text, "Reports against this user: 2")

	val, err = mr.Get("complaints:count:2")
	require.NoError(t, err)
	assert.Equal(t, "2", val)
}
