package bot_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ksolovey/unimatch/internal/app"
	"github.com/ksolovey/unimatch/internal/bot"
	"github.com/ksolovey/unimatch/internal/cache"
	"github.com/ksolovey/unimatch/internal/config"
	"github.com/ksolovey/unimatch/internal/db"
	"github.com/ksolovey/unimatch/internal/gateway"
	"github.com/ksolovey/unimatch/internal/repository"
	"github.com/ksolovey/unimatch/internal/session"
)

func setupRouter(t *testing.T) (*bot.Router, *repository.LikeRepository) {
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
	return bot.New(appCtx, session.NewStore(), 3, 5), repository.NewLikeRepository(database)
}

func textOf(t *testing.T, effects []gateway.Effect) string {
	t.Helper()
	require.NotEmpty(t, effects)
	switch e := effects[0].(type) {
	case gateway.RenderText:
		return e.Text
	case gateway.RenderPhoto:
		return e.Caption
	default:
		t.Fatalf("unexpected effect %T", effects[0])
		return ""
	}
}

// createProfile drives the full conversation for a user through the router.
func createProfile(t *testing.T, r *bot.Router, userID int64, name, age, g, faculty, course, bio, photoID string) {
	t.Helper()
	ctx := context.Background()

	say := func(text string) []gateway.Effect {
		return r.Handle(ctx, gateway.TextInput{UserID: userID, Text: text})
	}

	r.Handle(ctx, gateway.TextInput{UserID: userID, Text: gateway.LabelCreateProfile})
	say(name)
	say(age)
	say(g)
	say(faculty)
	say(course)
	say(bio)
	effects := r.Handle(ctx, gateway.PhotoUpload{UserID: userID, PhotoID: photoID})
	require.NotEmpty(t, effects)
	_, ok := effects[0].(gateway.RenderPhoto)
	require.True(t, ok, "profile creation did not complete: %T", effects[0])
}

// TestLikeAndMatchScenario is the end-to-end two-user story: Anna likes
// Ben (he gets a like notification, no match), Ben likes back (both get
// match notifications) and both see each other in their matches.
func TestLikeAndMatchScenario(t *testing.T) {
	ctx := context.Background()
	r, likes := setupRouter(t)

	createProfile(t, r, 1, "Anna", "20", "Female", "Computer Science", "2", "bio text for Anna", "p1")
	createProfile(t, r, 2, "Ben", "21", "Male", "Mathematics", "3", "bio text2 for Ben", "p2")

	// Anna likes Ben
	effects := r.Handle(ctx, gateway.ButtonPress{UserID: 1, Token: "like:2"})
	var notes []gateway.Notify
	for _, e := range effects {
		if n, ok := e.(gateway.Notify); ok {
			notes = append(notes, n)
		}
	}
	require.Len(t, notes, 1)
	assert.Equal(t, int64(2), notes[0].UserID)
	assert.Contains(t, notes[0].Text, "liked your profile")

	// Ben likes back: match notifications for both
	effects = r.Handle(ctx, gateway.ButtonPress{UserID: 2, Token: "like:1"})
	notes = nil
	for _, e := range effects {
		if n, ok := e.(gateway.Notify); ok {
			notes = append(notes, n)
		}
	}
	require.Len(t, notes, 2)
	assert.ElementsMatch(t, []int64{1, 2},
		[]int64{notes[0].UserID, notes[1].UserID})

	// mutual likes are symmetric
	matches, err := likes.MutualLikes(ctx, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Ben", matches[0].Name)

	matches, err = likes.MutualLikes(ctx, 2)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Anna", matches[0].Name)

	// matches view through the router
	out := textOf(t, r.Handle(ctx, gateway.TextInput{UserID: 1, Text: gateway.LabelMyMatches}))
	assert.Contains(t, out, "Ben")
}

func TestMalformedTokenIsUserError(t *testing.T) {
	ctx := context.Background()
	r, _ := setupRouter(t)

	for _, token := range []string{"", "like", "like:", "like:abc", "bogus:1", "next:-2", "edit:password"} {
		out := textOf(t, r.Handle(ctx, gateway.ButtonPress{UserID: 1, Token: token}))
		assert.Contains(t, out, "button", "token %q", token)
	}
}

func TestSessionWinsOverMenuText(t *testing.T) {
	ctx := context.Background()
	r, _ := setupRouter(t)

	r.Handle(ctx, gateway.TextInput{UserID: 1, Text: gateway.LabelCreateProfile})

	// menu-looking text is consumed by the open session as the name
	out := textOf(t, r.Handle(ctx, gateway.TextInput{UserID: 1, Text: gateway.LabelMyMatches}))
	assert.Contains(t, out, "old") // advanced to the age step
}

func TestUnexpectedPhoto(t *testing.T) {
	ctx := context.Background()
	r, _ := setupRouter(t)

	out := textOf(t, r.Handle(ctx, gateway.PhotoUpload{UserID: 1, PhotoID: "p1"}))
	assert.Contains(t, out, "wasn't expecting a photo")
}

func TestStartRegistersAndGreets(t *testing.T) {
	ctx := context.Background()
	r, _ := setupRouter(t)

	effects := r.Handle(ctx, gateway.TextInput{UserID: 1, Text: "/start", Username: "anna", FullName: "Anna A"})
	rt := effects[0].(gateway.RenderText)
	assert.True(t, strings.Contains(rt.Text, "dating service"))
	require.NotNil(t, rt.Keyboard)

	// global stats count the registered user
	out := textOf(t, r.Handle(ctx, gateway.TextInput{UserID: 1, Text: "/stats"}))
	assert.Contains(t, out, "Users: 1")
}

func TestEditButtonOpensEditFlow(t *testing.T) {
	ctx := context.Background()
	r, _ := setupRouter(t)

	createProfile(t, r, 1, "Anna", "20", "Female", "Computer Science", "2", "bio text for Anna", "p1")

	out := textOf(t, r.Handle(ctx, gateway.ButtonPress{UserID: 1, Token: "edit:bio"}))
	assert.Contains(t, out, "about yourself")

	out = textOf(t, r.Handle(ctx, gateway.TextInput{UserID: 1, Text: "a brand new bio text"}))
	assert.Contains(t, out, "Bio updated")

	out = textOf(t, r.Handle(ctx, gateway.TextInput{UserID: 1, Text: gateway.LabelMyProfile}))
	assert.Contains(t, out, "a brand new bio text")
}
