// Package match serves the matches view and the like/match statistics.
package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/ksolovey/unimatch/internal/app"
	svcErr "github.com/ksolovey/unimatch/internal/errors"
	"github.com/ksolovey/unimatch/internal/gateway"
	"github.com/ksolovey/unimatch/internal/repository"
	"github.com/ksolovey/unimatch/internal/utils/card"
)

// Service implements the matches listing and statistics queries.
type Service struct {
	appCtx   *app.AppContext
	profiles *repository.ProfileRepository
	likes    *repository.LikeRepository

	// how many matches the listing shows before the "and N more" note
	preview int
}

// NewService creates the match service with dependencies from AppContext.
func NewService(appCtx *app.AppContext, preview int) *Service {
	if preview <= 0 {
		preview = 5
	}
	return &Service{
		appCtx:   appCtx,
		profiles: repository.NewProfileRepository(appCtx.DB),
		likes:    repository.NewLikeRepository(appCtx.DB),
		preview:  preview,
	}
}

// MyMatches lists the user's mutual likes, first few entries only.
func (s *Service) MyMatches(ctx context.Context, userID int64) []gateway.Effect {
	matches, err := s.likes.MutualLikes(ctx, userID)
	if err != nil {
		return s.storageFailure(userID, "list matches", err)
	}

	if len(matches) == 0 {
		return []gateway.Effect{gateway.RenderText{
			UserID:   userID,
			Text:     "No mutual likes yet. Keep browsing!",
			Keyboard: gateway.MainMenu(),
		}}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d mutual likes!\n\n", len(matches))
	shown := matches
	if len(shown) > s.preview {
		shown = shown[:s.preview]
	}
	for i := range shown {
		fmt.Fprintf(&b, "%d. %s\n\n", i+1, card.Short(&shown[i]))
	}
	if len(matches) > s.preview {
		fmt.Fprintf(&b, "...and %d more!", len(matches)-s.preview)
	}

	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     strings.TrimSpace(b.String()),
		Keyboard: gateway.MainMenu(),
	}}
}

// ShowMatch renders a counterpart's full card from a match notification.
func (s *Service) ShowMatch(ctx context.Context, userID, matchUserID int64) []gateway.Effect {
	p, err := s.profiles.GetProfile(ctx, matchUserID)
	if err != nil {
		return s.storageFailure(userID, "show match", err)
	}
	if p == nil {
		return []gateway.Effect{gateway.RenderText{
			UserID: userID,
			Text:   "This profile no longer exists.",
		}}
	}

	return []gateway.Effect{gateway.RenderPhoto{
		UserID:  userID,
		PhotoID: p.PhotoID,
		Caption: card.Format("Mutual like!", p),
	}}
}

// MyStats shows the user's like/match counters. The received-likes count
// is cache-first with a DB fallback that repopulates the cache.
func (s *Service) MyStats(ctx context.Context, userID int64) []gateway.Effect {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return s.storageFailure(userID, "stats", err)
	}
	if profile == nil {
		return []gateway.Effect{gateway.RenderText{
			UserID: userID,
			Text:   "Create your profile first!",
		}}
	}

	given, err := s.likes.CountGiven(ctx, userID)
	if err != nil {
		return s.storageFailure(userID, "stats", err)
	}

	received, err := s.countReceived(ctx, userID)
	if err != nil {
		return s.storageFailure(userID, "stats", err)
	}

	matches, err := s.likes.MutualLikes(ctx, userID)
	if err != nil {
		return s.storageFailure(userID, "stats", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Stats for %s:\n\n", profile.Name)
	fmt.Fprintf(&b, "Likes given: %d\n", given)
	fmt.Fprintf(&b, "Likes received: %d\n", received)
	fmt.Fprintf(&b, "Mutual likes: %d\n\n", len(matches))
	if received > 0 {
		fmt.Fprintf(&b, "Reciprocity: %.1f%%", float64(len(matches))/float64(received)*100)
	} else {
		b.WriteString("Reciprocity: 0%")
	}

	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     b.String(),
		Keyboard: gateway.MainMenu(),
	}}
}

// GlobalStats shows service-wide totals.
func (s *Service) GlobalStats(ctx context.Context, userID int64) []gateway.Effect {
	users, err := s.profiles.CountUsers(ctx)
	if err != nil {
		return s.storageFailure(userID, "global stats", err)
	}
	total, err := s.profiles.CountProfiles(ctx)
	if err != nil {
		return s.storageFailure(userID, "global stats", err)
	}
	active, err := s.profiles.CountActiveProfiles(ctx)
	if err != nil {
		return s.storageFailure(userID, "global stats", err)
	}

	return []gateway.Effect{gateway.RenderText{
		UserID: userID,
		Text: fmt.Sprintf(
			"Service stats:\n\nUsers: %d\nProfiles: %d\nActive profiles: %d",
			users, total, active,
		),
	}}
}

// countReceived is cache-first: hit refreshes the TTL, miss falls back to
// the DB and repopulates the counter.
func (s *Service) countReceived(ctx context.Context, userID int64) (int64, error) {
	key := s.appCtx.RedisCache.KeyForLikesReceived(userID)

	if n, ok, err := s.appCtx.RedisCache.GetCounter(ctx, key); err == nil && ok {
		return n, nil
	}

	count, err := s.likes.CountReceived(ctx, userID)
	if err != nil {
		return 0, err
	}
	_ = s.appCtx.RedisCache.SetCounter(ctx, key, count)
	return count, nil
}

func (s *Service) storageFailure(userID int64, op string, err error) []gateway.Effect {
	s.appCtx.Logger.Error("match "+op+" failed", "user", userID, "err", svcErr.Map(err))
	return []gateway.Effect{gateway.RenderText{
		UserID: userID,
		Text:   "Something went wrong, please try again later.",
	}}
}
