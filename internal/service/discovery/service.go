// Package discovery implements candidate browsing and the like/match
// engine.
//
// Paging is an index cursor over a freshly requeried candidate list: every
// "next" runs the filtered query again, so profiles created or hidden
// mid-session shift the indices and a candidate may be skipped or repeated.
// That is accepted behavior, carried over from the original system.
package discovery

import (
	"context"
	"sync"

	"github.com/ksolovey/unimatch/internal/app"
	svcErr "github.com/ksolovey/unimatch/internal/errors"
	"github.com/ksolovey/unimatch/internal/gateway"
	"github.com/ksolovey/unimatch/internal/repository"
	"github.com/ksolovey/unimatch/internal/utils/card"
	"github.com/ksolovey/unimatch/internal/utils/gender"
)

// Service implements discovery browsing, likes and match detection.
type Service struct {
	appCtx   *app.AppContext
	profiles *repository.ProfileRepository
	likes    *repository.LikeRepository

	// Last gender filter per browsing user, so "next" requeries the same
	// filtered set. Ephemeral, like conversation sessions.
	mu      sync.RWMutex
	filters map[int64]string
}

// NewService creates the discovery service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: repository.NewProfileRepository(appCtx.DB),
		likes:    repository.NewLikeRepository(appCtx.DB),
		filters:  make(map[int64]string),
	}
}

// FilterForLabel maps a search menu label to a canonical gender filter.
// Empty string means "all profiles".
func FilterForLabel(label string) string {
	switch label {
	case gateway.LabelWomenOnly:
		return gender.Female
	case gateway.LabelMenOnly:
		return gender.Male
	default:
		return ""
	}
}

// StartSearch opens a browsing session with the given gender filter and
// shows the first candidate.
//
// Behavior:
//   - Requires the requester to have a profile; without one the user is
//     pointed at the creation flow.
//   - An empty candidate set is terminal, not an error.
func (s *Service) StartSearch(ctx context.Context, userID int64, genderFilter string) []gateway.Effect {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return s.storageFailure(userID, "start search", err)
	}
	if p == nil {
		return []gateway.Effect{gateway.RenderText{
			UserID: userID,
			Text:   "Create your own profile first to browse others.",
		}}
	}

	s.mu.Lock()
	s.filters[userID] = genderFilter
	s.mu.Unlock()

	return s.showCandidate(ctx, userID, 0)
}

// Next advances the index cursor against a requeried candidate list.
func (s *Service) Next(ctx context.Context, userID int64, index int) []gateway.Effect {
	return s.showCandidate(ctx, userID, index)
}

func (s *Service) showCandidate(ctx context.Context, userID int64, index int) []gateway.Effect {
	s.mu.RLock()
	filter := s.filters[userID]
	s.mu.RUnlock()

	candidates, err := s.profiles.ListActive(ctx, userID, filter)
	if err != nil {
		return s.storageFailure(userID, "list candidates", err)
	}

	if len(candidates) == 0 {
		return []gateway.Effect{gateway.RenderText{
			UserID: userID,
			Text:   "No matching profiles right now. Check back later!",
		}}
	}
	if index >= len(candidates) {
		return []gateway.Effect{gateway.RenderText{
			UserID: userID,
			Text:   "No more profiles. Check back later!",
		}}
	}

	candidate := candidates[index]
	return []gateway.Effect{gateway.RenderPhoto{
		UserID:   userID,
		PhotoID:  candidate.PhotoID,
		Caption:  card.Format("Found a profile:", &candidate),
		Keyboard: gateway.CandidateKeyboard(candidate.UserID, index+1),
	}}
}

// Like records a like edge and resolves the match transition.
//
// Behavior:
//   - Self-likes are rejected and store nothing.
//   - The edge is appended (duplicates allowed), then the reverse edge is
//     checked. A match fires only on the insert that completes the reverse
//     pair: if the forward edge already existed before this insert, the
//     pair had already matched and no notification is re-sent.
//   - A one-way like notifies the recipient with the actor's card.
func (s *Service) Like(ctx context.Context, fromUserID, toUserID int64) []gateway.Effect {
	if fromUserID == toUserID {
		s.appCtx.Logger.Debug("self-like rejected", "user", fromUserID)
		return []gateway.Effect{gateway.RenderText{
			UserID: fromUserID,
			Text:   "You can't like your own profile!",
		}}
	}

	alreadyLiked, err := s.likes.HasLike(ctx, fromUserID, toUserID)
	if err != nil {
		return s.storageFailure(fromUserID, "like", err)
	}

	if err := s.likes.AddLike(ctx, fromUserID, toUserID); err != nil {
		return s.storageFailure(fromUserID, "like", err)
	}
	s.appCtx.RedisCache.BumpCounter(ctx, s.appCtx.RedisCache.KeyForLikesReceived(toUserID))

	reverse, err := s.likes.HasLike(ctx, toUserID, fromUserID)
	if err != nil {
		return s.storageFailure(fromUserID, "like", err)
	}

	switch {
	case reverse && !alreadyLiked:
		// This insert completed the pair: the one and only match event.
		return s.matchEffects(ctx, fromUserID, toUserID)

	case reverse && alreadyLiked:
		// Duplicate edge on an existing match; confirm, never re-notify.
		return []gateway.Effect{gateway.RenderText{
			UserID:   fromUserID,
			Text:     "You already matched with this profile!",
			Keyboard: gateway.MatchKeyboard(toUserID),
		}}

	default:
		return s.likeEffects(ctx, fromUserID, toUserID)
	}
}

// likeEffects confirms the like to the actor and notifies the recipient
// with the actor's card.
func (s *Service) likeEffects(ctx context.Context, fromUserID, toUserID int64) []gateway.Effect {
	effects := []gateway.Effect{gateway.RenderText{
		UserID: fromUserID,
		Text:   "Your like has been sent!",
	}}

	fromProfile, err := s.profiles.GetProfile(ctx, fromUserID)
	if err != nil || fromProfile == nil {
		// Nothing to show the recipient; the like itself is stored.
		return effects
	}

	effects = append(effects, gateway.Notify{
		UserID:  toUserID,
		PhotoID: fromProfile.PhotoID,
		Text:    card.Format("Someone liked your profile!", fromProfile),
	})
	return effects
}

// matchEffects notifies both parties of a fresh mutual like.
func (s *Service) matchEffects(ctx context.Context, fromUserID, toUserID int64) []gateway.Effect {
	s.appCtx.Logger.Info("match detected", "user_a", fromUserID, "user_b", toUserID)

	effects := []gateway.Effect{gateway.RenderText{
		UserID:   fromUserID,
		Text:     "It's a match!",
		Keyboard: gateway.MatchKeyboard(toUserID),
	}}

	fromProfile, errFrom := s.profiles.GetProfile(ctx, fromUserID)
	toProfile, errTo := s.profiles.GetProfile(ctx, toUserID)

	if errTo == nil && toProfile != nil {
		effects = append(effects, gateway.Notify{
			UserID:   fromUserID,
			PhotoID:  toProfile.PhotoID,
			Text:     card.Format("You have a new match!", toProfile),
			Keyboard: gateway.MatchKeyboard(toUserID),
		})
	}
	if errFrom == nil && fromProfile != nil {
		effects = append(effects, gateway.Notify{
			UserID:   toUserID,
			PhotoID:  fromProfile.PhotoID,
			Text:     card.Format("You have a new match!", fromProfile),
			Keyboard: gateway.MatchKeyboard(fromUserID),
		})
	}
	return effects
}

func (s *Service) storageFailure(userID int64, op string, err error) []gateway.Effect {
	s.appCtx.Logger.Error("discovery "+op+" failed", "user", userID, "err", svcErr.Map(err))
	return []gateway.Effect{gateway.RenderText{
		UserID: userID,
		Text:   "Something went wrong, please try again later.",
	}}
}
