// Package moderation accumulates complaints and blocks a profile once the
// configured threshold is reached.
package moderation

import (
	"context"
	"fmt"

	"github.com/ksolovey/unimatch/internal/app"
	svcErr "github.com/ksolovey/unimatch/internal/errors"
	"github.com/ksolovey/unimatch/internal/gateway"
	"github.com/ksolovey/unimatch/internal/repository"
)

// Service implements the complaint gate.
type Service struct {
	appCtx     *app.AppContext
	profiles   *repository.ProfileRepository
	complaints *repository.ComplaintRepository
	threshold  int
}

// NewService creates the moderation service. threshold is the complaint
// count at which a profile is blocked.
func NewService(appCtx *app.AppContext, threshold int) *Service {
	return &Service{
		appCtx:     appCtx,
		profiles:   repository.NewProfileRepository(appCtx.DB),
		complaints: repository.NewComplaintRepository(appCtx.DB),
		threshold:  threshold,
	}
}

// Complain files a complaint and applies the threshold.
//
// Behavior:
//   - Self-complaints are rejected and store nothing.
//   - The count is cache-first: the bump keeps a live counter in step with
//     the table and a miss falls back to the DB and repopulates it.
//   - At or past the threshold the target is blocked: blocked is set and
//     active cleared in one write, so the profile vanishes from discovery
//     immediately. Blocking an already-blocked user is a no-op, so
//     complaints past the threshold never error.
func (s *Service) Complain(ctx context.Context, fromUserID, toUserID int64, reason string) []gateway.Effect {
	if fromUserID == toUserID {
		s.appCtx.Logger.Debug("self-complaint rejected", "user", fromUserID)
		return []gateway.Effect{gateway.RenderText{
			UserID: fromUserID,
			Text:   "You can't report yourself!",
		}}
	}

	if err := s.complaints.AddComplaint(ctx, fromUserID, toUserID, reason); err != nil {
		return s.storageFailure(fromUserID, err)
	}
	s.appCtx.RedisCache.BumpCounter(ctx, s.appCtx.RedisCache.KeyForComplaintCount(toUserID))

	count, err := s.countAgainst(ctx, toUserID)
	if err != nil {
		return s.storageFailure(fromUserID, err)
	}

	if count >= int64(s.threshold) {
		if err := s.profiles.Block(ctx, toUserID); err != nil {
			return s.storageFailure(fromUserID, err)
		}
		s.appCtx.Logger.Info("user blocked by complaints", "user", toUserID, "complaints", count)
		return []gateway.Effect{gateway.RenderText{
			UserID: fromUserID,
			Text:   "This user has been blocked after multiple reports.",
		}}
	}

	return []gateway.Effect{gateway.RenderText{
		UserID: fromUserID,
		Text:   fmt.Sprintf("Report filed. Reports against this user: %d", count),
	}}
}

// countAgainst is cache-first: hit refreshes the TTL, miss falls back to
// the DB and repopulates the counter.
func (s *Service) countAgainst(ctx context.Context, userID int64) (int64, error) {
	key := s.appCtx.RedisCache.KeyForComplaintCount(userID)

	if n, ok, err := s.appCtx.RedisCache.GetCounter(ctx, key); err == nil && ok {
		return n, nil
	}

	count, err := s.complaints.CountAgainst(ctx, userID)
	if err != nil {
		return 0, err
	}
	_ = s.appCtx.RedisCache.SetCounter(ctx, key, count)
	return count, nil
}

func (s *Service) storageFailure(userID int64, err error) []gateway.Effect {
	s.appCtx.Logger.Error("moderation complaint failed", "user", userID, "err", svcErr.Map(err))
	return []gateway.Effect{gateway.RenderText{
		UserID: userID,
		Text:   "Something went wrong, please try again later.",
	}}
}
