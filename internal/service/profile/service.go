// Package profile serves the owner-facing profile actions that need no
// conversation: registration, viewing, deletion and visibility toggles.
package profile

import (
	"context"

	"github.com/ksolovey/unimatch/internal/app"
	svcErr "github.com/ksolovey/unimatch/internal/errors"
	"github.com/ksolovey/unimatch/internal/gateway"
	"github.com/ksolovey/unimatch/internal/repository"
	"github.com/ksolovey/unimatch/internal/utils/card"
)

const greeting = "Hi! This is the dating service for our university.\n" +
	"Here you can meet other students.\n\n" +
	"What you can do:\n" +
	"- build a profile with a photo\n" +
	"- browse profiles by gender\n" +
	"- like people and get matched\n" +
	"- hide or show your profile any time\n\n" +
	"Pick an action:"

const helpText = "How it works:\n\n" +
	"Create profile - build your card step by step\n" +
	"Find profiles - browse other students\n" +
	"My profile - view and edit your card\n" +
	"My matches - see your mutual likes\n" +
	"Delete profile - remove your card\n" +
	"Hide profile / Show profile - visibility toggles\n\n" +
	"Tips: add a good photo, write something interesting about yourself, " +
	"and be polite."

// Service implements the owner-facing profile operations.
type Service struct {
	appCtx   *app.AppContext
	profiles *repository.ProfileRepository
}

// NewService creates the profile service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: repository.NewProfileRepository(appCtx.DB),
	}
}

// Register handles first contact: stores the platform identity
// (first write wins) and greets with the main menu.
func (s *Service) Register(ctx context.Context, userID int64, username, fullName string) []gateway.Effect {
	if err := s.profiles.UpsertUser(ctx, userID, username, fullName); err != nil {
		return s.storageFailure(userID, "register", err)
	}
	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     greeting,
		Keyboard: gateway.MainMenu(),
	}}
}

// Help renders the command overview.
func (s *Service) Help(userID int64) []gateway.Effect {
	return []gateway.Effect{gateway.RenderText{UserID: userID, Text: helpText}}
}

// Show renders the owner's card with the per-field edit keyboard.
func (s *Service) Show(ctx context.Context, userID int64) []gateway.Effect {
	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return s.storageFailure(userID, "show profile", err)
	}
	if p == nil {
		return []gateway.Effect{gateway.RenderText{
			UserID: userID,
			Text:   "You don't have a profile yet. Create one!",
		}}
	}

	return []gateway.Effect{gateway.RenderPhoto{
		UserID:   userID,
		PhotoID:  p.PhotoID,
		Caption:  card.Format("Your profile:", p),
		Keyboard: gateway.EditProfileKeyboard(),
	}}
}

// Delete removes the owner's card. The user record stays.
func (s *Service) Delete(ctx context.Context, userID int64) []gateway.Effect {
	if err := s.profiles.DeleteProfile(ctx, userID); err != nil {
		return s.storageFailure(userID, "delete profile", err)
	}
	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     "Your profile has been deleted. You can create a new one any time.",
		Keyboard: gateway.MainMenu(),
	}}
}

// SetActive toggles the owner's discovery visibility.
func (s *Service) SetActive(ctx context.Context, userID int64, active bool) []gateway.Effect {
	if err := s.profiles.SetActive(ctx, userID, active); err != nil {
		return s.storageFailure(userID, "toggle profile", err)
	}

	text := "Your profile is hidden and won't be shown to others."
	if active {
		text = "Your profile is visible to others again!"
	}
	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     text,
		Keyboard: gateway.MainMenu(),
	}}
}

func (s *Service) storageFailure(userID int64, op string, err error) []gateway.Effect {
	s.appCtx.Logger.Error("profile "+op+" failed", "user", userID, "err", svcErr.Map(err))
	return []gateway.Effect{gateway.RenderText{
		UserID: userID,
		Text:   "Something went wrong, please try again later.",
	}}
}
