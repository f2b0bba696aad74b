// Package bot routes inbound intents to the conversation state machine and
// the services, and collects their rendering effects. An open conversation
// session wins over everything except starting a new creation, which
// overwrites the session by contract.
package bot

import (
	"context"
	"strings"

	"github.com/ksolovey/unimatch/internal/app"
	"github.com/ksolovey/unimatch/internal/conversation"
	"github.com/ksolovey/unimatch/internal/gateway"
	"github.com/ksolovey/unimatch/internal/service/discovery"
	"github.com/ksolovey/unimatch/internal/service/match"
	"github.com/ksolovey/unimatch/internal/service/moderation"
	"github.com/ksolovey/unimatch/internal/service/profile"
	"github.com/ksolovey/unimatch/internal/session"
)

// Router dispatches one intent to exactly one handler.
type Router struct {
	appCtx *app.AppContext

	conv       *conversation.Manager
	discovery  *discovery.Service
	moderation *moderation.Service
	matches    *match.Service
	profiles   *profile.Service
}

// New wires the router. threshold is the moderation complaint threshold,
// preview the matches-listing length.
func New(appCtx *app.AppContext, sessions *session.Store, threshold, preview int) *Router {
	return &Router{
		appCtx:     appCtx,
		conv:       conversation.NewManager(appCtx, sessions),
		discovery:  discovery.NewService(appCtx),
		moderation: moderation.NewService(appCtx, threshold),
		matches:    match.NewService(appCtx, preview),
		profiles:   profile.NewService(appCtx),
	}
}

// Handle processes one inbound intent and returns the rendering effects.
// Handlers degrade their own failures to user messages; Handle never
// returns an error.
func (r *Router) Handle(ctx context.Context, intent gateway.Intent) []gateway.Effect {
	switch in := intent.(type) {
	case gateway.TextInput:
		r.appCtx.Logger.Info("text received", "user", in.UserID, "text", in.Text)
		return r.handleText(ctx, in)

	case gateway.ButtonPress:
		r.appCtx.Logger.Info("button pressed", "user", in.UserID, "token", in.Token)
		return r.handleButton(ctx, in)

	case gateway.PhotoUpload:
		r.appCtx.Logger.Info("photo received", "user", in.UserID)
		if r.conv.HasSession(in.UserID) {
			return r.conv.HandlePhoto(ctx, in.UserID, in.PhotoID)
		}
		return []gateway.Effect{gateway.RenderText{
			UserID: in.UserID,
			Text:   "I wasn't expecting a photo right now.",
		}}

	default:
		return nil
	}
}

func (r *Router) handleText(ctx context.Context, in gateway.TextInput) []gateway.Effect {
	text := strings.TrimSpace(in.Text)

	// Starting over is always allowed; it replaces any open session.
	if text == gateway.LabelCreateProfile {
		return r.conv.BeginCreate(in.UserID)
	}

	if r.conv.HasSession(in.UserID) {
		return r.conv.HandleText(ctx, in.UserID, in.Text)
	}

	switch text {
	case "/start":
		return r.profiles.Register(ctx, in.UserID, in.Username, in.FullName)
	case "/help":
		return r.profiles.Help(in.UserID)
	case "/stats":
		return r.matches.GlobalStats(ctx, in.UserID)

	case gateway.LabelFindProfiles:
		return r.searchMenu(in.UserID)
	case gateway.LabelWomenOnly, gateway.LabelMenOnly, gateway.LabelAllProfiles:
		return r.discovery.StartSearch(ctx, in.UserID, discovery.FilterForLabel(text))

	case gateway.LabelMyProfile:
		return r.profiles.Show(ctx, in.UserID)
	case gateway.LabelDeleteProfile:
		return r.profiles.Delete(ctx, in.UserID)
	case gateway.LabelDisableProfile:
		return r.profiles.SetActive(ctx, in.UserID, false)
	case gateway.LabelEnableProfile:
		return r.profiles.SetActive(ctx, in.UserID, true)

	case gateway.LabelMyMatches:
		return r.matches.MyMatches(ctx, in.UserID)
	case gateway.LabelMyStats:
		return r.matches.MyStats(ctx, in.UserID)

	default:
		return []gateway.Effect{gateway.RenderText{
			UserID:   in.UserID,
			Text:     "I don't understand that. Use the menu or /help.",
			Keyboard: gateway.MainMenu(),
		}}
	}
}

// searchMenu shows the filter choices; the profile precondition is
// enforced by StartSearch once a filter is picked.
func (r *Router) searchMenu(userID int64) []gateway.Effect {
	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     "Pick your search filter:",
		Keyboard: gateway.SearchKeyboard(),
	}}
}

func (r *Router) handleButton(ctx context.Context, in gateway.ButtonPress) []gateway.Effect {
	token, err := gateway.ParseToken(in.Token)
	if err != nil {
		r.appCtx.Logger.Warn("malformed button token", "user", in.UserID, "token", in.Token, "err", err)
		return []gateway.Effect{gateway.RenderText{
			UserID: in.UserID,
			Text:   "That button doesn't work anymore. Use the menu.",
		}}
	}

	switch token.Verb {
	case gateway.VerbLike:
		return r.discovery.Like(ctx, in.UserID, token.ID)
	case gateway.VerbNext:
		return r.discovery.Next(ctx, in.UserID, token.Index)
	case gateway.VerbComplain:
		return r.moderation.Complain(ctx, in.UserID, token.ID, "")
	case gateway.VerbMatch:
		return r.matches.ShowMatch(ctx, in.UserID, token.ID)
	case gateway.VerbEdit:
		return r.conv.BeginEdit(ctx, in.UserID, session.Step(token.Field))
	default:
		return nil
	}
}
