// Package conversation implements the multi-step profile dialogue: the
// linear creation chain and the single-field edit flow. Each step has
// exactly one handler; the session's Mode decides only the commit path, so
// the same step can never fire two handlers.
package conversation

import (
	"context"
	"strconv"
	"strings"

	"github.com/ksolovey/unimatch/internal/app"
	"github.com/ksolovey/unimatch/internal/db"
	svcErr "github.com/ksolovey/unimatch/internal/errors"
	"github.com/ksolovey/unimatch/internal/gateway"
	"github.com/ksolovey/unimatch/internal/repository"
	"github.com/ksolovey/unimatch/internal/session"
	"github.com/ksolovey/unimatch/internal/utils/card"
	"github.com/ksolovey/unimatch/internal/utils/gender"
)

// input is the per-step payload extracted from an intent. Photo steps get
// PhotoID, every other step consumes Text.
type input struct {
	Text    string
	PhotoID string
}

// stepSpec holds everything one conversation state needs: the prompt shown
// on entry, its keyboard, the validating apply function and the successor
// step ("" means the chain is complete).
type stepSpec struct {
	prompt   string
	keyboard func() *gateway.Keyboard
	apply    func(d *session.Draft, in input) error
	next     session.Step
}

var steps = map[session.Step]stepSpec{
	session.StepName: {
		prompt:   "Let's build your profile. What's your name?",
		keyboard: gateway.CancelKeyboard,
		apply: func(d *session.Draft, in input) error {
			name := strings.TrimSpace(in.Text)
			if len([]rune(name)) < 2 {
				return svcErr.Validationf("name must be at least 2 characters")
			}
			d.Name = name
			return nil
		},
		next: session.StepAge,
	},
	session.StepAge: {
		prompt:   "How old are you?",
		keyboard: gateway.CancelKeyboard,
		apply: func(d *session.Draft, in input) error {
			age, err := strconv.Atoi(strings.TrimSpace(in.Text))
			if err != nil || age < 16 || age > 99 {
				return svcErr.Validationf("please enter a valid age (a number from 16 to 99)")
			}
			d.Age = age
			return nil
		},
		next: session.StepGender,
	},
	session.StepGender: {
		prompt:   "What's your gender?",
		keyboard: gateway.GenderKeyboard,
		apply: func(d *session.Draft, in input) error {
			g, ok := gender.Normalize(in.Text)
			if !ok {
				return svcErr.Validationf("please pick a gender from the keyboard")
			}
			d.Gender = g
			return nil
		},
		next: session.StepFaculty,
	},
	session.StepFaculty: {
		prompt:   "Which faculty are you in?",
		keyboard: gateway.CancelKeyboard,
		apply: func(d *session.Draft, in input) error {
			faculty := strings.TrimSpace(in.Text)
			if len([]rune(faculty)) < 3 {
				return svcErr.Validationf("faculty name must be at least 3 characters")
			}
			d.Faculty = faculty
			return nil
		},
		next: session.StepCourse,
	},
	session.StepCourse: {
		prompt:   "Which year are you in? (a number from 1 to 7)",
		keyboard: gateway.CancelKeyboard,
		apply: func(d *session.Draft, in input) error {
			course, err := strconv.Atoi(strings.TrimSpace(in.Text))
			if err != nil || course < 1 || course > 7 {
				return svcErr.Validationf("please enter a valid year (a number from 1 to 7)")
			}
			d.Course = course
			return nil
		},
		next: session.StepBio,
	},
	session.StepBio: {
		prompt:   "Tell us a bit about yourself (at least 10 characters)",
		keyboard: gateway.CancelKeyboard,
		apply: func(d *session.Draft, in input) error {
			bio := strings.TrimSpace(in.Text)
			if len([]rune(bio)) < 10 {
				return svcErr.Validationf("your bio must be at least 10 characters")
			}
			d.Bio = bio
			return nil
		},
		next: session.StepPhoto,
	},
	session.StepPhoto: {
		prompt:   "Send your photo",
		keyboard: gateway.CancelKeyboard,
		apply: func(d *session.Draft, in input) error {
			if in.PhotoID == "" {
				return svcErr.Validationf("please send a photo")
			}
			d.PhotoID = in.PhotoID
			return nil
		},
		next: "",
	},
}

// Manager drives conversation sessions against the session store and
// commits completed dialogues through the profile repository.
type Manager struct {
	appCtx   *app.AppContext
	sessions *session.Store
	profiles *repository.ProfileRepository
}

// NewManager creates the conversation manager with dependencies from AppContext.
func NewManager(appCtx *app.AppContext, sessions *session.Store) *Manager {
	return &Manager{
		appCtx:   appCtx,
		sessions: sessions,
		profiles: repository.NewProfileRepository(appCtx.DB),
	}
}

// HasSession reports whether the user has an open dialogue; the router
// gives such intents to HandleIntent before anything else.
func (m *Manager) HasSession(userID int64) bool {
	return m.sessions.Get(userID) != nil
}

// BeginCreate opens a creation session at the first step. An existing
// session (create or edit) is overwritten.
func (m *Manager) BeginCreate(userID int64) []gateway.Effect {
	m.sessions.Put(userID, &session.Session{
		Mode: session.ModeCreate,
		Step: session.StepName,
	})
	spec := steps[session.StepName]
	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     spec.prompt,
		Keyboard: spec.keyboard(),
	}}
}

// BeginEdit opens an edit session entering directly at the chosen field's
// step. It requires an existing profile; without one the user is pointed
// at the creation flow instead.
func (m *Manager) BeginEdit(ctx context.Context, userID int64, field session.Step) []gateway.Effect {
	p, err := m.profiles.GetProfile(ctx, userID)
	if err != nil {
		return m.storageFailure(userID, "edit profile", err)
	}
	if p == nil {
		return []gateway.Effect{gateway.RenderText{
			UserID: userID,
			Text:   "You don't have a profile yet. Create one first!",
		}}
	}

	m.sessions.Put(userID, &session.Session{
		Mode:      session.ModeEdit,
		Step:      field,
		EditField: field,
	})
	spec := steps[field]
	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     "Enter a new value. " + spec.prompt,
		Keyboard: spec.keyboard(),
	}}
}

// HandleText feeds a typed message into the open session.
func (m *Manager) HandleText(ctx context.Context, userID int64, text string) []gateway.Effect {
	return m.handle(ctx, userID, input{Text: text})
}

// HandlePhoto feeds a photo upload into the open session.
func (m *Manager) HandlePhoto(ctx context.Context, userID int64, photoID string) []gateway.Effect {
	return m.handle(ctx, userID, input{PhotoID: photoID})
}

func (m *Manager) handle(ctx context.Context, userID int64, in input) []gateway.Effect {
	sess := m.sessions.Get(userID)
	if sess == nil {
		return nil
	}

	// Cancellation wins over field validation in every state.
	if strings.EqualFold(strings.TrimSpace(in.Text), gateway.LabelCancel) {
		m.sessions.Clear(userID)
		return []gateway.Effect{gateway.RenderText{
			UserID:   userID,
			Text:     "Canceled.",
			Keyboard: gateway.MainMenu(),
		}}
	}

	spec := steps[sess.Step]
	if err := spec.apply(&sess.Draft, in); err != nil {
		// Invalid input re-prompts the same step; no progress is lost.
		return []gateway.Effect{gateway.RenderText{
			UserID:   userID,
			Text:     userMessage(err),
			Keyboard: spec.keyboard(),
		}}
	}

	if sess.Mode == session.ModeEdit {
		return m.commitEdit(ctx, userID, sess)
	}

	if spec.next == "" {
		return m.commitCreate(ctx, userID, sess)
	}

	sess.Step = spec.next
	nextSpec := steps[spec.next]
	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     nextSpec.prompt,
		Keyboard: nextSpec.keyboard(),
	}}
}

// commitCreate stores the completed draft as a fresh, visible profile.
func (m *Manager) commitCreate(ctx context.Context, userID int64, sess *session.Session) []gateway.Effect {
	defer m.sessions.Clear(userID)

	profile := &db.Profile{
		UserID:  userID,
		Name:    sess.Draft.Name,
		Age:     sess.Draft.Age,
		Gender:  sess.Draft.Gender,
		Faculty: sess.Draft.Faculty,
		Course:  sess.Draft.Course,
		Bio:     sess.Draft.Bio,
		PhotoID: sess.Draft.PhotoID,
		Active:  true,
		Blocked: false,
	}
	if err := m.profiles.SaveProfile(ctx, profile); err != nil {
		return m.storageFailure(userID, "save profile", err)
	}

	return []gateway.Effect{gateway.RenderPhoto{
		UserID:   userID,
		PhotoID:  profile.PhotoID,
		Caption:  card.Format("Your profile is ready!", profile),
		Keyboard: gateway.MainMenu(),
	}}
}

// commitEdit merges the single edited field into the stored profile and
// replaces the record. If the profile vanished mid-edit the session is
// discarded and the user sees a failure instead of a partial profile.
func (m *Manager) commitEdit(ctx context.Context, userID int64, sess *session.Session) []gateway.Effect {
	defer m.sessions.Clear(userID)

	p, err := m.profiles.GetProfile(ctx, userID)
	if err != nil {
		return m.storageFailure(userID, "edit profile", err)
	}
	if p == nil {
		return []gateway.Effect{gateway.RenderText{
			UserID:   userID,
			Text:     "Your profile no longer exists, so there is nothing to update.",
			Keyboard: gateway.MainMenu(),
		}}
	}

	mergeField(p, sess.EditField, &sess.Draft)

	if err := m.profiles.SaveProfile(ctx, p); err != nil {
		return m.storageFailure(userID, "edit profile", err)
	}

	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     fieldUpdatedMessage(sess.EditField),
		Keyboard: gateway.MainMenu(),
	}}
}

func (m *Manager) storageFailure(userID int64, op string, err error) []gateway.Effect {
	m.appCtx.Logger.Error("conversation "+op+" failed", "user", userID, "err", svcErr.Map(err))
	return []gateway.Effect{gateway.RenderText{
		UserID:   userID,
		Text:     "Something went wrong, please try again later.",
		Keyboard: gateway.MainMenu(),
	}}
}

// mergeField copies the one validated draft field onto the stored record.
func mergeField(p *db.Profile, field session.Step, d *session.Draft) {
	switch field {
	case session.StepName:
		p.Name = d.Name
	case session.StepAge:
		p.Age = d.Age
	case session.StepGender:
		p.Gender = d.Gender
	case session.StepFaculty:
		p.Faculty = d.Faculty
	case session.StepCourse:
		p.Course = d.Course
	case session.StepBio:
		p.Bio = d.Bio
	case session.StepPhoto:
		p.PhotoID = d.PhotoID
	}
}

func fieldUpdatedMessage(field session.Step) string {
	switch field {
	case session.StepName:
		return "Name updated!"
	case session.StepAge:
		return "Age updated!"
	case session.StepGender:
		return "Gender updated!"
	case session.StepFaculty:
		return "Faculty updated!"
	case session.StepCourse:
		return "Course updated!"
	case session.StepBio:
		return "Bio updated!"
	case session.StepPhoto:
		return "Photo updated!"
	default:
		return "Profile updated!"
	}
}

// userMessage strips the taxonomy prefix off a validation error so the
// re-prompt reads naturally.
func userMessage(err error) string {
	msg := err.Error()
	if cut, ok := strings.CutPrefix(msg, svcErr.ErrValidation.Error()+": "); ok {
		return cut
	}
	return msg
}
