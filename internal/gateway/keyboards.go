package gateway

import "strconv"

// Menu labels. The router matches TextInput against these, so the adapter
// must render reply buttons verbatim.
const (
	LabelCreateProfile  = "Create profile"
	LabelFindProfiles   = "Find profiles"
	LabelMyProfile      = "My profile"
	LabelMyMatches      = "My matches"
	LabelMyStats        = "My stats"
	LabelDeleteProfile  = "Delete profile"
	LabelDisableProfile = "Hide profile"
	LabelEnableProfile  = "Show profile"
	LabelCancel         = "Cancel"
	LabelMale           = "Male"
	LabelFemale         = "Female"
	LabelWomenOnly      = "Women only"
	LabelMenOnly        = "Men only"
	LabelAllProfiles    = "All profiles"
)

func textBtn(label string) Button { return Button{Label: label} }

// MainMenu is the idle-state reply keyboard.
func MainMenu() *Keyboard {
	return &Keyboard{Rows: [][]Button{
		{textBtn(LabelCreateProfile), textBtn(LabelFindProfiles)},
		{textBtn(LabelMyProfile), textBtn(LabelMyMatches)},
		{textBtn(LabelMyStats)},
		{textBtn(LabelDisableProfile), textBtn(LabelEnableProfile)},
		{textBtn(LabelDeleteProfile)},
	}}
}

// GenderKeyboard offers the two canonical choices plus cancel.
func GenderKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]Button{
		{textBtn(LabelMale), textBtn(LabelFemale)},
		{textBtn(LabelCancel)},
	}}
}

// CancelKeyboard is shown during conversation steps.
func CancelKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]Button{{textBtn(LabelCancel)}}}
}

// SearchKeyboard offers the discovery gender filters.
func SearchKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]Button{
		{textBtn(LabelWomenOnly), textBtn(LabelMenOnly)},
		{textBtn(LabelAllProfiles)},
	}}
}

// CandidateKeyboard decorates a discovery card with like/next/complain.
// nextIndex points at the candidate to show after this one.
func CandidateKeyboard(profileUserID int64, nextIndex int) *Keyboard {
	return &Keyboard{Rows: [][]Button{
		{
			{Label: "Like", Token: MakeToken(VerbLike, strconv.FormatInt(profileUserID, 10))},
			{Label: "Next", Token: MakeToken(VerbNext, strconv.Itoa(nextIndex))},
		},
		{
			{Label: "Report", Token: MakeToken(VerbComplain, strconv.FormatInt(profileUserID, 10))},
		},
	}}
}

// EditProfileKeyboard decorates the owner's profile card with per-field
// edit buttons.
func EditProfileKeyboard() *Keyboard {
	return &Keyboard{Rows: [][]Button{
		{
			{Label: "Name", Token: MakeToken(VerbEdit, "name")},
			{Label: "Age", Token: MakeToken(VerbEdit, "age")},
			{Label: "Gender", Token: MakeToken(VerbEdit, "gender")},
		},
		{
			{Label: "Faculty", Token: MakeToken(VerbEdit, "faculty")},
			{Label: "Course", Token: MakeToken(VerbEdit, "course")},
		},
		{
			{Label: "Bio", Token: MakeToken(VerbEdit, "bio")},
			{Label: "Photo", Token: MakeToken(VerbEdit, "photo")},
		},
	}}
}

// MatchKeyboard decorates a match notification with a link to the
// counterpart's card.
func MatchKeyboard(matchUserID int64) *Keyboard {
	return &Keyboard{Rows: [][]Button{
		{{Label: "View profile", Token: MakeToken(VerbMatch, strconv.FormatInt(matchUserID, 10))}},
	}}
}
