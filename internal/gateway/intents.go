// Package gateway defines the transport boundary of the core: typed inbound
// intents, outbound rendering effects and the button token grammar. A
// platform adapter (Telegram, console, test harness) sits on the other side
// and is deliberately unaware of any business rules.
package gateway

// Intent is an inbound user event, tagged with the acting user's
// platform-assigned id.
type Intent interface {
	Actor() int64
}

// TextInput is a typed message. Username and FullName carry the platform
// identity so first contact can register the user.
type TextInput struct {
	UserID   int64
	Text     string
	Username string
	FullName string
}

func (t TextInput) Actor() int64 { return t.UserID }

// ButtonPress is an inline button click carrying an opaque verb:arg token.
type ButtonPress struct {
	UserID int64
	Token  string
}

func (b ButtonPress) Actor() int64 { return b.UserID }

// PhotoUpload is a photo message; PhotoID is the platform's file reference.
type PhotoUpload struct {
	UserID  int64
	PhotoID string
}

func (p PhotoUpload) Actor() int64 { return p.UserID }

// Effect is an outbound rendering instruction addressed to a user.
type Effect interface {
	Target() int64
}

// Button is one cell of a keyboard. A button with an empty Token renders as
// a plain reply button whose label comes back as a TextInput; otherwise it
// is an inline button producing a ButtonPress with the token.
type Button struct {
	Label string
	Token string
}

// Keyboard is an abstract button grid rendered by the platform adapter.
type Keyboard struct {
	Rows [][]Button
}

// RenderText displays a text message to the acting user.
type RenderText struct {
	UserID   int64
	Text     string
	Keyboard *Keyboard
}

func (r RenderText) Target() int64 { return r.UserID }

// RenderPhoto displays a photo with a caption to the acting user.
type RenderPhoto struct {
	UserID   int64
	PhotoID  string
	Caption  string
	Keyboard *Keyboard
}

func (r RenderPhoto) Target() int64 { return r.UserID }

// Notify delivers a message to a user other than the acting one (like and
// match notifications). PhotoID may be empty for a text-only notification.
type Notify struct {
	UserID   int64
	Text     string
	PhotoID  string
	Keyboard *Keyboard
}

func (n Notify) Target() int64 { return n.UserID }
