package gateway

import (
	"strconv"
	"strings"

	svcErr "github.com/ksolovey/unimatch/internal/errors"
)

// Button verbs. Each token is "<verb>:<arg>".
const (
	VerbLike     = "like"     // like:<user_id>
	VerbNext     = "next"     // next:<index>
	VerbComplain = "complain" // complain:<user_id>
	VerbEdit     = "edit"     // edit:<field>
	VerbMatch    = "match"    // match:<user_id>
)

// Profile field names accepted by the edit verb.
var editableFields = map[string]bool{
	"name":    true,
	"age":     true,
	"gender":  true,
	"faculty": true,
	"course":  true,
	"bio":     true,
	"photo":   true,
}

// Token is a parsed button payload.
type Token struct {
	Verb  string
	ID    int64  // set for like/complain/match
	Index int    // set for next
	Field string // set for edit
}

// MakeToken formats a verb:arg pair for keyboard construction.
func MakeToken(verb, arg string) string {
	return verb + ":" + arg
}

// ParseToken validates and decodes a button payload. Malformed tokens come
// back as a validation error so handlers can show an error instead of
// crashing on adapter bugs or stale keyboards.
func ParseToken(s string) (Token, error) {
	verb, arg, ok := strings.Cut(s, ":")
	if !ok || arg == "" {
		return Token{}, svcErr.Validationf("malformed button token %q", s)
	}

	switch verb {
	case VerbLike, VerbComplain, VerbMatch:
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return Token{}, svcErr.Validationf("button token %q: bad user id", s)
		}
		return Token{Verb: verb, ID: id}, nil

	case VerbNext:
		index, err := strconv.Atoi(arg)
		if err != nil || index < 0 {
			return Token{}, svcErr.Validationf("button token %q: bad index", s)
		}
		return Token{Verb: verb, Index: index}, nil

	case VerbEdit:
		if !editableFields[arg] {
			return Token{}, svcErr.Validationf("button token %q: unknown field", s)
		}
		return Token{Verb: verb, Field: arg}, nil

	default:
		return Token{}, svcErr.Validationf("button token %q: unknown verb", s)
	}
}
