// Package card formats profile cards for rendering effects.
package card

import (
	"fmt"
	"strings"

	"github.com/ksolovey/unimatch/internal/db"
	"github.com/ksolovey/unimatch/internal/utils/gender"
)

// Format renders a profile as the standard multi-line card under a header.
func Format(header string, p *db.Profile) string {
	var b strings.Builder
	if header != "" {
		b.WriteString(header)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Age: %d\n", p.Age)
	fmt.Fprintf(&b, "Gender: %s\n", genderLabel(p.Gender))
	fmt.Fprintf(&b, "Faculty: %s\n", p.Faculty)
	fmt.Fprintf(&b, "Course: %d\n", p.Course)
	fmt.Fprintf(&b, "About: %s", p.Bio)
	return b.String()
}

// Short renders the one-entry summary used in match listings.
func Short(p *db.Profile) string {
	bio := p.Bio
	if len([]rune(bio)) > 50 {
		bio = string([]rune(bio)[:50]) + "..."
	}
	return fmt.Sprintf("%s (%d), %s, year %d\n   %s", p.Name, p.Age, p.Faculty, p.Course, bio)
}

func genderLabel(g string) string {
	switch g {
	case gender.Male:
		return "Male"
	case gender.Female:
		return "Female"
	default:
		return g
	}
}
