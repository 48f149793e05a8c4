package customization

import "strings"

const (
	annotationPrefix = "Substitutions: "
	entrySeparator   = "; "
	pairSeparator    = ": "
)

// Substitution records one group whose default food was replaced.
type Substitution struct {
	Group  string `json:"group"`
	Chosen string `json:"chosen"`
}

// Annotation is the human readable summary of a customization.
type Annotation struct {
	Substitutions []Substitution `json:"substitutions"`
}

func (a Annotation) IsEmpty() bool {
	return len(a.Substitutions) == 0
}

// Text renders "Substitutions: <group>: <chosen>; <group>: <chosen>".
// Separator characters inside names are replaced so the text parses back.
func (a Annotation) Text() string {
	if a.IsEmpty() {
		return ""
	}
	entries := make([]string, 0, len(a.Substitutions))
	for _, s := range a.Substitutions {
		entries = append(entries, sanitize(s.Group)+pairSeparator+sanitize(s.Chosen))
	}
	return annotationPrefix + strings.Join(entries, entrySeparator)
}

// ParseAnnotation reads back an annotation from free-text notes. Lines that
// are not annotations are ignored. ApplyToNotes appends the annotation last,
// so the last matching line wins over customer text using the same prefix.
func ParseAnnotation(notes string) (Annotation, bool) {
	lines := strings.Split(notes, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, annotationPrefix) {
			continue
		}
		var a Annotation
		for _, entry := range strings.Split(strings.TrimPrefix(line, annotationPrefix), entrySeparator) {
			group, chosen, ok := strings.Cut(entry, pairSeparator)
			if !ok {
				return Annotation{}, false
			}
			a.Substitutions = append(a.Substitutions, Substitution{Group: group, Chosen: chosen})
		}
		return a, !a.IsEmpty()
	}
	return Annotation{}, false
}

// ApplyToNotes appends the annotation to the customer's notes on its own line.
func ApplyToNotes(notes string, a Annotation) string {
	text := a.Text()
	notes = strings.TrimSpace(notes)
	switch {
	case text == "":
		return notes
	case notes == "":
		return text
	default:
		return notes + "\n" + text
	}
}

func sanitize(name string) string {
	name = strings.ReplaceAll(name, ";", ",")
	name = strings.ReplaceAll(name, ":", " -")
	name = strings.ReplaceAll(name, "\n", " ")
	return strings.TrimSpace(name)
}
