package portfolio

import "strings"

// VisibleProjects returns the projects to show in the projects grid. When
// the document carries at least one internship with text, projects whose
// title mentions "intern" are dropped so the same experience is not listed
// twice; the internship section renders it instead. Untitled entries are
// always dropped.
func VisibleProjects(doc Document) []Project {
	hasInternship := false
	for _, in := range doc.Internships {
		if in.Text != "" {
			hasInternship = true
			break
		}
	}

	visible := make([]Project, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		if p.Title == "" {
			continue
		}
		if hasInternship && strings.Contains(strings.ToLower(p.Title), "intern") {
			continue
		}
		visible = append(visible, p)
	}
	return visible
}
