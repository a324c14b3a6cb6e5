package portfolio

import "strings"

// Normalize makes a document safe to hand to the renderer: no nil slices,
// addressable blog posts, no placeholder entries with empty titles. Legacy
// field aliases are already folded during JSON decoding.
func Normalize(doc Document) Document {
	if doc.Projects == nil {
		doc.Projects = []Project{}
	}
	if doc.Internships == nil {
		doc.Internships = []Internship{}
	}
	if doc.Achievements == nil {
		doc.Achievements = []string{}
	}
	if doc.Skills.Technical == nil {
		doc.Skills.Technical = []Skill{}
	}
	if doc.Skills.Soft == nil {
		doc.Skills.Soft = []Skill{}
	}
	if doc.Testimonials == nil {
		doc.Testimonials = []Testimonial{}
	}
	if doc.Timeline == nil {
		doc.Timeline = []TimelineEntry{}
	}
	if doc.Blog == nil {
		doc.Blog = []BlogPost{}
	}
	for i := range doc.Blog {
		if doc.Blog[i].Slug == "" {
			if doc.Blog[i].ID != "" {
				doc.Blog[i].Slug = doc.Blog[i].ID
			} else {
				doc.Blog[i].Slug = Slugify(doc.Blog[i].Title)
			}
		}
	}
	return doc
}

// Slugify derives a URL-safe slug from a title.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
