// Package portfolio defines the portfolio document model and the merge
// rules that combine the default dataset, the local cache and the remote
// store into one coherent view.
package portfolio

import "encoding/json"

// Document is the single aggregate the whole site renders from. Field
// names match the serialized form the previous implementations wrote, so
// existing cached blobs keep deserializing.
type Document struct {
	Name         string          `json:"name"`
	Headline     string          `json:"headline"`
	About        string          `json:"about"`
	Profile      Profile         `json:"profile"`
	Resume       string          `json:"resume"`
	Contact      Contact         `json:"contact"`
	Projects     []Project       `json:"projects"`
	Skills       SkillSet        `json:"skills"`
	Achievements []string        `json:"achievements"`
	Internships  []Internship    `json:"internships"`
	Testimonials []Testimonial   `json:"testimonials"`
	Timeline     []TimelineEntry `json:"timeline"`
	Blog         []BlogPost      `json:"blog"`
	DefaultTheme string          `json:"defaultTheme,omitempty"`
	// LastUpdate is a change marker (ms since epoch), not a version vector.
	LastUpdate int64 `json:"lastUpdate,omitempty"`
}

type Profile struct {
	Image   string `json:"image"`
	Caption string `json:"caption"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

type Project struct {
	Title       string   `json:"title"`
	Desc        string   `json:"desc"`
	Link        string   `json:"link,omitempty"`
	Source      string   `json:"source,omitempty"`
	Tech        string   `json:"tech,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	DemoVideo   string   `json:"demoVideo,omitempty"`
	Screenshots []string `json:"screenshots,omitempty"`
}

// UnmarshalJSON folds the legacy media field aliases into Thumbnail so the
// rest of the code only ever sees one canonical field.
func (p *Project) UnmarshalJSON(data []byte) error {
	type project Project
	aux := struct {
		*project
		CoverImage string `json:"coverImage"`
		Cover      string `json:"cover"`
		Image      string `json:"image"`
		Img        string `json:"img"`
	}{project: (*project)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.Thumbnail == "" {
		for _, alias := range []string{aux.CoverImage, aux.Cover, aux.Image, aux.Img} {
			if alias != "" {
				p.Thumbnail = alias
				break
			}
		}
	}
	return nil
}

type SkillSet struct {
	Technical []Skill `json:"technical"`
	Soft      []Skill `json:"soft"`
}

type Skill struct {
	Name  string `json:"name"`
	Link  string `json:"link,omitempty"`
	Level int    `json:"level,omitempty"`
}

type Internship struct {
	Company string `json:"company"`
	Role    string `json:"role"`
	Text    string `json:"text"`
	Link    string `json:"link,omitempty"`
	Period  string `json:"period,omitempty"`
}

type Testimonial struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Text   string `json:"text"`
	Avatar string `json:"avatar,omitempty"`
}

type TimelineEntry struct {
	ID    string `json:"id,omitempty"`
	Year  string `json:"year,omitempty"`
	Title string `json:"title"`
	Text  string `json:"text,omitempty"`
}

type BlogPost struct {
	ID      string `json:"id,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Title   string `json:"title"`
	Date    string `json:"date,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
	Body    string `json:"body,omitempty"`
}

// UnmarshalJSON accepts the legacy singular "internship" field and
// normalizes it into a one-element Internships list.
func (d *Document) UnmarshalJSON(data []byte) error {
	type document Document
	aux := struct {
		*document
		Internship *Internship `json:"internship"`
	}{document: (*document)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(d.Internships) == 0 && aux.Internship != nil && (aux.Internship.Company != "" || aux.Internship.Text != "") {
		d.Internships = []Internship{*aux.Internship}
	}
	return nil
}
