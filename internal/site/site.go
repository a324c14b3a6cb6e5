// Package site renders the public portfolio page from a merged document.
// It holds no state of its own; every request projects whatever the merge
// produced at that moment.
package site

import (
	"html/template"
	"io"

	"portfolio/api/internal/portfolio"
)

type Renderer struct {
	tmpl *template.Template
}

func New() *Renderer {
	return &Renderer{tmpl: template.Must(template.New("page").Parse(pageTemplate))}
}

// pageData is the template view: the document plus the filtered projects
// grid, so the template never re-implements the visibility rule. The
// rich-text fields (about, project descriptions, internship text, profile
// caption) are typed template.HTML because the owner authors them as
// markup; everything else stays escaped.
type pageData struct {
	portfolio.Document
	About           template.HTML
	Caption         template.HTML
	VisibleProjects []projectView
	Internships     []internshipView
}

type projectView struct {
	portfolio.Project
	Desc template.HTML
}

type internshipView struct {
	portfolio.Internship
	Text template.HTML
}

func (r *Renderer) Render(w io.Writer, doc portfolio.Document) error {
	visible := portfolio.VisibleProjects(doc)
	projects := make([]projectView, len(visible))
	for i, p := range visible {
		projects[i] = projectView{Project: p, Desc: template.HTML(p.Desc)}
	}
	internships := make([]internshipView, len(doc.Internships))
	for i, in := range doc.Internships {
		internships[i] = internshipView{Internship: in, Text: template.HTML(in.Text)}
	}
	return r.tmpl.Execute(w, pageData{
		Document:        doc,
		About:           template.HTML(doc.About),
		Caption:         template.HTML(doc.Profile.Caption),
		VisibleProjects: projects,
		Internships:     internships,
	})
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{if .DefaultTheme}}{{.DefaultTheme}}{{else}}dark{{end}}">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Name}} — Portfolio</title>
<style>
  :root { color-scheme: light dark; }
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; margin: 0 auto; max-width: 960px; padding: 24px; }
  header { display: flex; gap: 24px; align-items: center; }
  header figure { margin: 0; }
  header img { width: 120px; height: 120px; border-radius: 50%; object-fit: cover; }
  section { margin-top: 40px; }
  h2 { border-bottom: 1px solid #8884; padding-bottom: 6px; }
  .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(260px, 1fr)); gap: 16px; }
  .card { border: 1px solid #8884; border-radius: 8px; padding: 16px; }
  .card img { width: 100%; border-radius: 6px; }
  .skills span { display: inline-block; border: 1px solid #8884; border-radius: 12px; padding: 2px 10px; margin: 3px; }
  footer { margin-top: 48px; font-size: 14px; opacity: 0.7; }
</style>
</head>
<body>
<header>
  {{if .Profile.Image}}<figure><img src="{{.Profile.Image}}" alt="{{.Name}}">{{if .Caption}}<figcaption>{{.Caption}}</figcaption>{{end}}</figure>{{end}}
  <div>
    <h1>{{.Name}}</h1>
    <p>{{.Headline}}</p>
    {{if .Resume}}<p><a href="{{.Resume}}">Resume</a></p>{{end}}
  </div>
</header>

{{if .About}}
<section id="about">
  <h2>About</h2>
  <p>{{.About}}</p>
</section>
{{end}}

{{if or .Skills.Technical .Skills.Soft}}
<section id="skills">
  <h2>Skills</h2>
  <div class="skills">
    {{range .Skills.Technical}}<span>{{.Name}}</span>{{end}}
  </div>
  {{if .Skills.Soft}}
  <h3>Soft skills</h3>
  <div class="skills">
    {{range .Skills.Soft}}<span>{{.Name}}</span>{{end}}
  </div>
  {{end}}
</section>
{{end}}

{{if .VisibleProjects}}
<section id="projects">
  <h2>Projects</h2>
  <div class="grid">
    {{range .VisibleProjects}}
    <div class="card">
      {{if .Thumbnail}}<img src="{{.Thumbnail}}" alt="{{.Title}}">{{end}}
      <h3>{{.Title}}</h3>
      <p>{{.Desc}}</p>
      {{if .Tech}}<p><small>{{.Tech}}</small></p>{{end}}
      {{if .Link}}<a href="{{.Link}}">Live</a>{{end}}
      {{if .Source}} <a href="{{.Source}}">Source</a>{{end}}
    </div>
    {{end}}
  </div>
</section>
{{end}}

{{if .Internships}}
<section id="internships">
  <h2>Internships</h2>
  {{range .Internships}}
  <div class="card">
    <h3>{{.Company}}{{if .Role}} — {{.Role}}{{end}}</h3>
    {{if .Period}}<p><small>{{.Period}}</small></p>{{end}}
    <p>{{.Text}}</p>
    {{if .Link}}<a href="{{.Link}}">Certificate</a>{{end}}
  </div>
  {{end}}
</section>
{{end}}

{{if .Achievements}}
<section id="achievements">
  <h2>Achievements</h2>
  <ul>
    {{range .Achievements}}<li>{{.}}</li>{{end}}
  </ul>
</section>
{{end}}

{{if .Timeline}}
<section id="timeline">
  <h2>Timeline</h2>
  <ul>
    {{range .Timeline}}<li>{{if .Year}}<strong>{{.Year}}</strong> {{end}}{{.Title}}{{if .Text}}: {{.Text}}{{end}}</li>{{end}}
  </ul>
</section>
{{end}}

{{if .Testimonials}}
<section id="testimonials">
  <h2>Testimonials</h2>
  {{range .Testimonials}}
  <div class="card">
    <p>{{.Text}}</p>
    <p><small>{{.Name}}{{if .Role}}, {{.Role}}{{end}}</small></p>
  </div>
  {{end}}
</section>
{{end}}

{{if .Blog}}
<section id="blog">
  <h2>Blog</h2>
  {{range .Blog}}
  <div class="card">
    <h3>{{.Title}}</h3>
    {{if .Date}}<p><small>{{.Date}}</small></p>{{end}}
    {{if .Excerpt}}<p>{{.Excerpt}}</p>{{end}}
  </div>
  {{end}}
</section>
{{end}}

<section id="contact">
  <h2>Contact</h2>
  <ul>
    {{if .Contact.Email}}<li><a href="mailto:{{.Contact.Email}}">{{.Contact.Email}}</a></li>{{end}}
    {{if .Contact.Phone}}<li>{{.Contact.Phone}}</li>{{end}}
    {{if .Contact.LinkedIn}}<li><a href="{{.Contact.LinkedIn}}">LinkedIn</a></li>{{end}}
    {{if .Contact.GitHub}}<li><a href="{{.Contact.GitHub}}">GitHub</a></li>{{end}}
  </ul>
</section>

<footer>&copy; {{.Name}}</footer>
</body>
</html>`
