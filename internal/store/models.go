package store

import "portfolio/api/internal/portfolio"

// Snapshot is one read of the remote store. The presence flags inside
// Remote distinguish "this section was reachable" from "it returned
// nothing"; a failure on one collection never invalidates the others.
type Snapshot struct {
	Remote portfolio.Remote
	// Errors holds per-section read failures keyed by section name.
	// Callers log these and fall back per field to the local cache.
	Errors map[string]error
}

// Failed reports whether every section of the read failed, i.e. the remote
// store was effectively unreachable.
func (s Snapshot) Failed() bool {
	if len(s.Errors) == 0 {
		return false
	}
	return !s.Remote.HasMeta && !s.Remote.HasProjects && !s.Remote.HasInternships &&
		!s.Remote.HasSkills && !s.Remote.HasAchievements
}

// MetaRow is the singleton scalar record (id 'main').
type MetaRow struct {
	Name           string
	Headline       string
	About          string
	ProfileImage   string
	ProfileCaption string
	Resume         string
	ContactEmail   string
	ContactPhone   string
	ContactLinked  string
	ContactGitHub  string
	DefaultTheme   string
	LastUpdate     int64
}

func metaFromDocument(doc portfolio.Document, lastUpdate int64) MetaRow {
	return MetaRow{
		Name:           doc.Name,
		Headline:       doc.Headline,
		About:          doc.About,
		ProfileImage:   doc.Profile.Image,
		ProfileCaption: doc.Profile.Caption,
		Resume:         doc.Resume,
		ContactEmail:   doc.Contact.Email,
		ContactPhone:   doc.Contact.Phone,
		ContactLinked:  doc.Contact.LinkedIn,
		ContactGitHub:  doc.Contact.GitHub,
		DefaultTheme:   doc.DefaultTheme,
		LastUpdate:     lastUpdate,
	}
}

func (m MetaRow) apply(remote *portfolio.Remote) {
	remote.HasMeta = true
	remote.Name = m.Name
	remote.Headline = m.Headline
	remote.About = m.About
	remote.Profile = portfolio.Profile{Image: m.ProfileImage, Caption: m.ProfileCaption}
	remote.Resume = m.Resume
	remote.Contact = portfolio.Contact{
		Email:    m.ContactEmail,
		Phone:    m.ContactPhone,
		LinkedIn: m.ContactLinked,
		GitHub:   m.ContactGitHub,
	}
	remote.DefaultTheme = m.DefaultTheme
	remote.LastUpdate = m.LastUpdate
}
