package portfolio

// Remote is a snapshot of the remote store. Each section carries its own
// presence flag because a partial read (one collection unreachable) must not
// discard the sections that did arrive.
type Remote struct {
	HasMeta      bool
	Name         string
	Headline     string
	About        string
	Profile      Profile
	Resume       string
	Contact      Contact
	DefaultTheme string
	LastUpdate   int64

	HasProjects     bool
	Projects        []Project
	HasInternships  bool
	Internships     []Internship
	HasSkills       bool
	Skills          SkillSet
	HasAchievements bool
	Achievements    []string
}

// MergePolicy resolves the one deliberate ambiguity in the merge contract:
// whether a remote collection that is present but empty counts as an
// intentional delete or as "not yet migrated".
type MergePolicy struct {
	// EmptyListWins honors an explicitly empty remote list instead of
	// falling back to the cached or default list.
	EmptyListWins bool
}

// Merge combines the default dataset, the local cache and an optional remote
// snapshot into one document. Scalars: remote wins when present and
// non-empty, else local, else default. Lists: the highest-priority non-empty
// list replaces the rest wholesale; element-wise merging never happens.
// Merge is idempotent: feeding its output back as the local document with
// the same remote snapshot yields the same result.
func Merge(def, local Document, remote *Remote, policy MergePolicy) Document {
	out := def

	out.Name = pick(local.Name, def.Name)
	out.Headline = pick(local.Headline, def.Headline)
	out.About = pick(local.About, def.About)
	out.Resume = pick(local.Resume, def.Resume)
	out.DefaultTheme = pick(local.DefaultTheme, def.DefaultTheme)
	out.Profile = mergeProfile(def.Profile, local.Profile)
	out.Contact = mergeContact(def.Contact, local.Contact)
	if local.LastUpdate > 0 {
		out.LastUpdate = local.LastUpdate
	}

	out.Projects = pickList(local.Projects, def.Projects)
	out.Internships = pickList(local.Internships, def.Internships)
	out.Achievements = pickList(local.Achievements, def.Achievements)
	out.Skills.Technical = pickList(local.Skills.Technical, def.Skills.Technical)
	out.Skills.Soft = pickList(local.Skills.Soft, def.Skills.Soft)
	out.Testimonials = pickList(local.Testimonials, def.Testimonials)
	out.Timeline = pickList(local.Timeline, def.Timeline)
	out.Blog = pickList(local.Blog, def.Blog)

	if remote == nil {
		return Normalize(out)
	}

	if remote.HasMeta {
		out.Name = pick(remote.Name, out.Name)
		out.Headline = pick(remote.Headline, out.Headline)
		out.About = pick(remote.About, out.About)
		out.Resume = pick(remote.Resume, out.Resume)
		out.DefaultTheme = pick(remote.DefaultTheme, out.DefaultTheme)
		out.Profile = mergeProfile(out.Profile, remote.Profile)
		out.Contact = mergeContact(out.Contact, remote.Contact)
		if remote.LastUpdate > 0 {
			out.LastUpdate = remote.LastUpdate
		}
	}

	if remote.HasProjects {
		out.Projects = remoteList(remote.Projects, out.Projects, policy)
	}
	if remote.HasInternships {
		out.Internships = remoteList(remote.Internships, out.Internships, policy)
	}
	if remote.HasAchievements {
		out.Achievements = remoteList(remote.Achievements, out.Achievements, policy)
	}
	if remote.HasSkills {
		out.Skills.Technical = remoteList(remote.Skills.Technical, out.Skills.Technical, policy)
		out.Skills.Soft = remoteList(remote.Skills.Soft, out.Skills.Soft, policy)
	}

	return Normalize(out)
}

func pick(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func pickList[T any](value, fallback []T) []T {
	if len(value) > 0 {
		return value
	}
	return fallback
}

func remoteList[T any](remote, fallback []T, policy MergePolicy) []T {
	if len(remote) > 0 || policy.EmptyListWins {
		return remote
	}
	return fallback
}

func mergeProfile(base, over Profile) Profile {
	return Profile{
		Image:   pick(over.Image, base.Image),
		Caption: pick(over.Caption, base.Caption),
	}
}

func mergeContact(base, over Contact) Contact {
	return Contact{
		Email:    pick(over.Email, base.Email),
		Phone:    pick(over.Phone, base.Phone),
		LinkedIn: pick(over.LinkedIn, base.LinkedIn),
		GitHub:   pick(over.GitHub, base.GitHub),
	}
}
