package viewmodel

import (
	"strings"

	"casefolio.dev/portfolio-web/internal/content"
	"casefolio.dev/portfolio-web/internal/site"
)

const (
	defaultToolName        = "Tool"
	untitledPosition       = "Untitled Position"
	dateNotSpecified       = "Date not specified"
	defaultImportance      = "standard"
	defaultCertTitle       = "Certification"
	defaultCertInstitution = "Independent study"
	ongoingLabel           = "Ongoing"
)

// Link is a call-to-action on the profile page.
type Link struct {
	Label    string
	URL      string
	Internal bool
}

// Tool is one entry of the tools list.
type Tool struct {
	Key      string
	Name     string
	Purpose  string
	Icon     string
	Inverted bool
}

// Experience is one timeline entry.
type Experience struct {
	Key         string
	Date        string
	Title       string
	Description string
	Importance  string
	Logo        string
}

// Certification is one learning card.
type Certification struct {
	Key           string
	Title         string
	Institution   string
	Date          string
	CredentialURL string
	InProgress    bool
	Icon          string
	Inverted      bool
}

// Status is the date line of the card: the attainment date, or "Ongoing" while in progress.
func (c Certification) Status() string {
	if c.InProgress {
		return ongoingLabel
	}
	return c.Date
}

// Profile is the about page view model.
type Profile struct {
	HeroTitle         string
	HeroSubtitle      string
	PrimaryLink       Link
	Resume            Link
	Skills            []string
	Tools             []Tool
	Experience        []Experience
	ExperiencePending string
	Certifications    []Certification
}

// HasExperience reports whether the timeline has entries.
func (p Profile) HasExperience() bool { return len(p.Experience) > 0 }

// NewProfile normalizes the about page record. A nil record yields the site defaults throughout.
func NewProfile(rec *content.Record, defaults site.Profile, origin string) Profile {
	p := Profile{
		HeroTitle:         orDefault(rec.Text("aboutHeroTitle"), defaults.HeroTitle),
		HeroSubtitle:      orDefault(rec.Text("aboutHeroSubtitle"), defaults.HeroSubtitle),
		ExperiencePending: defaults.ExperiencePending,
	}

	primaryURL := orDefault(rec.Text("aboutHeroPrimaryLinkUrl"), defaults.PrimaryLinkURL)
	p.PrimaryLink = Link{
		Label:    orDefault(rec.Text("aboutHeroPrimaryLinkLabel"), defaults.PrimaryLinkLabel),
		URL:      primaryURL,
		Internal: IsInternalPath(primaryURL, origin),
	}

	resumeURL, ok := AssetURL(rec.Field("uploadResume"))
	if !ok {
		resumeURL = defaults.ResumeURL
	}
	p.Resume = Link{
		Label: orDefault(rec.Text("uploadResumeTitle"), defaults.ResumeLabel),
		URL:   resumeURL,
	}

	p.Skills = nonEmpty(Strings(rec.Field("coreSkills")))
	if len(p.Skills) == 0 {
		p.Skills = append([]string(nil), defaults.Skills...)
	}

	for _, t := range Records(rec.Field("coreTools")) {
		name := t.Text("toolName")
		icon, _ := AssetURL(t.Field("toolIcon"))
		p.Tools = append(p.Tools, Tool{
			Key:      orDefault(t.ID, name),
			Name:     orDefault(name, defaultToolName),
			Purpose:  t.Text("toolPurpose"),
			Icon:     icon,
			Inverted: t.Flag("toolIconInverted"),
		})
	}
	if len(p.Tools) == 0 {
		for _, t := range defaults.Tools {
			p.Tools = append(p.Tools, Tool{Key: t.ID, Name: t.Name, Purpose: t.Purpose, Icon: t.Icon, Inverted: t.Inverted})
		}
	}

	for _, e := range Records(rec.Field("experience")) {
		logo, _ := AssetURL(e.Field("organizationLogo"))
		p.Experience = append(p.Experience, Experience{
			Key:         e.ID,
			Date:        orDefault(e.Text("duration"), dateNotSpecified),
			Title:       positionTitle(e.Text("jobTitle"), e.Text("organization")),
			Description: e.Text("jobDescription"),
			Importance:  orDefault(e.Text("importance"), defaultImportance),
			Logo:        logo,
		})
	}

	for _, c := range Records(rec.Field("certifications")) {
		icon, _ := AssetURL(c.Field("institutionLogo"))
		p.Certifications = append(p.Certifications, newCertification(Certification{
			Key:           c.ID,
			Title:         c.Text("certTitle"),
			Institution:   c.Text("institution"),
			Date:          c.Text("dateAttained"),
			CredentialURL: c.Text("credentialUrl"),
			InProgress:    c.Flag("inProgress"),
			Icon:          icon,
			Inverted:      c.Flag("institutionLogoInverted"),
		}))
	}
	if len(p.Certifications) == 0 {
		for _, c := range defaults.Certifications {
			p.Certifications = append(p.Certifications, newCertification(Certification{
				Key:           c.ID,
				Title:         c.Title,
				Institution:   c.Institution,
				Date:          c.DateAttained,
				CredentialURL: c.CredentialURL,
				InProgress:    c.InProgress,
				Icon:          c.Icon,
				Inverted:      c.Inverted,
			}))
		}
	}
	return p
}

func newCertification(c Certification) Certification {
	c.Title = orDefault(c.Title, defaultCertTitle)
	c.Institution = orDefault(c.Institution, defaultCertInstitution)
	c.Date = orDefault(c.Date, dateNotSpecified)
	if c.InProgress {
		c.CredentialURL = ""
	}
	if c.Key == "" {
		c.Key = c.Title
	}
	return c
}

func positionTitle(jobTitle, organization string) string {
	switch {
	case organization != "" && jobTitle != "":
		return jobTitle + ", " + organization
	case organization != "":
		return organization
	case jobTitle != "":
		return jobTitle
	}
	return untitledPosition
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
