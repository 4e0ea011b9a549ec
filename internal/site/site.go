// Package site holds the owner-specific copy and fallback content of the portfolio.
package site

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Link is a labelled href.
type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

// Social is a footer profile link.
type Social struct {
	Label string `yaml:"label"`
	Title string `yaml:"title"`
	Href  string `yaml:"href"`
	Icon  string `yaml:"icon"`
}

// Footer configures the footer credits and contact links.
type Footer struct {
	PoweredBy []Link   `yaml:"powered_by"`
	Social    []Social `yaml:"social"`
	Email     string   `yaml:"email"`
}

// Loading holds the rotating messages shown while each page loads.
type Loading struct {
	Listing []string `yaml:"listing" json:"listing"`
	Detail  []string `yaml:"detail" json:"detail"`
	Profile []string `yaml:"profile" json:"profile"`
}

// Listing is the copy of the case study listing page.
type Listing struct {
	HeroTitle     string `yaml:"hero_title"`
	HeroSubtitle  string `yaml:"hero_subtitle"`
	Intro         string `yaml:"intro"`
	FeaturedLabel string `yaml:"featured_label"`
	OtherLabel    string `yaml:"other_label"`
}

// Tool is a fallback entry of the profile tool list.
type Tool struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Purpose  string `yaml:"purpose"`
	Icon     string `yaml:"icon"`
	Inverted bool   `yaml:"inverted"`
}

// Certification is a fallback entry of the learning section.
type Certification struct {
	ID            string `yaml:"id"`
	Title         string `yaml:"title"`
	Institution   string `yaml:"institution"`
	DateAttained  string `yaml:"date_attained"`
	CredentialURL string `yaml:"credential_url"`
	InProgress    bool   `yaml:"in_progress"`
	Icon          string `yaml:"icon"`
	Inverted      bool   `yaml:"inverted"`
}

// Profile holds the defaults of the about page, used when the CMS record or a field is absent.
type Profile struct {
	HeroTitle         string          `yaml:"hero_title"`
	HeroSubtitle      string          `yaml:"hero_subtitle"`
	PrimaryLinkLabel  string          `yaml:"primary_link_label"`
	PrimaryLinkURL    string          `yaml:"primary_link_url"`
	ResumeLabel       string          `yaml:"resume_label"`
	ResumeURL         string          `yaml:"resume_url"`
	ExperiencePending string          `yaml:"experience_pending"`
	Skills            []string        `yaml:"skills"`
	Tools             []Tool          `yaml:"tools"`
	Certifications    []Certification `yaml:"certifications"`
}

// Site is the full site configuration.
type Site struct {
	Name         string   `yaml:"name"`
	Tagline      string   `yaml:"tagline"`
	BaseURL      string   `yaml:"base_url"`
	Description  string   `yaml:"description"`
	Nav          []Link   `yaml:"nav"`
	Footer       Footer   `yaml:"footer"`
	AwayMessages []string `yaml:"away_messages"`
	Loading      Loading  `yaml:"loading"`
	Listing      Listing  `yaml:"listing"`
	Profile      Profile  `yaml:"profile"`
}

// Default returns the embedded configuration.
func Default() *Site {
	s, err := parse(defaultYAML, nil)
	if err != nil {
		panic(fmt.Sprintf("site: embedded default: %v", err))
	}
	return s
}

// Load reads path and overlays it on the embedded defaults. An empty path or a
// missing file yields the defaults.
func Load(path string) (*Site, error) {
	base := Default()
	path = strings.TrimSpace(path)
	if path == "" {
		return base, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return base, nil
		}
		return nil, fmt.Errorf("site: read %s: %w", path, err)
	}
	s, err := parse(raw, base)
	if err != nil {
		return nil, fmt.Errorf("site: parse %s: %w", path, err)
	}
	return s, nil
}

func parse(raw []byte, base *Site) (*Site, error) {
	s := &Site{}
	if base != nil {
		*s = *base
	}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, err
	}
	if strings.TrimSpace(s.Name) == "" {
		return nil, errors.New("name is required")
	}
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	return s, nil
}

// DefaultTitle is the document title used when no record title applies.
func (s *Site) DefaultTitle() string {
	if s.Tagline == "" {
		return s.Name
	}
	return s.Name + " – " + s.Tagline
}

// Title composes a document title for a page heading.
func (s *Site) Title(heading string) string {
	heading = strings.TrimSpace(heading)
	if heading == "" {
		return s.DefaultTitle()
	}
	return heading + " – " + s.Name
}

// EmailCodes returns the contact address as character codes so it is not present verbatim in markup.
func (s *Site) EmailCodes() []int {
	codes := make([]int, 0, len(s.Footer.Email))
	for _, r := range s.Footer.Email {
		codes = append(codes, int(r))
	}
	return codes
}
