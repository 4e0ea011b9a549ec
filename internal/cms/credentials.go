package cms

import (
	"fmt"
	"strings"
)

// Environment variables that carry CMS credentials.
const (
	EnvSpaceID       = "CONTENTFUL_SPACE_ID"
	EnvDeliveryToken = "CONTENTFUL_DELIVERY_TOKEN"
	EnvPreviewToken  = "CONTENTFUL_PREVIEW_TOKEN"
	EnvEnvironment   = "CONTENTFUL_ENVIRONMENT"
)

const (
	defaultDeliveryHost = "cdn.contentful.com"
	defaultPreviewHost  = "preview.contentful.com"
	defaultEnvironment  = "master"
)

// Mode identifies which content API a client talks to.
type Mode string

const (
	ModeDelivery Mode = "delivery"
	ModePreview  Mode = "preview"
)

// Credentials holds the space identity and access tokens for both content APIs.
type Credentials struct {
	SpaceID       string
	DeliveryToken string
	PreviewToken  string
	Environment   string
	DeliveryHost  string
	PreviewHost   string
}

// CredentialStatus reports whether one credential variable was supplied.
type CredentialStatus struct {
	Variable string
	Present  bool
}

// MissingCredentialsError reports every credential the selected mode requires but did not receive.
type MissingCredentialsError struct {
	Mode    Mode
	Missing []string
	table   []CredentialStatus
}

func (e *MissingCredentialsError) Error() string {
	return fmt.Sprintf("cms: missing %s credentials: %s", e.Mode, strings.Join(e.Missing, ", "))
}

// Table lists each credential variable with its presence, for diagnostics.
func (e *MissingCredentialsError) Table() []CredentialStatus {
	out := make([]CredentialStatus, len(e.table))
	copy(out, e.table)
	return out
}

func (c Credentials) check(mode Mode) error {
	table := []CredentialStatus{
		{Variable: EnvSpaceID, Present: strings.TrimSpace(c.SpaceID) != ""},
		{Variable: EnvDeliveryToken, Present: strings.TrimSpace(c.DeliveryToken) != ""},
		{Variable: EnvPreviewToken, Present: strings.TrimSpace(c.PreviewToken) != ""},
	}
	required := map[string]bool{EnvSpaceID: true}
	if mode == ModePreview {
		required[EnvPreviewToken] = true
	} else {
		required[EnvDeliveryToken] = true
	}
	var missing []string
	for _, row := range table {
		if required[row.Variable] && !row.Present {
			missing = append(missing, row.Variable)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingCredentialsError{Mode: mode, Missing: missing, table: table}
}

func (c Credentials) environment() string {
	if env := strings.TrimSpace(c.Environment); env != "" {
		return env
	}
	return defaultEnvironment
}

func (c Credentials) host(mode Mode) string {
	if mode == ModePreview {
		return firstNonEmpty(c.PreviewHost, defaultPreviewHost)
	}
	return firstNonEmpty(c.DeliveryHost, defaultDeliveryHost)
}

func (c Credentials) token(mode Mode) string {
	if mode == ModePreview {
		return strings.TrimSpace(c.PreviewToken)
	}
	return strings.TrimSpace(c.DeliveryToken)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
