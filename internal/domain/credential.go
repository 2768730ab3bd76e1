package domain

import "strings"

// Credential field names.
const (
	FieldBearerToken = "bearer_token"
	FieldAccessToken = "access_token"
	FieldPersonURN   = "person_urn"
	FieldAccountID   = "account_id"
	FieldOpenID      = "open_id"
	FieldPageID      = "page_id"
	FieldLocationID  = "location_id"
)

// LegacyMockPrefix marks tokens minted by the demo connect flow. A token
// carrying it is simulated whatever Kind says.
const LegacyMockPrefix = "mock_"

type CredentialKind int

const (
	CredentialReal CredentialKind = iota
	CredentialSimulated
)

func (k CredentialKind) String() string {
	if k == CredentialSimulated {
		return "simulated"
	}
	return "real"
}

// Credential is the opaque per-platform authorization bag.
type Credential struct {
	Platform Platform
	Kind     CredentialKind
	Fields   map[string]string
}

// NewCredential classifies the credential from its primary token when the
// caller did not say it is simulated.
func NewCredential(platform Platform, fields map[string]string, simulated bool) Credential {
	c := Credential{Platform: platform, Fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		c.Fields[k] = strings.TrimSpace(v)
	}
	if simulated || strings.HasPrefix(c.Token(), LegacyMockPrefix) {
		c.Kind = CredentialSimulated
	}
	return c
}

// Token returns the primary token field.
func (c Credential) Token() string {
	return c.Fields[c.Platform.PrimaryField()]
}

func (c Credential) Field(name string) string {
	return c.Fields[name]
}

// Simulated reports whether publishing must stay off the network.
func (c Credential) Simulated() bool {
	return c.Kind == CredentialSimulated || strings.HasPrefix(c.Token(), LegacyMockPrefix)
}

// Connected reports whether cred is present with a non-empty primary token.
func Connected(cred *Credential) bool {
	return cred != nil && cred.Token() != ""
}
