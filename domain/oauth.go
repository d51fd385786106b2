package domain

import (
	"slices"
	"time"
)

type Scope string

const (
	ScopeProfileRead  Scope = "profile:read"
	ScopeEmailRead    Scope = "email:read"
	ScopeRatingsRead  Scope = "ratings:read"
	ScopeMatchesRead  Scope = "matches:read"
	ScopeMatchesWrite Scope = "matches:write"
)

// Every scope an authorization may request
var KnownScopes = []Scope{
	ScopeProfileRead,
	ScopeEmailRead,
	ScopeRatingsRead,
	ScopeMatchesRead,
	ScopeMatchesWrite,
}

func IsKnownScope(scope Scope) bool {
	return slices.Contains(KnownScopes, scope)
}

type OAuthRequest struct {
	Scopes      []Scope
	State       string
	RedirectURI string
}

type OAuthAuthorization struct {
	URL   string
	Code  string
	State string
	// The scopes that were requested, always including ScopeProfileRead
	Scopes []Scope
}

type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	Scopes       []string
	PlayerID     string
}

type ScopeInfo struct {
	Name        string
	Description string
}

type Usage struct {
	RequestsToday     int
	RequestsThisMonth int
	DailyLimit        int
	MonthlyLimit      int
	ResetAt           time.Time
}

type WebhookTestResult struct {
	Success    bool
	StatusCode int
	Message    string
}
