package constants

// Application Information
const (
	AppName    = "sunrinpass"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Credential cookie names
const (
	CookieAccessToken  = "accessToken"
	CookieRefreshToken = "refreshToken"
)

// Gin context keys set by the session middleware after authentication.
const (
	CtxIdentity = "identity"
)

// Redis key prefixes
const (
	SessionKeyPrefix    = "sunrinpass:session:"
	LoginStateKeyPrefix = "sunrinpass:oauth-state:"
)
