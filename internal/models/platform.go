package models

// Platform identifies a third-party content platform. The identifier doubles
// as the credential namespace key for that platform.
type Platform string

const (
	PlatformYouTube      Platform = "youtube"
	PlatformFacebook     Platform = "facebook"
	PlatformInstagram    Platform = "instagram"
	PlatformTikTok       Platform = "tiktok"
	PlatformPinterest    Platform = "pinterest"
	PlatformGoogleSearch Platform = "google_search"
)

// CredentialNamespace maps a platform to the namespace its secrets are stored
// under. Facebook and Instagram share the Meta graph token.
func (p Platform) CredentialNamespace() string {
	switch p {
	case PlatformFacebook, PlatformInstagram:
		return "meta"
	default:
		return string(p)
	}
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	switch p {
	case PlatformYouTube, PlatformFacebook, PlatformInstagram,
		PlatformTikTok, PlatformPinterest, PlatformGoogleSearch:
		return true
	}
	return false
}
