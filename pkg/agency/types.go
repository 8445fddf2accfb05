// Package agency models the content-agency domain: scheduled posts,
// client accounts with their brand identity, and the user profile. It sits
// on top of the typed collection layer and owns the slot naming for
// profile data.
package agency

// Platform identifies a social network a post targets.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
)

// Status is a post's position in the publishing workflow.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

// Post is a scheduled or published piece of content. Image holds a base64
// data URL and is the field shed first under storage pressure.
type Post struct {
	ID            string     `json:"id"`
	ClientID      string     `json:"clientId,omitempty"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Image         string     `json:"image,omitempty"`
	Platforms     []Platform `json:"platforms,omitempty"`
	ScheduledDate string     `json:"scheduledDate,omitempty"`
	Status        Status     `json:"status,omitempty"`
	Author        string     `json:"author,omitempty"`
}

// Client is a managed account together with its brand identity, which
// feeds the caption generator's prompts.
type Client struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Industry       string   `json:"industry,omitempty"`
	Description    string   `json:"description,omitempty"`
	TargetAudience string   `json:"targetAudience,omitempty"`
	ToneOfVoice    string   `json:"toneOfVoice,omitempty"`
	ContentPillars []string `json:"contentPillars,omitempty"`
	AvoidTerms     string   `json:"avoidTerms,omitempty"`
	CustomHashtags string   `json:"customHashtags,omitempty"`
	Avatar         string   `json:"avatar,omitempty"`
}

// Profile is the workspace owner's own public-facing profile.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

const (
	postsCollection   = "posts"
	clientsCollection = "clients"
	profilePrefix     = "user_profile_"
)
