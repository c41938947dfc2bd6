package constants

// User roles
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// Content publication states
const (
	BlogStatusDraft     = "draft"
	BlogStatusPublished = "published"
	BlogStatusArchived  = "archived"
)

// Project states
const (
	ProjectStatusPlanned    = "planned"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

// Service pricing models
const (
	PriceTypeFixed   = "fixed"
	PriceTypeHourly  = "hourly"
	PriceTypeProject = "project"
	PriceTypeCustom  = "custom"
)

// Contact intake kinds and states
const (
	ContactKindContact = "contact"
	ContactKindQuote   = "quote"

	ContactStatusNew      = "new"
	ContactStatusRead     = "read"
	ContactStatusReplied  = "replied"
	ContactStatusArchived = "archived"
)

// Rate-limit route classes
const (
	RateClassGeneral  = "general"
	RateClassAuth     = "auth"
	RateClassRead     = "read"
	RateClassStrict   = "strict"
	RateClassUpload   = "upload"
	RateClassHeavy    = "heavy"
	RateClassPassword = "password"
)

// Async task names
const (
	TaskEmailVerification    = "email:verification"
	TaskEmailPasswordReset   = "email:password_reset"
	TaskEmailPasswordChanged = "email:password_changed"
	TaskEmailContactNotify   = "email:contact_notify"
	TaskEmailContactReply    = "email:contact_reply"

	QueueDefault = "default"
)

// Upload scenes (cloudinary folder per scene)
const (
	UploadSceneServices     = "services"
	UploadSceneProjects     = "projects"
	UploadSceneBlog         = "blog"
	UploadSceneTestimonials = "testimonials"
	UploadSceneAvatars      = "avatars"
	UploadSceneCommon       = "common"
)
