package repository

import "time"

// UserListFilter filters the admin user list.
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	IsActive    *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ServiceListFilter filters the service catalog list.
type ServiceListFilter struct {
	Page         int
	PageSize     int
	Search       string
	PriceType    string
	OnlyActive   bool
	OnlyFeatured bool
	OrderBy      string
}

// ProjectListFilter filters the project portfolio list.
type ProjectListFilter struct {
	Page         int
	PageSize     int
	Search       string
	Status       string
	ServiceID    uint
	OnlyFeatured bool
	WithService  bool
	OrderBy      string
}

// BlogListFilter filters the blog post list.
type BlogListFilter struct {
	Page          int
	PageSize      int
	Search        string
	Status        string
	Tag           string
	AuthorID      string
	OnlyPublished bool
	WithAuthor    bool
	OrderBy       string
}

// TestimonialListFilter filters the testimonial list.
type TestimonialListFilter struct {
	Page         int
	PageSize     int
	Search       string
	IsApproved   *bool
	MinRating    int
	OnlyApproved bool
}

// ContactListFilter filters the contact/quote inbox.
type ContactListFilter struct {
	Page        int
	PageSize    int
	Kind        string
	Status      string
	Search      string
	ServiceID   uint
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
