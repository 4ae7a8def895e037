package model

import "time"

// SliderImage is a home-page hero slide.
type SliderImage struct {
	ID        int64     `json:"id" db:"id"`
	Region    string    `json:"region" db:"region"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Caption   string    `json:"caption" db:"caption"`
	LinkURL   string    `json:"link_url" db:"link_url"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// GalleryImage is a portfolio/gallery item.
type GalleryImage struct {
	ID        int64     `json:"id" db:"id"`
	Region    string    `json:"region" db:"region"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	ThumbURL  string    `json:"thumb_url" db:"thumb_url"`
	Title     string    `json:"title" db:"title"`
	Category  string    `json:"category" db:"category"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Logo is a client/partner logo shown on the site.
type Logo struct {
	ID        int64     `json:"id" db:"id"`
	Region    string    `json:"region" db:"region"`
	Name      string    `json:"name" db:"name"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Service is a marketed service offering.
type Service struct {
	ID          int64     `json:"id" db:"id"`
	Region      string    `json:"region" db:"region"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	IconURL     string    `json:"icon_url" db:"icon_url"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TeamMember is a staff profile.
type TeamMember struct {
	ID        int64     `json:"id" db:"id"`
	Region    string    `json:"region" db:"region"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	PhotoURL  string    `json:"photo_url" db:"photo_url"`
	Bio       string    `json:"bio" db:"bio"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PageContent is a free-form text block keyed by page and section.
type PageContent struct {
	ID        int64     `json:"id" db:"id"`
	Region    string    `json:"region" db:"region"`
	Page      string    `json:"page" db:"page"`
	Section   string    `json:"section" db:"section"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SectionImage is an image slot attached to a page section.
type SectionImage struct {
	ID        int64     `json:"id" db:"id"`
	Region    string    `json:"region" db:"region"`
	Page      string    `json:"page" db:"page"`
	Section   string    `json:"section" db:"section"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	AltText   string    `json:"alt_text" db:"alt_text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
