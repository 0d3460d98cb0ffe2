package models

import "time"

const (
	RoleMusicProducer     = "Music Producer"
	RoleMixingEngineer    = "Mixing Engineer"
	RoleMasteringEngineer = "Mastering Engineer"
	RoleLyricist          = "Lyricist"
)

func IsValidMusicianRole(role string) bool {
	switch role {
	case RoleMusicProducer, RoleMixingEngineer, RoleMasteringEngineer, RoleLyricist:
		return true
	}
	return false
}

type PortfolioLinks struct {
	Spotify    string `json:"spotify"`
	Soundcloud string `json:"soundcloud"`
	Youtube    string `json:"youtube"`
	AppleMusic string `json:"appleMusic"`
}

type MusicianSocial struct {
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Linkedin  string `json:"linkedin"`
}

type ProfileLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type Track struct {
	Title      string `json:"title"`
	Duration   string `json:"duration"`
	AudioURL   string `json:"audioUrl"`
	Key        string `json:"key"`
	UploadDate string `json:"uploadDate"`
}

type Musician struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Public identifier handed to clients, distinct from the row ID.
	UserID string `gorm:"size:36;uniqueIndex;not null" json:"userId"`

	FullName     string `gorm:"size:100;not null" json:"fullName"`
	PhoneNumber  string `gorm:"size:20;not null" json:"phoneNumber"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Country      string `gorm:"size:60;not null" json:"country"`

	Role       string         `gorm:"size:30;not null" json:"role"`
	Genres     []string       `gorm:"serializer:json" json:"genres"`
	Experience string         `gorm:"size:20;not null" json:"experience"`
	Portfolio  PortfolioLinks `gorm:"serializer:json" json:"portfolioLinks"`
	Social     MusicianSocial `gorm:"serializer:json" json:"socialMedia"`

	TermsAgreed bool `gorm:"not null" json:"termsAgreed"`

	ProfileImage MediaRef `gorm:"serializer:json" json:"profileImage"`
	CoverImage   MediaRef `gorm:"serializer:json" json:"coverImage"`

	Tags   []string      `gorm:"serializer:json" json:"tags"`
	About  string        `gorm:"type:text" json:"about"`
	Links  []ProfileLink `gorm:"serializer:json" json:"links"`
	Skills []string      `gorm:"serializer:json" json:"skills"`
	Tools  []string      `gorm:"serializer:json" json:"tools"`

	FeaturedTracks []Track    `gorm:"serializer:json" json:"tracks"`
	GalleryImages  []MediaRef `gorm:"serializer:json" json:"galleryImages"`

	// Bumped on every profile write; stale writers get rejected.
	Version uint `gorm:"default:1" json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
