package models

import "time"

type StudioSocial struct {
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Website   string `json:"website"`
}

type GearCategory struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type BookingSettings struct {
	HourlyRate      float64 `json:"hourlyRate"`
	MinimumDuration int     `json:"minimumDuration"`
}

// AvailabilityDay holds the bookable and blocked slots for a single ISO
// date. A studio keeps at most one entry per date.
type AvailabilityDay struct {
	Date        string   `json:"date"`
	Slots       []string `json:"slots"`
	Unavailable []string `json:"unavailable"`
}

type Studio struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StudioName   string `gorm:"size:100;uniqueIndex;not null" json:"studioName"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	PhoneNumber string  `gorm:"size:20;not null" json:"phoneNumber"`
	Country     string  `gorm:"size:60;not null" json:"country"`
	Address     string  `gorm:"size:255;not null" json:"address"`
	City        string  `gorm:"size:100;not null" json:"city"`
	PostalCode  string  `gorm:"size:20;not null" json:"postalCode"`
	HourlyRate  float64 `json:"hourlyRate"`

	StudioDescription string       `gorm:"type:text" json:"studioDescription"`
	Social            StudioSocial `gorm:"serializer:json" json:"socialMedia"`

	TermsAgreed      bool      `gorm:"default:false" json:"termsAgreed"`
	RegistrationDate time.Time `gorm:"autoCreateTime" json:"registrationDate"`
	RefreshToken     string    `gorm:"size:512" json:"-"`

	Services []string `gorm:"serializer:json" json:"services"`
	Features []string `gorm:"serializer:json" json:"features"`

	StudioImages      []MediaRef `gorm:"serializer:json" json:"studioImages"`
	HasUploadedImages bool       `gorm:"default:false" json:"hasUploadedImages"`

	StudioGear      []GearCategory    `gorm:"serializer:json" json:"studioGear"`
	BookingSettings BookingSettings   `gorm:"serializer:json" json:"bookingSettings"`
	Availability    []AvailabilityDay `gorm:"serializer:json" json:"availability"`

	Version uint `gorm:"default:1" json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
