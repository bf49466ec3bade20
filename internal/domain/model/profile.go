package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyLinkURL       = errors.New("link url cannot be empty")
	ErrEmptyCompanyName   = errors.New("work experience company name cannot be empty")
	ErrEmptyInstitution   = errors.New("education institution name cannot be empty")
	ErrEmptyMediaURL      = errors.New("media url cannot be empty")
	ErrEmptySnippetCode   = errors.New("code snippet cannot be empty")
	ErrInvalidDateRange   = errors.New("end date is before start date")
	ErrEmptyPicture       = errors.New("picture cannot be empty")
	ErrUnsupportedPicture = errors.New("picture must be an image")
)

// MaxPictureSize is the largest accepted profile picture in bytes.
const MaxPictureSize = 5 << 20

// Profile is a user's portfolio page.
type Profile struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	FirstName          *string
	LastName           *string
	Bio                *string
	ElevatorPitch      *string
	BusinessEmail      *string
	PhoneNumber        *string
	PictureKey         *string
	PictureContentType *string

	Links           []Link
	WorkExperiences []WorkExperience
	Educations      []Education
	Media           []Media
	CodeSnippets    []CodeSnippet
}

// HasPicture reports whether a picture has been uploaded.
func (p *Profile) HasPicture() bool {
	return p.PictureKey != nil && *p.PictureKey != ""
}

type Link struct {
	ID       uuid.UUID
	LinkType string
	URL      string
}

type WorkExperience struct {
	ID          uuid.UUID
	CompanyName string
	Role        string
	StartDate   time.Time
	EndDate     *time.Time
	Description *string
}

type Education struct {
	ID              uuid.UUID
	InstitutionName string
	Degree          string
	FieldOfStudy    string
	StartDate       time.Time
	EndDate         *time.Time
	Description     *string
}

type Media struct {
	ID          uuid.UUID
	MediaType   string
	URL         string
	Title       *string
	Description *string
}

type CodeSnippet struct {
	ID       uuid.UUID
	Title    string
	Code     string
	Language string
}

// PublicProfile is the summary shown in the public directory.
type PublicProfile struct {
	UserID        uuid.UUID
	FirstName     *string
	LastName      *string
	Bio           *string
	ElevatorPitch *string
}

// Validate checks the profile and its sub-records before they are persisted.
func (p *Profile) Validate() error {
	if p.UserID == uuid.Nil {
		return ErrInvalidUserID
	}
	for _, l := range p.Links {
		if l.URL == "" {
			return ErrEmptyLinkURL
		}
	}
	for _, w := range p.WorkExperiences {
		if w.CompanyName == "" {
			return ErrEmptyCompanyName
		}
		if w.EndDate != nil && w.EndDate.Before(w.StartDate) {
			return ErrInvalidDateRange
		}
	}
	for _, e := range p.Educations {
		if e.InstitutionName == "" {
			return ErrEmptyInstitution
		}
		if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
			return ErrInvalidDateRange
		}
	}
	for _, m := range p.Media {
		if m.URL == "" {
			return ErrEmptyMediaURL
		}
	}
	for _, s := range p.CodeSnippets {
		if s.Code == "" {
			return ErrEmptySnippetCode
		}
	}
	return nil
}

// ProfilePictureKey returns the object key under which a user's picture is stored.
func ProfilePictureKey(userID uuid.UUID) string {
	return "profile-pictures/" + userID.String()
}

// MediaTypeImage marks gallery media uploaded through the API.
const MediaTypeImage = "image"

// ProfileMediaKey returns the object key of an uploaded gallery item.
func ProfileMediaKey(userID, mediaID uuid.UUID) string {
	return "profile-media/" + userID.String() + "/" + mediaID.String()
}

// ProfileMediaURL is the API path that serves an uploaded gallery item.
func ProfileMediaURL(userID, mediaID uuid.UUID) string {
	return "/v1/profiles/" + userID.String() + "/media/" + mediaID.String()
}
