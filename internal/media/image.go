// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package media manages the studio's site images.

It owns both halves of an image: the binary in the upload directory and the
record in the site_images table. Every mutation keeps them consistent.

# Core Responsibility

  - Ingestion: Upload, external URL registration, partial update and delete.
  - Query: Filtered, deterministically ordered listings for the public site.
  - Storage: Collision-free file naming with compensation on failed inserts.
*/
package media

import (
	"io"
	"time"
)

// # Section Enum

// Section is the page area an image belongs to.
type Section string

const (
	SectionHero      Section = "hero"
	SectionGallery   Section = "gallery"
	SectionAbout     Section = "about"
	SectionServices  Section = "services"
	SectionPortfolio Section = "portfolio"
	SectionInstagram Section = "instagram"
)

// DefaultSection is applied to uploads that do not name one.
const DefaultSection = SectionGallery

// Sections lists every accepted section in display order.
var Sections = []Section{
	SectionHero, SectionGallery, SectionAbout, SectionServices, SectionPortfolio, SectionInstagram,
}

// sectionNames is the string form of [Sections] for validation messages.
var sectionNames = func() []string {
	names := make([]string, len(Sections))
	for i, section := range Sections {
		names[i] = string(section)
	}
	return names
}()

// Valid reports whether s is one of the fixed sections.
func (s Section) Valid() bool {
	for _, section := range Sections {
		if s == section {
			return true
		}
	}
	return false
}

// # Core Entities

// Image is one row of site_images.
//
// Exactly one of FilePath or ExternalURL is authoritative. When both are set
// the uploaded file wins.
type Image struct {
	ID           int64     `json:"id"`
	Title        *string   `json:"title,omitempty"`
	Subtitle     *string   `json:"subtitle,omitempty"`
	Description  *string   `json:"description,omitempty"`
	FilePath     *string   `json:"filePath,omitempty"`
	ExternalURL  *string   `json:"externalUrl,omitempty"`
	Section      Section   `json:"section"`
	Category     string    `json:"category"`
	Active       bool      `json:"active"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Uploaded reports whether the image is backed by a file this service owns.
func (image *Image) Uploaded() bool {
	return image.FilePath != nil && *image.FilePath != ""
}

// HasLocator reports whether the image points at any binary at all.
func (image *Image) HasLocator() bool {
	return image.Uploaded() || (image.ExternalURL != nil && *image.ExternalURL != "")
}

// # Search & Filtering

// Filter narrows a listing. Empty fields match everything.
type Filter struct {
	Section    Section
	Category   string
	ActiveOnly bool
}

// # Inputs

// Metadata carries the descriptive fields shared by every creation path.
type Metadata struct {
	Title        *string
	Subtitle     *string
	Description  *string
	Section      string
	Category     string
	DisplayOrder int
	Active       bool
}

// File is an image binary as received from the client.
type File struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	// Size is the declared size, or -1 when unknown.
	Size int64
}

// UploadInput creates an image from an uploaded binary.
type UploadInput struct {
	Metadata
	File *File
}

// CreateInput registers an image hosted elsewhere.
type CreateInput struct {
	Metadata
	URL string
}

// BulkResult is the outcome of one entry of [Service.BulkCreate].
// Exactly one of Image or Err is set.
type BulkResult struct {
	Image *Image
	Err   error
}

// UpdateInput is a partial update. Nil fields are left unchanged.
type UpdateInput struct {
	Title        *string
	Subtitle     *string
	Description  *string
	Section      *string
	Category     *string
	Active       *bool
	DisplayOrder *int
	// ExternalURL set to "" clears the external locator.
	ExternalURL *string
	File        *File
}

// Empty reports whether the update carries no field at all.
func (input UpdateInput) Empty() bool {
	return input.Title == nil && input.Subtitle == nil && input.Description == nil &&
		input.Section == nil && input.Category == nil && input.Active == nil &&
		input.DisplayOrder == nil && input.ExternalURL == nil && input.File == nil
}

// # Field Identifiers

const (
	FieldImage        = "image"
	FieldImages       = "images"
	FieldURL          = "url"
	FieldTitle        = "title"
	FieldSubtitle     = "subtitle"
	FieldDescription  = "description"
	FieldSection      = "section"
	FieldCategory     = "category"
	FieldActive       = "active"
	FieldActiveOnly   = "activeOnly"
	FieldDisplayOrder = "displayOrder"
)

// maxTextLen bounds title and subtitle.
const maxTextLen = 255

// MaxBulkImages bounds one bulk registration request.
const MaxBulkImages = 50
