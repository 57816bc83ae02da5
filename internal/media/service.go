// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taibuivan/envision/internal/platform/apperr"
	"github.com/taibuivan/envision/internal/platform/constants"
	"github.com/taibuivan/envision/internal/platform/validate"
	"github.com/taibuivan/envision/pkg/slug"
)

// # Service Layer

// Service orchestrates image ingestion and queries.
//
// Within one call the file is always written before the row, and a failed
// row write removes the file again, so callers see one error and no orphan.
type Service struct {
	repo   Repository
	assets *AssetStore
	logger *slog.Logger
}

// NewService constructs a new media [Service].
func NewService(repo Repository, assets *AssetStore, logger *slog.Logger) *Service {
	return &Service{repo: repo, assets: assets, logger: logger}
}

// # Queries

/*
List returns the images matching filter, ordered for display.

Description: Category is compared in slug form. An unknown section is a
validation error rather than an empty result.
*/
func (service *Service) List(context context.Context, filter Filter) ([]*Image, error) {
	if filter.Section != "" && !filter.Section.Valid() {
		return nil, (&validate.Validator{}).OneOf(FieldSection, string(filter.Section), sectionNames...).Err()
	}
	filter.Category = slug.From(filter.Category)

	images, err := service.repo.List(context, filter)
	if err != nil {
		return nil, err
	}

	sortForDisplay(images)
	return images, nil
}

// Get retrieves one image by id.
func (service *Service) Get(context context.Context, id int64) (*Image, error) {
	return service.repo.FindByID(context, id)
}

// # Ingestion

/*
Upload stores the binary and records it.

Validation happens before anything touches the disk. If the insert fails
the new file is removed before the error is returned.

Returns:
  - *Image: The persisted record
  - error: VALIDATION_ERROR, UNSUPPORTED_MEDIA_TYPE, PAYLOAD_TOO_LARGE or a store error
*/
func (service *Service) Upload(context context.Context, input UploadInput) (*Image, error) {
	image, err := service.fromMetadata(input.Metadata)
	if err != nil {
		return nil, err
	}

	if input.File == nil || input.File.Reader == nil {
		return nil, validate.RequiredError(FieldImage, "No image file provided")
	}

	extension, err := service.checkFile(input.File)
	if err != nil {
		return nil, err
	}

	filePath, err := service.assets.Save(input.File.Reader, extension)
	if err != nil {
		return nil, err
	}
	image.FilePath = &filePath

	if err := service.repo.Insert(context, image); err != nil {
		service.discard(context, filePath)
		return nil, err
	}

	service.logger.InfoContext(context, "image_uploaded",
		slog.Int64("image_id", image.ID),
		slog.String("section", string(image.Section)),
		slog.String("file_path", filePath),
	)

	return image, nil
}

// CreateFromURL records an image hosted elsewhere. No file is written.
func (service *Service) CreateFromURL(context context.Context, input CreateInput) (*Image, error) {
	image, err := service.fromMetadata(input.Metadata)
	if err != nil {
		return nil, err
	}

	rawURL := strings.TrimSpace(input.URL)
	if err := (&validate.Validator{}).Required(FieldURL, rawURL).URL(FieldURL, rawURL).Err(); err != nil {
		return nil, err
	}
	image.ExternalURL = &rawURL

	if err := service.repo.Insert(context, image); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "image_registered",
		slog.Int64("image_id", image.ID),
		slog.String("section", string(image.Section)),
	)

	return image, nil
}

/*
BulkCreate registers each external image independently.

A failed entry is recorded in its result and does not stop the others.
Results are returned in input order.
*/
func (service *Service) BulkCreate(context context.Context, inputs []CreateInput) ([]BulkResult, error) {
	tooMany := len(inputs) > MaxBulkImages
	if err := (&validate.Validator{}).Custom(FieldImages, tooMany, fmt.Sprintf("At most %d images per request", MaxBulkImages)).Err(); err != nil {
		return nil, err
	}

	results := make([]BulkResult, len(inputs))
	failed := 0
	for i, input := range inputs {
		image, err := service.CreateFromURL(context, input)
		results[i] = BulkResult{Image: image, Err: err}
		if err != nil {
			failed++
		}
	}

	service.logger.InfoContext(context, "images_bulk_registered",
		slog.Int("total", len(inputs)),
		slog.Int("failed", failed),
	)

	return results, nil
}

/*
Update applies a partial update.

An empty input returns the current record with changed=false. A replacement
file is written first, then the row; the old file goes only after both
succeed.

Returns:
  - *Image: The record after the update
  - bool: Whether anything was written
  - error: NOT_FOUND, validation or store errors
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Image, bool, error) {
	if err := validateUpdate(input); err != nil {
		return nil, false, err
	}

	var extension string
	if input.File != nil {
		var err error
		if extension, err = service.checkFile(input.File); err != nil {
			return nil, false, err
		}
	}

	image, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, false, err
	}

	if input.Empty() {
		return image, false, nil
	}

	applyUpdate(image, input)

	locatorCheck := (&validate.Validator{}).Custom(FieldURL, input.File == nil && !image.HasLocator(), "An image must keep a file or an external URL")
	if err := locatorCheck.Err(); err != nil {
		return nil, false, err
	}

	var previousFile, newFile string
	if input.File != nil {
		if image.Uploaded() {
			previousFile = *image.FilePath
		}
		if newFile, err = service.assets.Save(input.File.Reader, extension); err != nil {
			return nil, false, err
		}
		image.FilePath = &newFile
	}

	if err := service.repo.Update(context, image); err != nil {
		if newFile != "" {
			service.discard(context, newFile)
		}
		return nil, false, err
	}

	if previousFile != "" {
		service.discard(context, previousFile)
	}

	service.logger.InfoContext(context, "image_updated",
		slog.Int64("image_id", image.ID),
		slog.Bool("file_replaced", newFile != ""),
	)

	return image, true, nil
}

/*
Delete removes the record, then its file.

The row is authoritative: a file that cannot be removed is logged and the
delete still succeeds.
*/
func (service *Service) Delete(context context.Context, id int64) error {
	filePath, err := service.repo.Delete(context, id)
	if err != nil {
		return err
	}

	if filePath != nil && *filePath != "" {
		service.discard(context, *filePath)
	}

	service.logger.InfoContext(context, "image_deleted", slog.Int64("image_id", id))
	return nil
}

// # Helpers

// fromMetadata validates shared fields and builds an unsaved image.
func (service *Service) fromMetadata(metadata Metadata) (*Image, error) {
	section := Section(strings.TrimSpace(metadata.Section))
	if section == "" {
		section = DefaultSection
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldSection, string(section), sectionNames...)
	validateText(validator, metadata.Title, metadata.Subtitle)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return &Image{
		Title:        trimmed(metadata.Title),
		Subtitle:     trimmed(metadata.Subtitle),
		Description:  trimmed(metadata.Description),
		Section:      section,
		Category:     slug.From(metadata.Category),
		Active:       metadata.Active,
		DisplayOrder: metadata.DisplayOrder,
	}, nil
}

/*
checkFile enforces the extension and MIME allow-lists and the declared size.
The declared type must match the extension.

Returns:
  - string: Lowercased extension to store the file under
*/
func (service *Service) checkFile(file *File) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	expected, ok := constants.AllowedImageExtensions[extension]
	if !ok {
		return "", apperr.UnsupportedMediaType("Only JPEG, PNG, GIF and WebP images are allowed")
	}

	mediaType, _, err := mime.ParseMediaType(file.ContentType)
	if err != nil {
		return "", apperr.UnsupportedMediaType("Only JPEG, PNG, GIF and WebP images are allowed")
	}

	declared, ok := constants.AllowedImageMIMETypes[strings.ToLower(mediaType)]
	if !ok {
		return "", apperr.UnsupportedMediaType("Only JPEG, PNG, GIF and WebP images are allowed")
	}
	if declared != expected {
		return "", apperr.UnsupportedMediaType("File extension does not match its content type")
	}

	if file.Size > service.assets.MaxBytes() {
		return "", apperr.PayloadTooLarge(service.assets.MaxBytes())
	}

	return extension, nil
}

// discard removes a file best-effort.
func (service *Service) discard(context context.Context, filePath string) {
	if err := service.assets.Remove(filePath); err != nil {
		service.logger.ErrorContext(context, "image_file_cleanup_failed",
			slog.String("file_path", filePath),
			slog.Any("error", err),
		)
	}
}

func validateUpdate(input UpdateInput) error {
	validator := &validate.Validator{}

	if input.Section != nil {
		validator.OneOf(FieldSection, *input.Section, sectionNames...)
	}
	if input.ExternalURL != nil && *input.ExternalURL != "" {
		validator.URL(FieldURL, strings.TrimSpace(*input.ExternalURL))
	}
	validateText(validator, input.Title, input.Subtitle)

	return validator.Err()
}

func validateText(validator *validate.Validator, title, subtitle *string) {
	if title != nil {
		validator.MaxLen(FieldTitle, *title, maxTextLen)
	}
	if subtitle != nil {
		validator.MaxLen(FieldSubtitle, *subtitle, maxTextLen)
	}
}

func applyUpdate(image *Image, input UpdateInput) {
	if input.Title != nil {
		image.Title = trimmed(input.Title)
	}
	if input.Subtitle != nil {
		image.Subtitle = trimmed(input.Subtitle)
	}
	if input.Description != nil {
		image.Description = trimmed(input.Description)
	}
	if input.Section != nil {
		image.Section = Section(*input.Section)
	}
	if input.Category != nil {
		image.Category = slug.From(*input.Category)
	}
	if input.Active != nil {
		image.Active = *input.Active
	}
	if input.DisplayOrder != nil {
		image.DisplayOrder = *input.DisplayOrder
	}
	if input.ExternalURL != nil {
		image.ExternalURL = trimmed(input.ExternalURL)
	}
}

// trimmed returns nil for absent or blank text.
func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	text := strings.TrimSpace(*value)
	if text == "" {
		return nil
	}
	return &text
}

// sortForDisplay orders by display_order ASC, created_at DESC, id DESC.
func sortForDisplay(images []*Image) {
	slices.SortStableFunc(images, func(a, b *Image) int {
		if c := cmp.Compare(a.DisplayOrder, b.DisplayOrder); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
