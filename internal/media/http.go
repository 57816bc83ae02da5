// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/envision/internal/platform/apperr"
	"github.com/taibuivan/envision/internal/platform/constants"
	"github.com/taibuivan/envision/internal/platform/ctxutil"
	"github.com/taibuivan/envision/internal/platform/middleware"
	requestutil "github.com/taibuivan/envision/internal/platform/request"
	"github.com/taibuivan/envision/internal/platform/respond"
	"github.com/taibuivan/envision/internal/platform/validate"
)

// # Response Views

// View is the public JSON shape of an image. URL is fully qualified.
type View struct {
	ID           int64     `json:"id"`
	URL          string    `json:"url"`
	Title        *string   `json:"title,omitempty"`
	Subtitle     *string   `json:"subtitle,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Section      Section   `json:"section"`
	Category     string    `json:"category,omitempty"`
	Active       bool      `json:"active"`
	DisplayOrder int       `json:"displayOrder"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// # Handler Implementation

// Handler implements the HTTP layer for site images.
type Handler struct {
	service       *Service
	maxBodyBytes  int64
	publicBaseURL string
}

// NewHandler constructs a new media [Handler].
//
// publicBaseURL, when set, replaces the request-derived scheme and host in
// resolved URLs.
func NewHandler(service *Service, publicBaseURL string) *Handler {
	return &Handler{
		service:       service,
		maxBodyBytes:  service.assets.MaxBytes() + constants.UploadFormOverhead,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}
}

// Routes returns a [chi.Router] configured with image endpoints.
// Mutations require the admin role.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public
	router.Get("/", handler.listImages)
	router.Get("/{id}", handler.getImage)

	// ## Administrative
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireAdmin)
		admin.Post("/upload", handler.uploadImage)
		admin.Post("/", handler.createImage)
		admin.Post("/bulk", handler.bulkCreateImages)
		admin.Patch("/{id}", handler.updateImage)
		admin.Delete("/{id}", handler.deleteImage)
	})

	return router
}

// # Image Endpoints

/*
GET /api/images.

Request:
  - section: string (optional)
  - category: string (optional)
  - activeOnly: bool (default true; false requires admin)

Response:
  - 200: []View
  - 400: Unknown section or malformed activeOnly
*/
func (handler *Handler) listImages(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	filter := Filter{
		Section:    Section(strings.TrimSpace(query.Get(FieldSection))),
		Category:   query.Get(FieldCategory),
		ActiveOnly: true,
	}

	if raw := query.Get(FieldActiveOnly); raw != "" {
		activeOnly, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("Invalid query", apperr.FieldError{
				Field: FieldActiveOnly, Message: "Must be true or false",
			}))
			return
		}
		filter.ActiveOnly = activeOnly
	}

	if !filter.ActiveOnly && !ctxutil.IsAdmin(request.Context()) {
		respond.Error(writer, request, apperr.Unauthorized("Listing inactive images requires admin access"))
		return
	}

	images, err := handler.service.List(request.Context(), filter)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	views := make([]View, 0, len(images))
	for _, image := range images {
		views = append(views, handler.view(request, image))
	}

	respond.OK(writer, views)
}

/*
GET /api/images/{id}.

Response:
  - 200: View
  - 404: Image not found
*/
func (handler *Handler) getImage(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !image.Active && !ctxutil.IsAdmin(request.Context()) {
		respond.Error(writer, request, apperr.NotFound(resourceImage))
		return
	}

	respond.OK(writer, handler.view(request, image))
}

/*
POST /api/images/upload.

Request (multipart/form-data):
  - image: file (required)
  - title, subtitle, description, section, category: text
  - displayOrder: int, active: bool (default true)

Response:
  - 201: View
  - 400: Missing file, bad metadata or unsupported type
  - 413: File over the upload ceiling
  - 503: Storage unavailable
*/
func (handler *Handler) uploadImage(writer http.ResponseWriter, request *http.Request) {
	if err := handler.parseMultipart(writer, request); err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	metadata, err := metadataFromForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	file, closeFile, err := fileFromForm(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if file == nil {
		respond.Error(writer, request, apperr.ValidationError("No image file provided", apperr.FieldError{
			Field: FieldImage, Message: "This field is required",
		}))
		return
	}
	defer closeFile()

	image, err := handler.service.Upload(request.Context(), UploadInput{Metadata: metadata, File: file})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.view(request, image))
}

// createPayload is the JSON body of POST /api/images.
type createPayload struct {
	URL          string  `json:"url"`
	Title        *string `json:"title"`
	Subtitle     *string `json:"subtitle"`
	Description  *string `json:"description"`
	Section      string  `json:"section"`
	Category     string  `json:"category"`
	DisplayOrder int     `json:"displayOrder"`
	Active       *bool   `json:"active"`
}

// input converts the payload. Active defaults to true.
func (payload createPayload) input() CreateInput {
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	return CreateInput{
		URL: payload.URL,
		Metadata: Metadata{
			Title:        payload.Title,
			Subtitle:     payload.Subtitle,
			Description:  payload.Description,
			Section:      payload.Section,
			Category:     payload.Category,
			DisplayOrder: payload.DisplayOrder,
			Active:       active,
		},
	}
}

/*
POST /api/images.

Description: Registers an externally hosted image.

Response:
  - 201: View
  - 400: Invalid JSON, URL or metadata
*/
func (handler *Handler) createImage(writer http.ResponseWriter, request *http.Request) {
	var payload createPayload
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	image, err := handler.service.CreateFromURL(request.Context(), payload.input())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, handler.view(request, image))
}

// bulkPayload is the JSON body of POST /api/images/bulk.
type bulkPayload struct {
	Images []createPayload `json:"images"`
}

// bulkResultView reports one entry of a bulk registration.
type bulkResultView struct {
	Success bool                `json:"success"`
	ID      int64               `json:"id,omitempty"`
	URL     string              `json:"url,omitempty"`
	Error   string              `json:"error,omitempty"`
	Code    string              `json:"code,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

/*
POST /api/images/bulk.

Description: Registers several external images. Each entry succeeds or fails
on its own.

Response:
  - 201: []bulkResultView in request order
  - 400: Invalid JSON, missing images array or too many entries
*/
func (handler *Handler) bulkCreateImages(writer http.ResponseWriter, request *http.Request) {
	var payload bulkPayload
	if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if payload.Images == nil {
		respond.Error(writer, request, validate.RequiredError(FieldImages, "images array is required"))
		return
	}

	inputs := make([]CreateInput, len(payload.Images))
	for i, entry := range payload.Images {
		inputs[i] = entry.input()
	}

	results, err := handler.service.BulkCreate(request.Context(), inputs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	views := make([]bulkResultView, len(results))
	for i, result := range results {
		if result.Err != nil {
			failure := apperr.As(result.Err)
			if failure == nil {
				failure = apperr.Internal(result.Err)
			}
			views[i] = bulkResultView{Error: failure.Message, Code: failure.Code, Details: failure.Details}
			continue
		}
		views[i] = bulkResultView{Success: true, ID: result.Image.ID, URL: handler.resolveURL(request, result.Image)}
	}

	respond.CreatedMessage(writer, fmt.Sprintf("Processed %d images", len(results)), views)
}

// updatePayload is the JSON body of PATCH /api/images/{id}.
type updatePayload struct {
	Title        *string `json:"title"`
	Subtitle     *string `json:"subtitle"`
	Description  *string `json:"description"`
	Section      *string `json:"section"`
	Category     *string `json:"category"`
	Active       *bool   `json:"active"`
	DisplayOrder *int    `json:"displayOrder"`
	URL          *string `json:"url"`
}

/*
PATCH /api/images/{id}.

Description: Partial update from JSON or multipart (multipart may carry a
replacement file). An empty body answers "Nothing to update".

Response:
  - 200: View
  - 404: Image not found
*/
func (handler *Handler) updateImage(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateInput

	if isMultipart(request) {
		if err := handler.parseMultipart(writer, request); err != nil {
			respond.Error(writer, request, err)
			return
		}
		defer func() { _ = request.MultipartForm.RemoveAll() }()

		if input, err = updateFromForm(request); err != nil {
			respond.Error(writer, request, err)
			return
		}

		file, closeFile, err := fileFromForm(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		if file != nil {
			defer closeFile()
			input.File = file
		}
	} else {
		var payload updatePayload
		if err := requestutil.DecodeJSON(writer, request, &payload); err != nil {
			respond.Error(writer, request, err)
			return
		}
		input = UpdateInput{
			Title:        payload.Title,
			Subtitle:     payload.Subtitle,
			Description:  payload.Description,
			Section:      payload.Section,
			Category:     payload.Category,
			Active:       payload.Active,
			DisplayOrder: payload.DisplayOrder,
			ExternalURL:  payload.URL,
		}
	}

	image, changed, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Image updated"
	if !changed {
		message = "Nothing to update"
	}
	respond.OKMessage(writer, message, handler.view(request, image))
}

/*
DELETE /api/images/{id}.

Response:
  - 200: Deleted
  - 404: Image not found
*/
func (handler *Handler) deleteImage(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, "Image deleted", map[string]int64{"id": id})
}

// # Multipart Helpers

// parseMultipart caps the body and parses the form. Oversized bodies map to 413.
func (handler *Handler) parseMultipart(writer http.ResponseWriter, request *http.Request) error {
	request.Body = http.MaxBytesReader(writer, request.Body, handler.maxBodyBytes)

	if err := request.ParseMultipartForm(constants.UploadFormOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.PayloadTooLarge(handler.service.assets.MaxBytes())
		}
		return apperr.ValidationError("Invalid multipart form")
	}
	return nil
}

func isMultipart(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// fileFromForm opens the "image" part. It returns a nil file when absent.
func fileFromForm(request *http.Request) (*File, func(), error) {
	part, header, err := request.FormFile(constants.UploadFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, apperr.ValidationError("Invalid image part")
	}

	file := &File{
		Reader:      part,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}
	return file, func() { _ = part.Close() }, nil
}

func metadataFromForm(request *http.Request) (Metadata, error) {
	form := request.MultipartForm.Value

	metadata := Metadata{
		Title:       formText(form, FieldTitle),
		Subtitle:    formText(form, FieldSubtitle),
		Description: formText(form, FieldDescription),
		Section:     request.FormValue(FieldSection),
		Category:    request.FormValue(FieldCategory),
		Active:      true,
	}

	var err error
	if value := formText(form, FieldDisplayOrder); value != nil {
		if metadata.DisplayOrder, err = formInt(FieldDisplayOrder, *value); err != nil {
			return metadata, err
		}
	}
	if value := formText(form, FieldActive); value != nil {
		if metadata.Active, err = formBool(FieldActive, *value); err != nil {
			return metadata, err
		}
	}

	return metadata, nil
}

// updateFromForm takes only the fields present in the form.
func updateFromForm(request *http.Request) (UpdateInput, error) {
	form := request.MultipartForm.Value

	input := UpdateInput{
		Title:       formText(form, FieldTitle),
		Subtitle:    formText(form, FieldSubtitle),
		Description: formText(form, FieldDescription),
		Section:     formText(form, FieldSection),
		Category:    formText(form, FieldCategory),
		ExternalURL: formText(form, FieldURL),
	}

	if value := formText(form, FieldDisplayOrder); value != nil {
		order, err := formInt(FieldDisplayOrder, *value)
		if err != nil {
			return input, err
		}
		input.DisplayOrder = &order
	}
	if value := formText(form, FieldActive); value != nil {
		active, err := formBool(FieldActive, *value)
		if err != nil {
			return input, err
		}
		input.Active = &active
	}

	return input, nil
}

// formText returns a pointer to the first value of key, or nil when the key is absent.
func formText(form map[string][]string, key string) *string {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}

func formInt(field, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperr.ValidationError("Invalid form field", apperr.FieldError{Field: field, Message: "Must be an integer"})
	}
	return value, nil
}

func formBool(field, raw string) (bool, error) {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, apperr.ValidationError("Invalid form field", apperr.FieldError{Field: field, Message: "Must be true or false"})
	}
	return value, nil
}

// # URL Resolution

// view resolves the image locator against the request origin.
func (handler *Handler) view(request *http.Request, image *Image) View {
	return View{
		ID:           image.ID,
		URL:          handler.resolveURL(request, image),
		Title:        image.Title,
		Subtitle:     image.Subtitle,
		Description:  image.Description,
		Section:      image.Section,
		Category:     image.Category,
		Active:       image.Active,
		DisplayOrder: image.DisplayOrder,
		CreatedAt:    image.CreatedAt,
		UpdatedAt:    image.UpdatedAt,
	}
}

// resolveURL prefers the uploaded file. External URLs pass through unchanged.
func (handler *Handler) resolveURL(request *http.Request, image *Image) string {
	if image.Uploaded() {
		return handler.origin(request) + *image.FilePath
	}
	if image.ExternalURL != nil {
		return *image.ExternalURL
	}
	return ""
}

// origin is PUBLIC_BASE_URL when configured, else scheme://host of the request
// honouring X-Forwarded-Proto and X-Forwarded-Host.
func (handler *Handler) origin(request *http.Request) string {
	if handler.publicBaseURL != "" {
		return handler.publicBaseURL
	}

	scheme := "http"
	if request.TLS != nil {
		scheme = "https"
	}
	if forwarded := firstHeaderValue(request, constants.HeaderXForwardedProto); forwarded != "" {
		scheme = strings.ToLower(forwarded)
	}

	host := request.Host
	if forwarded := firstHeaderValue(request, constants.HeaderXForwardedHost); forwarded != "" {
		host = forwarded
	}

	return scheme + "://" + host
}

func firstHeaderValue(request *http.Request, name string) string {
	value, _, _ := strings.Cut(request.Header.Get(name), ",")
	return strings.TrimSpace(value)
}
