// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/envision/internal/platform/validate"
	"github.com/taibuivan/envision/pkg/pagination"
)

// Service orchestrates inquiry submission and administration.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new contact [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
Submit validates and stores a public inquiry.

Description: Email is lower-cased, an unknown service type becomes "other"
and an unparseable preferred date is dropped rather than rejected.
*/
func (service *Service) Submit(context context.Context, input SubmitInput) (*Contact, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	phone := strings.TrimSpace(input.Phone)
	message := strings.TrimSpace(input.Message)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, maxNameLen)
	validator.Required(FieldEmail, email)
	if email != "" {
		validator.Email(FieldEmail, email)
	}
	validator.MaxLen(FieldPhone, phone, maxPhoneLen)
	validator.Required(FieldMessage, message).MaxLen(FieldMessage, message, maxMessageLen)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	contact := &Contact{
		Name:          name,
		Email:         email,
		Phone:         phone,
		Message:       message,
		ServiceType:   normalizeServiceType(strings.ToLower(strings.TrimSpace(input.ServiceType))),
		PreferredDate: parsePreferredDate(input.PreferredDate),
		Status:        StatusNew,
	}

	if err := service.repo.Insert(context, contact); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "contact_submitted",
		slog.Int64("contact_id", contact.ID),
		slog.String("service_type", string(contact.ServiceType)),
	)

	return contact, nil
}

// List returns one page of inquiries, newest first.
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Contact, pagination.Meta, error) {
	if filter.Status != "" {
		if err := (&validate.Validator{}).OneOf(FieldStatus, string(filter.Status), statusNames...).Err(); err != nil {
			return nil, pagination.Meta{}, err
		}
	}

	contacts, total, err := service.repo.List(context, filter, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return contacts, pagination.NewMeta(params, total), nil
}

// Get retrieves one inquiry.
func (service *Service) Get(context context.Context, id int64) (*Contact, error) {
	return service.repo.FindByID(context, id)
}

/*
Update moves an inquiry along the pipeline or edits its notes.

Returns the current record unchanged when no field is given.
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Contact, error) {
	validator := &validate.Validator{}
	if input.Status != nil {
		validator.OneOf(FieldStatus, *input.Status, statusNames...)
	}
	if input.Notes != nil {
		validator.MaxLen(FieldNotes, strings.TrimSpace(*input.Notes), maxNotesLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	contact, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Status == nil && input.Notes == nil {
		return contact, nil
	}

	if input.Status != nil {
		contact.Status = Status(*input.Status)
	}
	if input.Notes != nil {
		contact.Notes = nil
		if notes := strings.TrimSpace(*input.Notes); notes != "" {
			contact.Notes = &notes
		}
	}

	if err := service.repo.Update(context, contact); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "contact_updated",
		slog.Int64("contact_id", contact.ID),
		slog.String("status", string(contact.Status)),
	)

	return contact, nil
}

// parsePreferredDate accepts a calendar date or a full RFC 3339 timestamp.
func parsePreferredDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range []string{preferredDateStyle, time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			date := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			return &date
		}
	}
	return nil
}
