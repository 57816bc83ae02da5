// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package contact handles booking inquiries sent from the studio website.

Visitors submit inquiries anonymously; the studio works through them by
moving each one along a small status pipeline and keeping private notes.
*/
package contact

import "time"

// # Enums

// ServiceType is the kind of shoot the visitor asks about.
type ServiceType string

const (
	ServiceWedding  ServiceType = "wedding"
	ServicePortrait ServiceType = "portrait"
	ServiceEvent    ServiceType = "event"
	ServiceOther    ServiceType = "other"
)

// normalizeServiceType maps anything unknown to [ServiceOther].
func normalizeServiceType(raw string) ServiceType {
	switch candidate := ServiceType(raw); candidate {
	case ServiceWedding, ServicePortrait, ServiceEvent:
		return candidate
	default:
		return ServiceOther
	}
}

// Status tracks an inquiry through the booking pipeline.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQuoted    Status = "quoted"
	StatusBooked    Status = "booked"
	StatusCompleted Status = "completed"
)

var statusNames = []string{
	string(StatusNew), string(StatusContacted), string(StatusQuoted), string(StatusBooked), string(StatusCompleted),
}

// # Core Entities

// Contact is one inquiry.
type Contact struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Message       string      `json:"message"`
	ServiceType   ServiceType `json:"serviceType"`
	PreferredDate *time.Time  `json:"preferredDate"`
	Status        Status      `json:"status"`
	Notes         *string     `json:"notes"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// # Inputs

// SubmitInput is the public inquiry form.
type SubmitInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message"`
	ServiceType   string `json:"serviceType"`
	PreferredDate string `json:"preferredDate"`
}

// UpdateInput changes the pipeline state. Nil fields are left unchanged;
// an empty Notes string clears the notes.
type UpdateInput struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// Filter narrows the admin listing.
type Filter struct {
	Status Status
}

// # Field Identifiers

const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldPhone         = "phone"
	FieldMessage       = "message"
	FieldStatus        = "status"
	FieldNotes         = "notes"
	maxNameLen         = 100
	maxPhoneLen        = 20
	maxNotesLen        = 500
	maxMessageLen      = 5000
	preferredDateStyle = time.DateOnly
)
