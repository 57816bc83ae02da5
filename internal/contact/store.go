// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import "context"

// Repository defines the data access contract for inquiries.
type Repository interface {
	// Insert persists a new inquiry and fills in ID, Status and timestamps.
	Insert(context context.Context, contact *Contact) error

	// List returns a page of inquiries, newest first, and the total match count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Contact, int, error)

	// FindByID retrieves one inquiry or NOT_FOUND.
	FindByID(context context.Context, id int64) (*Contact, error)

	// Update writes status and notes and refreshes UpdatedAt.
	Update(context context.Context, contact *Contact) error
}
