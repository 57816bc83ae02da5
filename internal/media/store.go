// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import "context"

// # Image Data Access

// Repository defines the data access contract for site images.
type Repository interface {

	/*
		List returns the images matching filter, ordered for display.

		Returns:
		  - []*Image: display_order ASC, created_at DESC, id DESC
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter) ([]*Image, error)

	/*
		FindByID retrieves a single image.

		Returns:
		  - error: NOT_FOUND if missing
	*/
	FindByID(context context.Context, id int64) (*Image, error)

	/*
		Insert persists a new image and fills in ID, CreatedAt and UpdatedAt.
	*/
	Insert(context context.Context, image *Image) error

	/*
		Update writes every mutable column of image and refreshes UpdatedAt.

		Returns:
		  - error: NOT_FOUND if the row vanished
	*/
	Update(context context.Context, image *Image) error

	/*
		Delete removes the row and returns the file path it referenced, if any.

		Returns:
		  - *string: Owned file path, nil for external images
		  - error: NOT_FOUND if missing
	*/
	Delete(context context.Context, id int64) (*string, error)
}
