// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/envision/internal/platform/database/schema"
	"github.com/taibuivan/envision/internal/platform/dberr"
)

const resourceImage = "Image"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed image store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var imageColumns = strings.Join(schema.SiteImages.Columns(), ", ")

// # Image Retrieval

// List returns filtered images in display order.
func (repository *PostgresRepository) List(context context.Context, filter Filter) ([]*Image, error) {
	query, args := listQuery(filter)

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}
	defer rows.Close()

	images := []*Image{}
	for rows.Next() {
		image, err := scanImage(rows)
		if err != nil {
			return nil, dberr.Wrap(err, resourceImage)
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}

	return images, nil
}

/*
listQuery builds the SELECT for [PostgresRepository.List].

Description: Builds the WHERE clause from the non-empty filter fields.
The id tiebreak keeps pages stable when timestamps collide.
*/
func listQuery(filter Filter) (string, []any) {
	t := schema.SiteImages

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("SELECT %s FROM %s WHERE TRUE", imageColumns, t.Table))

	args := []any{}
	argID := 1

	if filter.ActiveOnly {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = TRUE", t.Active))
	}

	if filter.Section != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", t.Section, argID))
		args = append(args, string(filter.Section))
		argID++
	}

	if filter.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", t.Category, argID))
		args = append(args, filter.Category)
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s ASC, %s DESC, %s DESC", t.DisplayOrder, t.CreatedAt, t.ID))

	return queryBuilder.String(), args
}

// FindByID retrieves a single image by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Image, error) {
	t := schema.SiteImages
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", imageColumns, t.Table, t.ID)

	image, err := scanImage(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}
	return image, nil
}

// # Image Mutations

// Insert persists a new image row.
func (repository *PostgresRepository) Insert(context context.Context, image *Image) error {
	t := schema.SiteImages
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s, %s`,
		t.Table,
		t.Title, t.Subtitle, t.Description, t.FilePath, t.ExternalURL,
		t.Section, t.Category, t.Active, t.DisplayOrder,
		t.ID, t.CreatedAt, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		image.Title, image.Subtitle, image.Description, image.FilePath, image.ExternalURL,
		string(image.Section), image.Category, image.Active, image.DisplayOrder,
	).Scan(&image.ID, &image.CreatedAt, &image.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resourceImage)
	}
	return nil
}

// Update overwrites the mutable columns of an existing image.
func (repository *PostgresRepository) Update(context context.Context, image *Image) error {
	t := schema.SiteImages
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6,
			%s = $7, %s = $8, %s = $9, %s = $10, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		t.Table,
		t.Title, t.Subtitle, t.Description, t.FilePath, t.ExternalURL,
		t.Section, t.Category, t.Active, t.DisplayOrder, t.UpdatedAt,
		t.ID,
		t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		image.ID,
		image.Title, image.Subtitle, image.Description, image.FilePath, image.ExternalURL,
		string(image.Section), image.Category, image.Active, image.DisplayOrder,
	).Scan(&image.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resourceImage)
	}
	return nil
}

// Delete removes the row and reports the file it referenced.
func (repository *PostgresRepository) Delete(context context.Context, id int64) (*string, error) {
	t := schema.SiteImages
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 RETURNING %s", t.Table, t.ID, t.FilePath)

	var filePath *string
	if err := repository.db.QueryRow(context, query, id).Scan(&filePath); err != nil {
		return nil, dberr.Wrap(err, resourceImage)
	}
	return filePath, nil
}

// scanImage reads one row in [schema.SiteImagesTable.Columns] order.
func scanImage(row pgx.Row) (*Image, error) {
	image := &Image{}
	var section string
	err := row.Scan(
		&image.ID, &image.Title, &image.Subtitle, &image.Description, &image.FilePath, &image.ExternalURL,
		&section, &image.Category, &image.Active, &image.DisplayOrder, &image.CreatedAt, &image.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	image.Section = Section(section)
	return image, nil
}
