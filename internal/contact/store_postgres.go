// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/envision/internal/platform/database/schema"
	"github.com/taibuivan/envision/internal/platform/dberr"
)

const resourceContact = "Contact inquiry"

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed contact store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var contactColumns = strings.Join(schema.Contacts.Columns(), ", ")

// Insert persists a new inquiry. Status defaults in the database.
func (repository *PostgresRepository) Insert(context context.Context, contact *Contact) error {
	t := schema.Contacts
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s, %s, %s, %s`,
		t.Table,
		t.Name, t.Email, t.Phone, t.Message, t.ServiceType, t.PreferredDate,
		t.ID, t.Status, t.CreatedAt, t.UpdatedAt,
	)

	var status string
	err := repository.db.QueryRow(context, query,
		contact.Name, contact.Email, contact.Phone, contact.Message, string(contact.ServiceType), contact.PreferredDate,
	).Scan(&contact.ID, &status, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resourceContact)
	}

	contact.Status = Status(status)
	return nil
}

/*
List returns a page of inquiries, newest first.

Description: COUNT(*) OVER() carries the total on every row. A page past
the end has no rows, so the total is counted separately in that case.
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Contact, int, error) {
	t := schema.Contacts

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("SELECT %s, COUNT(*) OVER() AS total FROM %s", contactColumns, t.Table))

	args := []any{}
	argID := 1

	where := ""
	if filter.Status != "" {
		where = fmt.Sprintf(" WHERE %s = $%d", t.Status, argID)
		args = append(args, string(filter.Status))
		argID++
	}
	queryBuilder.WriteString(where)

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d", t.CreatedAt, t.ID, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resourceContact)
	}
	defer rows.Close()

	contacts := []*Contact{}
	total := 0
	for rows.Next() {
		contact, err := scanContact(rows, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, resourceContact)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resourceContact)
	}

	if len(contacts) == 0 && offset > 0 {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.Table, where)
		if err := repository.db.QueryRow(context, countQuery, args[:argID-1]...).Scan(&total); err != nil {
			return nil, 0, dberr.Wrap(err, resourceContact)
		}
	}

	return contacts, total, nil
}

// FindByID retrieves a single inquiry.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Contact, error) {
	t := schema.Contacts
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", contactColumns, t.Table, t.ID)

	contact, err := scanContact(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, resourceContact)
	}
	return contact, nil
}

// Update writes status and notes.
func (repository *PostgresRepository) Update(context context.Context, contact *Contact) error {
	t := schema.Contacts
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		t.Table, t.Status, t.Notes, t.UpdatedAt, t.ID, t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, contact.ID, string(contact.Status), contact.Notes).Scan(&contact.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, resourceContact)
	}
	return nil
}

// scanContact reads one row in [schema.ContactsTable.Columns] order,
// followed by any extra destinations.
func scanContact(row pgx.Row, extra ...any) (*Contact, error) {
	contact := &Contact{}
	var serviceType, status string

	destinations := []any{
		&contact.ID, &contact.Name, &contact.Email, &contact.Phone, &contact.Message, &serviceType,
		&contact.PreferredDate, &status, &contact.Notes, &contact.CreatedAt, &contact.UpdatedAt,
	}
	if err := row.Scan(append(destinations, extra...)...); err != nil {
		return nil, err
	}

	contact.ServiceType = ServiceType(serviceType)
	contact.Status = Status(status)
	return contact, nil
}
