package schema

// ContactsTable represents the 'contacts' table
type ContactsTable struct {
	Table         string
	ID            string
	Name          string
	Email         string
	Phone         string
	Message       string
	ServiceType   string
	PreferredDate string
	Status        string
	Notes         string
	CreatedAt     string
	UpdatedAt     string
}

// Contacts is the schema definition for contacts
var Contacts = ContactsTable{
	Table:         "contacts",
	ID:            "id",
	Name:          "name",
	Email:         "email",
	Phone:         "phone",
	Message:       "message",
	ServiceType:   "service_type",
	PreferredDate: "preferred_date",
	Status:        "status",
	Notes:         "notes",
	CreatedAt:     "created_at",
	UpdatedAt:     "updated_at",
}

func (t ContactsTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Email, t.Phone, t.Message, t.ServiceType,
		t.PreferredDate, t.Status, t.Notes, t.CreatedAt, t.UpdatedAt,
	}
}
