package model

import (
	"regexp"
	"time"
)

// CustomerIDPrefix tags every customer identity ID so other ID families
// (ObjectIDs, lock IDs) can never be mistaken for one.
const CustomerIDPrefix = "cst_"

var customerIDPattern = regexp.MustCompile(`^cst_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidCustomerID reports whether id carries the cst_ prefix followed by a
// lowercase UUID.
func ValidCustomerID(id string) bool {
	return customerIDPattern.MatchString(id)
}

// Customer is the identity a reservation is owned by. Name and phone are
// mandatory; everything else is optional and nullable.
type Customer struct {
	ID       string  `json:"id,omitempty" bson:"_id,omitempty"`
	FullName string  `json:"full_name" bson:"full_name" validate:"required,min=1,max=120"`
	Phone    string  `json:"phone" bson:"phone" validate:"required,e164"`
	Email    *string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`

	IDDocumentType   *string `json:"id_document_type,omitempty" bson:"id_document_type,omitempty" validate:"omitempty,max=40"`
	IDDocumentNumber *string `json:"id_document_number,omitempty" bson:"id_document_number,omitempty" validate:"omitempty,max=60"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
