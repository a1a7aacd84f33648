package model

import "time"

// Supplier provides products. Products is filled by the nested read and is
// never null in JSON once populated by the service.
type Supplier struct {
	ID            int64        `json:"supplier_id"`
	Name          string       `json:"name"`
	ContactPerson *string      `json:"contact_person"`
	Phone         *string      `json:"phone"`
	Email         *string      `json:"email"`
	Address       *string      `json:"address"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	Products      []ProductRef `json:"products"`
}
