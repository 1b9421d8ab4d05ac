package model

// Contact is the data structure for a person that we know. Name and phone are
// expected to be set by the caller, email and address may be empty.
type Contact struct {
	Name    string `json:"name"    yaml:"name"    db:"name"`
	Phone   string `json:"phone"   yaml:"phone"   db:"phone"`
	Email   string `json:"email"   yaml:"email"   db:"email"`
	Address string `json:"address" yaml:"address" db:"address"`
}

// Record is the serialized key-value representation of a contact.
type Record map[string]string

// Keys of a record.
const (
	KeyName    = "name"
	KeyPhone   = "phone"
	KeyEmail   = "email"
	KeyAddress = "address"
)

// ToRecord converts the contact into a record. The record always holds all four keys.
func (c Contact) ToRecord() Record {
	return Record{
		KeyName:    c.Name,
		KeyPhone:   c.Phone,
		KeyEmail:   c.Email,
		KeyAddress: c.Address,
	}
}

// FromRecord constructs a contact from a record. Missing keys result in empty strings.
func FromRecord(r Record) Contact {
	return Contact{
		Name:    r[KeyName],
		Phone:   r[KeyPhone],
		Email:   r[KeyEmail],
		Address: r[KeyAddress],
	}
}

// ContactUpdate describes a partial update of a contact. All fields are optional: a nil field
// leaves the corresponding value of the contact untouched.
type ContactUpdate struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
}

// Apply writes the values specified in the update (and only those) into the contact.
func (u ContactUpdate) Apply(c *Contact) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Phone != nil {
		c.Phone = *u.Phone
	}
	if u.Email != nil {
		c.Email = *u.Email
	}
	if u.Address != nil {
		c.Address = *u.Address
	}
}
