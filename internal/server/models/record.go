package models

import "time"

// UserRecord is a managed profile with an optional uploaded image.
// Name, Email and Age are free-form and never validated.
type UserRecord struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       string    `json:"age"`
	ImagePath *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasImage reports whether the record references an uploaded file.
func (r *UserRecord) HasImage() bool {
	return r.ImagePath != nil && *r.ImagePath != ""
}

// RecordInput carries the mutable fields of a new UserRecord.
type RecordInput struct {
	Name  string
	Email string
	Age   string
}

// RecordUpdate carries the fields sent with an update. Nil fields keep the
// stored value.
type RecordUpdate struct {
	Name  *string
	Email *string
	Age   *string
}

// Apply overwrites the fields of r that are set in u.
func (u RecordUpdate) Apply(r *UserRecord) {
	if u.Name != nil {
		r.Name = *u.Name
	}
	if u.Email != nil {
		r.Email = *u.Email
	}
	if u.Age != nil {
		r.Age = *u.Age
	}
}
