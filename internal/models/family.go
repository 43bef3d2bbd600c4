package models

import "time"

// Family is a community family profile stored in the families collection.
type Family struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	City          string    `json:"city,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	Latitude      float64   `json:"latitude,omitempty"`
	Longitude     float64   `json:"longitude,omitempty"`
	ChildrenCount int       `json:"children_count,omitempty"`
	Created       time.Time `json:"created,omitempty"`
}

// HasCoordinates reports whether the family can be placed on the map.
func (f Family) HasCoordinates() bool {
	return f.Latitude != 0 || f.Longitude != 0
}

// Child is a child profile stored in the children collection. Family holds
// the id of the owning family record.
type Child struct {
	ID         string    `json:"id,omitempty"`
	Family     string    `json:"family"`
	Name       string    `json:"name"`
	GradeLevel string    `json:"grade_level,omitempty"`
	Interests  string    `json:"interests,omitempty"`
	Created    time.Time `json:"created,omitempty"`
}
