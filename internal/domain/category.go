package domain

import "time"

// Category groups products. Name is unique.
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// CategoryPatch lists the mutable category fields; nil means unchanged.
type CategoryPatch struct {
	Name        *string
	Description *string
}

// Apply copies set fields onto c.
func (p CategoryPatch) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p CategoryPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil
}
