package domain

import (
	"errors"
	"strings"
)

// DefaultCategories is the fixed set offered when an admin registers a provider.
var DefaultCategories = []string{"Plumber", "Electrician", "Painter", "Tiler"}

// ErrProviderIncomplete is returned when a required provider field is empty.
var ErrProviderIncomplete = errors.New("provider: category, name and contact are required")

// Provider is a service provider ("master") record.
type Provider struct {
	ID       int64
	Category string
	Name     string
	City     string
	Price    string
	Contact  string
	Photos   []string
}

// Validate checks the non-empty invariants of a provider.
func (p Provider) Validate() error {
	if strings.TrimSpace(p.Category) == "" || strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Contact) == "" {
		return ErrProviderIncomplete
	}
	return nil
}

// FirstPhoto returns the first non-empty photo reference, if any.
func (p Provider) FirstPhoto() (string, bool) {
	for _, ph := range p.Photos {
		if ph != "" {
			return ph, true
		}
	}
	return "", false
}
