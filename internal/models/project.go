package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectCategory classifies a project. The values are the ones written to
// export documents.
type ProjectCategory string

const (
	CategoryWork     ProjectCategory = "travail"
	CategoryLearning ProjectCategory = "apprentissage"
)

// Valid reports whether c is a known category
func (c ProjectCategory) Valid() bool {
	return c == CategoryWork || c == CategoryLearning
}

// Label returns the English name shown in the CLI
func (c ProjectCategory) Label() string {
	switch c {
	case CategoryWork:
		return "work"
	case CategoryLearning:
		return "learning"
	default:
		return string(c)
	}
}

// ParseCategory accepts either the stored value or its English label
func ParseCategory(input string) (ProjectCategory, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "travail", "work":
		return CategoryWork, nil
	case "apprentissage", "learning":
		return CategoryLearning, nil
	}
	return "", fmt.Errorf("unknown category %q (use work or learning)", input)
}

// Project groups tasks. Deleting a project deletes its tasks.
type Project struct {
	ID       string          `gorm:"primaryKey;size:36" json:"id"`
	Name     string          `gorm:"not null;index" json:"nom"`
	Category ProjectCategory `gorm:"not null;index" json:"categorie"`
	ColorHex string          `json:"couleurHex"`
}

// BeforeCreate assigns an id to projects created without one
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
