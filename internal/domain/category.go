package domain

import (
	"encoding/json"
	"strings"
)

// DefaultCategoryColor is assigned to categories created without a color.
const DefaultCategoryColor = "#6366f1"

// DefaultTaskCategory is used for new tasks that name no category.
const DefaultTaskCategory = "Work"

// Category is a task label. Categories are append-only.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsDefault bool   `json:"isDefault"`
}

// DefaultCategories returns the categories present at first run.
func DefaultCategories() []Category {
	return []Category{
		{ID: "work", Name: "Work", Color: "#3b82f6", IsDefault: true},
		{ID: "personal", Name: "Personal", Color: "#10b981", IsDefault: true},
		{ID: "study", Name: "Study", Color: "#f59e0b", IsDefault: true},
	}
}

// NewCategory builds a user-defined category. The id is derived from the name.
func NewCategory(name, color string) Category {
	if color == "" {
		color = DefaultCategoryColor
	}
	return Category{
		ID:    categoryID(name),
		Name:  name,
		Color: color,
	}
}

// UnmarshalJSON accepts either the object form or a bare name string,
// which is how older saved settings stored categories.
func (c *Category) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*c = NewCategory(name, "")
		return nil
	}

	type plain Category
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Category(p)
	if c.ID == "" {
		c.ID = categoryID(c.Name)
	}
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}
	return nil
}

func categoryID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
