package requests

import (
	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/pkg/validate"
)

const maxCategoryField = 100

// CategoryRequest is the body of POST /api/categories.
type CategoryRequest struct {
	Category *CategoryInput `json:"category"`
}

type CategoryInput struct {
	ID   Text `json:"id"`
	Name Text `json:"name" validate:"required,max=100"`
	Icon Text `json:"icon"`
}

// Validate returns the category to upsert. A missing id is derived from
// the name.
func (r CategoryRequest) Validate() (models.Category, error) {
	if r.Category == nil {
		return models.Category{}, fieldError("category", "The category field is required.")
	}
	if err := invalid(validate.Struct(r.Category)); err != nil {
		return models.Category{}, err
	}
	c := r.Category.Sanitize()
	if c.ID == "" {
		return models.Category{}, fieldError("id", "The id could not be derived from the name.")
	}
	return c, nil
}

// Sanitize trims and caps every field and fills the id and icon defaults.
func (in CategoryInput) Sanitize() models.Category {
	c := models.Category{
		ID:   truncate(in.ID.String(), maxCategoryField),
		Name: truncate(in.Name.String(), maxCategoryField),
		Icon: truncate(in.Icon.String(), maxCategoryField),
	}
	if c.ID == "" {
		c.ID = truncate(models.CategorySlug(c.Name), maxCategoryField)
	}
	if c.Name == "" {
		c.Name = c.ID
	}
	if c.Icon == "" {
		c.Icon = models.DefaultCategoryIcon
	}
	return c
}
