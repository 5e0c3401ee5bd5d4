// mappings.go - Category -> workspace mappings, keyed by category

package database

import (
	"strings" // Blank checks

	"go-discovery-backend/apperrors" // Error kinds
	"go-discovery-backend/models"    // Stored record types
)

type CategoryMappings struct { // Repository for category mappings
	store Store
}

func NewCategoryMappings(store Store) *CategoryMappings {
	return &CategoryMappings{store: store}
}

func (r *CategoryMappings) List() []models.CategoryMapping {
	mappings := []models.CategoryMapping{}              // Empty unless stored
	r.store.Read(CollectionCategoryMappings, &mappings) // Load the whole collection
	return mappings
}

// Find is an exact, case-sensitive match on the category key.
func (r *CategoryMappings) Find(category string) (*models.CategoryMapping, bool) {
	for _, m := range r.List() {
		if m.Category == category {
			return &m, true
		}
	}
	return nil, false
}

// Upsert replaces any mapping for category with a freshly minted one.
func (r *CategoryMappings) Upsert(category, workspaceName string) (models.CategoryMapping, error) {
	if strings.TrimSpace(category) == "" || strings.TrimSpace(workspaceName) == "" {
		return models.CategoryMapping{}, apperrors.Validation("Category and workspace name are required")
	}
	existing := r.List()
	mappings := make([]models.CategoryMapping, 0, len(existing)+1)
	for _, m := range existing {
		if m.Category != category { // Drop the old mapping
			mappings = append(mappings, m)
		}
	}
	mapping := models.CategoryMapping{
		ID:            newID("mapping"), // Fresh id on every upsert
		Category:      category,
		WorkspaceName: workspaceName,
		CreatedAt:     now(),
	}
	mappings = append(mappings, mapping) // Append the replacement
	if err := r.store.Write(CollectionCategoryMappings, mappings); err != nil {
		return models.CategoryMapping{}, err
	}
	return mapping, nil
}

// Update changes the workspace of an existing mapping in place.
func (r *CategoryMappings) Update(category, workspaceName string) error {
	mappings := r.List()
	for i := range mappings {
		if mappings[i].Category == category {
			ts := now()
			mappings[i].WorkspaceName = workspaceName
			mappings[i].UpdatedAt = &ts // Stamp the change
			return r.store.Write(CollectionCategoryMappings, mappings)
		}
	}
	return apperrors.NotFound("Category mapping not found")
}

func (r *CategoryMappings) Delete(category string) error {
	mappings := r.List()
	kept := make([]models.CategoryMapping, 0, len(mappings))
	for _, m := range mappings {
		if m.Category != category { // Drop the old mapping
			kept = append(kept, m)
		}
	}
	if len(kept) == len(mappings) {
		return apperrors.NotFound("Category mapping not found")
	}
	return r.store.Write(CollectionCategoryMappings, kept) // Save the rest
}
