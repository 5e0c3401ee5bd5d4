// prompts.go - The singleton prompt template document

package database

import "go-discovery-backend/models"

type Prompts struct { // Repository for the prompt templates
	store Store
}

func NewPrompts(store Store) *Prompts {
	return &Prompts{store: store}
}

func (r *Prompts) stored() models.PromptSettings {
	var p models.PromptSettings
	r.store.Read(CollectionPrompts, &p) // Zero value when absent
	return p
}

// Get returns the templates, falling back to the built-in default for any missing key.
func (r *Prompts) Get() models.PromptSettings {
	return r.stored().WithDefaults()
}

// Put replaces the whole document and returns the effective templates.
func (r *Prompts) Put(p models.PromptSettings) (models.PromptSettings, error) {
	if err := r.store.Write(CollectionPrompts, p); err != nil {
		return models.PromptSettings{}, err
	}
	return p.WithDefaults(), nil
}

// Seed writes the defaults for missing keys. It reports whether it wrote anything.
func (r *Prompts) Seed() (bool, error) {
	p := r.stored()
	if p.Complete() { // Nothing to seed
		return false, nil
	}
	if err := r.store.Write(CollectionPrompts, p.WithDefaults()); err != nil {
		return false, err
	}
	return true, nil
}
