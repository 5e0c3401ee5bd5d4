// products.go - Product repository. Products own their questions: update replaces
// the whole question set and delete cascades through the Questions repository.

package database

import (
	"strings" // Blank checks
	"time"    // Timestamps

	"go-discovery-backend/apperrors" // Error kinds
	"go-discovery-backend/models"    // Stored record types
)

// productRecord is the stored shape of a product, without its questions.
type productRecord struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (p productRecord) withQuestions(questions []models.DiscoveryQuestion) models.Product {
	if questions == nil {
		questions = []models.DiscoveryQuestion{}
	}
	return models.Product{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Questions: questions,
	}
}

type Products struct { // Repository for products
	store     Store
	questions *Questions
}

// NewProducts keeps an explicit reference to the Questions repository it cascades into.
func NewProducts(store Store, questions *Questions) *Products {
	return &Products{store: store, questions: questions}
}

func (r *Products) all() []productRecord {
	products := []productRecord{} // Empty unless stored
	r.store.Read(CollectionProducts, &products)
	return products
}

// List returns every product joined with its ordered questions.
func (r *Products) List() []models.Product {
	records := r.all()
	grouped := r.questions.byProduct() // One pass over the questions
	out := make([]models.Product, 0, len(records))
	for _, p := range records {
		out = append(out, p.withQuestions(grouped[p.ID]))
	}
	return out
}

func (r *Products) Get(id string) (*models.Product, error) {
	for _, p := range r.all() {
		if p.ID == id {
			product := p.withQuestions(r.questions.ForProduct(id))
			return &product, nil
		}
	}
	return nil, apperrors.NotFound("Product not found")
}

func (r *Products) Create(name string, questions []models.QuestionInput) (*models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Validation("Product name is required")
	}
	record := productRecord{
		ID:        newID("product"), // New product id
		Name:      name,
		CreatedAt: now(),
	}
	if err := r.store.Write(CollectionProducts, append(r.all(), record)); err != nil { // Save product first
		return nil, err
	}

	stored, err := r.questions.ReplaceForProduct(record.ID, questions, record.CreatedAt) // Then its questions
	if err != nil {
		return nil, err
	}
	product := record.withQuestions(stored)
	return &product, nil
}

// Update renames the product and replaces its question set (delete-all-then-insert).
func (r *Products) Update(id, name string, questions []models.QuestionInput) (*models.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.Validation("Product name is required")
	}
	records := r.all()
	idx := -1
	for i := range records {
		if records[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, apperrors.NotFound("Product not found")
	}

	ts := now()
	records[idx].Name = name
	records[idx].UpdatedAt = &ts // Stamp the change
	if err := r.store.Write(CollectionProducts, records); err != nil {
		return nil, err
	}

	stored, err := r.questions.ReplaceForProduct(id, questions, ts) // Replace the question set
	if err != nil {
		return nil, err
	}
	product := records[idx].withQuestions(stored)
	return &product, nil
}

// Delete removes the product and every question whose product_id matches it.
func (r *Products) Delete(id string) error {
	records := r.all()
	kept := make([]productRecord, 0, len(records))
	for _, p := range records {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(records) {
		return apperrors.NotFound("Product not found")
	}
	if err := r.store.Write(CollectionProducts, kept); err != nil {
		return err
	}
	return r.questions.DeleteForProduct(id) // Cascade to questions
}
