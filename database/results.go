// results.go - Append-only log of discovery results

package database

import (
	"sort"    // Ordering
	"strings" // Blank checks

	"go-discovery-backend/apperrors" // Error kinds
	"go-discovery-backend/models"    // Stored record types
)

// DefaultResultLimit is the page size when the caller gives none.
const DefaultResultLimit = 100

type DiscoveryResults struct { // Repository for saved results
	store Store
}

func NewDiscoveryResults(store Store) *DiscoveryResults {
	return &DiscoveryResults{store: store}
}

func (r *DiscoveryResults) all() []models.DiscoveryResult {
	results := []models.DiscoveryResult{} // Empty unless stored
	r.store.Read(CollectionDiscoveryResults, &results)
	return results
}

// Create validates the required fields, mints id and timestamp and appends
// the result. Answer keys are not checked against the product's questions.
func (r *DiscoveryResults) Create(in models.NewDiscoveryResult) (string, error) {
	if strings.TrimSpace(in.CustomerName) == "" ||
		strings.TrimSpace(in.ProjectName) == "" ||
		in.ProductID == "" ||
		in.ProductName == "" ||
		in.Answers == nil {
		return "", apperrors.Validation("Missing required fields")
	}

	result := models.DiscoveryResult{
		ID:               newID("discovery"), // New result id
		CustomerName:     in.CustomerName,
		ProjectName:      in.ProjectName,
		ProductID:        in.ProductID,
		ProductName:      in.ProductName,
		Answers:          in.Answers,
		GeneratedAnswers: in.GeneratedAnswers,
		Timestamp:        now(), // Saved at
	}
	results := append(r.all(), result) // Append only
	if err := r.store.Write(CollectionDiscoveryResults, results); err != nil {
		return "", err
	}
	return result.ID, nil
}

// List orders results by timestamp, newest first, then applies offset and limit.
// A non-positive limit means DefaultResultLimit; a negative offset means 0.
func (r *DiscoveryResults) List(limit, offset int) []models.DiscoveryResult {
	if limit <= 0 {
		limit = DefaultResultLimit // Default page size
	}
	if offset < 0 {
		offset = 0
	}
	results := r.all()
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Timestamp.After(results[j].Timestamp) // Newest first
	})
	if offset >= len(results) {
		return []models.DiscoveryResult{} // Past the end
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}

func (r *DiscoveryResults) Get(id string) (*models.DiscoveryResult, error) {
	for _, res := range r.all() {
		if res.ID == id {
			return &res, nil
		}
	}
	return nil, apperrors.NotFound("Discovery result not found")
}

// Delete reports false, not an error, when the id is already gone.
func (r *DiscoveryResults) Delete(id string) (bool, error) {
	results := r.all()
	kept := make([]models.DiscoveryResult, 0, len(results))
	for _, res := range results {
		if res.ID != id {
			kept = append(kept, res)
		}
	}
	if len(kept) == len(results) {
		return false, nil // Already gone
	}
	if err := r.store.Write(CollectionDiscoveryResults, kept); err != nil {
		return false, err
	}
	return true, nil
}
