// questions.go - Discovery questions, owned by products and stored in their own collection

package database

import (
	"sort" // Ordering
	"time" // Timestamps

	"go-discovery-backend/models" // Stored record types
)

type Questions struct { // Repository for discovery questions
	store Store
}

func NewQuestions(store Store) *Questions {
	return &Questions{store: store}
}

func (r *Questions) all() []models.DiscoveryQuestion {
	questions := []models.DiscoveryQuestion{} // Empty unless stored
	r.store.Read(CollectionQuestions, &questions)
	return questions
}

// ForProduct returns the product's questions ordered by question_order.
func (r *Questions) ForProduct(productID string) []models.DiscoveryQuestion {
	return filterForProduct(r.all(), productID)
}

// byProduct groups every question by product id, each group ordered.
func (r *Questions) byProduct() map[string][]models.DiscoveryQuestion {
	grouped := map[string][]models.DiscoveryQuestion{}
	for _, q := range r.all() {
		grouped[q.ProductID] = append(grouped[q.ProductID], q) // Group by owner
	}
	for id := range grouped {
		sortByOrder(grouped[id])
	}
	return grouped
}

// ReplaceForProduct drops every question of the product and inserts inputs
// with a dense 0-based question_order matching submission order.
// A supplied id is kept only when it already belongs to this product and has
// not appeared earlier in the same submission; every other input gets a new id.
func (r *Questions) ReplaceForProduct(productID string, inputs []models.QuestionInput, at time.Time) ([]models.DiscoveryQuestion, error) {
	current := r.all()

	// Ids the product owns before the replace
	owned := map[string]bool{}
	for _, q := range current {
		if q.ProductID == productID {
			owned[q.ID] = true
		}
	}

	questions := withoutProduct(current, productID) // Drop the old set
	seen := map[string]bool{}
	for i, in := range inputs {
		id := in.ID
		if id == "" || !owned[id] || seen[id] {
			id = newID("question") // Mint a fresh id
		}
		seen[id] = true
		questions = append(questions, models.DiscoveryQuestion{
			ID:            id,
			ProductID:     productID,
			Question:      in.Question,
			Category:      in.Category,
			QuestionOrder: i, // Dense, 0-based
			CreatedAt:     at,
		})
	}
	// Persist the whole collection in one write
	if err := r.store.Write(CollectionQuestions, questions); err != nil {
		return nil, err
	}
	return filterForProduct(questions, productID), nil
}

// DeleteForProduct removes exactly the questions whose product_id matches.
func (r *Questions) DeleteForProduct(productID string) error {
	return r.store.Write(CollectionQuestions, withoutProduct(r.all(), productID)) // Exact product_id match
}

func withoutProduct(questions []models.DiscoveryQuestion, productID string) []models.DiscoveryQuestion {
	kept := make([]models.DiscoveryQuestion, 0, len(questions))
	for _, q := range questions {
		if q.ProductID != productID {
			kept = append(kept, q)
		}
	}
	return kept
}

func filterForProduct(questions []models.DiscoveryQuestion, productID string) []models.DiscoveryQuestion {
	out := []models.DiscoveryQuestion{}
	for _, q := range questions {
		if q.ProductID == productID {
			out = append(out, q)
		}
	}
	sortByOrder(out)
	return out
}

func sortByOrder(questions []models.DiscoveryQuestion) {
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].QuestionOrder < questions[j].QuestionOrder
	})
}
