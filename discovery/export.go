// export.go - Downloadable JSON document for a saved discovery result

package discovery

import (
	"fmt"
	"sort"
	"time"

	"go-discovery-backend/models"
)

type ExportItem struct {
	QuestionID      string `json:"questionId"`
	Question        string `json:"question"`
	Category        string `json:"category,omitempty"`
	Answer          string `json:"answer"`
	GeneratedAnswer string `json:"generatedAnswer,omitempty"`
}

type Export struct {
	ID           string       `json:"id"`
	CustomerName string       `json:"customerName"`
	ProjectName  string       `json:"projectName"`
	Product      string       `json:"product"`
	Timestamp    time.Time    `json:"timestamp"`
	Results      []ExportItem `json:"results"`
}

// BuildExport joins a result with its product's questions. Questions follow
// the product's order; answers whose question no longer exists come last,
// sorted by id, with the id standing in for the question text. product may be nil.
func BuildExport(result models.DiscoveryResult, product *models.Product) Export {
	exp := Export{
		ID:           result.ID,
		CustomerName: result.CustomerName,
		ProjectName:  result.ProjectName,
		Product:      result.ProductName,
		Timestamp:    result.Timestamp,
		Results:      []ExportItem{},
	}

	seen := map[string]bool{}
	if product != nil {
		for _, q := range product.Questions {
			answer, ok := result.Answers[q.ID]
			generated, hasGenerated := result.GeneratedAnswers[q.ID]
			if !ok && !hasGenerated {
				continue
			}
			seen[q.ID] = true
			exp.Results = append(exp.Results, ExportItem{
				QuestionID:      q.ID,
				Question:        q.Question,
				Category:        q.Category,
				Answer:          answer,
				GeneratedAnswer: generated,
			})
		}
	}

	var orphans []string
	for id := range result.Answers {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		exp.Results = append(exp.Results, ExportItem{
			QuestionID:      id,
			Question:        id,
			Answer:          result.Answers[id],
			GeneratedAnswer: result.GeneratedAnswers[id],
		})
	}
	return exp
}

// Filename is the suggested download name, e.g. "Acme_Migration_discovery_2024-05-01.json".
func (e Export) Filename() string {
	return fmt.Sprintf("%s_%s_discovery_%s.json", e.CustomerName, e.ProjectName, e.Timestamp.UTC().Format("2006-01-02"))
}
