// discovery.go - The persisted result of one discovery session

package models

import "time"

// DiscoveryResult is immutable once created. ProductName is a snapshot taken
// at creation time and is never re-resolved.
type DiscoveryResult struct {
	ID               string            `json:"id"`
	CustomerName     string            `json:"customer_name"`
	ProjectName      string            `json:"project_name"`
	ProductID        string            `json:"product_id"`
	ProductName      string            `json:"product_name"`
	Answers          map[string]string `json:"answers"`           // questionId -> answer
	GeneratedAnswers map[string]string `json:"generated_answers"` // questionId -> generated answer, null when absent
	Timestamp        time.Time         `json:"timestamp"`
}

// NewDiscoveryResult holds the caller-supplied fields of a result.
type NewDiscoveryResult struct {
	CustomerName     string            `json:"customerName"`
	ProjectName      string            `json:"projectName"`
	ProductID        string            `json:"productId"`
	ProductName      string            `json:"productName"`
	Answers          map[string]string `json:"answers"`
	GeneratedAnswers map[string]string `json:"generatedAnswers"`
}
