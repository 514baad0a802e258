// internal/workers/catalog/search-frames/models.go
package searchframes

import (
	"cockpit-fit-workers/internal/models"
)

type Input struct {
	Query string `json:"query"`
	From  int    `json:"from"`
	Size  int    `json:"size"`
}

type Output struct {
	Frames []models.Frame `json:"frames"`
	Total  int64          `json:"total"`
	TookMs int64          `json:"tookMs"`
}
