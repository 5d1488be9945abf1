package http

import (
	"time"

	itemhttp "github.com/nekogravitycat/shareit-backend/internal/item/http"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
)

type CreateRequest struct {
	Description string `json:"description" binding:"required,max=1000"`
}

type RequestResponse struct {
	ID          string                  `json:"id"`
	Description string                  `json:"description"`
	RequesterID string                  `json:"requester_id"`
	CreatedAt   time.Time               `json:"created"`
	Items       []itemhttp.ItemResponse `json:"items"`
}

func NewRequestResponse(w *itemrequest.WithItems) RequestResponse {
	items := make([]itemhttp.ItemResponse, len(w.Items))
	for i, it := range w.Items {
		items[i] = itemhttp.NewItemResponse(it)
	}
	return RequestResponse{
		ID:          w.Request.ID,
		Description: w.Request.Description,
		RequesterID: w.Request.RequesterID,
		CreatedAt:   w.Request.CreatedAt,
		Items:       items,
	}
}
