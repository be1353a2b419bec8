package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/schedule-bot/internal/dto"
	"github.com/noah-isme/schedule-bot/pkg/apiclient"
)

// BroadcastRepository submits broadcast jobs to the catalog. Fan-out happens
// on the catalog side.
type BroadcastRepository struct {
	client   catalogClient
	adminKey string
}

// NewBroadcastRepository instantiates a broadcast repository.
func NewBroadcastRepository(client catalogClient, adminKey string) *BroadcastRepository {
	return &BroadcastRepository{client: client, adminKey: adminKey}
}

// Create queues a broadcast.
func (r *BroadcastRepository) Create(ctx context.Context, req dto.CreateBroadcastRequest) error {
	return r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Path:     "/api/broadcast",
		Body:     req,
		AdminKey: r.adminKey,
	}, nil)
}
