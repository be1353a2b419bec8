package repository

import (
	"context"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/schedule-bot/pkg/apiclient"
	appErrors "github.com/noah-isme/schedule-bot/pkg/errors"
)

// catalogClient is the subset of apiclient.Client used by repositories.
type catalogClient interface {
	Get(ctx context.Context, path, route string, query url.Values, dest interface{}) error
	Do(ctx context.Context, req apiclient.Request, dest interface{}) error
}

func defaultValidator(v *validator.Validate) *validator.Validate {
	if v == nil {
		return validator.New()
	}
	return v
}

// validateEach rejects catalog payloads that violate the model contract.
func validateEach[T any](v *validator.Validate, route string, items []T) error {
	for i := range items {
		if err := v.Struct(items[i]); err != nil {
			return appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "invalid catalog payload from "+route)
		}
	}
	return nil
}

func validateOne(v *validator.Validate, route string, item interface{}) error {
	if err := v.Struct(item); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDataIntegrity.Code, appErrors.ErrDataIntegrity.Status, "invalid catalog payload from "+route)
	}
	return nil
}

// list fetches a collection. A null or empty body yields an empty slice.
func list[T any](ctx context.Context, client catalogClient, v *validator.Validate, path string) ([]T, error) {
	var items []T
	if err := client.Get(ctx, path, path, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	if err := validateEach(v, path, items); err != nil {
		return nil, err
	}
	return items, nil
}
