package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"healthweb/internal/domain"
)

// listKeys are the fields the option source endpoints put their items under.
var listKeys = []string{"records", "goals", "reports", "items"}

// ContentOptions lists the user's items of type ct that can be shared.
func (c *Client) ContentOptions(ctx context.Context, ct domain.ContentType) ([]domain.ContentItem, error) {
	info, ok := ct.Info()
	if !ok {
		return nil, fmt.Errorf("%w: unknown content type %q", domain.ErrValidation, ct)
	}
	var resp map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, info.Source, nil, nil, &resp); err != nil {
		return nil, err
	}
	for _, k := range listKeys {
		raw, ok := resp[k]
		if !ok {
			continue
		}
		var items []domain.ContentItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrUnavailable, k, err)
		}
		return items, nil
	}
	return nil, nil
}
