package client

import (
	"context"

	"github.com/SreeGowri/webutils/pkg/types"
)

// LovHelper resolves lists of values through the LOV actions.
type LovHelper struct {
	client *Client
}

func NewLovHelper(c *Client) *LovHelper {
	return &LovHelper{client: c}
}

// GetStaticLov fetches an enumeration-backed LOV by type identifier.
func (h *LovHelper) GetStaticLov(ctx context.Context, name string) ([]types.ValueLabel, error) {
	return h.fetch(ctx, "lov.fetchStatic", name)
}

// GetDynamicLov fetches a query-backed LOV by source name. Entries reflect the
// data at call time.
func (h *LovHelper) GetDynamicLov(ctx context.Context, name string) ([]types.ValueLabel, error) {
	return h.fetch(ctx, "lov.fetchDynamic", name)
}

func (h *LovHelper) fetch(ctx context.Context, action, name string) ([]types.ValueLabel, error) {
	var resp types.LovListResponse
	err := h.client.Invoke(ctx, action, &Input{
		URLParams: map[string]string{"name": name},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}
