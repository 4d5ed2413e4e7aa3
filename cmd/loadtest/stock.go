package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// remainingStock читает остаток продукта через REST API сервиса.
func remainingStock(ctx context.Context, client *http.Client, baseURL, productID string) (int64, error) {
	endpoint := baseURL + "/api/v1/stock?" + url.Values{"product_id": {productID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("stock lookup for %s: status %d", productID, resp.StatusCode)
	}
	var entry struct {
		Quantity int64 `json:"quantity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return 0, fmt.Errorf("decode stock entry: %w", err)
	}
	return entry.Quantity, nil
}
