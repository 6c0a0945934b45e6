//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"
)

var baseURL = getenv("E2E_BASE_URL", "http://localhost:8080")

func TestSystem_E2E_Catalog(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	waitReady(t, ctx, baseURL+"/readyz")

	var brands []map[string]any
	doJSON(t, http.MethodGet, baseURL+"/api/brands", nil, &brands, 200)
	if len(brands) == 0 {
		t.Fatalf("expected seeded brands")
	}
	brandID, _ := brands[0]["id"].(string)
	if brandID == "" {
		t.Fatalf("brand id missing: %#v", brands[0])
	}

	name := fmt.Sprintf("e2e-product-%d-%d", time.Now().Unix(), rand.Intn(100000))

	var created struct {
		Product map[string]any `json:"product"`
	}
	doJSON(t, http.MethodPost, baseURL+"/api/products", map[string]any{
		"name":        name,
		"price":       12.34,
		"brandId":     brandID,
		"description": "created by the e2e suite",
	}, &created, 201)

	pid, _ := created.Product["id"].(string)
	if pid == "" {
		t.Fatalf("product id missing: %#v", created.Product)
	}

	// Same (name, brandId) again must be rejected.
	doJSON(t, http.MethodPost, baseURL+"/api/products", map[string]any{
		"name":    name,
		"price":   12.34,
		"brandId": brandID,
	}, nil, 409)

	assertProductListed(t, name, pid)

	if os.Getenv("E2E_RESTART_CATALOG") == "1" {
		restartCatalogContainer(t, ctx)
		waitReady(t, ctx, baseURL+"/readyz")
		assertProductListed(t, name, pid)
	}
}

func assertProductListed(t *testing.T, name, id string) {
	t.Helper()

	var listing struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	doJSON(t, http.MethodGet, baseURL+"/api/products?name="+url.QueryEscape(name), nil, &listing, 200)

	if listing.Total != 1 || len(listing.Data) != 1 {
		t.Fatalf("expected exactly one match for %q, got total=%d len=%d", name, listing.Total, len(listing.Data))
	}
	if got, _ := listing.Data[0]["id"].(string); got != id {
		t.Fatalf("listed id=%q, want %q", got, id)
	}
}

func waitReady(t *testing.T, ctx context.Context, url string) {
	t.Helper()

	for {
		select {
		case <-ctx.Done():
			t.Fatalf("service at %s never became ready", url)
		default:
		}

		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
}

func doJSON(t *testing.T, method, url string, body, out any, wantStatus int) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s status=%d, want %d, body: %s", method, url, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode body: %v\n%s", err, raw)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
