// Package foodfacts resolves UPC barcodes against an
// OpenFoodFacts-compatible product database and normalizes the
// heterogeneous responses into a canonical product record.
package foodfacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pantrio/pantrio/internal/types"
)

const (
	// notFoundName marks the placeholder record returned when the upstream
	// database has no data for a code yet.
	notFoundName = "Product not found"
	// UnknownProductName is used when a record exists but carries no
	// usable name.
	UnknownProductName = "Unknown Product"
	// healthCheckUPC is a stable, known-good barcode used by the
	// availability probe.
	healthCheckUPC = "3017624010701"

	detailedFields = "product_name,generic_name,brands,categories,nutrition_grades,ingredients_text,nutriments"

	// DataSourceExternalAPI tags records produced by this client.
	DataSourceExternalAPI = "EXTERNAL_API"
)

// Doer performs an HTTP request. *http.Client satisfies it; tests swap in
// their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config selects the upstream endpoint and request headers.
type Config struct {
	BaseURL         string
	StagingBaseURL  string
	UseStaging      bool
	StagingUser     string
	StagingPassword string
	UserAgent       string
	Timeout         time.Duration
}

// Product is the normalized lookup result, independent of whether it is
// ever persisted. RequiresAPIRetry/RetryAttempts signal the designed
// degradation path for codes the upstream database does not know yet.
type Product struct {
	UPC              string          `json:"upc"`
	Name             string          `json:"name"`
	Brand            *string         `json:"brand"`
	Category         *string         `json:"category"`
	DataSource       string          `json:"dataSource"`
	RequiresAPIRetry bool            `json:"requiresApiRetry"`
	RetryAttempts    int             `json:"retryAttempts"`
	LastRetryAttempt *time.Time      `json:"lastRetryAttempt"`
	NutritionGrade   *string         `json:"nutritionGrade,omitempty"`
	Ingredients      *string         `json:"ingredients,omitempty"`
	Nutriments       json.RawMessage `json:"nutriments,omitempty"`
}

// Found reports whether the record carries real upstream data rather than
// the not-found placeholder.
func (p *Product) Found() bool {
	return !p.RequiresAPIRetry
}

// Client queries the product database. One outbound call per invocation;
// retries are the caller's responsibility via the RequiresAPIRetry signal.
type Client struct {
	cfg  Config
	doer Doer
}

// New creates a lookup client. A nil doer falls back to an *http.Client
// with the configured timeout.
func New(cfg Config, doer Doer) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, doer: doer}
}

// Fetch resolves a UPC into a normalized product record.
func (c *Client) Fetch(ctx context.Context, upc string) (*Product, error) {
	return c.fetch(ctx, upc, false)
}

// FetchDetailed resolves a UPC requesting the richer field set
// (nutrition grade, ingredients, nutriments). Not-found, parse and
// transport semantics are identical to Fetch.
func (c *Client) FetchDetailed(ctx context.Context, upc string) (*Product, error) {
	return c.fetch(ctx, upc, true)
}

// Available probes the upstream service with a known-good barcode and
// reports availability purely by HTTP status class. Transport errors are
// swallowed as unavailable.
func (c *Client) Available(ctx context.Context) bool {
	req, err := c.newRequest(ctx, healthCheckUPC, false)
	if err != nil {
		return false
	}
	resp, err := c.doer.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) fetch(ctx context.Context, upc string, detailed bool) (*Product, error) {
	upc = strings.TrimSpace(upc)
	if upc == "" {
		return nil, types.NewValidationError("UPC must not be blank")
	}

	req, err := c.newRequest(ctx, upc, detailed)
	if err != nil {
		return nil, types.NewExternalServiceError("failed to build product API request", err)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, types.NewExternalServiceError(
			fmt.Sprintf("product API request for UPC %s failed", upc), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewExternalServiceError(
			fmt.Sprintf("reading product API response for UPC %s failed", upc), err)
	}

	// The upstream reports unknown codes through payloads, not status
	// codes; a non-2xx answer is treated the same as "nothing found".
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return notFoundProduct(upc), nil
	}

	return normalize(upc, body)
}

func (c *Client) newRequest(ctx context.Context, upc string, detailed bool) (*http.Request, error) {
	base := c.cfg.BaseURL
	if c.cfg.UseStaging {
		base = c.cfg.StagingBaseURL
	}

	endpoint := fmt.Sprintf("%s/api/v2/product/%s.json", strings.TrimSuffix(base, "/"), url.PathEscape(upc))
	if detailed {
		endpoint += "?fields=" + detailedFields
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if c.cfg.UseStaging {
		req.SetBasicAuth(c.cfg.StagingUser, c.cfg.StagingPassword)
	}
	return req, nil
}

// envelope is the top-level shape of a lookup response. Status stays raw
// so the found check compares the wire literal: the integer 1 counts,
// while "1", 1.0 or 0 all mean not found.
type envelope struct {
	Status  json.RawMessage `json:"status"`
	Product json.RawMessage `json:"product"`
}

func (e *envelope) found() bool {
	return bytes.Equal(bytes.TrimSpace(e.Status), []byte("1")) && hasObject(e.Product)
}

// normalize parses a 2xx response body into the canonical record.
func normalize(upc string, body []byte) (*Product, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, types.NewParsingError(
			fmt.Sprintf("product API returned an empty body for UPC %s", upc), nil)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, types.NewParsingError(
			fmt.Sprintf("malformed product API response for UPC %s", upc), err)
	}

	if !env.found() {
		return notFoundProduct(upc), nil
	}

	var fields map[string]any
	if err := json.Unmarshal(env.Product, &fields); err != nil {
		return nil, types.NewParsingError(
			fmt.Sprintf("malformed product object for UPC %s", upc), err)
	}

	name, ok := stringField(fields, "product_name")
	if !ok {
		if name, ok = stringField(fields, "generic_name"); !ok {
			name = UnknownProductName
		}
	}

	result := &Product{
		UPC:        upc,
		Name:       name,
		Brand:      firstListed(fields, "brands"),
		Category:   firstListed(fields, "categories"),
		DataSource: DataSourceExternalAPI,
	}

	if grade, ok := stringField(fields, "nutrition_grades"); ok {
		result.NutritionGrade = &grade
	}
	if ingredients, ok := stringField(fields, "ingredients_text"); ok {
		result.Ingredients = &ingredients
	}
	if raw, ok := fields["nutriments"]; ok {
		if obj, isMap := raw.(map[string]any); isMap && len(obj) > 0 {
			encoded, err := json.Marshal(obj)
			if err != nil {
				return nil, types.NewParsingError(
					fmt.Sprintf("malformed nutriments for UPC %s", upc), err)
			}
			result.Nutriments = encoded
		}
	}

	return result, nil
}

// notFoundProduct builds the retryable placeholder for codes the upstream
// database has no data for. This is a designed degradation, not an error.
func notFoundProduct(upc string) *Product {
	now := time.Now().UTC()
	return &Product{
		UPC:              upc,
		Name:             notFoundName,
		DataSource:       DataSourceExternalAPI,
		RequiresAPIRetry: true,
		RetryAttempts:    1,
		LastRetryAttempt: &now,
	}
}

// hasObject reports whether raw holds a JSON value other than null.
func hasObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// stringField extracts a non-blank string field; non-string and blank
// values both count as absent.
func stringField(fields map[string]any, key string) (string, bool) {
	value, ok := fields[key]
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// firstListed takes the trimmed first element of a comma-separated source
// field. Empty or non-string sources yield nil, never an empty string.
func firstListed(fields map[string]any, key string) *string {
	value, ok := fields[key]
	if !ok {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	first := strings.TrimSpace(strings.SplitN(s, ",", 2)[0])
	if first == "" {
		return nil
	}
	return &first
}
