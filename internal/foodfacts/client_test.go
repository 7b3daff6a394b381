package foodfacts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pantrio/pantrio/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(Config{
		BaseURL:   server.URL,
		UserAgent: "Pantrio/1.0 (support@pantrio.app)",
		Timeout:   2 * time.Second,
	}, server.Client())
	return client, server
}

func TestFetch_FoundProduct(t *testing.T) {
	var gotPath, gotAgent string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": 1,
			"product": map[string]any{
				"product_name": "Nutella",
				"brands":       "Ferrero, Nutella, Kinder",
				"categories":   "Spreads,Sweet spreads,Hazelnut spreads",
			},
		})
	})

	product, err := client.Fetch(context.Background(), "3017624010701")
	require.NoError(t, err)
	require.Equal(t, "/api/v2/product/3017624010701.json", gotPath)
	require.Equal(t, "Pantrio/1.0 (support@pantrio.app)", gotAgent)

	require.True(t, product.Found())
	require.Equal(t, "3017624010701", product.UPC)
	require.Equal(t, "Nutella", product.Name)
	require.NotNil(t, product.Brand)
	require.Equal(t, "Ferrero", *product.Brand)
	require.NotNil(t, product.Category)
	require.Equal(t, "Spreads", *product.Category)
	require.Equal(t, DataSourceExternalAPI, product.DataSource)
	require.False(t, product.RequiresAPIRetry)
	require.Zero(t, product.RetryAttempts)
	require.Nil(t, product.LastRetryAttempt)
}

func TestFetch_NameFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		product map[string]any
		want    string
	}{
		{"generic name fallback", map[string]any{"generic_name": "Hazelnut Spread"}, "Hazelnut Spread"},
		{"blank product name falls through", map[string]any{"product_name": "   ", "generic_name": "Spread"}, "Spread"},
		{"non-string product name falls through", map[string]any{"product_name": 42, "generic_name": "Spread"}, "Spread"},
		{"no usable name", map[string]any{"code": "123"}, "Unknown Product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"status": 1, "product": tt.product})
			})

			product, err := client.Fetch(context.Background(), "123")
			require.NoError(t, err)
			require.True(t, product.Found())
			require.Equal(t, tt.want, product.Name)
		})
	}
}

func TestFetch_BrandAndCategoryNormalization(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": 1,
			"product": map[string]any{
				"product_name": "Mystery Snack",
				"brands":       "   ",
				"categories":   []string{"not", "a", "string"},
			},
		})
	})

	product, err := client.Fetch(context.Background(), "555")
	require.NoError(t, err)
	require.Nil(t, product.Brand)
	require.Nil(t, product.Category)
}

func TestFetch_StatusZeroReturnsPlaceholder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":0,"status_verbose":"product not found"}`))
	})

	product, err := client.Fetch(context.Background(), "000000000000")
	require.NoError(t, err)
	require.False(t, product.Found())
	require.Equal(t, "Product not found", product.Name)
	require.Equal(t, "000000000000", product.UPC)
	require.Equal(t, DataSourceExternalAPI, product.DataSource)
	require.True(t, product.RequiresAPIRetry)
	require.Equal(t, 1, product.RetryAttempts)
	require.NotNil(t, product.LastRetryAttempt)
	require.WithinDuration(t, time.Now().UTC(), *product.LastRetryAttempt, 5*time.Second)
}

func TestFetch_NonIntegerStatusIsNotFound(t *testing.T) {
	// Anything other than the integer literal 1 means not found, even when
	// a product object is present.
	bodies := []string{
		`{"status":"1","product":{"product_name":"Ghost"}}`,
		`{"status":1.0,"product":{"product_name":"Ghost"}}`,
		`{"product":{"product_name":"Ghost"}}`,
		`{"status":1,"product":null}`,
		`{"status":1}`,
	}

	for _, body := range bodies {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		})

		product, err := client.Fetch(context.Background(), "42")
		require.NoError(t, err, "body %s", body)
		require.False(t, product.Found(), "body %s", body)
		require.Equal(t, "Product not found", product.Name, "body %s", body)
	}
}

func TestFetch_BlankUPCSkipsNetwork(t *testing.T) {
	var calls int64
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
	})

	for _, upc := range []string{"", "   ", "\t\n"} {
		_, err := client.Fetch(context.Background(), upc)
		require.Error(t, err)
		require.True(t, types.IsErrorType(err, types.ErrorTypeValidation))
	}
	require.Zero(t, atomic.LoadInt64(&calls))
}

func TestFetch_MalformedBodyIsParsingError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>gateway timeout</html>`},
		{"empty body", ``},
		{"whitespace body", "  \n "},
		{"product not an object", `{"status":1,"product":"oops"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Fetch(context.Background(), "123")
			require.Error(t, err)
			require.True(t, types.IsErrorType(err, types.ErrorTypeParsing), "got %v", err)
		})
	}
}

func TestFetch_ServerErrorStatusReturnsPlaceholder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	product, err := client.Fetch(context.Background(), "789")
	require.NoError(t, err)
	require.False(t, product.Found())
	require.True(t, product.RequiresAPIRetry)
}

func TestFetch_TransportErrorIsExternalServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := New(Config{BaseURL: server.URL}, nil)
	server.Close()

	_, err := client.Fetch(context.Background(), "123")
	require.Error(t, err)
	require.True(t, types.IsErrorType(err, types.ErrorTypeExternalService))
}

func TestFetch_StagingUsesBasicAuth(t *testing.T) {
	var user, pass string
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, hasAuth = r.BasicAuth()
		_, _ = w.Write([]byte(`{"status":0}`))
	}))
	t.Cleanup(server.Close)

	client := New(Config{
		BaseURL:         "http://production.invalid",
		StagingBaseURL:  server.URL,
		UseStaging:      true,
		StagingUser:     "off",
		StagingPassword: "off",
	}, server.Client())

	_, err := client.Fetch(context.Background(), "123")
	require.NoError(t, err)
	require.True(t, hasAuth)
	require.Equal(t, "off", user)
	require.Equal(t, "off", pass)
}

func TestFetch_ProductionSendsNoAuth(t *testing.T) {
	var hasAuth bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _, hasAuth = r.BasicAuth()
		_, _ = w.Write([]byte(`{"status":0}`))
	})

	_, err := client.Fetch(context.Background(), "123")
	require.NoError(t, err)
	require.False(t, hasAuth)
}

func TestFetchDetailed_RequestsFieldsAndMapsExtras(t *testing.T) {
	var gotFields string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFields = r.URL.Query().Get("fields")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": 1,
			"product": map[string]any{
				"product_name":     "Nutella",
				"brands":           "Ferrero",
				"categories":       "Spreads",
				"nutrition_grades": "e",
				"ingredients_text": "Sugar, palm oil, hazelnuts 13%",
				"nutriments": map[string]any{
					"energy-kcal_100g": 539,
					"sugars_100g":      56.3,
				},
			},
		})
	})

	product, err := client.FetchDetailed(context.Background(), "3017624010701")
	require.NoError(t, err)
	require.Equal(t, detailedFields, gotFields)
	require.Contains(t, strings.Split(gotFields, ","), "nutriments")

	require.NotNil(t, product.NutritionGrade)
	require.Equal(t, "e", *product.NutritionGrade)
	require.NotNil(t, product.Ingredients)
	require.Equal(t, "Sugar, palm oil, hazelnuts 13%", *product.Ingredients)

	var nutriments map[string]any
	require.NoError(t, json.Unmarshal(product.Nutriments, &nutriments))
	require.InDelta(t, 539, nutriments["energy-kcal_100g"], 0.001)
	require.InDelta(t, 56.3, nutriments["sugars_100g"], 0.001)
}

func TestFetch_PlainLookupOmitsFieldsParam(t *testing.T) {
	var rawQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"status":0}`))
	})

	_, err := client.Fetch(context.Background(), "123")
	require.NoError(t, err)
	require.Empty(t, rawQuery)
}

func TestFetch_RepeatLookupsAreIdempotent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  1,
			"product": map[string]any{"product_name": "Oats", "brands": "Quaker"},
		})
	})

	first, err := client.Fetch(context.Background(), "321")
	require.NoError(t, err)
	second, err := client.Fetch(context.Background(), "321")
	require.NoError(t, err)

	require.Equal(t, first.Name, second.Name)
	require.Equal(t, *first.Brand, *second.Brand)
	require.Equal(t, first.DataSource, second.DataSource)
}

func TestAvailable(t *testing.T) {
	t.Run("healthy upstream", func(t *testing.T) {
		var gotPath string
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"status":1,"product":{}}`))
		})

		require.True(t, client.Available(context.Background()))
		require.Equal(t, "/api/v2/product/"+healthCheckUPC+".json", gotPath)
	})

	t.Run("upstream 5xx", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		})

		require.False(t, client.Available(context.Background()))
	})

	t.Run("upstream unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		client := New(Config{BaseURL: server.URL}, nil)
		server.Close()

		require.False(t, client.Available(context.Background()))
	})
}
