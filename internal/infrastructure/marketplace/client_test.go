package marketplace_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"melidash/internal/domain"
	"melidash/internal/domain/entity"
	"melidash/internal/infrastructure/marketplace"
	"melidash/pkg/errcodes"
)

func TestClient(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	var updateBody string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/me/items", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"results":[{"id":"MLA1","title":"Mouse","price":25.5,`+
			`"available_quantity":4,"sold_quantity":10,"initial_quantity":14,"category_id":"MLA1648",`+
			`"status":"active","date_created":"2024-01-15T10:00:00Z"}]}`)
	})
	mux.HandleFunc("PUT /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "MLA2" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"price below allowed minimum"}`)

			return
		}

		b, _ := io.ReadAll(r.Body)
		updateBody = string(b)
		w.WriteHeader(http.StatusOK)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := marketplace.NewClient(marketplace.ClientConfig{
		BaseURL: server.URL + "/",
		Token:   "secret",
		Timeout: time.Second,
	})

	products, err := client.GetMyProducts(ctx)
	rq.NoError(err)
	rq.Equal([]entity.Product{{
		ID:                "MLA1",
		Title:             "Mouse",
		Price:             25.5,
		AvailableQuantity: 4,
		SoldQuantity:      10,
		InitialQuantity:   14,
		Category:          "MLA1648",
		Status:            "active",
		DateCreated:       time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}}, products)

	rq.NoError(client.UpdateProduct(ctx, "MLA1", 23.99))
	rq.JSONEq(`{"price":23.99}`, updateBody)

	err = client.UpdateProduct(ctx, "MLA2", 1)
	rq.True(domain.HasCode(err, errcodes.ProductUpdateError))
	rq.ErrorContains(err, "price below allowed minimum")

	unauthorized := marketplace.NewClient(marketplace.ClientConfig{BaseURL: server.URL, Timeout: time.Second})
	_, err = unauthorized.GetMyProducts(ctx)
	rq.True(domain.HasCode(err, errcodes.Unavailable))
}

func TestMemory(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	m := marketplace.NewMemory([]entity.Product{{ID: "MLA1", Price: 10}})

	rq.NoError(m.UpdateProduct(ctx, "MLA1", 12))

	products, err := m.GetMyProducts(ctx)
	rq.NoError(err)
	rq.InDelta(12, products[0].Price, 1e-9)

	products[0].Price = 99
	again, err := m.GetMyProducts(ctx)
	rq.NoError(err)
	rq.InDelta(12, again[0].Price, 1e-9)

	rq.True(domain.HasCode(m.UpdateProduct(ctx, "MLA9", 1), errcodes.ProductNotFound))
}
