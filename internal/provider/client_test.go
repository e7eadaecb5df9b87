package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestSearchBuildsQueryAndDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "14", q.Get("category"))
		assert.Equal(t, "time", q.Get("sort_by"))
		assert.Equal(t, "desc", q.Get("sort_order"))
		assert.Equal(t, "35", q.Get("limit"))
		assert.Equal(t, "0", q.Get("price_min"))
		assert.Equal(t, "0", q.Get("price_max"))
		assert.Empty(t, q.Get("keywords"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ads":[
			{"list_id":101,"subject":"Free TV","price":0,"url":"https://m/101",
			 "images":{"small_url":"http://img/101.jpg"},
			 "location":{"city":"Paris","lat":48.86,"lng":2.35},
			 "first_publication_date":"2026-08-30 10:00:00"},
			{"list_id":102,"subject":"Lamp"}
		]}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, RequestsPerSec: 1000})
	listings, err := c.Search(context.Background(), SearchParams{
		Category: "14", Limit: 35, PriceMin: intp(0), PriceMax: intp(0),
	})
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, int64(101), listings[0].ID)
	assert.Equal(t, "http://img/101.jpg", listings[0].ImageURL())
	assert.Equal(t, "Paris", listings[0].Location.City)

	// Missing optional fields default instead of erroring.
	assert.Equal(t, float64(0), listings[1].Price)
	assert.Empty(t, listings[1].ImageURL())
	assert.Nil(t, listings[1].Location)
}

func TestSearchAcceptsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"list_id":7,"subject":"x","images":{"urls":["http://a","http://b"]}}]`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, RequestsPerSec: 1000})
	listings, err := c.Search(context.Background(), SearchParams{Category: "15", Limit: 5, Keywords: "don"})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "http://a", listings[0].ImageURL())
}

func TestSearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, RequestsPerSec: 1000})
	_, err := c.Search(context.Background(), SearchParams{Category: "14", Limit: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearchGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, RequestsPerSec: 1000})
	_, err := c.Search(context.Background(), SearchParams{Category: "14", Limit: 5})
	require.Error(t, err)
}
