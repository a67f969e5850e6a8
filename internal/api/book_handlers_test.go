package api

import (
	"encoding/json/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookListBody struct {
	Books []BookResponse `json:"books"`
	Total int            `json:"total"`
}

func createBook(t *testing.T, ts *testServer, authHeader string, body map[string]any) BookResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/books", "Authorization: "+authHeader, body)
	require.Equal(t, http.StatusOK, resp.Code, "Create failed: %s", resp.Body.String())

	var envelope testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreateBook_AppliesDefaults(t *testing.T) {
	ts := newTestServer(t, "")
	authHeader, _ := ts.setupRootUser(t)

	book := createBook(t, ts, authHeader, map[string]any{"title": "Dune"})

	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Unknown Author", book.Author)
	assert.Equal(t, 0, book.ReadPages)
	assert.Equal(t, []string{}, book.Quotes)
	assert.False(t, book.AddedAt.IsZero())
	assert.False(t, book.Finished)
}

func TestBooks_RequireAuth(t *testing.T) {
	ts := newTestServer(t, "")

	resp := ts.api.Get("/api/v1/books")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Post("/api/v1/books", map[string]any{"title": "Dune"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.api.Get("/api/v1/books", "Authorization: Basic nope")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestListBooks_ScopedToOwner(t *testing.T) {
	ts := newTestServer(t, "")
	adminAuth, _ := ts.setupRootUser(t)
	memberAuth := ts.registerAndApproveUser(t, adminAuth, "member@example.com")

	createBook(t, ts, adminAuth, map[string]any{"title": "Admin's Book"})
	created := createBook(t, ts, memberAuth, map[string]any{"title": "Member's Book"})

	resp := ts.api.Get("/api/v1/books", "Authorization: "+memberAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[bookListBody]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Equal(t, 1, list.Data.Total)
	assert.Equal(t, "Member's Book", list.Data.Books[0].Title)

	// Reading another user's book looks like a missing book.
	resp = ts.api.Get("/api/v1/books/"+created.ID, "Authorization: "+adminAuth)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateBook_FullOverwrite(t *testing.T) {
	ts := newTestServer(t, "")
	authHeader, _ := ts.setupRootUser(t)

	book := createBook(t, ts, authHeader, map[string]any{
		"title": "Dune",
		"notes": "started reading",
	})

	resp := ts.api.Put("/api/v1/books/"+book.ID, "Authorization: "+authHeader, map[string]any{
		"title":      "Dune",
		"author":     "Frank Herbert",
		"pages":      412,
		"read_pages": 412,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, book.ID, updated.Data.ID)
	assert.Equal(t, "", updated.Data.Notes, "omitted fields reset to defaults")
	assert.True(t, updated.Data.Finished)
}

func TestUpdateBook_ForeignOrMissing(t *testing.T) {
	ts := newTestServer(t, "")
	adminAuth, _ := ts.setupRootUser(t)
	memberAuth := ts.registerAndApproveUser(t, adminAuth, "member@example.com")

	book := createBook(t, ts, adminAuth, map[string]any{"title": "Dune"})

	resp := ts.api.Put("/api/v1/books/"+book.ID, "Authorization: "+memberAuth, map[string]any{
		"title": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = ts.api.Put("/api/v1/books/book-missing", "Authorization: "+adminAuth, map[string]any{
		"title": "ghost",
	})
	assert.Equal(t, http.StatusForbidden, resp.Code, "updates never create documents")
}

func TestDeleteBook(t *testing.T) {
	ts := newTestServer(t, "")
	authHeader, _ := ts.setupRootUser(t)

	book := createBook(t, ts, authHeader, map[string]any{"title": "Dune"})

	resp := ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: "+authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/books/"+book.ID, "Authorization: "+authHeader)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.api.Delete("/api/v1/books/"+book.ID, "Authorization: "+authHeader)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearchBooks(t *testing.T) {
	ts := newTestServer(t, "")
	authHeader, _ := ts.setupRootUser(t)

	createBook(t, ts, authHeader, map[string]any{"title": "Dune", "author": "Frank Herbert"})
	createBook(t, ts, authHeader, map[string]any{"title": "Hyperion", "author": "Dan Simmons"})

	resp := ts.api.Get("/api/v1/books/search?q=dune", "Authorization: "+authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result testEnvelope[struct {
		Total uint64 `json:"total"`
		Hits  []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"hits"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Len(t, result.Data.Hits, 1)
	assert.Equal(t, "Dune", result.Data.Hits[0].Title)
}

func TestCatalogSearchAndImport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"totalItems": 1,
			"items": [{
				"id": "vol-1",
				"volumeInfo": {
					"title": "Dune",
					"authors": ["Frank Herbert"],
					"pageCount": 412,
					"imageLinks": {"thumbnail": "http://covers.example/dune.jpg"}
				}
			}]
		}`))
	}))
	t.Cleanup(srv.Close)

	ts := newTestServer(t, srv.URL)
	authHeader, _ := ts.setupRootUser(t)

	resp := ts.api.Get("/api/v1/catalog/search?q=dune", "Authorization: "+authHeader)
	require.Equal(t, http.StatusOK, resp.Code)

	var result testEnvelope[struct {
		Volumes []map[string]any `json:"volumes"`
		Total   int              `json:"total"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Equal(t, 1, result.Data.Total)

	resp = ts.api.Post("/api/v1/catalog/import", "Authorization: "+authHeader, map[string]any{
		"id":         "vol-1",
		"title":      "Dune",
		"authors":    []string{"Frank Herbert"},
		"page_count": 412,
		"cover_url":  "http://covers.example/dune.jpg",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var imported testEnvelope[BookResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &imported))
	assert.Equal(t, "Dune", imported.Data.Title)
	assert.Equal(t, "Frank Herbert", imported.Data.Author)
	assert.Equal(t, 412, imported.Data.Pages)
	assert.Equal(t, 0, imported.Data.ReadPages)
}

func TestCatalogSearch_ProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	ts := newTestServer(t, srv.URL)
	authHeader, _ := ts.setupRootUser(t)

	resp := ts.api.Get("/api/v1/catalog/search?q=dune", "Authorization: "+authHeader)
	require.Equal(t, http.StatusOK, resp.Code, "provider failure must not fail the request")

	var result testEnvelope[struct {
		Total int `json:"total"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, 0, result.Data.Total)
}

func TestAdminAdoptAndReindex(t *testing.T) {
	ts := newTestServer(t, "")
	adminAuth, _ := ts.setupRootUser(t)

	createBook(t, ts, adminAuth, map[string]any{"title": "Dune"})

	resp := ts.api.Post("/api/v1/admin/books/adopt", "Authorization: "+adminAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	var adopt testEnvelope[struct {
		Adopted int `json:"adopted"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &adopt))
	assert.Equal(t, 0, adopt.Data.Adopted, "owned books are never adopted")

	resp = ts.api.Post("/api/v1/admin/search/reindex", "Authorization: "+adminAuth)
	require.Equal(t, http.StatusOK, resp.Code)

	var reindex testEnvelope[struct {
		Indexed int `json:"indexed"`
	}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reindex))
	assert.Equal(t, 1, reindex.Data.Indexed)
}
