package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCategory(t *testing.T, api *Api, token, name string) string {
	t.Helper()
	w := doRequest(t, api, http.MethodPost, "/categories", token, map[string]string{
		"name":        name,
		"description": "test category",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	return decodeBody(t, w)["id"].(string)
}

func TestCategoryCRUD(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	id := createCategory(t, api, access, "Electronics")

	w := doRequest(t, api, http.MethodGet, "/categories/"+id, access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Electronics", decodeBody(t, w)["name"])

	w = doRequest(t, api, http.MethodPut, "/categories/"+id, access, map[string]string{
		"name": "Audio", "description": "Hifi gear",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Audio", decodeBody(t, w)["name"])

	w = doRequest(t, api, http.MethodGet, "/categories", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	w = doRequest(t, api, http.MethodDelete, "/categories/"+id, access, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, api, http.MethodGet, "/categories/"+id, access, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeBody(t, w)["error"])
}

func TestCategoryValidation(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	w := doRequest(t, api, http.MethodPost, "/categories", access, map[string]string{
		"description": "nameless",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_failed", decodeBody(t, w)["error"])
}

func TestCategoryUnknownID(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		w := doRequest(t, api, method, "/categories/no-such-id", access, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
	}

	w := doRequest(t, api, http.MethodPut, "/categories/no-such-id", access, map[string]string{"name": "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryListEmpty(t *testing.T) {
	api := setupTestAPI(t)
	access, _ := registerAlice(t, api)

	w := doRequest(t, api, http.MethodGet, "/categories", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Empty list marshals as [], not null.
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCategoryIsolationBetweenUsers(t *testing.T) {
	api := setupTestAPI(t)
	aliceToken, _ := registerAlice(t, api)

	w := doRequest(t, api, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "bob@example.com", "password": "Sup3r$ecret!",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	bobToken := decodeBody(t, w)["tokens"].(map[string]any)["access_token"].(string)

	id := createCategory(t, api, aliceToken, "Private")

	// Bob cannot see or touch Alice's category.
	w = doRequest(t, api, http.MethodGet, "/categories/"+id, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, api, http.MethodDelete, "/categories/"+id, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
