package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPPlannerPostsGoal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/generate", r.URL.Path)

		var req struct {
			Goal string `json:"goal"`
			Days int    `json:"days"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Learn Go", req.Goal)
		require.Equal(t, 7, req.Days)

		_, _ = w.Write([]byte(`{"chapters":["basics"]}`))
	}))
	defer server.Close()

	plan, err := NewHTTPPlanner(server.URL).Plan(context.Background(), "Learn Go", 7)
	require.NoError(t, err)
	require.JSONEq(t, `{"chapters":["basics"]}`, string(plan))
}

func TestHTTPPlannerSurfacesAgentError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewHTTPPlanner(server.URL).Plan(context.Background(), "Learn Go", 7)
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
	require.Contains(t, err.Error(), "model overloaded")
}

func TestHTTPPlannerRejectsEmptyPlan(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	_, err := NewHTTPPlanner(server.URL).Plan(context.Background(), "Learn Go", 7)
	require.Error(t, err)
}

func TestIPFSStoreAdd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v0/add", r.URL.Path)

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		_ = json.NewEncoder(w).Encode(map[string]string{
			"Name": "plan.json",
			"Hash": "QmArtifact",
		})
	}))
	defer server.Close()

	cid, err := NewIPFSStore(server.URL).Add(context.Background(), []byte("{}"))
	require.NoError(t, err)
	require.Equal(t, "QmArtifact", cid)
}

func TestIPFSStoreAddFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no space left", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewIPFSStore(server.URL).Add(context.Background(), []byte("{}"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestIPFSStoreRejectsEmptyHash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	_, err := NewIPFSStore(server.URL).Add(context.Background(), []byte("{}"))
	require.Error(t, err)
}
