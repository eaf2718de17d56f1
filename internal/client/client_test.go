package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NomadCrew/comment-board/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_ListAndSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/comments":
			writeJSON(w, http.StatusOK, []string{"Hello", "bye"})
		case "/comments/search":
			assert.Equal(t, "hel lo", r.URL.Query().Get("query"))
			writeJSON(w, http.StatusOK, []string{"Hello"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")

	comments, err := c.ListComments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", "bye"}, comments)

	found, err := c.SearchComments(context.Background(), "hel lo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello"}, found)
}

func TestClient_NullListIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("null"))
	}))
	defer srv.Close()

	comments, err := New(srv.URL).ListComments(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, types.ErrorResponse{
			Type:    "PERSISTENCE_ERROR",
			Message: "Storage operation failed",
			Code:    "500",
		})
	}))
	defer srv.Close()

	_, err := New(srv.URL).ListComments(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "PERSISTENCE_ERROR", apiErr.Body.Type)
	assert.Contains(t, err.Error(), "Storage operation failed")
}

func TestClient_SubmitComment(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       interface{}
		wantStatus types.MutationStatus
		wantAPIErr bool
	}{
		{
			name:       "committed",
			status:     http.StatusCreated,
			body:       types.Committed(),
			wantStatus: types.MutationCommitted,
		},
		{
			name:       "invalid",
			status:     http.StatusBadRequest,
			body:       types.Invalid(map[string][]string{"comment": {"Comment is required"}}, map[string]string{"comment": ""}),
			wantStatus: types.MutationInvalid,
		},
		{
			name:       "failed",
			status:     http.StatusServiceUnavailable,
			body:       types.Failed("try again"),
			wantStatus: types.MutationFailed,
		},
		{
			name:       "bind error body",
			status:     http.StatusBadRequest,
			body:       types.ErrorResponse{Type: "VALIDATION_ERROR", Message: "Failed to bind request", Code: "400"},
			wantAPIErr: true,
		},
		{
			name:       "rate limited",
			status:     http.StatusTooManyRequests,
			body:       types.ErrorResponse{Type: "RATE_LIMITED", Message: "Too many submissions", Code: "429"},
			wantAPIErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "hello", r.PostForm.Get("comment"))
				writeJSON(w, tt.status, tt.body)
			}))
			defer srv.Close()

			result, err := New(srv.URL).SubmitComment(context.Background(), "hello")
			if tt.wantAPIErr {
				var apiErr *APIError
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, tt.status, apiErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, result.Status)
		})
	}
}

func TestClient_PostComment_RejectedIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, types.Failed("disk full"))
	}))
	defer srv.Close()

	err := New(srv.URL).PostComment(context.Background(), "hello")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotCommitted)

	var rejected *RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, types.MutationFailed, rejected.Result.Status)
	assert.Contains(t, err.Error(), "disk full")
}

func TestClient_SubmitFeedback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/feedback", r.URL.Path)
		assert.Equal(t, "Jordan", r.PostForm.Get("name"))
		assert.Equal(t, "jordan@example.com", r.PostForm.Get("email"))
		assert.Equal(t, "Great board overall", r.PostForm.Get("feedback"))
		writeJSON(w, http.StatusCreated, types.Committed())
	}))
	defer srv.Close()

	result, err := New(srv.URL).SubmitFeedback(context.Background(), "Jordan", "jordan@example.com", "Great board overall")
	require.NoError(t, err)
	assert.True(t, result.Success)
}
