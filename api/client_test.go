package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/mdsite/pkg/md"
)

func loadTestData(t *testing.T, filename string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	require.NoError(t, err)
	return data
}

func TestNewClient(t *testing.T) {
	client := NewClient("https://blog.example.com/")

	assert.NotNil(t, client)
	assert.Equal(t, "https://blog.example.com", client.baseURL)
	assert.True(t, strings.HasPrefix(client.userAgent, "mdsite/"))
}

func TestClient_Headers(t *testing.T) {
	var capturedHeaders http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Get(context.Background(), "/test")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(capturedHeaders.Get("User-Agent"), "mdsite/"))
	assert.Contains(t, capturedHeaders.Get("Accept"), "application/json")
}

func TestClient_ErrorResponse(t *testing.T) {
	tests := []struct {
		name           string
		statusCode     int
		responseBody   string
		expectedErrMsg string
	}{
		{
			name:           "404 without body",
			statusCode:     404,
			responseBody:   ``,
			expectedErrMsg: "Not Found",
		},
		{
			name:           "html error page",
			statusCode:     502,
			responseBody:   `<html><body>Bad gateway</body></html>`,
			expectedErrMsg: "Bad Gateway",
		},
		{
			name:           "json message",
			statusCode:     403,
			responseBody:   `{"message": "Access denied"}`,
			expectedErrMsg: "Access denied",
		},
		{
			name:           "error with errors array",
			statusCode:     400,
			responseBody:   `{"message": "Bad request", "errors": ["Invalid path", "Missing file"]}`,
			expectedErrMsg: "Invalid path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.responseBody))
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.Get(context.Background(), "/test")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErrMsg)

			var errResp *ErrorResponse
			require.True(t, errors.As(err, &errResp))
			assert.Equal(t, tt.statusCode, errResp.StatusCode)
			assert.Equal(t, server.URL+"/test", errResp.URL)
		})
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Slow response
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.Get(ctx, "/test")
	require.Error(t, err)
}

func TestClient_URLConstruction(t *testing.T) {
	var capturedPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	tests := []struct {
		input        string
		expectedPath string
	}{
		{"/comics/v1/manifest.json", "/comics/v1/manifest.json"},
		{"comics/v1/manifest.json", "/comics/v1/manifest.json"},
		{server.URL + "/absolute/posts.json", "/absolute/posts.json"},
	}

	for _, tt := range tests {
		_, err := client.Get(context.Background(), tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.expectedPath, capturedPath)
	}
}

func TestClient_ResolveErrors(t *testing.T) {
	_, err := NewClient("").Get(context.Background(), "/posts.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no base URL")

	_, err = NewClient("https://blog.example.com").Get(context.Background(), "ftp://example.com/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL scheme")
}

func TestClient_Ping(t *testing.T) {
	var method string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		if r.URL.Path != "/" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	require.NoError(t, NewClient(server.URL).Ping(context.Background()))
	assert.Equal(t, http.MethodHead, method)

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()
	assert.Error(t, NewClient(down.URL).Ping(context.Background()))
}

func TestClient_GetManifest(t *testing.T) {
	testData := loadTestData(t, "manifest.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comics/vol-1/manifest.json", r.URL.Path)
		assert.Equal(t, "GET", r.Method)
		w.WriteHeader(http.StatusOK)
		w.Write(testData)
	}))
	defer server.Close()

	client := NewClient("")
	m, err := client.GetManifest(context.Background(), server.URL+"/comics/vol-1/manifest.json")
	require.NoError(t, err)
	assert.Equal(t, "vol-1", m.ID)
	assert.Equal(t, "/comics/vol-1/cover.webp", m.Cover)
	assert.Len(t, m.Images, 2)
}

func TestClient_GetManifest_Invalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).GetManifest(context.Background(), "/comics/x/manifest.json")
	assert.True(t, errors.Is(err, md.ErrManifestInvalid))
}

func TestClient_RemoteManifests(t *testing.T) {
	testData := loadTestData(t, "manifest.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comics/vol-1/manifest.json", r.URL.Path)
		w.Write(testData)
	}))
	defer server.Close()

	remote := md.RemoteManifests{Fetcher: NewClient(""), Timeout: time.Second}
	m, err := remote.ReadManifest(server.URL + "/comics/vol-1/")
	require.NoError(t, err)
	assert.Equal(t, "Volume 1", m.Name)
}

func TestClient_ListPosts(t *testing.T) {
	testData := loadTestData(t, "posts.json")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts.json", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		w.Write(testData)
	}))
	defer server.Close()

	posts, err := NewClient(server.URL).ListPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, "trip-report", posts[0].Slug)
	assert.Equal(t, []string{"travel", "video"}, posts[0].Tags)
	assert.Equal(t, 2024, posts[0].Date.Year())
	assert.Equal(t, time.May, posts[0].Date.Month())

	assert.Equal(t, 1, posts[1].Warnings)
	assert.Equal(t, 9, posts[1].Date.Hour())
}

func TestClient_ListPosts_Invalid(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "a list"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).ListPosts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse posts index")
}

func TestTime_JSON(t *testing.T) {
	var tm Time
	require.NoError(t, tm.UnmarshalJSON([]byte(`"2024-02-03"`)))
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), tm.Time)

	require.NoError(t, tm.UnmarshalJSON([]byte(`null`)))
	assert.Error(t, tm.UnmarshalJSON([]byte(`"yesterday"`)))

	data, err := Time{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = Time{Time: time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-03T04:05:06Z"`, string(data))
}
