package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tisseltassel/tisseltassel/internal/domain"
)

func TestGateway_New(t *testing.T) {
	t.Parallel()

	t.Run("missing transport", func(t *testing.T) {
		t.Parallel()

		_, err := New(Dependencies{Logger: hclog.NewNullLogger(), Registry: testRegistry(t)})
		require.EqualError(t, err, "invalid dependencies for gateway: transport cannot be nil")
	})

	t.Run("missing registry", func(t *testing.T) {
		t.Parallel()

		_, err := New(Dependencies{Logger: hclog.NewNullLogger(), Transport: &fakeTransport{}})
		require.EqualError(t, err, "invalid dependencies for gateway: converter registry cannot be nil")
	})

	t.Run("invalid option", func(t *testing.T) {
		t.Parallel()

		_, err := New(
			Dependencies{Logger: hclog.NewNullLogger(), Registry: testRegistry(t), Transport: &fakeTransport{}},
			WithMaxBodyBytes(0),
		)
		require.ErrorContains(t, err, "max body bytes must be positive")
	})
}

func TestGateway_Handle_RecentTracks(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{
		resp: domain.UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{"tracks": []}`)},
	}
	gw := testGateway(t, transport)

	resp := gw.Handle(context.Background(), Request{
		Method: http.MethodPost,
		Body:   []byte(`{"apiType":"lastFM","apiMethod":"user.getRecentTracks","apiData":{"user":"alice"}}`),
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, `{"response":{"tracks":[]},"status":"success","success":true}`, string(resp.Body))

	calls := transport.Calls()
	require.Len(t, calls, 1)
	require.Equal(
		t,
		"https://ws.audioscrobbler.com/2.0?method=user.getRecentTracks&format=json&api_key=secret&user=alice",
		calls[0].URL,
	)
	require.Nil(t, calls[0].Options)
}

func TestGateway_Handle_ArgumentValidationFailed(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	gw := testGateway(t, transport)

	resp := gw.Handle(context.Background(), Request{
		Method: http.MethodPost,
		Body:   []byte(`{"apiType":"lastFM","apiMethod":"user.getRecentTracks","apiData":{}}`),
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"message":"Argument validation failed.","status":"error","success":false}`, string(resp.Body))
	require.Empty(t, transport.Calls())
}

func TestGateway_Handle_Preflight(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{}
	gw := testGateway(t, transport)

	resp := gw.Handle(context.Background(), Request{Method: http.MethodOptions, Body: []byte(`not json{`)})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, resp.Body)
	require.Equal(t, DefaultCORSHeaders().Map(), resp.Headers)
	require.Empty(t, transport.Calls())
}

func TestGateway_Handle_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "wrong verb",
			method:         http.MethodGet,
			body:           `{"apiType":"lastFM"}`,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedMsg:    "Method not allowed (hint: use POST)",
		},
		{
			name:           "invalid json",
			method:         http.MethodPost,
			body:           `not json{`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid JSON.",
		},
		{
			name:           "json array",
			method:         http.MethodPost,
			body:           `[1,2]`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid JSON.",
		},
		{
			name:           "empty body",
			method:         http.MethodPost,
			body:           ``,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid JSON.",
		},
		{
			name:           "no parameters",
			method:         http.MethodPost,
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "No parameters were passed.",
		},
		{
			name:           "unknown api type",
			method:         http.MethodPost,
			body:           `{"apiType":"spotify","apiMethod":"x","apiData":{}}`,
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Non-existent API spotify requested (is not available on server).",
		},
		{
			name:           "non-string api type",
			method:         http.MethodPost,
			body:           `{"apiType":42,"apiMethod":"x","apiData":{}}`,
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Non-existent API 42 requested (is not available on server).",
		},
		{
			name:           "unknown api method",
			method:         http.MethodPost,
			body:           `{"apiType":"lastFM","apiMethod":"user.getFriends","apiData":{}}`,
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Non-existent API method user.getFriends for API lastFM requested (is not available on server).",
		},
		{
			name:           "scalar api data",
			method:         http.MethodPost,
			body:           `{"apiType":"lastFM","apiMethod":"user.getRecentTracks","apiData":"alice"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid argument apiData (is not object)",
		},
		{
			name:           "null api data",
			method:         http.MethodPost,
			body:           `{"apiType":"lastFM","apiMethod":"user.getRecentTracks","apiData":null}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Invalid argument apiData (is not object)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			transport := &fakeTransport{}
			gw := testGateway(t, transport)

			resp := gw.Handle(context.Background(), Request{Method: tc.method, Body: []byte(tc.body)})

			require.Equal(t, tc.expectedStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.Unmarshal(resp.Body, &body))
			require.Equal(t, "error", body["status"])
			require.Equal(t, false, body["success"])
			require.Equal(t, tc.expectedMsg, body["message"])
			require.NotContains(t, body, "response")

			require.Empty(t, transport.Calls())
		})
	}
}

func TestGateway_Handle_FirstMissingParameter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body     string
		expected string
	}{
		{body: `{"other":1}`, expected: "apiType"},
		{body: `{"apiData":{}}`, expected: "apiType"},
		{body: `{"apiMethod":"m","apiData":{}}`, expected: "apiType"},
		{body: `{"apiType":"lastFM"}`, expected: "apiMethod"},
		{body: `{"apiType":"lastFM","apiData":{}}`, expected: "apiMethod"},
		{body: `{"apiType":"lastFM","apiMethod":"user.getInfo"}`, expected: "apiData"},
	}

	for _, tc := range tests {
		t.Run(tc.body, func(t *testing.T) {
			t.Parallel()

			gw := testGateway(t, &fakeTransport{})
			resp := gw.Handle(context.Background(), Request{Method: http.MethodPost, Body: []byte(tc.body)})

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.JSONEq(
				t,
				`{"message":"Parameter `+tc.expected+` missing from request.","status":"error","success":false}`,
				string(resp.Body),
			)
		})
	}
}

func TestGateway_Handle_ArrayAPIData(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{resp: domain.UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`"pong"`)}}
	gw := testGateway(t, transport)

	resp := gw.Handle(context.Background(), Request{
		Method: http.MethodPost,
		Body:   []byte(`{"apiType":"echo","apiMethod":"ping","apiData":[1,2,3]}`),
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"response":"pong","status":"success","success":true}`, string(resp.Body))
	require.Len(t, transport.Calls(), 1)
}

func TestGateway_Handle_UpstreamFailure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "upstream error body is relayed",
			err: &domain.UpstreamError{
				StatusCode: http.StatusForbidden,
				Body:       []byte(`{"error":10,"message":"Invalid API key"}`),
			},
			expected: `{"message":"Request failed.","response":{"error":10,"message":"Invalid API key"},"status":"error","success":false}`,
		},
		{
			name:     "no upstream body",
			err:      &domain.UpstreamError{Err: context.DeadlineExceeded},
			expected: `{"message":"Request failed.","response":null,"status":"error","success":false}`,
		},
		{
			name:     "non-json upstream body",
			err:      &domain.UpstreamError{StatusCode: http.StatusBadGateway, Body: []byte("bad gateway")},
			expected: `{"message":"Request failed.","response":"bad gateway","status":"error","success":false}`,
		},
		{
			name:     "transport error without upstream detail",
			err:      assert.AnError,
			expected: `{"message":"Request failed.","response":null,"status":"error","success":false}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gw := testGateway(t, &fakeTransport{err: tc.err})
			resp := gw.Handle(context.Background(), Request{
				Method: http.MethodPost,
				Body:   []byte(`{"apiType":"lastFM","apiMethod":"user.getInfo","apiData":{"user":"alice"}}`),
			})

			require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			require.Equal(t, tc.expected, string(resp.Body))
		})
	}
}

func TestGateway_Handle_CORSOnEveryResponse(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{resp: domain.UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{}`)}}
	gw := testGateway(t, transport, WithCORSHeaders("https://app.example.com", "POST,OPTIONS", ""))

	requests := []Request{
		{Method: http.MethodOptions},
		{Method: http.MethodGet},
		{Method: http.MethodPost, Body: []byte(`nope`)},
		{Method: http.MethodPost, Body: []byte(`{"apiType":"lastFM","apiMethod":"user.getInfo","apiData":{}}`)},
		{Method: http.MethodPost, Body: []byte(`{"apiType":"lastFM","apiMethod":"user.getInfo","apiData":{"user":"a"}}`)},
	}

	for _, req := range requests {
		resp := gw.Handle(context.Background(), req)

		assert.Equal(t, "https://app.example.com", resp.Headers["Access-Control-Allow-Origin"])
		assert.Equal(t, "POST,OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
		assert.Equal(t, "Content-Type", resp.Headers["Access-Control-Allow-Headers"])

		if len(resp.Body) == 0 {
			continue
		}

		// The success flag always mirrors the status.
		var body struct {
			Status  string `json:"status"`
			Success bool   `json:"success"`
		}
		require.NoError(t, json.Unmarshal(resp.Body, &body))
		assert.Equal(t, body.Status == StatusSuccess, body.Success)
		assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	}
}

func TestGateway_Handle_DetachedFromCallerCancellation(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{resp: domain.UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{}`)}}
	gw := testGateway(t, transport)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := gw.Handle(ctx, Request{
		Method: http.MethodPost,
		Body:   []byte(`{"apiType":"lastFM","apiMethod":"user.getInfo","apiData":{"user":"alice"}}`),
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, transport.ctxErr, 1)
	require.NoError(t, transport.ctxErr[0])
}

func TestGateway_ServeHTTP(t *testing.T) {
	t.Parallel()

	transport := &fakeTransport{resp: domain.UpstreamResponse{StatusCode: http.StatusOK, Body: []byte(`{"tracks":[]}`)}}
	gw := testGateway(t, transport, WithMaxBodyBytes(256))

	t.Run("post", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(
			http.MethodPost,
			"/",
			strings.NewReader(`{"apiType":"lastFM","apiMethod":"user.getRecentTracks","apiData":{"user":"alice"}}`),
		)
		rec := httptest.NewRecorder()

		gw.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, `{"response":{"tracks":[]},"status":"success","success":true}`, rec.Body.String())
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "GET,POST,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
		require.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		gw.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.Empty(t, rec.Body.String())
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Empty(t, rec.Header().Get("Content-Type"))
	})

	t.Run("oversized body", func(t *testing.T) {
		t.Parallel()

		body := `{"apiType":"lastFM","apiMethod":"user.getInfo","apiData":{"user":"` + strings.Repeat("a", 512) + `"}}`
		rec := httptest.NewRecorder()
		gw.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"message":"Invalid JSON.","status":"error","success":false}`, rec.Body.String())
	})
}
