package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmailClient_SendSuccess(t *testing.T) {
	var gotAuth string
	var gotBody emailRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer server.Close()

	c := NewEmailClientWithBaseURL(server.URL, "test-api-key", "Sender <from@example.com>", 5*time.Second, zap.NewNop(), nil)

	attachments := []EmailAttachment{
		{Filename: "doc.pdf", Content: "aGVsbG8=", Type: "application/pdf"},
	}
	err := c.Send(context.Background(), "to@example.com", "件名", "<p>本文</p>", attachments)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, "Sender <from@example.com>", gotBody.From)
	assert.Equal(t, []string{"to@example.com"}, gotBody.To)
	assert.Equal(t, "件名", gotBody.Subject)
	assert.Equal(t, "<p>本文</p>", gotBody.HTML)
	require.Len(t, gotBody.Attachments, 1)
	assert.Equal(t, "doc.pdf", gotBody.Attachments[0].Filename)
	assert.Equal(t, "aGVsbG8=", gotBody.Attachments[0].Content)
}

func TestEmailClient_SendNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer server.Close()

	c := NewEmailClientWithBaseURL(server.URL, "test-api-key", "from@example.com", 5*time.Second, zap.NewNop(), nil)

	err := c.Send(context.Background(), "to@example.com", "件名", "<p>本文</p>", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestEmailClient_SendConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c := NewEmailClientWithBaseURL(server.URL, "test-api-key", "from@example.com", time.Second, zap.NewNop(), nil)

	err := c.Send(context.Background(), "to@example.com", "件名", "<p>本文</p>", nil)
	require.Error(t, err)
}

func TestNoOpEmailClient(t *testing.T) {
	c := NewNoOpEmailClient()
	assert.NoError(t, c.Send(context.Background(), "to@example.com", "s", "b", nil))
}
