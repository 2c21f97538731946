package mail

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hotelops/reclamations-backend/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender_DisabledWithoutKey(t *testing.T) {
	sender, err := NewSender(config.MailConfig{}, nil)
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{To: "a@hotel.test", Subject: "s", HTML: "<p>x</p>"})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewSendGridSender_Validation(t *testing.T) {
	_, err := NewSendGridSender(config.MailConfig{FromEmail: "x@hotel.test"})
	require.Error(t, err)

	_, err = NewSendGridSender(config.MailConfig{SendgridAPIKey: "key"})
	require.Error(t, err)
}

func TestSendGridSender_PostsMessage(t *testing.T) {
	var (
		gotAuth string
		gotPath string
		payload map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender, err := NewSendGridSender(config.MailConfig{
		SendgridAPIKey: "SG.test",
		SendgridHost:   srv.URL,
		FromEmail:      "no-reply@hotel.test",
		FromName:       "Hotel",
	})
	require.NoError(t, err)

	err = sender.Send(context.Background(), Message{To: "alice@hotel.test", Subject: "Hello", HTML: "<h1>Hi</h1>"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer SG.test", gotAuth)
	assert.Equal(t, "/v3/mail/send", gotPath)
	assert.Equal(t, "Hello", payload["subject"])

	from, ok := payload["from"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "no-reply@hotel.test", from["email"])

	personalizations, ok := payload["personalizations"].([]any)
	require.True(t, ok)
	require.Len(t, personalizations, 1)
	to := personalizations[0].(map[string]any)["to"].([]any)
	assert.Equal(t, "alice@hotel.test", to[0].(map[string]any)["email"])
}

func TestSendGridSender_ErrorStatus(t *testing.T) {
	sender, err := NewSendGridSender(config.MailConfig{SendgridAPIKey: "k", FromEmail: "f@hotel.test"})
	require.NoError(t, err)
	sender.makeCall = func(ctx context.Context, req sgRequest) (int, string, error) {
		return http.StatusUnauthorized, `{"errors":[{"message":"bad key"}]}`, nil
	}

	err = sender.Send(context.Background(), Message{To: "a@hotel.test", Subject: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestSendGridSender_RequiresRecipient(t *testing.T) {
	sender, err := NewSendGridSender(config.MailConfig{SendgridAPIKey: "k", FromEmail: "f@hotel.test"})
	require.NoError(t, err)
	require.Error(t, sender.Send(context.Background(), Message{Subject: "s"}))
}
