package pubsub

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type outcome struct {
	Synced int `json:"synced"`
}

func TestNewCloudEvent(t *testing.T) {
	e, err := NewCloudEvent("/test", "com.example.test", outcome{Synced: 2})
	require.NoError(t, err)

	assert.Equal(t, "1.0", e.SpecVersion())
	assert.Equal(t, "/test", e.Source())
	assert.Equal(t, "com.example.test", e.Type())
	assert.NotEmpty(t, e.ID())
	assert.JSONEq(t, `{"synced":2}`, string(e.Data()))
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := &LogPublisher{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	e, err := NewCloudEvent("/test", "com.example.test", outcome{Synced: 1})
	require.NoError(t, err)

	id, err := p.PublishCloudEvent(context.Background(), "topic-x", e)
	require.NoError(t, err)
	assert.Equal(t, "mock-msg-id", id)
	assert.Contains(t, buf.String(), `"topic":"topic-x"`)
	assert.Contains(t, buf.String(), "com.example.test")
}

func TestPubSubAdapter_PublishCloudEvent(t *testing.T) {
	ctx := context.Background()
	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client, err := pubsub.NewClient(ctx, "test-project", option.WithGRPCConn(conn))
	require.NoError(t, err)
	defer client.Close()

	_, err = client.CreateTopic(ctx, "topic-sync-outcomes")
	require.NoError(t, err)

	e, err := NewCloudEvent("/test", "com.example.test", outcome{Synced: 3})
	require.NoError(t, err)

	adapter := &PubSubAdapter{Client: client}
	id, err := adapter.PublishCloudEvent(ctx, "topic-sync-outcomes", e)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	msgs := srv.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "com.example.test", msgs[0].Attributes["ce-type"])

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(msgs[0].Data, &envelope))
	assert.Equal(t, "com.example.test", envelope["type"])
	assert.Equal(t, e.ID(), envelope["id"])
	assert.Equal(t, map[string]interface{}{"synced": float64(3)}, envelope["data"])
}
