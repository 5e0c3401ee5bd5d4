package mqtt

import (
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-discovery-backend/config"
	"go-discovery-backend/logger"
)

type fakeToken struct {
	paho.Token
	err error
}

func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Error() error                   { return t.err }

type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeClient implements only what Client uses; other paho.Client methods panic.
type fakeClient struct {
	paho.Client
	sent []published
	err  error
}

func (f *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	f.sent = append(f.sent, published{topic, qos, payload.([]byte)})
	return fakeToken{err: f.err}
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "discovery/results/created", Topic("discovery", TopicResultCreated))
	assert.Equal(t, "discovery/results/created", Topic("/discovery/", "/results/created"))
	assert.Equal(t, "generation/completed", Topic("", TopicGenerationCompleted))
}

func TestConnectWithoutBrokerIsNoop(t *testing.T) {
	p, err := Connect(config.MQTTConfig{}, logger.Nop())
	require.NoError(t, err)
	assert.IsType(t, Noop{}, p)
	assert.NoError(t, p.Publish(TopicResultCreated, map[string]string{"id": "x"}))
}

func TestPublishEncodesJSONUnderPrefix(t *testing.T) {
	fake := &fakeClient{}
	c := newClient(fake, "discovery", logger.Nop())

	require.NoError(t, c.Publish(TopicResultDeleted, map[string]string{"id": "result-1"}))

	require.Len(t, fake.sent, 1)
	assert.Equal(t, "discovery/results/deleted", fake.sent[0].topic)
	assert.Equal(t, byte(1), fake.sent[0].qos)
	assert.JSONEq(t, `{"id":"result-1"}`, string(fake.sent[0].payload))
}

func TestPublishSurfacesBrokerErrors(t *testing.T) {
	fake := &fakeClient{err: errors.New("not connected")}
	c := newClient(fake, "discovery", logger.Nop())

	err := c.Publish(TopicResultCreated, struct{}{})
	assert.ErrorContains(t, err, "discovery/results/created")

	err = c.Publish(TopicResultCreated, func() {})
	assert.ErrorContains(t, err, "encode")
}
