package sensors

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/okian/romp/internal/domain/model"
	"github.com/okian/romp/pkg/logger"
	"github.com/okian/romp/pkg/metrics"
)

// Default MQTT subscriber configuration.
const (
	defaultTopic            = "romp/samples"
	defaultClientID         = "romp-engine"
	defaultQoS              = 0
	defaultConnectTimeout   = 5 * time.Second
	disconnectQuiesceMillis = 250
)

// samplePayload is the wire shape devices publish. Availability is
// optional; a device typically publishes it once on connect.
type samplePayload struct {
	Sample       model.SensorSample  `json:"sample"`
	Availability *model.Availability `json:"availability,omitempty"`
}

// MQTTSubscriber feeds a Feed from an MQTT topic that a device publishes
// sensor samples to.
type MQTTSubscriber struct {
	feed     *Feed
	broker   string
	topic    string
	clientID string
	qos      byte
	client   mqtt.Client
	log      logger.Logger
}

// MQTTOption applies a configuration option to the MQTTSubscriber.
type MQTTOption func(*MQTTSubscriber)

// WithTopic sets the subscription topic.
func WithTopic(topic string) MQTTOption {
	return func(s *MQTTSubscriber) {
		if topic != "" {
			s.topic = topic
		}
	}
}

// WithClientID sets the MQTT client identifier.
func WithClientID(id string) MQTTOption {
	return func(s *MQTTSubscriber) {
		if id != "" {
			s.clientID = id
		}
	}
}

// WithQoS sets the subscription quality of service.
func WithQoS(qos byte) MQTTOption {
	return func(s *MQTTSubscriber) {
		s.qos = qos
	}
}

// NewMQTTSubscriber creates a subscriber that pushes decoded samples into
// feed. Call Start to connect.
func NewMQTTSubscriber(feed *Feed, broker string, opts ...MQTTOption) *MQTTSubscriber {
	s := &MQTTSubscriber{
		feed:     feed,
		broker:   broker,
		topic:    defaultTopic,
		clientID: defaultClientID,
		qos:      defaultQoS,
		log:      logger.Named("mqtt"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start connects to the broker and subscribes. Malformed payloads are
// counted and dropped; they never reach the feed.
func (s *MQTTSubscriber) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(s.broker).
		SetClientID(s.clientID).
		SetConnectTimeout(defaultConnectTimeout)

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to broker %s: %w", s.broker, token.Error())
	}

	token := s.client.Subscribe(s.topic, s.qos, func(_ mqtt.Client, msg mqtt.Message) {
		var p samplePayload
		if err := json.Unmarshal(msg.Payload(), &p); err != nil {
			metrics.RecordIngestError("mqtt")
			s.log.Warn(ctx, "dropping malformed sample payload", logger.Error(err))
			return
		}
		s.feed.Push(p.Sample)
		if p.Availability != nil {
			s.feed.SetAvailability(*p.Availability)
		}
	})
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to %s: %w", s.topic, token.Error())
	}

	s.log.Info(ctx, "subscribed to sample topic",
		logger.String("broker", s.broker),
		logger.String("topic", s.topic),
	)
	return nil
}

// Stop unsubscribes and disconnects.
func (s *MQTTSubscriber) Stop() {
	if s.client == nil {
		return
	}
	_ = s.client.Unsubscribe(s.topic)
	s.client.Disconnect(disconnectQuiesceMillis)
}
