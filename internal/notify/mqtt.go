package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/muezzin/internal/display"
	"github.com/Nixie-Tech-LLC/muezzin/internal/model"
)

const publishTimeout = 10 * time.Second

// MQTT connection handler
var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

// MQTT connection lost handler
var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// ConnectMQTT opens an auto-reconnecting client to brokerURL.
func ConnectMQTT(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("timed out connecting to MQTT broker %s", brokerURL)
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

// Publisher is the part of mqtt.Client used for announcements.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Message is the JSON payload published for each announcement.
type Message struct {
	Type             model.AnnouncementKind `json:"type"`
	Prayer           model.Label            `json:"prayer"`
	MinutesRemaining int                    `json:"minutes_remaining,omitempty"`
	Message          string                 `json:"message"`
	Timestamp        int64                  `json:"timestamp"`
}

// MQTT publishes announcements for screens subscribed to topic.
type MQTT struct {
	client Publisher
	topic  string
	now    func() time.Time
}

func NewMQTT(client Publisher, topic string) *MQTT {
	return &MQTT{client: client, topic: topic, now: time.Now}
}

func (m *MQTT) Stage(ctx context.Context, label model.Label, minutes int) error {
	return m.publish(ctx, Message{
		Type:             model.AnnouncementStage,
		Prayer:           label,
		MinutesRemaining: minutes,
		Message:          display.Message(label, minutes),
	})
}

func (m *MQTT) Arrival(ctx context.Context, label model.Label) error {
	return m.publish(ctx, Message{
		Type:    model.AnnouncementArrival,
		Prayer:  label,
		Message: display.ArrivalMessage(label),
	})
}

func (m *MQTT) publish(ctx context.Context, msg Message) error {
	msg.Timestamp = m.now().Unix()
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	token := m.client.Publish(m.topic, 1, false, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(publishTimeout):
		return fmt.Errorf("publish to %s timed out", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", m.topic, err)
	}

	log.Debug().Str("topic", m.topic).Str("type", string(msg.Type)).Msg("announcement published")
	return nil
}
