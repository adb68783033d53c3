package transport

import (
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/m5grader/gas-tester/pkg/types"
)

// MQTTSender publishes measurement records the way a grader fleet does:
// one topic per device, JSON payload identical to the HTTP body.
type MQTTSender struct {
	client mqtt.Client
}

// MQTTSenderFactory connects to the broker and returns a ready sender
func MQTTSenderFactory(brokerURL string) (*MQTTSender, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", brokerURL))
	opts.SetClientID("gas-tester")
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Printf("Tester connected to MQTT broker at %s", brokerURL)
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("Tester lost connection to MQTT broker: %v", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return &MQTTSender{client: client}, nil
}

// Send publishes one record to grader/<device_id> and reports the outcome
func (s *MQTTSender) Send(record types.MeasurementRecord) bool {
	payload, err := EncodeRecord(record)
	if err != nil {
		log.Printf("❌ Error encoding record: %v", err)
		return false
	}

	topic := fmt.Sprintf("grader/%d", record.DeviceID)
	log.Printf("Publishing payload to %s: %s", topic, payload)

	token := s.client.Publish(topic, 0, false, payload)
	token.Wait()

	if token.Error() != nil {
		log.Printf("❌ Publish failed: %v", token.Error())
		return false
	}

	log.Println("✅ Publish succeeded")
	return true
}

// Close disconnects from the broker
func (s *MQTTSender) Close() {
	if s.client.IsConnected() {
		s.client.Disconnect(250)
	}
}
