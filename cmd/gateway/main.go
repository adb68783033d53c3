// gateway bridges grader devices reporting over MQTT to the HTTP endpoint.
// It subscribes to every device topic and forwards each record as the JSON
// POST the endpoint expects.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/m5grader/gas-tester/internal/transport"
	"github.com/m5grader/gas-tester/pkg/http"
	"github.com/m5grader/gas-tester/pkg/types"
)

// Gateway receives measurement records via MQTT and forwards them via HTTP
type Gateway struct {
	EndpointURL   string
	MQTTBrokerURL string
	Client        *http.Client
	MQTTClient    mqtt.Client
	WaitGroup     sync.WaitGroup
	MessageCount  int64
	mutex         sync.Mutex
}

// GatewayFactory creates a new gateway
func GatewayFactory(endpointURL, mqttBrokerURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		EndpointURL:   endpointURL,
		MQTTBrokerURL: mqttBrokerURL,
		Client:        http.ClientFactory(timeout),
	}
}

// Start connects to the MQTT broker and begins forwarding
func (g *Gateway) Start() error {
	log.Printf("Starting grader gateway")
	log.Printf("Endpoint: %s", g.EndpointURL)
	log.Printf("MQTT broker: %s", g.MQTTBrokerURL)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", g.MQTTBrokerURL))
	opts.SetClientID("grader-gateway")
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Println("Gateway connected to MQTT broker")
		g.subscribe(client)
	})

	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("Gateway lost connection to MQTT broker: %v", err)
	})

	g.MQTTClient = mqtt.NewClient(opts)

	if token := g.MQTTClient.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	log.Println("Gateway started successfully")
	return nil
}

// subscribe listens on every device topic
func (g *Gateway) subscribe(client mqtt.Client) {
	topic := "grader/+"

	token := client.Subscribe(topic, 0, g.messageHandler)
	token.Wait()

	if token.Error() != nil {
		log.Printf("Failed to subscribe to topic %s: %v", topic, token.Error())
	} else {
		log.Printf("Subscribed to topic: %s", topic)
	}
}

// messageHandler forwards one incoming record to the endpoint
func (g *Gateway) messageHandler(client mqtt.Client, msg mqtt.Message) {
	log.Printf("Received record on topic %s", msg.Topic())

	var record types.MeasurementRecord
	if err := json.Unmarshal(msg.Payload(), &record); err != nil {
		log.Printf("Error parsing record from topic %s: %v", msg.Topic(), err)
		return
	}

	g.WaitGroup.Add(1)
	go func() {
		defer g.WaitGroup.Done()

		start := time.Now()
		if err := g.forwardRecord(record); err != nil {
			log.Printf("Error forwarding record from device %d: %v", record.DeviceID, err)
			return
		}

		log.Printf("Forwarded record from device %d (RTT: %v)", record.DeviceID, time.Since(start))

		g.mutex.Lock()
		g.MessageCount++
		if g.MessageCount%100 == 0 {
			log.Printf("Processed %d records", g.MessageCount)
		}
		g.mutex.Unlock()
	}()
}

// forwardRecord posts one record to the endpoint
func (g *Gateway) forwardRecord(record types.MeasurementRecord) error {
	payload, err := transport.EncodeRecord(record)
	if err != nil {
		return fmt.Errorf("error encoding record: %w", err)
	}

	resp, err := g.Client.PostJSON(g.EndpointURL, payload)
	if err != nil {
		return fmt.Errorf("error posting record: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("endpoint returned non-OK status: %d %s", resp.StatusCode, resp.StatusText)
	}

	return nil
}

// Stop drains in-flight forwards and disconnects
func (g *Gateway) Stop() {
	log.Println("Stopping gateway...")

	g.WaitGroup.Wait()

	if g.MQTTClient != nil && g.MQTTClient.IsConnected() {
		g.MQTTClient.Disconnect(250)
		log.Println("Disconnected from MQTT broker")
	}

	g.mutex.Lock()
	finalCount := g.MessageCount
	g.mutex.Unlock()

	log.Printf("Gateway stopped. Total records processed: %d", finalCount)
}

func main() {
	endpointURL := flag.String("url", "http://localhost:8080/exec", "Endpoint URL to forward records to")
	mqttHost := flag.String("mqtt-host", "localhost", "MQTT broker hostname")
	mqttPort := flag.Int("mqtt-port", 1883, "MQTT broker port")
	timeout := flag.Duration("timeout", 10*time.Second, "Forwarding request timeout")
	flag.Parse()

	brokerURL := fmt.Sprintf("%s:%d", *mqttHost, *mqttPort)
	gateway := GatewayFactory(*endpointURL, brokerURL, *timeout)

	if err := gateway.Start(); err != nil {
		log.Fatalf("Failed to start gateway: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Gateway running until interrupted")
	<-sigChan
	log.Println("Received termination signal")

	gateway.Stop()
}
