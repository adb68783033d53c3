package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/m5grader/gas-tester/internal/menu"
	"github.com/m5grader/gas-tester/internal/scenario"
	"github.com/m5grader/gas-tester/internal/transport"
	"github.com/m5grader/gas-tester/pkg/grader"
)

// defaultEndpoint is the deployed Apps Script URL the grader fleet reports to
const defaultEndpoint = "https://script.google.com/macros/s/AKfycbxijBpEFM94MmymSEX4Wi-vTZHkiYJ790xguj3y2q1w3N_CDW65DDs06q97zpeR0WSr/exec"

func main() {
	endpointURL := flag.String("url", defaultEndpoint, "Endpoint URL to post records to")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")
	mqttBroker := flag.String("mqtt-broker", "", "Publish records via MQTT to this broker (host:port) instead of HTTP")
	flag.Parse()

	var sender transport.Sender
	if *mqttBroker != "" {
		mqttSender, err := transport.MQTTSenderFactory(*mqttBroker)
		if err != nil {
			log.Fatalf("Failed to set up MQTT sender: %v", err)
		}
		defer mqttSender.Close()
		sender = mqttSender
	} else {
		sender = transport.EndpointSenderFactory(*endpointURL, *timeout)
	}

	//interrupts end the run, but only once the loop is back at a prompt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	console := menu.ConsoleFactory(os.Stdin, sigChan)
	generator := grader.GeneratorFactory(nil)
	runner := scenario.RunnerFactory(generator, sender, console.ReadLine, os.Stdout)
	loop := menu.LoopFactory(console, runner, os.Stdout, scenario.DefaultRepeatCount, scenario.DefaultRepeatInterval)

	fmt.Println("Grader endpoint test program")
	if *mqttBroker != "" {
		fmt.Printf("Target broker: %s\n", *mqttBroker)
	} else {
		fmt.Printf("Target URL: %s\n", *endpointURL)
	}
	fmt.Println(strings.Repeat("=", 50))

	loop.Run()
}
