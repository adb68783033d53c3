package transport

import (
	"errors"
	"log"
	"net"
	"time"

	"github.com/m5grader/gas-tester/pkg/http"
	"github.com/m5grader/gas-tester/pkg/types"
)

// EndpointSender posts measurement records as JSON to a web-service endpoint
type EndpointSender struct {
	URL    string
	Client *http.Client
}

// EndpointSenderFactory creates a sender targeting the given URL.
// Every request is bounded by the given timeout.
func EndpointSenderFactory(url string, timeout time.Duration) *EndpointSender {
	return &EndpointSender{
		URL:    url,
		Client: http.ClientFactory(timeout),
	}
}

// Send posts one record and reports the outcome. It returns true only for an
// HTTP 200 response; timeouts, connection failures and non-200 statuses are
// logged and yield false.
func (s *EndpointSender) Send(record types.MeasurementRecord) bool {
	payload, err := EncodeRecord(record)
	if err != nil {
		log.Printf("❌ Error encoding record: %v", err)
		return false
	}

	log.Printf("Sending payload: %s", payload)

	resp, err := s.Client.PostJSON(s.URL, payload)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			log.Printf("❌ Timeout after %v", s.Client.Timeout)
		} else {
			log.Printf("❌ Connection error: %v", err)
		}
		return false
	}

	log.Printf("Response code: %d", resp.StatusCode)
	log.Printf("Response body: %s", resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("❌ Send failed: HTTP %d", resp.StatusCode)
		return false
	}

	log.Println("✅ Send succeeded")
	return true
}
