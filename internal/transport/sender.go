package transport

import (
	"bytes"
	"encoding/json"

	"github.com/m5grader/gas-tester/pkg/types"
)

// Sender delivers one measurement record to the test target and reports
// whether the delivery succeeded. Implementations log the outcome themselves
// and never panic on delivery problems.
type Sender interface {
	Send(record types.MeasurementRecord) bool
}

// EncodeRecord marshals a record to the JSON the device firmware produces.
// HTML escaping is disabled so multibyte characters go over the wire literally.
func EncodeRecord(record types.MeasurementRecord) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(record); err != nil {
		return nil, err
	}

	//Encode appends a newline the firmware does not send
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
