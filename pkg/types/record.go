package types

// MeasurementRecord represents one grading measurement as reported by an M5Grader device.
// The JSON field order matches what the device firmware sends.
type MeasurementRecord struct {
	Size      string `json:"size"`
	Weight    int    `json:"weight"`
	Timestamp string `json:"timestamp"`
	DeviceID  int    `json:"device_id"`
}
