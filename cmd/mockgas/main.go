// mockgas is a local stand-in for the remote Apps Script endpoint. It accepts
// the same POST body the harness sends, keeps the records in memory, and
// exposes what it received for inspection.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	nethttp "net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m5grader/gas-tester/pkg/grader"
	"github.com/m5grader/gas-tester/pkg/http"
	"github.com/m5grader/gas-tester/pkg/types"
)

var recordsReceived = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mockgas_records_received_total",
		Help: "Measurement records accepted, by grade label",
	},
	[]string{"size"},
)

var recordsRejected = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "mockgas_records_rejected_total",
		Help: "POST bodies rejected as invalid",
	},
)

// RecordStore keeps received records in a bounded FIFO with thread safety
type RecordStore struct {
	mutex   sync.RWMutex
	records []types.MeasurementRecord
	limit   int
}

// RecordStoreFactory creates a store that keeps at most limit records
func RecordStoreFactory(limit int) *RecordStore {
	return &RecordStore{
		records: make([]types.MeasurementRecord, 0, limit),
		limit:   limit,
	}
}

// Add appends a record, evicting the oldest once the limit is exceeded
func (rs *RecordStore) Add(record types.MeasurementRecord) {
	rs.mutex.Lock()
	defer rs.mutex.Unlock()

	rs.records = append(rs.records, record)

	if len(rs.records) > rs.limit {
		rs.records = rs.records[len(rs.records)-rs.limit:]
	}
}

// All returns a copy of every stored record
func (rs *RecordStore) All() []types.MeasurementRecord {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	result := make([]types.MeasurementRecord, len(rs.records))
	copy(result, rs.records)
	return result
}

// ByDevice returns the records reported by one device
func (rs *RecordStore) ByDevice(deviceID int) []types.MeasurementRecord {
	rs.mutex.RLock()
	defer rs.mutex.RUnlock()

	var result []types.MeasurementRecord
	for _, record := range rs.records {
		if record.DeviceID == deviceID {
			result = append(result, record)
		}
	}
	return result
}

func main() {
	host := flag.String("host", "0.0.0.0", "Server host")
	port := flag.Int("port", 8080, "Server port")
	metricsPort := flag.Int("metrics-port", 2112, "Prometheus metrics port (0 = disabled)")
	recordLimit := flag.Int("record-limit", 100_000, "Maximum number of records to keep")
	flag.Parse()

	store := RecordStoreFactory(*recordLimit)
	server := http.ServerFactory(*host, *port)
	registerHandlers(server, store)

	if *metricsPort > 0 {
		go func() {
			addr := fmt.Sprintf("%s:%d", *host, *metricsPort)
			nethttp.Handle("/metrics", promhttp.Handler())
			log.Printf("Metrics available on %s/metrics", addr)
			if err := nethttp.ListenAndServe(addr, nil); err != nil {
				log.Printf("Metrics server stopped: %v", err)
			}
		}()
	}

	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down mock endpoint...")
	server.Stop()
}

// registerHandlers wires the two routes the harness and a curious human need
func registerHandlers(server *http.Server, store *RecordStore) {
	//the POST route mirrors the Apps Script /exec entry point
	server.RegisterHandler(
		http.POST,
		"/exec",
		func(req *http.Request) *http.Response {
			var record types.MeasurementRecord
			err := json.Unmarshal(req.Body, &record)
			if err != nil {
				log.Printf("Error parsing record: %v", err)
				recordsRejected.Inc()
				resp := http.NewResponse(http.StatusBadRequest)
				resp.SetBodyString(fmt.Sprintf("Invalid JSON: %v", err))
				return resp
			}

			if _, ok := grader.LookupGrade(record.Size); !ok {
				recordsRejected.Inc()
				resp := http.NewResponse(http.StatusBadRequest)
				resp.SetBodyString(fmt.Sprintf("Unknown grade label: %q", record.Size))
				return resp
			}

			if record.DeviceID <= 0 {
				recordsRejected.Inc()
				resp := http.NewResponse(http.StatusBadRequest)
				resp.SetBodyString("Missing device_id")
				return resp
			}

			store.Add(record)
			recordsReceived.WithLabelValues(record.Size).Inc()
			log.Printf(
				"Stored record from device %d: %s %dg at %s",
				record.DeviceID,
				record.Size,
				record.Weight,
				record.Timestamp,
			)

			ack, _ := json.Marshal(map[string]string{"result": "ok"})
			return http.CreateJSONResponse(http.StatusOK, ack)
		},
	)

	server.RegisterHandler(
		http.GET,
		"/records",
		func(req *http.Request) *http.Response {
			jsonData, err := json.Marshal(store.All())
			if err != nil {
				log.Printf("Error marshaling records: %v", err)
				resp := http.NewResponse(http.StatusServerError)
				resp.SetBodyString(fmt.Sprintf("Server error: %v", err))
				return resp
			}
			return http.CreateJSONResponse(http.StatusOK, jsonData)
		},
	)

	server.RegisterHandler(
		http.GET,
		"/records/*",
		func(req *http.Request) *http.Response {
			deviceID, err := strconv.Atoi(req.Path[len("/records/"):])
			if err != nil {
				resp := http.NewResponse(http.StatusBadRequest)
				resp.SetBodyString("Invalid device id")
				return resp
			}

			records := store.ByDevice(deviceID)
			if len(records) == 0 {
				resp := http.NewResponse(http.StatusNotFound)
				resp.SetBodyString(fmt.Sprintf("No records for device %d", deviceID))
				return resp
			}

			jsonData, err := json.Marshal(records)
			if err != nil {
				log.Printf("Error marshaling records: %v", err)
				resp := http.NewResponse(http.StatusServerError)
				resp.SetBodyString(fmt.Sprintf("Server error: %v", err))
				return resp
			}
			return http.CreateJSONResponse(http.StatusOK, jsonData)
		},
	)
}
