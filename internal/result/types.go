package result

const (
	StatusOK   = "OK"
	StatusSlow = "SLOW"
)

// SweepRow is one measured point of a scaling sweep.
type SweepRow struct {
	Distance     int     `json:"distance"`
	Detectors    int     `json:"detectors"`
	LatencyUS    float64 `json:"latency_us"`
	ThroughputHz float64 `json:"throughput_hz"`
	Status       string  `json:"status"`
}
