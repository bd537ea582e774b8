package metrics

import (
	"sync"
	"time"
)

const retainedObservations = 100

type sizeObservation struct {
	value     float64
	timestamp time.Time
}

// Collector is a small in-process metrics sink: labeled counters plus
// rolling windows of latency and size observations. It backs the /metrics
// endpoint; there is no exporter pipeline.
type Collector struct {
	mu        sync.RWMutex
	counters  map[string]map[string]int64
	latencies map[string][]time.Duration
	sizes     map[string][]sizeObservation
}

func NewCollector() *Collector {
	return &Collector{
		counters:  make(map[string]map[string]int64),
		latencies: make(map[string][]time.Duration),
		sizes:     make(map[string][]sizeObservation),
	}
}

func (c *Collector) IncrementCounter(name string, labels map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	labelKey := "default"
	for k, v := range labels {
		labelKey = k + ":" + v
		break
	}

	if _, ok := c.counters[name]; !ok {
		c.counters[name] = make(map[string]int64)
	}
	c.counters[name][labelKey]++
}

func (c *Collector) ObserveLatency(name string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	window := append(c.latencies[name], d)
	if len(window) > retainedObservations {
		window = window[len(window)-retainedObservations:]
	}
	c.latencies[name] = window
}

func (c *Collector) ObserveSize(name string, size float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	window := append(c.sizes[name], sizeObservation{value: size, timestamp: time.Now()})
	if len(window) > retainedObservations {
		window = window[len(window)-retainedObservations:]
	}
	c.sizes[name] = window
}

func (c *Collector) GetCounters() map[string]map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]map[string]int64, len(c.counters))
	for name, labels := range c.counters {
		out[name] = make(map[string]int64, len(labels))
		for label, value := range labels {
			out[name][label] = value
		}
	}
	return out
}

func (c *Collector) GetLatencies() map[string]map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]map[string]float64)
	for name, durations := range c.latencies {
		if len(durations) == 0 {
			continue
		}
		var sum time.Duration
		for _, d := range durations {
			sum += d
		}
		out[name] = map[string]float64{
			"avg_ms": float64(sum) / float64(len(durations)) / float64(time.Millisecond),
		}
	}
	return out
}

func (c *Collector) GetSizes() map[string]map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]map[string]float64)
	for name, observations := range c.sizes {
		if len(observations) == 0 {
			continue
		}
		var sum, max float64
		for _, obs := range observations {
			sum += obs.value
			if obs.value > max {
				max = obs.value
			}
		}
		out[name] = map[string]float64{
			"avg_bytes": sum / float64(len(observations)),
			"max_bytes": max,
		}
	}
	return out
}
