package openwire

import (
	"fmt"
	"io"
	"strings"

	"github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

// process wide counters in Prometheus text format
var (
	marshalTight   = metrics.NewCounter(`openwire_marshal_total{encoding="tight"}`)
	marshalLoose   = metrics.NewCounter(`openwire_marshal_total{encoding="loose"}`)
	unmarshalTight = metrics.NewCounter(`openwire_unmarshal_total{encoding="tight"}`)
	unmarshalLoose = metrics.NewCounter(`openwire_unmarshal_total{encoding="loose"}`)
	marshalBytes   = metrics.NewCounter(`openwire_marshal_bytes_total`)
	encodeErrors   = metrics.NewCounter(`openwire_encode_errors_total`)
	decodeErrors   = metrics.NewCounter(`openwire_decode_errors_total`)
)

// WritePrometheus writes the process wide codec counters to w
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, false)
}

// Stats collects per format frame sizes and cache efficiency
type Stats struct {
	registry gometrics.Registry

	marshalSizes   gometrics.Histogram
	unmarshalSizes gometrics.Histogram

	encodeHits   gometrics.Counter
	encodeMisses gometrics.Counter
	decodeHits   gometrics.Counter
	decodeMisses gometrics.Counter
}

func newStats() *Stats {
	r := gometrics.NewRegistry()
	sample := func() gometrics.Sample { return gometrics.NewUniformSample(1028) }
	return &Stats{
		registry:       r,
		marshalSizes:   gometrics.GetOrRegisterHistogram("frames.marshal.bytes", r, sample()),
		unmarshalSizes: gometrics.GetOrRegisterHistogram("frames.unmarshal.bytes", r, sample()),
		encodeHits:     gometrics.GetOrRegisterCounter("cache.encode.hits", r),
		encodeMisses:   gometrics.GetOrRegisterCounter("cache.encode.misses", r),
		decodeHits:     gometrics.GetOrRegisterCounter("cache.decode.hits", r),
		decodeMisses:   gometrics.GetOrRegisterCounter("cache.decode.misses", r),
	}
}

// Registry exposes the underlying metrics for reporters
func (s *Stats) Registry() gometrics.Registry { return s.registry }

func (s *Stats) recordMarshal(size int) { s.marshalSizes.Update(int64(size)) }
func (s *Stats) recordUnmarshal(size int) { s.unmarshalSizes.Update(int64(size)) }
func (s *Stats) encodeHit() { s.encodeHits.Inc(1) }
func (s *Stats) encodeMiss() { s.encodeMisses.Inc(1) }
func (s *Stats) decodeHit() { s.decodeHits.Inc(1) }
func (s *Stats) decodeMiss() { s.decodeMisses.Inc(1) }

// StatsSnapshot is a point in time copy of Stats
type StatsSnapshot struct {
	Marshalled        int64
	Unmarshalled      int64
	MeanMarshalSize   float64
	MaxMarshalSize    int64
	MeanUnmarshalSize float64
	EncodeHits        int64
	EncodeMisses      int64
	DecodeHits        int64
	DecodeMisses      int64
}

// Snapshot returns the current values
func (s *Stats) Snapshot() StatsSnapshot {
	m := s.marshalSizes.Snapshot()
	u := s.unmarshalSizes.Snapshot()
	return StatsSnapshot{
		Marshalled:        m.Count(),
		Unmarshalled:      u.Count(),
		MeanMarshalSize:   m.Mean(),
		MaxMarshalSize:    m.Max(),
		MeanUnmarshalSize: u.Mean(),
		EncodeHits:        s.encodeHits.Count(),
		EncodeMisses:      s.encodeMisses.Count(),
		DecodeHits:        s.decodeHits.Count(),
		DecodeMisses:      s.decodeMisses.Count(),
	}
}

// HitRatio returns the share of cached objects sent as a reference
func (s StatsSnapshot) HitRatio() float64 {
	total := s.EncodeHits + s.EncodeMisses
	if total == 0 {
		return 0
	}
	return float64(s.EncodeHits) / float64(total)
}

func (s StatsSnapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "frames: %d out (mean %.1f B, max %d B), %d in (mean %.1f B)\n",
		s.Marshalled, s.MeanMarshalSize, s.MaxMarshalSize, s.Unmarshalled, s.MeanUnmarshalSize)
	fmt.Fprintf(&sb, "cache: encode %d hits / %d misses (%.1f%%), decode %d hits / %d misses",
		s.EncodeHits, s.EncodeMisses, 100*s.HitRatio(), s.DecodeHits, s.DecodeMisses)
	return sb.String()
}
