package perf

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/apache/activemq-openwire-sub001/cmd/util"
	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/openwire"
	libutil "github.com/apache/activemq-openwire-sub001/lib/util"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// PerfCmd benchmarks the codec with the configured wire format
	PerfCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for the OpenWire codec",
		RunE:    run,
		PreRunE: processPerfConfig,
	}
	perfBodySizeKB = 64
	perfNumThreads = 1
	perfRuns       = 1
	perfSkip       = make([]string, 0)
)

func init() {
	key := "skip"
	PerfCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. marshal-ack,unmarshal-text)"))
	key = "threads"
	PerfCmd.Flags().Int(key, 1, util.WrapString("Parallelism multiplier, every goroutine uses its own format"))
	key = "body-size"
	PerfCmd.Flags().Int(key, 64, util.WrapString("How large the body of the text-large sample should be (in KB)"))
	key = "runs"
	PerfCmd.Flags().Int(key, 1, util.WrapString("How often to repeat every benchmark"))
	key = "csv"
	PerfCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(_ *cobra.Command, _ []string) error {
	perfBodySizeKB = viper.GetInt("body-size")
	perfNumThreads = viper.GetInt("threads")
	perfRuns = max(viper.GetInt("runs"), 1)
	perfSkip = strings.Split(viper.GetString("skip"), ",")
	return nil
}

// result aggregates the runs of one benchmark
type result struct {
	test    string
	last    testing.BenchmarkResult
	nsPerOp libutil.Stats
	skipped bool
}

func run(_ *cobra.Command, _ []string) error {
	conf, err := util.GetFormatConfig()
	if err != nil {
		return err
	}

	fmt.Println("Performance testing tool for the OpenWire codec")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(conf.String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Runs: %d\n", perfRuns)
	fmt.Println()

	fmt.Println("starting tests...")

	samples := newSamples(perfBodySizeKB * 1024)
	sizes := libutil.NewSizeHistogram()
	var results []result
	var sizeLines []string

	for _, s := range samples {
		frame, steady, err := encodedSizes(conf, s.build)
		if err != nil {
			return fmt.Errorf("sample %s: %w", s.name, err)
		}
		sizes.AddSample(len(frame))
		sizes.AddSample(steady)
		sizeLines = append(sizeLines, fmt.Sprintf("%-20sfirst %d bytes, cached %d bytes", s.name, len(frame), steady))

		r := bench("marshal-"+s.name, func(b *testing.B) { benchMarshal(b, conf, s.build) })
		results = append(results, r)
		printResult(r)

		r = bench("unmarshal-"+s.name, func(b *testing.B) { benchUnmarshal(b, conf, frame) })
		results = append(results, r)
		printResult(r)
	}

	fmt.Println()
	fmt.Println("Frame sizes:")
	for _, line := range sizeLines {
		fmt.Println(line)
	}
	fmt.Printf("p50 ~%d bytes, p99 ~%d bytes, average %d bytes over %d frames\n",
		sizes.PercentileEstimate(50), sizes.PercentileEstimate(99), sizes.AverageSize(), sizes.Count())

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, conf); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Samples
// --------------------------------------------------------------------------

type sample struct {
	name  string
	build func() command.DataStructure
}

func newSamples(bodySize int) []sample {
	producer := &command.ProducerID{ConnectionID: "ID:perf-host-1", SessionID: 1, Value: 1}
	consumer := &command.ConsumerID{ConnectionID: "ID:perf-host-1", SessionID: 1, Value: 2}
	queue := command.NewQueue("perf.orders")
	largeBody := strings.Repeat("x", bodySize)

	text := func(body string) func() command.DataStructure {
		return func() command.DataStructure {
			m := &command.TextMessage{}
			m.ProducerID = producer
			m.Destination = queue
			m.MessageID = &command.MessageID{ProducerID: producer, ProducerSequenceID: 1}
			m.Persistent = true
			m.Priority = 4
			m.Timestamp = 1_700_000_000_000
			m.SetText(body)
			return m
		}
	}

	return []sample{
		{"keepalive", func() command.DataStructure { return &command.KeepAliveInfo{} }},
		{"ack", func() command.DataStructure {
			return &command.MessageAck{
				BaseCommand:    command.BaseCommand{CommandID: 1},
				Destination:    queue,
				ConsumerID:     consumer,
				AckType:        command.AckStandard,
				FirstMessageID: &command.MessageID{ProducerID: producer, ProducerSequenceID: 1},
				LastMessageID:  &command.MessageID{ProducerID: producer, ProducerSequenceID: 100},
				MessageCount:   100,
			}
		}},
		{"consumer", func() command.DataStructure {
			return &command.ConsumerInfo{
				BaseCommand:  command.BaseCommand{CommandID: 2, ResponseRequired: true},
				ConsumerID:   consumer,
				Destination:  queue,
				PrefetchSize: 1000,
				Selector:     "region = 'eu'",
			}
		}},
		{"exception", func() command.DataStructure {
			return &command.ExceptionResponse{
				Response:  command.Response{CorrelationID: 2},
				Exception: command.NewBrokerError(errors.New("destination does not exist")),
			}
		}},
		{"text", text("hello world")},
		{"text-large", text(largeBody)},
	}
}

// encodedSizes returns the first frame of a fresh format and the size once
// the cached properties are references
func encodedSizes(conf openwire.Config, build func() command.DataStructure) ([]byte, int, error) {
	f, err := openwire.NewFormat(conf)
	if err != nil {
		return nil, 0, err
	}
	first, err := f.Marshal(build())
	if err != nil {
		return nil, 0, err
	}
	steady, err := f.Marshal(build())
	if err != nil {
		return nil, 0, err
	}
	return first, len(steady), nil
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

func bench(test string, fn func(b *testing.B)) result {
	r := result{test: test}
	if shouldSkip(test) {
		r.skipped = true
		return r
	}
	nsPerOp := make([]float64, 0, perfRuns)
	for i := 0; i < perfRuns; i++ {
		r.last = testing.Benchmark(fn)
		nsPerOp = append(nsPerOp, float64(r.last.NsPerOp()))
	}
	r.nsPerOp = libutil.NewStats(nsPerOp)
	return r
}

func benchMarshal(b *testing.B, conf openwire.Config, build func() command.DataStructure) {
	b.SetParallelism(perfNumThreads)
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		f, err := openwire.NewFormat(conf)
		if err != nil {
			util.Logger.Errorf("(marshal) - error creating format: %v", err)
			return
		}
		ds := build()
		for pb.Next() {
			if _, err := f.Marshal(ds); err != nil {
				util.Logger.Errorf("(marshal) - error marshaling: %v", err)
				return
			}
		}
	})
}

func benchUnmarshal(b *testing.B, conf openwire.Config, frame []byte) {
	b.SetParallelism(perfNumThreads)
	b.SetBytes(int64(len(frame)))
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		f, err := openwire.NewFormat(conf)
		if err != nil {
			util.Logger.Errorf("(unmarshal) - error creating format: %v", err)
			return
		}
		for pb.Next() {
			if _, err := f.Unmarshal(frame); err != nil {
				util.Logger.Errorf("(unmarshal) - error unmarshaling: %v", err)
				return
			}
		}
	})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(r result) {
	if r.skipped || r.last.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", r.test)
		return
	}

	nsPerOp := math.Max(r.nsPerOp.Mean, 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\t%d allocs/op", r.test, nsPerOp, time.Duration(nsPerOp), opsPerSec, r.last.AllocsPerOp())
	if perfRuns > 1 {
		fmt.Printf("\t±%.0fns", r.nsPerOp.StdDeviation)
	}
	fmt.Println()
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results []result, conf openwire.Config) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "AllocsPerOp", "StdDeviation", "MinMaxRatio", "Skipped",
		"Version", "Encoding", "Cache", "CacheSize", "SizePrefix",
		"Threads", "Runs", "BodySizeKB",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	encoding := "loose"
	if conf.TightEncoding {
		encoding = "tight"
	}

	for _, r := range results {
		var nsPerOp, opsPerSec float64
		skipped := "true"
		if !r.skipped && r.last.NsPerOp() != 0 {
			skipped = "false"
			nsPerOp = math.Max(r.nsPerOp.Mean, 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			r.test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatInt(r.last.AllocsPerOp(), 10),
			fmt.Sprintf("%.0f", r.nsPerOp.StdDeviation),
			fmt.Sprintf("%.3f", r.nsPerOp.MinMaxRatio),
			skipped,
			strconv.Itoa(conf.Version),
			encoding,
			strconv.FormatBool(conf.CacheEnabled),
			strconv.Itoa(conf.CacheSize),
			strconv.FormatBool(conf.SizePrefix),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfRuns),
			strconv.Itoa(perfBodySizeKB),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", r.test, err)
		}
	}

	return nil
}
