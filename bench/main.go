package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"sync"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/d3ce1t/turtlelink/config"
	"github.com/d3ce1t/turtlelink/memcache"
	"github.com/d3ce1t/turtlelink/model"
	"github.com/d3ce1t/turtlelink/pebbledao"
	"github.com/d3ce1t/turtlelink/utils"
)

type testHandler func(testNumber int) (time.Duration, error)

var availableTests = map[string]testHandler{
	"next_id": testNextID,
	"shorten": testShorten,
}

var turtleModel *model.TurtleModel

// Link owners of the shorten workload
var owners []int64

const numOwners = 16

// Every id minted by next_id, checked for duplicates once all workers end
var issued sync.Map
var duplicates int64
var duplicatesMu sync.Mutex

type executionStats struct {
	min        time.Duration
	max        time.Duration
	avg        time.Duration
	cdur       time.Duration
	ops        int
	numSamples int
	numErrors  int
	numTimes   int
	samples    []float64
}

func (s executionStats) String() string {
	return fmt.Sprintf("min: %13v | max: %13v | avg: %13v | avg.ops: %8v | samples: %7v | errors: %4v | total: %7v",
		s.min, s.max, s.avg, s.ops, s.numSamples, s.numErrors, s.numTimes)
}

// bench -t next_id -n 100000 -c 8 -w 1 -d 1

func showError(errStr string) {
	fmt.Printf("\n\tError: %v\n\n", errStr)
	fmt.Printf("\t%v --help for usage information\n\n", os.Args[0])
}

func main() {

	// Init flags

	var test string
	var numTimes int
	var numThreads int
	var workerID int64
	var datacenterID int64
	var bins int

	flag.StringVar(&test, "t", "", "Test name (next_id, shorten)")
	flag.IntVar(&numTimes, "n", 1, "Times test will be executed")
	flag.IntVar(&numThreads, "c", 1, "Number of concurrent workers")
	flag.Int64Var(&workerID, "w", 0, "Worker ID of the generator")
	flag.Int64Var(&datacenterID, "d", 0, "Datacenter ID of the generator")
	flag.IntVar(&bins, "bins", 10, "Histogram bins, 0 disables it")

	flag.Parse()

	if test == "" {
		showError("Test name isn't set")
		return
	}

	handler, ok := availableTests[test]
	if !ok {
		showError("Selected test doesn't exist")
		return
	}

	// Build a model on a throwaway store

	dataDir, err := ioutil.TempDir("", "turtlelink-bench")
	if err != nil {
		showError(err.Error())
		return
	}
	defer os.RemoveAll(dataDir)

	linkDAO, err := pebbledao.Open(dataDir, false)
	if err != nil {
		showError(err.Error())
		return
	}
	defer linkDAO.Close()

	cfg := config.Default()
	config.FromEnv(cfg)
	cfg.SetIdentity(workerID, datacenterID)

	turtleModel, err = model.New(cfg, linkDAO, pebbledao.NewUserDAO(linkDAO))
	if err != nil {
		showError(err.Error())
		return
	}
	turtleModel.Links.SetCache(memcache.NewLinkCache(numTimes))

	for i := 0; i < numOwners; i++ {
		user, err := turtleModel.Users.CreateUser(fmt.Sprintf("bench%02d", i), "bench-password", false)
		if err != nil {
			showError(err.Error())
			return
		}
		owners = append(owners, user.Id())
	}

	// Execute test

	globalStats := executeTest(handler, numTimes, numThreads)

	if test == "next_id" {
		fmt.Printf("Duplicates: %v\n", duplicates)
	}

	genStats := turtleModel.IDGen.Stats()
	fmt.Printf("Generator: issued %v | sequence waits %v | spin polls %v | clock backwards %v\n",
		genStats.Issued, genStats.SequenceWaits, genStats.SpinPolls, genStats.ClockBackwards)

	if bins > 0 && len(globalStats.samples) > 0 {
		fmt.Println("\nLatency (ns):")
		hist := histogram.Hist(bins, globalStats.samples)
		if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(50)); err != nil {
			showError(err.Error())
		}
	}
}

func executeTest(t testHandler, numTimes int, numWorkers int) executionStats {

	var wg sync.WaitGroup
	totalWork := numTimes

	statsSlice := make([]executionStats, numWorkers)

	// Distribute work between workers

	startTime := time.Now()

	for i := 0; i < numWorkers; i++ {

		wg.Add(1)

		availableThreads := numWorkers - i
		workSize := int(math.Trunc(float64(totalWork) / float64(availableThreads)))
		if totalWork%availableThreads > 0 {
			workSize++
		}

		go func(workerId int, workSize int) {
			defer wg.Done()
			stats := executeTestInWorker(t, workerId, workSize)
			statsSlice[workerId] = stats
			fmt.Printf("Worker: %3v | %v\n", workerId, stats)
		}(i, workSize)

		totalWork -= workSize
	}

	wg.Wait()

	duration := time.Now().Sub(startTime)

	globalStats := computeGlobalStats(statsSlice, duration)
	fmt.Printf("Global: %v | %v\n", "---", globalStats)

	return globalStats
}

func executeTestInWorker(test testHandler, workerId int, numTimes int) executionStats {

	var min int64 = math.MaxInt64
	var max int64
	var sumDur time.Duration

	numSamples := 0
	numErrors := 0
	samples := make([]float64, 0, numTimes)

	for i := 0; i < numTimes; i++ {

		duration, err := test(workerId*numTimes + i)

		if err == nil {
			sumDur += duration
			durInt64 := int64(duration)
			min = utils.MinInt64(min, durInt64)
			max = utils.MaxInt64(max, durInt64)
			samples = append(samples, float64(durInt64))
			numSamples++
		} else {
			numErrors++
		}
	}

	stats := executionStats{
		cdur:       sumDur,
		numSamples: numSamples,
		numErrors:  numErrors,
		numTimes:   numTimes,
		samples:    samples,
	}

	if numSamples > 0 {
		stats.min = time.Duration(min)
		stats.max = time.Duration(max)
		stats.avg = time.Duration(float64(sumDur) / float64(numSamples))
		if sumDur > 0 {
			stats.ops = int(float64(numSamples) / sumDur.Seconds())
		}
	}

	return stats
}

func computeGlobalStats(statsSlice []executionStats, globalDuration time.Duration) executionStats {

	var min int64 = math.MaxInt64
	var max int64
	var cdur int64
	var numSamples int
	var numErrors int
	var numTimes int
	var samples []float64

	for _, stats := range statsSlice {
		if stats.numSamples > 0 {
			min = utils.MinInt64(min, int64(stats.min))
			max = utils.MaxInt64(max, int64(stats.max))
		}
		cdur += int64(stats.cdur)
		numSamples += stats.numSamples
		numErrors += stats.numErrors
		numTimes += stats.numTimes
		samples = append(samples, stats.samples...)
	}

	global := executionStats{
		cdur:       time.Duration(cdur),
		numSamples: numSamples,
		numErrors:  numErrors,
		numTimes:   numTimes,
		samples:    samples,
	}

	if numSamples > 0 {
		global.min = time.Duration(min)
		global.max = time.Duration(max)
		global.avg = time.Duration(float64(cdur) / float64(numSamples))
		global.ops = int(float64(numSamples) / globalDuration.Seconds())
	}

	return global
}
