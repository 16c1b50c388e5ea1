package main

import (
	"log"
	"time"
)

// Mint one id and remember it so duplicates can be counted
func testNextID(testNumber int) (time.Duration, error) {

	startTime := time.Now()

	id, err := turtleModel.IDGen.NextID()
	if err != nil {
		log.Printf("TestNextID %v Error: %v", testNumber, err)
		return 0, err
	}

	elapsed := time.Now().Sub(startTime)

	if _, loaded := issued.LoadOrStore(id, testNumber); loaded {
		duplicatesMu.Lock()
		duplicates++
		duplicatesMu.Unlock()
		log.Printf("TestNextID %v Error: duplicate id %v", testNumber, id)
	}

	return elapsed, nil
}

// Test write workload to create a link and resolve it once
func testShorten(testNumber int) (time.Duration, error) {

	startTime := time.Now()

	link, _, err := turtleModel.Links.Shorten(owners[testNumber%len(owners)], "https://example.com/bench", "")
	if err != nil {
		log.Printf("TestShorten %v Error: %v", testNumber, err)
		return 0, err
	}

	if _, err := turtleModel.Links.Resolve(link.Code()); err != nil {
		log.Printf("TestShorten %v Error: %v", testNumber, err)
		return 0, err
	}

	return time.Now().Sub(startTime), nil
}
