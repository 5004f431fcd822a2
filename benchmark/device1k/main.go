package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

var maxDevices int = 2000
var httpHostPort string = "127.0.0.1:1080"

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))

func main() {
	deviceIDs := make([]string, maxDevices)
	for i := 0; i < maxDevices; i++ {
		deviceIDs[i] = uuid.NewString()
	}
	fmt.Printf("generated %v device IDs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			insertProfile(deviceIDs[i])
			fmt.Printf("\rinserted profile for device %v", i)
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rinserted profile for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)

	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			doAction(deviceIDs[i])
			wg.Done()
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rdid actions for %v devices: used time=%v seconds, throughput=%v action/second\n",
		maxDevices, usedTime.Seconds(), float64(maxDevices*3)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	val := min + rnd.Float64()*(max-min)
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func postJSON(url string, payload any) {
	jsonData, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		fmt.Printf("\nerror: %v\n", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("\nresponse status code != 200: %v\n", resp.StatusCode)
	}
}

func insertProfile(deviceID string) {
	payload := map[string]any{
		"age":            20 + rnd.Intn(60),
		"weekly_avg_bpm": rndFloat64(60.0, 90.0, 1),
	}
	postJSON(fmt.Sprintf("http://%s/devices/%s/profile", httpHostPort, deviceID), payload)
}

func doAction(deviceID string) {
	actions := []func(){
		genUpsertProfileAction(deviceID),
		genGetAlertsAction(deviceID),
		genPostTelemetryAction(deviceID),
	}
	actionNames := []string{
		"UpsertProfile",
		"GetAlerts",
		"PostTelemetry",
	}
	rnd.Shuffle(len(actions), func(i, j int) {
		actions[i], actions[j] = actions[j], actions[i]
		actionNames[i], actionNames[j] = actionNames[j], actionNames[i]
	})
	for index, action := range actions {
		action()
		fmt.Printf("\rexecuted action %v for device %v", actionNames[index], deviceID)
		time.Sleep(time.Duration(100+rnd.Int31n(1000)) * time.Millisecond)
	}
}

func genUpsertProfileAction(deviceID string) func() {
	return func() {
		insertProfile(deviceID)
	}
}

func genPostTelemetryAction(deviceID string) func() {
	return func() {
		// mostly normal vitals with an occasional critical outlier so both
		// analysis stages get exercised
		bpm := rndFloat64(55.0, 110.0, 1)
		if rnd.Int31n(100) < 3 {
			bpm = rndFloat64(155.0, 190.0, 1)
		}
		payload := map[string]any{
			"timestamp": time.Now().Format(time.RFC3339),
			"bpm":       bpm,
			"temp":      rndFloat64(36.0, 37.8, 2),
			"spO2":      rndFloat64(93.0, 100.0, 1),
			"hrv":       rndFloat64(25.0, 95.0, 1),
			"totalAcc":  rndFloat64(0.0, 15.0, 2),
			"isResting": flipCoin(),
		}
		postJSON(fmt.Sprintf("http://%s/devices/%s/telemetry", httpHostPort, deviceID), payload)
	}
}

func genGetAlertsAction(deviceID string) func() {
	return func() {
		resp, err := http.Get(fmt.Sprintf("http://%s/devices/%s/alerts", httpHostPort, deviceID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200: %v\n", resp.StatusCode)
		}
	}
}
