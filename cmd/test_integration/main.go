package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("METASEARCH_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	steps := []struct {
		name     string
		method   string
		endpoint string
		payload  interface{}
	}{
		{"Health", "GET", "/healthz", nil},
		{"Search", "POST", "/api/search", map[string]interface{}{"query": "rust async runtime", "num_results": 3}},
		{"Search again", "POST", "/api/search", map[string]interface{}{"query": "rust concurrency"}},
		{"Click", "POST", "/api/click", map[string]string{"url": "https://tokio.rs"}},
		{"Add favorite", "POST", "/api/favorites", map[string]interface{}{
			"favorite": map[string]string{"title": "Tokio", "url": "https://tokio.rs"},
		}},
		{"List favorites", "GET", "/api/favorites", nil},
		{"Analytics", "GET", "/api/analytics", nil},
		{"Export", "POST", "/api/export", map[string]interface{}{
			"format": "csv",
			"results": map[string]interface{}{
				"Ranked": []map[string]string{{"source": "Exa", "title": "Tokio", "url": "https://tokio.rs", "snippet": "runtime"}},
			},
		}},
	}

	for i, step := range steps {
		fmt.Printf("%d. %s...\n", i+1, step.name)
		if !sendRequest(baseURL, step.method, step.endpoint, step.payload) {
			fmt.Printf("FAILED: %s\n", step.name)
			os.Exit(1)
		}
		fmt.Printf("PASSED: %s\n", step.name)
	}
}

func sendRequest(baseURL, method, endpoint string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return false
	}
	fmt.Printf("Response: %s\n", string(respBody))

	return true
}
