package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base url")
	query := flag.String("q", "euler", "name to search for")
	flag.Parse()

	client := &http.Client{Timeout: 30 * time.Second}

	fmt.Println("Starting smoke test...")

	fmt.Println("1. Health")
	var health struct {
		Status  string `json:"status"`
		Records int    `json:"records"`
	}
	if !call(client, http.MethodGet, *baseURL+"/healthz", nil, &health) {
		fail("health")
	}
	fmt.Printf("PASSED: health (%s, %d records)\n", health.Status, health.Records)

	fmt.Println("2. Options")
	var options struct {
		Options struct {
			Locations []string `json:"locations"`
		} `json:"options"`
	}
	if !call(client, http.MethodGet, *baseURL+"/api/options", nil, &options) {
		fail("options")
	}
	fmt.Printf("PASSED: options (%d locations)\n", len(options.Options.Locations))

	fmt.Println("3. Commit filters")
	filters := map[string]any{
		"year_range":      map[string]int{"min": 1700, "max": 1800},
		"locations":       []string{},
		"religions":       []string{},
		"institutions":    []string{},
		"worked_in":       []string{},
		"professions":     []string{},
		"include_unknown": false,
	}
	var graph struct {
		Revision string `json:"revision"`
		Stats    struct {
			Nodes int `json:"nodes"`
			Links int `json:"links"`
		} `json:"stats"`
	}
	if !call(client, http.MethodPut, *baseURL+"/api/filters", filters, &graph) {
		fail("commit filters")
	}
	fmt.Printf("PASSED: commit filters (revision %s, %d nodes, %d links)\n", graph.Revision, graph.Stats.Nodes, graph.Stats.Links)

	fmt.Println("4. Search")
	var search struct {
		Results []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"results"`
	}
	if !call(client, http.MethodGet, *baseURL+"/api/search?q="+url.QueryEscape(*query), nil, &search) {
		fail("search")
	}
	fmt.Printf("PASSED: search (%d results)\n", len(search.Results))

	if len(search.Results) == 0 {
		return
	}
	id := search.Results[0].ID

	fmt.Println("5. Record and highlight")
	if !call(client, http.MethodGet, *baseURL+"/api/records/"+url.PathEscape(id), nil, nil) {
		fail("record")
	}
	highlight := map[string]any{"revision": graph.Revision, "hover": map[string]string{"node": id}}
	if !call(client, http.MethodPost, *baseURL+"/api/highlight", highlight, nil) {
		fail("highlight")
	}
	fmt.Println("PASSED: record and highlight")
}

func fail(step string) {
	fmt.Printf("FAILED: %s\n", step)
	os.Exit(1)
}

// call sends payload as JSON and decodes a 200 reply into out when set.
func call(client *http.Client, method, endpoint string, payload, out any) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Error encoding request: %v\n", err)
			return false
		}
		body = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequest(method, endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

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
	if out == nil {
		return true
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return false
	}
	return true
}
