package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Services  struct {
		Store struct {
			Driver string `json:"driver"`
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		} `json:"store"`
	} `json:"services"`
}

// rosterResponse is the subset of GET /api/v1/edificios checked here.
type rosterResponse struct {
	Categories []struct {
		Category  string            `json:"categoria"`
		Buildings []json.RawMessage `json:"edificios"`
	} `json:"categorias"`
}

func main() {
	base := "http://localhost:8080"
	if len(os.Args) > 1 {
		base = strings.TrimSuffix(os.Args[1], "/health")
	}
	client := &http.Client{Timeout: 10 * time.Second}

	var health HealthResponse
	fmt.Printf("🔍 Testing health endpoint: %s/health\n", base)
	if err := getJSON(client, base+"/health", &health); err != nil {
		fail("Health check failed: %v", err)
	}
	if health.Status != "ok" {
		fail("Health status is not 'ok': %s", health.Status)
	}
	store := health.Services.Store
	if store.Status != "ok" {
		if store.Error != "" {
			fmt.Printf("   Store error: %s\n", store.Error)
		}
		fail("Store (%s) status is not 'ok': %s", store.Driver, store.Status)
	}

	var roster rosterResponse
	fmt.Printf("🔍 Testing public API: %s/api/v1/edificios\n", base)
	if err := getJSON(client, base+"/api/v1/edificios", &roster); err != nil {
		fail("Roster request failed: %v", err)
	}
	if len(roster.Categories) == 0 {
		fail("Roster is empty")
	}

	fmt.Printf("✅ Health check passed!\n")
	fmt.Printf("   Status: %s\n", health.Status)
	fmt.Printf("   Version: %s\n", health.Version)
	fmt.Printf("   Store: %s (%s)\n", store.Status, store.Driver)
	for _, c := range roster.Categories {
		fmt.Printf("   %s: %d buildings\n", c.Category, len(c.Buildings))
	}
	fmt.Printf("   Timestamp: %s\n", health.Timestamp)
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("error connecting: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}
	fmt.Printf("📊 Response Status: %s\n", resp.Status)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("📄 Response Body: %s\n", string(body))
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error parsing JSON response: %w", err)
	}
	return nil
}

func fail(format string, args ...any) {
	fmt.Printf("❌ "+format+"\n", args...)
	os.Exit(1)
}
