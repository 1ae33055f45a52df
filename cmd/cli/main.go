package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}
	key := os.Getenv("ADMIN_API_KEY")

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Enter a device ID to evaluate (e.g., a1b2c3d4-...): ")
	raw, _ := reader.ReadString('\n')
	id := strings.TrimSpace(raw)
	if id == "" {
		fmt.Println("No device ID given.")
		return
	}

	req, _ := http.NewRequest(http.MethodPost, api+"/api/devices/"+id+"/evaluate", bytes.NewReader(nil))
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("Error contacting API:", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Println("API returned status:", resp.Status)
		return
	}

	var res struct {
		Alerts []struct {
			PropertyID string `json:"propertyId"`
			Name       string `json:"name"`
			InAlert    bool   `json:"inAlert"`
		} `json:"alerts"`
		AlertCount int `json:"alertCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		fmt.Println("Bad response from API:", err)
		return
	}

	if res.AlertCount == 0 {
		fmt.Printf("All %d numeric properties are in range.\n", len(res.Alerts))
		return
	}
	fmt.Printf("%d of %d properties out of range:\n", res.AlertCount, len(res.Alerts))
	for _, a := range res.Alerts {
		if a.InAlert {
			name := a.Name
			if name == "" {
				name = a.PropertyID
			}
			fmt.Println("  -", name)
		}
	}
}
