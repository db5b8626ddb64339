package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	geocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
	forecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// WeatherTool resolves a place name through the Open-Meteo geocoding API and
// reports the current weather there. Both endpoints are key-less.
type WeatherTool struct {
	geocodeBase  string
	forecastBase string
	client       *http.Client
}

func NewWeatherTool() *WeatherTool {
	return &WeatherTool{
		geocodeBase:  geocodingURL,
		forecastBase: forecastURL,
		client:       &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *WeatherTool) Name() string { return "get_weather" }

func (t *WeatherTool) Description() string {
	return "Get the current weather for a city or place name."
}

func (t *WeatherTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "City or place name, e.g. Shanghai",
			},
		},
		"required": []string{"location"},
	}
}

type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

func (t *WeatherTool) Execute(ctx context.Context, args map[string]any) (Result, error) {
	location, _ := args["location"].(string)
	if location == "" {
		return ErrorResult(t.Name(), "missing argument: location"), nil
	}

	var geo geocodeResponse
	geoURL := t.geocodeBase + "?count=1&name=" + url.QueryEscape(location)
	if err := t.getJSON(ctx, geoURL, &geo); err != nil {
		return ErrorResult(t.Name(), "geocoding failed: %v", err), nil
	}
	if len(geo.Results) == 0 {
		return ErrorResult(t.Name(), "unknown location: %s", location), nil
	}
	place := geo.Results[0]

	var fc forecastResponse
	fcURL := fmt.Sprintf("%s?current_weather=true&latitude=%.4f&longitude=%.4f",
		t.forecastBase, place.Latitude, place.Longitude)
	if err := t.getJSON(ctx, fcURL, &fc); err != nil {
		return ErrorResult(t.Name(), "forecast request failed: %v", err), nil
	}

	return TextResult(t.Name(), fmt.Sprintf(
		"Current weather in %s, %s: %.1f°C, wind %.1f km/h (weather code %d)",
		place.Name, place.Country,
		fc.CurrentWeather.Temperature, fc.CurrentWeather.WindSpeed, fc.CurrentWeather.WeatherCode,
	)), nil
}

func (t *WeatherTool) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "bookroom-agent/1.0")
	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
