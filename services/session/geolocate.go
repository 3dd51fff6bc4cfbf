package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"mediquery/models"
)

// StaticPosition is a Geolocator for coordinates the UI already resolved on
// the device.
type StaticPosition models.GeoPoint

func (p StaticPosition) CurrentPosition(ctx context.Context) (models.GeoPoint, error) {
	return models.GeoPoint(p), nil
}

// IPGeolocator resolves an approximate position for a client IP via ipapi.co.
// Results are cached per IP for the life of the process. Private and loopback
// addresses cannot be resolved and report an error, which callers treat as
// "search without geofiltering".
type IPGeolocator struct {
	IP string
}

type ipAPIResponse struct {
	IP        string  `json:"ip"`
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ipGeoCache caches lookups keyed by IP address.
var ipGeoCache = make(map[string]models.GeoPoint)
var ipGeoCacheMu sync.RWMutex

func (g IPGeolocator) CurrentPosition(ctx context.Context) (models.GeoPoint, error) {
	ipGeoCacheMu.RLock()
	if pos, ok := ipGeoCache[g.IP]; ok {
		ipGeoCacheMu.RUnlock()
		return pos, nil
	}
	ipGeoCacheMu.RUnlock()

	if isPrivateIP(g.IP) {
		return models.GeoPoint{}, fmt.Errorf("cannot geolocate private address %s", g.IP)
	}

	url := fmt.Sprintf("https://ipapi.co/%s/json/", g.IP)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.GeoPoint{}, err
	}
	httpClient := http.Client{Timeout: 5 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return models.GeoPoint{}, fmt.Errorf("geolocation lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.GeoPoint{}, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var payload ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.GeoPoint{}, fmt.Errorf("decode geolocation response: %w", err)
	}
	if payload.Latitude == 0 && payload.Longitude == 0 {
		return models.GeoPoint{}, fmt.Errorf("geolocation API returned no position for %s", g.IP)
	}

	pos := models.GeoPoint{Latitude: payload.Latitude, Longitude: payload.Longitude}
	ipGeoCacheMu.Lock()
	ipGeoCache[g.IP] = pos
	ipGeoCacheMu.Unlock()
	return pos, nil
}

// isPrivateIP checks if an IP is private or loopback.
func isPrivateIP(ip string) bool {
	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}
	if parsedIP.IsLoopback() {
		return true
	}
	privateIPBlocks := []*net.IPNet{
		{IP: net.IPv4(10, 0, 0, 0), Mask: net.CIDRMask(8, 32)},
		{IP: net.IPv4(172, 16, 0, 0), Mask: net.CIDRMask(12, 32)},
		{IP: net.IPv4(192, 168, 0, 0), Mask: net.CIDRMask(16, 32)},
	}
	for _, block := range privateIPBlocks {
		if block.Contains(parsedIP) {
			return true
		}
	}
	return false
}
