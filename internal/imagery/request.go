package imagery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/forest-guardian/canopy-cli/internal/properties"
	"github.com/forest-guardian/canopy-cli/internal/shape"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/oauth2/clientcredentials"
)

const processURL = "https://sh.dataspace.copernicus.eu/api/v1/process"

// errImageNotFound marks dates for which Copernicus has no scene, callers
// skip those instead of failing the whole fetch.
var errImageNotFound = errors.New("image not found")

// True-color rendering of the Sentinel-2 visible bands.
const evalscript = `
    //VERSION=3
    function setup() {
      return {
        input: ["B04", "B03", "B02"],
        output: {
          id: "default",
          bands: 3,
          sampleType: SampleType.AUTO,
        },
      }
    }

    function evaluatePixel(sample) {
      return [2.5 * sample.B04, 2.5 * sample.B03, 2.5 * sample.B02];
    }
  `

func calculatePixels(distance float64, resolution float64) int {
	pixels := distance * (111_000.0 / resolution)
	if pixels < 1 {
		return 1
	}
	return int(pixels)
}

func buildRequestBody(startDate, endDate time.Time, boundary *shape.Boundary) ([]byte, error) {
	bound := boundary.Shape.Bound()

	widthPixels := calculatePixels(bound.Max.X()-bound.Min.X(), 10)
	heightPixels := calculatePixels(bound.Max.Y()-bound.Min.Y(), 10)
	// Clamp to allowed range (1-2500)
	if widthPixels > 2500 {
		widthPixels = 2500
	}
	if heightPixels > 2500 {
		heightPixels = 2500
	}

	requestPayload := map[string]interface{}{
		"input": map[string]interface{}{
			"bounds": map[string]interface{}{
				"geometry": geojson.NewGeometry(boundary.Shape),
			},
			"data": []map[string]interface{}{
				{
					"dataFilter": map[string]interface{}{
						"timeRange": map[string]string{
							"from": startDate.Format(time.RFC3339),
							"to":   endDate.Format(time.RFC3339),
						},
					},
					"type": "sentinel-2-l2a",
				},
			},
		},
		"output": map[string]interface{}{
			"width":  widthPixels,
			"height": heightPixels,
			"responses": []map[string]interface{}{
				{
					"identifier": "default",
					"format": map[string]string{
						"type": "image/tiff",
					},
				},
			},
		},
		"evalscript": evalscript,
		"mosaicking": "mostRecent",
	}

	return json.Marshal(requestPayload)
}

// requestImage downloads one GeoTIFF for the boundary and time window from
// the Copernicus process API. Multiple comma-separated credentials are tried
// in turn when requests keep failing.
func requestImage(ctx context.Context, startDate, endDate time.Time, boundary *shape.Boundary) ([]byte, error) {
	requestBody, err := buildRequestBody(startDate, endDate, boundary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %v", err)
	}

	clientIDs := properties.CopernicusClientIDs()
	clientSecrets := properties.CopernicusClientSecrets()
	tokenURL := properties.CopernicusTokenURL()
	if clientIDs == "" || clientSecrets == "" || tokenURL == "" {
		return nil, fmt.Errorf("missing required environment variables: COPERNICUS_CLIENT_ID, COPERNICUS_CLIENT_SECRET, or COPERNICUS_TOKEN_URL")
	}

	clientIDList := strings.Split(clientIDs, ",")
	clientSecretList := strings.Split(clientSecrets, ",")
	if len(clientIDList) != len(clientSecretList) {
		return nil, fmt.Errorf("mismatched number of client IDs and secrets")
	}

	var lastErr error
	for i, clientID := range clientIDList {
		config := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecretList[i],
			TokenURL:     tokenURL,
		}
		httpClient := config.Client(ctx)

		content, err := requestWithRetries(ctx, httpClient, processURL, requestBody)
		if err == nil {
			return content, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func requestWithRetries(ctx context.Context, httpClient *http.Client, url string, requestBody []byte) ([]byte, error) {
	const retries = 10

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
		if err != nil {
			return nil, err
		}
		request.Header.Set("Content-Type", "application/json")

		response, err := httpClient.Do(request)
		if err != nil {
			lastErr = err
			fmt.Printf("Attempt %d failed: %v\n", attempt, err)
		} else {
			body, readErr := io.ReadAll(response.Body)
			response.Body.Close()

			if response.StatusCode == http.StatusOK && readErr == nil {
				return body, nil
			}
			if response.StatusCode == http.StatusForbidden || response.StatusCode == http.StatusUnauthorized {
				return nil, fmt.Errorf("unauthorized access, check your client ID and secret")
			}
			if response.StatusCode == http.StatusNotFound {
				return nil, errImageNotFound
			}
			lastErr = fmt.Errorf("request failed with status %d: %s", response.StatusCode, string(body))
			fmt.Printf("Attempt %d failed: %s\n", attempt, string(body))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}

	return nil, fmt.Errorf("failed to request image after %d attempts: %v", retries, lastErr)
}
