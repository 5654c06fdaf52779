package wind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cedargrove/windchimes/env"
)

/*

https://www.weather.gov/documentation/services-web-api

Latest station observation, no API key needed but they want a
descriptive User-Agent:

  https://api.weather.gov/stations/KPSC/observations/latest

windSpeed comes back in km/h and can be null when the station hasn't
reported one, e.g.

  "windSpeed": {"unitCode": "wmoUnit:km_h-1", "value": 14.76}

*/

const nwsURLFormat = "https://api.weather.gov/stations/%s/observations/latest"
const nwsUserAgent = "windchimes (garden chime daemon)"

type nwsBody struct {
	Properties struct {
		WindSpeed struct {
			UnitCode string   `json:"unitCode"`
			Value    *float64 `json:"value"`
		} `json:"windSpeed"`
	} `json:"properties"`
}

type NWS struct {
	client  *http.Client
	url     string
	station string
}

func NewNWS(station string) *NWS {
	return &NWS{
		client:  &http.Client{Timeout: env.FetchTimeout},
		url:     fmt.Sprintf(nwsURLFormat, station),
		station: station,
	}
}

func (n *NWS) Fetch(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request [%w]", err)
	}
	req.Header.Set("User-Agent", nwsUserAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := n.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("nws fetch failed [%w]", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("nws fetch failed HTTP [%v]", resp.Status)
	}

	body := nwsBody{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("nws decode failed [%w]", err)
	}
	if body.Properties.WindSpeed.Value == nil {
		return 0, fmt.Errorf("station [%v] observation has no wind speed", n.station)
	}
	return *body.Properties.WindSpeed.Value * env.KphToMph, nil
}
