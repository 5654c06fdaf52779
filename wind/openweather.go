package wind

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cedargrove/windchimes/env"
	"github.com/google/go-querystring/query"
)

/*

https://openweathermap.org/current

Current conditions by location name, e.g.

  http://api.openweathermap.org/data/2.5/weather?q=Richland&units=imperial&mode=json&appid=KEY

With units=imperial the wind block comes back in mph:

  "wind": {"speed": 11.5, "deg": 220, "gust": 18.4}

*/

const openWeatherURL = "http://api.openweathermap.org/data/2.5/weather?"

type openWeatherQuery struct {
	Location string `url:"q"`
	Units    string `url:"units"`
	Mode     string `url:"mode"`
	AppID    string `url:"appid"`
}

type openWeatherBody struct {
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
		Gust  float64 `json:"gust"`
	} `json:"wind"`
}

type OpenWeather struct {
	client   *http.Client
	baseURL  string
	location string
	token    string
}

func NewOpenWeather(location string, token string) *OpenWeather {
	return &OpenWeather{
		client:   &http.Client{Timeout: env.FetchTimeout},
		baseURL:  openWeatherURL,
		location: location,
		token:    token,
	}
}

func (o *OpenWeather) Fetch(ctx context.Context) (float64, error) {
	vals, err := query.Values(openWeatherQuery{
		Location: o.location,
		Units:    "imperial",
		Mode:     "json",
		AppID:    o.token,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to build query [%w]", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+vals.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request [%w]", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("openweather fetch failed [%w]", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("openweather fetch failed HTTP [%v]", resp.Status)
	}

	body := openWeatherBody{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("openweather decode failed [%w]", err)
	}
	return body.Wind.Speed, nil
}
