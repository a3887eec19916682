package openweathermap

// CurrentWeatherAPIResponse is the subset of /data/2.5/weather we read.
type CurrentWeatherAPIResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
}
