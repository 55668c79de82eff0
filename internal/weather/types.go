package weather

// Current is the subset of the WeatherAPI current-conditions response
// that the assistant reports to the model.
type Current struct {
	Place      string  `json:"place"`
	Region     string  `json:"region,omitempty"`
	Country    string  `json:"country,omitempty"`
	LocalTime  string  `json:"local_time,omitempty"`
	TempC      float64 `json:"temp_c"`
	TempF      float64 `json:"temp_f"`
	Condition  string  `json:"condition"`
	Humidity   int     `json:"humidity"`
	WindKph    float64 `json:"wind_kph"`
	FeelsLikeC float64 `json:"feelslike_c"`

	// AirQuality is nil unless AQI data was requested.
	AirQuality *AirQuality `json:"air_quality,omitempty"`
}

// AirQuality holds the pollutant readings and the US EPA index with its
// human-readable category.
type AirQuality struct {
	CO          float64 `json:"co"`
	NO2         float64 `json:"no2"`
	O3          float64 `json:"o3"`
	PM25        float64 `json:"pm2_5"`
	PM10        float64 `json:"pm10"`
	USEPAIndex  int     `json:"us_epa_index"`
	EPACategory string  `json:"epa_category"`
}

// EPACategory maps a US EPA air quality index value to its category name.
func EPACategory(index int) string {
	switch index {
	case 1:
		return "Good"
	case 2:
		return "Moderate"
	case 3:
		return "Unhealthy for sensitive groups"
	case 4:
		return "Unhealthy"
	case 5:
		return "Very Unhealthy"
	case 6:
		return "Hazardous"
	default:
		return "Unknown"
	}
}

// apiResponse mirrors the WeatherAPI wire format.
type apiResponse struct {
	Location struct {
		Name      string `json:"name"`
		Region    string `json:"region"`
		Country   string `json:"country"`
		LocalTime string `json:"localtime"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		TempF     float64 `json:"temp_f"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		Humidity   int     `json:"humidity"`
		WindKph    float64 `json:"wind_kph"`
		FeelsLikeC float64 `json:"feelslike_c"`
		AirQuality *struct {
			CO         float64 `json:"co"`
			NO2        float64 `json:"no2"`
			O3         float64 `json:"o3"`
			PM25       float64 `json:"pm2_5"`
			PM10       float64 `json:"pm10"`
			USEPAIndex int     `json:"us-epa-index"`
		} `json:"air_quality"`
	} `json:"current"`
}

// apiError mirrors the WeatherAPI error envelope returned on non-2xx.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
