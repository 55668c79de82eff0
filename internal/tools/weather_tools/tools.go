package weather_tools

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/galeproject/gale/internal/retry"
	"github.com/galeproject/gale/internal/tools"
	"github.com/galeproject/gale/internal/weather"
)

// Forecaster is the subset of the weather client the tool needs.
type Forecaster interface {
	Current(ctx context.Context, place string, aqi bool) (*weather.Current, error)
}

// RegisterWeatherTools registers the get_weather tool with the registry.
// Upstream calls are retried on connection failures and timeouts.
func RegisterWeatherTools(r *tools.Registry, f Forecaster) error {
	return register(r, f, retry.DefaultPolicy(weather.IsTransient))
}

func register(r *tools.Registry, f Forecaster, policy retry.Policy) error {
	decl := &genai.FunctionDeclaration{
		Name:        "get_weather",
		Description: "Returns current weather information for a place, optionally with air quality (AQI) data.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"place": {
					Type:        genai.TypeString,
					Description: "Name of the place.",
				},
				"aqi": {
					Type:        genai.TypeBoolean,
					Description: "True if air quality information is asked for, else false.",
				},
			},
			Required: []string{"place", "aqi"},
		},
	}

	handler := func(ctx context.Context, args map[string]any) (map[string]any, error) {
		place, _ := args["place"].(string)
		aqi, _ := args["aqi"].(bool)

		cur, err := retry.Do(ctx, policy, func() (*weather.Current, error) {
			return f.Current(ctx, place, aqi)
		})
		if err != nil {
			return nil, err
		}

		response := map[string]any{
			"place":       cur.Place,
			"country":     cur.Country,
			"temp_c":      cur.TempC,
			"temp_f":      cur.TempF,
			"condition":   cur.Condition,
			"humidity":    cur.Humidity,
			"wind_kph":    cur.WindKph,
			"feelslike_c": cur.FeelsLikeC,
		}
		if cur.LocalTime != "" {
			response["local_time"] = cur.LocalTime
		}
		if cur.AirQuality != nil {
			response["aqi"] = map[string]any{
				"us_epa_index": cur.AirQuality.USEPAIndex,
				"category":     cur.AirQuality.EPACategory,
				"pm2_5":        cur.AirQuality.PM25,
				"pm10":         cur.AirQuality.PM10,
			}
		}
		return response, nil
	}

	if err := r.Register(decl, handler); err != nil {
		return fmt.Errorf("failed to register weather tools: %w", err)
	}
	return nil
}
