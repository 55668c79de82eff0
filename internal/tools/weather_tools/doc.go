// Package weather_tools declares the get_weather tool backed by the
// WeatherAPI client.
package weather_tools
