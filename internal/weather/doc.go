// Package weather provides a minimal client for the WeatherAPI.com
// current-conditions endpoint, including the optional air quality data
// used to answer AQI questions.
package weather
