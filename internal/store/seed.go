package store

import "monsoonplan/internal/model"

// SeedForecasts returns the built-in mock forecast table for Malaysian regions.
// Each call returns a fresh copy.
func SeedForecasts() []model.RegionForecast {
    day := func(date string, rain float64, weather string, risk model.RiskLevel) model.ForecastDay {
        return model.ForecastDay{Date: date, Rainfall: rain, Weather: weather, Risk: risk}
    }
    return []model.RegionForecast{
        {
            Region:  "KL",
            Current: model.CurrentConditions{Temperature: 32, Humidity: 75, Rainfall: 0, Weather: model.WeatherPartlyCloudy},
            Forecast: []model.ForecastDay{
                day("2025-07-18", 5, model.WeatherLightRain, model.RiskLow),
                day("2025-07-19", 15, model.WeatherModerateRain, model.RiskMedium),
                day("2025-07-20", 25, model.WeatherHeavyRain, model.RiskHigh),
                day("2025-07-21", 8, model.WeatherLightRain, model.RiskLow),
                day("2025-07-22", 0, model.WeatherSunny, model.RiskNone),
                day("2025-07-23", 2, model.WeatherPartlyCloudy, model.RiskNone),
                day("2025-07-24", 12, model.WeatherModerateRain, model.RiskMedium),
            },
        },
        {
            Region:  "Penang",
            Current: model.CurrentConditions{Temperature: 31, Humidity: 78, Rainfall: 3, Weather: model.WeatherLightRain},
            Forecast: []model.ForecastDay{
                day("2025-07-18", 8, model.WeatherLightRain, model.RiskLow),
                day("2025-07-19", 18, model.WeatherModerateRain, model.RiskMedium),
                day("2025-07-20", 30, model.WeatherHeavyRain, model.RiskHigh),
                day("2025-07-21", 12, model.WeatherModerateRain, model.RiskMedium),
                day("2025-07-22", 5, model.WeatherLightRain, model.RiskLow),
                day("2025-07-23", 0, model.WeatherSunny, model.RiskNone),
                day("2025-07-24", 7, model.WeatherLightRain, model.RiskLow),
            },
        },
        {
            Region:  "Johor",
            Current: model.CurrentConditions{Temperature: 33, Humidity: 72, Rainfall: 0, Weather: model.WeatherSunny},
            Forecast: []model.ForecastDay{
                day("2025-07-18", 2, model.WeatherPartlyCloudy, model.RiskNone),
                day("2025-07-19", 10, model.WeatherLightRain, model.RiskLow),
                day("2025-07-20", 20, model.WeatherModerateRain, model.RiskMedium),
                day("2025-07-21", 6, model.WeatherLightRain, model.RiskLow),
                day("2025-07-22", 0, model.WeatherSunny, model.RiskNone),
                day("2025-07-23", 1, model.WeatherPartlyCloudy, model.RiskNone),
                day("2025-07-24", 15, model.WeatherModerateRain, model.RiskMedium),
            },
        },
    }
}
