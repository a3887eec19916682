package types

type Temperature struct {
	Celsius    float64
	Fahrenheit float64
}

func NewTemperatureFromCelsius(celsius float64) Temperature {
	return Temperature{
		Celsius:    celsius,
		Fahrenheit: celsius*9/5 + 32,
	}
}
