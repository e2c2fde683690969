package value

// Temperature is the 0-100 reputation score shown as a thermometer.
type Temperature int

type TemperatureLabel string

const (
	TemperatureCold    TemperatureLabel = "cold"
	TemperatureCool    TemperatureLabel = "cool"
	TemperatureWarm    TemperatureLabel = "warm"
	TemperatureHot     TemperatureLabel = "hot"
	TemperatureBurning TemperatureLabel = "burning"
)

func NewTemperature(score float64) Temperature {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return Temperature(score + 0.5)
	}
}

func (t Temperature) Label() TemperatureLabel {
	switch {
	case t < 20:
		return TemperatureCold
	case t < 40:
		return TemperatureCool
	case t < 60:
		return TemperatureWarm
	case t < 80:
		return TemperatureHot
	default:
		return TemperatureBurning
	}
}
