package model

// Control names the process limiting snow transport for a season.
// Keep these values stable; they are intended for CSV output.
type Control string

const (
	SnowfallControlled Control = "SNOWFALL_CONTROLLED"
	WindControlled     Control = "WIND_CONTROLLED"
)

// ControlFromTransport applies Tabler's rule: when the wind could move more
// snow than fell, supply limits the transport.
func ControlFromTransport(qupot, qspot float64) Control {
	if qupot > qspot {
		return SnowfallControlled
	}
	return WindControlled
}
