package types

// SunTimesLayout is the 24-hour time-of-day format used for sun times
const SunTimesLayout = "15:04:05"

// SunTimes holds today's sunrise and sunset as local time-of-day strings
type SunTimes struct {
	Sunrise string `json:"sunrise" example:"06:02:17"`
	Sunset  string `json:"sunset" example:"20:33:41"`
}
