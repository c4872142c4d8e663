package models

import "time"

func fixedTime() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.FixedZone("BRT", -3*60*60))
}
