package model

// GardenStatus is the mood of the garden for today.
type GardenStatus string

const (
	StatusThriving GardenStatus = "thriving"
	StatusNormal   GardenStatus = "normal"
	StatusYellow   GardenStatus = "yellow"
	// StatusWithered is part of the client vocabulary but never derived.
	StatusWithered GardenStatus = "withered"
)

// GardenState is derived from the meal records on every read; it is never
// stored. LastWatered is the creation time of the newest record in unix
// milliseconds, 0 when there are none.
type GardenState struct {
	Type        NurtureType  `json:"type"`
	Leaves      int          `json:"leaves"`
	Flowers     int          `json:"flowers"`
	Fruits      int          `json:"fruits"`
	Energy      int          `json:"energy"`
	Vitality    int          `json:"vitality"`
	Status      GardenStatus `json:"status"`
	LastWatered int64        `json:"lastWatered"`
}
