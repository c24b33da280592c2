package view

// ID identifies one view of the catalogue.
type ID string

const (
	TotalTime   ID = "total-time"
	AverageTime ID = "average-time"
	Count       ID = "count"
	SuccessRate ID = "success-rate"
	Timeline    ID = "timeline"
)

type Kind int

const (
	KindBar Kind = iota
	KindTimeline
)

// Definition describes how a view is titled and which series it shows.
type Definition struct {
	ID    ID
	Kind  Kind
	Title string
	Unit  string
	// Color is a hex RGB value without the leading '#'.
	Color string
}

// DefaultCatalogue returns the views in navigation order.
func DefaultCatalogue() []Definition {
	return []Definition{
		{ID: TotalTime, Kind: KindBar, Title: "Total Execution Time by Node (Summed)", Unit: "seconds", Color: "87ceeb"},
		{ID: AverageTime, Kind: KindBar, Title: "Average Execution Time by Node", Unit: "seconds", Color: "f08080"},
		{ID: Count, Kind: KindBar, Title: "Execution Count by Node", Unit: "count", Color: "90ee90"},
		{ID: SuccessRate, Kind: KindBar, Title: "Success Rate by Node", Unit: "%", Color: "ffd700"},
		{ID: Timeline, Kind: KindTimeline, Title: "Execution Timeline by Node", Unit: "seconds"},
	}
}
