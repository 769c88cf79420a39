package team

// Team is one franchise from the game catalog.
type Team struct {
	ID   int
	Name string
	City string
	Nick string
	Abbr string
	Logo string
}
