package history

// Pick is a graded pick made before the service tracked the season.
type Pick struct {
	UserID  int64
	Week    int
	TeamID  int64
	Correct bool
}
