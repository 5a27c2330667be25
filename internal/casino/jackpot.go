package casino

// Jackpot tuning.
const (
	JackpotContributionPct = 5
	JackpotFloor           = 10000
)

// Jackpot is the shared progressive pool. It lives in the state container;
// functions here return the next value rather than mutating.
type Jackpot struct {
	Pool  int `json:"pool"`
	Floor int `json:"floor"`
}

// NewJackpot starts a pool at its floor.
func NewJackpot(floor int) Jackpot {
	if floor <= 0 {
		floor = JackpotFloor
	}
	return Jackpot{Pool: floor, Floor: floor}
}

// Contribute adds the fixed fraction of bet to the pool.
func (j Jackpot) Contribute(bet int) Jackpot {
	if bet > 0 {
		j.Pool += mulPct(bet, JackpotContributionPct)
	}
	return j
}

// Win pays out the whole pool and resets it to the floor.
func (j Jackpot) Win() (paid int, next Jackpot) {
	floor := j.Floor
	if floor <= 0 {
		floor = JackpotFloor
	}
	return j.Pool, Jackpot{Pool: floor, Floor: floor}
}
