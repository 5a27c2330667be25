package minigame

// Easing specifies how difficulty ramps from the first tier to the last.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

// ease maps progress t in [0,1] through e.
func ease(e Easing, t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	switch e {
	case EaseOutQuad:
		// f(t) = 1 - (1 - t)^2
		return 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		// accelerate then decelerate
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - (-2*t+2)*(-2*t+2)*(-2*t+2)/2
	default:
		return t
	}
}

// interpolate moves from easy (tier 1) to hard (MaxTier) along e.
func interpolate(easy, hard float64, tier Tier, e Easing) float64 {
	if tier < MinTier {
		tier = MinTier
	}
	if tier > MaxTier {
		tier = MaxTier
	}
	t := float64(tier-MinTier) / float64(MaxTier-MinTier)
	return easy + (hard-easy)*ease(e, t)
}
