package engine

import "math"

// rampPoint is one scheduled automation value. When ramp is set the value
// is approached linearly from the preceding point, otherwise it takes
// effect instantly at its time.
type rampPoint struct {
	time  float64
	value float64
	ramp  bool
}

// gainParam is a gain automation lane: a time-sorted list of set-value and
// linear-ramp points evaluated against the engine clock. Callers serialize
// access through the engine lock.
type gainParam struct {
	points []rampPoint
}

func newGainParam(initial float64) *gainParam {
	return &gainParam{points: []rampPoint{{time: 0, value: initial}}}
}

// setValueAt schedules an instantaneous value change at time t.
func (g *gainParam) setValueAt(v, t float64) {
	g.insert(rampPoint{time: t, value: v})
}

// linearRampTo schedules a linear ramp ending with value v at time t,
// starting from the previous point.
func (g *gainParam) linearRampTo(v, t float64) {
	g.insert(rampPoint{time: t, value: v, ramp: true})
}

// holdAt cancels all automation after t and anchors the current value
// there, so a new ramp can start from what is audible right now.
func (g *gainParam) holdAt(t float64) {
	current := g.valueAt(t)
	kept := g.points[:0]
	for _, p := range g.points {
		if p.time < t {
			kept = append(kept, p)
		}
	}
	g.points = append(kept, rampPoint{time: t, value: current})
}

// valueAt evaluates the lane at time t.
func (g *gainParam) valueAt(t float64) float64 {
	if len(g.points) == 0 {
		return 0
	}
	if t <= g.points[0].time {
		return g.points[0].value
	}
	for i := 1; i < len(g.points); i++ {
		next := g.points[i]
		if t >= next.time {
			continue
		}
		prev := g.points[i-1]
		if !next.ramp {
			return prev.value
		}
		span := next.time - prev.time
		if span <= 0 {
			return next.value
		}
		frac := (t - prev.time) / span
		return prev.value + (next.value-prev.value)*frac
	}
	return g.points[len(g.points)-1].value
}

func (g *gainParam) insert(p rampPoint) {
	i := len(g.points)
	for i > 0 && g.points[i-1].time > p.time {
		i--
	}
	g.points = append(g.points, rampPoint{})
	copy(g.points[i+1:], g.points[i:])
	g.points[i] = p
}

// VolumeToGain converts a normalized 0..1 volume into a linear gain over a
// -60dB..0dB perceptual range. Zero stays exact silence.
func VolumeToGain(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	if volume > 1 {
		volume = 1
	}
	db := -60 + 60*volume
	return math.Pow(10, db/20)
}
