package searcher

import "math"

// uct scores the children of a parent that has been visited N times
type uct struct {
	exploration float64
	logN        float64
}

func newUCT(exploration float64, N int) uct {
	if N == 0 {
		panic("cannot compute UCT: parent has 0 visits")
	}
	return uct{exploration: exploration, logN: math.Log(float64(N))}
}

// score = q/n + c*sqrt(ln(N)/n)
func (u uct) score(rewards float64, visits int) float64 {
	if visits == 0 {
		panic("cannot compute UCT: child has 0 visits")
	}
	n := float64(visits)
	return rewards/n + u.exploration*math.Sqrt(u.logN/n)
}
