package env

import "math"

// EpisodeStats captures all metrics from a single episode
type EpisodeStats struct {
	Score       int     `json:"score"`        // food eaten
	Steps       int     `json:"steps"`        // ticks survived
	Length      int     `json:"length"`       // final snake length
	TotalReward float64 `json:"total_reward"` // undiscounted return
	Reason      Reason  `json:"reason"`       // how the episode ended
	Seed        int64   `json:"seed"`         // seed used for this episode
}

// AggregatedStats holds statistics across multiple episodes
type AggregatedStats struct {
	ScoreMean    float64
	ScoreStd     float64
	ScoreMax     int
	StepsMean    float64
	LengthMean   float64
	RewardMean   float64
	ReasonCounts map[Reason]int
	NumEpisodes  int
}

// Stats returns the statistics of the current episode
func (g *Game) Stats(seed int64, totalReward float64) EpisodeStats {
	length := 0
	if g.snake != nil {
		length = g.snake.Len()
	}
	return EpisodeStats{
		Score:       g.score,
		Steps:       g.steps,
		Length:      length,
		TotalReward: totalReward,
		Reason:      g.reason,
		Seed:        seed,
	}
}

// Aggregate computes statistics from multiple episode stats
func Aggregate(episodes []EpisodeStats) AggregatedStats {
	n := len(episodes)
	if n == 0 {
		return AggregatedStats{ReasonCounts: make(map[Reason]int)}
	}

	agg := AggregatedStats{
		ReasonCounts: make(map[Reason]int),
		NumEpisodes:  n,
	}

	var scoreSum, stepsSum, lengthSum, rewardSum float64
	for _, ep := range episodes {
		scoreSum += float64(ep.Score)
		stepsSum += float64(ep.Steps)
		lengthSum += float64(ep.Length)
		rewardSum += ep.TotalReward
		if ep.Score > agg.ScoreMax {
			agg.ScoreMax = ep.Score
		}
		agg.ReasonCounts[ep.Reason]++
	}

	nf := float64(n)
	agg.ScoreMean = scoreSum / nf
	agg.StepsMean = stepsSum / nf
	agg.LengthMean = lengthSum / nf
	agg.RewardMean = rewardSum / nf

	var variance float64
	for _, ep := range episodes {
		diff := float64(ep.Score) - agg.ScoreMean
		variance += diff * diff
	}
	agg.ScoreStd = math.Sqrt(variance / nf)

	return agg
}

// RobustnessScore computes the ranking score: mean - lambda * std
func (a AggregatedStats) RobustnessScore(lambda float64) float64 {
	return a.ScoreMean - lambda*a.ScoreStd
}
