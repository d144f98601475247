package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"snakerl/internal/env"
)

// Logger writes one CSV row and one JSON line per episode and prints
// run summaries to the console
type Logger struct {
	RunID string

	csvPath   string
	jsonPath  string
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonFile  *os.File
	console   io.Writer
	started   time.Time
}

// EpisodeLine is the JSONL record for one episode
type EpisodeLine struct {
	RunID       string  `json:"run_id"`
	Episode     int     `json:"episode"`
	Policy      string  `json:"policy"`
	Seed        int64   `json:"seed"`
	Score       int     `json:"score"`
	Steps       int     `json:"steps"`
	Length      int     `json:"length"`
	TotalReward float64 `json:"total_reward"`
	Reason      string  `json:"reason"`
}

var csvHeader = []string{
	"run_id", "episode", "policy", "seed", "score", "steps", "length", "total_reward", "reason",
}

// NewLogger creates the log files and writes the CSV header. console may be nil.
func NewLogger(csvPath, jsonPath string, console io.Writer) (*Logger, error) {
	if console == nil {
		console = io.Discard
	}
	l := &Logger{
		RunID:    uuid.NewString(),
		csvPath:  csvPath,
		jsonPath: jsonPath,
		console:  console,
		started:  time.Now(),
	}

	for _, p := range []string{csvPath, jsonPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return nil, err
		}
	}

	var err error
	l.csvFile, err = os.Create(csvPath)
	if err != nil {
		return nil, err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)
	if err := l.csvWriter.Write(csvHeader); err != nil {
		l.Close()
		return nil, err
	}

	l.jsonFile, err = os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		l.Close()
		return nil, err
	}
	return l, nil
}

// Close flushes and closes all log files
func (l *Logger) Close() error {
	var first error
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		first = l.csvWriter.Error()
	}
	for _, f := range []*os.File{l.csvFile, l.jsonFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.csvFile, l.jsonFile, l.csvWriter = nil, nil, nil
	return first
}

// LogEpisode appends one episode to the CSV and JSONL logs
func (l *Logger) LogEpisode(episode int, policy string, stats env.EpisodeStats) error {
	line := EpisodeLine{
		RunID:       l.RunID,
		Episode:     episode,
		Policy:      policy,
		Seed:        stats.Seed,
		Score:       stats.Score,
		Steps:       stats.Steps,
		Length:      stats.Length,
		TotalReward: stats.TotalReward,
		Reason:      stats.Reason.String(),
	}

	row := []string{
		line.RunID,
		strconv.Itoa(line.Episode),
		line.Policy,
		strconv.FormatInt(line.Seed, 10),
		strconv.Itoa(line.Score),
		strconv.Itoa(line.Steps),
		strconv.Itoa(line.Length),
		strconv.FormatFloat(line.TotalReward, 'f', 2, 64),
		line.Reason,
	}
	if err := l.csvWriter.Write(row); err != nil {
		return err
	}
	l.csvWriter.Flush()
	if err := l.csvWriter.Error(); err != nil {
		return err
	}

	data, err := json.Marshal(line)
	if err != nil {
		return err
	}
	_, err = l.jsonFile.Write(append(data, '\n'))
	return err
}

// LogSummary prints aggregate statistics for the run
func (l *Logger) LogSummary(policy string, agg env.AggregatedStats, lambda float64) {
	fmt.Fprintf(l.console, "Run %s | policy=%s | %s episodes in %s\n",
		l.RunID, policy, humanize.Comma(int64(agg.NumEpisodes)), time.Since(l.started).Round(time.Millisecond))
	fmt.Fprintf(l.console, "  Score: mean=%.2f std=%.2f max=%d robust=%.2f\n",
		agg.ScoreMean, agg.ScoreStd, agg.ScoreMax, agg.RobustnessScore(lambda))
	fmt.Fprintf(l.console, "  Steps: mean=%s | Length: mean=%.1f | Reward: mean=%.2f\n",
		humanize.CommafWithDigits(agg.StepsMean, 1), agg.LengthMean, agg.RewardMean)
	fmt.Fprintf(l.console, "  Ends: W=%d S=%d T=%d\n",
		agg.ReasonCounts[env.ReasonWall], agg.ReasonCounts[env.ReasonSelf], agg.ReasonCounts[env.ReasonTruncated])
}
