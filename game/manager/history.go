package manager

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// HistoryLimit is the number of finished sessions kept on disk.
const HistoryLimit = 100

// SessionRecord describes one finished session.
type SessionRecord struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Score     int       `json:"score"`
}

// Duration of the session in seconds.
func (r SessionRecord) Duration() float64 {
	return r.EndTime.Sub(r.StartTime).Seconds()
}

// History holds the most recent finished sessions, oldest first.
type History struct {
	Records     []SessionRecord `json:"records"`
	GamesPlayed int             `json:"gamesPlayed"` // Includes records trimmed from the window
}

// Summary aggregates the recorded window.
type Summary struct {
	GamesPlayed     int
	AverageScore    float64
	MedianScore     float64
	BestScore       int
	AverageDuration float64
	MaxDuration     float64
}

// Add appends rec and trims the window to HistoryLimit.
func (h *History) Add(rec SessionRecord) {
	h.Records = append(h.Records, rec)
	if len(h.Records) > HistoryLimit {
		h.Records = append([]SessionRecord(nil), h.Records[len(h.Records)-HistoryLimit:]...)
	}
	h.GamesPlayed++
}

func (h *History) Summary() Summary {
	s := Summary{GamesPlayed: h.GamesPlayed}
	if len(h.Records) == 0 {
		return s
	}

	var totalScore, totalDuration float64
	scores := make([]float64, 0, len(h.Records))
	for _, r := range h.Records {
		totalScore += float64(r.Score)
		totalDuration += r.Duration()
		scores = append(scores, float64(r.Score))
		if r.Score > s.BestScore {
			s.BestScore = r.Score
		}
		if d := r.Duration(); d > s.MaxDuration {
			s.MaxDuration = d
		}
	}
	s.AverageScore = totalScore / float64(len(h.Records))
	s.AverageDuration = totalDuration / float64(len(h.Records))
	s.MedianScore = median(scores)
	return s
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

func (h *History) clone() History {
	return History{
		Records:     append([]SessionRecord(nil), h.Records...),
		GamesPlayed: h.GamesPlayed,
	}
}

// LoadHistory reads a history file. A missing file yields an empty history.
func LoadHistory(path string) (History, error) {
	var h History
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return h, fmt.Errorf("failed to read history file: %w", err)
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return History{}, fmt.Errorf("failed to parse history file %s: %w", path, err)
	}
	return h, nil
}

// SaveHistory writes h to path as JSON.
func SaveHistory(path string, h History) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	return writeFileAtomic(path, data)
}
