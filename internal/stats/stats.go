// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/lophoc/internal/leaderboard"
	"github.com/verte-zerg/lophoc/internal/model"
)

const sparkChars = " .:-=+*#%@"

// SessionMetrics computes accuracy (0-1) and items classified per minute.
func SessionMetrics(correct, incorrect int, durationSeconds float64) (accuracy, perMinute float64) {
	total := correct + incorrect
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}
	if durationSeconds > 0 {
		perMinute = float64(total) / (durationSeconds / 60)
	}
	return accuracy, perMinute
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := minMax(values)
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	last := len(sparkChars) - 1
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[clamp(idx, 0, last)])
	}
	return b.String()
}

// Summary holds headline numbers over a set of sessions.
type Summary struct {
	Sessions     int
	AvgAccuracy  float64
	BestDuration float64
	AvgDuration  float64
	Perfect      int
}

// Summarize computes a Summary. BestDuration only considers perfect sessions
// when any exist, matching how the leaderboard ranks ties.
func Summarize(sessions []model.SessionAggregate) Summary {
	sum := Summary{Sessions: len(sessions)}
	if len(sessions) == 0 {
		return sum
	}
	var accTotal, durTotal float64
	bestAny, bestPerfect := math.Inf(1), math.Inf(1)
	for _, s := range sessions {
		acc, _ := SessionMetrics(s.Correct, s.Incorrect, s.DurationSeconds)
		accTotal += acc
		durTotal += s.DurationSeconds
		bestAny = math.Min(bestAny, s.DurationSeconds)
		if s.Incorrect == 0 && s.Correct > 0 {
			sum.Perfect++
			bestPerfect = math.Min(bestPerfect, s.DurationSeconds)
		}
	}
	n := float64(len(sessions))
	sum.AvgAccuracy = accTotal / n
	sum.AvgDuration = durTotal / n
	sum.BestDuration = bestAny
	if sum.Perfect > 0 {
		sum.BestDuration = bestPerfect
	}
	return sum
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "Chưa có lượt chơi nào.")
		return err
	}
	sum := Summarize(sessions)
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		accs[i], _ = SessionMetrics(s.Correct, s.Incorrect, s.DurationSeconds)
	}
	lines := []string{
		"Tổng kết",
		fmt.Sprintf("Số lượt: %d (%d lượt đúng hết)", sum.Sessions, sum.Perfect),
		fmt.Sprintf("Độ chính xác TB: %.2f%%", sum.AvgAccuracy*100),
		fmt.Sprintf("Thời gian tốt nhất: %s", FormatSeconds(sum.BestDuration)),
		fmt.Sprintf("Thời gian TB: %s", FormatSeconds(sum.AvgDuration)),
		fmt.Sprintf("Xu hướng chính xác: %s", Sparkline(accs)),
		"",
	}
	return writeLines(w, lines)
}

// RenderCurves prints learning curves for accuracy and duration.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, PlotOptions{})
}

// RenderCurvesWithSize prints learning curves with explicit plot options.
// A non-zero opts.Width is the total width available, axis included.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window int, opts PlotOptions) error {
	if len(sessions) == 0 {
		return nil
	}
	accs := make([]float64, len(sessions))
	durs := make([]float64, len(sessions))
	for i, s := range sessions {
		acc, _ := SessionMetrics(s.Correct, s.Incorrect, s.DurationSeconds)
		accs[i] = acc * 100
		durs[i] = s.DurationSeconds
	}
	if opts.Width > 0 {
		opts.Width = PlotWidthFor(opts.Width)
	}
	return PlotSeries(w, "Đường tiến bộ", []Series{
		{Name: "Chính xác %", Values: MovingAverage(accs, window)},
		{Name: "Thời gian (s)", Values: MovingAverage(durs, window)},
	}, opts)
}

// RenderPlayerTable prints per-player aggregates.
func RenderPlayerTable(w io.Writer, players []model.PlayerAggregate) error {
	if len(players) == 0 {
		_, err := fmt.Fprintln(w, "Chưa có người chơi nào.")
		return err
	}
	headers, rows := PlayerRows(RankPlayers(players))
	lines := append([]string{"Người chơi"}, formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true})...)
	return writeLines(w, append(lines, ""))
}

// PlayerRows converts player aggregates into table cells.
func PlayerRows(players []model.PlayerAggregate) ([]string, [][]string) {
	headers := []string{"Tên", "Số lượt", "Chính xác", "Tốt nhất"}
	rows := make([][]string, 0, len(players))
	for _, p := range players {
		rows = append(rows, []string{
			truncateCell(p.PlayerName, maxNameWidth),
			fmt.Sprintf("%d", p.Sessions),
			fmt.Sprintf("%.1f%%", PlayerAccuracy(p)*100),
			FormatSeconds(p.BestDuration),
		})
	}
	return headers, rows
}

// RenderLeaderboard prints the ranked leaderboard.
func RenderLeaderboard(w io.Writer, board leaderboard.Board) error {
	if len(board) == 0 {
		_, err := fmt.Fprintln(w, "Chưa có thành tích nào. Hãy là người đầu tiên!")
		return err
	}
	headers, rows := LeaderboardRows(board)
	lines := formatTable(headers, rows, map[int]bool{0: true, 2: true, 3: true, 4: true})
	return writeLines(w, lines)
}

// LeaderboardRows converts a board into table cells.
func LeaderboardRows(board leaderboard.Board) ([]string, [][]string) {
	headers := []string{"#", "Tên", "Đúng", "Sai", "Thời gian", "Ngày"}
	rows := make([][]string, 0, len(board))
	for i, e := range board {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			truncateCell(e.PlayerName, maxNameWidth),
			fmt.Sprintf("%d", e.Correct),
			fmt.Sprintf("%d", e.Incorrect),
			FormatSeconds(e.DurationSeconds),
			e.Timestamp.Local().Format("02/01/2006"),
		})
	}
	return headers, rows
}

// FormatSeconds renders a duration in seconds as "12.3s" or "1m05s".
func FormatSeconds(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
