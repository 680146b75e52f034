package cui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/jroimartin/gocui"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/lib/logger/sl"
	"plagcheck/internal/services/batch"
	"plagcheck/internal/services/highlight"
)

const previewLength = 2000

type BatchProvider interface {
	GetBatch(ctx context.Context, id string) (*models.BatchResult, error)
}

// CUI is a terminal review screen for one stored batch: summary on the left,
// ranked pairs and the selected pair with highlights on the right.
type CUI struct {
	ctx       context.Context
	cui       *gocui.Gui
	provider  BatchProvider
	log       *slog.Logger
	threshold float64

	result *models.BatchResult
	ranked []models.PairComparison
}

func New(ctx context.Context, log *slog.Logger, provider BatchProvider, threshold float64) (*CUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("create gui: %w", err)
	}
	return &CUI{
		ctx:       ctx,
		cui:       g,
		provider:  provider,
		log:       log,
		threshold: threshold,
	}, nil
}

func (c *CUI) Close() {
	c.cui.Close()
}

func (c *CUI) Start(batchID string) error {
	result, err := c.provider.GetBatch(c.ctx, batchID)
	if err != nil {
		c.cui.Close()
		return err
	}
	c.result = result
	c.ranked = RankPairs(result.Pairs)

	c.cui.Cursor = true
	c.cui.SetManagerFunc(c.layout)
	defer c.cui.Close()

	bindings := []struct {
		view string
		key  gocui.Key
		fn   func(*gocui.Gui, *gocui.View) error
	}{
		{"", gocui.KeyCtrlC, quit},
		{"input", gocui.KeyEnter, c.selectPair},
		{"threshold", gocui.KeyEnter, c.setThreshold},
		{"output", gocui.KeyArrowDown, scrollDown},
		{"output", gocui.KeyArrowUp, scrollUp},
		{"", gocui.KeyTab, nextView},
	}
	for _, b := range bindings {
		if err := c.cui.SetKeybinding(b.view, b.key, gocui.ModNone, b.fn); err != nil {
			c.log.Error("Failed to set keybinding:", "error", sl.Err(err))
		}
	}

	if err := c.cui.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		c.log.Error("Failed to run GUI:", "error", sl.Err(err))
		return err
	}

	return nil
}

func nextView(g *gocui.Gui, _ *gocui.View) error {
	switch g.CurrentView().Name() {
	case "input":
		_, _ = g.SetCurrentView("threshold")
	case "threshold":
		_, _ = g.SetCurrentView("output")
	default:
		_, _ = g.SetCurrentView("input")
	}
	return nil
}

func scrollDown(_ *gocui.Gui, v *gocui.View) error {
	_, oy := v.Origin()
	_, sy := v.Size()

	if oy+sy < len(v.BufferLines()) {
		_ = v.SetOrigin(0, oy+1)
	}
	return nil
}

func scrollUp(_ *gocui.Gui, v *gocui.View) error {
	_, oy := v.Origin()
	if oy > 0 {
		_ = v.SetOrigin(0, oy-1)
	}
	return nil
}

func (c *CUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if maxX < 10 || maxY < 6 {
		return fmt.Errorf("terminal window is too small")
	}

	if v, err := g.SetView("summary", 0, 0, maxX/4, maxY-2); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Batch"
		v.Wrap = true
		RenderSummary(v, c.result, c.threshold)
	}

	if v, err := g.SetView("input", maxX/4+1, 0, maxX-2, 2); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Editable = true
		v.Title = "Pair #"
		_, _ = g.SetCurrentView("input")
	}

	if v, err := g.SetView("threshold", maxX/4+1, 3, maxX/2, 5); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Editable = true
		v.Title = "Threshold"
		fmt.Fprintf(v, "%g", c.threshold)
	}

	if v, err := g.SetView("output", maxX/4+1, 6, maxX-2, maxY-2); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Pairs"
		v.Wrap = true
		RenderPairList(v, c.ranked, c.threshold)
	}

	return nil
}

func (c *CUI) setThreshold(g *gocui.Gui, v *gocui.View) error {
	value, err := strconv.ParseFloat(strings.TrimSpace(v.Buffer()), 64)
	if err != nil {
		return nil
	}
	c.threshold = value

	if summary, err := g.View("summary"); err == nil {
		summary.Clear()
		RenderSummary(summary, c.result, c.threshold)
	}
	output, err := g.View("output")
	if err != nil {
		return err
	}
	output.Clear()
	_ = output.SetOrigin(0, 0)
	output.Title = "Pairs"
	RenderPairList(output, c.ranked, c.threshold)
	return nil
}

func (c *CUI) selectPair(g *gocui.Gui, v *gocui.View) error {
	output, err := g.View("output")
	if err != nil {
		return err
	}
	output.Clear()
	_ = output.SetOrigin(0, 0)

	n, err := strconv.Atoi(strings.TrimSpace(v.Buffer()))
	if err != nil || n < 1 || n > len(c.ranked) {
		output.Title = "Pairs"
		RenderPairList(output, c.ranked, c.threshold)
		return nil
	}

	pair := c.ranked[n-1]
	output.Title = fmt.Sprintf("%s vs %s", pair.Doc1Name, pair.Doc2Name)
	RenderPair(output, pair)
	return nil
}

// RankPairs orders pairs by descending similarity without touching the input.
func RankPairs(pairs []models.PairComparison) []models.PairComparison {
	ranked := append([]models.PairComparison(nil), pairs...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked
}

func RenderSummary(w io.Writer, result *models.BatchResult, threshold float64) {
	if result == nil {
		return
	}
	stats := batch.ComputeStats(result.Pairs)

	fmt.Fprintf(w, "\033[33mBatch:\033[0m %s\n", result.ID)
	fmt.Fprintf(w, "Documents: %d\n", len(result.DocumentNames))
	fmt.Fprintf(w, "Comparisons: %d\n", stats.TotalComparisons)
	fmt.Fprintf(w, "Average: %.1f%%\n", stats.AvgSimilarity)
	fmt.Fprintf(w, "Max: %.2f%%  Min: %.2f%%\n", stats.MaxSimilarity, stats.MinSimilarity)
	fmt.Fprintf(w, "\033[31mHigh: %d\033[0m\n", stats.HighRiskCount)
	fmt.Fprintf(w, "\033[33mMedium: %d\033[0m\n", stats.MediumRiskCount)
	fmt.Fprintf(w, "\033[32mLow: %d\033[0m\n", stats.LowRiskCount)
	fmt.Fprintf(w, "Suspicious (>= %g): %d\n", threshold, len(batch.SuspiciousPairs(result.Pairs, threshold)))

	if len(result.Timings) > 0 {
		fmt.Fprintln(w, "\n\033[33mTimings:\033[0m")
		phases := make([]string, 0, len(result.Timings))
		for phase := range result.Timings {
			phases = append(phases, phase)
		}
		sort.Strings(phases)
		for _, phase := range phases {
			fmt.Fprintf(w, "\033[32m%s: %s\033[0m\n", phase, result.Timings[phase])
		}
	}
}

func RenderPairList(w io.Writer, ranked []models.PairComparison, threshold float64) {
	for i, p := range ranked {
		marker := " "
		if p.Similarity >= threshold {
			marker = "!"
		}
		fmt.Fprintf(w, "%s %2d. %6.2f%%  %s <-> %s\n", marker, i+1, p.Similarity, p.Doc1Name, p.Doc2Name)
	}
}

func RenderPair(w io.Writer, pair models.PairComparison) {
	marker := highlight.ANSIMarker{}

	fmt.Fprintf(w, "\033[33mSimilarity: %.2f%% (%s) | Matches: %d\033[0m\n\n",
		pair.Similarity, batch.RiskLevel(pair.Similarity), len(pair.Matches))

	fmt.Fprintf(w, "\033[32m%s\033[0m\n", pair.Doc1Name)
	fmt.Fprintf(w, "%s\n\n", highlight.Project(highlight.PrepareForDisplay(pair.Doc1Text, previewLength), pair.Matches, marker))

	fmt.Fprintf(w, "\033[32m%s\033[0m\n", pair.Doc2Name)
	fmt.Fprintf(w, "%s\n", highlight.Project(highlight.PrepareForDisplay(pair.Doc2Text, previewLength), pair.Matches, marker))
}

func quit(_ *gocui.Gui, _ *gocui.View) error {
	return gocui.ErrQuit
}
