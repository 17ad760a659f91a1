package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tui "github.com/charmbracelet/bubbletea"
	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/keilerkonzept/abusewatch/internal/classifier"
	"github.com/keilerkonzept/abusewatch/internal/config"
	"github.com/keilerkonzept/abusewatch/internal/export"
	"github.com/keilerkonzept/abusewatch/internal/monitor"
	"github.com/keilerkonzept/abusewatch/internal/source"
	"github.com/keilerkonzept/abusewatch/internal/telemetry"
)

const (
	thresholdStep = 0.05

	headerLines = 1
	inputLines  = 3
	resultLines = 7
	statsLines  = 6
	topPhrases  = 5
)

var (
	selectedColor = styles.AdaptiveColor{Light: "0", Dark: "9"}
	borderColor   = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	safeColor     = styles.AdaptiveColor{Light: "2", Dark: "10"}
	suspectColor  = styles.AdaptiveColor{Light: "3", Dark: "11"}
	toxicColor    = styles.AdaptiveColor{Light: "1", Dark: "9"}
	selectedFg    = styles.NewStyle().Foreground(selectedColor)
	borderFg      = styles.NewStyle().Foreground(borderColor)
	errStyle      = styles.NewStyle().Foreground(toxicColor)
	plotStyle     = styles.NewStyle().
			BorderStyle(styles.NormalBorder()).
			Foreground(borderColor).
			BorderForeground(borderColor)
)

func bandStyle(b telemetry.Band) styles.Style {
	switch b {
	case telemetry.BandToxic:
		return styles.NewStyle().Foreground(toxicColor).Bold(true)
	case telemetry.BandSuspect:
		return styles.NewStyle().Foreground(suspectColor)
	default:
		return styles.NewStyle().Foreground(safeColor)
	}
}

type model struct {
	cfg       config.Config
	sessionID string

	width, height  int
	leftPaneWidth  int
	rightPaneWidth int

	mon    *monitor.Monitor
	closed bool

	input     textarea.Model
	lastInput string

	list      list.Model
	listStyle styles.Style
	help      help.Model
	spinner   spinner.Model

	scorePlot     *plot.Canvas
	latencyPlot   *plot.Canvas
	scoreHeight   int
	latencyHeight int
	scoreData     [][]float64
	latencyData   [][]float64

	metrics *clientMetrics
	status  string
	err     error
}

func newModel(cfg config.Config, mon *monitor.Monitor, sessionID string) *model {
	const (
		defaultWidth  = 80
		defaultHeight = 20
	)

	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = styles.NewStyle().
		Border(styles.NormalBorder(), false, false, false, true).
		BorderForeground(borderColor).
		Foreground(selectedColor).
		Padding(0, 0, 0, 1)
	d.Styles.SelectedDesc = d.Styles.SelectedTitle.
		Foreground(selectedColor)
	d.ShowDescription = true

	l := list.New(make([]list.Item, 0), d, defaultWidth/2-2, defaultHeight)
	l.Styles.NoItems = l.Styles.NoItems.
		Padding(0, 2)
	// Typing belongs to the text input.
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)

	in := textarea.New()
	in.Placeholder = "Type a message to analyze..."
	in.ShowLineNumbers = false
	in.SetHeight(inputLines)
	in.SetWidth(defaultWidth / 2)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(selectedFg))

	scorePlot := plot.NewCanvas(defaultWidth/2, defaultHeight/2)
	scorePlot.NumDataPoints = telemetry.HistoryCapacity
	scorePlot.ShowAxis = false
	scorePlot.LineColors = make([]plot.Color, 2)

	latencyPlot := plot.NewCanvas(defaultWidth/2, defaultHeight/2)
	latencyPlot.NumDataPoints = telemetry.LatencyCapacity
	latencyPlot.ShowAxis = false
	latencyPlot.LineColors = make([]plot.Color, 1)

	metrics := newClientMetrics(statsWindow)
	metrics.setEnabled(cfg.UI.Stats)

	m := &model{
		cfg:           cfg,
		sessionID:     sessionID,
		mon:           mon,
		input:         in,
		list:          l,
		help:          help.New(),
		spinner:       sp,
		scorePlot:     &scorePlot,
		latencyPlot:   &latencyPlot,
		scoreHeight:   defaultHeight / 2,
		latencyHeight: defaultHeight / 2,
		scoreData:     [][]float64{make([]float64, telemetry.HistoryCapacity), make([]float64, telemetry.HistoryCapacity)},
		latencyData:   [][]float64{make([]float64, telemetry.LatencyCapacity)},
		metrics:       metrics,
	}
	m.leftPaneWidth, m.rightPaneWidth = computePaneWidths(defaultWidth, cfg.UI.ViewSplit)
	if mon.Mode() == source.ModeText {
		m.input.Focus()
	}
	return m
}

type eventMsg monitor.Event

type monitorClosedMsg struct{}

// waitForEvent delivers the next monitor event to the update loop.
func waitForEvent(events <-chan monitor.Event) tui.Cmd {
	return func() tui.Msg {
		e, ok := <-events
		if !ok {
			return monitorClosedMsg{}
		}
		return eventMsg(e)
	}
}

type PlotTickMsg time.Time

func doPlotTick(fps int) tui.Cmd {
	return tui.Every(time.Second/time.Duration(fps), func(t time.Time) tui.Msg {
		return PlotTickMsg(t)
	})
}

type statusMsg string

type errMsg struct{ err error }

func (m *model) Init() tui.Cmd {
	return tui.Batch(waitForEvent(m.mon.Events()), doPlotTick(m.cfg.UI.PlotFPS), textarea.Blink, m.spinner.Tick)
}

func (m *model) Update(msg tui.Msg) (tui.Model, tui.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.handleEvent(monitor.Event(msg))
		cmdList := m.updateList()
		return m, tui.Batch(cmdList, waitForEvent(m.mon.Events()))
	case monitorClosedMsg:
		m.closed = true
		return m, nil
	case PlotTickMsg:
		m.updatePlots()
		return m, doPlotTick(m.cfg.UI.PlotFPS)
	case spinner.TickMsg:
		var cmd tui.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case statusMsg:
		m.status, m.err = string(msg), nil
		return m, nil
	case errMsg:
		m.err = msg.err
		return m, nil
	case tui.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tui.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tui.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, keys.Stream):
			return m, m.toggleStream()
		case key.Matches(msg, keys.ThresholdUp):
			m.mon.SetThreshold(m.mon.Threshold() + thresholdStep)
			return m, nil
		case key.Matches(msg, keys.ThresholdDown):
			m.mon.SetThreshold(m.mon.Threshold() - thresholdStep)
			return m, nil
		case key.Matches(msg, keys.Clear):
			m.input.Reset()
			m.lastInput = ""
			m.mon.Clear()
			return m, nil
		case key.Matches(msg, keys.Reset):
			m.mon.Reset()
			return m, m.updateList()
		case key.Matches(msg, keys.ExportCSV):
			return m, m.exportSession("csv")
		case key.Matches(msg, keys.ExportXLSX):
			return m, m.exportSession("xlsx")
		case key.Matches(msg, keys.Up):
			m.list.CursorUp()
			return m, nil
		case key.Matches(msg, keys.Down):
			m.list.CursorDown()
			return m, nil
		}
	}
	if m.mon.Mode() != source.ModeText {
		return m, nil
	}
	var cmd tui.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.lastInput {
		m.lastInput = v
		m.mon.Edit(v)
	}
	return m, cmd
}

func (m *model) handleEvent(e monitor.Event) {
	switch e.Kind {
	case monitor.EventResult:
		m.metrics.observeResponse(time.Now(), e.RoundTrip, true)
	case monitor.EventFailed:
		// The last result stays on screen; failures only show in the stats.
		m.metrics.observeResponse(time.Now(), e.RoundTrip, false)
	case monitor.EventChat:
		m.metrics.observeChat()
	case monitor.EventReset:
		m.status = "session reset"
	}
}

func (m *model) toggleStream() tui.Cmd {
	if m.mon.Mode() == source.ModeStream {
		m.mon.StopStream()
		// Continue from the last streamed message.
		m.lastInput = m.mon.Text()
		m.input.SetValue(m.lastInput)
		m.status = "stream stopped"
		return m.input.Focus()
	}
	m.mon.StartStream()
	m.input.Blur()
	m.status = "stream started"
	return nil
}

func (m *model) exportSession(format string) tui.Cmd {
	entries := m.mon.Aggregator().Session()
	if len(entries) == 0 {
		m.status = "nothing to export"
		return nil
	}
	dir, id := m.cfg.UI.ExportDir, m.sessionID
	return func() tui.Msg {
		path, err := writeSessionExport(dir, id, format, entries, time.Now())
		if err != nil {
			return errMsg{fmt.Errorf("export: %w", err)}
		}
		return statusMsg("exported " + path)
	}
}

func writeSessionExport(dir, sessionID, format string, entries []telemetry.SessionEntry, now time.Time) (string, error) {
	path := filepath.Join(dir, export.FileName("session", sessionID, now, format))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if format == "xlsx" {
		err = export.WriteSessionXLSX(f, entries)
	} else {
		err = export.WriteSessionCSV(f, entries)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return path, err
}

func (m *model) resize(width, height int) {
	m.width, m.height = width, height
	m.leftPaneWidth, m.rightPaneWidth = computePaneWidths(m.width, m.cfg.UI.ViewSplit)

	bottomLines := 2 // status + help
	if m.cfg.UI.Stats {
		bottomLines += statsLines
	}
	available := max(1, m.height-bottomLines)
	leftW := max(1, m.leftWidth())
	rightW := max(1, m.rightWidth())

	m.input.SetWidth(leftW)
	m.input.SetHeight(inputLines)

	listHeight := max(1, available-headerLines-inputLines-resultLines)
	m.list.SetSize(leftW, listHeight)
	m.listStyle = styles.NewStyle().Width(leftW).Height(listHeight)

	// Each plot is a canvas plus one label line inside a border.
	plotsHeight := max(2, available-6)
	latencyHeight := max(1, plotsHeight/3)
	scoreHeight := max(1, plotsHeight-latencyHeight)
	plotWidth := max(1, rightW-2)
	m.scorePlot = resizePlot(m.scorePlot, plotWidth, scoreHeight)
	m.latencyPlot = resizePlot(m.latencyPlot, plotWidth, latencyHeight)
	m.scoreHeight, m.latencyHeight = scoreHeight, latencyHeight
}

func resizePlot(old *plot.Canvas, w, h int) *plot.Canvas {
	p := plot.NewCanvas(w, h)
	p.NumDataPoints = old.NumDataPoints
	p.ShowAxis = old.ShowAxis
	p.LineColors = old.LineColors
	return &p
}

func (m *model) leftWidth() int {
	if m.leftPaneWidth > 0 {
		return m.leftPaneWidth
	}
	left, _ := computePaneWidths(m.width, m.cfg.UI.ViewSplit)
	return left
}

func (m *model) rightWidth() int {
	if m.rightPaneWidth > 0 {
		return m.rightPaneWidth
	}
	_, right := computePaneWidths(m.width, m.cfg.UI.ViewSplit)
	return right
}

func (m *model) updateList() tui.Cmd {
	entries := m.mon.Aggregator().Session()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = listItem{SessionEntry: e}
	}
	return m.list.SetItems(items)
}

func (m *model) updatePlots() {
	var highlight, dim plot.Color
	if styles.DefaultRenderer().HasDarkBackground() {
		highlight, dim = plot.Red, plot.DimGray
	} else {
		highlight, dim = plot.Black, plot.LightGray
	}

	snap := m.mon.Aggregator().Snapshot()

	scores, limit := m.scoreData[0], m.scoreData[1]
	clear(scores)
	for i, p := range snap.History {
		scores[len(scores)-len(snap.History)+i] = p.Score
	}
	threshold := m.mon.Threshold() * 100
	for i := range limit {
		limit[i] = threshold
	}
	m.scorePlot.LineColors[0], m.scorePlot.LineColors[1] = dim, highlight
	// Threshold first so the score line draws on top.
	m.scorePlot.Fill([][]float64{limit, scores})

	latencies := m.latencyData[0]
	clear(latencies)
	for i, v := range snap.Latencies {
		latencies[len(latencies)-len(snap.Latencies)+i] = v
	}
	m.latencyPlot.LineColors[0] = highlight
	m.latencyPlot.Fill(m.latencyData)
}

func (m *model) View() string {
	start := time.Now()
	defer func() { m.metrics.observeRender(time.Since(start)) }()

	leftW := m.leftWidth()
	left := styles.NewStyle().Width(leftW).Render(styles.JoinVertical(styles.Left,
		m.headerView(),
		m.inputView(leftW),
		m.resultView(leftW),
		m.listStyle.Render(m.list.View()),
	))

	snap := m.mon.Aggregator().Snapshot()
	stats := snap.Stats()
	w := max(0, m.rightWidth()-2)
	scoreLabel := spread(w, "RISK (last "+fmt.Sprint(len(snap.History))+")",
		fmt.Sprintf("mean %.1f%%", stats.MeanRisk),
		borderFg.Render(fmt.Sprintf("threshold %.0f%%", m.mon.Threshold()*100)))
	latencyLabel := spread(w, "LATENCY ms",
		fmt.Sprintf("mean %.0f", stats.MeanLatency),
		borderFg.Render(fmt.Sprintf("min %.0f max %.0f", stats.MinLatency, stats.MaxLatency)))
	right := styles.JoinVertical(styles.Left,
		plotStyle.Render(styles.JoinVertical(styles.Top, canvasView(m.scorePlot, w, m.scoreHeight), scoreLabel)),
		plotStyle.Render(styles.JoinVertical(styles.Top, canvasView(m.latencyPlot, w, m.latencyHeight), latencyLabel)),
	)
	view := styles.JoinHorizontal(styles.Top, left, right)

	parts := []string{view}
	if m.cfg.UI.Stats {
		parts = append(parts, m.statsView(stats))
	}
	switch {
	case m.err != nil:
		parts = append(parts, errStyle.Render("ERROR: "+m.err.Error()))
	case m.closed:
		parts = append(parts, errStyle.Render("monitor stopped"))
	default:
		parts = append(parts, borderFg.Render(m.status))
	}
	parts = append(parts, m.help.View(keys))
	return styles.JoinVertical(styles.Left, parts...)
}

func (m *model) headerView() string {
	mode := "TEXT"
	if m.mon.Mode() == source.ModeStream {
		mode = "STREAM"
	}
	busy := ""
	if m.mon.Busy() {
		busy = " " + m.spinner.View() + " analyzing"
	}
	return selectedFg.Render("ABUSEWATCH") + " " + borderFg.Render(mode) +
		fmt.Sprintf("  threshold %.2f", m.mon.Threshold()) + busy
}

func (m *model) inputView(width int) string {
	if m.mon.Mode() == source.ModeText {
		return m.input.View()
	}
	lines := chatLines(m.mon.Simulator().Log(), inputLines, width)
	return styles.NewStyle().Height(inputLines).Render(strings.Join(lines, "\n"))
}

func (m *model) resultView(width int) string {
	box := styles.NewStyle().Width(width).Height(resultLines)
	res, ok := m.mon.Current()
	if !ok {
		return box.Render(borderFg.Render("no result"))
	}
	band := telemetry.BandOf(res.RiskScore)
	verdict := "SAFE"
	if res.IsToxic(m.mon.Threshold()) {
		verdict = "TOXIC"
	}
	sig := telemetry.TopSignal(res.RiskScore, res.Labels)
	top := "safe"
	if !sig.Safe {
		top = fmt.Sprintf("%s %.0f%%", sig.Label, sig.Probability*100)
	}
	lines := []string{
		bandStyle(band).Render(fmt.Sprintf("%.1f%% %s", res.RiskScore, verdict)) +
			borderFg.Render(fmt.Sprintf("  %s  top: %s  %.0fms", band, top, res.ProcessingTimeMs)),
	}
	barWidth := max(1, width-len("Hate Speech ")-5)
	for _, label := range classifier.Labels {
		p := res.Labels[label]
		lines = append(lines, fmt.Sprintf("%-11s %s %3.0f%%", label, renderBar(p, barWidth), p*100))
	}
	if len(res.Highlights) > 0 {
		lines = append(lines, truncate("flagged: "+strings.Join(res.Highlights, ", "), width))
	}
	return box.Render(strings.Join(lines, "\n"))
}

func (m *model) statsView(stats telemetry.Stats) string {
	snap := m.metrics.snapshot()
	phrases := "-"
	if t := m.mon.Signals(); t != nil {
		top := t.Top(time.Now())
		if len(top) > topPhrases {
			top = top[:topPhrases]
		}
		parts := make([]string, len(top))
		for i, pc := range top {
			parts[i] = fmt.Sprintf("%s (%d)", pc.Phrase, pc.Count)
		}
		if len(parts) > 0 {
			phrases = strings.Join(parts, ", ")
		}
	}
	d := stats.Distribution
	lines := []string{
		"SESSION STATS",
		fmt.Sprintf("analyzed: %d  toxic: %d (%.0f%%)  safe: %d  superseded: %d",
			stats.TotalAnalyzed, stats.ToxicCount, stats.ToxicRate, stats.SafeCount, m.mon.Stale()),
		fmt.Sprintf("mean risk: %.1f%%  distribution: safe %d / suspect %d / toxic %d",
			stats.MeanRisk, d.Safe, d.Suspect, d.Toxic),
		fmt.Sprintf("server latency: mean %.1fms  min %.1fms  max %.1fms",
			stats.MeanLatency, stats.MinLatency, stats.MaxLatency),
		fmt.Sprintf("round trip: last %s  avg %s  max %s  failures: %d  rate: %.1f/min  render: %s",
			formatMetricDuration(snap.roundTrip.last), formatMetricDuration(snap.roundTrip.avg),
			formatMetricDuration(snap.roundTrip.max), snap.failures, snap.perMinute,
			formatMetricDuration(snap.renderCost.avg)),
		fmt.Sprintf("top phrases: %s", phrases),
	}
	return errStyle.Render(strings.Join(lines, "\n"))
}

// canvasView renders c, or blank lines while it has nothing to draw.
func canvasView(c *plot.Canvas, width, height int) string {
	if s := c.String(); s != "" {
		return s
	}
	return emptyPlot(width, height)
}

func emptyPlot(width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	line := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// spread lays out left, middle and right across width, dropping the
// outer labels when they do not fit.
func spread(width int, left, middle, right string) string {
	lw, mw, rw := styles.Width(left), styles.Width(middle), styles.Width(right)
	if width < lw+mw+rw+2 {
		if width < mw {
			return ""
		}
		return middle
	}
	space := width - lw - mw - rw
	leftGap := space / 2
	return left + strings.Repeat(" ", leftGap) + middle + strings.Repeat(" ", space-leftGap) + right
}

func renderBar(p float64, width int) string {
	if width < 1 {
		return ""
	}
	p = min(1, max(0, p))
	filled := int(math.Round(p * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func chatLines(log []source.ChatMessage, n, width int) []string {
	if len(log) > n {
		log = log[len(log)-n:]
	}
	lines := make([]string, 0, len(log))
	for _, msg := range log {
		lines = append(lines, truncate(msg.User+": "+msg.Text, width))
	}
	return lines
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func formatMetricDuration(d time.Duration) string {
	if d <= 0 {
		return "0.0ms"
	}
	return fmt.Sprintf("%.1fms", float64(d)/float64(time.Millisecond))
}

func computePaneWidths(totalWidth int, splitPercent int) (left, right int) {
	if totalWidth <= 1 {
		return 1, 1
	}
	left = totalWidth * splitPercent / 100
	left = min(max(left, 1), totalWidth-1)
	right = totalWidth - left

	// Keep panes readable when the terminal is wide enough.
	const minPane = 24
	if totalWidth >= minPane*2 {
		if left < minPane {
			left = minPane
			right = totalWidth - left
		}
		if right < minPane {
			right = minPane
			left = totalWidth - right
		}
	}
	return max(left, 1), max(right, 1)
}

type listItem struct {
	telemetry.SessionEntry
}

func (i listItem) Title() string {
	band := telemetry.BandOf(i.Score)
	return fmt.Sprintf("%s %s", i.Timestamp, bandStyle(band).Render(fmt.Sprintf("%5.1f%% %s", i.Score, band)))
}
func (i listItem) Description() string { return i.TextPreview }
func (i listItem) FilterValue() string { return i.TextPreview }

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Stream, k.ThresholdUp, k.ThresholdDown, k.Clear, k.Reset, k.ExportCSV, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Help},
		{k.Stream, k.Clear, k.Reset},
		{k.ThresholdUp, k.ThresholdDown},
		{k.ExportCSV, k.ExportXLSX},
		{k.Up, k.Down},
	}
}

type keyMap struct {
	Stream        key.Binding
	ThresholdUp   key.Binding
	ThresholdDown key.Binding
	Clear         key.Binding
	Reset         key.Binding
	ExportCSV     key.Binding
	ExportXLSX    key.Binding
	Up            key.Binding
	Down          key.Binding
	Help          key.Binding
	Quit          key.Binding
}

// Plain letters go to the text input, so every action sits on a modifier.
var keys = keyMap{
	Stream: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "stream"),
	),
	ThresholdUp: key.NewBinding(
		key.WithKeys("ctrl+up", "pgup"),
		key.WithHelp("pgup", "threshold +"),
	),
	ThresholdDown: key.NewBinding(
		key.WithKeys("ctrl+down", "pgdown"),
		key.WithHelp("pgdn", "threshold -"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset"),
	),
	ExportCSV: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "export csv"),
	),
	ExportXLSX: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "export xlsx"),
	),
	Up: key.NewBinding(
		key.WithKeys("alt+up"),
		key.WithHelp("alt+↑", "newer"),
	),
	Down: key.NewBinding(
		key.WithKeys("alt+down"),
		key.WithHelp("alt+↓", "older"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}
