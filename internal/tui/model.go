package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"selecquest/internal/engine"
	"selecquest/internal/play"
	"selecquest/internal/setting"
	"selecquest/internal/storage"
	"selecquest/internal/ui"
)

const (
	logLines     = 6
	tickInterval = 100 * time.Millisecond
)

type playModel struct {
	ctx    context.Context
	svc    *play.Service
	runner *play.Runner
	gs     *setting.GameSetting

	// rec is only replaced from Update; commands work on copies.
	rec storage.HeroRecord

	width  int
	height int
	tab    int

	task    *engine.Task
	wait    time.Duration
	started time.Time
	now     func() time.Time
	clock   time.Time

	pendingMode *engine.TaskMode
	speed       float64

	log     []string
	lastLog string
	err     error
}

type taskMsg struct {
	task engine.Task
	err  error
}

// doneMsg fires when the task numbered seq has run its duration.
type doneMsg struct{ seq int }

type completedMsg struct {
	rec       storage.HeroRecord
	task      engine.Task
	leveledUp bool
	err       error
}

type tickMsg time.Time

func newPlayModel(ctx context.Context, svc *play.Service, rec storage.HeroRecord) (playModel, error) {
	gs, err := svc.Settings().Get(rec.Hero.GameSettingID)
	if err != nil {
		return playModel{}, err
	}
	return playModel{
		ctx:     ctx,
		svc:     svc,
		runner:  play.NewRunner(svc, nil),
		gs:      gs,
		rec:     rec,
		now:     time.Now,
		speed:   1,
		lastLog: "Loaded.",
	}, nil
}

func (m playModel) Init() tea.Cmd {
	return tea.Batch(m.nextCmd(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m playModel) nextCmd() tea.Cmd {
	rec := m.rec
	return func() tea.Msg {
		task, err := m.svc.Next(&rec)
		return taskMsg{task: task, err: err}
	}
}

func (m playModel) waitCmd(task engine.Task) tea.Cmd {
	seq := task.ResultingHero.TasksCompleted
	return tea.Tick(m.wait, func(time.Time) tea.Msg { return doneMsg{seq: seq} })
}

// completeCmd records task and, when a mode switch is queued, applies it
// before the next task is drawn.
func (m playModel) completeCmd(task engine.Task, mode *engine.TaskMode) tea.Cmd {
	rec := m.rec
	return func() tea.Msg {
		level := rec.Hero.Level
		if err := m.svc.Complete(m.ctx, &rec, task); err != nil {
			return completedMsg{err: err}
		}
		if mode != nil {
			if err := m.svc.SetMode(m.ctx, &rec, *mode); err != nil {
				return completedMsg{err: err}
			}
		}
		return completedMsg{rec: rec, task: task, leveledUp: rec.Hero.Level > level}
	}
}

func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.clock = time.Time(msg)
		return m, tickCmd()
	case taskMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		task := msg.task
		m.task = &task
		m.wait = m.runner.Wait(task)
		m.started = m.now()
		m.clock = m.started
		return m, m.waitCmd(task)
	case doneMsg:
		if m.task == nil || m.task.ResultingHero.TasksCompleted != msg.seq {
			return m, nil
		}
		mode := m.pendingMode
		m.pendingMode = nil
		return m, m.completeCmd(*m.task, mode)
	case completedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rec = msg.rec
		m.task = nil
		entry := msg.task.Description
		if msg.leveledUp {
			entry += " " + ui.BadgeLevelUp
		}
		m.pushLog(entry)
		return m, m.nextCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1", "2", "3":
			mode := engine.TaskMode(msg.String()[0] - '1')
			m.pendingMode = &mode
			m.lastLog = fmt.Sprintf("Switching to %s after this task.", m.modeName(mode))
			return m, nil
		case "tab", "right", "l":
			m.tab = (m.tab + 1) % len(m.gs.GameViewTabDisplayNames)
			return m, nil
		case "shift+tab", "left", "h":
			n := len(m.gs.GameViewTabDisplayNames)
			m.tab = (m.tab + n - 1) % n
			return m, nil
		case "+", "=":
			m.setSpeed(m.speed * 2)
			return m, nil
		case "-", "_":
			m.setSpeed(m.speed / 2)
			return m, nil
		}
	}
	return m, nil
}

func (m *playModel) setSpeed(speed float64) {
	if speed < 0.25 || speed > 64 {
		return
	}
	m.speed = speed
	m.runner.SetSpeed(speed)
	m.lastLog = fmt.Sprintf("Speed x%g (from the next task).", speed)
}

func (m *playModel) pushLog(entry string) {
	m.log = append([]string{entry}, m.log...)
	if len(m.log) > logLines {
		m.log = m.log[:logLines]
	}
}

func (m playModel) modeName(mode engine.TaskMode) string {
	if int(mode) < len(m.gs.TaskModeData) {
		if name := m.gs.TaskModeData[mode].TaskModeActionName; name != "" {
			return name
		}
	}
	return mode.String()
}

func (m playModel) View() string {
	if m.err != nil {
		return ui.Bad.Render("Error: "+m.err.Error()) + "\n\nPress q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 28
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 18 {
			leftW = 18
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}

	return header + "\n\n" + body.String() + footer
}

func (m playModel) renderHeader() string {
	h := m.rec.Hero
	cfg := m.svc.Generator().Config()
	bar := ui.ProgressBar(h.CurrentXP, cfg.XPRequiredForLevel(h.Level), 24)
	return fmt.Sprintf("%s | %s the %s %s | Level %d | XP %s",
		ui.Title.Render("SelecQuest"), h.Name, h.RaceName, h.ClassName, h.Level, bar)
}

func (m playModel) renderSidebar() string {
	h := m.rec.Hero
	lines := []string{ui.H2.Render("Stats")}
	for _, s := range h.Stats {
		lines = append(lines, fmt.Sprintf("- %-6s %3d", s.Name, s.Value))
	}
	lines = append(lines, "", ui.H2.Render("Mode"))
	for mode := engine.ModeLoot; mode < engine.ModeCount; mode++ {
		line := fmt.Sprintf("%d %s", int(mode)+1, ui.ModeText(m.modeName(mode), mode == m.rec.ActiveMode))
		if m.pendingMode != nil && *m.pendingMode == mode && mode != m.rec.ActiveMode {
			line += ui.Muted.Render(" (next)")
		}
		lines = append(lines, line)
	}
	lines = append(lines,
		"",
		ui.H2.Render("Keys"),
		"- 1/2/3: task mode",
		"- tab/←/→: switch view",
		"- +/-: speed",
		"- q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m playModel) renderTabs() string {
	var tabs []string
	for i, name := range m.gs.GameViewTabDisplayNames {
		if i == m.tab {
			tabs = append(tabs, ui.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, ui.Tab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m playModel) renderMain() string {
	out := []string{m.renderTabs(), ""}
	switch m.tab {
	case 0:
		out = append(out, m.heroView()...)
	case 1:
		out = append(out, m.lootView()...)
	case 2:
		out = append(out, m.trialView()...)
	case 3:
		out = append(out, m.questView()...)
	default:
		out = append(out, m.storyView()...)
	}
	return strings.Join(out, "\n")
}

func (m playModel) heroView() []string {
	h := m.rec.Hero
	out := []string{
		ui.LabelValue("Race", h.RaceName),
		ui.LabelValue("Class", h.ClassName),
		ui.LabelValue("Tasks done", h.TasksCompleted),
	}
	for _, at := range h.Abilities {
		out = append(out, "", ui.H2.Render(at.Name))
		if len(at.Received) == 0 {
			out = append(out, ui.Muted.Render("(none yet)"))
		}
		for _, a := range at.Received {
			out = append(out, fmt.Sprintf("- %s %s", a.Name, romanRank(a.Rank)))
		}
	}
	return out
}

func (m playModel) modeHeader(mode engine.TaskMode) []string {
	h := m.rec.Hero
	data := setting.TaskModeData{}
	if int(mode) < len(m.gs.TaskModeData) {
		data = m.gs.TaskModeData[mode]
	}
	limit := [engine.ModeCount]int{h.MaxLootBuildUp, h.MaxTrialBuildUp, h.MaxQuestBuildUp}[mode]
	return []string{
		ui.LabelValue(orDefault(data.CurrencyDisplayName, "Currency"), fmt.Sprintf("%.0f", h.AvailableCurrency(mode))),
		ui.LabelValue(orDefault(data.BuildUpLimitDisplayName, "Capacity"), fmt.Sprintf("%d/%d %s", h.BuildUpCount(mode), limit, ui.ProgressBar(h.BuildUpCount(mode), limit, 12))),
		"",
		ui.H2.Render(orDefault(data.BuildUpRewardDisplayName, "Build-up")),
	}
}

func (m playModel) lootView() []string {
	h := m.rec.Hero
	out := []string{ui.H2.Render(m.majorRewardName(engine.ModeLoot, 0))}
	if len(h.LootMajorRewards) == 0 {
		out = append(out, ui.Muted.Render("(nothing equipped)"))
	}
	for _, r := range h.LootMajorRewards {
		out = append(out, fmt.Sprintf("- %s: %s", r.Type, ui.Gold.Render(r.Description)))
	}
	out = append(out, "")
	out = append(out, m.modeHeader(engine.ModeLoot)...)
	out = append(out, buildUpLines(h.LootBuildUpRewards)...)
	return out
}

func (m playModel) trialView() []string {
	h := m.rec.Hero
	out := []string{ui.H2.Render(m.majorRewardName(engine.ModeTrial, 0))}
	out = append(out, majorRewardLines(h.TrialMajorRewards)...)
	out = append(out, "", ui.LabelValue("Class", h.CompetitiveClass))
	for _, r := range h.TrialRankings {
		out = append(out, fmt.Sprintf("- %s rank #%d", r.TrialType, r.CurrentRanking))
	}
	out = append(out, "")
	out = append(out, m.modeHeader(engine.ModeTrial)...)
	out = append(out, buildUpLines(h.TrialBuildUpRewards)...)
	return out
}

func (m playModel) questView() []string {
	h := m.rec.Hero
	out := []string{ui.H2.Render("Rewards")}
	out = append(out, majorRewardLines(h.QuestMajorRewards)...)
	out = append(out, "")
	out = append(out, m.modeHeader(engine.ModeQuest)...)
	if len(h.QuestBuildUpRewards) == 0 {
		out = append(out, ui.Muted.Render("(no leads)"))
	}
	for _, lead := range h.QuestBuildUpRewards {
		out = append(out, "- "+lead.QuestlogName)
	}
	return out
}

func (m playModel) storyView() []string {
	h := m.rec.Hero
	out := []string{
		ui.LabelValue("Now", h.CurrentAdventure.Name),
		fmt.Sprintf("%s %d/%d", ui.ProgressBar(h.AdventureProgress, h.CurrentAdventure.ProgressRequired, 24), h.AdventureProgress, h.CurrentAdventure.ProgressRequired),
		"",
		ui.H2.Render("Completed"),
	}
	if len(h.CompletedAdventures) == 0 {
		out = append(out, ui.Muted.Render("(none yet)"))
	}
	for _, name := range h.CompletedAdventures {
		out = append(out, fmt.Sprintf("%s %s", ui.IconDone, name))
	}
	return out
}

func (m playModel) majorRewardName(mode engine.TaskMode, i int) string {
	if int(mode) < len(m.gs.TaskModeData) {
		names := m.gs.TaskModeData[mode].MajorRewardDisplayName
		if i < len(names) {
			return names[i]
		}
	}
	return "Rewards"
}

func (m playModel) renderFooter() string {
	var out []string
	if m.task == nil {
		out = append(out, ui.Muted.Render("…"))
	} else {
		elapsed := m.clock.Sub(m.started)
		out = append(out, fmt.Sprintf("%s %s %s", ui.IconBolt, m.task.Description,
			ui.ProgressBar(int(elapsed.Milliseconds()), int(m.wait.Milliseconds()), 30)))
	}
	for _, entry := range m.log {
		out = append(out, ui.Muted.Render("  "+entry))
	}
	out = append(out, "", m.lastLog)
	return strings.Join(out, "\n")
}

func buildUpLines(list []engine.BuildUpReward) []string {
	if len(list) == 0 {
		return []string{ui.Muted.Render("(empty)")}
	}
	out := make([]string, 0, len(list))
	for _, r := range list {
		name := r.Name
		if r.Quantity != 1 && r.NamePlural != "" {
			name = r.NamePlural
		}
		out = append(out, fmt.Sprintf("- %d %s", r.Quantity, name))
	}
	return out
}

func majorRewardLines(list []engine.MajorReward) []string {
	if len(list) == 0 {
		return []string{ui.Muted.Render("(none yet)")}
	}
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, fmt.Sprintf("- %s: %s", r.Kind, ui.Gold.Render(r.Description)))
	}
	return out
}

func romanRank(n int) string {
	numerals := []struct {
		v int
		s string
	}{{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"}}
	var b strings.Builder
	for _, num := range numerals {
		for n >= num.v {
			b.WriteString(num.s)
			n -= num.v
		}
	}
	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
