// Package tui is the terminal dashboard: a catalog of agents, a panel to run
// one agent, a form to add custom agents, the team workflow panel and a
// notification stack.
//
// Every remote call goes through the core controllers inside a tea.Cmd, so
// the event loop never blocks. Session state is read back through
// Snapshot on each render.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/soyeahso/dugout/internal/catalog"
	"github.com/soyeahso/dugout/internal/domain"
	"github.com/soyeahso/dugout/internal/execution"
	"github.com/soyeahso/dugout/internal/logging"
	"github.com/soyeahso/dugout/internal/notify"
	"github.com/soyeahso/dugout/internal/workflow"
)

// pruneInterval is how often expired notifications are dropped.
const pruneInterval = 250 * time.Millisecond

type screen int

const (
	screenCatalog screen = iota
	screenAgent
	screenAdd
	screenWorkflow
)

// Deps are the core components the dashboard drives.
type Deps struct {
	Catalog   *catalog.Store
	Execution *execution.Controller
	Workflow  *workflow.Controller
	Notes     *notify.Dispatcher
	Log       *logging.Logger
}

// --- Bubbletea messages ---

type catalogLoadedMsg struct{ err error }

type agentAddedMsg struct {
	agent domain.Agent
	err   error
}

type agentRemovedMsg struct {
	id  string
	err error
}

type execDoneMsg struct {
	session *execution.Session
	err     error
}

type workflowDoneMsg struct {
	session *workflow.Session
	err     error
}

type pruneMsg time.Time

// Model is the bubbletea model for the dashboard.
type Model struct {
	deps Deps
	ctx  context.Context
	log  *logging.Logger

	screen  screen
	loading bool
	cursor  int
	confirm string // id of the custom agent awaiting delete confirmation

	agent agentPanel
	add   addForm
	flow  workflowPanel

	spinner  spinner.Model
	inflight int

	width  int
	height int
}

// New creates the dashboard model. ctx bounds every remote call.
func New(ctx context.Context, deps Deps) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = dimStyle

	log := deps.Log
	if log == nil {
		log = logging.Nop()
	}

	return Model{
		deps:    deps,
		ctx:     ctx,
		log:     log.Sub("tui"),
		loading: !deps.Catalog.Loaded(),
		spinner: sp,
	}
}

// Run starts the dashboard and blocks until the user quits.
func Run(ctx context.Context, deps Deps) error {
	p := tea.NewProgram(New(ctx, deps), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init is called once when the program starts.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{pruneTick()}
	if m.loading {
		cmds = append(cmds, m.loadCatalog(), m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func pruneTick() tea.Cmd {
	return tea.Tick(pruneInterval, func(t time.Time) tea.Msg { return pruneMsg(t) })
}

// busy reports whether a spinner should keep turning.
func (m Model) busy() bool {
	return m.loading || m.inflight > 0
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pruneMsg:
		m.deps.Notes.Prune(time.Time(msg))
		return m, pruneTick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.busy() {
			return m, cmd
		}
		return m, nil

	case catalogLoadedMsg:
		m.loading = false
		m.clampCursor()
		return m, nil

	case agentAddedMsg:
		m.inflight--
		return m.addFinished(msg)

	case agentRemovedMsg:
		m.inflight--
		m.clampCursor()
		return m, nil

	case execDoneMsg:
		m.inflight--
		if msg.err != nil && !errors.Is(msg.err, execution.ErrStale) {
			m.log.Debug().Err(msg.err).Msg("agent run finished with error")
		}
		return m, nil

	case workflowDoneMsg:
		m.inflight--
		if msg.err != nil && !errors.Is(msg.err, workflow.ErrStale) {
			m.log.Debug().Err(msg.err).Msg("workflow finished with error")
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.closeSessions()
			return m, tea.Quit
		}
		if msg.String() == "ctrl+n" {
			m.dismissNewest()
			return m, nil
		}
		switch m.screen {
		case screenAgent:
			return m.updateAgent(msg)
		case screenAdd:
			return m.updateAdd(msg)
		case screenWorkflow:
			return m.updateWorkflow(msg)
		default:
			return m.updateCatalog(msg)
		}
	}

	return m.forwardToInputs(msg)
}

// forwardToInputs passes non-key messages such as cursor blinks to the
// focused text input.
func (m Model) forwardToInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenAgent:
		m.agent.input, cmd = m.agent.input.Update(msg)
	case screenAdd:
		cmd = m.add.updateFocused(msg)
	case screenWorkflow:
		cmd = m.flow.updateFocused(msg)
	}
	return m, cmd
}

func (m *Model) dismissNewest() {
	visible := m.deps.Notes.Visible()
	if len(visible) > 0 {
		m.deps.Notes.Dismiss(visible[len(visible)-1].ID)
	}
}

func (m *Model) closeSessions() {
	if m.agent.session != nil {
		m.deps.Execution.Close(m.agent.session)
	}
	if m.flow.session != nil {
		m.deps.Workflow.Close(m.flow.session)
	}
}

// dispatch runs cmd off the event loop and keeps the spinner going.
func (m Model) dispatch(cmd tea.Cmd) (Model, tea.Cmd) {
	m.inflight++
	return m, tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) loadCatalog() tea.Cmd {
	store, ctx := m.deps.Catalog, m.ctx
	return func() tea.Msg {
		return catalogLoadedMsg{err: store.Load(ctx)}
	}
}

// View renders the dashboard.
func (m Model) View() string {
	var body string
	switch m.screen {
	case screenAgent:
		body = m.viewAgent()
	case screenAdd:
		body = m.viewAdd()
	case screenWorkflow:
		body = m.viewWorkflow()
	default:
		body = m.viewCatalog()
	}
	if notes := m.viewNotifications(); notes != "" {
		body += "\n" + notes
	}
	return body
}
