// Package tui renders the interactive focus timer. The model is a thin
// view over the session tracker: every state change goes through the
// tracker, and the timer itself only displays what the session records.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/dtran/taskpulse/internal/abandon"
	"github.com/dtran/taskpulse/internal/model"
	"github.com/dtran/taskpulse/internal/session"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type keyMap struct {
	Pause   key.Binding
	Stop    key.Binding
	Abandon key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
	Stop:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	Abandon: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "abandon")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model drives one focus session from start to finish.
type Model struct {
	tracker  *session.Tracker
	detector *abandon.Detector

	task *model.Task
	sess *model.FocusSession

	paused     bool
	elapsedSec int
	finished   bool
	final      string

	form       *huh.Form
	formActive bool
	confirm    bool

	progress progress.Model
	width    int
	err      error
}

// NewModel starts a session against the task and returns the timer
// bound to it. The session is live once this returns, so the caller
// must run the program to completion or the session stays open.
func NewModel(ctx context.Context, tracker *session.Tracker, detector *abandon.Detector, task *model.Task, durationMinutes int) (*Model, error) {
	sess, err := tracker.Start(ctx, task.ID, task.UserID, durationMinutes)
	if err != nil {
		return nil, err
	}
	return &Model{
		tracker:  tracker,
		detector: detector,
		task:     task,
		sess:     sess,
		progress: progress.New(progress.WithDefaultGradient()),
		width:    60,
	}, nil
}

func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.formActive {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 12
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case tickMsg:
		if m.finished {
			return m, nil
		}
		if !m.paused {
			m.elapsedSec++
			// One heartbeat per minute keeps last_active_at fresh
			// without hammering the store every second.
			if m.elapsedSec%60 == 0 {
				if err := m.tracker.Heartbeat(context.Background(), m.sess.ID); err != nil {
					m.err = err
				}
			}
			if m.elapsedSec >= m.totalSec() {
				return m.openStopForm()
			}
		}
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Pause):
			return m.togglePause()
		case key.Matches(msg, keys.Stop):
			return m.openStopForm()
		case key.Matches(msg, keys.Abandon):
			return m.abandon()
		case key.Matches(msg, keys.Quit):
			return m.stop(false)
		}
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m.stop(m.confirm)
	}
	if m.form.State == huh.StateAborted {
		m.formActive = false
		return m, tickCmd()
	}
	return m, cmd
}

func (m *Model) togglePause() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	var (
		sess *model.FocusSession
		err  error
	)
	if m.paused {
		sess, err = m.tracker.Resume(ctx, m.sess.ID)
	} else {
		sess, err = m.tracker.Pause(ctx, m.sess.ID)
	}
	if err != nil {
		m.err = err
		return m, tickCmd()
	}
	m.sess = sess
	m.paused = !m.paused
	return m, tickCmd()
}

func (m *Model) openStopForm() (tea.Model, tea.Cmd) {
	m.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Mark task as done?").
				Description(m.task.Title).
				Affirmative("Done").
				Negative("Not yet").
				Value(&m.confirm),
		),
	).WithShowHelp(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m *Model) stop(completeTask bool) (tea.Model, tea.Cmd) {
	sess, err := m.tracker.Stop(context.Background(), m.sess.ID, completeTask)
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.sess = sess
	m.finished = true
	if completeTask {
		m.final = fmt.Sprintf("Task completed, %d min focused.", sess.AccumulatedMinutes)
	} else {
		m.final = fmt.Sprintf("Session ended, %d min focused.", sess.AccumulatedMinutes)
	}
	return m, tea.Quit
}

func (m *Model) abandon() (tea.Model, tea.Cmd) {
	_, err := m.detector.MarkAbandoned(context.Background(), m.task.ID, m.task.UserID, "abandoned from focus timer")
	if err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.finished = true
	m.final = "Task abandoned. It is back in pending."
	return m, tea.Quit
}

func (m *Model) totalSec() int {
	return m.sess.DurationMinutes * 60
}

func (m *Model) View() string {
	if m.finished {
		out := doneStyle.Render(m.final)
		if m.err != nil {
			out += "\n" + mutedStyle.Render("error: "+m.err.Error())
		}
		return out + "\n"
	}

	if m.formActive {
		return panelStyle.Render(m.form.View())
	}

	remaining := m.totalSec() - m.elapsedSec
	if remaining < 0 {
		remaining = 0
	}
	clock := fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)

	header := titleStyle.Render("Focus") + "  " + m.task.Title
	timer := timerStyle.Render(clock)
	if m.paused {
		timer += "  " + pausedStyle.Render("PAUSED")
	}

	ratio := float64(m.elapsedSec) / float64(m.totalSec())
	if ratio > 1 {
		ratio = 1
	}
	bar := m.progress.ViewAs(ratio)

	help := mutedStyle.Render("p pause  s stop  a abandon  q quit")

	body := lipgloss.JoinVertical(lipgloss.Left, header, "", timer, "", bar, "", help)
	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, mutedStyle.Render("error: "+m.err.Error()))
	}
	return panelStyle.Render(body)
}
