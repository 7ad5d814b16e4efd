// Package monitor renders a live device-status view in the terminal,
// refreshing the health endpoint on a fixed cadence until the user quits.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibetools/t8ctl/internal/t8"
)

// StatusFetcher is the slice of the client the monitor needs.
type StatusFetcher interface {
	FetchStatus(ctx context.Context) (*t8.DeviceStatus, error)
}

// Options configure the monitor view.
type Options struct {
	Client    StatusFetcher
	Host      string
	PollEvery time.Duration
}

const defaultPollInterval = 2 * time.Second

// Run blocks until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.PollEvery <= 0 {
		opts.PollEvery = defaultPollInterval
	}
	program := tea.NewProgram(newModel(opts), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type statusMsg struct {
	status *t8.DeviceStatus
	err    error
}

type tickMsg time.Time

type model struct {
	opts    Options
	spinner spinner.Model
	status  *t8.DeviceStatus
	err     error
	fetched time.Time
	loaded  bool
}

func newModel(opts Options) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return model{opts: opts, spinner: sp}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m model) fetch() tea.Cmd {
	client := m.opts.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		status, err := client.FetchStatus(ctx)
		return statusMsg{status: status, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case statusMsg:
		m.loaded = true
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.status
			m.fetched = time.Now()
		}
		return m, tea.Tick(m.opts.PollEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
	case tickMsg:
		return m, m.fetch()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Faint(true).Width(14)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	footStyle  = lipgloss.NewStyle().Faint(true)
)

func (m model) View() string {
	title := titleStyle.Render("T8 " + m.opts.Host)

	var body string
	switch {
	case !m.loaded:
		body = m.spinner.View() + " connecting..."
	case m.err != nil:
		body = errStyle.Render(fmt.Sprintf("poll failed: %v", m.err))
		if m.status != nil {
			body += "\n\n" + m.renderStatus()
		}
	default:
		body = m.renderStatus()
	}

	footer := footStyle.Render(fmt.Sprintf("refresh %s · q to quit", m.opts.PollEvery))
	return panelStyle.Render(title+"\n\n"+body) + "\n" + footer + "\n"
}

func (m model) renderStatus() string {
	s := m.status
	rows := []struct {
		label string
		value string
	}{
		{"Time", s.Time().Format(time.RFC3339)},
		{"Uptime", fmt.Sprintf("%g s", s.UpTime)},
		{"Board Temp", fmt.Sprintf("%g °C", s.BoardTemp)},
		{"CPU Temp", fmt.Sprintf("%g °C", s.CPUTemp)},
		{"Input", fmt.Sprintf("%g V", s.VInput)},
		{"Fan PWM", fmt.Sprintf("%d", s.FanPWM)},
		{"IP Addr", s.IPAddr},
		{"Data Used", fmt.Sprintf("%d / %d bytes", s.DataMount.Used, s.DataMount.Total)},
	}
	out := ""
	for _, row := range rows {
		out += labelStyle.Render(row.label) + " " + row.value + "\n"
	}
	out += "\n" + footStyle.Render("updated "+m.fetched.Format("15:04:05"))
	return out
}
