package verify

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"sift/bytecode"
)

// The debugger single-steps a validation: one instruction per keypress,
// showing the raw program bytes (current PC highlighted), the abstract
// register file, and the merge points still queued. Handy when a
// controller-produced filter bounces and the reason text alone doesn't
// make it obvious which path poisoned a register.

type model struct {
	prog *bytecode.Program
	scan *scan

	prevPC uint32
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m model) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit

		case " ", "j":
			m.prevPC = m.scan.pc
			m.scan.step()
			if m.scan.done {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// renderRow renders 16 program bytes as a line, bracketing the byte at the
// current PC.
func (m model) renderRow(start uint32) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := start; i < start+16; i++ {
		if uint64(i) >= uint64(len(m.prog.Data)) {
			s += "  .  "
			continue
		}
		if i == m.scan.pc {
			s += fmt.Sprintf("[%02x] ", m.prog.Data[i])
		} else {
			s += fmt.Sprintf(" %02x  ", m.prog.Data[i])
		}
	}
	return s
}

func (m model) hexdump() string {
	rows := []string{"  pc | program bytes"}
	for start := uint32(0); uint64(start) < uint64(len(m.prog.Data)); start += 16 {
		rows = append(rows, m.renderRow(start))
	}
	return strings.Join(rows, "\n")
}

func (m model) status() string {
	s := fmt.Sprintf("\nPC: %x (%x)\n", m.scan.pc, m.prevPC)
	for i, r := range m.scan.reg {
		lit := " "
		if r.literal {
			lit = "L"
		}
		s += fmt.Sprintf("R%d: %-7s %s\n", i, r.typ, lit)
	}

	if len(m.scan.merges) == 0 {
		return s + "merge points: none\n"
	}
	targets := make([]uint32, 0, len(m.scan.merges))
	for target := range m.scan.merges {
		targets = append(targets, target)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
	s += "merge points:\n"
	for _, target := range targets {
		s += fmt.Sprintf("  %04x x%d\n", target, len(m.scan.merges[target]))
	}
	return s
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	var insn any
	decoded, err := bytecode.DecodeAt(m.prog.Data, m.scan.pc)
	if err != nil {
		insn = err
	} else {
		insn = decoded
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.hexdump(),
			m.status(),
		),
		"",
		spew.Sdump(insn),
	)
}

// Debug validates the program in an interactive TUI, then returns the
// verdict Validate would have produced for it.
func Debug(p *bytecode.Program) error {
	final, err := tea.NewProgram(model{
		prog: p,
		scan: newScan(p.Data),
	}).Run()
	if err != nil {
		panic(err)
	}
	m := final.(model)
	for !m.scan.done { // quit early with q: settle the verdict anyway
		m.scan.step()
	}
	if e := m.scan.finish(); e != nil {
		return e
	}
	if m.scan.err != nil {
		return m.scan.err
	}
	return nil
}
