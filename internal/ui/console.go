// Package ui renders the operator console: headers, marked status lines
// and the separators around backend output.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

const (
	headerWidth    = 60
	separatorWidth = 50
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorCyan   = lipgloss.Color("#06b6d4")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	ruleStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	warningStyle = lipgloss.NewStyle().Foreground(colorYellow)
	infoStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	valueStyle   = lipgloss.NewStyle().Foreground(colorGreen)
)

// Console writes styled output. With color disabled every style is a no-op
// and screen clears are skipped.
type Console struct {
	out   io.Writer
	color bool
}

// NewConsole creates a console writing to out.
func NewConsole(out io.Writer, color bool) *Console {
	return &Console{out: out, color: color}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer returns the underlying writer.
func (c *Console) Writer() io.Writer {
	return c.out
}

// Clear clears the screen.
func (c *Console) Clear() {
	if c.color {
		fmt.Fprint(c.out, "\033[H\033[2J")
	}
}

// Header prints a title between two rules.
func (c *Console) Header(title string) {
	rule := c.paint(ruleStyle, strings.Repeat("=", headerWidth))
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out, c.paint(headerStyle, "  "+title))
	fmt.Fprintln(c.out, rule)
	fmt.Fprintln(c.out)
}

// Title prints a bold line.
func (c *Console) Title(text string) {
	fmt.Fprintln(c.out, c.paint(boldStyle, text))
}

// Field prints an indented label/value pair with the label padded to width.
func (c *Console) Field(label, value string, width int) {
	fmt.Fprintf(c.out, "  %-*s %s\n", width, label+":", value)
}

// Highlight prints a label/value pair with the value colored.
func (c *Console) Highlight(label, value string, width int) {
	fmt.Fprintf(c.out, "  %-*s %s\n", width, label+":", c.paint(valueStyle, value))
}

// Item prints a menu entry.
func (c *Console) Item(token, text string) {
	fmt.Fprintf(c.out, "  %s. %s\n", token, text)
}

// Bullet prints a bulleted line.
func (c *Console) Bullet(text string) {
	fmt.Fprintf(c.out, "  • %s\n", text)
}

// Success prints a [SUCCESS] line.
func (c *Console) Success(format string, args ...any) {
	c.marked(successStyle, "[SUCCESS]", format, args...)
}

// Error prints an [ERROR] line.
func (c *Console) Error(format string, args ...any) {
	c.marked(errorStyle, "[ERROR]", format, args...)
}

// Warning prints a [WARNING] line.
func (c *Console) Warning(format string, args ...any) {
	c.marked(warningStyle, "[WARNING]", format, args...)
}

// Info prints an [INFO] line.
func (c *Console) Info(format string, args ...any) {
	c.marked(infoStyle, "[INFO]", format, args...)
}

// Separator prints the rule shown before and after backend output.
func (c *Console) Separator() {
	fmt.Fprintln(c.out, c.paint(ruleStyle, strings.Repeat("─", separatorWidth)))
}

// Println prints a plain line.
func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Printf prints formatted text.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) marked(style lipgloss.Style, marker, format string, args ...any) {
	fmt.Fprintf(c.out, "%s %s\n", c.paint(style, marker), fmt.Sprintf(format, args...))
}

func (c *Console) paint(style lipgloss.Style, text string) string {
	if !c.color {
		return text
	}
	return style.Render(text)
}
