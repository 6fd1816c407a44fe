package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/diillson/es-profile-report/internal/shared/types"
)

// Console é uma implementação do ConsoleInterface.
// O relatório vai para out; mensagens, spinners e barras vão para errOut.
type Console struct {
	out    io.Writer
	errOut io.Writer

	info    *pterm.PrefixPrinter
	warning *pterm.PrefixPrinter
	failure *pterm.PrefixPrinter
	success *pterm.PrefixPrinter
}

// NewConsole cria um novo Console escrevendo em stdout e stderr.
func NewConsole() *Console {
	return NewConsoleWithWriters(os.Stdout, os.Stderr)
}

// NewConsoleWithWriters cria um Console com destinos explícitos.
func NewConsoleWithWriters(out, errOut io.Writer) *Console {
	return &Console{
		out:     out,
		errOut:  errOut,
		info:    pterm.Info.WithWriter(errOut),
		warning: pterm.Warning.WithWriter(errOut),
		failure: pterm.Error.WithWriter(errOut),
		success: pterm.Success.WithWriter(errOut),
	}
}

// Print imprime no console.
func (c *Console) Print(a ...interface{}) {
	fmt.Fprint(c.out, a...)
}

// Printf imprime uma string formatada no console.
func (c *Console) Printf(format string, a ...interface{}) {
	fmt.Fprintf(c.out, format, a...)
}

// Println imprime no console com uma nova linha.
func (c *Console) Println(a ...interface{}) {
	fmt.Fprintln(c.out, a...)
}

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	c.info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	c.warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	c.failure.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	c.success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
// Fora de um terminal o spinner não é exibido.
func (c *Console) Status(message string) types.StatusHandle {
	if !isTerminal(c.errOut) {
		return &statusHandle{}
	}
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.errOut).Start(message)
	return &statusHandle{spinner: spinner}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Cores predefinidas para uso consistente
var (
	BoldRed    = color.New(color.FgRed, color.Bold).SprintFunc()
	BrightBlue = color.New(color.FgBlue, color.Bold).SprintFunc()
)

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable + "\n"
}

// barWidth é o comprimento da barra do nó mais lento.
const barWidth = 40

// DisplayTimeBars exibe as durações dos nós como barras proporcionais ao mais lento.
func (c *Console) DisplayTimeBars(timings []types.NodeTiming) {
	var maxNanos int64
	for _, t := range timings {
		if t.Nanos > maxNanos {
			maxNanos = t.Nanos
		}
	}

	if maxNanos == 0 {
		c.warning.Println("All nodes took 0 ns")
		return
	}

	tableData := pterm.TableData{
		{"Node", "ms", ""},
	}

	for _, t := range timings {
		ratio := float64(t.Nanos) / float64(maxNanos)
		bar := strings.Repeat("█", int(ratio*barWidth))

		// Vermelho para a metade superior, amarelo para o restante
		barColor := pterm.FgYellow.Sprint(bar)
		if ratio >= 0.5 {
			barColor = pterm.FgRed.Sprint(bar)
		}

		tableData = append(tableData, []string{
			truncate(t.Label, 60),
			t.Millis,
			barColor,
		})
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	panel := pterm.DefaultBox.WithTitle("Slowest Nodes").WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).Sprint(renderedTable)

	fmt.Fprintln(c.out, "\n"+panel)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
