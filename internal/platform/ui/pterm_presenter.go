// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"credprobe/internal/core/domain"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm para
// renderizar el header, la barra de progreso y los hallazgos en la
// terminal.
type PTermPresenter struct {
	mu sync.Mutex

	bar       *pterm.ProgressbarPrinter
	total     int
	startTime time.Time
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm.
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// Start muestra el header del audit y arranca la barra de progreso.
func (p *PTermPresenter) Start(info AuditInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = info.TotalTrials
	p.startTime = time.Now()

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("credprobe - Credential Audit")

	pterm.Println()

	protocols := make([]string, 0, len(info.Protocols))
	for _, protocol := range info.Protocols {
		protocols = append(protocols, string(protocol))
	}

	infoPanel := pterm.DefaultBox.
		WithTitle("Audit Configuration").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	content := fmt.Sprintf("Targets: %s\n", pterm.Cyan(fmt.Sprintf("%d", info.Targets)))
	content += fmt.Sprintf("Protocols: %s\n", pterm.Yellow(strings.Join(protocols, ", ")))
	content += fmt.Sprintf("Usernames: %d  Passwords: %d\n", info.Usernames, info.Passwords)
	content += fmt.Sprintf("Trials: %s\n", pterm.Cyan(fmt.Sprintf("%d", info.TotalTrials)))
	content += fmt.Sprintf("Workers: %d  Timeout: %ds  Retries: %d\n",
		info.Workers, info.TimeoutSeconds, info.MaxRetries)
	content += fmt.Sprintf("Short-circuit: %s", p.boolToString(info.ShortCircuit))
	if info.ProxyURL != "" {
		content += fmt.Sprintf("\nProxy: %s", pterm.Magenta(info.ProxyURL))
	}

	infoPanel.Println(content)
	pterm.Println()

	bar, err := pterm.DefaultProgressbar.
		WithTotal(info.TotalTrials).
		WithTitle("Auditing").
		WithShowElapsedTime().
		Start()
	if err == nil {
		p.bar = bar
	}
}

// Progress actualiza la barra: done son trials con resultado y skipped
// los suprimidos por short-circuit, ambos cuentan como completados.
func (p *PTermPresenter) Progress(done, skipped int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		return
	}
	completed := done + skipped
	if completed > p.total {
		completed = p.total
	}
	if delta := completed - p.bar.Current; delta > 0 {
		p.bar.Add(delta)
	}
}

// Hit imprime una credencial válida en el momento de descubrirse.
func (p *PTermPresenter) Hit(result domain.TrialResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	line := fmt.Sprintf("%s %s:%d  %s / %s",
		result.Descriptor.Service.Protocol,
		result.Descriptor.Target.Host,
		result.Descriptor.Service.Port,
		result.Descriptor.Credential.Username,
		result.Descriptor.Credential.Password,
	)
	pterm.Success.Println(pterm.Green(line))
}

// Info muestra un mensaje informativo
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Info.Println(msg)
}

// Warning muestra una advertencia
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Warning.Println(msg)
}

// Error muestra un error
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Error.Println(msg)
}

// Finish detiene la barra y muestra el panel de estadísticas finales.
func (p *PTermPresenter) Finish(summary domain.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Stop()
		p.bar = nil
	}

	pterm.Println()

	headerBg := pterm.BgGreen
	headerText := "Audit Completed"
	if summary.Success == 0 {
		headerBg = pterm.BgYellow
		headerText = "Audit Completed - No Credentials Found"
	}

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(headerBg)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println(headerText)

	pterm.Println()

	statsPanel := pterm.DefaultBox.
		WithTitle("Audit Statistics").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen))

	content := fmt.Sprintf("Duration: %s\n", pterm.Green(p.formatDuration(summary.Duration)))
	content += fmt.Sprintf("Trials: %s\n", pterm.Cyan(fmt.Sprintf("%d", summary.Total)))
	content += fmt.Sprintf("Hits: %s\n", pterm.Green(fmt.Sprintf("%d", summary.Success)))
	content += fmt.Sprintf("Rejected: %s\n", pterm.Yellow(fmt.Sprintf("%d", summary.AuthFailure)))
	content += fmt.Sprintf("Network errors: %s\n", pterm.Red(fmt.Sprintf("%d", summary.NetworkError)))
	content += fmt.Sprintf("Timeouts: %s", pterm.Red(fmt.Sprintf("%d", summary.Timeout)))

	statsPanel.Println(content)

	if len(summary.ByProtocol) > 0 {
		pterm.Println()
		pterm.DefaultSection.WithLevel(2).Println("Results by Protocol")

		tableData := pterm.TableData{
			{"Protocol", "Trials", "Hits", "Rejected", "Errors", "Timeouts"},
		}
		for _, protocol := range domain.KnownProtocols {
			stats, ok := summary.ByProtocol[protocol]
			if !ok {
				continue
			}
			tableData = append(tableData, []string{
				string(protocol),
				fmt.Sprintf("%d", stats.Total),
				fmt.Sprintf("%d", stats.Success),
				fmt.Sprintf("%d", stats.AuthFailure),
				fmt.Sprintf("%d", stats.NetworkError),
				fmt.Sprintf("%d", stats.Timeout),
			})
		}

		pterm.DefaultTable.
			WithHasHeader().
			WithBoxed().
			WithData(tableData).
			Render()
	}

	pterm.Println()
}

// Close limpia recursos del presenter
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		p.bar.Stop()
		p.bar = nil
	}
	return nil
}

// formatDuration formatea una duración de manera legible
func (p *PTermPresenter) formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// boolToString convierte booleano a string visual
func (p *PTermPresenter) boolToString(b bool) string {
	if b {
		return pterm.Green("ON")
	}
	return pterm.Gray("OFF")
}
