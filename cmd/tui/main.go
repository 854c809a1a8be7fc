// Command tui is a terminal dashboard for a running Riskboard server.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aristath/riskboard/internal/tui/api"
	"github.com/aristath/riskboard/internal/tui/ui"
)

func main() {
	apiURL := flag.String("api-url", "http://localhost:8080", "Riskboard API URL")
	flag.Parse()

	client := api.NewClient(*apiURL)
	m := ui.NewModel(client, *apiURL)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
