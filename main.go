package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"shipnote/internal/config"
	"shipnote/internal/logs"
	"shipnote/internal/notes"
	"shipnote/internal/shipping"
	"shipnote/internal/tui"
)

func main() {
	// Parse CLI flags
	notesAPIFlag := flag.String("notes-api", "", "Notes API base URL")
	shippingAPIFlag := flag.String("shipping-api", "", "Shipping API base URL")
	labelDirFlag := flag.String("label-dir", "", "Directory for downloaded shipping labels")
	flag.Parse()

	cliFlags := config.CLIFlags{
		NotesAPI:    *notesAPIFlag,
		ShippingAPI: *shippingAPIFlag,
		LabelDir:    *labelDirFlag,
	}

	// Load configuration
	cfg, err := config.Load(cliFlags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ensure config file exists
	if err := config.EnsureConfigFile(); err != nil {
		log.Printf("Warning: could not create config file: %v", err)
	}

	// Ensure the label download directory exists
	if err := cfg.EnsureLabelDir(); err != nil {
		log.Fatalf("Failed to create label directory: %v", err)
	}

	defer logs.Close()

	notesClient, err := notes.NewClient(cfg.NotesAPI)
	if err != nil {
		log.Fatalf("Invalid notes API URL: %v", err)
	}
	shipClient, err := shipping.NewClient(cfg.ShippingAPI)
	if err != nil {
		log.Fatalf("Invalid shipping API URL: %v", err)
	}

	logs.Logger.Println("Starting app in TUI mode")
	appModel := tui.NewAppModel(cfg, notesClient, shipClient)
	p := tea.NewProgram(appModel, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running program:", err)
		os.Exit(1)
	}
}
