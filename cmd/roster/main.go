package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stemsi/exstem-roster/internal/config"
	"github.com/stemsi/exstem-roster/internal/logger"
	"github.com/stemsi/exstem-roster/internal/repository"
	"github.com/stemsi/exstem-roster/internal/service"
	"github.com/stemsi/exstem-roster/internal/validator"
	"golang.org/x/term"
)

func main() {
	var (
		dataFile string
		jsonOut  bool
	)
	flag.StringVar(&dataFile, "data", "", "CSV roster to load at start-up (overrides ROSTER_DATA_FILE)")
	flag.BoolVar(&jsonOut, "json", false, "Print one JSON envelope per command")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if dataFile == "" {
		dataFile = cfg.DataFile
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	// ─── Initialize Store ──────────────────────────────────────────────
	store := service.NewRosterStore(repository.NewStudentRepository(), log)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	sh := NewShell(store, validator.New(), os.Stdin, os.Stdout, ShellOptions{
		Prompt:   interactive,
		JSON:     jsonOut || cfg.Output == config.OutputJSON,
		MinGrade: cfg.MinGrade,
	})

	log.Debug().
		Bool("interactive", interactive).
		Str("data_file", dataFile).
		Msg("Starting roster shell")

	if dataFile != "" {
		sh.Exec("load " + dataFile)
	}
	if interactive {
		fmt.Println("=== Sistema de Gestão de Alunos ===")
		fmt.Println(usage)
	}

	sh.Run()
}
