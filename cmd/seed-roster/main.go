package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/stemsi/exstem-roster/internal/config"
	"github.com/stemsi/exstem-roster/internal/logger"
	"github.com/stemsi/exstem-roster/internal/repository"
	"github.com/stemsi/exstem-roster/internal/service"
)

func main() {
	var (
		out   string
		count int
	)
	flag.StringVar(&out, "out", "alunos.csv", "Destination CSV file")
	flag.IntVar(&count, "count", 50, "Number of students to generate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	log := logger.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	store := service.NewRosterStore(repository.NewStudentRepository(), log)

	fmt.Printf("=== Seeding %d Students ===\n", count)

	for _, st := range sampleStudents(count) {
		if err := store.AddRecord(st); err != nil {
			log.Fatal().Err(err).Str("name", st.Name).Msg("Failed to add student")
		}
	}

	if err := store.Save(out); err != nil {
		log.Fatal().Err(err).Msg("Failed to write roster")
	}

	fmt.Printf("\nSeed completed! Wrote %d students to %s.\n", store.Len(), out)
}
