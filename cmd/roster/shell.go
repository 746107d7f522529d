package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/stemsi/exstem-roster/internal/model"
	"github.com/stemsi/exstem-roster/internal/repository"
	"github.com/stemsi/exstem-roster/internal/response"
	"github.com/stemsi/exstem-roster/internal/service"
	"github.com/stemsi/exstem-roster/internal/validator"
)

const usage = `Commands:
  add              register a student (prompts for each field)
  list | all       show every student
  filter [min]     show students with final grade >= min
  save <path>      save the roster to a CSV file
  load <path>      replace the roster with a CSV file
  export <path>    export the last displayed table to a CSV file
  help             show this message
  quit | exit      leave`

// ShellOptions configures how a Shell talks to the user.
type ShellOptions struct {
	// Prompt prints input prompts; only useful on a terminal.
	Prompt bool
	// JSON renders each command result as a response envelope.
	JSON bool
	// MinGrade is used by "filter" when no threshold is given.
	MinGrade string
}

// Shell is the line-oriented front end of the roster store. It owns the
// last displayed selection, which "export" writes out.
type Shell struct {
	store     *service.RosterStore
	validate  *validator.Validator
	in        *bufio.Reader
	out       io.Writer
	opts      ShellOptions
	selection []model.Student
}

// NewShell creates a Shell reading commands from in and rendering to out.
func NewShell(store *service.RosterStore, v *validator.Validator, in io.Reader, out io.Writer, opts ShellOptions) *Shell {
	return &Shell{
		store:     store,
		validate:  v,
		in:        bufio.NewReader(in),
		out:       out,
		opts:      opts,
		selection: store.List(),
	}
}

// Run executes commands until quit or end of input.
func (sh *Shell) Run() {
	for {
		if sh.opts.Prompt {
			fmt.Fprint(sh.out, "> ")
		}
		line, err := sh.in.ReadString('\n')
		if strings.TrimSpace(line) != "" {
			if quit := sh.Exec(line); quit {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Exec runs a single command line and reports whether the shell should stop.
func (sh *Shell) Exec(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.Trim(strings.TrimSpace(arg), `"'`)

	switch strings.ToLower(cmd) {
	case "":
	case "add":
		sh.add()
	case "list", "all":
		sh.selection = sh.store.List()
		sh.table("Exibindo todos os alunos cadastrados.", sh.selection)
	case "filter":
		sh.filter(arg)
	case "save":
		sh.save(arg)
	case "load":
		sh.load(arg)
	case "export":
		sh.export(arg)
	case "help":
		fmt.Fprintln(sh.out, usage)
	case "quit", "exit":
		return true
	default:
		sh.fail(response.ErrUnknownCommand, nil)
	}
	return false
}

func (sh *Shell) add() {
	req := model.CreateStudentRequest{
		Name:   sh.ask(model.ColumnName),
		Age:    sh.ask(model.ColumnAge),
		Course: sh.ask(model.ColumnCourse),
		Grade:  sh.ask(model.ColumnGrade),
	}
	if fields := sh.validate.Struct(req); fields != nil {
		sh.fail(response.ErrValidation, fields)
		return
	}

	st, err := sh.store.Add(req.Name, req.Age, req.Course, req.Grade)
	if err != nil {
		sh.fail(response.ErrInvalidNumber, nil)
		return
	}

	sh.selection = sh.store.List()
	sh.table(fmt.Sprintf("Aluno '%s' cadastrado com sucesso!", st.Name), sh.selection)
}

func (sh *Shell) filter(minGrade string) {
	if minGrade == "" {
		minGrade = sh.opts.MinGrade
	}
	if fields := sh.validate.Struct(model.FilterRequest{MinGrade: minGrade}); fields != nil {
		sh.fail(response.ErrValidation, fields)
		return
	}
	if sh.store.Len() == 0 {
		sh.selection = []model.Student{}
		sh.fail(response.ErrNoData, nil)
		return
	}

	students, err := sh.store.FilterByMinimumGrade(minGrade)
	if err != nil {
		sh.selection = []model.Student{}
		sh.fail(response.ErrInvalidMinGrade, nil)
		return
	}

	sh.selection = students
	if len(students) == 0 {
		sh.table("Nenhum aluno encontrado com nota acima da média mínima informada.", students)
		return
	}
	sh.table(fmt.Sprintf("Exibindo %d aluno(s) com nota >= %s.", len(students), minGrade), students)
}

func (sh *Shell) save(path string) {
	if path == "" {
		sh.fail(response.ErrPathRequired, nil)
		return
	}
	path = withCSVExt(path)

	if err := sh.store.Save(path); err != nil {
		sh.fail(response.ErrSaveFailed, nil)
		return
	}
	sh.message(fmt.Sprintf("Dados salvos com sucesso em: %s", path), map[string]interface{}{
		"path":     path,
		"students": sh.store.Len(),
	})
}

func (sh *Shell) load(path string) {
	if path == "" {
		sh.fail(response.ErrPathRequired, nil)
		return
	}

	report, err := sh.store.Load(path)
	if err != nil {
		sh.fail(loadErrCode(err), nil)
		return
	}

	sh.selection = sh.store.List()
	msg := fmt.Sprintf("Dados carregados com sucesso de: %s", path)
	if sh.opts.JSON {
		sh.success(map[string]interface{}{
			"message":  msg,
			"report":   report,
			"students": sh.selection,
		})
		return
	}
	sh.table(msg, sh.selection)
}

func (sh *Shell) export(path string) {
	if len(sh.selection) == 0 {
		sh.fail(response.ErrNothingToExport, nil)
		return
	}
	if path == "" {
		sh.fail(response.ErrPathRequired, nil)
		return
	}
	path = withCSVExt(path)

	if err := sh.store.Export(sh.selection, path); err != nil {
		sh.fail(response.ErrExportFailed, nil)
		return
	}
	sh.message(fmt.Sprintf("Relatório (%d registro(s)) exportado com sucesso em: %s", len(sh.selection), path),
		map[string]interface{}{
			"path":     path,
			"students": len(sh.selection),
		})
}

// ask prompts for one field and returns the trimmed answer. End of input
// yields an empty answer.
func (sh *Shell) ask(label string) string {
	if sh.opts.Prompt {
		fmt.Fprintf(sh.out, "%s: ", label)
	}
	line, _ := sh.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// ────────────────────────────────────────────────────────────────────────────
// Rendering
// ────────────────────────────────────────────────────────────────────────────

func (sh *Shell) table(msg string, students []model.Student) {
	if sh.opts.JSON {
		sh.success(map[string]interface{}{"message": msg, "students": students})
		return
	}

	fmt.Fprintln(sh.out, msg)
	if len(students) == 0 {
		fmt.Fprintln(sh.out, "(nenhum aluno)")
		return
	}

	tw := tabwriter.NewWriter(sh.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(model.Columns[:], "\t"))
	for _, st := range students {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%.2f\n", st.Name, st.Age, st.Course, st.Grade)
	}
	tw.Flush()
}

func (sh *Shell) message(msg string, data map[string]interface{}) {
	if sh.opts.JSON {
		data["message"] = msg
		sh.success(data)
		return
	}
	fmt.Fprintln(sh.out, msg)
}

func (sh *Shell) success(data interface{}) {
	_ = response.Success(sh.out, data)
}

func (sh *Shell) fail(code response.ErrCode, fields map[string]string) {
	if sh.opts.JSON {
		if len(fields) == 0 {
			_ = response.Fail(sh.out, code)
			return
		}
		_ = response.FailWithFields(sh.out, code, fields)
		return
	}

	fmt.Fprintf(sh.out, "Erro: %s\n", response.GetMessage(code))
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(sh.out, "  - %s\n", fields[name])
	}
}

func loadErrCode(err error) response.ErrCode {
	switch {
	case errors.Is(err, repository.ErrSchemaMismatch):
		return response.ErrSchemaMismatch
	case errors.Is(err, repository.ErrMalformedFile):
		return response.ErrMalformedFile
	case errors.Is(err, service.ErrIO):
		return response.ErrLoadFailed
	default:
		return response.ErrInternal
	}
}

// withCSVExt appends ".csv" to paths that have no extension.
func withCSVExt(path string) string {
	if filepath.Ext(path) == "" {
		return path + ".csv"
	}
	return path
}
