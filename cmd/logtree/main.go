package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/logtree/internal/parser"
	"github.com/user/logtree/internal/source"
	"github.com/user/logtree/internal/ui"
)

func main() {
	jsonFlag := flag.Bool("json", false, "Parse the file and print it as JSON instead of opening the viewer")
	prettyFlag := flag.Bool("p", false, "Indent JSON output (implies -json)")
	searchFlag := flag.String("s", "", "Initial search term")
	followFlag := flag.Bool("f", false, "Follow the file for appended lines")
	lexerFlag := flag.String("l", "", "Syntax lexer for plain lines (e.g. go, json, yaml)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: logtree [-json] [-p] [-s term] [-f] [-l lexer] <file>\n")
		fmt.Fprintf(os.Stderr, "  -json\tPrint the parsed log as JSON and exit\n")
		fmt.Fprintf(os.Stderr, "  -p\tIndent the JSON output\n")
		fmt.Fprintf(os.Stderr, "  -s\tHighlight a search term on startup\n")
		fmt.Fprintf(os.Stderr, "  -f\tFollow the file for appended lines\n")
		fmt.Fprintf(os.Stderr, "  -l\tSyntax lexer for plain lines\n")
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	filepath := flag.Arg(0)

	if *jsonFlag || *prettyFlag {
		if err := dumpJSON(filepath, *searchFlag, *prettyFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	model, err := ui.NewModel(ui.ModelOptions{
		Filepath: filepath,
		Search:   *searchFlag,
		Follow:   *followFlag,
		Lexer:    *lexerFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dumpJSON(filepath, search string, pretty bool) error {
	src, err := source.Open(filepath)
	if err != nil {
		return err
	}
	defer src.Close()

	session := parser.New()
	for i := 0; i < src.LineCount(); i++ {
		raw, err := src.Line(i)
		if err != nil {
			return err
		}
		session.AddLine("", raw)
	}
	if search != "" {
		session.SetSearch(search)
	}

	out, err := session.Serialize(pretty)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
