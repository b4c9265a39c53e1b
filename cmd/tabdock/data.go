package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/tabdock/internal/ipc"
	"github.com/1broseidon/tabdock/internal/memo"
)

func printMemoUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tabdock memo list [--json]")
	fmt.Fprintln(w, "  tabdock memo add [--title T] [--content C]")
	fmt.Fprintln(w, "  tabdock memo edit [--title T] [--content C] <id>")
	fmt.Fprintln(w, "  tabdock memo delete <id>")
}

func runMemo(args []string) int {
	if len(args) == 0 {
		printMemoUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printMemoUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		jsonOut := fs.Bool("json", false, "Output as JSON")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		notes, err := client.ListMemos()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			return printJSON(notes)
		}
		for _, n := range notes {
			fmt.Printf("%s  %s  %s\n", n.ID, n.LastEdited, n.Title)
		}
		return 0

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		title := fs.String("title", "", "Memo title (default: "+memo.DefaultTitle+")")
		content := fs.String("content", "", "Memo content")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		note, err := client.AddMemo(*title, *content)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(note.ID)
		return 0

	case "edit":
		fs := flag.NewFlagSet("edit", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		title := fs.String("title", "", "New title")
		content := fs.String("content", "", "New content")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "memo edit requires <id>")
			return 2
		}
		set := map[string]bool{}
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

		notes, err := client.ListMemos()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		var current *memo.Note
		for i := range notes {
			if notes[i].ID == fs.Arg(0) {
				current = &notes[i]
				break
			}
		}
		if current == nil {
			fmt.Fprintf(os.Stderr, "%v: %s\n", memo.ErrNoteNotFound, fs.Arg(0))
			return 1
		}
		newTitle, newContent := current.Title, current.Content
		if set["title"] {
			newTitle = *title
		}
		if set["content"] {
			newContent = *content
		}
		if _, err := client.EditMemo(current.ID, newTitle, newContent); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "memo delete requires <id>")
			return 2
		}
		if err := client.DeleteMemo(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown memo command: %s\n\n", args[0])
		printMemoUsage(os.Stderr)
		return 2
	}
}

func printSitesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tabdock sites list [--json]")
	fmt.Fprintln(w, "  tabdock sites add [--title T] <url>")
	fmt.Fprintln(w, "  tabdock sites delete <id>")
}

func runSites(args []string) int {
	if len(args) == 0 {
		printSitesUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printSitesUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		jsonOut := fs.Bool("json", false, "Output as JSON")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		list, err := client.ListSites()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *jsonOut {
			return printJSON(list)
		}
		for _, s := range list {
			fmt.Printf("%s  %-24s %s\n", s.ID, s.Title, s.URL)
		}
		return 0

	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		title := fs.String("title", "", "Site title (default: host name)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "sites add requires <url>")
			return 2
		}
		site, err := client.AddSite(fs.Arg(0), *title)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("%s  %s\n", site.ID, site.URL)
		return 0

	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "sites delete requires <id>")
			return 2
		}
		if err := client.DeleteSite(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown sites command: %s\n\n", args[0])
		printSitesUsage(os.Stderr)
		return 2
	}
}

func printSettingsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tabdock settings get")
	fmt.Fprintln(w, "  tabdock settings set <part> <key> <value>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Parts: search, navList, dock, timeCalendar. Values are parsed as JSON")
	fmt.Fprintln(w, "when possible (true, 3, \"x\"), otherwise used as plain strings.")
}

func runSettings(args []string) int {
	if len(args) == 0 {
		printSettingsUsage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()

	switch args[0] {
	case "get":
		state, err := client.GetSettings()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return printJSON(state)

	case "set":
		if len(args) != 4 {
			fmt.Fprintln(os.Stderr, "settings set requires <part> <key> <value>")
			return 2
		}
		state, err := client.SetSetting(args[1], args[2], parseSettingValue(args[3]))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return printJSON(state)

	case "help", "-h", "--help":
		printSettingsUsage(os.Stdout)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown settings command: %s\n\n", args[0])
		printSettingsUsage(os.Stderr)
		return 2
	}
}

func parseSettingValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func runSearch(args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tabdock search <query...>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Print the search URL for query using the current engine.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	url, err := ipc.NewClient().SearchURL(strings.Join(fs.Args(), " "))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(url)
	return 0
}

func printBackupUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tabdock backup export [--dir DIR]")
	fmt.Fprintln(w, "  tabdock backup import <file>")
}

func runBackup(args []string) int {
	if len(args) == 0 {
		printBackupUsage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()

	switch args[0] {
	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		dir := fs.String("dir", ".", "Directory to write the backup into")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		path, err := client.ExportBackup(absPath(*dir))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	case "import":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "backup import requires <file>")
			return 2
		}
		keys, err := client.ImportBackup(absPath(args[1]))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("imported: %s\n", strings.Join(keys, ", "))
		return 0

	case "help", "-h", "--help":
		printBackupUsage(os.Stdout)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown backup command: %s\n\n", args[0])
		printBackupUsage(os.Stderr)
		return 2
	}
}
