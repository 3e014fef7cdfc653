// Command uuidemo compiles a YAML UI document and renders it on the
// configured platforms. With -run it starts an interactive terminal session.
package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	ui "github.com/pcharbon70/unified-ui-sub003"
)

//go:embed login.yaml
var loginDoc []byte

var (
	configPath = flag.String("config", "", "TOML configuration file")
	docPath    = flag.String("doc", "", "YAML UI document (default: built-in login form)")
	platforms  = flag.String("platform", "", "comma-separated platforms (default: from config, then detected)")
	run        = flag.Bool("run", false, "run an interactive terminal session after rendering")
	verbose    = flag.Bool("v", false, "log to stderr")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("uuidemo: ")

	logger := ui.Discard
	if *verbose {
		logger = log.New(os.Stderr, "uuidemo: ", log.Ltime|log.Lmicroseconds)
	}

	cfg := ui.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = ui.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *platforms != "" {
		cfg.Platforms = strings.Split(*platforms, ",")
	}
	targets, err := cfg.ParsedPlatforms()
	if err != nil {
		log.Fatal(err)
	}
	if len(targets) == 0 {
		targets = []ui.Platform{ui.DetectPlatformFromEnv()}
	}

	doc, err := loadDocument()
	if err != nil {
		log.Fatal(err)
	}
	defs := doc.Styles
	if t, ok := ui.Themes[cfg.Theme]; ok {
		defs = ui.WithTheme(t, defs)
	}
	styles, err := ui.NewStyleGraph(defs...)
	if err != nil {
		log.Fatal(err)
	}
	if errs := ui.Verify(doc.Root, styles); len(errs) > 0 {
		ui.SortErrors(errs)
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		os.Exit(1)
	}

	root, err := (&ui.Builder{Styles: styles, Logger: logger}).Build(doc.Root)
	if err != nil {
		log.Fatal(err)
	}

	term := ui.NewTerminalAdapter(os.Stdout)
	term.Logger = logger
	coord := ui.NewCoordinator(map[ui.Platform]ui.Adapter{
		ui.Terminal: term,
		ui.Web:      &ui.WebAdapter{Logger: logger},
	})
	coord.Logger = logger
	coord.Timeout = cfg.Timeout.Duration

	ctx := context.Background()
	var results ui.Results
	if cfg.Concurrent {
		results, err = coord.ConcurrentRender(ctx, root, targets, cfg.RenderOptions(), cfg.Timeout.Duration)
	} else {
		results, err = coord.RenderOn(ctx, root, targets, cfg.RenderOptions())
	}
	printResults(os.Stdout, results)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := coord.DestroyAll(results.States()); err != nil {
			log.Print(err)
		}
	}()

	if !*run {
		return
	}
	calls := ui.NewCalls().Register("session", "reset", ui.StateEventHandler(
		func(ui.State, ui.Event, ...any) (any, error) {
			return ui.State(doc.State).Clone(), nil
		}))
	p := ui.NewProgram(root, calls, ui.State(doc.State))
	p.Options = cfg.Options(ui.Terminal)
	p.Adapter = term
	p.Dispatcher.Logger = logger
	final, err := p.Run(ctx, nil, nil)
	if err != nil {
		log.Fatal(err)
	}
	printState(os.Stdout, final)
}

func loadDocument() (*ui.Document, error) {
	if *docPath != "" {
		return ui.LoadDocument(*docPath)
	}
	return ui.DecodeDocument(loginDoc)
}

func printResults(w io.Writer, results ui.Results) {
	ps := make([]ui.Platform, 0, len(results))
	for p := range results {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	for _, p := range ps {
		r := results[p]
		fmt.Fprintf(w, "== %s ==\n", p)
		if !r.OK() {
			fmt.Fprintf(w, "error: %v\n", r.Err)
			continue
		}
		switch p {
		case ui.Terminal:
			fmt.Fprintln(w, ui.Frame(r.State))
		case ui.Web:
			html, err := ui.HTML(r.State)
			if err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
				continue
			}
			fmt.Fprintln(w, html)
		}
	}
}

func printState(w io.Writer, s ui.State) {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s = %v\n", k, s[k])
	}
}
