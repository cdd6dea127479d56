// Command nlpm is the NeverLiie package manager: a library registry backed by
// a content-addressed store, plus registered automation scripts written in the
// nlps language.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/docopt/docopt-go"
)

const version = "nlpm 0.1.0"

// builtinCommands are names that never resolve to a registered script.
var builtinCommands = map[string]bool{
	"init-lib":        true,
	"register":        true,
	"publish":         true,
	"install":         true,
	"update":          true,
	"list":            true,
	"init-script":     true,
	"register-script": true,
	"list-scripts":    true,
	"run":             true,
	"cdr":             true,
	"register-dir":    true,
	"remove-dir":      true,
	"list-dirs":       true,
	"cdr-init":        true,
	"help":            true,
	"--help":          true,
	"-h":              true,
	"--version":       true,
	"-v":              true,
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		fmt.Fprintln(os.Stderr)
		os.Exit(130)
	}()

	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// A first argument that is not a built-in command or a flag may name a
	// registered script; scripts take precedence over usage errors.
	if len(args) > 0 && !builtinCommands[args[0]] && !strings.HasPrefix(args[0], "-") {
		if code, ok := launchRegisteredScript(args[0], args[1:]); ok {
			return code
		}
	}

	parser := &docopt.Parser{OptionsFirst: true}
	opts, err := parser.ParseArgs(usage, args, version)
	if err != nil {
		return 1
	}
	return dispatch(opts)
}

func dispatch(opts docopt.Opts) int {
	has := func(command string) bool {
		set, _ := opts.Bool(command)
		return set
	}
	str := func(key string) string {
		s, _ := opts.String(key)
		return s
	}

	switch {
	case has("init-lib"):
		return initLib()
	case has("register"):
		return registerLib()
	case has("publish"):
		return publish(has("--force"))
	case has("install"):
		return install(str("<target>"), str("--path"))
	case has("update"):
		return update()
	case has("list"):
		return listRegistry()
	case has("init-script"):
		return initScript()
	case has("register-script"):
		return registerScript()
	case has("list-scripts"):
		return listScripts()
	case has("run"):
		args, _ := opts["<args>"].([]string)
		return runScriptFile(str("<script>"), args)
	case has("cdr"):
		return cdr(str("<alias>"))
	case has("register-dir"):
		return registerDir(str("<alias>"), str("<path>"), has("--force"))
	case has("remove-dir"):
		return removeDir(str("<alias>"))
	case has("list-dirs"):
		return listDirs()
	case has("cdr-init"):
		return cdrInit(str("<shell>"))
	}
	fmt.Fprintln(os.Stderr, usage)
	return 1
}

// infof and errorf mirror the CLI's diagnostic format on stderr.
func infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[INFO] "+format+"\n", args...)
}

func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+format+"\n", args...)
}
