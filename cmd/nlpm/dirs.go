package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/neverliie/nlpm/pkg/dirs"
)

// cdr prints the directory a registered alias points to. The actual cd is
// done by a shell function wrapping this output; see cdr-init.
func cdr(alias string) int {
	path, err := dirs.New("").Resolve(alias)
	if err != nil {
		errorf("%v", err)
		if errors.Is(err, dirs.ErrAliasNotFound) {
			fmt.Fprintln(os.Stderr, "Run 'nlpm list-dirs' to see registered aliases")
		} else {
			fmt.Fprintf(os.Stderr, "Remove it with: nlpm remove-dir %s\n", alias)
		}
		return 1
	}
	fmt.Println(path)
	return 0
}

// registerDir binds an alias to a directory, defaulting to the current one.
func registerDir(alias, path string, force bool) int {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			errorf("%v", err)
			return 1
		}
		path = cwd
	}
	reg := dirs.New("")
	if err := reg.Register(alias, path, force); err != nil {
		errorf("%v", err)
		if errors.Is(err, dirs.ErrAliasExists) {
			fmt.Fprintf(os.Stderr, "Use --force to overwrite: nlpm register-dir %s --force\n", alias)
		}
		return 1
	}
	infof("Registered '%s' -> %s", alias, path)
	return 0
}

// removeDir deletes a registered alias.
func removeDir(alias string) int {
	path, err := dirs.New("").Remove(alias)
	if err != nil {
		errorf("%v", err)
		return 1
	}
	infof("Removed '%s' -> %s", alias, path)
	return 0
}

// listDirs prints every alias with a marker for targets that vanished.
func listDirs() int {
	aliases, err := dirs.New("").List()
	if err != nil {
		errorf("%v", err)
		return 1
	}
	if len(aliases) == 0 {
		fmt.Println("No directories registered.")
		fmt.Println("Register one with: nlpm register-dir <alias>")
		return 0
	}

	fmt.Println("Registered Directories:")
	for _, alias := range aliases {
		status := "[OK]"
		if !alias.Exists {
			status = "[MISSING]"
		}
		fmt.Printf("  %-15s %s %s\n", alias.Name, status, alias.Path)
	}
	fmt.Println()
	fmt.Println("Use: nlpm cdr <alias>")
	fmt.Println("Shell integration: nlpm cdr-init <bash|ps|cmd>")
	return 0
}

// cdrInit prints the shell integration snippet defining a cdr function that
// captures 'nlpm cdr <alias>' output and changes directory to it.
func cdrInit(shell string) int {
	switch shell {
	case "bash", "zsh", "sh":
		fmt.Print(bashInit)
	case "ps", "powershell":
		fmt.Print(powershellInit)
	case "cmd":
		fmt.Print(cmdInit)
	default:
		errorf("unsupported shell: %s", shell)
		fmt.Fprintln(os.Stderr, "Supported shells: bash, ps, cmd")
		return 1
	}
	return 0
}

const bashInit = `# nlpm cdr shell integration
# Add to your shell config: eval "$(nlpm cdr-init bash)"

cdr() {
    if [ -z "$1" ]; then
        echo "Usage: cdr <alias>" >&2
        return 1
    fi
    local path
    path="$(nlpm cdr "$1")" || return 1
    cd "$path" || return 1
}
`

const powershellInit = `# nlpm cdr PowerShell integration
# Add to your profile: Invoke-Expression (& { (nlpm cdr-init ps | Out-String) })

function global:cdr {
    param([string]$Alias)

    if (-not $Alias) {
        Write-Error "Usage: cdr <alias>"
        return
    }

    $path = nlpm cdr $Alias 2>&1
    if ($LASTEXITCODE -eq 0) {
        Set-Location $path
    } else {
        Write-Error $path
    }
}
`

const cmdInit = `@echo off
REM nlpm cdr CMD integration
REM Create a cdr.bat in a folder on your PATH with the following content,
REM or run: doskey cdr=for /f "tokens=*" %a in ('nlpm cdr $1') do @cd /d "%a"

if "%~1"=="" (
    echo Usage: cdr ^<alias^>
    exit /b 1
)

for /f "tokens=*" %%a in ('nlpm cdr %1') do (
    cd /d "%%a"
    exit /b 0
)

exit /b 1
`
