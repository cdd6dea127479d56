package main

const usage = `nlpm - NeverLiie package manager.

Usage:
  nlpm init-lib
  nlpm register
  nlpm publish [--force]
  nlpm install [<target>] [--path=<dir>]
  nlpm update
  nlpm list
  nlpm init-script
  nlpm register-script
  nlpm list-scripts
  nlpm run <script> [<args>...]
  nlpm cdr <alias>
  nlpm register-dir <alias> [<path>] [--force]
  nlpm remove-dir <alias>
  nlpm list-dirs
  nlpm cdr-init <shell>
  nlpm -h | --help
  nlpm -v | --version

Options:
  -h --help     Show this screen.
  -v --version  Show version.
  --force       Replace an existing version, script or alias.
  --path=<dir>  Destination folder for a single install.

Any other first argument is looked up as a registered script and run with the
remaining arguments.`
