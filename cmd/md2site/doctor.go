package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/styles"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Site     siteInfo   `json:"site"`
	Sass     sassInfo   `json:"sass"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// siteInfo holds what the effective configuration points at.
type siteInfo struct {
	ConfigLoaded    bool   `json:"config_loaded"`
	PostsDir        string `json:"posts_dir"`
	PostsDirFound   bool   `json:"posts_dir_found"`
	TemplatesDir    string `json:"templates_dir"`
	CustomTemplates bool   `json:"custom_templates"`
	PDF             bool   `json:"pdf"`
}

// sassInfo holds Sass compiler detection results.
type sassInfo struct {
	Command  string `json:"command"`
	Required bool   `json:"required"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	NoSandbox     string `json:"rod_no_sandbox"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// doctorFlags holds the doctor command flags.
type doctorFlags struct {
	config string
	json   bool
	pdf    bool
}

// newDoctorFlagSet declares the doctor flags into f.
func newDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	fs.BoolVar(&f.pdf, "pdf", false, "check as if --pdf were given")
	return fs
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	var f doctorFlags
	fs := newDoctorFlagSet(&f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printCommandUsage(env.Stderr, "doctor") }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return ExitUsage
	}

	result := runDoctor(f.config, f.pdf)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configName string, pdf bool) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			NoSandbox:  os.Getenv("ROD_NO_SANDBOX"),
			BrowserBin: os.Getenv("ROD_BROWSER_BIN"),
		},
	}

	cfg := checkSite(result, configName)
	if pdf {
		cfg.PDF.Enabled = true
	}
	result.Site.PDF = cfg.PDF.Enabled

	checkSass(result, cfg)
	checkChrome(result, cfg.PDF.Enabled)
	checkEnvironment(result)
	checkSystem(result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkSite loads the configuration the build commands would use. On
// failure the error is recorded and defaults are checked instead.
func checkSite(result *doctorResult, configName string) *config.Config {
	envCfg := loadEnvConfig()
	if configName == "" {
		configName = envCfg.ConfigPath
	}

	cfg, err := loadConfigFile(configName)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		cfg = config.DefaultConfig()
	} else {
		result.Site.ConfigLoaded = true
	}
	applyEnvConfig(envCfg, cfg)

	result.Site.PostsDir = cfg.Input.PostsDir
	result.Site.PostsDirFound = fileutil.DirExists(cfg.Input.PostsDir)
	if !result.Site.PostsDirFound {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Posts directory not found: %s", cfg.Input.PostsDir))
	}

	result.Site.TemplatesDir = cfg.Templates.Dir
	result.Site.CustomTemplates = fileutil.DirExists(cfg.Templates.Dir)

	return cfg
}

// checkSass looks up the Sass compiler. It is only required when the
// stylesheet source is a Sass file that exists.
func checkSass(result *doctorResult, cfg *config.Config) {
	command := cfg.Styles.Command
	if command == "" {
		command = config.DefaultStyleCommand
	}
	result.Sass.Command = command
	result.Sass.Required = styles.IsSass(cfg.Styles.Source) && fileutil.FileExists(cfg.Styles.Source)

	path, err := exec.LookPath(command)
	if err == nil {
		result.Sass.Found = true
		result.Sass.Path = path
		return
	}
	if result.Sass.Required {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Sass compiler %q not found but %s needs it. Install dart-sass or set styles.command", command, cfg.Styles.Source))
	}
}

// checkChrome detects Chrome/Chromium installation. A missing browser is an
// error only when the print edition is enabled.
func checkChrome(result *doctorResult, pdf bool) {
	missing := func(msg string) {
		if pdf {
			result.Errors = append(result.Errors, msg)
			return
		}
		result.Warnings = append(result.Warnings, msg+" (needed only for --pdf)")
	}

	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			missing("Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		missing(fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output()
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	result.Chrome.Sandbox = !sandboxDisabled()
}

// sandboxDisabled mirrors the printer: CI=true or ROD_NO_SANDBOX=1 turn
// the Chrome sandbox off.
func sandboxDisabled() bool {
	return os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1"
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	// Chrome refuses to start sandboxed as root in most containers.
	if result.Site.PDF && (result.Env.Container || result.Env.CI) && !sandboxDisabled() {
		result.Warnings = append(result.Warnings,
			"Container/CI detected but ROD_NO_SANDBOX not set. Set ROD_NO_SANDBOX=1")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("MD2SITE_CONTAINER") == "1" {
		return true, "MD2SITE_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman, systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory is writable. The print edition
// keeps its browser profiles there.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	f, err := os.CreateTemp(tmpDir, "md2site-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	result.System.TempWritable = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "md2site doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Site")
	if r.Site.ConfigLoaded {
		fmt.Fprintln(w, "  [OK] Config: loaded")
	} else {
		fmt.Fprintln(w, "  [ERROR] Config: not loaded, checking defaults")
	}
	if r.Site.PostsDirFound {
		fmt.Fprintf(w, "  [OK] Posts: %s\n", r.Site.PostsDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Posts: %s not found\n", r.Site.PostsDir)
	}
	if r.Site.CustomTemplates {
		fmt.Fprintf(w, "  [OK] Templates: %s\n", filepath.Clean(r.Site.TemplatesDir))
	} else {
		fmt.Fprintln(w, "  [OK] Templates: embedded defaults")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Sass")
	switch {
	case r.Sass.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Sass.Path)
	case r.Sass.Required:
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Sass.Command)
	default:
		fmt.Fprintf(w, "  [OK] %s not found, not needed for CSS sources\n", r.Sass.Command)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	switch {
	case r.Chrome.Found:
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled (ROD_NO_SANDBOX=1 or CI=true)")
		}
	case r.Site.PDF:
		fmt.Fprintln(w, "  [ERROR] Not found")
	default:
		fmt.Fprintln(w, "  [WARN] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to build")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
