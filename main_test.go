package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

const sampleDoc = `# Week

1. Buy milk // remember the oat kind 2024/11/22-3pm
2. Call dentist
3. Fix bug 2024/13/1-1am
`

type cli struct {
	t      *testing.T
	dir    string
	config string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, key := range []string{"MDTASKS_FORMAT", "MDTASKS_OUTPUT", "MDTASKS_TIMEZONE", "MDTASKS_METRICS_FILE",
		"MDTASKS_PRODID", "MDTASKS_TASKWARRIOR_PROJECT", "MDTASKS_TASKWARRIOR_TAGS"} {
		t.Setenv(key, "")
	}
	return &cli{t: t, dir: dir, config: filepath.Join(dir, "config.json")}
}

func (c *cli) file(name, content string) string {
	c.t.Helper()
	path := filepath.Join(c.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		c.t.Fatal(err)
	}
	return path
}

func (c *cli) run(args ...string) (int, string, string) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	args = append([]string{"--config", c.config, "--timezone", "UTC"}, args...)
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExportCSV(t *testing.T) {
	c := newCLI(t)
	src := c.file("todo.md", sampleDoc)
	out := filepath.Join(c.dir, "out.csv")

	code, stdout, stderr := c.run("export", src, "-o", out)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "Exported 3 tasks to "+out) {
		t.Errorf("stdout = %q", stdout)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "title,description,due_date\n" +
		`"Buy milk","remember the oat kind","2024-11-22 15:00:00"` + "\n" +
		`"Call dentist","",""` + "\n" +
		`"Fix bug","",""` + "\n"
	if string(data) != want {
		t.Errorf("csv =\n%s\nwant\n%s", data, want)
	}
}

func TestExportToStdout(t *testing.T) {
	c := newCLI(t)
	src := c.file("todo.txt", sampleDoc)

	code, stdout, stderr := c.run("export", src, "--format", "json", "-o", "-")
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if !gjson.Valid(stdout) {
		t.Fatalf("stdout is not JSON: %q", stdout)
	}
	if got := gjson.Get(stdout, "#.title").String(); got != `["Buy milk","Call dentist","Fix bug"]` {
		t.Errorf("titles = %s", got)
	}
}

func TestExportDefaultOutputName(t *testing.T) {
	c := newCLI(t)
	src := c.file("todo.md", sampleDoc)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(c.dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	code, stdout, stderr := c.run("export", src, "-f", "ical")
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "No output file given, using tasks.ics") {
		t.Errorf("stdout = %q", stdout)
	}
	data, err := os.ReadFile(filepath.Join(c.dir, "tasks.ics"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "BEGIN:VCALENDAR\r\n") {
		t.Errorf("unexpected ics output: %q", data)
	}
}

func TestExportUsesConfiguredFormat(t *testing.T) {
	c := newCLI(t)
	src := c.file("todo.md", sampleDoc)
	out := filepath.Join(c.dir, "out.yaml")

	if code, _, stderr := c.run("config", "set", "format", "yaml"); code != exitOK {
		t.Fatalf("config set failed with %d: %s", code, stderr)
	}
	if code, _, stderr := c.run("export", src, "-o", out); code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "- title: Buy milk\n") {
		t.Errorf("expected yaml output, got:\n%s", data)
	}
}

func TestExportExitCodes(t *testing.T) {
	c := newCLI(t)
	src := c.file("todo.md", sampleDoc)
	empty := c.file("empty.md", "# nothing to do\n")
	pdf := c.file("todo.pdf", sampleDoc)

	cases := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{"missing source", []string{"export", filepath.Join(c.dir, "missing.md")}, exitSourceUnreadable, "Error:"},
		{"unsupported source", []string{"export", pdf}, exitUnsupportedSource, "Error:"},
		{"no tasks", []string{"export", empty, "-o", filepath.Join(c.dir, "empty.csv")}, exitNoTasks, "no tasks"},
		{"unwritable output", []string{"export", src, "-o", filepath.Join(c.dir, "no", "such", "dir.csv")}, exitSinkWrite, "Error:"},
		{"unknown format", []string{"export", src, "-f", "pdf"}, exitUnknownFormat, "unknown export format"},
		{"google", []string{"export", src, "-f", "google"}, exitNotImplemented, "Notice:"},
		{"apple", []string{"export", src, "-f", "apple"}, exitNotImplemented, "Notice:"},
		{"missing argument", []string{"export"}, exitError, "Error:"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := c.run(tc.args...)
			if code != tc.code {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, tc.code, stderr)
			}
			if !strings.Contains(stderr, tc.stderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tc.stderr)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(c.dir, "empty.csv")); !os.IsNotExist(err) {
		t.Errorf("no file should be written without tasks, stat error = %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	c := newCLI(t)
	src := c.file("todo.md", sampleDoc)

	code, stdout, stderr := c.run("parse", src)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	want := "Parsed 3 tasks from " + src + "\n" +
		"1. Buy milk\n" +
		"   description: remember the oat kind\n" +
		"   due: 2024-11-22 15:00:00\n" +
		"2. Call dentist\n" +
		"3. Fix bug\n"
	if stdout != want {
		t.Errorf("stdout =\n%s\nwant\n%s", stdout, want)
	}

	empty := c.file("empty.txt", "prose only\n")
	code, stdout, _ = c.run("list", empty)
	if code != exitOK || !strings.HasSuffix(stdout, "No tasks found\n") {
		t.Errorf("list of empty file: code %d, stdout %q", code, stdout)
	}
}

func TestTargetsCommand(t *testing.T) {
	c := newCLI(t)

	code, stdout, stderr := c.run("targets")
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{"TARGET", "csv", "taskwarrior", "gcal", "google", "unavailable", "Source extensions: [docx markdown md org txt]"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("targets output is missing %q:\n%s", want, stdout)
		}
	}
}

func TestConfigCommands(t *testing.T) {
	c := newCLI(t)

	code, stdout, _ := c.run("config", "path")
	if code != exitOK || strings.TrimSpace(stdout) != c.config {
		t.Errorf("config path: code %d, stdout %q", code, stdout)
	}

	if code, _, stderr := c.run("config", "set", "format", "docx"); code != exitUnknownFormat {
		t.Errorf("setting an unknown format: code %d, stderr %s", code, stderr)
	}
	if code, _, _ := c.run("config", "set", "colour", "blue"); code != exitError {
		t.Errorf("setting an unknown key: code %d, want %d", code, exitError)
	}
	if code, stdout, _ := c.run("config", "set", "prodid", "-//Test//EN"); code != exitOK || !strings.Contains(stdout, "prodid set to: -//Test//EN") {
		t.Errorf("config set prodid: code %d, stdout %q", code, stdout)
	}

	code, stdout, _ = c.run("config", "show")
	if code != exitOK {
		t.Fatalf("config show: code %d", code)
	}
	if got := gjson.Get(stdout, "prodid").String(); got != "-//Test//EN" {
		t.Errorf("prodid = %q", got)
	}
}

func TestMetricsFile(t *testing.T) {
	c := newCLI(t)
	src := c.file("todo.md", sampleDoc)
	prom := filepath.Join(c.dir, "mdtasks.prom")
	t.Setenv("MDTASKS_METRICS_FILE", prom)

	if code, _, stderr := c.run("export", src, "-o", filepath.Join(c.dir, "out.json"), "-f", "json"); code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	data, err := os.ReadFile(prom)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	for _, want := range []string{
		`mdtasks_tasks_parsed_total{source="md"} 3`,
		`mdtasks_due_dates_dropped_total 1`,
		`mdtasks_exports_total{format="json",status="success"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics file is missing %q:\n%s", want, data)
		}
	}
}

func TestParseOrgFile(t *testing.T) {
	c := newCLI(t)
	src := c.file("plan.org", "* Week\n1. Buy milk\n   DEADLINE: <2024-11-22 Fri 15:00>\n")

	code, stdout, stderr := c.run("parse", src)
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "1. Buy milk\n   due: 2024-11-22 15:00:00\n") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestConfiguredProdIDReachesICS(t *testing.T) {
	c := newCLI(t)
	src := c.file("todo.md", sampleDoc)

	if code, _, stderr := c.run("config", "set", "prodid", "-//Acme//EN"); code != exitOK {
		t.Fatalf("config set prodid: code %d, stderr %s", code, stderr)
	}
	code, stdout, stderr := c.run("export", src, "-f", "ics", "-o", "-")
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "PRODID:-//Acme//EN\r\n") {
		t.Errorf("ics output is missing the configured PRODID:\n%s", stdout)
	}
}

func TestExportTaskwarriorProjectAndTags(t *testing.T) {
	c := newCLI(t)
	src := c.file("todo.md", sampleDoc)

	if code, _, stderr := c.run("config", "set", "taskwarrior_project", "home"); code != exitOK {
		t.Fatalf("config set: code %d, stderr %s", code, stderr)
	}

	code, stdout, stderr := c.run("export", src, "-f", "taskwarrior", "-o", "-")
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if got := gjson.Get(stdout, "#.project").String(); got != `["home","home","home"]` {
		t.Errorf("projects = %s", got)
	}

	code, stdout, stderr = c.run("export", src, "-f", "taskwarrior", "-o", "-", "--project", "work", "--tag", "a", "--tag", "b")
	if code != exitOK {
		t.Fatalf("exit code %d, stderr: %s", code, stderr)
	}
	if got := gjson.Get(stdout, "0.project").String(); got != "work" {
		t.Errorf("project = %q, want the flag value", got)
	}
	if got := gjson.Get(stdout, "0.tags|@ugly").String(); got != `["a","b"]` {
		t.Errorf("tags = %s", got)
	}
}
