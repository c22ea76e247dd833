package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// stubProcessor is a minimal CSL.Engine lookalike for end-to-end runs.
const stubProcessor = `
var CSL = {
	Engine: function(sys, style, locale, forceLocale) {
		this.sys = sys;
		this.format = "html";
		this.ids = [];
		this.updateItems = function(ids) { this.ids = ids; };
		this.setOutputFormat = function(f) { this.format = f; };
		this.makeCitationCluster = function(ids) {
			var item = this.sys.retrieveItem(ids[0]);
			var fam = item.author && item.author.length ? item.author[0].family : "";
			if (this.format === "rtf") { return "{\\rtf (" + fam + ")}"; }
			return "(" + fam + ")";
		};
		this.makeBibliography = function() {
			var out = [];
			for (var i = 0; i < this.ids.length; i++) {
				var item = this.sys.retrieveItem(this.ids[i]);
				var fam = item.author && item.author.length ? item.author[0].family : "";
				out.push('<div class="csl-entry">' + fam + ". " + item.title + ".</div>");
			}
			return [{}, out];
		};
	}
};
`

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	err := execute(cmd, args)
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestHelpMatrix(t *testing.T) {
	for _, args := range [][]string{nil, {"-h"}, {"--help"}, {"-h", "--bogus"}} {
		out, _, err := run(t, "", args...)
		if err != nil {
			t.Fatalf("args %v: %v", args, err)
		}
		if !strings.Contains(out, "Usage") {
			t.Fatalf("args %v: no usage text in %q", args, out)
		}
	}
}

func TestUsageErrors(t *testing.T) {
	if _, _, err := run(t, "", "--bogus", "a.csl", "b.json"); err == nil {
		t.Fatal("unknown flag must fail")
	}
	_, errOut, err := run(t, "", "a.csl", "b.json", "c.json")
	if err == nil {
		t.Fatal("three positionals must fail")
	}
	if !strings.Contains(errOut, "Usage") {
		t.Fatalf("no usage text on arg error: %q", errOut)
	}
	if _, _, err := run(t, "", "-b"); err == nil {
		t.Fatal("flags without a style file must fail")
	}
}

func TestEndToEndCitation(t *testing.T) {
	dir := t.TempDir()
	style := writeFile(t, dir, "a.csl", "<style/>")
	proc := writeFile(t, dir, "citeproc.js", stubProcessor)
	rec := writeFile(t, dir, "b.json", `{"id":"r1","title":"T","author":[{"family":"Doe","given":"J"}]}`)

	out, _, err := run(t, "", "-P", proc, style, rec)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var res map[string]string
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("stdout is not a JSON result: %v\n%s", err, out)
	}
	if !strings.Contains(res["html"], "Doe") {
		t.Fatalf("html: %q", res["html"])
	}
	if !strings.Contains(res["rtf"], "Doe") || !strings.Contains(res["rtf"], "\\rtf") {
		t.Fatalf("rtf: %q", res["rtf"])
	}
}

func TestEndToEndBibliographyUnwrapped(t *testing.T) {
	dir := t.TempDir()
	style := writeFile(t, dir, "a.csl", "<style/>")
	proc := writeFile(t, dir, "citeproc.js", stubProcessor)
	rec := writeFile(t, dir, "b.json", `{"id":"r1","title":"T","author":[{"family":"Doe","given":"J"}]}`)

	out, _, err := run(t, "", "-b", "-P", proc, style, rec)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var res map[string]string
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("stdout is not a JSON result: %v\n%s", err, out)
	}
	if strings.HasPrefix(res["html"], "<div") {
		t.Fatalf("bibliography html still wrapped: %q", res["html"])
	}
	if !strings.Contains(res["html"], "Doe. T.") {
		t.Fatalf("html: %q", res["html"])
	}
}

func TestEndToEndRecordFromStdin(t *testing.T) {
	dir := t.TempDir()
	style := writeFile(t, dir, "a.csl", "<style/>")
	proc := writeFile(t, dir, "citeproc.js", stubProcessor)

	out, _, err := run(t, `{"id":"r1","title":"T","author":[{"family":"Doe"}]}`, "-P", proc, style)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Doe") {
		t.Fatalf("stdout: %q", out)
	}
}

func TestMissingStyleFails(t *testing.T) {
	dir := t.TempDir()
	proc := writeFile(t, dir, "citeproc.js", stubProcessor)
	if _, _, err := run(t, `{"id":"r1"}`, "-P", proc, filepath.Join(dir, "missing.csl")); err == nil {
		t.Fatal("missing style file must fail")
	}
}
