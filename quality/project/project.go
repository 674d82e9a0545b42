/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package project gathers the facts about a code project that the project
// rubric asks the judge to score.
package project

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"golang.org/x/mod/modfile"
)

const (
	// GuidelinesFile holds the project's own engineering rules.
	GuidelinesFile = "CLAUDE.md"
	// MaxFiles bounds the number of source files analysed.
	MaxFiles = 20
	// LineLimit is the file size above which a file is flagged.
	LineLimit = 500
)

// errNotExist is returned by a source for a missing file.
var errNotExist = errors.New("file does not exist")

var sourceExtensions = []string{".go", ".ts", ".tsx", ".js", ".jsx", ".mjs"}

var skipDirs = []string{"node_modules", "vendor", ".git", "dist", "build", "testdata"}

// FileStat is the size of one source file.
type FileStat struct {
	Path  string `json:"file"`
	Lines int    `json:"lines"`
}

// Oversize reports whether the file exceeds LineLimit.
func (f FileStat) Oversize() bool {
	return f.Lines > LineLimit
}

// Analysis is the summary of a project handed to the judge.
type Analysis struct {
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Guidelines   string     `json:"-"`
	Dependencies []string   `json:"dependencies"`
	Files        []FileStat `json:"files"`
}

// Oversize returns the analysed files over LineLimit.
func (a *Analysis) Oversize() []FileStat {
	var out []FileStat
	for _, f := range a.Files {
		if f.Oversize() {
			out = append(out, f)
		}
	}
	return out
}

// source lists and reads the files of a project.
type source interface {
	name() string
	description(ctx context.Context) (string, error)
	// files returns slash-separated paths relative to the project root.
	files(ctx context.Context) ([]string, error)
	read(ctx context.Context, path string) ([]byte, error)
}

// Analyzer resolves and analyses project targets.
type Analyzer struct {
	baseDir string
	github  *github.Client
}

// Option configures an Analyzer.
type Option func(*Analyzer) error

// WithBaseDir resolves relative directory targets against dir.
func WithBaseDir(dir string) Option {
	return func(a *Analyzer) error {
		a.baseDir = dir
		return nil
	}
}

// WithGitHubClient sets the client used for github:owner/repo targets.
func WithGitHubClient(c *github.Client) Option {
	return func(a *Analyzer) error {
		if c == nil {
			return errors.New("github client is required")
		}
		a.github = c
		return nil
	}
}

// NewAnalyzer creates an Analyzer. Without WithGitHubClient an
// unauthenticated client is used for GitHub targets.
func NewAnalyzer(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}
	if a.github == nil {
		a.github = github.NewClient(nil)
	}
	return a, nil
}

// Analyze gathers the analysis for target, which is either a directory or
// github:owner/repo.
func (a *Analyzer) Analyze(ctx context.Context, target string) (*Analysis, error) {
	src, err := a.resolve(target)
	if err != nil {
		return nil, err
	}
	log := clog.FromContext(ctx).With("project", src.name())
	log.Info("Analyzing project")

	an := &Analysis{Name: src.name()}
	if an.Description, err = src.description(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", target, err)
	}

	switch data, err := src.read(ctx, GuidelinesFile); {
	case errors.Is(err, errNotExist):
		log.Warnf("No %s found", GuidelinesFile)
	case err != nil:
		return nil, fmt.Errorf("%s: reading %s: %w", target, GuidelinesFile, err)
	default:
		an.Guidelines = string(data)
	}

	desc, deps, err := dependencies(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", target, err)
	}
	an.Dependencies = deps
	if an.Description == "" {
		an.Description = desc
	}

	paths, err := src.files(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: listing files: %w", target, err)
	}
	for _, p := range selectSources(paths) {
		data, err := src.read(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("%s: reading %s: %w", target, p, err)
		}
		an.Files = append(an.Files, FileStat{Path: p, Lines: countLines(data)})
	}
	log.With("files", len(an.Files), "oversize", len(an.Oversize())).Info("Analysis complete")
	return an, nil
}

// Targets parses a comma separated list of targets.
func Targets(list string) []string {
	var out []string
	for t := range strings.SplitSeq(list, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// dependencies returns the package description from package.json and the
// sorted direct dependencies from package.json and go.mod.
func dependencies(ctx context.Context, src source) (string, []string, error) {
	var description string
	var deps []string

	switch data, err := src.read(ctx, "package.json"); {
	case errors.Is(err, errNotExist):
	case err != nil:
		return "", nil, fmt.Errorf("reading package.json: %w", err)
	default:
		var pkg struct {
			Description  string            `json:"description"`
			Dependencies map[string]string `json:"dependencies"`
		}
		if err := json.Unmarshal(data, &pkg); err != nil {
			return "", nil, fmt.Errorf("parsing package.json: %w", err)
		}
		description = pkg.Description
		for name := range pkg.Dependencies {
			deps = append(deps, name)
		}
	}

	switch data, err := src.read(ctx, "go.mod"); {
	case errors.Is(err, errNotExist):
	case err != nil:
		return "", nil, fmt.Errorf("reading go.mod: %w", err)
	default:
		mf, err := modfile.ParseLax("go.mod", data, nil)
		if err != nil {
			return "", nil, fmt.Errorf("parsing go.mod: %w", err)
		}
		for _, r := range mf.Require {
			if !r.Indirect {
				deps = append(deps, r.Mod.Path)
			}
		}
	}

	slices.Sort(deps)
	return description, slices.Compact(deps), nil
}

// selectSources returns the first MaxFiles source files in path order.
func selectSources(paths []string) []string {
	var out []string
	for _, p := range paths {
		if !slices.Contains(sourceExtensions, path.Ext(p)) || skipped(p) {
			continue
		}
		out = append(out, p)
	}
	slices.Sort(out)
	if len(out) > MaxFiles {
		out = out[:MaxFiles]
	}
	return out
}

func skipped(p string) bool {
	for _, dir := range strings.Split(path.Dir(p), "/") {
		if slices.Contains(skipDirs, dir) {
			return true
		}
	}
	return false
}

// countLines counts newline-terminated lines plus a trailing partial line.
func countLines(data []byte) int {
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}
