/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/go-github/v84/github"
)

const githubPrefix = "github:"

func (a *Analyzer) resolve(target string) (source, error) {
	if rest, ok := strings.CutPrefix(target, githubPrefix); ok {
		owner, repo, ok := strings.Cut(rest, "/")
		if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
			return nil, fmt.Errorf("invalid target %q (expected github:owner/repo)", target)
		}
		return &repoSource{client: a.github, owner: owner, repo: repo}, nil
	}

	dir := target
	if !filepath.IsAbs(dir) && a.baseDir != "" {
		dir = filepath.Join(a.baseDir, dir)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", target, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project %q is not a directory", target)
	}
	return &dirSource{root: dir}, nil
}

// dirSource reads a project from the local filesystem.
type dirSource struct {
	root string
}

func (d *dirSource) name() string { return filepath.Base(filepath.Clean(d.root)) }

func (d *dirSource) description(context.Context) (string, error) { return "", nil }

func (d *dirSource) files(ctx context.Context) ([]string, error) {
	var out []string
	err := fs.WalkDir(os.DirFS(d.root), ".", func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() {
			if p != "." && slices.Contains(skipDirs, e.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if e.Type().IsRegular() {
			out = append(out, p)
		}
		return nil
	})
	return out, err
}

func (d *dirSource) read(_ context.Context, p string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.root, filepath.FromSlash(p)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNotExist
	}
	return data, err
}

// repoSource reads a project from a GitHub repository's default branch.
type repoSource struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

func (r *repoSource) name() string { return r.repo }

func (r *repoSource) description(ctx context.Context) (string, error) {
	repo, _, err := r.client.Repositories.Get(ctx, r.owner, r.repo)
	if err != nil {
		return "", fmt.Errorf("fetching repository: %w", err)
	}
	r.branch = repo.GetDefaultBranch()
	return repo.GetDescription(), nil
}

func (r *repoSource) ref() string {
	if r.branch == "" {
		return "HEAD"
	}
	return r.branch
}

func (r *repoSource) files(ctx context.Context) ([]string, error) {
	tree, _, err := r.client.Git.GetTree(ctx, r.owner, r.repo, r.ref(), true)
	if err != nil {
		return nil, fmt.Errorf("fetching tree: %w", err)
	}
	var out []string
	for _, e := range tree.Entries {
		if e.GetType() == "blob" {
			out = append(out, e.GetPath())
		}
	}
	return out, nil
}

func (r *repoSource) read(ctx context.Context, p string) ([]byte, error) {
	file, _, _, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, p,
		&github.RepositoryContentGetOptions{Ref: r.ref()})
	if err != nil {
		var ge *github.ErrorResponse
		if errors.As(err, &ge) && ge.Response != nil && ge.Response.StatusCode == http.StatusNotFound {
			return nil, errNotExist
		}
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("%s is a directory", p)
	}
	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", p, err)
	}
	return []byte(content), nil
}
