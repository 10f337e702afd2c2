// Package gitops versions a finstat project directory with the git CLI.
package gitops

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Author identifies commits made by finstat.
type Author struct {
	Name  string
	Email string
}

// DefaultAuthor signs commits when the project does not override it.
var DefaultAuthor = Author{Name: "finstat", Email: "finstat@localhost"}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// run executes git in dir with the author pinned as both author and committer,
// so commits succeed on machines without a global git identity.
func run(ctx context.Context, dir string, author Author, args ...string) (string, error) {
	full := append([]string{"-c", "user.name=" + author.Name, "-c", "user.email=" + author.Email}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a git repository at dir. An existing repository is left alone.
func Init(ctx context.Context, dir string) error {
	if IsRepo(dir) {
		return nil
	}
	_, err := run(ctx, dir, DefaultAuthor, "init", "--quiet")
	return err
}

// Commit stages paths (all changes when none are given) and commits them.
// Returns the short commit hash.
func Commit(ctx context.Context, dir, message string, author Author, paths ...string) (string, error) {
	add := []string{"add", "-A"}
	if len(paths) > 0 {
		add = append(append(add, "--"), paths...)
	}
	if _, err := run(ctx, dir, author, add...); err != nil {
		return "", err
	}
	if _, err := run(ctx, dir, author, "commit", "--quiet", "-m", message, "--author", author.String()); err != nil {
		return "", err
	}
	return run(ctx, dir, author, "rev-parse", "--short", "HEAD")
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
