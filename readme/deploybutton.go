// ABOUTME: Deploy button maintenance for a project README
// ABOUTME: Replaces the marked launch button region in place, or prepends it when missing
package readme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Region markers around the button line.
const (
	StartMarker = "<!-- launchButton -->"
	StopMarker  = "<!-- launchButtonStop -->"
)

// Project file names.
const (
	PackageFile = "package.json"
	ReadmeFile  = "README.md"
)

var (
	// ErrNoRepository is returned when package.json has no repository url.
	ErrNoRepository = errors.New("a repo url was not found in package.json")

	region = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(StartMarker) + `(.*?)` + regexp.QuoteMeta(StopMarker))
)

type packageManifest struct {
	Repository json.RawMessage `json:"repository"`
}

// RepositoryURL extracts the browsable repository url from package.json
// content. Both the string and the {"url": ...} forms are accepted.
func RepositoryURL(packageJSON []byte) (string, error) {
	var manifest packageManifest
	if err := json.Unmarshal(packageJSON, &manifest); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", PackageFile, err)
	}
	if len(manifest.Repository) == 0 {
		return "", ErrNoRepository
	}

	var raw string
	if err := json.Unmarshal(manifest.Repository, &raw); err != nil {
		var repo struct {
			URL string `json:"url"`
		}
		if err := json.Unmarshal(manifest.Repository, &repo); err != nil {
			return "", fmt.Errorf("failed to parse repository in %s: %w", PackageFile, err)
		}
		raw = repo.URL
	}

	url := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(raw), "git+"), ".git")
	if url == "" {
		return "", ErrNoRepository
	}
	return url, nil
}

// ButtonLine renders the markdown badge linking the deployer to the repo.
func ButtonLine(repoURL, deployerURL, buttonURL string) string {
	if !strings.HasSuffix(deployerURL, "/") {
		deployerURL += "/"
	}
	return fmt.Sprintf("[![Deploy](%s)](%slaunch?template=%s) <%s>", buttonURL, deployerURL, repoURL, repoURL)
}

// InjectDeployButton puts line between the markers. The first marked region
// is rewritten; without one the full marked block is placed at the top.
func InjectDeployButton(contents, line string) string {
	loc := region.FindStringSubmatchIndex(contents)
	if loc == nil {
		return StartMarker + "\n" + line + "\n" + StopMarker + "\n\n" + contents
	}
	return contents[:loc[2]] + "\n" + line + "\n" + contents[loc[3]:]
}

// Options for UpdateProject.
type Options struct {
	DeployerURL string
	ButtonURL   string
}

// UpdateProject rewrites README.md in dir with a button for the repository
// named in dir's package.json. It reports whether the file changed.
func UpdateProject(dir string, opts Options) (bool, error) {
	manifest, err := os.ReadFile(filepath.Join(dir, PackageFile))
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", PackageFile, err)
	}
	repoURL, err := RepositoryURL(manifest)
	if err != nil {
		return false, err
	}

	readmePath := filepath.Join(dir, ReadmeFile)
	contents, err := os.ReadFile(readmePath)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", ReadmeFile, err)
	}

	updated := InjectDeployButton(string(contents), ButtonLine(repoURL, opts.DeployerURL, opts.ButtonURL))
	if updated == string(contents) {
		return false, nil
	}
	if err := os.WriteFile(readmePath, []byte(updated), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", ReadmeFile, err)
	}
	return true, nil
}
