package config

import (
	"path/filepath"
	"strings"
)

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// resolveFiles returns explicit paths when given, otherwise the first
// existing candidate from the standard locations.
func resolveFiles(fs FileSystem, serviceName string, lc LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = firstExisting(fs, configCandidates(serviceName))
	} else if !fs.Exists(files.ConfigFile) {
		files.ConfigFile = ""
	}
	if files.EnvFile == "" {
		files.EnvFile = firstExisting(fs, envCandidates(serviceName))
	} else if !fs.Exists(files.EnvFile) {
		files.EnvFile = ""
	}
	return files
}

// searchDirs lists service-specific directories before shared ones, each
// tried from the working directory and up to two parents.
func searchDirs(serviceName string) []string {
	names := []string{serviceName}
	if i := strings.LastIndex(serviceName, "-"); i != -1 {
		names = append(names, serviceName[i+1:])
	}

	var rel []string
	for _, n := range names {
		rel = append(rel, filepath.Join("cmd", n), filepath.Join("config", n))
	}
	rel = append(rel, "config", ".")

	var dirs []string
	for _, up := range []string{".", "..", filepath.Join("..", "..")} {
		for _, r := range rel {
			dirs = append(dirs, filepath.Join(up, r))
		}
	}
	return dirs
}

func configCandidates(serviceName string) []string {
	var out []string
	for _, dir := range searchDirs(serviceName) {
		out = append(out, filepath.Join(dir, "config.yml"), filepath.Join(dir, "config.yaml"))
	}
	return out
}

func envCandidates(serviceName string) []string {
	var out []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		for _, dir := range searchDirs(serviceName) {
			out = append(out, filepath.Join(dir, name))
		}
	}
	return out
}

func firstExisting(fs FileSystem, paths []string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}
