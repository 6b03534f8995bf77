// Package ranking selects and filters the files of a scan report.
package ranking

import (
	"strings"

	"github.com/phobologic/caretctx/internal/graph"
	"github.com/phobologic/caretctx/internal/model"
)

// SelectFiles returns a new ScanReport with only the top-ranked files.
// If maxFiles is <= 0 or >= len(files), all files are returned.
func SelectFiles(r *model.ScanReport, maxFiles int) *model.ScanReport {
	if maxFiles <= 0 || maxFiles >= len(r.Files) {
		return r
	}

	selected := r.Files[:maxFiles]
	selectedPaths := make(map[string]struct{}, maxFiles)
	for i := range selected {
		selectedPaths[selected[i].Path] = struct{}{}
	}

	var links []model.Link
	for i := range r.Links {
		l := &r.Links[i]
		_, srcOK := selectedPaths[l.Source]
		_, tgtOK := selectedPaths[l.Target]
		if srcOK && tgtOK {
			links = append(links, *l)
		}
	}

	return &model.ScanReport{
		RepoName: r.RepoName,
		Root:     r.Root,
		Files:    selected,
		Links:    links,
	}
}

// FilterByValue returns a new ScanReport containing only findings whose
// value contains substr (case-insensitive), plus the files linked to them
// through a shared endpoint. Linked files keep only the findings on those
// endpoints.
func FilterByValue(r *model.ScanReport, substr string) *model.ScanReport {
	lower := strings.ToLower(substr)

	matchedEndpoints := make(map[string]struct{})
	for i := range r.Files {
		for j := range r.Files[i].Findings {
			f := &r.Files[i].Findings[j]
			if strings.Contains(strings.ToLower(f.Value), lower) {
				matchedEndpoints[graph.EndpointKey(f.Value)] = struct{}{}
			}
		}
	}

	// Expand to links carrying a matched endpoint.
	var links []model.Link
	for i := range r.Links {
		l := &r.Links[i]
		for _, e := range l.Endpoints {
			if _, ok := matchedEndpoints[e]; ok {
				links = append(links, *l)
				break
			}
		}
	}

	var files []model.FileInfo
	for i := range r.Files {
		fi := r.Files[i]
		var kept []model.Finding
		for j := range fi.Findings {
			f := &fi.Findings[j]
			_, shared := matchedEndpoints[graph.EndpointKey(f.Value)]
			if shared || strings.Contains(strings.ToLower(f.Value), lower) {
				kept = append(kept, *f)
			}
		}
		if len(kept) == 0 {
			continue
		}
		fi.Findings = kept
		files = append(files, fi)
	}

	return &model.ScanReport{
		RepoName: r.RepoName,
		Root:     r.Root,
		Files:    files,
		Links:    links,
	}
}

// FilterByFile returns a new ScanReport containing only files whose path
// contains substr (case-insensitive), with all links touching those files.
func FilterByFile(r *model.ScanReport, substr string) *model.ScanReport {
	lower := strings.ToLower(substr)

	matchedFiles := make(map[string]struct{})
	var files []model.FileInfo
	for i := range r.Files {
		if strings.Contains(strings.ToLower(r.Files[i].Path), lower) {
			matchedFiles[r.Files[i].Path] = struct{}{}
			files = append(files, r.Files[i])
		}
	}

	var links []model.Link
	for i := range r.Links {
		l := &r.Links[i]
		_, srcOK := matchedFiles[l.Source]
		_, tgtOK := matchedFiles[l.Target]
		if srcOK || tgtOK {
			links = append(links, *l)
		}
	}

	return &model.ScanReport{
		RepoName: r.RepoName,
		Root:     r.Root,
		Files:    files,
		Links:    links,
	}
}
