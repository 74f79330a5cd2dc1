package core

import (
	"context"

	"github.com/revflo/revaudit/internal/contract"
)

// ChangedFiles returns the set of files that differ between two commits.
// The diff is bounded by a timeout; any failure yields an empty set so
// callers fall back to a full scan.
func ChangedFiles(ctx context.Context, client contract.GitClient, repoPath, baseRef, targetRef string) map[string]struct{} {
	diffCtx, cancel := context.WithTimeout(ctx, contract.DefaultDiffTimeout)
	defer cancel()

	changed := make(map[string]struct{})
	files, err := client.GetChangedFilesBetweenRefs(diffCtx, repoPath, baseRef, targetRef)
	if err != nil {
		contract.LogWarn("Diff between "+baseRef+" and "+targetRef+" failed", err)
		return changed
	}
	for _, f := range files {
		changed[f] = struct{}{}
	}
	return changed
}

// ShouldFullScan decides whether an incremental scan is worthwhile.
// It fails open: no previous commit, a diff covering more than half the
// tracked files, or any git error all force a full scan.
func ShouldFullScan(ctx context.Context, client contract.GitClient, repoPath, baseRef, targetRef string) (bool, map[string]struct{}) {
	if baseRef == "" {
		return true, nil
	}

	changed := ChangedFiles(ctx, client, repoPath, baseRef, targetRef)
	if len(changed) == 0 {
		// Empty diff means either no changes or a failed diff; a full
		// scan is the safe answer for both
		return true, nil
	}

	tracked, err := client.ListTrackedFiles(ctx, repoPath)
	if err != nil {
		contract.LogWarn("Listing tracked files failed", err)
		return true, nil
	}
	if len(tracked) == 0 {
		return true, nil
	}

	if float64(len(changed)) > contract.FullScanRatio*float64(len(tracked)) {
		return true, nil
	}
	return false, changed
}
