// Package frontend patches values baked into the helpdesk's compiled
// JavaScript bundle.
package frontend

import (
	"fmt"
	"os"
	"strings"
)

const (
	pusherMarker  = `broadcaster:"pusher",key:`
	keyOffset     = 26
	keyLength     = 20
	clusterOffset = 57
	clusterLength = 3
)

// PatchResult reports what PatchPusher replaced.
type PatchResult struct {
	Found          bool
	OldKey         string
	OldCluster     string
	KeyPatched     bool
	ClusterPatched bool
}

// slice returns up to n bytes of s starting at off.
func slice(s string, off, n int) string {
	if off >= len(s) {
		return ""
	}
	end := min(off+n, len(s))
	return s[off:end]
}

// PatchPusherContent replaces the Pusher key and cluster compiled into js.
// The values are located relative to the last occurrence of the broadcaster
// marker, and every occurrence of each old value is replaced.
func PatchPusherContent(js, key, cluster string) (string, PatchResult) {
	var res PatchResult

	pos := strings.LastIndex(js, pusherMarker)
	if pos < 0 {
		return js, res
	}
	res.Found = true
	res.OldKey = slice(js, pos+keyOffset, keyLength)
	res.OldCluster = slice(js, pos+clusterOffset, clusterLength)

	if len(res.OldKey) == keyLength && key != "" {
		js = strings.ReplaceAll(js, res.OldKey, key)
		res.KeyPatched = true
	}
	if len(res.OldCluster) == clusterLength && cluster != "" {
		js = strings.ReplaceAll(js, res.OldCluster, cluster)
		res.ClusterPatched = true
	}
	return js, res
}

// PatchPusher rewrites the bundle at path with the new key and cluster.
// A bundle without the marker is left untouched.
func PatchPusher(path, key, cluster string) (PatchResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PatchResult{}, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PatchResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	patched, res := PatchPusherContent(string(data), key, cluster)
	if !res.Found {
		return res, nil
	}
	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return res, fmt.Errorf("write %s: %w", path, err)
	}
	return res, nil
}
