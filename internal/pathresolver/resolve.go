// Package pathresolver turns slash-separated paths into NFS file
// handles via repeated LOOKUP, accumulates directory listings across
// paginated READDIR replies, and applies client-side glob matching to
// the results.
package pathresolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/marmos91/nfsshell/internal/nfs3"
)

// readdirCount is the byte count requested per READDIR call.
const readdirCount = 8192

// Resolve walks path component by component starting from cwd (or from
// root if path begins with "/"), issuing one LOOKUP per component and
// requiring every intermediate (non-final) component to be a directory.
// Partial progress never mutates the caller's state: on any failure the
// caller's existing handle remains valid.
func Resolve(ctx context.Context, client *nfs3.Client, root, cwd []byte, path string) ([]byte, error) {
	current := cwd
	if strings.HasPrefix(path, "/") {
		current = root
	}

	parts := splitNonEmpty(path)
	for i, part := range parts {
		res, err := client.Lookup(ctx, current, part)
		if err != nil {
			return nil, err
		}
		if res.Status != nfs3.OK {
			return nil, &nfs3.StatusError{Op: part, Status: res.Status}
		}
		if i < len(parts)-1 && res.Attr != nil && res.Attr.Type != nfs3.TypeDir {
			return nil, fmt.Errorf("%s: is not a directory", part)
		}
		current = res.Handle
	}
	return current, nil
}

func splitNonEmpty(path string) []string {
	var out []string
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ReadDir accumulates the full, lexicographically sorted list of names
// in dir across as many READDIR calls as needed. Any non-OK status
// discards the partial result entirely.
func ReadDir(ctx context.Context, client *nfs3.Client, dir []byte) ([]string, error) {
	var names []string
	var cookie, cookieVerf uint64

	for {
		res, err := client.Readdir(ctx, dir, cookie, cookieVerf, readdirCount)
		if err != nil {
			return nil, err
		}
		if res.Status != nfs3.OK {
			return nil, &nfs3.StatusError{Op: "readdir", Status: res.Status}
		}
		for _, e := range res.Entries {
			names = append(names, e.Name)
			cookie = e.Cookie
		}
		if res.EOF {
			break
		}
	}

	sort.Strings(names)
	return names, nil
}
