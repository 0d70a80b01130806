// Package materialize walks an inspection record and replaces every
// locally-resident asset reference with a durable remote one, uploading each
// asset exactly once under a deterministic path key.
package materialize

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/dlebedev/checkride/internal/record"
)

// DefaultUploadLimit caps in-flight uploads per materialization so a record
// with hundreds of photos does not exhaust sockets.
const DefaultUploadLimit = 8

// Uploader pushes one local asset to durable storage and returns its remote
// URL. Implementations must treat a repeated (containerID, pathKey) pair as
// overwrite-or-reuse, which keeps materialization idempotent across retries.
type Uploader interface {
	Upload(ctx context.Context, localURI, containerID, pathKey string) (string, error)
}

// UploadError reports which tree position failed.
type UploadError struct {
	PathKey string
	Err     error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.PathKey, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// Materializer rewrites records using an injected uploader and locator.
type Materializer struct {
	uploader Uploader
	locator  *record.Locator
	limit    int
}

func New(uploader Uploader, locator *record.Locator, limit int) *Materializer {
	if limit <= 0 {
		limit = DefaultUploadLimit
	}
	return &Materializer{uploader: uploader, locator: locator, limit: limit}
}

// uploadTask is one local asset discovered during the walk. apply writes the
// remote URL back into the cloned tree; applies run sequentially after all
// uploads finish, so no two goroutines ever touch the same container.
type uploadTask struct {
	pathKey string
	uri     string
	url     string
	apply   func(url string)
}

// Materialize returns a structurally identical copy of rec in which every
// local asset reference has been replaced by a remote URL. The input is
// never mutated.
//
// The walk is total: every reachable node is visited, so no local reference
// can leak into the result. Uploads run concurrently (bounded by the
// configured limit); the first failure cancels the rest and the whole
// operation returns an error with no partial result, leaving the caller's
// draft untouched.
func (m *Materializer) Materialize(ctx context.Context, rec record.Record, containerID string) (record.Record, error) {
	if rec == nil {
		return nil, nil
	}

	var tasks []*uploadTask
	out := m.walkMap(map[string]any(rec), "", &tasks)

	if len(tasks) == 0 {
		return record.Record(out), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.limit)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			url, err := m.uploader.Upload(gctx, t.uri, containerID, t.pathKey)
			if err != nil {
				return &UploadError{PathKey: t.pathKey, Err: err}
			}
			t.url = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Results are written back by tree position, not completion order.
	for _, t := range tasks {
		t.apply(t.url)
	}

	return record.Record(out), nil
}

func (m *Materializer) walkMap(node map[string]any, path string, tasks *[]*uploadTask) map[string]any {
	out := make(map[string]any, len(node))
	for k, v := range node {
		k := k
		childPath := record.ChildPath(path, k)
		out[k] = m.walkValue(v, childPath, tasks, func(url string) {
			out[k] = url
		})
	}
	return out
}

func (m *Materializer) walkSlice(node []any, path string, tasks *[]*uploadTask) []any {
	out := make([]any, len(node))
	for i, v := range node {
		i := i
		childPath := record.IndexPath(path, i)
		out[i] = m.walkValue(v, childPath, tasks, func(url string) {
			out[i] = url
		})
	}
	return out
}

func (m *Materializer) walkValue(v any, path string, tasks *[]*uploadTask, apply func(url string)) any {
	switch value := v.(type) {
	case record.Record:
		return m.walkMap(map[string]any(value), path, tasks)
	case map[string]any:
		return m.walkMap(value, path, tasks)
	case []any:
		return m.walkSlice(value, path, tasks)
	default:
		if c := m.locator.Classify(path, v); c.IsAsset {
			*tasks = append(*tasks, &uploadTask{
				pathKey: path,
				uri:     v.(string),
				apply:   apply,
			})
		}
		return v
	}
}
