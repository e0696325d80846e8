package pipeline

import (
	"encoding/json"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/theirongolddev/cxdash/internal/source"
	"github.com/theirongolddev/cxdash/internal/store"
)

// ImportResult describes one completed import.
type ImportResult struct {
	BatchID  string
	Format   source.Format
	Count    int
	Warnings int
	// Raw is the JSON payload as received, for forwarding. Nil for CSV.
	Raw json.RawMessage
}

// Ingest parses data with a and appends the records to st. On any error
// the store is left untouched.
func Ingest(st store.Store, a source.Adapter, data []byte) (ImportResult, error) {
	batch, err := a.Parse(data)
	if err != nil {
		return ImportResult{}, err
	}
	if err := st.Append(batch.Records); err != nil {
		return ImportResult{}, fmt.Errorf("appending %d records: %w", len(batch.Records), err)
	}
	return ImportResult{
		BatchID:  uuid.NewString(),
		Format:   a.Format(),
		Count:    len(batch.Records),
		Warnings: batch.Warnings,
		Raw:      batch.Raw,
	}, nil
}

// ProgressFunc is called during file loading to report progress.
// current is the number of files parsed so far, total is the total count.
type ProgressFunc func(current, total int)

// LoadResult holds the output of LoadFiles.
type LoadResult struct {
	Imports []ImportResult
	Records int
}

// LoadFiles parses import files with a bounded worker pool, then appends
// each file's records to st in the order the paths were given. The first
// file that cannot be read or parsed aborts the load before anything is
// appended.
func LoadFiles(st store.Store, paths []string, progressFn ProgressFunc) (*LoadResult, error) {
	result := &LoadResult{}
	if len(paths) == 0 {
		return result, nil
	}

	type parsed struct {
		format source.Format
		batch  source.Batch
		err    error
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	work := make(chan int, len(paths))
	results := make([]parsed, len(paths))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range paths {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				a, data, err := source.ReadFile(paths[idx])
				if err == nil {
					results[idx].format = a.Format()
					results[idx].batch, err = a.Parse(data)
				}
				results[idx].err = err
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(paths))
				}
			}
		}()
	}

	wg.Wait()

	for i, r := range results {
		if r.err != nil {
			return nil, fmt.Errorf("importing %s: %w", paths[i], r.err)
		}
	}
	for _, r := range results {
		if err := st.Append(r.batch.Records); err != nil {
			return nil, err
		}
		result.Records += len(r.batch.Records)
		result.Imports = append(result.Imports, ImportResult{
			BatchID:  uuid.NewString(),
			Format:   r.format,
			Count:    len(r.batch.Records),
			Warnings: r.batch.Warnings,
			Raw:      r.batch.Raw,
		})
	}
	return result, nil
}
