package sitefold

import (
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"sync"
)

// corpusFile is one immutable snapshot of an input file. data is read once
// at load time and never mutated; rewrites produce fresh byte slices.
type corpusFile struct {
	path string
	kind fileKind
	mode fs.FileMode
	data []byte
}

// fanOut runs work(i) for i in [0, n) across at most parallelism
// goroutines and waits for all of them. Workers must not share mutable
// state; each index owns its slot in any result slice.
func fanOut(n, parallelism int, work func(i int)) {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	if parallelism > n {
		parallelism = n
	}
	if parallelism <= 1 {
		for i := 0; i < n; i++ {
			work(i)
		}
		return
	}

	var wg sync.WaitGroup
	next := make(chan int)
	for w := 0; w < parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				work(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}

// loadCorpus reads every file in parallel. Unreadable files are dropped
// with a warning; one bad file never aborts the pass.
func loadCorpus(paths []string, parallelism int) ([]*corpusFile, []string) {
	loaded := make([]*corpusFile, len(paths))
	errs := make([]error, len(paths))
	fanOut(len(paths), parallelism, func(i int) {
		data, err := os.ReadFile(paths[i])
		if err != nil {
			errs[i] = err
			return
		}
		mode := fs.FileMode(0o644)
		if info, err := os.Stat(paths[i]); err == nil {
			mode = info.Mode().Perm()
		}
		loaded[i] = &corpusFile{path: paths[i], kind: kindOf(paths[i]), mode: mode, data: data}
	})

	files := make([]*corpusFile, 0, len(paths))
	var warnings []string
	for i, f := range loaded {
		if f == nil {
			warnings = append(warnings, fmt.Sprintf("%s: %v", paths[i], errs[i]))
			continue
		}
		files = append(files, f)
	}
	return files, warnings
}
