package rsakey_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/random"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/rsa"
	"github.com/coinbase/cb-mpi-go/pkg/cbmpi/rsakey"
)

// TestConcurrentGeneration runs independent generations in parallel, each
// with its own random source, sharing only the default small-prime table.
func TestConcurrentGeneration(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	const numGoroutines = 8

	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines)
	moduli := make([]string, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			src, err := random.NewDeterministic([]byte(fmt.Sprintf("goroutine-%d", id)))
			if err != nil {
				errs <- fmt.Errorf("goroutine %d: source: %v", id, err)
				return
			}
			key, err := rsakey.Generate(ctx, 256, rsakey.WithSource(src))
			if err != nil {
				errs <- fmt.Errorf("goroutine %d: generate: %v", id, err)
				return
			}

			m := u(uint64(id)*1000 + 42)
			c, err := rsa.Encrypt(key.Public(), m)
			if err != nil {
				errs <- fmt.Errorf("goroutine %d: encrypt: %v", id, err)
				return
			}
			got, err := rsa.DecryptCRT(key, c)
			if err != nil {
				errs <- fmt.Errorf("goroutine %d: decrypt: %v", id, err)
				return
			}
			if !got.Equal(m) {
				errs <- fmt.Errorf("goroutine %d: decrypted %s, want %s", id, got, m)
				return
			}
			moduli[id] = key.N().String()
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	seen := make(map[string]bool, numGoroutines)
	for id, n := range moduli {
		if seen[n] {
			t.Errorf("goroutine %d produced a duplicate modulus", id)
		}
		seen[n] = true
	}
}
