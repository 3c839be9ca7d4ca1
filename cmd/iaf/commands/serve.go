package commands

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/pkg/errors"

	"iaf/internal/cachesim"
	"iaf/internal/sampling"
	"iaf/internal/streamer"
	"iaf/internal/trace"
	"iaf/internal/watch"
)

// ServeCommand streams progress over a WebSocket connection as a
// BoundedStreamer works through a trace: every 65536 accesses it sends the
// count processed and the duplicates seen so far (living count and chunk
// size are not filled in), then it sends the final success curve. This
// supplements the original's static command-line tools with a
// live-observability surface.
func ServeCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	minChunk := fs.Uint64("min-chunk", 0, "minimum chunk size")
	sampleRate := fs.Int("sample-rate", 0, "1-in-rate address admission sampling (0 disables)")
	sampleSeed := fs.Uint64("sample-seed", 1, "sampling hash seed")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 3 && len(rest) != 4 {
		return fmt.Errorf("usage: serve [flags] <addr> <sim> <trace> [format]\n  sim: bound_iaf|k_lim_iaf\n  format: INT|HEX (default INT)")
	}
	addr, simName, traceFile := rest[0], rest[1], rest[2]
	formatArg := "INT"
	if len(rest) == 4 {
		formatArg = rest[3]
	}

	variant, err := cachesim.ParseVariant(simName)
	if err != nil {
		return errors.Wrap(err, "serve")
	}
	if variant != cachesim.BoundedIAF && variant != cachesim.CappedIAF {
		return fmt.Errorf("serve only supports bound_iaf|k_lim_iaf, got %s", simName)
	}
	format, err := trace.ParseFormat(formatArg)
	if err != nil {
		return errors.Wrap(err, "serve")
	}

	f, err := os.Open(traceFile)
	if err != nil {
		return errors.Wrapf(err, "serve: opening %s", traceFile)
	}
	requests, err := trace.Read(f, format)
	f.Close()
	if err != nil {
		return errors.Wrap(err, "serve: reading trace")
	}

	var sampler *sampling.Adapter
	if *sampleRate > 1 {
		sampler = sampling.New(*sampleSeed, *sampleRate)
	}
	s := streamer.New(streamer.Options{MinChunkSize: *minChunk, Sampler: sampler})
	srv := watch.NewServer()

	mux := http.NewServeMux()
	mux.HandleFunc("/progress", srv.Handler())

	httpServer := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("serve: http server stopped: %v", err)
		}
	}()
	fmt.Fprintf(os.Stderr, "serving progress on ws://%s/progress (run %s)\n", addr, srv.RunID())

	const progressEvery = 1 << 16
	for i, addr := range requests {
		s.MemoryAccess(addr)
		if (i+1)%progressEvery == 0 {
			_ = srv.Broadcast(watch.Progress{
				Processed:  uint64(i + 1),
				Duplicates: s.Duplicates(),
			})
		}
	}

	success := s.SuccessFunction()
	successU := make([]uint64, len(success))
	for i, v := range success {
		successU[i] = uint64(v)
	}
	_ = srv.Broadcast(watch.Progress{
		Processed:    uint64(len(requests)),
		Duplicates:   s.Duplicates(),
		Done:         true,
		SuccessSoFar: successU,
	})

	return httpServer.Close()
}
