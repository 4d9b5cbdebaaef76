// Package procpool is a single-host pool of long-lived worker processes.
//
// A coordinator spawns workers (by default the current binary started with
// the "worker" subcommand), grants jobs to idle ones, queues the rest and
// routes results back to promises over a 0x00 delimited message protocol on
// the workers' standard input and output.
//
// The same binary serves both roles:
//
//	srv, _ := procpool.New(procpool.WithConfig(cfg))
//	if len(os.Args) > 1 && os.Args[1] == "worker" {
//		os.Exit(srv.ServeWorker(ctx, os.Stdin, os.Stdout))
//	}
//	_ = srv.Start(ctx)
//	_ = srv.Dispatch(ctx, promise.Make("debug.echo", 5).Then(...))
//	_ = srv.Wait(ctx)
//	_ = srv.Close()
package procpool
