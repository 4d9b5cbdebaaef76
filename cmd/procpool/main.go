package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"github.com/viant/procpool"
	"github.com/viant/procpool/model/message"
	"github.com/viant/procpool/service/handle"
	"github.com/viant/procpool/service/promise"
	"go.uber.org/zap"
)

var (
	configURL string
	verbose   bool
	workers   int
	handler   string
	args      string
	count     int
)

var rootCmd = &cobra.Command{
	Use:           "procpool",
	Short:         "Runs tasks on a pool of worker processes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var workerCmd = &cobra.Command{
	Use:    "worker",
	Short:  "Serves the worker protocol on stdin/stdout",
	Hidden: true,
	Run: func(cmd *cobra.Command, _ []string) {
		srv, err := newService(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "procpool worker failed %v\n", err)
			os.Exit(1)
		}
		os.Exit(srv.ServeWorker(cmd.Context(), os.Stdin, os.Stdout))
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Dispatches a task to the pool and prints its results",
	RunE:  runFunc,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configURL, "config", "c", "", "pool configuration URL (yaml or json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")
	runCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of workers, overrides config")
	runCmd.Flags().StringVar(&handler, "handler", "debug.echo", "task handler (service.method)")
	runCmd.Flags().StringVarP(&args, "args", "a", "null", "task arguments as JSON")
	runCmd.Flags().IntVarP(&count, "count", "n", 1, "number of jobs to dispatch")
	rootCmd.AddCommand(workerCmd, runCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "procpool failed %v\n", err)
		os.Exit(1)
	}
}

func newService(ctx context.Context) (*procpool.Service, error) {
	config := procpool.DefaultConfig()
	if configURL != "" {
		var err error
		if config, err = procpool.LoadConfig(ctx, configURL); err != nil {
			return nil, err
		}
	}
	if workers > 0 {
		config.Workers = workers
	}
	logger := zap.NewNop()
	if verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}
	return procpool.New(procpool.WithConfig(config), procpool.WithLogger(logger))
}

func runFunc(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	var input interface{}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return fmt.Errorf("invalid args %q: %w", args, err)
	}
	srv, err := newService(ctx)
	if err != nil {
		return err
	}
	if err = srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Close()
	var mux sync.Mutex
	srv.Coordinator().OnHint(func(hint *message.Hint, h *handle.Handle) {
		mux.Lock()
		defer mux.Unlock()
		fmt.Fprintf(os.Stderr, "[%d] %v\n", h.Index(), hint.Message)
	})
	jobs := make([]*promise.Promise, 0, count)
	for i := 0; i < count; i++ {
		job := i
		jobs = append(jobs, promise.Make(handler, input).
			Then(func(result interface{}) (interface{}, error) {
				data, err := json.Marshal(result)
				if err != nil {
					return nil, err
				}
				mux.Lock()
				defer mux.Unlock()
				fmt.Printf("%d: %s\n", job, data)
				return nil, nil
			}).
			Catch(func(err error) (interface{}, error) {
				mux.Lock()
				defer mux.Unlock()
				fmt.Fprintf(os.Stderr, "%d: %v\n", job, err)
				return nil, nil
			}))
	}
	if err = srv.Dispatch(ctx, jobs); err != nil {
		return err
	}
	return srv.Wait(ctx)
}
