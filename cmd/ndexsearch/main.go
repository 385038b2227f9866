// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/ndexsearch"
	"github.com/poiesic/ndexsearch/config"
	"github.com/poiesic/ndexsearch/core"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ndexsearch",
		Usage: "Federated gene list search across NDEx network sources",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "conf",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (yaml, json or toml)",
			},
		},
		Before:   setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "exampleconf",
				Usage:  "Print an example configuration file",
				Action: exampleConfCommand,
			},
			{
				Name:   "examplesourceconfig",
				Usage:  "Print an example source configurations file",
				Action: exampleSourceConfigCommand,
			},
			{
				Name:      "query",
				Usage:     "Submit a gene list, wait for it to finish and print the results",
				ArgsUsage: "GENE [GENE...]",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "source",
						Aliases: []string{"s"},
						Usage:   "Source to search (repeatable, defaults to every configured source)",
					},
					&cli.DurationFlag{
						Name:  "poll",
						Usage: "Interval between status checks",
						Value: time.Second,
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Give up waiting after this long",
						Value: 10 * time.Minute,
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Maximum results across all sources, in rank order (0 for all)",
					},
				},
			},
			{
				Name:   "sources",
				Usage:  "Refresh and print the source catalog",
				Action: sourcesCommand,
			},
			{
				Name:      "status",
				Usage:     "Print the status of a task",
				ArgsUsage: "TASK_ID",
				Action:    statusCommand,
			},
			{
				Name:      "results",
				Usage:     "Print the results of a task",
				ArgsUsage: "TASK_ID",
				Action:    resultsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "source",
						Usage: "Comma separated source names to include",
					},
					&cli.IntFlag{
						Name:  "start",
						Usage: "Index of the first result",
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Number of results (0 for all)",
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete a task and its backend tasks",
				ArgsUsage: "TASK_ID",
				Action:    deleteCommand,
			},
		},
	}
}

func exampleConfCommand(c *cli.Context) error {
	fmt.Fprint(c.App.Writer, config.ExampleConfig())
	return nil
}

func exampleSourceConfigCommand(c *cli.Context) error {
	return writeJSON(c, config.ExampleSourceConfigurations())
}

func queryCommand(c *cli.Context) error {
	genes := c.Args().Slice()
	if len(genes) == 0 {
		return fmt.Errorf("at least one gene is required")
	}
	if c.Duration("poll") <= 0 {
		return fmt.Errorf("poll must be greater than 0")
	}

	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()
	svc.Start()

	sources := c.StringSlice("source")
	if len(sources) == 0 {
		for _, sc := range svc.Sources().Sources {
			sources = append(sources, sc.Name)
		}
	}

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	eng := svc.Engine()
	id, err := eng.Query(ctx, &core.Query{GeneList: genes, SourceList: sources})
	if err != nil {
		return fmt.Errorf("failed to submit query: %w", err)
	}

	tracker := newProgressTracker(c.App.ErrWriter, id)
	tracker.Start()

	ticker := time.NewTicker(c.Duration("poll"))
	defer ticker.Stop()
	for {
		status, err := eng.GetQueryStatus(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get status of task %s: %w", id, err)
		}
		tracker.Update(status.Progress, status.Status)
		if core.IsTerminalStatus(status.Status) {
			break
		}
		select {
		case <-ctx.Done():
			tracker.Finish()
			return fmt.Errorf("task %s did not finish: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
	tracker.Finish()

	res, err := eng.GetQueryResults(ctx, id, "", 0, c.Int("size"))
	if err != nil {
		return fmt.Errorf("failed to get results of task %s: %w", id, err)
	}
	slog.Info("query finished", "task", id, "status", res.Status, "hits", res.NumberOfHits, "elapsed", tracker.Elapsed())
	return writeJSON(c, res)
}

func sourcesCommand(c *cli.Context) error {
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	return writeJSON(c, svc.Engine().RefreshCatalog(c.Context))
}

func statusCommand(c *cli.Context) error {
	id, err := taskArg(c)
	if err != nil {
		return err
	}
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	status, err := svc.Engine().GetQueryStatus(c.Context, id)
	if err != nil {
		return err
	}
	return writeJSON(c, status)
}

func resultsCommand(c *cli.Context) error {
	id, err := taskArg(c)
	if err != nil {
		return err
	}
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.Engine().GetQueryResults(c.Context, id, c.String("source"), c.Int("start"), c.Int("size"))
	if err != nil {
		return err
	}
	return writeJSON(c, res)
}

func deleteCommand(c *cli.Context) error {
	id, err := taskArg(c)
	if err != nil {
		return err
	}
	svc, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Engine().Delete(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "deleted %s\n", id)
	return nil
}

func openService(c *cli.Context) (*ndexsearch.Service, error) {
	cfg, err := config.Load(c.String("conf"))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	svc, err := ndexsearch.NewService(cfg, ndexsearch.WithLogger(slog.Default()))
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

func taskArg(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("exactly one task id is required")
	}
	return c.Args().First(), nil
}

func writeJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
