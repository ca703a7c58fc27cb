package sources

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/onvo-app/onvo-cli/internal/app"
	"github.com/onvo-app/onvo-cli/internal/source"
)

const probeLimit = 4

// SourcesCommand lists the content-source index.
var SourcesCommand = &cli.Command{
	Name:  "sources",
	Usage: "List available content sources",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: "Include stopped sources",
		},
		&cli.BoolFlag{
			Name:  "probe",
			Usage: "Check reachability of each working source",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "Path to the config file",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "Enable debug output",
		},
	},
	Action: sourcesAction,
}

func sourcesAction(ctx context.Context, cmd *cli.Command) error {
	a, err := app.FromCommand(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	list, err := a.Client.FetchSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch sources: %w", err)
	}
	if !cmd.Bool("all") {
		kept := list[:0]
		for _, s := range list {
			if s.State != source.StateStopped {
				kept = append(kept, s)
			}
		}
		list = kept
	}
	if len(list) == 0 {
		fmt.Println("No sources available")
		return nil
	}

	var reachable []string
	if cmd.Bool("probe") {
		reachable = probe(ctx, a.Config.Timeout(), list)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tAPI\tSTATE\tBASE URL")
	for i, s := range list {
		state := string(s.State)
		if reachable != nil {
			state = fmt.Sprintf("%s (%s)", state, reachable[i])
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.API, state, s.BaseURL)
	}
	return w.Flush()
}

// probe checks each working source's base URL concurrently and reports
// "up", "down", or "-" for sources that were not probed.
func probe(ctx context.Context, timeout time.Duration, list []source.Source) []string {
	results := make([]string, len(list))
	httpClient := &http.Client{Timeout: timeout}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(probeLimit)
	for i, s := range list {
		if s.State != source.StateWorking || s.BaseURL == "" {
			results[i] = "-"
			continue
		}
		g.Go(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.BaseURL, nil)
			if err != nil {
				results[i] = "down"
				return nil
			}
			resp, err := httpClient.Do(req)
			if err != nil {
				results[i] = "down"
				return nil
			}
			resp.Body.Close()
			results[i] = "up"
			return nil
		})
	}
	g.Wait()
	return results
}
