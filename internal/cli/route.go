package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kr/pretty"
	"github.com/spf13/cobra"

	"github.com/Kilat-Pet-Delivery/service-route/internal/application"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/session"
	"github.com/Kilat-Pet-Delivery/service-route/internal/events"
	"github.com/Kilat-Pet-Delivery/service-route/internal/panel"
	"github.com/Kilat-Pet-Delivery/service-route/internal/repository"
)

// ErrRouteFailed is returned when the cycle ends without a rendered route.
var ErrRouteFailed = errors.New("route failed")

type routeResult struct {
	Stats     *panel.Stats `json:"stats,omitempty"`
	ErrorKind string       `json:"error_kind,omitempty"`
	Message   string       `json:"message,omitempty"`
}

func newRouteCommand(opts *options) *cobra.Command {
	var (
		from    string
		to      string
		mode    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Request a route and print its statistics",
		Example: `  routectl route --from 31.5204,74.3587 --to 24.8607,67.0011 --mode walking
  routectl route --from 31.5204,74.3587 --to 24.8607,67.0011 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, cfg, log, err := opts.provider()
			if err != nil {
				return err
			}
			if timeout <= 0 {
				timeout = cfg.RequestTimeout
			}

			svc := application.NewRouteService(
				repository.NewMemorySessionRepository(),
				provider,
				provider,
				events.NewLogPublisher(log),
				nil,
				timeout,
				log,
			)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			dto, err := runCycle(ctx, svc, from, to, mode)
			if err != nil {
				return err
			}
			return printRoute(cmd.OutOrStdout(), cmd.ErrOrStderr(), dto, opts)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "starting point as lat,lng")
	cmd.Flags().StringVar(&to, "to", "", "destination as lat,lng")
	cmd.Flags().StringVar(&mode, "mode", route.DefaultTravelMode.String(), "travel mode: driving, walking, transit or bicycling")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "request timeout (defaults to ROUTE_MAPS_REQUEST_TIMEOUT)")
	return cmd
}

// runCycle drives one session through the same steps the browser takes.
func runCycle(ctx context.Context, svc *application.RouteService, from, to, mode string) (*application.SessionDTO, error) {
	dto, err := svc.CreateSession(ctx)
	if err != nil {
		return nil, err
	}

	if err := commitCoordinates(ctx, svc, dto, session.RoleOrigin, from); err != nil {
		return nil, err
	}
	if err := commitCoordinates(ctx, svc, dto, session.RoleDestination, to); err != nil {
		return nil, err
	}
	if _, err := svc.SelectTravelMode(ctx, dto.ID, mode); err != nil {
		return nil, err
	}
	return svc.SubmitRoute(ctx, dto.ID)
}

// commitCoordinates commits a lat,lng flag. An empty or unparsable value commits an
// unresolved endpoint so validation reports it like the form would.
func commitCoordinates(ctx context.Context, svc *application.RouteService, dto *application.SessionDTO, role session.Role, raw string) error {
	req := application.CommitPlaceRequest{Label: raw}
	if at, err := route.ParseLatLng(raw); err == nil {
		req.Lat, req.Lng = &at.Lat, &at.Lng
	}
	_, err := svc.CommitPlace(ctx, dto.ID, role, req)
	return err
}

func printRoute(out, errOut io.Writer, dto *application.SessionDTO, opts *options) error {
	result := routeResult{Stats: dto.Stats, ErrorKind: dto.ErrorKind}
	if dto.ErrorKind != "" {
		result.Message = route.ErrorKind(dto.ErrorKind).Message()
	}

	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	case result.Stats != nil:
		printStats(out, *result.Stats)
	}

	if opts.verbose {
		_, _ = pretty.Fprintf(out, "%# v\n", dto.Scene)
	}

	if result.ErrorKind != "" {
		if !opts.json {
			_, _ = errorColor.Fprintln(errOut, result.Message)
		}
		return fmt.Errorf("%w: %s", ErrRouteFailed, result.ErrorKind)
	}
	return nil
}

func printStats(out io.Writer, s panel.Stats) {
	row := func(label, value string) {
		_, _ = labelColor.Fprintf(out, "%-14s", label)
		_, _ = fmt.Fprintln(out, value)
	}
	row("Distance", s.Distance)
	row("Duration", s.Duration)
	if s.DurationInTraffic != "" {
		row("With Traffic", s.DurationInTraffic)
	}
	row("Travel Mode", s.TravelMode)
}
