// Package cli implements routectl, a command line client that runs route cycles
// against the maps provider without starting the HTTP service.
package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-route/internal/config"
	"github.com/Kilat-Pet-Delivery/service-route/internal/directions"
	"github.com/Kilat-Pet-Delivery/service-route/internal/domain/route"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/logger"
)

// Provider is what routectl needs from the maps backend.
type Provider interface {
	route.DirectionsProvider
	route.PlaceResolver
}

// ProviderFactory builds the provider from the loaded configuration.
type ProviderFactory func(cfg *config.ServiceConfig, log *zap.Logger) (Provider, error)

// GoogleProviderFactory builds the Google Maps provider.
func GoogleProviderFactory(cfg *config.ServiceConfig, log *zap.Logger) (Provider, error) {
	return directions.NewGoogleProvider(cfg.MapsConfig, log)
}

var (
	errorColor = color.New(color.FgRed, color.Bold)
	labelColor = color.New(color.FgCyan)
)

type options struct {
	factory ProviderFactory
	apiKey  string
	verbose bool
	json    bool
}

// NewRootCommand builds the routectl command tree.
func NewRootCommand(factory ProviderFactory) *cobra.Command {
	opts := &options{factory: factory}

	root := &cobra.Command{
		Use:   "routectl",
		Short: "Run route requests against the maps provider",
		Long: `routectl runs the same route cycle as the route service from the command line:
validate the endpoints, request directions, and print the trip statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	root.PersistentFlags().StringVar(&opts.apiKey, "api-key", "", "Google Maps API key (defaults to ROUTE_GOOGLE_MAPS_API_KEY)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests and dump full results")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print machine-readable JSON")

	root.AddCommand(newRouteCommand(opts))
	root.AddCommand(newPlacesCommand(opts))
	return root
}

// Execute runs routectl with the Google provider.
func Execute(version string) error {
	root := NewRootCommand(GoogleProviderFactory)
	if version != "" {
		root.Version = version
	}
	return root.Execute()
}

func (o *options) provider() (Provider, *config.ServiceConfig, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if o.apiKey != "" {
		cfg.MapsConfig.APIKey = o.apiKey
	}

	log := zap.NewNop()
	if o.verbose {
		log, err = logger.New("development")
		if err != nil {
			return nil, nil, nil, err
		}
	}

	p, err := o.factory(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return p, cfg, log, nil
}
