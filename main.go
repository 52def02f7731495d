package main

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-injector/framework/app"
	"github.com/km-arc/go-injector/framework/container"
	"github.com/km-arc/go-injector/framework/definitions"
)

func main() {
	if err := newRootCmd(bootstrap).Execute(); err != nil {
		os.Exit(1)
	}
}

// ── Example classes ──────────────────────────────────────────────────────────

// Mailer is an example class for definition files:
//
//	mailer:
//	  class: app.Mailer
//	  arguments: ["%mail.host%", "%mail.port%"]
type Mailer struct {
	Host string
	Port int
}

func NewMailer(host string, port int) *Mailer {
	return &Mailer{Host: host, Port: port}
}

// Newsletter depends on a Mailer:
//
//	newsletter:
//	  class: app.Newsletter
//	  arguments: ["@mailer", ["%mail.from%"]]
type Newsletter struct {
	Mailer     *Mailer
	Recipients []string
}

func NewNewsletter(m *Mailer, recipients []string) *Newsletter {
	return &Newsletter{Mailer: m, Recipients: recipients}
}

// registerTypes makes the example classes available to definition files.
func registerTypes(types *container.TypeRegistry) error {
	if err := types.RegisterFunc("app.Mailer", NewMailer, 25); err != nil {
		return err
	}
	return types.RegisterFunc("app.Newsletter", NewNewsletter, []string{})
}

// bootstrap builds and boots the application from .env files and the
// environment.
func bootstrap(envFiles []string) (*app.Application, error) {
	a, err := app.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	if err := registerTypes(a.Types()); err != nil {
		_ = a.Close()
		return nil, err
	}
	if err := a.Boot(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// ── Commands ─────────────────────────────────────────────────────────────────

type bootstrapFunc func(envFiles []string) (*app.Application, error)

// appRunE adapts a command body that needs a booted application.
type appRunE func(fn func(cmd *cobra.Command, a *app.Application, args []string) error) func(*cobra.Command, []string) error

func newRootCmd(boot bootstrapFunc) *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:          "injector",
		Short:        "Service container with YAML definitions and an HTTP inspector",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, ".env files to load (default .env)")

	var withApp appRunE = func(fn func(cmd *cobra.Command, a *app.Application, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := boot(envFiles)
			if err != nil {
				return err
			}
			defer a.Close()
			return fn(cmd, a, args)
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the container inspector over HTTP",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, a *app.Application, _ []string) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return a.Run(ctx)
			}),
		},
		servicesCmd(withApp),
		&cobra.Command{
			Use:   "params",
			Short: "Print all parameters as YAML",
			Args:  cobra.NoArgs,
			RunE: withApp(func(cmd *cobra.Command, a *app.Application, _ []string) error {
				return definitions.Encode(cmd.OutOrStdout(), &definitions.File{Parameters: a.Parameters()})
			}),
		},
		&cobra.Command{
			Use:   "load <name>",
			Short: "Load a service and print it",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app.Application, args []string) error {
				v, err := a.LoadService(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%T %+v\n", v, v)
				return nil
			}),
		},
	)
	return root
}

func servicesCmd(withApp appRunE) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "services",
		Short: "List registered services",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app.Application, _ []string) error {
			if asYAML {
				return definitions.Encode(cmd.OutOrStdout(), &definitions.File{Services: definitions.Export(a.Container).Services})
			}

			defs := a.RegisteredServices()
			names := make([]string, 0, len(defs))
			for name := range defs {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCLASS\tARGUMENTS\tLOADED")
			for _, name := range names {
				svc := definitions.Describe(defs[name])
				args := make([]string, len(svc.Arguments))
				for i, arg := range svc.Arguments {
					args[i] = fmt.Sprint(arg)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", name, svc.Class, strings.Join(args, ", "), a.IsLoaded(name))
			}
			return w.Flush()
		}),
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print definitions as YAML")
	return cmd
}
