package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go-candidate-scout/config"
	"go-candidate-scout/internal/bootstrap"
	"go-candidate-scout/internal/domain"
	"go-candidate-scout/pkg/audit"
	"go-candidate-scout/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "Candidate Scout CLI",
	Long: `Scout browses GitHub profiles as hiring candidates and manages the saved list.
Configuration comes from the same environment (and .env file) as the API server;
flags and SCOUT_* variables override the scope, the store driver and output format.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("scope", domain.DefaultScope, "saved-list scope")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("store", "", "store driver (overrides STORE_DRIVER)")
	rootCmd.PersistentFlags().Bool("verbose", false, "log progress to stderr")
	_ = viper.BindPFlag("scope", rootCmd.PersistentFlags().Lookup("scope"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("store", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func registerCommands() {
	rootCmd.AddCommand(nextCmd())
	rootCmd.AddCommand(savedCmd())
}

func nextCmd() *cobra.Command {
	var accept bool
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Find the next displayable candidate",
		Long:  "Fetches a random batch of GitHub users and walks it until a profile with a real avatar turns up. This honors the directory pacing delays, so it takes several seconds.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				state, err := app.AcquisitionUC.Next(ctx)
				if err != nil {
					return err
				}
				if state.Status == domain.StatusError {
					return fmt.Errorf("%s", state.Message)
				}
				if accept {
					if err := app.SavedUC.Accept(ctx, state.Candidate); err != nil {
						return err
					}
				}
				if viper.GetBool("json") {
					return printJSON(state)
				}
				printCandidate(state.Candidate, accept)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&accept, "accept", false, "save the candidate that was found")
	return cmd
}

func savedCmd() *cobra.Command {
	saved := &cobra.Command{Use: "saved", Short: "Manage saved candidates"}
	saved.AddCommand(savedListCmd())
	saved.AddCommand(savedRemoveCmd())
	saved.AddCommand(savedExportCmd())
	return saved
}

func savedListCmd() *cobra.Command {
	var (
		term string
		sort string
		desc bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved candidates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				view, err := applyView(ctx, app.SavedUC, term, sort, desc)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(view)
				}
				printSaved(view)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&term, "q", "q", "", "search term")
	cmd.Flags().StringVar(&sort, "sort", "", "sort field (name, location, company)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func savedRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a saved candidate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				view, err := app.SavedUC.Remove(ctx, id)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(view)
				}
				printSaved(view)
				return nil
			})
		},
	}
}

func savedExportCmd() *cobra.Command {
	var (
		format  string
		out     string
		term    string
		sort    string
		desc    bool
		archive bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved candidates to xlsx or csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
				if _, err := applyView(ctx, app.SavedUC, term, sort, desc); err != nil {
					return err
				}
				if archive {
					location, err := app.SavedUC.Archive(ctx, format)
					if err != nil {
						return err
					}
					fmt.Println(location)
					return nil
				}
				file, err := app.SavedUC.Export(ctx, format)
				if err != nil {
					return err
				}
				path := out
				if path == "" {
					path = file.Filename
				}
				if err := os.WriteFile(path, file.Data, 0o644); err != nil {
					return err
				}
				fmt.Println(path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "xlsx", "export format (xlsx, csv)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: generated name)")
	cmd.Flags().StringVarP(&term, "q", "q", "", "search term")
	cmd.Flags().StringVar(&sort, "sort", "", "sort field (name, location, company)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	cmd.Flags().BoolVar(&archive, "archive", false, "upload to archive storage instead of writing a file")
	return cmd
}

// applyView replays search and sort on a fresh view; each CLI run starts from storage.
func applyView(ctx context.Context, uc domain.SavedCandidateUsecase, term, sort string, desc bool) (*domain.SavedView, error) {
	view, err := uc.Load(ctx)
	if err != nil {
		return nil, err
	}
	if term != "" {
		if view, err = uc.Search(ctx, term); err != nil {
			return nil, err
		}
	}
	if sort != "" {
		field, err := domain.ParseSortField(sort)
		if err != nil {
			return nil, err
		}
		if view, err = uc.SortBy(ctx, field); err != nil {
			return nil, err
		}
		if desc {
			if view, err = uc.SortBy(ctx, field); err != nil {
				return nil, err
			}
		}
	}
	return view, nil
}

func withApp(ctx context.Context, fn func(context.Context, *bootstrap.App) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if store := viper.GetString("store"); store != "" {
		cfg.StoreDriver = strings.ToLower(store)
	}

	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger.InitWithWriter(os.Stderr, cfg.LogFile, level)

	app, err := bootstrap.New(ctx, cfg, bootstrap.WithAudit(audit.NewWithOutput("stderr")))
	if err != nil {
		return err
	}
	defer app.Close()

	return fn(domain.WithScope(ctx, viper.GetString("scope")), app)
}

func printCandidate(c *domain.CandidateProfile, saved bool) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendRows([]table.Row{
		{"ID", c.ID},
		{"Login", c.Login},
		{"Name", c.DisplayName()},
		{"Location", c.Field(domain.SortByLocation)},
		{"Company", c.Field(domain.SortByCompany)},
		{"Email", deref(c.Email)},
		{"Bio", deref(c.Bio)},
		{"Profile", c.HTMLURL},
		{"Avatar", c.AvatarURL},
	})
	if saved {
		tw.AppendFooter(table.Row{"", "saved"})
	}
	tw.Render()
}

func printSaved(view *domain.SavedView) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"ID", "Login", header("Name", domain.SortByName, view), header("Location", domain.SortByLocation, view), header("Company", domain.SortByCompany, view), "Email"})
	for _, c := range view.Candidates {
		tw.AppendRow(table.Row{c.ID, c.Login, c.Field(domain.SortByName), c.Field(domain.SortByLocation), c.Field(domain.SortByCompany), deref(c.Email)})
	}
	tw.AppendFooter(table.Row{"", "", "", "", "Shown", fmt.Sprintf("%d / %d", len(view.Candidates), view.Total)})
	tw.Render()
}

func header(title string, field domain.SortField, view *domain.SavedView) string {
	if view.SortField != field {
		return title
	}
	if view.SortDirection == domain.SortDesc {
		return title + " ▼"
	}
	return title + " ▲"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
